package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // sqlite driver for database/sql

	"specweaver/internal/diagnostic"
	"specweaver/internal/entity"
	"specweaver/internal/pipeline"
)

// Reference row statuses stored in the refs table.
const (
	StatusResolved   = "resolved"
	StatusUnresolved = "unresolved"
	StatusExternal   = "external"
)

// Store persists runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// RunInfo is one stored run.
type RunInfo struct {
	ID         string
	CreatedAt  time.Time
	Entities   int
	Resolved   int
	Unresolved int
	External   int
	Errors     int
	Warnings   int
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA synchronous=NORMAL;",
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(context.Background(), p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %s: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		entities INTEGER NOT NULL,
		resolved INTEGER NOT NULL,
		unresolved INTEGER NOT NULL,
		external INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS entities (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		fqn TEXT NOT NULL,
		package TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		stereotype TEXT NOT NULL,
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		end_line INTEGER NOT NULL DEFAULT 0,
		external_deps TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (run_id, fqn),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS members (
		run_id TEXT NOT NULL,
		owner TEXT NOT NULL,
		member_kind TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		visibility TEXT NOT NULL,
		line INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (run_id, owner) REFERENCES entities(run_id, fqn) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS relationships (
		run_id TEXT NOT NULL,
		owner TEXT NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		kind TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		line INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (run_id, owner) REFERENCES entities(run_id, fqn) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS refs (
		run_id TEXT NOT NULL,
		status TEXT NOT NULL,
		owner TEXT NOT NULL,
		member TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL,
		expression TEXT NOT NULL DEFAULT '',
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		suggestions TEXT NOT NULL DEFAULT '[]',
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS diagnostics (
		run_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		code TEXT NOT NULL,
		message TEXT NOT NULL,
		fqn TEXT NOT NULL DEFAULT '',
		path TEXT NOT NULL DEFAULT '',
		line INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_refs_run_status ON refs(run_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_members_owner ON members(run_id, owner);`,
}

func ensureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

// SaveRun writes one run in a single transaction. It returns the FQNs of
// entities caught in an inheritance cycle; those are stored after the
// orderable ones.
func (s *Store) SaveRun(ctx context.Context, res *pipeline.Result) (cyclic []string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	runID := res.RunID.String()
	sum := res.Report.Summary()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, entities, resolved, unresolved, external, errors, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339Nano), len(res.Entities),
		sum.Resolved, sum.Unresolved, sum.External, sum.Errors, sum.Warnings)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	ordered, cyclic := HierarchyOrder(res.Entities)

	for pos, e := range ordered {
		if err = insertEntity(ctx, tx, runID, pos, e); err != nil {
			return nil, err
		}
	}

	if err = insertReport(ctx, tx, runID, res.Report); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}

	return cyclic, nil
}

func insertEntity(ctx context.Context, tx *sql.Tx, runID string, pos int, e *entity.EntitySpec) error {
	deps, err := json.Marshal(nonNil(e.ExternalDependencies()))
	if err != nil {
		return fmt.Errorf("encode external deps of %s: %w", e.FQN, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entities (run_id, position, fqn, package, name, kind, stereotype, file, line, end_line, external_deps)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, pos, e.FQN, e.Package, e.Name, string(e.Kind), string(e.Stereotype),
		e.File, e.Line, e.EndLine, string(deps))
	if err != nil {
		return fmt.Errorf("insert entity %s: %w", e.FQN, err)
	}

	const memberSQL = `INSERT INTO members (run_id, owner, member_kind, name, type, category, visibility, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, p := range e.Properties {
		_, err = tx.ExecContext(ctx, memberSQL, runID, e.FQN, "property", p.Name, p.Type,
			string(p.Category), string(p.Visibility), p.Line)
		if err != nil {
			return fmt.Errorf("insert property %s.%s: %w", e.FQN, p.Name, err)
		}
	}

	for _, m := range e.Methods {
		_, err = tx.ExecContext(ctx, memberSQL, runID, e.FQN, "method", m.Name, m.ReturnType,
			string(m.Category), string(m.Visibility), m.Line)
		if err != nil {
			return fmt.Errorf("insert method %s.%s: %w", e.FQN, m.Name, err)
		}
	}

	for _, r := range e.Relationships {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO relationships (run_id, owner, source, target, kind, label, line)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, e.FQN, r.Source, r.Target, string(r.Kind), r.Label, r.Line)
		if err != nil {
			return fmt.Errorf("insert relationship of %s: %w", e.FQN, err)
		}
	}

	return nil
}

func insertReport(ctx context.Context, tx *sql.Tx, runID string, report *diagnostic.Report) error {
	groups := []struct {
		status string
		rows   []diagnostic.ReferenceRow
	}{
		{StatusResolved, report.Resolved},
		{StatusUnresolved, report.Unresolved},
		{StatusExternal, report.External},
	}

	for _, g := range groups {
		for _, row := range g.rows {
			suggestions, err := json.Marshal(nonNil(row.Suggestions))
			if err != nil {
				return fmt.Errorf("encode suggestions: %w", err)
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO refs (run_id, status, owner, member, target, expression, file, line, suggestions)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				runID, g.status, row.Owner, row.Member, row.Target, row.Expression, row.File, row.Line,
				string(suggestions))
			if err != nil {
				return fmt.Errorf("insert %s reference %s: %w", g.status, row, err)
			}
		}
	}

	for _, d := range append(append([]diagnostic.Diagnostic{}, report.Errors...), report.Warnings...) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO diagnostics (run_id, severity, code, message, fqn, path, line)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, d.Severity.String(), d.Code, d.Message, d.FQN, d.Path, d.Line)
		if err != nil {
			return fmt.Errorf("insert diagnostic %s: %w", d.Code, err)
		}
	}

	return nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, entities, resolved, unresolved, external, errors, warnings
		 FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo

	for rows.Next() {
		var (
			info    RunInfo
			created string
		)

		if err := rows.Scan(&info.ID, &created, &info.Entities, &info.Resolved, &info.Unresolved,
			&info.External, &info.Errors, &info.Warnings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		info.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse run time %q: %w", created, err)
		}

		out = append(out, info)
	}

	return out, rows.Err()
}

// EntityOrder returns the FQNs of a run in stored order.
func (s *Store) EntityOrder(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fqn FROM entities WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var fqn string
		if err := rows.Scan(&fqn); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}

		out = append(out, fqn)
	}

	return out, rows.Err()
}

// References returns the reference rows of a run with the given status, in stored order.
func (s *Store) References(ctx context.Context, runID, status string) ([]diagnostic.ReferenceRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner, member, target, expression, file, line, suggestions
		 FROM refs WHERE run_id = ? AND status = ? ORDER BY rowid`, runID, status)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	defer rows.Close()

	var out []diagnostic.ReferenceRow

	for rows.Next() {
		var (
			row         diagnostic.ReferenceRow
			suggestions string
		)

		if err := rows.Scan(&row.Owner, &row.Member, &row.Target, &row.Expression, &row.File, &row.Line,
			&suggestions); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}

		if err := json.Unmarshal([]byte(suggestions), &row.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}

		if len(row.Suggestions) == 0 {
			row.Suggestions = nil
		}

		out = append(out, row)
	}

	return out, rows.Err()
}

// MemberCount returns the number of stored members of one entity.
func (s *Store) MemberCount(ctx context.Context, runID, fqn string) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members WHERE run_id = ? AND owner = ?`, runID, fqn).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}

	return n, nil
}

// DeleteRun removes a run and everything stored with it.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
