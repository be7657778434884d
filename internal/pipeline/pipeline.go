package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"specweaver/internal/build"
	"specweaver/internal/classdiagram"
	"specweaver/internal/config"
	"specweaver/internal/diagnostic"
	"specweaver/internal/document"
	"specweaver/internal/entity"
	"specweaver/internal/integrate"
	"specweaver/internal/ledger"
	"specweaver/internal/registry"
)

// DocumentSummary describes what was found in one document.
type DocumentSummary struct {
	Path string `json:"path" yaml:"path" msgpack:"path"`
	// Bytes is the size of the document text.
	Bytes int `json:"bytes" yaml:"bytes" msgpack:"bytes"`
	// Blocks counts every fenced code block, diagram or not.
	Blocks int `json:"blocks" yaml:"blocks" msgpack:"blocks"`
	// Diagrams counts routed diagram blocks per kind; kinds with no block are omitted.
	Diagrams map[document.DiagramKind]int `json:"diagrams,omitempty" yaml:"diagrams,omitempty" msgpack:"diagrams,omitempty"`
	Tables   int                          `json:"tables" yaml:"tables" msgpack:"tables"`
	Classes  int                          `json:"classes" yaml:"classes" msgpack:"classes"`
	Failed   bool                         `json:"failed,omitempty" yaml:"failed,omitempty" msgpack:"failed,omitempty"`
}

// Result is the output of one run.
type Result struct {
	RunID uuid.UUID
	// Entities are the registered entity specs in registration order.
	Entities  []*entity.EntitySpec
	Report    *diagnostic.Report
	Documents []DocumentSummary
	// Registry is the frozen registry of the run.
	Registry *registry.Registry
	Elapsed  time.Duration
}

// Failed reports whether the run should be treated as failing under cfg.
func (r *Result) Failed(cfg *config.Config) bool {
	if r.Report.HasErrors() {
		return true
	}

	return cfg != nil && cfg.FailOnUnresolved && len(r.Report.Unresolved) > 0
}

// extraction is the per-document output of the parallel phase.
type extraction struct {
	doc     build.Document
	diags   diagnostic.Diagnostics
	summary DocumentSummary
}

// Run processes sources under cfg. A nil cfg means config.Default() and a nil
// logger means slog.Default(). Run only returns an error when ctx is done;
// every problem found in the documents is reported in Result.Report.
func Run(ctx context.Context, cfg *config.Config, sources []Source, logger *slog.Logger) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if logger == nil {
		logger = slog.Default()
	}

	started := time.Now()
	runID := uuid.New()
	logger = logger.With("run_id", runID.String())

	sorted := slices.Clone(sources)
	slices.SortStableFunc(sorted, func(a, b Source) int {
		return strings.Compare(a.Path, b.Path)
	})

	logger.Info("extracting documents", "documents", len(sorted))

	extracted, err := extractAll(ctx, sorted, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled before build: %w", err)
	}

	reg := registry.New()
	led := ledger.New()
	builder := build.New(reg, led, build.Options{
		DefaultPackage:   cfg.DefaultPackage,
		ExternalPrefixes: cfg.ExternalPrefixes,
	})

	docs := make([]build.Document, 0, len(extracted))
	summaries := make([]DocumentSummary, 0, len(extracted))

	var diags diagnostic.Diagnostics

	for _, ex := range extracted {
		docs = append(docs, ex.doc)
		summaries = append(summaries, ex.summary)
		diags.Merge(ex.diags)
	}

	entities := builder.BuildAll(docs)
	reg.Freeze()

	logger.Info("build finished", "entities", len(entities), "deferred", led.Count())

	report := integrate.New(reg, integrate.Options{
		ExternalPrefixes: cfg.ExternalPrefixes,
		ExternalTypes:    cfg.ExternalTypes,
	}).Validate(led)

	report.RunID = runID.String()
	report.Resolved = slices.Insert(report.Resolved, 0, builder.Resolved()...)

	diags.Merge(builder.Diagnostics())
	report.AddDiagnostics(diags)
	report.SortDiagnostics()

	s := report.Summary()
	logger.Info("integration finished",
		"resolved", s.Resolved,
		"unresolved", s.Unresolved,
		"external", s.External,
		"errors", s.Errors,
		"warnings", s.Warnings,
	)

	return &Result{
		RunID:     runID,
		Entities:  entities,
		Report:    report,
		Documents: summaries,
		Registry:  reg,
		Elapsed:   time.Since(started),
	}, nil
}

// RunDir discovers the documents under root, reads them and runs them.
// Unreadable files become READ_ERROR diagnostics of the report.
func RunDir(ctx context.Context, root string, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	paths, err := Discover(root, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	sources, readDiags := ReadSources(root, paths)

	res, err := Run(ctx, cfg, sources, logger)
	if err != nil {
		return nil, err
	}

	if readDiags.HasErrors() {
		res.Report.AddDiagnostics(readDiags)
		res.Report.SortDiagnostics()
	}

	return res, nil
}

func extractAll(ctx context.Context, sources []Source, cfg *config.Config, logger *slog.Logger) ([]extraction, error) {
	results := make([]extraction, len(sources))
	if len(sources) == 0 {
		return results, nil
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(sources)))

	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			scanner := document.NewScanner()
			defer scanner.Close()

			results[i] = extract(gctx, scanner, src, cfg.DiagramLanguages)

			logger.Debug("document extracted",
				"path", src.Path,
				"blocks", results[i].summary.Blocks,
				"classes", results[i].summary.Classes,
			)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}

	return results, nil
}

// extract scans one document and extracts its class diagrams.
func extract(ctx context.Context, scanner *document.Scanner, src Source, languages []string) extraction {
	ex := extraction{
		doc:     build.Document{Path: src.Path},
		summary: DocumentSummary{Path: src.Path, Bytes: len(src.Text)},
	}

	scan := scanner.Scan(ctx, src.Path, src.Text)
	ex.diags.Merge(scan.Diagnostics)

	if scan.Failed() {
		ex.summary.Failed = true
		return ex
	}

	if w, ok := document.Warning(scan, languages); ok {
		ex.diags.Warnings = append(ex.diags.Warnings, w)
	}

	ex.summary.Blocks = len(scan.Blocks)
	ex.summary.Tables = len(scan.Tables)

	routes := document.Route(scan.Blocks, languages)
	for _, k := range document.Kinds {
		if n := len(routes[k]); n > 0 {
			if ex.summary.Diagrams == nil {
				ex.summary.Diagrams = make(map[document.DiagramKind]int)
			}

			ex.summary.Diagrams[k] = n
		}
	}

	for _, block := range routes[document.KindClass] {
		res := classdiagram.Extract(block)
		ex.doc.Diagrams = append(ex.doc.Diagrams, res)
		ex.summary.Classes += len(res.Classes)

		if res.Failed() {
			ex.summary.Failed = true
		}
	}

	return ex
}
