package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"

	"specweaver/internal/diagnostic"
)

// ErrInvalidUTF8 is reported when a document is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("document is not valid UTF-8")

// ScanResult is the structural content of one document.
type ScanResult struct {
	Path   string
	Blocks []Block
	Tables []Table
	// Diagnostics holds at most one DOCUMENT_ERROR; a failed scan has no blocks or tables.
	Diagnostics diagnostic.Diagnostics
}

// Failed reports whether the document could not be parsed.
func (r *ScanResult) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// Scanner parses Markdown with tree-sitter. A Scanner is not safe for
// concurrent use; create one per goroutine.
type Scanner struct {
	parser *sitter.Parser
}

// NewScanner creates a Scanner with the Markdown block grammar loaded.
func NewScanner() *Scanner {
	p := sitter.NewParser()
	p.SetLanguage(tree_sitter_markdown.GetLanguage())

	return &Scanner{parser: p}
}

// Close releases the underlying parser.
func (s *Scanner) Close() {
	s.parser.Close()
}

// Scan parses a single document with a throwaway Scanner.
func Scan(path, text string) *ScanResult {
	s := NewScanner()
	defer s.Close()

	return s.Scan(context.Background(), path, text)
}

// Scan extracts fenced code blocks and pipe tables from text.
// It never returns an error: a structurally unparsable document yields an
// empty result carrying one DOCUMENT_ERROR diagnostic.
func (s *Scanner) Scan(ctx context.Context, path, text string) *ScanResult {
	res := &ScanResult{Path: path}

	if !utf8.ValidString(text) {
		res.Diagnostics.AddError(diagnostic.CodeDocumentError, ErrInvalidUTF8.Error(), diagnostic.Location{Path: path})
		return res
	}

	content := []byte(text)

	tree, err := s.parser.ParseCtx(ctx, nil, content)
	if err != nil || tree == nil {
		msg := "markdown parser returned no tree"
		if err != nil {
			msg = fmt.Sprintf("failed to parse markdown: %v", err)
		}

		res.Diagnostics.AddError(diagnostic.CodeDocumentError, msg, diagnostic.Location{Path: path})

		return res
	}
	defer tree.Close()

	w := &walker{content: content}
	if err := w.walk(tree.RootNode()); err != nil {
		res.Diagnostics.AddError(diagnostic.CodeDocumentError, err.Error(), diagnostic.Location{Path: path})
		return res
	}

	res.Blocks = w.blocks
	res.Tables = w.tables

	return res
}

// walker collects blocks and tables in document order.
type walker struct {
	content []byte
	blocks  []Block
	tables  []Table
}

func (w *walker) walk(node *sitter.Node) error {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "fenced_code_block":
			b, err := w.parseCodeBlock(child)
			if err != nil {
				return err
			}

			w.blocks = append(w.blocks, b)

			continue

		case "pipe_table":
			t, err := w.parseTable(child)
			if err != nil {
				return err
			}

			w.tables = append(w.tables, t)

			continue
		}

		if err := w.walk(child); err != nil {
			return err
		}
	}

	return nil
}

func (w *walker) parseCodeBlock(node *sitter.Node) (Block, error) {
	start, err := lineOf(node.StartPoint())
	if err != nil {
		return Block{}, err
	}

	end, err := endLineOf(node)
	if err != nil {
		return Block{}, err
	}

	b := Block{
		Index:     len(w.blocks),
		StartLine: start,
		EndLine:   end,
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "info_string":
			fields := strings.Fields(child.Content(w.content))
			if len(fields) > 0 {
				b.Language = strings.ToLower(strings.Trim(fields[0], "{}."))
			}

		case "code_fence_content":
			b.Content = child.Content(w.content)
		}
	}

	return b, nil
}

func (w *walker) parseTable(node *sitter.Node) (Table, error) {
	start, err := lineOf(node.StartPoint())
	if err != nil {
		return Table{}, err
	}

	t := Table{StartLine: start}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		row := node.NamedChild(i)
		if row == nil {
			continue
		}

		if row.Type() != "pipe_table_header" && row.Type() != "pipe_table_row" {
			continue
		}

		var cells []string

		for j := 0; j < int(row.NamedChildCount()); j++ {
			cell := row.NamedChild(j)
			if cell == nil || cell.Type() != "pipe_table_cell" {
				continue
			}

			cells = append(cells, strings.TrimSpace(cell.Content(w.content)))
		}

		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

// lineOf converts a tree-sitter point into a 1-based line.
func lineOf(p sitter.Point) (int, error) {
	row, err := safecast.Conv[int](p.Row)
	if err != nil {
		return 0, fmt.Errorf("line number overflow: %w", err)
	}

	return row + 1, nil
}

// endLineOf returns the 1-based last line covered by node. Nodes that end
// at column 0 of the following row (trailing newline) end on the row before.
func endLineOf(node *sitter.Node) (int, error) {
	endPoint := node.EndPoint()
	if endPoint.Column == 0 && endPoint.Row > node.StartPoint().Row {
		endPoint.Row--
	}

	return lineOf(endPoint)
}

// Warning classifies a successful scan that found nothing to extract.
// It returns NO_CODE_BLOCKS when the document has no fenced blocks at all and
// NO_DIAGRAM_BLOCKS when blocks exist but none is tagged with a diagram language.
func Warning(res *ScanResult, languages []string) (diagnostic.Diagnostic, bool) {
	if res.Failed() {
		return diagnostic.Diagnostic{}, false
	}

	if len(res.Blocks) == 0 {
		return diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     diagnostic.CodeNoCodeBlocks,
			Message:  "document contains no fenced code blocks",
			Path:     res.Path,
		}, true
	}

	for _, b := range res.Blocks {
		if isDiagramLanguage(b.Language, languages) {
			return diagnostic.Diagnostic{}, false
		}
	}

	return diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticWarning,
		Code:     diagnostic.CodeNoDiagramBlocks,
		Message: fmt.Sprintf("document has %d code block(s) but none tagged %s",
			len(res.Blocks), strings.Join(languages, "/")),
		Path: res.Path,
	}, true
}
