package document

import "strings"

// DiagramKind is the declared kind of a diagram block.
type DiagramKind string

const (
	KindClass     DiagramKind = "class"
	KindSequence  DiagramKind = "sequence"
	KindFlowchart DiagramKind = "flowchart"
	KindER        DiagramKind = "er"
	KindState     DiagramKind = "state"
	KindUnknown   DiagramKind = "unknown"
)

// Kinds lists every diagram kind in routing order.
var Kinds = []DiagramKind{KindClass, KindSequence, KindFlowchart, KindER, KindState, KindUnknown}

// Block is one fenced code block.
type Block struct {
	// Index is the position of the block among all fenced blocks of the document.
	Index int
	// Language is the first word of the info string ("mermaid"), lower-cased.
	Language string
	Content  string
	// StartLine is the 1-based line of the opening fence.
	StartLine int
	// EndLine is the 1-based line of the closing fence (or last line when unclosed).
	EndLine int
}

// Lines returns the content split into lines, without a trailing empty line.
func (b Block) Lines() []string {
	content := strings.TrimSuffix(b.Content, "\n")
	if content == "" {
		return nil
	}

	return strings.Split(content, "\n")
}

// AbsoluteLine converts a 1-based block-local line into a document line.
func (b Block) AbsoluteLine(local int) int {
	return b.StartLine + local
}

// Table is a Markdown pipe table. Rows[0] is the header row.
type Table struct {
	StartLine int
	Rows      [][]string
}
