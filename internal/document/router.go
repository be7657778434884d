package document

import "strings"

// DefaultLanguages are the info-string tags treated as diagram blocks.
var DefaultLanguages = []string{"mermaid"}

// keywords maps the leading token of a diagram block to its kind.
var keywords = map[string]DiagramKind{
	"classDiagram":    KindClass,
	"classDiagram-v2": KindClass,
	"sequenceDiagram": KindSequence,
	"flowchart":       KindFlowchart,
	"graph":           KindFlowchart,
	"erDiagram":       KindER,
	"stateDiagram":    KindState,
	"stateDiagram-v2": KindState,
}

// Routes partitions diagram blocks by kind. Every kind in Kinds has an entry.
type Routes map[DiagramKind][]Block

// Count returns the total number of routed blocks.
func (r Routes) Count() int {
	n := 0
	for _, blocks := range r {
		n += len(blocks)
	}

	return n
}

// Route classifies every block tagged with one of languages and partitions
// them by kind, preserving document order inside each partition.
// Blocks in other languages are not diagram blocks and are not routed.
func Route(blocks []Block, languages []string) Routes {
	routes := make(Routes, len(Kinds))
	for _, k := range Kinds {
		routes[k] = []Block{}
	}

	for _, b := range blocks {
		if !isDiagramLanguage(b.Language, languages) {
			continue
		}

		k := Classify(b.Content)
		routes[k] = append(routes[k], b)
	}

	return routes
}

// Classify returns the kind declared by the leading keyword of a diagram's content.
func Classify(content string) DiagramKind {
	word := leadingKeyword(content)
	if k, ok := keywords[word]; ok {
		return k
	}

	return KindUnknown
}

// leadingKeyword returns the first token after blank lines, %% comments and front matter.
func leadingKeyword(content string) string {
	inFrontMatter := false
	seenContent := false

	for line := range strings.SplitSeq(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "---" && !seenContent {
			inFrontMatter = !inFrontMatter
			continue
		}

		if inFrontMatter || trimmed == "" || strings.HasPrefix(trimmed, "%%") {
			continue
		}

		seenContent = true

		fields := strings.Fields(trimmed)

		return strings.TrimSuffix(fields[0], ";")
	}

	return ""
}

func isDiagramLanguage(lang string, languages []string) bool {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	for _, l := range languages {
		if strings.EqualFold(l, lang) {
			return true
		}
	}

	return false
}
