package match

import (
	"slices"
	"strings"
	"unicode"
)

// decorations are name tokens that rarely distinguish one domain type from another.
var decorations = []string{"impl", "dto", "entity", "model", "type", "base", "abstract"}

// NormalizeIdent lower-cases an identifier and removes separators,
// e.g. "Order_Line", "orderLine" and "order-line" all become "orderline".
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// NormalizeTypeName is NormalizeIdent without decoration tokens: "OrderDTO"
// and "OrderImpl" both become "order". A name made only of decorations is
// kept whole.
func NormalizeTypeName(s string) string {
	tokens := TokenizeIdent(s)

	kept := slices.DeleteFunc(slices.Clone(tokens), func(t string) bool {
		return slices.Contains(decorations, t)
	})

	if len(kept) == 0 {
		return strings.Join(tokens, "")
	}

	return strings.Join(kept, "")
}

// TokenizeIdent splits an identifier into lower-case tokens at separators and case changes.
func TokenizeIdent(s string) []string {
	tokens := splitCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// splitCamelCase splits on separators, on lower-to-upper transitions and
// before the last capital of an acronym followed by lower case:
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "line_item" -> ["line", "item"]
func splitCamelCase(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]

	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	// end of an acronym: "XMLParser" splits before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
