package classdiagram

import (
	"errors"
	"fmt"
	"strings"

	"specweaver/internal/entity"
)

var (
	errUnbalancedGenerics = errors.New("unbalanced generic delimiters")
	errUnbalancedParens   = errors.New("unbalanced parentheses")
)

// rewriteTildes converts Mermaid generics ("List~Order~") into angle brackets.
// A "~" followed by a letter or "_" opens an argument list, any other "~" closes one.
func rewriteTildes(s string) (string, error) {
	if !strings.Contains(s, "~") {
		return s, nil
	}

	var sb strings.Builder

	depth := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '~' {
			sb.WriteByte(c)
			continue
		}

		if i+1 < len(s) && isNameStart(s[i+1]) {
			depth++

			sb.WriteByte('<')

			continue
		}

		if depth == 0 {
			return "", errUnbalancedGenerics
		}

		depth--

		sb.WriteByte('>')
	}

	if depth != 0 {
		return "", errUnbalancedGenerics
	}

	return sb.String(), nil
}

// checkBalanced verifies that <>, () and [] pairs nest properly.
func checkBalanced(s string) error {
	var stack []byte

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '<', '(', '[':
			stack = append(stack, c)
		case '>', ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != opening(c) {
				if c == ')' {
					return errUnbalancedParens
				}

				return errUnbalancedGenerics
			}

			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		if stack[len(stack)-1] == '(' {
			return errUnbalancedParens
		}

		return errUnbalancedGenerics
	}

	return nil
}

func opening(c byte) byte {
	switch c {
	case '>':
		return '<'
	case ')':
		return '('
	default:
		return '['
	}
}

// splitTopLevel splits s on sep, ignoring separators nested in <>, () or [].
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}

// parseTypeParams parses "T, U extends Base" into type parameters.
func parseTypeParams(s string) ([]entity.TypeParam, error) {
	var out []entity.TypeParam

	for _, part := range splitTopLevel(s, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.New("empty type parameter")
		}

		tp := entity.TypeParam{Name: part}

		if name, bound, ok := strings.Cut(part, " extends "); ok {
			tp.Name = strings.TrimSpace(name)
			tp.Bound = strings.TrimSpace(bound)
		}

		if !isName(tp.Name) {
			return nil, fmt.Errorf("invalid type parameter %q", tp.Name)
		}

		out = append(out, tp)
	}

	return out, nil
}

// firstTypeArg returns the first generic argument of a type string such as
// "Map<K, V>" ("K"), or "" when the type is not generic.
func firstTypeArg(typ string) string {
	open := strings.IndexByte(typ, '<')
	end := strings.LastIndexByte(typ, '>')

	if open < 0 || end <= open {
		return ""
	}

	args := splitTopLevel(typ[open+1:end], ',')

	return strings.TrimSpace(args[0])
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// isName reports whether s is an identifier.
func isName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isNamePart(s[i]) {
			return false
		}
	}

	return true
}

// isQualifiedName reports whether s is a dot-separated list of identifiers.
func isQualifiedName(s string) bool {
	for seg := range strings.SplitSeq(s, ".") {
		if !isName(seg) {
			return false
		}
	}

	return true
}
