package classdiagram

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"specweaver/internal/entity"
	"specweaver/primitive"
)

const defaultReturnType = "void"

var errEmptyMember = errors.New("empty member")

// parseMember parses one member line. A line containing "(" is a method.
func parseMember(text string, line int) (Member, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Member{}, errEmptyMember
	}

	m := Member{Visibility: entity.VisibilityPublic, Line: line}

	if vis, ok := entity.VisibilityFromMarker(text[0]); ok {
		m.Visibility = vis
		text = strings.TrimSpace(text[1:])
	}

	text, m.Static, m.Abstract = trimClassifiers(text)

	text, err := rewriteTildes(text)
	if err != nil {
		return Member{}, err
	}

	if err := checkBalanced(text); err != nil {
		return Member{}, err
	}

	if strings.Contains(text, "(") {
		err = parseMethod(text, &m)
	} else {
		err = parseProperty(text, &m)
		m.Abstract = false
	}

	if err != nil {
		return Member{}, err
	}

	if n, ok := strings.CutSuffix(m.Name, "$"); ok {
		m.Name = n
		m.Static = true
	}

	if !isName(m.Name) {
		return Member{}, fmt.Errorf("invalid member name %q", m.Name)
	}

	return m, nil
}

// trimClassifiers strips the trailing static ("$") and abstract ("*")
// markers, which may also follow the closing parenthesis of a method.
func trimClassifiers(text string) (string, bool, bool) {
	var static, abstract bool

	for {
		trimmed := strings.TrimSpace(text)

		switch {
		case strings.HasSuffix(trimmed, "$"):
			static = true
			text = trimmed[:len(trimmed)-1]
		case strings.HasSuffix(trimmed, "*"):
			abstract = true
			text = trimmed[:len(trimmed)-1]
		default:
			if i := strings.LastIndexByte(trimmed, ')'); i >= 0 && i+1 < len(trimmed) {
				switch trimmed[i+1] {
				case '$':
					static = true
					trimmed = trimmed[:i+1] + trimmed[i+2:]
				case '*':
					abstract = true
					trimmed = trimmed[:i+1] + trimmed[i+2:]
				}
			}

			return trimmed, static, abstract
		}
	}
}

func parseMethod(text string, m *Member) error {
	m.IsMethod = true

	open := strings.IndexByte(text, '(')
	closing := matchingParen(text, open)

	if closing < 0 {
		return errUnbalancedParens
	}

	head := strings.TrimSpace(text[:open])
	rest := strings.TrimSpace(text[closing+1:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))

	// "int getAge()" puts the return type before the name.
	if fields := strings.Fields(head); len(fields) > 1 {
		head = fields[len(fields)-1]

		if rest == "" {
			rest = strings.Join(fields[:len(fields)-1], " ")
		}
	}

	m.Name = head
	m.Type = rest

	if m.Type == "" {
		m.Type = defaultReturnType
	}

	params := strings.TrimSpace(text[open+1 : closing])
	if params == "" {
		return nil
	}

	for _, raw := range splitTopLevel(params, ',') {
		p, err := parseParam(raw)
		if err != nil {
			return err
		}

		m.Params = append(m.Params, p)
	}

	return nil
}

// matchingParen returns the index of the ")" closing the "(" at open, or -1.
func matchingParen(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// parseParam accepts "name: type", "name?: type", "type name", a bare type
// ("Order", "string") or a bare name, each with an optional "= default".
func parseParam(raw string) (Param, error) {
	var p Param

	text := strings.TrimSpace(raw)
	if text == "" {
		return p, errors.New("empty parameter")
	}

	if before, after, ok := cutTopLevel(text, '='); ok {
		text = strings.TrimSpace(before)
		p.Default = strings.TrimSpace(after)
	}

	if name, typ, ok := cutTopLevel(text, ':'); ok {
		p.Name = strings.TrimSpace(name)
		p.Type = strings.TrimSpace(typ)
	} else if fields := strings.Fields(text); len(fields) > 1 {
		p.Name = fields[len(fields)-1]
		p.Type = strings.Join(fields[:len(fields)-1], " ")
	} else if looksLikeType(text) {
		p.Type = text
	} else {
		p.Name = text
	}

	if n, ok := strings.CutSuffix(p.Name, "?"); ok {
		p.Name = strings.TrimSpace(n)
		p.Optional = true
	}

	if t, ok := strings.CutSuffix(p.Type, "?"); ok {
		p.Type = strings.TrimSpace(t)
		p.Optional = true
	}

	if p.Name != "" && !isName(p.Name) {
		return Param{}, fmt.Errorf("invalid parameter name %q", p.Name)
	}

	if arg := firstTypeArg(p.Type); arg != "" {
		p.Generic = true
		p.GenericArg = arg
	}

	return p, nil
}

// parseProperty accepts "name: type", "type name" or a bare name.
func parseProperty(text string, m *Member) error {
	if name, typ, ok := cutTopLevel(text, ':'); ok {
		m.Name = strings.TrimSpace(name)
		m.Type = strings.TrimSpace(typ)
	} else if fields := strings.Fields(text); len(fields) > 1 {
		m.Name = fields[len(fields)-1]
		m.Type = strings.Join(fields[:len(fields)-1], " ")
	} else {
		m.Name = text
	}

	if n, ok := strings.CutSuffix(m.Name, "?"); ok {
		m.Name = strings.TrimSpace(n)
		m.Optional = true
	}

	if t, ok := strings.CutSuffix(m.Type, "?"); ok {
		m.Type = strings.TrimSpace(t)
		m.Optional = true
	}

	if m.Name == "" {
		return errEmptyMember
	}

	return nil
}

// cutTopLevel is strings.Cut restricted to separators outside brackets.
func cutTopLevel(s string, sep byte) (string, string, bool) {
	parts := splitTopLevel(s, sep)
	if len(parts) < 2 {
		return s, "", false
	}

	return parts[0], s[len(parts[0])+1:], true
}

// looksLikeType tells a lone parameter token that names a type ("Order",
// "string", "List<Item>") from one that names a parameter ("id").
func looksLikeType(s string) bool {
	if strings.ContainsAny(s, "<[") || primitive.IsBuiltin(s) {
		return true
	}

	return unicode.IsUpper(rune(s[0]))
}
