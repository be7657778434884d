package classdiagram

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"specweaver/internal/document"
	"specweaver/internal/entity"
)

var (
	classRe      = regexp.MustCompile(`^class\s+(.+?)\s*(\{\s*\}?)?$`)
	stereotypeRe = regexp.MustCompile(`^<<\s*([^<>]+?)\s*>>\s*(.*)$`)
	shorthandRe  = regexp.MustCompile(`^(\w[\w.]*(?:~[^~\s]*~)?)\s*:\s*(.+)$`)
	namespaceRe  = regexp.MustCompile(`^namespace\s+(\w[\w.]*)\s*\{$`)
	noteRe       = regexp.MustCompile(`^note\s+(?:for\s+(\w[\w.]*)\s+)?"(.*)"$`)
	labelRe      = regexp.MustCompile(`\["[^"]*"\]`)
)

// ignored are statements that only affect rendering.
var ignored = []string{
	"direction", "style", "classDef", "cssClass", "click", "link", "callback",
	"title", "accTitle", "accDescr",
}

// lineError is a structural failure at a block-local line.
type lineError struct {
	line int
	err  error
}

func (e *lineError) Error() string {
	return e.err.Error()
}

// Extract parses one class-diagram block.
// It never panics: internal failures become a single parse error.
func Extract(block document.Block) (res Result) {
	lines := block.Lines()
	x := &extractor{lines: lines, block: block, index: make(map[string]*Class)}

	defer func() {
		if r := recover(); r != nil {
			res = failed(block, x.current, fmt.Errorf("internal error: %v", r))
		}
	}()

	if err := x.run(); err != nil {
		line := x.current

		var le *lineError
		if errors.As(err, &le) {
			line = le.line
		}

		return failed(block, line, err)
	}

	x.locate()

	return x.result
}

func failed(block document.Block, local int, err error) Result {
	return Result{Errors: []string{fmt.Sprintf("line %d: %v", block.AbsoluteLine(local), err)}}
}

type extractor struct {
	lines []string
	block document.Block

	result Result
	// index maps namespace-qualified class names to their entry in result.Classes.
	index map[string]*Class

	// current is the block-local line being processed.
	current int
	// open is the class whose body is being read.
	open *Class
	// openLine is the header line of open.
	openLine int
	// namespaces is the stack of open namespace blocks.
	namespaces []openNamespace
}

type openNamespace struct {
	index int
	line  int
}

func (x *extractor) run() error {
	inFrontMatter := false

	for i, raw := range x.lines {
		x.current = i + 1
		line := strings.TrimSpace(raw)

		if line == "---" && (inFrontMatter || x.blank(i)) {
			inFrontMatter = !inFrontMatter
			continue
		}

		if inFrontMatter || line == "" || strings.HasPrefix(line, "%%") {
			continue
		}

		if err := x.statement(line); err != nil {
			return &lineError{line: x.current, err: err}
		}
	}

	if x.open != nil {
		return &lineError{line: x.openLine, err: fmt.Errorf("unclosed body of class %s", x.open.Name)}
	}

	if n := len(x.namespaces); n > 0 {
		ns := x.namespaces[n-1]
		return &lineError{line: ns.line, err: fmt.Errorf("unclosed namespace %s", x.result.Namespaces[ns.index].Name)}
	}

	return nil
}

// blank reports whether every line before i is blank.
func (x *extractor) blank(i int) bool {
	for _, l := range x.lines[:i] {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}

	return true
}

func (x *extractor) statement(line string) error {
	if x.open != nil {
		return x.bodyLine(line)
	}

	switch {
	case line == "}":
		if len(x.namespaces) == 0 {
			return errors.New(`unexpected "}"`)
		}

		x.namespaces = x.namespaces[:len(x.namespaces)-1]

		return nil

	case line == "classDiagram" || line == "classDiagram-v2":
		return nil

	case isIgnored(line):
		return nil
	}

	if m := namespaceRe.FindStringSubmatch(line); m != nil {
		name := m[1]
		if outer := x.namespace(); outer != "" {
			name = outer + "." + name
		}

		x.result.Namespaces = append(x.result.Namespaces, Namespace{Name: name, Line: x.abs()})
		x.namespaces = append(x.namespaces, openNamespace{index: len(x.result.Namespaces) - 1, line: x.current})

		return nil
	}

	if strings.HasPrefix(line, "class ") || strings.HasPrefix(line, "class\t") {
		return x.classHeader(line)
	}

	if m := stereotypeRe.FindStringSubmatch(line); m != nil {
		if m[2] == "" {
			return errors.New("stereotype outside a class body needs a class name")
		}

		c, err := x.class(m[2])
		if err != nil {
			return err
		}

		c.Stereotype = entity.ParseStereotype(m[1])

		return nil
	}

	if m := noteRe.FindStringSubmatch(line); m != nil {
		note := Note{For: m[1], Text: m[2], Line: x.abs()}
		x.result.Notes = append(x.result.Notes, note)

		if note.For != "" {
			c, err := x.class(note.For)
			if err != nil {
				return err
			}

			c.Notes = append(c.Notes, note.Text)
		}

		return nil
	}

	if r, ok := parseRelationship(line, x.abs()); ok {
		x.result.Relationships = append(x.result.Relationships, r)
		return nil
	}

	if m := shorthandRe.FindStringSubmatch(line); m != nil {
		c, err := x.class(m[1])
		if err != nil {
			return err
		}

		return x.member(c, m[2])
	}

	// Anything else is Mermaid syntax without structural meaning.
	return nil
}

func (x *extractor) bodyLine(line string) error {
	if line == "}" {
		x.open.EndLine = x.abs()
		x.open = nil

		return nil
	}

	if m := stereotypeRe.FindStringSubmatch(line); m != nil && m[2] == "" {
		x.open.Stereotype = entity.ParseStereotype(m[1])
		return nil
	}

	if strings.HasSuffix(line, "{") {
		return fmt.Errorf("unclosed body of class %s", x.open.Name)
	}

	return x.member(x.open, line)
}

// member parses one member of c. A malformed member is recorded and skipped;
// it never fails the block.
func (x *extractor) member(c *Class, text string) error {
	m, err := parseMember(text, x.abs())
	if err != nil {
		x.result.MemberErrors = append(x.result.MemberErrors,
			fmt.Sprintf("line %d: member %q of %s: %v", x.abs(), strings.TrimSpace(text), c.Name, err))

		return nil
	}

	c.Members = append(c.Members, m)

	return nil
}

func (x *extractor) classHeader(line string) error {
	m := classRe.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("malformed class header %q", line)
	}

	header, body := m[1], strings.Join(strings.Fields(m[2]), "")

	c, err := x.class(header)
	if err != nil {
		return err
	}

	if !c.HasBody {
		c.Line = x.abs()
	}

	switch body {
	case "{":
		c.HasBody = true
		x.open = c
		x.openLine = x.current
	case "{}":
		c.HasBody = true
		c.EndLine = x.abs()
	}

	return nil
}

// class returns the class declared by header ("Name", "Name<T>", "Name~T~",
// optionally with a ["label"] and :::css suffix), creating it on first use.
func (x *extractor) class(header string) (*Class, error) {
	header = labelRe.ReplaceAllString(header, "")
	if i := strings.Index(header, ":::"); i >= 0 {
		header = header[:i]
	}

	header, err := rewriteTildes(strings.TrimSpace(header))
	if err != nil {
		return nil, err
	}

	if err := checkBalanced(header); err != nil {
		return nil, err
	}

	name, params := header, ""

	if open := strings.IndexByte(header, '<'); open >= 0 {
		if !strings.HasSuffix(header, ">") {
			return nil, fmt.Errorf("malformed class header %q", header)
		}

		name = strings.TrimSpace(header[:open])
		params = header[open+1 : len(header)-1]
	}

	if !isQualifiedName(name) {
		return nil, fmt.Errorf("malformed class header %q", header)
	}

	c := x.lookup(name)
	if c == nil {
		c = &Class{Name: name, Namespace: x.namespace(), Line: x.abs()}
		x.index[qualify(c.Namespace, name)] = c
		x.result.Classes = append(x.result.Classes, c)

		if n := len(x.namespaces); n > 0 {
			ns := &x.result.Namespaces[x.namespaces[n-1].index]
			ns.Classes = append(ns.Classes, name)
		}
	}

	if params != "" {
		tps, err := parseTypeParams(params)
		if err != nil {
			return nil, err
		}

		c.TypeParams = tps
	}

	return c, nil
}

// lookup finds an existing class: first in the current namespace, then a
// top-level one, then the only class with that name anywhere.
func (x *extractor) lookup(name string) *Class {
	if c, ok := x.index[qualify(x.namespace(), name)]; ok {
		return c
	}

	if len(x.namespaces) > 0 {
		return nil
	}

	if c, ok := x.index[name]; ok {
		return c
	}

	var found *Class

	for _, c := range x.result.Classes {
		if c.Name == name {
			if found != nil {
				return nil
			}

			found = c
		}
	}

	return found
}

// locate assigns line ranges with LocateClass. Classes only ever mentioned
// through shorthand or annotations keep the line of their first mention.
func (x *extractor) locate() {
	for _, c := range x.result.Classes {
		if start, end, ok := LocateClass(x.lines, c.Name); ok {
			c.Line = x.block.AbsoluteLine(start)
			c.EndLine = x.block.AbsoluteLine(end)

			continue
		}

		if c.EndLine == 0 {
			c.EndLine = c.Line
		}
	}
}

func (x *extractor) namespace() string {
	n := len(x.namespaces)
	if n == 0 {
		return ""
	}

	return x.result.Namespaces[x.namespaces[n-1].index].Name
}

func (x *extractor) abs() int {
	return x.block.AbsoluteLine(x.current)
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}

	return ns + "." + name
}

func isIgnored(line string) bool {
	word := line
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		word = line[:i]
	}

	for _, kw := range ignored {
		if word == kw || strings.HasPrefix(word, kw+":") {
			return true
		}
	}

	return false
}
