package classdiagram

import (
	"specweaver/internal/document"
	"specweaver/internal/entity"
)

// Result is everything extracted from one block.
type Result struct {
	Classes       []*Class
	Relationships []Relationship
	Namespaces    []Namespace
	Notes         []Note
	// Errors holds at most one "line N: message" entry; when set, the other fields are empty.
	Errors []string
	// MemberErrors are "line N: message" entries for members that were skipped.
	// They do not fail the block.
	MemberErrors []string
}

// Failed reports whether the block could not be extracted.
func (r Result) Failed() bool {
	return len(r.Errors) > 0
}

// Class returns the class with the given simple name, preferring one outside any namespace.
func (r Result) Class(name string) *Class {
	var found *Class

	for _, c := range r.Classes {
		if c.Name != name {
			continue
		}

		if c.Namespace == "" {
			return c
		}

		if found == nil {
			found = c
		}
	}

	return found
}

// Class is one class as written in the diagram. A class mentioned several
// times (declaration, shorthand members, annotation) is merged into one.
type Class struct {
	Name       string
	Namespace  string
	Stereotype entity.Stereotype
	TypeParams []entity.TypeParam
	Members    []Member
	Notes      []string
	// HasBody is set when the class was declared with braces.
	HasBody bool
	// Line and EndLine are document lines.
	Line    int
	EndLine int
}

// IsDefinition reports whether the class carries its own content, as opposed
// to a bare "class Foo" declaration.
func (c *Class) IsDefinition() bool {
	return c.HasBody || len(c.Members) > 0 || c.Stereotype != "" || len(c.TypeParams) > 0
}

// HasTypeParam reports whether name is a type parameter of the class.
func (c *Class) HasTypeParam(name string) bool {
	for _, tp := range c.TypeParams {
		if tp.Name == name {
			return true
		}
	}

	return false
}

// Methods returns the method members in declaration order.
func (c *Class) Methods() []Member {
	return c.filter(true)
}

// Properties returns the property members in declaration order.
func (c *Class) Properties() []Member {
	return c.filter(false)
}

func (c *Class) filter(methods bool) []Member {
	var out []Member

	for _, m := range c.Members {
		if m.IsMethod == methods {
			out = append(out, m)
		}
	}

	return out
}

// Member is a method or a property line.
type Member struct {
	Name string
	// Type is the property type or the method return type. Empty for untyped properties.
	Type       string
	IsMethod   bool
	Visibility entity.Visibility
	Static     bool
	Abstract   bool
	Optional   bool
	Params     []Param
	Line       int
}

// Param is a method parameter.
type Param struct {
	Name       string
	Type       string
	Optional   bool
	Default    string
	Generic    bool
	GenericArg string
}

// Relationship is an edge as written, with endpoints as simple or dotted names.
type Relationship struct {
	Source            string
	Target            string
	Kind              entity.RelationKind
	Label             string
	SourceCardinality string
	TargetCardinality string
	Line              int
}

// Namespace groups class declarations.
type Namespace struct {
	Name    string
	Classes []string
	Line    int
}

// Note is a free note or a note attached to a class (For set).
type Note struct {
	For  string
	Text string
	Line int
}

// TypeReference is the deferred payload for a member type that could not be
// resolved while building its document.
type TypeReference struct {
	// Member is the property or method name; empty for class-level references.
	Member string
	// Target is the bare type name that was not found.
	Target string
	// Expression is the full type expression Target appeared in.
	Expression string
	File       string
	Line       int
}

// Diagram implements ledger.Payload.
func (TypeReference) Diagram() document.DiagramKind {
	return document.KindClass
}

// RelationReference is the deferred payload for a relationship endpoint that
// could not be resolved while building its document.
type RelationReference struct {
	Kind   entity.RelationKind
	Target string
	Label  string
	File   string
	Line   int
}

// Diagram implements ledger.Payload.
func (RelationReference) Diagram() document.DiagramKind {
	return document.KindClass
}
