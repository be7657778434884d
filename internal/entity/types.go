package entity

import (
	"slices"
	"sync"
)

// TypeParam is a class-level generic parameter, optionally bounded ("T extends Base").
type TypeParam struct {
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Bound string `json:"bound,omitempty" yaml:"bound,omitempty" msgpack:"bound,omitempty"`
}

// Parameter is a method parameter.
type Parameter struct {
	Name     string   `json:"name" yaml:"name" msgpack:"name"`
	Type     string   `json:"type" yaml:"type" msgpack:"type"`
	Category Category `json:"category" yaml:"category" msgpack:"category"`
	Optional bool     `json:"optional,omitempty" yaml:"optional,omitempty" msgpack:"optional,omitempty"`
	Default  string   `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default,omitempty"`
	Generic  bool     `json:"generic,omitempty" yaml:"generic,omitempty" msgpack:"generic,omitempty"`
	// GenericArg is the first type argument when Generic is set.
	GenericArg string   `json:"generic_arg,omitempty" yaml:"generic_arg,omitempty" msgpack:"generic_arg,omitempty"`
	References []string `json:"references,omitempty" yaml:"references,omitempty" msgpack:"references,omitempty"`
}

// Method is a class method.
type Method struct {
	Name       string      `json:"name" yaml:"name" msgpack:"name"`
	ReturnType string      `json:"return_type" yaml:"return_type" msgpack:"return_type"`
	Category   Category    `json:"category" yaml:"category" msgpack:"category"`
	Visibility Visibility  `json:"visibility" yaml:"visibility" msgpack:"visibility"`
	Static     bool        `json:"static,omitempty" yaml:"static,omitempty" msgpack:"static,omitempty"`
	Abstract   bool        `json:"abstract,omitempty" yaml:"abstract,omitempty" msgpack:"abstract,omitempty"`
	Generic    bool        `json:"generic,omitempty" yaml:"generic,omitempty" msgpack:"generic,omitempty"`
	Parameters []Parameter `json:"parameters" yaml:"parameters" msgpack:"parameters"`
	// References are the FQNs the return type and parameters resolved to during the build.
	References []string `json:"references,omitempty" yaml:"references,omitempty" msgpack:"references,omitempty"`
	Line       int      `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
}

// Property is a class attribute.
type Property struct {
	Name       string     `json:"name" yaml:"name" msgpack:"name"`
	Type       string     `json:"type" yaml:"type" msgpack:"type"`
	Category   Category   `json:"category" yaml:"category" msgpack:"category"`
	Visibility Visibility `json:"visibility" yaml:"visibility" msgpack:"visibility"`
	Static     bool       `json:"static,omitempty" yaml:"static,omitempty" msgpack:"static,omitempty"`
	Optional   bool       `json:"optional,omitempty" yaml:"optional,omitempty" msgpack:"optional,omitempty"`
	Generic    bool       `json:"generic,omitempty" yaml:"generic,omitempty" msgpack:"generic,omitempty"`
	References []string   `json:"references,omitempty" yaml:"references,omitempty" msgpack:"references,omitempty"`
	Line       int        `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
}

// Relationship is an edge between two classes.
type Relationship struct {
	Source            string       `json:"source" yaml:"source" msgpack:"source"`
	Target            string       `json:"target" yaml:"target" msgpack:"target"`
	Kind              RelationKind `json:"kind" yaml:"kind" msgpack:"kind"`
	Label             string       `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	SourceCardinality string       `json:"source_cardinality,omitempty" yaml:"source_cardinality,omitempty" msgpack:"source_cardinality,omitempty"`
	TargetCardinality string       `json:"target_cardinality,omitempty" yaml:"target_cardinality,omitempty" msgpack:"target_cardinality,omitempty"`
	Line              int          `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
}

// EntitySpec is the canonical description of one class.
// Structural fields are written once by the builder. ExternalDeps is the only
// field that changes after registration and is guarded by mu.
type EntitySpec struct {
	FQN           string         `json:"fqn" yaml:"fqn" msgpack:"fqn"`
	Package       string         `json:"package,omitempty" yaml:"package,omitempty" msgpack:"package,omitempty"`
	Name          string         `json:"name" yaml:"name" msgpack:"name"`
	Kind          Kind           `json:"kind" yaml:"kind" msgpack:"kind"`
	Stereotype    Stereotype     `json:"stereotype" yaml:"stereotype" msgpack:"stereotype"`
	Generic       bool           `json:"generic,omitempty" yaml:"generic,omitempty" msgpack:"generic,omitempty"`
	TypeParams    []TypeParam    `json:"type_params,omitempty" yaml:"type_params,omitempty" msgpack:"type_params,omitempty"`
	Methods       []Method       `json:"methods" yaml:"methods" msgpack:"methods"`
	Properties    []Property     `json:"properties" yaml:"properties" msgpack:"properties"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty" msgpack:"relationships,omitempty"`
	File          string         `json:"file" yaml:"file" msgpack:"file"`
	Line          int            `json:"line" yaml:"line" msgpack:"line"`
	EndLine       int            `json:"end_line,omitempty" yaml:"end_line,omitempty" msgpack:"end_line,omitempty"`
	Notes         []string       `json:"notes,omitempty" yaml:"notes,omitempty" msgpack:"notes,omitempty"`
	// UnresolvedTypes are the type names deferred during the build, in first-seen order.
	UnresolvedTypes []string `json:"unresolved_types,omitempty" yaml:"unresolved_types,omitempty" msgpack:"unresolved_types,omitempty"`
	// ExternalDeps are names classified as external by the integration validator.
	ExternalDeps []string `json:"external_deps,omitempty" yaml:"external_deps,omitempty" msgpack:"external_deps,omitempty"`

	mu sync.Mutex
}

// AddUnresolvedType records a deferred type name once.
func (e *EntitySpec) AddUnresolvedType(name string) {
	if !slices.Contains(e.UnresolvedTypes, name) {
		e.UnresolvedTypes = append(e.UnresolvedTypes, name)
	}
}

// AddExternalDependency records an external dependency once. Safe for concurrent use.
func (e *EntitySpec) AddExternalDependency(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !slices.Contains(e.ExternalDeps, name) {
		e.ExternalDeps = append(e.ExternalDeps, name)
	}
}

// ExternalDependencies returns a copy of the external dependency set.
func (e *EntitySpec) ExternalDependencies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.ExternalDeps)
}

// Property returns the property with the given name, or nil.
func (e *EntitySpec) Property(name string) *Property {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return &e.Properties[i]
		}
	}

	return nil
}

// Method returns the first method with the given name, or nil.
func (e *EntitySpec) Method(name string) *Method {
	for i := range e.Methods {
		if e.Methods[i].Name == name {
			return &e.Methods[i]
		}
	}

	return nil
}

// HasTypeParam reports whether name is one of the class type parameters.
func (e *EntitySpec) HasTypeParam(name string) bool {
	for _, tp := range e.TypeParams {
		if tp.Name == name {
			return true
		}
	}

	return false
}

// Parents returns the FQNs this entity inherits from or realizes.
func (e *EntitySpec) Parents() []string {
	var out []string

	for _, r := range e.Relationships {
		if r.Kind.IsHierarchy() && r.Source == e.FQN {
			out = append(out, r.Target)
		}
	}

	return out
}
