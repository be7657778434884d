package build

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"specweaver/internal/classdiagram"
	"specweaver/internal/common"
	"specweaver/internal/diagnostic"
	"specweaver/internal/entity"
	"specweaver/internal/ledger"
	"specweaver/internal/registry"
	"specweaver/internal/resolve"
)

// Options configures FQN assignment.
type Options struct {
	// DefaultPackage is used for classes outside any namespace.
	DefaultPackage string
	// ExternalPrefixes marks classes whose FQN starts with one of them as external.
	ExternalPrefixes []string
}

// Document is the extraction output of one document.
type Document struct {
	Path string
	// Diagrams holds one result per class-diagram block, in block order.
	Diagrams []classdiagram.Result
}

// Builder builds entity specs and registers them.
type Builder struct {
	reg    *registry.Registry
	ledger *ledger.Ledger
	opts   Options

	diags    diagnostic.Diagnostics
	entities []*entity.EntitySpec
	resolved []diagnostic.ReferenceRow
	// declared holds the names and FQNs of every class seen so far.
	declared map[string]bool
}

// New creates a Builder writing into reg and l.
func New(reg *registry.Registry, l *ledger.Ledger, opts Options) *Builder {
	return &Builder{reg: reg, ledger: l, opts: opts, declared: make(map[string]bool)}
}

// Diagnostics returns the errors and warnings collected so far.
func (b *Builder) Diagnostics() diagnostic.Diagnostics {
	return b.diags
}

// Entities returns the registered entities in registration order.
func (b *Builder) Entities() []*entity.EntitySpec {
	return slices.Clone(b.entities)
}

// Resolved returns the cross-document references that were already
// resolvable against the registry while building, in build order.
func (b *Builder) Resolved() []diagnostic.ReferenceRow {
	return slices.Clone(b.resolved)
}

// BuildDocument builds a single document, definitions first.
func (b *Builder) BuildDocument(doc Document) []*entity.EntitySpec {
	return b.BuildAll([]Document{doc})
}

// BuildAll builds docs in path order and returns the entities registered by this call.
func (b *Builder) BuildAll(docs []Document) []*entity.EntitySpec {
	sorted := slices.Clone(docs)
	slices.SortStableFunc(sorted, func(a, c Document) int {
		return strings.Compare(a.Path, c.Path)
	})

	units := make([]*unit, 0, len(sorted))
	for _, doc := range sorted {
		units = append(units, b.newUnit(doc))
	}

	first := len(b.entities)

	for _, u := range units {
		for _, c := range u.classes {
			if c.IsDefinition() {
				b.buildClass(u, c)
			}
		}
	}

	for _, u := range units {
		for _, c := range u.classes {
			if !c.IsDefinition() && !b.reg.Exists(u.fqns[c]) {
				b.buildClass(u, c)
			}
		}

		b.warnDangling(u)
	}

	return slices.Clone(b.entities[first:])
}

// unit is one document prepared for building.
type unit struct {
	path          string
	classes       []*classdiagram.Class
	relationships []classdiagram.Relationship
	fqns          map[*classdiagram.Class]string
	// attached marks relationships that found an owner.
	attached []bool
}

func (b *Builder) newUnit(doc Document) *unit {
	u := &unit{path: doc.Path, fqns: make(map[*classdiagram.Class]string)}

	for _, res := range doc.Diagrams {
		if res.Failed() {
			for _, msg := range res.Errors {
				b.diags.AddError(diagnostic.CodeParseError, msg, diagnostic.Location{Path: doc.Path, Line: errorLine(msg)})
			}

			continue
		}

		for _, msg := range res.MemberErrors {
			b.diags.AddError(diagnostic.CodeParseError, msg, diagnostic.Location{Path: doc.Path, Line: errorLine(msg)})
		}

		for _, c := range res.Classes {
			u.classes = append(u.classes, c)
			u.fqns[c] = b.fqnOf(c)
			b.declared[c.Name] = true
			b.declared[u.fqns[c]] = true
		}

		u.relationships = append(u.relationships, res.Relationships...)
	}

	u.attached = make([]bool, len(u.relationships))

	return u
}

// errorLine reads N from a "line N: ..." extraction error.
func errorLine(msg string) int {
	var n int
	if _, err := fmt.Sscanf(msg, "line %d:", &n); err != nil {
		return 0
	}

	return n
}

func (b *Builder) fqnOf(c *classdiagram.Class) string {
	pkg := c.Namespace
	if pkg == "" {
		pkg = b.opts.DefaultPackage
	}

	return common.JoinFQN(pkg, c.Name)
}

// local maps the names usable inside pkg to the FQNs of the unit's classes.
// Classes of pkg shadow same-named classes of other namespaces.
func (u *unit) local(pkg string) map[string]string {
	out := make(map[string]string, 2*len(u.classes))

	for _, c := range u.classes {
		fqn := u.fqns[c]
		out[fqn] = fqn

		if _, ok := out[c.Name]; !ok || common.PackageOf(fqn) == pkg {
			out[c.Name] = fqn
		}
	}

	return out
}

func (u *unit) isLocal(fqn string) bool {
	for _, f := range u.fqns {
		if f == fqn {
			return true
		}
	}

	return false
}

// pending collects what one entity contributes to the ledger and the report.
// It is flushed only when the entity registers.
type pending struct {
	entries []ledger.Entry
	rows    []diagnostic.ReferenceRow
}

func (b *Builder) buildClass(u *unit, c *classdiagram.Class) {
	fqn := u.fqns[c]
	pkg := common.PackageOf(fqn)

	spec := &entity.EntitySpec{
		FQN:        fqn,
		Package:    pkg,
		Name:       common.SimpleName(fqn),
		Kind:       b.kindOf(c, fqn),
		Stereotype: c.Stereotype,
		Generic:    len(c.TypeParams) > 0,
		TypeParams: slices.Clone(c.TypeParams),
		Methods:    []entity.Method{},
		Properties: []entity.Property{},
		File:       u.path,
		Line:       c.Line,
		EndLine:    c.EndLine,
		Notes:      slices.Clone(c.Notes),
	}

	if spec.Stereotype == "" {
		spec.Stereotype = entity.StereotypeClass
	}

	typeParams := make([]string, len(c.TypeParams))
	for i, tp := range c.TypeParams {
		typeParams[i] = tp.Name
	}

	ctx := resolve.Context{
		Package:    pkg,
		Local:      u.local(pkg),
		TypeParams: typeParams,
		Registry:   b.reg,
		Declared:   b.declared,
	}

	var p pending

	for _, m := range c.Members {
		if m.IsMethod {
			spec.Methods = append(spec.Methods, b.method(u, spec, m, ctx, &p))
		} else {
			spec.Properties = append(spec.Properties, b.property(u, spec, m, ctx, &p))
		}
	}

	spec.Relationships = b.relationships(u, c, spec, ctx, &p)

	if err := b.reg.Register(spec); err != nil {
		b.registrationError(u, spec, err)
		return
	}

	for _, e := range p.entries {
		b.ledger.Enqueue(e)
	}

	b.resolved = append(b.resolved, p.rows...)
	b.entities = append(b.entities, spec)
}

func (b *Builder) kindOf(c *classdiagram.Class, fqn string) entity.Kind {
	for _, prefix := range b.opts.ExternalPrefixes {
		if prefix != "" && strings.HasPrefix(fqn, prefix) {
			return entity.KindExternal
		}
	}

	if c.IsDefinition() {
		return entity.KindDefinition
	}

	return entity.KindReference
}

func (b *Builder) registrationError(u *unit, spec *entity.EntitySpec, err error) {
	code := diagnostic.CodeBuildError

	var regErr *registry.Error
	if errors.As(err, &regErr) {
		code = regErr.Code
	}

	msg := err.Error()
	if errors.Is(err, registry.ErrDuplicateFQN) {
		if prev, ok := b.reg.Lookup(spec.FQN); ok {
			msg = fmt.Sprintf("%s (first defined at %s:%d)", msg, prev.File, prev.Line)
		}
	}

	b.diags.AddError(code, msg, diagnostic.Location{FQN: spec.FQN, Path: u.path, Line: spec.Line})
}

// resolveType resolves expr for one member and records its deferrals and
// cross-document hits in p.
func (b *Builder) resolveType(
	u *unit,
	spec *entity.EntitySpec,
	member, expr string,
	line int,
	ctx resolve.Context,
	p *pending,
) resolve.Resolution {
	res := resolve.Resolve(expr, ctx)

	for _, name := range res.Deferred {
		spec.AddUnresolvedType(name)
		p.entries = append(p.entries, ledger.NewEntry(spec.FQN, classdiagram.TypeReference{
			Member:     member,
			Target:     name,
			Expression: expr,
			File:       u.path,
			Line:       line,
		}))
	}

	for _, ref := range res.References {
		if u.isLocal(ref) {
			continue
		}

		p.rows = append(p.rows, diagnostic.ReferenceRow{
			Owner:      spec.FQN,
			Member:     member,
			Target:     ref,
			Expression: expr,
			File:       u.path,
			Line:       line,
		})
	}

	return res
}

func (b *Builder) property(
	u *unit,
	spec *entity.EntitySpec,
	m classdiagram.Member,
	ctx resolve.Context,
	p *pending,
) entity.Property {
	res := b.resolveType(u, spec, m.Name, m.Type, m.Line, ctx, p)

	return entity.Property{
		Name:       m.Name,
		Type:       m.Type,
		Category:   res.Category,
		Visibility: m.Visibility,
		Static:     m.Static,
		Optional:   m.Optional,
		Generic:    res.Generic,
		References: res.References,
		Line:       m.Line,
	}
}

func (b *Builder) method(
	u *unit,
	spec *entity.EntitySpec,
	m classdiagram.Member,
	ctx resolve.Context,
	p *pending,
) entity.Method {
	ret := b.resolveType(u, spec, m.Name, m.Type, m.Line, ctx, p)

	method := entity.Method{
		Name:       m.Name,
		ReturnType: m.Type,
		Category:   ret.Category,
		Visibility: m.Visibility,
		Static:     m.Static,
		Abstract:   m.Abstract,
		Generic:    ret.Generic,
		Parameters: []entity.Parameter{},
		References: slices.Clone(ret.References),
		Line:       m.Line,
	}

	for _, param := range m.Params {
		res := b.resolveType(u, spec, m.Name, param.Type, m.Line, ctx, p)

		method.Parameters = append(method.Parameters, entity.Parameter{
			Name:       param.Name,
			Type:       param.Type,
			Category:   res.Category,
			Optional:   param.Optional,
			Default:    param.Default,
			Generic:    param.Generic,
			GenericArg: param.GenericArg,
			References: res.References,
		})

		for _, ref := range res.References {
			method.References = common.AppendUnique(method.References, ref)
		}
	}

	return method
}

// relationships attaches to spec every relationship whose source is c, and
// those whose target is c when the source is not a class of the document.
// The far endpoint is resolved like a type name and deferred when unknown.
func (b *Builder) relationships(
	u *unit,
	c *classdiagram.Class,
	spec *entity.EntitySpec,
	ctx resolve.Context,
	p *pending,
) []entity.Relationship {
	var out []entity.Relationship

	for i, r := range u.relationships {
		srcFQN, srcLocal := ctx.Local[r.Source]
		tgtFQN, tgtLocal := ctx.Local[r.Target]

		var (
			far    string
			farFQN string
			ok     bool
		)

		switch {
		case srcLocal && srcFQN == spec.FQN:
			far = r.Target
			farFQN, ok = tgtFQN, tgtLocal
		case !srcLocal && tgtLocal && tgtFQN == spec.FQN:
			far = r.Source
		default:
			continue
		}

		u.attached[i] = true

		if !ok {
			farFQN, ok = ctx.Find(far)
		}

		rel := entity.Relationship{
			Source:            spec.FQN,
			Target:            farFQN,
			Kind:              r.Kind,
			Label:             r.Label,
			SourceCardinality: r.SourceCardinality,
			TargetCardinality: r.TargetCardinality,
			Line:              r.Line,
		}

		if far == r.Source {
			rel.Source, rel.Target = farFQN, spec.FQN
		}

		switch {
		case !ok:
			if far == r.Source {
				rel.Source = far
			} else {
				rel.Target = far
			}

			p.entries = append(p.entries, ledger.NewEntry(spec.FQN, classdiagram.RelationReference{
				Kind:   r.Kind,
				Target: far,
				Label:  r.Label,
				File:   u.path,
				Line:   r.Line,
			}))
		case !u.isLocal(farFQN):
			p.rows = append(p.rows, diagnostic.ReferenceRow{
				Owner:  spec.FQN,
				Member: string(r.Kind),
				Target: farFQN,
				File:   u.path,
				Line:   r.Line,
			})
		}

		out = append(out, rel)
	}

	return out
}

func (b *Builder) warnDangling(u *unit) {
	for i, r := range u.relationships {
		if u.attached[i] {
			continue
		}

		b.diags.AddWarning(diagnostic.CodeDanglingRelationship,
			fmt.Sprintf("relationship %s -> %s has no owning class in this document", r.Source, r.Target),
			diagnostic.Location{Path: u.path, Line: r.Line})
	}
}
