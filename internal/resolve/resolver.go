package resolve

import (
	"strings"

	"specweaver/internal/common"
	"specweaver/internal/entity"
	"specweaver/internal/typeexpr"
	"specweaver/primitive"
)

// Lookup is the read side of the registry.
type Lookup interface {
	Lookup(fqn string) (*entity.EntitySpec, bool)
}

// Context is what a type expression is resolved against.
type Context struct {
	// Package is the package of the owning entity.
	Package string
	// Local maps the names of classes declared in the current document to their FQNs.
	Local map[string]string
	// TypeParams are the type parameters of the owning class.
	TypeParams []string
	// Registry holds entities from documents built earlier. May be nil.
	Registry Lookup
	// Declared holds the simple names and FQNs of every class declared in the
	// run, including ones not registered yet. A declared name is never built-in.
	Declared map[string]bool
}

// Find resolves a custom name: classes of the current document first, then
// the registry as a name in the owner's package, then the name as an FQN.
func (c Context) Find(name string) (string, bool) {
	if fqn, ok := c.Local[name]; ok {
		return fqn, true
	}

	if c.Registry == nil {
		return "", false
	}

	if c.Package != "" {
		if fqn := common.JoinFQN(c.Package, name); c.has(fqn) {
			return fqn, true
		}
	}

	if c.has(name) {
		return name, true
	}

	return "", false
}

func (c Context) has(fqn string) bool {
	_, ok := c.Registry.Lookup(fqn)
	return ok
}

// builtin reports whether name is a built-in type the resolver leaves alone.
// Declared classes shadow the built-in table, and only container kinds take
// type arguments.
func (c Context) builtin(name string, args int) bool {
	if c.Declared[name] {
		return false
	}

	k := primitive.FromName(name)

	return k != 0 && (args == 0 || k.IsContainer())
}

func (c Context) isTypeParam(name string) bool {
	for _, tp := range c.TypeParams {
		if tp == name {
			return true
		}
	}

	return false
}

// Resolution is the outcome of resolving one type expression.
type Resolution struct {
	Category entity.Category
	// Generic is set when the outermost named type has type arguments.
	Generic bool
	// References are the FQNs of the custom types found, in first-seen order.
	References []string
	// Deferred are the custom names that could not be found yet, in first-seen order.
	Deferred []string
	// Malformed is set when the expression did not parse and was treated as one name.
	Malformed bool
}

// Resolve classifies expr and resolves every custom name in it.
// An empty expression is untyped.
func Resolve(expr string, ctx Context) Resolution {
	if strings.TrimSpace(expr) == "" {
		return Resolution{Category: entity.CategoryUntyped}
	}

	node, ok := typeexpr.ParseLenient(expr)

	r := &Resolution{Category: category(node, ctx), Malformed: !ok}
	r.Generic = typeexpr.IsGeneric(unwrapOptional(node))

	r.walk(node, ctx)

	return *r
}

// walk resolves every name below n. Each argument or union member is
// resolved on its own, so one miss never hides the others.
func (r *Resolution) walk(n typeexpr.Node, ctx Context) {
	switch v := n.(type) {
	case *typeexpr.Named:
		r.name(v.Name, len(v.Args), ctx)

		for _, arg := range v.Args {
			r.walk(arg, ctx)
		}

	case *typeexpr.Array:
		r.walk(v.Elem, ctx)

	case *typeexpr.Optional:
		r.walk(v.Elem, ctx)

	case *typeexpr.Union:
		for _, m := range v.Members {
			r.walk(m, ctx)
		}
	}
}

func (r *Resolution) name(name string, args int, ctx Context) {
	if ctx.isTypeParam(name) {
		return
	}

	if fqn, ok := ctx.Find(name); ok {
		r.References = common.AppendUnique(r.References, fqn)
		return
	}

	if ctx.builtin(name, args) {
		return
	}

	r.Deferred = common.AppendUnique(r.Deferred, name)
}

func category(n typeexpr.Node, ctx Context) entity.Category {
	switch v := unwrapOptional(n).(type) {
	case *typeexpr.Array:
		return entity.CategoryArray
	case *typeexpr.Union:
		return entity.CategoryUnion
	case *typeexpr.Named:
		switch {
		case len(v.Args) > 0:
			return entity.CategoryGeneric
		case ctx.isTypeParam(v.Name):
			return entity.CategoryTypeParam
		case ctx.builtin(v.Name, 0):
			if _, ok := ctx.Find(v.Name); ok {
				return entity.CategoryCustom
			}

			return entity.CategoryPrimitive
		default:
			return entity.CategoryCustom
		}
	default:
		return entity.CategoryUntyped
	}
}

func unwrapOptional(n typeexpr.Node) typeexpr.Node {
	for {
		opt, ok := n.(*typeexpr.Optional)
		if !ok {
			return n
		}

		n = opt.Elem
	}
}
