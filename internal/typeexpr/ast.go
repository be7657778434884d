package typeexpr

import "strings"

// Node is a parsed type expression.
type Node interface {
	// String renders the node back into canonical source form.
	String() string
	node()
}

// Named is an identifier, optionally with generic arguments.
type Named struct {
	Name string
	Args []Node
}

// Array is Elem[] (or []Elem, or Elem[N]).
type Array struct {
	Elem Node
}

// Union is A | B | ... with at least two members.
type Union struct {
	Members []Node
}

// Optional is Elem?.
type Optional struct {
	Elem Node
}

func (*Named) node()    {}
func (*Array) node()    {}
func (*Union) node()    {}
func (*Optional) node() {}

func (n *Named) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}

	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}

	return n.Name + "<" + strings.Join(args, ", ") + ">"
}

func (n *Array) String() string {
	if _, ok := n.Elem.(*Union); ok {
		return "(" + n.Elem.String() + ")[]"
	}

	return n.Elem.String() + "[]"
}

func (n *Union) String() string {
	parts := make([]string, len(n.Members))
	for i, m := range n.Members {
		parts[i] = m.String()
	}

	return strings.Join(parts, " | ")
}

func (n *Optional) String() string {
	if _, ok := n.Elem.(*Union); ok {
		return "(" + n.Elem.String() + ")?"
	}

	return n.Elem.String() + "?"
}

// IsGeneric reports whether n is a Named node with type arguments.
func IsGeneric(n Node) bool {
	named, ok := n.(*Named)
	return ok && len(named.Args) > 0
}

// Walk visits n and every nested node depth-first, parents before children.
// Returning false from fn stops descent into that node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch v := n.(type) {
	case *Named:
		for _, a := range v.Args {
			Walk(a, fn)
		}
	case *Array:
		Walk(v.Elem, fn)
	case *Union:
		for _, m := range v.Members {
			Walk(m, fn)
		}
	case *Optional:
		Walk(v.Elem, fn)
	}
}
