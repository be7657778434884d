package classdiagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specweaver/internal/document"
	"specweaver/internal/entity"
)

func block(content string) document.Block {
	return document.Block{Language: "mermaid", Content: content, StartLine: 10}
}

func TestExtractSingleMethod(t *testing.T) {
	res := Extract(block("classDiagram\n  class Foo {\n    +bar() string\n  }"))
	require.False(t, res.Failed(), res.Errors)
	require.Len(t, res.Classes, 1)

	foo := res.Classes[0]
	assert.Equal(t, "Foo", foo.Name)
	require.Len(t, foo.Members, 1)

	bar := foo.Members[0]
	assert.Equal(t, "bar", bar.Name)
	assert.True(t, bar.IsMethod)
	assert.Equal(t, entity.VisibilityPublic, bar.Visibility)
	assert.Equal(t, "string", bar.Type)
	assert.Empty(t, bar.Params)

	assert.Equal(t, 12, foo.Line)
	assert.Equal(t, 14, foo.EndLine)
	assert.Equal(t, 13, bar.Line)
}

func TestExtractMembers(t *testing.T) {
	src := `classDiagram
class Order {
  +id: uuid
  -List~Item~ items
  #total: decimal?
  ~status
  +count$: int
  +place(customer: Customer, note?: string, retries: int = 3) Receipt
  +cancel()
  +validate()*
  +create(code)$ Order
  int size()
  +find(Map<string, Order> index, Order)
}`

	res := Extract(block(src))
	require.False(t, res.Failed(), res.Errors)
	require.Len(t, res.Classes, 1)

	order := res.Classes[0]
	props := order.Properties()
	methods := order.Methods()
	require.Len(t, props, 5)
	require.Len(t, methods, 6)

	assert.Equal(t, Member{Name: "id", Type: "uuid", Visibility: entity.VisibilityPublic, Line: 13}, props[0])
	assert.Equal(t, "items", props[1].Name)
	assert.Equal(t, "List<Item>", props[1].Type)
	assert.Equal(t, entity.VisibilityPrivate, props[1].Visibility)
	assert.Equal(t, "decimal", props[2].Type)
	assert.True(t, props[2].Optional)
	assert.Equal(t, entity.VisibilityProtected, props[2].Visibility)
	assert.Equal(t, "status", props[3].Name)
	assert.Empty(t, props[3].Type)
	assert.Equal(t, entity.VisibilityPackage, props[3].Visibility)
	assert.True(t, props[4].Static)
	assert.Equal(t, "count", props[4].Name)

	place := methods[0]
	assert.Equal(t, "place", place.Name)
	assert.Equal(t, "Receipt", place.Type)
	require.Len(t, place.Params, 3)
	assert.Equal(t, Param{Name: "customer", Type: "Customer"}, place.Params[0])
	assert.Equal(t, Param{Name: "note", Type: "string", Optional: true}, place.Params[1])
	assert.Equal(t, Param{Name: "retries", Type: "int", Default: "3"}, place.Params[2])

	assert.Equal(t, "void", methods[1].Type)
	assert.True(t, methods[2].Abstract)
	assert.Equal(t, "validate", methods[2].Name)
	assert.True(t, methods[3].Static)
	assert.Equal(t, "Order", methods[3].Type)
	assert.Equal(t, []Param{{Name: "code"}}, methods[3].Params)

	assert.Equal(t, "size", methods[4].Name)
	assert.Equal(t, "int", methods[4].Type)

	find := methods[5]
	require.Len(t, find.Params, 2)
	assert.Equal(t, Param{Name: "index", Type: "Map<string, Order>", Generic: true, GenericArg: "string"}, find.Params[0])
	assert.Equal(t, Param{Type: "Order"}, find.Params[1])
}

func TestExtractGenericsAndStereotypes(t *testing.T) {
	src := `classDiagram
class Repository~T~ {
  <<interface>>
  +save(item: T) T
}
class Cache<K, V extends Entry> {
  +get(key: K) V?
}
class Shape
<<abstract>> Shape
class Color {
  <<enumeration>>
  RED
  GREEN
}`

	res := Extract(block(src))
	require.False(t, res.Failed(), res.Errors)
	require.Len(t, res.Classes, 4)

	repo := res.Class("Repository")
	require.NotNil(t, repo)
	assert.Equal(t, entity.StereotypeInterface, repo.Stereotype)
	assert.Equal(t, []entity.TypeParam{{Name: "T"}}, repo.TypeParams)
	require.Len(t, repo.Members, 1, "the stereotype line is not a member")

	cache := res.Class("Cache")
	require.NotNil(t, cache)
	assert.Equal(t, []entity.TypeParam{{Name: "K"}, {Name: "V", Bound: "Entry"}}, cache.TypeParams)
	assert.True(t, cache.HasTypeParam("V"))

	shape := res.Class("Shape")
	require.NotNil(t, shape)
	assert.Equal(t, entity.StereotypeAbstract, shape.Stereotype)
	assert.False(t, shape.HasBody)
	assert.True(t, shape.IsDefinition())

	color := res.Class("Color")
	require.NotNil(t, color)
	assert.Equal(t, entity.StereotypeEnum, color.Stereotype)
	require.Len(t, color.Members, 2)
	assert.Equal(t, "RED", color.Members[0].Name)
}

func TestExtractShorthandAndBareDeclarations(t *testing.T) {
	src := `classDiagram
class Customer
Order : +owner: Customer
Order : +total() decimal
class Ghost{}`

	res := Extract(block(src))
	require.False(t, res.Failed(), res.Errors)
	require.Len(t, res.Classes, 3)

	customer := res.Class("Customer")
	assert.False(t, customer.IsDefinition())
	assert.Equal(t, 12, customer.Line)
	assert.Equal(t, 12, customer.EndLine)

	order := res.Class("Order")
	require.Len(t, order.Members, 2)
	assert.Equal(t, "Customer", order.Members[0].Type)
	assert.Equal(t, 13, order.Line)

	ghost := res.Class("Ghost")
	assert.True(t, ghost.HasBody)
	assert.True(t, ghost.IsDefinition())
}

func TestExtractNamespacesAndNotes(t *testing.T) {
	src := `classDiagram
namespace shop {
  class Order {
    +id: string
  }
  class Customer
}
note for Order "aggregate root"
note "free text"
%% a comment
direction LR
style Order fill:#f9f`

	res := Extract(block(src))
	require.False(t, res.Failed(), res.Errors)
	require.Len(t, res.Namespaces, 1)
	assert.Equal(t, Namespace{Name: "shop", Classes: []string{"Order", "Customer"}, Line: 12}, res.Namespaces[0])

	order := res.Class("Order")
	require.NotNil(t, order)
	assert.Equal(t, "shop", order.Namespace)
	assert.Equal(t, []string{"aggregate root"}, order.Notes)

	require.Len(t, res.Notes, 2)
	assert.Equal(t, Note{For: "Order", Text: "aggregate root", Line: 18}, res.Notes[0])
	assert.Equal(t, Note{Text: "free text", Line: 19}, res.Notes[1])
}

func TestExtractRelationships(t *testing.T) {
	src := `classDiagram
Animal <|-- Duck
Duck --|> Bird
Shape <|.. Circle
Car *-- Engine
Pond o-- Duck
Order "1" --> "*" Item : contains
Service ..> Repo
A -- B
A .. B
Foo ()-- Bar
Engine --* Car`

	res := Extract(block(src))
	require.False(t, res.Failed(), res.Errors)
	require.Len(t, res.Relationships, 11)

	want := []struct {
		src, tgt string
		kind     entity.RelationKind
	}{
		{"Duck", "Animal", entity.RelationInheritance},
		{"Duck", "Bird", entity.RelationInheritance},
		{"Circle", "Shape", entity.RelationRealization},
		{"Car", "Engine", entity.RelationComposition},
		{"Pond", "Duck", entity.RelationAggregation},
		{"Order", "Item", entity.RelationAssociation},
		{"Service", "Repo", entity.RelationDependency},
		{"A", "B", entity.RelationLink},
		{"A", "B", entity.RelationDependency},
		{"Bar", "Foo", entity.RelationLollipop},
		{"Car", "Engine", entity.RelationComposition},
	}

	for i, w := range want {
		r := res.Relationships[i]
		assert.Equal(t, w.src, r.Source, "relationship %d", i)
		assert.Equal(t, w.tgt, r.Target, "relationship %d", i)
		assert.Equal(t, w.kind, r.Kind, "relationship %d", i)
	}

	contains := res.Relationships[5]
	assert.Equal(t, "contains", contains.Label)
	assert.Equal(t, "1", contains.SourceCardinality)
	assert.Equal(t, "*", contains.TargetCardinality)
	assert.Equal(t, 17, contains.Line)

	assert.Empty(t, res.Classes, "relationship endpoints are not declarations")
}

func TestExtractLowercaseRightEndpoint(t *testing.T) {
	tests := []struct {
		line     string
		src, tgt string
		kind     entity.RelationKind
	}{
		{"Customer --order", "Customer", "order", entity.RelationLink},
		{"Customer -->order", "Customer", "order", entity.RelationAssociation},
		{"Customer --o order", "order", "Customer", entity.RelationAggregation},
		{`Customer --o"1" order`, "order", "Customer", entity.RelationAggregation},
		{"Customer --*order", "order", "Customer", entity.RelationComposition},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := Extract(block("classDiagram\n" + tt.line))
			require.False(t, res.Failed(), res.Errors)
			require.Len(t, res.Relationships, 1)

			r := res.Relationships[0]
			assert.Equal(t, tt.src, r.Source)
			assert.Equal(t, tt.tgt, r.Target)
			assert.Equal(t, tt.kind, r.Kind)
		})
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unclosed body", "classDiagram\nclass Foo {\n  +a: int\n", "line 12: unclosed body of class Foo"},
		{"stray brace", "classDiagram\nclass Foo\n}\n", `line 13: unexpected "}"`},
		{"malformed header", "classDiagram\nclass 9Foo\n", `line 12: malformed class header "9Foo"`},
		{"unbalanced generic", "classDiagram\nclass Foo~T {\n}\n", "line 12: unbalanced generic delimiters"},
		{"unclosed namespace", "classDiagram\nnamespace shop {\nclass A\n", "line 12: unclosed namespace shop"},
		{"nested class", "classDiagram\nclass A {\nclass B {\n}\n}\n", "line 13: unclosed body of class A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Extract(block(tt.src))
			require.True(t, res.Failed())
			require.Len(t, res.Errors, 1)
			assert.Contains(t, res.Errors[0], tt.want)
			assert.Empty(t, res.Classes)
			assert.Empty(t, res.Relationships)
			assert.Empty(t, res.Namespaces)
			assert.Empty(t, res.Notes)
		})
	}
}

func TestExtractSkipsMalformedMembers(t *testing.T) {
	src := `classDiagram
class Good {
  +id: string
}
class Foo {
  +first-name: string
  +items: List<int
  +age: int
}
Good --> Foo
`

	res := Extract(block(src))
	require.False(t, res.Failed(), res.Errors)
	require.Len(t, res.Classes, 2)
	require.Len(t, res.Relationships, 1)

	foo := res.Class("Foo")
	require.NotNil(t, foo)
	require.Len(t, foo.Members, 1)
	assert.Equal(t, "age", foo.Members[0].Name)
	assert.Equal(t, 19, foo.EndLine)

	require.Len(t, res.MemberErrors, 2)
	assert.Equal(t, `line 16: member "+first-name: string" of Foo: invalid member name "first-name"`, res.MemberErrors[0])
	assert.Contains(t, res.MemberErrors[1], `line 17: member "+items: List<int" of Foo`)
}

func TestExtractFrontMatterAndEmpty(t *testing.T) {
	res := Extract(block("---\ntitle: Shop\n---\nclassDiagram\nclass A {\n}\n"))
	require.False(t, res.Failed(), res.Errors)
	require.Len(t, res.Classes, 1)

	res = Extract(block(""))
	assert.False(t, res.Failed())
	assert.Empty(t, res.Classes)
}
