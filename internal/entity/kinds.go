package entity

import "strings"

// Kind tells how an entity entered the registry.
type Kind string

const (
	// KindDefinition is a class declared with a body, members, stereotype or generics.
	KindDefinition Kind = "definition"
	// KindReference is a bare declaration such as "class Foo".
	KindReference Kind = "reference"
	// KindExternal is a class whose FQN matches a configured external prefix.
	KindExternal Kind = "external"
)

// Stereotype refines how a class is interpreted.
type Stereotype string

const (
	StereotypeClass     Stereotype = "class"
	StereotypeInterface Stereotype = "interface"
	StereotypeAbstract  Stereotype = "abstract"
	StereotypeEnum      Stereotype = "enum"
	StereotypeService   Stereotype = "service"
	StereotypeEntity    Stereotype = "entity"
)

// ParseStereotype maps an annotation body ("interface", "Enumeration", ...) to a Stereotype.
// Unknown annotations fall back to StereotypeClass.
func ParseStereotype(s string) Stereotype {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interface":
		return StereotypeInterface
	case "abstract":
		return StereotypeAbstract
	case "enum", "enumeration":
		return StereotypeEnum
	case "service":
		return StereotypeService
	case "entity":
		return StereotypeEntity
	default:
		return StereotypeClass
	}
}

// Visibility of a member.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
)

// VisibilityFromMarker maps a leading member marker to a Visibility.
// The second result is false when r is not a visibility marker.
func VisibilityFromMarker(r byte) (Visibility, bool) {
	switch r {
	case '+':
		return VisibilityPublic, true
	case '-':
		return VisibilityPrivate, true
	case '#':
		return VisibilityProtected, true
	case '~':
		return VisibilityPackage, true
	default:
		return VisibilityPublic, false
	}
}

// Category is the resolved-category tag of a member type expression.
type Category string

const (
	CategoryPrimitive Category = "primitive"
	CategoryArray     Category = "array"
	CategoryGeneric   Category = "generic"
	CategoryUnion     Category = "union"
	CategoryCustom    Category = "custom"
	CategoryTypeParam Category = "typeparam"
	CategoryUntyped   Category = "untyped"
)

// RelationKind classifies a relationship edge.
type RelationKind string

const (
	RelationAssociation RelationKind = "association"
	RelationAggregation RelationKind = "aggregation"
	RelationComposition RelationKind = "composition"
	RelationInheritance RelationKind = "inheritance"
	RelationRealization RelationKind = "realization"
	RelationDependency  RelationKind = "dependency"
	RelationLollipop    RelationKind = "lollipop"
	RelationLink        RelationKind = "link"
)

// IsHierarchy reports whether the relation makes the source a subtype of the target.
func (k RelationKind) IsHierarchy() bool {
	return k == RelationInheritance || k == RelationRealization
}
