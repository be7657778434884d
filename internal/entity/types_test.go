package entity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStereotype(t *testing.T) {
	tests := map[string]Stereotype{
		"interface":   StereotypeInterface,
		" Interface ": StereotypeInterface,
		"abstract":    StereotypeAbstract,
		"Enumeration": StereotypeEnum,
		"enum":        StereotypeEnum,
		"service":     StereotypeService,
		"Entity":      StereotypeEntity,
		"dataType":    StereotypeClass,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseStereotype(in))
		})
	}
}

func TestVisibilityFromMarker(t *testing.T) {
	tests := []struct {
		marker byte
		want   Visibility
		ok     bool
	}{
		{'+', VisibilityPublic, true},
		{'-', VisibilityPrivate, true},
		{'#', VisibilityProtected, true},
		{'~', VisibilityPackage, true},
		{'a', VisibilityPublic, false},
	}

	for _, tt := range tests {
		got, ok := VisibilityFromMarker(tt.marker)
		assert.Equal(t, tt.want, got, string(tt.marker))
		assert.Equal(t, tt.ok, ok, string(tt.marker))
	}
}

func TestEntitySpecSets(t *testing.T) {
	e := &EntitySpec{FQN: "shop.Order"}

	e.AddUnresolvedType("Customer")
	e.AddUnresolvedType("Customer")
	e.AddUnresolvedType("Line")
	assert.Equal(t, []string{"Customer", "Line"}, e.UnresolvedTypes)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			e.AddExternalDependency("java.time.Instant")
		}()
	}

	wg.Wait()
	assert.Equal(t, []string{"java.time.Instant"}, e.ExternalDependencies())
}

func TestEntitySpecLookups(t *testing.T) {
	e := &EntitySpec{
		FQN:        "shop.Repo",
		TypeParams: []TypeParam{{Name: "T", Bound: "Entity"}},
		Properties: []Property{{Name: "items", Type: "T[]"}},
		Methods:    []Method{{Name: "find", ReturnType: "T"}},
		Relationships: []Relationship{
			{Source: "shop.Repo", Target: "shop.Base", Kind: RelationInheritance},
			{Source: "shop.Repo", Target: "shop.Store", Kind: RelationAssociation},
			{Source: "shop.Repo", Target: "shop.Finder", Kind: RelationRealization},
		},
	}

	assert.NotNil(t, e.Property("items"))
	assert.Nil(t, e.Property("missing"))
	assert.NotNil(t, e.Method("find"))
	assert.Nil(t, e.Method("save"))
	assert.True(t, e.HasTypeParam("T"))
	assert.False(t, e.HasTypeParam("U"))
	assert.Equal(t, []string{"shop.Base", "shop.Finder"}, e.Parents())
}
