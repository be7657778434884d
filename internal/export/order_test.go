package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specweaver/internal/entity"
)

func TestTopoSortOrder(t *testing.T) {
	order, rest, err := topoSort(3, func(i int) []int {
		switch i {
		case 1:
			return []int{0}
		case 2:
			return []int{1}
		default:
			return nil
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Empty(t, rest)
}

func TestTopoSortPrefersSmallestIndex(t *testing.T) {
	order, _, err := topoSort(4, func(i int) []int {
		if i == 0 {
			return []int{3}
		}

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 0}, order)
}

func TestTopoSortCycle(t *testing.T) {
	order, rest, err := topoSort(3, func(i int) []int {
		switch i {
		case 0:
			return []int{1}
		case 1:
			return []int{0}
		default:
			return nil
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, order)
	assert.Equal(t, []int{0, 1}, rest)
}

func TestTopoSortOutOfRange(t *testing.T) {
	_, _, err := topoSort(1, func(int) []int { return []int{5} })
	require.Error(t, err)
}

func specWithParents(fqn string, parents ...string) *entity.EntitySpec {
	e := &entity.EntitySpec{FQN: fqn}
	for _, p := range parents {
		e.Relationships = append(e.Relationships, entity.Relationship{
			Source: fqn,
			Target: p,
			Kind:   entity.RelationInheritance,
		})
	}

	return e
}

func fqnsOf(entities []*entity.EntitySpec) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.FQN)
	}

	return out
}

func TestHierarchyOrder(t *testing.T) {
	entities := []*entity.EntitySpec{
		specWithParents("zoo.Puppy", "zoo.Dog"),
		specWithParents("zoo.Dog", "zoo.Animal"),
		specWithParents("zoo.Keeper"),
		specWithParents("zoo.Animal", "java.lang.Object"),
	}

	ordered, cyclic := HierarchyOrder(entities)
	assert.Empty(t, cyclic)
	assert.Equal(t, []string{"zoo.Keeper", "zoo.Animal", "zoo.Dog", "zoo.Puppy"}, fqnsOf(ordered))
}

func TestHierarchyOrderCycle(t *testing.T) {
	entities := []*entity.EntitySpec{
		specWithParents("a.A", "a.B"),
		specWithParents("a.B", "a.A"),
		specWithParents("a.C"),
	}

	ordered, cyclic := HierarchyOrder(entities)
	assert.Equal(t, []string{"a.C", "a.A", "a.B"}, fqnsOf(ordered))
	assert.Equal(t, []string{"a.A", "a.B"}, cyclic)
}

func TestHierarchyOrderIgnoresNonHierarchyEdges(t *testing.T) {
	owner := &entity.EntitySpec{FQN: "a.Owner", Relationships: []entity.Relationship{
		{Source: "a.Owner", Target: "a.Part", Kind: entity.RelationComposition},
	}}
	part := &entity.EntitySpec{FQN: "a.Part"}

	ordered, _ := HierarchyOrder([]*entity.EntitySpec{owner, part})
	assert.Equal(t, []string{"a.Owner", "a.Part"}, fqnsOf(ordered))
}
