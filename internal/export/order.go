package export

import (
	"fmt"
	"sort"

	"specweaver/internal/entity"
)

// topoSort returns indices so that every node follows its dependencies.
//
// Nodes are by index in the input slice.
// depsFn(i) yields indices that must come before i.
//
// The result is deterministic: when multiple nodes are available, the
// smallest index is picked. Nodes on or behind a cycle cannot be ordered and
// are returned in rest, in index order.
func topoSort(n int, depsFn func(i int) []int) (order, rest []int, err error) {
	if n <= 0 {
		return nil, nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// keep ready sorted
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	for i := range n {
		if indeg[i] > 0 {
			rest = append(rest, i)
		}
	}

	return order, rest, nil
}

// HierarchyOrder orders entities so that every parent (inheritance or
// realization target) comes before its children. Parents outside the given
// set are ignored. Entities caught in an inheritance cycle are appended in
// input order and their FQNs returned as cyclic.
func HierarchyOrder(entities []*entity.EntitySpec) (ordered []*entity.EntitySpec, cyclic []string) {
	index := make(map[string]int, len(entities))
	for i, e := range entities {
		index[e.FQN] = i
	}

	order, rest, err := topoSort(len(entities), func(i int) []int {
		var deps []int

		for _, parent := range entities[i].Parents() {
			if j, ok := index[parent]; ok && j != i {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		// indices come from index, so they are always in range
		return append([]*entity.EntitySpec(nil), entities...), nil
	}

	ordered = make([]*entity.EntitySpec, 0, len(entities))
	for _, i := range order {
		ordered = append(ordered, entities[i])
	}

	for _, i := range rest {
		ordered = append(ordered, entities[i])
		cyclic = append(cyclic, entities[i].FQN)
	}

	return ordered, cyclic
}
