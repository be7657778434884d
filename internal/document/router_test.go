package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		content string
		want    DiagramKind
	}{
		{"classDiagram\n  class A", KindClass},
		{"\n\n  classDiagram-v2\n", KindClass},
		{"%% comment\nclassDiagram", KindClass},
		{"---\ntitle: Shop\n---\nclassDiagram\n", KindClass},
		{"sequenceDiagram\n A->>B: hi", KindSequence},
		{"flowchart LR\n A-->B", KindFlowchart},
		{"graph TD;\n A-->B", KindFlowchart},
		{"graph;", KindFlowchart},
		{"erDiagram\n", KindER},
		{"stateDiagram-v2\n", KindState},
		{"pie title Pets", KindUnknown},
		{"", KindUnknown},
		{"%% only a comment", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.content))
		})
	}
}

func TestRoutePartitions(t *testing.T) {
	blocks := []Block{
		{Index: 0, Language: "mermaid", Content: "classDiagram\nclass A"},
		{Index: 1, Language: "go", Content: "classDiagram"},
		{Index: 2, Language: "mermaid", Content: "sequenceDiagram"},
		{Index: 3, Language: "Mermaid", Content: "classDiagram\nclass B"},
		{Index: 4, Language: "mermaid", Content: "journey"},
	}

	routes := Route(blocks, DefaultLanguages)

	for _, k := range Kinds {
		_, ok := routes[k]
		assert.True(t, ok, "partition %s must exist", k)
	}

	require.Len(t, routes[KindClass], 2)
	assert.Equal(t, 0, routes[KindClass][0].Index)
	assert.Equal(t, 3, routes[KindClass][1].Index)
	require.Len(t, routes[KindSequence], 1)
	require.Len(t, routes[KindUnknown], 1)
	assert.Equal(t, 4, routes[KindUnknown][0].Index)
	assert.Empty(t, routes[KindER])
	assert.Equal(t, 4, routes.Count(), "the go block is not a diagram block")
}

func TestRouteCustomLanguages(t *testing.T) {
	blocks := []Block{
		{Language: "mermaid", Content: "classDiagram"},
		{Language: "uml", Content: "classDiagram"},
	}

	routes := Route(blocks, []string{"uml"})
	require.Len(t, routes[KindClass], 1)
	assert.Equal(t, "uml", routes[KindClass][0].Language)
}

func TestRouteEmpty(t *testing.T) {
	routes := Route(nil, nil)
	assert.Len(t, routes, len(Kinds))
	assert.Equal(t, 0, routes.Count())
}
