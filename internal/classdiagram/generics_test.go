package classdiagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteTildes(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "List~int~", want: "List<int>"},
		{in: "Map~string, List~Order~~", want: "Map<string, List<Order>>"},
		{in: "List~T~ items", want: "List<T> items"},
		{in: "Plain", want: "Plain"},
		{in: "List~int", wantErr: true},
		{in: "~", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := rewriteTildes(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"a: Map<K, V>", " b: int"}, splitTopLevel("a: Map<K, V>, b: int", ','))
	assert.Equal(t, []string{""}, splitTopLevel("", ','))
}

func TestParseTypeParams(t *testing.T) {
	tps, err := parseTypeParams("K, V extends Base<K>")
	require.NoError(t, err)
	require.Len(t, tps, 2)
	assert.Equal(t, "Base<K>", tps[1].Bound)

	_, err = parseTypeParams("K,")
	require.Error(t, err)

	_, err = parseTypeParams("1K")
	require.Error(t, err)
}

func TestFirstTypeArg(t *testing.T) {
	assert.Equal(t, "K", firstTypeArg("Map<K, List<V>>"))
	assert.Equal(t, "List<V>", firstTypeArg("Box<List<V>>"))
	assert.Empty(t, firstTypeArg("Order"))
}
