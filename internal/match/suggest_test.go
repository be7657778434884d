package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	fqns := []string{"shop.Customer", "shop.Order", "crm.Customers", "shop.Invoice", "billing.Account"}

	got := Suggest("Custmer", fqns, DefaultLimit)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), DefaultLimit)
	assert.Equal(t, "shop.Customer", got[0])
	assert.NotContains(t, got, "shop.Order")
	assert.NotContains(t, got, "shop.Invoice")
}

func TestSuggestNothingClose(t *testing.T) {
	assert.Empty(t, Suggest("Ghost", []string{"Order", "Customer"}, DefaultLimit))
	assert.Empty(t, Suggest("Order", nil, DefaultLimit))
}

func TestRankIsDeterministic(t *testing.T) {
	ranked := Rank("Item", []string{"b.Item", "a.Item", "Items"})
	require.Len(t, ranked, 3)

	assert.Equal(t, []string{"a.Item", "b.Item", "Items"}, ranked.FQNs(), "ties break on FQN")
	assert.InDelta(t, 1.0, ranked[0].Score, 0.001)
}

func TestCandidateListHelpers(t *testing.T) {
	list := CandidateList{{FQN: "a", Score: 0.9}, {FQN: "b", Score: 0.5}}

	assert.Len(t, list.Top(1), 1)
	assert.Len(t, list.Top(5), 2)
	assert.Len(t, list.AboveThreshold(0.6), 1)
	assert.Empty(t, CandidateList{}.Top(3))
}
