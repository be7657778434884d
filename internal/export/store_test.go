package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "db", "specweaver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStoreSaveRun(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	res := runZoo(t)

	cyclic, err := s.SaveRun(ctx, res)
	require.NoError(t, err)
	assert.Empty(t, cyclic)

	runID := res.RunID.String()

	order, err := s.EntityOrder(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"zoo.Animal", "zoo.Dog"}, order, "parents are stored first")

	n, err := s.MemberCount(ctx, runID, "zoo.Dog")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	unresolved, err := s.References(ctx, runID, StatusUnresolved)
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Equal(t, res.Report.Unresolved[0], unresolved[0])
	assert.Equal(t, "Keeper", unresolved[0].Target)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 2, runs[0].Entities)
	assert.Equal(t, 1, runs[0].Unresolved)
}

func TestStoreDeleteRun(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	first := runZoo(t)
	second := runZoo(t)

	_, err := s.SaveRun(ctx, first)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, second)
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(ctx, first.RunID.String()))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second.RunID.String(), runs[0].ID)

	order, err := s.EntityOrder(ctx, first.RunID.String())
	require.NoError(t, err)
	assert.Empty(t, order)

	n, err := s.MemberCount(ctx, first.RunID.String(), "zoo.Dog")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "specweaver.db")

	s, err := Open(path)
	require.NoError(t, err)

	res := runZoo(t)
	_, err = s.SaveRun(ctx, res)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}
