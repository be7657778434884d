package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specweaver/internal/diagnostic"
	"specweaver/internal/entity"
)

func spec(fqn string) *entity.EntitySpec {
	return &entity.EntitySpec{FQN: fqn, Kind: entity.KindDefinition}
}

func TestRegisterLookup(t *testing.T) {
	fqns := []string{"Order", "shop.Order", "com.acme.shop.Customer", "_internal.x1", "a.b_c.D9"}

	r := New()

	for _, fqn := range fqns {
		s := spec(fqn)
		require.NoError(t, r.Register(s), fqn)

		got, ok := r.Lookup(fqn)
		require.True(t, ok)
		assert.Same(t, s, got)
		assert.Equal(t, fqn, got.FQN)
		assert.True(t, r.Exists(fqn))
	}

	assert.Equal(t, len(fqns), r.Size())
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	first := spec("shop.Order")
	first.File = "a.md"

	require.NoError(t, r.Register(first))

	second := spec("shop.Order")
	second.File = "b.md"

	err := r.Register(second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateFQN)

	var regErr *Error
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, diagnostic.CodeDuplicateFQN, regErr.Code)
	assert.Equal(t, "shop.Order", regErr.FQN)

	// Rejection is idempotent and leaves the original in place.
	require.ErrorIs(t, r.Register(second), ErrDuplicateFQN)

	got, ok := r.Lookup("shop.Order")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, "a.md", got.File)
	assert.Equal(t, 1, r.Size())
}

func TestRegisterInvalid(t *testing.T) {
	bad := []string{"", ".", "shop.", ".Order", "shop..Order", "1Order", "shop.9x", "sh op.Order", "shop-x.Order", "Order<T>", "List[]"}

	r := New()
	require.NoError(t, r.Register(spec("Existing")))

	for _, fqn := range bad {
		t.Run(fmt.Sprintf("%q", fqn), func(t *testing.T) {
			err := r.Register(spec(fqn))
			require.ErrorIs(t, err, ErrInvalidFQN)

			var regErr *Error
			require.True(t, errors.As(err, &regErr))
			assert.Equal(t, diagnostic.CodeInvalidFQN, regErr.Code)
			assert.Equal(t, 1, r.Size())
		})
	}

	require.ErrorIs(t, r.Register(nil), ErrInvalidFQN)
}

func TestLookupMissing(t *testing.T) {
	r := New()

	got, ok := r.Lookup("nope")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, r.Exists("nope"))
}

func TestListByPackageAndNames(t *testing.T) {
	r := New()
	for _, fqn := range []string{"shop.Order", "billing.Invoice", "shop.Customer", "Root", "billing.Order"} {
		require.NoError(t, r.Register(spec(fqn)))
	}

	shop := r.ListByPackage("shop")
	require.Len(t, shop, 2)
	assert.Equal(t, "shop.Order", shop[0].FQN)
	assert.Equal(t, "shop.Customer", shop[1].FQN)

	root := r.ListByPackage("")
	require.Len(t, root, 1)
	assert.Equal(t, "Root", root[0].FQN)

	assert.Empty(t, r.ListByPackage("missing"))
	assert.Equal(t, []string{"billing.Order", "shop.Order"}, r.FindByName("Order"))
	assert.Empty(t, r.FindByName("Ghost"))

	all := r.All()
	require.Len(t, all, 5)
	assert.Equal(t, "Root", all[0].FQN)
	assert.Equal(t, "billing.Invoice", all[1].FQN)
	assert.Equal(t, "shop.Order", all[4].FQN)
}

func TestFreezeAndClear(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(spec("A")))

	r.Freeze()

	err := r.Register(spec("B"))
	require.ErrorIs(t, err, ErrFrozen)

	var regErr *Error
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, diagnostic.CodeRegistryFrozen, regErr.Code)

	got, ok := r.Lookup("A")
	assert.True(t, ok)
	assert.NotNil(t, got)

	r.Clear()
	assert.Equal(t, 0, r.Size())
	assert.Empty(t, r.FindByName("A"))
	require.NoError(t, r.Register(spec("B")))
}

func TestConcurrentRegisterKeepsOneWinner(t *testing.T) {
	r := New()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if r.Register(spec("shop.Order")) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, r.Size())
}
