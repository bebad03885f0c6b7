package badger

import (
	"context"
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) *MemoryStores {
	t.Helper()
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })
	return stores
}

func testBusiness(name, city string, tier core.Tier) *core.BusinessRecord {
	return &core.BusinessRecord{
		Name:     name,
		Category: "Restaurant",
		City:     city,
		Tier:     tier,
		Rating:   4.2,
	}
}

func TestBusinessStore_PutAndGet(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	t.Run("assigns content-based id and timestamps", func(t *testing.T) {
		records, err := stores.Businesses.PutBusinesses(ctx, testBusiness("Taverna Mykonos", "Harborview", core.TierUnclaimed))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.NotEqual(t, core.ID(0), records[0].Id)
		assert.False(t, records[0].InsertedAt.IsZero())
		assert.False(t, records[0].UpdatedAt.IsZero())

		got, err := stores.Businesses.GetBusiness(ctx, records[0].Id)
		require.NoError(t, err)
		assert.Equal(t, "Taverna Mykonos", got.Name)
	})

	t.Run("same name and city produce the same id", func(t *testing.T) {
		a, err := stores.Businesses.PutBusinesses(ctx, testBusiness("Corner Cafe", "Harborview", core.TierUnclaimed))
		require.NoError(t, err)
		b, err := stores.Businesses.PutBusinesses(ctx, testBusiness("Corner Cafe", "harborview", core.TierUnclaimed))
		require.NoError(t, err)
		assert.Equal(t, a[0].Id, b[0].Id)
	})

	t.Run("missing record returns ErrNotFound", func(t *testing.T) {
		_, err := stores.Businesses.GetBusiness(ctx, core.ID(999999))
		assert.ErrorIs(t, err, inventory.ErrNotFound)
	})

	t.Run("invalid record is rejected", func(t *testing.T) {
		_, err := stores.Businesses.PutBusinesses(ctx, &core.BusinessRecord{City: "Harborview", Tier: core.TierUnclaimed})
		assert.ErrorIs(t, err, core.ErrInvalidBusinessRecord)
	})
}

func TestBusinessStore_ListByTier(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	_, err := stores.Businesses.PutBusinesses(ctx,
		testBusiness("Paid One", "Harborview", core.TierPaid),
		testBusiness("Paid Two", "Harborview", core.TierPaid),
		testBusiness("Claimed One", "Harborview", core.TierClaimedFree),
		testBusiness("Indie One", "Harborview", core.TierUnclaimed),
		testBusiness("Other City", "Westport", core.TierPaid),
	)
	require.NoError(t, err)

	t.Run("returns only the requested tier and city", func(t *testing.T) {
		paid, err := stores.Businesses.ListByTier(ctx, "Harborview", core.TierPaid)
		require.NoError(t, err)
		assert.Len(t, paid, 2)
		for _, b := range paid {
			assert.Equal(t, core.TierPaid, b.Tier)
			assert.Equal(t, "Harborview", b.City)
		}
	})

	t.Run("city lookup is case-insensitive", func(t *testing.T) {
		paid, err := stores.Businesses.ListByTier(ctx, "HARBORVIEW", core.TierPaid)
		require.NoError(t, err)
		assert.Len(t, paid, 2)
	})

	t.Run("empty tier returns empty slice", func(t *testing.T) {
		unclaimed, err := stores.Businesses.ListByTier(ctx, "Westport", core.TierUnclaimed)
		require.NoError(t, err)
		assert.Empty(t, unclaimed)
	})

	t.Run("invalid tier is rejected", func(t *testing.T) {
		_, err := stores.Businesses.ListByTier(ctx, "Harborview", core.Tier(9))
		assert.ErrorIs(t, err, core.ErrInvalidTier)
	})
}

func TestBusinessStore_TierChangeReindexes(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	records, err := stores.Businesses.PutBusinesses(ctx, testBusiness("Upgrader", "Harborview", core.TierUnclaimed))
	require.NoError(t, err)

	// Business claims its listing and pays: move to the paid tier
	upgraded := records[0]
	upgraded.Tier = core.TierPaid
	_, err = stores.Businesses.PutBusinesses(ctx, upgraded)
	require.NoError(t, err)

	unclaimed, err := stores.Businesses.ListByTier(ctx, "Harborview", core.TierUnclaimed)
	require.NoError(t, err)
	assert.Empty(t, unclaimed)

	paid, err := stores.Businesses.ListByTier(ctx, "Harborview", core.TierPaid)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "Upgrader", paid[0].Name)
}
