package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOffer(business, title string, approved bool) *core.Offer {
	return &core.Offer{
		BusinessName: business,
		City:         "Harborview",
		Title:        title,
		Discount:     "20% off mains",
		ValidUntil:   time.Now().UTC().Add(30 * 24 * time.Hour),
		Approved:     approved,
	}
}

func TestOfferStore_ApprovedOnly(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	_, err := stores.Offers.PutOffers(ctx,
		testOffer("Taverna Mykonos", "Lunch special", true),
		testOffer("Corner Cafe", "Coffee and cake", true),
		testOffer("Shady Deals", "Pending review", false),
	)
	require.NoError(t, err)

	t.Run("only approved offers are returned", func(t *testing.T) {
		offers, err := stores.Offers.ApprovedOffers(ctx, "Harborview")
		require.NoError(t, err)
		assert.Len(t, offers, 2)
		for _, offer := range offers {
			assert.True(t, offer.Approved)
		}
	})

	t.Run("count matches listing", func(t *testing.T) {
		count, err := stores.Offers.CountApprovedOffers(ctx, "harborview")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("unknown city yields zero", func(t *testing.T) {
		count, err := stores.Offers.CountApprovedOffers(ctx, "Westport")
		require.NoError(t, err)
		assert.Zero(t, count)

		offers, err := stores.Offers.ApprovedOffers(ctx, "Westport")
		require.NoError(t, err)
		assert.Empty(t, offers)
	})
}

func TestOfferStore_Validation(t *testing.T) {
	stores := newTestStores(t)

	offer := testOffer("", "No business attached", true)
	_, err := stores.Offers.PutOffers(context.Background(), offer)
	assert.ErrorIs(t, err, core.ErrMissingBusiness)
}

func TestOfferStore_PutReplacesById(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	first, err := stores.Offers.PutOffers(ctx, testOffer("Taverna Mykonos", "Lunch special", false))
	require.NoError(t, err)

	// Moderation approves the same offer: same identity, updated row
	approved := testOffer("Taverna Mykonos", "Lunch special", true)
	second, err := stores.Offers.PutOffers(ctx, approved)
	require.NoError(t, err)
	assert.Equal(t, first[0].Id, second[0].Id)

	count, err := stores.Offers.CountApprovedOffers(ctx, "Harborview")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
