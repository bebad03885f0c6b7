package resolve

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/concierge/ai/mock"
	"github.com/poiesic/concierge/core"
	badgerstore "github.com/poiesic/concierge/inventory/badger"
	"github.com/poiesic/concierge/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*Resolver, *badgerstore.MemoryStores, *mock.MockSearcher) {
	t.Helper()
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	searcher := mock.NewMockSearcher()
	resolver, err := NewResolver(stores.Businesses, stores.Offers, searcher)
	require.NoError(t, err)
	t.Cleanup(resolver.Release)
	return resolver, stores, searcher
}

func seedBusiness(t *testing.T, stores *badgerstore.MemoryStores, name, category string, tier core.Tier, rating float64, reviews int) *core.BusinessRecord {
	t.Helper()
	records, err := stores.Businesses.PutBusinesses(context.Background(), &core.BusinessRecord{
		Name:        name,
		Category:    category,
		City:        "Harborview",
		Tier:        tier,
		Rating:      rating,
		ReviewCount: reviews,
	})
	require.NoError(t, err)
	return records[0]
}

func intentFor(t *testing.T, q string) *core.IntentResult {
	t.Helper()
	intent := query.DetectIntent(q)
	require.True(t, intent.HasIntent(), "query %q should carry intent", q)
	return intent
}

func TestResolver_RequiresDependencies(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	_, err = NewResolver(nil, stores.Offers, mock.NewMockSearcher())
	assert.ErrorIs(t, err, ErrBusinessStoreRequired)

	_, err = NewResolver(stores.Businesses, nil, mock.NewMockSearcher())
	assert.ErrorIs(t, err, ErrOfferStoreRequired)

	_, err = NewResolver(stores.Businesses, stores.Offers, nil)
	assert.ErrorIs(t, err, ErrSearcherRequired)
}

func TestResolver_RequiresCity(t *testing.T) {
	resolver, _, _ := newTestResolver(t)
	_, err := resolver.Resolve(context.Background(), &Request{Query: "greek food"})
	assert.ErrorIs(t, err, ErrCityRequired)
}

func TestResolver_PromotesRelevantOverPaidMismatch(t *testing.T) {
	resolver, stores, _ := newTestResolver(t)

	// An unclaimed Greek restaurant against an irrelevant paid cafe.
	// Paid placement must not bury the actual match.
	greek := seedBusiness(t, stores, "Taverna Mykonos", "Greek Restaurant", core.TierUnclaimed, 5.0, 83)
	seedBusiness(t, stores, "Sunrise Cafe", "Cafe", core.TierPaid, 4.2, 10)

	resolution, err := resolver.Resolve(context.Background(), &Request{
		Query:  "greek food",
		City:   "Harborview",
		Intent: intentFor(t, "greek food"),
	})
	require.NoError(t, err)

	require.Len(t, resolution.Primaries, 1)
	assert.Equal(t, greek.Id, resolution.Primaries[0].Business.Id)
	assert.Empty(t, resolution.Supplements)
	assert.True(t, resolution.Promoted)
	assert.False(t, resolution.Browse)
}

func TestResolver_SufficientTopTierKeepsPrimary(t *testing.T) {
	resolver, stores, _ := newTestResolver(t)

	seedBusiness(t, stores, "Olympia Greek Grill", "Greek Restaurant", core.TierPaid, 4.6, 120)
	seedBusiness(t, stores, "Athens Corner", "Greek Taverna", core.TierPaid, 4.4, 60)
	seedBusiness(t, stores, "Hidden Souvlaki", "Greek Street Food", core.TierUnclaimed, 4.9, 40)
	seedBusiness(t, stores, "Gyro Hut", "Greek Takeaway", core.TierUnclaimed, 4.1, 15)
	seedBusiness(t, stores, "Mezze House", "Greek Restaurant", core.TierUnclaimed, 4.0, 25)

	resolution, err := resolver.Resolve(context.Background(), &Request{
		Query:  "greek food",
		City:   "Harborview",
		Intent: intentFor(t, "greek food"),
	})
	require.NoError(t, err)

	require.Len(t, resolution.Primaries, 2)
	for _, sb := range resolution.Primaries {
		assert.Equal(t, core.TierPaid, sb.Business.Tier)
	}
	assert.False(t, resolution.Promoted)
	assert.LessOrEqual(t, len(resolution.Supplements), supplementLimit)
	for _, sb := range resolution.Supplements {
		assert.NotEqual(t, core.TierPaid, sb.Business.Tier)
	}
}

func TestResolver_EveryResultCarriesReasonAndMeta(t *testing.T) {
	resolver, stores, _ := newTestResolver(t)
	seedBusiness(t, stores, "Taverna Mykonos", "Greek Restaurant", core.TierUnclaimed, 4.8, 90)
	seedBusiness(t, stores, "Athens Corner", "Greek Taverna", core.TierUnclaimed, 4.2, 30)

	resolution, err := resolver.Resolve(context.Background(), &Request{
		Query:  "greek food",
		City:   "Harborview",
		Intent: intentFor(t, "greek food"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resolution.Primaries)

	for _, sb := range append(resolution.Primaries, resolution.Supplements...) {
		assert.NotEmpty(t, sb.Reason.Type, sb.Business.Name)
		assert.NotEmpty(t, sb.Reason.Label, sb.Business.Name)
		assert.Equal(t, -1.0, sb.Meta.DistanceMeters, "no user location given")
	}
}

func TestResolver_BrowseFill(t *testing.T) {
	resolver, stores, _ := newTestResolver(t)

	for i := 0; i < 12; i++ {
		seedBusiness(t, stores, fmt.Sprintf("Spot %02d", i), "Restaurant", core.TierUnclaimed, 3.0+float64(i)*0.1, 10+i)
	}

	t.Run("fills to target sorted by rating", func(t *testing.T) {
		resolution, err := resolver.Resolve(context.Background(), &Request{
			Query:  "show me everything",
			City:   "Harborview",
			Browse: core.BrowseNew,
		})
		require.NoError(t, err)

		assert.True(t, resolution.Browse)
		require.Len(t, resolution.Primaries, browseFillTarget)
		assert.Equal(t, browseFillTarget, resolution.NextBrowseOffset)
		for i := 1; i < len(resolution.Primaries); i++ {
			assert.GreaterOrEqual(t,
				resolution.Primaries[i-1].Business.Rating,
				resolution.Primaries[i].Business.Rating)
		}
	})

	t.Run("browse_more continues from the stored offset", func(t *testing.T) {
		resolution, err := resolver.Resolve(context.Background(), &Request{
			Query:        "more please",
			City:         "Harborview",
			Browse:       core.BrowseMore,
			BrowseOffset: browseFillTarget,
		})
		require.NoError(t, err)

		require.Len(t, resolution.Primaries, 4)
		assert.Equal(t, browseFillTarget+4, resolution.NextBrowseOffset)

		// The second page holds the lower-rated remainder
		for _, sb := range resolution.Primaries {
			assert.Less(t, sb.Business.Rating, 3.8)
		}
	})
}

func TestResolver_BrowseTierMonotonicity(t *testing.T) {
	resolver, stores, _ := newTestResolver(t)

	seedBusiness(t, stores, "Paid Equal", "Restaurant", core.TierPaid, 4.0, 50)
	seedBusiness(t, stores, "Claimed Equal", "Restaurant", core.TierClaimedFree, 4.0, 50)
	seedBusiness(t, stores, "Unclaimed Equal", "Restaurant", core.TierUnclaimed, 4.0, 50)

	resolution, err := resolver.Resolve(context.Background(), &Request{
		Query:  "show me everything",
		City:   "Harborview",
		Browse: core.BrowseNew,
	})
	require.NoError(t, err)
	require.Len(t, resolution.Primaries, 3)

	assert.Equal(t, core.TierPaid, resolution.Primaries[0].Business.Tier)
	assert.Equal(t, core.TierClaimedFree, resolution.Primaries[1].Business.Tier)
	assert.Equal(t, core.TierUnclaimed, resolution.Primaries[2].Business.Tier)
}

func TestResolver_SemanticEvidenceBoostsScore(t *testing.T) {
	resolver, stores, searcher := newTestResolver(t)

	plain := seedBusiness(t, stores, "Plain Bistro", "Bistro", core.TierUnclaimed, 4.0, 20)
	evidenced := seedBusiness(t, stores, "Garden Bistro", "Bistro", core.TierUnclaimed, 4.0, 20)

	searcher.SearchFunc = func(ctx context.Context, q, city string, matchCount int, matchThreshold float64) ([]*core.KnowledgeSnippet, error) {
		return []*core.KnowledgeSnippet{
			{
				BusinessId: evidenced.Id,
				City:       "Harborview",
				Title:      "Garden",
				Content:    "Large dog friendly beer garden out back",
				Type:       core.KnowledgeGeneral,
				Similarity: 0.92,
			},
		}, nil
	}

	resolution, err := resolver.Resolve(context.Background(), &Request{
		Query:  "dog friendly places",
		City:   "Harborview",
		Intent: intentFor(t, "dog friendly places"),
	})
	require.NoError(t, err)

	require.NotEmpty(t, resolution.Primaries)
	assert.Equal(t, evidenced.Id, resolution.Primaries[0].Business.Id)
	for _, sb := range append(resolution.Primaries, resolution.Supplements...) {
		assert.NotEqual(t, plain.Id, sb.Business.Id, "no evidence, no intent match, must be excluded")
	}
}

func TestResolver_SourceFailureDegrades(t *testing.T) {
	resolver, stores, searcher := newTestResolver(t)
	seedBusiness(t, stores, "Taverna Mykonos", "Greek Restaurant", core.TierUnclaimed, 4.8, 90)

	searcher.SearchFunc = func(ctx context.Context, q, city string, matchCount int, matchThreshold float64) ([]*core.KnowledgeSnippet, error) {
		return nil, assert.AnError
	}

	resolution, err := resolver.Resolve(context.Background(), &Request{
		Query:  "greek food",
		City:   "Harborview",
		Intent: intentFor(t, "greek food"),
	})
	require.NoError(t, err)
	require.Len(t, resolution.Primaries, 1)
	assert.Empty(t, resolution.SemanticHits)
}

func TestResolver_CountsApprovedOffers(t *testing.T) {
	resolver, stores, _ := newTestResolver(t)
	seedBusiness(t, stores, "Taverna Mykonos", "Greek Restaurant", core.TierUnclaimed, 4.8, 90)

	_, err := stores.Offers.PutOffers(context.Background(), &core.Offer{
		BusinessName: "Taverna Mykonos",
		City:         "Harborview",
		Title:        "Lunch deal",
		Discount:     "20% off mains",
		Approved:     true,
	})
	require.NoError(t, err)

	resolution, err := resolver.Resolve(context.Background(), &Request{
		Query:  "greek food",
		City:   "Harborview",
		Intent: intentFor(t, "greek food"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resolution.AvailableOffers)
}
