package rank

import (
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/query"
	"github.com/stretchr/testify/assert"
)

func business(name, category string, tier core.Tier) *core.BusinessRecord {
	return &core.BusinessRecord{
		Name:     name,
		Category: category,
		City:     "harborview",
		Tier:     tier,
	}
}

func TestScore_FacetGateIsAbsolute(t *testing.T) {
	facets := query.Facets{Alcohol: true}
	bakery := business("Corner Bakery", "Bakery", core.TierUnclaimed)
	intent := &core.IntentResult{Categories: []string{"bakery"}}

	t.Run("gated regardless of similarity", func(t *testing.T) {
		assert.Zero(t, Score(bakery, intent, "", 0.95, facets))
	})

	t.Run("gated regardless of intent strength", func(t *testing.T) {
		assert.Zero(t, Score(bakery, intent, "fresh croissants daily", 0, facets))
	})

	t.Run("knowledge signal lifts the gate", func(t *testing.T) {
		score := Score(bakery, intent, "we pour local craft beer with brunch", 0, facets)
		assert.Greater(t, score, 0.0)
	})

	t.Run("capable category lifts the gate", func(t *testing.T) {
		pub := business("The Brass Lantern", "Pub", core.TierUnclaimed)
		score := Score(pub, &core.IntentResult{Categories: []string{"bar"}}, "", 0, facets)
		assert.Greater(t, score, 0.0)
	})
}

func TestScore_NegationGate(t *testing.T) {
	intent := &core.IntentResult{
		Categories: []string{"restaurant"},
		Negated:    []string{"seafood"},
	}

	t.Run("negated category in metadata", func(t *testing.T) {
		b := business("Harbor Catch", "Seafood Restaurant", core.TierPaid)
		assert.Zero(t, Score(b, intent, "", 0, query.Facets{}))
	})

	t.Run("negated synonym in name", func(t *testing.T) {
		b := business("The Oysters House", "Restaurant", core.TierPaid)
		assert.Zero(t, Score(b, intent, "", 0, query.Facets{}))
	})

	t.Run("negation beats semantic evidence", func(t *testing.T) {
		b := business("Harbor Catch", "Seafood Restaurant", core.TierPaid)
		assert.Zero(t, Score(b, intent, "", 0.9, query.Facets{}))
	})

	t.Run("unrelated business passes", func(t *testing.T) {
		b := business("Santorini Taverna", "Greek Restaurant", core.TierUnclaimed)
		assert.Greater(t, Score(b, intent, "", 0, query.Facets{}), 0.0)
	})
}

func TestScore_EvidenceBeatsCategory(t *testing.T) {
	// Two businesses with identical category and name shape; only one has a
	// knowledge snippet actually matching the query text.
	intent := &core.IntentResult{Categories: []string{"bbq"}}
	strong := business("The Alcove", "Restaurant", core.TierUnclaimed)
	weak := business("The Alcove", "Restaurant", core.TierUnclaimed)

	strongScore := Score(strong, intent, "", 0.85, query.Facets{})
	weakScore := Score(weak, intent, "", 0.70, query.Facets{})

	assert.Greater(t, strongScore, weakScore)

	// And textual evidence outranks a pure category guess.
	guessed := business("Rib Shack", "BBQ Restaurant", core.TierUnclaimed)
	guessedScore := Score(guessed, intent, "", 0, query.Facets{})
	assert.GreaterOrEqual(t, strongScore, guessedScore)
}

func TestScore_SemanticRescale(t *testing.T) {
	b := business("Anywhere", "Cafe", core.TierUnclaimed)

	t.Run("threshold boundary stays categorical", func(t *testing.T) {
		// Exactly at the threshold the override does not fire.
		assert.Zero(t, Score(b, &core.IntentResult{}, "", 0.70, query.Facets{}))
	})

	t.Run("just above threshold maps near 1", func(t *testing.T) {
		score := Score(b, &core.IntentResult{}, "", 0.71, query.Facets{})
		assert.InDelta(t, 1.13, score, 0.01)
	})

	t.Run("perfect similarity maps to 5", func(t *testing.T) {
		score := Score(b, &core.IntentResult{}, "", 1.0, query.Facets{})
		assert.InDelta(t, 5.0, score, 0.001)
	})
}

func TestScore_NoIntentNoEvidence(t *testing.T) {
	b := business("Anywhere", "Cafe", core.TierUnclaimed)
	assert.Zero(t, Score(b, &core.IntentResult{}, "some knowledge", 0.5, query.Facets{}))
	assert.Zero(t, Score(b, nil, "", 0, query.Facets{}))
}

func TestScore_AdditivePoints(t *testing.T) {
	t.Run("category match", func(t *testing.T) {
		b := business("Luna", "Greek Restaurant", core.TierUnclaimed)
		intent := &core.IntentResult{Categories: []string{"greek"}}
		assert.Equal(t, 3.0, Score(b, intent, "", 0, query.Facets{}))
	})

	t.Run("category plus name match", func(t *testing.T) {
		b := business("Greek Corner", "Greek Restaurant", core.TierUnclaimed)
		intent := &core.IntentResult{Categories: []string{"greek"}}
		assert.Equal(t, 5.0, Score(b, intent, "", 0, query.Facets{}))
	})

	t.Run("category counted once across synonyms", func(t *testing.T) {
		b := business("Luna", "BBQ Barbecue Smokehouse", core.TierUnclaimed)
		intent := &core.IntentResult{Categories: []string{"bbq"}}
		assert.Equal(t, 3.0, Score(b, intent, "", 0, query.Facets{}))
	})

	t.Run("plain knowledge match", func(t *testing.T) {
		b := business("Luna", "Restaurant", core.TierUnclaimed)
		intent := &core.IntentResult{Categories: []string{"bbq"}}
		score := Score(b, intent, "slow-smoked ribs every friday", 0, query.Facets{})
		assert.Equal(t, 1.0, score)
	})

	t.Run("knowledge-priority keyword boost", func(t *testing.T) {
		b := business("Luna", "Restaurant", core.TierUnclaimed)
		intent := &core.IntentResult{Keywords: []string{"kids"}}
		score := Score(b, intent, "dedicated kids menu and play corner", 0, query.Facets{})
		assert.Equal(t, 4.0, score)
	})

	t.Run("ambience keyword earns base knowledge point", func(t *testing.T) {
		b := business("Luna", "Restaurant", core.TierUnclaimed)
		intent := &core.IntentResult{Keywords: []string{"romantic"}}
		score := Score(b, intent, "a romantic candle-lit dining room", 0, query.Facets{})
		assert.Equal(t, 1.0, score)
	})
}

// The worked example from the ranking design: a paid cafe must not bury an
// unclaimed Greek restaurant on a Greek query.
func TestScore_PaidMismatchExcluded(t *testing.T) {
	intent := &core.IntentResult{Categories: []string{"greek"}}

	unclaimed := &core.BusinessRecord{
		Name: "Santorini Taverna", Category: "Greek Restaurant",
		City: "harborview", Tier: core.TierUnclaimed, Rating: 5.0, ReviewCount: 83,
	}
	paid := &core.BusinessRecord{
		Name: "Cafe Luna", Category: "Cafe",
		City: "harborview", Tier: core.TierPaid, Rating: 4.2, ReviewCount: 10,
	}

	assert.Equal(t, 3.0, Score(unclaimed, intent, "", 0, query.Facets{}))
	assert.Zero(t, Score(paid, intent, "", 0, query.Facets{}))
}
