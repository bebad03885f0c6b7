package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("short direct searches are simple", func(t *testing.T) {
		assert.Equal(t, ComplexitySimple, Classify("pizza near me", 0))
		assert.Equal(t, ComplexitySimple, Classify("best ribs", 1))
	})

	t.Run("hour questions are simple", func(t *testing.T) {
		assert.Equal(t, ComplexitySimple, Classify("what time does the bakery open", 2))
		assert.Equal(t, ComplexitySimple, Classify("is the taverna open on sunday", 0))
	})

	t.Run("hour questions stay simple regardless of length", func(t *testing.T) {
		q := "what time does the little bakery by the old harbour bridge open on sunday mornings during the summer"
		assert.Equal(t, ComplexityComplex, Classify("could you maybe tell me where I should go with a group of eight hungry people tonight", 0))
		assert.Equal(t, ComplexitySimple, Classify(q, 0))
	})

	t.Run("comparisons are complex", func(t *testing.T) {
		assert.Equal(t, ComplexityComplex, Classify("compare the two greek places", 0))
		assert.Equal(t, ComplexityComplex, Classify("which one is better for a date", 0))
	})

	t.Run("dietary plus preference is complex", func(t *testing.T) {
		assert.Equal(t, ComplexityComplex, Classify("vegan pizza with a patio", 0))
		assert.Equal(t, ComplexityComplex, Classify("gluten-free breakfast options", 0))
	})

	t.Run("long queries are complex", func(t *testing.T) {
		q := "I'm looking for somewhere that does a proper sunday roast but also has a few lighter options for my partner who isn't that hungry"
		assert.Equal(t, ComplexityComplex, Classify(q, 0))
	})

	t.Run("deep conversations force complex", func(t *testing.T) {
		assert.Equal(t, ComplexityComplex, Classify("pizza", 7))
		assert.Equal(t, ComplexitySimple, Classify("pizza", 6))
	})
}

func TestDetectHardStop(t *testing.T) {
	t.Run("pure offer queries", func(t *testing.T) {
		for _, q := range []string{
			"show me offers",
			"any deals today?",
			"current promotions",
			"got any vouchers",
		} {
			assert.Equal(t, HardStopOffers, DetectHardStop(q), q)
		}
	})

	t.Run("pure event queries", func(t *testing.T) {
		for _, q := range []string{
			"what's on this weekend",
			"any events tonight",
			"anything happening nearby",
		} {
			assert.Equal(t, HardStopEvents, DetectHardStop(q), q)
		}
	})

	t.Run("discovery qualifiers disable the hard stop", func(t *testing.T) {
		for _, q := range []string{
			"any deals on pizza",
			"cheap offers for dinner",
			"vegan specials",
			"live music events",
		} {
			assert.Equal(t, HardStopNone, DetectHardStop(q), q)
		}
	})

	t.Run("ordinary queries pass through", func(t *testing.T) {
		assert.Equal(t, HardStopNone, DetectHardStop("any good ribs?"))
		assert.Equal(t, HardStopNone, DetectHardStop("show me all restaurants"))
	})
}

func TestDetectMapRequest(t *testing.T) {
	assert.True(t, DetectMapRequest("show them on a map"))
	assert.True(t, DetectMapRequest("map please"))
	assert.False(t, DetectMapRequest("any good ribs?"))
}

func TestDetectEventDate(t *testing.T) {
	// Wednesday 2025-06-11 12:00 UTC
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)

	t.Run("tonight", func(t *testing.T) {
		from, to, ok := DetectEventDate("any events tonight", now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("tomorrow", func(t *testing.T) {
		from, to, ok := DetectEventDate("what's on tomorrow", now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("this weekend", func(t *testing.T) {
		from, to, ok := DetectEventDate("events this weekend", now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("weekday name", func(t *testing.T) {
		from, _, ok := DetectEventDate("anything on friday", now)
		require.True(t, ok)
		assert.Equal(t, time.Weekday(time.Friday), from.Weekday())
	})

	t.Run("no date", func(t *testing.T) {
		_, _, ok := DetectEventDate("any events", now)
		assert.False(t, ok)
	})
}

func TestExtractBusinessNames(t *testing.T) {
	known := []string{"Santorini Taverna", "Smoke & Barrel", "Corner Bakery"}
	text := "You could try Smoke & Barrel for ribs, or Santorini Taverna for something lighter."
	names := ExtractBusinessNames(text, known)
	assert.ElementsMatch(t, []string{"Santorini Taverna", "Smoke & Barrel"}, names)
}
