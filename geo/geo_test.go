package geo

import (
	"testing"

	"github.com/poiesic/concierge/core"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Run("same point", func(t *testing.T) {
		p := core.Location{Lat: 51.5, Lng: -0.12}
		assert.Zero(t, Distance(p, p))
	})

	t.Run("known distance", func(t *testing.T) {
		// London to Paris, roughly 344 km.
		london := core.Location{Lat: 51.5074, Lng: -0.1278}
		paris := core.Location{Lat: 48.8566, Lng: 2.3522}
		d := Distance(london, paris)
		assert.InDelta(t, 344000, d, 5000)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := core.Location{Lat: 51.5, Lng: -0.12}
		b := core.Location{Lat: 51.51, Lng: -0.1}
		assert.InDelta(t, Distance(a, b), Distance(b, a), 0.001)
	})
}

func TestDecodeLocation(t *testing.T) {
	t.Run("lat lng shape", func(t *testing.T) {
		loc, ok := DecodeLocation(map[string]any{"lat": 51.5, "lng": -0.12})
		assert.True(t, ok)
		assert.Equal(t, core.Location{Lat: 51.5, Lng: -0.12}, loc)
	})

	t.Run("latitude longitude shape", func(t *testing.T) {
		loc, ok := DecodeLocation(map[string]any{"latitude": 51.5, "longitude": -0.12})
		assert.True(t, ok)
		assert.Equal(t, core.Location{Lat: 51.5, Lng: -0.12}, loc)
	})

	t.Run("integer values", func(t *testing.T) {
		loc, ok := DecodeLocation(map[string]any{"lat": 51, "lng": 0})
		assert.True(t, ok)
		assert.Equal(t, core.Location{Lat: 51, Lng: 0}, loc)
	})

	t.Run("missing coordinate", func(t *testing.T) {
		_, ok := DecodeLocation(map[string]any{"lat": 51.5})
		assert.False(t, ok)
	})

	t.Run("out of range", func(t *testing.T) {
		_, ok := DecodeLocation(map[string]any{"lat": 123.0, "lng": 0.0})
		assert.False(t, ok)
	})
}
