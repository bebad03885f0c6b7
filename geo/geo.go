// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package geo provides great-circle distance and coordinate normalization
// helpers for business locations.
package geo

import (
	"math"

	"github.com/poiesic/concierge/core"
)

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between two coordinates in meters.
func Distance(a, b core.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DecodeLocation normalizes a loosely-typed coordinate object.
// Callers pass either {lat,lng} or {latitude,longitude} shapes; values may be
// float64 or int. Returns false when no usable pair is present.
func DecodeLocation(raw map[string]any) (core.Location, bool) {
	lat, okLat := coordinate(raw, "lat", "latitude")
	lng, okLng := coordinate(raw, "lng", "longitude")
	if !okLat || !okLng {
		return core.Location{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return core.Location{}, false
	}
	return core.Location{Lat: lat, Lng: lng}, true
}

func coordinate(raw map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}
