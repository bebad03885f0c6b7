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


package rank

import (
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/geo"
)

// Distance thresholds for proximity reason tags, in meters.
const (
	closestCapMeters = 2000.0
	veryCloseMeters  = 500.0
	unknownDistance  = -1.0
)

// Tag assigns the single "why this result" label for one business, computed
// relative to the full candidate set so only one business per superlative
// claim is tagged. Commercial tier badges pre-empt statistical reasons;
// unclaimed businesses never receive a commercial badge and compete for the
// statistical tags instead.
func Tag(b *core.BusinessRecord, userLoc *core.Location, all []*core.BusinessRecord, now time.Time) core.ReasonTag {
	// (a) commercial tier badges
	switch b.Tier {
	case core.TierPaid:
		return core.ReasonTag{Type: core.ReasonSponsored, Label: "Local Pick"}
	case core.TierClaimedFree:
		return core.ReasonTag{Type: core.ReasonFeatured, Label: "Featured"}
	}

	// (b) perfect rating with very high review count
	if b.Rating >= 4.9 && b.ReviewCount >= 200 {
		return core.ReasonTag{Type: core.ReasonPerfectRating, Label: "Perfect rating"}
	}

	siblings := nonCommercial(all)

	// (c) highest rated among non-commercial candidates
	if winner := bestRated(siblings); winner == b {
		return core.ReasonTag{Type: core.ReasonTopRated, Label: "Highest rated"}
	}

	// (d) most reviewed among non-commercial candidates
	if winner := mostReviewed(siblings); winner == b {
		return core.ReasonTag{Type: core.ReasonMostReviewed, Label: "Most reviewed"}
	}

	// (e) perfect rating with moderate review count
	if b.Rating >= 4.9 && b.ReviewCount >= 25 {
		return core.ReasonTag{Type: core.ReasonPerfectRating, Label: "Perfect rating"}
	}

	// (f) closest among non-commercial candidates, within the cap
	if userLoc != nil {
		if winner, dist := closest(siblings, *userLoc); winner == b && dist <= closestCapMeters {
			return core.ReasonTag{Type: core.ReasonClosest, Label: "Closest to you"}
		}

		// (g) very close by absolute distance
		if b.Location != nil && geo.Distance(*userLoc, *b.Location) <= veryCloseMeters {
			return core.ReasonTag{Type: core.ReasonNearby, Label: "A short walk away"}
		}
	}

	// (h)–(i) high ratings
	if b.Rating >= 4.5 && b.ReviewCount >= 100 {
		return core.ReasonTag{Type: core.ReasonHighlyRated, Label: "Highly rated"}
	}
	if b.Rating >= 4.5 && b.ReviewCount >= 25 {
		return core.ReasonTag{Type: core.ReasonHighlyRated, Label: "Highly rated"}
	}

	// (j) hidden gem: strong rating, few reviews
	if b.Rating >= 4.3 && b.ReviewCount > 0 && b.ReviewCount < 25 {
		return core.ReasonTag{Type: core.ReasonHiddenGem, Label: "Hidden gem"}
	}

	// (k) currently open
	if openNow(b, now) {
		return core.ReasonTag{Type: core.ReasonOpenNow, Label: "Open now"}
	}

	// (l) decent rating
	if b.Rating >= 4.0 {
		return core.ReasonTag{Type: core.ReasonSolidChoice, Label: "Solid choice"}
	}

	// (m) generic fallback
	return core.ReasonTag{Type: core.ReasonLocalSpot, Label: "Worth a look"}
}

// Meta returns presentation metadata for one result. It is total: the
// returned value is always well-formed even when hours or location data is
// missing, so downstream rendering never branches on absence.
func Meta(b *core.BusinessRecord, userLoc *core.Location, now time.Time) core.ResultMeta {
	meta := core.ResultMeta{DistanceMeters: unknownDistance}

	if userLoc != nil && b.Location != nil {
		meta.DistanceMeters = geo.Distance(*userLoc, *b.Location)
	}

	meta.OpenNow = openNow(b, now)

	switch {
	case b.Rating >= 4.5:
		meta.RatingBadge = fmt.Sprintf("%.1f excellent", b.Rating)
	case b.Rating >= 4.0:
		meta.RatingBadge = fmt.Sprintf("%.1f great", b.Rating)
	case b.Rating >= 3.5:
		meta.RatingBadge = fmt.Sprintf("%.1f good", b.Rating)
	}

	return meta
}

func nonCommercial(all []*core.BusinessRecord) []*core.BusinessRecord {
	siblings := make([]*core.BusinessRecord, 0, len(all))
	for _, candidate := range all {
		if candidate != nil && candidate.Tier == core.TierUnclaimed {
			siblings = append(siblings, candidate)
		}
	}
	return siblings
}

// bestRated picks a single deterministic winner: rating, then review count,
// then name as the final tie-break.
func bestRated(siblings []*core.BusinessRecord) *core.BusinessRecord {
	var winner *core.BusinessRecord
	for _, candidate := range siblings {
		if candidate.Rating <= 0 {
			continue
		}
		if winner == nil ||
			candidate.Rating > winner.Rating ||
			(candidate.Rating == winner.Rating && candidate.ReviewCount > winner.ReviewCount) ||
			(candidate.Rating == winner.Rating && candidate.ReviewCount == winner.ReviewCount &&
				candidate.Name < winner.Name) {
			winner = candidate
		}
	}
	return winner
}

func mostReviewed(siblings []*core.BusinessRecord) *core.BusinessRecord {
	var winner *core.BusinessRecord
	for _, candidate := range siblings {
		if candidate.ReviewCount <= 0 {
			continue
		}
		if winner == nil ||
			candidate.ReviewCount > winner.ReviewCount ||
			(candidate.ReviewCount == winner.ReviewCount && candidate.Name < winner.Name) {
			winner = candidate
		}
	}
	return winner
}

func closest(siblings []*core.BusinessRecord, userLoc core.Location) (*core.BusinessRecord, float64) {
	var winner *core.BusinessRecord
	best := 0.0
	for _, candidate := range siblings {
		if candidate.Location == nil {
			continue
		}
		dist := geo.Distance(userLoc, *candidate.Location)
		if winner == nil || dist < best ||
			(dist == best && candidate.Name < winner.Name) {
			winner = candidate
			best = dist
		}
	}
	return winner, best
}

// openNow reports whether the business is open at the given time according
// to its stored hours. Missing or malformed hours mean closed.
func openNow(b *core.BusinessRecord, now time.Time) bool {
	if len(b.Hours) == 0 {
		return false
	}
	day := strings.ToLower(now.Weekday().String())
	window, ok := b.Hours[day]
	if !ok || window.Open == "" || window.Close == "" {
		return false
	}

	openMin, err1 := clockMinutes(window.Open)
	closeMin, err2 := clockMinutes(window.Close)
	if err1 != nil || err2 != nil {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	if closeMin > openMin {
		return nowMin >= openMin && nowMin < closeMin
	}
	// Overnight window, e.g. 18:00–02:00.
	return nowMin >= openMin || nowMin < closeMin
}

func clockMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
