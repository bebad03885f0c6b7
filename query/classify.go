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


package query

import (
	"strings"
	"time"

	"github.com/poiesic/concierge/core"
)

// Complexity routes a query to the cheap or capable completion model.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityComplex Complexity = "complex"
)

// comparisonTerms signal multi-criteria comparison asks.
var comparisonTerms = []string{
	"compare", "versus", "vs", "difference", "better", "which one",
	"pros and cons", "or should",
}

// hoursTerms signal direct hour/time questions.
var hoursTerms = []string{
	"open", "opens", "opening", "closed", "closes", "closing",
	"hours", "what time",
}

const (
	complexWordLimit = 15
	complexTurnDepth = 6
)

// Classify decides model-routing complexity using ordered rules.
// turnCount is the number of prior turns in the conversation.
func Classify(q string, turnCount int) Complexity {
	norm := normalize(q)
	words := len(strings.Fields(norm))

	// Deep conversations carry implicit context the cheap model loses.
	if turnCount > complexTurnDepth {
		return ComplexityComplex
	}
	if containsAny(norm, comparisonTerms) {
		return ComplexityComplex
	}

	// Hour questions are direct lookups and stay cheap no matter how
	// wordy the phrasing.
	if containsAny(norm, hoursTerms) {
		return ComplexitySimple
	}

	if words > complexWordLimit {
		return ComplexityComplex
	}

	// Combined dietary + preference asks need careful grounding.
	intent := DetectIntent(norm)
	if hasDietary(intent) && len(intent.Categories)+len(intent.Keywords) > 1 {
		return ComplexityComplex
	}

	return ComplexitySimple
}

func hasDietary(intent *core.IntentResult) bool {
	for _, keyword := range intent.Keywords {
		class, ok := attributeKeywords[keyword]
		if !ok {
			class = attributeKeywords[strings.ReplaceAll(keyword, "-", " ")]
		}
		if class == classDietary {
			return true
		}
	}
	return false
}

// HardStop identifies pure database-authoritative queries that bypass
// semantic search and the completion service entirely.
type HardStop string

const (
	HardStopNone   HardStop = ""
	HardStopOffers HardStop = "offers"
	HardStopEvents HardStop = "events"
)

var offerTerms = []string{
	"offer", "offers", "deal", "deals", "discount", "discounts",
	"special", "specials", "coupon", "coupons", "promotion", "promotions",
	"promo", "promos", "voucher", "vouchers", "happy hour",
}

var eventTerms = []string{
	"event", "events", "what's on", "whats on", "happening",
	"things to do", "gig", "gigs",
}

// DetectHardStop reports whether the query is a pure offer or event request:
// an offer/event term with no accompanying discovery qualifier. The answer to
// a pure request must come from the authoritative store alone, so the system
// can never claim an offer exists when the store has none.
func DetectHardStop(q string) HardStop {
	norm := normalize(q)

	isOffer := containsAny(norm, offerTerms)
	isEvent := containsAny(norm, eventTerms)
	if !isOffer && !isEvent {
		return HardStopNone
	}

	if hasDiscoveryQualifier(norm) {
		return HardStopNone
	}

	if isOffer {
		return HardStopOffers
	}
	return HardStopEvents
}

// hasDiscoveryQualifier reports whether the query carries cuisine, category,
// attribute or price words that make it a discovery query rather than a pure
// store lookup.
func hasDiscoveryQualifier(norm string) bool {
	for _, synonyms := range categorySynonyms {
		for _, synonym := range synonyms {
			if containsTerm(norm, synonym) {
				return true
			}
		}
	}
	for keyword := range attributeKeywords {
		// "happy hour" offer asks share no keyword with the attribute table,
		// but "live music events" should route to discovery.
		if containsTerm(norm, keyword) {
			return true
		}
	}
	return containsAny(norm, priceWords)
}

// mapTerms request the map presentation explicitly.
var mapTerms = []string{
	"map", "on a map", "show map", "atlas", "where are they", "pin", "pins",
}

// DetectMapRequest reports whether the user explicitly asked for a map view.
func DetectMapRequest(q string) bool {
	return containsAny(normalize(q), mapTerms)
}

// DetectEventDate extracts a calendar window from event phrasing
// ("tonight", "tomorrow", "this weekend", weekday names). Returns ok=false
// when the query names no date.
func DetectEventDate(q string, now time.Time) (from, to time.Time, ok bool) {
	norm := normalize(q)
	day := now.Truncate(24 * time.Hour)

	switch {
	case containsTerm(norm, "today") || containsTerm(norm, "tonight"):
		return day, day.AddDate(0, 0, 1), true
	case containsTerm(norm, "tomorrow"):
		return day.AddDate(0, 0, 1), day.AddDate(0, 0, 2), true
	case containsTerm(norm, "weekend"):
		// Upcoming Saturday through Sunday; during the weekend, the rest of it.
		daysUntilSat := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
		if now.Weekday() == time.Sunday {
			return day, day.AddDate(0, 0, 1), true
		}
		start := day.AddDate(0, 0, daysUntilSat)
		return start, start.AddDate(0, 0, 2), true
	}

	weekdays := map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
		"sunday": time.Sunday,
	}
	for name, weekday := range weekdays {
		if !containsTerm(norm, name) {
			continue
		}
		offset := (int(weekday) - int(now.Weekday()) + 7) % 7
		start := day.AddDate(0, 0, offset)
		return start, start.AddDate(0, 0, 1), true
	}

	return time.Time{}, time.Time{}, false
}

// ExtractBusinessNames finds which known business names a text mentions.
// Used to maintain conversation state from assistant responses.
func ExtractBusinessNames(text string, known []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, name := range known {
		if name == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			found = append(found, name)
		}
	}
	return found
}
