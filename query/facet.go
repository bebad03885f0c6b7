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

import "strings"

// Facets are high-signal boolean query classifiers used to hard-gate
// category mismatches independent of general relevance scoring.
type Facets struct {
	// Alcohol is set when the query explicitly asks for an alcohol type.
	Alcohol bool
}

// Any reports whether at least one facet is active.
func (f Facets) Any() bool {
	return f.Alcohol
}

// alcoholTerms lists explicit alcohol types only. Generic words like
// "drinks" are deliberately excluded: a milkshake query must not trip
// the alcohol gate.
var alcoholTerms = []string{
	"beer", "beers", "wine", "wines", "cocktail", "cocktails",
	"whiskey", "whisky", "gin", "vodka", "rum", "tequila",
	"cider", "ale", "lager", "stout", "ipa", "sake",
	"champagne", "prosecco", "margarita", "margaritas", "mojito",
	"pint", "pints",
}

// alcoholCategories are category fragments for venues licensed to serve.
var alcoholCategories = []string{
	"bar", "pub", "brewery", "taproom", "gastropub",
	"winery", "bistro", "restaurant", "cocktail",
}

// DetectFacets classifies a query into its boolean facets.
func DetectFacets(q string) Facets {
	return Facets{Alcohol: containsAny(q, alcoholTerms)}
}

// CategoryServesAlcohol reports whether a business category is capable of
// satisfying the alcohol facet.
func CategoryServesAlcohol(category string) bool {
	lower := strings.ToLower(category)
	for _, fragment := range alcoholCategories {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// TextMentionsAlcohol reports whether free-text content carries the alcohol
// signal. Uses the same term list as DetectFacets for symmetry.
func TextMentionsAlcohol(text string) bool {
	return containsAny(text, alcoholTerms)
}
