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

// categorySynonyms maps canonical categories to the surface forms users type.
// Matching is word-bounded; multi-word synonyms are matched as phrases.
var categorySynonyms = map[string][]string{
	"greek":      {"greek", "gyros", "souvlaki", "taverna", "moussaka"},
	"italian":    {"italian", "pasta", "trattoria", "risotto", "lasagna"},
	"pizza":      {"pizza", "pizzas", "pizzeria"},
	"indian":     {"indian", "curry", "tandoori", "biryani", "naan"},
	"chinese":    {"chinese", "dim sum", "dumplings", "noodles"},
	"thai":       {"thai", "pad thai"},
	"japanese":   {"japanese", "sushi", "ramen", "izakaya", "tempura"},
	"mexican":    {"mexican", "taco", "tacos", "burrito", "burritos", "quesadilla"},
	"bbq":        {"bbq", "barbecue", "barbeque", "ribs", "brisket", "smokehouse", "pulled pork"},
	"burger":     {"burger", "burgers"},
	"seafood":    {"seafood", "fish", "fish and chips", "oysters", "lobster", "prawns"},
	"steakhouse": {"steak", "steaks", "steakhouse"},
	"cafe":       {"cafe", "cafes", "coffee", "coffee shop", "espresso"},
	"bakery":     {"bakery", "bakeries", "pastries", "croissant", "croissants", "cake", "cakes"},
	"bar":        {"bar", "bars", "pub", "pubs", "taproom", "brewery", "wine bar", "cocktail bar"},
	"dessert":    {"dessert", "desserts", "ice cream", "gelato"},
	"restaurant": {"restaurant", "restaurants"},
}

// CategoryTerms returns the synonym list for a canonical category.
// Returns nil for unknown categories.
func CategoryTerms(canonical string) []string {
	return categorySynonyms[canonical]
}

// keywordClass buckets attribute keywords by the kind of signal they carry.
type keywordClass int

const (
	classDietary keywordClass = iota + 1
	classFamily
	classOutdoor
	classAmbience
	classTimeOfDay
)

// attributeKeywords maps attribute surface forms to their class.
var attributeKeywords = map[string]keywordClass{
	"vegan":           classDietary,
	"vegetarian":      classDietary,
	"gluten-free":     classDietary,
	"gluten free":     classDietary,
	"halal":           classDietary,
	"kosher":          classDietary,
	"dairy-free":      classDietary,
	"dairy free":      classDietary,

	"kids":            classFamily,
	"kids menu":       classFamily,
	"kid-friendly":    classFamily,
	"kid friendly":    classFamily,
	"family":          classFamily,
	"family-friendly": classFamily,
	"children":        classFamily,

	"outdoor":         classOutdoor,
	"outdoor seating": classOutdoor,
	"patio":           classOutdoor,
	"terrace":         classOutdoor,
	"pet-friendly":    classOutdoor,
	"pet friendly":    classOutdoor,
	"dog-friendly":    classOutdoor,
	"dog friendly":    classOutdoor,

	"romantic":   classAmbience,
	"cozy":       classAmbience,
	"quiet":      classAmbience,
	"rooftop":    classAmbience,
	"live music": classAmbience,
	"date night": classAmbience,

	"breakfast":  classTimeOfDay,
	"brunch":     classTimeOfDay,
	"lunch":      classTimeOfDay,
	"dinner":     classTimeOfDay,
	"late night": classTimeOfDay,
}

// KnowledgePriorityKeyword reports whether a keyword belongs to a class that
// is almost never present in structured category fields and must be asserted
// from free-text knowledge (family, dietary, outdoor/pet-friendly).
// Accepts both surface and canonical ("gluten-free") forms.
func KnowledgePriorityKeyword(keyword string) bool {
	class, ok := attributeKeywords[keyword]
	if !ok {
		class = attributeKeywords[strings.ReplaceAll(keyword, "-", " ")]
	}
	switch class {
	case classDietary, classFamily, classOutdoor:
		return true
	default:
		return false
	}
}

// negators introduce an excluded category ("no seafood", "not greek").
var negators = map[string]bool{
	"no":      true,
	"not":     true,
	"without": true,
	"except":  true,
	"skip":    true,
}

// priceWords are discovery qualifiers that keep an offer query out of the
// database-only hard-stop path.
var priceWords = []string{
	"cheap", "cheapest", "expensive", "affordable", "budget", "pricey",
	"fine dining", "upscale",
}
