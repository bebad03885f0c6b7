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


// Package rank scores candidate businesses against a detected intent and
// assigns each one its "why shown" reason tag. All functions are pure.
package rank

import (
	"strings"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/query"
)

// SimilarityOverrideThreshold is the semantic similarity above which textual
// evidence outranks categorical matching entirely.
const SimilarityOverrideThreshold = 0.70

// Scoring points per evidence bucket. Each bucket counts at most once.
const (
	pointsCategoryMatch  = 3
	pointsNameMatch      = 2
	pointsKnowledge      = 1
	pointsKnowledgeBoost = 4
)

// Score computes the relevance of one business for the current turn.
// Zero means excluded, not tied-last.
//
// Order matters: the facet and negation gates are absolute and run before
// any positive evidence is considered, and semantic evidence above the
// override threshold beats categorical guessing because category taxonomies
// cannot capture every dish/attribute combination.
func Score(b *core.BusinessRecord, intent *core.IntentResult, knowledgeText string, similarity float64, facets query.Facets) float64 {
	// 1. Facet gate
	if facets.Alcohol &&
		!query.CategoryServesAlcohol(b.CategoryText()) &&
		!query.TextMentionsAlcohol(knowledgeText) {
		return 0
	}

	// 2. Negation gate
	if intent != nil && matchesNegation(b, intent.Negated) {
		return 0
	}

	// 3. Semantic evidence override
	if similarity > SimilarityOverrideThreshold {
		return rescaleSimilarity(similarity)
	}

	// 4. Nothing to rank against
	if !intent.HasIntent() {
		return 0
	}

	// 5. Additive evidence
	var score float64
	categoryText := b.CategoryText()
	name := strings.ToLower(b.Name)
	knowledge := strings.ToLower(knowledgeText)

	for _, category := range intent.Categories {
		if categoryMatches(categoryText, category) {
			score += pointsCategoryMatch
			break
		}
	}

	if nameMatches(name, intent) {
		score += pointsNameMatch
	}

	score += knowledgePoints(knowledge, intent)

	return score
}

// rescaleSimilarity maps (0.70, 1.0] linearly onto [1, 5].
func rescaleSimilarity(similarity float64) float64 {
	if similarity > 1 {
		similarity = 1
	}
	span := 1.0 - SimilarityOverrideThreshold
	return 1 + (similarity-SimilarityOverrideThreshold)/span*4
}

// matchesNegation reports whether any negated category matches the business's
// category or name.
func matchesNegation(b *core.BusinessRecord, negated []string) bool {
	if len(negated) == 0 {
		return false
	}
	categoryText := b.CategoryText()
	name := strings.ToLower(b.Name)
	for _, category := range negated {
		if categoryMatches(categoryText, category) || categoryMatches(name, category) {
			return true
		}
	}
	return false
}

// categoryMatches reports whether text matches a canonical category directly
// or through any of its synonyms (the keyword-in-category-string check).
func categoryMatches(text, canonical string) bool {
	if strings.Contains(text, canonical) {
		return true
	}
	for _, synonym := range query.CategoryTerms(canonical) {
		if strings.Contains(text, synonym) {
			return true
		}
	}
	return false
}

func nameMatches(name string, intent *core.IntentResult) bool {
	for _, category := range intent.Categories {
		if categoryMatches(name, category) {
			return true
		}
	}
	for _, keyword := range intent.Keywords {
		if strings.Contains(name, strings.ReplaceAll(keyword, "-", " ")) ||
			strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// knowledgePoints awards evidence found in free-text knowledge. Attributes
// that structured category fields almost never carry (family, dietary,
// outdoor/pet-friendly) earn the boosted score.
func knowledgePoints(knowledge string, intent *core.IntentResult) float64 {
	if knowledge == "" {
		return 0
	}
	matched := false
	for _, keyword := range intent.Keywords {
		spaced := strings.ReplaceAll(keyword, "-", " ")
		if strings.Contains(knowledge, keyword) || strings.Contains(knowledge, spaced) {
			if query.KnowledgePriorityKeyword(keyword) {
				return pointsKnowledgeBoost
			}
			matched = true
		}
	}
	if matched {
		return pointsKnowledge
	}
	for _, category := range intent.Categories {
		if categoryMatches(knowledge, category) {
			return pointsKnowledge
		}
	}
	return 0
}
