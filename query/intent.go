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


// Package query provides lexical understanding of user queries: facet and
// intent detection, browse-mode classification, complexity routing and the
// database-authoritative hard-stop gate. Everything here is pure and
// table-driven; no external calls are made.
package query

import (
	"sort"
	"strings"

	"github.com/poiesic/concierge/core"
)

// moreTriggers continue an existing browse.
var moreTriggers = []string{
	"more", "next", "show me more", "more please", "more options",
	"what else", "any others", "others", "keep going", "next page",
}

// moreBlockers keep "show me more details about X" out of browse-more.
var moreBlockers = []string{"detail", "details", "about", "info", "information"}

// browseTriggers start a fresh browse.
var browseTriggers = []string{
	"show me all", "show all", "list all", "find all", "give me all",
	"show me everything", "everything", "all of them", "what is there",
	"what's there", "whats there",
}

// DetectBrowse classifies a turn's browse behaviour. "More/next" phrasing
// only continues a browse when the immediately preceding turn was itself in
// browse mode; otherwise it is treated as a targeted request so that
// "show me more details" never pages a list that was never shown.
func DetectBrowse(q string, lastWasBrowse bool) core.BrowseMode {
	norm := normalize(q)
	if norm == "" {
		return core.BrowseOff
	}

	if isMoreRequest(norm) {
		if lastWasBrowse {
			return core.BrowseMore
		}
		return core.BrowseOff
	}

	if containsAny(norm, browseTriggers) {
		return core.BrowseNew
	}

	// "show/list/find ... all <category>" phrasing
	tokens := tokenize(norm)
	if len(tokens) >= 2 {
		verb := tokens[0]
		if (verb == "show" || verb == "list" || verb == "find") && containsTerm(norm, "all") {
			return core.BrowseNew
		}
	}

	return core.BrowseOff
}

func isMoreRequest(norm string) bool {
	if containsAny(norm, moreBlockers) {
		return false
	}
	if !containsAny(norm, moreTriggers) {
		return false
	}
	// More-requests are short continuations, not full new queries.
	return len(tokenizeAndFilter(norm)) <= 4
}

// DetectIntent matches a query against the canonical category table and the
// attribute keyword table. Negated categories ("no seafood") are pulled out
// of the match set. Confidence grows with the number of independent signals.
func DetectIntent(q string) *core.IntentResult {
	norm := normalize(q)
	result := &core.IntentResult{}
	if norm == "" {
		return result
	}

	negated := detectNegations(norm)

	categorySet := make(map[string]bool)
	for canonical, synonyms := range categorySynonyms {
		if negated[canonical] {
			continue
		}
		for _, synonym := range synonyms {
			if containsTerm(norm, synonym) && !negatedPhrase(norm, synonym) {
				categorySet[canonical] = true
				break
			}
		}
	}

	keywordSet := make(map[string]bool)
	for keyword := range attributeKeywords {
		if containsTerm(norm, keyword) {
			keywordSet[canonicalKeyword(keyword)] = true
		}
	}

	result.Categories = sortedKeys(categorySet)
	result.Keywords = sortedKeys(keywordSet)
	result.Negated = sortedKeys(negated)
	result.Confidence = confidence(len(result.Categories) + len(result.Keywords))
	return result
}

// detectNegations finds categories the user explicitly excluded.
func detectNegations(norm string) map[string]bool {
	negated := make(map[string]bool)
	tokens := tokenize(norm)
	for i, token := range tokens {
		if !negators[token] || i+1 >= len(tokens) {
			continue
		}
		// The excluded term is the next one or two tokens.
		candidates := []string{tokens[i+1]}
		if i+2 < len(tokens) {
			candidates = append(candidates, tokens[i+1]+" "+tokens[i+2])
		}
		for canonical, synonyms := range categorySynonyms {
			for _, synonym := range synonyms {
				for _, candidate := range candidates {
					if candidate == synonym {
						negated[canonical] = true
					}
				}
			}
		}
	}
	return negated
}

// negatedPhrase reports whether a synonym match is directly preceded by a
// negator ("not seafood" must not count as seafood intent).
func negatedPhrase(norm, synonym string) bool {
	for negator := range negators {
		if strings.Contains(" "+norm+" ", " "+negator+" "+synonym) {
			return true
		}
	}
	return false
}

// canonicalKeyword folds spelling variants ("gluten free" / "gluten-free")
// to a single form so downstream set semantics hold.
func canonicalKeyword(keyword string) string {
	return strings.ReplaceAll(keyword, " ", "-")
}

func confidence(signals int) float64 {
	if signals == 0 {
		return 0
	}
	c := 0.5 + 0.15*float64(signals-1)
	if c > 0.95 {
		c = 0.95
	}
	return c
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
