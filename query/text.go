package query

import "strings"

// Stop words to filter out when tokenizing queries
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "me": true, "i": true, "my": true, "any": true,
	"some": true, "please": true,
}

// normalize lowercases a query and collapses whitespace.
func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// tokenize splits text into words, lowercases, and trims punctuation.
// Stop words are kept; use tokenizeAndFilter to drop them.
func tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words.
func tokenizeAndFilter(text string) []string {
	tokens := tokenize(text)
	filtered := tokens[:0]
	for _, token := range tokens {
		if !stopWords[token] {
			filtered = append(filtered, token)
		}
	}
	return filtered
}

// containsTerm reports whether text contains term with word boundaries.
// Multi-word terms are matched as a padded substring.
func containsTerm(text, term string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '\'':
			// Drop apostrophes so "what's on" matches "whats on".
			return -1
		case '.', ',', '!', '?', ';', ':', '(', ')', '[', ']', '{', '}', '"':
			return ' '
		}
		return r
	}, strings.ToLower(text))
	padded := " " + strings.Join(strings.Fields(stripped), " ") + " "
	return strings.Contains(padded, " "+term+" ")
}

// containsAny reports whether text contains any of the given terms.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if containsTerm(text, term) {
			return true
		}
	}
	return false
}
