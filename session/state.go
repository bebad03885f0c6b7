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


// Package session tracks per-conversation state: what has been shown,
// what the user cares about, and where the conversation is heading.
// The reducer is pure so turns can be replayed and tested in isolation.
package session

import (
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/query"
)

// historyWindow bounds the retained conversation history.
const historyWindow = 10

// Phase describes where a conversation currently is.
type Phase string

const (
	PhaseGreeting  Phase = "greeting"
	PhaseBrowsing  Phase = "browsing"
	PhaseFocused   Phase = "focused"
	PhaseActioning Phase = "actioning"
)

// Intent is the coarse classification of the user's last message.
type Intent string

const (
	IntentCompare  Intent = "compare"
	IntentListAll  Intent = "list_all"
	IntentDetails  Intent = "details"
	IntentQuestion Intent = "question"
	IntentSearch   Intent = "search"
)

// Turn is one exchanged user/assistant message pair.
type Turn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	At        time.Time `json:"at"`
}

// State is the full conversation state for one session.
// It is mutated only through Update, which returns a copy.
type State struct {
	ID              string          `json:"id"`
	City            string          `json:"city"`
	Phase           Phase           `json:"phase"`
	FocalBusiness   string          `json:"focal_business"`
	Comparing       bool            `json:"comparing"`
	ShownBusinesses []string        `json:"shown_businesses"`
	ShownOffers     []string        `json:"shown_offers"`
	Preferences     []string        `json:"preferences"`
	LastIntent      Intent          `json:"last_intent"`
	MessageCount    int             `json:"message_count"`
	LastBrowse      core.BrowseMode `json:"last_browse"`
	BrowseOffset    int             `json:"browse_offset"`
	History         []Turn          `json:"history"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewState creates a fresh session state.
func NewState(id, city string) *State {
	return &State{
		ID:    id,
		City:  city,
		Phase: PhaseGreeting,
	}
}

// offerPattern matches discount mentions like "20% off" in assistant text.
var offerPattern = regexp.MustCompile(`(?i)\d+%\s*(?:off|discount)(?:\s+[a-z]+)?`)

// clearFocusPhrases release the focal business when the user moves on.
var clearFocusPhrases = []string{
	"anywhere else",
	"other places",
	"somewhere else",
	"something else",
	"what else",
}

// comparePhrases mark a comparison intent.
var comparePhrases = []string{
	"compare",
	" vs ",
	" versus ",
	"which is better",
	"which one is better",
	"better than",
	"difference between",
}

// Update applies one completed turn to the state and returns the new state.
// The input state is not modified. extractedNames are the business names
// detected in the assistant's response.
func Update(state *State, userMessage, assistantResponse string, extractedNames []string) *State {
	next := state.clone()
	next.MessageCount++

	lowerUser := strings.ToLower(userMessage)

	// Focal business: mentioning a known business focuses on it;
	// moving-on phrases clear the focus.
	if containsAnyPhrase(lowerUser, clearFocusPhrases) {
		next.FocalBusiness = ""
		next.Comparing = false
	} else if mentioned := query.ExtractBusinessNames(userMessage, next.ShownBusinesses); len(mentioned) > 0 {
		next.FocalBusiness = mentioned[0]
		next.Comparing = containsAnyPhrase(lowerUser, comparePhrases) || len(mentioned) > 1
	}

	// Shown businesses and offers accumulate with set semantics so
	// replaying a turn never duplicates entries.
	for _, name := range extractedNames {
		next.ShownBusinesses = appendUnique(next.ShownBusinesses, name)
	}
	for _, offer := range offerPattern.FindAllString(assistantResponse, -1) {
		next.ShownOffers = appendUnique(next.ShownOffers, strings.TrimSpace(offer))
	}

	// Preference bag from dietary/category/budget signals
	if intent := query.DetectIntent(userMessage); intent.HasIntent() {
		for _, category := range intent.Categories {
			next.Preferences = appendUnique(next.Preferences, category)
		}
		for _, keyword := range intent.Keywords {
			next.Preferences = appendUnique(next.Preferences, keyword)
		}
	}

	next.LastIntent = classifyIntent(lowerUser)
	next.Phase = nextPhase(next)

	next.History = append(next.History, Turn{
		User:      userMessage,
		Assistant: assistantResponse,
		At:        time.Now().UTC(),
	})
	if len(next.History) > historyWindow {
		next.History = next.History[len(next.History)-historyWindow:]
	}

	next.UpdatedAt = time.Now().UTC()
	return next
}

// classifyIntent recomputes the coarse intent every turn.
// Checks run from most to least specific.
func classifyIntent(lowerUser string) Intent {
	switch {
	case containsAnyPhrase(lowerUser, comparePhrases):
		return IntentCompare
	case containsAnyPhrase(lowerUser, []string{"show me all", "list all", "show me everything", "everything you have", "all of them"}):
		return IntentListAll
	case containsAnyPhrase(lowerUser, []string{"tell me more", "more about", "details", "opening hours", "phone number", "address", "website"}):
		return IntentDetails
	case strings.Contains(lowerUser, "?") || startsWithQuestionWord(lowerUser):
		return IntentQuestion
	default:
		return IntentSearch
	}
}

func startsWithQuestionWord(lowerUser string) bool {
	for _, w := range []string{"what", "where", "when", "how", "why", "who", "is ", "are ", "do ", "does ", "can "} {
		if strings.HasPrefix(lowerUser, w) {
			return true
		}
	}
	return false
}

// nextPhase derives the conversation phase from the updated state.
func nextPhase(state *State) Phase {
	switch {
	case state.FocalBusiness != "":
		return PhaseFocused
	case len(state.ShownBusinesses) > 3:
		return PhaseActioning
	default:
		return PhaseBrowsing
	}
}

// Messages converts the retained history into completion-service messages.
func (s *State) Messages() []Turn {
	out := make([]Turn, len(s.History))
	copy(out, s.History)
	return out
}

// clone returns a deep copy of the state.
func (s *State) clone() *State {
	next := *s
	next.ShownBusinesses = append([]string(nil), s.ShownBusinesses...)
	next.ShownOffers = append([]string(nil), s.ShownOffers...)
	next.Preferences = append([]string(nil), s.Preferences...)
	next.History = append([]Turn(nil), s.History...)
	return &next
}

func containsAnyPhrase(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}
