package respond

import (
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/query"
)

// UIMode tells the rendering layer how to present a turn.
type UIMode string

const (
	// UIModeMap renders the map view with pins.
	UIModeMap UIMode = "map"
	// UIModeSuggestions renders a plain text list, no visual cards.
	UIModeSuggestions UIMode = "suggestions"
	// UIModeConversational is the default chat rendering.
	UIModeConversational UIMode = "conversational"
)

// BusinessCard is a visual card payload. Cards are a paid-tier benefit;
// lower tiers are only ever mentioned in text.
type BusinessCard struct {
	ID          core.ID         `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Tagline     string          `json:"tagline,omitempty"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count"`
	Phone       string          `json:"phone,omitempty"`
	Website     string          `json:"website,omitempty"`
	Reason      core.ReasonTag  `json:"reason"`
	Meta        core.ResultMeta `json:"meta"`
}

// MapPin is one entry of the map view. Unlike cards, pins span all
// tiers: the map is the one place the full inventory is exposed.
type MapPin struct {
	ID       core.ID         `json:"id"`
	Name     string          `json:"name"`
	Tier     core.Tier       `json:"tier"`
	Location *core.Location  `json:"location,omitempty"`
	Reason   core.ReasonTag  `json:"reason"`
	Meta     core.ResultMeta `json:"meta"`
}

// OfferAction is a wallet-style payload for saving an offer.
type OfferAction struct {
	OfferID      core.ID   `json:"offer_id"`
	BusinessName string    `json:"business_name"`
	Title        string    `json:"title"`
	Discount     string    `json:"discount"`
	ValidUntil   time.Time `json:"valid_until"`
}

// EventCard is a calendar-style payload for one event.
type EventCard struct {
	EventID      core.ID   `json:"event_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Venue        string    `json:"venue,omitempty"`
	BusinessName string    `json:"business_name,omitempty"`
	Starts       time.Time `json:"starts"`
}

// Routing is per-turn metadata for the caller: which model handled the
// turn and which deterministic path, if any, short-circuited it.
type Routing struct {
	Complexity      query.Complexity `json:"complexity"`
	Model           string           `json:"model"`
	HardStop        query.HardStop   `json:"hard_stop,omitempty"`
	AvailableOffers int              `json:"available_offers"`
}

// TurnResponse is the structured outcome of one turn.
type TurnResponse struct {
	Text         string         `json:"text"`
	UIMode       UIMode         `json:"ui_mode"`
	Cards        []BusinessCard `json:"cards"`
	MoreOptions  []string       `json:"more_options"`
	OfferActions []OfferAction  `json:"offer_actions"`
	EventCards   []EventCard    `json:"event_cards"`
	MapPins      []MapPin       `json:"map_pins"`
	Routing      Routing        `json:"routing"`
}
