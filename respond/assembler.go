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


// Package respond turns a resolution into the structured response the
// rendering layer consumes: text, tier-gated cards, map pins, wallet
// actions, and routing metadata.
package respond

import (
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/query"
	"github.com/poiesic/concierge/resolve"
)

// Fixed deterministic messages for the hard-stop paths. The store is
// authoritative: these templates are the only words the system may use
// about offers and events, so it can never invent one.
const (
	emptyOffersMessage = "I don't see any current offers right now. Local businesses add new deals regularly, so it's worth checking back soon."
	offersHeader       = "Here's what's on offer right now:"
	emptyEventsMessage = "I don't see any upcoming events listed at the moment. New events are added as venues announce them."
	eventsHeader       = "Here's what's coming up:"
)

// Request carries everything the assembler needs for one turn.
type Request struct {
	Query      string
	Resolution *resolve.Resolution

	// CompletionText is the model's answer for normal turns. Ignored on
	// hard-stop turns.
	CompletionText string

	HardStop     query.HardStop
	MapRequested bool

	// Offers and Events feed the hard-stop paths.
	Offers []*core.Offer
	Events []*core.Event

	// EventWindow narrows event cards when the query named a date.
	EventFrom, EventTo time.Time
	EventWindowSet     bool

	Complexity query.Complexity
	Model      string
}

// Assemble produces the structured turn response.
func Assemble(req *Request) *TurnResponse {
	response := &TurnResponse{
		UIMode:       UIModeConversational,
		Cards:        []BusinessCard{},
		MoreOptions:  []string{},
		OfferActions: []OfferAction{},
		EventCards:   []EventCard{},
		MapPins:      []MapPin{},
		Routing: Routing{
			Complexity: req.Complexity,
			Model:      req.Model,
			HardStop:   req.HardStop,
		},
	}
	if req.Resolution != nil {
		response.Routing.AvailableOffers = req.Resolution.AvailableOffers
	}

	switch req.HardStop {
	case query.HardStopOffers:
		assembleOffers(req, response)
		return response
	case query.HardStopEvents:
		assembleEvents(req, response)
		return response
	}

	assembleDiscovery(req, response)
	return response
}

// assembleOffers builds the deterministic offers answer.
func assembleOffers(req *Request, response *TurnResponse) {
	response.Routing.AvailableOffers = len(req.Offers)

	if len(req.Offers) == 0 {
		response.Text = emptyOffersMessage
		return
	}

	var lines []string
	for _, offer := range req.Offers {
		response.OfferActions = append(response.OfferActions, OfferAction{
			OfferID:      offer.Id,
			BusinessName: offer.BusinessName,
			Title:        offer.Title,
			Discount:     offer.Discount,
			ValidUntil:   offer.ValidUntil,
		})
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", offer.BusinessName, offer.Title, offer.Discount))
	}
	response.Text = offersHeader + "\n" + strings.Join(lines, "\n")
}

// assembleEvents builds the deterministic events answer, optionally
// narrowed to a detected date window.
func assembleEvents(req *Request, response *TurnResponse) {
	events := req.Events
	if req.EventWindowSet {
		filtered := events[:0:0]
		for _, event := range events {
			if !event.Starts.Before(req.EventFrom) && event.Starts.Before(req.EventTo) {
				filtered = append(filtered, event)
			}
		}
		events = filtered
	}

	if len(events) == 0 {
		response.Text = emptyEventsMessage
		return
	}

	var lines []string
	for _, event := range events {
		response.EventCards = append(response.EventCards, EventCard{
			EventID:      event.Id,
			Title:        event.Title,
			Description:  event.Description,
			Venue:        event.Venue,
			BusinessName: event.BusinessName,
			Starts:       event.Starts,
		})
		lines = append(lines, fmt.Sprintf("%s at %s, %s", event.Title, event.Venue, event.Starts.Format("Mon Jan 2 15:04")))
	}
	response.Text = eventsHeader + "\n" + strings.Join(lines, "\n")
}

// assembleDiscovery builds the normal conversational answer.
func assembleDiscovery(req *Request, response *TurnResponse) {
	response.Text = req.CompletionText
	response.UIMode = uiMode(req)

	resolution := req.Resolution
	if resolution == nil {
		return
	}

	// Visual cards are restricted to the top commercial tier, and browse
	// turns carry no cards at all: a broad listing renders as a text
	// list, never a card carousel. Lower tiers reach the user as text
	// and map pins only.
	for _, sb := range resolution.Primaries {
		if sb.Business.Tier == core.TierPaid && !resolution.Browse {
			response.Cards = append(response.Cards, businessCard(sb))
		} else {
			response.MoreOptions = appendMention(response.MoreOptions, sb)
		}
	}
	for _, sb := range resolution.Supplements {
		response.MoreOptions = appendMention(response.MoreOptions, sb)
	}

	for _, sb := range append(append([]*core.ScoredBusiness{}, resolution.Primaries...), resolution.Supplements...) {
		response.MapPins = append(response.MapPins, MapPin{
			ID:       sb.Business.Id,
			Name:     sb.Business.Name,
			Tier:     sb.Business.Tier,
			Location: sb.Business.Location,
			Reason:   sb.Reason,
			Meta:     sb.Meta,
		})
	}

	if len(response.MoreOptions) > 0 && !strings.Contains(response.Text, "More options") {
		response.Text = strings.TrimSpace(response.Text) + "\n\nMore options: " + strings.Join(response.MoreOptions, ", ") + "."
	}

	// Nudge toward the deterministic offers path when deals exist and
	// this turn wasn't about them.
	if resolution.AvailableOffers > 0 {
		hint := fmt.Sprintf("By the way, there are %d local deals on right now. Ask me about offers if you're interested.", resolution.AvailableOffers)
		if resolution.AvailableOffers == 1 {
			hint = "By the way, there's a local deal on right now. Ask me about offers if you're interested."
		}
		response.Text = strings.TrimSpace(response.Text) + "\n\n" + hint
	}
}

func uiMode(req *Request) UIMode {
	switch {
	case req.MapRequested:
		return UIModeMap
	case req.Resolution != nil && req.Resolution.Browse:
		return UIModeSuggestions
	default:
		return UIModeConversational
	}
}

func businessCard(sb *core.ScoredBusiness) BusinessCard {
	b := sb.Business
	category := b.DisplayCategory
	if category == "" {
		category = b.Category
	}
	return BusinessCard{
		ID:          b.Id,
		Name:        b.Name,
		Category:    category,
		Tagline:     b.Tagline,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		Phone:       b.Phone,
		Website:     b.Website,
		Reason:      sb.Reason,
		Meta:        sb.Meta,
	}
}

func appendMention(mentions []string, sb *core.ScoredBusiness) []string {
	mention := sb.Business.Name
	if sb.Reason.Label != "" {
		mention = fmt.Sprintf("%s (%s)", sb.Business.Name, sb.Reason.Label)
	}
	for _, existing := range mentions {
		if existing == mention {
			return mentions
		}
	}
	return append(mentions, mention)
}
