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


// Package concierge is a conversational local-business discovery engine:
// query understanding, tiered inventory resolution, and response assembly
// over a BadgerDB-backed directory and an OpenAI-compatible model stack.
package concierge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/ai/openai"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/inventory"
	"github.com/poiesic/concierge/inventory/badger"
	"github.com/poiesic/concierge/knowledge"
	"github.com/poiesic/concierge/query"
	"github.com/poiesic/concierge/resolve"
	"github.com/poiesic/concierge/respond"
	"github.com/poiesic/concierge/session"
)

// Assistant is the top-level facade: one instance serves many sessions.
type Assistant struct {
	backend    *badger.Backend
	businesses inventory.BusinessStore
	offers     inventory.OfferStore
	events     inventory.EventStore
	snippets   inventory.SnippetStore
	provider   ai.Provider
	searcher   ai.SemanticSearcher
	resolver   *resolve.Resolver
	sessions   session.Store
	aiConfig   *ai.Config
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Assistant.
type Option func(*assistantOptions)

type assistantOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	sessions session.Store
	inMemory bool
	now      func() time.Time
}

// WithAIConfig sets the model configuration used to build the default
// OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) Option {
	return func(o *assistantOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing the default
// OpenAI-compatible one. Used by tests and custom deployments.
func WithProvider(provider ai.Provider) Option {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithSessionStore sets the session store.
// Default is an in-process memory store.
func WithSessionStore(store session.Store) Option {
	return func(o *assistantOptions) {
		if store != nil {
			o.sessions = store
		}
	}
}

// WithInMemory opens the directory database in memory. Used by tests.
func WithInMemory() Option {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// WithClock overrides the time source for open-now and event-window
// computation. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *assistantOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Open creates an Assistant backed by a BadgerDB directory at filePath.
func Open(filePath string, opts ...Option) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
		sessions: session.NewMemoryStore(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	businesses, err := badger.NewBusinessStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	offers, err := badger.NewOfferStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	events, err := badger.NewEventStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	snippets, err := badger.NewSnippetStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("%w: %w", ErrNotConfigured, err)
		}
	}

	searcher, err := knowledge.NewSearcher(snippets, provider.Embedder())
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	resolver, err := resolve.NewResolver(businesses, offers, searcher)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:    backend,
		businesses: businesses,
		offers:     offers,
		events:     events,
		snippets:   snippets,
		provider:   provider,
		searcher:   searcher,
		resolver:   resolver,
		sessions:   options.sessions,
		aiConfig:   options.aiConfig,
		logger:     slog.Default().With("component", "assistant"),
		now:        options.now,
	}, nil
}

// Close releases every resource the assistant owns.
func (a *Assistant) Close() error {
	a.resolver.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.sessions.Close(); err != nil {
		a.logger.Error("error closing session store", "err", err)
	}

	a.businesses.Close()
	a.offers.Close()
	a.events.Close()
	a.snippets.Close()

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}

// BusinessStore exposes the directory store for seeding and admin tooling.
func (a *Assistant) BusinessStore() inventory.BusinessStore { return a.businesses }

// OfferStore exposes the offers store for seeding and moderation tooling.
func (a *Assistant) OfferStore() inventory.OfferStore { return a.offers }

// EventStore exposes the events store for seeding and moderation tooling.
func (a *Assistant) EventStore() inventory.EventStore { return a.events }

// SnippetStore exposes the knowledge store for ingestion tooling.
func (a *Assistant) SnippetStore() inventory.SnippetStore { return a.snippets }

// NewKnowledgePipeline creates an embedding pipeline over the snippet store.
func (a *Assistant) NewKnowledgePipeline(opts ...knowledge.Option) (*knowledge.Pipeline, error) {
	return knowledge.NewPipeline(a.snippets, a.provider.Embedder(), opts...)
}

// Answer processes one conversational turn for a session.
//
// The hard-stop gate runs first: pure offer/event queries are answered
// from the authoritative store with fixed templates and never touch the
// semantic provider or the completion service.
func (a *Assistant) Answer(ctx context.Context, sessionID, city string, userLoc *core.Location, userQuery string) (*respond.TurnResponse, error) {
	if strings.TrimSpace(userQuery) == "" {
		return nil, ErrEmptyQuery
	}
	if city == "" {
		return nil, ErrCityRequired
	}

	state, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, err
		}
		state = session.NewState(sessionID, city)
	}

	browse := query.DetectBrowse(userQuery, state.LastBrowse.Active())
	intent := query.DetectIntent(userQuery)
	facets := query.DetectFacets(userQuery)
	complexity := query.Classify(userQuery, state.MessageCount+1)
	hardStop := query.DetectHardStop(userQuery)
	mapRequested := query.DetectMapRequest(userQuery)

	var response *respond.TurnResponse
	nextOffset := 0
	if hardStop != query.HardStopNone {
		response, err = a.answerHardStop(ctx, city, userQuery, hardStop, complexity)
	} else {
		response, nextOffset, err = a.answerDiscovery(ctx, state, city, userLoc, userQuery, intent, facets, browse, complexity, mapRequested)
	}
	if err != nil {
		return nil, err
	}

	a.persistTurn(ctx, state, userQuery, response, browse, nextOffset)
	return response, nil
}

// answerHardStop serves pure offer/event queries straight from the store.
func (a *Assistant) answerHardStop(ctx context.Context, city, userQuery string, hardStop query.HardStop, complexity query.Complexity) (*respond.TurnResponse, error) {
	req := &respond.Request{
		Query:      userQuery,
		HardStop:   hardStop,
		Complexity: complexity,
	}

	switch hardStop {
	case query.HardStopOffers:
		offers, err := a.offers.ApprovedOffers(ctx, city)
		if err != nil {
			a.logger.Warn("offer lookup failed", "city", city, "err", err)
			offers = nil
		}
		req.Offers = offers
	case query.HardStopEvents:
		events, err := a.events.ApprovedEvents(ctx, city)
		if err != nil {
			a.logger.Warn("event lookup failed", "city", city, "err", err)
			events = nil
		}
		req.Events = events
		if from, to, ok := query.DetectEventDate(userQuery, a.now()); ok {
			req.EventFrom, req.EventTo, req.EventWindowSet = from, to, true
		}
	}

	return respond.Assemble(req), nil
}

// answerDiscovery runs the full resolve-complete-assemble path.
func (a *Assistant) answerDiscovery(
	ctx context.Context,
	state *session.State,
	city string,
	userLoc *core.Location,
	userQuery string,
	intent *core.IntentResult,
	facets query.Facets,
	browse core.BrowseMode,
	complexity query.Complexity,
	mapRequested bool,
) (*respond.TurnResponse, int, error) {
	if a.provider == nil || a.provider.Completer() == nil {
		return nil, 0, ErrNotConfigured
	}

	resolution, err := a.resolver.Resolve(ctx, &resolve.Request{
		Query:        userQuery,
		City:         city,
		UserLocation: userLoc,
		Intent:       intent,
		Facets:       facets,
		Browse:       browse,
		BrowseOffset: state.BrowseOffset,
	})
	if err != nil {
		return nil, 0, err
	}

	tier := ai.CompletionCheap
	if complexity == query.ComplexityComplex {
		tier = ai.CompletionCapable
	}

	completion, err := a.provider.Completer().Complete(ctx, tier,
		a.systemPrompt(city, state, resolution),
		historyMessages(state),
		userQuery)
	if err != nil {
		a.logger.Error("completion failed", "session", state.ID, "city", city, "err", err)
		return nil, 0, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	response := respond.Assemble(&respond.Request{
		Query:          userQuery,
		Resolution:     resolution,
		CompletionText: completion,
		MapRequested:   mapRequested,
		Complexity:     complexity,
		Model:          a.aiConfig.ModelFor(tier),
	})
	return response, resolution.NextBrowseOffset, nil
}

// persistTurn updates and stores session state. Persistence failures are
// logged, not surfaced: the user already has their answer.
func (a *Assistant) persistTurn(ctx context.Context, state *session.State, userQuery string, response *respond.TurnResponse, browse core.BrowseMode, nextOffset int) {
	names := make([]string, 0, len(response.MapPins))
	for _, pin := range response.MapPins {
		names = append(names, pin.Name)
	}

	next := session.Update(state, userQuery, response.Text, names)
	next.LastBrowse = browse
	if browse.Active() {
		next.BrowseOffset = nextOffset
	} else {
		next.BrowseOffset = 0
	}

	if err := a.sessions.Put(ctx, next); err != nil {
		a.logger.Error("error persisting session", "session", state.ID, "err", err)
	}
}

// BusinessDetails looks up one business by its string identifier.
// The identifier is validated before any store call.
func (a *Assistant) BusinessDetails(ctx context.Context, idStr string) (*core.BusinessRecord, error) {
	raw, err := strconv.ParseUint(strings.TrimSpace(idStr), 10, 64)
	if err != nil || raw == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBusinessID, idStr)
	}
	return a.businesses.GetBusiness(ctx, core.ID(raw))
}

// systemPrompt grounds the completion model in the resolved candidates.
// The model may only talk about what the resolver surfaced.
func (a *Assistant) systemPrompt(city string, state *session.State, resolution *resolve.Resolution) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly local concierge for ")
	sb.WriteString(city)
	sb.WriteString(". Recommend only from the candidate list below. ")
	sb.WriteString("Never invent businesses, offers, or events. Keep answers short and conversational.\n")

	if len(state.Preferences) > 0 {
		sb.WriteString("\nKnown preferences: ")
		sb.WriteString(strings.Join(state.Preferences, ", "))
		sb.WriteString("\n")
	}

	writeCandidates := func(label string, candidates []*core.ScoredBusiness) {
		if len(candidates) == 0 {
			return
		}
		sb.WriteString("\n")
		sb.WriteString(label)
		sb.WriteString(":\n")
		for _, candidate := range candidates {
			b := candidate.Business
			fmt.Fprintf(&sb, "- %s (%s, %.1f stars, %d reviews", b.Name, b.Category, b.Rating, b.ReviewCount)
			if candidate.Reason.Label != "" {
				fmt.Fprintf(&sb, ", %s", candidate.Reason.Label)
			}
			sb.WriteString(")")
			if candidate.Knowledge != "" {
				fmt.Fprintf(&sb, " notes: %s", candidate.Knowledge)
			}
			sb.WriteString("\n")
		}
	}
	writeCandidates("Candidates", resolution.Primaries)
	writeCandidates("Further options to mention briefly", resolution.Supplements)

	if len(resolution.Primaries) == 0 && len(resolution.Supplements) == 0 {
		sb.WriteString("\nNo matching businesses were found. Say so honestly and suggest broadening the search.\n")
	}

	return sb.String()
}

func historyMessages(state *session.State) []ai.Message {
	turns := state.Messages()
	messages := make([]ai.Message, 0, len(turns)*2)
	for _, turn := range turns {
		messages = append(messages,
			ai.Message{Role: ai.RoleUser, Content: turn.User},
			ai.Message{Role: ai.RoleAssistant, Content: turn.Assistant},
		)
	}
	return messages
}
