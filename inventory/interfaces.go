// Package inventory defines the storage contracts for the structured
// business directory: tier-scoped business views, authoritative offers and
// events, and knowledge snippets for semantic search.
package inventory

import (
	"context"

	"github.com/poiesic/concierge/core"
)

// BusinessStore provides operations for managing business records.
// Implementations must be thread-safe and support concurrent access.
type BusinessStore interface {
	// PutBusinesses inserts or replaces business records.
	// Records with ID=0 get a content-based ID from name and city.
	// Sets InsertedAt/UpdatedAt timestamps.
	PutBusinesses(ctx context.Context, records ...*core.BusinessRecord) ([]*core.BusinessRecord, error)

	// GetBusiness retrieves a single business record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetBusiness(ctx context.Context, id core.ID) (*core.BusinessRecord, error)

	// ListByTier retrieves every business in a city at the given tier.
	// Returns an empty slice when the city or tier has no records.
	ListByTier(ctx context.Context, city string, tier core.Tier) ([]*core.BusinessRecord, error)

	// Close closes the store and releases resources.
	Close() error
}

// OfferStore provides operations for the authoritative offers table.
// Only approved offers are ever surfaced to users.
type OfferStore interface {
	// PutOffers inserts or replaces offers.
	// Offers with ID=0 get a content-based ID.
	PutOffers(ctx context.Context, offers ...*core.Offer) ([]*core.Offer, error)

	// ApprovedOffers retrieves every approved offer for a city.
	ApprovedOffers(ctx context.Context, city string) ([]*core.Offer, error)

	// CountApprovedOffers counts approved offers for a city without
	// materializing them.
	CountApprovedOffers(ctx context.Context, city string) (int, error)

	// Close closes the store and releases resources.
	Close() error
}

// EventStore provides operations for the authoritative events table.
type EventStore interface {
	// PutEvents inserts or replaces events.
	// Events with ID=0 get a content-based ID.
	PutEvents(ctx context.Context, events ...*core.Event) ([]*core.Event, error)

	// ApprovedEvents retrieves every approved event for a city, ordered by
	// start time.
	ApprovedEvents(ctx context.Context, city string) ([]*core.Event, error)

	// Close closes the store and releases resources.
	Close() error
}

// SnippetStore provides operations for knowledge snippets and their
// embedding vectors.
type SnippetStore interface {
	// PutSnippets inserts or replaces knowledge snippets.
	// Snippets with ID=0 get a content-based ID.
	PutSnippets(ctx context.Context, snippets ...*core.KnowledgeSnippet) ([]*core.KnowledgeSnippet, error)

	// ListSnippets retrieves every snippet for a city, embedded or not.
	// Used by the embedding pipeline.
	ListSnippets(ctx context.Context, city string) ([]*core.KnowledgeSnippet, error)

	// FindSimilar finds snippets in a city similar to the given vector.
	// Returns snippets with similarity >= minSimilarity, up to limit,
	// ordered by similarity (highest first), with Similarity populated.
	// Snippets without embeddings are skipped.
	FindSimilar(ctx context.Context, city string, vector []float32, minSimilarity float64, limit int) ([]*core.KnowledgeSnippet, error)

	// Close closes the store and releases resources.
	Close() error
}
