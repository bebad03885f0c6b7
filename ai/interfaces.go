package ai

import (
	"context"

	"github.com/poiesic/concierge/core"
)

// CompletionTier selects which model a completion runs on.
// Simple turns go to the cheap model, complex turns to the capable one.
type CompletionTier int

const (
	// CompletionCheap routes to the fast, inexpensive model.
	CompletionCheap CompletionTier = iota + 1
	// CompletionCapable routes to the larger, more capable model.
	CompletionCapable
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn passed to the completion model.
type Message struct {
	Role    Role
	Content string
}

// Completer generates conversational responses.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete generates an assistant response given a system prompt,
	// conversation history, and the current user message.
	// The tier selects which model handles the request.
	Complete(ctx context.Context, tier CompletionTier, system string, history []Message, user string) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SemanticSearcher finds knowledge snippets semantically related to a query.
// Implementations must be thread-safe for concurrent use.
type SemanticSearcher interface {
	// Search embeds the query and returns city-scoped snippets with
	// similarity >= matchThreshold, up to matchCount, ordered by
	// similarity descending. Each result has Similarity populated.
	Search(ctx context.Context, query, city string, matchCount int, matchThreshold float64) ([]*core.KnowledgeSnippet, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management.
type Provider interface {
	// Completer returns the conversational completion service.
	Completer() Completer

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
