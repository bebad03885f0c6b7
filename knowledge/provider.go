// Package knowledge connects the snippet store to the embedding service:
// a semantic searcher for query time and a batch pipeline that embeds
// snippets after ingestion.
package knowledge

import (
	"context"
	"log/slog"

	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/inventory"
)

// DefaultMatchThreshold is the similarity floor for fetching snippets.
// Kept deliberately low so borderline matches reach the scorer, which
// applies its own stricter thresholds.
const DefaultMatchThreshold = 0.60

// Searcher implements ai.SemanticSearcher over the snippet store.
type Searcher struct {
	snippets inventory.SnippetStore
	embedder ai.Embedder
	logger   *slog.Logger
}

var _ ai.SemanticSearcher = (*Searcher)(nil)

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher) error

// WithSearcherLogger sets a custom logger.
// Default is slog.Default().
func WithSearcherLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a semantic searcher over the snippet store.
func NewSearcher(snippets inventory.SnippetStore, embedder ai.Embedder, opts ...SearcherOption) (*Searcher, error) {
	if snippets == nil {
		return nil, ErrSnippetStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		snippets: snippets,
		embedder: embedder,
		logger:   slog.Default().With("component", "knowledge-searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search embeds the query and returns city-scoped snippets above the
// threshold, ordered by similarity descending.
func (s *Searcher) Search(ctx context.Context, query, city string, matchCount int, matchThreshold float64) ([]*core.KnowledgeSnippet, error) {
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.snippets.FindSimilar(ctx, city, embedding, matchThreshold, matchCount)
	if err != nil {
		s.logger.Error("error querying for similar snippets", "city", city, "err", err)
		return nil, err
	}

	s.logger.Debug("semantic search complete", "city", city, "matches", len(matches))
	return matches, nil
}
