package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/inventory"
)

// SnippetStore implements inventory.SnippetStore for BadgerDB.
type SnippetStore struct {
	backend *Backend
}

var _ inventory.SnippetStore = (*SnippetStore)(nil)

// NewSnippetStore creates a new SnippetStore.
func NewSnippetStore(backend *Backend) (*SnippetStore, error) {
	return &SnippetStore{
		backend: backend,
	}, nil
}

// Close releases resources. SnippetStore has no resources to release.
func (s *SnippetStore) Close() error {
	return nil
}

// PutSnippets inserts or replaces knowledge snippets.
func (s *SnippetStore) PutSnippets(ctx context.Context, snippets ...*core.KnowledgeSnippet) ([]*core.KnowledgeSnippet, error) {
	for _, snippet := range snippets {
		if err := core.ValidateSnippet(snippet); err != nil {
			return nil, err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, snippet := range snippets {
			if snippet.Id == 0 {
				snippet.Id = core.IDFromContent(snippetIdentity(snippet))
			}

			now := time.Now().UTC()
			if snippet.InsertedAt.IsZero() {
				snippet.InsertedAt = now
			}
			snippet.UpdatedAt = now

			key := makeSnippetKey(snippet.City, snippet.Id)
			if err := tx.Set(key, inventory.MarshalSnippet(snippet)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return snippets, nil
}

// ListSnippets retrieves every snippet for a city, embedded or not.
func (s *SnippetStore) ListSnippets(ctx context.Context, city string) ([]*core.KnowledgeSnippet, error) {
	results := []*core.KnowledgeSnippet{}
	err := s.scanSnippets(city, func(snippet *core.KnowledgeSnippet) {
		results = append(results, snippet)
	})
	return results, err
}

// FindSimilar finds snippets in a city similar to the given vector.
func (s *SnippetStore) FindSimilar(ctx context.Context, city string, vector []float32, minSimilarity float64, limit int) ([]*core.KnowledgeSnippet, error) {
	if len(vector) == 0 || limit <= 0 {
		return nil, inventory.ErrInvalidQuery
	}

	var results []*core.KnowledgeSnippet
	err := s.scanSnippets(city, func(snippet *core.KnowledgeSnippet) {
		// Skip snippets without embeddings
		if len(snippet.Vector) == 0 {
			return
		}

		// Cosine similarity (dot product for normalized vectors)
		similarity := dotProduct(vector, snippet.Vector)
		if similarity >= minSimilarity {
			snippet.Similarity = similarity
			results = append(results, snippet)
		}
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.KnowledgeSnippet) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scanSnippets iterates every snippet stored for a city.
func (s *SnippetStore) scanSnippets(city string, visit func(*core.KnowledgeSnippet)) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialSnippetKey(city)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var snippet *core.KnowledgeSnippet
			err := iter.Item().Value(func(val []byte) error {
				var err error
				snippet, err = inventory.UnmarshalSnippet(val)
				return err
			})
			if err != nil {
				return err
			}
			if snippet != nil {
				visit(snippet)
			}
		}
		return nil
	}, false)
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float64 {
	var sum float64
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// snippetIdentity builds the stable identity string for content-based IDs.
func snippetIdentity(snippet *core.KnowledgeSnippet) string {
	return "(" + normalizeCity(snippet.City) + "," + strings.ToLower(snippet.Title) + "," + string(snippet.Type) + ")"
}
