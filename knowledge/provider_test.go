package knowledge

import (
	"context"
	"testing"

	"github.com/poiesic/concierge/ai/mock"
	"github.com/poiesic/concierge/core"
	badgerstore "github.com/poiesic/concierge/inventory/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearcher(t *testing.T) (*Searcher, *badgerstore.MemoryStores, *mock.MockEmbedder) {
	t.Helper()
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	embedder := mock.NewMockEmbedder()
	searcher, err := NewSearcher(stores.Snippets, embedder)
	require.NoError(t, err)
	return searcher, stores, embedder
}

func TestNewSearcher_RequiresDependencies(t *testing.T) {
	_, err := NewSearcher(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrSnippetStoreRequired)

	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	_, err = NewSearcher(stores.Snippets, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestSearcher_Search(t *testing.T) {
	searcher, stores, embedder := newTestSearcher(t)
	ctx := context.Background()

	// The mock embedder maps identical text to identical vectors, so a
	// snippet embedded from the query text is a perfect match.
	queryVector := mock.DeterministicVector("dog friendly pubs", 384)
	otherVector := mock.DeterministicVector("completely unrelated", 384)

	_, err := stores.Snippets.PutSnippets(ctx,
		&core.KnowledgeSnippet{
			City: "Harborview", Title: "Pet policy", Content: "Dogs welcome in the garden",
			Type: core.KnowledgeGeneral, Vector: queryVector,
		},
		&core.KnowledgeSnippet{
			City: "Harborview", Title: "Parking", Content: "Free parking after six",
			Type: core.KnowledgeGeneral, Vector: otherVector,
		},
	)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "dog friendly pubs", "Harborview", 5, DefaultMatchThreshold)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Pet policy", results[0].Title)
	assert.InDelta(t, 1.0, results[0].Similarity, 0.001)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestSearcher_EmbeddingFailurePropagates(t *testing.T) {
	searcher, _, embedder := newTestSearcher(t)

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, assert.AnError
	}

	_, err := searcher.Search(context.Background(), "anything", "Harborview", 5, DefaultMatchThreshold)
	assert.Error(t, err)
}
