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

func TestPipeline_EmbedCity(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	_, err = stores.Snippets.PutSnippets(ctx,
		&core.KnowledgeSnippet{City: "Harborview", Title: "A", Content: "First snippet", Type: core.KnowledgeGeneral},
		&core.KnowledgeSnippet{City: "Harborview", Title: "B", Content: "Second snippet", Type: core.KnowledgeMenu},
		&core.KnowledgeSnippet{
			City: "Harborview", Title: "C", Content: "Already embedded",
			Type: core.KnowledgeGeneral, Vector: []float32{1, 0, 0},
		},
	)
	require.NoError(t, err)

	pipeline, err := NewPipeline(stores.Snippets, mock.NewMockEmbedder(), WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	embedded, err := pipeline.EmbedCity(ctx, "Harborview")
	require.NoError(t, err)
	assert.Equal(t, 2, embedded)

	snippets, err := stores.Snippets.ListSnippets(ctx, "Harborview")
	require.NoError(t, err)
	for _, snippet := range snippets {
		assert.NotEmpty(t, snippet.Vector, snippet.Title)
	}
}

func TestPipeline_EmbedCity_NothingPending(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	embedder := mock.NewMockEmbedder()
	pipeline, err := NewPipeline(stores.Snippets, embedder)
	require.NoError(t, err)
	defer pipeline.Release()

	embedded, err := pipeline.EmbedCity(context.Background(), "Harborview")
	require.NoError(t, err)
	assert.Zero(t, embedded)
	assert.Zero(t, embedder.CallCount())
}

func TestPipeline_EmbedderFailureIsSkipped(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	_, err = stores.Snippets.PutSnippets(ctx,
		&core.KnowledgeSnippet{City: "Harborview", Title: "A", Content: "First snippet", Type: core.KnowledgeGeneral},
	)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, assert.AnError
	}

	pipeline, err := NewPipeline(stores.Snippets, embedder)
	require.NoError(t, err)
	defer pipeline.Release()

	// A failed batch is logged, not returned as an error
	embedded, err := pipeline.EmbedCity(ctx, "Harborview")
	require.NoError(t, err)
	assert.Zero(t, embedded)
}
