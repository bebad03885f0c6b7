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


package knowledge

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/inventory"
)

// embedBatchSize is how many snippets go to the embedder per request.
const embedBatchSize = 16

// Pipeline embeds knowledge snippets in batches using a worker pool.
// Snippets that already carry a vector are skipped.
type Pipeline struct {
	snippets inventory.SnippetStore
	embedder ai.Embedder
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new embedding pipeline.
func NewPipeline(snippets inventory.SnippetStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if snippets == nil {
		return nil, ErrSnippetStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		snippets: snippets,
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default().With("component", "knowledge-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// EmbedCity embeds every unembedded snippet stored for a city.
// Batches run concurrently on the worker pool; a failed batch is logged
// and skipped so one bad request doesn't abort the run.
// Returns the number of snippets embedded.
func (p *Pipeline) EmbedCity(ctx context.Context, city string) (int, error) {
	snippets, err := p.snippets.ListSnippets(ctx, city)
	if err != nil {
		return 0, err
	}

	pending := make([]*core.KnowledgeSnippet, 0, len(snippets))
	for _, snippet := range snippets {
		if len(snippet.Vector) == 0 {
			pending = append(pending, snippet)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	embedded := 0

	for start := 0; start < len(pending); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			count, err := p.embedBatch(ctx, batch)
			if err != nil {
				p.logger.Error("error embedding snippet batch", "city", city, "size", len(batch), "err", err)
				return
			}
			mu.Lock()
			embedded += count
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Error("error submitting embedding batch", "err", submitErr)
		}
	}

	wg.Wait()
	p.logger.Info("embedding run complete", "city", city, "pending", len(pending), "embedded", embedded)
	return embedded, nil
}

// embedBatch embeds one batch of snippets and writes the vectors back.
func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.KnowledgeSnippet) (int, error) {
	texts := make([]string, len(batch))
	for i, snippet := range batch {
		texts[i] = snippet.Title + "\n" + snippet.Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(batch) {
		return 0, ai.ErrEmptyEmbedding
	}

	for i, snippet := range batch {
		snippet.Vector = vectors[i]
	}

	if _, err := p.snippets.PutSnippets(ctx, batch...); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
