package ai

import "errors"

var (
	// ErrEmptyCompletion indicates the model returned no usable text.
	ErrEmptyCompletion = errors.New("model returned empty completion")

	// ErrEmptyEmbedding indicates the embedder returned no vector.
	ErrEmptyEmbedding = errors.New("embedder returned empty vector")
)
