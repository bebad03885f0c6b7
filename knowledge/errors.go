package knowledge

import "errors"

var (
	// ErrSnippetStoreRequired indicates a nil snippet store was provided.
	ErrSnippetStoreRequired = errors.New("snippet store is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")
)
