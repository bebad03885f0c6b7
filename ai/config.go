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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// CompletionHost is the base URL for the chat completion service API.
	CompletionHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// CheapModel handles simple conversational turns.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	CheapModel string

	// CapableModel handles complex turns: comparisons, dietary constraints,
	// long multi-part questions.
	// Example: "qwen2.5:14b", "gpt-4o"
	CapableModel string

	// APIKey authenticates against the completion and embedding hosts.
	// Local OpenAI-compatible services usually accept any value.
	APIKey string

	// CompletionTimeout bounds a single completion call.
	// Default: 30s
	CompletionTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithCompletionHost sets the completion service host URL.
func WithCompletionHost(host string) ConfigOption {
	return func(c *Config) {
		c.CompletionHost = host
	}
}

// WithHost sets both embedding and completion hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.CompletionHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCheapModel sets the model used for simple turns.
func WithCheapModel(model string) ConfigOption {
	return func(c *Config) {
		c.CheapModel = model
	}
}

// WithCapableModel sets the model used for complex turns.
func WithCapableModel(model string) ConfigOption {
	return func(c *Config) {
		c.CapableModel = model
	}
}

// WithAPIKey sets the API key for both hosts.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithCompletionTimeout sets the per-call completion timeout.
func WithCompletionTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.CompletionTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:     defaultHost,
		CompletionHost:    defaultHost,
		EmbeddingModel:    "embeddinggemma",
		CheapModel:        "qwen2.5:3b",
		CapableModel:      "qwen2.5:14b",
		CompletionTimeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("https://api.openai.com"),
//       WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//       WithCheapModel("gpt-4o-mini"),
//       WithCapableModel("gpt-4o"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	if c.CompletionHost != "" && !strings.HasSuffix(c.CompletionHost, "/v1") {
		c.CompletionHost = strings.TrimSuffix(c.CompletionHost, "/") + "/v1"
	}
	if c.CompletionTimeout <= 0 {
		c.CompletionTimeout = 30 * time.Second
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.CompletionHost == "" {
		return errors.New("ai config: CompletionHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.CheapModel == "" {
		return errors.New("ai config: CheapModel is required")
	}
	if c.CapableModel == "" {
		return errors.New("ai config: CapableModel is required")
	}
	return nil
}

// ModelFor returns the model identifier for a completion tier.
func (c *Config) ModelFor(tier CompletionTier) string {
	if tier == CompletionCapable {
		return c.CapableModel
	}
	return c.CheapModel
}
