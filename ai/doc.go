// Package ai defines the contracts for the model-backed services the
// assistant depends on: conversational completion with two-tier model
// routing, text embedding, and semantic snippet search.
//
// The openai subpackage implements these against any OpenAI-compatible
// API; the mock subpackage provides deterministic test doubles.
package ai
