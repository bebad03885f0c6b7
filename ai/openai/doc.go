// Package openai implements the ai service contracts against any
// OpenAI-compatible API: OpenAI itself, Ollama, LocalAI, vLLM.
package openai
