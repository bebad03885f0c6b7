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


package openai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/concierge/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
// It holds one client per completion tier so simple turns stay on the
// cheap model.
type Completer struct {
	cheap   llms.Model
	capable llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that
	// don't require authentication
	token := config.APIKey
	if token == "" {
		token = "none"
	}

	cheap, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(token),
		openai.WithModel(config.CheapModel),
	)
	if err != nil {
		return nil, err
	}

	capable, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(token),
		openai.WithModel(config.CapableModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		cheap:   cheap,
		capable: capable,
		timeout: config.CompletionTimeout,
		logger:  slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete generates an assistant response for the current turn.
func (c *Completer) Complete(ctx context.Context, tier ai.CompletionTier, system string, history []ai.Message, user string) (string, error) {
	client := c.cheap
	if tier == ai.CompletionCapable {
		client = c.capable
	}

	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(system)},
	})
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == ai.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(user)},
	})

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("generating completion", "tier", tier, "history", len(history))

	response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.3))
	if err != nil {
		c.logger.Error("completion failed", "tier", tier, "err", err)
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", ai.ErrEmptyCompletion
	}
	text := strings.TrimSpace(response.Choices[0].Content)
	if text == "" {
		return "", ai.ErrEmptyCompletion
	}
	return text, nil
}
