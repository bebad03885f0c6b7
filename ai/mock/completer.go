package mock

import (
	"context"

	"github.com/poiesic/concierge/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned behavior.
	CompleteFunc func(ctx context.Context, tier ai.CompletionTier, system string, history []ai.Message, user string) (string, error)

	// LastTier records the tier of the most recent call.
	LastTier ai.CompletionTier

	callCount int
}

var _ ai.Completer = (*MockCompleter)(nil)

// NewMockCompleter creates a mock completer with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a canned response unless CompleteFunc is set.
func (m *MockCompleter) Complete(ctx context.Context, tier ai.CompletionTier, system string, history []ai.Message, user string) (string, error) {
	m.callCount++
	m.LastTier = tier

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, tier, system, history, user)
	}

	return "Here are some places you might like.", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.LastTier = 0
	m.CompleteFunc = nil
}
