package mock

import (
	"context"

	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/core"
)

// MockSearcher is a test double for ai.SemanticSearcher.
// It allows custom behavior injection via function fields.
type MockSearcher struct {
	// SearchFunc is called by Search if set.
	// If nil, returns no matches.
	SearchFunc func(ctx context.Context, query, city string, matchCount int, matchThreshold float64) ([]*core.KnowledgeSnippet, error)

	callCount int
}

var _ ai.SemanticSearcher = (*MockSearcher)(nil)

// NewMockSearcher creates a mock searcher that finds nothing by default.
// Note: Returns concrete type to allow test assertions.
func NewMockSearcher() *MockSearcher {
	return &MockSearcher{}
}

// Search returns injected results, or an empty slice when no behavior is set.
func (m *MockSearcher) Search(ctx context.Context, query, city string, matchCount int, matchThreshold float64) ([]*core.KnowledgeSnippet, error) {
	m.callCount++

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, city, matchCount, matchThreshold)
	}

	return []*core.KnowledgeSnippet{}, nil
}

// CallCount returns the number of times Search was called.
func (m *MockSearcher) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockSearcher) Reset() {
	m.callCount = 0
	m.SearchFunc = nil
}
