package concierge

import "errors"

var (
	// ErrNotConfigured indicates no completion service is configured for
	// this tenant. Surfaced as "service unavailable" to the user.
	ErrNotConfigured = errors.New("assistant is not configured")

	// ErrCompletionFailed indicates the completion service errored or
	// timed out. The turn fails explicitly; no partial answer is invented.
	ErrCompletionFailed = errors.New("completion failed")

	// ErrInvalidBusinessID indicates a malformed business identifier in a
	// detail lookup. Rejected before any store call.
	ErrInvalidBusinessID = errors.New("invalid business id")

	// ErrCityRequired indicates a turn without a city.
	ErrCityRequired = errors.New("city is required")

	// ErrEmptyQuery indicates a turn without a user message.
	ErrEmptyQuery = errors.New("query is empty")
)
