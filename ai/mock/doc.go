// Package mock provides deterministic test doubles for the ai service
// contracts. Mocks default to useful canned behavior and accept injected
// functions for per-test control.
package mock
