package resolve

import "errors"

var (
	// ErrBusinessStoreRequired indicates a nil business store was provided.
	ErrBusinessStoreRequired = errors.New("business store is required")

	// ErrOfferStoreRequired indicates a nil offer store was provided.
	ErrOfferStoreRequired = errors.New("offer store is required")

	// ErrSearcherRequired indicates a nil semantic searcher was provided.
	ErrSearcherRequired = errors.New("semantic searcher is required")

	// ErrCityRequired indicates a resolve request without a city.
	ErrCityRequired = errors.New("city is required")
)
