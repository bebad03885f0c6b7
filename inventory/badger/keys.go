package badger

import (
	"fmt"
	"strings"

	"github.com/poiesic/concierge/core"
)

// Key prefixes for different record types
const (
	businessRecordPrefix   = "bizrec"
	businessCityTierPrefix = "bizct"
	offerRecordPrefix      = "offrec"
	eventRecordPrefix      = "evtrec"
	snippetRecordPrefix    = "knrec"
)

// normalizeCity lowercases a city name so keys are case-insensitive.
func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// makeBusinessKey generates a key for a business record by ID.
func makeBusinessKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", businessRecordPrefix, id))
}

// makeBusinessCityTierKey generates a composite key for the city/tier index.
// Format: prefix:city:tier:id
func makeBusinessCityTierKey(city string, tier core.Tier, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d:%d", businessCityTierPrefix, normalizeCity(city), tier, id))
}

// makePartialBusinessCityTierKey generates a partial key for city/tier scans.
func makePartialBusinessCityTierKey(city string, tier core.Tier) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d:", businessCityTierPrefix, normalizeCity(city), tier))
}

// makeOfferKey generates a key for an offer scoped to a city.
func makeOfferKey(city string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", offerRecordPrefix, normalizeCity(city), id))
}

// makePartialOfferKey generates a partial key for city-wide offer scans.
func makePartialOfferKey(city string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", offerRecordPrefix, normalizeCity(city)))
}

// makeEventKey generates a key for an event scoped to a city.
func makeEventKey(city string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", eventRecordPrefix, normalizeCity(city), id))
}

// makePartialEventKey generates a partial key for city-wide event scans.
func makePartialEventKey(city string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", eventRecordPrefix, normalizeCity(city)))
}

// makeSnippetKey generates a key for a knowledge snippet scoped to a city.
func makeSnippetKey(city string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", snippetRecordPrefix, normalizeCity(city), id))
}

// makePartialSnippetKey generates a partial key for city-wide snippet scans.
func makePartialSnippetKey(city string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", snippetRecordPrefix, normalizeCity(city)))
}
