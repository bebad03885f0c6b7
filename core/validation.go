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


package core

import "fmt"

// ValidateBusinessRecord validates a BusinessRecord according to domain rules.
//
// Validation rules:
//   - Name and City must not be empty
//   - Rating must be in [0, 5]
//   - Tier must be a known tier
//
// NOT validated:
//   - Location and Hours (directory feeds are frequently incomplete)
//   - ID (0 is valid before insertion)
func ValidateBusinessRecord(record *BusinessRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidBusinessRecord)
	}

	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBusinessRecord, ErrEmptyName)
	}

	if record.City == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBusinessRecord, ErrEmptyCity)
	}

	if record.Rating < 0 || record.Rating > 5 {
		return fmt.Errorf("%w: %w", ErrInvalidBusinessRecord, ErrInvalidRating)
	}

	if err := ValidateTier(record.Tier); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBusinessRecord, err)
	}

	return nil
}

// ValidateTier validates that a Tier has a known value.
func ValidateTier(tier Tier) error {
	if tier != TierPaid && tier != TierClaimedFree && tier != TierUnclaimed {
		return fmt.Errorf("%w: value %d", ErrInvalidTier, tier)
	}
	return nil
}

// ValidateOffer validates an Offer according to domain rules.
func ValidateOffer(offer *Offer) error {
	if offer == nil {
		return fmt.Errorf("%w: offer is nil", ErrInvalidOffer)
	}

	if offer.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidOffer, ErrEmptyName)
	}

	if offer.City == "" {
		return fmt.Errorf("%w: %w", ErrInvalidOffer, ErrEmptyCity)
	}

	if offer.BusinessId == 0 && offer.BusinessName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidOffer, ErrMissingBusiness)
	}

	return nil
}

// ValidateEvent validates an Event according to domain rules.
func ValidateEvent(event *Event) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}

	if event.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyName)
	}

	if event.City == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyCity)
	}

	return nil
}

// ValidateSnippet validates a KnowledgeSnippet according to domain rules.
//
// Vector is NOT validated: snippets are stored before the embedding
// pipeline runs over them.
func ValidateSnippet(snippet *KnowledgeSnippet) error {
	if snippet == nil {
		return fmt.Errorf("%w: snippet is nil", ErrInvalidSnippet)
	}

	if snippet.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSnippet, ErrEmptyContent)
	}

	if snippet.City == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSnippet, ErrEmptyCity)
	}

	if snippet.Similarity < 0 || snippet.Similarity > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidSnippet, ErrInvalidSimilarity)
	}

	return nil
}
