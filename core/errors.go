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

import "errors"

// Domain validation errors
var (
	// ErrInvalidBusinessRecord indicates a BusinessRecord failed validation.
	ErrInvalidBusinessRecord = errors.New("invalid business record")

	// ErrInvalidOffer indicates an Offer failed validation.
	ErrInvalidOffer = errors.New("invalid offer")

	// ErrInvalidEvent indicates an Event failed validation.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidSnippet indicates a KnowledgeSnippet failed validation.
	ErrInvalidSnippet = errors.New("invalid knowledge snippet")

	// ErrInvalidTier indicates an unknown commercial tier value.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyCity indicates the City field is empty.
	ErrEmptyCity = errors.New("city cannot be empty")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidRating indicates a rating outside the [0,5] range.
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrInvalidSimilarity indicates a similarity outside the [0,1] range.
	ErrInvalidSimilarity = errors.New("similarity must be between 0 and 1")

	// ErrMissingBusiness indicates an offer or event without a business reference.
	ErrMissingBusiness = errors.New("business reference required")
)
