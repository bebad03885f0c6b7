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


package badger

import "github.com/poiesic/concierge/inventory"

// MemoryStores bundles in-memory stores for testing.
// Caller must close the backend when done.
type MemoryStores struct {
	Businesses inventory.BusinessStore
	Offers     inventory.OfferStore
	Events     inventory.EventStore
	Snippets   inventory.SnippetStore
	Backend    *Backend
}

// NewMemoryStores creates in-memory stores for testing.
func NewMemoryStores() (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	businesses, err := NewBusinessStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	offers, err := NewOfferStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	events, err := NewEventStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	snippets, err := NewSnippetStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &MemoryStores{
		Businesses: businesses,
		Offers:     offers,
		Events:     events,
		Snippets:   snippets,
		Backend:    backend,
	}, nil
}

// Close closes all stores and the backend.
func (m *MemoryStores) Close() error {
	m.Businesses.Close()
	m.Offers.Close()
	m.Events.Close()
	m.Snippets.Close()
	return m.Backend.Close()
}
