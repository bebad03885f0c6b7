package badger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/inventory"
)

// EventStore implements inventory.EventStore for BadgerDB.
type EventStore struct {
	backend *Backend
}

var _ inventory.EventStore = (*EventStore)(nil)

// NewEventStore creates a new EventStore.
func NewEventStore(backend *Backend) (*EventStore, error) {
	return &EventStore{
		backend: backend,
	}, nil
}

// Close releases resources. EventStore has no resources to release.
func (s *EventStore) Close() error {
	return nil
}

// PutEvents inserts or replaces events.
func (s *EventStore) PutEvents(ctx context.Context, events ...*core.Event) ([]*core.Event, error) {
	for _, event := range events {
		if err := core.ValidateEvent(event); err != nil {
			return nil, err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, event := range events {
			if event.Id == 0 {
				event.Id = core.IDFromContent(eventIdentity(event))
			}

			now := time.Now().UTC()
			if event.InsertedAt.IsZero() {
				event.InsertedAt = now
			}
			event.UpdatedAt = now

			key := makeEventKey(event.City, event.Id)
			if err := tx.Set(key, inventory.MarshalEvent(event)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return events, nil
}

// ApprovedEvents retrieves every approved event for a city, ordered by start
// time.
func (s *EventStore) ApprovedEvents(ctx context.Context, city string) ([]*core.Event, error) {
	results := []*core.Event{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialEventKey(city)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var event *core.Event
			err := iter.Item().Value(func(val []byte) error {
				var err error
				event, err = inventory.UnmarshalEvent(val)
				return err
			})
			if err != nil {
				return err
			}
			if event != nil && event.Approved {
				results = append(results, event)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].Starts.Equal(results[j].Starts) {
			return results[i].Starts.Before(results[j].Starts)
		}
		return results[i].Title < results[j].Title
	})
	return results, nil
}

// eventIdentity builds the stable identity string for content-based IDs.
func eventIdentity(event *core.Event) string {
	return "(" + normalizeCity(event.City) + "," + strings.ToLower(event.Title) + "," + event.Starts.UTC().Format(time.RFC3339) + ")"
}
