package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/inventory"
)

// BusinessStore implements inventory.BusinessStore for BadgerDB.
type BusinessStore struct {
	backend *Backend
}

var _ inventory.BusinessStore = (*BusinessStore)(nil)

// NewBusinessStore creates a new BusinessStore.
func NewBusinessStore(backend *Backend) (*BusinessStore, error) {
	return &BusinessStore{
		backend: backend,
	}, nil
}

// Close releases resources. BusinessStore has no resources to release.
func (s *BusinessStore) Close() error {
	return nil
}

// PutBusinesses inserts or replaces business records.
func (s *BusinessStore) PutBusinesses(ctx context.Context, records ...*core.BusinessRecord) ([]*core.BusinessRecord, error) {
	for _, record := range records {
		if err := core.ValidateBusinessRecord(record); err != nil {
			return nil, err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			// Use content-based ID if not set
			if record.Id == 0 {
				record.Id = core.IDFromContent(businessIdentity(record))
			}

			key := makeBusinessKey(record.Id)

			// Read old record so a tier or city change doesn't leave a
			// stale index entry behind
			old, err := readBusiness(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old == nil {
				record.InsertedAt = now
			} else {
				record.InsertedAt = old.InsertedAt
			}
			record.UpdatedAt = now

			value := inventory.MarshalBusinessRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			if old != nil && (old.Tier != record.Tier || !strings.EqualFold(old.City, record.City)) {
				oldIndexKey := makeBusinessCityTierKey(old.City, old.Tier, old.Id)
				if err := tx.Delete(oldIndexKey); err != nil {
					return err
				}
			}

			indexKey := makeBusinessCityTierKey(record.City, record.Tier, record.Id)
			if err := tx.Set(indexKey, inventory.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetBusiness retrieves a single business record by ID.
func (s *BusinessStore) GetBusiness(ctx context.Context, id core.ID) (*core.BusinessRecord, error) {
	var result *core.BusinessRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readBusiness(tx, makeBusinessKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return inventory.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListByTier retrieves every business in a city at the given tier.
func (s *BusinessStore) ListByTier(ctx context.Context, city string, tier core.Tier) ([]*core.BusinessRecord, error) {
	if err := core.ValidateTier(tier); err != nil {
		return nil, err
	}

	results := []*core.BusinessRecord{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialBusinessCityTierKey(city, tier)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var businessID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				businessID, err = inventory.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			record, err := readBusiness(tx, makeBusinessKey(businessID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// businessIdentity builds the stable identity string for content-based IDs.
func businessIdentity(record *core.BusinessRecord) string {
	return "(" + strings.ToLower(record.Name) + "," + normalizeCity(record.City) + ")"
}

// readBusiness reads a business record from the transaction.
// Returns nil without error when the key doesn't exist.
func readBusiness(tx *badger.Txn, key []byte) (*core.BusinessRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.BusinessRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = inventory.UnmarshalBusinessRecord(val)
		return err
	})
	return record, err
}
