package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/inventory"
)

// OfferStore implements inventory.OfferStore for BadgerDB.
type OfferStore struct {
	backend *Backend
}

var _ inventory.OfferStore = (*OfferStore)(nil)

// NewOfferStore creates a new OfferStore.
func NewOfferStore(backend *Backend) (*OfferStore, error) {
	return &OfferStore{
		backend: backend,
	}, nil
}

// Close releases resources. OfferStore has no resources to release.
func (s *OfferStore) Close() error {
	return nil
}

// PutOffers inserts or replaces offers.
func (s *OfferStore) PutOffers(ctx context.Context, offers ...*core.Offer) ([]*core.Offer, error) {
	for _, offer := range offers {
		if err := core.ValidateOffer(offer); err != nil {
			return nil, err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, offer := range offers {
			if offer.Id == 0 {
				offer.Id = core.IDFromContent(offerIdentity(offer))
			}

			now := time.Now().UTC()
			if offer.InsertedAt.IsZero() {
				offer.InsertedAt = now
			}
			offer.UpdatedAt = now

			key := makeOfferKey(offer.City, offer.Id)
			if err := tx.Set(key, inventory.MarshalOffer(offer)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return offers, nil
}

// ApprovedOffers retrieves every approved offer for a city.
func (s *OfferStore) ApprovedOffers(ctx context.Context, city string) ([]*core.Offer, error) {
	results := []*core.Offer{}
	err := s.scanOffers(city, func(offer *core.Offer) {
		if offer.Approved {
			results = append(results, offer)
		}
	})
	return results, err
}

// CountApprovedOffers counts approved offers for a city.
func (s *OfferStore) CountApprovedOffers(ctx context.Context, city string) (int, error) {
	count := 0
	err := s.scanOffers(city, func(offer *core.Offer) {
		if offer.Approved {
			count++
		}
	})
	return count, err
}

// scanOffers iterates every offer stored for a city.
func (s *OfferStore) scanOffers(city string, visit func(*core.Offer)) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialOfferKey(city)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var offer *core.Offer
			err := iter.Item().Value(func(val []byte) error {
				var err error
				offer, err = inventory.UnmarshalOffer(val)
				return err
			})
			if err != nil {
				return err
			}
			if offer != nil {
				visit(offer)
			}
		}
		return nil
	}, false)
}

// offerIdentity builds the stable identity string for content-based IDs.
func offerIdentity(offer *core.Offer) string {
	return "(" + normalizeCity(offer.City) + "," + strings.ToLower(offer.BusinessName) + "," + strings.ToLower(offer.Title) + ")"
}
