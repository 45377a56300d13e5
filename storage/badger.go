package storage

import (
	"errors"
	"fmt"
	apperrors "messenger-lab/errors"

	"github.com/dgraph-io/badger/v4"
)

// appendRetries bounds the optimistic-concurrency retry loop in Append.
// Badger aborts a managed transaction with ErrConflict instead of
// blocking; retrying the short read-modify-write absorbs bursts of
// simultaneous room visits.
const appendRetries = 25

// BadgerStore implements KeyValueStore on top of BadgerDB. Badger
// transactions give Pop and Append their single-key atomicity.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return value, true, nil
}

func (s *BadgerStore) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *BadgerStore) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// Pop reads and deletes inside one transaction, so a concurrent Set on
// the same key either lands before the read (and is consumed) or after
// the commit (and stays pending). Nothing is lost in between.
func (s *BadgerStore) Pop(key string) (string, bool, error) {
	var value string
	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			value = string(val)
			return nil
		}); err != nil {
			return err
		}
		found = true
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return value, found, nil
}

func (s *BadgerStore) Append(key, suffix string) (string, error) {
	var merged string
	var err error
	for attempt := 0; attempt < appendRetries; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			current := ""
			item, err := txn.Get([]byte(key))
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				// absent key behaves as empty
			case err != nil:
				return err
			default:
				if err := item.Value(func(val []byte) error {
					current = string(val)
					return nil
				}); err != nil {
					return err
				}
			}
			merged = current + suffix
			return txn.Set([]byte(key), []byte(merged))
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return merged, nil
}
