//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"messenger-lab/domain"
	"messenger-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateProfile(profile domain.Profile) (uuid.UUID, error)
	GetProfile(username domain.Username) (domain.Profile, error)
	ListProfiles() ([]domain.Profile, error)
}

// UserRepository persists directory profiles in BadgerDB under "user:<username>".
// It works on the database directly rather than the KeyValueStore seam because
// it needs transactional duplicate checks and prefix scans.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// profileRecord is the CBOR-encoded on-disk shape of a profile.
type profileRecord struct {
	ID        string `cbor:"1,keyasint"`
	Username  string `cbor:"2,keyasint"`
	FirstName string `cbor:"3,keyasint"`
	LastName  string `cbor:"4,keyasint"`
	Age       int    `cbor:"5,keyasint"`
	Job       string `cbor:"6,keyasint"`
	CreatedAt int64  `cbor:"7,keyasint"`
}

// CreateProfile persists a new directory profile and returns its generated ID.
// The existence check and the write share one transaction, so two concurrent
// registrations of the same username cannot both succeed.
func (u *UserRepository) CreateProfile(profile domain.Profile) (uuid.UUID, error) {
	if profile.Username == "" {
		return uuid.Nil, errors.ErrBlankUsername
	}
	newID := uuid.New()
	record := profileRecord{
		ID:        newID.String(),
		Username:  string(profile.Username),
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Age:       profile.Age,
		Job:       profile.Job,
		CreatedAt: time.Now().Unix(),
	}

	data, err := cbor.Marshal(record)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + profile.Username)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrProfileExists
		}
		return txn.Set(key, data)
	})

	return newID, err
}

// GetProfile retrieves one profile by username.
func (u *UserRepository) GetProfile(username domain.Username) (domain.Profile, error) {
	var record profileRecord

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + username))
		if err == badger.ErrKeyNotFound {
			return errors.ErrUnknownUser
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return domain.Profile{}, err
	}

	return toProfile(record)
}

// ListProfiles returns every stored profile, in username order thanks to the
// lexicographic prefix scan.
func (u *UserRepository) ListProfiles() ([]domain.Profile, error) {
	var records []profileRecord
	err := u.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record profileRecord
				if err := cbor.Unmarshal(val, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(records))
	for _, record := range records {
		profile, err := toProfile(record)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func toProfile(record profileRecord) (domain.Profile, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{
		ID:        parsedID,
		Username:  domain.Username(record.Username),
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Age:       record.Age,
		Job:       record.Job,
		CreatedAt: time.Unix(record.CreatedAt, 0).UTC(),
	}, nil
}
