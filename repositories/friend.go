//go:generate go run go.uber.org/mock/mockgen -source=friend.go -destination=../mocks/mock_friend_repository.go -package=mocks
package repositories

import (
	"messenger-lab/domain"
	"messenger-lab/storage"
)

const friendsPrefix = "friends:"

type IFriendRepository interface {
	AddFriend(owner, friend domain.Username) error
	Friends(owner domain.Username) ([]domain.Username, error)
}

// FriendRepository stores each user's friends list under its own key, with
// the same delimited encoding and read-time dedup as the contact ledger.
// Adding the same friend twice grows the raw value but not the derived list.
type FriendRepository struct {
	store storage.KeyValueStore
}

func NewFriendRepository(store storage.KeyValueStore) *FriendRepository {
	return &FriendRepository{store: store}
}

func (f *FriendRepository) AddFriend(owner, friend domain.Username) error {
	_, err := f.store.Append(friendsPrefix+string(owner), string(friend)+domain.TokenSeparator)
	return err
}

func (f *FriendRepository) Friends(owner domain.Username) ([]domain.Username, error) {
	raw, found, err := f.store.Get(friendsPrefix + string(owner))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return domain.DeriveContacts(raw), nil
}
