//go:generate go run go.uber.org/mock/mockgen -source=mailbox.go -destination=../mocks/mock_mailbox.go -package=mocks
package repositories

import (
	"log/slog"
	"messenger-lab/domain"
	"messenger-lab/storage"
)

// invitePrefix namespaces mailbox slots inside the shared store.
const invitePrefix = "invite:"

type IInvitationMailbox interface {
	Send(inviter, recipient domain.Username, room domain.RoomName) error
	TakeAndClear(recipient domain.Username) (domain.RoomName, bool, error)
}

// InvitationMailbox is a per-recipient single-slot mailbox over the shared
// key-value store. Delivery is purely poll-based: the recipient discovers a
// pending invitation on their next page load, and consumes it at most once.
type InvitationMailbox struct {
	store storage.KeyValueStore
	log   *slog.Logger
}

func NewInvitationMailbox(store storage.KeyValueStore, log *slog.Logger) *InvitationMailbox {
	return &InvitationMailbox{store: store, log: log}
}

// Send unconditionally overwrites the recipient's slot with the room name.
// A previously pending invitation is silently replaced (last write wins,
// no queuing). The inviter is recorded nowhere; it only feeds the log line.
func (m *InvitationMailbox) Send(inviter, recipient domain.Username, room domain.RoomName) error {
	if err := m.store.Set(invitePrefix+string(recipient), string(room)); err != nil {
		return err
	}
	m.log.Debug("Invitation stored", "inviter", inviter, "recipient", recipient, "room", room)
	return nil
}

// TakeAndClear pops the recipient's slot in a single atomic store operation,
// so a Send racing the consumption either lands before it (and is delivered)
// or after it (and stays pending). Calling it twice with no intervening Send
// yields the invitation at most once. An empty stored value counts as absent.
func (m *InvitationMailbox) TakeAndClear(recipient domain.Username) (domain.RoomName, bool, error) {
	value, found, err := m.store.Pop(invitePrefix + string(recipient))
	if err != nil {
		return "", false, err
	}
	if !found || value == "" {
		return "", false, nil
	}
	return domain.RoomName(value), true, nil
}
