package services

import (
	"context"
	"log/slog"
	"testing"

	"messenger-lab/contract"
	"messenger-lab/domain"
	"messenger-lab/errors"
	"messenger-lab/observability"
	"messenger-lab/repositories"
	"messenger-lab/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) storage.KeyValueStore {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewBadgerStore(db)
}

func newMessengerService(t *testing.T, store storage.KeyValueStore) (*MessengerService, *observability.StatsManager) {
	t.Helper()
	log := slog.Default()
	stats := observability.NewStatsManager(log)
	mailbox := repositories.NewInvitationMailbox(store, log)
	ledger := repositories.NewContactLedger(store, "", stats, log)
	require.NoError(t, ledger.Initialize())
	return NewMessengerService(mailbox, ledger, contract.ContextIdentity{}, stats, log), stats
}

// failingStore simulates an unreachable backend for error-path tests.
type failingStore struct{}

func (failingStore) Get(string) (string, bool, error)    { return "", false, errors.ErrStoreUnavailable }
func (failingStore) Set(string, string) error            { return errors.ErrStoreUnavailable }
func (failingStore) Delete(string) error                 { return errors.ErrStoreUnavailable }
func (failingStore) Pop(string) (string, bool, error)    { return "", false, errors.ErrStoreUnavailable }
func (failingStore) Append(string, string) (string, error) {
	return "", errors.ErrStoreUnavailable
}

func Test_Invite_Flow_Delivers_At_Most_Once(t *testing.T) {
	req := require.New(t)
	service, stats := newMessengerService(t, openTestStore(t))
	ctx := context.Background()

	req.NoError(service.Invite(ctx, "alice", "bob", "room42"))

	room, pending, err := service.CheckInbox(ctx, "bob")
	req.NoError(err)
	req.True(pending)
	req.Equal(domain.RoomName("room42"), room)

	_, pending, err = service.CheckInbox(ctx, "bob")
	req.NoError(err)
	req.False(pending)

	snapshot := stats.Snapshot()
	req.Equal(uint64(1), snapshot.InvitesSent)
	req.Equal(uint64(1), snapshot.InvitesDelivered)
}

func Test_Invite_Requires_Recipient_And_Room(t *testing.T) {
	req := require.New(t)
	service, _ := newMessengerService(t, openTestStore(t))
	ctx := context.Background()

	req.ErrorIs(service.Invite(ctx, "alice", "", "room42"), errors.ErrInvalidInvite)
	req.ErrorIs(service.Invite(ctx, "alice", "bob", ""), errors.ErrInvalidInvite)
}

func Test_Invite_Overwrites_A_Pending_Invitation(t *testing.T) {
	req := require.New(t)
	service, _ := newMessengerService(t, openTestStore(t))
	ctx := context.Background()

	req.NoError(service.Invite(ctx, "alice", "bob", "room1"))
	req.NoError(service.Invite(ctx, "clara", "bob", "room2"))

	room, pending, err := service.CheckInbox(ctx, "bob")
	req.NoError(err)
	req.True(pending)
	req.Equal(domain.RoomName("room2"), room)
}

func Test_Enter_Room_Returns_Contact_List(t *testing.T) {
	req := require.New(t)
	service, stats := newMessengerService(t, openTestStore(t))
	ctx := context.Background()

	contacts, err := service.EnterRoom(ctx, "alice", "room42")
	req.NoError(err)
	req.Equal([]domain.Username{"alice"}, contacts)

	contacts, err = service.EnterRoom(ctx, "bob", "room42")
	req.NoError(err)
	req.Equal([]domain.Username{"alice", "bob"}, contacts)

	contacts, err = service.EnterRoom(ctx, "alice", "room7")
	req.NoError(err)
	req.Equal([]domain.Username{"alice", "bob"}, contacts)

	req.Equal(uint64(3), stats.Snapshot().VisitsRecorded)
}

func Test_Context_Identity_Overrides_The_Fallback_Argument(t *testing.T) {
	req := require.New(t)
	service, _ := newMessengerService(t, openTestStore(t))

	ctx := contract.WithUsername(context.Background(), "alice")
	contacts, err := service.EnterRoom(ctx, "impostor", "room42")
	req.NoError(err)
	req.Equal([]domain.Username{"alice"}, contacts)
}

func Test_Store_Failures_Propagate_To_The_Caller(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	stats := observability.NewStatsManager(log)
	mailbox := repositories.NewInvitationMailbox(failingStore{}, log)
	ledger := repositories.NewContactLedger(failingStore{}, "", stats, log)
	service := NewMessengerService(mailbox, ledger, contract.ContextIdentity{}, stats, log)
	ctx := context.Background()

	req.ErrorIs(service.Invite(ctx, "alice", "bob", "room42"), errors.ErrStoreUnavailable)

	_, _, err := service.CheckInbox(ctx, "bob")
	req.ErrorIs(err, errors.ErrStoreUnavailable)

	_, err = service.EnterRoom(ctx, "alice", "room42")
	req.ErrorIs(err, errors.ErrStoreUnavailable)

	req.Equal(uint64(3), stats.Snapshot().StoreErrors)
}
