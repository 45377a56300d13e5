package repositories

import (
	"log/slog"
	"testing"

	"messenger-lab/domain"
	"messenger-lab/observability"

	"github.com/stretchr/testify/require"
)

func Test_Initialize_Seeds_Absent_Ledger(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)
	ledger := NewContactLedger(store, "", nil, slog.Default())

	req.NoError(ledger.Initialize())

	raw, found, err := store.Get(DefaultLedgerKey)
	req.NoError(err)
	req.True(found)
	req.Equal(domain.LedgerSeed, raw)
}

func Test_Initialize_Never_Resets_A_Populated_Ledger(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)
	ledger := NewContactLedger(store, "", nil, slog.Default())

	req.NoError(ledger.Initialize())
	_, err := ledger.RecordVisit("alice")
	req.NoError(err)

	req.NoError(ledger.Initialize())

	contacts, err := ledger.Contacts()
	req.NoError(err)
	req.Equal([]domain.Username{"alice"}, contacts)
}

func Test_Record_Visit_Accumulates_And_Dedups(t *testing.T) {
	req := require.New(t)
	ledger := NewContactLedger(openTestStore(t), "", nil, slog.Default())
	req.NoError(ledger.Initialize())

	contacts, err := ledger.RecordVisit("alice")
	req.NoError(err)
	req.Equal([]domain.Username{"alice"}, contacts)

	contacts, err = ledger.RecordVisit("bob")
	req.NoError(err)
	req.Equal([]domain.Username{"alice", "bob"}, contacts)

	contacts, err = ledger.RecordVisit("alice")
	req.NoError(err)
	req.Equal([]domain.Username{"alice", "bob"}, contacts)
}

func Test_Record_Visit_Drops_Malformed_Tokens_Silently(t *testing.T) {
	req := require.New(t)
	ledger := NewContactLedger(openTestStore(t), "", nil, slog.Default())
	req.NoError(ledger.Initialize())

	_, err := ledger.RecordVisit("alice")
	req.NoError(err)

	contacts, err := ledger.RecordVisit("7bad")
	req.NoError(err)
	req.Equal([]domain.Username{"alice"}, contacts)

	contacts, err = ledger.RecordVisit("o'hara")
	req.NoError(err)
	req.Equal([]domain.Username{"alice"}, contacts)
}

func Test_Record_Visit_Reports_Malformed_Gauge(t *testing.T) {
	req := require.New(t)
	stats := observability.NewStatsManager(slog.Default())
	ledger := NewContactLedger(openTestStore(t), "", stats, slog.Default())
	req.NoError(ledger.Initialize())

	_, err := ledger.RecordVisit("7bad")
	req.NoError(err)
	_, err = ledger.RecordVisit("o'hara")
	req.NoError(err)
	_, err = ledger.RecordVisit("alice")
	req.NoError(err)

	// The gauge reflects the whole raw value, refreshed on each visit.
	req.Equal(uint64(2), stats.Snapshot().MalformedTokens)
}

func Test_Raw_Ledger_Only_Grows(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)
	ledger := NewContactLedger(store, "", nil, slog.Default())
	req.NoError(ledger.Initialize())

	for _, visitor := range []domain.Username{"alice", "bob", "alice"} {
		_, err := ledger.RecordVisit(visitor)
		req.NoError(err)
	}

	raw, _, err := store.Get(DefaultLedgerKey)
	req.NoError(err)
	req.Equal(" alice|bob|alice|", raw)
}

func Test_Contacts_Reads_Without_Appending(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)
	ledger := NewContactLedger(store, "", nil, slog.Default())
	req.NoError(ledger.Initialize())

	_, err := ledger.RecordVisit("alice")
	req.NoError(err)

	before, _, err := store.Get(DefaultLedgerKey)
	req.NoError(err)

	contacts, err := ledger.Contacts()
	req.NoError(err)
	req.Equal([]domain.Username{"alice"}, contacts)

	after, _, err := store.Get(DefaultLedgerKey)
	req.NoError(err)
	req.Equal(before, after)
}

func Test_Custom_Ledger_Key(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)
	ledger := NewContactLedger(store, "RoomContacts", nil, slog.Default())
	req.NoError(ledger.Initialize())

	_, err := ledger.RecordVisit("alice")
	req.NoError(err)

	_, found, err := store.Get(DefaultLedgerKey)
	req.NoError(err)
	req.False(found)

	raw, found, err := store.Get("RoomContacts")
	req.NoError(err)
	req.True(found)
	req.Equal(" alice|", raw)
}
