//go:generate go run go.uber.org/mock/mockgen -source=contacts.go -destination=../mocks/mock_contacts.go -package=mocks
package repositories

import (
	"log/slog"
	"messenger-lab/domain"
	"messenger-lab/observability"
	"messenger-lab/storage"
)

// DefaultLedgerKey is the fixed store key all rooms append their visitors to.
// Keep it stable: every process instance sharing the store must agree on it.
const DefaultLedgerKey = "Contacts"

type IContactLedger interface {
	Initialize() error
	RecordVisit(username domain.Username) ([]domain.Username, error)
	Contacts() ([]domain.Username, error)
}

// ContactLedger accumulates a raw, append-only log of room visitors under a
// single shared key and exposes a deduplicated, validated view of it. The raw
// value only ever grows; filtering and dedup happen at read time.
type ContactLedger struct {
	store storage.KeyValueStore
	key   string
	stats *observability.StatsManager
	log   *slog.Logger
}

func NewContactLedger(store storage.KeyValueStore, key string, stats *observability.StatsManager, log *slog.Logger) *ContactLedger {
	if key == "" {
		key = DefaultLedgerKey
	}
	return &ContactLedger{store: store, key: key, stats: stats, log: log}
}

// Initialize seeds an absent ledger with a blank value. A populated ledger is
// left untouched, so re-running bootstrap never wipes accumulated visits.
func (l *ContactLedger) Initialize() error {
	_, found, err := l.store.Get(l.key)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	return l.store.Set(l.key, domain.LedgerSeed)
}

// RecordVisit appends the visitor's token atomically and returns the contact
// list derived from the merged value. Malformed tokens already in the ledger
// are silently dropped from the view, never reported as errors.
func (l *ContactLedger) RecordVisit(username domain.Username) ([]domain.Username, error) {
	merged, err := l.store.Append(l.key, string(username)+domain.TokenSeparator)
	if err != nil {
		return nil, err
	}
	contacts := domain.DeriveContacts(merged)
	if l.stats != nil {
		l.stats.SetMalformedTokens(uint64(domain.CountMalformed(merged)))
	}
	l.log.Debug("Room visit recorded", "username", username, "contacts", len(contacts))
	return contacts, nil
}

// Contacts derives the current contact list without recording a visit.
func (l *ContactLedger) Contacts() ([]domain.Username, error) {
	raw, found, err := l.store.Get(l.key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return domain.DeriveContacts(raw), nil
}
