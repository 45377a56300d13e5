//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
// Package storage provides the shared key-value store the messenger
// coordinates through. Every process instance is stateless; all state
// lives behind this interface.
package storage

// KeyValueStore is a shared mapping from string key to string value,
// accessed concurrently by many handlers. Get reports absence through
// the boolean, never through an error.
//
// Pop and Append exist because the two naive compositions they replace
// (read-then-delete, read-modify-write) both lose writes under
// concurrent access. Implementations must make them single-key atomic.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error

	// Pop atomically reads and removes the value under key.
	Pop(key string) (string, bool, error)

	// Append atomically appends suffix to the value under key (treating
	// an absent key as empty) and returns the merged value.
	Append(key, suffix string) (string, error)
}
