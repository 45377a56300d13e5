package storage

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"messenger-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db)
}

func Test_Get_Absent_Key(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)

	value, found, err := store.Get("missing")
	req.NoError(err)
	req.False(found)
	req.Empty(value)
}

func Test_Set_Then_Get(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)

	req.NoError(store.Set("bob", "room42"))

	value, found, err := store.Get("bob")
	req.NoError(err)
	req.True(found)
	req.Equal("room42", value)
}

func Test_Set_Overwrites(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)

	req.NoError(store.Set("bob", "room1"))
	req.NoError(store.Set("bob", "room2"))

	value, _, err := store.Get("bob")
	req.NoError(err)
	req.Equal("room2", value)
}

func Test_Delete_Absent_Key_Is_Not_An_Error(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)

	req.NoError(store.Delete("missing"))
}

func Test_Pop_Consumes_At_Most_Once(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)

	req.NoError(store.Set("bob", "room42"))

	value, found, err := store.Pop("bob")
	req.NoError(err)
	req.True(found)
	req.Equal("room42", value)

	_, found, err = store.Pop("bob")
	req.NoError(err)
	req.False(found)
}

func Test_Append_On_Absent_Key(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)

	merged, err := store.Append("ledger", "alice|")
	req.NoError(err)
	req.Equal("alice|", merged)
}

func Test_Append_Accumulates(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)

	req.NoError(store.Set("ledger", " "))
	_, err := store.Append("ledger", "alice|")
	req.NoError(err)
	merged, err := store.Append("ledger", "bob|")
	req.NoError(err)
	req.Equal(" alice|bob|", merged)
}

func Test_Append_Concurrent_Visits_Lose_Nothing(t *testing.T) {
	req := require.New(t)
	store := openTestStore(t)

	const visitors = 8
	var wg sync.WaitGroup
	errs := make(chan error, visitors)
	for i := 0; i < visitors; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.Append("ledger", fmt.Sprintf("user%d|", n))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	raw, found, err := store.Get("ledger")
	req.NoError(err)
	req.True(found)
	for i := 0; i < visitors; i++ {
		req.Contains(raw, fmt.Sprintf("user%d|", i))
	}
	req.Equal(visitors, strings.Count(raw, "|"))
}

func Test_Closed_Store_Reports_Unavailable(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	store := NewBadgerStore(db)
	req.NoError(db.Close())

	err = store.Set("bob", "room42")
	req.ErrorIs(err, errors.ErrStoreUnavailable)
}
