package internal

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key    string
	Kind   string
	Owner  string
	Detail string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer serves a read-only HTML view of the store plus live
// stats. Local debugging only; it binds all interfaces and has no auth.
func StartDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = MessengerMapper
	}

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}

		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// MessengerMapper renders the messenger key families. Invitation, friends,
// and ledger values are plain delimited strings; profile records are binary
// and only reported by size.
func MessengerMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:    key,
		Kind:   "RAW",
		Owner:  "-",
		Detail: "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	switch {
	case strings.HasPrefix(key, "invite:"):
		row.Kind = "INVITE"
		row.Owner = strings.TrimPrefix(key, "invite:")
		row.Detail = "room " + string(val)
	case strings.HasPrefix(key, "friends:"):
		row.Kind = "FRIENDS"
		row.Owner = strings.TrimPrefix(key, "friends:")
		row.Detail = string(val)
	case strings.HasPrefix(key, "user:"):
		row.Kind = "PROFILE"
		row.Owner = strings.TrimPrefix(key, "user:")
	case key == "Contacts":
		row.Kind = "LEDGER"
		row.Detail = string(val)
	}
	return row
}
