package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"messenger-lab/domain"
	"messenger-lab/repositories"
	"messenger-lab/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

// Read-only CLI view of the messenger store: pending invitations, the
// derived contact list, directory profiles, and friends lists.
// BypassLockGuard lets it run while the host process holds the store lock.

type config struct {
	DBPath      string `envconfig:"BADGER_FILEPATH" default:"/tmp/messenger/badger"`
	ContactsKey string `envconfig:"CONTACTS_KEY" default:"Contacts"`
}

func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Config error: ", err)
	}

	opts := badger.DefaultOptions(cfg.DBPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	store := storage.NewBadgerStore(db)

	printInvitations(db)
	printContacts(store, cfg.ContactsKey)
	printProfiles(db)
	printFriends(db)
}

func printInvitations(db *badger.DB) {
	color.Cyan.Println("\nPending invitations")

	table := newTable([]string{"Recipient", "Room"})
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("invite:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			recipient := strings.TrimPrefix(string(item.Key()), "invite:")
			err := item.Value(func(v []byte) error {
				table.Append([]string{recipient, string(v)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}
	table.Render()
}

func printContacts(store storage.KeyValueStore, key string) {
	color.Cyan.Println("\nContact list")

	ledger := repositories.NewContactLedger(store, key, nil, discardLogger())
	contacts, err := ledger.Contacts()
	if err != nil {
		log.Fatal("Ledger read failed: ", err)
	}

	table := newTable([]string{"#", "Username"})
	for i, contact := range contacts {
		table.Append([]string{strconv.Itoa(i + 1), string(contact)})
	}
	table.Render()
}

func printProfiles(db *badger.DB) {
	color.Cyan.Println("\nDirectory profiles")

	profiles, err := repositories.NewUserRepository(db).ListProfiles()
	if err != nil {
		log.Fatal("Profile scan failed: ", err)
	}

	table := newTable([]string{"Username", "Name", "Age", "Job", "Registered"})
	for _, p := range profiles {
		table.Append([]string{
			string(p.Username),
			fmt.Sprintf("%s %s", p.FirstName, p.LastName),
			strconv.Itoa(p.Age),
			p.Job,
			p.CreatedAt.Format("2006-01-02"),
		})
	}
	table.Render()
}

func printFriends(db *badger.DB) {
	color.Cyan.Println("\nFriends lists")

	table := newTable([]string{"User", "Friends"})
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("friends:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			owner := strings.TrimPrefix(string(item.Key()), "friends:")
			err := item.Value(func(v []byte) error {
				friends := domain.DeriveContacts(string(v))
				names := make([]string, len(friends))
				for i, f := range friends {
					names[i] = string(f)
				}
				table.Append([]string{owner, strings.Join(names, ", ")})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}
	table.Render()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
