// Package main provides a read-only inspection tool for the owner-document
// database: per-owner journal/entry counts, share records, and version
// history totals.
//
// Usage:
//
//	STORAGE_PATH=~/JunkJournal/storage go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/junkjournalapp/junkjournal-server/internal/domain"
)

func main() {
	basePath := os.Getenv("STORAGE_PATH")
	if basePath == "" {
		basePath = os.ExpandEnv("$HOME/JunkJournal/storage")
	}
	dbPath := filepath.Join(basePath, "db")

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	ownerCount := 0
	journalCount := 0
	deletedJournals := 0
	entryCount := 0
	approvedEntries := 0
	mediaCount := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte("owner:")})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var doc domain.OwnerDocument
				if err := json.Unmarshal(val, &doc); err != nil {
					return err
				}

				ownerCount++
				journalCount += len(doc.Journals)
				for _, j := range doc.Journals {
					if j.IsDeleted() {
						deletedJournals++
					}
				}
				entryCount += len(doc.Entries)
				for _, e := range doc.Entries {
					if e.IsApproved() {
						approvedEntries++
					}
					mediaCount += len(e.Media)
				}

				if ownerCount <= 3 {
					fmt.Printf("Owner: %s\n", doc.OwnerID)
					fmt.Printf("  Journals: %d  Entries: %d\n", len(doc.Journals), len(doc.Entries))
					for i, j := range doc.Journals {
						if i >= 5 {
							fmt.Printf("    ... and %d more journals\n", len(doc.Journals)-5)
							break
						}
						marker := ""
						if j.IsDeleted() {
							marker = " (deleted)"
						}
						fmt.Printf("    [%s] %q %s/%s%s\n", j.ID, j.Title, j.ThemeFamily, j.PageSize, marker)
					}
					fmt.Println()
				}

				return nil
			})
			if err != nil {
				log.Printf("Error reading %s: %v", it.Item().Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	shareCount := countPrefix(db, "share:")
	inviteCount := countPrefix(db, "invite:")
	versionCount := countPrefix(db, "version:")

	fmt.Println("=== Totals ===")
	fmt.Printf("Owners:    %d\n", ownerCount)
	fmt.Printf("Journals:  %d (%d deleted)\n", journalCount, deletedJournals)
	fmt.Printf("Entries:   %d (%d approved)\n", entryCount, approvedEntries)
	fmt.Printf("Media:     %d\n", mediaCount)
	fmt.Printf("Shares:    %d\n", shareCount)
	fmt.Printf("Invites:   %d\n", inviteCount)
	fmt.Printf("Versions:  %d\n", versionCount)
}

func countPrefix(db *badger.DB, prefix string) int {
	count := 0
	_ = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         []byte(prefix),
			PrefetchValues: false,
		})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}
