package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/junkjournalapp/junkjournal-server/internal/domain"
)

const (
	ownerPrefix   = "owner:"
	versionPrefix = "version:"
)

func ownerKey(ownerID string) []byte {
	return []byte(ownerPrefix + ownerID)
}

// versionKey builds a zero-padded key so Badger's lexicographic iteration
// returns versions in ascending order.
func versionKey(entryID string, num int) []byte {
	return []byte(fmt.Sprintf("%s%s:%08d", versionPrefix, entryID, num))
}

// loadOwnerDoc reads an owner's document, returning a fresh empty document
// when the owner has never written anything. Owners are created lazily on
// first write, so a missing key is not an error.
func (s *Store) loadOwnerDoc(ownerID string) (*domain.OwnerDocument, error) {
	var doc domain.OwnerDocument
	err := s.get(ownerKey(ownerID), &doc)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.NewOwnerDocument(ownerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load owner document: %w", err)
	}
	return &doc, nil
}

// updateOwnerDoc runs fn against the owner's document under the per-owner
// lock and persists the result. Concurrent updates to the same owner
// serialize here so neither one overwrites the other's changes.
func (s *Store) updateOwnerDoc(ownerID string, fn func(doc *domain.OwnerDocument) error) error {
	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	doc, err := s.loadOwnerDoc(ownerID)
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	if err := s.set(ownerKey(ownerID), doc); err != nil {
		return fmt.Errorf("save owner document: %w", err)
	}
	return nil
}

// GetOwnerDocument returns the full document for an owner, creating an empty
// one in memory if the owner has no data yet.
func (s *Store) GetOwnerDocument(_ context.Context, ownerID string) (*domain.OwnerDocument, error) {
	return s.loadOwnerDoc(ownerID)
}

// ListJournals returns the owner's journals that have not been soft-deleted,
// newest first.
func (s *Store) ListJournals(_ context.Context, ownerID string) ([]domain.Journal, error) {
	doc, err := s.loadOwnerDoc(ownerID)
	if err != nil {
		return nil, err
	}
	return doc.LiveJournals(), nil
}

// CreateJournal persists a new journal at the front of the owner's list.
func (s *Store) CreateJournal(_ context.Context, ownerID string, journal *domain.Journal) error {
	return s.updateOwnerDoc(ownerID, func(doc *domain.OwnerDocument) error {
		doc.Journals = append([]domain.Journal{*journal}, doc.Journals...)
		return nil
	})
}

// GetJournal retrieves a journal by ID. Soft-deleted journals are treated as
// not found.
func (s *Store) GetJournal(_ context.Context, ownerID, journalID string) (*domain.Journal, error) {
	doc, err := s.loadOwnerDoc(ownerID)
	if err != nil {
		return nil, err
	}

	journal := doc.LiveJournal(journalID)
	if journal == nil {
		return nil, ErrJournalNotFound
	}
	return journal, nil
}

// DeleteJournal soft-deletes a journal and reports whether anything changed.
// Entries belonging to the journal are left untouched; they become
// unreachable through the journal rather than deleted.
func (s *Store) DeleteJournal(_ context.Context, ownerID, journalID string) (bool, error) {
	deleted := false
	err := s.updateOwnerDoc(ownerID, func(doc *domain.OwnerDocument) error {
		for i := range doc.Journals {
			if doc.Journals[i].ID == journalID && !doc.Journals[i].IsDeleted() {
				doc.Journals[i].MarkDeleted()
				deleted = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ListEntries returns all entries for a journal, newest first. The journal's
// own deletion state is not checked; callers decide whether tombstoned
// journals should still expose their entries.
func (s *Store) ListEntries(_ context.Context, ownerID, journalID string) ([]domain.Entry, error) {
	doc, err := s.loadOwnerDoc(ownerID)
	if err != nil {
		return nil, err
	}
	return doc.EntriesForJournal(journalID), nil
}

// CreateEntry persists a new entry at the front of the owner's list. The
// target journal must exist and be live.
func (s *Store) CreateEntry(_ context.Context, ownerID string, entry *domain.Entry) error {
	return s.updateOwnerDoc(ownerID, func(doc *domain.OwnerDocument) error {
		if doc.LiveJournal(entry.JournalID) == nil {
			return ErrJournalNotFound
		}
		doc.Entries = append([]domain.Entry{*entry}, doc.Entries...)
		return nil
	})
}

// GetEntry retrieves an entry by ID.
func (s *Store) GetEntry(_ context.Context, ownerID, entryID string) (*domain.Entry, error) {
	doc, err := s.loadOwnerDoc(ownerID)
	if err != nil {
		return nil, err
	}

	entry := doc.FindEntry(entryID)
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// AddMedia prepends uploaded media to an entry and returns the updated entry.
func (s *Store) AddMedia(_ context.Context, ownerID, entryID string, media ...domain.Media) (*domain.Entry, error) {
	var updated *domain.Entry
	err := s.updateOwnerDoc(ownerID, func(doc *domain.OwnerDocument) error {
		entry := doc.FindEntry(entryID)
		if entry == nil {
			return ErrEntryNotFound
		}
		for _, m := range media {
			entry.PrependMedia(m)
		}
		copied := *entry
		updated = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetEntryPreview stores the most recent preview bundle on an entry.
func (s *Store) SetEntryPreview(_ context.Context, ownerID, entryID string, bundle *domain.PreviewBundle) (*domain.Entry, error) {
	var updated *domain.Entry
	err := s.updateOwnerDoc(ownerID, func(doc *domain.OwnerDocument) error {
		entry := doc.FindEntry(entryID)
		if entry == nil {
			return ErrEntryNotFound
		}
		entry.LastPreview = bundle
		entry.Touch()
		copied := *entry
		updated = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApproveEntry marks an entry approved with its chosen template and final
// text, and appends an immutable version record. The entry's live fields are
// overwritten on re-approval; the version history keeps every approval.
func (s *Store) ApproveEntry(_ context.Context, ownerID, entryID string, version *domain.EntryVersion) (*domain.Entry, error) {
	var updated *domain.Entry

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	doc, err := s.loadOwnerDoc(ownerID)
	if err != nil {
		return nil, err
	}

	entry := doc.FindEntry(entryID)
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	entry.Approve(version.TemplateID, version.Title, version.Desc)

	num, err := s.countEntryVersions(entryID)
	if err != nil {
		return nil, err
	}
	version.VersionNum = num + 1
	version.EntryID = entryID
	version.CreatedAt = time.Now().UTC()

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal owner document: %w", err)
	}
	versionData, err := json.Marshal(version)
	if err != nil {
		return nil, fmt.Errorf("marshal entry version: %w", err)
	}

	// Write the document and the version record in one transaction so a
	// crash cannot leave an approval without its history entry.
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(ownerKey(ownerID), docData); err != nil {
			return err
		}
		return txn.Set(versionKey(entryID, version.VersionNum), versionData)
	})
	if err != nil {
		return nil, fmt.Errorf("save approval: %w", err)
	}

	copied := *entry
	updated = &copied
	return updated, nil
}

// ListEntryVersions returns an entry's approval history in ascending version
// order.
func (s *Store) ListEntryVersions(_ context.Context, entryID string) ([]domain.EntryVersion, error) {
	prefix := []byte(versionPrefix + entryID + ":")
	versions := []domain.EntryVersion{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			err := it.Item().Value(func(val []byte) error {
				var v domain.EntryVersion
				if unmarshalErr := json.Unmarshal(val, &v); unmarshalErr != nil {
					if s.logger != nil {
						s.logger.Warn("Skipping malformed version record",
							"key", string(key), "error", unmarshalErr)
					}
					return nil
				}
				versions = append(versions, v)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list entry versions: %w", err)
	}

	return versions, nil
}

// LatestEntryVersion returns the most recent approval record for an entry,
// or nil if the entry has never been approved.
func (s *Store) LatestEntryVersion(_ context.Context, entryID string) (*domain.EntryVersion, error) {
	prefix := []byte(versionPrefix + entryID + ":")
	var latest *domain.EntryVersion

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		// Version numbers are zero-padded, so the highest key sorts last;
		// seek past the prefix and walk backwards one step.
		it.Seek(append(append([]byte{}, prefix...), 0xFF))
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		return it.Item().Value(func(val []byte) error {
			var v domain.EntryVersion
			if err := json.Unmarshal(val, &v); err != nil {
				return fmt.Errorf("unmarshal entry version: %w", err)
			}
			latest = &v
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("latest entry version: %w", err)
	}

	return latest, nil
}

// countEntryVersions counts existing version records for an entry.
func (s *Store) countEntryVersions(entryID string) (int, error) {
	prefix := []byte(versionPrefix + entryID + ":")
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // We only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count entry versions: %w", err)
	}

	return count, nil
}
