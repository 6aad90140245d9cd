package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

var (
	// ErrJournalNotFound is returned when a journal cannot be found in an owner's document.
	ErrJournalNotFound = errors.New("journal not found")
	// ErrEntryNotFound is returned when an entry cannot be found in an owner's document.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrShareNotFound is returned when a share cannot be found.
	ErrShareNotFound = errors.New("share not found")
	// ErrInviteNotFound is returned when a share invite cannot be found.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrSlugExists is returned when a generated slug collides with an existing one.
	ErrSlugExists = errors.New("slug already exists")
)

// Store wraps a Badger database instance.
//
// Each owner's journals and entries live in a single document under one key,
// so every mutation is a load-mutate-save cycle guarded by a per-owner mutex.
// Shares and invites are stored as individual records with slug indexes
// because they are resolved by slug without knowing the owner.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	ownerLocks *keyMutex
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:         db,
		logger:     logger,
		ownerLocks: newKeyMutex(),
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
