package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/junkjournalapp/junkjournal-server/internal/domain"
)

const (
	sharePrefix        = "share:"
	shareBySlugPrefix  = "idx:shares:slug:"  // For public slug lookups
	shareByOwnerPrefix = "idx:shares:owner:" // For listing an owner's shares
	invitePrefix       = "invite:"
	inviteBySlugPrefix = "idx:invites:slug:" // For invite slug lookups
	inviteByShareIdx   = "idx:invites:share:"
)

// CreateShare creates a new share link and its slug index.
func (s *Store) CreateShare(_ context.Context, share *domain.Share) error {
	key := []byte(sharePrefix + share.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check share exists: %w", err)
	}
	if exists {
		return fmt.Errorf("share ID already exists")
	}

	slugKey := []byte(shareBySlugPrefix + share.Slug)
	ownerIdxKey := []byte(shareByOwnerPrefix + share.OwnerID + ":" + share.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		// Check if slug is already in use
		_, err := txn.Get(slugKey)
		if err == nil {
			return ErrSlugExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check slug exists: %w", err)
		}

		data, err := json.Marshal(share)
		if err != nil {
			return fmt.Errorf("marshal share: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		if err := txn.Set(slugKey, []byte(share.ID)); err != nil {
			return err
		}

		return txn.Set(ownerIdxKey, []byte{})
	})
}

// GetShare retrieves a share by ID.
func (s *Store) GetShare(_ context.Context, id string) (*domain.Share, error) {
	key := []byte(sharePrefix + id)

	var share domain.Share
	if err := s.get(key, &share); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("get share: %w", err)
	}

	return &share, nil
}

// GetShareBySlug retrieves a share by its public slug.
// This is the primary lookup method for viewer access.
func (s *Store) GetShareBySlug(ctx context.Context, slug string) (*domain.Share, error) {
	slugKey := []byte(shareBySlugPrefix + slug)

	var shareID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slugKey)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			shareID = string(val)
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("lookup share by slug: %w", err)
	}

	return s.GetShare(ctx, shareID)
}

// UpdateShare updates an existing share (enable, disable, revoke).
func (s *Store) UpdateShare(_ context.Context, share *domain.Share) error {
	key := []byte(sharePrefix + share.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check share exists: %w", err)
	}
	if !exists {
		return ErrShareNotFound
	}

	share.Touch()

	return s.set(key, share)
}

// ListSharesByOwner returns all shares created by an owner.
func (s *Store) ListSharesByOwner(ctx context.Context, ownerID string) ([]*domain.Share, error) {
	prefix := []byte(shareByOwnerPrefix + ownerID + ":")
	shares := []*domain.Share{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // We only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			shareID := key[len(prefix):]

			share, err := s.GetShare(ctx, shareID)
			if err != nil {
				if errors.Is(err, ErrShareNotFound) {
					continue // Skip dangling index entries
				}
				return err
			}

			shares = append(shares, share)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list shares by owner: %w", err)
	}

	return shares, nil
}

// CreateShareInvite creates a new invite for an invite-mode share.
func (s *Store) CreateShareInvite(_ context.Context, invite *domain.ShareInvite) error {
	key := []byte(invitePrefix + invite.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check invite exists: %w", err)
	}
	if exists {
		return fmt.Errorf("invite ID already exists")
	}

	slugKey := []byte(inviteBySlugPrefix + invite.Slug)
	shareKey := []byte(inviteByShareIdx + invite.ShareID + ":" + invite.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(slugKey)
		if err == nil {
			return ErrSlugExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check slug exists: %w", err)
		}

		data, err := json.Marshal(invite)
		if err != nil {
			return fmt.Errorf("marshal invite: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		if err := txn.Set(slugKey, []byte(invite.ID)); err != nil {
			return err
		}

		return txn.Set(shareKey, []byte{})
	})
}

// GetShareInvite retrieves an invite by ID.
func (s *Store) GetShareInvite(_ context.Context, id string) (*domain.ShareInvite, error) {
	key := []byte(invitePrefix + id)

	var invite domain.ShareInvite
	if err := s.get(key, &invite); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}

	return &invite, nil
}

// GetShareInviteBySlug retrieves an invite by its slug.
func (s *Store) GetShareInviteBySlug(ctx context.Context, slug string) (*domain.ShareInvite, error) {
	slugKey := []byte(inviteBySlugPrefix + slug)

	var inviteID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slugKey)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			inviteID = string(val)
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("lookup invite by slug: %w", err)
	}

	return s.GetShareInvite(ctx, inviteID)
}

// UpdateShareInvite updates an existing invite (primarily for revoking).
func (s *Store) UpdateShareInvite(_ context.Context, invite *domain.ShareInvite) error {
	key := []byte(invitePrefix + invite.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check invite exists: %w", err)
	}
	if !exists {
		return ErrInviteNotFound
	}

	return s.set(key, invite)
}

// ListShareInvites returns all invites attached to a share.
func (s *Store) ListShareInvites(ctx context.Context, shareID string) ([]*domain.ShareInvite, error) {
	prefix := []byte(inviteByShareIdx + shareID + ":")
	invites := []*domain.ShareInvite{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // We only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			inviteID := key[len(prefix):]

			invite, err := s.GetShareInvite(ctx, inviteID)
			if err != nil {
				if errors.Is(err, ErrInviteNotFound) {
					continue // Skip dangling index entries
				}
				return err
			}

			invites = append(invites, invite)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list invites for share: %w", err)
	}

	return invites, nil
}
