package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/junkjournalapp/junkjournal-server/internal/domain"
	domainerrors "github.com/junkjournalapp/junkjournal-server/internal/errors"
	"github.com/junkjournalapp/junkjournal-server/internal/id"
	"github.com/junkjournalapp/junkjournal-server/internal/store"
)

// slugRetries bounds slug collision retries. Collisions are vanishingly rare
// with 24-character slugs, but the create call must still terminate.
const slugRetries = 3

// ShareService handles share links, invites, and public resolution.
type ShareService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewShareService creates a new share service.
func NewShareService(store *store.Store, logger *slog.Logger) *ShareService {
	return &ShareService{
		store:  store,
		logger: logger,
	}
}

// CreateShareRequest contains the data needed to share a journal.
type CreateShareRequest struct {
	JournalID string `json:"journal_id" validate:"required"`
	Mode      string `json:"mode" validate:"required,oneof=public invite"`
}

// CreateInviteRequest contains the data needed to invite a viewer to an
// invite-mode share.
type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SharedBook is the viewer-facing projection of a shared journal. Only
// approved entries ever appear in it, oldest first, so viewers read the
// journal in the order it was made.
type SharedBook struct {
	JournalTitle string        `json:"journal_title"`
	ThemeFamily  string        `json:"theme_family"`
	PageSize     string        `json:"page_size"`
	Entries      []SharedEntry `json:"entries"`
}

// SharedEntry is one approved page in a shared book, carrying its most
// recent approval record.
type SharedEntry struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Desc          string               `json:"desc"`
	TemplateID    string               `json:"template_id"`
	Media         []domain.Media       `json:"media"`
	LatestVersion *domain.EntryVersion `json:"latest_version,omitempty"`
}

// Create shares a journal under a fresh unguessable slug.
func (s *ShareService) Create(ctx context.Context, ownerID string, req CreateShareRequest) (*domain.Share, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// The journal must exist and be live at share time
	if _, err := s.store.GetJournal(ctx, ownerID, req.JournalID); err != nil {
		if errors.Is(err, store.ErrJournalNotFound) {
			return nil, domainerrors.NotFound("journal not found")
		}
		return nil, fmt.Errorf("get journal: %w", err)
	}

	shareID, err := id.Generate(id.PrefixShare)
	if err != nil {
		return nil, fmt.Errorf("generate share ID: %w", err)
	}

	share := &domain.Share{
		OwnerID:   ownerID,
		JournalID: req.JournalID,
		Mode:      domain.ShareMode(req.Mode),
		Enabled:   true,
	}
	share.ID = shareID
	share.InitTimestamps()

	for attempt := 0; ; attempt++ {
		slug, err := id.GenerateSlug()
		if err != nil {
			return nil, fmt.Errorf("generate slug: %w", err)
		}
		share.Slug = slug

		err = s.store.CreateShare(ctx, share)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrSlugExists) && attempt < slugRetries {
			continue
		}
		return nil, fmt.Errorf("create share: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Share created",
			"share_id", share.ID,
			"journal_id", share.JournalID,
			"owner_id", ownerID,
			"mode", share.Mode,
		)
	}

	return share, nil
}

// List returns all shares created by an owner.
func (s *ShareService) List(ctx context.Context, ownerID string) ([]*domain.Share, error) {
	shares, err := s.store.ListSharesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return shares, nil
}

// Revoke disables a share. The slug keeps resolving to "not found" for
// viewers from that point on.
func (s *ShareService) Revoke(ctx context.Context, ownerID, shareID string) (*domain.Share, error) {
	share, err := s.getOwned(ctx, ownerID, shareID)
	if err != nil {
		return nil, err
	}

	share.Revoke()
	if err := s.store.UpdateShare(ctx, share); err != nil {
		return nil, fmt.Errorf("revoke share: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Share revoked", "share_id", shareID, "owner_id", ownerID)
	}

	return share, nil
}

// CreateInvite adds a viewer invite to an invite-mode share.
func (s *ShareService) CreateInvite(ctx context.Context, ownerID, shareID string, req CreateInviteRequest) (*domain.ShareInvite, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	share, err := s.getOwned(ctx, ownerID, shareID)
	if err != nil {
		return nil, err
	}
	if share.Mode != domain.ShareModeInvite {
		return nil, domainerrors.InvalidInput("share is not invite-mode")
	}

	inviteID, err := id.Generate(id.PrefixInvite)
	if err != nil {
		return nil, fmt.Errorf("generate invite ID: %w", err)
	}

	invite := &domain.ShareInvite{
		ID:        inviteID,
		ShareID:   share.ID,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}

	for attempt := 0; ; attempt++ {
		slug, err := id.GenerateSlug()
		if err != nil {
			return nil, fmt.Errorf("generate slug: %w", err)
		}
		invite.Slug = slug

		err = s.store.CreateShareInvite(ctx, invite)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrSlugExists) && attempt < slugRetries {
			continue
		}
		return nil, fmt.Errorf("create invite: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Share invite created",
			"invite_id", invite.ID,
			"share_id", shareID,
			"owner_id", ownerID,
		)
	}

	return invite, nil
}

// ListInvites returns the invites attached to an owner's share.
func (s *ShareService) ListInvites(ctx context.Context, ownerID, shareID string) ([]*domain.ShareInvite, error) {
	if _, err := s.getOwned(ctx, ownerID, shareID); err != nil {
		return nil, err
	}

	invites, err := s.store.ListShareInvites(ctx, shareID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	return invites, nil
}

// RevokeInvite disables a single invite without touching the share.
func (s *ShareService) RevokeInvite(ctx context.Context, ownerID, shareID, inviteID string) (*domain.ShareInvite, error) {
	if _, err := s.getOwned(ctx, ownerID, shareID); err != nil {
		return nil, err
	}

	invite, err := s.store.GetShareInvite(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrInviteNotFound) {
			return nil, domainerrors.NotFound("invite not found")
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if invite.ShareID != shareID {
		return nil, domainerrors.NotFound("invite not found")
	}

	invite.Revoke()
	if err := s.store.UpdateShareInvite(ctx, invite); err != nil {
		return nil, fmt.Errorf("revoke invite: %w", err)
	}

	return invite, nil
}

// Resolve turns a viewer slug into the shared book. Both share slugs
// (public mode) and invite slugs (invite mode) are accepted; anything
// revoked, disabled, or unknown resolves to the same "not found" so slugs
// leak nothing about why access failed.
func (s *ShareService) Resolve(ctx context.Context, slug string) (*SharedBook, error) {
	share, err := s.store.GetShareBySlug(ctx, slug)
	if err == nil {
		if !share.IsActive() || share.Mode != domain.ShareModePublic {
			return nil, domainerrors.NotFound("share not found")
		}
		return s.projectShare(ctx, share)
	}
	if !errors.Is(err, store.ErrShareNotFound) {
		return nil, fmt.Errorf("resolve share: %w", err)
	}

	invite, err := s.store.GetShareInviteBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrInviteNotFound) {
			return nil, domainerrors.NotFound("share not found")
		}
		return nil, fmt.Errorf("resolve invite: %w", err)
	}
	if !invite.IsActive() {
		return nil, domainerrors.NotFound("share not found")
	}

	share, err = s.store.GetShare(ctx, invite.ShareID)
	if err != nil {
		if errors.Is(err, store.ErrShareNotFound) {
			return nil, domainerrors.NotFound("share not found")
		}
		return nil, fmt.Errorf("get share: %w", err)
	}
	if !share.IsActive() {
		return nil, domainerrors.NotFound("share not found")
	}

	return s.projectShare(ctx, share)
}

// projectShare builds the viewer projection for a share's journal.
func (s *ShareService) projectShare(ctx context.Context, share *domain.Share) (*SharedBook, error) {
	journal, err := s.store.GetJournal(ctx, share.OwnerID, share.JournalID)
	if err != nil {
		if errors.Is(err, store.ErrJournalNotFound) {
			// Journal was deleted after sharing
			return nil, domainerrors.NotFound("share not found")
		}
		return nil, fmt.Errorf("get shared journal: %w", err)
	}

	entries, err := s.store.ListEntries(ctx, share.OwnerID, share.JournalID)
	if err != nil {
		return nil, fmt.Errorf("list shared entries: %w", err)
	}

	// Entries are stored newest-first; viewers get them oldest-first.
	shared := make([]SharedEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !e.IsApproved() {
			continue
		}

		latest, err := s.store.LatestEntryVersion(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("latest version for %s: %w", e.ID, err)
		}

		shared = append(shared, SharedEntry{
			ID:            e.ID,
			Title:         e.TitleFinal,
			Desc:          e.DescFinal,
			TemplateID:    e.ApprovedTemplateID,
			Media:         e.Media,
			LatestVersion: latest,
		})
	}

	return &SharedBook{
		JournalTitle: journal.Title,
		ThemeFamily:  journal.ThemeFamily,
		PageSize:     journal.PageSize,
		Entries:      shared,
	}, nil
}

// getOwned fetches a share and enforces ownership. Shares owned by someone
// else look identical to missing ones.
func (s *ShareService) getOwned(ctx context.Context, ownerID, shareID string) (*domain.Share, error) {
	share, err := s.store.GetShare(ctx, shareID)
	if err != nil {
		if errors.Is(err, store.ErrShareNotFound) {
			return nil, domainerrors.NotFound("share not found")
		}
		return nil, fmt.Errorf("get share: %w", err)
	}
	if share.OwnerID != ownerID {
		return nil, domainerrors.NotFound("share not found")
	}
	return share, nil
}
