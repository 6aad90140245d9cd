package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/junkjournalapp/junkjournal-server/internal/domain"
	domainerrors "github.com/junkjournalapp/junkjournal-server/internal/errors"
	"github.com/junkjournalapp/junkjournal-server/internal/id"
	"github.com/junkjournalapp/junkjournal-server/internal/store"
)

// JournalService handles journal CRUD and the flip-book projection.
type JournalService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewJournalService creates a new journal service.
func NewJournalService(store *store.Store, logger *slog.Logger) *JournalService {
	return &JournalService{
		store:  store,
		logger: logger,
	}
}

// CreateJournalRequest contains the data needed to create a journal.
type CreateJournalRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=120"`
	ThemeFamily string `json:"theme_family" validate:"required,max=60"`
	PageSize    string `json:"page_size" validate:"required,oneof=A5 A6 TN Letter"`
}

// BookEntry is one approved page of the flip-book projection.
type BookEntry struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Desc       string         `json:"desc"`
	TemplateID string         `json:"template_id"`
	Media      []domain.Media `json:"media"`
}

// BookResponse is the flip-book view of a journal: the journal's metadata
// plus its approved entries only.
type BookResponse struct {
	Journal *domain.Journal `json:"journal"`
	Entries []BookEntry     `json:"entries"`
}

// BootstrapResponse is the initial payload for a returning owner.
type BootstrapResponse struct {
	OwnerID  string           `json:"owner_id"`
	Journals []domain.Journal `json:"journals"`
	Entries  []domain.Entry   `json:"entries"`
}

// List returns the owner's live journals, newest first.
func (s *JournalService) List(ctx context.Context, ownerID string) ([]domain.Journal, error) {
	journals, err := s.store.ListJournals(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	return journals, nil
}

// Create validates and persists a new journal.
func (s *JournalService) Create(ctx context.Context, ownerID string, req CreateJournalRequest) (*domain.Journal, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	journalID, err := id.Generate(id.PrefixJournal)
	if err != nil {
		return nil, fmt.Errorf("generate journal ID: %w", err)
	}

	journal := &domain.Journal{
		Title:       req.Title,
		ThemeFamily: req.ThemeFamily,
		PageSize:    req.PageSize,
	}
	journal.ID = journalID
	journal.InitTimestamps()

	if err := s.store.CreateJournal(ctx, ownerID, journal); err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Journal created",
			"journal_id", journal.ID,
			"owner_id", ownerID,
			"title", journal.Title,
		)
	}

	return journal, nil
}

// Get returns a live journal by ID.
func (s *JournalService) Get(ctx context.Context, ownerID, journalID string) (*domain.Journal, error) {
	journal, err := s.store.GetJournal(ctx, ownerID, journalID)
	if err != nil {
		if errors.Is(err, store.ErrJournalNotFound) {
			return nil, domainerrors.NotFound("journal not found")
		}
		return nil, fmt.Errorf("get journal: %w", err)
	}
	return journal, nil
}

// Delete soft-deletes a journal. Deleting a journal that does not exist (or
// was already deleted) reports deleted=false without touching anything.
func (s *JournalService) Delete(ctx context.Context, ownerID, journalID string) (bool, error) {
	deleted, err := s.store.DeleteJournal(ctx, ownerID, journalID)
	if err != nil {
		return false, fmt.Errorf("delete journal: %w", err)
	}

	if deleted && s.logger != nil {
		s.logger.Info("Journal deleted",
			"journal_id", journalID,
			"owner_id", ownerID,
		)
	}

	return deleted, nil
}

// Book returns the flip-book projection: the journal plus its approved
// entries, in the order they appear in the owner's document. Draft entries
// never appear here.
func (s *JournalService) Book(ctx context.Context, ownerID, journalID string) (*BookResponse, error) {
	journal, err := s.Get(ctx, ownerID, journalID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntries(ctx, ownerID, journalID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return &BookResponse{
		Journal: journal,
		Entries: projectBook(entries),
	}, nil
}

// Bootstrap returns everything a returning owner needs to render their
// workspace.
func (s *JournalService) Bootstrap(ctx context.Context, ownerID string) (*BootstrapResponse, error) {
	doc, err := s.store.GetOwnerDocument(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}

	return &BootstrapResponse{
		OwnerID:  ownerID,
		Journals: doc.LiveJournals(),
		Entries:  doc.Entries,
	}, nil
}

// projectBook filters entries down to the approved pages.
func projectBook(entries []domain.Entry) []BookEntry {
	book := make([]BookEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsApproved() {
			continue
		}
		book = append(book, BookEntry{
			ID:         e.ID,
			Title:      e.TitleFinal,
			Desc:       e.DescFinal,
			TemplateID: e.ApprovedTemplateID,
			Media:      e.Media,
		})
	}
	return book
}
