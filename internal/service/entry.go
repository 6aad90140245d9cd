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
	"github.com/junkjournalapp/junkjournal-server/internal/media/images"
	"github.com/junkjournalapp/junkjournal-server/internal/preview"
	"github.com/junkjournalapp/junkjournal-server/internal/store"
)

// EntryService handles entry creation, uploads, previews, and approval.
type EntryService struct {
	store    *store.Store
	storage  *images.Storage
	pipeline *images.Pipeline
	logger   *slog.Logger

	maxUploadFiles int
}

// NewEntryService creates a new entry service.
func NewEntryService(
	store *store.Store,
	storage *images.Storage,
	pipeline *images.Pipeline,
	maxUploadFiles int,
	logger *slog.Logger,
) *EntryService {
	return &EntryService{
		store:          store,
		storage:        storage,
		pipeline:       pipeline,
		maxUploadFiles: maxUploadFiles,
		logger:         logger,
	}
}

// CreateEntryRequest contains the data needed to create an entry.
type CreateEntryRequest struct {
	JournalID string `json:"journal_id" validate:"required"`
}

// UploadFile is one file from a multipart upload.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ApproveRequest contains the data needed to approve an entry.
type ApproveRequest struct {
	TemplateID  string `json:"template_id" validate:"required,min=1,max=40"`
	Title       string `json:"title" validate:"required,min=1,max=80"`
	Description string `json:"description" validate:"max=2000"`
}

// Create validates and persists a new draft entry.
func (s *EntryService) Create(ctx context.Context, ownerID string, req CreateEntryRequest) (*domain.Entry, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	entryID, err := id.Generate(id.PrefixEntry)
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	entry := &domain.Entry{
		JournalID: req.JournalID,
		Status:    domain.StatusDraft,
	}
	entry.ID = entryID
	entry.InitTimestamps()

	if err := s.store.CreateEntry(ctx, ownerID, entry); err != nil {
		if errors.Is(err, store.ErrJournalNotFound) {
			return nil, domainerrors.NotFound("journal not found")
		}
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Entry created",
			"entry_id", entry.ID,
			"journal_id", entry.JournalID,
			"owner_id", ownerID,
		)
	}

	return entry, nil
}

// Get returns an entry by ID.
func (s *EntryService) Get(ctx context.Context, ownerID, entryID string) (*domain.Entry, error) {
	entry, err := s.store.GetEntry(ctx, ownerID, entryID)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return nil, domainerrors.NotFound("entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// List returns all entries for a journal, newest first.
func (s *EntryService) List(ctx context.Context, ownerID, journalID string) ([]domain.Entry, error) {
	entries, err := s.store.ListEntries(ctx, ownerID, journalID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Upload processes uploaded photos for an entry: each file is stored as-is,
// run through the derivation pipeline, and prepended to the entry's media
// list. A single undecodable file fails the whole batch before anything is
// attached to the entry.
func (s *EntryService) Upload(ctx context.Context, ownerID, entryID string, files []UploadFile) (*domain.Entry, error) {
	if len(files) == 0 {
		return nil, domainerrors.InvalidInput("no files uploaded")
	}
	if len(files) > s.maxUploadFiles {
		return nil, domainerrors.InvalidInput(
			fmt.Sprintf("too many files: at most %d per upload", s.maxUploadFiles))
	}

	// Ownership and existence check up front
	entry, err := s.Get(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}

	media := make([]domain.Media, 0, len(files))
	for _, file := range files {
		m, err := s.processUpload(ownerID, entry.ID, file)
		if err != nil {
			return nil, err
		}
		media = append(media, *m)
	}

	updated, err := s.store.AddMedia(ctx, ownerID, entryID, media...)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return nil, domainerrors.NotFound("entry not found")
		}
		return nil, fmt.Errorf("attach media: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Media uploaded",
			"entry_id", entryID,
			"owner_id", ownerID,
			"count", len(media),
		)
	}

	return updated, nil
}

// processUpload derives one upload and stores all three variants.
func (s *EntryService) processUpload(ownerID, entryID string, file UploadFile) (*domain.Media, error) {
	result, err := s.pipeline.Process(file.Data)
	if err != nil {
		if errors.Is(err, images.ErrInvalidImage) {
			return nil, domainerrors.InvalidInput(
				fmt.Sprintf("%s is not a supported image", file.Name))
		}
		return nil, fmt.Errorf("process upload: %w", err)
	}

	mediaID, err := id.Generate(id.PrefixMedia)
	if err != nil {
		return nil, fmt.Errorf("generate media ID: %w", err)
	}

	originalRel, err := s.storage.SaveOriginal(ownerID, entryID, mediaID, extensionFor(file.ContentType), file.Data)
	if err != nil {
		return nil, domainerrors.StorageFailure("failed to store original upload").WithCause(err)
	}
	derivedRel, err := s.storage.SaveDerived(ownerID, entryID, mediaID, result.Derived)
	if err != nil {
		return nil, domainerrors.StorageFailure("failed to store derived image").WithCause(err)
	}
	thumbRel, err := s.storage.SaveThumb(ownerID, entryID, mediaID, result.Thumb)
	if err != nil {
		return nil, domainerrors.StorageFailure("failed to store thumbnail").WithCause(err)
	}

	return &domain.Media{
		ID:           mediaID,
		OriginalURL:  "/storage/" + originalRel,
		DerivedURL:   "/storage/" + derivedRel,
		ThumbURL:     "/storage/" + thumbRel,
		BlurHash:     result.BlurHash,
		OriginalName: file.Name,
		MimeType:     file.ContentType,
		Size:         int64(len(file.Data)),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// PreviewResponse is what the composer screen renders from: the entry, its
// media (so each option can reference the uploaded images), and the
// freshly composed layout options.
type PreviewResponse struct {
	Entry   *domain.Entry         `json:"entry"`
	Media   []domain.Media        `json:"media"`
	Preview *domain.PreviewBundle `json:"preview"`
}

// Preview regenerates and caches the entry's layout options.
func (s *EntryService) Preview(ctx context.Context, ownerID, entryID string) (*PreviewResponse, error) {
	entry, err := s.Get(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}

	bundle := preview.Compose(entry)

	updated, err := s.store.SetEntryPreview(ctx, ownerID, entryID, bundle)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return nil, domainerrors.NotFound("entry not found")
		}
		return nil, fmt.Errorf("cache preview: %w", err)
	}

	return &PreviewResponse{
		Entry:   updated,
		Media:   updated.Media,
		Preview: bundle,
	}, nil
}

// Approve transitions an entry to approved with the chosen template and
// final text. Approving an already-approved entry overwrites the live
// fields; each approval is also kept as an immutable version record.
func (s *EntryService) Approve(ctx context.Context, ownerID, entryID string, req ApproveRequest) (*domain.Entry, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if !preview.ValidOption(req.TemplateID) {
		return nil, domainerrors.InvalidInput("unknown template id")
	}

	versionID, err := id.Generate(id.PrefixVersion)
	if err != nil {
		return nil, fmt.Errorf("generate version ID: %w", err)
	}

	version := &domain.EntryVersion{
		ID:         versionID,
		TemplateID: req.TemplateID,
		Title:      req.Title,
		Desc:       req.Description,
	}

	entry, err := s.store.ApproveEntry(ctx, ownerID, entryID, version)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return nil, domainerrors.NotFound("entry not found")
		}
		return nil, fmt.Errorf("approve entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Entry approved",
			"entry_id", entryID,
			"owner_id", ownerID,
			"template_id", req.TemplateID,
			"version", version.VersionNum,
		)
	}

	return entry, nil
}

// Versions returns an entry's approval history, oldest first.
func (s *EntryService) Versions(ctx context.Context, ownerID, entryID string) ([]domain.EntryVersion, error) {
	// The ownership check keeps other owners from walking version keys.
	if _, err := s.Get(ctx, ownerID, entryID); err != nil {
		return nil, err
	}

	versions, err := s.store.ListEntryVersions(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// extensionFor picks a file extension for the stored original.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
