package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	domainerrors "github.com/junkjournalapp/junkjournal-server/internal/errors"
	"github.com/junkjournalapp/junkjournal-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func validJournalRequest() CreateJournalRequest {
	return CreateJournalRequest{
		Title:       "Summer Trip",
		ThemeFamily: "travel",
		PageSize:    "A5",
	}
}

func TestJournalService_CreateAndList(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewJournalService(st, nil)
	ctx := context.Background()

	journal, err := svc.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, journal.ID)
	assert.Equal(t, "Summer Trip", journal.Title)

	journals, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, journals, 1)
	assert.Equal(t, journal.ID, journals[0].ID)
	assert.Equal(t, "travel", journals[0].ThemeFamily)
	assert.Equal(t, "A5", journals[0].PageSize)
}

func TestJournalService_CreateValidation(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewJournalService(st, nil)

	tests := []struct {
		name string
		req  CreateJournalRequest
	}{
		{"missing title", CreateJournalRequest{ThemeFamily: "travel", PageSize: "A5"}},
		{"missing theme", CreateJournalRequest{Title: "Trip", PageSize: "A5"}},
		{"bad page size", CreateJournalRequest{Title: "Trip", ThemeFamily: "travel", PageSize: "B4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "owner-1", tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
		})
	}
}

func TestJournalService_Delete(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewJournalService(st, nil)
	ctx := context.Background()

	journal, err := svc.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "owner-1", journal.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Absent journal reports false, not an error
	deleted, err = svc.Delete(ctx, "owner-1", "jr-missing")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestJournalService_Bootstrap(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewJournalService(st, nil)
	ctx := context.Background()

	// A brand-new owner bootstraps to an empty workspace
	boot, err := svc.Bootstrap(ctx, "owner-new")
	require.NoError(t, err)
	assert.Equal(t, "owner-new", boot.OwnerID)
	assert.Empty(t, boot.Journals)
	assert.Empty(t, boot.Entries)

	_, err = svc.Create(ctx, "owner-new", validJournalRequest())
	require.NoError(t, err)

	boot, err = svc.Bootstrap(ctx, "owner-new")
	require.NoError(t, err)
	assert.Len(t, boot.Journals, 1)
}

func TestJournalService_BookExcludesDrafts(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	journals := NewJournalService(st, nil)
	entries := NewEntryService(st, nil, nil, 20, nil)
	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)

	draft, err := entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)

	approved, err := entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)
	_, err = entries.Approve(ctx, "owner-1", approved.ID, ApproveRequest{
		TemplateID: "opt_scrapbook",
		Title:      "Kept",
	})
	require.NoError(t, err)

	book, err := journals.Book(ctx, "owner-1", journal.ID)
	require.NoError(t, err)
	require.Len(t, book.Entries, 1)
	assert.Equal(t, approved.ID, book.Entries[0].ID)
	assert.Equal(t, "Kept", book.Entries[0].Title)

	for _, e := range book.Entries {
		assert.NotEqual(t, draft.ID, e.ID)
	}
}

func TestJournalService_BookMissingJournal(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewJournalService(st, nil)

	_, err := svc.Book(context.Background(), "owner-1", "jr-missing")
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}
