package service

import (
	"context"
	"testing"

	domainerrors "github.com/junkjournalapp/junkjournal-server/internal/errors"
	"github.com/junkjournalapp/junkjournal-server/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planRequest(mode, format string) plan.Request {
	return plan.Request{SpreadMode: mode, PageFormat: format, GutterSide: "left"}
}

func setupShareService(t *testing.T) (*ShareService, *JournalService, *EntryService, func()) {
	t.Helper()

	st, cleanup := setupTestStore(t)
	return NewShareService(st, nil),
		NewJournalService(st, nil),
		NewEntryService(st, nil, nil, 20, nil),
		cleanup
}

func TestShareService_CreateAndResolve(t *testing.T) {
	shares, journals, entries, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)

	entry, err := entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)
	_, err = entries.Approve(ctx, "owner-1", entry.ID, ApproveRequest{
		TemplateID: "opt_scrapbook",
		Title:      "Kept moment",
	})
	require.NoError(t, err)

	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{
		JournalID: journal.ID,
		Mode:      "public",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, share.Slug)

	book, err := shares.Resolve(ctx, share.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Summer Trip", book.JournalTitle)
	require.Len(t, book.Entries, 1)
	assert.Equal(t, "Kept moment", book.Entries[0].Title)
}

func TestShareService_ResolveNeverExposesDrafts(t *testing.T) {
	shares, journals, entries, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)

	// One draft, one approved
	_, err = entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)

	approved, err := entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)
	_, err = entries.Approve(ctx, "owner-1", approved.ID, ApproveRequest{
		TemplateID: "opt_minimal",
		Title:      "Public page",
	})
	require.NoError(t, err)

	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{JournalID: journal.ID, Mode: "public"})
	require.NoError(t, err)

	book, err := shares.Resolve(ctx, share.Slug)
	require.NoError(t, err)
	require.Len(t, book.Entries, 1)
	assert.Equal(t, approved.ID, book.Entries[0].ID)
}

func TestShareService_ResolveOrdersOldestFirst(t *testing.T) {
	shares, journals, entries, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)

	first, err := entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)
	second, err := entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)

	_, err = entries.Approve(ctx, "owner-1", first.ID, ApproveRequest{
		TemplateID: "opt_minimal",
		Title:      "first",
	})
	require.NoError(t, err)
	_, err = entries.Approve(ctx, "owner-1", second.ID, ApproveRequest{
		TemplateID: "opt_minimal",
		Title:      "second",
	})
	require.NoError(t, err)

	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{JournalID: journal.ID, Mode: "public"})
	require.NoError(t, err)

	// Owner documents store entries newest-first; viewers read the book in
	// creation order.
	book, err := shares.Resolve(ctx, share.Slug)
	require.NoError(t, err)
	require.Len(t, book.Entries, 2)
	assert.Equal(t, "first", book.Entries[0].Title)
	assert.Equal(t, "second", book.Entries[1].Title)
}

func TestShareService_ResolveCarriesLatestVersion(t *testing.T) {
	shares, journals, entries, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)
	entry, err := entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)

	_, err = entries.Approve(ctx, "owner-1", entry.ID, ApproveRequest{
		TemplateID: "opt_scrapbook",
		Title:      "first pass",
	})
	require.NoError(t, err)
	_, err = entries.Approve(ctx, "owner-1", entry.ID, ApproveRequest{
		TemplateID: "opt_vintage",
		Title:      "second pass",
	})
	require.NoError(t, err)

	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{JournalID: journal.ID, Mode: "public"})
	require.NoError(t, err)

	book, err := shares.Resolve(ctx, share.Slug)
	require.NoError(t, err)
	require.Len(t, book.Entries, 1)

	latest := book.Entries[0].LatestVersion
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.VersionNum)
	assert.Equal(t, "second pass", latest.Title)
	assert.Equal(t, "opt_vintage", latest.TemplateID)
}

func TestShareService_CreateForMissingJournal(t *testing.T) {
	shares, _, _, cleanup := setupShareService(t)
	defer cleanup()

	_, err := shares.Create(context.Background(), "owner-1", CreateShareRequest{
		JournalID: "jr-missing",
		Mode:      "public",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestShareService_RevokedSlugStopsResolving(t *testing.T) {
	shares, journals, _, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)

	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{JournalID: journal.ID, Mode: "public"})
	require.NoError(t, err)

	_, err = shares.Revoke(ctx, "owner-1", share.ID)
	require.NoError(t, err)

	_, err = shares.Resolve(ctx, share.Slug)
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestShareService_RevokeRequiresOwnership(t *testing.T) {
	shares, journals, _, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)
	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{JournalID: journal.ID, Mode: "public"})
	require.NoError(t, err)

	_, err = shares.Revoke(ctx, "owner-2", share.ID)
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestShareService_InviteMode(t *testing.T) {
	shares, journals, entries, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)

	entry, err := entries.Create(ctx, "owner-1", CreateEntryRequest{JournalID: journal.ID})
	require.NoError(t, err)
	_, err = entries.Approve(ctx, "owner-1", entry.ID, ApproveRequest{
		TemplateID: "opt_vintage",
		Title:      "For friends",
	})
	require.NoError(t, err)

	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{JournalID: journal.ID, Mode: "invite"})
	require.NoError(t, err)

	// The share's own slug is not a viewer entry point in invite mode
	_, err = shares.Resolve(ctx, share.Slug)
	require.Error(t, err)

	invite, err := shares.CreateInvite(ctx, "owner-1", share.ID, CreateInviteRequest{
		Email: "friend@example.com",
	})
	require.NoError(t, err)

	book, err := shares.Resolve(ctx, invite.Slug)
	require.NoError(t, err)
	require.Len(t, book.Entries, 1)

	// Revoking the invite closes that door
	_, err = shares.RevokeInvite(ctx, "owner-1", share.ID, invite.ID)
	require.NoError(t, err)

	_, err = shares.Resolve(ctx, invite.Slug)
	require.Error(t, err)
}

func TestShareService_InviteOnPublicShare(t *testing.T) {
	shares, journals, _, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)
	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{JournalID: journal.ID, Mode: "public"})
	require.NoError(t, err)

	_, err = shares.CreateInvite(ctx, "owner-1", share.ID, CreateInviteRequest{Email: "x@example.com"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeInvalidInput, domainErr.Code)
}

func TestShareService_DeletedJournalHidesShare(t *testing.T) {
	shares, journals, _, cleanup := setupShareService(t)
	defer cleanup()

	ctx := context.Background()

	journal, err := journals.Create(ctx, "owner-1", validJournalRequest())
	require.NoError(t, err)
	share, err := shares.Create(ctx, "owner-1", CreateShareRequest{JournalID: journal.ID, Mode: "public"})
	require.NoError(t, err)

	_, err = journals.Delete(ctx, "owner-1", journal.ID)
	require.NoError(t, err)

	_, err = shares.Resolve(ctx, share.Slug)
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestPlanService_Suggest(t *testing.T) {
	svc := NewPlanService(nil)

	plans, err := svc.Suggest(context.Background(), planRequest("single", "A5"))
	require.NoError(t, err)
	require.Len(t, plans, 1)

	_, err = svc.Suggest(context.Background(), planRequest("diagonal", "A5"))
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}
