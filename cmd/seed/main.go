// Package main provides a tool to seed the database with a demo owner.
//
// It creates a journal with one approved entry and a public share so the
// flip-book and shared-view flows can be exercised without a browser session.
//
// Usage:
//
//	STORAGE_PATH=~/JunkJournal/storage go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/junkjournalapp/junkjournal-server/internal/domain"
	"github.com/junkjournalapp/junkjournal-server/internal/id"
	"github.com/junkjournalapp/junkjournal-server/internal/store"
)

var ownerToken = flag.String("owner", "", "Owner token to seed under (default: a fresh random token)")

func main() {
	flag.Parse()

	basePath := os.Getenv("STORAGE_PATH")
	if basePath == "" {
		basePath = os.ExpandEnv("$HOME/JunkJournal/storage")
	}
	dbPath := filepath.Join(basePath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ownerID := *ownerToken
	if ownerID == "" {
		ownerID = uuid.NewString()
	}

	ctx := context.Background()

	journal := &domain.Journal{
		Tracked:     domain.Tracked{ID: id.MustGenerate(id.PrefixJournal)},
		Title:       "Demo: Slow Mornings",
		ThemeFamily: "cozy",
		PageSize:    "A5",
	}
	journal.InitTimestamps()
	if err := s.CreateJournal(ctx, ownerID, journal); err != nil {
		log.Fatalf("Failed to create journal: %v", err)
	}
	fmt.Printf("Created journal %s (%q)\n", journal.ID, journal.Title)

	entry := &domain.Entry{
		Tracked:   domain.Tracked{ID: id.MustGenerate(id.PrefixEntry)},
		JournalID: journal.ID,
		Status:    domain.StatusDraft,
	}
	entry.InitTimestamps()
	if err := s.CreateEntry(ctx, ownerID, entry); err != nil {
		log.Fatalf("Failed to create entry: %v", err)
	}

	version := &domain.EntryVersion{
		ID:         id.MustGenerate(id.PrefixVersion),
		EntryID:    entry.ID,
		TemplateID: "opt_scrapbook",
		Title:      "Coffee, rain, a good chair",
		Desc:       "A cozy memory captured in textures, color, and little details.",
	}
	if _, err := s.ApproveEntry(ctx, ownerID, entry.ID, version); err != nil {
		log.Fatalf("Failed to approve entry: %v", err)
	}
	fmt.Printf("Created approved entry %s\n", entry.ID)

	share := &domain.Share{
		Tracked:   domain.Tracked{ID: id.MustGenerate(id.PrefixShare)},
		OwnerID:   ownerID,
		JournalID: journal.ID,
		Mode:      domain.ShareModePublic,
		Slug:      id.MustGenerateSlug(),
		Enabled:   true,
	}
	share.InitTimestamps()
	if err := s.CreateShare(ctx, share); err != nil {
		log.Fatalf("Failed to create share: %v", err)
	}

	fmt.Printf("\nSeed complete.\n")
	fmt.Printf("  owner token:  %s  (set as the jj_token cookie)\n", ownerID)
	fmt.Printf("  public share: /api/shared/%s\n", share.Slug)
}
