package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/junkjournalapp/junkjournal-server/internal/http/response"
	"github.com/junkjournalapp/junkjournal-server/internal/service"
	"github.com/junkjournalapp/junkjournal-server/internal/session"
)

// handleBootstrap returns the owner's full workspace.
// GET /api/bootstrap.
func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boot, err := s.journalService.Bootstrap(ctx, session.OwnerID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, boot, s.logger)
}

// handleListJournals returns the owner's live journals.
// GET /api/journals.
func (s *Server) handleListJournals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	journals, err := s.journalService.List(ctx, session.OwnerID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, journals, s.logger)
}

// handleCreateJournal creates a journal.
// POST /api/journals.
func (s *Server) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateJournalRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	journal, err := s.journalService.Create(ctx, session.OwnerID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, journal, s.logger)
}

// handleDeleteJournal soft-deletes a journal.
// DELETE /api/journals/{id}.
func (s *Server) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	journalID := chi.URLParam(r, "id")

	deleted, err := s.journalService.Delete(ctx, session.OwnerID(ctx), journalID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{"deleted": deleted}, s.logger)
}

// handleGetBook returns the flip-book projection of a journal.
// GET /api/journals/{id}/book.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	journalID := chi.URLParam(r, "id")

	book, err := s.journalService.Book(ctx, session.OwnerID(ctx), journalID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleListEntries returns all entries of a journal, drafts included.
// GET /api/journals/{id}/entries.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	journalID := chi.URLParam(r, "id")

	entries, err := s.entryService.List(ctx, session.OwnerID(ctx), journalID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entries, s.logger)
}
