package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/junkjournalapp/junkjournal-server/internal/http/response"
	"github.com/junkjournalapp/junkjournal-server/internal/service"
	"github.com/junkjournalapp/junkjournal-server/internal/session"
)

// handleListShares returns the owner's shares.
// GET /api/shares.
func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shares, err := s.shareService.List(ctx, session.OwnerID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, shares, s.logger)
}

// handleCreateShare shares a journal.
// POST /api/shares.
func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateShareRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	share, err := s.shareService.Create(ctx, session.OwnerID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, share, s.logger)
}

// handleRevokeShare disables a share link.
// POST /api/shares/{id}/revoke.
func (s *Server) handleRevokeShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shareID := chi.URLParam(r, "id")

	share, err := s.shareService.Revoke(ctx, session.OwnerID(ctx), shareID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, share, s.logger)
}

// handleListInvites returns the invites of an invite-mode share.
// GET /api/shares/{id}/invites.
func (s *Server) handleListInvites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shareID := chi.URLParam(r, "id")

	invites, err := s.shareService.ListInvites(ctx, session.OwnerID(ctx), shareID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invites, s.logger)
}

// handleCreateInvite adds a viewer invite to a share.
// POST /api/shares/{id}/invites.
func (s *Server) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shareID := chi.URLParam(r, "id")

	var req service.CreateInviteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	invite, err := s.shareService.CreateInvite(ctx, session.OwnerID(ctx), shareID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, invite, s.logger)
}

// handleRevokeInvite disables one invite.
// POST /api/shares/{id}/invites/{inviteID}/revoke.
func (s *Server) handleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shareID := chi.URLParam(r, "id")
	inviteID := chi.URLParam(r, "inviteID")

	invite, err := s.shareService.RevokeInvite(ctx, session.OwnerID(ctx), shareID, inviteID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invite, s.logger)
}

// handleResolveShare is the viewer entry point: a slug resolves to the
// shared flip-book or a uniform not-found.
// GET /api/shared/{slug}.
func (s *Server) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	book, err := s.shareService.Resolve(ctx, slug)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}
