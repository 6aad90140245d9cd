package api

import (
	"encoding/json/v2"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/junkjournalapp/junkjournal-server/internal/http/response"
	"github.com/junkjournalapp/junkjournal-server/internal/service"
	"github.com/junkjournalapp/junkjournal-server/internal/session"
)

// multipartMemoryLimit caps how much of a multipart body is buffered in
// memory; the rest spills to temp files.
const multipartMemoryLimit = 32 << 20

// handleCreateEntry creates a draft entry in a journal.
// POST /api/entries.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateEntryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.entryService.Create(ctx, session.OwnerID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, entry, s.logger)
}

// handleGetEntry returns one entry.
// GET /api/entries/{id}.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "id")

	entry, err := s.entryService.Get(ctx, session.OwnerID(ctx), entryID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleUpload attaches photos to an entry.
// POST /api/upload/{entryID}, multipart field "files".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := session.OwnerID(ctx)
	entryID := chi.URLParam(r, "entryID")

	if !s.uploadLimiter.Allow(ownerID) {
		response.TooManyRequests(w, "Too many uploads, slow down", s.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.BadRequest(w, "Upload too large", s.logger)
			return
		}
		response.BadRequest(w, "Invalid multipart body", s.logger)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			response.BadRequest(w, "Unreadable upload", s.logger)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			response.BadRequest(w, "Unreadable upload", s.logger)
			return
		}

		files = append(files, service.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	entry, err := s.entryService.Upload(ctx, ownerID, entryID, files)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handlePreview regenerates layout options for an entry.
// GET /api/preview/{entryID}.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	prev, err := s.entryService.Preview(ctx, session.OwnerID(ctx), entryID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, prev, s.logger)
}

// handleApprove approves an entry with a chosen template and final text.
// POST /api/approve/{entryID}.
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	var req service.ApproveRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.entryService.Approve(ctx, session.OwnerID(ctx), entryID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleListVersions returns an entry's approval history.
// GET /api/entries/{id}/versions.
func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "id")

	versions, err := s.entryService.Versions(ctx, session.OwnerID(ctx), entryID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, versions, s.logger)
}
