package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/junkjournalapp/junkjournal-server/internal/http/response"
)

// handleStorage serves stored media files.
// GET /storage/*.
func (s *Server) handleStorage(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if rel == "" {
		response.NotFound(w, "media not found", s.logger)
		return
	}

	path, err := s.storage.Resolve(rel)
	if err != nil {
		response.NotFound(w, "media not found", s.logger)
		return
	}
	if !s.storage.Exists(rel) {
		response.NotFound(w, "media not found", s.logger)
		return
	}

	http.ServeFile(w, r, path)
}
