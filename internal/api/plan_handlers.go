package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/junkjournalapp/junkjournal-server/internal/http/response"
	"github.com/junkjournalapp/junkjournal-server/internal/plan"
)

// handleSuggestPlan generates physical spread plans.
// POST /api/plan/suggest.
func (s *Server) handleSuggestPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req plan.Request
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	plans, err := s.planService.Suggest(ctx, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, plans, s.logger)
}
