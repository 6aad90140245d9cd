package service

import (
	"context"
	"log/slog"

	"github.com/junkjournalapp/junkjournal-server/internal/plan"
)

// PlanService generates physical spread plans.
type PlanService struct {
	logger *slog.Logger
}

// NewPlanService creates a new plan service.
func NewPlanService(logger *slog.Logger) *PlanService {
	return &PlanService{logger: logger}
}

// Suggest validates the request and returns deterministic spread plans.
func (s *PlanService) Suggest(_ context.Context, req plan.Request) ([]plan.Plan, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	return plan.Suggest(req), nil
}
