package goals

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/period"
	"github.com/avp818/coach-hub/internal/storage"
)

var (
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvalidTargets = errors.New("targets must be non-negative")
)

// Service manages nutrition goal intervals.
type Service struct {
	storage storage.GoalsStorage
	guard   *clients.Guard
}

func NewService(storage storage.GoalsStorage, guard *clients.Guard) *Service {
	return &Service{storage: storage, guard: guard}
}

// PutGoal sets the client's targets from StartDate on. A goal with the same
// start date is updated in place; otherwise the previous open interval is
// closed at the new start so intervals never overlap.
func (s *Service) PutGoal(ctx context.Context, req PutGoalRequest) (*PutGoalResponse, error) {
	trainer, _, err := s.guard.RequireCoachClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	start, err := period.NormalizeDay(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if req.ProteinG < 0 || req.FatG < 0 || req.CarbsG < 0 || (req.FiberG != nil && *req.FiberG < 0) {
		return nil, ErrInvalidTargets
	}

	goal, created, err := s.storage.PutGoal(ctx, storage.GoalDraft{
		ClientID:  req.ClientID,
		TrainerID: trainer.ID,
		StartDate: start,
		Targets: storage.GoalTargets{
			ProteinG: req.ProteinG,
			FatG:     req.FatG,
			CarbsG:   req.CarbsG,
			FiberG:   req.FiberG,
		},
	})
	if err != nil {
		return nil, err
	}

	return &PutGoalResponse{Goal: toDTO(goal), Created: created}, nil
}

// ListGoals returns every goal interval of a client the caller may view,
// oldest first.
func (s *Service) ListGoals(ctx context.Context, clientID uuid.UUID) ([]GoalDTO, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, err
	}

	goals, err := s.storage.ListGoals(ctx, clientID)
	if err != nil {
		return nil, err
	}

	dtos := make([]GoalDTO, len(goals))
	for i, g := range goals {
		dtos[i] = toDTO(g)
	}
	return dtos, nil
}

// GoalFor returns the goal covering the given date, or nil.
func (s *Service) GoalFor(ctx context.Context, clientID uuid.UUID, date string) (*storage.Goal, error) {
	goals, err := s.storage.ListGoalsOverlapping(ctx, clientID, date, date)
	if err != nil {
		return nil, err
	}
	return Resolve(goals, date), nil
}
