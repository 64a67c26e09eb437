package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

func (s *Store) PutGoal(ctx context.Context, draft storage.GoalDraft) (storage.Goal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := s.goals[draft.ClientID]
	if goals == nil {
		goals = map[string]storage.Goal{}
		s.goals[draft.ClientID] = goals
	}

	now := time.Now().UTC()
	if existing, ok := goals[draft.StartDate]; ok {
		existing.TrainerID = draft.TrainerID
		existing.Targets = draft.Targets
		existing.UpdatedAt = now
		goals[draft.StartDate] = existing
		return existing, false, nil
	}

	// Close earlier intervals still covering the new start, find the earliest
	// later start to cap the new interval.
	var endDate *string
	for start, g := range goals {
		if start < draft.StartDate && (g.EndDate == nil || *g.EndDate > draft.StartDate) {
			end := draft.StartDate
			g.EndDate = &end
			g.UpdatedAt = now
			goals[start] = g
		}
		if start > draft.StartDate && (endDate == nil || start < *endDate) {
			capAt := start
			endDate = &capAt
		}
	}

	goal := storage.Goal{
		ID:        uuid.New(),
		ClientID:  draft.ClientID,
		TrainerID: draft.TrainerID,
		StartDate: draft.StartDate,
		EndDate:   endDate,
		Targets:   draft.Targets,
		CreatedAt: now,
		UpdatedAt: now,
	}
	goals[draft.StartDate] = goal
	return goal, true, nil
}

func (s *Store) ListGoals(ctx context.Context, clientID uuid.UUID) ([]storage.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := []storage.Goal{}
	for _, g := range s.goals[clientID] {
		goals = append(goals, g)
	}
	sortByStart(goals)
	return goals, nil
}

func (s *Store) ListGoalsOverlapping(ctx context.Context, clientID uuid.UUID, windowStart, windowEnd string) ([]storage.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := []storage.Goal{}
	for _, g := range s.goals[clientID] {
		if g.StartDate <= windowEnd && (g.EndDate == nil || *g.EndDate > windowStart) {
			goals = append(goals, g)
		}
	}
	sortByStart(goals)
	return goals, nil
}
