package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

func (s *Store) UpsertSurvey(ctx context.Context, clientID uuid.UUID, date string, up storage.SurveyUpsert) (storage.Survey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := s.surveys[clientID]
	if days == nil {
		days = map[string]storage.Survey{}
		s.surveys[clientID] = days
	}

	now := time.Now().UTC()
	sv, ok := days[date]
	created := !ok
	if created {
		sv = storage.Survey{
			ID:        uuid.New(),
			ClientID:  clientID,
			Date:      date,
			CreatedAt: now,
		}
	}
	sv.Motivation = up.Motivation
	sv.Stress = up.Stress
	sv.Hunger = up.Hunger
	sv.Libido = up.Libido
	sv.SleepHours = up.SleepHours
	sv.WaterLitres = up.WaterLitres
	sv.UpdatedAt = now

	days[date] = sv
	return sv, created, nil
}

func (s *Store) GetSurvey(ctx context.Context, clientID uuid.UUID, date string) (storage.Survey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv, ok := s.surveys[clientID][date]
	return sv, ok, nil
}

func (s *Store) ListSurveys(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	surveys := []storage.Survey{}
	for date, sv := range s.surveys[clientID] {
		if date >= from && date <= to {
			surveys = append(surveys, sv)
		}
	}

	sort.Slice(surveys, func(i, j int) bool { return surveys[i].Date < surveys[j].Date })
	return surveys, nil
}
