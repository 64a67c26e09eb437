package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

func (s *Store) ReplaceDay(ctx context.Context, clientID uuid.UUID, date string, totals storage.MacroTotals, meals []storage.MealDraft) (storage.DiaryDay, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := s.diaries[clientID]
	if days == nil {
		days = map[string]diaryRecord{}
		s.diaries[clientID] = days
	}

	now := time.Now().UTC()
	rec, ok := days[date]
	created := !ok
	if created {
		rec.day = storage.DiaryDay{
			ID:        uuid.New(),
			ClientID:  clientID,
			Date:      date,
			CreatedAt: now,
		}
	}
	rec.day.Totals = totals
	rec.day.Synced = true
	rec.day.UpdatedAt = now

	rec.meals = make([]storage.Meal, 0, len(meals))
	for i, draft := range meals {
		rec.meals = append(rec.meals, storage.Meal{
			ID:        uuid.New(),
			DiaryID:   rec.day.ID,
			Name:      draft.Name,
			TimeOfDay: draft.TimeOfDay,
			Macros:    draft.Macros,
			Position:  i,
			CreatedAt: now,
		})
	}

	days[date] = rec
	return rec.day, created, nil
}

func (s *Store) GetDay(ctx context.Context, clientID uuid.UUID, date string) (storage.DiaryDay, []storage.Meal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.diaries[clientID][date]
	if !ok {
		return storage.DiaryDay{}, nil, false, nil
	}

	meals := make([]storage.Meal, len(rec.meals))
	copy(meals, rec.meals)
	return rec.day, meals, true, nil
}

func (s *Store) ListDays(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.DiaryDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := []storage.DiaryDay{}
	for date, rec := range s.diaries[clientID] {
		if date >= from && date <= to {
			days = append(days, rec.day)
		}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}
