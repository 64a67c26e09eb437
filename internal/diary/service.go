package diary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/period"
	"github.com/avp818/coach-hub/internal/storage"
)

var (
	ErrInvalidDate   = errors.New("invalid date format")
	ErrMealName      = errors.New("meal name is required")
	ErrInvalidTime   = errors.New("meal time must be HH:MM")
	ErrNegativeMacro = errors.New("macros must be non-negative")
	ErrDayNotFound   = errors.New("diary day not found")
	ErrInvalidRange  = errors.New("invalid date range")
)

// Service handles diary sync and reads.
type Service struct {
	storage storage.DiaryStorage
	guard   *clients.Guard
}

func NewService(storage storage.DiaryStorage, guard *clients.Guard) *Service {
	return &Service{storage: storage, guard: guard}
}

// SyncDay replaces the calling client's diary day with the payload. The
// stored totals are computed here from the meal list, never taken from the
// device, so totals and meals cannot drift apart.
func (s *Service) SyncDay(ctx context.Context, req SyncDayRequest) (*SyncDayResponse, error) {
	client, err := s.guard.RequireClient(ctx)
	if err != nil {
		return nil, err
	}

	date, err := period.NormalizeDay(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	totals := storage.MacroTotals{}
	drafts := make([]storage.MealDraft, len(req.Meals))
	for i, meal := range req.Meals {
		draft, err := validateMeal(meal)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i+1, err)
		}
		drafts[i] = draft
		totals = totals.Add(draft.Macros)
	}

	day, created, err := s.storage.ReplaceDay(ctx, client.ID, date, totals, drafts)
	if err != nil {
		return nil, err
	}

	_, meals, _, err := s.storage.GetDay(ctx, client.ID, date)
	if err != nil {
		return nil, err
	}

	return &SyncDayResponse{Day: dayDTO(day, meals), Created: created}, nil
}

// GetDay returns one diary day of a client the caller may view.
func (s *Service) GetDay(ctx context.Context, clientID uuid.UUID, date string) (*DayDTO, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, err
	}

	date, err := period.NormalizeDay(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	day, meals, found, err := s.storage.GetDay(ctx, clientID, date)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrDayNotFound
	}

	dto := dayDTO(day, meals)
	return &dto, nil
}

// ListDays returns the day summaries in [from, to], oldest first.
func (s *Service) ListDays(ctx context.Context, clientID uuid.UUID, from, to string) ([]DaySummaryDTO, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, err
	}

	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	days, err := s.storage.ListDays(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]DaySummaryDTO, len(days))
	for i, day := range days {
		dtos[i] = daySummary(day)
	}
	return dtos, nil
}

func validateMeal(meal MealInput) (storage.MealDraft, error) {
	name := strings.TrimSpace(meal.Name)
	if name == "" {
		return storage.MealDraft{}, ErrMealName
	}
	if meal.TimeOfDay != nil {
		if _, err := time.Parse("15:04", *meal.TimeOfDay); err != nil {
			return storage.MealDraft{}, ErrInvalidTime
		}
	}
	if meal.ProteinG < 0 || meal.FatG < 0 || meal.CarbsG < 0 || meal.FiberG < 0 {
		return storage.MealDraft{}, ErrNegativeMacro
	}

	return storage.MealDraft{
		Name:      name,
		TimeOfDay: meal.TimeOfDay,
		Macros: storage.MacroTotals{
			ProteinG: meal.ProteinG,
			FatG:     meal.FatG,
			CarbsG:   meal.CarbsG,
			FiberG:   meal.FiberG,
		},
	}, nil
}

func normalizeRange(from, to string) (string, string, error) {
	fromN, err := period.NormalizeDay(from)
	if err != nil {
		return "", "", ErrInvalidRange
	}
	toN, err := period.NormalizeDay(to)
	if err != nil {
		return "", "", ErrInvalidRange
	}
	if fromN > toN {
		return "", "", ErrInvalidRange
	}
	return fromN, toN, nil
}
