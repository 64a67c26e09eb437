package surveys

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/period"
	"github.com/avp818/coach-hub/internal/storage"
)

var (
	ErrInvalidDate   = errors.New("invalid date format")
	ErrInvalidAnswer = errors.New("unknown answer bucket")
	ErrInvalidRange  = errors.New("invalid date range")
)

// Service handles survey sync and reads.
type Service struct {
	storage storage.SurveysStorage
	guard   *clients.Guard
}

func NewService(storage storage.SurveysStorage, guard *clients.Guard) *Service {
	return &Service{storage: storage, guard: guard}
}

// SyncSurvey upserts the calling client's survey for the given day.
func (s *Service) SyncSurvey(ctx context.Context, req SyncSurveyRequest) (*SyncSurveyResponse, error) {
	client, err := s.guard.RequireClient(ctx)
	if err != nil {
		return nil, err
	}

	date, err := period.NormalizeDay(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	up, err := mapAnswers(req)
	if err != nil {
		return nil, err
	}

	survey, created, err := s.storage.UpsertSurvey(ctx, client.ID, date, up)
	if err != nil {
		return nil, err
	}

	return &SyncSurveyResponse{Survey: toDTO(survey), Created: created}, nil
}

// ListSurveys returns the surveys in [from, to], oldest first.
func (s *Service) ListSurveys(ctx context.Context, clientID uuid.UUID, from, to string) ([]SurveyDTO, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, err
	}

	fromN, err := period.NormalizeDay(from)
	if err != nil {
		return nil, ErrInvalidRange
	}
	toN, err := period.NormalizeDay(to)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if fromN > toN {
		return nil, ErrInvalidRange
	}

	surveys, err := s.storage.ListSurveys(ctx, clientID, fromN, toN)
	if err != nil {
		return nil, err
	}

	dtos := make([]SurveyDTO, len(surveys))
	for i, sv := range surveys {
		dtos[i] = toDTO(sv)
	}
	return dtos, nil
}

func mapAnswers(req SyncSurveyRequest) (storage.SurveyUpsert, error) {
	var up storage.SurveyUpsert
	var err error

	if up.Motivation, err = mapOrdinal("motivation", req.Motivation); err != nil {
		return storage.SurveyUpsert{}, err
	}
	if up.Stress, err = mapOrdinal("stress", req.Stress); err != nil {
		return storage.SurveyUpsert{}, err
	}
	if up.Hunger, err = mapOrdinal("hunger", req.Hunger); err != nil {
		return storage.SurveyUpsert{}, err
	}
	if up.Libido, err = mapOrdinal("libido", req.Libido); err != nil {
		return storage.SurveyUpsert{}, err
	}

	sleep, ok := sleepHours[req.Sleep]
	if !ok {
		return storage.SurveyUpsert{}, fmt.Errorf("sleep %q: %w", req.Sleep, ErrInvalidAnswer)
	}
	up.SleepHours = sleep

	water, ok := waterLitres[req.Water]
	if !ok {
		return storage.SurveyUpsert{}, fmt.Errorf("water %q: %w", req.Water, ErrInvalidAnswer)
	}
	up.WaterLitres = water

	return up, nil
}

func mapOrdinal(field, value string) (int, error) {
	v, ok := ordinalValues[value]
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", field, value, ErrInvalidAnswer)
	}
	return v, nil
}
