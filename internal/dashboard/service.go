package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/goals"
	"github.com/avp818/coach-hub/internal/period"
	"github.com/avp818/coach-hub/internal/storage"
)

// Storage is the read surface the dashboard aggregates over.
type Storage interface {
	ListDays(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.DiaryDay, error)
	ListGoalsOverlapping(ctx context.Context, clientID uuid.UUID, windowStart, windowEnd string) ([]storage.Goal, error)
	ListClientsByTrainer(ctx context.Context, trainerID uuid.UUID, archived bool) ([]storage.Client, error)
	LatestMeasurement(ctx context.Context, clientID uuid.UUID) (storage.Measurement, bool, error)
}

// Service computes compliance views for trainers and clients. It only reads
// the aggregated diary rows; meal-level data never enters the scoring path.
type Service struct {
	storage Storage
	guard   *clients.Guard
}

func NewService(st Storage, guard *clients.Guard) *Service {
	return &Service{storage: st, guard: guard}
}

// WeekHistory returns the last 7 days of compliance scores, oldest first.
// Each day is scored against the goal resolved for that specific date, so a
// goal change mid-week shows up in the history.
func (s *Service) WeekHistory(ctx context.Context, clientID uuid.UUID, today string) (*WeekHistoryResponse, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, err
	}

	end, err := resolveToday(today)
	if err != nil {
		return nil, err
	}

	points, _, err := s.weekPoints(ctx, clientID, end)
	if err != nil {
		return nil, err
	}

	return &WeekHistoryResponse{ClientID: clientID, Points: points}, nil
}

// ClientSummaries returns the trainer's active roster with each client's
// weekly mean score, latest measurement week and last diary sync.
func (s *Service) ClientSummaries(ctx context.Context, today string) (*ClientSummariesResponse, error) {
	trainer, err := s.guard.RequireTrainer(ctx)
	if err != nil {
		return nil, err
	}

	end, err := resolveToday(today)
	if err != nil {
		return nil, err
	}

	roster, err := s.storage.ListClientsByTrainer(ctx, trainer.ID, false)
	if err != nil {
		return nil, err
	}

	summaries := make([]ClientSummary, 0, len(roster))
	for _, client := range roster {
		points, days, err := s.weekPoints(ctx, client.ID, end)
		if err != nil {
			return nil, err
		}

		summary := ClientSummary{
			ClientID:        client.ID,
			Name:            client.Name,
			ComplianceScore: weekMean(points, len(days) > 0),
		}

		if m, found, err := s.storage.LatestMeasurement(ctx, client.ID); err != nil {
			return nil, err
		} else if found {
			week := m.WeekStart
			summary.LatestMeasurementWeek = &week
		}

		if last, ok := lastSync(days); ok {
			date := last.Date
			at := last.UpdatedAt
			summary.LastSyncDate = &date
			summary.LastSyncAt = &at
		}

		summaries = append(summaries, summary)
	}

	return &ClientSummariesResponse{Clients: summaries}, nil
}

// weekPoints scores the 7 days ending at end, returning the diary rows it
// found so callers can tell an all-zero week from an empty one.
func (s *Service) weekPoints(ctx context.Context, clientID uuid.UUID, end time.Time) ([]DayPoint, []storage.DiaryDay, error) {
	from := period.FormatDay(end.AddDate(0, 0, -6))
	to := period.FormatDay(end)

	days, err := s.storage.ListDays(ctx, clientID, from, to)
	if err != nil {
		return nil, nil, err
	}
	byDate := make(map[string]storage.DiaryDay, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	intervals, err := s.storage.ListGoalsOverlapping(ctx, clientID, from, to)
	if err != nil {
		return nil, nil, err
	}

	points := make([]DayPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		date := period.FormatDay(day)

		var score float64
		if row, ok := byDate[date]; ok {
			score = Score(row.Totals, goals.Resolve(intervals, date))
		}
		points = append(points, DayPoint{
			Date:  date,
			Label: day.Weekday().String()[:3],
			Score: score,
		})
	}
	return points, days, nil
}

func weekMean(points []DayPoint, hasDiary bool) float64 {
	if !hasDiary || len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Score
	}
	return round1(sum / float64(len(points)))
}

func lastSync(days []storage.DiaryDay) (storage.DiaryDay, bool) {
	if len(days) == 0 {
		return storage.DiaryDay{}, false
	}
	best := days[0]
	for _, d := range days[1:] {
		if d.Date > best.Date {
			best = d
		}
	}
	return best, true
}

func resolveToday(today string) (time.Time, error) {
	if today == "" {
		return period.DayStart(time.Now()), nil
	}
	return period.ParseDay(today)
}
