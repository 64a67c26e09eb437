package reports

import (
	"context"
	"errors"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/config"
	"github.com/avp818/coach-hub/internal/period"
)

var (
	ErrInvalidFormat = errors.New("format must be pdf or csv")
	ErrInvalidRange  = errors.New("invalid report range")
	ErrRangeTooWide  = errors.New("report range exceeds the configured maximum")
)

// Service validates report requests and hands them to the generator.
type Service struct {
	generator *Generator
	guard     *clients.Guard
	cfg       *config.Config
}

func NewService(generator *Generator, guard *clients.Guard, cfg *config.Config) *Service {
	return &Service{generator: generator, guard: guard, cfg: cfg}
}

// WeeklyReport renders a report for the requested window. Week selects the
// Monday-to-Sunday week containing the given date; an explicit From/To pair
// takes precedence and is bounded by config.
func (s *Service) WeeklyReport(ctx context.Context, req ReportRequest) ([]byte, string, error) {
	client, err := s.guard.RequireViewClient(ctx, req.ClientID)
	if err != nil {
		return nil, "", err
	}

	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, "", ErrInvalidFormat
	}

	from, to, err := s.resolveWindow(req)
	if err != nil {
		return nil, "", err
	}

	return s.generator.Generate(ctx, client, from, to, req.Format)
}

func (s *Service) resolveWindow(req ReportRequest) (string, string, error) {
	if req.From != "" || req.To != "" {
		from, err := period.NormalizeDay(req.From)
		if err != nil {
			return "", "", ErrInvalidRange
		}
		to, err := period.NormalizeDay(req.To)
		if err != nil {
			return "", "", ErrInvalidRange
		}
		if from > to {
			return "", "", ErrInvalidRange
		}

		start, _ := period.ParseDay(from)
		end, _ := period.ParseDay(to)
		days := int(end.Sub(start).Hours()/24) + 1
		if s.cfg.ReportsMaxRangeDays > 0 && days > s.cfg.ReportsMaxRangeDays {
			return "", "", ErrRangeTooWide
		}
		return from, to, nil
	}

	weekStart, err := period.NormalizeWeek(req.Week)
	if err != nil {
		return "", "", ErrInvalidRange
	}
	start, _ := period.ParseDay(weekStart)
	return weekStart, period.FormatDay(start.AddDate(0, 0, 6)), nil
}
