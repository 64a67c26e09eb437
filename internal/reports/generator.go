package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/avp818/coach-hub/internal/dashboard"
	"github.com/avp818/coach-hub/internal/goals"
	"github.com/avp818/coach-hub/internal/period"
	"github.com/avp818/coach-hub/internal/storage"
)

// GeneratorStorage is the read surface the report needs.
type GeneratorStorage interface {
	ListDays(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.DiaryDay, error)
	ListGoalsOverlapping(ctx context.Context, clientID uuid.UUID, windowStart, windowEnd string) ([]storage.Goal, error)
	ListMeasurements(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.Measurement, error)
	ListSurveys(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.Survey, error)
}

// Generator renders PDF/CSV reports from the aggregated rows.
type Generator struct {
	storage GeneratorStorage
}

func NewGenerator(st GeneratorStorage) *Generator {
	return &Generator{storage: st}
}

// reportData is everything a report window contains, fetched once.
type reportData struct {
	clientName string
	from, to   string
	days       []storage.DiaryDay
	intervals  []storage.Goal
	rows       []storage.Measurement
	surveys    []storage.Survey
}

// Generate fetches the window and renders it in the requested format.
func (g *Generator) Generate(ctx context.Context, client storage.Client, from, to, format string) ([]byte, string, error) {
	days, err := g.storage.ListDays(ctx, client.ID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("fetch diary days: %w", err)
	}
	intervals, err := g.storage.ListGoalsOverlapping(ctx, client.ID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("fetch goals: %w", err)
	}
	rows, err := g.storage.ListMeasurements(ctx, client.ID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("fetch measurements: %w", err)
	}
	surveys, err := g.storage.ListSurveys(ctx, client.ID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("fetch surveys: %w", err)
	}

	data := reportData{
		clientName: client.Name,
		from:       from,
		to:         to,
		days:       days,
		intervals:  intervals,
		rows:       rows,
		surveys:    surveys,
	}

	switch format {
	case FormatPDF:
		out, err := g.generatePDF(data)
		return out, "application/pdf", err
	case FormatCSV:
		out, err := g.generateCSV(data)
		return out, "text/csv", err
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generateCSV(data reportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "protein_g", "fat_g", "carbs_g", "fiber_g", "score", "goal_protein_g", "goal_fat_g", "goal_carbs_g", "goal_fiber_g"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	byDate := daysByDate(data.days)
	for _, date := range datesIn(data.from, data.to) {
		goal := goals.Resolve(data.intervals, date)
		row := []string{date}

		if day, ok := byDate[date]; ok {
			row = append(row,
				strconv.Itoa(day.Totals.ProteinG),
				strconv.Itoa(day.Totals.FatG),
				strconv.Itoa(day.Totals.CarbsG),
				strconv.Itoa(day.Totals.FiberG),
				fmt.Sprintf("%.1f", dashboard.Score(day.Totals, goal)),
			)
		} else {
			row = append(row, "", "", "", "", "0.0")
		}

		if goal != nil {
			row = append(row,
				strconv.Itoa(goal.Targets.ProteinG),
				strconv.Itoa(goal.Targets.FatG),
				strconv.Itoa(goal.Targets.CarbsG),
			)
			if goal.Targets.FiberG != nil {
				row = append(row, strconv.Itoa(*goal.Targets.FiberG))
			} else {
				row = append(row, "")
			}
		} else {
			row = append(row, "", "", "", "")
		}

		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *Generator) generatePDF(data reportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Nutrition Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Client: %s", data.clientName))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", data.from, data.to))
	pdf.Ln(12)

	g.drawDiaryTable(pdf, data)
	g.drawMeasurements(pdf, data.rows)
	g.drawSurveySummary(pdf, data.surveys)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) drawDiaryTable(pdf *gofpdf.Fpdf, data reportData) {
	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Daily totals")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(25, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Protein", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Fat", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Carbs", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Fiber", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Goal P/F/C", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Score", "1", 1, "C", false, 0, "")

	byDate := daysByDate(data.days)
	for _, date := range datesIn(data.from, data.to) {
		goal := goals.Resolve(data.intervals, date)
		pdf.CellFormat(25, 6, date, "1", 0, "C", false, 0, "")

		if day, ok := byDate[date]; ok {
			pdf.CellFormat(22, 6, strconv.Itoa(day.Totals.ProteinG), "1", 0, "C", false, 0, "")
			pdf.CellFormat(22, 6, strconv.Itoa(day.Totals.FatG), "1", 0, "C", false, 0, "")
			pdf.CellFormat(22, 6, strconv.Itoa(day.Totals.CarbsG), "1", 0, "C", false, 0, "")
			pdf.CellFormat(22, 6, strconv.Itoa(day.Totals.FiberG), "1", 0, "C", false, 0, "")
			pdf.CellFormat(22, 6, goalCell(goal), "1", 0, "C", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%.1f", dashboard.Score(day.Totals, goal)), "1", 1, "C", false, 0, "")
		} else {
			for i := 0; i < 4; i++ {
				pdf.CellFormat(22, 6, "", "1", 0, "C", false, 0, "")
			}
			pdf.CellFormat(22, 6, goalCell(goal), "1", 0, "C", false, 0, "")
			pdf.CellFormat(20, 6, "0.0", "1", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(8)
}

func (g *Generator) drawMeasurements(pdf *gofpdf.Fpdf, rows []storage.Measurement) {
	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Measurements")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(rows) == 0 {
		pdf.Cell(0, 6, "No measurements in this period")
		pdf.Ln(10)
		return
	}

	for _, m := range rows {
		pdf.Cell(0, 6, fmt.Sprintf("Week of %s: chest %s, waist %s, belly %s, thigh %s, arm %s",
			m.WeekStart, cm(m.ChestCm), cm(m.WaistCm), cm(m.BellyCm), cm(m.ThighCm), cm(m.ArmCm)))
		pdf.Ln(5)
	}
	pdf.Ln(5)
}

func (g *Generator) drawSurveySummary(pdf *gofpdf.Fpdf, surveys []storage.Survey) {
	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Well-being")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(surveys) == 0 {
		pdf.Cell(0, 6, "No surveys in this period")
		pdf.Ln(5)
		return
	}

	var motivation, stress, hunger int
	var sleep, water float64
	for _, s := range surveys {
		motivation += s.Motivation
		stress += s.Stress
		hunger += s.Hunger
		sleep += s.SleepHours
		water += s.WaterLitres
	}
	n := float64(len(surveys))

	pdf.Cell(0, 6, fmt.Sprintf("Average motivation: %.1f / 3", float64(motivation)/n))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average stress: %.1f / 3", float64(stress)/n))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average hunger: %.1f / 3", float64(hunger)/n))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average sleep: %.1f h", sleep/n))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average water: %.1f l", water/n))
	pdf.Ln(5)
}

func goalCell(goal *storage.Goal) string {
	if goal == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d/%d", goal.Targets.ProteinG, goal.Targets.FatG, goal.Targets.CarbsG)
}

func cm(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func daysByDate(days []storage.DiaryDay) map[string]storage.DiaryDay {
	m := make(map[string]storage.DiaryDay, len(days))
	for _, d := range days {
		m[d.Date] = d
	}
	return m
}

// datesIn expands an inclusive date range into its day keys. Inputs are
// normalized upstream, so parse failures cannot happen here.
func datesIn(from, to string) []string {
	start, err := period.ParseDay(from)
	if err != nil {
		return nil
	}
	end, err := period.ParseDay(to)
	if err != nil {
		return nil
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, period.FormatDay(d))
	}
	return dates
}
