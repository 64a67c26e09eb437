package reports

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/config"
	"github.com/avp818/coach-hub/internal/storage"
	"github.com/avp818/coach-hub/internal/storage/memory"
	"github.com/avp818/coach-hub/internal/userctx"
)

func setup(t *testing.T) (*Service, *memory.Store, context.Context, storage.Client, storage.Trainer) {
	t.Helper()
	store := memory.New()
	guard := clients.NewGuard(store)
	cfg := &config.Config{ReportsMaxRangeDays: 90}
	service := NewService(NewGenerator(store), guard, cfg)

	trainerUser, trainer, err := store.CreateTrainerAccount(context.Background(), storage.NewAccount{
		Email: "coach@example.com", PasswordHash: "x", Name: "Coach",
	})
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}

	inv := &storage.Invite{TrainerID: trainer.ID, Code: "111111", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.CreateInvite(context.Background(), inv); err != nil {
		t.Fatalf("create invite: %v", err)
	}
	_, client, _, err := store.CreateClientAccount(context.Background(), storage.NewAccount{
		Email: "client@example.com", PasswordHash: "x", Name: "Client",
	}, "111111", time.Now())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	trainerCtx := userctx.WithUserID(context.Background(), trainerUser.ID.String())
	return service, store, trainerCtx, client, trainer
}

func TestWeeklyReportCSV(t *testing.T) {
	service, store, ctx, client, trainer := setup(t)

	_, _, err := store.PutGoal(context.Background(), storage.GoalDraft{
		ClientID: client.ID, TrainerID: trainer.ID, StartDate: "2026-01-01",
		Targets: storage.GoalTargets{ProteinG: 100, FatG: 50, CarbsG: 100},
	})
	if err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	_, _, err = store.ReplaceDay(context.Background(), client.ID, "2026-03-04",
		storage.MacroTotals{ProteinG: 100, FatG: 50, CarbsG: 100}, nil)
	if err != nil {
		t.Fatalf("seed day: %v", err)
	}

	data, contentType, err := service.WeeklyReport(ctx, ReportRequest{
		ClientID: client.ID, Week: "2026-03-04", Format: FormatCSV,
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if contentType != "text/csv" {
		t.Fatalf("unexpected content type %s", contentType)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus one row per day of the week.
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "date,protein_g") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2026-03-02,") {
		t.Fatalf("week must start on Monday, got %q", lines[1])
	}

	var found bool
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "2026-03-04,100,50,100,0,7.0,") {
			found = true
		}
	}
	if !found {
		t.Fatalf("synced day missing from report:\n%s", data)
	}
}

func TestWeeklyReportPDF(t *testing.T) {
	service, _, ctx, client, _ := setup(t)

	data, contentType, err := service.WeeklyReport(ctx, ReportRequest{
		ClientID: client.ID, Week: "2026-03-04", Format: FormatPDF,
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if contentType != "application/pdf" {
		t.Fatalf("unexpected content type %s", contentType)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestWeeklyReportValidation(t *testing.T) {
	service, _, ctx, client, _ := setup(t)

	if _, _, err := service.WeeklyReport(ctx, ReportRequest{
		ClientID: client.ID, Week: "2026-03-04", Format: "xlsx",
	}); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}

	if _, _, err := service.WeeklyReport(ctx, ReportRequest{
		ClientID: client.ID, Week: "bad", Format: FormatCSV,
	}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	if _, _, err := service.WeeklyReport(ctx, ReportRequest{
		ClientID: client.ID, From: "2026-01-01", To: "2026-06-01", Format: FormatCSV,
	}); !errors.Is(err, ErrRangeTooWide) {
		t.Fatalf("expected ErrRangeTooWide, got %v", err)
	}

	if _, _, err := service.WeeklyReport(ctx, ReportRequest{
		ClientID: client.ID, From: "2026-03-10", To: "2026-03-01", Format: FormatCSV,
	}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted range, got %v", err)
	}
}

func TestWeeklyReportForeignTrainerForbidden(t *testing.T) {
	service, store, _, client, _ := setup(t)

	otherUser, _, err := store.CreateTrainerAccount(context.Background(), storage.NewAccount{
		Email: "other@example.com", PasswordHash: "x", Name: "Other",
	})
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}
	otherCtx := userctx.WithUserID(context.Background(), otherUser.ID.String())

	if _, _, err := service.WeeklyReport(otherCtx, ReportRequest{
		ClientID: client.ID, Week: "2026-03-04", Format: FormatCSV,
	}); !errors.Is(err, clients.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
