package surveys

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/storage"
	"github.com/avp818/coach-hub/internal/storage/memory"
	"github.com/avp818/coach-hub/internal/userctx"
)

func setup(t *testing.T) (*Service, context.Context, storage.Client, context.Context) {
	t.Helper()
	store := memory.New()
	guard := clients.NewGuard(store)
	service := NewService(store, guard)

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
	clientUser, client, _, err := store.CreateClientAccount(context.Background(), storage.NewAccount{
		Email: "client@example.com", PasswordHash: "x", Name: "Client",
	}, "111111", time.Now())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	clientCtx := userctx.WithUserID(context.Background(), clientUser.ID.String())
	trainerCtx := userctx.WithUserID(context.Background(), trainerUser.ID.String())
	return service, clientCtx, client, trainerCtx
}

func validRequest(date string) SyncSurveyRequest {
	return SyncSurveyRequest{
		Date:       date,
		Motivation: "high",
		Stress:     "low",
		Hunger:     "medium",
		Libido:     "medium",
		Sleep:      "6-8",
		Water:      "1.5-2.5",
	}
}

func TestSyncSurveyMapsBuckets(t *testing.T) {
	service, ctx, _, _ := setup(t)

	resp, err := service.SyncSurvey(ctx, validRequest("2026-03-02"))
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !resp.Created {
		t.Fatal("first sync must create the row")
	}

	sv := resp.Survey
	if sv.Motivation != 3 || sv.Stress != 1 || sv.Hunger != 2 || sv.Libido != 2 {
		t.Fatalf("ordinal mapping wrong: %+v", sv)
	}
	if sv.SleepHours != 7 || sv.WaterLitres != 2.0 {
		t.Fatalf("midpoint mapping wrong: %+v", sv)
	}
}

func TestSyncSurveyUpsertsByDay(t *testing.T) {
	service, ctx, _, _ := setup(t)

	if _, err := service.SyncSurvey(ctx, validRequest("2026-03-02")); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	req := validRequest("2026-03-02")
	req.Sleep = ">8"
	resp, err := service.SyncSurvey(ctx, req)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if resp.Created {
		t.Fatal("same day must update, not create")
	}
	if resp.Survey.SleepHours != 9 {
		t.Fatalf("update not applied: %+v", resp.Survey)
	}
}

func TestSyncSurveyRejectsUnknownBuckets(t *testing.T) {
	service, ctx, _, _ := setup(t)

	cases := []struct {
		name   string
		mutate func(*SyncSurveyRequest)
	}{
		{"motivation", func(r *SyncSurveyRequest) { r.Motivation = "extreme" }},
		{"sleep", func(r *SyncSurveyRequest) { r.Sleep = "9-10" }},
		{"water", func(r *SyncSurveyRequest) { r.Water = "2l" }},
		{"empty", func(r *SyncSurveyRequest) { r.Stress = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest("2026-03-02")
			tc.mutate(&req)
			_, err := service.SyncSurvey(ctx, req)
			if !errors.Is(err, ErrInvalidAnswer) {
				t.Fatalf("expected ErrInvalidAnswer, got %v", err)
			}
		})
	}
}

func TestTrainerCanListClientSurveys(t *testing.T) {
	service, clientCtx, client, trainerCtx := setup(t)

	if _, err := service.SyncSurvey(clientCtx, validRequest("2026-03-02")); err != nil {
		t.Fatalf("sync: %v", err)
	}

	surveys, err := service.ListSurveys(trainerCtx, client.ID, "2026-03-01", "2026-03-07")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(surveys) != 1 || surveys[0].Date != "2026-03-02" {
		t.Fatalf("unexpected listing: %+v", surveys)
	}
}
