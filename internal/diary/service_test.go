package diary

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

func TestSyncDayComputesTotals(t *testing.T) {
	service, ctx, _, _ := setup(t)

	breakfast := "08:30"
	resp, err := service.SyncDay(ctx, SyncDayRequest{
		Date: "2026-03-02",
		Meals: []MealInput{
			{Name: "Oats", TimeOfDay: &breakfast, ProteinG: 12, FatG: 7, CarbsG: 54, FiberG: 6},
			{Name: "Chicken and rice", ProteinG: 42, FatG: 11, CarbsG: 65, FiberG: 3},
		},
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !resp.Created {
		t.Fatal("first sync must create the day")
	}

	day := resp.Day
	if day.ProteinG != 54 || day.FatG != 18 || day.CarbsG != 119 || day.FiberG != 9 {
		t.Fatalf("totals mismatch: %+v", day)
	}
	if len(day.Meals) != 2 || day.Meals[0].Name != "Oats" {
		t.Fatalf("meals mismatch: %+v", day.Meals)
	}
}

func TestSyncDayReplacesNotMerges(t *testing.T) {
	service, ctx, _, _ := setup(t)

	_, err := service.SyncDay(ctx, SyncDayRequest{
		Date: "2026-03-02",
		Meals: []MealInput{
			{Name: "Oats", ProteinG: 12, CarbsG: 54},
			{Name: "Lunch", ProteinG: 40, CarbsG: 60},
		},
	})
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}

	resp, err := service.SyncDay(ctx, SyncDayRequest{
		Date:  "2026-03-02",
		Meals: []MealInput{{Name: "Only dinner", ProteinG: 30, FatG: 10, CarbsG: 20}},
	})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if resp.Created {
		t.Fatal("second sync must update, not create")
	}
	if len(resp.Day.Meals) != 1 || resp.Day.ProteinG != 30 || resp.Day.CarbsG != 20 {
		t.Fatalf("old meals leaked into the replaced day: %+v", resp.Day)
	}
}

func TestSyncDayEmptyMealListClearsDay(t *testing.T) {
	service, ctx, _, _ := setup(t)

	if _, err := service.SyncDay(ctx, SyncDayRequest{
		Date:  "2026-03-02",
		Meals: []MealInput{{Name: "Oats", ProteinG: 12}},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, err := service.SyncDay(ctx, SyncDayRequest{Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("empty sync: %v", err)
	}
	if len(resp.Day.Meals) != 0 || resp.Day.ProteinG != 0 {
		t.Fatalf("expected cleared day, got %+v", resp.Day)
	}
}

func TestSyncDayValidation(t *testing.T) {
	service, ctx, _, _ := setup(t)

	badTime := "25:99"
	cases := []struct {
		name string
		req  SyncDayRequest
		want error
	}{
		{"bad date", SyncDayRequest{Date: "not-a-date"}, ErrInvalidDate},
		{"impossible date", SyncDayRequest{Date: "2026-02-30"}, ErrInvalidDate},
		{"empty meal name", SyncDayRequest{Date: "2026-03-02", Meals: []MealInput{{Name: "  "}}}, ErrMealName},
		{"bad meal time", SyncDayRequest{Date: "2026-03-02", Meals: []MealInput{{Name: "X", TimeOfDay: &badTime}}}, ErrInvalidTime},
		{"negative macro", SyncDayRequest{Date: "2026-03-02", Meals: []MealInput{{Name: "X", ProteinG: -1}}}, ErrNegativeMacro},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.SyncDay(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTrainerCanReadClientDiary(t *testing.T) {
	service, clientCtx, client, trainerCtx := setup(t)

	if _, err := service.SyncDay(clientCtx, SyncDayRequest{
		Date:  "2026-03-02",
		Meals: []MealInput{{Name: "Oats", ProteinG: 12}},
	}); err != nil {
		t.Fatalf("sync: %v", err)
	}

	day, err := service.GetDay(trainerCtx, client.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("trainer read: %v", err)
	}
	if day.ProteinG != 12 {
		t.Fatalf("unexpected day: %+v", day)
	}

	days, err := service.ListDays(trainerCtx, client.ID, "2026-03-01", "2026-03-07")
	if err != nil {
		t.Fatalf("trainer list: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2026-03-02" {
		t.Fatalf("unexpected listing: %+v", days)
	}
}

func TestTrainerCannotSyncForClient(t *testing.T) {
	service, _, _, trainerCtx := setup(t)

	_, err := service.SyncDay(trainerCtx, SyncDayRequest{Date: "2026-03-02"})
	if !errors.Is(err, clients.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
