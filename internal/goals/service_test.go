package goals

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

	trainerCtx := userctx.WithUserID(context.Background(), trainerUser.ID.String())
	clientCtx := userctx.WithUserID(context.Background(), clientUser.ID.String())
	return service, trainerCtx, client, clientCtx
}

func TestPutGoalClosesOpenInterval(t *testing.T) {
	service, ctx, client, _ := setup(t)

	first, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-01-01", ProteinG: 150, FatG: 60, CarbsG: 220,
	})
	if err != nil {
		t.Fatalf("first goal: %v", err)
	}
	if !first.Created || first.Goal.EndDate != nil {
		t.Fatalf("expected new open interval, got %+v", first)
	}

	second, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-03-01", ProteinG: 160, FatG: 55, CarbsG: 200,
	})
	if err != nil {
		t.Fatalf("second goal: %v", err)
	}
	if !second.Created {
		t.Fatal("expected a new interval")
	}

	goals, err := service.ListGoals(ctx, client.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(goals))
	}
	if goals[0].EndDate == nil || *goals[0].EndDate != "2026-03-01" {
		t.Fatalf("first interval must be closed at the new start: %+v", goals[0])
	}
	if goals[1].EndDate != nil {
		t.Fatalf("second interval must stay open: %+v", goals[1])
	}
}

func TestPutGoalSameStartUpdatesInPlace(t *testing.T) {
	service, ctx, client, _ := setup(t)

	if _, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-01-01", ProteinG: 150, FatG: 60, CarbsG: 220,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-01-01", ProteinG: 170, FatG: 50, CarbsG: 210,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Created {
		t.Fatal("same start date must update in place")
	}
	if resp.Goal.ProteinG != 170 {
		t.Fatalf("targets not updated: %+v", resp.Goal)
	}

	goals, _ := service.ListGoals(ctx, client.ID)
	if len(goals) != 1 {
		t.Fatalf("expected a single interval, got %d", len(goals))
	}
}

func TestPutGoalBackdatedIsCapped(t *testing.T) {
	service, ctx, client, _ := setup(t)

	if _, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-03-01", ProteinG: 160, FatG: 55, CarbsG: 200,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-01-01", ProteinG: 150, FatG: 60, CarbsG: 220,
	})
	if err != nil {
		t.Fatalf("backdated goal: %v", err)
	}
	if resp.Goal.EndDate == nil || *resp.Goal.EndDate != "2026-03-01" {
		t.Fatalf("backdated interval must be capped at the later start: %+v", resp.Goal)
	}
}

func TestGoalForResolvesByDate(t *testing.T) {
	service, ctx, client, _ := setup(t)

	fiber := 30
	if _, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-01-01", ProteinG: 150, FatG: 60, CarbsG: 220, FiberG: &fiber,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-03-01", ProteinG: 160, FatG: 55, CarbsG: 200,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	g, err := service.GoalFor(ctx, client.ID, "2026-02-15")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if g == nil || g.Targets.ProteinG != 150 {
		t.Fatalf("expected first goal for Feb 15, got %+v", g)
	}

	g, err = service.GoalFor(ctx, client.ID, "2025-12-31")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if g != nil {
		t.Fatalf("expected nil before the first goal, got %+v", g)
	}
}

func TestClientCannotPutGoal(t *testing.T) {
	service, _, client, clientCtx := setup(t)

	_, err := service.PutGoal(clientCtx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-01-01", ProteinG: 150,
	})
	if !errors.Is(err, clients.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPutGoalValidation(t *testing.T) {
	service, ctx, client, _ := setup(t)

	if _, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "bad", ProteinG: 150,
	}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	if _, err := service.PutGoal(ctx, PutGoalRequest{
		ClientID: client.ID, StartDate: "2026-01-01", ProteinG: -1,
	}); !errors.Is(err, ErrInvalidTargets) {
		t.Fatalf("expected ErrInvalidTargets, got %v", err)
	}
}
