package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avp818/coach-hub/internal/storage"
	"github.com/avp818/coach-hub/internal/storage/memory"
	"github.com/avp818/coach-hub/internal/userctx"
)

type fixture struct {
	store   *memory.Store
	service *Service

	trainer     storage.Trainer
	trainerCtx  context.Context
	client      storage.Client
	clientCtx   context.Context
	otherCoach  storage.Trainer
	otherCtx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	guard := NewGuard(store)
	service := NewService(store, guard)

	trainerUser, trainer, err := createTrainer(store, "coach@example.com")
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}
	otherUser, other, err := createTrainer(store, "other@example.com")
	if err != nil {
		t.Fatalf("create other trainer: %v", err)
	}

	clientUser, client := createClient(t, store, trainer, "client@example.com", "111111")

	return &fixture{
		store:      store,
		service:    service,
		trainer:    trainer,
		trainerCtx: userctx.WithUserID(context.Background(), trainerUser.ID.String()),
		client:     client,
		clientCtx:  userctx.WithUserID(context.Background(), clientUser.ID.String()),
		otherCoach: other,
		otherCtx:   userctx.WithUserID(context.Background(), otherUser.ID.String()),
	}
}

func createTrainer(store *memory.Store, email string) (storage.User, storage.Trainer, error) {
	return store.CreateTrainerAccount(context.Background(), storage.NewAccount{
		Email: email, PasswordHash: "x", Name: email,
	})
}

func createClient(t *testing.T, store *memory.Store, trainer storage.Trainer, email, code string) (storage.User, storage.Client) {
	t.Helper()
	inv := &storage.Invite{TrainerID: trainer.ID, Code: code, ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.CreateInvite(context.Background(), inv); err != nil {
		t.Fatalf("create invite: %v", err)
	}
	user, client, _, err := store.CreateClientAccount(context.Background(), storage.NewAccount{
		Email: email, PasswordHash: "x", Name: email,
	}, code, time.Now())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return user, client
}

func TestArchiveIsIdempotent(t *testing.T) {
	f := newFixture(t)

	first, err := f.service.Archive(f.trainerCtx, f.client.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !first.Archived {
		t.Fatal("expected archived state")
	}

	second, err := f.service.Archive(f.trainerCtx, f.client.ID)
	if err != nil {
		t.Fatalf("second archive must be a no-op: %v", err)
	}
	if !second.Archived || !second.ArchivedAt.Equal(*first.ArchivedAt) {
		t.Fatalf("second archive changed state: %+v vs %+v", second, first)
	}
}

func TestArchiveForeignClientForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Archive(f.otherCtx, f.client.ID)
	if !errors.Is(err, storage.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
}

func TestUnarchivePermissions(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.Archive(f.trainerCtx, f.client.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	// A trainer with no history with this client may not restore them.
	if _, err := f.service.Unarchive(f.otherCtx, f.client.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	// The archiving trainer may.
	restored, err := f.service.Unarchive(f.trainerCtx, f.client.ID)
	if err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	if restored.Archived || restored.TrainerID == nil || *restored.TrainerID != f.trainer.ID {
		t.Fatalf("unexpected state after unarchive: %+v", restored)
	}

	// Unarchiving an active own client is a no-op.
	again, err := f.service.Unarchive(f.trainerCtx, f.client.ID)
	if err != nil {
		t.Fatalf("repeat unarchive: %v", err)
	}
	if again.Archived {
		t.Fatal("client must stay active")
	}
}

func TestChangeTrainerClearsArchive(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.Archive(f.trainerCtx, f.client.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	inv := &storage.Invite{TrainerID: f.otherCoach.ID, Code: "222222", ExpiresAt: time.Now().Add(time.Hour)}
	if err := f.store.CreateInvite(context.Background(), inv); err != nil {
		t.Fatalf("create invite: %v", err)
	}

	updated, err := f.service.ChangeTrainer(f.clientCtx, ChangeTrainerRequest{InviteCode: "222222"})
	if err != nil {
		t.Fatalf("change trainer: %v", err)
	}
	if updated.Archived {
		t.Fatal("archive state must be cleared on re-pairing")
	}
	if updated.TrainerID == nil || *updated.TrainerID != f.otherCoach.ID {
		t.Fatalf("expected new trainer, got %+v", updated)
	}

	// The old trainer's roster no longer contains the client.
	roster, err := f.service.ListClients(f.trainerCtx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(roster) != 0 {
		t.Fatalf("expected empty roster, got %d", len(roster))
	}
}

func TestChangeTrainerDeadCode(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ChangeTrainer(f.clientCtx, ChangeTrainerRequest{InviteCode: "999999"})
	if !errors.Is(err, storage.ErrInviteNotActive) {
		t.Fatalf("expected ErrInviteNotActive, got %v", err)
	}
}

func TestListClientsSplitsActiveAndArchived(t *testing.T) {
	f := newFixture(t)

	_, second := createClient(t, f.store, f.trainer, "second@example.com", "333333")

	if _, err := f.service.Archive(f.trainerCtx, second.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := f.service.ListClients(f.trainerCtx, false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != f.client.ID {
		t.Fatalf("unexpected active roster: %+v", active)
	}

	archived, err := f.service.ListClients(f.trainerCtx, true)
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != second.ID {
		t.Fatalf("unexpected archived roster: %+v", archived)
	}
}
