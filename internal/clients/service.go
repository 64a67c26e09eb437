package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

var ErrCodeRequired = errors.New("invite code is required")

// Storage is the roster surface of the store.
type Storage interface {
	GuardStorage
	ListClientsByTrainer(ctx context.Context, trainerID uuid.UUID, archived bool) ([]storage.Client, error)
	ArchiveClient(ctx context.Context, trainerID, clientID uuid.UUID, now time.Time) (storage.Client, error)
	UnarchiveClient(ctx context.Context, trainerID, clientID uuid.UUID) (storage.Client, error)
	ChangeTrainer(ctx context.Context, clientID uuid.UUID, code string, now time.Time) (storage.Client, storage.Invite, error)
	HasRedeemedInvite(ctx context.Context, trainerID, clientID uuid.UUID) (bool, error)
}

// Service handles roster management.
type Service struct {
	storage Storage
	guard   *Guard
}

func NewService(storage Storage, guard *Guard) *Service {
	return &Service{storage: storage, guard: guard}
}

// ListClients returns the caller's active roster, or the clients the caller
// archived when archived is true.
func (s *Service) ListClients(ctx context.Context, archived bool) ([]ClientDTO, error) {
	trainer, err := s.guard.RequireTrainer(ctx)
	if err != nil {
		return nil, err
	}

	clients, err := s.storage.ListClientsByTrainer(ctx, trainer.ID, archived)
	if err != nil {
		return nil, err
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toDTO(c)
	}
	return dtos, nil
}

// GetClient returns one client the caller may view.
func (s *Service) GetClient(ctx context.Context, clientID uuid.UUID) (*ClientDTO, error) {
	client, err := s.guard.RequireViewClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(client)
	return &dto, nil
}

// Archive removes the client from the caller's active roster. Archiving an
// already-archived client is a no-op.
func (s *Service) Archive(ctx context.Context, clientID uuid.UUID) (*ClientDTO, error) {
	trainer, err := s.guard.RequireTrainer(ctx)
	if err != nil {
		return nil, err
	}

	client, err := s.storage.ArchiveClient(ctx, trainer.ID, clientID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	dto := toDTO(client)
	return &dto, nil
}

// Unarchive restores an archived client to the caller's roster. Allowed for
// the trainer who archived the client, and for a trainer the client has
// paired with before when nobody is on record as the archiver.
func (s *Service) Unarchive(ctx context.Context, clientID uuid.UUID) (*ClientDTO, error) {
	trainer, err := s.guard.RequireTrainer(ctx)
	if err != nil {
		return nil, err
	}

	client, found, err := s.storage.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrClientNotFound
	}

	if client.Archived() {
		allowed := client.ArchivedByTrainerID != nil && *client.ArchivedByTrainerID == trainer.ID
		if !allowed && client.ArchivedByTrainerID == nil {
			allowed, err = s.storage.HasRedeemedInvite(ctx, trainer.ID, clientID)
			if err != nil {
				return nil, err
			}
		}
		if !allowed {
			return nil, ErrForbidden
		}
	}

	restored, err := s.storage.UnarchiveClient(ctx, trainer.ID, clientID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(restored)
	return &dto, nil
}

// ChangeTrainer re-pairs the calling client with the trainer who issued the
// given code. Any archive state is cleared by the storage transaction.
func (s *Service) ChangeTrainer(ctx context.Context, req ChangeTrainerRequest) (*ClientDTO, error) {
	client, err := s.guard.RequireClient(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.InviteCode)
	if code == "" {
		return nil, ErrCodeRequired
	}

	updated, _, err := s.storage.ChangeTrainer(ctx, client.ID, code, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	dto := toDTO(updated)
	return &dto, nil
}

// Me returns the calling client's own profile.
func (s *Service) Me(ctx context.Context) (*ClientDTO, error) {
	client, err := s.guard.RequireClient(ctx)
	if err != nil {
		return nil, err
	}
	dto := toDTO(client)
	return &dto, nil
}
