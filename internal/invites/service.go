package invites

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/config"
	"github.com/avp818/coach-hub/internal/storage"
)

// Codes are 6 decimal digits; with a sparse code space collisions are rare
// and redrawn.
const (
	codeDigits = 6
	codeMax    = 1000000
)

// Service manages the invite-code lifecycle for trainers.
type Service struct {
	storage storage.InvitesStorage
	guard   *clients.Guard
	cfg     *config.Config
}

func NewService(st storage.InvitesStorage, guard *clients.Guard, cfg *config.Config) *Service {
	return &Service{storage: st, guard: guard, cfg: cfg}
}

// CreateInvite draws a fresh single-use code for the calling trainer.
func (s *Service) CreateInvite(ctx context.Context) (*InviteDTO, error) {
	trainer, err := s.guard.RequireTrainer(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(s.cfg.InviteTTLHours) * time.Hour)

	for {
		code, err := drawCode()
		if err != nil {
			return nil, err
		}

		inv := &storage.Invite{
			TrainerID: trainer.ID,
			Code:      code,
			Status:    storage.InviteStatusNew,
			ExpiresAt: expiresAt,
		}
		err = s.storage.CreateInvite(ctx, inv)
		if errors.Is(err, storage.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		dto := toDTO(*inv, now)
		return &dto, nil
	}
}

// ListInvites returns the caller's invites, newest first.
func (s *Service) ListInvites(ctx context.Context) ([]InviteDTO, error) {
	trainer, err := s.guard.RequireTrainer(ctx)
	if err != nil {
		return nil, err
	}

	invites, err := s.storage.ListInvitesByTrainer(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dtos := make([]InviteDTO, len(invites))
	for i, inv := range invites {
		dtos[i] = toDTO(inv, now)
	}
	return dtos, nil
}

// DeactivateInvite retires one of the caller's NEW codes.
func (s *Service) DeactivateInvite(ctx context.Context, code string) (*InviteDTO, error) {
	trainer, err := s.guard.RequireTrainer(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.storage.DeactivateInvite(ctx, trainer.ID, code, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	dto := toDTO(inv, time.Now().UTC())
	return &dto, nil
}

func drawCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax))
	if err != nil {
		return "", fmt.Errorf("draw invite code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
