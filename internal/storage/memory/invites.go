package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

func (s *Store) CreateInvite(ctx context.Context, inv *storage.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invites[inv.Code]; ok {
		return storage.ErrCodeTaken
	}

	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.Status == "" {
		inv.Status = storage.InviteStatusNew
	}
	inv.CreatedAt = time.Now().UTC()

	s.invites[inv.Code] = *inv
	return nil
}

func (s *Store) GetInviteByCode(ctx context.Context, code string) (storage.Invite, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invites[code]
	return inv, ok, nil
}

func (s *Store) ListInvitesByTrainer(ctx context.Context, trainerID uuid.UUID) ([]storage.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invites := []storage.Invite{}
	for _, inv := range s.invites {
		if inv.TrainerID == trainerID {
			invites = append(invites, inv)
		}
	}

	sort.Slice(invites, func(i, j int) bool { return invites[i].CreatedAt.After(invites[j].CreatedAt) })
	return invites, nil
}

func (s *Store) DeactivateInvite(ctx context.Context, trainerID uuid.UUID, code string, now time.Time) (storage.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invites[code]
	if !ok || inv.TrainerID != trainerID {
		return storage.Invite{}, storage.ErrNotFound
	}
	if inv.Status != storage.InviteStatusNew {
		return storage.Invite{}, storage.ErrInviteNotActive
	}

	inv.Status = storage.InviteStatusExpired
	s.invites[code] = inv
	return inv, nil
}

func (s *Store) HasRedeemedInvite(ctx context.Context, trainerID, clientID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range s.invites {
		if inv.TrainerID == trainerID && inv.Status == storage.InviteStatusUsed &&
			inv.ClientID != nil && *inv.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}
