package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (storage.Client, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	return client, ok, nil
}

func (s *Store) GetClientByUserID(ctx context.Context, userID uuid.UUID) (storage.Client, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		if c.UserID == userID {
			return c, true, nil
		}
	}
	return storage.Client{}, false, nil
}

func (s *Store) ListClientsByTrainer(ctx context.Context, trainerID uuid.UUID, archived bool) ([]storage.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := []storage.Client{}
	for _, c := range s.clients {
		if archived {
			if c.ArchivedAt != nil && c.ArchivedByTrainerID != nil && *c.ArchivedByTrainerID == trainerID {
				clients = append(clients, c)
			}
		} else if c.CurrentTrainerID != nil && *c.CurrentTrainerID == trainerID {
			clients = append(clients, c)
		}
	}

	if archived {
		sort.Slice(clients, func(i, j int) bool {
			return clients[i].ArchivedAt.After(*clients[j].ArchivedAt)
		})
	} else {
		sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	}
	return clients, nil
}

func (s *Store) ArchiveClient(ctx context.Context, trainerID, clientID uuid.UUID, now time.Time) (storage.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[clientID]
	if !ok {
		return storage.Client{}, storage.ErrNotFound
	}
	if client.Archived() {
		return client, nil
	}
	if client.CurrentTrainerID == nil || *client.CurrentTrainerID != trainerID {
		return storage.Client{}, storage.ErrNotOwned
	}

	archivedAt := now
	archivedBy := trainerID
	client.ArchivedAt = &archivedAt
	client.ArchivedByTrainerID = &archivedBy
	client.CurrentTrainerID = nil
	client.UpdatedAt = now
	s.clients[clientID] = client
	return client, nil
}

func (s *Store) UnarchiveClient(ctx context.Context, trainerID, clientID uuid.UUID) (storage.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[clientID]
	if !ok {
		return storage.Client{}, storage.ErrNotFound
	}
	if !client.Archived() {
		if client.CurrentTrainerID != nil && *client.CurrentTrainerID == trainerID {
			return client, nil
		}
		return storage.Client{}, storage.ErrNotOwned
	}

	tid := trainerID
	client.CurrentTrainerID = &tid
	client.ArchivedAt = nil
	client.ArchivedByTrainerID = nil
	client.UpdatedAt = time.Now().UTC()
	s.clients[clientID] = client
	return client, nil
}

func (s *Store) ChangeTrainer(ctx context.Context, clientID uuid.UUID, code string, now time.Time) (storage.Client, storage.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[clientID]
	if !ok {
		return storage.Client{}, storage.Invite{}, storage.ErrNotFound
	}

	invite, err := s.redeemInviteLocked(code, clientID, now)
	if err != nil {
		return storage.Client{}, storage.Invite{}, err
	}

	trainerID := invite.TrainerID
	client.CurrentTrainerID = &trainerID
	client.ArchivedAt = nil
	client.ArchivedByTrainerID = nil
	client.UpdatedAt = now
	s.clients[clientID] = client
	return client, invite, nil
}
