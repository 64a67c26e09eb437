// Package memory is the map-backed storage.Store used when no database is
// configured and by tests. A single mutex guards every operation, which makes
// the conditional invite transition and the multi-row writes atomic the same
// way the Postgres transactions do.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

type diaryRecord struct {
	day   storage.DiaryDay
	meals []storage.Meal
}

type photoBlob struct {
	data        []byte
	contentType string
}

// Store keeps everything in maps keyed the way the schema is keyed.
type Store struct {
	mu sync.Mutex

	users    map[uuid.UUID]storage.User
	trainers map[uuid.UUID]storage.Trainer
	clients  map[uuid.UUID]storage.Client

	diaries      map[uuid.UUID]map[string]diaryRecord           // clientID -> date
	measurements map[uuid.UUID]map[string]storage.Measurement   // clientID -> weekStart
	photos       map[uuid.UUID][]storage.MeasurementPhoto       // clientID
	photoBlobs   map[uuid.UUID]photoBlob                        // photoID
	surveys      map[uuid.UUID]map[string]storage.Survey        // clientID -> date
	goals        map[uuid.UUID]map[string]storage.Goal          // clientID -> startDate
	invites      map[string]storage.Invite                      // code
}

func New() *Store {
	return &Store{
		users:        map[uuid.UUID]storage.User{},
		trainers:     map[uuid.UUID]storage.Trainer{},
		clients:      map[uuid.UUID]storage.Client{},
		diaries:      map[uuid.UUID]map[string]diaryRecord{},
		measurements: map[uuid.UUID]map[string]storage.Measurement{},
		photos:       map[uuid.UUID][]storage.MeasurementPhoto{},
		photoBlobs:   map[uuid.UUID]photoBlob{},
		surveys:      map[uuid.UUID]map[string]storage.Survey{},
		goals:        map[uuid.UUID]map[string]storage.Goal{},
		invites:      map[string]storage.Invite{},
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateTrainerAccount(ctx context.Context, acc storage.NewAccount) (storage.User, storage.Trainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.insertUser(acc, storage.RoleTrainer)
	if err != nil {
		return storage.User{}, storage.Trainer{}, err
	}

	now := time.Now().UTC()
	trainer := storage.Trainer{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      acc.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.users[user.ID] = user
	s.trainers[trainer.ID] = trainer
	return user, trainer, nil
}

func (s *Store) CreateClientAccount(ctx context.Context, acc storage.NewAccount, code string, now time.Time) (storage.User, storage.Client, storage.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.insertUser(acc, storage.RoleClient)
	if err != nil {
		return storage.User{}, storage.Client{}, storage.Invite{}, err
	}

	clientID := uuid.New()
	invite, err := s.redeemInviteLocked(code, clientID, now)
	if err != nil {
		// Nothing was written yet, so nothing to roll back.
		return storage.User{}, storage.Client{}, storage.Invite{}, err
	}

	created := time.Now().UTC()
	trainerID := invite.TrainerID
	client := storage.Client{
		ID:               clientID,
		UserID:           user.ID,
		Name:             acc.Name,
		CurrentTrainerID: &trainerID,
		CreatedAt:        created,
		UpdatedAt:        created,
	}

	s.users[user.ID] = user
	s.clients[client.ID] = client
	return user, client, invite, nil
}

// insertUser builds the user row but does not store it; callers commit it
// together with the profile row after every precondition has passed.
func (s *Store) insertUser(acc storage.NewAccount, role string) (storage.User, error) {
	for _, u := range s.users {
		if u.Email == acc.Email {
			return storage.User{}, storage.ErrEmailTaken
		}
	}
	return storage.User{
		ID:           uuid.New(),
		Email:        acc.Email,
		PasswordHash: acc.PasswordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// redeemInviteLocked is the NEW→USED transition. Callers hold the mutex, so
// the check and the write are atomic and a code is redeemed at most once.
func (s *Store) redeemInviteLocked(code string, clientID uuid.UUID, now time.Time) (storage.Invite, error) {
	invite, ok := s.invites[code]
	if !ok || !invite.IsActive(now) {
		return storage.Invite{}, storage.ErrInviteNotActive
	}

	invite.Status = storage.InviteStatusUsed
	invite.ClientID = &clientID
	usedAt := now
	invite.UsedAt = &usedAt
	s.invites[code] = invite
	return invite, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return storage.User{}, false, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (storage.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	return user, ok, nil
}

func (s *Store) GetTrainer(ctx context.Context, id uuid.UUID) (storage.Trainer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trainer, ok := s.trainers[id]
	return trainer, ok, nil
}

func (s *Store) GetTrainerByUserID(ctx context.Context, userID uuid.UUID) (storage.Trainer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.trainers {
		if t.UserID == userID {
			return t, true, nil
		}
	}
	return storage.Trainer{}, false, nil
}

func sortByStart(goals []storage.Goal) {
	sort.Slice(goals, func(i, j int) bool { return goals[i].StartDate < goals[j].StartDate })
}
