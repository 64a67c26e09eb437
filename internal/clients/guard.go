package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
	"github.com/avp818/coach-hub/internal/userctx"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrForbidden      = errors.New("access denied")
)

// GuardStorage is the lookup surface the access guard needs.
type GuardStorage interface {
	GetClient(ctx context.Context, id uuid.UUID) (storage.Client, bool, error)
	GetClientByUserID(ctx context.Context, userID uuid.UUID) (storage.Client, bool, error)
	GetTrainerByUserID(ctx context.Context, userID uuid.UUID) (storage.Trainer, bool, error)
}

// Guard resolves the calling user into a trainer or client profile and
// answers the ownership questions every domain service asks.
type Guard struct {
	storage GuardStorage
}

func NewGuard(storage GuardStorage) *Guard {
	return &Guard{storage: storage}
}

// RequireClient returns the caller's own client profile. Fails when the
// caller is not authenticated as a client.
func (g *Guard) RequireClient(ctx context.Context) (storage.Client, error) {
	userID, ok := callerID(ctx)
	if !ok {
		return storage.Client{}, ErrForbidden
	}

	client, found, err := g.storage.GetClientByUserID(ctx, userID)
	if err != nil {
		return storage.Client{}, err
	}
	if !found {
		return storage.Client{}, ErrForbidden
	}
	return client, nil
}

// RequireTrainer returns the caller's trainer profile.
func (g *Guard) RequireTrainer(ctx context.Context) (storage.Trainer, error) {
	userID, ok := callerID(ctx)
	if !ok {
		return storage.Trainer{}, ErrForbidden
	}

	trainer, found, err := g.storage.GetTrainerByUserID(ctx, userID)
	if err != nil {
		return storage.Trainer{}, err
	}
	if !found {
		return storage.Trainer{}, ErrForbidden
	}
	return trainer, nil
}

// RequireViewClient allows the client themself and the client's current
// trainer to read the client's data. A trainer who archived the client keeps
// read access to the history.
func (g *Guard) RequireViewClient(ctx context.Context, clientID uuid.UUID) (storage.Client, error) {
	client, found, err := g.storage.GetClient(ctx, clientID)
	if err != nil {
		return storage.Client{}, err
	}
	if !found {
		return storage.Client{}, ErrClientNotFound
	}

	userID, ok := callerID(ctx)
	if !ok {
		return storage.Client{}, ErrForbidden
	}
	if client.UserID == userID {
		return client, nil
	}

	trainer, found, err := g.storage.GetTrainerByUserID(ctx, userID)
	if err != nil {
		return storage.Client{}, err
	}
	if !found {
		return storage.Client{}, ErrForbidden
	}
	if client.CurrentTrainerID != nil && *client.CurrentTrainerID == trainer.ID {
		return client, nil
	}
	if client.ArchivedByTrainerID != nil && *client.ArchivedByTrainerID == trainer.ID {
		return client, nil
	}
	return storage.Client{}, ErrForbidden
}

// RequireCoachClient allows only the client's current trainer. Used for
// writes on behalf of a client (goals).
func (g *Guard) RequireCoachClient(ctx context.Context, clientID uuid.UUID) (storage.Trainer, storage.Client, error) {
	trainer, err := g.RequireTrainer(ctx)
	if err != nil {
		return storage.Trainer{}, storage.Client{}, err
	}

	client, found, err := g.storage.GetClient(ctx, clientID)
	if err != nil {
		return storage.Trainer{}, storage.Client{}, err
	}
	if !found {
		return storage.Trainer{}, storage.Client{}, ErrClientNotFound
	}
	if client.CurrentTrainerID == nil || *client.CurrentTrainerID != trainer.ID {
		return storage.Trainer{}, storage.Client{}, ErrForbidden
	}
	return trainer, client, nil
}

func callerID(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := userctx.GetUserID(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
