package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avp818/coach-hub/internal/storage"
)

const clientColumns = `id, user_id, name, current_trainer_id, archived_at, archived_by_trainer_id, created_at, updated_at`

func scanClient(row pgx.Row) (storage.Client, error) {
	var c storage.Client
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.CurrentTrainerID,
		&c.ArchivedAt,
		&c.ArchivedByTrainerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (storage.Client, bool, error) {
	return s.getClientBy(ctx, `id`, id)
}

func (s *Store) GetClientByUserID(ctx context.Context, userID uuid.UUID) (storage.Client, bool, error) {
	return s.getClientBy(ctx, `user_id`, userID)
}

func (s *Store) getClientBy(ctx context.Context, column string, id uuid.UUID) (storage.Client, bool, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE ` + column + ` = $1`
	client, err := scanClient(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Client{}, false, nil
	}
	if err != nil {
		return storage.Client{}, false, err
	}
	return client, true, nil
}

func (s *Store) ListClientsByTrainer(ctx context.Context, trainerID uuid.UUID, archived bool) ([]storage.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE current_trainer_id = $1
		ORDER BY name ASC
	`
	if archived {
		query = `
			SELECT ` + clientColumns + `
			FROM clients
			WHERE archived_by_trainer_id = $1 AND archived_at IS NOT NULL
			ORDER BY archived_at DESC
		`
	}

	rows, err := s.pool.Query(ctx, query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []storage.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

func (s *Store) ArchiveClient(ctx context.Context, trainerID, clientID uuid.UUID, now time.Time) (storage.Client, error) {
	query := `
		UPDATE clients
		SET archived_at = $3, archived_by_trainer_id = $1, current_trainer_id = NULL, updated_at = $3
		WHERE id = $2 AND current_trainer_id = $1
		RETURNING ` + clientColumns
	client, err := scanClient(s.pool.QueryRow(ctx, query, trainerID, clientID, now))
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return storage.Client{}, err
	}

	// Zero rows: either the client is unknown, already archived (idempotent
	// no-op), or belongs to a different trainer.
	client, found, err := s.GetClient(ctx, clientID)
	if err != nil {
		return storage.Client{}, err
	}
	if !found {
		return storage.Client{}, storage.ErrNotFound
	}
	if client.Archived() {
		return client, nil
	}
	return storage.Client{}, storage.ErrNotOwned
}

func (s *Store) UnarchiveClient(ctx context.Context, trainerID, clientID uuid.UUID) (storage.Client, error) {
	query := `
		UPDATE clients
		SET current_trainer_id = $1, archived_at = NULL, archived_by_trainer_id = NULL, updated_at = now()
		WHERE id = $2 AND archived_at IS NOT NULL
		RETURNING ` + clientColumns
	client, err := scanClient(s.pool.QueryRow(ctx, query, trainerID, clientID))
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return storage.Client{}, err
	}

	client, found, err := s.GetClient(ctx, clientID)
	if err != nil {
		return storage.Client{}, err
	}
	if !found {
		return storage.Client{}, storage.ErrNotFound
	}
	if client.CurrentTrainerID != nil && *client.CurrentTrainerID == trainerID {
		// Already active with this trainer.
		return client, nil
	}
	return storage.Client{}, storage.ErrNotOwned
}

func (s *Store) ChangeTrainer(ctx context.Context, clientID uuid.UUID, code string, now time.Time) (storage.Client, storage.Invite, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.Client{}, storage.Invite{}, err
	}
	defer tx.Rollback(ctx)

	invite, err := redeemInvite(ctx, tx, code, clientID, now)
	if err != nil {
		return storage.Client{}, storage.Invite{}, err
	}

	query := `
		UPDATE clients
		SET current_trainer_id = $2, archived_at = NULL, archived_by_trainer_id = NULL, updated_at = now()
		WHERE id = $1
		RETURNING ` + clientColumns
	client, err := scanClient(tx.QueryRow(ctx, query, clientID, invite.TrainerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Client{}, storage.Invite{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Client{}, storage.Invite{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.Client{}, storage.Invite{}, err
	}

	return client, invite, nil
}
