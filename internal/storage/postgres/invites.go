package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avp818/coach-hub/internal/storage"
)

const inviteColumns = `id, trainer_id, code, status, client_id, expires_at, used_at, created_at`

func scanInvite(row pgx.Row) (storage.Invite, error) {
	var inv storage.Invite
	err := row.Scan(
		&inv.ID,
		&inv.TrainerID,
		&inv.Code,
		&inv.Status,
		&inv.ClientID,
		&inv.ExpiresAt,
		&inv.UsedAt,
		&inv.CreatedAt,
	)
	return inv, err
}

func (s *Store) CreateInvite(ctx context.Context, inv *storage.Invite) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.Status == "" {
		inv.Status = storage.InviteStatusNew
	}

	query := `
		INSERT INTO invite_codes (id, trainer_id, code, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at
	`
	err := s.pool.QueryRow(ctx, query, inv.ID, inv.TrainerID, inv.Code, inv.Status, inv.ExpiresAt).Scan(&inv.CreatedAt)
	if isUniqueViolation(err) {
		return storage.ErrCodeTaken
	}
	return err
}

func (s *Store) GetInviteByCode(ctx context.Context, code string) (storage.Invite, bool, error) {
	query := `SELECT ` + inviteColumns + ` FROM invite_codes WHERE code = $1`
	inv, err := scanInvite(s.pool.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Invite{}, false, nil
	}
	if err != nil {
		return storage.Invite{}, false, err
	}
	return inv, true, nil
}

func (s *Store) ListInvitesByTrainer(ctx context.Context, trainerID uuid.UUID) ([]storage.Invite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM invite_codes
		WHERE trainer_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []storage.Invite{}
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}

	return invites, rows.Err()
}

func (s *Store) DeactivateInvite(ctx context.Context, trainerID uuid.UUID, code string, now time.Time) (storage.Invite, error) {
	// Same conditional-update shape as redemption: only a NEW code moves to
	// expired, a lost race leaves the winner's terminal state untouched.
	query := `
		UPDATE invite_codes
		SET status = $3
		WHERE trainer_id = $1 AND code = $2 AND status = $4
		RETURNING ` + inviteColumns
	inv, err := scanInvite(s.pool.QueryRow(ctx, query, trainerID, code, storage.InviteStatusExpired, storage.InviteStatusNew))
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return storage.Invite{}, err
	}

	existsQuery := `SELECT ` + inviteColumns + ` FROM invite_codes WHERE trainer_id = $1 AND code = $2`
	_, err = scanInvite(s.pool.QueryRow(ctx, existsQuery, trainerID, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Invite{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Invite{}, err
	}
	return storage.Invite{}, storage.ErrInviteNotActive
}

func (s *Store) HasRedeemedInvite(ctx context.Context, trainerID, clientID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invite_codes
			WHERE trainer_id = $1 AND client_id = $2 AND status = $3
		)
	`
	var exists bool
	err := s.pool.QueryRow(ctx, query, trainerID, clientID, storage.InviteStatusUsed).Scan(&exists)
	return exists, err
}
