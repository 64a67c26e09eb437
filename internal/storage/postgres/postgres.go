// Package postgres implements the storage contracts on top of pgx. All
// multi-row operations (diary sync, account+invite registration, goal
// interval closing) run inside a single transaction with rollback on every
// error path; single-row upserts rely on ON CONFLICT over the unique keys.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avp818/coach-hub/internal/storage"
)

// Store is the Postgres implementation of storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, email, password_hash, role, created_at`

func scanUser(row pgx.Row) (storage.User, error) {
	var u storage.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

func (s *Store) CreateTrainerAccount(ctx context.Context, acc storage.NewAccount) (storage.User, storage.Trainer, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.User{}, storage.Trainer{}, err
	}
	defer tx.Rollback(ctx)

	user, err := insertUser(ctx, tx, acc, storage.RoleTrainer)
	if err != nil {
		return storage.User{}, storage.Trainer{}, err
	}

	trainerQuery := `
		INSERT INTO trainers (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, user_id, name, created_at, updated_at
	`
	var trainer storage.Trainer
	err = tx.QueryRow(ctx, trainerQuery, uuid.New(), user.ID, acc.Name).Scan(
		&trainer.ID, &trainer.UserID, &trainer.Name, &trainer.CreatedAt, &trainer.UpdatedAt,
	)
	if err != nil {
		return storage.User{}, storage.Trainer{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.User{}, storage.Trainer{}, err
	}

	return user, trainer, nil
}

func (s *Store) CreateClientAccount(ctx context.Context, acc storage.NewAccount, code string, now time.Time) (storage.User, storage.Client, storage.Invite, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.User{}, storage.Client{}, storage.Invite{}, err
	}
	defer tx.Rollback(ctx)

	user, err := insertUser(ctx, tx, acc, storage.RoleClient)
	if err != nil {
		return storage.User{}, storage.Client{}, storage.Invite{}, err
	}

	clientID := uuid.New()
	clientQuery := `
		INSERT INTO clients (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
	`
	if _, err := tx.Exec(ctx, clientQuery, clientID, user.ID, acc.Name); err != nil {
		return storage.User{}, storage.Client{}, storage.Invite{}, err
	}

	invite, err := redeemInvite(ctx, tx, code, clientID, now)
	if err != nil {
		// Rolls back the user and client rows created above.
		return storage.User{}, storage.Client{}, storage.Invite{}, err
	}

	assignQuery := `
		UPDATE clients
		SET current_trainer_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + clientColumns
	client, err := scanClient(tx.QueryRow(ctx, assignQuery, clientID, invite.TrainerID))
	if err != nil {
		return storage.User{}, storage.Client{}, storage.Invite{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.User{}, storage.Client{}, storage.Invite{}, err
	}

	return user, client, invite, nil
}

func insertUser(ctx context.Context, tx pgx.Tx, acc storage.NewAccount, role string) (storage.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING ` + userColumns
	user, err := scanUser(tx.QueryRow(ctx, query, uuid.New(), acc.Email, acc.PasswordHash, role))
	if isUniqueViolation(err) {
		return storage.User{}, storage.ErrEmailTaken
	}
	if err != nil {
		return storage.User{}, err
	}
	return user, nil
}

// redeemInvite performs the conditional NEW→USED transition. The WHERE
// clause is the optimistic-concurrency guard: under concurrent redemption of
// the same code exactly one update succeeds, the other sees zero rows and
// fails the enclosing transaction with ErrInviteNotActive. An unexpired
// status check alone is not enough — expires_at is validated in the same
// statement so an overdue NEW code cannot be redeemed either.
func redeemInvite(ctx context.Context, tx pgx.Tx, code string, clientID uuid.UUID, now time.Time) (storage.Invite, error) {
	query := `
		UPDATE invite_codes
		SET status = $3, client_id = $2, used_at = $4
		WHERE code = $1 AND status = $5 AND expires_at > $4
		RETURNING ` + inviteColumns
	invite, err := scanInvite(tx.QueryRow(ctx, query, code, clientID, storage.InviteStatusUsed, now, storage.InviteStatusNew))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Invite{}, storage.ErrInviteNotActive
	}
	if err != nil {
		return storage.Invite{}, err
	}
	return invite, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, bool, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.User{}, false, nil
	}
	if err != nil {
		return storage.User{}, false, err
	}
	return user, true, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (storage.User, bool, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.User{}, false, nil
	}
	if err != nil {
		return storage.User{}, false, err
	}
	return user, true, nil
}

func (s *Store) GetTrainer(ctx context.Context, id uuid.UUID) (storage.Trainer, bool, error) {
	return s.getTrainerBy(ctx, `id`, id)
}

func (s *Store) GetTrainerByUserID(ctx context.Context, userID uuid.UUID) (storage.Trainer, bool, error) {
	return s.getTrainerBy(ctx, `user_id`, userID)
}

func (s *Store) getTrainerBy(ctx context.Context, column string, id uuid.UUID) (storage.Trainer, bool, error) {
	query := `SELECT id, user_id, name, created_at, updated_at FROM trainers WHERE ` + column + ` = $1`
	var t storage.Trainer
	err := s.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Trainer{}, false, nil
	}
	if err != nil {
		return storage.Trainer{}, false, err
	}
	return t, true, nil
}
