package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avp818/coach-hub/internal/storage"
)

const goalColumns = `id, client_id, trainer_id, start_date, end_date, protein_g, fat_g, carbs_g, fiber_g, created_at, updated_at`

func scanGoal(row pgx.Row) (storage.Goal, error) {
	var g storage.Goal
	err := row.Scan(
		&g.ID,
		&g.ClientID,
		&g.TrainerID,
		&g.StartDate,
		&g.EndDate,
		&g.Targets.ProteinG,
		&g.Targets.FatG,
		&g.Targets.CarbsG,
		&g.Targets.FiberG,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func (s *Store) PutGoal(ctx context.Context, draft storage.GoalDraft) (storage.Goal, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.Goal{}, false, err
	}
	defer tx.Rollback(ctx)

	// Same start date updates the interval in place, keeping its end date.
	updateQuery := `
		UPDATE nutrition_goals
		SET trainer_id = $3, protein_g = $4, fat_g = $5, carbs_g = $6, fiber_g = $7, updated_at = now()
		WHERE client_id = $1 AND start_date = $2
		RETURNING ` + goalColumns
	goal, err := scanGoal(tx.QueryRow(ctx, updateQuery,
		draft.ClientID, draft.StartDate, draft.TrainerID,
		draft.Targets.ProteinG, draft.Targets.FatG, draft.Targets.CarbsG, draft.Targets.FiberG,
	))
	if err == nil {
		if err := tx.Commit(ctx); err != nil {
			return storage.Goal{}, false, err
		}
		return goal, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return storage.Goal{}, false, err
	}

	// Close every earlier interval that would still cover the new start.
	closeQuery := `
		UPDATE nutrition_goals
		SET end_date = $2, updated_at = now()
		WHERE client_id = $1 AND start_date < $2 AND (end_date IS NULL OR end_date > $2)
	`
	if _, err := tx.Exec(ctx, closeQuery, draft.ClientID, draft.StartDate); err != nil {
		return storage.Goal{}, false, err
	}

	// A later interval caps the new one so intervals stay disjoint.
	insertQuery := `
		INSERT INTO nutrition_goals (id, client_id, trainer_id, start_date, end_date, protein_g, fat_g, carbs_g, fiber_g, created_at, updated_at)
		VALUES (
			$1, $2, $3, $4,
			(SELECT MIN(start_date) FROM nutrition_goals WHERE client_id = $2 AND start_date > $4),
			$5, $6, $7, $8, now(), now()
		)
		RETURNING ` + goalColumns
	goal, err = scanGoal(tx.QueryRow(ctx, insertQuery,
		uuid.New(), draft.ClientID, draft.TrainerID, draft.StartDate,
		draft.Targets.ProteinG, draft.Targets.FatG, draft.Targets.CarbsG, draft.Targets.FiberG,
	))
	if err != nil {
		return storage.Goal{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.Goal{}, false, err
	}

	return goal, true, nil
}

func (s *Store) ListGoals(ctx context.Context, clientID uuid.UUID) ([]storage.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM nutrition_goals
		WHERE client_id = $1
		ORDER BY start_date ASC
	`
	return s.queryGoals(ctx, query, clientID)
}

func (s *Store) ListGoalsOverlapping(ctx context.Context, clientID uuid.UUID, windowStart, windowEnd string) ([]storage.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM nutrition_goals
		WHERE client_id = $1 AND start_date <= $3 AND (end_date IS NULL OR end_date > $2)
		ORDER BY start_date ASC
	`
	return s.queryGoals(ctx, query, clientID, windowStart, windowEnd)
}

func (s *Store) queryGoals(ctx context.Context, query string, args ...any) ([]storage.Goal, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []storage.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}
