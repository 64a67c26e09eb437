package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avp818/coach-hub/internal/storage"
)

const diaryColumns = `id, client_id, entry_date, total_protein_g, total_fat_g, total_carbs_g, total_fiber_g, synced, created_at, updated_at`

func scanDiaryDay(row pgx.Row) (storage.DiaryDay, error) {
	var d storage.DiaryDay
	err := row.Scan(
		&d.ID,
		&d.ClientID,
		&d.Date,
		&d.Totals.ProteinG,
		&d.Totals.FatG,
		&d.Totals.CarbsG,
		&d.Totals.FiberG,
		&d.Synced,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func (s *Store) ReplaceDay(ctx context.Context, clientID uuid.UUID, date string, totals storage.MacroTotals, meals []storage.MealDraft) (storage.DiaryDay, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.DiaryDay{}, false, err
	}
	defer tx.Rollback(ctx)

	// xmax = 0 distinguishes a fresh insert from a conflict update.
	upsertQuery := `
		INSERT INTO diary_entries (id, client_id, entry_date, total_protein_g, total_fat_g, total_carbs_g, total_fiber_g, synced, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, now(), now())
		ON CONFLICT (client_id, entry_date)
		DO UPDATE SET
			total_protein_g = EXCLUDED.total_protein_g,
			total_fat_g = EXCLUDED.total_fat_g,
			total_carbs_g = EXCLUDED.total_carbs_g,
			total_fiber_g = EXCLUDED.total_fiber_g,
			synced = true,
			updated_at = now()
		RETURNING ` + diaryColumns + `, (xmax = 0) AS created
	`

	var day storage.DiaryDay
	var created bool
	err = tx.QueryRow(ctx, upsertQuery,
		uuid.New(), clientID, date,
		totals.ProteinG, totals.FatG, totals.CarbsG, totals.FiberG,
	).Scan(
		&day.ID,
		&day.ClientID,
		&day.Date,
		&day.Totals.ProteinG,
		&day.Totals.FatG,
		&day.Totals.CarbsG,
		&day.Totals.FiberG,
		&day.Synced,
		&day.CreatedAt,
		&day.UpdatedAt,
		&created,
	)
	if err != nil {
		return storage.DiaryDay{}, false, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM meal_entries WHERE diary_id = $1`, day.ID); err != nil {
		return storage.DiaryDay{}, false, err
	}

	insertQuery := `
		INSERT INTO meal_entries (id, diary_id, name, time_of_day, protein_g, fat_g, carbs_g, fiber_g, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
	`
	for i, meal := range meals {
		_, err := tx.Exec(ctx, insertQuery,
			uuid.New(), day.ID, meal.Name, meal.TimeOfDay,
			meal.Macros.ProteinG, meal.Macros.FatG, meal.Macros.CarbsG, meal.Macros.FiberG,
			i,
		)
		if err != nil {
			return storage.DiaryDay{}, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.DiaryDay{}, false, err
	}

	return day, created, nil
}

func (s *Store) GetDay(ctx context.Context, clientID uuid.UUID, date string) (storage.DiaryDay, []storage.Meal, bool, error) {
	dayQuery := `SELECT ` + diaryColumns + ` FROM diary_entries WHERE client_id = $1 AND entry_date = $2`
	day, err := scanDiaryDay(s.pool.QueryRow(ctx, dayQuery, clientID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.DiaryDay{}, nil, false, nil
	}
	if err != nil {
		return storage.DiaryDay{}, nil, false, err
	}

	mealsQuery := `
		SELECT id, diary_id, name, time_of_day, protein_g, fat_g, carbs_g, fiber_g, position, created_at
		FROM meal_entries
		WHERE diary_id = $1
		ORDER BY position ASC
	`
	rows, err := s.pool.Query(ctx, mealsQuery, day.ID)
	if err != nil {
		return storage.DiaryDay{}, nil, false, err
	}
	defer rows.Close()

	meals := []storage.Meal{}
	for rows.Next() {
		var m storage.Meal
		err := rows.Scan(
			&m.ID,
			&m.DiaryID,
			&m.Name,
			&m.TimeOfDay,
			&m.Macros.ProteinG,
			&m.Macros.FatG,
			&m.Macros.CarbsG,
			&m.Macros.FiberG,
			&m.Position,
			&m.CreatedAt,
		)
		if err != nil {
			return storage.DiaryDay{}, nil, false, err
		}
		meals = append(meals, m)
	}
	if rows.Err() != nil {
		return storage.DiaryDay{}, nil, false, rows.Err()
	}

	return day, meals, true, nil
}

func (s *Store) ListDays(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.DiaryDay, error) {
	query := `
		SELECT ` + diaryColumns + `
		FROM diary_entries
		WHERE client_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date ASC
	`
	rows, err := s.pool.Query(ctx, query, clientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []storage.DiaryDay{}
	for rows.Next() {
		day, err := scanDiaryDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	return days, rows.Err()
}
