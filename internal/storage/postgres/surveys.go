package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avp818/coach-hub/internal/storage"
)

const surveyColumns = `id, client_id, survey_date, motivation, stress, hunger, libido, sleep_hours, water_litres, created_at, updated_at`

func scanSurvey(row pgx.Row) (storage.Survey, error) {
	var sv storage.Survey
	err := row.Scan(
		&sv.ID,
		&sv.ClientID,
		&sv.Date,
		&sv.Motivation,
		&sv.Stress,
		&sv.Hunger,
		&sv.Libido,
		&sv.SleepHours,
		&sv.WaterLitres,
		&sv.CreatedAt,
		&sv.UpdatedAt,
	)
	return sv, err
}

func (s *Store) UpsertSurvey(ctx context.Context, clientID uuid.UUID, date string, up storage.SurveyUpsert) (storage.Survey, bool, error) {
	query := `
		INSERT INTO daily_surveys (id, client_id, survey_date, motivation, stress, hunger, libido, sleep_hours, water_litres, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (client_id, survey_date)
		DO UPDATE SET
			motivation = EXCLUDED.motivation,
			stress = EXCLUDED.stress,
			hunger = EXCLUDED.hunger,
			libido = EXCLUDED.libido,
			sleep_hours = EXCLUDED.sleep_hours,
			water_litres = EXCLUDED.water_litres,
			updated_at = now()
		RETURNING ` + surveyColumns + `, (xmax = 0) AS created
	`

	var sv storage.Survey
	var created bool
	err := s.pool.QueryRow(ctx, query,
		uuid.New(), clientID, date,
		up.Motivation, up.Stress, up.Hunger, up.Libido,
		up.SleepHours, up.WaterLitres,
	).Scan(
		&sv.ID,
		&sv.ClientID,
		&sv.Date,
		&sv.Motivation,
		&sv.Stress,
		&sv.Hunger,
		&sv.Libido,
		&sv.SleepHours,
		&sv.WaterLitres,
		&sv.CreatedAt,
		&sv.UpdatedAt,
		&created,
	)
	if err != nil {
		return storage.Survey{}, false, err
	}

	return sv, created, nil
}

func (s *Store) GetSurvey(ctx context.Context, clientID uuid.UUID, date string) (storage.Survey, bool, error) {
	query := `SELECT ` + surveyColumns + ` FROM daily_surveys WHERE client_id = $1 AND survey_date = $2`
	sv, err := scanSurvey(s.pool.QueryRow(ctx, query, clientID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Survey{}, false, nil
	}
	if err != nil {
		return storage.Survey{}, false, err
	}
	return sv, true, nil
}

func (s *Store) ListSurveys(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.Survey, error) {
	query := `
		SELECT ` + surveyColumns + `
		FROM daily_surveys
		WHERE client_id = $1 AND survey_date >= $2 AND survey_date <= $3
		ORDER BY survey_date ASC
	`
	rows, err := s.pool.Query(ctx, query, clientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surveys := []storage.Survey{}
	for rows.Next() {
		sv, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, sv)
	}

	return surveys, rows.Err()
}
