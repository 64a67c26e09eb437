package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avp818/coach-hub/internal/storage"
)

const measurementColumns = `id, client_id, week_start, chest_cm, waist_cm, belly_cm, thigh_cm, arm_cm, created_at, updated_at`

func scanMeasurement(row pgx.Row) (storage.Measurement, error) {
	var m storage.Measurement
	err := row.Scan(
		&m.ID,
		&m.ClientID,
		&m.WeekStart,
		&m.ChestCm,
		&m.WaistCm,
		&m.BellyCm,
		&m.ThighCm,
		&m.ArmCm,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (s *Store) UpsertMeasurement(ctx context.Context, clientID uuid.UUID, weekStart string, up storage.MeasurementUpsert) (storage.Measurement, bool, error) {
	// Whole-payload replace: a null in the new payload overwrites a stored
	// value, fields are never merged across syncs.
	query := `
		INSERT INTO measurements (id, client_id, week_start, chest_cm, waist_cm, belly_cm, thigh_cm, arm_cm, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (client_id, week_start)
		DO UPDATE SET
			chest_cm = EXCLUDED.chest_cm,
			waist_cm = EXCLUDED.waist_cm,
			belly_cm = EXCLUDED.belly_cm,
			thigh_cm = EXCLUDED.thigh_cm,
			arm_cm = EXCLUDED.arm_cm,
			updated_at = now()
		RETURNING ` + measurementColumns + `, (xmax = 0) AS created
	`

	var m storage.Measurement
	var created bool
	err := s.pool.QueryRow(ctx, query,
		uuid.New(), clientID, weekStart,
		up.ChestCm, up.WaistCm, up.BellyCm, up.ThighCm, up.ArmCm,
	).Scan(
		&m.ID,
		&m.ClientID,
		&m.WeekStart,
		&m.ChestCm,
		&m.WaistCm,
		&m.BellyCm,
		&m.ThighCm,
		&m.ArmCm,
		&m.CreatedAt,
		&m.UpdatedAt,
		&created,
	)
	if err != nil {
		return storage.Measurement{}, false, err
	}

	return m, created, nil
}

func (s *Store) GetMeasurement(ctx context.Context, clientID uuid.UUID, weekStart string) (storage.Measurement, bool, error) {
	query := `SELECT ` + measurementColumns + ` FROM measurements WHERE client_id = $1 AND week_start = $2`
	m, err := scanMeasurement(s.pool.QueryRow(ctx, query, clientID, weekStart))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Measurement{}, false, nil
	}
	if err != nil {
		return storage.Measurement{}, false, err
	}
	return m, true, nil
}

func (s *Store) ListMeasurements(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.Measurement, error) {
	query := `
		SELECT ` + measurementColumns + `
		FROM measurements
		WHERE client_id = $1 AND week_start >= $2 AND week_start <= $3
		ORDER BY week_start ASC
	`
	rows, err := s.pool.Query(ctx, query, clientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := []storage.Measurement{}
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}

	return measurements, rows.Err()
}

func (s *Store) LatestMeasurement(ctx context.Context, clientID uuid.UUID) (storage.Measurement, bool, error) {
	query := `
		SELECT ` + measurementColumns + `
		FROM measurements
		WHERE client_id = $1
		ORDER BY week_start DESC
		LIMIT 1
	`
	m, err := scanMeasurement(s.pool.QueryRow(ctx, query, clientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Measurement{}, false, nil
	}
	if err != nil {
		return storage.Measurement{}, false, err
	}
	return m, true, nil
}

func (s *Store) AddPhoto(ctx context.Context, photo *storage.MeasurementPhoto) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}

	query := `
		INSERT INTO measurement_photos (id, client_id, week_start, object_key, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING created_at
	`
	return s.pool.QueryRow(ctx, query,
		photo.ID, photo.ClientID, photo.WeekStart,
		photo.ObjectKey, photo.ContentType, photo.SizeBytes,
	).Scan(&photo.CreatedAt)
}

func (s *Store) ListPhotos(ctx context.Context, clientID uuid.UUID, weekStart string) ([]storage.MeasurementPhoto, error) {
	query := `
		SELECT id, client_id, week_start, object_key, content_type, size_bytes, created_at
		FROM measurement_photos
		WHERE client_id = $1 AND week_start = $2
		ORDER BY created_at ASC
	`
	rows, err := s.pool.Query(ctx, query, clientID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []storage.MeasurementPhoto{}
	for rows.Next() {
		var p storage.MeasurementPhoto
		err := rows.Scan(&p.ID, &p.ClientID, &p.WeekStart, &p.ObjectKey, &p.ContentType, &p.SizeBytes, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}

	return photos, rows.Err()
}

func (s *Store) GetPhotoBlob(ctx context.Context, photoID uuid.UUID) ([]byte, string, error) {
	query := `SELECT data, content_type FROM measurement_photos WHERE id = $1 AND data IS NOT NULL`
	var data []byte
	var contentType string
	err := s.pool.QueryRow(ctx, query, photoID).Scan(&data, &contentType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", storage.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

func (s *Store) PutPhotoBlob(ctx context.Context, photoID uuid.UUID, data []byte, contentType string) error {
	query := `UPDATE measurement_photos SET data = $2, content_type = $3 WHERE id = $1`
	result, err := s.pool.Exec(ctx, query, photoID, data, contentType)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
