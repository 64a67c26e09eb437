package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

func (s *Store) UpsertMeasurement(ctx context.Context, clientID uuid.UUID, weekStart string, up storage.MeasurementUpsert) (storage.Measurement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weeks := s.measurements[clientID]
	if weeks == nil {
		weeks = map[string]storage.Measurement{}
		s.measurements[clientID] = weeks
	}

	now := time.Now().UTC()
	m, ok := weeks[weekStart]
	created := !ok
	if created {
		m = storage.Measurement{
			ID:        uuid.New(),
			ClientID:  clientID,
			WeekStart: weekStart,
			CreatedAt: now,
		}
	}
	m.ChestCm = up.ChestCm
	m.WaistCm = up.WaistCm
	m.BellyCm = up.BellyCm
	m.ThighCm = up.ThighCm
	m.ArmCm = up.ArmCm
	m.UpdatedAt = now

	weeks[weekStart] = m
	return m, created, nil
}

func (s *Store) GetMeasurement(ctx context.Context, clientID uuid.UUID, weekStart string) (storage.Measurement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.measurements[clientID][weekStart]
	return m, ok, nil
}

func (s *Store) ListMeasurements(ctx context.Context, clientID uuid.UUID, from, to string) ([]storage.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	measurements := []storage.Measurement{}
	for week, m := range s.measurements[clientID] {
		if week >= from && week <= to {
			measurements = append(measurements, m)
		}
	}

	sort.Slice(measurements, func(i, j int) bool { return measurements[i].WeekStart < measurements[j].WeekStart })
	return measurements, nil
}

func (s *Store) LatestMeasurement(ctx context.Context, clientID uuid.UUID) (storage.Measurement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest storage.Measurement
	found := false
	for _, m := range s.measurements[clientID] {
		if !found || m.WeekStart > latest.WeekStart {
			latest = m
			found = true
		}
	}
	return latest, found, nil
}

func (s *Store) AddPhoto(ctx context.Context, photo *storage.MeasurementPhoto) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	photo.CreatedAt = time.Now().UTC()
	s.photos[photo.ClientID] = append(s.photos[photo.ClientID], *photo)
	return nil
}

func (s *Store) ListPhotos(ctx context.Context, clientID uuid.UUID, weekStart string) ([]storage.MeasurementPhoto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos := []storage.MeasurementPhoto{}
	for _, p := range s.photos[clientID] {
		if p.WeekStart == weekStart {
			photos = append(photos, p)
		}
	}
	return photos, nil
}

func (s *Store) GetPhotoBlob(ctx context.Context, photoID uuid.UUID) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.photoBlobs[photoID]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return blob.data, blob.contentType, nil
}

func (s *Store) PutPhotoBlob(ctx context.Context, photoID uuid.UUID, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, photos := range s.photos {
		for _, p := range photos {
			if p.ID == photoID {
				found = true
			}
		}
	}
	if !found {
		return storage.ErrNotFound
	}

	s.photoBlobs[photoID] = photoBlob{data: data, contentType: contentType}
	return nil
}
