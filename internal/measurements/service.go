package measurements

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/blob"
	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/config"
	"github.com/avp818/coach-hub/internal/period"
	"github.com/avp818/coach-hub/internal/storage"
)

var (
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvalidValue   = errors.New("measurement must be a positive number of centimetres")
	ErrInvalidRange   = errors.New("invalid date range")
	ErrPhotoTooLarge  = errors.New("photo exceeds the upload limit")
	ErrBadContentType = errors.New("unsupported photo content type")
	ErrPhotoNotFound  = errors.New("photo not found")
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/heic": true,
}

// Upper sanity bound for a circumference, in centimetres.
const maxCircumferenceCm = 500

// Service handles weekly measurements and progress photos.
type Service struct {
	storage  storage.MeasurementsStorage
	guard    *clients.Guard
	blob     blob.Store // nil in local mode, bytes then live in the database
	blobMode string
	cfg      *config.Config
}

func NewService(st storage.MeasurementsStorage, guard *clients.Guard, blobStore blob.Store, blobMode string, cfg *config.Config) *Service {
	return &Service{
		storage:  st,
		guard:    guard,
		blob:     blobStore,
		blobMode: blobMode,
		cfg:      cfg,
	}
}

// SyncMeasurement upserts the calling client's measurement row for the week
// containing the given date. The payload replaces the stored row whole.
func (s *Service) SyncMeasurement(ctx context.Context, req SyncMeasurementRequest) (*SyncMeasurementResponse, error) {
	client, err := s.guard.RequireClient(ctx)
	if err != nil {
		return nil, err
	}

	weekStart, err := period.NormalizeWeek(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	up := storage.MeasurementUpsert{
		ChestCm: req.ChestCm,
		WaistCm: req.WaistCm,
		BellyCm: req.BellyCm,
		ThighCm: mergeSides(req.ThighLeftCm, req.ThighRightCm),
		ArmCm:   mergeSides(req.ArmLeftCm, req.ArmRightCm),
	}
	if err := validateValues(req.ChestCm, req.WaistCm, req.BellyCm, req.ThighLeftCm, req.ThighRightCm, req.ArmLeftCm, req.ArmRightCm); err != nil {
		return nil, err
	}

	m, created, err := s.storage.UpsertMeasurement(ctx, client.ID, weekStart, up)
	if err != nil {
		return nil, err
	}

	return &SyncMeasurementResponse{Measurement: toDTO(m), Created: created}, nil
}

// GetMeasurement returns the row for the week containing the given date.
func (s *Service) GetMeasurement(ctx context.Context, clientID uuid.UUID, date string) (*MeasurementDTO, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, err
	}

	weekStart, err := period.NormalizeWeek(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	m, found, err := s.storage.GetMeasurement(ctx, clientID, weekStart)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, storage.ErrNotFound
	}

	dto := toDTO(m)
	return &dto, nil
}

// ListMeasurements returns the weeks in [from, to], oldest first.
func (s *Service) ListMeasurements(ctx context.Context, clientID uuid.UUID, from, to string) ([]MeasurementDTO, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, err
	}

	fromW, err := period.NormalizeWeek(from)
	if err != nil {
		return nil, ErrInvalidRange
	}
	toW, err := period.NormalizeWeek(to)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if fromW > toW {
		return nil, ErrInvalidRange
	}

	rows, err := s.storage.ListMeasurements(ctx, clientID, fromW, toW)
	if err != nil {
		return nil, err
	}

	dtos := make([]MeasurementDTO, len(rows))
	for i, m := range rows {
		dtos[i] = toDTO(m)
	}
	return dtos, nil
}

// UploadPhoto stores a progress photo for the calling client's week. In S3
// mode the bytes go to object storage, in local mode to the database.
func (s *Service) UploadPhoto(ctx context.Context, date string, data []byte, contentType string) (*PhotoDTO, error) {
	client, err := s.guard.RequireClient(ctx)
	if err != nil {
		return nil, err
	}

	weekStart, err := period.NormalizeWeek(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !allowedPhotoTypes[contentType] {
		return nil, ErrBadContentType
	}
	if int64(len(data)) > int64(s.cfg.UploadMaxMB)*1024*1024 {
		return nil, ErrPhotoTooLarge
	}

	photo := &storage.MeasurementPhoto{
		ID:          uuid.New(),
		ClientID:    client.ID,
		WeekStart:   weekStart,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}

	if s.blob != nil {
		key := fmt.Sprintf("photos/%s/%s/%s", client.ID, weekStart, photo.ID)
		if _, err := s.blob.PutObject(ctx, key, data, contentType); err != nil {
			return nil, err
		}
		photo.ObjectKey = &key
		if err := s.storage.AddPhoto(ctx, photo); err != nil {
			return nil, err
		}
	} else {
		if err := s.storage.AddPhoto(ctx, photo); err != nil {
			return nil, err
		}
		if err := s.storage.PutPhotoBlob(ctx, photo.ID, data, contentType); err != nil {
			return nil, err
		}
	}

	dto, err := s.photoDTO(ctx, client.ID, *photo)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// ListPhotos returns the photos of a week with retrievable URLs.
func (s *Service) ListPhotos(ctx context.Context, clientID uuid.UUID, date string) ([]PhotoDTO, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, err
	}

	weekStart, err := period.NormalizeWeek(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	photos, err := s.storage.ListPhotos(ctx, clientID, weekStart)
	if err != nil {
		return nil, err
	}

	dtos := make([]PhotoDTO, len(photos))
	for i, p := range photos {
		dtos[i], err = s.photoDTO(ctx, clientID, p)
		if err != nil {
			return nil, err
		}
	}
	return dtos, nil
}

// PhotoBytes serves the raw bytes of a locally stored photo.
func (s *Service) PhotoBytes(ctx context.Context, clientID, photoID uuid.UUID) ([]byte, string, error) {
	if _, err := s.guard.RequireViewClient(ctx, clientID); err != nil {
		return nil, "", err
	}

	data, contentType, err := s.storage.GetPhotoBlob(ctx, photoID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrPhotoNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

func (s *Service) photoDTO(ctx context.Context, clientID uuid.UUID, p storage.MeasurementPhoto) (PhotoDTO, error) {
	dto := PhotoDTO{
		ID:          p.ID,
		WeekStart:   p.WeekStart,
		ContentType: p.ContentType,
		SizeBytes:   p.SizeBytes,
		CreatedAt:   p.CreatedAt,
	}

	if p.ObjectKey != nil && s.blob != nil {
		url, err := s.blob.PresignGet(ctx, *p.ObjectKey, s.cfg.Blob.S3.PresignTTLSeconds)
		if err != nil {
			return PhotoDTO{}, err
		}
		dto.URL = url
	} else {
		dto.URL = fmt.Sprintf("/v1/clients/%s/photos/%s", clientID, p.ID)
	}
	return dto, nil
}

// mergeSides collapses a left/right pair: both present averages, one present
// wins, none stays empty.
func mergeSides(left, right *float64) *float64 {
	switch {
	case left != nil && right != nil:
		avg := (*left + *right) / 2
		return &avg
	case left != nil:
		return left
	case right != nil:
		return right
	default:
		return nil
	}
}

func validateValues(values ...*float64) error {
	for _, v := range values {
		if v == nil {
			continue
		}
		if *v <= 0 || *v >= maxCircumferenceCm {
			return ErrInvalidValue
		}
	}
	return nil
}
