package measurements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/config"
	"github.com/avp818/coach-hub/internal/storage"
	"github.com/avp818/coach-hub/internal/storage/memory"
	"github.com/avp818/coach-hub/internal/userctx"
)

func f64(v float64) *float64 { return &v }

func setup(t *testing.T) (*Service, context.Context, storage.Client, context.Context) {
	t.Helper()
	store := memory.New()
	guard := clients.NewGuard(store)
	cfg := &config.Config{UploadMaxMB: 1, Blob: config.BlobConfig{Mode: config.BlobModeLocal}}
	service := NewService(store, guard, nil, config.BlobModeLocal, cfg)

	trainerUser, trainer, err := store.CreateTrainerAccount(context.Background(), storage.NewAccount{
		Email: "coach@example.com", PasswordHash: "x", Name: "Coach",
	})
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}

	inv := &storage.Invite{TrainerID: trainer.ID, Code: "111111", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.CreateInvite(context.Background(), inv); err != nil {
		t.Fatalf("create invite: %v", err)
	}
	clientUser, client, _, err := store.CreateClientAccount(context.Background(), storage.NewAccount{
		Email: "client@example.com", PasswordHash: "x", Name: "Client",
	}, "111111", time.Now())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	clientCtx := userctx.WithUserID(context.Background(), clientUser.ID.String())
	trainerCtx := userctx.WithUserID(context.Background(), trainerUser.ID.String())
	return service, clientCtx, client, trainerCtx
}

func TestSyncMeasurementKeysByMonday(t *testing.T) {
	service, ctx, _, _ := setup(t)

	// 2026-03-05 is a Thursday; the row must land on Monday 2026-03-02.
	resp, err := service.SyncMeasurement(ctx, SyncMeasurementRequest{
		Date:    "2026-03-05",
		ChestCm: f64(101.5),
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if resp.Measurement.WeekStart != "2026-03-02" {
		t.Fatalf("expected Monday key, got %s", resp.Measurement.WeekStart)
	}
	if !resp.Created {
		t.Fatal("first sync must create")
	}

	// Another day of the same week updates the same row.
	resp2, err := service.SyncMeasurement(ctx, SyncMeasurementRequest{
		Date:    "2026-03-07",
		ChestCm: f64(102),
	})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if resp2.Created || resp2.Measurement.ID != resp.Measurement.ID {
		t.Fatalf("same week must hit the same row: %+v vs %+v", resp2.Measurement, resp.Measurement)
	}
}

func TestSyncMeasurementMergesSides(t *testing.T) {
	service, ctx, _, _ := setup(t)

	resp, err := service.SyncMeasurement(ctx, SyncMeasurementRequest{
		Date:         "2026-03-02",
		ThighLeftCm:  f64(58),
		ThighRightCm: f64(60),
		ArmLeftCm:    f64(35),
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	m := resp.Measurement
	if m.ThighCm == nil || *m.ThighCm != 59 {
		t.Fatalf("expected thigh average 59, got %v", m.ThighCm)
	}
	if m.ArmCm == nil || *m.ArmCm != 35 {
		t.Fatalf("expected single-side arm 35, got %v", m.ArmCm)
	}
	if m.ChestCm != nil {
		t.Fatalf("absent sites must stay empty, got %v", m.ChestCm)
	}
}

func TestSyncMeasurementReplacesWholeRow(t *testing.T) {
	service, ctx, _, _ := setup(t)

	if _, err := service.SyncMeasurement(ctx, SyncMeasurementRequest{
		Date: "2026-03-02", ChestCm: f64(100), WaistCm: f64(80),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, err := service.SyncMeasurement(ctx, SyncMeasurementRequest{
		Date: "2026-03-02", WaistCm: f64(79),
	})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if resp.Measurement.ChestCm != nil {
		t.Fatalf("omitted field must be cleared, got chest=%v", resp.Measurement.ChestCm)
	}
	if resp.Measurement.WaistCm == nil || *resp.Measurement.WaistCm != 79 {
		t.Fatalf("waist not updated: %+v", resp.Measurement)
	}
}

func TestSyncMeasurementValidation(t *testing.T) {
	service, ctx, _, _ := setup(t)

	if _, err := service.SyncMeasurement(ctx, SyncMeasurementRequest{Date: "bad"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := service.SyncMeasurement(ctx, SyncMeasurementRequest{
		Date: "2026-03-02", ChestCm: f64(-5),
	}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestPhotoUploadAndServeLocal(t *testing.T) {
	service, clientCtx, client, trainerCtx := setup(t)

	photo, err := service.UploadPhoto(clientCtx, "2026-03-04", []byte("jpegbytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if photo.WeekStart != "2026-03-02" {
		t.Fatalf("photo must be keyed by Monday, got %s", photo.WeekStart)
	}

	photos, err := service.ListPhotos(trainerCtx, client.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(photos) != 1 || photos[0].URL == "" {
		t.Fatalf("unexpected photo listing: %+v", photos)
	}

	data, contentType, err := service.PhotoBytes(trainerCtx, client.ID, photo.ID)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if string(data) != "jpegbytes" || contentType != "image/jpeg" {
		t.Fatalf("unexpected blob: %q %q", data, contentType)
	}
}

func TestPhotoUploadLimits(t *testing.T) {
	service, ctx, _, _ := setup(t)

	if _, err := service.UploadPhoto(ctx, "2026-03-02", []byte("x"), "text/plain"); !errors.Is(err, ErrBadContentType) {
		t.Fatalf("expected ErrBadContentType, got %v", err)
	}

	big := make([]byte, 1024*1024+1)
	if _, err := service.UploadPhoto(ctx, "2026-03-02", big, "image/png"); !errors.Is(err, ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}
}
