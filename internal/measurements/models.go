package measurements

import (
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

// SyncMeasurementRequest upserts the weekly body measurements. Date may be
// any day of the week; the row is keyed by that week's Monday. Thigh and arm
// come as left/right pairs and are stored as one value per site.
type SyncMeasurementRequest struct {
	Date         string   `json:"date"` // YYYY-MM-DD, any day of the target week
	ChestCm      *float64 `json:"chest_cm,omitempty"`
	WaistCm      *float64 `json:"waist_cm,omitempty"`
	BellyCm      *float64 `json:"belly_cm,omitempty"`
	ThighLeftCm  *float64 `json:"thigh_left_cm,omitempty"`
	ThighRightCm *float64 `json:"thigh_right_cm,omitempty"`
	ArmLeftCm    *float64 `json:"arm_left_cm,omitempty"`
	ArmRightCm   *float64 `json:"arm_right_cm,omitempty"`
}

// MeasurementDTO is the API shape of a stored weekly measurement.
type MeasurementDTO struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	WeekStart string    `json:"week_start"`
	ChestCm   *float64  `json:"chest_cm,omitempty"`
	WaistCm   *float64  `json:"waist_cm,omitempty"`
	BellyCm   *float64  `json:"belly_cm,omitempty"`
	ThighCm   *float64  `json:"thigh_cm,omitempty"`
	ArmCm     *float64  `json:"arm_cm,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncMeasurementResponse reports the stored row and whether it was created.
type SyncMeasurementResponse struct {
	Measurement MeasurementDTO `json:"measurement"`
	Created     bool           `json:"created"`
}

// MeasurementsResponse is the response for a range listing.
type MeasurementsResponse struct {
	Measurements []MeasurementDTO `json:"measurements"`
}

// PhotoDTO is a progress photo with a retrievable URL.
type PhotoDTO struct {
	ID          uuid.UUID `json:"id"`
	WeekStart   string    `json:"week_start"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// PhotosResponse is the response for a photo listing.
type PhotosResponse struct {
	Photos []PhotoDTO `json:"photos"`
}

func toDTO(m storage.Measurement) MeasurementDTO {
	return MeasurementDTO{
		ID:        m.ID,
		ClientID:  m.ClientID,
		WeekStart: m.WeekStart,
		ChestCm:   m.ChestCm,
		WaistCm:   m.WaistCm,
		BellyCm:   m.BellyCm,
		ThighCm:   m.ThighCm,
		ArmCm:     m.ArmCm,
		UpdatedAt: m.UpdatedAt,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
