package surveys

import (
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

// Bucketed answer vocabularies. The device sends buckets, the server stores
// the numeric midpoints so aggregation works on plain numbers.
var (
	ordinalValues = map[string]int{
		"low":    1,
		"medium": 2,
		"high":   3,
	}

	sleepHours = map[string]float64{
		"<6":  5,
		"6-8": 7,
		">8":  9,
	}

	waterLitres = map[string]float64{
		"<1.5":    1.0,
		"1.5-2.5": 2.0,
		">2.5":    3.0,
	}
)

// SyncSurveyRequest upserts the daily well-being survey. All answers are
// bucket labels; unknown labels are rejected.
type SyncSurveyRequest struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Motivation string `json:"motivation"`
	Stress     string `json:"stress"`
	Hunger     string `json:"hunger"`
	Libido     string `json:"libido"`
	Sleep      string `json:"sleep"`
	Water      string `json:"water"`
}

// SurveyDTO is the API shape of a stored survey.
type SurveyDTO struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	Date        string    `json:"date"`
	Motivation  int       `json:"motivation"`
	Stress      int       `json:"stress"`
	Hunger      int       `json:"hunger"`
	Libido      int       `json:"libido"`
	SleepHours  float64   `json:"sleep_hours"`
	WaterLitres float64   `json:"water_litres"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SyncSurveyResponse reports the stored survey and whether the row was
// created.
type SyncSurveyResponse struct {
	Survey  SurveyDTO `json:"survey"`
	Created bool      `json:"created"`
}

// SurveysResponse is the response for a range listing.
type SurveysResponse struct {
	Surveys []SurveyDTO `json:"surveys"`
}

func toDTO(sv storage.Survey) SurveyDTO {
	return SurveyDTO{
		ID:          sv.ID,
		ClientID:    sv.ClientID,
		Date:        sv.Date,
		Motivation:  sv.Motivation,
		Stress:      sv.Stress,
		Hunger:      sv.Hunger,
		Libido:      sv.Libido,
		SleepHours:  sv.SleepHours,
		WaterLitres: sv.WaterLitres,
		UpdatedAt:   sv.UpdatedAt,
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
