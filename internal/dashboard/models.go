package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// DayPoint is one day of the compliance history.
type DayPoint struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// WeekHistoryResponse is the 7-day compliance history, oldest first.
type WeekHistoryResponse struct {
	ClientID uuid.UUID  `json:"client_id"`
	Points   []DayPoint `json:"points"`
}

// ClientSummary is one roster row on the trainer dashboard.
type ClientSummary struct {
	ClientID              uuid.UUID  `json:"client_id"`
	Name                  string     `json:"name"`
	ComplianceScore       float64    `json:"compliance_score"`
	LatestMeasurementWeek *string    `json:"latest_measurement_week,omitempty"`
	LastSyncDate          *string    `json:"last_sync_date,omitempty"`
	LastSyncAt            *time.Time `json:"last_sync_at,omitempty"`
}

// ClientSummariesResponse is the response for the trainer dashboard listing.
type ClientSummariesResponse struct {
	Clients []ClientSummary `json:"clients"`
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
