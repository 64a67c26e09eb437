package goals

import (
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

// PutGoalRequest creates or updates the goal interval starting at StartDate.
type PutGoalRequest struct {
	ClientID  uuid.UUID `json:"client_id"`
	StartDate string    `json:"start_date"` // YYYY-MM-DD
	ProteinG  int       `json:"protein_g"`
	FatG      int       `json:"fat_g"`
	CarbsG    int       `json:"carbs_g"`
	FiberG    *int      `json:"fiber_g,omitempty"`
}

// GoalDTO is the API shape of a goal interval.
type GoalDTO struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	StartDate string    `json:"start_date"`
	EndDate   *string   `json:"end_date,omitempty"`
	ProteinG  int       `json:"protein_g"`
	FatG      int       `json:"fat_g"`
	CarbsG    int       `json:"carbs_g"`
	FiberG    *int      `json:"fiber_g,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PutGoalResponse reports the stored goal and whether a new interval was
// created.
type PutGoalResponse struct {
	Goal    GoalDTO `json:"goal"`
	Created bool    `json:"created"`
}

// GoalsResponse is the response for a goal listing.
type GoalsResponse struct {
	Goals []GoalDTO `json:"goals"`
}

func toDTO(g storage.Goal) GoalDTO {
	return GoalDTO{
		ID:        g.ID,
		ClientID:  g.ClientID,
		StartDate: g.StartDate,
		EndDate:   g.EndDate,
		ProteinG:  g.Targets.ProteinG,
		FatG:      g.Targets.FatG,
		CarbsG:    g.Targets.CarbsG,
		FiberG:    g.Targets.FiberG,
		UpdatedAt: g.UpdatedAt,
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
