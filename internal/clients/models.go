package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

// ClientDTO is the API shape of a client profile.
type ClientDTO struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	TrainerID  *uuid.UUID `json:"trainer_id,omitempty"`
	Archived   bool       `json:"archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toDTO(c storage.Client) ClientDTO {
	return ClientDTO{
		ID:         c.ID,
		Name:       c.Name,
		TrainerID:  c.CurrentTrainerID,
		Archived:   c.Archived(),
		ArchivedAt: c.ArchivedAt,
		CreatedAt:  c.CreatedAt,
	}
}

// ClientsResponse is the response for the roster listing.
type ClientsResponse struct {
	Clients []ClientDTO `json:"clients"`
}

// ChangeTrainerRequest is the body for POST /v1/clients/me/trainer.
type ChangeTrainerRequest struct {
	InviteCode string `json:"invite_code"`
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
