package invites

import (
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

// InviteDTO is the API shape of an invite code. Status reflects lazy expiry:
// an overdue NEW code reads as expired without a row update.
type InviteDTO struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// InvitesResponse is the response for the invite listing.
type InvitesResponse struct {
	Invites []InviteDTO `json:"invites"`
}

func toDTO(inv storage.Invite, now time.Time) InviteDTO {
	status := inv.Status
	if status == storage.InviteStatusNew && !inv.ExpiresAt.After(now) {
		status = storage.InviteStatusExpired
	}
	return InviteDTO{
		ID:        inv.ID,
		Code:      inv.Code,
		Status:    status,
		ClientID:  inv.ClientID,
		ExpiresAt: inv.ExpiresAt,
		UsedAt:    inv.UsedAt,
		CreatedAt: inv.CreatedAt,
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
