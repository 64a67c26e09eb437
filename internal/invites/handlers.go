package invites

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/storage"
)

// HandleCreate handles POST /v1/invites
func HandleCreate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invite, err := service.CreateInvite(r.Context())
		if err != nil {
			writeInvitesError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, invite)
	}
}

// HandleList handles GET /v1/invites
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invites, err := service.ListInvites(r.Context())
		if err != nil {
			writeInvitesError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, InvitesResponse{Invites: invites})
	}
}

// HandleDeactivate handles POST /v1/invites/{code}/deactivate
func HandleDeactivate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.PathValue("code")
		if code == "" {
			writeError(w, http.StatusBadRequest, "missing_code", "invite code is required")
			return
		}

		invite, err := service.DeactivateInvite(r.Context(), code)
		if err != nil {
			writeInvitesError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, invite)
	}
}

func writeInvitesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clients.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "invite_not_found", "invite not found")
	case errors.Is(err, storage.ErrInviteNotActive):
		writeError(w, http.StatusConflict, "invite_not_active", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
