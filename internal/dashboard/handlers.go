package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/period"
)

// HandleClientSummaries handles GET /v1/dashboard/clients?today=
func HandleClientSummaries(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := service.ClientSummaries(r.Context(), r.URL.Query().Get("today"))
		if err != nil {
			writeDashboardError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleWeekHistory handles GET /v1/dashboard/clients/{id}/compliance?today=
func HandleWeekHistory(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid client id format")
			return
		}

		resp, err := service.WeekHistory(r.Context(), clientID, r.URL.Query().Get("today"))
		if err != nil {
			writeDashboardError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeDashboardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clients.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", "client not found")
	case errors.Is(err, clients.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, period.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
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
