package goals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
)

// HandlePut handles PUT /v1/goals
func HandlePut(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PutGoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		resp, err := service.PutGoal(r.Context(), req)
		if err != nil {
			writeGoalsError(w, err)
			return
		}

		status := http.StatusOK
		if resp.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, resp)
	}
}

// HandleList handles GET /v1/clients/{id}/goals
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid client id format")
			return
		}

		goals, err := service.ListGoals(r.Context(), clientID)
		if err != nil {
			writeGoalsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, GoalsResponse{Goals: goals})
	}
}

func writeGoalsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clients.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", "client not found")
	case errors.Is(err, clients.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTargets):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
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
