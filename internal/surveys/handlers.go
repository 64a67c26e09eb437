package surveys

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
)

// HandleSync handles POST /v1/surveys/sync
func HandleSync(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SyncSurveyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		resp, err := service.SyncSurvey(r.Context(), req)
		if err != nil {
			writeSurveysError(w, err)
			return
		}

		status := http.StatusOK
		if resp.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, resp)
	}
}

// HandleList handles GET /v1/clients/{id}/surveys?from=&to=
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid client id format")
			return
		}

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "from and to are required")
			return
		}

		surveys, err := service.ListSurveys(r.Context(), clientID, from, to)
		if err != nil {
			writeSurveysError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SurveysResponse{Surveys: surveys})
	}
}

func writeSurveysError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clients.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", "client not found")
	case errors.Is(err, clients.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidAnswer), errors.Is(err, ErrInvalidRange):
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
