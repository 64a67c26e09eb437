package clients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

// HandleList handles GET /v1/clients?archived=1
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		archived := r.URL.Query().Get("archived") == "1"

		clients, err := service.ListClients(r.Context(), archived)
		if err != nil {
			writeClientsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ClientsResponse{Clients: clients})
	}
}

// HandleGet handles GET /v1/clients/{id}
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		client, err := service.GetClient(r.Context(), id)
		if err != nil {
			writeClientsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, client)
	}
}

// HandleArchive handles POST /v1/clients/{id}/archive
func HandleArchive(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		client, err := service.Archive(r.Context(), id)
		if err != nil {
			writeClientsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, client)
	}
}

// HandleUnarchive handles POST /v1/clients/{id}/unarchive
func HandleUnarchive(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		client, err := service.Unarchive(r.Context(), id)
		if err != nil {
			writeClientsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, client)
	}
}

// HandleMe handles GET /v1/clients/me
func HandleMe(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := service.Me(r.Context())
		if err != nil {
			writeClientsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, client)
	}
}

// HandleChangeTrainer handles POST /v1/clients/me/trainer
func HandleChangeTrainer(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChangeTrainerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		client, err := service.ChangeTrainer(r.Context(), req)
		if err != nil {
			writeClientsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, client)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid client id format")
		return uuid.Nil, false
	}
	return id, true
}

func writeClientsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrClientNotFound), errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", "client not found")
	case errors.Is(err, ErrForbidden), errors.Is(err, storage.ErrNotOwned):
		writeError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, ErrCodeRequired):
		writeError(w, http.StatusBadRequest, "code_required", err.Error())
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
