package measurements

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/storage"
)

// HandleSync handles POST /v1/measurements/sync
func HandleSync(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SyncMeasurementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		resp, err := service.SyncMeasurement(r.Context(), req)
		if err != nil {
			writeMeasurementsError(w, err)
			return
		}

		status := http.StatusOK
		if resp.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, resp)
	}
}

// HandleGet handles GET /v1/clients/{id}/measurements/{date}
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := parseClientID(w, r)
		if !ok {
			return
		}

		m, err := service.GetMeasurement(r.Context(), clientID, r.PathValue("date"))
		if err != nil {
			writeMeasurementsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, m)
	}
}

// HandleList handles GET /v1/clients/{id}/measurements?from=&to=
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := parseClientID(w, r)
		if !ok {
			return
		}

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "from and to are required")
			return
		}

		rows, err := service.ListMeasurements(r.Context(), clientID, from, to)
		if err != nil {
			writeMeasurementsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MeasurementsResponse{Measurements: rows})
	}
}

// HandleUploadPhoto handles POST /v1/measurements/photos?date=
// The body is the raw image; Content-Type names the format.
func HandleUploadPhoto(service *Service, maxMB int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "date is required")
			return
		}

		limit := int64(maxMB)*1024*1024 + 1
		data, err := io.ReadAll(io.LimitReader(r.Body, limit))
		if err != nil {
			writeError(w, http.StatusBadRequest, "read_failed", "failed to read request body")
			return
		}

		photo, err := service.UploadPhoto(r.Context(), date, data, r.Header.Get("Content-Type"))
		if err != nil {
			writeMeasurementsError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, photo)
	}
}

// HandleListPhotos handles GET /v1/clients/{id}/measurements/{date}/photos
func HandleListPhotos(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := parseClientID(w, r)
		if !ok {
			return
		}

		photos, err := service.ListPhotos(r.Context(), clientID, r.PathValue("date"))
		if err != nil {
			writeMeasurementsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, PhotosResponse{Photos: photos})
	}
}

// HandlePhotoBytes handles GET /v1/clients/{id}/photos/{photoID}
// Serves the bytes of photos stored in the database (local blob mode).
func HandlePhotoBytes(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := parseClientID(w, r)
		if !ok {
			return
		}
		photoID, err := uuid.Parse(r.PathValue("photoID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid photo id format")
			return
		}

		data, contentType, err := service.PhotoBytes(r.Context(), clientID, photoID)
		if err != nil {
			writeMeasurementsError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func parseClientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid client id format")
		return uuid.Nil, false
	}
	return id, true
}

func writeMeasurementsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clients.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", "client not found")
	case errors.Is(err, clients.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "measurement_not_found", "measurement not found")
	case errors.Is(err, ErrPhotoNotFound):
		writeError(w, http.StatusNotFound, "photo_not_found", err.Error())
	case errors.Is(err, ErrPhotoTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "photo_too_large", err.Error())
	case errors.Is(err, ErrBadContentType):
		writeError(w, http.StatusUnsupportedMediaType, "bad_content_type", err.Error())
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidValue), errors.Is(err, ErrInvalidRange):
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
