package reports

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/clients"
)

// HandleWeekly handles GET /v1/reports/weekly?client_id=&week=&format=
// Optional from/to override the week with a bounded custom range.
func HandleWeekly(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		clientID, err := uuid.Parse(q.Get("client_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid client id format")
			return
		}

		format := q.Get("format")
		if format == "" {
			format = FormatPDF
		}

		data, contentType, err := service.WeeklyReport(r.Context(), ReportRequest{
			ClientID: clientID,
			Week:     q.Get("week"),
			From:     q.Get("from"),
			To:       q.Get("to"),
			Format:   format,
		})
		if err != nil {
			writeReportsError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func writeReportsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clients.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "client_not_found", "client not found")
	case errors.Is(err, clients.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, ErrInvalidFormat), errors.Is(err, ErrInvalidRange), errors.Is(err, ErrRangeTooWide):
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
