package reports

import "github.com/google/uuid"

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// ReportRequest describes the window and format of a weekly report. Week is
// any date inside the wanted week; From/To override it with a custom range.
type ReportRequest struct {
	ClientID uuid.UUID
	Week     string
	From     string
	To       string
	Format   string
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
