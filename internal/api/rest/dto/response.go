package dto

import "github.com/g2b-insight/g2b-indexer/internal/ingest"

const (
	STATUS_SUCCESS = "success"
	STATUS_ERROR   = "error"
)

// Response is the envelope of every trigger and status reply
type Response struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	RunStatus string            `json:"run_status,omitempty"`
	Running   *bool             `json:"running,omitempty"`
	Report    *ingest.RunReport `json:"report,omitempty"`
}

// HealthResponse is the reply of the liveness probe
type HealthResponse struct {
	Status  string `json:"status"`
	Running bool   `json:"running"`
}

// NewReportResponse wraps a run report in a success envelope
func NewReportResponse(message string, report *ingest.RunReport) Response {
	return Response{
		Status:    STATUS_SUCCESS,
		Message:   message,
		RunStatus: report.Status(),
		Report:    report,
	}
}
