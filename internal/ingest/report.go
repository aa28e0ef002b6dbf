package ingest

import (
	"fmt"
	"time"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
)

// Trigger identifies what started a run
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// Run statuses
const (
	RunStatusSuccess = "success"
	RunStatusPartial = "partial"
	RunStatusFailed  = "failed"
)

// RecordFailure is a record the engine could not write, identified by its natural key
type RecordFailure struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// BatchResult is the per-record outcome of writing one batch
type BatchResult struct {
	Kind      domain.Kind     `json:"kind"`
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Failures  []RecordFailure `json:"failures,omitempty"`
}

// CategoryFailure is a sub-endpoint walk that ended on a fetch failure
type CategoryFailure struct {
	Category domain.Category `json:"category"`
	Error    string          `json:"error"`
}

// StageReport summarizes the collection of one record kind
type StageReport struct {
	Kind             domain.Kind       `json:"kind"`
	Fetched          int               `json:"fetched"`
	Stored           int               `json:"stored"`
	Failed           int               `json:"failed"`
	CategoryFailures []CategoryFailure `json:"category_failures,omitempty"`
	Truncated        []domain.Category `json:"truncated,omitempty"`
	RecordFailures   []RecordFailure   `json:"record_failures,omitempty"`
	Error            string            `json:"error,omitempty"`
	DurationSeconds  float64           `json:"duration_seconds"`
}

// Healthy reports whether the stage collected every category and wrote every record
func (s StageReport) Healthy() bool {
	return s.Error == "" && len(s.CategoryFailures) == 0 && s.Failed == 0
}

// EnrichmentReport summarizes the enrichment post-pass
type EnrichmentReport struct {
	Selected int             `json:"selected"`
	Enriched int             `json:"enriched"`
	Failed   int             `json:"failed"`
	Failures []RecordFailure `json:"failures,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// RunReport is the aggregate record every run produces, even under partial failure
type RunReport struct {
	RunID           string            `json:"run_id"`
	Trigger         Trigger           `json:"trigger"`
	DaysBack        int               `json:"days_back"`
	Window          string            `json:"window"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at"`
	DurationSeconds float64           `json:"duration_seconds"`
	Stages          []StageReport     `json:"stages"`
	Enrichment      *EnrichmentReport `json:"enrichment,omitempty"`
}

// Status classifies the run. A run with an unhealthy stage is partial, or failed
// when nothing was stored at all.
func (r *RunReport) Status() string {
	healthy, stored := true, 0
	for _, s := range r.Stages {
		if !s.Healthy() {
			healthy = false
		}
		stored += s.Stored
	}

	switch {
	case healthy:
		return RunStatusSuccess
	case stored == 0:
		return RunStatusFailed
	default:
		return RunStatusPartial
	}
}

// Totals returns the fetched, stored and failed counts over all stages
func (r *RunReport) Totals() (fetched, stored, failed int) {
	for _, s := range r.Stages {
		fetched += s.Fetched
		stored += s.Stored
		failed += s.Failed
	}
	return fetched, stored, failed
}

// Summary is a one-line human readable description of the run
func (r *RunReport) Summary() string {
	fetched, stored, failed := r.Totals()
	return fmt.Sprintf("run %s (%s) over %s: fetched %d, stored %d, failed %d",
		r.RunID, r.Status(), r.Window, fetched, stored, failed)
}
