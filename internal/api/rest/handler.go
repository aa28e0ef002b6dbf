package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/g2b-insight/g2b-indexer/internal/api/rest/dto"
	"github.com/g2b-insight/g2b-indexer/internal/ingest"
)

const (
	MIN_DAYS_BACK = 1
	MAX_DAYS_BACK = 31
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// Collect runs one ingestion synchronously and replies with its report
	// POST /collect?days=<days>
	Collect(c *gin.Context)

	// GetStatus returns the report of the latest finished run
	// GET /status
	GetStatus(c *gin.Context)

	// HealthCheck returns the health status of the service
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	baseCtx         context.Context
	orchestrator    ingest.Orchestrator
	defaultDaysBack int
}

// NewHandler creates a new REST API handler.
// Manual runs are canceled when baseCtx is done.
func NewHandler(baseCtx context.Context, orchestrator ingest.Orchestrator, defaultDaysBack int) Handler {
	return &handler{
		baseCtx:         baseCtx,
		orchestrator:    orchestrator,
		defaultDaysBack: defaultDaysBack,
	}
}

// Collect runs one ingestion over the requested number of days
func (h *handler) Collect(c *gin.Context) {
	days := h.defaultDaysBack
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, fmt.Sprintf("days must be an integer, got %q", raw))
			return
		}
		days = parsed
	}
	if days < MIN_DAYS_BACK || days > MAX_DAYS_BACK {
		respondBadRequest(c, fmt.Sprintf("days must be between %d and %d", MIN_DAYS_BACK, MAX_DAYS_BACK))
		return
	}

	// The run outlives a disconnected client but not the service
	runCtx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()
	stop := context.AfterFunc(h.baseCtx, cancel)
	defer stop()

	report, err := h.orchestrator.Run(runCtx, ingest.TriggerManual, days)
	if err != nil {
		if ingest.IsRunInProgress(err) {
			respondConflict(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to run ingestion", zap.Int("days", days))
		return
	}

	c.JSON(http.StatusOK, dto.NewReportResponse(fmt.Sprintf("collected the last %d days", days), report))
}

// GetStatus returns the report of the latest finished run
func (h *handler) GetStatus(c *gin.Context) {
	report, err := h.orchestrator.LastReport(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to load the last run report")
		return
	}
	if report == nil {
		respondNotFound(c, "no run recorded yet")
		return
	}

	running := h.orchestrator.Running()
	response := dto.NewReportResponse(report.Summary(), report)
	response.Running = &running
	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the service
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Running: h.orchestrator.Running(),
	})
}
