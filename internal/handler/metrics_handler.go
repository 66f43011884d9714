package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/internal/service"
	"github.com/riseresearch/rise-api/pkg/response"
)

const healthMessage = "RISE Research Backend Server is running"

// ReadinessCheck probes one dependency.
type ReadinessCheck func(ctx context.Context) error

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	missing []string
	checks  map[string]ReadinessCheck
}

// NewMetricsHandler constructs a metrics handler. missing lists record-store
// settings that are not configured.
func NewMetricsHandler(metrics *service.MetricsService, missing []string, checks map[string]ReadinessCheck) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, missing: missing, checks: checks}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness probe
// @Tags Operations
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	response.OK(c, dto.HealthResponse{Status: "ok", Message: healthMessage, Timestamp: time.Now().UTC()})
}

// Ready godoc
// @Summary Readiness probe
// @Description Reports missing record-store configuration and dependency checks.
// @Tags Operations
// @Produce json
// @Success 200 {object} dto.ReadyResponse
// @Failure 503 {object} dto.ReadyResponse
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := dto.ReadyResponse{Status: "ready", Checks: make(map[string]string, len(h.checks)), Missing: h.missing}
	if len(h.missing) > 0 {
		resp.Status = "degraded"
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}
	resp.Metrics = h.metrics.Snapshot()

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	response.JSON(c, status, resp)
}
