package dto

import (
	"time"

	"github.com/riseresearch/rise-api/internal/models"
)

// HealthResponse is returned by the liveness probe.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse is returned by the readiness probe.
type ReadyResponse struct {
	Status  string               `json:"status"`
	Checks  map[string]string    `json:"checks"`
	Missing []string             `json:"missingConfiguration,omitempty"`
	Metrics models.SystemMetrics `json:"metrics"`
}
