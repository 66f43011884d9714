package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/pkg/response"
)

type reportService interface {
	Pending(ctx context.Context) (*dto.PendingReportsResponse, error)
}

// ReportHandler exposes weekly student reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Pending godoc
// @Summary List pending student reports grouped by counselor
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.PendingReportsResponse
// @Failure 500 {object} response.ErrorBody
// @Router /pending-reports [get]
func (h *ReportHandler) Pending(c *gin.Context) {
	resp, err := h.service.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}
