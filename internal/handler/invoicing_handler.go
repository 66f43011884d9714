package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/response"
)

type invoicingService interface {
	PendingClasses(ctx context.Context, email string) (*models.PendingClasses, error)
	ExportPendingClasses(ctx context.Context, email, format string) (string, string, []byte, error)
	ValidateClasses(ctx context.Context, req dto.ValidateClassesRequest) (*dto.ValidateClassesResponse, error)
	RaiseDiscrepancy(ctx context.Context, req dto.RaiseDiscrepancyRequest) (*dto.RaiseDiscrepancyResponse, error)
}

// InvoicingHandler exposes mentor invoicing endpoints.
type InvoicingHandler struct {
	service invoicingService
}

// NewInvoicingHandler constructs the handler.
func NewInvoicingHandler(service invoicingService) *InvoicingHandler {
	return &InvoicingHandler{service: service}
}

// PendingClasses godoc
// @Summary List a mentor's classes awaiting payment
// @Tags Invoicing
// @Produce json
// @Param email path string true "Mentor email"
// @Success 200 {object} dto.PendingClassesResponse
// @Failure 400 {object} response.ErrorBody
// @Router /pending-classes/{email} [get]
func (h *InvoicingHandler) PendingClasses(c *gin.Context) {
	email, ok := requireParam(c, "email", "Email parameter is required")
	if !ok {
		return
	}
	pending, err := h.service.PendingClasses(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.PendingClassesResponse{Success: true, PendingClasses: *pending})
}

// Export godoc
// @Summary Export a mentor's pending classes
// @Tags Invoicing
// @Produce text/csv,application/pdf
// @Param email path string true "Mentor email"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /pending-classes/{email}/export [get]
func (h *InvoicingHandler) Export(c *gin.Context) {
	email, ok := requireParam(c, "email", "Email parameter is required")
	if !ok {
		return
	}
	filename, contentType, body, err := h.service.ExportPendingClasses(c.Request.Context(), email, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, contentType, body)
}

// ValidateClasses godoc
// @Summary Confirm classes and create an invoice
// @Tags Invoicing
// @Accept json
// @Produce json
// @Param payload body dto.ValidateClassesRequest true "Classes to confirm"
// @Success 200 {object} dto.ValidateClassesResponse
// @Failure 400 {object} response.ErrorBody
// @Router /validate-classes [post]
func (h *InvoicingHandler) ValidateClasses(c *gin.Context) {
	var req dto.ValidateClassesRequest
	if !bindJSON(c, &req, "Program ID and class IDs array are required") {
		return
	}
	resp, err := h.service.ValidateClasses(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// RaiseDiscrepancy godoc
// @Summary Record an issue against classes
// @Tags Invoicing
// @Accept json
// @Produce json
// @Param payload body dto.RaiseDiscrepancyRequest true "Discrepancy"
// @Success 200 {object} dto.RaiseDiscrepancyResponse
// @Failure 400 {object} response.ErrorBody
// @Router /raise-discrepancy [post]
func (h *InvoicingHandler) RaiseDiscrepancy(c *gin.Context) {
	var req dto.RaiseDiscrepancyRequest
	if !bindJSON(c, &req, "Program ID, class IDs array, and issues are required") {
		return
	}
	resp, err := h.service.RaiseDiscrepancy(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}
