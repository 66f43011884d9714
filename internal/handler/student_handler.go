package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/airtable"
	"github.com/riseresearch/rise-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context) ([]models.ContactRecord, error)
	Create(ctx context.Context, fields map[string]any) (*models.ContactRecord, error)
	Update(ctx context.Context, id string, fields map[string]any) (*models.ContactRecord, error)
	Delete(ctx context.Context, id string) (*airtable.DeleteResult, error)
}

// StudentHandler proxies the Students contact table.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service studentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {array} models.ContactRecord
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// Create godoc
// @Summary Create a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body map[string]interface{} true "Record fields"
// @Success 200 {object} models.ContactRecord
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var fields map[string]any
	if !bindJSON(c, &fields, "student fields must be a JSON object") {
		return
	}
	rec, err := h.service.Create(c.Request.Context(), fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body map[string]interface{} true "Fields to change"
// @Success 200 {object} models.ContactRecord
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := requireParam(c, "id", "student id is required")
	if !ok {
		return
	}
	var fields map[string]any
	if !bindJSON(c, &fields, "student fields must be a JSON object") {
		return
	}
	rec, err := h.service.Update(c.Request.Context(), id, fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rec)
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} airtable.DeleteResult
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := requireParam(c, "id", "student id is required")
	if !ok {
		return
	}
	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
