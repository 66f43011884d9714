package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/pkg/response"
)

type schedulerService interface {
	CheckEligibility(ctx context.Context, req dto.EligibilityRequest) (*dto.EligibilityResponse, error)
	Submit(ctx context.Context, req dto.SubmitAvailabilityRequest) (*dto.SubmitAvailabilityResponse, error)
	MentorSchedules(ctx context.Context, email, timezone string) (*dto.MentorSchedulesResponse, error)
	TimeSlots(ctx context.Context, date, timezone string) (*dto.TimeSlotsResponse, error)
}

// SchedulerHandler exposes the availability scheduler.
type SchedulerHandler struct {
	service schedulerService
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(service schedulerService) *SchedulerHandler {
	return &SchedulerHandler{service: service}
}

// CheckEligibility godoc
// @Summary Check whether a student may submit availability
// @Description Not being enrolled is reported with success=false and HTTP 200.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.EligibilityRequest true "Student email"
// @Success 200 {object} dto.EligibilityResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 502 {object} response.ErrorBody
// @Router /check-eligibility [post]
func (h *SchedulerHandler) CheckEligibility(c *gin.Context) {
	var req dto.EligibilityRequest
	if !bindJSON(c, &req, "Email is required") {
		return
	}
	resp, err := h.service.CheckEligibility(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// SubmitAvailability godoc
// @Summary Submit a week of availability
// @Description Accepts encoded availability text or structured selections with a timezone.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.SubmitAvailabilityRequest true "Submission"
// @Success 200 {object} dto.SubmitAvailabilityResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 502 {object} response.ErrorBody
// @Router /submit-availability [post]
func (h *SchedulerHandler) SubmitAvailability(c *gin.Context) {
	var req dto.SubmitAvailabilityRequest
	if !bindJSON(c, &req, "invalid availability submission") {
		return
	}
	resp, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// MentorSchedules godoc
// @Summary List the latest availability of a mentor's programs
// @Tags Scheduler
// @Produce json
// @Param email path string true "Mentor email"
// @Param timezone query string false "Viewer IANA timezone"
// @Success 200 {object} dto.MentorSchedulesResponse
// @Failure 400 {object} response.ErrorBody
// @Router /mentor-schedules/{email} [get]
func (h *SchedulerHandler) MentorSchedules(c *gin.Context) {
	email, ok := requireParam(c, "email", "mentor email is required")
	if !ok {
		return
	}
	resp, err := h.service.MentorSchedules(c.Request.Context(), email, c.Query("timezone"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// TimeSlots godoc
// @Summary List selectable hourly slots
// @Tags Scheduler
// @Produce json
// @Param date query string false "UTC date (YYYY-MM-DD)"
// @Param timezone query string false "Viewer IANA timezone"
// @Success 200 {object} dto.TimeSlotsResponse
// @Failure 400 {object} response.ErrorBody
// @Router /time-slots [get]
func (h *SchedulerHandler) TimeSlots(c *gin.Context) {
	resp, err := h.service.TimeSlots(c.Request.Context(), c.Query("date"), c.Query("timezone"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}
