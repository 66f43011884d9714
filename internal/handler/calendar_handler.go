package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/pkg/response"
)

const calendarContentType = "text/calendar; charset=utf-8"

type calendarService interface {
	MentorCalendar(ctx context.Context, email, timezone string) ([]byte, error)
	Link(ctx context.Context, email string) (*dto.CalendarLinkResponse, error)
	Feed(ctx context.Context, token string) ([]byte, error)
}

// CalendarHandler exports mentor availability as iCalendar.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// Download godoc
// @Summary Download a mentor's availability calendar
// @Tags Calendar
// @Produce text/calendar
// @Param email path string true "Mentor email"
// @Param timezone query string false "Calendar display timezone"
// @Success 200 {string} string "iCalendar document"
// @Router /mentor-schedules/{email}/calendar.ics [get]
func (h *CalendarHandler) Download(c *gin.Context) {
	email, ok := requireParam(c, "email", "mentor email is required")
	if !ok {
		return
	}
	body, err := h.service.MentorCalendar(c.Request.Context(), email, c.Query("timezone"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "availability.ics", calendarContentType, body)
}

// Link godoc
// @Summary Issue a signed calendar subscription link
// @Tags Calendar
// @Produce json
// @Param email path string true "Mentor email"
// @Success 200 {object} dto.CalendarLinkResponse
// @Router /mentor-schedules/{email}/calendar-link [get]
func (h *CalendarHandler) Link(c *gin.Context) {
	email, ok := requireParam(c, "email", "mentor email is required")
	if !ok {
		return
	}
	resp, err := h.service.Link(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// Feed godoc
// @Summary Serve a calendar feed from a signed link
// @Tags Calendar
// @Produce text/calendar
// @Param token path string true "Signed token"
// @Success 200 {string} string "iCalendar document"
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /calendar/feed/{token} [get]
func (h *CalendarHandler) Feed(c *gin.Context) {
	token, ok := requireParam(c, "token", "calendar token is required")
	if !ok {
		return
	}
	body, err := h.service.Feed(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, calendarContentType, body)
}
