package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/riseresearch/rise-api/pkg/response"
)

// Bundle groups the handlers mounted by RegisterRoutes.
type Bundle struct {
	Identity  *IdentityHandler
	Scheduler *SchedulerHandler
	Calendar  *CalendarHandler
	Invoicing *InvoicingHandler
	Reports   *ReportHandler
	Students  *StudentHandler
	Metrics   *MetricsHandler
}

// FeedPath returns the public route prefix of calendar feeds under prefix.
func FeedPath(prefix string) string {
	return normalisePrefix(prefix) + "/calendar/feed/"
}

func normalisePrefix(prefix string) string {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "/" {
		return ""
	}
	return prefix
}

// RegisterRoutes mounts every endpoint. API routes live under prefix;
// probes and metrics are also served at the root.
func RegisterRoutes(r *gin.Engine, prefix string, hb Bundle) {
	r.GET("/health", hb.Metrics.Health)
	r.GET("/ready", hb.Metrics.Ready)
	r.GET("/metrics", hb.Metrics.Prometheus)

	base := normalisePrefix(prefix)
	api := r.Group(base)
	if base != "" {
		api.GET("/health", hb.Metrics.Health)
	}

	registerIdentityRoutes(api, hb.Identity)
	registerSchedulerRoutes(api, hb.Scheduler, hb.Calendar)
	registerInvoicingRoutes(api, hb.Invoicing)
	api.GET("/pending-reports", hb.Reports.Pending)
	registerStudentRoutes(api, hb.Students)

	r.NoRoute(response.NotFound)
}

func registerIdentityRoutes(api *gin.RouterGroup, h *IdentityHandler) {
	api.POST("/verify-identity-token", h.VerifyToken)
	api.POST("/verify-google-token", h.VerifyToken)
	api.POST("/verify-email", h.VerifyEmail)
	api.GET("/authorized-emails", h.AuthorizedEmails)
}

func registerSchedulerRoutes(api *gin.RouterGroup, h *SchedulerHandler, cal *CalendarHandler) {
	api.POST("/check-eligibility", h.CheckEligibility)
	api.POST("/check-student-eligibility", h.CheckEligibility)
	api.POST("/submit-availability", h.SubmitAvailability)
	api.GET("/time-slots", h.TimeSlots)

	schedules := api.Group("/mentor-schedules/:email")
	schedules.GET("", h.MentorSchedules)
	schedules.GET("/calendar.ics", cal.Download)
	schedules.GET("/calendar-link", cal.Link)
	api.GET("/calendar/feed/:token", cal.Feed)
}

func registerInvoicingRoutes(api *gin.RouterGroup, h *InvoicingHandler) {
	api.GET("/pending-classes/:email", h.PendingClasses)
	api.GET("/pending-classes/:email/export", h.Export)
	api.POST("/validate-classes", h.ValidateClasses)
	api.POST("/raise-discrepancy", h.RaiseDiscrepancy)
}

func registerStudentRoutes(api *gin.RouterGroup, h *StudentHandler) {
	api.GET("/students", h.List)
	api.POST("/students", h.Create)
	api.PUT("/students/:id", h.Update)
	api.DELETE("/students/:id", h.Delete)
}
