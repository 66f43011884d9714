package dto

import (
	"time"

	"github.com/riseresearch/rise-api/internal/availability"
	"github.com/riseresearch/rise-api/internal/models"
)

// EligibilityRequest asks whether a student may submit availability.
type EligibilityRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Week describes a bookable Monday to Sunday week.
type Week struct {
	Week  string             `json:"week"`
	Start string             `json:"start"`
	End   string             `json:"end"`
	Days  []availability.Day `json:"days"`
}

// EligibilityResponse reports a student's submission state.
type EligibilityResponse struct {
	Success               bool                           `json:"success"`
	IsActiveStudent       bool                           `json:"isActiveStudent"`
	StudentData           *models.Enrollment             `json:"studentData,omitempty"`
	HasExistingSubmission bool                           `json:"hasExistingSubmission"`
	CanSubmit             bool                           `json:"canSubmit"`
	ExistingAvailability  *models.AvailabilitySubmission `json:"existingAvailability,omitempty"`
	TargetWeek            *Week                          `json:"targetWeek,omitempty"`
	Message               string                         `json:"message,omitempty"`
}

// SubmitAvailabilityRequest stores a week of availability. Either the
// encoded availability text or structured selections with a timezone is
// required.
type SubmitAvailabilityRequest struct {
	ProgramID    string           `json:"programId" validate:"required"`
	StudentName  string           `json:"studentName" validate:"required"`
	Week         string           `json:"week" validate:"required"`
	Availability string           `json:"availability" validate:"required_without=Selections"`
	Selections   map[string][]int `json:"selections" validate:"required_without=Availability,omitempty,dive,keys,datetime=2006-01-02,endkeys,dive,min=0,max=23"`
	Timezone     string           `json:"timezone" validate:"required_with=Selections,omitempty,timezone"`
}

// SubmitAvailabilityResponse acknowledges a submission.
type SubmitAvailabilityResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	RecordID string `json:"recordId,omitempty"`
	Week     string `json:"week,omitempty"`
}

// ProgramSchedule is the latest submission of one mentored program.
type ProgramSchedule struct {
	ProgramID        string                  `json:"programId"`
	StudentName      string                  `json:"studentName"`
	Week             string                  `json:"week"`
	Availability     string                  `json:"availability"`
	CreatedTime      time.Time               `json:"createdTime"`
	TotalSubmissions int                     `json:"totalSubmissions"`
	Days             []availability.DayBlock `json:"days"`
}

// MentorSchedulesResponse lists a mentor's programs with availability.
type MentorSchedulesResponse struct {
	Success       bool              `json:"success"`
	Programs      []ProgramSchedule `json:"programs"`
	TotalPrograms int               `json:"totalPrograms"`
	Timezone      string            `json:"timezone"`
}

// TimeSlotsResponse lists selectable hours for a date.
type TimeSlotsResponse struct {
	Success  bool                    `json:"success"`
	Date     string                  `json:"date,omitempty"`
	Timezone string                  `json:"timezone"`
	Slots    []availability.TimeSlot `json:"slots"`
}

// CalendarLinkResponse returns a subscribable calendar URL.
type CalendarLinkResponse struct {
	Success   bool      `json:"success"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
