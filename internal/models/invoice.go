package models

import "time"

// Rate is a mentor's per-class fee.
type Rate struct {
	Amount   float64 `json:"rate"`
	Currency string  `json:"currency"`
	Raw      string  `json:"rateString"`
}

// DateRange is an invoicing window of calendar dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ProgramClasses groups pending classes of one program.
type ProgramClasses struct {
	Classes         []Class `json:"classes"`
	CompletedCount  int     `json:"completedCount"`
	MissedCount     int     `json:"missedCount"`
	TotalAmount     float64 `json:"totalAmount"`
	Currency        string  `json:"currency"`
	FormattedAmount string  `json:"formattedAmount"`
	HasIssues       bool    `json:"hasIssues"`
}

// PendingClasses is the invoicing view for one mentor.
type PendingClasses struct {
	TotalClasses int                        `json:"totalClasses"`
	ProgramCount int                        `json:"programCount"`
	GroupedData  map[string]*ProgramClasses `json:"groupedData"`
	DateRange    DateRange                  `json:"dateRange"`
	RateInfo     Rate                       `json:"rateInfo"`
}

// Invoice is the record created after a mentor validates classes.
type Invoice struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Month            string    `json:"month"`
	ClassesThisMonth float64   `json:"classesThisMonth"`
	TotalAmount      string    `json:"totalAmount"`
	CreatedAt        time.Time `json:"-"`
}
