package models

import "time"

// AvailabilitySubmission is one student's weekly availability blob.
type AvailabilitySubmission struct {
	ID           string    `json:"id"`
	ProgramID    string    `json:"programId"`
	StudentName  string    `json:"studentName"`
	Week         string    `json:"week"`
	Availability string    `json:"availability"`
	CreatedAt    time.Time `json:"createdTime"`
}

// NewAvailabilitySubmission is the write-side payload for a submission.
type NewAvailabilitySubmission struct {
	ProgramID    string
	StudentName  string
	Week         string
	Availability string
}
