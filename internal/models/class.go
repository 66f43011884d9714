package models

import "strings"

// MeetingStatus is the outcome of a scheduled class.
type MeetingStatus string

const (
	MeetingStatusCompleted MeetingStatus = "Completed"
	MeetingStatusMissed    MeetingStatus = "Missed"
	MeetingStatusUnknown   MeetingStatus = "Unknown"
)

// ParseMeetingStatus maps external text onto a MeetingStatus.
func ParseMeetingStatus(raw string) MeetingStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed":
		return MeetingStatusCompleted
	case "missed":
		return MeetingStatusMissed
	default:
		return MeetingStatusUnknown
	}
}

// MentorConfirmation tracks the mentor's review of a class.
type MentorConfirmation string

const (
	ConfirmationPending   MentorConfirmation = ""
	ConfirmationConfirmed MentorConfirmation = "Class Confirmed"
	ConfirmationIssue     MentorConfirmation = "Issue Raised"
	ConfirmationUnknown   MentorConfirmation = "Unknown"
)

// ParseMentorConfirmation maps external text onto a MentorConfirmation.
func ParseMentorConfirmation(raw string) MentorConfirmation {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return ConfirmationPending
	case "class confirmed":
		return ConfirmationConfirmed
	case "issue raised":
		return ConfirmationIssue
	default:
		return ConfirmationUnknown
	}
}

// Class is a single tutoring session awaiting payment.
type Class struct {
	ID                 string             `json:"id"`
	MeetingNumber      string             `json:"meetingNumber"`
	RecordingLink      string             `json:"recordingLink"`
	TranscriptLink     string             `json:"transcriptLink"`
	Date               string             `json:"date"`
	StartTime          string             `json:"startTime"`
	EndTime            string             `json:"endTime"`
	Duration           float64            `json:"duration"`
	ProgramID          string             `json:"programId"`
	MeetingStatus      MeetingStatus      `json:"meetingStatus"`
	Issues             string             `json:"issues"`
	MentorConfirmation MentorConfirmation `json:"mentorConfirmation"`
}
