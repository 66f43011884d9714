package models

// StudentReport is a weekly progress report awaiting counselor review.
type StudentReport struct {
	ID               string `json:"id"`
	ProgramID        string `json:"programId"`
	StudentName      string `json:"studentName"`
	CounselorMessage string `json:"counselorMessage"`
	MeetingsTable    string `json:"meetingsTable"`
	WeeklySummary    string `json:"weeklySummary"`
	Status           string `json:"status"`
}

// CounselorReports groups reports by counselor.
type CounselorReports struct {
	CounselorEmail string          `json:"counselorEmail"`
	Reports        []StudentReport `json:"reports"`
	TotalReports   int             `json:"totalReports"`
}
