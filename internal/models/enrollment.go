package models

// Enrollment links a student to a mentored program.
type Enrollment struct {
	ID           string `json:"id,omitempty"`
	ProgramID    string `json:"programId"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	MentorEmail  string `json:"mentorEmail"`
}
