package dto

import "github.com/riseresearch/rise-api/internal/models"

// PendingClassesResponse wraps the invoicing view of a mentor.
type PendingClassesResponse struct {
	Success bool `json:"success"`
	models.PendingClasses
}

// ValidateClassesRequest confirms classes and raises an invoice.
type ValidateClassesRequest struct {
	ProgramID      string   `json:"programId" validate:"required"`
	ClassIDs       []string `json:"classIds" validate:"required,min=1,dive,required"`
	MentorEmail    string   `json:"mentorEmail" validate:"required,email"`
	MentorName     string   `json:"mentorName" validate:"required"`
	CompletedCount int      `json:"completedCount" validate:"min=0"`
	MissedCount    int      `json:"missedCount" validate:"min=0"`
	TotalAmount    float64  `json:"totalAmount" validate:"min=0"`
	Currency       string   `json:"currency" validate:"omitempty,len=3"`
}

// ValidateClassesResponse reports confirmation and invoice outcome.
type ValidateClassesResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	ProgramID      string          `json:"programId"`
	ValidatedCount int             `json:"validatedCount"`
	FailedClassIDs []string        `json:"failedClassIds,omitempty"`
	InvoiceCreated bool            `json:"invoiceCreated"`
	InvoiceID      string          `json:"invoiceId,omitempty"`
	InvoiceDetails *models.Invoice `json:"invoiceDetails,omitempty"`
	InvoiceError   string          `json:"invoiceError,omitempty"`
}

// RaiseDiscrepancyRequest flags issues against classes.
type RaiseDiscrepancyRequest struct {
	ProgramID string   `json:"programId" validate:"required"`
	ClassIDs  []string `json:"classIds" validate:"required,min=1,dive,required"`
	Issues    string   `json:"issues" validate:"required"`
}

// RaiseDiscrepancyResponse reports how many classes were flagged.
type RaiseDiscrepancyResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ProgramID    string `json:"programId"`
	UpdatedCount int    `json:"updatedCount"`
	TotalClasses int    `json:"totalClasses"`
}
