package dto

import "github.com/riseresearch/rise-api/internal/models"

// PendingReportsResponse groups pending reports by counselor.
type PendingReportsResponse struct {
	Success        bool                                `json:"success"`
	TotalReports   int                                 `json:"totalReports"`
	CounselorCount int                                 `json:"counselorCount"`
	GroupedData    map[string]*models.CounselorReports `json:"groupedData"`
}
