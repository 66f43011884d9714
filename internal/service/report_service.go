package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/internal/repository"
)

const noCounselorEmail = "No Email"

type pendingReportReader interface {
	ListPending(ctx context.Context) ([]repository.PendingReport, error)
}

// ReportService serves weekly student reports awaiting review.
type ReportService struct {
	reports pendingReportReader
	logger  *zap.Logger
}

// NewReportService builds the service.
func NewReportService(reports pendingReportReader, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{reports: reports, logger: logger}
}

// Pending groups pending reports by counselor email.
func (s *ReportService) Pending(ctx context.Context) (*dto.PendingReportsResponse, error) {
	pending, err := s.reports.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]*models.CounselorReports)
	for _, p := range pending {
		email := p.CounselorEmail
		if email == "" {
			email = noCounselorEmail
		}
		group, ok := grouped[email]
		if !ok {
			group = &models.CounselorReports{CounselorEmail: email, Reports: []models.StudentReport{}}
			grouped[email] = group
		}
		group.Reports = append(group.Reports, p.Report)
		group.TotalReports++
	}

	s.logger.Info("pending reports loaded", zap.Int("reports", len(pending)), zap.Int("counselors", len(grouped)))
	return &dto.PendingReportsResponse{
		Success:        true,
		TotalReports:   len(pending),
		CounselorCount: len(grouped),
		GroupedData:    grouped,
	}, nil
}
