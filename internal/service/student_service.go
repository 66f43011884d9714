package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/airtable"
	appErrors "github.com/riseresearch/rise-api/pkg/errors"
)

type studentStore interface {
	List(ctx context.Context) ([]models.ContactRecord, error)
	Create(ctx context.Context, fields map[string]any) (models.ContactRecord, error)
	Update(ctx context.Context, id string, fields map[string]any) (models.ContactRecord, error)
	Delete(ctx context.Context, id string) (airtable.DeleteResult, error)
}

// StudentService proxies the Students contact table.
type StudentService struct {
	repo   studentStore
	logger *zap.Logger
}

// NewStudentService builds the service.
func NewStudentService(repo studentStore, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, logger: logger}
}

// List returns every student record.
func (s *StudentService) List(ctx context.Context) ([]models.ContactRecord, error) {
	return s.repo.List(ctx)
}

// Create stores a student from raw fields.
func (s *StudentService) Create(ctx context.Context, fields map[string]any) (*models.ContactRecord, error) {
	if len(fields) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student fields are required")
	}
	rec, err := s.repo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.String("id", rec.ID))
	return &rec, nil
}

// Update patches the given fields of a student.
func (s *StudentService) Update(ctx context.Context, id string, fields map[string]any) (*models.ContactRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if len(fields) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student fields are required")
	}
	rec, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student updated", zap.String("id", id))
	return &rec, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id string) (*airtable.DeleteResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student deleted", zap.String("id", id))
	return &res, nil
}
