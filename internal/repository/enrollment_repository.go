package repository

import (
	"context"

	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/airtable"
)

const (
	fieldProgramID    = "Program ID"
	fieldStudentName  = "Student Name"
	fieldStudentEmail = "Student Email"
	fieldMentorEmail  = "Mentor Email"
)

// EnrollmentRepository reads student-program enrollments from the schedule base.
type EnrollmentRepository struct {
	store airtable.Store
	base  string
	table string
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(store airtable.Store, base, table string) *EnrollmentRepository {
	return &EnrollmentRepository{store: store, base: base, table: table}
}

// FindByStudentEmail returns every enrollment of a student.
func (r *EnrollmentRepository) FindByStudentEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	return r.find(ctx, airtable.EqFold(fieldStudentEmail, email), "find enrollments by student")
}

// FindByMentorEmail returns every enrollment mentored by email.
func (r *EnrollmentRepository) FindByMentorEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	return r.find(ctx, airtable.EqFold(fieldMentorEmail, email), "find enrollments by mentor")
}

func (r *EnrollmentRepository) find(ctx context.Context, filter airtable.Expr, action string) ([]models.Enrollment, error) {
	if err := requireBase("SCHEDULE_BASE_ID", r.base); err != nil {
		return nil, err
	}
	records, err := r.store.List(ctx, r.base, r.table, airtable.Query{Filter: filter})
	if err != nil {
		return nil, storeError(err, action)
	}
	out := make([]models.Enrollment, 0, len(records))
	for _, rec := range records {
		out = append(out, models.Enrollment{
			ID:           rec.ID,
			ProgramID:    rec.Fields.String(fieldProgramID),
			StudentName:  rec.Fields.String(fieldStudentName),
			StudentEmail: rec.Fields.String(fieldStudentEmail),
			MentorEmail:  rec.Fields.String(fieldMentorEmail),
		})
	}
	return out, nil
}
