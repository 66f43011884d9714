package repository

import (
	"context"

	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/airtable"
)

const (
	fieldWeek         = "Week"
	fieldAvailability = "Availability"
)

// AvailabilityRepository reads and appends availability submissions.
type AvailabilityRepository struct {
	store airtable.Store
	base  string
	table string
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(store airtable.Store, base, table string) *AvailabilityRepository {
	return &AvailabilityRepository{store: store, base: base, table: table}
}

// ListByProgram returns all submissions of a program.
func (r *AvailabilityRepository) ListByProgram(ctx context.Context, programID string) ([]models.AvailabilitySubmission, error) {
	return r.list(ctx, airtable.Eq(fieldProgramID, programID), "list submissions")
}

// ListByPrograms returns the submissions of several programs in one query.
func (r *AvailabilityRepository) ListByPrograms(ctx context.Context, programIDs []string) ([]models.AvailabilitySubmission, error) {
	if len(programIDs) == 0 {
		return nil, nil
	}
	filters := make([]airtable.Expr, 0, len(programIDs))
	for _, id := range programIDs {
		filters = append(filters, airtable.Eq(fieldProgramID, id))
	}
	return r.list(ctx, airtable.Or(filters...), "list submissions for programs")
}

// FindByProgramWeek returns the submissions of a program for an exact week string.
func (r *AvailabilityRepository) FindByProgramWeek(ctx context.Context, programID, week string) ([]models.AvailabilitySubmission, error) {
	return r.list(ctx, airtable.And(airtable.Eq(fieldProgramID, programID), airtable.Eq(fieldWeek, week)), "find submission for week")
}

// Create appends a submission. It is never retried.
func (r *AvailabilityRepository) Create(ctx context.Context, sub models.NewAvailabilitySubmission) (models.AvailabilitySubmission, error) {
	if err := requireBase("SCHEDULE_BASE_ID", r.base); err != nil {
		return models.AvailabilitySubmission{}, err
	}
	rec, err := r.store.Create(ctx, r.base, r.table, airtable.Fields{
		fieldProgramID:    sub.ProgramID,
		fieldStudentName:  sub.StudentName,
		fieldWeek:         sub.Week,
		fieldAvailability: sub.Availability,
	})
	if err != nil {
		return models.AvailabilitySubmission{}, storeError(err, "create submission")
	}
	return toSubmission(rec), nil
}

func (r *AvailabilityRepository) list(ctx context.Context, filter airtable.Expr, action string) ([]models.AvailabilitySubmission, error) {
	if err := requireBase("SCHEDULE_BASE_ID", r.base); err != nil {
		return nil, err
	}
	records, err := r.store.List(ctx, r.base, r.table, airtable.Query{Filter: filter})
	if err != nil {
		return nil, storeError(err, action)
	}
	out := make([]models.AvailabilitySubmission, 0, len(records))
	for _, rec := range records {
		out = append(out, toSubmission(rec))
	}
	return out, nil
}

func toSubmission(rec airtable.Record) models.AvailabilitySubmission {
	return models.AvailabilitySubmission{
		ID:           rec.ID,
		ProgramID:    rec.Fields.String(fieldProgramID),
		StudentName:  rec.Fields.String(fieldStudentName),
		Week:         rec.Fields.String(fieldWeek),
		Availability: rec.Fields.String(fieldAvailability),
		CreatedAt:    rec.CreatedTime,
	}
}
