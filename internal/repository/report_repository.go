package repository

import (
	"context"

	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/airtable"
)

const (
	fieldStatus           = "Status"
	fieldCounselorEmail   = "Counselor Email"
	fieldCounselorMessage = "Counsellor Message"
	fieldMeetingsTable    = "Meetings HTML Table"
	fieldWeeklySummary    = "Weekly Summary"

	reportPending = "Pending"
)

// PendingReport pairs a report with the counselor responsible for it.
type PendingReport struct {
	CounselorEmail string
	Report         models.StudentReport
}

// ReportRepository reads weekly student reports.
type ReportRepository struct {
	store airtable.Store
	base  string
	table string
}

// NewReportRepository constructs the repository.
func NewReportRepository(store airtable.Store, base, table string) *ReportRepository {
	return &ReportRepository{store: store, base: base, table: table}
}

// ListPending returns reports whose Status is Pending.
func (r *ReportRepository) ListPending(ctx context.Context) ([]PendingReport, error) {
	if err := requireBase("REPORTS_BASE_ID", r.base); err != nil {
		return nil, err
	}
	if err := requireBase("REPORTS_TABLE_ID", r.table); err != nil {
		return nil, err
	}
	records, err := r.store.List(ctx, r.base, r.table, airtable.Query{Filter: airtable.Eq(fieldStatus, reportPending)})
	if err != nil {
		return nil, storeError(err, "list pending reports")
	}
	out := make([]PendingReport, 0, len(records))
	for _, rec := range records {
		f := rec.Fields
		out = append(out, PendingReport{
			CounselorEmail: f.String(fieldCounselorEmail),
			Report: models.StudentReport{
				ID:               rec.ID,
				ProgramID:        f.String(fieldProgramID),
				StudentName:      f.String(fieldStudentName),
				CounselorMessage: f.String(fieldCounselorMessage),
				MeetingsTable:    f.String(fieldMeetingsTable),
				WeeklySummary:    f.String(fieldWeeklySummary),
				Status:           f.String(fieldStatus),
			},
		})
	}
	return out, nil
}
