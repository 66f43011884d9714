package repository

import (
	"context"
	"time"

	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/airtable"
)

const (
	fieldHostEmail          = "Host Email"
	fieldPaymentStatus      = "Payment Status"
	fieldDate               = "Date"
	fieldMeetingStatus      = "Meeting Status"
	fieldDuration           = "Duration (Minutes)"
	fieldMeetingNumber      = "Meeting Number"
	fieldRecordingLink      = "Recording Link"
	fieldTranscriptLink     = "Transcript Link"
	fieldStartTime          = "Start Time"
	fieldEndTime            = "End Time"
	fieldIssues             = "Issues"
	fieldMentorConfirmation = "Mentor Confirmation"

	paymentPending     = "Pending"
	minInvoiceDuration = 45
)

// PendingClassQuery selects classes awaiting payment.
type PendingClassQuery struct {
	HostEmail string
	After     time.Time
	Through   time.Time
}

// ClassRepository reads and annotates classes in the invoicing base.
type ClassRepository struct {
	store airtable.Store
	base  string
	table string
}

// NewClassRepository constructs the repository.
func NewClassRepository(store airtable.Store, base, table string) *ClassRepository {
	return &ClassRepository{store: store, base: base, table: table}
}

// ListPending returns completed or missed classes of at least 45 minutes
// hosted by the mentor, dated after q.After and on or before q.Through.
func (r *ClassRepository) ListPending(ctx context.Context, q PendingClassQuery) ([]models.Class, error) {
	if err := requireBase("INVOICING_BASE_ID", r.base); err != nil {
		return nil, err
	}
	filter := airtable.And(
		airtable.Eq(fieldHostEmail, q.HostEmail),
		airtable.Eq(fieldPaymentStatus, paymentPending),
		airtable.After(fieldDate, q.After),
		airtable.OnOrBefore(fieldDate, q.Through),
		airtable.Or(
			airtable.Eq(fieldMeetingStatus, string(models.MeetingStatusCompleted)),
			airtable.Eq(fieldMeetingStatus, string(models.MeetingStatusMissed)),
		),
		airtable.Gte(fieldDuration, minInvoiceDuration),
	)
	records, err := r.store.List(ctx, r.base, r.table, airtable.Query{Filter: filter})
	if err != nil {
		return nil, storeError(err, "list pending classes")
	}
	out := make([]models.Class, 0, len(records))
	for _, rec := range records {
		f := rec.Fields
		out = append(out, models.Class{
			ID:                 rec.ID,
			MeetingNumber:      f.String(fieldMeetingNumber),
			RecordingLink:      f.String(fieldRecordingLink),
			TranscriptLink:     f.String(fieldTranscriptLink),
			Date:               f.String(fieldDate),
			StartTime:          f.String(fieldStartTime),
			EndTime:            f.String(fieldEndTime),
			Duration:           f.Float(fieldDuration),
			ProgramID:          f.String(fieldProgramID),
			MeetingStatus:      models.ParseMeetingStatus(f.String(fieldMeetingStatus)),
			Issues:             f.String(fieldIssues),
			MentorConfirmation: models.ParseMentorConfirmation(f.String(fieldMentorConfirmation)),
		})
	}
	return out, nil
}

// Confirm marks a class as confirmed by its mentor.
func (r *ClassRepository) Confirm(ctx context.Context, id string) error {
	return r.patch(ctx, id, airtable.Fields{fieldMentorConfirmation: string(models.ConfirmationConfirmed)}, "confirm class")
}

// RaiseIssue records a discrepancy against a class.
func (r *ClassRepository) RaiseIssue(ctx context.Context, id, issues string) error {
	return r.patch(ctx, id, airtable.Fields{
		fieldIssues:             issues,
		fieldMentorConfirmation: string(models.ConfirmationIssue),
	}, "raise class issue")
}

func (r *ClassRepository) patch(ctx context.Context, id string, fields airtable.Fields, action string) error {
	if err := requireBase("INVOICING_BASE_ID", r.base); err != nil {
		return err
	}
	if _, err := r.store.Update(ctx, r.base, r.table, id, fields); err != nil {
		return storeError(err, action)
	}
	return nil
}
