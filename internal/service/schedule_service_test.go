package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/internal/repository"
	"github.com/riseresearch/rise-api/pkg/airtable"
	appErrors "github.com/riseresearch/rise-api/pkg/errors"
)

const (
	testScheduleBase = "appSchedule"
	testEnrollments  = "Enrollments"
	testAvailability = "Availability"
)

func fixedClock(t *testing.T, value string) func() time.Time {
	t.Helper()
	now, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return func() time.Time { return now }
}

type scheduleFixture struct {
	store   *airtable.MemoryStore
	metrics *MetricsService
	svc     *ScheduleService
}

func newScheduleFixture(t *testing.T, now string, preWrite bool) *scheduleFixture {
	t.Helper()
	store := airtable.NewMemoryStore()
	store.SetClock(fixedClock(t, now))
	metrics := NewMetricsService()
	svc := NewScheduleService(
		repository.NewEnrollmentRepository(store, testScheduleBase, testEnrollments),
		repository.NewAvailabilityRepository(store, testScheduleBase, testAvailability),
		metrics,
		ScheduleServiceConfig{PreWriteCheck: preWrite, DefaultTimezone: "UTC", Now: fixedClock(t, now)},
		nil, nil,
	)
	return &scheduleFixture{store: store, metrics: metrics, svc: svc}
}

func (f *scheduleFixture) enroll(programID, student, studentEmail, mentorEmail string) {
	f.store.Seed(testScheduleBase, testEnrollments, airtable.Fields{
		"Program ID":    programID,
		"Student Name":  student,
		"Student Email": studentEmail,
		"Mentor Email":  mentorEmail,
	})
}

func (f *scheduleFixture) submit(programID, student, week, text string, created time.Time) {
	f.store.SeedRecord(testScheduleBase, testAvailability, airtable.Record{
		ID:          "rec" + programID + week[:10],
		CreatedTime: created,
		Fields: airtable.Fields{
			"Program ID":   programID,
			"Student Name": student,
			"Week":         week,
			"Availability": text,
		},
	})
}

func TestCheckEligibilityNotEnrolled(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)

	resp, err := f.svc.CheckEligibility(context.Background(), dto.EligibilityRequest{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.False(t, resp.IsActiveStudent)
	assert.Equal(t, notEnrolledMessage, resp.Message)
}

func TestCheckEligibilityRejectsInvalidEmail(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)

	_, err := f.svc.CheckEligibility(context.Background(), dto.EligibilityRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCheckEligibilityFreshStudent(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	f.enroll("P-1", "Ada", "ada@example.com", "mentor@example.com")

	resp, err := f.svc.CheckEligibility(context.Background(), dto.EligibilityRequest{Email: "ADA@example.com"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.CanSubmit)
	assert.False(t, resp.HasExistingSubmission)
	require.NotNil(t, resp.StudentData)
	assert.Equal(t, "P-1", resp.StudentData.ProgramID)
	require.NotNil(t, resp.TargetWeek)
	assert.Equal(t, "2024-06-17 to 2024-06-23", resp.TargetWeek.Week)
	assert.Equal(t, "2024-06-17", resp.TargetWeek.Start)
	assert.Equal(t, "2024-06-23", resp.TargetWeek.End)
	assert.Len(t, resp.TargetWeek.Days, 7)
}

func TestCheckEligibilityBlockedByFutureWeek(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	f.enroll("P-1", "Ada", "ada@example.com", "mentor@example.com")
	f.submit("P-1", "Ada", "2024-06-17 to 2024-06-23", "blob", time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC))

	resp, err := f.svc.CheckEligibility(context.Background(), dto.EligibilityRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.CanSubmit)
	assert.True(t, resp.HasExistingSubmission)
	require.NotNil(t, resp.ExistingAvailability)
	assert.Equal(t, "2024-06-17 to 2024-06-23", resp.ExistingAvailability.Week)
	assert.Equal(t, "2024-06-24 to 2024-06-30", resp.TargetWeek.Week)
	assert.Contains(t, resp.Message, "once that week begins")
}

func TestCheckEligibilityBlockedOnBookedMonday(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-17T08:00:00Z", true)
	f.enroll("P-1", "Ada", "ada@example.com", "mentor@example.com")
	f.submit("P-1", "Ada", "2024-06-17 to 2024-06-23", "blob", time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC))

	resp, err := f.svc.CheckEligibility(context.Background(), dto.EligibilityRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.False(t, resp.CanSubmit)
	assert.Equal(t, "2024-06-17 to 2024-06-23", resp.TargetWeek.Week)
	assert.Contains(t, resp.Message, "contact an admin")
}

func TestCheckEligibilityStoreFailure(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	f.store.Fail(testScheduleBase, testEnrollments, errors.New("boom"))

	_, err := f.svc.CheckEligibility(context.Background(), dto.EligibilityRequest{Email: "ada@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstream))
}

func TestSubmitEncodesSelections(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)

	resp, err := f.svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
		ProgramID:   "P-1",
		StudentName: "Ada",
		Week:        "2024-06-17 to 2024-06-23",
		Selections:  map[string][]int{"2024-06-17": {14}},
		Timezone:    "America/New_York",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RecordID)
	assert.Equal(t, "2024-06-17 to 2024-06-23", resp.Week)

	records := f.store.Records(testScheduleBase, testAvailability)
	require.Len(t, records, 1)
	text := records[0].Fields.String("Availability")
	assert.Contains(t, text, "Timezone: America/New_York")
	assert.Contains(t, text, "10:00 AM - 11:00 AM EDT (UTC: 14:00 - 15:00)")
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.submissions.WithLabelValues("created")))
}

func TestSubmitStoresTextAsSent(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", false)

	_, err := f.svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
		ProgramID:    "P-1",
		StudentName:  "Ada",
		Week:         " 2024-06-17 to 2024-06-23 ",
		Availability: "Date: Monday, Jun 17\nDay: Monday\n",
	})
	require.NoError(t, err)

	records := f.store.Records(testScheduleBase, testAvailability)
	require.Len(t, records, 1)
	assert.Equal(t, "Date: Monday, Jun 17\nDay: Monday\n", records[0].Fields.String("Availability"))
	assert.Equal(t, "2024-06-17 to 2024-06-23", records[0].Fields.String("Week"))
}

func TestSubmitRejectsDuplicateWeek(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	f.submit("P-1", "Ada", "2024-06-17 to 2024-06-23", "blob", time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC))

	resp, err := f.svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
		ProgramID:    "P-1",
		StudentName:  "Ada",
		Week:         "2024-06-17 to 2024-06-23",
		Availability: "again",
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "2024-06-17 to 2024-06-23", resp.Week)
	assert.Len(t, f.store.Records(testScheduleBase, testAvailability), 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.submissions.WithLabelValues("blocked")))
}

func TestSubmitBlockedByFutureBookingForAnyWeek(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", false)
	f.submit("P-1", "Ada", "2024-06-17 to 2024-06-23", "blob", time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC))

	for _, week := range []string{"2024-06-24 to 2024-06-30", "2024-07-01 to 2024-07-07", "2023-01-02 to 2023-01-08"} {
		resp, err := f.svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
			ProgramID: "P-1", StudentName: "Ada", Week: week, Availability: "x",
		})
		require.NoError(t, err, week)
		assert.False(t, resp.Success, week)
		assert.Equal(t, "2024-06-17 to 2024-06-23", resp.Week)
		assert.Contains(t, resp.Message, "once that week begins")
	}
	assert.Len(t, f.store.Records(testScheduleBase, testAvailability), 1)
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.submissions.WithLabelValues("blocked")))
}

func TestSubmitOnlyAcceptsTargetWeek(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	f.submit("P-1", "Ada", "2024-06-03 to 2024-06-09", "old", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))

	for _, week := range []string{"2024-06-10 to 2024-06-16", "2024-06-24 to 2024-06-30", "2023-01-02 to 2023-01-08"} {
		_, err := f.svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
			ProgramID: "P-1", StudentName: "Ada", Week: week, Availability: "x",
		})
		require.Error(t, err, week)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
		assert.Contains(t, appErrors.FromError(err).Message, "2024-06-17 to 2024-06-23")
	}

	resp, err := f.svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
		ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Availability: "x",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, f.store.Records(testScheduleBase, testAvailability), 2)
}

// staleSubmissions hides every existing record from the eligibility read,
// as if a concurrent submit landed between the read and the write.
type staleSubmissions struct {
	submissionStore
}

func (staleSubmissions) ListByProgram(context.Context, string) ([]models.AvailabilitySubmission, error) {
	return nil, nil
}

func TestSubmitPreWriteGuardCatchesConcurrentSubmit(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	f.submit("P-1", "Ada", "2024-06-17 to 2024-06-23", "blob", time.Date(2024, 6, 12, 9, 59, 0, 0, time.UTC))
	svc := NewScheduleService(
		repository.NewEnrollmentRepository(f.store, testScheduleBase, testEnrollments),
		staleSubmissions{repository.NewAvailabilityRepository(f.store, testScheduleBase, testAvailability)},
		f.metrics,
		ScheduleServiceConfig{PreWriteCheck: true, Now: fixedClock(t, "2024-06-12T10:00:00Z")},
		nil, nil,
	)

	resp, err := svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
		ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Availability: "again",
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Len(t, f.store.Records(testScheduleBase, testAvailability), 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.submissions.WithLabelValues("duplicate")))
}

func TestSubmitValidation(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	ctx := context.Background()

	cases := map[string]dto.SubmitAvailabilityRequest{
		"missing program":   {StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Availability: "x"},
		"no availability":   {ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23"},
		"week not a monday": {ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-18 to 2024-06-24", Availability: "x"},
		"blank text":        {ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Availability: "   "},
		"date outside week": {ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Selections: map[string][]int{"2024-06-24": {1}}, Timezone: "UTC"},
		"hour out of range": {ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Selections: map[string][]int{"2024-06-17": {24}}, Timezone: "UTC"},
		"bad timezone":      {ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Selections: map[string][]int{"2024-06-17": {1}}, Timezone: "Mars/Olympus"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrValidation), err.Error())
		})
	}
	assert.Empty(t, f.store.Records(testScheduleBase, testAvailability))
}

type failingCreates struct {
	submissionStore
}

func (failingCreates) Create(context.Context, models.NewAvailabilitySubmission) (models.AvailabilitySubmission, error) {
	return models.AvailabilitySubmission{}, errors.New("boom")
}

func TestSubmitRecordsFailedWrites(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", false)
	svc := NewScheduleService(
		repository.NewEnrollmentRepository(f.store, testScheduleBase, testEnrollments),
		failingCreates{repository.NewAvailabilityRepository(f.store, testScheduleBase, testAvailability)},
		f.metrics,
		ScheduleServiceConfig{Now: fixedClock(t, "2024-06-12T10:00:00Z")},
		nil, nil,
	)

	_, err := svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
		ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Availability: "x",
	})
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.submissions.WithLabelValues("failed")))
}

func TestSubmitFailsWhenEligibilityReadFails(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", false)
	f.store.Fail(testScheduleBase, testAvailability, errors.New("boom"))

	_, err := f.svc.Submit(context.Background(), dto.SubmitAvailabilityRequest{
		ProgramID: "P-1", StudentName: "Ada", Week: "2024-06-17 to 2024-06-23", Availability: "x",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstream))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.submissions.WithLabelValues("created")))
}

func TestMentorSchedulesUsesLatestSubmission(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	f.enroll("P-1", "Ada", "ada@example.com", "mentor@example.com")
	f.enroll("P-1", "Ada", "ada@example.com", "mentor@example.com")
	f.enroll("P-2", "Grace", "grace@example.com", "mentor@example.com")
	f.enroll("P-3", "Linus", "linus@example.com", "other@example.com")

	older := "Date: Monday, Jun 10\nDay: Monday\nTimezone: UTC\nAvailable Timings (Local Time):\n 1:00 AM - 2:00 AM UTC (UTC: 01:00 - 02:00)\n"
	latest := "Date: Monday, Jun 17\nDay: Monday\nTimezone: America/New_York\nAvailable Timings (Local Time):\n 10:00 AM - 11:00 AM EDT (UTC: 14:00 - 15:00)\n"
	f.submit("P-1", "Ada", "2024-06-10 to 2024-06-16", older, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC))
	f.submit("P-1", "Ada", "2024-06-17 to 2024-06-23", latest, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC))
	f.submit("P-3", "Linus", "2024-06-17 to 2024-06-23", latest, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC))

	resp, err := f.svc.MentorSchedules(context.Background(), "mentor@example.com", "Asia/Tokyo")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Asia/Tokyo", resp.Timezone)
	require.Len(t, resp.Programs, 1)
	assert.Equal(t, 1, resp.TotalPrograms)

	program := resp.Programs[0]
	assert.Equal(t, "P-1", program.ProgramID)
	assert.Equal(t, "2024-06-17 to 2024-06-23", program.Week)
	assert.Equal(t, 2, program.TotalSubmissions)
	require.Len(t, program.Days, 1)
	assert.Equal(t, "2024-06-17", program.Days[0].ISODate)
	require.Len(t, program.Days[0].TimeSlots, 1)
	assert.Equal(t, "11:00 PM - 12:00 AM JST", program.Days[0].TimeSlots[0].Label)
	require.NotNil(t, program.Days[0].TimeSlots[0].UTCHour)
	assert.Equal(t, 14, *program.Days[0].TimeSlots[0].UTCHour)
}

func TestMentorSchedulesRejectsUnknownTimezone(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)

	_, err := f.svc.MentorSchedules(context.Background(), "mentor@example.com", "Nowhere/City")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTimeSlots(t *testing.T) {
	f := newScheduleFixture(t, "2024-06-12T10:30:00Z", true)

	all, err := f.svc.TimeSlots(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "UTC", all.Timezone)
	assert.Len(t, all.Slots, 24)

	today, err := f.svc.TimeSlots(context.Background(), "2024-06-12", "UTC")
	require.NoError(t, err)
	require.NotEmpty(t, today.Slots)
	assert.Equal(t, 11, today.Slots[0].UTCHour)

	_, err = f.svc.TimeSlots(context.Background(), "12/06/2024", "UTC")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
