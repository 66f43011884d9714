package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/riseresearch/rise-api/internal/availability"
	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/internal/models"
	appErrors "github.com/riseresearch/rise-api/pkg/errors"
)

const (
	notEnrolledMessage    = "No active enrollment found for this email. Please contact your program coordinator."
	futureBookedMessage   = "You have already submitted availability for %s. You can submit again once that week begins."
	weekBookedMessage     = "You have already submitted availability for %s. Please contact an admin to make changes."
	submissionSavedFormat = "Availability for %s submitted successfully."
)

type enrollmentReader interface {
	FindByStudentEmail(ctx context.Context, email string) ([]models.Enrollment, error)
	FindByMentorEmail(ctx context.Context, email string) ([]models.Enrollment, error)
}

type submissionStore interface {
	ListByProgram(ctx context.Context, programID string) ([]models.AvailabilitySubmission, error)
	ListByPrograms(ctx context.Context, programIDs []string) ([]models.AvailabilitySubmission, error)
	FindByProgramWeek(ctx context.Context, programID, week string) ([]models.AvailabilitySubmission, error)
	Create(ctx context.Context, sub models.NewAvailabilitySubmission) (models.AvailabilitySubmission, error)
}

// ScheduleServiceConfig tunes the scheduler.
type ScheduleServiceConfig struct {
	// PreWriteCheck rejects a second submission for the same program and week.
	PreWriteCheck   bool
	DefaultTimezone string
	Now             func() time.Time
}

// ScheduleService implements the availability scheduler.
type ScheduleService struct {
	enrollments enrollmentReader
	submissions submissionStore
	metrics     *MetricsService
	cfg         ScheduleServiceConfig
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewScheduleService builds the service.
func NewScheduleService(enrollments enrollmentReader, submissions submissionStore, metrics *MetricsService, cfg ScheduleServiceConfig, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ScheduleService{
		enrollments: enrollments,
		submissions: submissions,
		metrics:     metrics,
		cfg:         cfg,
		validator:   validate,
		logger:      logger,
	}
}

// CheckEligibility reports whether the student may submit availability and
// for which week. A student without enrollment gets success=false.
func (s *ScheduleService) CheckEligibility(ctx context.Context, req dto.EligibilityRequest) (*dto.EligibilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "a valid email is required")
	}

	enrollments, err := s.enrollments.FindByStudentEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return &dto.EligibilityResponse{Success: false, IsActiveStudent: false, Message: notEnrolledMessage}, nil
	}
	enrollment := enrollments[0]

	subs, err := s.submissions.ListByProgram(ctx, enrollment.ProgramID)
	if err != nil {
		return nil, err
	}

	today := s.cfg.Now().UTC()
	result := availability.CheckEligibility(subs, today)
	resp := &dto.EligibilityResponse{
		Success:               true,
		IsActiveStudent:       true,
		StudentData:           &enrollment,
		HasExistingSubmission: result.Blocking != nil,
		CanSubmit:             result.CanSubmit,
		ExistingAvailability:  result.Blocking,
		TargetWeek:            weekView(result.TargetWeek, today),
	}
	if result.Blocking != nil {
		resp.Message = blockedMessage(result.Blocking, today)
	}
	s.logger.Debug("eligibility checked",
		zap.String("programId", enrollment.ProgramID),
		zap.Bool("canSubmit", result.CanSubmit),
		zap.String("targetWeek", result.TargetWeek.String()))
	return resp, nil
}

// Submit stores a week of availability. The eligibility policy runs first:
// a blocked student gets success=false and only the current target week is
// accepted. Structured selections are encoded server side; otherwise the
// availability text is stored as sent.
func (s *ScheduleService) Submit(ctx context.Context, req dto.SubmitAvailabilityRequest) (*dto.SubmitAvailabilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid availability submission")
	}
	week, err := availability.ParseWeek(req.Week)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "week must be a Monday to Sunday range")
	}

	text := req.Availability
	if len(req.Selections) > 0 {
		loc, err := availability.LoadLocation(req.Timezone)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown timezone")
		}
		text, err = availability.Encode(week, availability.Selections(req.Selections), loc)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability selections")
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "availability must contain at least one time slot")
	}

	today := s.cfg.Now().UTC()
	subs, err := s.submissions.ListByProgram(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	result := availability.CheckEligibility(subs, today)
	if !result.CanSubmit {
		s.metrics.RecordSubmission("blocked")
		s.logger.Info("submission blocked",
			zap.String("programId", req.ProgramID),
			zap.String("week", week.String()),
			zap.String("blockingWeek", result.Blocking.Week))
		return &dto.SubmitAvailabilityResponse{
			Success: false,
			Message: blockedMessage(result.Blocking, today),
			Week:    result.Blocking.Week,
		}, nil
	}
	if target := result.TargetWeek.String(); week.String() != target {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("availability can only be submitted for %s", target))
	}

	// Eligibility and write are not atomic; re-check the exact week.
	if s.cfg.PreWriteCheck {
		existing, err := s.submissions.FindByProgramWeek(ctx, req.ProgramID, week.String())
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			s.metrics.RecordSubmission("duplicate")
			s.logger.Info("duplicate submission rejected", zap.String("programId", req.ProgramID), zap.String("week", week.String()))
			return &dto.SubmitAvailabilityResponse{
				Success: false,
				Message: fmt.Sprintf(weekBookedMessage, week.String()),
				Week:    week.String(),
			}, nil
		}
	}

	created, err := s.submissions.Create(ctx, models.NewAvailabilitySubmission{
		ProgramID:    req.ProgramID,
		StudentName:  req.StudentName,
		Week:         week.String(),
		Availability: text,
	})
	if err != nil {
		s.metrics.RecordSubmission("failed")
		return nil, err
	}
	s.metrics.RecordSubmission("created")
	s.logger.Info("availability submitted", zap.String("programId", req.ProgramID), zap.String("week", week.String()), zap.String("recordId", created.ID))
	return &dto.SubmitAvailabilityResponse{
		Success:  true,
		Message:  fmt.Sprintf(submissionSavedFormat, week.String()),
		RecordID: created.ID,
		Week:     week.String(),
	}, nil
}

func blockedMessage(blocking *models.AvailabilitySubmission, today time.Time) string {
	if week, err := availability.ParseWeek(blocking.Week); err == nil && week.Monday.After(availability.UTCDate(today)) {
		return fmt.Sprintf(futureBookedMessage, blocking.Week)
	}
	return fmt.Sprintf(weekBookedMessage, blocking.Week)
}

// MentorSchedules returns the latest submission of every program the mentor
// leads, decoded for the requested timezone. Programs without submissions
// are omitted.
func (s *ScheduleService) MentorSchedules(ctx context.Context, email, timezone string) (*dto.MentorSchedulesResponse, error) {
	if err := s.validator.Var(email, "required,email"); err != nil {
		return nil, validationError(err, "a valid mentor email is required")
	}
	loc, err := s.location(timezone)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.FindByMentorEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(enrollments))
	names := make(map[string]string, len(enrollments))
	for _, e := range enrollments {
		if e.ProgramID == "" {
			continue
		}
		if _, seen := names[e.ProgramID]; seen {
			continue
		}
		names[e.ProgramID] = e.StudentName
		order = append(order, e.ProgramID)
	}

	subs, err := s.submissions.ListByPrograms(ctx, order)
	if err != nil {
		return nil, err
	}
	byProgram := make(map[string][]models.AvailabilitySubmission, len(order))
	for _, sub := range subs {
		byProgram[sub.ProgramID] = append(byProgram[sub.ProgramID], sub)
	}

	now := s.cfg.Now()
	programs := make([]dto.ProgramSchedule, 0, len(order))
	for _, id := range order {
		latest := availability.Latest(byProgram[id])
		if latest == nil {
			continue
		}
		opts := availability.DecodeOptions{Viewer: loc, Now: now}
		if week, err := availability.ParseWeek(latest.Week); err == nil {
			opts.Week = &week
		}
		name := latest.StudentName
		if name == "" {
			name = names[id]
		}
		programs = append(programs, dto.ProgramSchedule{
			ProgramID:        id,
			StudentName:      name,
			Week:             latest.Week,
			Availability:     latest.Availability,
			CreatedTime:      latest.CreatedAt,
			TotalSubmissions: len(byProgram[id]),
			Days:             availability.Decode(latest.Availability, opts),
		})
	}

	return &dto.MentorSchedulesResponse{
		Success:       true,
		Programs:      programs,
		TotalPrograms: len(programs),
		Timezone:      loc.String(),
	}, nil
}

// TimeSlots lists the selectable hours of date (YYYY-MM-DD, optional) for a
// viewer in timezone.
func (s *ScheduleService) TimeSlots(_ context.Context, date, timezone string) (*dto.TimeSlotsResponse, error) {
	loc, err := s.location(timezone)
	if err != nil {
		return nil, err
	}
	var target *time.Time
	if strings.TrimSpace(date) != "" {
		d, err := time.Parse(availability.DateLayout, strings.TrimSpace(date))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
		}
		target = &d
	}
	return &dto.TimeSlotsResponse{
		Success:  true,
		Date:     strings.TrimSpace(date),
		Timezone: loc.String(),
		Slots:    availability.GenerateSlots(target, loc, s.cfg.Now()),
	}, nil
}

func (s *ScheduleService) location(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.cfg.DefaultTimezone
	}
	loc, err := availability.LoadLocation(name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("unknown timezone %q", name))
	}
	return loc, nil
}

func weekView(w availability.WeekWindow, today time.Time) *dto.Week {
	return &dto.Week{
		Week:  w.String(),
		Start: w.Monday.Format(availability.DateLayout),
		End:   w.Sunday.Format(availability.DateLayout),
		Days:  w.Days(today),
	}
}
