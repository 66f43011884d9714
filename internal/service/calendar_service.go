package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/riseresearch/rise-api/internal/availability"
	"github.com/riseresearch/rise-api/internal/dto"
	appErrors "github.com/riseresearch/rise-api/pkg/errors"
	"github.com/riseresearch/rise-api/pkg/signedurl"
)

const calendarPurpose = "calendar"

type mentorScheduleSource interface {
	MentorSchedules(ctx context.Context, email, timezone string) (*dto.MentorSchedulesResponse, error)
}

// CalendarServiceConfig controls how feed links are built.
type CalendarServiceConfig struct {
	PublicBaseURL string
	// FeedPath is the route prefix the token is appended to, e.g. /api/calendar/feed/.
	FeedPath string
	Now      func() time.Time
}

// CalendarService exports mentor availability as iCalendar.
type CalendarService struct {
	schedules mentorScheduleSource
	signer    *signedurl.Signer
	cfg       CalendarServiceConfig
	logger    *zap.Logger
}

// NewCalendarService builds the service.
func NewCalendarService(schedules mentorScheduleSource, signer *signedurl.Signer, cfg CalendarServiceConfig, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.FeedPath == "" {
		cfg.FeedPath = "/api/calendar/feed/"
	}
	return &CalendarService{schedules: schedules, signer: signer, cfg: cfg, logger: logger}
}

// MentorCalendar renders one event per submitted UTC hour of each program's
// latest submission.
func (s *CalendarService) MentorCalendar(ctx context.Context, email, timezone string) ([]byte, error) {
	schedules, err := s.schedules.MentorSchedules(ctx, email, "UTC")
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now().UTC()
	cal := ical.NewCalendarFor("RISE Research")
	cal.SetMethod(ical.MethodPublish)
	cal.SetName("Student availability")
	cal.SetXWRCalDesc("Weekly availability submitted by students of " + email)
	if tz := strings.TrimSpace(timezone); tz != "" {
		if _, err := availability.LoadLocation(tz); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("unknown timezone %q", tz))
		}
		cal.SetXWRTimezone(tz)
	}
	cal.SetRefreshInterval("PT1H")

	events := 0
	for _, program := range schedules.Programs {
		for _, day := range program.Days {
			if day.ISODate == "" {
				continue
			}
			date, err := time.Parse(availability.DateLayout, day.ISODate)
			if err != nil {
				continue
			}
			for _, hour := range day.UTCHours() {
				start := date.Add(time.Duration(hour) * time.Hour)
				event := cal.AddEvent(fmt.Sprintf("%s-%s-%02d@riseresearch", program.ProgramID, day.ISODate, hour))
				event.SetDtStampTime(now)
				event.SetCreatedTime(program.CreatedTime.UTC())
				event.SetStartAt(start)
				event.SetEndAt(start.Add(time.Hour))
				event.SetSummary(fmt.Sprintf("%s available", program.StudentName))
				event.SetDescription(fmt.Sprintf("Program %s, week %s", program.ProgramID, program.Week))
				events++
			}
		}
	}
	s.logger.Debug("calendar rendered", zap.String("mentor", email), zap.Int("events", events))
	return []byte(cal.Serialize()), nil
}

// Link issues a signed feed URL for the mentor's calendar.
func (s *CalendarService) Link(_ context.Context, email string) (*dto.CalendarLinkResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mentor email is required")
	}
	token, expiresAt, err := s.signer.Generate(calendarPurpose, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Code, appErrors.ErrConfiguration.Status, "calendar links are not configured")
	}
	return &dto.CalendarLinkResponse{
		Success:   true,
		URL:       strings.TrimRight(s.cfg.PublicBaseURL, "/") + s.cfg.FeedPath + token,
		ExpiresAt: expiresAt,
	}, nil
}

// Feed serves the calendar named by a signed token.
func (s *CalendarService) Feed(ctx context.Context, token string) ([]byte, error) {
	email, _, err := s.signer.Parse(calendarPurpose, token)
	if err != nil {
		if errors.Is(err, signedurl.ErrExpired) {
			return nil, appErrors.WrapAs(appErrors.ErrForbidden, err, "calendar link has expired")
		}
		return nil, appErrors.WrapAs(appErrors.ErrUnauthorized, err, "invalid calendar link")
	}
	return s.MentorCalendar(ctx, email, "")
}
