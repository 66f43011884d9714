package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/riseresearch/rise-api/pkg/errors"
	"github.com/riseresearch/rise-api/pkg/signedurl"
)

const calendarBlob = "Date: Monday, Jun 17\nDay: Monday\nTimezone: America/New_York\nAvailable Timings (Local Time):\n" +
	" 10:00 AM - 11:00 AM EDT (UTC: 14:00 - 15:00)\n 11:00 AM - 12:00 PM EDT (UTC: 15:00 - 16:00)\n\n" +
	"Date: Tuesday, Jun 18\nDay: Tuesday\nTimezone: America/New_York\nAvailable Timings (Local Time):\n" +
	" 8:00 PM - 9:00 PM EDT (UTC: 00:00 - 01:00)\n"

func newCalendarFixture(t *testing.T) (*scheduleFixture, *CalendarService, *signedurl.Signer) {
	t.Helper()
	f := newScheduleFixture(t, "2024-06-12T10:00:00Z", true)
	f.enroll("P-1", "Ada", "ada@example.com", "mentor@example.com")
	f.submit("P-1", "Ada", "2024-06-17 to 2024-06-23", calendarBlob, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC))

	signer := signedurl.NewSigner("secret", time.Hour).WithClock(fixedClock(t, "2024-06-12T10:00:00Z"))
	svc := NewCalendarService(f.svc, signer, CalendarServiceConfig{
		PublicBaseURL: "https://api.example.com/",
		FeedPath:      "/api/calendar/feed/",
		Now:           fixedClock(t, "2024-06-12T10:00:00Z"),
	}, nil)
	return f, svc, signer
}

func TestMentorCalendarRendersOneEventPerHour(t *testing.T) {
	_, svc, _ := newCalendarFixture(t)

	body, err := svc.MentorCalendar(context.Background(), "mentor@example.com", "America/New_York")
	require.NoError(t, err)
	assert.Contains(t, string(body), "X-WR-TIMEZONE:America/New_York")

	cal, err := ical.ParseCalendar(strings.NewReader(string(body)))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	starts := make(map[string]time.Time, len(events))
	for _, ev := range events {
		start, err := ev.GetStartAt()
		require.NoError(t, err)
		starts[ev.Id()] = start.UTC()
		assert.Equal(t, "Ada available", ev.GetProperty(ical.ComponentPropertySummary).Value)
	}
	assert.Equal(t, time.Date(2024, 6, 17, 14, 0, 0, 0, time.UTC), starts["P-1-2024-06-17-14@riseresearch"])
	assert.Equal(t, time.Date(2024, 6, 17, 15, 0, 0, 0, time.UTC), starts["P-1-2024-06-17-15@riseresearch"])
	assert.Equal(t, time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC), starts["P-1-2024-06-18-00@riseresearch"])
}

func TestMentorCalendarWithoutSubmissions(t *testing.T) {
	_, svc, _ := newCalendarFixture(t)

	body, err := svc.MentorCalendar(context.Background(), "nobody@example.com", "")
	require.NoError(t, err)
	cal, err := ical.ParseCalendar(strings.NewReader(string(body)))
	require.NoError(t, err)
	assert.Empty(t, cal.Events())
}

func TestMentorCalendarRejectsUnknownTimezone(t *testing.T) {
	_, svc, _ := newCalendarFixture(t)

	_, err := svc.MentorCalendar(context.Background(), "mentor@example.com", "Atlantis/Central")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCalendarLinkRoundTrip(t *testing.T) {
	_, svc, _ := newCalendarFixture(t)
	ctx := context.Background()

	link, err := svc.Link(ctx, " Mentor@Example.com ")
	require.NoError(t, err)
	assert.True(t, link.Success)
	require.True(t, strings.HasPrefix(link.URL, "https://api.example.com/api/calendar/feed/"))
	assert.Equal(t, time.Date(2024, 6, 12, 11, 0, 0, 0, time.UTC), link.ExpiresAt.UTC())

	token := strings.TrimPrefix(link.URL, "https://api.example.com/api/calendar/feed/")
	body, err := svc.Feed(ctx, token)
	require.NoError(t, err)
	assert.Contains(t, string(body), "P-1-2024-06-17-14@riseresearch")
}

func TestCalendarFeedRejectsBadTokens(t *testing.T) {
	_, svc, signer := newCalendarFixture(t)
	ctx := context.Background()

	_, err := svc.Feed(ctx, "garbage")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	token, _, err := signer.Generate(calendarPurpose, "mentor@example.com")
	require.NoError(t, err)
	_, err = svc.Feed(ctx, token+"x")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	signer.WithClock(fixedClock(t, "2024-06-12T12:00:00Z"))
	_, err = svc.Feed(ctx, token)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestCalendarLinkRequiresEmail(t *testing.T) {
	_, svc, _ := newCalendarFixture(t)

	_, err := svc.Link(context.Background(), "  ")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
