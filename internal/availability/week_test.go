package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestNaiveWeekAlwaysStartsMonday(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i).Add(time.Duration(i%24) * time.Hour)
		w := NaiveWeek(d)
		require.Equal(t, time.Monday, w.Monday.Weekday(), "date %s", d)
		require.Equal(t, 6*24*time.Hour, w.Sunday.Sub(w.Monday))
		require.Len(t, w.Dates(), 7)
		require.False(t, w.Monday.Before(UTCDate(d)), "week must not start in the past for %s", d)
	}
}

func TestNaiveWeekScenario(t *testing.T) {
	cases := map[string]string{
		"2024-06-10": "2024-06-10 to 2024-06-16", // Monday stays
		"2024-06-12": "2024-06-17 to 2024-06-23", // Wednesday rolls to next Monday
		"2024-06-15": "2024-06-17 to 2024-06-23",
		"2024-06-16": "2024-06-17 to 2024-06-23", // Sunday rolls forward one day
	}
	for today, want := range cases {
		assert.Equal(t, want, NaiveWeek(date(t, today)).String(), today)
	}
}

func TestNaiveWeekUsesUTCDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// Monday morning in Tokyo is still Sunday in UTC.
	local := time.Date(2024, 6, 17, 7, 0, 0, 0, loc)
	assert.Equal(t, "2024-06-17 to 2024-06-23", NaiveWeek(local).String())
}

func TestCurrentOrNextWeek(t *testing.T) {
	today := date(t, "2024-06-12")

	future := date(t, "2024-06-17")
	assert.Equal(t, "2024-06-24 to 2024-06-30", CurrentOrNextWeek(today, &future).String())

	sameDay := date(t, "2024-06-12")
	assert.Equal(t, "2024-06-17 to 2024-06-23", CurrentOrNextWeek(today, &sameDay).String())

	past := date(t, "2024-06-03")
	assert.Equal(t, "2024-06-17 to 2024-06-23", CurrentOrNextWeek(today, &past).String())

	farFuture := date(t, "2024-07-15")
	assert.Equal(t, "2024-07-22 to 2024-07-28", CurrentOrNextWeek(today, &farFuture).String())

	assert.Equal(t, "2024-06-17 to 2024-06-23", CurrentOrNextWeek(today, nil).String())
}

func TestParseWeek(t *testing.T) {
	w, err := ParseWeek("2024-06-17 to 2024-06-23")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, w.Monday.Weekday())
	assert.Equal(t, "2024-06-17 to 2024-06-23", w.String())

	for _, bad := range []string{
		"",
		"2024-06-17",
		"2024-06-18 to 2024-06-24",
		"2024-06-17 to 2024-06-24",
		"2024-13-01 to 2024-13-07",
	} {
		_, err := ParseWeek(bad)
		assert.Error(t, err, bad)
	}
}

func TestWeekDays(t *testing.T) {
	w, err := NewWeekWindow(date(t, "2024-06-17"))
	require.NoError(t, err)

	days := w.Days(time.Date(2024, 6, 19, 15, 0, 0, 0, time.UTC))
	require.Len(t, days, 7)
	assert.Equal(t, Day{Date: "2024-06-17", DisplayDate: "Monday, Jun 17", DayName: "Monday"}, days[0])
	assert.True(t, days[2].IsToday)
	assert.Equal(t, "Sunday", days[6].DayName)

	_, err = NewWeekWindow(date(t, "2024-06-18"))
	assert.Error(t, err)
}
