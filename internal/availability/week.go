// Package availability holds the scheduling rules for weekly availability:
// week windows, hourly slots, timezone rendering, the stored text format and
// the submission eligibility policy.
package availability

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date layout used in week strings.
	DateLayout = "2006-01-02"
	// DisplayDateLayout renders dates the way day blocks are headed.
	DisplayDateLayout = "Monday, Jan 2"

	weekSeparator = " to "
)

// WeekWindow is a Monday to Sunday range of UTC calendar dates.
type WeekWindow struct {
	Monday time.Time
	Sunday time.Time
}

// Day describes one date of a week window for clients.
type Day struct {
	Date        string `json:"date"`
	DisplayDate string `json:"displayDate"`
	DayName     string `json:"dayName"`
	IsToday     bool   `json:"isToday"`
}

// UTCDate truncates t to midnight of its UTC calendar date.
func UTCDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NewWeekWindow builds the window starting at monday.
func NewWeekWindow(monday time.Time) (WeekWindow, error) {
	monday = UTCDate(monday)
	if monday.Weekday() != time.Monday {
		return WeekWindow{}, fmt.Errorf("week must start on a Monday, got %s %s", monday.Weekday(), monday.Format(DateLayout))
	}
	return WeekWindow{Monday: monday, Sunday: monday.AddDate(0, 0, 6)}, nil
}

// ParseWeek parses "YYYY-MM-DD to YYYY-MM-DD".
func ParseWeek(s string) (WeekWindow, error) {
	parts := strings.Split(strings.TrimSpace(s), weekSeparator)
	if len(parts) != 2 {
		return WeekWindow{}, fmt.Errorf("week %q is not in the form YYYY-MM-DD to YYYY-MM-DD", s)
	}
	start, err := time.Parse(DateLayout, strings.TrimSpace(parts[0]))
	if err != nil {
		return WeekWindow{}, fmt.Errorf("week start: %w", err)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(parts[1]))
	if err != nil {
		return WeekWindow{}, fmt.Errorf("week end: %w", err)
	}
	w, err := NewWeekWindow(start)
	if err != nil {
		return WeekWindow{}, err
	}
	if !end.Equal(w.Sunday) {
		return WeekWindow{}, fmt.Errorf("week %q must end on Sunday %s", s, w.Sunday.Format(DateLayout))
	}
	return w, nil
}

// String renders the canonical week string.
func (w WeekWindow) String() string {
	return w.Monday.Format(DateLayout) + weekSeparator + w.Sunday.Format(DateLayout)
}

// Dates returns the seven UTC dates of the window in order.
func (w WeekWindow) Dates() []time.Time {
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = w.Monday.AddDate(0, 0, i)
	}
	return out
}

// Days returns the seven day descriptors, marking the one equal to today.
func (w WeekWindow) Days(today time.Time) []Day {
	todayStr := UTCDate(today).Format(DateLayout)
	dates := w.Dates()
	out := make([]Day, len(dates))
	for i, d := range dates {
		out[i] = Day{
			Date:        d.Format(DateLayout),
			DisplayDate: d.Format(DisplayDateLayout),
			DayName:     d.Weekday().String(),
			IsToday:     d.Format(DateLayout) == todayStr,
		}
	}
	return out
}

// Contains reports whether the UTC date of t lies inside the window.
func (w WeekWindow) Contains(t time.Time) bool {
	d := UTCDate(t)
	return !d.Before(w.Monday) && !d.After(w.Sunday)
}

// Next returns the following week.
func (w WeekWindow) Next() WeekWindow {
	return WeekWindow{Monday: w.Monday.AddDate(0, 0, 7), Sunday: w.Sunday.AddDate(0, 0, 7)}
}

// NaiveWeek returns the bookable week for today: today when it is a Monday,
// otherwise the coming Monday. A Sunday rolls forward one day.
func NaiveWeek(today time.Time) WeekWindow {
	d := UTCDate(today)
	var offset int
	switch d.Weekday() {
	case time.Monday:
		offset = 0
	case time.Sunday:
		offset = 1
	default:
		offset = 8 - int(d.Weekday())
	}
	monday := d.AddDate(0, 0, offset)
	return WeekWindow{Monday: monday, Sunday: monday.AddDate(0, 0, 6)}
}

// CurrentOrNextWeek returns the naive week, or the week after an existing
// booking whose start is still in the future.
func CurrentOrNextWeek(today time.Time, existingStart *time.Time) WeekWindow {
	d := UTCDate(today)
	if existingStart != nil {
		start := UTCDate(*existingStart)
		if start.After(d) {
			monday := start
			if monday.Weekday() != time.Monday {
				monday = NaiveWeek(start).Monday
			}
			return WeekWindow{Monday: monday, Sunday: monday.AddDate(0, 0, 6)}.Next()
		}
	}
	return NaiveWeek(d)
}
