package availability

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const clockLayout = "3:04 PM"

var localLabelPattern = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*([AaPp][Mm])\s*([A-Za-z0-9+\-]*)\s*$`)

// LocalTime is a wall-clock rendering of an instant in a viewer's zone.
type LocalTime struct {
	Label  string
	Abbrev string
	Hour   int
	Date   string
}

// LoadLocation resolves an IANA zone name. An empty name means UTC.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

func slotInstant(utcHour int, date time.Time) time.Time {
	return UTCDate(date).Add(time.Duration(utcHour) * time.Hour)
}

// ConvertUTCHourToLocal renders utcHour on the UTC date in loc. The date is
// used to pick the offset in force on that day.
func ConvertUTCHourToLocal(utcHour int, date time.Time, loc *time.Location) LocalTime {
	t := slotInstant(utcHour, date).In(loc)
	return LocalTime{
		Label:  t.Format(clockLayout),
		Abbrev: t.Format("MST"),
		Hour:   t.Hour(),
		Date:   t.Format(DateLayout),
	}
}

// FormatRange renders the hour starting at utcHour as "9:00 AM - 10:00 AM EDT".
func FormatRange(utcHour int, date time.Time, loc *time.Location) string {
	start := slotInstant(utcHour, date)
	return FormatInstantRange(start, start.Add(time.Hour), loc)
}

// FormatInstantRange converts start and end into loc independently and joins
// them, labelled with the start's zone abbreviation.
func FormatInstantRange(start, end time.Time, loc *time.Location) string {
	s, e := start.In(loc), end.In(loc)
	return s.Format(clockLayout) + " - " + e.Format(clockLayout) + " " + s.Format("MST")
}

// ParseLocalLabel splits "9:00 AM EDT" into a 24-hour clock and zone abbreviation.
func ParseLocalLabel(label string) (hour, minute int, abbrev string, err error) {
	m := localLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, "", fmt.Errorf("unrecognised local time %q", label)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, "", fmt.Errorf("local time %q out of range", label)
	}
	hour %= 12
	if strings.EqualFold(m[3], "pm") {
		hour += 12
	}
	return hour, minute, m[4], nil
}

// UTCHourFromLocal inverts ConvertUTCHourToLocal: given the local label shown
// for some hour of the UTC date in loc, it returns that UTC hour. The zone
// abbreviation, when present, resolves the repeated hour of a DST fall-back.
func UTCHourFromLocal(label string, date time.Time, loc *time.Location) (int, error) {
	hour, minute, abbrev, err := ParseLocalLabel(label)
	if err != nil {
		return 0, err
	}
	for h := 0; h < 24; h++ {
		t := slotInstant(h, date).In(loc)
		if t.Hour() != hour || t.Minute() != minute {
			continue
		}
		if abbrev != "" && t.Format("MST") != abbrev {
			continue
		}
		return h, nil
	}
	return 0, fmt.Errorf("local time %q does not map to an hour of %s in %s", label, UTCDate(date).Format(DateLayout), loc)
}
