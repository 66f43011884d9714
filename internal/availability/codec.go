package availability

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	datePrefix     = "Date:"
	dayPrefix      = "Day:"
	timezonePrefix = "Timezone:"
	timingsPrefix  = "Available Timings"
	timingsHeader  = "Available Timings (Local Time):"

	// FormatMarker optionally leads a blob to declare its format version.
	FormatMarker = "Availability-Format:"
)

var utcRangePattern = regexp.MustCompile(`UTC:\s*(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

// Selections maps a YYYY-MM-DD UTC date to the UTC hours chosen on it.
type Selections map[string][]int

// DecodedSlot is one slot line of a day block.
type DecodedSlot struct {
	Label   string `json:"label"`
	UTCHour *int   `json:"utcHour,omitempty"`
}

// DayBlock is one decoded day of an availability blob.
type DayBlock struct {
	Date      string        `json:"date"`
	ISODate   string        `json:"isoDate,omitempty"`
	DayName   string        `json:"dayName"`
	Timezone  string        `json:"timezone"`
	TimeSlots []DecodedSlot `json:"timeSlots"`
}

// UTCHours returns the hours of slots that carried a UTC range.
func (b DayBlock) UTCHours() []int {
	var out []int
	for _, s := range b.TimeSlots {
		if s.UTCHour != nil {
			out = append(out, *s.UTCHour)
		}
	}
	return out
}

// Encode renders selections for the week as the stored text format. Days
// without selections are omitted.
func Encode(week WeekWindow, selections Selections, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	for date, hours := range selections {
		d, err := time.Parse(DateLayout, date)
		if err != nil {
			return "", fmt.Errorf("selection date %q: %w", date, err)
		}
		if !week.Contains(d) {
			return "", fmt.Errorf("selection date %s is outside week %s", date, week)
		}
		for _, h := range hours {
			if h < 0 || h > 23 {
				return "", fmt.Errorf("selection hour %d on %s is out of range", h, date)
			}
		}
	}

	var b strings.Builder
	for _, day := range week.Dates() {
		hours := normaliseHours(selections[day.Format(DateLayout)])
		if len(hours) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", datePrefix, day.Format(DisplayDateLayout))
		fmt.Fprintf(&b, "%s %s\n", dayPrefix, day.Weekday())
		fmt.Fprintf(&b, "%s %s\n", timezonePrefix, loc.String())
		b.WriteString(timingsHeader + "\n")
		for _, h := range hours {
			fmt.Fprintf(&b, " %s (UTC: %02d:00 - %02d:00)\n", FormatRange(h, day, loc), h, (h+1)%24)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func normaliseHours(hours []int) []int {
	if len(hours) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(hours))
	out := make([]int, 0, len(hours))
	for _, h := range hours {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}

// DecodeOptions controls how a blob is rendered for its reader.
type DecodeOptions struct {
	// Viewer is the reader's zone. Nil keeps the zone named in each block.
	Viewer *time.Location
	// Week, when known, resolves the year of display dates.
	Week *WeekWindow
	Now  time.Time
}

type decodeState int

const (
	awaitingDate decodeState = iota
	inDayHeader
	inTimingsList
)

type decoder struct {
	opts     DecodeOptions
	state    decodeState
	current  *DayBlock
	timezone string
	blocks   []DayBlock
}

// Decode parses a stored blob. It never fails: unrecognised lines are kept as
// verbatim slot labels and an empty blob yields no days.
func Decode(text string, opts DecodeOptions) []DayBlock {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	d := &decoder{opts: opts}
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		d.line(raw)
	}
	d.flush()
	return d.blocks
}

func (d *decoder) line(raw string) {
	line := strings.TrimSpace(raw)
	switch {
	case line == "":
		return
	case strings.HasPrefix(line, FormatMarker):
		return
	case strings.HasPrefix(line, datePrefix):
		d.flush()
		date := strings.TrimSpace(strings.TrimPrefix(line, datePrefix))
		d.current = &DayBlock{Date: date, Timezone: d.timezone, TimeSlots: []DecodedSlot{}}
		d.current.ISODate = d.resolveDate(date)
		d.state = inDayHeader
	case strings.HasPrefix(line, dayPrefix):
		d.ensureBlock().DayName = strings.TrimSpace(strings.TrimPrefix(line, dayPrefix))
	case strings.HasPrefix(line, timezonePrefix):
		tz := strings.TrimSpace(strings.TrimPrefix(line, timezonePrefix))
		d.ensureBlock().Timezone = tz
		d.timezone = tz
	case strings.HasPrefix(line, timingsPrefix):
		d.ensureBlock()
		d.state = inTimingsList
	default:
		block := d.ensureBlock()
		block.TimeSlots = append(block.TimeSlots, d.slot(line, block))
	}
}

func (d *decoder) ensureBlock() *DayBlock {
	if d.state == awaitingDate || d.current == nil {
		d.current = &DayBlock{Timezone: d.timezone, TimeSlots: []DecodedSlot{}}
		d.state = inDayHeader
	}
	return d.current
}

func (d *decoder) flush() {
	if d.current != nil {
		d.blocks = append(d.blocks, *d.current)
	}
	d.current = nil
	d.state = awaitingDate
}

func (d *decoder) slot(line string, block *DayBlock) DecodedSlot {
	m := utcRangePattern.FindStringSubmatch(line)
	if m == nil {
		return DecodedSlot{Label: line}
	}
	startOffset, ok := clockOffset(m[1], m[2], 23)
	if !ok {
		return DecodedSlot{Label: line}
	}
	endOffset, ok := clockOffset(m[3], m[4], 24)
	if !ok {
		return DecodedSlot{Label: line}
	}
	if endOffset <= startOffset {
		endOffset += 24 * time.Hour
	}

	loc := d.opts.Viewer
	if loc == nil {
		if l, err := LoadLocation(block.Timezone); err == nil {
			loc = l
		} else {
			loc = time.UTC
		}
	}
	date := UTCDate(d.opts.Now)
	if block.ISODate != "" {
		if parsed, err := time.Parse(DateLayout, block.ISODate); err == nil {
			date = parsed
		}
	}

	start, end := date.Add(startOffset), date.Add(endOffset)
	slot := DecodedSlot{Label: FormatInstantRange(start, end, loc)}
	if start.Minute() == 0 && end.Sub(start) == time.Hour {
		hour := start.Hour()
		slot.UTCHour = &hour
	}
	return slot
}

// clockOffset turns an "HH", "MM" pair into an offset from midnight.
func clockOffset(hh, mm string, maxHour int) (time.Duration, bool) {
	hour, err := strconv.Atoi(hh)
	if err != nil || hour > maxHour {
		return 0, false
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute > 59 || (hour == 24 && minute != 0) {
		return 0, false
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, true
}

// resolveDate turns a block's display date into YYYY-MM-DD. Display dates
// carry no year; it is taken from the submission week when known.
func (d *decoder) resolveDate(raw string) string {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout)
	}
	t, err := time.Parse(DisplayDateLayout, raw)
	if err != nil {
		if t, err = time.Parse("Jan 2", raw); err != nil {
			return ""
		}
	}

	years := []int{d.opts.Now.UTC().Year()}
	if w := d.opts.Week; w != nil {
		years = []int{w.Monday.Year(), w.Sunday.Year()}
	}
	for _, y := range years {
		candidate := time.Date(y, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if d.opts.Week == nil || d.opts.Week.Contains(candidate) {
			return candidate.Format(DateLayout)
		}
	}
	return time.Date(years[0], t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(DateLayout)
}
