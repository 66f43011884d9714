package availability

import "time"

// TimeSlot is one selectable UTC hour rendered for a viewer.
type TimeSlot struct {
	ID       int    `json:"id"`
	UTCHour  int    `json:"utcHour"`
	Label    string `json:"label"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

// GenerateSlots lists the 24 UTC hours of target rendered in loc. When target
// is the viewer's current local date, hours whose local hour is at or before
// the current local hour are dropped. A nil target lists every hour of the
// current UTC date without filtering.
func GenerateSlots(target *time.Time, loc *time.Location, now time.Time) []TimeSlot {
	if loc == nil {
		loc = time.UTC
	}
	date := UTCDate(now)
	filter := false
	localNow := now.In(loc)
	if target != nil {
		date = UTCDate(*target)
		filter = date.Format(DateLayout) == localNow.Format(DateLayout)
	}

	slots := make([]TimeSlot, 0, 24)
	for h := 0; h < 24; h++ {
		start := ConvertUTCHourToLocal(h, date, loc)
		// Clock hours only: a slot on the previous local date with a later hour stays listed.
		if filter && start.Hour <= localNow.Hour() {
			continue
		}
		end := slotInstant(h, date).Add(time.Hour).In(loc)
		slots = append(slots, TimeSlot{
			ID:       h,
			UTCHour:  h,
			Label:    FormatRange(h, date, loc),
			Start:    start.Label,
			End:      end.Format(clockLayout),
			Timezone: start.Abbrev,
		})
	}
	return slots
}
