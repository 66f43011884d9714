package availability

import (
	"sort"
	"strings"
	"time"

	"github.com/riseresearch/rise-api/internal/models"
)

// Eligibility is the outcome of checking whether a student may submit.
type Eligibility struct {
	CanSubmit  bool
	Blocking   *models.AvailabilitySubmission
	TargetWeek WeekWindow
}

// Latest returns the submission with the greatest week string, breaking ties
// by the most recent creation time. It returns nil for an empty slice.
func Latest(subs []models.AvailabilitySubmission) *models.AvailabilitySubmission {
	if len(subs) == 0 {
		return nil
	}
	sorted := make([]models.AvailabilitySubmission, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Week != sorted[j].Week {
			return sorted[i].Week > sorted[j].Week
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	latest := sorted[0]
	return &latest
}

// CheckEligibility decides whether a new submission is allowed today.
// Submissions whose week string does not parse are ignored.
func CheckEligibility(subs []models.AvailabilitySubmission, today time.Time) Eligibility {
	valid := make([]models.AvailabilitySubmission, 0, len(subs))
	for _, s := range subs {
		if _, err := ParseWeek(s.Week); err == nil {
			valid = append(valid, s)
		}
	}

	latest := Latest(valid)
	if latest == nil {
		return Eligibility{CanSubmit: true, TargetWeek: NaiveWeek(today)}
	}

	week, _ := ParseWeek(latest.Week)
	if week.Monday.After(UTCDate(today)) {
		return Eligibility{
			CanSubmit:  false,
			Blocking:   latest,
			TargetWeek: CurrentOrNextWeek(today, &week.Monday),
		}
	}

	target := NaiveWeek(today)
	if existing := FindWeek(valid, target); existing != nil {
		return Eligibility{CanSubmit: false, Blocking: existing, TargetWeek: target}
	}
	return Eligibility{CanSubmit: true, TargetWeek: target}
}

// FindWeek returns the newest submission for exactly the given week.
func FindWeek(subs []models.AvailabilitySubmission, week WeekWindow) *models.AvailabilitySubmission {
	want := week.String()
	var match []models.AvailabilitySubmission
	for _, s := range subs {
		if strings.TrimSpace(s.Week) == want {
			match = append(match, s)
		}
	}
	return Latest(match)
}
