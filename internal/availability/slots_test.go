package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsFiltersPastHoursToday(t *testing.T) {
	now := time.Date(2024, 6, 12, 14, 20, 0, 0, time.UTC)
	today := UTCDate(now)

	slots := GenerateSlots(&today, time.UTC, now)
	require.Len(t, slots, 9)
	for i, s := range slots {
		assert.Equal(t, 15+i, s.UTCHour)
	}
	assert.Equal(t, "3:00 PM - 4:00 PM UTC", slots[0].Label)
}

func TestGenerateSlotsKeepsFutureDates(t *testing.T) {
	now := time.Date(2024, 6, 12, 14, 20, 0, 0, time.UTC)
	target := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)

	slots := GenerateSlots(&target, time.UTC, now)
	require.Len(t, slots, 24)
	assert.Equal(t, 0, slots[0].UTCHour)
	assert.Equal(t, 23, slots[23].UTCHour)
}

func TestGenerateSlotsWithoutTargetDoesNotFilter(t *testing.T) {
	now := time.Date(2024, 6, 12, 23, 59, 0, 0, time.UTC)
	ny, err := LoadLocation("America/New_York")
	require.NoError(t, err)

	slots := GenerateSlots(nil, ny, now)
	require.Len(t, slots, 24)
	assert.Equal(t, "EDT", slots[0].Timezone)
	assert.Equal(t, "8:00 PM", slots[0].Start)
	assert.Equal(t, "9:00 PM", slots[0].End)
}

func TestGenerateSlotsUsesViewerLocalDate(t *testing.T) {
	tokyo, err := LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// 2024-06-12 16:30 UTC is 2024-06-13 01:30 in Tokyo.
	now := time.Date(2024, 6, 12, 16, 30, 0, 0, time.UTC)

	utcToday := UTCDate(now)
	assert.Len(t, GenerateSlots(&utcToday, tokyo, now), 24)

	tokyoToday := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots(&tokyoToday, tokyo, now)
	for _, s := range slots {
		local := ConvertUTCHourToLocal(s.UTCHour, tokyoToday, tokyo)
		assert.Greater(t, local.Hour, 1)
	}
	assert.Len(t, slots, 22)
}

func TestGenerateSlotsIsRestartable(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, GenerateSlots(nil, time.UTC, now), GenerateSlots(nil, time.UTC, now))
}

func TestGenerateSlotsComparesLocalClockHoursOnly(t *testing.T) {
	ny, err := LoadLocation("America/New_York")
	require.NoError(t, err)
	// 18:30 UTC is 14:30 EDT on the same date.
	now := time.Date(2024, 6, 12, 18, 30, 0, 0, time.UTC)
	today := UTCDate(now)

	slots := GenerateSlots(&today, ny, now)
	require.Len(t, slots, 9)
	// UTC 00:00-03:00 fall on the evening of June 11 locally and are kept.
	for i := 0; i < 4; i++ {
		assert.Equal(t, i, slots[i].UTCHour)
	}
	assert.Equal(t, "8:00 PM", slots[0].Start)
	assert.Equal(t, 19, slots[4].UTCHour)
	assert.Equal(t, "3:00 PM", slots[4].Start)
}
