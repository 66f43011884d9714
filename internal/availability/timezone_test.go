package availability

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zones = []string{"UTC", "America/New_York", "Europe/London", "Asia/Kolkata", "Australia/Lord_Howe", "Pacific/Chatham", "America/Sao_Paulo"}

func TestConvertUTCHourToLocal(t *testing.T) {
	ny, err := LoadLocation("America/New_York")
	require.NoError(t, err)

	summer := ConvertUTCHourToLocal(13, date(t, "2024-06-17"), ny)
	assert.Equal(t, "9:00 AM", summer.Label)
	assert.Equal(t, "EDT", summer.Abbrev)

	winter := ConvertUTCHourToLocal(13, date(t, "2024-01-15"), ny)
	assert.Equal(t, "8:00 AM", winter.Label)
	assert.Equal(t, "EST", winter.Abbrev)

	assert.Equal(t, "9:00 AM - 10:00 AM EDT", FormatRange(13, date(t, "2024-06-17"), ny))
	assert.Equal(t, "11:00 PM - 12:00 AM UTC", FormatRange(23, date(t, "2024-06-17"), time.UTC))
}

func TestUTCHourRoundTripsThroughLocalLabel(t *testing.T) {
	dates := []string{"2024-01-15", "2024-03-10", "2024-03-31", "2024-04-07", "2024-06-17", "2024-10-06", "2024-10-27", "2024-11-03"}
	for _, zone := range zones {
		loc, err := LoadLocation(zone)
		require.NoError(t, err)
		for _, ds := range dates {
			d := date(t, ds)
			for h := 0; h < 24; h++ {
				local := ConvertUTCHourToLocal(h, d, loc)
				got, err := UTCHourFromLocal(local.Label+" "+local.Abbrev, d, loc)
				require.NoError(t, err, "%s %s %d", zone, ds, h)
				require.Equal(t, h, got, "%s %s %s", zone, ds, local.Label)
			}
		}
	}
}

func TestParseLocalLabel(t *testing.T) {
	h, m, abbrev, err := ParseLocalLabel("12:30 AM IST")
	require.NoError(t, err)
	assert.Equal(t, 0, h)
	assert.Equal(t, 30, m)
	assert.Equal(t, "IST", abbrev)

	h, _, _, err = ParseLocalLabel("12:00 pm")
	require.NoError(t, err)
	assert.Equal(t, 12, h)

	_, _, _, err = ParseLocalLabel("25:00")
	assert.Error(t, err)
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}
