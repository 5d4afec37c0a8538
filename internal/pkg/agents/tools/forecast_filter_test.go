package tools

import (
	"testing"
	"time"

	"github.com/nimbuslab/nimbus/internal/pkg/weather"
	"github.com/stretchr/testify/assert"
)

// Wednesday, 10:00 UTC.
var wednesdayMorning = time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

func entryAt(t time.Time) weather.ForecastEntry {
	return weather.ForecastEntry{Dt: t.Unix()}
}

func timestamps(entries []weather.ForecastEntry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Dt)
	}
	return out
}

func TestFilterTomorrow(t *testing.T) {
	now := wednesdayMorning
	tomorrow := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	entries := []weather.ForecastEntry{
		entryAt(now.Add(2 * time.Hour)),            // today, excluded
		entryAt(tomorrow),                          // inclusive lower bound
		entryAt(tomorrow.Add(23 * time.Hour)),      // included
		entryAt(tomorrow.AddDate(0, 0, 1)),         // exclusive upper bound
		entryAt(tomorrow.AddDate(0, 0, 1).Add(1)),  // excluded
	}

	filtered := filterEntries(entries, TimeframeTomorrow, now)
	assert.Equal(t, []int64{
		tomorrow.Unix(),
		tomorrow.Add(23 * time.Hour).Unix(),
	}, timestamps(filtered))
}

func TestFilterTonightBeforeEvening(t *testing.T) {
	now := wednesdayMorning
	start := time.Date(2025, 6, 11, 18, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 12, 6, 0, 0, 0, time.UTC)

	entries := []weather.ForecastEntry{
		entryAt(start.Add(-time.Minute)), // before 18:00, excluded
		entryAt(start),                   // inclusive
		entryAt(end),                     // inclusive
		entryAt(end.Add(time.Minute)),    // excluded
	}

	filtered := filterEntries(entries, TimeframeTonight, now)
	assert.Equal(t, []int64{start.Unix(), end.Unix()}, timestamps(filtered))
}

func TestFilterTonightAfterEvening(t *testing.T) {
	// 20:00: the window starts at "now", not at 18:00.
	now := time.Date(2025, 6, 11, 20, 0, 0, 0, time.UTC)

	entries := []weather.ForecastEntry{
		entryAt(now.Add(-time.Hour)), // 19:00, already past, excluded
		entryAt(now.Add(time.Hour)),  // 21:00, included
	}

	filtered := filterEntries(entries, TimeframeTonight, now)
	assert.Equal(t, []int64{now.Add(time.Hour).Unix()}, timestamps(filtered))
}

func TestFilterWeekendFromMidweek(t *testing.T) {
	now := wednesdayMorning
	saturday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	entries := []weather.ForecastEntry{
		entryAt(saturday.Add(-time.Hour)),      // Friday night, excluded
		entryAt(saturday),                      // Saturday midnight, included
		entryAt(saturday.Add(36 * time.Hour)),  // Sunday noon, included
		entryAt(saturday.AddDate(0, 0, 2)),     // Monday midnight, excluded
	}

	filtered := filterEntries(entries, TimeframeWeekend, now)
	assert.Equal(t, []int64{
		saturday.Unix(),
		saturday.Add(36 * time.Hour).Unix(),
	}, timestamps(filtered))
}

func TestFilterWeekendOnSaturdayMorning(t *testing.T) {
	// Saturday before noon still counts as the current weekend.
	now := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	saturdayEvening := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

	filtered := filterEntries([]weather.ForecastEntry{entryAt(saturdayEvening)}, TimeframeWeekend, now)
	assert.Equal(t, []int64{saturdayEvening.Unix()}, timestamps(filtered))
}

func TestFilterWeekendOnSaturdayAfternoon(t *testing.T) {
	// Saturday afternoon advances to the weekend after next.
	now := time.Date(2025, 6, 14, 13, 0, 0, 0, time.UTC)
	thisSaturdayEvening := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)
	nextSaturdayMorning := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)

	entries := []weather.ForecastEntry{
		entryAt(thisSaturdayEvening),
		entryAt(nextSaturdayMorning),
	}

	filtered := filterEntries(entries, TimeframeWeekend, now)
	assert.Equal(t, []int64{nextSaturdayMorning.Unix()}, timestamps(filtered))
}

func TestFilterNext3Days(t *testing.T) {
	now := wednesdayMorning

	entries := []weather.ForecastEntry{
		entryAt(now.Add(-time.Hour)),     // past entries have no lower bound
		entryAt(now.Add(71 * time.Hour)), // included
		entryAt(now.Add(72 * time.Hour)), // inclusive upper bound
		entryAt(now.Add(73 * time.Hour)), // excluded
	}

	filtered := filterEntries(entries, TimeframeNext3Days, now)
	assert.Equal(t, []int64{
		now.Add(-time.Hour).Unix(),
		now.Add(71 * time.Hour).Unix(),
		now.Add(72 * time.Hour).Unix(),
	}, timestamps(filtered))
}

func TestFilterUnrecognizedTimeframeFallsBack(t *testing.T) {
	now := wednesdayMorning

	entries := []weather.ForecastEntry{
		entryAt(now.Add(time.Hour)),
		entryAt(now.Add(100 * time.Hour)),
	}

	filtered := filterEntries(entries, "someday", now)
	assert.Equal(t, []int64{now.Add(time.Hour).Unix()}, timestamps(filtered))
}
