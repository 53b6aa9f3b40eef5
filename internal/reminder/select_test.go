package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenneh/discord-f1-reminder/internal/race"
)

func weekend(season, round, raceDate string, quali *race.SessionTime) race.Weekend {
	return race.Weekend{
		Season:     season,
		Round:      round,
		RaceName:   "GP " + season + "/" + round,
		Date:       raceDate,
		Time:       "13:00:00Z",
		Qualifying: quali,
	}
}

func schedule() []race.Weekend {
	return []race.Weekend{
		weekend("2024", "9", "2024-06-09", &race.SessionTime{Date: "2024-06-08", Time: "20:00:00Z"}),
		weekend("2024", "10", "2024-06-23", &race.SessionTime{Date: "2024-06-22", Time: "14:00:00Z"}),
		weekend("2024", "11", "2024-06-30", nil),
	}
}

func TestFindNext(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	sel, ok := FindNext(schedule(), now)
	require.True(t, ok)
	assert.Equal(t, "10", sel.Weekend.Round)
	assert.Equal(t, race.Qualifying, sel.Event)
	assert.Equal(t, time.Date(2024, 6, 22, 14, 0, 0, 0, time.UTC), sel.Instant.At)
}

func TestFindNext_StrictlyAfterNow(t *testing.T) {
	now := time.Date(2024, 6, 22, 14, 0, 0, 0, time.UTC) // exactly qualifying start
	sel, ok := FindNext(schedule(), now)
	require.True(t, ok)
	assert.Equal(t, race.Race, sel.Event)
	assert.Equal(t, "10", sel.Weekend.Round)
}

func TestFindNext_NothingAhead(t *testing.T) {
	_, ok := FindNext(schedule(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestFindPrevious(t *testing.T) {
	now := time.Date(2024, 6, 23, 12, 0, 0, 0, time.UTC) // before race 10 starts
	sel, ok := FindPrevious(schedule(), now)
	require.True(t, ok)
	assert.Equal(t, "10", sel.Weekend.Round)
	assert.Equal(t, race.Qualifying, sel.Event)
}

func TestFindPrevious_LatestSeasonOnly(t *testing.T) {
	weekends := append(schedule(),
		weekend("2025", "1", "2025-03-16", nil),
		weekend("bogus", "1", "2024-12-01", nil),
	)
	// The 2025 opener has not run yet; 2024 sessions must not be picked.
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	_, ok := FindPrevious(weekends, now)
	assert.False(t, ok)

	now = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	sel, ok := FindPrevious(weekends, now)
	require.True(t, ok)
	assert.Equal(t, "2025", sel.Weekend.Season)
	assert.Equal(t, race.Race, sel.Event)
}

func TestLatestSeason(t *testing.T) {
	year, ok := LatestSeason(schedule())
	assert.True(t, ok)
	assert.Equal(t, 2024, year)

	_, ok = LatestSeason([]race.Weekend{{Season: "current"}})
	assert.False(t, ok)
}

func TestPlan(t *testing.T) {
	now := time.Date(2024, 6, 23, 9, 0, 0, 0, time.UTC)
	entries := Plan(schedule()[1:2], now, 3*time.Hour)
	require.Len(t, entries, 6)

	byEvent := map[race.EventType]PlanEntry{}
	for _, e := range entries {
		byEvent[e.ID.Event] = e
	}
	assert.Equal(t, "unavailable", byEvent[race.Sprint].Decision)
	assert.Nil(t, byEvent[race.Sprint].Start)
	assert.Equal(t, "past", byEvent[race.Qualifying].Decision)
	assert.Equal(t, "schedule", byEvent[race.Race].Decision)
	assert.Equal(t, time.Date(2024, 6, 23, 10, 0, 0, 0, time.UTC), byEvent[race.Race].FireAt)
}
