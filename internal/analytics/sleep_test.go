package analytics

import (
	"testing"
	"time"

	"nutrition-coach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sleepAt(start time.Time, minutes int) *models.SleepEntry {
	return &models.SleepEntry{
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
	}
}

func TestSleepDuration(t *testing.T) {
	start := time.Date(2024, time.June, 9, 23, 30, 0, 0, time.UTC)

	minutes, err := SleepDuration(start, start.Add(7*time.Hour+15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 435, minutes)

	_, err = SleepDuration(start, start)
	assert.ErrorIs(t, err, ErrInvalidSleepWindow)

	_, err = SleepDuration(start, start.Add(30*time.Second))
	assert.ErrorIs(t, err, ErrInvalidSleepWindow)
}

func TestSummarizeSleepDaily(t *testing.T) {
	sunday := time.Date(2024, time.June, 9, 22, 0, 0, 0, time.UTC)
	entries := []*models.SleepEntry{
		sleepAt(sunday.AddDate(0, 0, 1), 400),
		sleepAt(sunday, 420),
		sleepAt(sunday.Add(-8*time.Hour), 30),
	}

	got := SummarizeSleep(entries, ModeDaily, time.UTC)
	assert.Equal(t, "daily", got.Mode)
	assert.Equal(t, []string{"Sun", "Mon"}, got.Labels)
	assert.Equal(t, []int{450, 400}, got.Values)
}

func TestSummarizeSleepWeekly(t *testing.T) {
	monday := time.Date(2024, time.June, 10, 23, 0, 0, 0, time.UTC)
	entries := []*models.SleepEntry{
		sleepAt(monday, 400),
		sleepAt(monday.AddDate(0, 0, 6), 300), // Sunday, same ISO week
		sleepAt(monday.AddDate(0, 0, -1), 360),
	}

	got := SummarizeSleep(entries, ModeWeekly, time.UTC)
	assert.Equal(t, []string{"Week 1", "Week 2"}, got.Labels)
	assert.Equal(t, []int{360, 700}, got.Values)
}

func TestSummarizeSleepMonthly(t *testing.T) {
	entries := []*models.SleepEntry{
		sleepAt(time.Date(2024, time.May, 31, 23, 0, 0, 0, time.UTC), 400),
		sleepAt(time.Date(2024, time.June, 1, 23, 0, 0, 0, time.UTC), 380),
		sleepAt(time.Date(2024, time.June, 2, 23, 0, 0, 0, time.UTC), 20),
	}

	got := SummarizeSleep(entries, ModeMonthly, time.UTC)
	assert.Equal(t, []string{"May", "Jun"}, got.Labels)
	assert.Equal(t, []int{400, 400}, got.Values)
}

func TestSummarizeSleepEmpty(t *testing.T) {
	got := SummarizeSleep(nil, ModeWeekly, time.UTC)
	assert.NotNil(t, got.Labels)
	assert.Empty(t, got.Labels)
	assert.Empty(t, got.Values)
}

func TestLatestSleep(t *testing.T) {
	empty := LatestSleep(nil, time.UTC)
	assert.Nil(t, empty.Date)
	assert.Equal(t, 0, empty.Minutes)

	quality := "good"
	e := sleepAt(time.Date(2024, time.June, 9, 23, 0, 0, 0, time.UTC), 450)
	e.Quality = &quality

	got := LatestSleep(e, time.UTC)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2024-06-10", *got.Date)
	assert.Equal(t, 450, got.Minutes)
	assert.Equal(t, "23:00:00", got.StartTime)
	assert.Equal(t, "06:30:00", got.EndTime)
	assert.Equal(t, &quality, got.Quality)
}
