package analytics

import (
	"testing"
	"time"

	"nutrition-coach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginsAt(userID int, times ...time.Time) []*models.LoginRecord {
	records := make([]*models.LoginRecord, 0, len(times))
	for _, t := range times {
		records = append(records, &models.LoginRecord{UserID: userID, LoginTime: t})
	}
	return records
}

func atHour(h int) time.Time {
	return time.Date(2024, time.June, 10, h, 15, 0, 0, time.UTC)
}

func TestPeakTwoHourWindow(t *testing.T) {
	records := loginsAt(1, atHour(1), atHour(1), atHour(3))

	peak := PeakTwoHourWindow(records, time.UTC)
	require.NotNil(t, peak.Range)
	assert.Equal(t, "12AM–2AM", *peak.Range)
	assert.Equal(t, 2, peak.LoginCount)
}

func TestPeakTwoHourWindowTieTakesEarliest(t *testing.T) {
	records := loginsAt(1, atHour(21), atHour(9), atHour(5))

	peak := PeakTwoHourWindow(records, time.UTC)
	require.NotNil(t, peak.Range)
	assert.Equal(t, "4AM–6AM", *peak.Range)
	assert.Equal(t, 1, peak.LoginCount)
}

func TestPeakTwoHourWindowEmpty(t *testing.T) {
	peak := PeakTwoHourWindow(nil, time.UTC)
	assert.Nil(t, peak.Range)
	assert.Equal(t, 0, peak.LoginCount)
}

func TestPeakTwoHourWindowUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	records := loginsAt(1, atHour(22))

	peak := PeakTwoHourWindow(records, loc)
	require.NotNil(t, peak.Range)
	assert.Equal(t, "12AM–2AM", *peak.Range)
}

func TestFormatHourRange(t *testing.T) {
	tests := map[int]string{
		0:  "12AM–2AM",
		6:  "6AM–8AM",
		10: "10AM–12PM",
		12: "12PM–2PM",
		22: "10PM–12AM",
	}
	for start, want := range tests {
		assert.Equal(t, want, formatHourRange(start))
	}
}

func TestCountActivityWindowBoundaries(t *testing.T) {
	now := time.Date(2024, time.June, 10, 15, 0, 0, 0, time.UTC)

	var records []*models.LoginRecord
	// 1: logged in this morning
	records = append(records, loginsAt(1, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))...)
	// 2: exactly seven days ago, inside the weekly window
	records = append(records, loginsAt(2, now.Add(-7*24*time.Hour))...)
	// 3: one second past the weekly window
	records = append(records, loginsAt(3, now.Add(-7*24*time.Hour-time.Second))...)
	// 4: exactly thirty days ago
	records = append(records, loginsAt(4, now.Add(-30*24*time.Hour))...)
	// 5: outside every window
	records = append(records, loginsAt(5, now.Add(-30*24*time.Hour-time.Second))...)
	// 1 again, counted once
	records = append(records, loginsAt(1, now.Add(-time.Hour), now.Add(-2*24*time.Hour))...)

	counts := CountActivity(records, now)
	assert.Equal(t, 1, counts.Daily)
	assert.Equal(t, 2, counts.Weekly)
	assert.Equal(t, 4, counts.Monthly)
}

func TestCountActivityTodayFollowsLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2024, time.June, 10, 1, 0, 0, 0, loc)
	// 03:00 UTC on June 10 is 22:00 on June 9 in this zone
	records := loginsAt(1, time.Date(2024, time.June, 10, 3, 0, 0, 0, time.UTC))

	counts := CountActivity(records, now)
	assert.Equal(t, 0, counts.Daily)
	assert.Equal(t, 1, counts.Weekly)
}

func TestWeekdayHistogram(t *testing.T) {
	monday := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	records := loginsAt(1, monday, monday.AddDate(0, 0, 5), monday.AddDate(0, 0, -1), monday.AddDate(0, 0, 7))

	got := WeekdayHistogram(records, time.UTC)
	assert.Equal(t, []models.LabeledValue{
		{Label: "Sun", Value: 1},
		{Label: "Mon", Value: 2},
		{Label: "Sat", Value: 1},
	}, got)

	assert.Empty(t, WeekdayHistogram(nil, time.UTC))
}

func TestEmptyEngagement(t *testing.T) {
	empty := EmptyEngagement()
	assert.Equal(t, []models.LabeledValue{
		{Label: "Daily Active", Value: 0},
		{Label: "Weekly Active", Value: 0},
		{Label: "Monthly Retention", Value: 0},
	}, empty.Overview)
	assert.NotNil(t, empty.HourlyBreakdown)
	assert.Empty(t, empty.HourlyBreakdown)
	assert.Nil(t, empty.PeakHours.Range)
}
