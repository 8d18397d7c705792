package analytics

import (
	"fmt"
	"time"

	"nutrition-coach/internal/models"
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ActivityCounts holds the number of distinct clients seen in each window.
type ActivityCounts struct {
	Daily   int
	Weekly  int
	Monthly int
}

// CountActivity counts distinct clients with a login today, within the last
// 7 days and within the last 30 days. Both trailing windows include their
// lower bound: a login at exactly now-7d is weekly-active.
func CountActivity(records []*models.LoginRecord, now time.Time) ActivityCounts {
	loc := now.Location()
	todayY, todayM, todayD := now.Date()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	daily := make(map[int]struct{})
	weekly := make(map[int]struct{})
	monthly := make(map[int]struct{})

	for _, rec := range records {
		t := rec.LoginTime.In(loc)
		if y, m, d := t.Date(); y == todayY && m == todayM && d == todayD {
			daily[rec.UserID] = struct{}{}
		}
		if !t.Before(weekAgo) {
			weekly[rec.UserID] = struct{}{}
		}
		if !t.Before(monthAgo) {
			monthly[rec.UserID] = struct{}{}
		}
	}

	return ActivityCounts{Daily: len(daily), Weekly: len(weekly), Monthly: len(monthly)}
}

func (c ActivityCounts) Overview() []models.LabeledValue {
	return []models.LabeledValue{
		{Label: "Daily Active", Value: c.Daily},
		{Label: "Weekly Active", Value: c.Weekly},
		{Label: "Monthly Retention", Value: c.Monthly},
	}
}

// WeekdayHistogram counts logins per day of week, Sunday first. Weekdays
// without logins are left out.
func WeekdayHistogram(records []*models.LoginRecord, loc *time.Location) []models.LabeledValue {
	var counts [7]int
	for _, rec := range records {
		counts[rec.LoginTime.In(loc).Weekday()]++
	}

	buckets := make([]models.LabeledValue, 0, 7)
	for day, n := range counts {
		if n > 0 {
			buckets = append(buckets, models.LabeledValue{Label: weekdayLabels[day], Value: n})
		}
	}
	return buckets
}

// PeakTwoHourWindow finds the two-hour bucket, aligned to even hours, with
// the most logins. Equal counts resolve to the earliest bucket.
func PeakTwoHourWindow(records []*models.LoginRecord, loc *time.Location) models.PeakHours {
	var counts [12]int
	for _, rec := range records {
		counts[rec.LoginTime.In(loc).Hour()/2]++
	}

	best := -1
	for i, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return models.PeakHours{Range: nil, LoginCount: 0}
	}

	label := formatHourRange(best * 2)
	return models.PeakHours{Range: &label, LoginCount: counts[best]}
}

func formatHourRange(start int) string {
	return fmt.Sprintf("%s–%s", formatAMPM(start), formatAMPM((start+2)%24))
}

func formatAMPM(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d%s", h, suffix)
}

// EmptyEngagement is the analytics shape reported for a nutritionist with no
// linked clients.
func EmptyEngagement() models.EngagementAnalytics {
	return models.EngagementAnalytics{
		Overview:        ActivityCounts{}.Overview(),
		HourlyBreakdown: []models.LabeledValue{},
		PeakHours:       models.PeakHours{},
	}
}
