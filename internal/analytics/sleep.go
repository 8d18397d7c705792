package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"nutrition-coach/internal/models"
)

var ErrInvalidSleepWindow = errors.New("end time must be after start time")

// SleepDuration returns whole minutes between start and end. Overnight
// sessions need no special handling since both ends carry a full timestamp.
func SleepDuration(start, end time.Time) (int, error) {
	minutes := int(end.Sub(start) / time.Minute)
	if minutes <= 0 {
		return 0, ErrInvalidSleepWindow
	}
	return minutes, nil
}

// SleepWindowStart is the earliest start_time included in a summary.
func SleepWindowStart(mode Mode, now time.Time) time.Time {
	switch mode {
	case ModeWeekly:
		return now.AddDate(0, 0, -28)
	case ModeMonthly:
		return now.AddDate(0, 0, -120)
	default:
		return now.AddDate(0, 0, -6)
	}
}

// SummarizeSleep totals minutes per day, ISO week or month of start_time.
// Only periods with at least one entry appear, oldest first.
func SummarizeSleep(entries []*models.SleepEntry, mode Mode, loc *time.Location) models.SleepSummaryResponse {
	totals := make(map[time.Time]int)
	for _, e := range entries {
		totals[sleepPeriod(e.StartTime.In(loc), mode)] += e.DurationMinutes
	}

	periods := make([]time.Time, 0, len(totals))
	for p := range totals {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	summary := models.SleepSummaryResponse{
		Mode:   string(mode),
		Labels: make([]string, 0, len(periods)),
		Values: make([]int, 0, len(periods)),
	}
	for i, p := range periods {
		var label string
		switch mode {
		case ModeWeekly:
			label = fmt.Sprintf("Week %d", i+1)
		case ModeMonthly:
			label = p.Format("Jan")
		default:
			label = p.Format("Mon")
		}
		summary.Labels = append(summary.Labels, label)
		summary.Values = append(summary.Values, totals[p])
	}
	return summary
}

func sleepPeriod(t time.Time, mode Mode) time.Time {
	day := civilDay(t)
	switch mode {
	case ModeWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case ModeMonthly:
		return monthStart(day)
	default:
		return day
	}
}

// LatestSleep renders the most recent entry, or the empty shape when there
// is none.
func LatestSleep(entry *models.SleepEntry, loc *time.Location) models.LatestSleepResponse {
	if entry == nil {
		return models.LatestSleepResponse{Date: nil, Minutes: 0}
	}

	end := entry.EndTime.In(loc)
	date := end.Format(dateLayout)
	return models.LatestSleepResponse{
		Date:      &date,
		Minutes:   entry.DurationMinutes,
		StartTime: entry.StartTime.In(loc).Format("15:04:05"),
		EndTime:   end.Format("15:04:05"),
		Quality:   entry.Quality,
	}
}
