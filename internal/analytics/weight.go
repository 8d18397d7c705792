package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"nutrition-coach/internal/models"
)

const dateLayout = "2006-01-02"

var ErrInvalidMode = errors.New("mode must be one of daily, weekly, monthly")

type Mode string

const (
	ModeDaily   Mode = "daily"
	ModeWeekly  Mode = "weekly"
	ModeMonthly Mode = "monthly"
)

// ParseMode defaults an empty mode to daily.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeDaily, nil
	case ModeDaily, ModeWeekly, ModeMonthly:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidMode, s)
	}
}

// civilDay maps the calendar date of t, in t's own location, to UTC
// midnight. Stored entry dates use the same representation.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeightWindowStart is the earliest entry date a mode's buckets can cover.
func WeightWindowStart(mode Mode, now time.Time) time.Time {
	today := civilDay(now)
	switch mode {
	case ModeWeekly:
		return today.AddDate(0, 0, -27)
	case ModeMonthly:
		return monthStart(today).AddDate(0, -3, 0)
	default:
		return today.AddDate(0, 0, -4)
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DailyBuckets emits five days ending today, oldest first. entries must be
// ordered newest first so the first entry seen for a date is the latest one.
func DailyBuckets(entries []*models.WeightEntry, now time.Time) ([]models.DailyWeightLog, []float64) {
	today := civilDay(now)

	latest := make(map[time.Time]*models.WeightEntry)
	for _, e := range entries {
		day := civilDay(e.EntryDate)
		if _, ok := latest[day]; !ok {
			latest[day] = e
		}
	}

	logs := make([]models.DailyWeightLog, 0, 5)
	var values []float64
	for i := 4; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		bucket := models.DailyWeightLog{Date: day.Format(dateLayout)}
		if e, ok := latest[day]; ok {
			weight := e.Weight
			unit := e.Unit
			created := e.CreatedAt.Format(time.RFC3339)
			bucket.Weight = &weight
			bucket.Unit = &unit
			bucket.CreatedAt = &created
			values = append(values, weight)
		}
		logs = append(logs, bucket)
	}
	return logs, values
}

// WeeklyBuckets splits the 28 days ending today into four 7-day windows,
// oldest first, each labelled by its first day.
func WeeklyBuckets(entries []*models.WeightEntry, now time.Time) ([]models.WeeklyWeightLog, []float64) {
	today := civilDay(now)

	logs := make([]models.WeeklyWeightLog, 0, 4)
	var values []float64
	for i := 3; i >= 0; i-- {
		end := today.AddDate(0, 0, -7*i)
		start := end.AddDate(0, 0, -6)

		var sum float64
		var n int
		for _, e := range entries {
			day := civilDay(e.EntryDate)
			if !day.Before(start) && !day.After(end) {
				sum += e.Weight
				n++
			}
		}

		bucket := models.WeeklyWeightLog{WeekStart: start.Format(dateLayout)}
		if n > 0 {
			avg := round2(sum / float64(n))
			bucket.AvgWeight = &avg
			values = append(values, avg)
		}
		logs = append(logs, bucket)
	}
	return logs, values
}

// MonthlyBuckets averages the current calendar month and the three before
// it, oldest first, labelled YYYY-MM.
func MonthlyBuckets(entries []*models.WeightEntry, now time.Time) ([]models.MonthlyWeightLog, []float64) {
	current := monthStart(civilDay(now))

	logs := make([]models.MonthlyWeightLog, 0, 4)
	var values []float64
	for i := 3; i >= 0; i-- {
		key := current.AddDate(0, -i, 0).Format("2006-01")

		var sum float64
		var n int
		for _, e := range entries {
			if e.EntryDate.Format("2006-01") == key {
				sum += e.Weight
				n++
			}
		}

		bucket := models.MonthlyWeightLog{Month: key}
		if n > 0 {
			avg := round2(sum / float64(n))
			bucket.AvgWeight = &avg
			values = append(values, avg)
		}
		logs = append(logs, bucket)
	}
	return logs, values
}

// SummarizeTrend derives trend statistics from the non-null bucket values in
// order. It returns nil when there are none.
func SummarizeTrend(values []float64, bmi *float64) *models.WeightTrend {
	if len(values) == 0 {
		return nil
	}

	first, last := values[0], values[len(values)-1]
	diff := round2(last - first)

	trend := "stable"
	if diff > 0 {
		trend = "up"
	} else if diff < 0 {
		trend = "down"
	}

	minW, maxW := values[0], values[0]
	for _, v := range values[1:] {
		minW = math.Min(minW, v)
		maxW = math.Max(maxW, v)
	}

	return &models.WeightTrend{
		BMI:        bmi,
		MinWeight:  minW,
		MaxWeight:  maxW,
		WeightDiff: diff,
		Trend:      trend,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
