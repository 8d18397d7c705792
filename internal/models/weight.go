package models

import "time"

type WeightEntry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userid"`
	Weight    float64   `json:"weight"`
	Unit      string    `json:"unit"`
	EntryDate time.Time `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
}

type WeightEntryResponse struct {
	ID        int     `json:"id"`
	UserID    int     `json:"userid"`
	Weight    float64 `json:"weight"`
	Unit      string  `json:"unit"`
	EntryDate string  `json:"entry_date"`
}

type DailyWeightLog struct {
	Date      string   `json:"date"`
	Weight    *float64 `json:"weight"`
	Unit      *string  `json:"unit"`
	CreatedAt *string  `json:"created_at"`
}

type WeeklyWeightLog struct {
	WeekStart string   `json:"week_start"`
	AvgWeight *float64 `json:"avg_weight"`
}

type MonthlyWeightLog struct {
	Month     string   `json:"month"`
	AvgWeight *float64 `json:"avg_weight"`
}

// WeightTrend is omitted from the response when no bucket has a value.
type WeightTrend struct {
	BMI        *float64 `json:"bmi"`
	MinWeight  float64  `json:"min_weight"`
	MaxWeight  float64  `json:"max_weight"`
	WeightDiff float64  `json:"weight_diff"`
	Trend      string   `json:"trend"`
}

type WeightLogsResponse struct {
	UserID int    `json:"userid"`
	Mode   string `json:"mode"`
	*WeightTrend
	Logs any `json:"logs"`
}
