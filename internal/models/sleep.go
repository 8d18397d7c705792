package models

import "time"

type SleepEntry struct {
	ID              int       `json:"id"`
	UserID          int       `json:"userid"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Quality         *string   `json:"quality"`
	Note            *string   `json:"note"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateSleepRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Quality   *string   `json:"quality"`
	Note      *string   `json:"note"`
}

type LatestSleepResponse struct {
	Date      *string `json:"date"`
	Minutes   int     `json:"minutes"`
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`
	Quality   *string `json:"quality,omitempty"`
}

type SleepSummaryResponse struct {
	Mode   string   `json:"mode"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}
