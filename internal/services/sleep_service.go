package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrition-coach/internal/analytics"
	"nutrition-coach/internal/database"
	"nutrition-coach/internal/models"
)

type SleepService struct {
	db  database.Database
	loc *time.Location
}

func NewSleepService(db database.Database, loc *time.Location) *SleepService {
	if loc == nil {
		loc = time.Local
	}
	return &SleepService{db: db, loc: loc}
}

func (s *SleepService) CreateSleep(ctx context.Context, userID int, req *models.CreateSleepRequest) (*models.SleepEntry, error) {
	minutes, err := analytics.SleepDuration(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	return s.db.CreateSleepEntry(ctx, &models.SleepEntry{
		UserID:          userID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: minutes,
		Quality:         req.Quality,
		Note:            req.Note,
	})
}

func (s *SleepService) LatestSleep(ctx context.Context, userID int) (*models.LatestSleepResponse, error) {
	entry, err := s.db.LatestSleepEntry(ctx, userID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to load latest sleep for user %d: %w", userID, err)
	}

	latest := analytics.LatestSleep(entry, s.loc)
	return &latest, nil
}

func (s *SleepService) DeleteSleep(ctx context.Context, id int) error {
	return s.db.DeleteSleepEntry(ctx, id)
}
