package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"nutrition-coach/internal/database"
	"nutrition-coach/internal/models"
)

var (
	ErrInvalidUnit   = errors.New("unit must be kg or lbs")
	ErrInvalidWeight = errors.New("weight must be a finite number greater than zero")
)

const weightTargetUpdatedMsg = "Starting Weight and Target Weight updated successfully ✅"

type WeightService struct {
	db  database.Database
	loc *time.Location
	now func() time.Time
}

func NewWeightService(db database.Database, loc *time.Location) *WeightService {
	if loc == nil {
		loc = time.Local
	}
	return &WeightService{db: db, loc: loc, now: time.Now}
}

func normalizeUnit(unit string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	switch u {
	case "":
		return "kg", nil
	case "kg", "lbs":
		return u, nil
	default:
		return "", ErrInvalidUnit
	}
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w > 0
}

// LogWeight appends an entry dated today in the service location.
func (s *WeightService) LogWeight(ctx context.Context, userID int, weight float64, unit string) (*models.WeightEntryResponse, error) {
	if !validWeight(weight) {
		return nil, ErrInvalidWeight
	}
	u, err := normalizeUnit(unit)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	saved, err := s.db.AddWeightEntry(ctx, &models.WeightEntry{
		UserID:    userID,
		Weight:    weight,
		Unit:      u,
		EntryDate: now,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	return &models.WeightEntryResponse{
		ID:        saved.ID,
		UserID:    saved.UserID,
		Weight:    saved.Weight,
		Unit:      saved.Unit,
		EntryDate: saved.EntryDate.Format("2006-01-02"),
	}, nil
}

func (s *WeightService) UpdateWeightTarget(ctx context.Context, userID int, req *models.WeightTargetRequest) (*models.WeightTargetResponse, error) {
	if req.Unit != "" {
		u, err := normalizeUnit(req.Unit)
		if err != nil {
			return nil, err
		}
		req.Unit = u
	}
	if (req.StartingWeight != nil && !validWeight(*req.StartingWeight)) || (req.TargetWeight != nil && !validWeight(*req.TargetWeight)) {
		return nil, ErrInvalidWeight
	}

	profile, err := s.db.UpdateWeightTarget(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update weight target for user %d: %w", userID, err)
	}

	unit := "kg"
	if profile.WeightUnit != nil && *profile.WeightUnit != "" {
		unit = *profile.WeightUnit
	}
	return &models.WeightTargetResponse{
		Message:        weightTargetUpdatedMsg,
		UserID:         profile.UserID,
		StartingWeight: profile.StartingWeight,
		TargetWeight:   profile.TargetWeight,
		Unit:           unit,
	}, nil
}
