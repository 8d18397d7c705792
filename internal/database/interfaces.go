package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrition-coach/internal/config"
	"nutrition-coach/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type ReferralRepository interface {
	ClientIDsForNutritionist(ctx context.Context, nutritionistID int) ([]int, error)
}

type ProfileRepository interface {
	GetClientProfile(ctx context.Context, userID int) (*models.ClientProfile, error)
	GetClientProfiles(ctx context.Context, userIDs []int) ([]*models.ClientProfile, error)
	UpdateWeightTarget(ctx context.Context, userID int, req *models.WeightTargetRequest) (*models.ClientProfile, error)
}

type LoginHistoryRepository interface {
	RecordLogin(ctx context.Context, rec *models.LoginRecord) error
	LastLogins(ctx context.Context, userIDs []int) (map[int]time.Time, error)
	// ListLogins returns records at or after since, oldest first. A zero since
	// returns the full history.
	ListLogins(ctx context.Context, userIDs []int, since time.Time) ([]*models.LoginRecord, error)
}

type WeightLogRepository interface {
	AddWeightEntry(ctx context.Context, entry *models.WeightEntry) (*models.WeightEntry, error)
	// ListWeightEntries returns entries with entry_date on or after since,
	// newest entry_date first and newest created_at first within a day.
	ListWeightEntries(ctx context.Context, userID int, since time.Time) ([]*models.WeightEntry, error)
}

type SleepLogRepository interface {
	CreateSleepEntry(ctx context.Context, entry *models.SleepEntry) (*models.SleepEntry, error)
	LatestSleepEntry(ctx context.Context, userID int) (*models.SleepEntry, error)
	ListSleepEntries(ctx context.Context, userID int, since time.Time) ([]*models.SleepEntry, error)
	DeleteSleepEntry(ctx context.Context, id int) error
}

type Database interface {
	ReferralRepository
	ProfileRepository
	LoginHistoryRepository
	WeightLogRepository
	SleepLogRepository
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Database, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresDB(ctx, cfg.URL)
	case "sqlite":
		return NewSQLiteDB(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// civilDate truncates t to midnight UTC of its own calendar day, which is how
// DATE columns are written and read back.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
