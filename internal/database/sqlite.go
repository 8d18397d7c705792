package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"nutrition-coach/internal/models"
	"nutrition-coach/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var _ Database = (*SQLiteDB)(nil)

// SQLiteDB is the development and test store. It mirrors the Postgres schema
// through gorm models. Timestamps are stored as text, so time-window filters
// are applied in Go after the per-user query. Sleep times are written in UTC
// so that ordering by the text column follows time order.
type SQLiteDB struct {
	db *gorm.DB
}

type profileRow struct {
	UserID         int        `gorm:"column:userid;primaryKey;autoIncrement"`
	Name           string     `gorm:"column:name;not null"`
	Email          string     `gorm:"column:email;not null"`
	Mobile         *string    `gorm:"column:mobile"`
	Birthdate      *time.Time `gorm:"column:birthdate"`
	BMI            *float64   `gorm:"column:bmi"`
	StartingWeight *float64   `gorm:"column:startingweight"`
	TargetWeight   *float64   `gorm:"column:targetweight"`
	WeightUnit     *string    `gorm:"column:weightunit"`
	LastLogin      *time.Time `gorm:"column:lastlogin"`
}

func (profileRow) TableName() string { return "userprofile" }

type referralRow struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int       `gorm:"column:userid;not null"`
	NutritionistID int       `gorm:"column:nutritionist_id;not null;index"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (referralRow) TableName() string { return "client_nutritionist_referral" }

type loginRow struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int       `gorm:"column:userid;index"`
	LoginTime time.Time `gorm:"column:login_time"`
	IPAddress string    `gorm:"column:ip_address"`
	UserAgent string    `gorm:"column:user_agent"`
}

func (loginRow) TableName() string { return "user_login_history" }

type weightRow struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int       `gorm:"column:userid;not null;index"`
	Weight    float64   `gorm:"column:weight;not null"`
	Unit      string    `gorm:"column:unit"`
	EntryDate time.Time `gorm:"column:entry_date"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (weightRow) TableName() string { return "user_weight_log" }

type sleepRow struct {
	ID              int       `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int       `gorm:"column:userid;not null;index"`
	StartTime       time.Time `gorm:"column:start_time"`
	EndTime         time.Time `gorm:"column:end_time"`
	DurationMinutes int       `gorm:"column:duration_minutes"`
	Quality         *string   `gorm:"column:quality"`
	Note            *string   `gorm:"column:note"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (sleepRow) TableName() string { return "sleep_log" }

func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	sqlDB.SetMaxOpenConns(1)

	s := &SQLiteDB{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Info("Opened sqlite database %s", dsn)
	return s, nil
}

func (s *SQLiteDB) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(&profileRow{}, &referralRow{}, &loginRow{}, &weightRow{}, &sleepRow{})
	if err != nil {
		return fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return nil
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteDB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateProfile inserts a roster entry. The profile store owns these rows in
// production; this exists for local seeding and tests.
func (s *SQLiteDB) CreateProfile(ctx context.Context, p *models.ClientProfile) error {
	row := profileRow{
		UserID:         p.UserID,
		Name:           p.Name,
		Email:          p.Email,
		Mobile:         p.Mobile,
		BMI:            p.BMI,
		StartingWeight: p.StartingWeight,
		TargetWeight:   p.TargetWeight,
		WeightUnit:     p.WeightUnit,
	}
	if p.Birthdate != nil {
		d := civilDate(*p.Birthdate)
		row.Birthdate = &d
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	p.UserID = row.UserID
	return nil
}

// AddReferral links a client to a nutritionist.
func (s *SQLiteDB) AddReferral(ctx context.Context, userID, nutritionistID int) error {
	row := referralRow{UserID: userID, NutritionistID: nutritionistID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to add referral: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ClientIDsForNutritionist(ctx context.Context, nutritionistID int) ([]int, error) {
	var ids []int
	err := s.db.WithContext(ctx).Model(&referralRow{}).
		Where("nutritionist_id = ?", nutritionistID).
		Order("created_at, userid").
		Pluck("userid", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return ids, nil
}

func (r profileRow) toModel() *models.ClientProfile {
	return &models.ClientProfile{
		UserID:         r.UserID,
		Name:           r.Name,
		Email:          r.Email,
		Mobile:         r.Mobile,
		Birthdate:      r.Birthdate,
		BMI:            r.BMI,
		StartingWeight: r.StartingWeight,
		TargetWeight:   r.TargetWeight,
		WeightUnit:     r.WeightUnit,
	}
}

func (s *SQLiteDB) GetClientProfile(ctx context.Context, userID int) (*models.ClientProfile, error) {
	var row profileRow
	if err := s.db.WithContext(ctx).First(&row, "userid = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile %d: %w", userID, err)
	}
	return row.toModel(), nil
}

func (s *SQLiteDB) GetClientProfiles(ctx context.Context, userIDs []int) ([]*models.ClientProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var rows []profileRow
	if err := s.db.WithContext(ctx).Where("userid IN ?", userIDs).Order("userid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*models.ClientProfile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, r.toModel())
	}
	return profiles, nil
}

func (s *SQLiteDB) UpdateWeightTarget(ctx context.Context, userID int, req *models.WeightTargetRequest) (*models.ClientProfile, error) {
	updates := map[string]any{}
	if req.StartingWeight != nil {
		updates["startingweight"] = *req.StartingWeight
	}
	if req.TargetWeight != nil {
		updates["targetweight"] = *req.TargetWeight
	}
	if req.Unit != "" {
		updates["weightunit"] = req.Unit
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&profileRow{}).Where("userid = ?", userID).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update weight target: %w", result.Error)
		}
	}
	return s.GetClientProfile(ctx, userID)
}

func (s *SQLiteDB) RecordLogin(ctx context.Context, rec *models.LoginRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := loginRow{
			UserID:    rec.UserID,
			LoginTime: rec.LoginTime,
			IPAddress: rec.IPAddress,
			UserAgent: rec.UserAgent,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}
		err := tx.Model(&profileRow{}).Where("userid = ?", rec.UserID).Update("lastlogin", rec.LoginTime).Error
		if err != nil {
			return fmt.Errorf("failed to update last login: %w", err)
		}
		return nil
	})
}

func (s *SQLiteDB) loginRows(ctx context.Context, userIDs []int) ([]loginRow, error) {
	var rows []loginRow
	if err := s.db.WithContext(ctx).Where("userid IN ?", userIDs).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query login history: %w", err)
	}
	return rows, nil
}

func (s *SQLiteDB) LastLogins(ctx context.Context, userIDs []int) (map[int]time.Time, error) {
	result := make(map[int]time.Time)
	if len(userIDs) == 0 {
		return result, nil
	}

	rows, err := s.loginRows(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if last, ok := result[r.UserID]; !ok || r.LoginTime.After(last) {
			result[r.UserID] = r.LoginTime
		}
	}
	return result, nil
}

func (s *SQLiteDB) ListLogins(ctx context.Context, userIDs []int, since time.Time) ([]*models.LoginRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := s.loginRows(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	var records []*models.LoginRecord
	for _, r := range rows {
		if !since.IsZero() && r.LoginTime.Before(since) {
			continue
		}
		records = append(records, &models.LoginRecord{
			UserID:    r.UserID,
			LoginTime: r.LoginTime,
			IPAddress: r.IPAddress,
			UserAgent: r.UserAgent,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LoginTime.Before(records[j].LoginTime)
	})
	return records, nil
}

func (s *SQLiteDB) AddWeightEntry(ctx context.Context, entry *models.WeightEntry) (*models.WeightEntry, error) {
	row := weightRow{
		UserID:    entry.UserID,
		Weight:    entry.Weight,
		Unit:      entry.Unit,
		EntryDate: civilDate(entry.EntryDate),
		CreatedAt: entry.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to add weight entry: %w", err)
	}
	return row.toModel(), nil
}

func (r weightRow) toModel() *models.WeightEntry {
	return &models.WeightEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Weight:    r.Weight,
		Unit:      r.Unit,
		EntryDate: civilDate(r.EntryDate),
		CreatedAt: r.CreatedAt,
	}
}

func (s *SQLiteDB) ListWeightEntries(ctx context.Context, userID int, since time.Time) ([]*models.WeightEntry, error) {
	var rows []weightRow
	if err := s.db.WithContext(ctx).Where("userid = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query weight log: %w", err)
	}

	cutoff := civilDate(since)
	var entries []*models.WeightEntry
	for _, r := range rows {
		e := r.toModel()
		if e.EntryDate.Before(cutoff) {
			continue
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return entries, nil
}

func (r sleepRow) toModel() *models.SleepEntry {
	return &models.SleepEntry{
		ID:              r.ID,
		UserID:          r.UserID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationMinutes: r.DurationMinutes,
		Quality:         r.Quality,
		Note:            r.Note,
		CreatedAt:       r.CreatedAt,
	}
}

func (s *SQLiteDB) CreateSleepEntry(ctx context.Context, entry *models.SleepEntry) (*models.SleepEntry, error) {
	row := sleepRow{
		UserID:          entry.UserID,
		StartTime:       entry.StartTime.UTC(),
		EndTime:         entry.EndTime.UTC(),
		DurationMinutes: entry.DurationMinutes,
		Quality:         entry.Quality,
		Note:            entry.Note,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create sleep entry: %w", err)
	}
	return row.toModel(), nil
}

func (s *SQLiteDB) LatestSleepEntry(ctx context.Context, userID int) (*models.SleepEntry, error) {
	var row sleepRow
	err := s.db.WithContext(ctx).
		Where("userid = ?", userID).
		Order("end_time desc, id desc").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest sleep entry: %w", err)
	}
	return row.toModel(), nil
}

func (s *SQLiteDB) ListSleepEntries(ctx context.Context, userID int, since time.Time) ([]*models.SleepEntry, error) {
	var rows []sleepRow
	if err := s.db.WithContext(ctx).Where("userid = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query sleep log: %w", err)
	}

	var entries []*models.SleepEntry
	for _, r := range rows {
		if r.StartTime.Before(since) {
			continue
		}
		entries = append(entries, r.toModel())
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})
	return entries, nil
}

func (s *SQLiteDB) DeleteSleepEntry(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&sleepRow{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete sleep entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
