package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"nutrition-coach/internal/models"
	"nutrition-coach/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

var _ Database = (*PostgresDB)(nil)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// Referral Repository Implementation
func (db *PostgresDB) ClientIDsForNutritionist(ctx context.Context, nutritionistID int) ([]int, error) {
	query := `
		SELECT userid FROM client_nutritionist_referral
		WHERE nutritionist_id = $1
		ORDER BY created_at, userid`

	rows, err := db.pool.Query(ctx, query, nutritionistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to scan referrals: %w", err)
	}
	return ids, nil
}

// Profile Repository Implementation
const profileColumns = `userid, name, email, mobile, birthdate, bmi, startingweight, targetweight, weightunit`

func scanProfile(row pgx.Row) (*models.ClientProfile, error) {
	p := &models.ClientProfile{}
	err := row.Scan(
		&p.UserID, &p.Name, &p.Email, &p.Mobile, &p.Birthdate,
		&p.BMI, &p.StartingWeight, &p.TargetWeight, &p.WeightUnit,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (db *PostgresDB) GetClientProfile(ctx context.Context, userID int) (*models.ClientProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM userprofile WHERE userid = $1`

	p, err := scanProfile(db.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile %d: %w", userID, err)
	}
	return p, nil
}

func (db *PostgresDB) GetClientProfiles(ctx context.Context, userIDs []int) ([]*models.ClientProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + profileColumns + ` FROM userprofile WHERE userid = ANY($1) ORDER BY userid`

	rows, err := db.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.ClientProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (db *PostgresDB) UpdateWeightTarget(ctx context.Context, userID int, req *models.WeightTargetRequest) (*models.ClientProfile, error) {
	query := `
		UPDATE userprofile SET
			startingweight = COALESCE($2, startingweight),
			targetweight = COALESCE($3, targetweight),
			weightunit = COALESCE(NULLIF($4, ''), weightunit)
		WHERE userid = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(db.pool.QueryRow(ctx, query, userID, req.StartingWeight, req.TargetWeight, req.Unit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update weight target: %w", err)
	}
	return p, nil
}

// Login History Repository Implementation
func (db *PostgresDB) RecordLogin(ctx context.Context, rec *models.LoginRecord) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO user_login_history (userid, login_time, ip_address, user_agent) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, query, rec.UserID, rec.LoginTime, rec.IPAddress, rec.UserAgent); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE userprofile SET lastlogin = $2 WHERE userid = $1`, rec.UserID, rec.LoginTime); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return tx.Commit(ctx)
}

func (db *PostgresDB) LastLogins(ctx context.Context, userIDs []int) (map[int]time.Time, error) {
	result := make(map[int]time.Time)
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT userid, MAX(login_time)
		FROM user_login_history
		WHERE userid = ANY($1)
		GROUP BY userid`

	rows, err := db.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query last logins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int
		var last time.Time
		if err := rows.Scan(&userID, &last); err != nil {
			return nil, fmt.Errorf("failed to scan last login: %w", err)
		}
		result[userID] = last
	}
	return result, rows.Err()
}

func (db *PostgresDB) ListLogins(ctx context.Context, userIDs []int, since time.Time) ([]*models.LoginRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT userid, login_time, COALESCE(ip_address, ''), COALESCE(user_agent, '')
		FROM user_login_history
		WHERE userid = ANY($1) AND ($2::timestamptz IS NULL OR login_time >= $2)
		ORDER BY login_time, id`

	var sinceArg *time.Time
	if !since.IsZero() {
		sinceArg = &since
	}

	rows, err := db.pool.Query(ctx, query, userIDs, sinceArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query login history: %w", err)
	}
	defer rows.Close()

	var records []*models.LoginRecord
	for rows.Next() {
		rec := &models.LoginRecord{}
		if err := rows.Scan(&rec.UserID, &rec.LoginTime, &rec.IPAddress, &rec.UserAgent); err != nil {
			return nil, fmt.Errorf("failed to scan login record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Weight Log Repository Implementation
func (db *PostgresDB) AddWeightEntry(ctx context.Context, entry *models.WeightEntry) (*models.WeightEntry, error) {
	query := `
		INSERT INTO user_weight_log (userid, weight, unit, entry_date, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, userid, weight, unit, entry_date, created_at`

	saved := &models.WeightEntry{}
	err := db.pool.QueryRow(ctx, query, entry.UserID, entry.Weight, entry.Unit, civilDate(entry.EntryDate)).Scan(
		&saved.ID, &saved.UserID, &saved.Weight, &saved.Unit, &saved.EntryDate, &saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add weight entry: %w", err)
	}
	return saved, nil
}

func (db *PostgresDB) ListWeightEntries(ctx context.Context, userID int, since time.Time) ([]*models.WeightEntry, error) {
	query := `
		SELECT id, userid, weight, unit, entry_date, created_at
		FROM user_weight_log
		WHERE userid = $1 AND entry_date >= $2
		ORDER BY entry_date DESC, created_at DESC, id DESC`

	rows, err := db.pool.Query(ctx, query, userID, civilDate(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query weight log: %w", err)
	}
	defer rows.Close()

	var entries []*models.WeightEntry
	for rows.Next() {
		e := &models.WeightEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Weight, &e.Unit, &e.EntryDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weight entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Sleep Log Repository Implementation
const sleepColumns = `id, userid, start_time, end_time, duration_minutes, quality, note, created_at`

func scanSleep(row pgx.Row) (*models.SleepEntry, error) {
	e := &models.SleepEntry{}
	err := row.Scan(&e.ID, &e.UserID, &e.StartTime, &e.EndTime, &e.DurationMinutes, &e.Quality, &e.Note, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (db *PostgresDB) CreateSleepEntry(ctx context.Context, entry *models.SleepEntry) (*models.SleepEntry, error) {
	query := `
		INSERT INTO sleep_log (userid, start_time, end_time, duration_minutes, quality, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + sleepColumns

	saved, err := scanSleep(db.pool.QueryRow(ctx, query,
		entry.UserID, entry.StartTime, entry.EndTime, entry.DurationMinutes, entry.Quality, entry.Note))
	if err != nil {
		return nil, fmt.Errorf("failed to create sleep entry: %w", err)
	}
	return saved, nil
}

func (db *PostgresDB) LatestSleepEntry(ctx context.Context, userID int) (*models.SleepEntry, error) {
	query := `SELECT ` + sleepColumns + ` FROM sleep_log WHERE userid = $1 ORDER BY end_time DESC, id DESC LIMIT 1`

	e, err := scanSleep(db.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest sleep entry: %w", err)
	}
	return e, nil
}

func (db *PostgresDB) ListSleepEntries(ctx context.Context, userID int, since time.Time) ([]*models.SleepEntry, error) {
	query := `SELECT ` + sleepColumns + ` FROM sleep_log WHERE userid = $1 AND start_time >= $2 ORDER BY start_time, id`

	rows, err := db.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sleep log: %w", err)
	}
	defer rows.Close()

	var entries []*models.SleepEntry
	for rows.Next() {
		e, err := scanSleep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sleep entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (db *PostgresDB) DeleteSleepEntry(ctx context.Context, id int) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM sleep_log WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sleep entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
