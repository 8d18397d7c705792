package database

import (
	"context"
	"testing"
	"time"

	"nutrition-coach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedClient(t *testing.T, db *SQLiteDB, name string, nutritionistID int) *models.ClientProfile {
	t.Helper()

	p := &models.ClientProfile{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.CreateProfile(context.Background(), p))
	if nutritionistID != 0 {
		require.NoError(t, db.AddReferral(context.Background(), p.UserID, nutritionistID))
	}
	return p
}

func TestSQLiteReferrals(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	a := seedClient(t, db, "alice", 7)
	b := seedClient(t, db, "bob", 7)
	seedClient(t, db, "carol", 9)

	ids, err := db.ClientIDsForNutritionist(ctx, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{a.UserID, b.UserID}, ids)

	ids, err = db.ClientIDsForNutritionist(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSQLiteProfiles(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	birthday := time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)
	mobile := "555-0100"
	p := &models.ClientProfile{Name: "dana", Email: "dana@example.com", Mobile: &mobile, Birthdate: &birthday}
	require.NoError(t, db.CreateProfile(ctx, p))

	got, err := db.GetClientProfile(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "dana", got.Name)
	require.NotNil(t, got.Birthdate)
	assert.Equal(t, time.March, got.Birthdate.Month())
	assert.Equal(t, 14, got.Birthdate.Day())

	_, err = db.GetClientProfile(ctx, p.UserID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	profiles, err := db.GetClientProfiles(ctx, []int{p.UserID, p.UserID + 100})
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	profiles, err = db.GetClientProfiles(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestSQLiteUpdateWeightTarget(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	p := seedClient(t, db, "erin", 0)

	start, target := 82.5, 75.0
	got, err := db.UpdateWeightTarget(ctx, p.UserID, &models.WeightTargetRequest{
		StartingWeight: &start,
		TargetWeight:   &target,
		Unit:           "kg",
	})
	require.NoError(t, err)
	require.NotNil(t, got.StartingWeight)
	assert.Equal(t, 82.5, *got.StartingWeight)
	assert.Equal(t, 75.0, *got.TargetWeight)
	assert.Equal(t, "kg", *got.WeightUnit)

	_, err = db.UpdateWeightTarget(ctx, p.UserID+100, &models.WeightTargetRequest{Unit: "kg"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteLoginHistory(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	a := seedClient(t, db, "frank", 1)
	b := seedClient(t, db, "gina", 1)
	c := seedClient(t, db, "hank", 1)

	base := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	logins := []models.LoginRecord{
		{UserID: a.UserID, LoginTime: base.Add(-48 * time.Hour)},
		{UserID: a.UserID, LoginTime: base},
		{UserID: b.UserID, LoginTime: base.Add(-10 * 24 * time.Hour)},
	}
	for i := range logins {
		require.NoError(t, db.RecordLogin(ctx, &logins[i]))
	}

	last, err := db.LastLogins(ctx, []int{a.UserID, b.UserID, c.UserID})
	require.NoError(t, err)
	assert.True(t, last[a.UserID].Equal(base))
	assert.True(t, last[b.UserID].Equal(base.Add(-10*24*time.Hour)))
	_, ok := last[c.UserID]
	assert.False(t, ok)

	all, err := db.ListLogins(ctx, []int{a.UserID, b.UserID}, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, b.UserID, all[0].UserID)

	recent, err := db.ListLogins(ctx, []int{a.UserID, b.UserID}, base.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 2)
	for _, rec := range recent {
		assert.Equal(t, a.UserID, rec.UserID)
	}
}

func TestSQLiteWeightEntries(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	p := seedClient(t, db, "iris", 0)

	day := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	entries := []models.WeightEntry{
		{UserID: p.UserID, Weight: 70, Unit: "kg", EntryDate: day.AddDate(0, 0, -1), CreatedAt: day.Add(-20 * time.Hour)},
		{UserID: p.UserID, Weight: 71, Unit: "kg", EntryDate: day, CreatedAt: day.Add(8 * time.Hour)},
		{UserID: p.UserID, Weight: 72, Unit: "kg", EntryDate: day, CreatedAt: day.Add(9 * time.Hour)},
		{UserID: p.UserID, Weight: 60, Unit: "kg", EntryDate: day.AddDate(0, 0, -30), CreatedAt: day.AddDate(0, 0, -30)},
	}
	for i := range entries {
		_, err := db.AddWeightEntry(ctx, &entries[i])
		require.NoError(t, err)
	}

	got, err := db.ListWeightEntries(ctx, p.UserID, day.AddDate(0, 0, -4))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 72.0, got[0].Weight)
	assert.Equal(t, 71.0, got[1].Weight)
	assert.Equal(t, 70.0, got[2].Weight)
}

func TestSQLiteSleepEntries(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	p := seedClient(t, db, "jack", 0)

	start := time.Date(2024, time.June, 9, 23, 0, 0, 0, time.UTC)
	first, err := db.CreateSleepEntry(ctx, &models.SleepEntry{
		UserID: p.UserID, StartTime: start, EndTime: start.Add(7 * time.Hour), DurationMinutes: 420,
	})
	require.NoError(t, err)

	second, err := db.CreateSleepEntry(ctx, &models.SleepEntry{
		UserID: p.UserID, StartTime: start.Add(24 * time.Hour), EndTime: start.Add(30 * time.Hour), DurationMinutes: 360,
	})
	require.NoError(t, err)

	latest, err := db.LatestSleepEntry(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	list, err := db.ListSleepEntries(ctx, p.UserID, start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, db.DeleteSleepEntry(ctx, first.ID))
	assert.ErrorIs(t, db.DeleteSleepEntry(ctx, first.ID), ErrNotFound)

	_, err = db.LatestSleepEntry(ctx, p.UserID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteLatestSleepEntryOrdersByInstant(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()
	p := seedClient(t, db, "kim", 0)

	berlin := time.FixedZone("CEST", 2*60*60)
	// 08:00 CEST is 06:00 UTC, earlier than the 07:00 UTC entry below.
	_, err := db.CreateSleepEntry(ctx, &models.SleepEntry{
		UserID:    p.UserID,
		StartTime: time.Date(2024, time.June, 10, 0, 0, 0, 0, berlin),
		EndTime:   time.Date(2024, time.June, 10, 8, 0, 0, 0, berlin),
	})
	require.NoError(t, err)

	end := time.Date(2024, time.June, 10, 7, 0, 0, 0, time.UTC)
	_, err = db.CreateSleepEntry(ctx, &models.SleepEntry{UserID: p.UserID, StartTime: end.Add(-6 * time.Hour), EndTime: end})
	require.NoError(t, err)
	tie, err := db.CreateSleepEntry(ctx, &models.SleepEntry{UserID: p.UserID, StartTime: end.Add(-5 * time.Hour), EndTime: end})
	require.NoError(t, err)

	latest, err := db.LatestSleepEntry(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, tie.ID, latest.ID)
	assert.True(t, latest.EndTime.Equal(end))
}
