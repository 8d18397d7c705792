package analytics

import (
	"testing"
	"time"

	"nutrition-coach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func client(id int, birthdate string) *models.ClientProfile {
	p := &models.ClientProfile{UserID: id, Name: "client", Email: "c@example.com"}
	if birthdate != "" {
		d, err := time.Parse(dateLayout, birthdate)
		if err != nil {
			panic(err)
		}
		p.Birthdate = &d
	}
	return p
}

func TestUpcomingBirthdaysWindow(t *testing.T) {
	today := time.Date(2024, time.June, 10, 18, 30, 0, 0, time.UTC)
	roster := []*models.ClientProfile{
		client(1, "1990-06-17"), // 7 days
		client(2, "1985-06-18"), // 8 days
		client(3, "2000-06-10"), // today
		client(4, "1970-06-09"), // yesterday, next year
		client(5, ""),
	}

	got := UpcomingBirthdays(roster, today)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].UserID)
	assert.Equal(t, 0, got[0].DaysRemaining)
	assert.Equal(t, 1, got[1].UserID)
	assert.Equal(t, 7, got[1].DaysRemaining)
	require.NotNil(t, got[1].Birthdate)
	assert.Equal(t, "1990-06-17", *got[1].Birthdate)
}

func TestUpcomingBirthdaysStableTies(t *testing.T) {
	today := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	roster := []*models.ClientProfile{
		client(9, "1991-06-12"),
		client(4, "1992-06-11"),
		client(7, "1993-06-12"),
	}

	got := UpcomingBirthdays(roster, today)
	require.Len(t, got, 3)
	assert.Equal(t, []int{4, 9, 7}, []int{got[0].UserID, got[1].UserID, got[2].UserID})
}

func TestUpcomingBirthdaysAcrossYearEnd(t *testing.T) {
	today := time.Date(2024, time.December, 28, 12, 0, 0, 0, time.UTC)
	got := UpcomingBirthdays([]*models.ClientProfile{client(1, "1999-01-02")}, today)

	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].DaysRemaining)
}

func TestUpcomingBirthdaysLeapDay(t *testing.T) {
	today := time.Date(2023, time.February, 25, 0, 0, 0, 0, time.UTC)
	got := UpcomingBirthdays([]*models.ClientProfile{client(1, "2000-02-29")}, today)

	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].DaysRemaining)
}

func TestUpcomingBirthdaysUsesLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// Still June 9 in UTC, already June 10 locally.
	today := time.Date(2024, time.June, 10, 2, 0, 0, 0, loc)

	got := UpcomingBirthdays([]*models.ClientProfile{client(1, "1990-06-10")}, today)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].DaysRemaining)
}

func TestUpcomingBirthdaysEmptyRoster(t *testing.T) {
	got := UpcomingBirthdays(nil, time.Now())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
