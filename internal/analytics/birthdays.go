package analytics

import (
	"sort"
	"time"

	"nutrition-coach/internal/models"
)

const birthdayHorizonDays = 7

// UpcomingBirthdays returns roster entries whose next birthday falls within
// the next seven days, today included, nearest first. Ties keep roster order.
func UpcomingBirthdays(roster []*models.ClientProfile, today time.Time) []models.UpcomingBirthday {
	ty, tm, td := today.Date()
	start := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	upcoming := make([]models.UpcomingBirthday, 0)
	for _, p := range roster {
		if p.Birthdate == nil {
			continue
		}

		days := daysUntilBirthday(*p.Birthdate, start)
		if days < 0 || days > birthdayHorizonDays {
			continue
		}

		birthdate := p.Birthdate.Format(dateLayout)
		upcoming = append(upcoming, models.UpcomingBirthday{
			UserID:        p.UserID,
			Name:          p.Name,
			Email:         p.Email,
			Mobile:        p.Mobile,
			Birthdate:     &birthdate,
			DaysRemaining: days,
		})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysRemaining < upcoming[j].DaysRemaining
	})
	return upcoming
}

// daysUntilBirthday counts calendar days from today (UTC midnight of the
// local date) to the next occurrence of birthdate. February 29 falls on
// March 1 in common years.
func daysUntilBirthday(birthdate, today time.Time) int {
	_, bm, bd := birthdate.Date()
	next := time.Date(today.Year(), bm, bd, 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, bm, bd, 0, 0, 0, 0, time.UTC)
	}
	return daysBetween(today, next)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
