package models

type LabeledValue struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type PeakHours struct {
	Range      *string `json:"range"`
	LoginCount int     `json:"login_count"`
}

type EngagementAnalytics struct {
	Overview        []LabeledValue `json:"overview"`
	HourlyBreakdown []LabeledValue `json:"hourlyBreakdown"`
	PeakHours       PeakHours      `json:"peakHours"`
}

type ClientWithLogin struct {
	UserID    int     `json:"userid"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Mobile    *string `json:"mobile"`
	LastLogin *string `json:"lastLogin"`
}

type ClientsLastLoginResponse struct {
	NutritionistID int                 `json:"nutritionist_id"`
	TotalClients   int                 `json:"total_clients"`
	Clients        []ClientWithLogin   `json:"clients"`
	Analytics      EngagementAnalytics `json:"analytics"`
	Msg            string              `json:"msg,omitempty"`
}

type UpcomingBirthday struct {
	UserID        int     `json:"userid"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Mobile        *string `json:"mobile"`
	Birthdate     *string `json:"birthdate"`
	DaysRemaining int     `json:"days_remaining"`
}

type UpcomingBirthdaysResponse struct {
	NutritionistID         int                `json:"nutritionist_id"`
	TotalUpcomingBirthdays int                `json:"total_upcoming_birthdays"`
	UpcomingBirthdays      []UpcomingBirthday `json:"upcoming_birthdays"`
}
