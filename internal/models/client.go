package models

import "time"

// ClientProfile is the roster view of a client owned by the profile store.
type ClientProfile struct {
	UserID         int        `json:"userid"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Mobile         *string    `json:"mobile"`
	Birthdate      *time.Time `json:"birthdate,omitempty"`
	BMI            *float64   `json:"bmi,omitempty"`
	StartingWeight *float64   `json:"startingweight,omitempty"`
	TargetWeight   *float64   `json:"targetweight,omitempty"`
	WeightUnit     *string    `json:"weightunit,omitempty"`
}

type LoginRecord struct {
	UserID    int       `json:"userid"`
	LoginTime time.Time `json:"login_time"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

type WeightTargetRequest struct {
	StartingWeight *float64 `json:"startingweight"`
	TargetWeight   *float64 `json:"targetweight"`
	Unit           string   `json:"unit"`
}

type WeightTargetResponse struct {
	Message        string   `json:"message"`
	UserID         int      `json:"userid"`
	StartingWeight *float64 `json:"startingweight"`
	TargetWeight   *float64 `json:"targetweight"`
	Unit           string   `json:"unit"`
}
