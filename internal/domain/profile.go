package domain

import "time"

// DayAvailability is one weekday slot of a freelancer's schedule.
type DayAvailability struct {
	Available bool   `json:"available"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// WeeklyAvailability maps weekday names to availability slots.
type WeeklyAvailability map[string]DayAvailability

// Freelancer is the construction-trade freelancer profile.
type Freelancer struct {
	ID              int64              `json:"id"`
	UserID          int64              `json:"userId"`
	LastName        string             `json:"lastName"`
	FirstName       string             `json:"firstName"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone,omitempty"`
	Trade           string             `json:"trade"`
	DailyRate       float64            `json:"dailyRate,omitempty"`
	RateMode        string             `json:"rateMode,omitempty"` // JOUR, HEURE, FORFAIT
	Siret           string             `json:"siret,omitempty"`
	ExperienceYears int                `json:"experienceYears,omitempty"`
	Description     string             `json:"description,omitempty"`
	Address         string             `json:"address,omitempty"`
	City            string             `json:"city,omitempty"`
	PostalCode      string             `json:"postalCode,omitempty"`
	Available       bool               `json:"available"`
	Availability    WeeklyAvailability `json:"availability,omitempty"`
	RegisteredAt    time.Time          `json:"registeredAt"`
}

// Company is the contracting company profile. Siret is the French fiscal
// identifier, unique across companies.
type Company struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	LegalName     string    `json:"legalName"`
	Siret         string    `json:"siret"`
	LegalForm     string    `json:"legalForm,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	CompanySize   string    `json:"companySize,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	PostalCode    string    `json:"postalCode,omitempty"`
	Website       string    `json:"website,omitempty"`
	Description   string    `json:"description,omitempty"`
	ContactLast   string    `json:"contactLastName,omitempty"`
	ContactFirst  string    `json:"contactFirstName,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	RegisteredAt  time.Time `json:"registeredAt"`
}
