package models

import (
	"time"
)

type Freelancer struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	UserID          int64   `gorm:"not null;uniqueIndex"`
	LastName        string  `gorm:"type:text"`
	FirstName       string  `gorm:"type:text"`
	Email           string  `gorm:"type:text"`
	Phone           string  `gorm:"type:text"`
	Trade           string  `gorm:"type:text;index"`
	DailyRate       float64 `gorm:"type:decimal(10,2)"`
	RateMode        string  `gorm:"type:text;default:JOUR"`
	Siret           string  `gorm:"type:text"`
	ExperienceYears int
	Description     string `gorm:"type:text"`
	Address         string `gorm:"type:text"`
	City            string `gorm:"type:text;index"`
	PostalCode      string `gorm:"type:text"`
	Available       bool   `gorm:"not null;default:true"`
	// Weekly schedule serialized as JSON, one entry per weekday.
	Availability string    `gorm:"type:jsonb;default:'{}'"`
	RegisteredAt time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Company struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UserID       int64     `gorm:"not null;uniqueIndex"`
	LegalName    string    `gorm:"type:text;not null"`
	Siret        string    `gorm:"type:text;not null;uniqueIndex"`
	LegalForm    string    `gorm:"type:text"`
	Sector       string    `gorm:"type:text"`
	CompanySize  string    `gorm:"type:text"`
	Phone        string    `gorm:"type:text"`
	Address      string    `gorm:"type:text"`
	City         string    `gorm:"type:text;index"`
	PostalCode   string    `gorm:"type:text"`
	Website      string    `gorm:"type:text"`
	Description  string    `gorm:"type:text"`
	ContactLast  string    `gorm:"type:text"`
	ContactFirst string    `gorm:"type:text"`
	ContactEmail string    `gorm:"type:text"`
	ContactPhone string    `gorm:"type:text"`
	RegisteredAt time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
