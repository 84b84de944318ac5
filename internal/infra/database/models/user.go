package models

import (
	"time"
)

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	AccountType  string    `gorm:"type:text;not null;index"`
	LastName     string    `gorm:"type:text"`
	FirstName    string    `gorm:"type:text"`
	Phone        string    `gorm:"type:text"`
	Address      string    `gorm:"type:text"`
	City         string    `gorm:"type:text"`
	PostalCode   string    `gorm:"type:text"`
	ReferralCode string    `gorm:"type:text"`
	IsActive     bool      `gorm:"not null;default:true"`

	ResetToken        *string    `gorm:"type:text;index"`
	ResetTokenExpires *time.Time `gorm:"type:timestamp with time zone"`

	CreatedAt time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	UpdatedAt time.Time `gorm:"type:timestamp with time zone"`

	Freelancer *Freelancer `gorm:"foreignKey:UserID"`
	Company    *Company    `gorm:"foreignKey:UserID"`
}

type Session struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UserID       int64     `gorm:"not null;index"`
	User         User      `gorm:"constraint:OnDelete:CASCADE;"`
	RefreshToken string    `gorm:"type:text;not null;index"`
	ExpiresAt    time.Time `gorm:"type:timestamp with time zone;not null"`
	UserAgent    string    `gorm:"type:text"`
	IPAddress    string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
