package models

import (
	"time"
)

type Notification struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"not null;index"`
	User       User      `gorm:"constraint:OnDelete:CASCADE;"`
	Type       string    `gorm:"type:text;not null"`
	Title      string    `gorm:"type:text"`
	Message    string    `gorm:"type:text;not null"`
	Link       string    `gorm:"type:text"`
	ContractID *int64    `gorm:"index"`
	Contract   *Contract `gorm:"foreignKey:ContractID"`
	Read       bool      `gorm:"not null;default:false;index"`
	CreatedAt  time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
