package models

import (
	"time"
)

type Payment struct {
	ID              int64    `gorm:"primaryKey;autoIncrement"`
	Reference       string   `gorm:"type:text;not null;uniqueIndex"`
	ContractID      int64    `gorm:"not null;index"`
	Contract        Contract `gorm:"constraint:OnDelete:RESTRICT;"`
	Amount          float64  `gorm:"type:decimal(12,2);not null"`
	AmountExclVAT   float64  `gorm:"type:decimal(12,2)"`
	AmountVAT       float64  `gorm:"type:decimal(12,2)"`
	PayerID         int64    `gorm:"not null;index"`
	PayerType       string   `gorm:"type:text;not null"`
	BeneficiaryID   int64    `gorm:"not null;index"`
	BeneficiaryType string   `gorm:"type:text;not null"`
	Method          string   `gorm:"type:text;not null"`
	Status          string   `gorm:"type:text;not null;default:EN_ATTENTE;index"`
	DueDate         *time.Time `gorm:"type:timestamp with time zone"`
	PaidAt          *time.Time `gorm:"type:timestamp with time zone"`
	CreatedAt       time.Time  `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
