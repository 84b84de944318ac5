package models

import (
	"time"
)

type Tender struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Title            string    `gorm:"type:text;not null"`
	Description      string    `gorm:"type:text"`
	Budget           string    `gorm:"type:text"`
	BudgetMin        *float64  `gorm:"type:decimal(12,2);index"`
	BudgetMax        *float64  `gorm:"type:decimal(12,2)"`
	City             string    `gorm:"type:text;index"`
	ConstructionType string    `gorm:"type:text;index"`
	Sector           string    `gorm:"type:text"`
	Audience         string    `gorm:"type:text;default:TOUS"`
	Status           string    `gorm:"type:text;not null;index"`
	Deadline         *time.Time `gorm:"type:timestamp with time zone"`
	// PublisherID is the owning user. Nullable for legacy rows that predate
	// publisher tracking and are matched through CompanyID instead.
	PublisherID *int64   `gorm:"index"`
	CompanyID   *int64   `gorm:"index"`
	Company     *Company `gorm:"foreignKey:CompanyID"`
	CreatedAt   time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`

	Applications []Application `gorm:"foreignKey:TenderID"`
}

type Application struct {
	ID             int64    `gorm:"primaryKey;autoIncrement"`
	TenderID       int64    `gorm:"not null;index;uniqueIndex:idx_app_tender_freelancer,where:freelancer_id is not null;uniqueIndex:idx_app_tender_company,where:company_id is not null"`
	Tender         Tender   `gorm:"constraint:OnDelete:CASCADE;"`
	CandidateType  string   `gorm:"type:text;not null"`
	FreelancerID   *int64   `gorm:"uniqueIndex:idx_app_tender_freelancer,where:freelancer_id is not null"`
	CompanyID      *int64   `gorm:"uniqueIndex:idx_app_tender_company,where:company_id is not null"`
	Proposal       string   `gorm:"type:text"`
	ProposedBudget *float64 `gorm:"type:decimal(12,2)"`
	ProposedLength string   `gorm:"type:text"`
	Status         string   `gorm:"type:text;not null;default:EN_ATTENTE"`
	AppliedAt      time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`

	Freelancer *Freelancer `gorm:"foreignKey:FreelancerID"`
	Company    *Company    `gorm:"foreignKey:CompanyID"`
}
