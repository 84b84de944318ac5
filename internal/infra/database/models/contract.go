package models

import (
	"time"
)

type Contract struct {
	ID           int64    `gorm:"primaryKey;autoIncrement"`
	Title        string   `gorm:"type:text;not null"`
	Description  string   `gorm:"type:text"`
	Amount       float64  `gorm:"type:decimal(12,2);not null"`
	Status       string   `gorm:"type:text;not null;index"`
	CompanyID    int64    `gorm:"not null;index"`
	Company      Company  `gorm:"constraint:OnDelete:RESTRICT;"`
	FreelancerID *int64   `gorm:"index"`
	Freelancer   *Freelancer `gorm:"foreignKey:FreelancerID"`
	TenderID     *int64   `gorm:"index"`
	Tender       *Tender  `gorm:"foreignKey:TenderID"`

	StartDate            *time.Time `gorm:"type:timestamp with time zone"`
	EndDate              *time.Time `gorm:"type:timestamp with time zone"`
	BothPartiesSigned    bool       `gorm:"not null;default:false"`
	SignatureCompletedAt *time.Time `gorm:"type:timestamp with time zone"`
	ProgressStage        string     `gorm:"type:text"`
	CancelReason         string     `gorm:"type:text"`
	CancelNote           string     `gorm:"type:text"`

	CreatedAt time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	UpdatedAt time.Time `gorm:"type:timestamp with time zone"`

	Signatures []Signature `gorm:"foreignKey:ContractID"`
	Documents  []Document  `gorm:"foreignKey:ContractID"`
}

type Signature struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ContractID int64     `gorm:"not null;uniqueIndex:idx_signature_contract_role"`
	Contract   Contract  `gorm:"constraint:OnDelete:CASCADE;"`
	SignerRole string    `gorm:"type:text;not null;uniqueIndex:idx_signature_contract_role"`
	Payload    string    `gorm:"type:text"`
	SignedAt   time.Time `gorm:"type:timestamp with time zone;not null"`
	IPAddress  string    `gorm:"type:text"`
}

type Document struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ContractID int64     `gorm:"not null;index"`
	Contract   Contract  `gorm:"constraint:OnDelete:CASCADE;"`
	Name       string    `gorm:"type:text;not null"`
	URL        string    `gorm:"type:text;not null"`
	MimeType   string    `gorm:"type:text"`
	UploadedAt time.Time `gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
