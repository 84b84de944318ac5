package domain

import "time"

// Contract is a binding agreement between one Company and one Freelancer,
// optionally originating from a Tender. FreelancerID is nil while an open
// contract awaits assignment.
type Contract struct {
	ID                   int64          `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description,omitempty"`
	Amount               float64        `json:"amount"`
	Status               ContractStatus `json:"status"`
	CompanyID            int64          `json:"companyId"`
	FreelancerID         *int64         `json:"freelancerId,omitempty"`
	TenderID             *int64         `json:"tenderId,omitempty"`
	StartDate            *time.Time     `json:"startDate,omitempty"`
	EndDate              *time.Time     `json:"endDate,omitempty"`
	BothPartiesSigned    bool           `json:"bothPartiesSigned"`
	SignatureCompletedAt *time.Time     `json:"signatureCompletedAt,omitempty"`
	ProgressStage        string         `json:"progressStage,omitempty"`
	CancelReason         CancelReason   `json:"cancelReason,omitempty"`
	CancelNote           string         `json:"cancelNote,omitempty"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`

	Company    *Company    `json:"company,omitempty"`
	Freelancer *Freelancer `json:"freelancer,omitempty"`
	Signatures []Signature `json:"signatures,omitempty"`
	Documents  []Document  `json:"documents,omitempty"`
}

// Signature records one party's e-signature on a contract. At most one
// exists per (contract, role) pair.
type Signature struct {
	ID         int64      `json:"id"`
	ContractID int64      `json:"contractId"`
	SignerRole SignerRole `json:"signerRole"`
	Payload    string     `json:"signatureData"`
	SignedAt   time.Time  `json:"signedAt"`
	IPAddress  string     `json:"ipAddress,omitempty"`
}

// Document is a file attachment on a contract. Storage itself is external;
// only the reference is kept.
type Document struct {
	ID         int64     `json:"id"`
	ContractID int64     `json:"contractId"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	MimeType   string    `json:"mimeType,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Terminal reports whether no further transition is possible.
func (s ContractStatus) Terminal() bool {
	return s == ContractCompleted || s == ContractCancelled
}

// Mutable reports whether contract terms may still be edited. Once a
// counterpart may have agreed to the terms, they are frozen.
func (s ContractStatus) Mutable() bool {
	return s == ContractDraft || s == ContractPending
}

// CanTransition checks one step of the lifecycle graph. Cancel is the only
// edge that leaves the forward path.
func (s ContractStatus) CanTransition(to ContractStatus) bool {
	if to == ContractCancelled {
		return !s.Terminal()
	}
	switch s {
	case ContractDraft:
		return to == ContractPending
	case ContractPending:
		return to == ContractSigned
	case ContractSigned:
		return to == ContractInProgress
	case ContractInProgress:
		return to == ContractCompleted
	default:
		return false
	}
}

// ContractStats aggregates contract counters for a dashboard.
type ContractStats struct {
	Total       int64   `json:"total"`
	Draft       int64   `json:"draft"`
	Pending     int64   `json:"pending"`
	InProgress  int64   `json:"inProgress"`
	Completed   int64   `json:"completed"`
	TotalAmount float64 `json:"totalAmount"`
}
