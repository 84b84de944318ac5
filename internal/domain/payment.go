package domain

import "time"

// CommissionRate is the platform cut applied to settled payments.
const CommissionRate = 0.05

// VATRate is the French VAT applied when splitting gross amounts.
const VATRate = 0.20

// Payment is a bookkeeping ledger entry over a contract. No gateway
// integration: records only.
type Payment struct {
	ID              int64         `json:"id"`
	Reference       string        `json:"reference"`
	ContractID      int64         `json:"contractId"`
	Amount          float64       `json:"amount"`
	AmountExclVAT   float64       `json:"amountExclVat"`
	AmountVAT       float64       `json:"amountVat"`
	PayerID         int64         `json:"payerId"`
	PayerType       AccountType   `json:"payerType"`
	BeneficiaryID   int64         `json:"beneficiaryId"`
	BeneficiaryType AccountType   `json:"beneficiaryType"`
	Method          PaymentMethod `json:"method"`
	Status          PaymentStatus `json:"status"`
	DueDate         *time.Time    `json:"dueDate,omitempty"`
	PaidAt          *time.Time    `json:"paidAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`

	ContractTitle string `json:"contractTitle,omitempty"`
	Counterparty  string `json:"counterparty,omitempty"`
}

// PaymentHistoryEntry is one row of the per-profile payment history.
type PaymentHistoryEntry struct {
	Date       time.Time     `json:"date"`
	Mission    string        `json:"mission"`
	Method     PaymentMethod `json:"method"`
	Amount     float64       `json:"amount"`
	Commission float64       `json:"commission"`
	Net        float64       `json:"net"`
	Status     PaymentStatus `json:"status"`
}

// FreelancerPaymentSummary aggregates what a freelancer received.
type FreelancerPaymentSummary struct {
	Total                float64               `json:"total"`
	Platform             float64               `json:"platform"`
	Cash                 float64               `json:"cash"`
	Wallet               float64               `json:"wallet"`
	PendingCommissions   float64               `json:"pendingCommissionDeductions"`
	History              []PaymentHistoryEntry `json:"history"`
}

// CompanyPaymentSummary aggregates what a company paid out.
type CompanyPaymentSummary struct {
	Total   float64               `json:"total"`
	Paid    float64               `json:"paid"`
	Pending float64               `json:"pending"`
	History []PaymentHistoryEntry `json:"history"`
}
