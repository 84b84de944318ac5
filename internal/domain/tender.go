package domain

import "time"

// Tender is a published request for construction work that freelancers and
// companies can apply to.
type Tender struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Budget           string       `json:"budget,omitempty"` // display label only
	BudgetMin        *float64     `json:"budgetMin,omitempty"`
	BudgetMax        *float64     `json:"budgetMax,omitempty"`
	City             string       `json:"city,omitempty"`
	ConstructionType string       `json:"constructionType,omitempty"`
	Sector           string       `json:"sector,omitempty"`
	Audience         string       `json:"audience,omitempty"` // TOUS, FREELANCE, ENTREPRISE
	Status           TenderStatus `json:"status"`
	Deadline         *time.Time   `json:"deadline,omitempty"`
	PublisherID      *int64       `json:"publisherId,omitempty"`
	CompanyID        *int64       `json:"companyId,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`

	CompanyName       string        `json:"companyName,omitempty"`
	ApplicationCount  int64         `json:"applicationCount"`
	Applications      []Application `json:"applications,omitempty"`
}

// OwnerKind tags a resolved tender owner reference.
type OwnerKind string

const (
	OwnerPublisher OwnerKind = "publisher"
	// OwnerLegacyCompany matches pre-migration rows that carry only a company
	// id. Deprecated: to be removed once publisher ids are backfilled.
	OwnerLegacyCompany OwnerKind = "legacy-company"
)

// TenderOwner is an explicit ownership reference: either the publishing user
// id, or a legacy company id for rows created before publisher ids existed.
type TenderOwner struct {
	Kind        OwnerKind `json:"kind"`
	PublisherID int64     `json:"publisherId,omitempty"`
	CompanyID   int64     `json:"companyId,omitempty"`
}

// Application is a candidate's response to a Tender. Exactly one of
// FreelancerID / CompanyID is set, per CandidateType.
type Application struct {
	ID             int64             `json:"id"`
	TenderID       int64             `json:"tenderId"`
	CandidateType  AccountType       `json:"candidateType"`
	FreelancerID   *int64            `json:"freelancerId,omitempty"`
	CompanyID      *int64            `json:"companyId,omitempty"`
	Proposal       string            `json:"proposal,omitempty"`
	ProposedBudget *float64          `json:"proposedBudget,omitempty"`
	ProposedLength string            `json:"proposedLength,omitempty"`
	Status         ApplicationStatus `json:"status"`
	AppliedAt      time.Time         `json:"appliedAt"`

	CandidateName  string `json:"candidateName,omitempty"`
	CandidateEmail string `json:"candidateEmail,omitempty"`
}

// TenderMonthlyPoint is one month of the dashboard time series.
type TenderMonthlyPoint struct {
	Month                string `json:"month"`
	TendersCreated       int64  `json:"tendersCreated"`
	ApplicationsReceived int64  `json:"applicationsReceived"`
}

// BudgetBucket is one bar of the budget distribution histogram.
type BudgetBucket struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

// TenderStats is the dashboard aggregate for a publisher (or globally).
type TenderStats struct {
	ActiveTenders      int64                `json:"activeTenders"`
	TotalTenders       int64                `json:"totalTenders"`
	TotalApplications  int64                `json:"totalApplications"`
	ActiveProjects     int64                `json:"activeProjects"`
	CompletedProjects  int64                `json:"completedProjects"`
	MonthlyData        []TenderMonthlyPoint `json:"monthlyData"`
	BudgetDistribution []BudgetBucket       `json:"budgetDistribution"`
}
