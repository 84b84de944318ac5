package domain

// Echo context keys populated by the auth middleware.
const (
	RequesterIdCtxKey   = "bm-requesterId"
	RequesterTypeCtxKey = "bm-requesterType"
)

// AccountType discriminates the two profile kinds a user can hold.
type AccountType string

const (
	AccountFreelancer AccountType = "FREELANCE"
	AccountCompany    AccountType = "ENTREPRISE"
	AccountAdmin      AccountType = "ADMIN"
)

// ContractStatus is the contract lifecycle state.
type ContractStatus string

const (
	ContractDraft      ContractStatus = "BROUILLON"
	ContractPending    ContractStatus = "EN_ATTENTE"
	ContractSigned     ContractStatus = "SIGNE"
	ContractInProgress ContractStatus = "EN_COURS"
	ContractCompleted  ContractStatus = "TERMINE"
	ContractCancelled  ContractStatus = "ANNULE"
)

// SignerRole identifies which side of a contract produced a signature.
type SignerRole string

const (
	SignerFreelancer SignerRole = "FREELANCE"
	SignerCompany    SignerRole = "ENTREPRISE"
)

// ApplicationStatus is the tender-candidacy state.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "EN_ATTENTE"
	ApplicationAccepted ApplicationStatus = "ACCEPTE"
	ApplicationRejected ApplicationStatus = "REFUSE"
)

// TenderStatus is the publication state of a call for tenders.
type TenderStatus string

const (
	TenderDraft     TenderStatus = "BROUILLON"
	TenderPublished TenderStatus = "PUBLIE"
	TenderClosed    TenderStatus = "CLOTURE"
	TenderCancelled TenderStatus = "ANNULE"
)

// PaymentStatus is the bookkeeping state of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "EN_ATTENTE"
	PaymentValidated PaymentStatus = "VALIDE"
	PaymentCompleted PaymentStatus = "COMPLETE"
	PaymentRefused   PaymentStatus = "REFUSE"
)

// PaymentMethod is how a payment was settled.
type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "CARTE"
	PaymentTransfer PaymentMethod = "VIREMENT"
	PaymentCash     PaymentMethod = "ESPECES"
)

// NotificationType tags a notification for client-side rendering.
type NotificationType string

const (
	NotificationApplication NotificationType = "CANDIDATURE"
	NotificationContract    NotificationType = "CONTRAT"
	NotificationSignature   NotificationType = "SIGNATURE"
	NotificationPayment     NotificationType = "PAIEMENT"
	NotificationSystem      NotificationType = "SYSTEME"
)

// CancelReason is the structured code recorded when a contract is cancelled.
type CancelReason string

const (
	CancelByCompany    CancelReason = "COMPANY_WITHDRAWN"
	CancelByFreelancer CancelReason = "FREELANCER_WITHDRAWN"
	CancelBudget       CancelReason = "BUDGET_WITHDRAWN"
	CancelMutual       CancelReason = "MUTUAL_AGREEMENT"
	CancelOther        CancelReason = "OTHER"
)
