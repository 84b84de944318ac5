package usecase

import (
	"context"
	"time"

	"github.com/batimatch/batimatch/internal/domain"
)

// UserRepository defines persistence for login identities and their profile
// rows. The CreateWith* variants run user+profile creation in one transaction.
type UserRepository interface {
	CreateWithFreelancer(ctx context.Context, user *domain.User, profile *domain.Freelancer) error
	CreateWithCompany(ctx context.Context, user *domain.User, profile *domain.Company) error
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	SetResetToken(ctx context.Context, userID int64, token string, expires time.Time) error
	// ConsumeResetToken atomically matches an unexpired reset token, clears it
	// and stores the new password hash. Returns the affected user id.
	ConsumeResetToken(ctx context.Context, token string, newHash string) (int64, error)
}

// SessionRepository defines persistence for refresh-token sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, userID int64, refreshToken string) (domain.Session, error)
	Rotate(ctx context.Context, sessionID int64, refreshToken string, expires time.Time) error
	Delete(ctx context.Context, userID int64, refreshToken string) error
	DeleteAll(ctx context.Context, userID int64) error
}

// FreelancerFilters narrows freelancer listings.
type FreelancerFilters struct {
	Trade     string
	City      string
	Available *bool
	Page      int
	Limit     int
}

// FreelancerRepository defines lookup/update for freelancer profiles.
type FreelancerRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Freelancer, error)
	GetByUserID(ctx context.Context, userID int64) (domain.Freelancer, error)
	List(ctx context.Context, f FreelancerFilters) ([]domain.Freelancer, int64, error)
	Update(ctx context.Context, userID int64, patch FreelancerPatch) (domain.Freelancer, error)
}

// CompanyFilters narrows company listings.
type CompanyFilters struct {
	City      string
	LegalForm string
	Page      int
	Limit     int
}

// CompanyRepository defines lookup/update for company profiles.
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Company, error)
	GetByUserID(ctx context.Context, userID int64) (domain.Company, error)
	GetBySiret(ctx context.Context, siret string) (domain.Company, error)
	List(ctx context.Context, f CompanyFilters) ([]domain.Company, int64, error)
	Update(ctx context.Context, userID int64, patch CompanyPatch) (domain.Company, error)
}

// TenderFilters narrows tender listings. Owner restricts results to rows the
// resolved owner published (including legacy company-only rows).
type TenderFilters struct {
	Owner            *domain.TenderOwner
	City             string
	ConstructionType string
	BudgetMin        *float64
	BudgetMax        *float64
	Keywords         []string
	Page             int
	Limit            int
}

// TenderRepository defines persistence/lookup for calls for tenders.
type TenderRepository interface {
	Create(ctx context.Context, t *domain.Tender) error
	// AdoptLegacy backfills the publisher id onto legacy rows that only carry
	// the company id.
	AdoptLegacy(ctx context.Context, companyID, publisherID int64) error
	GetByID(ctx context.Context, id int64) (domain.Tender, error)
	List(ctx context.Context, f TenderFilters) ([]domain.Tender, int64, error)
	ListSince(ctx context.Context, owner *domain.TenderOwner, since time.Time) ([]domain.Tender, error)
	CountActive(ctx context.Context, owner *domain.TenderOwner) (int64, error)
	CountAll(ctx context.Context, owner *domain.TenderOwner) (int64, error)
	CountApplications(ctx context.Context, owner *domain.TenderOwner) (int64, error)
}

// ApplicationRepository defines persistence for tender candidacies. Create
// surfaces a storage-level duplicate as domain.ConflictError.
type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.Application) error
	GetByID(ctx context.Context, id int64) (domain.Application, error)
	ListByTender(ctx context.Context, tenderID int64) ([]domain.Application, error)
	SetStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
}

// ContractStatsFilter restricts contract statistics to one party.
type ContractStatsFilter struct {
	CompanyID    *int64
	FreelancerID *int64
}

// ContractFilters narrows contract listings.
type ContractFilters struct {
	Status       domain.ContractStatus
	CompanyID    *int64
	FreelancerID *int64
	TenderID     *int64
	Page         int
	Limit        int
}

// ContractRepository defines persistence for contracts and signatures.
type ContractRepository interface {
	Create(ctx context.Context, c *domain.Contract) error
	GetByID(ctx context.Context, id int64) (domain.Contract, error)
	UpdateFields(ctx context.Context, id int64, patch ContractPatch) (domain.Contract, error)
	// Transition performs a guarded single-statement status move: the update
	// applies only while the row still holds the expected status, together
	// with the extra column assignments.
	Transition(ctx context.Context, id int64, from, to domain.ContractStatus, set map[string]any) (domain.Contract, error)
	// Sign inserts the signature and derives the resulting status in one
	// transaction holding a row lock on the contract, so concurrent signs
	// cannot double-insert a role nor double-advance the status.
	Sign(ctx context.Context, contractID int64, sig domain.Signature) (domain.Contract, error)
	List(ctx context.Context, f ContractFilters) ([]domain.Contract, int64, error)
	Stats(ctx context.Context, f ContractStatsFilter) (domain.ContractStats, error)
}

// NotificationRepository defines persistence for user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	CreateMany(ctx context.Context, ns []domain.Notification) (int64, error)
	ListByUser(ctx context.Context, userID int64, page, limit int) ([]domain.Notification, int64, int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) error
}

// NotificationPublisher fans out freshly created notifications to connected
// clients. Best-effort only.
type NotificationPublisher interface {
	Publish(ctx context.Context, n domain.Notification) error
	Subscribe(ctx context.Context, userID int64) (<-chan domain.Notification, func(), error)
}

// PaymentRepository defines persistence for the payment ledger.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (domain.Payment, error)
	Validate(ctx context.Context, id int64, paidAt time.Time) (domain.Payment, error)
	ListByBeneficiary(ctx context.Context, beneficiaryID int64, beneficiaryType domain.AccountType) ([]domain.Payment, error)
	ListByPayer(ctx context.Context, payerID int64, payerType domain.AccountType) ([]domain.Payment, error)
}

// AdminUserPatch carries the account fields an operator may rewrite. Nil
// means unchanged. CompanyName updates the legal name of the user's company
// profile when one exists.
type AdminUserPatch struct {
	LastName    *string
	FirstName   *string
	Email       *string
	IsActive    *bool
	CompanyName *string
}

// AdminRepository defines the back-office queries spanning accounts and both
// profile kinds.
type AdminRepository interface {
	ListUsers(ctx context.Context, page, limit int) ([]domain.UserOverview, int64, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]domain.UserOverview, error)
	UpdateUser(ctx context.Context, id int64, patch AdminUserPatch) (domain.User, error)
	// DeleteUser removes the user together with its profile and session rows
	// in one transaction.
	DeleteUser(ctx context.Context, id int64) error
	// UserActivity returns the user's recent contracts and tender
	// applications as feed entries, unordered.
	UserActivity(ctx context.Context, userID int64, limit int) ([]domain.ActivityItem, error)
	Stats(ctx context.Context) (domain.PlatformStats, error)
	MapData(ctx context.Context, limit int) (domain.MapData, error)
}

// GeocodingGateway resolves postal addresses to coordinates through an
// external provider.
type GeocodingGateway interface {
	Search(ctx context.Context, query string) (*domain.GeocodingResult, error)
}
