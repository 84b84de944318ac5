package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/batimatch/batimatch/internal/domain"
)

var tenderTracer = otel.Tracer("usecase/tender")

type TenderCreateInput struct {
	Title            string
	Description      string
	Budget           string
	BudgetMin        *float64
	BudgetMax        *float64
	City             string
	ConstructionType string
	Sector           string
	Audience         string
	Deadline         *time.Time
}

type ApplyInput struct {
	CandidateType  domain.AccountType
	Proposal       string
	ProposedBudget *float64
	ProposedLength string
}

// TenderPage is one page of tender listings.
type TenderPage struct {
	Tenders    []domain.Tender `json:"tenders"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int64           `json:"totalPages"`
}

type TenderUsecase struct {
	tenders       TenderRepository
	applications  ApplicationRepository
	freelancers   FreelancerRepository
	companies     CompanyRepository
	contracts     ContractRepository
	notifications *NotificationUsecase
}

func NewTenderUsecase(
	tenders TenderRepository,
	applications ApplicationRepository,
	freelancers FreelancerRepository,
	companies CompanyRepository,
	contracts ContractRepository,
	notifications *NotificationUsecase,
) *TenderUsecase {
	return &TenderUsecase{
		tenders:       tenders,
		applications:  applications,
		freelancers:   freelancers,
		companies:     companies,
		contracts:     contracts,
		notifications: notifications,
	}
}

// ResolveOwner builds the explicit ownership reference for a user: the
// publisher id always matches; when the user has a company profile, legacy
// rows carrying only that company id match as well.
func (uc *TenderUsecase) ResolveOwner(ctx context.Context, userID int64) (domain.TenderOwner, error) {
	owner := domain.TenderOwner{Kind: domain.OwnerPublisher, PublisherID: userID}

	company, err := uc.companies.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return owner, nil
		}
		return domain.TenderOwner{}, err
	}

	owner.Kind = domain.OwnerLegacyCompany
	owner.CompanyID = company.ID
	return owner, nil
}

// Create publishes a tender. The publisher id is always stored; legacy rows
// of the same company get their publisher id backfilled opportunistically.
func (uc *TenderUsecase) Create(ctx context.Context, callerID int64, input TenderCreateInput) (domain.Tender, error) {
	ctx, span := tenderTracer.Start(ctx, "Tender.Create")
	defer span.End()

	tender := domain.Tender{
		Title:            input.Title,
		Description:      input.Description,
		Budget:           input.Budget,
		BudgetMin:        input.BudgetMin,
		BudgetMax:        input.BudgetMax,
		City:             input.City,
		ConstructionType: input.ConstructionType,
		Sector:           input.Sector,
		Audience:         defaultString(input.Audience, "TOUS"),
		Status:           domain.TenderPublished,
		Deadline:         input.Deadline,
		PublisherID:      &callerID,
	}

	company, err := uc.companies.GetByUserID(ctx, callerID)
	if err == nil {
		tender.CompanyID = &company.ID
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Tender{}, err
	}

	if err := uc.tenders.Create(ctx, &tender); err != nil {
		span.RecordError(err)
		return domain.Tender{}, err
	}

	if tender.CompanyID != nil {
		if err := uc.tenders.AdoptLegacy(ctx, *tender.CompanyID, callerID); err != nil {
			slog.Warn("legacy tender backfill failed", "companyId", *tender.CompanyID, "error", err)
		}
	}

	return uc.tenders.GetByID(ctx, tender.ID)
}

// List pages through tenders. When mine is set, results are restricted to the
// caller's own tenders through the ownership resolver.
func (uc *TenderUsecase) List(ctx context.Context, callerID int64, mine bool, f TenderFilters) (TenderPage, error) {
	ctx, span := tenderTracer.Start(ctx, "Tender.List")
	defer span.End()

	if f.Limit <= 0 {
		f.Limit = 10
	} else if f.Limit > 50 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	if mine {
		owner, err := uc.ResolveOwner(ctx, callerID)
		if err != nil {
			return TenderPage{}, err
		}
		f.Owner = &owner
	}

	tenders, total, err := uc.tenders.List(ctx, f)
	if err != nil {
		return TenderPage{}, err
	}

	return TenderPage{
		Tenders:    tenders,
		Total:      total,
		Page:       f.Page,
		TotalPages: (total + int64(f.Limit) - 1) / int64(f.Limit),
	}, nil
}

func (uc *TenderUsecase) Get(ctx context.Context, id int64) (domain.Tender, error) {
	return uc.tenders.GetByID(ctx, id)
}

// Apply records a candidacy on a tender. The candidate profile is resolved by
// declared type; a duplicate candidacy surfaces the storage conflict. The
// publisher notification is best-effort.
func (uc *TenderUsecase) Apply(ctx context.Context, tenderID, callerID int64, input ApplyInput) (domain.Application, error) {
	ctx, span := tenderTracer.Start(ctx, "Tender.Apply")
	defer span.End()

	tender, err := uc.tenders.GetByID(ctx, tenderID)
	if err != nil {
		return domain.Application{}, err
	}

	application := domain.Application{
		TenderID:       tenderID,
		CandidateType:  input.CandidateType,
		Proposal:       input.Proposal,
		ProposedBudget: input.ProposedBudget,
		ProposedLength: input.ProposedLength,
		Status:         domain.ApplicationPending,
	}

	switch input.CandidateType {
	case domain.AccountCompany:
		company, err := uc.companies.GetByUserID(ctx, callerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Application{}, domain.NotFoundError{Resource: "company profile"}
			}
			return domain.Application{}, err
		}
		application.CompanyID = &company.ID
	default:
		freelancer, err := uc.freelancers.GetByUserID(ctx, callerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Application{}, domain.NotFoundError{Resource: "freelancer profile"}
			}
			return domain.Application{}, err
		}
		application.CandidateType = domain.AccountFreelancer
		application.FreelancerID = &freelancer.ID
	}

	if err := uc.applications.Create(ctx, &application); err != nil {
		span.RecordError(err)
		return domain.Application{}, err
	}

	if uc.notifications != nil && tender.PublisherID != nil {
		err := uc.notifications.Notify(ctx, domain.Notification{
			UserID:  *tender.PublisherID,
			Type:    domain.NotificationApplication,
			Title:   "New application received",
			Message: fmt.Sprintf("You received a new application for %q", tender.Title),
			Link:    "/dashboard/tenders/applications",
		})
		if err != nil {
			slog.Warn("application notification failed", "tenderId", tenderID, "error", err)
		}
	}

	return application, nil
}

func (uc *TenderUsecase) ListApplications(ctx context.Context, tenderID int64) ([]domain.Application, error) {
	if _, err := uc.tenders.GetByID(ctx, tenderID); err != nil {
		return nil, err
	}
	return uc.applications.ListByTender(ctx, tenderID)
}

// AcceptApplication flips the candidacy to accepted. Turning an accepted
// candidacy into a contract is a separate, manual creation call.
func (uc *TenderUsecase) AcceptApplication(ctx context.Context, tenderID, applicationID int64) error {
	return uc.setApplicationStatus(ctx, tenderID, applicationID, domain.ApplicationAccepted)
}

func (uc *TenderUsecase) RejectApplication(ctx context.Context, tenderID, applicationID int64) error {
	return uc.setApplicationStatus(ctx, tenderID, applicationID, domain.ApplicationRejected)
}

func (uc *TenderUsecase) setApplicationStatus(ctx context.Context, tenderID, applicationID int64, status domain.ApplicationStatus) error {
	application, err := uc.applications.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if application.TenderID != tenderID {
		return domain.NotFoundError{Resource: "application"}
	}
	return uc.applications.SetStatus(ctx, applicationID, status)
}

var budgetBuckets = []struct {
	label string
	min   float64
	max   float64
}{
	{"< 5 000 €", 0, 5000},
	{"5 000 € - 20 000 €", 5000, 20000},
	{"20 000 € - 50 000 €", 20000, 50000},
	{"50 000 € - 100 000 €", 50000, 100000},
	{"> 100 000 €", 100000, 0},
}

// Stats builds the publisher dashboard: a six-month series, the budget
// distribution and headline counters.
func (uc *TenderUsecase) Stats(ctx context.Context, callerID int64) (domain.TenderStats, error) {
	ctx, span := tenderTracer.Start(ctx, "Tender.Stats")
	defer span.End()

	owner, err := uc.ResolveOwner(ctx, callerID)
	if err != nil {
		return domain.TenderStats{}, err
	}

	now := time.Now()
	since := now.AddDate(0, -6, 0)
	recent, err := uc.tenders.ListSince(ctx, &owner, since)
	if err != nil {
		return domain.TenderStats{}, err
	}

	monthly := make([]domain.TenderMonthlyPoint, 0, 6)
	index := map[string]int{}
	for i := 5; i >= 0; i-- {
		m := now.AddDate(0, -i, 0)
		key := m.Format("2006-01")
		index[key] = len(monthly)
		monthly = append(monthly, domain.TenderMonthlyPoint{Month: key + "-01"})
	}
	for _, t := range recent {
		if i, ok := index[t.CreatedAt.Format("2006-01")]; ok {
			monthly[i].TendersCreated++
			monthly[i].ApplicationsReceived += t.ApplicationCount
		}
	}

	all, err := uc.tenders.ListSince(ctx, &owner, time.Time{})
	if err != nil {
		return domain.TenderStats{}, err
	}
	distribution := make([]domain.BudgetBucket, len(budgetBuckets))
	for i, b := range budgetBuckets {
		distribution[i].Range = b.label
		for _, t := range all {
			if t.BudgetMin == nil {
				continue
			}
			v := *t.BudgetMin
			if v >= b.min && (b.max == 0 || v < b.max) {
				distribution[i].Count++
			}
		}
	}

	stats := domain.TenderStats{
		MonthlyData:        monthly,
		BudgetDistribution: distribution,
	}
	if stats.ActiveTenders, err = uc.tenders.CountActive(ctx, &owner); err != nil {
		return domain.TenderStats{}, err
	}
	if stats.TotalTenders, err = uc.tenders.CountAll(ctx, &owner); err != nil {
		return domain.TenderStats{}, err
	}
	if stats.TotalApplications, err = uc.tenders.CountApplications(ctx, &owner); err != nil {
		return domain.TenderStats{}, err
	}

	if uc.contracts != nil {
		cs, err := uc.contracts.Stats(ctx, ContractStatsFilter{})
		if err != nil {
			slog.Warn("contract counters unavailable for tender stats", "error", err)
		} else {
			stats.ActiveProjects = cs.InProgress
			stats.CompletedProjects = cs.Completed
		}
	}

	return stats, nil
}
