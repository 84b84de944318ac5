package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/batimatch/batimatch/internal/domain"
)

type tenderFixture struct {
	uc            *TenderUsecase
	tenders       *memTenderRepo
	applications  *memApplicationRepo
	freelancers   *memFreelancerRepo
	companies     *memCompanyRepo
	contracts     *memContractRepo
	notifications *memNotificationRepo

	company    domain.Company
	freelancer domain.Freelancer
}

func newTenderFixture() *tenderFixture {
	apps := newMemApplicationRepo()
	f := &tenderFixture{
		tenders:       newMemTenderRepo(apps),
		applications:  apps,
		freelancers:   newMemFreelancerRepo(),
		companies:     newMemCompanyRepo(),
		contracts:     newMemContractRepo(),
		notifications: &memNotificationRepo{},
	}
	f.company = f.companies.add(domain.Company{UserID: companyUserID, LegalName: "BatiPro SARL", Siret: "22222222200022"})
	f.freelancer = f.freelancers.add(domain.Freelancer{UserID: freelancerUserID, FirstName: "Marie", Trade: "Plomberie"})
	f.uc = NewTenderUsecase(f.tenders, f.applications, f.freelancers, f.companies, f.contracts,
		NewNotificationUsecase(f.notifications, nil))
	return f
}

func (f *tenderFixture) publish(t *testing.T, input TenderCreateInput) domain.Tender {
	t.Helper()
	if input.Title == "" {
		input.Title = "Construction hangar"
	}
	tender, err := f.uc.Create(context.Background(), companyUserID, input)
	if err != nil {
		t.Fatal(err)
	}
	return tender
}

func TestTenderCreate(t *testing.T) {
	f := newTenderFixture()

	min, max := 10000.0, 25000.0
	tender := f.publish(t, TenderCreateInput{
		Title:     "Construction hangar",
		Budget:    "10 000 € - 25 000 €",
		BudgetMin: &min,
		BudgetMax: &max,
		City:      "Lyon",
	})

	if tender.Status != domain.TenderPublished {
		t.Errorf("expected published, got %s", tender.Status)
	}
	if tender.PublisherID == nil || *tender.PublisherID != companyUserID {
		t.Error("publisher id not stored")
	}
	if tender.CompanyID == nil || *tender.CompanyID != f.company.ID {
		t.Error("company id not attached from the caller's profile")
	}
	if tender.Audience != "TOUS" {
		t.Errorf("audience default not applied: %s", tender.Audience)
	}
}

func TestTenderCreateBackfillsLegacyRows(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	// legacy row: company id only, no publisher
	legacy := domain.Tender{Title: "Ancien appel", Status: domain.TenderPublished, CompanyID: &f.company.ID}
	if err := f.tenders.Create(ctx, &legacy); err != nil {
		t.Fatal(err)
	}

	f.publish(t, TenderCreateInput{})

	adopted, err := f.tenders.GetByID(ctx, legacy.ID)
	if err != nil {
		t.Fatal(err)
	}
	if adopted.PublisherID == nil || *adopted.PublisherID != companyUserID {
		t.Error("legacy row not backfilled with the publisher id")
	}
}

func TestTenderOwnerResolution(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	owner, err := f.uc.ResolveOwner(ctx, companyUserID)
	if err != nil {
		t.Fatal(err)
	}
	if owner.Kind != domain.OwnerLegacyCompany || owner.CompanyID != f.company.ID || owner.PublisherID != companyUserID {
		t.Errorf("unexpected company owner: %+v", owner)
	}

	owner, err = f.uc.ResolveOwner(ctx, freelancerUserID)
	if err != nil {
		t.Fatal(err)
	}
	if owner.Kind != domain.OwnerPublisher || owner.PublisherID != freelancerUserID {
		t.Errorf("unexpected publisher owner: %+v", owner)
	}
}

func TestTenderListMine(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	// one legacy row of the caller's company, one published row, one foreign row
	legacy := domain.Tender{Title: "Ancien", Status: domain.TenderPublished, CompanyID: &f.company.ID}
	if err := f.tenders.Create(ctx, &legacy); err != nil {
		t.Fatal(err)
	}
	other := int64(777)
	foreign := domain.Tender{Title: "Autre", Status: domain.TenderPublished, PublisherID: &other}
	if err := f.tenders.Create(ctx, &foreign); err != nil {
		t.Fatal(err)
	}
	mineTender := domain.Tender{Title: "Récent", Status: domain.TenderPublished, PublisherID: func() *int64 { v := companyUserID; return &v }()}
	if err := f.tenders.Create(ctx, &mineTender); err != nil {
		t.Fatal(err)
	}

	page, err := f.uc.List(ctx, companyUserID, true, TenderFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Errorf("expected own + legacy rows, got %d", page.Total)
	}

	all, err := f.uc.List(ctx, 0, false, TenderFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if all.Total != 3 {
		t.Errorf("expected all rows, got %d", all.Total)
	}
}

func TestTenderApplyAsFreelancer(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	tender := f.publish(t, TenderCreateInput{})
	budget := 9000.0
	application, err := f.uc.Apply(ctx, tender.ID, freelancerUserID, ApplyInput{
		CandidateType:  domain.AccountFreelancer,
		Proposal:       "Disponible dès lundi",
		ProposedBudget: &budget,
	})
	if err != nil {
		t.Fatal(err)
	}
	if application.FreelancerID == nil || *application.FreelancerID != f.freelancer.ID {
		t.Error("candidate profile not resolved")
	}
	if application.Status != domain.ApplicationPending {
		t.Errorf("expected pending, got %s", application.Status)
	}

	// publisher gets notified
	if len(f.notifications.notifications) != 1 || f.notifications.notifications[0].UserID != companyUserID {
		t.Errorf("publisher notification missing: %+v", f.notifications.notifications)
	}
}

func TestTenderApplyTwice(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	tender := f.publish(t, TenderCreateInput{})
	input := ApplyInput{CandidateType: domain.AccountFreelancer, Proposal: "ok"}
	if _, err := f.uc.Apply(ctx, tender.ID, freelancerUserID, input); err != nil {
		t.Fatal(err)
	}

	_, err := f.uc.Apply(ctx, tender.ID, freelancerUserID, input)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestTenderApplyWithoutProfile(t *testing.T) {
	f := newTenderFixture()

	tender := f.publish(t, TenderCreateInput{})
	_, err := f.uc.Apply(context.Background(), tender.ID, strangerUserID, ApplyInput{CandidateType: domain.AccountFreelancer})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTenderAcceptApplication(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	tender := f.publish(t, TenderCreateInput{})
	application, err := f.uc.Apply(ctx, tender.ID, freelancerUserID, ApplyInput{CandidateType: domain.AccountFreelancer})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.uc.AcceptApplication(ctx, tender.ID, application.ID); err != nil {
		t.Fatal(err)
	}
	stored, err := f.applications.GetByID(ctx, application.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domain.ApplicationAccepted {
		t.Errorf("expected accepted, got %s", stored.Status)
	}

	// the application id must belong to the addressed tender
	if err := f.uc.RejectApplication(ctx, tender.ID+1, application.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on tender mismatch, got %v", err)
	}
}

func TestTenderStats(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	min1, min2 := 3000.0, 60000.0
	f.publish(t, TenderCreateInput{Title: "Petit chantier", BudgetMin: &min1})
	tender := f.publish(t, TenderCreateInput{Title: "Gros chantier", BudgetMin: &min2})
	if _, err := f.uc.Apply(ctx, tender.ID, freelancerUserID, ApplyInput{CandidateType: domain.AccountFreelancer}); err != nil {
		t.Fatal(err)
	}

	stats, err := f.uc.Stats(ctx, companyUserID)
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalTenders != 2 || stats.ActiveTenders != 2 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.TotalApplications != 1 {
		t.Errorf("expected 1 application, got %d", stats.TotalApplications)
	}
	if len(stats.MonthlyData) != 6 {
		t.Fatalf("expected a six-month series, got %d", len(stats.MonthlyData))
	}
	current := stats.MonthlyData[5]
	if current.Month != time.Now().Format("2006-01")+"-01" {
		t.Errorf("series must end on the current month: %s", current.Month)
	}
	if current.TendersCreated != 2 || current.ApplicationsReceived != 1 {
		t.Errorf("unexpected current month point: %+v", current)
	}

	var small, large int64
	for _, bucket := range stats.BudgetDistribution {
		switch bucket.Range {
		case "< 5 000 €":
			small = bucket.Count
		case "50 000 € - 100 000 €":
			large = bucket.Count
		}
	}
	if small != 1 || large != 1 {
		t.Errorf("unexpected budget distribution: %+v", stats.BudgetDistribution)
	}
}

func TestTenderListFilters(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	min := 15000.0
	f.publish(t, TenderCreateInput{Title: "Toiture zinc", City: "Paris", BudgetMin: &min})
	f.publish(t, TenderCreateInput{Title: "Peinture bureaux", City: "Lyon"})

	page, err := f.uc.List(ctx, 0, false, TenderFilters{City: "paris"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Tenders[0].Title != "Toiture zinc" {
		t.Errorf("city filter failed: %+v", page)
	}

	page, err = f.uc.List(ctx, 0, false, TenderFilters{Keywords: []string{"peinture"}})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Tenders[0].Title != "Peinture bureaux" {
		t.Errorf("keyword filter failed: %+v", page)
	}
}

func TestTenderListKeywordsMatchAny(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	f.publish(t, TenderCreateInput{Title: "Toiture zinc", Description: "refection complete"})
	f.publish(t, TenderCreateInput{Title: "Peinture bureaux", Description: "deux etages"})
	f.publish(t, TenderCreateInput{Title: "Terrassement", Description: "acces difficile"})

	// A tender matches when ANY keyword hits title or description.
	page, err := f.uc.List(ctx, 0, false, TenderFilters{Keywords: []string{"toiture", "peinture"}})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Fatalf("expected both the roofing and painting tenders, got %d", page.Total)
	}
	for _, tender := range page.Tenders {
		if tender.Title == "Terrassement" {
			t.Errorf("unmatched tender leaked into keyword results")
		}
	}
}

func TestTenderListLimitClamp(t *testing.T) {
	f := newTenderFixture()
	ctx := context.Background()

	if _, err := f.uc.List(ctx, 0, false, TenderFilters{Limit: 100}); err != nil {
		t.Fatal(err)
	}
	if f.tenders.lastList.Limit != 50 {
		t.Errorf("over-large limit should clamp to 50, repo saw %d", f.tenders.lastList.Limit)
	}

	if _, err := f.uc.List(ctx, 0, false, TenderFilters{}); err != nil {
		t.Fatal(err)
	}
	if f.tenders.lastList.Limit != 10 {
		t.Errorf("missing limit should default to 10, repo saw %d", f.tenders.lastList.Limit)
	}
}
