package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/batimatch/batimatch/internal/domain"
)

type adminFixture struct {
	uc    *AdminUsecase
	repo  *memAdminRepo
	users *memUserRepo
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	users := newMemUserRepo()
	f := &adminFixture{users: users, repo: newMemAdminRepo(users)}
	f.uc = NewAdminUsecase(f.repo, users)

	err := users.CreateWithFreelancer(context.Background(),
		&domain.User{Email: "marie@example.fr", AccountType: domain.AccountFreelancer, LastName: "Durand", FirstName: "Marie", IsActive: true},
		&domain.Freelancer{Trade: "Plomberie"})
	if err != nil {
		t.Fatal(err)
	}
	err = users.CreateWithCompany(context.Background(),
		&domain.User{Email: "contact@batipro.fr", AccountType: domain.AccountCompany, LastName: "Morel", FirstName: "Luc", IsActive: true},
		&domain.Company{LegalName: "BatiPro SARL", Siret: "22222222200022"})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestAdminListUsersFlattensProfiles(t *testing.T) {
	f := newAdminFixture(t)

	overviews, total, err := f.uc.ListUsers(context.Background(), 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(overviews) != 2 {
		t.Fatalf("expected 2 users, got total=%d len=%d", total, len(overviews))
	}
	byEmail := map[string]domain.UserOverview{}
	for _, o := range overviews {
		byEmail[o.Email] = o
	}
	if byEmail["marie@example.fr"].Trade != "Plomberie" {
		t.Errorf("freelancer trade not flattened: %+v", byEmail["marie@example.fr"])
	}
	if byEmail["contact@batipro.fr"].CompanyName != "BatiPro SARL" {
		t.Errorf("company name not flattened: %+v", byEmail["contact@batipro.fr"])
	}
}

func TestAdminSearchRequiresTwoCharacters(t *testing.T) {
	f := newAdminFixture(t)

	overviews, err := f.uc.SearchUsers(context.Background(), " m ")
	if err != nil {
		t.Fatal(err)
	}
	if len(overviews) != 0 {
		t.Errorf("expected no results for a one-character query, got %d", len(overviews))
	}
	if f.repo.lastSearch != "" {
		t.Errorf("repository should not be queried for short input, got %q", f.repo.lastSearch)
	}

	overviews, err = f.uc.SearchUsers(context.Background(), "batipro")
	if err != nil {
		t.Fatal(err)
	}
	if len(overviews) != 1 || overviews[0].CompanyName != "BatiPro SARL" {
		t.Fatalf("expected the company match, got %+v", overviews)
	}
}

func TestAdminUpdateUserRejectsBadEmail(t *testing.T) {
	f := newAdminFixture(t)

	bad := "not-an-email"
	_, err := f.uc.UpdateUser(context.Background(), 1, AdminUserPatch{Email: &bad})
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	good := "  Marie.Durand@Example.FR "
	updated, err := f.uc.UpdateUser(context.Background(), 1, AdminUserPatch{Email: &good})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Email != "marie.durand@example.fr" {
		t.Errorf("email not normalised: %q", updated.Email)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	f := newAdminFixture(t)

	if err := f.uc.DeleteUser(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	_, err := f.users.GetByID(context.Background(), 2)
	var nf domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected the user to be gone, got %v", err)
	}

	err = f.uc.DeleteUser(context.Background(), 99)
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestAdminUserActivitySortedNewestFirst(t *testing.T) {
	f := newAdminFixture(t)

	now := time.Now()
	f.repo.activity = []domain.ActivityItem{
		{Type: "contrat", Label: "Rénovation toiture", Date: now.Add(-48 * time.Hour)},
		{Type: "candidature", Label: "Peinture bureaux", Date: now},
		{Type: "contrat", Label: "Plomberie immeuble", Date: now.Add(-24 * time.Hour)},
	}

	items, err := f.uc.UserActivity(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Date.After(items[i-1].Date) {
			t.Errorf("items out of order at %d: %v after %v", i, items[i].Date, items[i-1].Date)
		}
	}
	if items[0].Label != "Peinture bureaux" {
		t.Errorf("expected the most recent item first, got %q", items[0].Label)
	}
}

func TestAdminUserActivityUnknownUser(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.uc.UserActivity(context.Background(), 99)
	var nf domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdminStats(t *testing.T) {
	f := newAdminFixture(t)
	f.repo.stats = domain.PlatformStats{TotalUsers: 2, TotalFreelancers: 1, TotalCompanies: 1, TotalContracts: 3, TotalTenders: 5}

	stats, err := f.uc.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats != f.repo.stats {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
