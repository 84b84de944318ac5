package usecase

import (
	"context"

	"github.com/batimatch/batimatch/internal/domain"
)

// FreelancerPatch carries the mutable freelancer profile fields. Nil means
// unchanged.
type FreelancerPatch struct {
	LastName        *string
	FirstName       *string
	Phone           *string
	Trade           *string
	DailyRate       *float64
	RateMode        *string
	Siret           *string
	ExperienceYears *int
	Description     *string
	Address         *string
	City            *string
	PostalCode      *string
	Available       *bool
	Availability    *domain.WeeklyAvailability
}

// CompanyPatch carries the mutable company profile fields.
type CompanyPatch struct {
	LegalName    *string
	Siret        *string
	LegalForm    *string
	Sector       *string
	CompanySize  *string
	Phone        *string
	Address      *string
	City         *string
	PostalCode   *string
	Website      *string
	Description  *string
	ContactLast  *string
	ContactFirst *string
	ContactEmail *string
	ContactPhone *string
}

// ProfilePage wraps a paged profile listing.
type ProfilePage[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int64 `json:"totalPages"`
}

type FreelancerUsecase struct {
	repo FreelancerRepository
}

func NewFreelancerUsecase(repo FreelancerRepository) *FreelancerUsecase {
	return &FreelancerUsecase{repo: repo}
}

func (uc *FreelancerUsecase) Get(ctx context.Context, id int64) (domain.Freelancer, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *FreelancerUsecase) GetByUser(ctx context.Context, userID int64) (domain.Freelancer, error) {
	return uc.repo.GetByUserID(ctx, userID)
}

func (uc *FreelancerUsecase) List(ctx context.Context, f FreelancerFilters) (ProfilePage[domain.Freelancer], error) {
	f.Page, f.Limit = clampPage(f.Page, f.Limit)
	items, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return ProfilePage[domain.Freelancer]{}, err
	}
	return ProfilePage[domain.Freelancer]{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		TotalPages: (total + int64(f.Limit) - 1) / int64(f.Limit),
	}, nil
}

// UpdateOwn patches the caller's own profile.
func (uc *FreelancerUsecase) UpdateOwn(ctx context.Context, userID int64, patch FreelancerPatch) (domain.Freelancer, error) {
	return uc.repo.Update(ctx, userID, patch)
}

type CompanyUsecase struct {
	repo CompanyRepository
}

func NewCompanyUsecase(repo CompanyRepository) *CompanyUsecase {
	return &CompanyUsecase{repo: repo}
}

func (uc *CompanyUsecase) Get(ctx context.Context, id int64) (domain.Company, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *CompanyUsecase) GetByUser(ctx context.Context, userID int64) (domain.Company, error) {
	return uc.repo.GetByUserID(ctx, userID)
}

func (uc *CompanyUsecase) GetBySiret(ctx context.Context, siret string) (domain.Company, error) {
	return uc.repo.GetBySiret(ctx, siret)
}

func (uc *CompanyUsecase) List(ctx context.Context, f CompanyFilters) (ProfilePage[domain.Company], error) {
	f.Page, f.Limit = clampPage(f.Page, f.Limit)
	items, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return ProfilePage[domain.Company]{}, err
	}
	return ProfilePage[domain.Company]{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		TotalPages: (total + int64(f.Limit) - 1) / int64(f.Limit),
	}, nil
}

func (uc *CompanyUsecase) UpdateOwn(ctx context.Context, userID int64, patch CompanyPatch) (domain.Company, error) {
	return uc.repo.Update(ctx, userID, patch)
}

func clampPage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return page, limit
}
