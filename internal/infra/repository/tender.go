package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
	"github.com/batimatch/batimatch/internal/usecase"
)

type TenderRepository struct {
	db *gorm.DB
}

func NewTenderRepository(db *gorm.DB) *TenderRepository {
	return &TenderRepository{db: db}
}

func tenderFromModel(m models.Tender) domain.Tender {
	tender := domain.Tender{
		ID:               m.ID,
		Title:            m.Title,
		Description:      m.Description,
		Budget:           m.Budget,
		BudgetMin:        m.BudgetMin,
		BudgetMax:        m.BudgetMax,
		City:             m.City,
		ConstructionType: m.ConstructionType,
		Sector:           m.Sector,
		Audience:         m.Audience,
		Status:           domain.TenderStatus(m.Status),
		Deadline:         m.Deadline,
		PublisherID:      m.PublisherID,
		CompanyID:        m.CompanyID,
		CreatedAt:        m.CreatedAt,
		ApplicationCount: int64(len(m.Applications)),
	}
	if m.Company != nil {
		tender.CompanyName = m.Company.LegalName
	}
	for _, app := range m.Applications {
		tender.Applications = append(tender.Applications, applicationFromModel(app))
	}
	return tender
}

// keywordPredicate builds one free-text predicate over title and description.
// A tender matches when ANY keyword hits either column, so the clauses are
// joined with OR inside a single parenthesised condition.
func keywordPredicate(keywords []string) (string, []any) {
	clauses := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords)*2)
	for _, keyword := range keywords {
		pattern := "%" + keyword + "%"
		clauses = append(clauses, "title ILIKE ? OR description ILIKE ?")
		args = append(args, pattern, pattern)
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

// ownerScope builds the ownership predicate: published by the user, or a
// legacy row of the user's company that predates publisher tracking.
func ownerScope(query *gorm.DB, owner *domain.TenderOwner) *gorm.DB {
	if owner == nil {
		return query
	}
	if owner.Kind == domain.OwnerLegacyCompany {
		return query.Where(
			"(publisher_id = ? OR (publisher_id IS NULL AND company_id = ?))",
			owner.PublisherID, owner.CompanyID,
		)
	}
	return query.Where("publisher_id = ?", owner.PublisherID)
}

func (r *TenderRepository) Create(ctx context.Context, t *domain.Tender) error {
	ctx, span := tracer.Start(ctx, "Tender.Create")
	defer span.End()

	record := models.Tender{
		Title:            t.Title,
		Description:      t.Description,
		Budget:           t.Budget,
		BudgetMin:        t.BudgetMin,
		BudgetMax:        t.BudgetMax,
		City:             t.City,
		ConstructionType: t.ConstructionType,
		Sector:           t.Sector,
		Audience:         t.Audience,
		Status:           string(t.Status),
		Deadline:         t.Deadline,
		PublisherID:      t.PublisherID,
		CompanyID:        t.CompanyID,
	}
	if err := r.db.WithContext(ctx).Omit("Company", "Applications").Create(&record).Error; err != nil {
		return translate(err, "tender")
	}
	t.ID = record.ID
	t.CreatedAt = record.CreatedAt
	return nil
}

func (r *TenderRepository) AdoptLegacy(ctx context.Context, companyID, publisherID int64) error {
	ctx, span := tracer.Start(ctx, "Tender.AdoptLegacy")
	defer span.End()

	return r.db.WithContext(ctx).Model(&models.Tender{}).
		Where("publisher_id IS NULL AND company_id = ?", companyID).
		Update("publisher_id", publisherID).Error
}

func (r *TenderRepository) GetByID(ctx context.Context, id int64) (domain.Tender, error) {
	ctx, span := tracer.Start(ctx, "Tender.GetByID")
	defer span.End()

	var record models.Tender
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Applications").
		Preload("Applications.Freelancer").
		Preload("Applications.Company").
		First(&record, "id = ?", id).Error
	if err != nil {
		return domain.Tender{}, translate(err, "tender")
	}
	return tenderFromModel(record), nil
}

func (r *TenderRepository) List(ctx context.Context, f usecase.TenderFilters) ([]domain.Tender, int64, error) {
	ctx, span := tracer.Start(ctx, "Tender.List")
	defer span.End()

	query := ownerScope(r.db.WithContext(ctx).Model(&models.Tender{}), f.Owner)
	if f.City != "" {
		query = query.Where("city ILIKE ?", "%"+f.City+"%")
	}
	if f.ConstructionType != "" {
		query = query.Where("construction_type ILIKE ?", "%"+f.ConstructionType+"%")
	}
	if f.BudgetMin != nil {
		query = query.Where("budget_min >= ?", *f.BudgetMin)
	}
	if f.BudgetMax != nil {
		query = query.Where("budget_min <= ?", *f.BudgetMax)
	}
	if len(f.Keywords) > 0 {
		predicate, args := keywordPredicate(f.Keywords)
		query = query.Where(predicate, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Tender
	err := query.
		Preload("Company").
		Preload("Applications").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	tenders := make([]domain.Tender, 0, len(records))
	for _, record := range records {
		tenders = append(tenders, tenderFromModel(record))
	}
	return tenders, total, nil
}

func (r *TenderRepository) ListSince(ctx context.Context, owner *domain.TenderOwner, since time.Time) ([]domain.Tender, error) {
	ctx, span := tracer.Start(ctx, "Tender.ListSince")
	defer span.End()

	query := ownerScope(r.db.WithContext(ctx).Model(&models.Tender{}), owner)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var records []models.Tender
	if err := query.Preload("Applications").Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	tenders := make([]domain.Tender, 0, len(records))
	for _, record := range records {
		tenders = append(tenders, tenderFromModel(record))
	}
	return tenders, nil
}

func (r *TenderRepository) CountActive(ctx context.Context, owner *domain.TenderOwner) (int64, error) {
	ctx, span := tracer.Start(ctx, "Tender.CountActive")
	defer span.End()

	var count int64
	err := ownerScope(r.db.WithContext(ctx).Model(&models.Tender{}), owner).
		Where("status = ?", string(domain.TenderPublished)).
		Count(&count).Error
	return count, err
}

func (r *TenderRepository) CountAll(ctx context.Context, owner *domain.TenderOwner) (int64, error) {
	ctx, span := tracer.Start(ctx, "Tender.CountAll")
	defer span.End()

	var count int64
	err := ownerScope(r.db.WithContext(ctx).Model(&models.Tender{}), owner).Count(&count).Error
	return count, err
}

func (r *TenderRepository) CountApplications(ctx context.Context, owner *domain.TenderOwner) (int64, error) {
	ctx, span := tracer.Start(ctx, "Tender.CountApplications")
	defer span.End()

	subquery := ownerScope(r.db.WithContext(ctx).Model(&models.Tender{}), owner).Select("id")

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("tender_id IN (?)", subquery).
		Count(&count).Error
	return count, err
}
