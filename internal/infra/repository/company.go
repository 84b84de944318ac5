package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
	"github.com/batimatch/batimatch/internal/usecase"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func companyToModel(c *domain.Company) models.Company {
	return models.Company{
		ID:           c.ID,
		UserID:       c.UserID,
		LegalName:    c.LegalName,
		Siret:        c.Siret,
		LegalForm:    c.LegalForm,
		Sector:       c.Sector,
		CompanySize:  c.CompanySize,
		Phone:        c.Phone,
		Address:      c.Address,
		City:         c.City,
		PostalCode:   c.PostalCode,
		Website:      c.Website,
		Description:  c.Description,
		ContactLast:  c.ContactLast,
		ContactFirst: c.ContactFirst,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
	}
}

func companyFromModel(m models.Company) domain.Company {
	return domain.Company{
		ID:           m.ID,
		UserID:       m.UserID,
		LegalName:    m.LegalName,
		Siret:        m.Siret,
		LegalForm:    m.LegalForm,
		Sector:       m.Sector,
		CompanySize:  m.CompanySize,
		Phone:        m.Phone,
		Address:      m.Address,
		City:         m.City,
		PostalCode:   m.PostalCode,
		Website:      m.Website,
		Description:  m.Description,
		ContactLast:  m.ContactLast,
		ContactFirst: m.ContactFirst,
		ContactEmail: m.ContactEmail,
		ContactPhone: m.ContactPhone,
		RegisteredAt: m.RegisteredAt,
	}
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (domain.Company, error) {
	ctx, span := tracer.Start(ctx, "Company.GetByID")
	defer span.End()

	var record models.Company
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return domain.Company{}, translate(err, "company")
	}
	return companyFromModel(record), nil
}

func (r *CompanyRepository) GetByUserID(ctx context.Context, userID int64) (domain.Company, error) {
	ctx, span := tracer.Start(ctx, "Company.GetByUserID")
	defer span.End()

	var record models.Company
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		return domain.Company{}, translate(err, "company")
	}
	return companyFromModel(record), nil
}

func (r *CompanyRepository) GetBySiret(ctx context.Context, siret string) (domain.Company, error) {
	ctx, span := tracer.Start(ctx, "Company.GetBySiret")
	defer span.End()

	var record models.Company
	if err := r.db.WithContext(ctx).First(&record, "siret = ?", siret).Error; err != nil {
		return domain.Company{}, translate(err, "company")
	}
	return companyFromModel(record), nil
}

func (r *CompanyRepository) List(ctx context.Context, f usecase.CompanyFilters) ([]domain.Company, int64, error) {
	ctx, span := tracer.Start(ctx, "Company.List")
	defer span.End()

	query := r.db.WithContext(ctx).Model(&models.Company{})
	if f.City != "" {
		query = query.Where("city ILIKE ?", "%"+f.City+"%")
	}
	if f.LegalForm != "" {
		query = query.Where("legal_form = ?", f.LegalForm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Company
	err := query.
		Order("registered_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	companies := make([]domain.Company, 0, len(records))
	for _, record := range records {
		companies = append(companies, companyFromModel(record))
	}
	return companies, total, nil
}

func (r *CompanyRepository) Update(ctx context.Context, userID int64, patch usecase.CompanyPatch) (domain.Company, error) {
	ctx, span := tracer.Start(ctx, "Company.Update")
	defer span.End()

	assignments := map[string]any{}
	setString := func(column string, v *string) {
		if v != nil {
			assignments[column] = *v
		}
	}
	setString("legal_name", patch.LegalName)
	setString("siret", patch.Siret)
	setString("legal_form", patch.LegalForm)
	setString("sector", patch.Sector)
	setString("company_size", patch.CompanySize)
	setString("phone", patch.Phone)
	setString("address", patch.Address)
	setString("city", patch.City)
	setString("postal_code", patch.PostalCode)
	setString("website", patch.Website)
	setString("description", patch.Description)
	setString("contact_last", patch.ContactLast)
	setString("contact_first", patch.ContactFirst)
	setString("contact_email", patch.ContactEmail)
	setString("contact_phone", patch.ContactPhone)

	if len(assignments) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Company{}).
			Where("user_id = ?", userID).
			Updates(assignments)
		if result.Error != nil {
			return domain.Company{}, translate(result.Error, "company")
		}
		if result.RowsAffected == 0 {
			return domain.Company{}, domain.NotFoundError{Resource: "company"}
		}
	}

	return r.GetByUserID(ctx, userID)
}
