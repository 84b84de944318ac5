package repository

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
	"github.com/batimatch/batimatch/internal/usecase"
)

// AdminRepository serves the back-office queries that cut across accounts
// and both profile kinds.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func overviewFromModel(m models.User) domain.UserOverview {
	overview := domain.UserOverview{
		ID:          m.ID,
		Email:       m.Email,
		LastName:    m.LastName,
		FirstName:   m.FirstName,
		AccountType: domain.AccountType(m.AccountType),
		Phone:       m.Phone,
		City:        m.City,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
	if m.Company != nil {
		overview.CompanyName = m.Company.LegalName
	}
	if m.Freelancer != nil {
		overview.Trade = m.Freelancer.Trade
	}
	return overview
}

func (r *AdminRepository) ListUsers(ctx context.Context, page, limit int) ([]domain.UserOverview, int64, error) {
	ctx, span := tracer.Start(ctx, "Admin.ListUsers")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}

	query := r.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting users")
	}

	var records []models.User
	err := query.
		Preload("Freelancer").
		Preload("Company").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing users")
	}

	overviews := make([]domain.UserOverview, 0, len(records))
	for _, record := range records {
		overviews = append(overviews, overviewFromModel(record))
	}
	return overviews, total, nil
}

func (r *AdminRepository) SearchUsers(ctx context.Context, query string, limit int) ([]domain.UserOverview, error) {
	ctx, span := tracer.Start(ctx, "Admin.SearchUsers")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pattern := "%" + query + "%"

	var records []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("LEFT JOIN companies ON companies.user_id = users.id").
		Where(
			"(users.email ILIKE ? OR users.last_name ILIKE ? OR users.first_name ILIKE ? OR companies.legal_name ILIKE ?)",
			pattern, pattern, pattern, pattern,
		).
		Preload("Freelancer").
		Preload("Company").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "searching users")
	}

	overviews := make([]domain.UserOverview, 0, len(records))
	for _, record := range records {
		overviews = append(overviews, overviewFromModel(record))
	}
	return overviews, nil
}

func (r *AdminRepository) UpdateUser(ctx context.Context, id int64, patch usecase.AdminUserPatch) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "Admin.UpdateUser")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignments := map[string]any{}
		if patch.LastName != nil {
			assignments["last_name"] = *patch.LastName
		}
		if patch.FirstName != nil {
			assignments["first_name"] = *patch.FirstName
		}
		if patch.Email != nil {
			assignments["email"] = *patch.Email
		}
		if patch.IsActive != nil {
			assignments["is_active"] = *patch.IsActive
		}

		if len(assignments) > 0 {
			result := tx.Model(&models.User{}).Where("id = ?", id).Updates(assignments)
			if result.Error != nil {
				return translate(result.Error, "user")
			}
			if result.RowsAffected == 0 {
				return domain.NotFoundError{Resource: "user"}
			}
		}

		if patch.CompanyName != nil {
			err := tx.Model(&models.Company{}).
				Where("user_id = ?", id).
				Update("legal_name", *patch.CompanyName).Error
			if err != nil {
				return translate(err, "company")
			}
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	var record models.User
	err = r.db.WithContext(ctx).
		Preload("Freelancer").
		Preload("Company").
		First(&record, "id = ?", id).Error
	if err != nil {
		return domain.User{}, translate(err, "user")
	}
	return userFromModel(record), nil
}

func (r *AdminRepository) DeleteUser(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Admin.DeleteUser")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Freelancer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Company{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundError{Resource: "user"}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.ConflictError{Code: domain.CodeConflict, Reason: "this user still has contracts or tenders and cannot be deleted"}
	}
	return err
}

func (r *AdminRepository) UserActivity(ctx context.Context, userID int64, limit int) ([]domain.ActivityItem, error) {
	ctx, span := tracer.Start(ctx, "Admin.UserActivity")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}

	items := []domain.ActivityItem{}

	// Contracts reference profile ids, so resolve the user's profiles first.
	var freelancer models.Freelancer
	hasFreelancer := r.db.WithContext(ctx).First(&freelancer, "user_id = ?", userID).Error == nil
	var company models.Company
	hasCompany := r.db.WithContext(ctx).First(&company, "user_id = ?", userID).Error == nil

	if hasFreelancer || hasCompany {
		contractQuery := r.db.WithContext(ctx).Model(&models.Contract{})
		switch {
		case hasFreelancer && hasCompany:
			contractQuery = contractQuery.Where("(freelancer_id = ? OR company_id = ?)", freelancer.ID, company.ID)
		case hasFreelancer:
			contractQuery = contractQuery.Where("freelancer_id = ?", freelancer.ID)
		default:
			contractQuery = contractQuery.Where("company_id = ?", company.ID)
		}

		var contracts []models.Contract
		if err := contractQuery.Order("created_at DESC").Limit(limit).Find(&contracts).Error; err != nil {
			return nil, errors.Wrap(err, "loading contracts")
		}
		for _, c := range contracts {
			label := c.Title
			if label == "" {
				label = fmt.Sprintf("Contrat #%d", c.ID)
			}
			items = append(items, domain.ActivityItem{Type: "contrat", Label: label, Date: c.CreatedAt})
		}
	}

	if hasFreelancer {
		var applications []models.Application
		err := r.db.WithContext(ctx).
			Preload("Tender").
			Where("freelancer_id = ?", freelancer.ID).
			Order("applied_at DESC").
			Limit(limit).
			Find(&applications).Error
		if err != nil {
			return nil, errors.Wrap(err, "loading applications")
		}
		for _, a := range applications {
			label := a.Tender.Title
			if label == "" {
				label = fmt.Sprintf("Candidature #%d", a.ID)
			}
			items = append(items, domain.ActivityItem{Type: "candidature", Label: label, Date: a.AppliedAt})
		}
	}

	return items, nil
}

func (r *AdminRepository) Stats(ctx context.Context) (domain.PlatformStats, error) {
	ctx, span := tracer.Start(ctx, "Admin.Stats")
	defer span.End()

	var stats domain.PlatformStats
	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.Freelancer{}, &stats.TotalFreelancers},
		{&models.Company{}, &stats.TotalCompanies},
		{&models.Contract{}, &stats.TotalContracts},
		{&models.Tender{}, &stats.TotalTenders},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(c.model).Count(c.dst).Error; err != nil {
			return domain.PlatformStats{}, errors.Wrap(err, "counting rows")
		}
	}
	return stats, nil
}

func (r *AdminRepository) MapData(ctx context.Context, limit int) (domain.MapData, error) {
	ctx, span := tracer.Start(ctx, "Admin.MapData")
	defer span.End()

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	data := domain.MapData{Freelancers: []domain.MapPoint{}, Companies: []domain.MapPoint{}}

	var freelancers []models.Freelancer
	err := r.db.WithContext(ctx).
		Where("city <> ''").
		Limit(limit).
		Find(&freelancers).Error
	if err != nil {
		return domain.MapData{}, errors.Wrap(err, "loading freelancers")
	}
	for _, f := range freelancers {
		data.Freelancers = append(data.Freelancers, domain.MapPoint{
			ID:        f.ID,
			Title:     f.FirstName + " " + f.LastName,
			City:      f.City,
			Latitude:  domain.FranceCenterLat,
			Longitude: domain.FranceCenterLon,
		})
	}

	var companies []models.Company
	err = r.db.WithContext(ctx).
		Where("city <> ''").
		Limit(limit).
		Find(&companies).Error
	if err != nil {
		return domain.MapData{}, errors.Wrap(err, "loading companies")
	}
	for _, c := range companies {
		data.Companies = append(data.Companies, domain.MapPoint{
			ID:        c.ID,
			Title:     c.LegalName,
			City:      c.City,
			Latitude:  domain.FranceCenterLat,
			Longitude: domain.FranceCenterLon,
		})
	}

	return data, nil
}
