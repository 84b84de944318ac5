package repository

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
	"github.com/batimatch/batimatch/internal/usecase"
)

type FreelancerRepository struct {
	db *gorm.DB
}

func NewFreelancerRepository(db *gorm.DB) *FreelancerRepository {
	return &FreelancerRepository{db: db}
}

func freelancerToModel(f *domain.Freelancer) (models.Freelancer, error) {
	availability := "{}"
	if f.Availability != nil {
		raw, err := json.Marshal(f.Availability)
		if err != nil {
			return models.Freelancer{}, errors.Wrap(err, "serializing availability")
		}
		availability = string(raw)
	}
	return models.Freelancer{
		ID:              f.ID,
		UserID:          f.UserID,
		LastName:        f.LastName,
		FirstName:       f.FirstName,
		Email:           f.Email,
		Phone:           f.Phone,
		Trade:           f.Trade,
		DailyRate:       f.DailyRate,
		RateMode:        f.RateMode,
		Siret:           f.Siret,
		ExperienceYears: f.ExperienceYears,
		Description:     f.Description,
		Address:         f.Address,
		City:            f.City,
		PostalCode:      f.PostalCode,
		Available:       f.Available,
		Availability:    availability,
	}, nil
}

func freelancerFromModel(m models.Freelancer) domain.Freelancer {
	profile := domain.Freelancer{
		ID:              m.ID,
		UserID:          m.UserID,
		LastName:        m.LastName,
		FirstName:       m.FirstName,
		Email:           m.Email,
		Phone:           m.Phone,
		Trade:           m.Trade,
		DailyRate:       m.DailyRate,
		RateMode:        m.RateMode,
		Siret:           m.Siret,
		ExperienceYears: m.ExperienceYears,
		Description:     m.Description,
		Address:         m.Address,
		City:            m.City,
		PostalCode:      m.PostalCode,
		Available:       m.Available,
		RegisteredAt:    m.RegisteredAt,
	}
	if m.Availability != "" && m.Availability != "{}" {
		var availability domain.WeeklyAvailability
		if err := json.Unmarshal([]byte(m.Availability), &availability); err == nil {
			profile.Availability = availability
		}
	}
	return profile
}

func (r *FreelancerRepository) GetByID(ctx context.Context, id int64) (domain.Freelancer, error) {
	ctx, span := tracer.Start(ctx, "Freelancer.GetByID")
	defer span.End()

	var record models.Freelancer
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return domain.Freelancer{}, translate(err, "freelancer")
	}
	return freelancerFromModel(record), nil
}

func (r *FreelancerRepository) GetByUserID(ctx context.Context, userID int64) (domain.Freelancer, error) {
	ctx, span := tracer.Start(ctx, "Freelancer.GetByUserID")
	defer span.End()

	var record models.Freelancer
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		return domain.Freelancer{}, translate(err, "freelancer")
	}
	return freelancerFromModel(record), nil
}

func (r *FreelancerRepository) List(ctx context.Context, f usecase.FreelancerFilters) ([]domain.Freelancer, int64, error) {
	ctx, span := tracer.Start(ctx, "Freelancer.List")
	defer span.End()

	query := r.db.WithContext(ctx).Model(&models.Freelancer{})
	if f.Trade != "" {
		query = query.Where("trade ILIKE ?", "%"+f.Trade+"%")
	}
	if f.City != "" {
		query = query.Where("city ILIKE ?", "%"+f.City+"%")
	}
	if f.Available != nil {
		query = query.Where("available = ?", *f.Available)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Freelancer
	err := query.
		Order("registered_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]domain.Freelancer, 0, len(records))
	for _, record := range records {
		profiles = append(profiles, freelancerFromModel(record))
	}
	return profiles, total, nil
}

func (r *FreelancerRepository) Update(ctx context.Context, userID int64, patch usecase.FreelancerPatch) (domain.Freelancer, error) {
	ctx, span := tracer.Start(ctx, "Freelancer.Update")
	defer span.End()

	assignments := map[string]any{}
	setString := func(column string, v *string) {
		if v != nil {
			assignments[column] = *v
		}
	}
	setString("last_name", patch.LastName)
	setString("first_name", patch.FirstName)
	setString("phone", patch.Phone)
	setString("trade", patch.Trade)
	setString("rate_mode", patch.RateMode)
	setString("siret", patch.Siret)
	setString("description", patch.Description)
	setString("address", patch.Address)
	setString("city", patch.City)
	setString("postal_code", patch.PostalCode)
	if patch.DailyRate != nil {
		assignments["daily_rate"] = *patch.DailyRate
	}
	if patch.ExperienceYears != nil {
		assignments["experience_years"] = *patch.ExperienceYears
	}
	if patch.Available != nil {
		assignments["available"] = *patch.Available
	}
	if patch.Availability != nil {
		raw, err := json.Marshal(*patch.Availability)
		if err != nil {
			return domain.Freelancer{}, errors.Wrap(err, "serializing availability")
		}
		assignments["availability"] = string(raw)
	}

	if len(assignments) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Freelancer{}).
			Where("user_id = ?", userID).
			Updates(assignments)
		if result.Error != nil {
			return domain.Freelancer{}, result.Error
		}
		if result.RowsAffected == 0 {
			return domain.Freelancer{}, domain.NotFoundError{Resource: "freelancer"}
		}
	}

	return r.GetByUserID(ctx, userID)
}
