package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func applicationFromModel(m models.Application) domain.Application {
	application := domain.Application{
		ID:             m.ID,
		TenderID:       m.TenderID,
		CandidateType:  domain.AccountType(m.CandidateType),
		FreelancerID:   m.FreelancerID,
		CompanyID:      m.CompanyID,
		Proposal:       m.Proposal,
		ProposedBudget: m.ProposedBudget,
		ProposedLength: m.ProposedLength,
		Status:         domain.ApplicationStatus(m.Status),
		AppliedAt:      m.AppliedAt,
	}
	if m.Freelancer != nil {
		application.CandidateName = m.Freelancer.FirstName + " " + m.Freelancer.LastName
		application.CandidateEmail = m.Freelancer.Email
	}
	if m.Company != nil {
		application.CandidateName = m.Company.LegalName
		application.CandidateEmail = m.Company.ContactEmail
	}
	return application
}

// Create inserts a candidacy. The partial unique indexes on
// (tender_id, freelancer_id) and (tender_id, company_id) make a repeat
// candidacy a storage conflict.
func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	ctx, span := tracer.Start(ctx, "Application.Create")
	defer span.End()

	record := models.Application{
		TenderID:       a.TenderID,
		CandidateType:  string(a.CandidateType),
		FreelancerID:   a.FreelancerID,
		CompanyID:      a.CompanyID,
		Proposal:       a.Proposal,
		ProposedBudget: a.ProposedBudget,
		ProposedLength: a.ProposedLength,
		Status:         string(a.Status),
	}
	err := r.db.WithContext(ctx).Omit("Tender", "Freelancer", "Company").Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ConflictError{Code: domain.CodeConflict, Reason: "you have already applied to this tender"}
		}
		return err
	}
	a.ID = record.ID
	a.AppliedAt = record.AppliedAt
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (domain.Application, error) {
	ctx, span := tracer.Start(ctx, "Application.GetByID")
	defer span.End()

	var record models.Application
	err := r.db.WithContext(ctx).
		Preload("Freelancer").
		Preload("Company").
		First(&record, "id = ?", id).Error
	if err != nil {
		return domain.Application{}, translate(err, "application")
	}
	return applicationFromModel(record), nil
}

func (r *ApplicationRepository) ListByTender(ctx context.Context, tenderID int64) ([]domain.Application, error) {
	ctx, span := tracer.Start(ctx, "Application.ListByTender")
	defer span.End()

	var records []models.Application
	err := r.db.WithContext(ctx).
		Preload("Freelancer").
		Preload("Company").
		Where("tender_id = ?", tenderID).
		Order("applied_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	applications := make([]domain.Application, 0, len(records))
	for _, record := range records {
		applications = append(applications, applicationFromModel(record))
	}
	return applications, nil
}

func (r *ApplicationRepository) SetStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	ctx, span := tracer.Start(ctx, "Application.SetStatus")
	defer span.End()

	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "application"}
	}
	return nil
}
