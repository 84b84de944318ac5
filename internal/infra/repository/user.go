package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
)

var tracer = otel.Tracer("infra/repository")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userToModel(u *domain.User) models.User {
	return models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		AccountType:  string(u.AccountType),
		LastName:     u.LastName,
		FirstName:    u.FirstName,
		Phone:        u.Phone,
		Address:      u.Address,
		City:         u.City,
		PostalCode:   u.PostalCode,
		ReferralCode: u.ReferralCode,
		IsActive:     u.IsActive,
	}
}

func userFromModel(m models.User) domain.User {
	user := domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		AccountType:  domain.AccountType(m.AccountType),
		LastName:     m.LastName,
		FirstName:    m.FirstName,
		Phone:        m.Phone,
		Address:      m.Address,
		City:         m.City,
		PostalCode:   m.PostalCode,
		ReferralCode: m.ReferralCode,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
	if m.Freelancer != nil {
		profile := freelancerFromModel(*m.Freelancer)
		user.Freelancer = &profile
	}
	if m.Company != nil {
		profile := companyFromModel(*m.Company)
		user.Company = &profile
	}
	return user
}

// CreateWithFreelancer inserts the user and its freelancer profile in one
// transaction. A duplicate email surfaces as an email conflict.
func (r *UserRepository) CreateWithFreelancer(ctx context.Context, user *domain.User, profile *domain.Freelancer) error {
	ctx, span := tracer.Start(ctx, "User.CreateWithFreelancer")
	defer span.End()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := userToModel(user)
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ConflictError{Code: domain.CodeEmailExists, Reason: "this email is already in use"}
			}
			return err
		}
		user.ID = record.ID
		user.CreatedAt = record.CreatedAt

		profileRecord, err := freelancerToModel(profile)
		if err != nil {
			return err
		}
		profileRecord.UserID = record.ID
		if err := tx.Create(&profileRecord).Error; err != nil {
			return err
		}
		profile.ID = profileRecord.ID
		profile.UserID = record.ID
		profile.RegisteredAt = profileRecord.RegisteredAt
		return nil
	})
}

// CreateWithCompany inserts the user and its company profile in one
// transaction. Duplicate email and duplicate fiscal id map to their codes.
func (r *UserRepository) CreateWithCompany(ctx context.Context, user *domain.User, profile *domain.Company) error {
	ctx, span := tracer.Start(ctx, "User.CreateWithCompany")
	defer span.End()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := userToModel(user)
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ConflictError{Code: domain.CodeEmailExists, Reason: "this email is already in use"}
			}
			return err
		}
		user.ID = record.ID
		user.CreatedAt = record.CreatedAt

		profileRecord := companyToModel(profile)
		profileRecord.UserID = record.ID
		if err := tx.Create(&profileRecord).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ConflictError{Code: domain.CodeSiretExists, Reason: "this SIRET is already registered"}
			}
			return err
		}
		profile.ID = profileRecord.ID
		profile.UserID = record.ID
		profile.RegisteredAt = profileRecord.RegisteredAt
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "User.GetByID")
	defer span.End()

	var record models.User
	err := r.db.WithContext(ctx).
		Preload("Freelancer").
		Preload("Company").
		First(&record, "id = ?", id).Error
	if err != nil {
		return domain.User{}, translate(err, "user")
	}
	return userFromModel(record), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "User.GetByEmail")
	defer span.End()

	var record models.User
	err := r.db.WithContext(ctx).
		Preload("Freelancer").
		Preload("Company").
		First(&record, "email = ?", email).Error
	if err != nil {
		return domain.User{}, translate(err, "user")
	}
	return userFromModel(record), nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID int64, token string, expires time.Time) error {
	ctx, span := tracer.Start(ctx, "User.SetResetToken")
	defer span.End()

	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token":         token,
			"reset_token_expires": expires,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

// ConsumeResetToken matches an unexpired token, clears it and stores the new
// hash in a single guarded update, so a token can only ever be spent once.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token string, newHash string) (int64, error) {
	ctx, span := tracer.Start(ctx, "User.ConsumeResetToken")
	defer span.End()

	var userID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.User
		err := tx.
			Where("reset_token = ? AND reset_token_expires > ?", token, time.Now()).
			First(&record).Error
		if err != nil {
			return translate(err, "reset token")
		}

		userID = record.ID
		return tx.Model(&models.User{}).
			Where("id = ? AND reset_token = ?", record.ID, token).
			Updates(map[string]any{
				"password_hash":       newHash,
				"reset_token":         nil,
				"reset_token_expires": nil,
			}).Error
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}
