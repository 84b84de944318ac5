package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func sessionFromModel(m models.Session) domain.Session {
	return domain.Session{
		ID:           m.ID,
		UserID:       m.UserID,
		RefreshToken: m.RefreshToken,
		ExpiresAt:    m.ExpiresAt,
		UserAgent:    m.UserAgent,
		IPAddress:    m.IPAddress,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ctx, span := tracer.Start(ctx, "Session.Create")
	defer span.End()

	record := models.Session{
		UserID:       session.UserID,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
		UserAgent:    session.UserAgent,
		IPAddress:    session.IPAddress,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	session.ID = record.ID
	session.CreatedAt = record.CreatedAt
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, userID int64, refreshToken string) (domain.Session, error) {
	ctx, span := tracer.Start(ctx, "Session.GetByToken")
	defer span.End()

	var record models.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND refresh_token = ? AND expires_at > ?", userID, refreshToken, time.Now()).
		First(&record).Error
	if err != nil {
		return domain.Session{}, translate(err, "session")
	}
	return sessionFromModel(record), nil
}

func (r *SessionRepository) Rotate(ctx context.Context, sessionID int64, refreshToken string, expires time.Time) error {
	ctx, span := tracer.Start(ctx, "Session.Rotate")
	defer span.End()

	result := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"refresh_token": refreshToken,
			"expires_at":    expires,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "session"}
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID int64, refreshToken string) error {
	ctx, span := tracer.Start(ctx, "Session.Delete")
	defer span.End()

	return r.db.WithContext(ctx).
		Where("user_id = ? AND refresh_token = ?", userID, refreshToken).
		Delete(&models.Session{}).Error
}

func (r *SessionRepository) DeleteAll(ctx context.Context, userID int64) error {
	ctx, span := tracer.Start(ctx, "Session.DeleteAll")
	defer span.End()

	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Session{}).Error
}
