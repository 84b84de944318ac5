package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
	"github.com/batimatch/batimatch/internal/infra/database/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func notificationToModel(n *domain.Notification) models.Notification {
	return models.Notification{
		UserID:     n.UserID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		Link:       n.Link,
		ContractID: n.ContractID,
		Read:       n.Read,
	}
}

func notificationFromModel(m models.Notification) domain.Notification {
	return domain.Notification{
		ID:         m.ID,
		UserID:     m.UserID,
		Type:       domain.NotificationType(m.Type),
		Title:      m.Title,
		Message:    m.Message,
		Link:       m.Link,
		ContractID: m.ContractID,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	ctx, span := tracer.Start(ctx, "Notification.Create")
	defer span.End()

	record := notificationToModel(n)
	if err := r.db.WithContext(ctx).Omit("User", "Contract").Create(&record).Error; err != nil {
		return err
	}
	n.ID = record.ID
	n.CreatedAt = record.CreatedAt
	return nil
}

func (r *NotificationRepository) CreateMany(ctx context.Context, ns []domain.Notification) (int64, error) {
	ctx, span := tracer.Start(ctx, "Notification.CreateMany")
	defer span.End()

	if len(ns) == 0 {
		return 0, nil
	}

	records := make([]models.Notification, 0, len(ns))
	for i := range ns {
		records = append(records, notificationToModel(&ns[i]))
	}
	result := r.db.WithContext(ctx).Omit("User", "Contract").CreateInBatches(records, 100)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, page, limit int) ([]domain.Notification, int64, int64, error) {
	ctx, span := tracer.Start(ctx, "Notification.ListByUser")
	defer span.End()

	scope := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var total, unread int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}
	if err := scope.Session(&gorm.Session{}).Where("read = false").Count(&unread).Error; err != nil {
		return nil, 0, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	var records []models.Notification
	err := scope.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, 0, err
	}

	notifications := make([]domain.Notification, 0, len(records))
	for _, record := range records {
		notifications = append(notifications, notificationFromModel(record))
	}
	return notifications, total, unread, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	ctx, span := tracer.Start(ctx, "Notification.MarkRead")
	defer span.End()

	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "Notification.MarkAllRead")
	defer span.End()

	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, span := tracer.Start(ctx, "Notification.Delete")
	defer span.End()

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}
