package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/batimatch/batimatch/internal/domain"
)

var notificationTracer = otel.Tracer("usecase/notification")

// NotificationPage is one page of a user's notifications plus counters.
type NotificationPage struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	UnreadCount   int64                 `json:"unreadCount"`
}

type NotificationUsecase struct {
	repo      NotificationRepository
	publisher NotificationPublisher
}

func NewNotificationUsecase(repo NotificationRepository, publisher NotificationPublisher) *NotificationUsecase {
	return &NotificationUsecase{repo: repo, publisher: publisher}
}

// Notify persists a notification row and fans it out to connected clients.
// The database row is the delivery guarantee; the fanout is best-effort.
func (uc *NotificationUsecase) Notify(ctx context.Context, n domain.Notification) error {
	ctx, span := notificationTracer.Start(ctx, "Notification.Notify")
	defer span.End()

	if err := uc.repo.Create(ctx, &n); err != nil {
		span.RecordError(err)
		return err
	}

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, n); err != nil {
			slog.Warn("notification fanout failed", "notificationId", n.ID, "error", err)
		}
	}

	return nil
}

// NotifyMany bulk-inserts notifications. No fanout; used for system blasts.
func (uc *NotificationUsecase) NotifyMany(ctx context.Context, ns []domain.Notification) (int64, error) {
	return uc.repo.CreateMany(ctx, ns)
}

func (uc *NotificationUsecase) ListByUser(ctx context.Context, userID int64, page, limit int) (NotificationPage, error) {
	notifications, total, unread, err := uc.repo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return NotificationPage{}, err
	}
	return NotificationPage{Notifications: notifications, Total: total, UnreadCount: unread}, nil
}

func (uc *NotificationUsecase) MarkRead(ctx context.Context, id, userID int64) error {
	return uc.repo.MarkRead(ctx, id, userID)
}

func (uc *NotificationUsecase) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return uc.repo.MarkAllRead(ctx, userID)
}

func (uc *NotificationUsecase) Delete(ctx context.Context, id, userID int64) error {
	return uc.repo.Delete(ctx, id, userID)
}

// Subscribe opens a live feed of the user's notifications. The returned
// cancel func must be called when the consumer goes away.
func (uc *NotificationUsecase) Subscribe(ctx context.Context, userID int64) (<-chan domain.Notification, func(), error) {
	if uc.publisher == nil {
		ch := make(chan domain.Notification)
		close(ch)
		return ch, func() {}, nil
	}
	return uc.publisher.Subscribe(ctx, userID)
}
