package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/batimatch/batimatch/internal/domain"
)

// NotificationPublisher fans notifications out over redis pub/sub, one
// channel per recipient, so every API instance can serve live feeds.
type NotificationPublisher struct {
	rdb *redis.Client
}

func NewNotificationPublisher(rdb *redis.Client) *NotificationPublisher {
	return &NotificationPublisher{rdb: rdb}
}

func notificationChannel(userID int64) string {
	return fmt.Sprintf("notifications:%d", userID)
}

func (p *NotificationPublisher) Publish(ctx context.Context, n domain.Notification) error {
	ctx, span := tracer.Start(ctx, "NotificationPublisher.Publish")
	defer span.End()

	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, notificationChannel(n.UserID), payload).Err()
}

// Subscribe opens the user's channel and pumps decoded notifications until
// the context is done or the returned cancel func runs.
func (p *NotificationPublisher) Subscribe(ctx context.Context, userID int64) (<-chan domain.Notification, func(), error) {
	sub := p.rdb.Subscribe(ctx, notificationChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan domain.Notification, 16)
	go func() {
		defer close(out)
		for message := range sub.Channel() {
			var n domain.Notification
			if err := json.Unmarshal([]byte(message.Payload), &n); err != nil {
				slog.Warn("dropping malformed notification payload", "userId", userID, "error", err)
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return out, cancel, nil
}
