package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/batimatch/batimatch/internal/interface/rest/middleware"
	"github.com/batimatch/batimatch/internal/interface/rest/presenter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleListNotifications(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ListNotifications")
	defer span.End()

	userID, _ := middleware.RequesterID(c)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	result, err := h.notifications.ListByUser(ctx, userID, page, limit)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, result)
}

func (h *Handler) handleReadNotification(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ReadNotification")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}
	userID, _ := middleware.RequesterID(c)

	if err := h.notifications.MarkRead(ctx, id, userID); err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMessage(c, "notification marked as read")
}

func (h *Handler) handleReadAllNotifications(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.ReadAllNotifications")
	defer span.End()

	userID, _ := middleware.RequesterID(c)

	updated, err := h.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OK(c, map[string]int64{"updated": updated})
}

func (h *Handler) handleDeleteNotification(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Handler.DeleteNotification")
	defer span.End()

	id, err := pathID(c, "id")
	if err != nil {
		return presenter.Error(c, err)
	}
	userID, _ := middleware.RequesterID(c)

	if err := h.notifications.Delete(ctx, id, userID); err != nil {
		span.RecordError(err)
		return presenter.Error(c, err)
	}

	return presenter.OKMessage(c, "notification deleted")
}

// handleNotificationStream pushes the requester's notifications over a
// websocket as they are created. Inbound frames are only read to detect the
// close.
func (h *Handler) handleNotificationStream(c echo.Context) error {
	userID, _ := middleware.RequesterID(c)

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	feed, unsubscribe, err := h.notifications.Subscribe(ctx, userID)
	if err != nil {
		slog.ErrorContext(
			ctx, "Failed to subscribe to notifications",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer unsubscribe()

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.DebugContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				cancel()
				break
			}
		}
	}()

	for {
		select {
		case notification, ok := <-feed:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(notification); err != nil {
				slog.DebugContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}
