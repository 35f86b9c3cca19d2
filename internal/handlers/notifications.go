package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/peso-tracker/internal/auth"
	"example.com/peso-tracker/internal/notifications"
	"example.com/peso-tracker/internal/repository"
)

type NotificationHandler struct {
	Hub *notifications.Hub
}

// NewNotificationHandler creates the SSE notification handler.
func NewNotificationHandler(hub *notifications.Hub) *NotificationHandler {
	return &NotificationHandler{Hub: hub}
}

// Stream opens the SSE event stream for the user.
func (h *NotificationHandler) Stream(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return serverError(c)
	}

	ch, unsubscribe := h.Hub.Subscribe(userID)
	defer unsubscribe()

	_ = writeSSE(c, notifications.Event{Type: "connected", Data: map[string]string{"user_id": userID.String()}})
	flusher.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(c, event); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}

func writeSSE(c echo.Context, event notifications.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := c.Response().Write([]byte("event: " + event.Type + "\n")); err != nil {
		return err
	}
	if _, err := c.Response().Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}

	return nil
}

func publishLedgerUpdate(ctx context.Context, hub *notifications.Hub, wallets *repository.WalletRepository, userID uuid.UUID) {
	if hub == nil || wallets == nil {
		return
	}

	total, err := wallets.TotalBalance(ctx, userID)
	if err != nil {
		return
	}

	hub.Publish(userID, notifications.Event{
		Type: notifications.EventLedgerUpdated,
		Data: map[string]interface{}{
			"total_balance": total,
		},
	})
}

func publishGoalReached(hub *notifications.Hub, userID, goalID uuid.UUID, name string) {
	if hub == nil {
		return
	}

	hub.Publish(userID, notifications.Event{
		Type: notifications.EventGoalReached,
		Data: map[string]interface{}{
			"goal_id": goalID.String(),
			"name":    name,
		},
	})
}

func publishPlanSettled(hub *notifications.Hub, userID, installmentID uuid.UUID, name string) {
	if hub == nil {
		return
	}

	hub.Publish(userID, notifications.Event{
		Type: notifications.EventPlanSettled,
		Data: map[string]interface{}{
			"installment_id": installmentID.String(),
			"name":           name,
		},
	})
}
