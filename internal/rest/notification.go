package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/hossain-shifat/TaskNest-sub000/domain"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	NotificationHandler struct {
		notificationService NotificationService
	}

	NotificationService interface {
		GetNotifications(ctx context.Context, email string) ([]domain.Notification, error)
		DeleteNotification(ctx context.Context, id uint, recipientEmail string) error
	}
)

func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications serves the poll the client runs every few seconds.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	email, ok := c.Get("email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	notifications, err := h.notificationService.GetNotifications(c.Request().Context(), email)
	if err != nil {
		logger.Error("Failed to get notifications", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(notifications))
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	email, ok := c.Get("email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid notification ID"})
	}

	err = h.notificationService.DeleteNotification(c.Request().Context(), uint(id), email)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.JSON(http.StatusForbidden, ResponseError{Message: "access denied"})
		}
		logger.Error("Failed to delete notification", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Notification deleted",
	})
}
