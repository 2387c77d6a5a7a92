package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
)

type NotificationHandler struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

func NewNotificationHandler(notifications repositories.NotificationRepository, users repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// List returns the caller's notifications, newest first, with sender
// summaries hydrated.
func (h *NotificationHandler) List(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}

	items, total, err := h.notifications.GetByReceiverID(user.ID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load notifications")
	}

	senderIDs := make([]uint, 0, len(items))
	for i := range items {
		senderIDs = append(senderIDs, items[i].SenderID)
	}
	summaries, err := summariesByID(h.users, senderIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load senders")
	}
	for i := range items {
		if s, ok := summaries[items[i].SenderID]; ok {
			sender := s
			items[i].Sender = &sender
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": items,
		"total":         total,
		"page":          page,
		"limit":         limit,
	})
}

// UnreadCount returns how many of the caller's notifications are
// unread.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.GetUnreadCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}

// MarkRead marks a batch of the caller's notifications as read. IDs
// belonging to other users are ignored.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.notifications.MarkAsRead(user.ID, req.NotificationIDs); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications")
	}
	return c.JSON(http.StatusOK, echo.Map{"marked": true})
}

// Delete removes one of the caller's notifications.
func (h *NotificationHandler) Delete(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification id")
	}

	if err := h.notifications.DeleteNotification(user.ID, uint(id)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		if errors.Is(err, repositories.ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, "Only the receiver can delete a notification")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete notification")
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
