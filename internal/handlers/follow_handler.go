package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rudro-dev/loopgram/backend/internal/notifications"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
)

type FollowHandler struct {
	follows  repositories.FollowRepository
	users    repositories.UserRepository
	notifier *notifications.Service
}

func NewFollowHandler(follows repositories.FollowRepository, users repositories.UserRepository, notifier *notifications.Service) *FollowHandler {
	return &FollowHandler{follows: follows, users: users, notifier: notifier}
}

// Toggle follows the target user, or unfollows if already following.
// The response reports the resulting state so repeated calls are safe.
func (h *FollowHandler) Toggle(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	if uint(targetID) == user.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}
	if _, err := h.users.GetUserByID(uint(targetID)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	following, err := h.follows.ToggleFollow(user.ID, uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle follow")
	}

	h.notifier.NotifyFollow(user.ID, uint(targetID), following, user.UserName)

	return c.JSON(http.StatusOK, echo.Map{"following": following})
}
