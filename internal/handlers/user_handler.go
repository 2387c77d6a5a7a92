package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
)

type UserHandler struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
}

func NewUserHandler(users repositories.UserRepository, follows repositories.FollowRepository) *UserHandler {
	return &UserHandler{users: users, follows: follows}
}

// Me returns the authenticated user's own record.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetByUserName returns a public profile with follower counts and the
// viewer's follow state.
func (h *UserHandler) GetByUserName(c echo.Context) error {
	viewer, err := requireUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetUserByUserName(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
	}

	followers, err := h.follows.GetFollowersCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load followers")
	}
	following, err := h.follows.GetFollowingCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load following")
	}
	isFollowing, err := h.follows.IsFollowing(viewer.ID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load follow state")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":            user,
		"followers_count": followers,
		"following_count": following,
		"is_following":    isFollowing,
	})
}

// UpdateProfile applies partial edits to the caller's own record.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.UserName != "" {
		user.UserName = req.UserName
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Profession != "" {
		user.Profession = req.Profession
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.ProfileImage != "" {
		user.ProfileImage = req.ProfileImage
	}

	if err := h.users.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "Username already taken")
	}
	return c.JSON(http.StatusOK, user)
}

// Suggested returns accounts the caller does not follow yet.
func (h *UserHandler) Suggested(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	suggestions, err := h.users.SuggestedUsers(user.ID, 10)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load suggestions")
	}
	return c.JSON(http.StatusOK, suggestions)
}

// Search finds users by name or username prefix.
func (h *UserHandler) Search(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	results, err := h.users.SearchUsers(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}
	return c.JSON(http.StatusOK, results)
}

// Followers lists the accounts following the given user.
func (h *UserHandler) Followers(c echo.Context) error {
	user, err := h.userFromParam(c)
	if err != nil {
		return err
	}
	followers, err := h.follows.GetFollowers(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load followers")
	}
	return c.JSON(http.StatusOK, followers)
}

// Following lists the accounts the given user follows.
func (h *UserHandler) Following(c echo.Context) error {
	user, err := h.userFromParam(c)
	if err != nil {
		return err
	}
	following, err := h.follows.GetFollowing(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load following")
	}
	return c.JSON(http.StatusOK, following)
}

func (h *UserHandler) userFromParam(c echo.Context) (*models.User, error) {
	if _, err := requireUser(c); err != nil {
		return nil, err
	}
	user, err := h.users.GetUserByUserName(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
	}
	return user, nil
}
