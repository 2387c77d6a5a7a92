package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

type StoryHandler struct {
	stories repositories.StoryRepository
	users   repositories.UserRepository
	follows repositories.FollowRepository
}

func NewStoryHandler(stories repositories.StoryRepository, users repositories.UserRepository, follows repositories.FollowRepository) *StoryHandler {
	return &StoryHandler{stories: stories, users: users, follows: follows}
}

// Create publishes the caller's story. Posting replaces any story the
// caller already has, so at most one is active per user.
func (h *StoryHandler) Create(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	mediaType, ok := req.ResolveMediaType()
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Story requires media or text")
	}

	ctx := c.Request().Context()
	if err := h.stories.DeleteStoriesByAuthor(ctx, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to replace story")
	}

	story := &models.Story{
		AuthorID:  user.ID,
		MediaType: mediaType,
		MediaURL:  req.MediaURL,
		Text:      req.Text,
	}
	if err := h.stories.CreateStory(ctx, story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create story")
	}
	if err := h.users.SetStoryRef(user.ID, story.ID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to link story")
	}

	author := user.Summary()
	story.Author = &author

	logger.Log.Info("story published",
		zap.Uint("author_id", user.ID),
		zap.String("story_id", story.ID.Hex()),
		zap.String("media_type", mediaType))
	return c.JSON(http.StatusCreated, story)
}

// GetByUserName returns a user's active story, if one exists and has
// not expired.
func (h *StoryHandler) GetByUserName(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	author, err := h.users.GetUserByUserName(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	story, err := h.stories.GetStoryByAuthor(c.Request().Context(), author.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No active story")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load story")
	}

	if err := h.hydrateStory(story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load story users")
	}
	return c.JSON(http.StatusOK, story)
}

// Feed returns the active stories of everyone the caller follows.
func (h *StoryHandler) Feed(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	authorIDs, err := h.follows.GetFollowingIDs(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load following")
	}

	stories, err := h.stories.GetStoriesByAuthors(c.Request().Context(), authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stories")
	}
	for i := range stories {
		if err := h.hydrateStory(&stories[i]); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load story users")
		}
	}
	return c.JSON(http.StatusOK, stories)
}

// View records the caller in the story's viewer set. Repeat views do
// not grow the set.
func (h *StoryHandler) View(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	story, err := h.stories.AddViewer(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record view")
	}

	if err := h.hydrateStory(story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load story users")
	}
	return c.JSON(http.StatusOK, story)
}

// Delete removes the caller's own story before its natural expiry.
func (h *StoryHandler) Delete(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	story, err := h.stories.GetStoryByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load story")
	}
	if story.AuthorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this story")
	}

	if err := h.stories.DeleteStory(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete story")
	}
	if err := h.users.ClearStoryRef(user.ID, id); err != nil {
		logger.Log.Warn("failed to clear story reference",
			zap.Uint("author_id", user.ID), zap.String("story_id", id), zap.Error(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

func (h *StoryHandler) hydrateStory(story *models.Story) error {
	ids := append([]uint{story.AuthorID}, story.Viewers...)
	summaries, err := summariesByID(h.users, ids)
	if err != nil {
		return err
	}
	if s, ok := summaries[story.AuthorID]; ok {
		author := s
		story.Author = &author
	}
	story.ViewerUsers = story.ViewerUsers[:0]
	for _, id := range story.Viewers {
		if s, ok := summaries[id]; ok {
			story.ViewerUsers = append(story.ViewerUsers, s)
		}
	}
	return nil
}
