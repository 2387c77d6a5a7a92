package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
)

type SavedContentHandler struct {
	saves repositories.SavedContentRepository
	posts repositories.ContentRepository
	loops repositories.ContentRepository
	users repositories.UserRepository
}

func NewSavedContentHandler(saves repositories.SavedContentRepository, posts, loops repositories.ContentRepository, users repositories.UserRepository) *SavedContentHandler {
	return &SavedContentHandler{saves: saves, posts: posts, loops: loops, users: users}
}

// Toggle saves the item for the caller, or unsaves it if already saved.
func (h *SavedContentHandler) Toggle(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	kind := c.Param("kind")
	repo, ok := h.repoFor(kind)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown content kind")
	}

	id := c.Param("id")
	if _, err := repo.GetContentByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load "+kind)
	}

	saved, err := h.saves.ToggleSave(user.ID, id, kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle save")
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": saved})
}

// ListSaved returns the caller's saved posts and loops, hydrated from
// their backing collections. Saves whose item has since been deleted
// are skipped.
func (h *SavedContentHandler) ListSaved(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	saves, err := h.saves.GetSavedByUser(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load saves")
	}

	var postIDs, loopIDs []string
	for _, s := range saves {
		if s.Kind == models.ContentKindLoop {
			loopIDs = append(loopIDs, s.ContentID)
		} else {
			postIDs = append(postIDs, s.ContentID)
		}
	}

	ctx := c.Request().Context()
	posts, err := h.posts.GetContentsByIDs(ctx, postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load saved posts")
	}
	loops, err := h.loops.GetContentsByIDs(ctx, loopIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load saved loops")
	}
	if err := hydrateContents(h.users, posts); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load authors")
	}
	if err := hydrateContents(h.users, loops); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load authors")
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts, "loops": loops})
}

func (h *SavedContentHandler) repoFor(kind string) (repositories.ContentRepository, bool) {
	switch kind {
	case models.ContentKindPost:
		return h.posts, true
	case models.ContentKindLoop:
		return h.loops, true
	default:
		return nil, false
	}
}
