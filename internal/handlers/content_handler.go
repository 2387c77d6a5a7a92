package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/notifications"
	"github.com/rudro-dev/loopgram/backend/internal/realtime"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

const defaultPageSize = 20

// ContentHandler serves both posts and loops. The two surfaces share
// one document shape and one handler; kind selects the backing
// collection and the real-time event names.
type ContentHandler struct {
	kind       string
	contents   repositories.ContentRepository
	users      repositories.UserRepository
	notifier   *notifications.Service
	dispatcher *realtime.Dispatcher
}

func NewContentHandler(kind string, contents repositories.ContentRepository, users repositories.UserRepository, notifier *notifications.Service, dispatcher *realtime.Dispatcher) *ContentHandler {
	return &ContentHandler{
		kind:       kind,
		contents:   contents,
		users:      users,
		notifier:   notifier,
		dispatcher: dispatcher,
	}
}

func (h *ContentHandler) Create(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.HasPayload() {
		return echo.NewHTTPError(http.StatusBadRequest, "Content requires text or media")
	}

	content := &models.Content{
		AuthorID:  user.ID,
		Caption:   req.Caption,
		Text:      req.Text,
		MediaType: req.MediaType,
		MediaURL:  req.MediaURL,
	}
	if err := h.contents.CreateContent(c.Request().Context(), content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create "+h.kind)
	}

	author := user.Summary()
	content.Author = &author

	logger.Log.Info("content created",
		zap.String("kind", h.kind),
		zap.String("content_id", content.ID.Hex()),
		zap.Uint("author_id", user.ID))
	return c.JSON(http.StatusCreated, content)
}

func (h *ContentHandler) List(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
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

	contents, err := h.contents.GetAllContents(c.Request().Context(), int64((page-1)*limit), int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load "+h.kind+"s")
	}
	if err := hydrateContents(h.users, contents); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load authors")
	}
	return c.JSON(http.StatusOK, contents)
}

func (h *ContentHandler) Get(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	content, err := h.contents.GetContentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.lookupError(err)
	}
	if err := hydrateContent(h.users, content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load authors")
	}
	return c.JSON(http.StatusOK, content)
}

// ListByUser returns a user's own items, newest first.
func (h *ContentHandler) ListByUser(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	author, err := h.users.GetUserByUserName(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	contents, err := h.contents.GetContentsByAuthor(c.Request().Context(), author.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load "+h.kind+"s")
	}
	if err := hydrateContents(h.users, contents); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load authors")
	}
	return c.JSON(http.StatusOK, contents)
}

// Delete removes an item the caller authored, cleans up notifications
// that pointed at it, and announces the removal to all clients.
func (h *ContentHandler) Delete(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	content, err := h.contents.GetContentByID(c.Request().Context(), id)
	if err != nil {
		return h.lookupError(err)
	}
	if content.AuthorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this "+h.kind)
	}

	if err := h.contents.DeleteContent(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete "+h.kind)
	}

	h.notifier.CleanupForTarget(h.targetType(), id)
	h.dispatcher.Broadcast(realtime.DeletedEventFor(h.kind), realtime.DeletedPayload{ItemID: id})

	logger.Log.Info("content deleted",
		zap.String("kind", h.kind),
		zap.String("content_id", id),
		zap.Uint("author_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

// ToggleLike adds the caller to the liker set, or removes them if
// already present. Every successful toggle broadcasts the new liker
// set; only the off-to-on transition notifies the author.
func (h *ContentHandler) ToggleLike(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	liked, content, err := h.contents.ToggleLike(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return h.lookupError(err)
	}

	h.dispatcher.Broadcast(realtime.LikedEventFor(h.kind), realtime.LikedPayload{
		ItemID: content.ID.Hex(),
		Likes:  content.Likes,
	})
	h.notifier.NotifyLike(user.ID, h.kind, content, liked)

	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "likes": content.Likes})
}

// AddComment appends a comment and broadcasts the updated list.
func (h *ContentHandler) AddComment(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content, err := h.contents.AddComment(c.Request().Context(), c.Param("id"), models.Comment{
		AuthorID: user.ID,
		Text:     req.Text,
	})
	if err != nil {
		return h.lookupError(err)
	}
	if err := hydrateContent(h.users, content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load authors")
	}

	h.dispatcher.Broadcast(realtime.CommentedEventFor(h.kind), realtime.CommentedPayload{
		ItemID:   content.ID.Hex(),
		Comments: content.Comments,
	})
	h.notifier.NotifyComment(user.ID, h.kind, content)

	return c.JSON(http.StatusCreated, content)
}

func (h *ContentHandler) targetType() string {
	if h.kind == models.ContentKindLoop {
		return models.TargetTypeLoop
	}
	return models.TargetTypePost
}

func (h *ContentHandler) lookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load "+h.kind)
}
