package realtime

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

// AuthFunc resolves a bearer token to the connecting user.
type AuthFunc func(c echo.Context, token string) (*models.User, error)

// Handler upgrades HTTP requests to websocket connections and wires
// them into the registry.
type Handler struct {
	registry *Registry
	auth     AuthFunc
}

func NewHandler(registry *Registry, auth AuthFunc) *Handler {
	return &Handler{registry: registry, auth: auth}
}

// Serve handles GET /ws?token=... The token travels as a query
// parameter because browsers cannot set headers on websocket upgrades.
func (h *Handler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	user, err := h.auth(c, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		logger.Log.Warn("websocket upgrade failed",
			zap.Uint("user_id", user.ID), zap.Error(err))
		return nil
	}

	client := NewClient(conn, user.ID, user.UserName)
	h.registry.Register(client)

	go client.WritePump()
	client.ReadPump(h.registry)
	return nil
}
