package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
)

const currentUserKey = "currentUser"

// AuthMiddleware authenticates requests with either a Firebase ID token
// or a locally issued JWT and stores the resolved user on the context.
// Firebase is tried first when a client is configured; local JWTs are
// the fallback so both login flows share one protected route group.
func AuthMiddleware(authClient *auth.Client, users repositories.UserRepository, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := ResolveToken(c, authClient, users, jwtSecret, token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// ResolveToken maps a raw token to the account it belongs to. Shared
// with the websocket handler, which receives its token as a query
// parameter instead of a header.
func ResolveToken(c echo.Context, authClient *auth.Client, users repositories.UserRepository, jwtSecret, token string) (*models.User, error) {
	if authClient != nil {
		if uid, err := verifyFirebaseToken(c.Request().Context(), authClient, token); err == nil {
			return users.GetUserByFirebaseUID(uid)
		}
	}

	claims, err := parseLocalToken(token, jwtSecret)
	if err != nil {
		return nil, err
	}
	return users.GetUserByID(claims.UserID)
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(currentUserKey).(*models.User)
	return user
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header")
	}
	return parts[1], nil
}
