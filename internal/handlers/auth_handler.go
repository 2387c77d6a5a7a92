package handlers

import (
	"errors"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

const tokenTTL = 72 * time.Hour

type AuthHandler struct {
	users      repositories.UserRepository
	authClient *auth.Client
	jwtSecret  string
}

func NewAuthHandler(users repositories.UserRepository, authClient *auth.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, authClient: authClient, jwtSecret: jwtSecret}
}

// Register creates an account for a user who already authenticated with
// Firebase on the client.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := &models.User{
		Name:        req.Name,
		UserName:    req.UserName,
		Email:       req.Email,
		FirebaseUID: &req.FirebaseUID,
	}
	if err := h.users.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	}

	logger.Log.Info("user registered",
		zap.Uint("user_id", user.ID), zap.String("user_name", user.UserName))
	return c.JSON(http.StatusCreated, user)
}

// Signup creates a local account with an email and password.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process password")
	}

	user := &models.User{
		Name:     req.Name,
		UserName: req.UserName,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := h.users.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue token")
	}

	logger.Log.Info("user signed up",
		zap.Uint("user_id", user.ID), zap.String("user_name", user.UserName))
	return c.JSON(http.StatusCreated, echo.Map{"user": user, "token": token})
}

// SignIn exchanges an email and password for a JWT.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue token")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// FirebaseLogin resolves a Firebase ID token to its local account.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.authClient == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req struct {
		IDToken string `json:"id_token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	decoded, err := h.authClient.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid firebase token")
	}

	user, err := h.users.GetUserByFirebaseUID(decoded.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No account for this firebase user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
