package middleware

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"

	"github.com/rudro-dev/loopgram/backend/internal/models"
)

var errInvalidToken = errors.New("invalid token")

// parseLocalToken validates a JWT issued by the local sign-in flow and
// returns its claims.
func parseLocalToken(tokenString, secret string) (*models.JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JwtCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*models.JwtCustomClaims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}
