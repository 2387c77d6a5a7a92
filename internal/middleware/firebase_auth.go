package middleware

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// verifyFirebaseToken checks an ID token against Firebase and returns
// the Firebase UID it was issued for.
func verifyFirebaseToken(ctx context.Context, client *auth.Client, token string) (string, error) {
	decoded, err := client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return decoded.UID, nil
}
