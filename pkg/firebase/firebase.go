package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

// InitAuth creates the Firebase auth client used to verify ID tokens.
// When no credentials path is configured the client is nil and only
// locally issued JWTs are accepted.
func InitAuth(ctx context.Context, credentialsPath string) (*auth.Client, error) {
	if credentialsPath == "" {
		logger.Log.Warn("firebase credentials not configured, firebase login disabled")
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth client: %w", err)
	}

	logger.Log.Info("firebase auth client initialized")
	return client, nil
}
