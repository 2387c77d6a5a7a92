package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/internal/router"
	"github.com/rudro-dev/loopgram/backend/pkg/config"
	"github.com/rudro-dev/loopgram/backend/pkg/firebase"
	"github.com/rudro-dev/loopgram/backend/pkg/logger"
	"github.com/rudro-dev/loopgram/backend/pkg/validators"
)

func main() {
	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		panic(err)
	}
	defer logger.Close()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.EnsureMongoIndexes(ctx, db.Mongo.Database(cfg.MongoDatabase)); err != nil {
		cancel()
		logger.Log.Fatal("failed to ensure mongo indexes", zap.Error(err))
	}
	cancel()

	authClient, err := firebase.InitAuth(context.Background(), cfg.FirebaseCredentialsPath)
	if err != nil {
		logger.Log.Fatal("failed to initialize firebase", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	app, err := router.Setup(e, db, cfg, authClient)
	if err != nil {
		logger.Log.Fatal("failed to set up routes", zap.Error(err))
	}

	app.Sweeper.Start()
	defer app.Sweeper.Stop()

	// Metrics are exposed on their own port so the scrape endpoint
	// stays off the public API surface.
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: promhttp.Handler(),
	}
	go func() {
		logger.Log.Info("metrics listener started", zap.String("port", cfg.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("metrics listener failed", zap.Error(err))
		}
	}()

	go func() {
		logger.Log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("metrics shutdown failed", zap.Error(err))
	}
}
