package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pokedex-list-backend/config"
	"pokedex-list-backend/internal/api"
	"pokedex-list-backend/internal/db"
	"pokedex-list-backend/internal/listing"
	"pokedex-list-backend/internal/logging"
	"pokedex-list-backend/internal/notification"
	"pokedex-list-backend/internal/pokeapi"
	"pokedex-list-backend/internal/present"
	"pokedex-list-backend/internal/session"
	"pokedex-list-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger := logging.New(&cfg.Log)
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath))

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	appStore := store.NewGormStore(gormDB)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Failure alerts are optional; without VAPID keys nothing is pushed.
	var alerter listing.Alerter
	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, logger)
		pool.Start(ctx)
		alerter = pool
	} else {
		logger.Warn("VAPID keys not configured, failure alerts are disabled")
	}

	source := pokeapi.NewFromConfig(&cfg.Source, logger)
	service := listing.NewService(source, appStore, alerter, logger)
	views := session.NewRegistry(ctx, cfg.Views.TTL, service, cfg.Source.Limit, logger)

	handler := api.NewHandler(views, present.NewPresenter(cfg.Source.ImageBaseURL), appStore, webpushOptions, logger)
	router := api.NewRouter(&cfg.Server, handler, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("shutdown signal received, stopping services")

	// Tear views down first so open event streams end and fetches are canceled.
	views.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", zap.Error(err))
	}
	cancel()

	logger.Info("server gracefully stopped")
}
