package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"chorechart/internal/config"
	"chorechart/internal/database"
	"chorechart/internal/handlers"
	"chorechart/internal/logging"
	"chorechart/internal/metrics"
	"chorechart/internal/security"
	"chorechart/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid TZ_NAME %q: %v", cfg.Timezone, err)
	}

	// Initialize services
	rewardOpts := []service.RewardOption{
		service.WithLocation(loc),
		service.WithObserver(metrics.Recorder{}),
	}
	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.ParentEmail)
	if err != nil {
		log.Warnf("Parent notifications disabled: %v", err)
	} else if emailService.IsEnabled() {
		rewardOpts = append(rewardOpts, service.WithNotifier(emailService))
		log.WithField("parent", cfg.ParentEmail).Info("Parent notifications enabled")
	}
	rewardService := service.NewRewardService(db, rewardOpts...)
	catalogService := service.NewCatalogService(db)

	adminAuth, err := security.NewAdminAuth(cfg.AdminPassword, cfg.AdminPasswordHash, cfg.AdminTokenSecret, cfg.AdminTokenTTL)
	if err != nil {
		log.Fatalf("Failed to configure admin access: %v", err)
	}
	limiter := security.NewRateLimiter(cfg.RateLimitPerMinute)
	defer limiter.Close()

	handler := handlers.NewRouter(handlers.RouterConfig{
		Catalog:   catalogService,
		Rewards:   rewardService,
		AdminAuth: adminAuth,
		Limiter:   limiter,
		DB:        db,
	})

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"addr": addr, "timezone": loc.String()}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}

	// Let pending parent notifications finish before closing the database.
	rewardService.Wait()
	log.Println("Server stopped")
}
