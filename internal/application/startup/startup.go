// Package startup prepares the application server
package startup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/application/container"
	schema "github.com/studio-one/portfolio-api/internal/infrastructure/database"
	"github.com/studio-one/portfolio-api/internal/infrastructure/email"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/database"
	"github.com/studio-one/portfolio-api/internal/infrastructure/security"
	"github.com/studio-one/portfolio-api/internal/infrastructure/storage"
	"github.com/studio-one/portfolio-api/internal/presentation/http/server"
	"github.com/studio-one/portfolio-api/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("\033[32m" + `
  portfolio-api :: admin back office
` + "\033[0m")

	// Step 1: Channeled logger
	log.Println("Initializing channeled logger...")
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Logger initialized - switching to channeled logging", "level", config.LogLevel)

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 2: Database
	phaseStart := time.Now()
	db, err := database.Open(database.ConfigFromEnv(), logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(phaseStart), false)
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.LogStartupPhase("database", time.Since(phaseStart), true)
	logger.Startup().Info("Database ready", "backend", db.ConnectionInfo())

	// Step 3: Schema bootstrap for local deployments
	if config.BootstrapSchema {
		phaseStart = time.Now()
		creator := schema.NewTableCreator()
		if err := creator.CreateSchema(db.DB); err != nil {
			logger.LogStartupPhase("schema", time.Since(phaseStart), false)
			return fmt.Errorf("failed to create schema: %w", err)
		}
		if err := creator.SeedInitialContent(db.DB); err != nil {
			logger.LogStartupPhase("schema", time.Since(phaseStart), false)
			return fmt.Errorf("failed to seed singleton rows: %w", err)
		}
		logger.LogStartupPhase("schema", time.Since(phaseStart), true)
	}

	// Step 4: Object storage
	phaseStart = time.Now()
	objects, err := storage.NewS3Store(ctx, storage.OptionsFromEnv(), logger)
	if err != nil {
		logger.LogStartupPhase("object_storage", time.Since(phaseStart), false)
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	logger.LogStartupPhase("object_storage", time.Since(phaseStart), true)

	// Step 5: Email delivery is optional
	mailer, err := email.NewService(config.ResendAPIKey, email.SettingsFromEnv(), logger)
	switch {
	case errors.Is(err, email.ErrNotConfigured):
		logger.Startup().Warn("RESEND_API_KEY not set - contact replies are disabled")
	case err != nil:
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Step 6: Identity
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Startup().Warn("JWT_SECRET not set - using an ephemeral secret; tokens will not survive a restart")
	}
	if config.AdminPassword == "" {
		logger.Startup().Warn("ADMIN_PASSWORD not set - password login is disabled")
	}

	// Step 7: Dependency injection container
	perfTracker := performance.NewTracker(&performance.TrackerConfig{
		MaxMarkers:            1000,
		SlowResponseThreshold: 2 * time.Second,
		Logger:                logger.Perf(),
	})
	appContainer, err := container.NewContainer(container.Dependencies{
		DB:          db,
		Objects:     objects,
		Mailer:      mailer,
		Logger:      logger,
		PerfTracker: perfTracker,
	})
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	logger.Startup().Info("Singleton application services initialized via container",
		"dangerZoneEnabled", config.DangerZoneEnabled,
		"sections", len(appContainer.DeletionService.Sections()))

	// Step 8: HTTP server and graceful shutdown
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

func newLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	cfg.LogDirectory = config.LogDirectory
	cfg.OutputToFile = config.LogToFile
	cfg.JSONFormat = config.LogJSON
	return logging.NewChanneledLogger(cfg)
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
