// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/application/container"
	schema "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/seed"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/fanhub-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives
func Initialize() error {
	start := time.Now().UTC()

	logger, err := setupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	logger.Startup().Info("Starting FanHub API", "ginMode", gin.Mode())

	// Step 1: Open the database
	phaseStart := time.Now()
	db, err := database.Open(database.Config{
		SQLitePath:      config.SQLitePath,
		TursoURL:        config.TursoDatabaseURL,
		TursoToken:      config.TursoAuthToken,
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(config.DBConnMaxIdleMinutes) * time.Minute,
	}, logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(phaseStart), false, map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.LogStartupPhase("database", time.Since(phaseStart), true, map[string]any{"backend": db.ConnectionInfo()})

	if config.TursoDatabaseURL != "" {
		phaseStart = time.Now()
		if err := db.VerifyConnection(ctx, logger); err != nil {
			logger.LogStartupPhase("database_check", time.Since(phaseStart), false, map[string]any{"error": err.Error()})
			return fmt.Errorf("turso connection check failed: %w", err)
		}
		logger.LogStartupPhase("database_check", time.Since(phaseStart), true, map[string]any{"backend": db.ConnectionInfo()})
	}

	// Step 2: Ensure the schema exists
	phaseStart = time.Now()
	if err := schema.NewTableCreator().CreateSchema(ctx, db.DB); err != nil {
		logger.LogStartupPhase("schema", time.Since(phaseStart), false, map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.LogStartupPhase("schema", time.Since(phaseStart), true, nil)

	// Step 3: Session signing key
	jwtSecret := config.JWTSecret
	if jwtSecret == "" {
		if jwtSecret, err = security.GenerateSecureKey(64); err != nil {
			return err
		}
		logger.Startup().Warn("JWT_SECRET not set, using an ephemeral key; sessions end on restart")
	}

	// Step 4: Create dependency injection container
	phaseStart = time.Now()
	appContainer := container.NewContainer(db, logger, container.Options{JWTSecret: jwtSecret})
	logger.LogStartupPhase("container", time.Since(phaseStart), true, nil)

	// Step 5: Seed catalog and content
	phaseStart = time.Now()
	seeded, err := seed.LoadAndApply(ctx, config.CatalogSeedPath, seed.Options{DefaultVendorShopID: config.PrintifyShopID}, appContainer.Products, appContainer.Content, logger)
	if err != nil {
		logger.LogStartupPhase("seed", time.Since(phaseStart), false, map[string]any{"error": err.Error(), "path": config.CatalogSeedPath})
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	logger.LogStartupPhase("seed", time.Since(phaseStart), true, map[string]any{"products": seeded.Products, "content": seeded.Content})

	// Step 6: Background workers
	go appContainer.FeedHub.Run(ctx)
	go appContainer.CleanupWorker.Start(ctx)
	logger.Startup().Info("Background workers started", "cartTTL", config.CartTTL, "cleanupInterval", config.CartCleanupInterval)

	// Step 7: Start HTTP server
	httpServer := server.New(ctx, config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal or a listener failure
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	// feed hub and cleanup worker stop after in-flight requests drain
	cancelBackgroundTasks()

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures gin and builds the channeled logger from config
func setupLogging() (*logging.ChanneledLogger, error) {
	if config.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.JSONFormat = config.LogJSON
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)

	logger, err := logging.NewChanneledLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
