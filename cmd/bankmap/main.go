package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	handler "github.com/zdziszkee/bankmap/internal/api/handlers"
	"github.com/zdziszkee/bankmap/internal/api/middleware"
	"github.com/zdziszkee/bankmap/internal/api/router"
	config "github.com/zdziszkee/bankmap/internal/configuration"
	"github.com/zdziszkee/bankmap/internal/database"
	"github.com/zdziszkee/bankmap/internal/logger"
	"github.com/zdziszkee/bankmap/internal/metrics"
	"github.com/zdziszkee/bankmap/internal/parser"
	"github.com/zdziszkee/bankmap/internal/repository"
	"github.com/zdziszkee/bankmap/internal/service"
	"github.com/zdziszkee/bankmap/internal/web"
)

const (
	connectAttempts = 10
	connectDelay    = 2 * time.Second
)

// locationTx binds fresh location repositories to a transaction per call
func locationTx(db *database.Database) service.LocationTx {
	return func(ctx context.Context, fn func(repos service.LocationRepositories) error) error {
		return db.WithTx(ctx, func(tx *sql.Tx) error {
			return fn(service.LocationRepositories{
				Banks:    repository.NewSQLBankRepository(tx),
				Branches: repository.NewSQLBranchRepository(tx),
				ATMs:     repository.NewSQLATMRepository(tx),
			})
		})
	}
}

// loadSeedFile imports banks, branches and ATMs from a CSV file
func loadSeedFile(ctx context.Context, filePath string, importer *service.Importer) (service.ImportStats, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return service.ImportStats{}, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	return importer.Import(ctx, file)
}

// connect waits for the database to accept connections
func connect(cfg database.Config, zl *zap.Logger) (*database.Database, error) {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := database.New(ctx, cfg)
		cancel()
		if err == nil {
			return db, nil
		}
		lastErr = err
		zl.Warn("database not ready", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(connectDelay)
	}
	return nil, lastErr
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	loadFile := flag.String("load", "", "Path to a locations CSV file to import")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override config with command line flags if provided
	if *loadFile != "" {
		cfg.Data.SeedFile = *loadFile
		cfg.Data.AutoLoad = true
	}

	zl, err := logger.New(logger.Config{AppName: cfg.AppName, Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	loc, err := cfg.Location()
	if err != nil {
		zl.Fatal("invalid time zone", zap.Error(err))
	}

	// Initialize database
	db, err := connect(cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	locationRepos := service.LocationRepositories{
		Banks:    repository.NewSQLBankRepository(db),
		Branches: repository.NewSQLBranchRepository(db),
		ATMs:     repository.NewSQLATMRepository(db),
	}
	users := repository.NewSQLUserRepository(db)
	sessions := repository.NewSQLSessionRepository(db)

	// Initialize services
	m := metrics.New()
	locationService := service.NewLocationService(locationRepos, loc, zl, m)
	authService := service.NewAuthService(users, sessions, service.AuthOptions{SessionTTL: cfg.Session.TTL}, zl)
	permissionService := service.NewPermissionService(users, zl)

	// Auto-load data if configured
	if cfg.Data.AutoLoad && cfg.Data.SeedFile != "" {
		zl.Info("importing seed data", zap.String("file", cfg.Data.SeedFile))

		// Use a timeout context for loading
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		importer := service.NewImporter(parser.NewCSVLocationParser(), locationTx(db), zl)
		if _, err := loadSeedFile(ctx, cfg.Data.SeedFile, importer); err != nil {
			zl.Warn("failed to import seed data", zap.Error(err))
		}
		cancel()
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if cfg.Bootstrap.SuperuserUsername != "" && cfg.Bootstrap.SuperuserPassword != "" {
		created, err := authService.EnsureSuperuser(startupCtx, cfg.Bootstrap.SuperuserUsername, cfg.Bootstrap.SuperuserPassword)
		if err != nil {
			zl.Fatal("failed to create superuser", zap.Error(err))
		}
		if !created {
			zl.Info("superuser already exists", zap.String("username", cfg.Bootstrap.SuperuserUsername))
		}
	}
	if n, err := authService.PurgeExpiredSessions(startupCtx); err != nil {
		zl.Warn("failed to purge expired sessions", zap.Error(err))
	} else if n > 0 {
		zl.Info("expired sessions purged", zap.Int64("count", n))
	}
	cancel()

	// Setup routes
	app := router.SetupRoutes(router.Dependencies{
		AppName:      cfg.AppName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Site:         cfg.Site,
		Views:        web.NewViews(),
		Logger:       zl,
		Metrics:      m,
		Guard:        middleware.NewSessionGuard(authService, cfg.Session.CookieName),
		Locations:    handler.NewLocationHandler(locationService),
		Accounts:     handler.NewAccountHandler(authService, cfg.Session),
		Permissions:  handler.NewPermissionHandler(permissionService),
	})

	// Start server in a goroutine so we can handle graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		zl.Info("starting server", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")

	// Provide a timeout context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exiting")
}
