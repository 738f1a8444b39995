package common

import (
	"context"
	"log"
	"strings"

	"platform-ledger-go/internal/chat"
	"platform-ledger-go/internal/database"
	"platform-ledger-go/internal/engine"
	"platform-ledger-go/internal/models"
	"platform-ledger-go/internal/notify"
	"platform-ledger-go/internal/platform"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	}
}

type Services struct {
	DbService *database.Service
	Registry  *platform.Registry
	Engine    *engine.Engine
	Chat      *chat.Service
	Notifier  *notify.Producer
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	registry := platform.Default()
	if cfg.Service.PlatformsFile != "" {
		zap.L().Info("Loading platform policies", zap.String("file", cfg.Service.PlatformsFile))
		registry, err = platform.Load(cfg.Service.PlatformsFile)
		if err != nil {
			dbService.Close()
			return nil, err
		}
	}

	notifier, err := notify.NewProducer(cfg.Notify)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	return &Services{
		DbService: dbService,
		Registry:  registry,
		Engine:    engine.NewEngine(dbService, registry, notifier),
		Chat:      chat.NewService(dbService, registry),
		Notifier:  notifier,
	}, nil
}

// InitializeDatabaseOnly initializes just the database service. Useful for
// read-only operations like querying balances.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	return database.NewService(ctx, cfg.Database)
}

func (cs *Services) Close() {
	if cs.Notifier != nil {
		cs.Notifier.Close()
	}
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
