// Package setup bootstraps application dependencies shared by all
// entrypoints.
package setup

import (
	"context"
	"log"
	"time"

	"github.com/linkdao/reputation/internal/database"
	"github.com/linkdao/reputation/internal/database/service"
	"github.com/linkdao/reputation/internal/events"
	"github.com/linkdao/reputation/internal/logging"
	"github.com/linkdao/reputation/internal/redis"
	"github.com/linkdao/reputation/internal/setup/config"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// defaultRuleCacheTTL applies when the config leaves the TTL unset.
const defaultRuleCacheTTL = 5 * time.Minute

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	DBLogger     *zap.Logger        // Database-specific logger
	DB           database.Client    // Database connection pool
	RedisManager *redis.Manager     // Redis connection manager
	StatusClient rueidis.Client     // Redis client for worker status reporting
	Dispatcher   *events.Dispatcher // Domain event dispatcher
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logger, dbLogger, err := logging.SetupLogging(logDir, cfg.Common.Debug.LogLevel, cfg.Common.Debug.MaxLogsToKeep)
	if err != nil {
		return nil, err
	}

	// Redis manager provides connection pools for various subsystems
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	// The dispatcher is created before the database so writes can publish
	// events; its outbox model is attached during connection setup.
	mode, err := events.ParseMode(cfg.Common.Reputation.DispatchMode)
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewDispatcher(mode, nil, logger)

	// Rule cache keeps active rule lookups off the hot path
	cacheClient, err := redisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		return nil, err
	}

	ruleCacheTTL := time.Duration(cfg.Common.Reputation.RuleCacheTTL) * time.Second
	if ruleCacheTTL == 0 {
		ruleCacheTTL = defaultRuleCacheTTL
	}

	ruleCache := service.NewRuleCache(cacheClient, ruleCacheTTL, logger)

	// Initialize database with migrations
	db, err := database.NewConnection(
		ctx, &cfg.Common.PostgreSQL, &cfg.Common.Reputation, dispatcher, ruleCache, dbLogger, true,
	)
	if err != nil {
		return nil, err
	}

	// Wire the recalculation pipeline to the domain events
	RegisterHandlers(dispatcher, db, logger)

	// Get Redis client for worker status reporting
	statusClient, err := redisManager.GetClient(redis.WorkerStatusDBIndex)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		RedisManager: redisManager,
		StatusClient: statusClient,
		Dispatcher:   dispatcher,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors so all components get cleanup attempts.
func (s *App) Cleanup(_ context.Context) {
	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	// Close database connections
	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}
