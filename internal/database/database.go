package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/linkdao/reputation/internal/database/migrations"
	srv "github.com/linkdao/reputation/internal/database/service"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/events"
	"github.com/linkdao/reputation/internal/setup/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunjson"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// sonicProvider is a JSON provider that uses Sonic for encoding and decoding.
type sonicProvider struct{}

func (sonicProvider) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (sonicProvider) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func (sonicProvider) NewEncoder(w io.Writer) bunjson.Encoder {
	return sonic.ConfigDefault.NewEncoder(w)
}

func (sonicProvider) NewDecoder(r io.Reader) bunjson.Decoder {
	return sonic.ConfigDefault.NewDecoder(r)
}

// Client defines the methods that a database client must implement.
type Client interface {
	// Model returns the repository containing all model operations.
	Model() *Repository
	// Service returns the service containing all service operations.
	Service() *Service
	// Close gracefully shuts down the database connection.
	Close() error
	// DB returns the underlying bun.DB instance.
	DB() *bun.DB
}

// clientImpl represents the concrete implementation of the database client.
type clientImpl struct {
	db      *bun.DB
	logger  *zap.Logger
	repo    *Repository
	service *Service
}

// NewConnection establishes a new database connection and returns a Client instance.
func NewConnection(
	ctx context.Context,
	pgConfig *config.PostgreSQL,
	repConfig *config.Reputation,
	dispatcher *events.Dispatcher,
	ruleCache *srv.RuleCache,
	logger *zap.Logger,
	autoMigrate bool,
) (Client, error) {
	// Initialize database connection with config values
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", pgConfig.Host, pgConfig.Port)),
		pgdriver.WithUser(pgConfig.User),
		pgdriver.WithPassword(pgConfig.Password),
		pgdriver.WithDatabase(pgConfig.DBName),
		pgdriver.WithInsecure(true),
		pgdriver.WithApplicationName("reputation"),
	))

	// Set connection pool settings
	sqldb.SetMaxOpenConns(pgConfig.MaxOpenConns)
	sqldb.SetMaxIdleConns(pgConfig.MaxIdleConns)
	sqldb.SetConnMaxLifetime(time.Duration(pgConfig.MaxLifetime) * time.Minute)
	sqldb.SetConnMaxIdleTime(time.Duration(pgConfig.MaxIdleTime) * time.Minute)

	// Set Sonic as the JSON provider
	bunjson.SetProvider(sonicProvider{})

	// Create Bun db instance
	db := bun.NewDB(sqldb, pgdialect.New())

	// Add query hook for monitoring
	db.AddQueryHook(NewHook(logger))

	// Run migrations if requested
	if autoMigrate {
		migrator := migrate.NewMigrator(db, migrations.Migrations)
		if err := migrator.Init(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize migrations: %w", err)
		}

		group, err := migrator.Migrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		if !group.IsZero() {
			logger.Info("Automatically ran migrations", zap.String("group", group.String()))
		}
	}

	// Create client instance
	repo := NewRepository(db, logger)
	dispatcher.SetOutbox(repo.Event())
	service := NewService(db, repo, dispatcher, ruleCache, boundsFromConfig(repConfig), logger)

	client := &clientImpl{
		db:      db,
		logger:  logger,
		repo:    repo,
		service: service,
	}

	logger.Info("Database connection established")

	return client, nil
}

// boundsFromConfig builds score bounds from config. The baseline is a
// pointer so a deployment can explicitly pick 0; only a missing value falls
// back to the default.
func boundsFromConfig(repConfig *config.Reputation) types.ScoreBounds {
	bounds := types.ScoreBounds{
		Lower:    repConfig.LowerBound,
		Upper:    repConfig.UpperBound,
		Baseline: types.DefaultBaseline,
	}
	if repConfig.Baseline != nil {
		bounds.Baseline = *repConfig.Baseline
	}

	if bounds.Upper == 0 {
		bounds.Upper = types.DefaultUpperBound
	}

	return bounds
}

// Close gracefully shuts down the database connection.
func (c *clientImpl) Close() error {
	err := c.db.Close()
	if err != nil {
		c.logger.Error("Failed to close database connection", zap.Error(err))
		return err
	}

	c.logger.Info("Database connection closed")

	return nil
}

// Model returns the repository containing all model operations.
func (c *clientImpl) Model() *Repository {
	return c.repo
}

// Service returns the service containing all service operations.
func (c *clientImpl) Service() *Service {
	return c.service
}

// DB returns the underlying bun.DB instance.
func (c *clientImpl) DB() *bun.DB {
	return c.db
}
