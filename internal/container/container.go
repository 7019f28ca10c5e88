package container

import (
	"context"
	"fmt"

	"lifeconnect/adapters/postgres"
	"lifeconnect/internal"
	"lifeconnect/internal/config"
	"lifeconnect/internal/engine"
	"lifeconnect/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	UserRepo       ports.UserRepository
	ConnectionRepo ports.ConnectionRepository
	Source         ports.ObservationSource

	// Analysis components
	Analyzer *engine.Analyzer
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config: cfg,
		Logger: internal.NewDefaultLogger(),
	}, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	// Test database connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	if err := c.initRepositories(); err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := c.initAnalysis(); err != nil {
		return fmt.Errorf("failed to initialize analysis components: %w", err)
	}

	c.Logger.Info("Container initialized successfully with database connection")
	return nil
}

// initRepositories initializes data access repositories
func (c *Container) initRepositories() error {
	c.UserRepo = postgres.NewUserRepository(c.DB)
	c.ConnectionRepo = postgres.NewConnectionRepository(c.DB)
	c.Source = postgres.NewObservationSource(c.DB)
	return nil
}

// initAnalysis initializes the connection analysis engine
func (c *Container) initAnalysis() error {
	c.Analyzer = engine.NewAnalyzer(c.Source, c.UserRepo, c.ConnectionRepo, c.Config.Engine, c.Logger)
	if c.Analyzer == nil {
		return fmt.Errorf("failed to create analyzer")
	}
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
