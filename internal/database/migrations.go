package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"github.com/prajwalbharadwajbm/hashroute/internal/config"
)

// MigrationManager handles database migrations
type MigrationManager struct {
	cfg           config.DatabaseConfig
	migrationsDir string
	logger        log.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(cfg config.DatabaseConfig, migrationsDir string, logger log.Logger) *MigrationManager {
	return &MigrationManager{
		cfg:           cfg,
		migrationsDir: migrationsDir,
		logger:        logger,
	}
}

// Up runs all up migrations
func (m *MigrationManager) Up() error {
	migration, err := m.createMigrationInstance()
	if err != nil {
		return err
	}
	defer migration.Close()

	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}

	level.Info(m.logger).Log("msg", "database migrations completed")
	return nil
}

// Down runs all down migrations
func (m *MigrationManager) Down() error {
	migration, err := m.createMigrationInstance()
	if err != nil {
		return err
	}
	defer migration.Close()

	if err := migration.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run down migrations: %w", err)
	}

	level.Info(m.logger).Log("msg", "database down migrations completed")
	return nil
}

// Version returns current migration version
func (m *MigrationManager) Version() (uint, bool, error) {
	migration, err := m.createMigrationInstance()
	if err != nil {
		return 0, false, err
	}
	defer migration.Close()

	return migration.Version()
}

// createMigrationInstance opens a dedicated connection so closing the
// migration never closes the serving pool
func (m *MigrationManager) createMigrationInstance() (*migrate.Migrate, error) {
	migrationDB, err := sql.Open("postgres", dsn(m.cfg, m.cfg.DBName))
	if err != nil {
		return nil, fmt.Errorf("failed to open migration database connection: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	migrationsPath, err := filepath.Abs(m.migrationsDir)
	if err != nil {
		migrationDB.Close()
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	migration, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		migrationDB.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return migration, nil
}

// EnsureDatabase creates the database if it doesn't exist
func EnsureDatabase(ctx context.Context, cfg config.DatabaseConfig, logger log.Logger) error {
	db, err := sql.Open("postgres", dsn(cfg, "postgres"))
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1)"
	if err := db.QueryRowContext(ctx, query, cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		level.Debug(logger).Log("msg", "database already exists", "database", cfg.DBName)
		return nil
	}

	level.Info(logger).Log("msg", "creating database", "database", cfg.DBName)
	if _, err := db.ExecContext(ctx, createDatabaseStatement(cfg.DBName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	return nil
}

func createDatabaseStatement(name string) string {
	return "CREATE DATABASE " + pq.QuoteIdentifier(name)
}
