// Package database provides the core functionality for creating and managing
// database connections in a clean, isolated manner.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/pkg/config"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Config selects the SQL backend and sizes the connection pool.
type Config struct {
	SQLitePath       string
	TursoDatabaseURL string
	TursoAuthToken   string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	ConnMaxIdleTime  time.Duration
}

// ConfigFromEnv builds a Config from pkg/config.
func ConfigFromEnv() Config {
	return Config{
		SQLitePath:       config.SQLitePath,
		TursoDatabaseURL: config.TursoDatabaseURL,
		TursoAuthToken:   config.TursoAuthToken,
		MaxOpenConns:     config.DBMaxOpenConns,
		MaxIdleConns:     config.DBMaxIdleConns,
		ConnMaxLifetime:  time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime:  time.Duration(config.DBConnMaxIdleMinutes) * time.Minute,
	}
}

// UseTurso reports whether the hosted libsql backend is configured.
func (c Config) UseTurso() bool {
	return c.TursoDatabaseURL != "" && c.TursoAuthToken != ""
}

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	Driver string
	path   string
}

// NewConnection establishes a new database connection for the specified driver.
func NewConnection(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, Driver: driverName, path: dataSourceName}, nil
}

// Open connects to Turso when credentials are present and to the local
// SQLite file otherwise.
func Open(cfg Config, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()

	driver, dsn := "sqlite3", cfg.SQLitePath
	if cfg.UseTurso() {
		driver, dsn = "libsql", cfg.TursoDatabaseURL+"?authToken="+cfg.TursoAuthToken
	} else if isFilePath(cfg.SQLitePath) {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	logger.Database().Debug("Creating new database connection", "driverName", driver)

	db, err := NewConnection(driver, dsn)
	if err != nil {
		logger.Database().Error("Failed to open database connection", "error", err.Error(), "driverName", driver)
		return nil, fmt.Errorf("%s connection failed: %w", driver, err)
	}
	if driver == "libsql" {
		db.path = cfg.TursoDatabaseURL
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	duration := time.Since(start)
	logger.Database().Info("Database connection established", "driverName", driver, "duration", duration)
	CheckAndLogSlowQuery(logger, "DATABASE_CONNECTION", duration)

	return db, nil
}

// OpenInMemory opens a private in-memory SQLite database. Used by tests.
func OpenInMemory() (*DB, error) {
	db, err := NewConnection("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty database otherwise.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Ping checks that the database answers a trivial query.
func (db *DB) Ping(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return err
	}
	if one != 1 {
		return fmt.Errorf("unexpected ping result: %d", one)
	}
	return nil
}

// ConnectionInfo describes the backend for health output.
func (db *DB) ConnectionInfo() string {
	if db.Driver == "libsql" {
		return fmt.Sprintf("Turso (%s)", db.path)
	}
	return fmt.Sprintf("SQLite (%s)", db.path)
}

// PoolInfo returns connection pool statistics.
func (db *DB) PoolInfo() map[string]any {
	stats := db.Stats()
	return map[string]any{
		"maxOpen":      stats.MaxOpenConnections,
		"open":         stats.OpenConnections,
		"inUse":        stats.InUse,
		"idle":         stats.Idle,
		"waitCount":    stats.WaitCount,
		"waitDuration": stats.WaitDuration.String(),
	}
}

func isFilePath(path string) bool {
	return path != "" && path != ":memory:" && !strings.HasPrefix(path, "file:")
}
