// Package database provides the core functionality for creating and managing
// the service's database connection.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// DB represents a wrapper around the standard SQL database connection.
type DB struct {
	*sql.DB
	UseTurso bool
}

// Config selects and tunes the connection.
type Config struct {
	SQLitePath      string
	TursoURL        string
	TursoToken      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
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

	return &DB{DB: db, UseTurso: driverName == "libsql"}, nil
}

// Open connects to Turso when a URL and token are configured, otherwise to
// the local SQLite file, creating its directory if needed.
func Open(cfg Config, logger *logging.ChanneledLogger) (*DB, error) {
	start := time.Now()

	var (
		db  *DB
		err error
	)
	if cfg.TursoURL != "" && cfg.TursoToken != "" {
		logger.Database().Debug("Creating new database connection", "driverName", "libsql")
		db, err = NewConnection("libsql", cfg.TursoURL+"?authToken="+cfg.TursoToken)
		if err != nil {
			logger.Database().Error("Turso connection failed", "error", err.Error())
			return nil, fmt.Errorf("turso connection failed: %w", err)
		}
	} else {
		logger.Database().Debug("Creating new database connection", "driverName", "sqlite3", "path", cfg.SQLitePath)
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err = NewConnection("sqlite3", SQLiteDSN(cfg.SQLitePath))
		if err != nil {
			logger.Database().Error("SQLite connection failed", "error", err.Error(), "path", cfg.SQLitePath)
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	duration := time.Since(start)
	logger.Database().Info("Database connection established", "turso", db.UseTurso, "duration", duration)
	CheckAndLogSlowQuery(logger, "DATABASE_CONNECTION", duration)

	return db, nil
}

// SQLiteDSN enables foreign keys and a busy timeout on a SQLite file path.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// ConnectionInfo describes the active backend for the health endpoint.
func (db *DB) ConnectionInfo() string {
	if db.UseTurso {
		return "turso"
	}
	return "sqlite"
}

// WithTx runs fn inside a transaction, committing on success.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
