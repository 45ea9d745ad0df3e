// Package storage provides SQLite persistence for plinth: the database
// handle, the embedded schema, and request-scoped session management.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLite holds the SQLite database connection pool.
type SQLite struct {
	DB     *sql.DB
	Path   string
	Logger *zap.SugaredLogger
}

// connPragmas ride the DSN so that every connection the pool opens gets
// them. foreign_keys and busy_timeout are per-connection settings in
// SQLite; applying them with Exec would only reach whichever single
// connection the pool happened to hand out.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// configureConnection enables WAL mode (a database-level property) and
// verifies the DSN pragmas took effect. SQLite disables foreign keys by
// default, so enforcement must be checked explicitly.
func configureConnection(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	var fkEnabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("failed to verify foreign keys: %w", err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("foreign keys not enabled (got: %d, expected: 1)", fkEnabled)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// In-memory databases report "memory" journal mode, not "wal"
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to query journal mode: %w", err)
	}
	if dbPath != ":memory:" && journalMode != "wal" {
		return fmt.Errorf("WAL mode not enabled (got: %s, expected: wal)", journalMode)
	}

	return nil
}

// NewSQLite opens a SQLite database at dbPath, creating the parent
// directory if needed, and applies the standard pragmas.
func NewSQLite(dbPath string, logger *zap.SugaredLogger) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if dbPath != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// For in-memory databases, use shared cache mode so every connection in
	// the pool sees the same database. Without it each connection would get
	// its own empty database.
	dsn := "file:" + dbPath + "?" + connPragmas
	if dbPath == ":memory:" {
		dsn = "file::memory:?cache=shared&" + connPragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := configureConnection(db, dbPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	// WAL mode supports concurrent readers with a single writer; a modest
	// pool keeps request sessions from contending for the same connection.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0) // connections never expire (important for in-memory databases)
	db.SetConnMaxIdleTime(10 * time.Minute)

	logger.Infow("SQLite database opened", "path", dbPath)

	return &SQLite{
		DB:     db,
		Path:   dbPath,
		Logger: logger,
	}, nil
}

// Close closes the database connection pool.
func (s *SQLite) Close() error {
	if s.DB == nil {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// HealthCheck verifies the database connection is alive.
func (s *SQLite) HealthCheck() error {
	if s.DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := s.DB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
