// Package database stores projects, sections and tasks for the development
// task API server in SQLite.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultPath is ~/.tablero/tasks.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tablero", "tasks.db"), nil
}

// InitDB opens the database at path (DefaultPath when empty), applies the
// connection pragmas and runs migrations.
func InitDB(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	fail := func(err error) (*sql.DB, error) {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, err
	}

	// SQLite keeps pragmas per connection; a single connection keeps them applied.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			slog.Error("failed to apply pragma", "pragma", pragma, "error", err)
			return fail(fmt.Errorf("%s: %w", pragma, err))
		}
	}

	if err := db.PingContext(ctx); err != nil {
		return fail(fmt.Errorf("database ping failed: %w", err))
	}

	if err := runMigrations(ctx, db); err != nil {
		return fail(fmt.Errorf("failed to run migrations: %w", err))
	}

	return db, nil
}
