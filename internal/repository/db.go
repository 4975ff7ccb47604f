// Package repository persists projects, file records and analysis runs over
// database/sql. The default store is an embedded sqlite file; postgres:// DSNs
// go through the pgx stdlib driver. All statements use $1 placeholders, which
// both drivers accept.
package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

const timeLayout = time.RFC3339Nano

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		market      TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL,
		slot_id     TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		file_size   BIGINT NOT NULL DEFAULT 0,
		origin      TEXT NOT NULL DEFAULT '',
		uploaded_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_files_project ON files (project_id)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL,
		kind        TEXT NOT NULL,
		market      TEXT NOT NULL,
		status      TEXT NOT NULL,
		progress    INTEGER NOT NULL DEFAULT 0,
		result      TEXT,
		error       TEXT NOT NULL DEFAULT '',
		started_at  TEXT NOT NULL,
		finished_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_project_kind ON runs (project_id, kind)`,
	`CREATE TABLE IF NOT EXISTS action_items (
		id          TEXT NOT NULL,
		project_id  TEXT NOT NULL,
		market      TEXT NOT NULL,
		priority    TEXT NOT NULL,
		item_type   TEXT NOT NULL,
		task        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending',
		position    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, market, id)
	)`,
}

// Open connects to the store, applies the schema migrations and verifies the
// connection with a ping.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		driver = "pgx"
	}
	logger.Info("connecting to database", "driver", driver)

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
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

	if err := db.PingContext(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		_ = db.Close()
		return nil, err
	}

	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error("migration failed", "error", err)
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Healthcheck pings the store with a short deadline.
func Healthcheck(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
