package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-masthead/internal/fields"
	"github.com/goliatone/go-masthead/internal/navigation"
	"github.com/goliatone/go-masthead/internal/runtimeconfig"
	"github.com/goliatone/go-masthead/internal/transient"
)

// OpenBunDB opens the database named by cfg. sqlite is the default driver.
func OpenBunDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, runtimeconfig.ErrStorageDSNRequired
	}

	switch driver := strings.ToLower(strings.TrimSpace(cfg.Driver)); driver {
	case "", "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		// A single connection keeps in-memory DSNs on one database.
		db.SetMaxOpenConns(1)
		return db, nil
	case "postgres", "postgresql":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, driver)
	}
}

// EnsureSchema creates the field, transient and menu tables when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("di: database is required")
	}
	if err := fields.CreateTable(ctx, db); err != nil {
		return fmt.Errorf("di: create field table: %w", err)
	}
	if err := transient.CreateTable(ctx, db); err != nil {
		return fmt.Errorf("di: create transient table: %w", err)
	}
	if err := navigation.CreateTables(ctx, db); err != nil {
		return fmt.Errorf("di: create menu tables: %w", err)
	}
	return nil
}
