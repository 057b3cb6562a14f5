package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/posrelay/migrations"
)

// Dialect names a supported SQL backend
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// NewMigrator builds a goose provider over the embedded migrations for dialect
func NewMigrator(db *sql.DB, dialect Dialect) (*goose.Provider, error) {
	var (
		gd   goose.Dialect
		fsys fs.FS
	)
	switch dialect {
	case DialectPostgres:
		gd, fsys = goose.DialectPostgres, migrations.Postgres()
	case DialectSQLite:
		gd, fsys = goose.DialectSQLite3, migrations.SQLite()
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	return goose.NewProvider(gd, db, fsys)
}

// Migrate applies all pending migrations
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	provider, err := NewMigrator(db, dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}
	for _, r := range results {
		slog.Default().Info(LogMsgMigrationApplied,
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration", r.Duration)
	}
	return nil
}

// MigratePool runs the migrations through a database/sql view of a pgx pool.
// The returned *sql.DB shares the pool and must not be closed by the caller.
func MigratePool(ctx context.Context, pool *pgxpool.Pool) error {
	return Migrate(ctx, stdlib.OpenDBFromPool(pool), DialectPostgres)
}
