package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/posrelay/internal/catalog"
	"github.com/osse101/posrelay/internal/config"
	"github.com/osse101/posrelay/internal/customer"
	"github.com/osse101/posrelay/internal/database"
	"github.com/osse101/posrelay/internal/database/postgres"
	"github.com/osse101/posrelay/internal/database/sqlite"
	"github.com/osse101/posrelay/internal/sales"
	"github.com/osse101/posrelay/internal/stores"
)

// Repositories holds the repository implementations of the selected backend
// together with the handle used for readiness checks and shutdown.
type Repositories struct {
	Catalog   catalog.Repository
	Sales     sales.Repository
	Stores    stores.Repository
	Customers customer.Repository
	DB        database.Pool
}

// InitializeRepositories opens the database selected by cfg, applies pending
// migrations and builds the repositories on top of it.
// DATABASE_URL selects postgres; otherwise the SQLite file at SQLitePath is used.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	ctx, cancel := context.WithTimeout(ctx, DatabaseMigrateTimeout)
	defer cancel()

	if cfg.UsesPostgres() {
		slog.Info(LogMsgUsingPostgres)
		pool, err := database.NewPool(cfg.DatabaseURL, database.DefaultMaxConnections,
			database.DefaultMaxConnIdle, database.DefaultMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDatabase, err)
		}
		if err := database.MigratePool(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		return &Repositories{
			Catalog:   postgres.NewCatalogRepository(pool),
			Sales:     postgres.NewSalesRepository(pool),
			Stores:    postgres.NewStoreRepository(pool),
			Customers: postgres.NewCustomerRepository(pool),
			DB:        pool,
		}, nil
	}

	slog.Info(LogMsgUsingSQLite, "path", cfg.SQLitePath)
	db, err := database.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDatabase, err)
	}
	if err := database.Migrate(ctx, db, database.DialectSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	return &Repositories{
		Catalog:   sqlite.NewCatalogRepository(db),
		Sales:     sqlite.NewSalesRepository(db),
		Stores:    sqlite.NewStoreRepository(db),
		Customers: sqlite.NewCustomerRepository(db),
		DB:        database.SQLiteDB{DB: db},
	}, nil
}
