package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/posrelay/internal/catalog"
	"github.com/osse101/posrelay/internal/domain"
)

// CatalogRepository stores catalogs in the app_config table
type CatalogRepository struct {
	db *pgxpool.Pool
}

var _ catalog.Repository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new PostgreSQL catalog repository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Get loads the catalog stored under key
func (r *CatalogRepository) Get(ctx context.Context, key string) (*domain.CatalogRecord, error) {
	var (
		storeID *string
		value   string
		rec     = domain.CatalogRecord{Key: key}
	)
	err := r.db.QueryRow(ctx, `
		SELECT store_id, value, version, updated_at
		FROM app_config
		WHERE key = $1`, key).Scan(&storeID, &value, &rec.Version, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), &rec.Categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog %s: %w", key, err)
	}
	rec.StoreID = derefString(storeID)
	return &rec, nil
}

// Put writes the catalog, bumping the version. The optimistic check and the
// write happen in one statement.
func (r *CatalogRepository) Put(ctx context.Context, key, storeID string, categories domain.Catalog, expectedVersion *int64) (*domain.CatalogRecord, error) {
	value, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}

	now := time.Now().UTC()
	var row pgx.Row
	switch {
	case expectedVersion == nil:
		row = r.db.QueryRow(ctx, `
			INSERT INTO app_config (key, store_id, value, version, updated_at)
			VALUES ($1, $2, $3, 1, $4)
			ON CONFLICT (key) DO UPDATE
			SET store_id = EXCLUDED.store_id,
			    value = EXCLUDED.value,
			    version = app_config.version + 1,
			    updated_at = EXCLUDED.updated_at
			RETURNING version`, key, nullString(storeID), string(value), now)
	case *expectedVersion == 0:
		row = r.db.QueryRow(ctx, `
			INSERT INTO app_config (key, store_id, value, version, updated_at)
			VALUES ($1, $2, $3, 1, $4)
			ON CONFLICT (key) DO NOTHING
			RETURNING version`, key, nullString(storeID), string(value), now)
	default:
		row = r.db.QueryRow(ctx, `
			UPDATE app_config
			SET store_id = $2, value = $3, version = version + 1, updated_at = $4
			WHERE key = $1 AND version = $5
			RETURNING version`, key, nullString(storeID), string(value), now, *expectedVersion)
	}

	rec := &domain.CatalogRecord{Key: key, StoreID: storeID, Categories: categories, UpdatedAt: now}
	if err := row.Scan(&rec.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to put catalog %s: %w", key, err)
	}
	return rec, nil
}
