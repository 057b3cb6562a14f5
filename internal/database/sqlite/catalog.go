// Package sqlite implements the repositories on a single SQLite file for
// standalone installs without PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/posrelay/internal/catalog"
	"github.com/osse101/posrelay/internal/domain"
)

// CatalogRepository stores catalogs in the app_config table
type CatalogRepository struct {
	db *sql.DB
}

var _ catalog.Repository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new SQLite catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Get loads the catalog stored under key
func (r *CatalogRepository) Get(ctx context.Context, key string) (*domain.CatalogRecord, error) {
	var (
		storeID sql.NullString
		value   string
		rec     = domain.CatalogRecord{Key: key}
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT store_id, value, version, updated_at
		FROM app_config
		WHERE key = ?`, key).Scan(&storeID, &value, &rec.Version, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), &rec.Categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog %s: %w", key, err)
	}
	rec.StoreID = storeID.String
	return &rec, nil
}

// Put writes the catalog, bumping the version
func (r *CatalogRepository) Put(ctx context.Context, key, storeID string, categories domain.Catalog, expectedVersion *int64) (*domain.CatalogRecord, error) {
	value, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}

	now := time.Now().UTC()
	store := sql.NullString{String: storeID, Valid: storeID != ""}
	var row *sql.Row
	switch {
	case expectedVersion == nil:
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO app_config (key, store_id, value, version, updated_at)
			VALUES (?, ?, ?, 1, ?)
			ON CONFLICT (key) DO UPDATE
			SET store_id = excluded.store_id,
			    value = excluded.value,
			    version = app_config.version + 1,
			    updated_at = excluded.updated_at
			RETURNING version`, key, store, string(value), now)
	case *expectedVersion == 0:
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO app_config (key, store_id, value, version, updated_at)
			VALUES (?, ?, ?, 1, ?)
			ON CONFLICT (key) DO NOTHING
			RETURNING version`, key, store, string(value), now)
	default:
		row = r.db.QueryRowContext(ctx, `
			UPDATE app_config
			SET store_id = ?, value = ?, version = version + 1, updated_at = ?
			WHERE key = ? AND version = ?
			RETURNING version`, store, string(value), now, key, *expectedVersion)
	}

	rec := &domain.CatalogRecord{Key: key, StoreID: storeID, Categories: categories, UpdatedAt: now}
	if err := row.Scan(&rec.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to put catalog %s: %w", key, err)
	}
	return rec, nil
}
