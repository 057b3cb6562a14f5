package catalog

import (
	"context"

	"github.com/osse101/posrelay/internal/domain"
)

// Repository persists catalogs as versioned JSON blobs keyed by catalog key
type Repository interface {
	// Get returns domain.ErrCatalogNotFound when the key has never been written.
	Get(ctx context.Context, key string) (*domain.CatalogRecord, error)

	// Put upserts the catalog and bumps its version.
	// A nil expectedVersion writes unconditionally. Otherwise the write only
	// happens when the stored version equals *expectedVersion (0 meaning the
	// key must not exist yet), and domain.ErrVersionConflict is returned if not.
	Put(ctx context.Context, key, storeID string, categories domain.Catalog, expectedVersion *int64) (*domain.CatalogRecord, error)
}
