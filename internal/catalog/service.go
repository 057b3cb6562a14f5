package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"

	"github.com/osse101/posrelay/internal/concurrency"
	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/event"
	"github.com/osse101/posrelay/internal/logger"
	"github.com/osse101/posrelay/internal/metrics"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// VersionConflictError reports the version actually stored when an
// optimistic write loses. It unwraps to domain.ErrVersionConflict.
type VersionConflictError struct {
	Expected int64
	Current  int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: expected version %d, current version %d", domain.ErrMsgVersionConflict, e.Expected, e.Current)
}

func (e *VersionConflictError) Unwrap() error {
	return domain.ErrVersionConflict
}

// Service reads and writes catalogs and announces committed writes on the bus.
// Writes and cache fills of one key are serialized, so announcements leave in
// version order and a slow read never caches a superseded record.
type Service struct {
	repo  Repository
	bus   event.Bus
	cache *expirable.LRU[string, domain.CatalogRecord]
	locks *concurrency.KeyedMutex
}

// NewService creates a catalog service with a read cache of the given size and TTL
func NewService(repo Repository, bus event.Bus, cacheSize int, cacheTTL time.Duration) *Service {
	return &Service{
		repo:  repo,
		bus:   bus,
		cache: expirable.NewLRU[string, domain.CatalogRecord](cacheSize, nil, cacheTTL),
		locks: concurrency.NewKeyedMutex(),
	}
}

// Get returns the catalog for storeID ("" for the global one).
// A store without its own catalog gets an empty catalog and never inherits
// the global one; a missing global catalog has nil categories. Both report version 0.
func (s *Service) Get(ctx context.Context, storeID string) (*domain.CatalogRecord, error) {
	key := domain.CatalogKey(storeID)

	if rec, ok := s.cache.Get(key); ok {
		metrics.CatalogCacheLookups.WithLabelValues(metrics.ResultHit).Inc()
		return &rec, nil
	}
	metrics.CatalogCacheLookups.WithLabelValues(metrics.ResultMiss).Inc()

	unlock := s.locks.Lock(key)
	defer unlock()
	if rec, ok := s.cache.Get(key); ok {
		return &rec, nil
	}

	rec, err := s.repo.Get(ctx, key)
	if errors.Is(err, domain.ErrCatalogNotFound) {
		empty := domain.CatalogRecord{Key: key, StoreID: storeID}
		if storeID != "" {
			empty.Categories = domain.Catalog{}
		}
		return &empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}

	s.cache.Add(key, *rec)
	return rec, nil
}

// Save validates and persists a catalog, then publishes catalog.updated.
// baseVersion is the version the writer last observed; nil skips the check.
// The event is only published after the write commits.
func (s *Service) Save(ctx context.Context, storeID string, categories domain.Catalog, baseVersion *int64, source string) (*domain.CatalogRecord, error) {
	log := logger.FromContext(ctx)

	if categories == nil {
		return nil, fmt.Errorf("%w: categories required", domain.ErrInvalidCatalog)
	}
	if err := categories.Validate(); err != nil {
		return nil, err
	}

	key := domain.CatalogKey(storeID)
	unlock := s.locks.Lock(key)
	defer unlock()

	rec, err := s.repo.Put(ctx, key, storeID, categories, baseVersion)
	s.cache.Remove(key)

	if errors.Is(err, domain.ErrVersionConflict) {
		metrics.CatalogConflicts.Inc()
		conflict := &VersionConflictError{Expected: *baseVersion}
		if current, getErr := s.repo.Get(ctx, key); getErr == nil {
			conflict.Current = current.Version
		}
		log.Warn(LogMsgVersionConflict, "key", key, "expected", conflict.Expected, "current", conflict.Current)
		return nil, conflict
	}
	if err != nil {
		log.Error(LogMsgSaveFailed, "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}

	log.Info(LogMsgCatalogSaved, "key", key, "version", rec.Version, "categories", len(categories), "source", source)

	if err := s.bus.Publish(ctx, event.NewCatalogUpdatedEvent(rec, source)); err != nil {
		log.Error(LogMsgPublishFailed, "key", key, "error", err)
	}

	return rec, nil
}

// CurrentVersion returns the stored version for storeID, 0 when absent
func (s *Service) CurrentVersion(ctx context.Context, storeID string) int64 {
	rec, err := s.Get(ctx, storeID)
	if err != nil {
		return 0
	}
	return rec.Version
}

// SeedDefault writes the bundled catalog as the global catalog if none exists yet.
// It reports whether a catalog was written.
func (s *Service) SeedDefault(ctx context.Context) (bool, error) {
	categories, err := DefaultCatalog()
	if err != nil {
		return false, err
	}

	notExists := int64(0)
	_, err = s.Save(ctx, "", categories, &notExists, event.SourceSeed)
	if errors.Is(err, domain.ErrVersionConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DefaultCatalog parses the bundled default catalog
func DefaultCatalog() (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(defaultCatalogYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse default catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
