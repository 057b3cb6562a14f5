package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/posrelay/internal/catalog"
	"github.com/osse101/posrelay/internal/config"
	"github.com/osse101/posrelay/internal/stores"
)

// SeedDefaults writes the bundled global catalog when SEED_DEFAULT_CATALOG is set
// and none exists yet, and creates the default store when the store table is empty.
func SeedDefaults(ctx context.Context, cfg *config.Config, catalogSvc *catalog.Service, storeSvc *stores.Service) error {
	if cfg.SeedDefaultCatalog {
		seeded, err := catalogSvc.SeedDefault(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedSeedCatalog, err)
		}
		if seeded {
			slog.Info(LogMsgDefaultCatalogSeeded)
		} else {
			slog.Info(LogMsgDefaultCatalogPresent)
		}
	}

	if _, err := storeSvc.EnsureDefault(ctx, cfg.DefaultStoreID, cfg.DefaultStoreName); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSeedStore, err)
	}
	return nil
}
