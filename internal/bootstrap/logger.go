package bootstrap

import (
	"io"
	"log/slog"

	"github.com/osse101/posrelay/internal/config"
	"github.com/osse101/posrelay/internal/logger"
)

// SetupLogger initializes the process-wide slog logger from the application config.
// When LogDir is set, output is mirrored to a rotated file; the returned closer
// flushes that file and must be closed by the caller.
func SetupLogger(cfg *config.Config) io.Closer {
	closer := logger.InitLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
		AddSource:   cfg.IsDevelopment(),
		Dir:         cfg.LogDir,
	})

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat, "dir", cfg.LogDir)
	slog.Info(LogMsgStartingServer,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"port", cfg.Port)

	backend := "sqlite"
	if cfg.UsesPostgres() {
		backend = "postgres"
	}
	slog.Debug(LogMsgConfigurationLoaded,
		"backend", backend,
		"sqlite_path", cfg.SQLitePath,
		"seed_default_catalog", cfg.SeedDefaultCatalog,
		"default_store", cfg.DefaultStoreID,
		"catalog_cache_ttl", cfg.CatalogCacheTTL,
		"token_ttl", cfg.TokenTTL,
		"cors_origins", cfg.CORSOrigins)

	for _, w := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "detail", w)
	}

	return closer
}
