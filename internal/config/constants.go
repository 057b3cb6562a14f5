package config

import "time"

// Environment variable names
const (
	EnvPort               = "PORT"
	EnvPublicURL          = "PUBLIC_URL"
	EnvEnvironment        = "ENVIRONMENT"
	EnvServiceName        = "SERVICE_NAME"
	EnvVersion            = "VERSION"
	EnvCORSOrigins        = "CORS_ORIGINS"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
	EnvLogDir             = "LOG_DIR"
	EnvDatabaseURL        = "DATABASE_URL"
	EnvSQLitePath         = "SQLITE_PATH"
	EnvMasterHash         = "MASTER_HASH"
	EnvAdminHash          = "ADMIN_HASH"
	EnvTokenSecret        = "TOKEN_SECRET"
	EnvTokenTTL           = "TOKEN_TTL"
	EnvSeedDefaultCatalog = "SEED_DEFAULT_CATALOG"
	EnvDefaultStoreID     = "DEFAULT_STORE_ID"
	EnvDefaultStoreName   = "DEFAULT_STORE_NAME"
	EnvCatalogCacheTTL    = "CATALOG_CACHE_TTL"
	EnvCatalogCacheSize   = "CATALOG_CACHE_SIZE"
	EnvDeadLetterPath     = "DEAD_LETTER_PATH"
)

// Defaults
const (
	DefaultPort             = 3001
	DefaultEnvironment      = "dev"
	DefaultServiceName      = "posrelay"
	DefaultVersion          = "dev"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultSQLitePath       = "pos.db"
	DefaultTokenTTL         = 12 * time.Hour
	DefaultStoreID          = "default"
	DefaultStoreName        = "Principal"
	DefaultCatalogCacheTTL  = 30 * time.Second
	DefaultCatalogCacheSize = 128

	GeneratedSecretBytes = 32
	SHA256HexLength      = 64
)
