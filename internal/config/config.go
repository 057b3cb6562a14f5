package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	PublicURL   string
	Environment string
	ServiceName string
	Version     string
	CORSOrigins []string

	LogLevel  string
	LogFormat string
	LogDir    string

	// Persistence. An empty DatabaseURL selects the SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// Login reference hashes (SHA-256 hex of the operator passwords)
	MasterHash string
	AdminHash  string

	TokenSecret          string
	TokenSecretGenerated bool
	TokenTTL             time.Duration

	SeedDefaultCatalog bool
	DefaultStoreID     string
	DefaultStoreName   string
	CatalogCacheTTL    time.Duration
	CatalogCacheSize   int

	// Optional JSONL file receiving tickets that failed to persist during a bulk sync
	DeadLetterPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		PublicURL:          getEnv(EnvPublicURL, ""),
		Environment:        getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName:        getEnv(EnvServiceName, DefaultServiceName),
		Version:            getEnv(EnvVersion, DefaultVersion),
		CORSOrigins:        splitList(getEnv(EnvCORSOrigins, "*")),
		LogLevel:           strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		LogFormat:          strings.ToLower(getEnv(EnvLogFormat, DefaultLogFormat)),
		LogDir:             getEnv(EnvLogDir, ""),
		DatabaseURL:        getEnv(EnvDatabaseURL, ""),
		SQLitePath:         getEnv(EnvSQLitePath, DefaultSQLitePath),
		MasterHash:         strings.ToLower(strings.TrimSpace(getEnv(EnvMasterHash, ""))),
		AdminHash:          strings.ToLower(strings.TrimSpace(getEnv(EnvAdminHash, ""))),
		TokenSecret:        getEnv(EnvTokenSecret, ""),
		TokenTTL:           getEnvAsDuration(EnvTokenTTL, DefaultTokenTTL),
		SeedDefaultCatalog: getEnvAsBool(EnvSeedDefaultCatalog, false),
		DefaultStoreID:     getEnv(EnvDefaultStoreID, DefaultStoreID),
		DefaultStoreName:   getEnv(EnvDefaultStoreName, DefaultStoreName),
		CatalogCacheTTL:    getEnvAsDuration(EnvCatalogCacheTTL, DefaultCatalogCacheTTL),
		CatalogCacheSize:   getEnvAsInt(EnvCatalogCacheSize, DefaultCatalogCacheSize),
		DeadLetterPath:     getEnv(EnvDeadLetterPath, ""),
	}

	portStr := getEnv(EnvPort, strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.TokenSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
		cfg.TokenSecret = secret
		cfg.TokenSecretGenerated = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UsesPostgres reports whether DATABASE_URL selects the postgres backend
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// IsDevelopment reports whether the environment is a local one
func (c *Config) IsDevelopment() bool {
	return c.Environment == DefaultEnvironment || c.Environment == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func randomSecret() (string, error) {
	b := make([]byte, GeneratedSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
