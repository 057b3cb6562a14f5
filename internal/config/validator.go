package config

import (
	"encoding/hex"
	"fmt"
	"strings"
)

var validLogFormats = map[string]bool{"json": true, "text": true}

// Validate rejects values the server cannot start with
func (c *Config) Validate() error {
	var problems []string

	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if !validLogFormats[c.LogFormat] {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	for name, h := range map[string]string{EnvMasterHash: c.MasterHash, EnvAdminHash: c.AdminHash} {
		if h != "" && !isSHA256Hex(h) {
			problems = append(problems, name+" must be a 64 character SHA-256 hex digest")
		}
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}
	if c.CatalogCacheSize <= 0 {
		problems = append(problems, "CATALOG_CACHE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Warnings lists settings that work but are probably not what the operator wants
func (c *Config) Warnings() []string {
	var warnings []string

	if c.MasterHash == "" && c.AdminHash == "" {
		warnings = append(warnings, "MASTER_HASH and ADMIN_HASH are empty - nobody can log in; run `posctl set-auth`")
	}
	if c.MasterHash != "" && c.MasterHash == c.AdminHash {
		warnings = append(warnings, "MASTER_HASH equals ADMIN_HASH - every login resolves to master")
	}
	if c.TokenSecretGenerated {
		warnings = append(warnings, "TOKEN_SECRET not set - using a random secret, issued tokens stop working after restart")
	}
	if !c.UsesPostgres() {
		warnings = append(warnings, fmt.Sprintf("DATABASE_URL not set - using SQLite at %s", c.SQLitePath))
	}

	return warnings
}

func isSHA256Hex(s string) bool {
	if len(s) != SHA256HexLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
