// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package config loads Masterpiece configuration.
//
// Values are layered with koanf: built-in defaults, then an optional YAML
// file (config.yaml, or the path in CONFIG_PATH), then environment
// variables. See envMappings for the supported variable names.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	State    StateConfig    `koanf:"state"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Related  RelatedConfig  `koanf:"related"`
	Feeds    FeedsConfig    `koanf:"feeds"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
	// DefaultLanguage is used when neither the request nor the session names one.
	DefaultLanguage string `koanf:"default_language"`
}

// CatalogConfig describes where catalog JSON lives.
type CatalogConfig struct {
	// DataDir holds <category>.json files and the music layout.
	DataDir string `koanf:"data_dir"`

	// TaxonomyPath overrides the embedded categories.yaml.
	TaxonomyPath string `koanf:"taxonomy_path"`

	// ReloadInterval re-reads the catalog periodically. Zero disables it.
	ReloadInterval time.Duration `koanf:"reload_interval"`

	Music MusicConfig `koanf:"music"`
}

// MusicConfig configures the chunked music loader.
type MusicConfig struct {
	// Source is "fs" (DataDir/<Dir>) or "http" (BaseURL).
	Source string `koanf:"source"`

	// Dir is the chunk directory below DataDir for the fs source.
	Dir string `koanf:"dir"`

	// BaseURL serves index.json, the chunks and the fallback file for the http source.
	BaseURL string `koanf:"base_url"`

	// IndexFile is the manifest name.
	IndexFile string `koanf:"index_file"`

	// FallbackFile is the monolithic dataset used when chunk loading fails.
	// It is resolved against the same source.
	FallbackFile string `koanf:"fallback_file"`

	// Concurrency bounds parallel chunk fetches.
	Concurrency int `koanf:"concurrency"`

	// MaxChunkBytes rejects oversized chunks and manifests.
	MaxChunkBytes int64 `koanf:"max_chunk_bytes"`

	// RequestsPerSecond limits the http source. Zero means unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Timeout applies to each http request.
	Timeout time.Duration `koanf:"timeout"`
}

// StateConfig configures per-session view state.
type StateConfig struct {
	// Store is "memory" or "badger".
	Store string `koanf:"store"`

	// Path is the badger directory.
	Path string `koanf:"path"`

	// Capacity bounds live stores kept in memory.
	Capacity int `koanf:"capacity"`

	// TTL purges sessions idle longer than this.
	TTL time.Duration `koanf:"ttl"`

	// CleanupInterval controls the expiry sweep.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// CookieSecure sets the Secure flag on the session cookie.
	CookieSecure bool `koanf:"cookie_secure"`
}

// APIConfig holds pagination limits.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds CORS, rate limiting and the admin token.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// AdminToken guards POST /api/v1/admin/reload. Empty disables the endpoint.
	AdminToken string `koanf:"admin_token"`
}

// RelatedConfig weights the similar-items scorer.
type RelatedConfig struct {
	SubcategoryWeight float64 `koanf:"subcategory_weight"`
	TagWeight         float64 `koanf:"tag_weight"`
	CreatorWeight     float64 `koanf:"creator_weight"`
	YearWeight        float64 `koanf:"year_weight"`
	MaxYearDifference int     `koanf:"max_year_difference"`
	Lambda            float64 `koanf:"lambda"`
	DefaultLimit      int     `koanf:"default_limit"`
}

// FeedsConfig configures podcast feed fetching.
type FeedsConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Timeout     time.Duration `koanf:"timeout"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	CacheSize   int           `koanf:"cache_size"`
	MaxEpisodes int           `koanf:"max_episodes"`
	MaxBytes    int64         `koanf:"max_bytes"`

	// RequestsPerSecond caps upstream feed fetches. Zero disables the limit.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads the layered configuration and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
