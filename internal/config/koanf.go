// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/masterpiece/config.yaml",
	"/etc/masterpiece/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// Defaults returns the built-in configuration without reading any file or
// environment variable.
func Defaults() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			Environment:     "development",
			DefaultLanguage: "es",
		},
		Catalog: CatalogConfig{
			DataDir:        "./data",
			TaxonomyPath:   "",
			ReloadInterval: 0,
			Music: MusicConfig{
				Source:            "fs",
				Dir:               "music",
				BaseURL:           "",
				IndexFile:         "index.json",
				FallbackFile:      "music.json",
				Concurrency:       4,
				MaxChunkBytes:     8 << 20,
				RequestsPerSecond: 0,
				Timeout:           15 * time.Second,
			},
		},
		State: StateConfig{
			Store:           "memory",
			Path:            "/data/state",
			Capacity:        1000,
			TTL:             30 * 24 * time.Hour,
			CleanupInterval: time.Hour,
			CookieSecure:    false,
		},
		API: APIConfig{
			DefaultPageSize: 60,
			MaxPageSize:     500,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			AdminToken:        "",
		},
		Related: RelatedConfig{
			SubcategoryWeight: 0.3,
			TagWeight:         0.4,
			CreatorWeight:     0.2,
			YearWeight:        0.1,
			MaxYearDifference: 25,
			Lambda:            0.7,
			DefaultLimit:      8,
		},
		Feeds: FeedsConfig{
			Enabled:           true,
			Timeout:           10 * time.Second,
			CacheTTL:          30 * time.Minute,
			CacheSize:         256,
			MaxEpisodes:       10,
			MaxBytes:          5 << 20,
			RequestsPerSecond: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads defaults, then the config file, then environment
// variables, and validates the result.
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings (env vars).
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			continue
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names to koanf paths.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"environment":      "server.environment",
	"default_language": "server.default_language",

	"data_dir":                "catalog.data_dir",
	"taxonomy_path":           "catalog.taxonomy_path",
	"catalog_reload_interval": "catalog.reload_interval",

	"music_source":              "catalog.music.source",
	"music_dir":                 "catalog.music.dir",
	"music_base_url":            "catalog.music.base_url",
	"music_index_file":          "catalog.music.index_file",
	"music_fallback_file":       "catalog.music.fallback_file",
	"music_concurrency":         "catalog.music.concurrency",
	"music_max_chunk_bytes":     "catalog.music.max_chunk_bytes",
	"music_requests_per_second": "catalog.music.requests_per_second",
	"music_timeout":             "catalog.music.timeout",

	"state_store":            "state.store",
	"state_path":             "state.path",
	"state_capacity":         "state.capacity",
	"state_ttl":              "state.ttl",
	"state_cleanup_interval": "state.cleanup_interval",
	"cookie_secure":          "state.cookie_secure",

	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"admin_token":         "security.admin_token",

	"related_lambda":        "related.lambda",
	"related_default_limit": "related.default_limit",

	"feeds_enabled":      "feeds.enabled",
	"feeds_timeout":      "feeds.timeout",
	"feeds_cache_ttl":    "feeds.cache_ttl",
	"feeds_max_episodes": "feeds.max_episodes",
	"feeds_max_bytes":    "feeds.max_bytes",
	"feeds_rps":          "feeds.requests_per_second",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns "" for variables that are not configuration, which
// makes koanf skip them.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
