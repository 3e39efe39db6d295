// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

var (
	validLogLevels = map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	validLogFormats = map[string]bool{"json": true, "console": true}
	validLanguages  = map[string]bool{"es": true, "en": true}
	validStores     = map[string]bool{"memory": true, "badger": true}
	validSources    = map[string]bool{"fs": true, "http": true}
)

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateCatalog,
		c.validateState,
		c.validateAPI,
		c.validateSecurity,
		c.validateRelated,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validLanguages[c.Server.DefaultLanguage] {
		return fmt.Errorf("DEFAULT_LANGUAGE must be one of: es, en")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must not be negative")
	}
	m := c.Catalog.Music
	if !validSources[m.Source] {
		return fmt.Errorf("MUSIC_SOURCE must be one of: fs, http")
	}
	if m.Source == "http" {
		if m.BaseURL == "" {
			return fmt.Errorf("MUSIC_BASE_URL is required when MUSIC_SOURCE=http")
		}
		if err := validateBaseURL(m.BaseURL, "MUSIC_BASE_URL"); err != nil {
			return err
		}
	}
	if m.IndexFile == "" || m.FallbackFile == "" {
		return fmt.Errorf("MUSIC_INDEX_FILE and MUSIC_FALLBACK_FILE are required")
	}
	if m.Concurrency < 1 || m.Concurrency > 64 {
		return fmt.Errorf("MUSIC_CONCURRENCY must be between 1 and 64")
	}
	if m.MaxChunkBytes <= 0 {
		return fmt.Errorf("MUSIC_MAX_CHUNK_BYTES must be positive")
	}
	if m.RequestsPerSecond < 0 {
		return fmt.Errorf("MUSIC_REQUESTS_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) validateState() error {
	if !validStores[c.State.Store] {
		return fmt.Errorf("STATE_STORE must be one of: memory, badger")
	}
	if c.State.Store == "badger" && c.State.Path == "" {
		return fmt.Errorf("STATE_PATH is required when STATE_STORE=badger")
	}
	if c.State.Capacity < 1 {
		return fmt.Errorf("STATE_CAPACITY must be at least 1")
	}
	if c.State.TTL <= 0 {
		return fmt.Errorf("STATE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be >= API_DEFAULT_PAGE_SIZE")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateRelated() error {
	r := c.Related
	if r.SubcategoryWeight < 0 || r.TagWeight < 0 || r.CreatorWeight < 0 || r.YearWeight < 0 {
		return fmt.Errorf("related weights must not be negative")
	}
	if r.Lambda < 0 || r.Lambda > 1 {
		return fmt.Errorf("RELATED_LAMBDA must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateBaseURL accepts http(s) URLs with a host and an optional path.
func validateBaseURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, u.RawQuery)
	}
	return nil
}
