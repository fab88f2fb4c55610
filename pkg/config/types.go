package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent zakops configuration stored as config.toml
// in the .zakops/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Backend BackendConfig `toml:"backend"`
	Search  SearchConfig  `toml:"search"`
	Stub    StubConfig    `toml:"stub"`
}

// BackendConfig holds settings for the remote deal service every command
// talks to.
type BackendConfig struct {
	// URL is the deal-service base URL (scheme + host + port).
	URL string `toml:"url,omitempty"`

	// APIKey is sent as a bearer token when non-empty.
	APIKey string `toml:"api_key,omitempty"`

	// TimeoutSeconds bounds non-streaming requests.
	TimeoutSeconds uint `toml:"timeout_seconds,omitempty"`
}

// SearchConfig holds settings for the client-side search cache.
type SearchConfig struct {
	// CacheTTLSeconds is how long search results stay fresh.
	CacheTTLSeconds uint `toml:"cache_ttl_seconds,omitempty"`
}

// StubConfig holds settings for the local stub deal service
// ("zakops serve").
type StubConfig struct {
	Listen   string `toml:"listen,omitempty"`
	Fixtures string `toml:"fixtures,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"backend.url": {
		get: func(c *Config) string { return c.Backend.URL },
		set: func(c *Config, v string) error { c.Backend.URL = v; return nil },
	},
	"backend.api_key": {
		get: func(c *Config) string { return c.Backend.APIKey },
		set: func(c *Config, v string) error { c.Backend.APIKey = v; return nil },
	},
	"backend.timeout_seconds": {
		get: func(c *Config) string {
			if c.Backend.TimeoutSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Backend.TimeoutSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for backend.timeout_seconds: %w", err)
			}
			c.Backend.TimeoutSeconds = uint(n)
			return nil
		},
	},
	"search.cache_ttl_seconds": {
		get: func(c *Config) string {
			if c.Search.CacheTTLSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Search.CacheTTLSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for search.cache_ttl_seconds: %w", err)
			}
			c.Search.CacheTTLSeconds = uint(n)
			return nil
		},
	},
	"stub.listen": {
		get: func(c *Config) string { return c.Stub.Listen },
		set: func(c *Config, v string) error { c.Stub.Listen = v; return nil },
	},
	"stub.fixtures": {
		get: func(c *Config) string { return c.Stub.Fixtures },
		set: func(c *Config, v string) error { c.Stub.Fixtures = v; return nil },
	},
}
