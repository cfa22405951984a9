// Package config loads the settings shared by the daybook binaries.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"daybook/internal/common/pagination"
	envconfig "daybook/pkg/config"
)

// Supported values of StoreConfig.Driver.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// DiaryConfig holds the browse, storage and cache settings of the diary.
// Values come from an optional YAML file and are then overridden by
// environment variables.
type DiaryConfig struct {
	Store  StoreConfig  `yaml:"store"`
	Browse BrowseConfig `yaml:"browse"`
	Cache  CacheConfig  `yaml:"cache"`
	HTTP   HTTPConfig   `yaml:"http"`
}

// StoreConfig selects the record store and search index backend.
type StoreConfig struct {
	// Driver is one of memory, sqlite or postgres. Default: sqlite
	Driver string `yaml:"driver"`
	// DSN is the database URL or SQLite file path. Default: daybook.db
	DSN string `yaml:"dsn"`
}

// BrowseConfig controls paging.
type BrowseConfig struct {
	// PageSize is the number of entries per page. Default: 10
	PageSize int `yaml:"page_size"`
	// MaxPageSize caps the limit query parameter. Default: 100
	MaxPageSize int `yaml:"max_page_size"`
	// Timezone is the IANA zone that month and date conditions are cut in.
	// Default: Asia/Tokyo
	Timezone string `yaml:"timezone"`
}

// CacheConfig configures the Redis read-through cache. An empty Addr
// disables caching.
type CacheConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxBodyBytes limits write request bodies. Default: 1 MiB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// DefaultDiaryConfig returns the settings used when nothing is configured.
func DefaultDiaryConfig() DiaryConfig {
	return DiaryConfig{
		Store: StoreConfig{
			Driver: StoreSQLite,
			DSN:    "daybook.db",
		},
		Browse: BrowseConfig{
			PageSize:    10,
			MaxPageSize: 100,
			Timezone:    "Asia/Tokyo",
		},
		Cache: CacheConfig{
			TTL: 30 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			RequestTimeout: 10 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
	}
}

// LoadDiaryConfig builds the configuration from defaults, the YAML file at
// path (skipped when path is empty) and the environment, in that order.
//
// Environment variables:
//   - DIARY_STORE, DATABASE_URL
//   - DIARY_PAGE_SIZE, DIARY_MAX_PAGE_SIZE, DIARY_TIMEZONE
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, DIARY_CACHE_TTL
//   - HTTP_ADDR, DIARY_REQUEST_TIMEOUT, DIARY_MAX_BODY_BYTES
func LoadDiaryConfig(path string) (*DiaryConfig, error) {
	cfg := DefaultDiaryConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read diary config: %w", err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse diary config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid diary configuration: %w", err)
	}
	return &cfg, nil
}

// decodeYAML rejects unknown keys so typos in the file surface at startup.
func decodeYAML(raw []byte, cfg *DiaryConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *DiaryConfig) applyEnv() {
	c.Store.Driver = envconfig.GetEnvString("DIARY_STORE", c.Store.Driver)
	c.Store.DSN = envconfig.GetEnvString("DATABASE_URL", c.Store.DSN)

	c.Browse.PageSize = envconfig.GetEnvInt("DIARY_PAGE_SIZE", c.Browse.PageSize)
	c.Browse.MaxPageSize = envconfig.GetEnvInt("DIARY_MAX_PAGE_SIZE", c.Browse.MaxPageSize)
	c.Browse.Timezone = envconfig.GetEnvString("DIARY_TIMEZONE", c.Browse.Timezone)

	c.Cache.Addr = envconfig.GetEnvString("REDIS_ADDR", c.Cache.Addr)
	c.Cache.Password = envconfig.GetEnvString("REDIS_PASSWORD", c.Cache.Password)
	c.Cache.DB = envconfig.GetEnvInt("REDIS_DB", c.Cache.DB)
	c.Cache.TTL = envconfig.GetEnvDuration("DIARY_CACHE_TTL", c.Cache.TTL)

	c.HTTP.Addr = envconfig.GetEnvString("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.RequestTimeout = envconfig.GetEnvDuration("DIARY_REQUEST_TIMEOUT", c.HTTP.RequestTimeout)
	c.HTTP.MaxBodyBytes = int64(envconfig.GetEnvInt("DIARY_MAX_BODY_BYTES", int(c.HTTP.MaxBodyBytes)))
}

// Validate checks configuration correctness.
func (c *DiaryConfig) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("DIARY_STORE must be one of memory, sqlite, postgres; got %q", c.Store.Driver)
	}
	if c.Store.Driver != StoreMemory && c.Store.DSN == "" {
		return fmt.Errorf("DATABASE_URL is required for the %s store", c.Store.Driver)
	}

	if c.Browse.MaxPageSize <= 0 || c.Browse.MaxPageSize > 1000 {
		return fmt.Errorf("DIARY_MAX_PAGE_SIZE must be between 1 and 1000")
	}
	if c.Browse.PageSize <= 0 || c.Browse.PageSize > c.Browse.MaxPageSize {
		return fmt.Errorf("DIARY_PAGE_SIZE must be between 1 and DIARY_MAX_PAGE_SIZE")
	}
	if _, err := time.LoadLocation(c.Browse.Timezone); err != nil {
		return fmt.Errorf("DIARY_TIMEZONE: %w", err)
	}

	if c.Cache.Addr != "" {
		if err := envconfig.ValidatePositiveDuration(c.Cache.TTL); err != nil {
			return fmt.Errorf("DIARY_CACHE_TTL: %w", err)
		}
	}
	if c.Cache.DB < 0 {
		return fmt.Errorf("REDIS_DB must not be negative")
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR cannot be empty")
	}
	if err := envconfig.ValidatePositiveDuration(c.HTTP.RequestTimeout); err != nil {
		return fmt.Errorf("DIARY_REQUEST_TIMEOUT: %w", err)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("DIARY_MAX_BODY_BYTES must be positive")
	}
	return nil
}

// Location returns the browse timezone. Validate has already checked it.
func (c *DiaryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Browse.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Pagination returns the paging limits derived from the browse settings.
func (c *DiaryConfig) Pagination() pagination.Config {
	return pagination.Config{
		DefaultLimit: c.Browse.PageSize,
		MaxLimit:     c.Browse.MaxPageSize,
	}
}

// CacheEnabled reports whether a Redis address is configured.
func (c *DiaryConfig) CacheEnabled() bool {
	return c.Cache.Addr != ""
}
