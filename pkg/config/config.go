// Package config loads spectools settings from a TOML file and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the config file,
// SPECTOOLS_* environment variables, command-line flags (applied by the CLI).
// A missing config file is not an error.
//
// Example config.toml:
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[catalog]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[radiative]
//	temperature = 300.0
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

const appName = "spectools"

// Defaults.
const (
	DefaultCacheBackend   = "file"
	DefaultCatalogBackend = "file"
	DefaultDatabase       = "spectools"
	DefaultTemperature    = 300.0
	DefaultServerAddr     = ":8080"
	DefaultServerTimeout  = Duration(30 * time.Second)
	DefaultCacheTTL       = Duration(30 * 24 * time.Hour)
)

// Config is the full spectools configuration.
type Config struct {
	Cache     CacheConfig     `toml:"cache"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Radiative RadiativeConfig `toml:"radiative"`
	SPCAT     SPCATConfig     `toml:"spcat"`
	Server    ServerConfig    `toml:"server"`
}

// CacheConfig selects the table cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // file | redis | none
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

// CatalogConfig selects the document store backend.
type CatalogConfig struct {
	Backend  string `toml:"backend"` // file | mongo
	Path     string `toml:"path"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// RadiativeConfig holds computation defaults.
type RadiativeConfig struct {
	Temperature float64 `toml:"temperature"`
}

// SPCATConfig names the external programs.
type SPCATConfig struct {
	SPCAT  string `toml:"spcat"`
	SPFIT  string `toml:"spfit"`
	Calbak string `toml:"calbak"`
}

// ServerConfig configures `spectools serve`.
type ServerConfig struct {
	Addr    string   `toml:"addr"`
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string ("30s", "720h") in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DefaultPath returns $XDG_CONFIG_HOME/spectools/config.toml, falling back
// to ~/.config/spectools/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns $XDG_CACHE_HOME/spectools, falling back to
// ~/.cache/spectools.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// DataDir returns $XDG_DATA_HOME/spectools, falling back to
// ~/.local/share/spectools.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// Load reads the config file at path (DefaultPath when empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "locate config file")
		}
		path = p
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes TOML text, then applies defaults and validates. Environment
// variables are not consulted.
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SPECTOOLS_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("SPECTOOLS_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("SPECTOOLS_CATALOG_BACKEND"); v != "" {
		c.Catalog.Backend = v
	}
	if v := os.Getenv("SPECTOOLS_MONGO_URI"); v != "" {
		c.Catalog.MongoURI = v
	}
	if v := os.Getenv("SPECTOOLS_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "SPECTOOLS_TEMPERATURE")
		}
		c.Radiative.Temperature = t
	}
	return nil
}

// Validate applies defaults to unset fields and rejects invalid values.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = DefaultCacheBackend
	case "file", "redis", "none":
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend: unknown backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "file" && c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	switch c.Catalog.Backend {
	case "":
		c.Catalog.Backend = DefaultCatalogBackend
	case "file", "mongo":
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "catalog.backend: unknown backend %q (must be one of: file, mongo)", c.Catalog.Backend)
	}
	if c.Catalog.Backend == "file" && c.Catalog.Path == "" {
		if dir, err := DataDir(); err == nil {
			c.Catalog.Path = filepath.Join(dir, "catalog.json")
		}
	}
	if c.Catalog.Backend == "mongo" && c.Catalog.MongoURI == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "catalog.mongo_uri is required for the mongo backend")
	}
	if c.Catalog.Database == "" {
		c.Catalog.Database = DefaultDatabase
	}

	if c.Radiative.Temperature == 0 {
		c.Radiative.Temperature = DefaultTemperature
	}
	if c.Radiative.Temperature < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "radiative.temperature must be positive, got %g", c.Radiative.Temperature)
	}

	if c.SPCAT.SPCAT == "" {
		c.SPCAT.SPCAT = "spcat"
	}
	if c.SPCAT.SPFIT == "" {
		c.SPCAT.SPFIT = "spfit"
	}
	if c.SPCAT.Calbak == "" {
		c.SPCAT.Calbak = "calbak"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = DefaultServerTimeout
	}
	return nil
}
