// Package cache stores computed tables keyed by input content.
//
// A table is a pure function of the input file bytes and the computation
// options (temperature, partition function), so the key is a hash of both.
// Backends:
//
//   - [FileCache]: one JSON file per entry, used by the CLI by default
//   - [RedisCache]: shared cache for the API server
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLTable is the lifetime of a cached table.
const TTLTable = 30 * 24 * time.Hour

// TableKeyOpts are the computation options that change a table's content.
type TableKeyOpts struct {
	Q           float64 `json:"q,omitempty"`
	Temperature float64 `json:"t,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// TableKey returns the key for a table of the given kind computed from
	// input whose content hash is contentHash.
	TableKey(kind, contentHash string, opts TableKeyOpts) string
}

// DefaultKeyer produces keys of the form "table:<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TableKey implements Keyer.
func (DefaultKeyer) TableKey(kind, contentHash string, opts TableKeyOpts) string {
	return hashKey("table:"+kind, contentHash, opts)
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options select and configure a backend for [Open].
type Options struct {
	Backend       string
	Dir           string // file backend
	RedisAddr     string // redis backend
	RedisDB       int
	RedisPassword string
}

// Open creates the cache described by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendFile, "":
		if opts.Dir == "" {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "file cache requires a directory")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "open file cache")
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			DB:       opts.RedisDB,
			Password: opts.RedisPassword,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, none)", opts.Backend)
}
