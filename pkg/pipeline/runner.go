package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spectools/pkg/cache"
	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/observability"
	"github.com/matzehuels/spectools/pkg/table"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored tables; zero means cache.TTLTable.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// EinsteinWithCacheInfo computes the Einstein table for .str content and
// reports whether it came from the cache. source is recorded on the table
// and in hook events.
func (r *Runner) EinsteinWithCacheInfo(ctx context.Context, source string, data []byte, opts Options) (*table.Table, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForEinstein(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.TableKey(KindEinstein, cache.Hash(data), cache.TableKeyOpts{})
	var t *table.Table
	hit := r.lookup(ctx, KindEinstein, key, opts, &t)
	if !hit {
		var err error
		t, err = r.computeEinstein(ctx, source, data)
		if err != nil {
			return nil, false, err
		}
		r.store(ctx, KindEinstein, key, t)
	}

	t.Source = source
	t.RunID = uuid.NewString()
	opts.Logger.Debug("einstein table ready", "source", source, "rows", len(t.Rows), "cached", hit)
	return t, hit, nil
}

// Einstein reads the .str file at path and computes its table with caching.
func (r *Runner) Einstein(ctx context.Context, path string, opts Options) (*table.Table, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	t, _, err := r.EinsteinWithCacheInfo(ctx, path, data, opts)
	return t, err
}

// EinsteinMany computes the tables for several .str files concurrently,
// at most GOMAXPROCS at a time. Results are in input order. The first error
// cancels the remaining files and is returned.
func (r *Runner) EinsteinMany(ctx context.Context, paths []string, opts Options) ([]*table.Table, error) {
	out := make([]*table.Table, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := r.Einstein(ctx, path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LineStrengthWithCacheInfo computes the linestrength table for .cat
// content and reports whether it came from the cache.
func (r *Runner) LineStrengthWithCacheInfo(ctx context.Context, source string, data []byte, opts Options) (*table.LineStrengthTable, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLineStrength(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.TableKey(KindLineStrength, cache.Hash(data), cache.TableKeyOpts{Q: opts.Q, Temperature: opts.Temperature})
	var t *table.LineStrengthTable
	hit := r.lookup(ctx, KindLineStrength, key, opts, &t)
	if !hit {
		var err error
		t, err = r.computeLineStrength(ctx, source, data, opts)
		if err != nil {
			return nil, false, err
		}
		r.store(ctx, KindLineStrength, key, t)
	}

	t.Source = source
	t.RunID = uuid.NewString()
	opts.Logger.Debug("linestrength table ready", "source", source, "rows", len(t.Rows), "q", opts.Q, "t", opts.Temperature, "cached", hit)
	return t, hit, nil
}

// LineStrength reads the .cat file at path and computes its table with caching.
func (r *Runner) LineStrength(ctx context.Context, path string, opts Options) (*table.LineStrengthTable, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	t, _, err := r.LineStrengthWithCacheInfo(ctx, path, data, opts)
	return t, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) computeEinstein(ctx context.Context, source string, data []byte) (*table.Table, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, KindEinstein, source)
	start := time.Now()
	t, err := ReadEinstein(bytes.NewReader(data))
	rows := 0
	if t != nil {
		rows = len(t.Rows)
	}
	hooks.OnParseComplete(ctx, KindEinstein, source, rows, time.Since(start), err)
	hooks.OnComputeComplete(ctx, KindEinstein, rows, time.Since(start), err)
	return t, err
}

func (r *Runner) computeLineStrength(ctx context.Context, source string, data []byte, opts Options) (*table.LineStrengthTable, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, KindLineStrength, source)
	start := time.Now()
	t, err := ReadLineStrength(bytes.NewReader(data), opts.Q, opts.Temperature)
	rows := 0
	if t != nil {
		rows = len(t.Rows)
	}
	hooks.OnParseComplete(ctx, KindLineStrength, source, rows, time.Since(start), err)
	hooks.OnComputeComplete(ctx, KindLineStrength, rows, time.Since(start), err)
	return t, err
}

// lookup decodes a cached table into dst. A decode failure counts as a miss.
func (r *Runner) lookup(ctx context.Context, kind, key string, opts Options, dst any) bool {
	if opts.Refresh {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "kind", kind, "error", err)
	}
	if err != nil || !hit || json.Unmarshal(data, dst) != nil {
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return true
}

func (r *Runner) store(ctx context.Context, kind, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLTable
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "read %s", path)
	}
	return data, nil
}
