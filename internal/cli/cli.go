// Package cli implements the spectools command-line interface.
//
// Commands are methods on [CLI], which carries the logger and the loaded
// configuration. Loggers are also attached to the command context so helpers
// can reach them through loggerFromContext.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spectools/pkg/buildinfo"
	"github.com/matzehuels/spectools/pkg/cache"
	"github.com/matzehuels/spectools/pkg/catalog"
	"github.com/matzehuels/spectools/pkg/config"
	"github.com/matzehuels/spectools/pkg/pipeline"
	"github.com/matzehuels/spectools/pkg/spcat"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "spectools"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Spectools computes radiative quantities from SPCAT output",
		Long: `Spectools turns SPCAT output into radiative quantities: Einstein A
coefficients from .str files, linestrengths from .cat files, and rotational
partition functions. It also keeps a catalog of assigned lines and molecules,
drives the SPCAT/SPFIT programs, and serves the computations over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spectools/config.toml)")

	root.AddCommand(c.einsteinCommand())
	root.AddCommand(c.linestrengthCommand())
	root.AddCommand(c.partitionCommand())
	root.AddCommand(c.energyCommand())
	root.AddCommand(c.spcatCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.moleculeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if c.Config != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "cache", cfg.Cache.Backend, "catalog", cfg.Catalog.Backend)
	return nil
}

// cfg returns the loaded configuration, falling back to defaults when a
// command runs without the root pre-run (tests).
func (c *CLI) cfg() *config.Config {
	if c.Config == nil {
		cfg := &config.Config{}
		_ = cfg.Validate()
		c.Config = cfg
	}
	return c.Config
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = c.cfg().Cache.TTL.Std()
	return r, nil
}

// newCache opens the configured cache. A file cache that cannot be created
// degrades to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.cfg().Cache
	if noCache || cfg.Backend == cache.BackendNone {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, cache.Options{
		Backend:   cfg.Backend,
		Dir:       cfg.Dir,
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
	})
	if err != nil {
		if cfg.Backend == cache.BackendFile {
			c.Logger.Warn("caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return ch, nil
}

// openCatalog connects to the configured catalog backend.
func (c *CLI) openCatalog(ctx context.Context) (*catalog.DB, error) {
	cfg := c.cfg().Catalog
	return catalog.Open(ctx, catalog.Options{
		Backend:  cfg.Backend,
		Path:     cfg.Path,
		MongoURI: cfg.MongoURI,
		Database: cfg.Database,
	}, c.Logger)
}

// newSPCATRunner creates a runner for the external programs with the
// configured binary names.
func (c *CLI) newSPCATRunner() *spcat.Runner {
	cfg := c.cfg().SPCAT
	r := spcat.NewRunner(nil, c.Logger)
	r.SPCAT, r.SPFIT, r.Calbak = cfg.SPCAT, cfg.SPFIT, cfg.Calbak
	return r
}
