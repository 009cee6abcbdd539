// Package cli implements the eventline command-line interface.
//
// # Commands
//
//   - layout: print the packed timeline of a snapshot
//   - render: write SVG, PNG, PDF, JSON or dependency graph output
//   - resolve: list tasks with their resolved dates
//   - deps: show what a task depends on and what depends on it
//   - related: show which tasks stay highlighted when one is selected
//   - validate: check a snapshot file
//   - convert: translate between JSON, YAML, TOML and CSV
//   - browse: explore the timeline interactively in the terminal
//   - serve: expose a snapshot over HTTP
//   - cache: manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Settings come
// from the config file (see [config.DefaultPath]) and are overridden by flags.
//
// [config.DefaultPath]: github.com/matzehuels/eventline/pkg/config.DefaultPath
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventline/pkg/buildinfo"
	"github.com/matzehuels/eventline/pkg/cache"
	"github.com/matzehuels/eventline/pkg/config"
	"github.com/matzehuels/eventline/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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
	Config config.Config

	configPath string
	noCache    bool
	trace      bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Eventline lays out event plans on a zoomable timeline",
		Long:         `Eventline places the tasks of an event plan on a date axis, stacks overlapping labels into rows, and draws the dependencies between them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the layout cache")
	root.PersistentFlags().BoolVar(&c.trace, "trace", false, "log pipeline spans at debug level")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.relatedCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies the global flags on top.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.noCache {
		cfg.NoCache = true
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache_dir", cfg.CacheDir, "redis", cfg.RedisAddr)

	if c.trace {
		c.enableTracing()
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cache, nil, c.Logger)
	r.TTL = c.Config.CacheTTL.Duration
	return r, nil
}

// newCache picks the cache backend: none, Redis when an address is
// configured, or the file cache. An unreachable Redis falls back to the file
// cache with a warning.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.Config.NoCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisAddr != "" {
		rc, err := cache.DialRedis(ctx, c.Config.RedisAddr, appName+":")
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", c.Config.RedisAddr, "error", err)
	}
	dir := c.Config.CacheDir
	if dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// default (~/.cache/eventline/).
func (c *CLI) cacheDir() string {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir
	}
	return config.DefaultCacheDir()
}
