// Package cli implements the colgrid command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/buildinfo"
	"github.com/matzehuels/colgrid/pkg/cache"
	"github.com/matzehuels/colgrid/pkg/observability/prom"
	"github.com/matzehuels/colgrid/pkg/pipeline"
)

const (
	// appName is the application name used for directories and display.
	appName = "colgrid"

	// redisKeyPrefix scopes every key colgrid writes to a shared Redis.
	redisKeyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flags, bound in RootCommand.
	noCache    bool
	redisAddr  string
	metricsOut string

	metrics *prom.Metrics
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
		Short: "colgrid computes grid column layouts",
		Long: `colgrid sizes the columns of a data grid: pixel, auto, content and
star widths under min/max constraints, interactive resizing, and horizontal
virtualization of the visible columns.

Layouts are described by TOML scenario files (see 'colgrid init').`,
		Version:            buildinfo.Version,
		SilenceUsage:       true,
		PersistentPreRunE:  c.preRun,
		PersistentPostRunE: c.postRun,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable result caching")
	root.PersistentFlags().StringVar(&c.redisAddr, "redis-addr", os.Getenv("COLGRID_REDIS_ADDR"), "cache results in Redis at host:port instead of on disk")
	root.PersistentFlags().StringVar(&c.metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile on exit")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	if c.redisAddr != "" && !c.noCache {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.redisAddr})
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", c.redisAddr)
		return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, redisKeyPrefix), c.Logger), nil
	}
	fc, err := newCache(c.noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/colgrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
