package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/necklace/pkg/buildinfo"
	"github.com/matzehuels/necklace/pkg/cache"
	"github.com/matzehuels/necklace/pkg/config"
	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	necklaceio "github.com/matzehuels/necklace/pkg/io"
	"github.com/matzehuels/necklace/pkg/store"
	"github.com/matzehuels/necklace/pkg/trial"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "necklace"
)

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

	// configPath is set by the --config flag. Empty means ./necklace.toml if
	// it exists and built-in defaults otherwise.
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
		Short: "Necklace builds random sequences with no two same-group items side by side",
		Long: `Necklace builds random orderings of grouped items in which no two items of the
same group are adjacent, checks whether such an ordering exists at all, and runs
Monte-Carlo trials to study how often each closed ring turns up.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+")")

	// Register all subcommands
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Configuration & Input
// =============================================================================

// loadConfig reads the --config file, or ./necklace.toml when present.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	return config.LoadOptional(config.DefaultFile)
}

// inputFlags selects where a command reads its group set from.
type inputFlags struct {
	file string // JSON group set
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read groups from a JSON file")
}

// groupSet resolves the input group set. Positional arguments take precedence
// over --file, which takes precedence over the config file:
//
//	necklace sample A1,A2,A3 B1,B2 C1
//	necklace sample red:ann,bob blue:cid,dee
func (f *inputFlags) groupSet(cfg *config.Config, args []string) (*groups.GroupSet, error) {
	switch {
	case len(args) > 0 && f.file != "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "pass groups as arguments or with --file, not both")
	case len(args) > 0:
		return groups.Parse(strings.Join(args, " "))
	case f.file != "":
		if err := errors.ValidatePath(f.file); err != nil {
			return nil, err
		}
		return necklaceio.ImportJSON(f.file)
	default:
		return cfg.GroupSet()
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a trial runner for CLI use from the configured backends.
// The returned cleanup closes them.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*trial.Runner, func(), error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = ch.Close() }

	var archive trial.Archive
	if cfg.Store.MongoURI != "" {
		a, err := store.NewMongoArchive(ctx, cfg.Store.MongoURI, cfg.Store.Database, cfg.Store.Collection)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		archive = a
		cleanup = func() {
			_ = ch.Close()
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.Close(closeCtx)
		}
	}

	r := trial.NewRunner(ch, nil, archive, c.Logger)
	r.ReportTTL = cfg.Cache.TTL.Duration
	return r, cleanup, nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/necklace/).
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
