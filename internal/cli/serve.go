package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/necklace/internal/api"
	"github.com/matzehuels/necklace/pkg/observability"
)

type serveFlags struct {
	addr       string
	maxTrials  int
	maxWorkers int
	noCache    bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve check, sample and run over HTTP, with Prometheus metrics on /metrics.

Reports share the configured cache with the CLI. When a MongoDB store is
configured, finished runs are archived and served from /v1/reports/{id}.`,
		Example: `  necklace serve
  necklace serve --addr 127.0.0.1:9090 --max-trials 200000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&flags.maxTrials, "max-trials", api.DefaultMaxTrials, "largest run a request may ask for")
	cmd.Flags().IntVar(&flags.maxWorkers, "max-workers", api.DefaultMaxWorkers, "most workers a request may use")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, flags serveFlags) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if flags.addr != "" {
		addr = flags.addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := observability.NewPromHooks(reg)
	observability.SetTrialHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	runner, cleanup, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := api.Options{
		MaxTrials:  flags.maxTrials,
		MaxWorkers: flags.maxWorkers,
		Gatherer:   reg,
	}
	if finder, ok := runner.Archive.(api.ReportFinder); ok {
		opts.Reports = finder
	}

	printInfo("Serving on %s", addr)
	printDetail("Cache: %s", cfg.Cache.Backend)
	if opts.Reports != nil {
		printDetail("Archive: %s/%s", cfg.Store.Database, cfg.Store.Collection)
	}
	return api.New(runner, c.Logger, opts).ListenAndServe(ctx, addr)
}
