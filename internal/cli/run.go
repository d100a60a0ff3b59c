package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/necklace/pkg/config"
	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	necklaceio "github.com/matzehuels/necklace/pkg/io"
	"github.com/matzehuels/necklace/pkg/trial"
)

// runFlags holds the flags of the run command.
type runFlags struct {
	in      inputFlags
	opts    trial.Options
	noCache bool
	jsonOut bool
	output  string
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [groups...]",
		Short: "Run Monte-Carlo trials and report ring frequencies",
		Long: `Build many random sequences of a group set in parallel and report how many were
valid, how many close into a legal ring, which groups they started with (next
to the odds implied by the builder), and which rings occurred most often.

Rings are counted after rotating each sequence to start at --anchor. Reports
are cached per group set, seed, trial count and worker count.`,
		Example: `  necklace run
  necklace run --trials 1000000 --workers 8 --anchor C1
  necklace run A1,A2,A3 B1,B2 C1 --json -o report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gs, err := f.in.groupSet(cfg, args)
			if err != nil {
				return err
			}
			f.merge(cmd, cfg, len(args) > 0 || f.in.file != "")

			runner, cleanup, err := c.newRunner(cmd.Context(), cfg, f.noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			return c.runTrials(cmd, runner, gs, f)
		},
	}

	f.in.register(cmd)
	cmd.Flags().IntVarP(&f.opts.Trials, "trials", "n", trial.DefaultTrials, "number of sequences to build")
	cmd.Flags().IntVarP(&f.opts.Workers, "workers", "w", 0, "parallel workers (default GOMAXPROCS)")
	cmd.Flags().Uint64Var(&f.opts.Seed, "seed", trial.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&f.opts.Anchor, "anchor", "", "rotate rings to start at this item before counting")
	cmd.Flags().IntVar(&f.opts.TopN, "top", trial.DefaultTopN, "number of most frequent rings to report")
	cmd.Flags().BoolVar(&f.opts.KeepSequences, "keep", false, "include raw sequences in the JSON report")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached reports")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "also write the JSON report to this file")

	return cmd
}

// merge fills options the user did not set on the command line from the
// config file. The config anchor only applies to the config's own groups.
func (f *runFlags) merge(cmd *cobra.Command, cfg *config.Config, customGroups bool) {
	run := cfg.Options()
	flags := cmd.Flags()
	if !flags.Changed("trials") && run.Trials != 0 {
		f.opts.Trials = run.Trials
	}
	if !flags.Changed("workers") {
		f.opts.Workers = run.Workers
	}
	if !flags.Changed("seed") && run.Seed != 0 {
		f.opts.Seed = run.Seed
	}
	if !flags.Changed("top") && run.TopN != 0 {
		f.opts.TopN = run.TopN
	}
	if !flags.Changed("anchor") && !customGroups {
		f.opts.Anchor = run.Anchor
	}
}

func (c *CLI) runTrials(cmd *cobra.Command, runner *trial.Runner, gs *groups.GroupSet, f runFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if f.jsonOut {
		report, _, err := runner.Execute(ctx, gs, f.opts)
		if err != nil {
			return err
		}
		if f.output != "" {
			if err := necklaceio.ExportReport(report, f.output); err != nil {
				return err
			}
		}
		return necklaceio.WriteReport(report, stdout)
	}

	spinner := newSpinnerWithContext(ctx, "Running trials...")
	opts := f.opts
	opts.OnProgress = func(done, total int) {
		spinner.SetMessage(fmt.Sprintf("Running trials... %d/%d", done, total))
	}

	spinner.Start()
	report, hit, err := runner.Execute(ctx, gs, opts)
	switch {
	case err != nil && spinner.Cancelled():
		spinner.StopWithError("Run cancelled")
		return err
	case err != nil:
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Run %s", StyleDim.Render(report.RunID)))
	prog.done("trials finished", "trials", report.Trials, "cached", hit)

	if f.output != "" {
		if err := necklaceio.ExportReport(report, f.output); err != nil {
			return err
		}
	}

	printRunStats(report, hit)
	printNewline()
	printReport(report)
	if f.output != "" {
		printNewline()
		printFile(f.output)
	}
	if report.Trials > 0 && !hit && report.Duration > 10*time.Second {
		printNewline()
		printNextStep("Repeat instantly from cache", "necklace run (same flags)")
	}
	return nil
}
