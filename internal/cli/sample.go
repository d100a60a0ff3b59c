package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/necklace/pkg/groups"
	necklaceio "github.com/matzehuels/necklace/pkg/io"
	"github.com/matzehuels/necklace/pkg/trial"
)

// sampleCommand creates the sample command.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		in          inputFlags
		seed        uint64
		anchor      string
		noCache     bool
		jsonOut     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "sample [groups...]",
		Short: "Build one random sequence and classify it",
		Long: `Build one random sequence in which no two neighbours share a group, then report
whether it is valid and whether its ends belong to different groups, so that
it can be closed into a ring.

With --anchor the sequence is rotated to start at the given item, which makes
rotations of one ring print identically.`,
		Example: `  necklace sample
  necklace sample A1,A2,A3 B1,B2 C1 --seed 7 --anchor C1
  necklace sample --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gs, err := in.groupSet(cfg, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Run.Seed
			}
			if !cmd.Flags().Changed("anchor") && len(args) == 0 && in.file == "" {
				anchor = cfg.Run.Anchor
			}
			opts := trial.SampleOptions{Seed: seed, Anchor: anchor}

			if interactive {
				return runBrowser(gs, opts)
			}

			runner, cleanup, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			s, hit, err := runner.Sample(cmd.Context(), gs, opts)
			if err != nil {
				return err
			}
			if jsonOut {
				return necklaceio.WriteSequence(s, stdout)
			}
			printSample(s, hit)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().Uint64Var(&seed, "seed", trial.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&anchor, "anchor", "", "rotate the sequence to start at this item")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the sample as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse samples seed by seed")

	return cmd
}

func printSample(s *trial.Sample, cached bool) {
	printSequence(s.Labels, s.Groups)
	printNewline()
	printKeyValue("seed", fmt.Sprint(s.Seed))
	printKeyValue("valid", yesNo(s.Valid))
	printKeyValue("cycle", yesNo(s.Cycle))
	printKeyValue("key", s.Key)
	if cached {
		printDetail(iconCached)
	}
}

func yesNo(b bool) string {
	if b {
		return StyleSuccess.Render("yes")
	}
	return StyleWarning.Render("no")
}

func runBrowser(gs *groups.GroupSet, opts trial.SampleOptions) error {
	m, err := newBrowserModel(gs, opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	if bm, ok := final.(browserModel); ok && bm.chosen {
		printSample(bm.sample, false)
	}
	return nil
}
