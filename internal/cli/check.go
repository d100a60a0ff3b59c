package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/sequence"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "check [groups...]",
		Short: "Check whether a group set can be sequenced",
		Long: `Check whether the items of a group set can be ordered with no two items of the
same group side by side. This holds exactly when no group has more than half
of all items.

Exits with status 2 when the group set is infeasible.`,
		Example: `  necklace check A1,A2,A3 B1,B2 C1
  necklace check -f groups.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gs, err := in.groupSet(cfg, args)
			if err != nil {
				return err
			}
			return runCheck(gs)
		},
	}

	in.register(cmd)
	return cmd
}

func runCheck(gs *groups.GroupSet) error {
	printGroupSet(gs)
	printNewline()

	err := groups.CheckFeasible(gs)
	if err == nil {
		printSuccess("Feasible: largest group %s has %d of %d items",
			StyleHighlight.Render(gs.Largest()), gs.MaxSize(), gs.Total())
		printArrangements(gs)
		return nil
	}
	if errors.Is(err, errors.ErrCodeInfeasible) {
		printError("Infeasible: %s", errors.UserMessage(err))
		short := 2*gs.MaxSize() - gs.Total()
		printDetail("remove %d item(s) from %s or add %d item(s) to other groups", short, gs.Largest(), short)
	}
	return fmt.Errorf("check: %w", err)
}

// printArrangements prints the exact number of valid orderings, when the set
// is small enough to count.
func printArrangements(gs *groups.GroupSet) {
	c, err := sequence.Count(gs)
	if err != nil {
		printDetail("too many size combinations to count arrangements exactly")
		return
	}
	printKeyValue("arrangements", c.Valid.String())
	printKeyValue("rings", fmt.Sprintf("%s (%.2f%%)", c.Cycles, 100*c.CycleShare()))
}
