package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/render"
	"github.com/matzehuels/necklace/pkg/render/ring"
	"github.com/matzehuels/necklace/pkg/sequence"
	"github.com/matzehuels/necklace/pkg/trial"
)

// renderFlags holds the flags of the render command.
type renderFlags struct {
	in         inputFlags
	seed       uint64
	anchor     string
	format     string
	output     string
	title      string
	open       bool
	monochrome bool
	scale      float64
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [groups...]",
		Short: "Draw a sampled sequence as a ring",
		Long: `Build one sequence and draw it as a closed ring, with items filled by group and
same-group junctions drawn dashed red. The seam between the last and first
item shows whether the sequence is a cycle.

SVG and DOT are produced in-process. PNG and PDF need rsvg-convert (librsvg).`,
		Example: `  necklace render -o ring.svg
  necklace render A1,A2 B1,B2 C1 --seed 3 --format png --scale 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gs, err := f.in.groupSet(cfg, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				f.seed = cfg.Run.Seed
			}
			if !cmd.Flags().Changed("anchor") && len(args) == 0 && f.in.file == "" {
				f.anchor = cfg.Run.Anchor
			}
			return runRender(cmd.Context(), gs, f)
		},
	}

	f.in.register(cmd)
	cmd.Flags().Uint64Var(&f.seed, "seed", trial.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&f.anchor, "anchor", "", "rotate the ring to start at this item")
	cmd.Flags().StringVar(&f.format, "format", "", "output format: dot, svg, png, pdf (default from -o, else svg)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default ring.<format>)")
	cmd.Flags().StringVar(&f.title, "title", "", "title drawn above the ring")
	cmd.Flags().BoolVar(&f.open, "open", false, "leave out the seam edge")
	cmd.Flags().BoolVar(&f.monochrome, "monochrome", false, "do not color items by group")
	cmd.Flags().Float64Var(&f.scale, "scale", 2.0, "PNG scale factor")

	return cmd
}

func runRender(ctx context.Context, gs *groups.GroupSet, f renderFlags) error {
	format := resolveFormat(f.format, f.output)
	if err := render.ValidateFormat(format); err != nil {
		return err
	}
	output := f.output
	if output == "" {
		output = "ring." + format
	}

	seq, err := sequence.Build(gs, sequence.NewRand(f.seed))
	if err != nil {
		return err
	}
	if f.anchor != "" {
		if _, ok := gs.Lookup(f.anchor); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "anchor %q is not an item of the group set", f.anchor)
		}
		if seq, err = sequence.Canonicalize(seq, f.anchor); err != nil {
			return err
		}
	}

	title := f.title
	if title == "" {
		title = fmt.Sprintf("seed %d", f.seed)
	}
	dot := ring.ToDOT(seq, ring.Options{Title: title, Open: f.open, Monochrome: f.monochrome})

	data, err := ring.Render(ctx, dot, format, f.scale)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %s ring", StyleHighlight.Render(format))
	printSequence(seq.Labels(), seq.Groups())
	printKeyValue("cycle", yesNo(sequence.IsCycle(seq)))
	printFile(output)
	return nil
}

// resolveFormat picks the explicit format, else the output file extension,
// else SVG.
func resolveFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if ext := filepath.Ext(output); len(ext) > 1 {
		return strings.ToLower(ext[1:])
	}
	return render.FormatSVG
}
