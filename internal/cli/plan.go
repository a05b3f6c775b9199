package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SheetGang/internal/engine"
	"github.com/piwi3910/SheetGang/internal/gang"
	"github.com/piwi3910/SheetGang/internal/importer"
	"github.com/piwi3910/SheetGang/internal/model"
)

func newPlanCmd(g *globalOpts) *cobra.Command {
	var flags jobFlags

	cmd := &cobra.Command{
		Use:   "plan [folder]",
		Short: "Show the grid the planner picks for a page and frame size",
		Long: `Plan compares the upright and the rotated frame orientation and shows
which one fits more frames per page. With a folder it also reports how many
pages the images need.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			job, _, err := flags.resolve(cmd, args, cfg)
			if err != nil && !errors.Is(err, errNoFolder) {
				return err
			}
			if err := gang.Validate(job); err != nil {
				return err
			}

			p := printer{w: cmd.OutOrStdout()}
			cmp := engine.CompareOrientations(job.Page, job.Frame, job.Gap)
			printComparison(p, job, cmp)
			if cmp.Chosen.Empty() {
				return describeError(gang.ErrNothingFits)
			}

			if job.Folder == "" {
				return nil
			}
			images, err := importer.ScanFolder(job.Folder)
			if err != nil {
				return err
			}
			p.info("%d image(s) need %d page(s)", len(images), engine.PagesNeeded(len(images), cmp.Chosen))
			return nil
		},
	}

	flags.registerLayout(cmd.Flags())
	return cmd
}

func printComparison(p printer, job model.JobSettings, cmp engine.Comparison) {
	p.title("Page %.1f x %.1f mm, frame %.1f x %.1f mm, gap %.1f / %.1f mm",
		job.Page.Width, job.Page.Height, job.Frame.Width, job.Frame.Height,
		job.Gap.Horizontal, job.Gap.Vertical)

	winner := cmp.Winner()
	for _, o := range []engine.OrientationResult{cmp.Upright, cmp.Rotated} {
		mark := " "
		if !cmp.Chosen.Empty() && o.Rotated == winner.Rotated {
			mark = iconWinner
		}
		p.line(fmt.Sprintf("%s %s", styleNumber.Render(mark), o))
	}
	p.keyValue("Frames per page", fmt.Sprint(cmp.Chosen.PerPage()))
}
