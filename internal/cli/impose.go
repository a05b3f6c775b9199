package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SheetGang/internal/export"
	"github.com/piwi3910/SheetGang/internal/gang"
	"github.com/piwi3910/SheetGang/internal/gcode"
	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
)

type imposeOpts struct {
	flags   jobFlags
	dryRun  bool
	saveJob string
}

func newImposeCmd(g *globalOpts) *cobra.Command {
	var opts imposeOpts

	cmd := &cobra.Command{
		Use:   "impose [folder]",
		Short: "Gang the images of a folder onto PDF pages",
		Long: `Impose places every image of the folder, in file name order, into a
uniform grid of frames and writes the result as a PDF. Each frame is paired
with a cut outline on the non-printing Cut_Path_Vector layer.`,
		Example: `  sheetgang impose ./cards --page-width 320 --page-height 450 --frame-width 85 --frame-height 55
  sheetgang impose --job cards.toml --dxf --report`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			job, out, err := opts.flags.resolve(cmd, args, cfg)
			if err != nil {
				return err
			}
			if opts.saveJob != "" {
				if err := project.SaveJobFile(opts.saveJob, job, out); err != nil {
					return fmt.Errorf("save job file: %w", err)
				}
				logger.Info("saved job file", "path", opts.saveJob)
			}
			profiles, err := g.loadProfiles()
			if err != nil {
				return err
			}

			p := printer{w: cmd.OutOrStdout()}
			if _, err := runImpose(ctx, logger, p, job, out, profiles, opts.dryRun); err != nil {
				return describeError(err)
			}
			if opts.dryRun {
				return nil
			}

			if abs, err := filepath.Abs(job.Folder); err == nil {
				cfg.AddRecentFolder(abs, maxRecentFolders)
				if err := project.SaveAppConfig(g.configPath, cfg); err != nil {
					logger.Warn("could not record recent folder", "err", err)
				}
			}
			return nil
		},
	}

	opts.flags.registerLayout(cmd.Flags())
	opts.flags.registerOutputs(cmd.Flags())
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "plan and place in memory without writing files")
	cmd.Flags().StringVar(&opts.saveJob, "save-job", "", "write the resolved job to this TOML file")
	return cmd
}

// runImpose runs one job. A dry run places into an in-memory recorder and
// writes nothing.
func runImpose(ctx context.Context, logger *log.Logger, p printer, job model.JobSettings, out project.Outputs, profiles []model.GCodeProfile, dryRun bool) (gang.Summary, error) {
	prog := newProgress(logger)

	runner := gang.New(job)
	runner.Logger = logger
	runner.Progress = func(done, total int) {
		logger.Debug("placed", "done", done, "total", total)
	}

	if dryRun {
		rec := gang.NewRecorder()
		summary, err := runner.Run(ctx, rec)
		if err != nil {
			return summary, err
		}
		printSummary(p, summary)
		p.info("dry run: %d host operations, nothing written", len(rec.Calls))
		return summary, nil
	}

	host := export.NewPDFHost()
	host.Title = filepath.Base(filepath.Clean(job.Folder))
	summary, err := runner.Run(ctx, host)
	if err != nil {
		return summary, err
	}
	if err := host.Save(out.PDF); err != nil {
		return summary, fmt.Errorf("save %s: %w", out.PDF, err)
	}
	prog.done("Imposed " + summary.String())

	gen := gcode.NewWithProfile(job.Cutter, project.ResolveProfile(job.Cutter.Profile, profiles))
	bundle, err := export.WriteBundle(summary.Result, out, gen)

	printSummary(p, summary)
	p.file(out.PDF)
	for _, f := range bundle.Files {
		p.file(f)
	}
	if err != nil {
		return summary, err
	}

	for i, program := range bundle.Programs {
		stats := gcode.Summarize(gcode.ParseGCode(program))
		logger.Info("cutter program",
			"page", i+1,
			"cut_mm", fmt.Sprintf("%.0f", stats.CutLength),
			"travel_mm", fmt.Sprintf("%.0f", stats.TravelLength),
			"plunges", stats.Plunges,
			"minutes", fmt.Sprintf("%.1f", stats.EstimatedMinutes(job.Cutter.FeedRate, gcode.DefaultRapidRate)))
	}
	return summary, nil
}

func printSummary(p printer, s gang.Summary) {
	p.success("%d page(s), %d image(s)", s.Pages, s.Images)
	orientation := "upright"
	if s.Rotated {
		orientation = "rotated 90°"
	}
	p.stats(
		fmt.Sprintf("grid %d columns x %d rows", s.Columns, s.Rows),
		orientation,
		fmt.Sprintf("%.1f%% coverage", s.Result.Efficiency()),
	)
}

// describeError adds a hint to the errors a user can fix.
func describeError(err error) error {
	if errors.Is(err, gang.ErrNothingFits) {
		return fmt.Errorf("%w; reduce the frame size or the gaps, or use a larger page", err)
	}
	return err
}
