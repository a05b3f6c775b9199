package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
)

var errNoFolder = errors.New("no image folder: pass it as an argument, with --folder or in the job file")

// jobFlags binds the job and output flags. Flags default to zero; unset
// values come from the job file, then from the application config.
type jobFlags struct {
	jobFile    string
	job        model.JobSettings
	cutContour bool
	out        project.Outputs
}

func (f *jobFlags) registerLayout(fs *pflag.FlagSet) {
	fs.StringVarP(&f.jobFile, "job", "j", "", "TOML job file")
	fs.StringVar(&f.job.Folder, "folder", "", "folder of images to gang")
	fs.Float64Var(&f.job.Page.Width, "page-width", 0, "page width in mm")
	fs.Float64Var(&f.job.Page.Height, "page-height", 0, "page height in mm")
	fs.Float64Var(&f.job.Frame.Width, "frame-width", 0, "frame width in mm")
	fs.Float64Var(&f.job.Frame.Height, "frame-height", 0, "frame height in mm")
	fs.Float64Var(&f.job.Gap.Horizontal, "gap-h", 0, "horizontal gap between frames in mm")
	fs.Float64Var(&f.job.Gap.Vertical, "gap-v", 0, "vertical gap between frames in mm")
}

func (f *jobFlags) registerOutputs(fs *pflag.FlagSet) {
	fs.BoolVar(&f.cutContour, "cut-contour", false, "stroke cut outlines in the CutContour spot colour")
	fs.StringVarP(&f.out.PDF, "output", "o", "", "imposed PDF path (default <folder>-gang.pdf next to the folder)")
	fs.BoolVar(&f.out.Proof, "proof", false, "also write a proof sheet")
	fs.BoolVar(&f.out.DXF, "dxf", false, "also write one DXF cut file per page")
	fs.BoolVar(&f.out.Report, "report", false, "also write an XLSX placement report")
	fs.BoolVar(&f.out.Tickets, "tickets", false, "also write QR job tickets")
	fs.BoolVar(&f.out.GCode, "gcode", false, "also write one cutter program per page")

	fs.StringVar(&f.job.Cutter.Profile, "profile", "", "cutter profile name")
	fs.Float64Var(&f.job.Cutter.FeedRate, "feed-rate", 0, "cutting feed rate in mm/min")
	fs.Float64Var(&f.job.Cutter.PlungeRate, "plunge-rate", 0, "knife-down feed rate in mm/min")
	fs.Float64Var(&f.job.Cutter.SafeZ, "safe-z", 0, "knife-up height in mm")
	fs.Float64Var(&f.job.Cutter.CutDepth, "cut-depth", 0, "knife-down depth in mm")
	fs.Float64Var(&f.job.Cutter.Overcut, "overcut", 0, "travel past the start corner in mm")
}

// resolve builds the effective job: application config defaults, then the
// job file, then explicitly set flags. A positional argument is the folder.
func (f *jobFlags) resolve(cmd *cobra.Command, args []string, cfg model.AppConfig) (model.JobSettings, project.Outputs, error) {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(fl *pflag.Flag) { changed[fl.Name] = true })
	if len(args) > 0 {
		f.job.Folder = args[0]
		changed["folder"] = true
	}

	var job model.JobSettings
	cfg.ApplyToJob(&job)
	var out project.Outputs

	if f.jobFile != "" {
		jf, err := project.LoadJobFile(f.jobFile)
		if err != nil {
			return job, out, fmt.Errorf("load job file: %w", err)
		}
		project.ApplyJobFile(&job, &out, jf, changed)
	}
	f.overlay(&job, &out, changed)

	if job.Folder == "" {
		return job, out, errNoFolder
	}
	if out.PDF == "" {
		out.PDF = project.DefaultOutputPath(job.Folder, cfg.OutputDir)
	}
	return job, out, nil
}

// overlay copies the value of every changed flag into job and out.
func (f *jobFlags) overlay(job *model.JobSettings, out *project.Outputs, changed map[string]bool) {
	set := map[string]func(){
		"folder":       func() { job.Folder = f.job.Folder },
		"page-width":   func() { job.Page.Width = f.job.Page.Width },
		"page-height":  func() { job.Page.Height = f.job.Page.Height },
		"frame-width":  func() { job.Frame.Width = f.job.Frame.Width },
		"frame-height": func() { job.Frame.Height = f.job.Frame.Height },
		"gap-h":        func() { job.Gap.Horizontal = f.job.Gap.Horizontal },
		"gap-v":        func() { job.Gap.Vertical = f.job.Gap.Vertical },
		"cut-contour": func() {
			job.Outline = model.OutlineStyle{}
			if f.cutContour {
				job.Outline = model.CutContourStyle()
			}
		},
		"profile":     func() { job.Cutter.Profile = f.job.Cutter.Profile },
		"feed-rate":   func() { job.Cutter.FeedRate = f.job.Cutter.FeedRate },
		"plunge-rate": func() { job.Cutter.PlungeRate = f.job.Cutter.PlungeRate },
		"safe-z":      func() { job.Cutter.SafeZ = f.job.Cutter.SafeZ },
		"cut-depth":   func() { job.Cutter.CutDepth = f.job.Cutter.CutDepth },
		"overcut":     func() { job.Cutter.Overcut = f.job.Cutter.Overcut },
		"output":      func() { out.PDF = f.out.PDF },
		"proof":       func() { out.Proof = f.out.Proof },
		"dxf":         func() { out.DXF = f.out.DXF },
		"report":      func() { out.Report = f.out.Report },
		"tickets":     func() { out.Tickets = f.out.Tickets },
		"gcode":       func() { out.GCode = f.out.GCode },
	}
	for name, apply := range set {
		if changed[name] {
			apply()
		}
	}
}
