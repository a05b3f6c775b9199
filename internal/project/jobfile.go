package project

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/piwi3910/SheetGang/internal/model"
)

// Outputs selects the files an impose run writes next to the PDF.
type Outputs struct {
	PDF     string // path of the imposed PDF
	Proof   bool
	DXF     bool
	Report  bool
	Tickets bool
	GCode   bool
}

// JobFile is the TOML form of a ganging job. Zero values mean "not set";
// gaps, booleans and the overcut use pointers because zero is meaningful.
type JobFile struct {
	Folder string `toml:"folder"`
	Output string `toml:"output,omitempty"`

	CutContour *bool `toml:"cut_contour,omitempty"`

	Page struct {
		Width  float64 `toml:"width"`
		Height float64 `toml:"height"`
	} `toml:"page"`
	Frame struct {
		Width  float64 `toml:"width"`
		Height float64 `toml:"height"`
	} `toml:"frame"`
	Gap struct {
		Horizontal *float64 `toml:"horizontal,omitempty"`
		Vertical   *float64 `toml:"vertical,omitempty"`
	} `toml:"gap"`

	Cutter struct {
		Profile    string   `toml:"profile,omitempty"`
		FeedRate   float64  `toml:"feed_rate,omitempty"`
		PlungeRate float64  `toml:"plunge_rate,omitempty"`
		SafeZ      float64  `toml:"safe_z,omitempty"`
		CutDepth   float64  `toml:"cut_depth,omitempty"`
		Overcut    *float64 `toml:"overcut,omitempty"`
	} `toml:"cutter"`

	Outputs struct {
		Proof   *bool `toml:"proof,omitempty"`
		DXF     *bool `toml:"dxf,omitempty"`
		Report  *bool `toml:"report,omitempty"`
		Tickets *bool `toml:"tickets,omitempty"`
		GCode   *bool `toml:"gcode,omitempty"`
	} `toml:"outputs"`
}

// LoadJobFile reads and parses a TOML job file. Relative folder and output
// paths are resolved against the job file's directory.
func LoadJobFile(path string) (JobFile, error) {
	var jf JobFile
	b, err := os.ReadFile(path)
	if err != nil {
		return jf, err
	}
	if err := toml.Unmarshal(b, &jf); err != nil {
		return jf, fmt.Errorf("parse job file %s: %w", path, err)
	}
	base := filepath.Dir(path)
	jf.Folder = resolvePath(base, jf.Folder)
	jf.Output = resolvePath(base, jf.Output)
	return jf, nil
}

// SaveJobFile writes a job and its outputs as TOML.
func SaveJobFile(path string, job model.JobSettings, out Outputs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	b, err := toml.Marshal(NewJobFile(job, out))
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// NewJobFile converts job settings into their file form.
func NewJobFile(job model.JobSettings, out Outputs) JobFile {
	var jf JobFile
	jf.Folder = job.Folder
	jf.Output = out.PDF
	jf.Page.Width, jf.Page.Height = job.Page.Width, job.Page.Height
	jf.Frame.Width, jf.Frame.Height = job.Frame.Width, job.Frame.Height
	jf.Gap.Horizontal = ptr(job.Gap.Horizontal)
	jf.Gap.Vertical = ptr(job.Gap.Vertical)
	jf.CutContour = ptr(job.Outline.SpotColor == model.CutContourSpot)
	jf.Cutter.Profile = job.Cutter.Profile
	jf.Cutter.FeedRate = job.Cutter.FeedRate
	jf.Cutter.PlungeRate = job.Cutter.PlungeRate
	jf.Cutter.SafeZ = job.Cutter.SafeZ
	jf.Cutter.CutDepth = job.Cutter.CutDepth
	jf.Cutter.Overcut = ptr(job.Cutter.Overcut)
	jf.Outputs.Proof = ptr(out.Proof)
	jf.Outputs.DXF = ptr(out.DXF)
	jf.Outputs.Report = ptr(out.Report)
	jf.Outputs.Tickets = ptr(out.Tickets)
	jf.Outputs.GCode = ptr(out.GCode)
	return jf
}

// ApplyJobFile applies a job file on top of job and out. Values whose flag
// was set explicitly on the command line (changed) win over the file.
func ApplyJobFile(job *model.JobSettings, out *Outputs, jf JobFile, changed map[string]bool) {
	s := jobSetter{changed: changed}

	s.setString("folder", jf.Folder, &job.Folder)
	s.setString("output", jf.Output, &out.PDF)

	s.setPositive("page-width", jf.Page.Width, &job.Page.Width)
	s.setPositive("page-height", jf.Page.Height, &job.Page.Height)
	s.setPositive("frame-width", jf.Frame.Width, &job.Frame.Width)
	s.setPositive("frame-height", jf.Frame.Height, &job.Frame.Height)
	s.setFloat("gap-h", jf.Gap.Horizontal, &job.Gap.Horizontal)
	s.setFloat("gap-v", jf.Gap.Vertical, &job.Gap.Vertical)

	if jf.CutContour != nil && !changed["cut-contour"] {
		if *jf.CutContour {
			job.Outline = model.CutContourStyle()
		} else {
			job.Outline = model.OutlineStyle{}
		}
	}

	s.setString("profile", jf.Cutter.Profile, &job.Cutter.Profile)
	s.setPositive("feed-rate", jf.Cutter.FeedRate, &job.Cutter.FeedRate)
	s.setPositive("plunge-rate", jf.Cutter.PlungeRate, &job.Cutter.PlungeRate)
	s.setPositive("safe-z", jf.Cutter.SafeZ, &job.Cutter.SafeZ)
	s.setPositive("cut-depth", jf.Cutter.CutDepth, &job.Cutter.CutDepth)
	s.setFloat("overcut", jf.Cutter.Overcut, &job.Cutter.Overcut)

	s.setBool("proof", jf.Outputs.Proof, &out.Proof)
	s.setBool("dxf", jf.Outputs.DXF, &out.DXF)
	s.setBool("report", jf.Outputs.Report, &out.Report)
	s.setBool("tickets", jf.Outputs.Tickets, &out.Tickets)
	s.setBool("gcode", jf.Outputs.GCode, &out.GCode)
}

type jobSetter struct {
	changed map[string]bool
}

// setString sets a string value if not empty and flag not changed.
func (s jobSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setPositive sets a float64 value if positive and flag not changed.
func (s jobSetter) setPositive(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value from a pointer if not nil and flag not changed.
func (s jobSetter) setFloat(flag string, value *float64, dst *float64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s jobSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func ptr[T any](v T) *T { return &v }

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// DefaultOutputPath places "<folder name>-gang.pdf" in outputDir, or next to
// the folder when outputDir is empty.
func DefaultOutputPath(folder, outputDir string) string {
	folder = filepath.Clean(folder)
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(folder)
	}
	return filepath.Join(dir, filepath.Base(folder)+"-gang.pdf")
}
