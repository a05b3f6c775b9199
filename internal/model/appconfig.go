package model

// AppConfig holds application-wide preferences and the defaults offered
// for new ganging jobs.
type AppConfig struct {
	// Defaults for new jobs
	DefaultPageWidth    float64 `json:"default_page_width"`
	DefaultPageHeight   float64 `json:"default_page_height"`
	DefaultFrameWidth   float64 `json:"default_frame_width"`
	DefaultFrameHeight  float64 `json:"default_frame_height"`
	DefaultGapH         float64 `json:"default_gap_h"`
	DefaultGapV         float64 `json:"default_gap_v"`
	DefaultCutContour   bool    `json:"default_cut_contour"` // stroke outlines in the CutContour spot colour
	DefaultGCodeProfile string  `json:"default_gcode_profile"`

	// Application preferences
	OutputDir     string   `json:"output_dir"` // empty = next to the image folder
	RecentFolders []string `json:"recent_folders"`
	Theme         string   `json:"theme"`       // "light", "dark", "system"
	WideLayout    bool     `json:"wide_layout"` // default theme sizes instead of the compact ones
}

// DefaultAppConfig returns an AppConfig populated with the A3 sheet and
// business-card sized frame the original workflow was built around.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultPageWidth:    297.0,
		DefaultPageHeight:   420.0,
		DefaultFrameWidth:   90.0,
		DefaultFrameHeight:  50.0,
		DefaultGapH:         0,
		DefaultGapV:         0,
		DefaultCutContour:   false,
		DefaultGCodeProfile: "Generic",
		RecentFolders:       []string{},
		Theme:               "system",
	}
}

// ApplyToJob copies the default values from AppConfig into a JobSettings.
func (c AppConfig) ApplyToJob(j *JobSettings) {
	j.Page = PageSpec{Width: c.DefaultPageWidth, Height: c.DefaultPageHeight}
	j.Frame = FrameSpec{Width: c.DefaultFrameWidth, Height: c.DefaultFrameHeight}
	j.Gap = GapSpec{Horizontal: c.DefaultGapH, Vertical: c.DefaultGapV}
	if c.DefaultCutContour {
		j.Outline = CutContourStyle()
	} else {
		j.Outline = OutlineStyle{}
	}
	j.Cutter = DefaultCutterSettings()
	j.Cutter.Profile = c.DefaultGCodeProfile
}

// AddRecentFolder moves dir to the front of the recent folder list,
// keeping at most max entries.
func (c *AppConfig) AddRecentFolder(dir string, max int) {
	out := []string{dir}
	for _, f := range c.RecentFolders {
		if f != dir {
			out = append(out, f)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	c.RecentFolders = out
}

// JobSettings is everything one ganging run needs.
type JobSettings struct {
	Folder  string         `json:"folder" toml:"folder"`
	Page    PageSpec       `json:"page" toml:"page"`
	Frame   FrameSpec      `json:"frame" toml:"frame"`
	Gap     GapSpec        `json:"gap" toml:"gap"`
	Outline OutlineStyle   `json:"outline" toml:"outline"`
	Cutter  CutterSettings `json:"cutter" toml:"cutter"`
}

// DefaultJobSettings returns job settings derived from DefaultAppConfig.
func DefaultJobSettings() JobSettings {
	var j JobSettings
	DefaultAppConfig().ApplyToJob(&j)
	return j
}
