package model

// CutterSettings configures the drag-knife / plotter program generated for
// the cut outlines.
type CutterSettings struct {
	FeedRate   float64 `json:"feed_rate" toml:"feed_rate"`     // Cutting feed rate mm/min
	PlungeRate float64 `json:"plunge_rate" toml:"plunge_rate"` // Knife-down feed rate mm/min
	SafeZ      float64 `json:"safe_z" toml:"safe_z"`           // Knife-up height mm
	CutDepth   float64 `json:"cut_depth" toml:"cut_depth"`     // Knife-down depth mm (positive)
	Overcut    float64 `json:"overcut" toml:"overcut"`         // Extra travel past the start corner to close the cut, mm
	Profile    string  `json:"profile" toml:"profile"`         // GCode profile name
}

func DefaultCutterSettings() CutterSettings {
	return CutterSettings{
		FeedRate:   3000.0,
		PlungeRate: 600.0,
		SafeZ:      3.0,
		CutDepth:   0.3,
		Overcut:    1.0,
		Profile:    "Generic",
	}
}

// GCodeProfile defines a post-processor configuration for different controllers.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "mm" or "inches"

	StartCode    []string `json:"start_code"`
	AbsoluteMode string   `json:"absolute_mode"`
	RapidMove    string   `json:"rapid_move"`
	FeedMove     string   `json:"feed_move"`
	EndCode      []string `json:"end_code"`

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`

	DecimalPlaces int `json:"decimal_places"`
}

// Built-in GCode profiles
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Grbl based knife and pen plotters",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17"},
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC (formerly EMC2)",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		Units:         "mm",
		StartCode:     []string{"G90", "G21"},
		AbsoluteMode:  "G90",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// GetProfile returns a GCode profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range GCodeProfiles {
		names = append(names, p.Name)
	}
	return names
}
