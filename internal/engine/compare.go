package engine

import (
	"fmt"

	"github.com/piwi3910/SheetGang/internal/model"
)

// OrientationResult holds the grid one orientation candidate would produce.
type OrientationResult struct {
	Name        string
	Rotated     bool
	Columns     int
	Rows        int
	FrameWidth  float64
	FrameHeight float64
}

// Count returns frames per page for this orientation.
func (o OrientationResult) Count() int {
	return o.Columns * o.Rows
}

func (o OrientationResult) String() string {
	return fmt.Sprintf("%s: %d x %d = %d (%.1f x %.1f mm)",
		o.Name, o.Columns, o.Rows, o.Count(), o.FrameWidth, o.FrameHeight)
}

// Comparison shows both orientation candidates next to the chosen layout,
// so a user can see why the planner picked what it picked.
type Comparison struct {
	Upright OrientationResult
	Rotated OrientationResult
	Chosen  model.LayoutResult
}

// Winner returns the candidate matching the chosen layout.
func (c Comparison) Winner() OrientationResult {
	if c.Chosen.Rotated {
		return c.Rotated
	}
	return c.Upright
}

// CompareOrientations evaluates both orientation candidates and the
// resulting layout.
func CompareOrientations(page model.PageSpec, frame model.FrameSpec, gap model.GapSpec) Comparison {
	upright, rotated := candidates(page, frame, gap)
	return Comparison{
		Upright: OrientationResult{
			Name:        "Upright",
			Columns:     upright.cols,
			Rows:        upright.rows,
			FrameWidth:  upright.width,
			FrameHeight: upright.height,
		},
		Rotated: OrientationResult{
			Name:        "Rotated 90°",
			Rotated:     true,
			Columns:     rotated.cols,
			Rows:        rotated.rows,
			FrameWidth:  rotated.width,
			FrameHeight: rotated.height,
		},
		Chosen: ComputeLayout(page, frame, gap),
	}
}

// PagesNeeded returns how many pages n images occupy under layout,
// or 0 when nothing fits.
func PagesNeeded(n int, layout model.LayoutResult) int {
	per := layout.PerPage()
	if per <= 0 || n <= 0 {
		return 0
	}
	return (n + per - 1) / per
}
