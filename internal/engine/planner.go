// Package engine computes the frame grid for a page and assigns images to
// grid cells across pages.
package engine

import (
	"math"

	"github.com/piwi3910/SheetGang/internal/model"
)

// candidate is one orientation of the frame on the page.
type candidate struct {
	width, height float64 // occupied frame size
	cols, rows    int
}

func (c candidate) count() int {
	return c.cols * c.rows
}

// ComputeLayout decides between the unrotated and the 90 degree rotated
// frame orientation and returns the grid with the most frames per page.
// Ties keep the unrotated orientation. The planner never fails: when
// nothing fits it returns a 0x0 grid and leaves the decision to the caller.
func ComputeLayout(page model.PageSpec, frame model.FrameSpec, gap model.GapSpec) model.LayoutResult {
	upright, rotated := candidates(page, frame, gap)

	win := upright
	isRotated := false
	if rotated.count() > upright.count() {
		win = rotated
		isRotated = true
	}

	return model.LayoutResult{
		Columns:     win.cols,
		Rows:        win.rows,
		FrameWidth:  win.width,
		FrameHeight: win.height,
		GapH:        gap.Horizontal,
		GapV:        gap.Vertical,
		Rotated:     isRotated,
	}
}

func candidates(page model.PageSpec, frame model.FrameSpec, gap model.GapSpec) (upright, rotated candidate) {
	upright = candidate{
		width:  frame.Width,
		height: frame.Height,
		cols:   fitCount(page.Width, frame.Width, gap.Horizontal),
		rows:   fitCount(page.Height, frame.Height, gap.Vertical),
	}
	rotated = candidate{
		width:  frame.Height,
		height: frame.Width,
		cols:   fitCount(page.Width, frame.Height, gap.Horizontal),
		rows:   fitCount(page.Height, frame.Width, gap.Vertical),
	}
	return upright, rotated
}

// fitTolerance is the slack, relative to the page length, allowed when a
// row of items ends exactly on the page edge, so 29.7 / 9.9 counts 3 while
// an overshoot of even a picometre per 100 mm does not fit.
const fitTolerance = 1e-12

// fitCount returns how many items of size item separated by gap fit into
// length. The trailing gap is not needed, hence length+gap. A zero or
// negative pitch means zero capacity. The floor of the quotient is checked
// against the length itself so rounding in the division neither adds nor
// drops an item.
func fitCount(length, item, gap float64) int {
	pitch := item + gap
	if pitch <= 0 || math.IsNaN(pitch) {
		return 0
	}
	n := math.Floor((length + gap) / pitch)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	slack := fitTolerance * math.Max(math.Abs(length), pitch)
	fits := func(k float64) bool { return k*pitch-gap <= length+slack }
	if fits(n + 1) {
		n++
	} else if n > 0 && !fits(n) {
		n--
	}
	if n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}
