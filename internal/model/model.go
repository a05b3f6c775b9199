package model

import "github.com/google/uuid"

// Layer names used for every ganged document.
const (
	ImageLayerName = "Print_Artwork_Layer"
	CutLayerName   = "Cut_Path_Vector"
	// DefaultLayerName is the layer a new host document starts with. Runs
	// remove it so every object lands on one of the named layers.
	DefaultLayerName = "Background"
)

// CutContourSpot is the spot colour name print-and-cut RIPs recognise as a cut line.
const CutContourSpot = "CutContour"

// PageSpec is the size of one output page in mm.
type PageSpec struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Area returns the page area in square mm.
func (p PageSpec) Area() float64 {
	return p.Width * p.Height
}

// FrameSpec is the size of one image frame in mm, before any rotation.
type FrameSpec struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// GapSpec holds the spacing between neighbouring frames in mm.
type GapSpec struct {
	Horizontal float64 `json:"horizontal" toml:"horizontal"`
	Vertical   float64 `json:"vertical" toml:"vertical"`
}

// LayoutResult is the grid chosen for a page.
type LayoutResult struct {
	Columns     int     `json:"columns"`
	Rows        int     `json:"rows"`
	FrameWidth  float64 `json:"frame_width"`  // occupied width of one cell (mm)
	FrameHeight float64 `json:"frame_height"` // occupied height of one cell (mm)
	GapH        float64 `json:"gap_h"`
	GapV        float64 `json:"gap_v"`
	Rotated     bool    `json:"rotated"` // width/height swapped relative to the FrameSpec
}

// PerPage returns the number of frames that fit on one page.
func (l LayoutResult) PerPage() int {
	return l.Columns * l.Rows
}

// Empty reports whether nothing fits on a page.
func (l LayoutResult) Empty() bool {
	return l.PerPage() <= 0
}

// Rect is an axis-aligned rectangle with its origin at the top-left, in mm.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Area returns width times height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Placement is one image assigned to one grid cell.
type Placement struct {
	ID        string `json:"id"`
	ImagePath string `json:"image_path"`
	Page      int    `json:"page"`   // 1-based page number
	Cell      int    `json:"cell"`   // 0-based row-major cell index on the page
	Column    int    `json:"column"` // 0-based
	Row       int    `json:"row"`    // 0-based
	Bounds    Rect   `json:"bounds"` // grid cell occupied after rotation
	Rotated   bool   `json:"rotated"`
}

func NewPlacement(imagePath string, page, cell, column, row int, bounds Rect, rotated bool) Placement {
	return Placement{
		ID:        uuid.New().String()[:8],
		ImagePath: imagePath,
		Page:      page,
		Cell:      cell,
		Column:    column,
		Row:       row,
		Bounds:    bounds,
		Rotated:   rotated,
	}
}

// PageResult holds the placements of a single page.
type PageResult struct {
	Number     int         `json:"number"`
	Placements []Placement `json:"placements"`
}

// UsedArea returns the total cell area covered on the page.
func (p PageResult) UsedArea() float64 {
	var total float64
	for _, pl := range p.Placements {
		total += pl.Bounds.Area()
	}
	return total
}

// GangResult is the complete outcome of one ganging run.
type GangResult struct {
	Page   PageSpec     `json:"page"`
	Frame  FrameSpec    `json:"frame"`
	Gap    GapSpec      `json:"gap"`
	Layout LayoutResult `json:"layout"`
	Pages  []PageResult `json:"pages"`
}

// PageCount returns the number of pages produced.
func (g GangResult) PageCount() int {
	return len(g.Pages)
}

// ImageCount returns the number of images placed across all pages.
func (g GangResult) ImageCount() int {
	total := 0
	for _, p := range g.Pages {
		total += len(p.Placements)
	}
	return total
}

// UsedArea returns the total cell area covered across all pages.
func (g GangResult) UsedArea() float64 {
	var total float64
	for _, p := range g.Pages {
		total += p.UsedArea()
	}
	return total
}

// Efficiency returns the percentage of page area covered by frames.
func (g GangResult) Efficiency() float64 {
	total := g.Page.Area() * float64(len(g.Pages))
	if total == 0 {
		return 0
	}
	return (g.UsedArea() / total) * 100.0
}

// OutlineStyle describes how the cut outline paired with each frame is painted.
// The zero value is a borderless, unfilled outline.
type OutlineStyle struct {
	Fill      bool    `json:"fill" toml:"fill"`
	Stroke    bool    `json:"stroke" toml:"stroke"`
	LineWidth float64 `json:"line_width" toml:"line_width"` // mm, used when Stroke is set
	SpotColor string  `json:"spot_color" toml:"spot_color"` // stroke spot colour name
}

// CutContourStyle returns a hairline stroke in the CutContour spot colour.
func CutContourStyle() OutlineStyle {
	return OutlineStyle{
		Stroke:    true,
		LineWidth: 0.1,
		SpotColor: CutContourSpot,
	}
}
