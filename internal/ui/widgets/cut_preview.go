package widgets

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SheetGang/internal/gcode"
	"github.com/piwi3910/SheetGang/internal/model"
)

// Toolpath colors for different move types.
var (
	colorRapid   = color.NRGBA{R: 255, G: 60, B: 60, A: 200}  // Red for rapid moves
	colorFeed    = color.NRGBA{R: 30, G: 120, B: 255, A: 230} // Blue for knife-down moves
	colorPlunge  = color.NRGBA{R: 50, G: 200, B: 50, A: 220}  // Green for knife down
	colorRetract = color.NRGBA{R: 180, G: 180, B: 0, A: 180}  // Yellow for knife up
	colorCell    = color.NRGBA{R: 200, G: 220, B: 255, A: 120}
)

const previewMargin = 10

// CutPreview renders the moves of a cutter program over the page and its
// cells. Program coordinates have their origin at the bottom-left of the
// page, so Y is flipped for display.
type CutPreview struct {
	widget.BaseWidget
	moves      []gcode.GCodeMove
	placements []model.Placement
	pageW      float64
	pageH      float64
	maxWidth   float32
	maxHeight  float32
}

func NewCutPreview(moves []gcode.GCodeMove, placements []model.Placement, pageW, pageH float64, maxW, maxH float32) *CutPreview {
	cp := &CutPreview{
		moves:      moves,
		placements: placements,
		pageW:      pageW,
		pageH:      pageH,
		maxWidth:   maxW,
		maxHeight:  maxH,
	}
	cp.ExtendBaseWidget(cp)
	return cp
}

// CreateRenderer implements fyne.Widget.
func (cp *CutPreview) CreateRenderer() fyne.WidgetRenderer {
	return newCutPreviewRenderer(cp)
}

func (cp *CutPreview) scale() float32 {
	s := fitScale(cp.pageW, cp.pageH, cp.maxWidth-previewMargin*2, cp.maxHeight-previewMargin*2)
	if s <= 0 {
		return 1
	}
	return s
}

type cutPreviewRenderer struct {
	cp      *CutPreview
	objects []fyne.CanvasObject
}

func newCutPreviewRenderer(cp *CutPreview) *cutPreviewRenderer {
	r := &cutPreviewRenderer{cp: cp}
	r.rebuild()
	return r
}

// point converts program coordinates to widget coordinates.
func (r *cutPreviewRenderer) point(x, y float64, scale float32) fyne.Position {
	return fyne.NewPos(
		float32(x)*scale+previewMargin,
		float32(r.cp.pageH-y)*scale+previewMargin,
	)
}

func (r *cutPreviewRenderer) line(from, to fyne.Position, col color.Color, width float32) {
	l := canvas.NewLine(col)
	l.StrokeWidth = width
	l.Position1 = from
	l.Position2 = to
	r.objects = append(r.objects, l)
}

func (r *cutPreviewRenderer) marker(at fyne.Position, col color.Color, size float32) {
	m := canvas.NewCircle(col)
	m.Resize(fyne.NewSize(size, size))
	m.Move(fyne.NewPos(at.X-size/2, at.Y-size/2))
	r.objects = append(r.objects, m)
}

func (r *cutPreviewRenderer) rebuild() {
	r.objects = nil

	cp := r.cp
	if cp.pageW <= 0 || cp.pageH <= 0 {
		return
	}
	scale := cp.scale()

	bg := canvas.NewRectangle(colorPaper)
	bg.StrokeColor = colorPageEdge
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(float32(cp.pageW)*scale, float32(cp.pageH)*scale))
	bg.Move(fyne.NewPos(previewMargin, previewMargin))
	r.objects = append(r.objects, bg)

	// Cells are in page coordinates (top-left origin), no flip needed.
	for _, p := range cp.placements {
		cell := canvas.NewRectangle(colorCell)
		cell.Resize(fyne.NewSize(float32(p.Bounds.Width)*scale, float32(p.Bounds.Height)*scale))
		cell.Move(fyne.NewPos(float32(p.Bounds.X)*scale+previewMargin, float32(p.Bounds.Y)*scale+previewMargin))
		r.objects = append(r.objects, cell)
	}

	for _, m := range cp.moves {
		from := r.point(m.FromX, m.FromY, scale)
		to := r.point(m.ToX, m.ToY, scale)
		xyDist := math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)

		switch m.Type {
		case gcode.MoveRapid:
			if xyDist < 0.01 {
				continue
			}
			r.line(from, to, colorRapid, 1)
			r.drawDashedOverlay(from, to)
		case gcode.MoveFeed:
			if xyDist < 0.01 {
				continue
			}
			r.line(from, to, colorFeed, 2)
		case gcode.MovePlunge:
			r.marker(from, colorPlunge, 4)
		case gcode.MoveRetract:
			if xyDist < 0.01 {
				r.marker(from, colorRetract, 3)
			} else {
				r.line(from, to, colorRetract, 1)
			}
		}
	}
}

// drawDashedOverlay paints paper-coloured gaps along a rapid move so it
// reads as a dashed line.
func (r *cutPreviewRenderer) drawDashedOverlay(from, to fyne.Position) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 8 {
		return
	}

	const dashLen, gapLen = float32(6), float32(4)
	nx, ny := dx/length, dy/length
	for cursor := dashLen; cursor+gapLen < length; cursor += dashLen + gapLen {
		r.line(
			fyne.NewPos(from.X+nx*cursor, from.Y+ny*cursor),
			fyne.NewPos(from.X+nx*(cursor+gapLen), from.Y+ny*(cursor+gapLen)),
			colorPaper, 2.5)
	}
}

func (r *cutPreviewRenderer) Layout(size fyne.Size)        {}
func (r *cutPreviewRenderer) Refresh()                     { r.rebuild() }
func (r *cutPreviewRenderer) Destroy()                     {}
func (r *cutPreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *cutPreviewRenderer) MinSize() fyne.Size {
	cp := r.cp
	if cp.pageW <= 0 || cp.pageH <= 0 {
		return fyne.NewSize(100, 100)
	}
	scale := cp.scale()
	return fyne.NewSize(float32(cp.pageW)*scale+previewMargin*2, float32(cp.pageH)*scale+previewMargin*2)
}

// RenderCutPreview parses a page's cutter program and returns its preview.
func RenderCutPreview(result model.GangResult, page int, program string) fyne.CanvasObject {
	if page < 0 || page >= len(result.Pages) {
		return widget.NewLabel("No cutter program for this page.")
	}
	return NewCutPreview(
		gcode.ParseGCode(program),
		result.Pages[page].Placements,
		result.Page.Width,
		result.Page.Height,
		420, 560,
	)
}
