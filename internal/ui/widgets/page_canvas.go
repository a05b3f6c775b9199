package widgets

import (
	"fmt"
	"image/color"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SheetGang/internal/engine"
	"github.com/piwi3910/SheetGang/internal/model"
)

// Cell colors, cycled so neighbouring frames are easy to tell apart.
var cellColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	colorPaper     = color.NRGBA{R: 250, G: 250, B: 248, A: 255}
	colorPageEdge  = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	colorEmptyCell = color.NRGBA{R: 190, G: 190, B: 190, A: 255}
	colorOutline   = color.NRGBA{R: 236, G: 0, B: 140, A: 255} // cut contour magenta
)

// PageCanvas draws one ganged page: every placed frame, its cut outline
// and the empty cells left over on the page.
type PageCanvas struct {
	widget.BaseWidget
	result    model.GangResult
	page      int // index into result.Pages
	maxWidth  float32
	maxHeight float32
}

func NewPageCanvas(result model.GangResult, page int, maxW, maxH float32) *PageCanvas {
	pc := &PageCanvas{
		result:    result,
		page:      page,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newPageCanvasRenderer(pc)
}

// fitScale returns the scale that fits a w x h mm page into maxW x maxH.
func fitScale(w, h float64, maxW, maxH float32) float32 {
	if w <= 0 || h <= 0 {
		return 1
	}
	scale := maxW / float32(w)
	if s := maxH / float32(h); s < scale {
		scale = s
	}
	return scale
}

type pageCanvasRenderer struct {
	pc      *PageCanvas
	objects []fyne.CanvasObject
}

func newPageCanvasRenderer(pc *PageCanvas) *pageCanvasRenderer {
	r := &pageCanvasRenderer{pc: pc}
	r.rebuild()
	return r
}

func (r *pageCanvasRenderer) rect(x, y, w, h float32, fill, stroke color.Color, strokeWidth float32) {
	rc := canvas.NewRectangle(fill)
	rc.StrokeColor = stroke
	rc.StrokeWidth = strokeWidth
	rc.Resize(fyne.NewSize(w, h))
	rc.Move(fyne.NewPos(x, y))
	r.objects = append(r.objects, rc)
}

func (r *pageCanvasRenderer) rebuild() {
	r.objects = nil

	result := r.pc.result
	if r.pc.page < 0 || r.pc.page >= len(result.Pages) {
		return
	}
	page := result.Pages[r.pc.page]
	scale := fitScale(result.Page.Width, result.Page.Height, r.pc.maxWidth, r.pc.maxHeight)

	r.rect(0, 0, float32(result.Page.Width)*scale, float32(result.Page.Height)*scale, colorPaper, colorPageEdge, 2)

	// Empty cells after the last placement
	for i := len(page.Placements); i < result.Layout.PerPage(); i++ {
		c := engine.CellRect(result.Layout, i)
		r.rect(float32(c.X)*scale, float32(c.Y)*scale, float32(c.Width)*scale, float32(c.Height)*scale,
			color.Transparent, colorEmptyCell, 1)
	}

	for i, p := range page.Placements {
		b := p.Bounds
		px, py := float32(b.X)*scale, float32(b.Y)*scale
		pw, ph := float32(b.Width)*scale, float32(b.Height)*scale

		r.rect(px, py, pw, ph, cellColors[i%len(cellColors)], colorOutline, 1)

		// Label (only if big enough)
		if pw > 30 && ph > 16 {
			text := fmt.Sprintf("%d %s", p.Cell+1, filepath.Base(p.ImagePath))
			if p.Rotated {
				text += " ↻"
			}
			label := canvas.NewText(text, color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(px+3, py+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *pageCanvasRenderer) Layout(size fyne.Size)        {}
func (r *pageCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *pageCanvasRenderer) Destroy()                     {}
func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *pageCanvasRenderer) MinSize() fyne.Size {
	page := r.pc.result.Page
	scale := fitScale(page.Width, page.Height, r.pc.maxWidth, r.pc.maxHeight)
	return fyne.NewSize(float32(page.Width)*scale, float32(page.Height)*scale)
}

// RenderPages creates a scrollable container with a header and canvas per page.
func RenderPages(result *model.GangResult) fyne.CanvasObject {
	if result == nil || len(result.Pages) == 0 {
		return widget.NewLabel("No layout yet. Choose an image folder and click Gang Images.")
	}

	var items []fyne.CanvasObject
	for i, page := range result.Pages {
		header := widget.NewLabel(fmt.Sprintf("Page %d: %d of %d cells used",
			page.Number, len(page.Placements), result.Layout.PerPage()))
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header, NewPageCanvas(*result, i, 420, 560), widget.NewSeparator())
	}

	orientation := "upright"
	if result.Layout.Rotated {
		orientation = "rotated 90°"
	}
	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d page(s), %d image(s), grid %d x %d %s, %.1f%% coverage",
		result.PageCount(), result.ImageCount(),
		result.Layout.Columns, result.Layout.Rows, orientation, result.Efficiency(),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}
