package engine

import (
	"errors"

	"github.com/piwi3910/SheetGang/internal/model"
)

// ErrNothingFits is returned when the layout has zero frames per page.
var ErrNothingFits = errors.New("no frame fits on the page")

// CellRect returns the rectangle of the cell at index (row-major, 0-based)
// measured from the top-left corner of the page.
func CellRect(layout model.LayoutResult, index int) model.Rect {
	col, row := cellPosition(layout, index)
	return model.Rect{
		X:      float64(col) * (layout.FrameWidth + layout.GapH),
		Y:      float64(row) * (layout.FrameHeight + layout.GapV),
		Width:  layout.FrameWidth,
		Height: layout.FrameHeight,
	}
}

func cellPosition(layout model.LayoutResult, index int) (col, row int) {
	if layout.Columns <= 0 {
		return 0, 0
	}
	return index % layout.Columns, index / layout.Columns
}

// FrameRect returns the rectangle a frame is created with before rotation.
// Unrotated frames use the cell itself. Rotated frames keep the original
// frame dimensions, centred on the cell, so that a 90 degree turn about
// their centre covers the cell exactly.
func FrameRect(cell model.Rect, rotated bool) model.Rect {
	if !rotated {
		return cell
	}
	cx, cy := cell.Center()
	return model.Rect{
		X:      cx - cell.Height/2,
		Y:      cy - cell.Width/2,
		Width:  cell.Height,
		Height: cell.Width,
	}
}

// Paginate assigns images, in order, to the next open cell and starts a new
// page whenever the current page's grid is full. Cells past the last image
// stay empty.
func Paginate(images []string, layout model.LayoutResult) ([]model.PageResult, error) {
	per := layout.PerPage()
	if per <= 0 {
		return nil, ErrNothingFits
	}

	pages := make([]model.PageResult, 0, PagesNeeded(len(images), layout))
	for i, img := range images {
		cell := i % per
		if cell == 0 {
			pages = append(pages, model.PageResult{Number: len(pages) + 1})
		}
		page := &pages[len(pages)-1]
		col, row := cellPosition(layout, cell)
		page.Placements = append(page.Placements,
			model.NewPlacement(img, page.Number, cell, col, row, CellRect(layout, cell), layout.Rotated))
	}
	return pages, nil
}

// Gang computes the layout for the given specs and paginates images onto it.
func Gang(images []string, page model.PageSpec, frame model.FrameSpec, gap model.GapSpec) (model.GangResult, error) {
	layout := ComputeLayout(page, frame, gap)
	result := model.GangResult{
		Page:   page,
		Frame:  frame,
		Gap:    gap,
		Layout: layout,
	}
	pages, err := Paginate(images, layout)
	if err != nil {
		return result, err
	}
	result.Pages = pages
	return result, nil
}
