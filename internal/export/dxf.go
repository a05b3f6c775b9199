package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yofu/dxf"

	"github.com/piwi3910/SheetGang/internal/model"
)

// ExportDXF writes the cut outlines of one page (1-based) as closed line
// loops on the cut layer. DXF has its origin at the bottom-left, so Y is
// flipped against the page height.
func ExportDXF(path string, result model.GangResult, page int) error {
	if page < 1 || page > len(result.Pages) {
		return fmt.Errorf("page %d out of range (1-%d)", page, len(result.Pages))
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(model.CutLayerName, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}

	pageH := result.Page.Height
	for _, p := range result.Pages[page-1].Placements {
		// After rotation the outline covers the grid cell exactly.
		for _, seg := range outlineSegments(p.Bounds, pageH) {
			if _, err := d.Line(seg[0], seg[1], 0, seg[2], seg[3], 0); err != nil {
				return fmt.Errorf("failed to add outline for %s: %w", filepath.Base(p.ImagePath), err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ExportAllDXF writes one DXF per page named <base>-pNN.dxf and returns the
// paths written.
func ExportAllDXF(base string, result model.GangResult) ([]string, error) {
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var paths []string
	for i := range result.Pages {
		path := fmt.Sprintf("%s-p%02d.dxf", base, i+1)
		if err := ExportDXF(path, result, i+1); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outlineSegments returns the four edges of r as {x1, y1, x2, y2} in DXF
// coordinates, walking counter-clockwise from the bottom-left corner.
func outlineSegments(r model.Rect, pageH float64) [][4]float64 {
	x0, x1 := r.X, r.X+r.Width
	y0, y1 := pageH-(r.Y+r.Height), pageH-r.Y
	return [][4]float64{
		{x0, y0, x1, y0},
		{x1, y0, x1, y1},
		{x1, y1, x0, y1},
		{x0, y1, x0, y0},
	}
}
