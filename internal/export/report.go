package export

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SheetGang/internal/importer"
	"github.com/piwi3910/SheetGang/internal/model"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

var placementHeaders = []interface{}{
	"Page", "Cell", "Column", "Row", "File",
	"X (mm)", "Y (mm)", "Width (mm)", "Height (mm)", "Rotated",
	"Pixels", "Image Aspect", "Frame Fill (%)",
}

// ExportReport writes an XLSX workbook listing every placement plus a
// summary sheet with the layout and page statistics.
func ExportReport(path string, result model.GangResult) error {
	if len(result.Pages) == 0 {
		return fmt.Errorf("no pages to report")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", placementsSheet); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writePlacements(f, result, header); err != nil {
		return err
	}
	if err := writeSummary(f, result, header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func writePlacements(f *excelize.File, result model.GangResult, header int) error {
	if err := f.SetSheetRow(placementsSheet, "A1", &placementHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(placementsSheet, "A1", "M1", header); err != nil {
		return err
	}

	row := 2
	for _, page := range result.Pages {
		for _, p := range page.Placements {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []interface{}{
				p.Page, p.Cell + 1, p.Column + 1, p.Row + 1, filepath.Base(p.ImagePath),
				round2(p.Bounds.X), round2(p.Bounds.Y), round2(p.Bounds.Width), round2(p.Bounds.Height),
				yesNo(p.Rotated),
			}
			// Unreadable images leave the pixel columns empty.
			if info, err := importer.Probe(p.ImagePath); err == nil {
				values = append(values,
					fmt.Sprintf("%d x %d", info.Width, info.Height),
					round2(info.Aspect()),
					round2(frameFill(info.Aspect(), result.Frame)))
			}
			if err := f.SetSheetRow(placementsSheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(placementsSheet, "E", "E", 32); err != nil {
		return err
	}
	return f.SetPanes(placementsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, result model.GangResult, header int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	l := result.Layout
	rows := [][]interface{}{
		{"Property", "Value"},
		{"Page size (mm)", fmt.Sprintf("%.1f x %.1f", result.Page.Width, result.Page.Height)},
		{"Frame size (mm)", fmt.Sprintf("%.1f x %.1f", result.Frame.Width, result.Frame.Height)},
		{"Gap H / V (mm)", fmt.Sprintf("%.1f / %.1f", result.Gap.Horizontal, result.Gap.Vertical)},
		{"Columns", l.Columns},
		{"Rows", l.Rows},
		{"Frames per page", l.PerPage()},
		{"Rotated", yesNo(l.Rotated)},
		{"Pages", result.PageCount()},
		{"Images", result.ImageCount()},
		{"Efficiency (%)", round2(result.Efficiency())},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "A", 20)
}

// frameFill is the share of the frame a proportionally fitted image covers.
// The image rotates with its frame, so the unrotated frame is compared.
func frameFill(aspect float64, frame model.FrameSpec) float64 {
	if aspect <= 0 || frame.Height <= 0 {
		return 0
	}
	fa := frame.Width / frame.Height
	return math.Min(aspect/fa, fa/aspect) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
