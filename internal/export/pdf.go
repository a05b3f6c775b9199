// Package export writes ganging results to files: the print-ready PDF
// (through PDFHost), a proof sheet, DXF cut files, an XLSX placement report
// and QR-coded job tickets.
package export

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SheetGang/internal/engine"
	"github.com/piwi3910/SheetGang/internal/model"
)

// cellColor represents an RGB color for a placed frame.
type cellColor struct {
	R, G, B int
}

// cellColors mirrors the color scheme used in the UI page preview widget.
var cellColors = []cellColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Proof page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportProof generates a proof PDF: one scaled diagram per ganged page
// showing which file lands in which cell, followed by a summary page.
func ExportProof(path string, result model.GangResult) error {
	if len(result.Pages) == 0 {
		return fmt.Errorf("no pages to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, page := range result.Pages {
		pdf.AddPage()
		renderProofPage(pdf, result, page)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderProofPage draws a single ganged page on the current PDF page.
func renderProofPage(pdf *fpdf.Fpdf, result model.GangResult, page model.PageResult) {
	sheet := result.Page

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Page %d of %d (%.0f x %.0f mm)", page.Number, result.PageCount(), sheet.Width, sheet.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Images: %d of %d cells | Grid: %d x %d | Used area: %.0f mm² | Coverage: %.1f%%",
		len(page.Placements), result.Layout.PerPage(), result.Layout.Columns, result.Layout.Rows,
		page.UsedArea(), coverage(page.UsedArea(), sheet.Area()))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/sheet.Width, drawHeight/sheet.Height)
	canvasW := sheet.Width * scale
	canvasH := sheet.Height * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Paper
	pdf.SetFillColor(255, 255, 255)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Empty cells are drawn as dashed placeholders.
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	for cell := len(page.Placements); cell < result.Layout.PerPage(); cell++ {
		r := engine.CellRect(result.Layout, cell)
		pdf.Rect(offsetX+r.X*scale, offsetY+r.Y*scale, r.Width*scale, r.Height*scale, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)

	for i, p := range page.Placements {
		col := cellColors[i%len(cellColors)]
		b := p.Bounds
		pw := b.Width * scale
		ph := b.Height * scale
		px := offsetX + b.X*scale
		py := offsetY + b.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := fmt.Sprintf("%d", p.Cell+1)
			name := filepath.Base(p.ImagePath)

			labelW := pdf.GetStringWidth(label)
			pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")

			nameW := pdf.GetStringWidth(name)
			if ph > 14 && nameW < pw-2 {
				pdf.SetXY(px+(pw-nameW)/2, py+ph/2)
				pdf.CellFormat(nameW, 4, name, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, sheet, offsetX, offsetY, canvasW, canvasH)
	drawFileLegend(pdf, page, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and height labels outside the page rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet model.PageSpec, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", sheet.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawFileLegend renders a compact legend of placed files below the page diagram.
func drawFileLegend(pdf *fpdf.Fpdf, page model.PageResult, startY float64) {
	if len(page.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Files placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range page.Placements {
		col := cellColors[i%len(cellColors)]
		label := fmt.Sprintf("%d: %s", p.Cell+1, filepath.Base(p.ImagePath))
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.GangResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Ganging Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	l := result.Layout
	orientation := "Upright"
	if l.Rotated {
		orientation = "Rotated 90\xb0"
	}
	summaryItems := []struct {
		label string
		value string
	}{
		{"Pages", fmt.Sprintf("%d", result.PageCount())},
		{"Images Placed", fmt.Sprintf("%d", result.ImageCount())},
		{"Grid", fmt.Sprintf("%d columns x %d rows (%d per page)", l.Columns, l.Rows, l.PerPage())},
		{"Orientation", orientation},
		{"Page Size", fmt.Sprintf("%.1f x %.1f mm", result.Page.Width, result.Page.Height)},
		{"Frame Size", fmt.Sprintf("%.1f x %.1f mm", result.Frame.Width, result.Frame.Height)},
		{"Gaps (H / V)", fmt.Sprintf("%.1f / %.1f mm", result.Gap.Horizontal, result.Gap.Vertical)},
		{"Overall Coverage", fmt.Sprintf("%.1f%%", result.Efficiency())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(100, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Page Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 40, 40, 50, 50}
	headers := []string{"Page", "Images", "Empty Cells", "Used Area", "Coverage"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, page := range result.Pages {
		if y > pageHeight-marginBottom-10 {
			break
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", page.Number),
			fmt.Sprintf("%d", len(page.Placements)),
			fmt.Sprintf("%d", l.PerPage()-len(page.Placements)),
			fmt.Sprintf("%.0f mm²", page.UsedArea()),
			fmt.Sprintf("%.1f%%", coverage(page.UsedArea(), result.Page.Area())),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SheetGang - Print Sheet Ganging", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

func coverage(used, total float64) float64 {
	if total == 0 {
		return 0
	}
	return used / total * 100
}
