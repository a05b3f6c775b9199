package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SheetGang/internal/model"
)

// TicketInfo holds the data encoded into each job ticket's QR code.
type TicketInfo struct {
	ID      string  `json:"id"`
	File    string  `json:"file"`
	Page    int     `json:"page"`
	Cell    int     `json:"cell"` // 1-based
	Column  int     `json:"column"`
	Row     int     `json:"row"`
	Width   float64 `json:"width_mm"`
	Height  float64 `json:"height_mm"`
	X       float64 `json:"x_mm"`
	Y       float64 `json:"y_mm"`
	Rotated bool    `json:"rotated"`
}

// Ticket layout for Avery L7160-compatible sheets (3 columns, 7 rows on A4).
const (
	ticketMarginTop  = 15.1
	ticketMarginLeft = 7.2
	ticketWidth      = 63.5
	ticketHeight     = 38.1
	ticketColGap     = 2.5
	ticketCols       = 3
	ticketRows       = 7
	ticketsPerPage   = ticketCols * ticketRows
	ticketQRSize     = 28.0
	ticketPadding    = 2.5
)

// ExportTickets generates a PDF of QR-coded job tickets, one per placed
// image. Each ticket names the file and its sheet position and carries the
// placement metadata as JSON in a QR code, so a finished piece can be
// traced back to its artwork.
func ExportTickets(path string, result model.GangResult) error {
	if len(result.Pages) == 0 {
		return fmt.Errorf("no pages to generate tickets for")
	}

	tickets := CollectTickets(result)
	if len(tickets) == 0 {
		return fmt.Errorf("no images placed to generate tickets for")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, ticket := range tickets {
		if i%ticketsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % ticketsPerPage
		col := pos % ticketCols
		row := pos / ticketCols

		x := ticketMarginLeft + float64(col)*(ticketWidth+ticketColGap)
		y := ticketMarginTop + float64(row)*ticketHeight

		if err := renderTicket(pdf, x, y, ticket); err != nil {
			return fmt.Errorf("failed to render ticket for %q: %w", ticket.File, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderTicket(pdf *fpdf.Fpdf, x, y float64, info TicketInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, ticketWidth, ticketHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + info.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	qrX := x + ticketWidth - ticketQRSize - ticketPadding
	qrY := y + (ticketHeight-ticketQRSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, ticketQRSize, ticketQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + ticketPadding
	textW := ticketWidth - ticketQRSize - 3*ticketPadding

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+ticketPadding)
	pdf.CellFormat(textW, 4, truncate(pdf, info.File, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+ticketPadding+6)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Page %d, cell %d", info.Page, info.Cell), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+ticketPadding+10)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Col %d / Row %d", info.Column, info.Row), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+ticketPadding+14)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.1f x %.1f mm", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+ticketHeight-ticketPadding-3)
	pdf.CellFormat(textW, 3, info.ID, "", 0, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+ticketPadding+18)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits in w.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectTickets extracts ticket information for every placement, page by
// page in placement order.
func CollectTickets(result model.GangResult) []TicketInfo {
	var tickets []TicketInfo
	for _, page := range result.Pages {
		for _, p := range page.Placements {
			tickets = append(tickets, TicketInfo{
				ID:      p.ID,
				File:    filepath.Base(p.ImagePath),
				Page:    p.Page,
				Cell:    p.Cell + 1,
				Column:  p.Column + 1,
				Row:     p.Row + 1,
				Width:   p.Bounds.Width,
				Height:  p.Bounds.Height,
				X:       p.Bounds.X,
				Y:       p.Bounds.Y,
				Rotated: p.Rotated,
			})
		}
	}
	return tickets
}
