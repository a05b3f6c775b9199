package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SheetGang/internal/gcode"
	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
)

// Bundle lists what WriteBundle produced.
type Bundle struct {
	Files    []string
	Programs []string // G-code, one per page
}

// BundlePath returns the sibling of pdfPath with the given suffix, e.g.
// "job.pdf" + "-proof.pdf" gives "job-proof.pdf".
func BundlePath(pdfPath, suffix string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + suffix
}

// WriteBundle writes the side outputs selected in out next to out.PDF.
// gen is only used when G-code output is selected.
func WriteBundle(result model.GangResult, out project.Outputs, gen *gcode.Generator) (Bundle, error) {
	var b Bundle
	if out.PDF == "" {
		return b, fmt.Errorf("no output path")
	}

	if out.Proof {
		path := BundlePath(out.PDF, "-proof.pdf")
		if err := ExportProof(path, result); err != nil {
			return b, fmt.Errorf("proof: %w", err)
		}
		b.Files = append(b.Files, path)
	}
	if out.DXF {
		paths, err := ExportAllDXF(out.PDF, result)
		b.Files = append(b.Files, paths...)
		if err != nil {
			return b, fmt.Errorf("dxf: %w", err)
		}
	}
	if out.Report {
		path := BundlePath(out.PDF, ".xlsx")
		if err := ExportReport(path, result); err != nil {
			return b, fmt.Errorf("report: %w", err)
		}
		b.Files = append(b.Files, path)
	}
	if out.Tickets {
		path := BundlePath(out.PDF, "-tickets.pdf")
		if err := ExportTickets(path, result); err != nil {
			return b, fmt.Errorf("tickets: %w", err)
		}
		b.Files = append(b.Files, path)
	}
	if out.GCode {
		if gen == nil {
			return b, fmt.Errorf("gcode: no generator")
		}
		b.Programs = gen.GenerateAll(result)
		for i, prog := range b.Programs {
			path := BundlePath(out.PDF, fmt.Sprintf("-p%02d.nc", i+1))
			if err := os.WriteFile(path, []byte(prog), 0644); err != nil {
				return b, fmt.Errorf("gcode: %w", err)
			}
			b.Files = append(b.Files, path)
		}
	}
	return b, nil
}
