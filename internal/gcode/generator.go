// Package gcode generates cutter programs that trace the cut outline of
// every placed frame with a drag knife or plotter pen.
package gcode

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SheetGang/internal/model"
)

// Generator produces GCode for the outlines of a ganged result. Machine
// coordinates have their origin at the bottom-left of the page.
type Generator struct {
	Settings model.CutterSettings
	profile  model.GCodeProfile
}

// New returns a generator using the built-in profile named in settings.
func New(settings model.CutterSettings) *Generator {
	return NewWithProfile(settings, model.GetProfile(settings.Profile))
}

// NewWithProfile returns a generator using an explicit, possibly custom, profile.
func NewWithProfile(settings model.CutterSettings, profile model.GCodeProfile) *Generator {
	return &Generator{Settings: settings, profile: profile}
}

// GeneratePage produces GCode for a single page's outlines.
func (g *Generator) GeneratePage(result model.GangResult, page model.PageResult) string {
	var b strings.Builder

	g.writeHeader(&b, result, page)

	for i, p := range page.Placements {
		g.writeOutline(&b, p, result.Page.Height, i+1)
	}

	g.writeFooter(&b)
	return b.String()
}

// GenerateAll produces one GCode program per page.
func (g *Generator) GenerateAll(result model.GangResult) []string {
	var codes []string
	for _, page := range result.Pages {
		codes = append(codes, g.GeneratePage(result, page))
	}
	return codes
}

func (g *Generator) writeHeader(b *strings.Builder, result model.GangResult, page model.PageResult) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("SheetGang cut program - Page %d of %d", page.Number, result.PageCount())))
	b.WriteString(g.comment(fmt.Sprintf("Page: %.1f x %.1f mm", result.Page.Width, result.Page.Height)))
	b.WriteString(g.comment(fmt.Sprintf("Outlines: %d, Grid: %d x %d", len(page.Placements), result.Layout.Columns, result.Layout.Rows)))
	b.WriteString(g.comment(fmt.Sprintf("Feed: %.0f mm/min, Plunge: %.0f mm/min, Depth: %.2f mm",
		g.Settings.FeedRate, g.Settings.PlungeRate, g.Settings.CutDepth)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	// Knife up before the first travel move.
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(g.comment("=== Job complete ==="))

	for _, code := range g.profile.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}
}

// writeOutline traces one cell outline counter-clockwise from its
// bottom-left corner, then continues along the first edge by the overcut
// so the knife closes the cut cleanly.
func (g *Generator) writeOutline(b *strings.Builder, p model.Placement, pageH float64, n int) {
	pr := g.profile
	r := p.Bounds
	x0, x1 := r.X, r.X+r.Width
	y0, y1 := pageH-(r.Y+r.Height), pageH-r.Y

	b.WriteString(g.comment(fmt.Sprintf("--- Outline %d: %s (%.1f x %.1f)%s ---",
		n, filepath.Base(p.ImagePath), r.Width, r.Height, rotatedStr(p.Rotated))))

	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", pr.RapidMove, g.format(x0), g.format(y0)))
	b.WriteString(fmt.Sprintf("%s Z%s F%s\n", pr.FeedMove, g.format(-g.Settings.CutDepth), g.format(g.Settings.PlungeRate)))

	b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", pr.FeedMove, g.format(x1), g.format(y0), g.format(g.Settings.FeedRate)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", pr.FeedMove, g.format(x1), g.format(y1)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", pr.FeedMove, g.format(x0), g.format(y1)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", pr.FeedMove, g.format(x0), g.format(y0)))

	if over := math.Min(g.Settings.Overcut, r.Width); over > 0 {
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", pr.FeedMove, g.format(x0+over), g.format(y0)))
	}

	b.WriteString(fmt.Sprintf("%s Z%s\n", pr.RapidMove, g.format(g.Settings.SafeZ)))
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}

func rotatedStr(rotated bool) string {
	if rotated {
		return " [rotated]"
	}
	return ""
}
