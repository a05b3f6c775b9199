// Package ui provides the SheetGang desktop front end.
//
// This file defines a compact Fyne theme so the form and page previews fit
// side by side.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/piwi3910/SheetGang/internal/model"
)

// themeNames are the values accepted for AppConfig.Theme.
var themeNames = []string{"system", "light", "dark"}

// SheetGangTheme wraps the default Fyne theme with compact sizing overrides.
type SheetGangTheme struct {
	base    fyne.Theme
	variant *fyne.ThemeVariant // nil follows the system
	dense   bool
}

// NewSheetGangTheme creates a compact theme following the system light/dark variant.
func NewSheetGangTheme() *SheetGangTheme {
	return &SheetGangTheme{
		base:  theme.DefaultTheme(),
		dense: true,
	}
}

// SetVariant pins the theme to a light or dark variant.
func (t *SheetGangTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = &variant
}

// FollowSystem drops a pinned variant.
func (t *SheetGangTheme) FollowSystem() {
	t.variant = nil
}

// SetDense switches between compact and default sizing.
func (t *SheetGangTheme) SetDense(dense bool) {
	t.dense = dense
}

// ApplyConfig sets the variant and sizing from the stored preferences.
// Unknown theme names follow the system.
func (t *SheetGangTheme) ApplyConfig(cfg model.AppConfig) {
	switch cfg.Theme {
	case "light":
		t.SetVariant(theme.VariantLight)
	case "dark":
		t.SetVariant(theme.VariantDark)
	default:
		t.FollowSystem()
	}
	t.SetDense(!cfg.WideLayout)
}

func (t *SheetGangTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.variant == nil {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, *t.variant)
}

func (t *SheetGangTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *SheetGangTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizes when dense, the base sizes otherwise.
func (t *SheetGangTheme) Size(name fyne.ThemeSizeName) float32 {
	if !t.dense {
		return t.base.Size(name)
	}
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
