package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/SheetGang/internal/model"
)

func TestThemeApplyConfig(t *testing.T) {
	base := theme.DefaultTheme()
	bg := theme.ColorNameBackground

	th := NewSheetGangTheme()
	cfg := model.DefaultAppConfig()

	th.ApplyConfig(cfg)
	assert.Equal(t, base.Color(bg, theme.VariantLight), th.Color(bg, theme.VariantLight), "system follows the caller")
	assert.Equal(t, base.Color(bg, theme.VariantDark), th.Color(bg, theme.VariantDark))
	assert.Equal(t, float32(12), th.Size(theme.SizeNameText))

	cfg.Theme = "dark"
	th.ApplyConfig(cfg)
	assert.Equal(t, base.Color(bg, theme.VariantDark), th.Color(bg, theme.VariantLight), "dark is pinned")

	cfg.Theme = "light"
	cfg.WideLayout = true
	th.ApplyConfig(cfg)
	assert.Equal(t, base.Color(bg, theme.VariantLight), th.Color(bg, theme.VariantDark))
	assert.Equal(t, base.Size(theme.SizeNameText), th.Size(theme.SizeNameText))

	cfg.Theme = "neon"
	th.ApplyConfig(cfg)
	assert.Equal(t, base.Color(bg, theme.VariantDark), th.Color(bg, theme.VariantDark))
}
