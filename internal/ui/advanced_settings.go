package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SheetGang/internal/model"
)

// showCutterSettingsDialog edits the drag-knife settings used for the
// cutter programs of the current job.
func (a *App) showCutterSettingsDialog() {
	s := a.job.Cutter

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	profileSelect := widget.NewSelect(a.profileNames(), func(selected string) {
		s.Profile = selected
	})
	profileSelect.SetSelected(s.Profile)

	manageBtn := widget.NewButtonWithIcon("Manage Profiles", theme.SettingsIcon(), a.showProfileManager)

	profileSection := widget.NewCard("Cutter Profile", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Active Profile"), container.NewBorder(nil, nil, nil, manageBtn, profileSelect),
		))

	motionSection := widget.NewCard("Knife Motion", "Feeds in mm/min, heights in mm",
		container.NewGridWithColumns(2,
			widget.NewLabel("Feed Rate"), floatEntry(&s.FeedRate),
			widget.NewLabel("Plunge Rate"), floatEntry(&s.PlungeRate),
			widget.NewLabel("Safe Z"), floatEntry(&s.SafeZ),
			widget.NewLabel("Cut Depth"), floatEntry(&s.CutDepth),
			widget.NewLabel("Overcut"), floatEntry(&s.Overcut),
		))

	content := container.NewVScroll(container.NewVBox(profileSection, motionSection))
	d := dialog.NewCustomConfirm("Cutter Settings", "Apply", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		if err := validateCutter(s); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.job.Cutter = s
	}, a.window)
	d.Resize(fyne.NewSize(480, 420))
	d.Show()
}

func validateCutter(s model.CutterSettings) error {
	switch {
	case s.FeedRate <= 0 || s.PlungeRate <= 0:
		return fmt.Errorf("feed and plunge rates must be greater than zero")
	case s.SafeZ <= 0:
		return fmt.Errorf("safe Z must be above the page")
	case s.CutDepth < 0 || s.Overcut < 0:
		return fmt.Errorf("cut depth and overcut must not be negative")
	}
	return nil
}
