package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SheetGang/internal/project"
)

// showSettingsDialog edits the defaults offered for new jobs.
func (a *App) showSettingsDialog() {
	cfg := a.config

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
		cfg.DefaultGCodeProfile = selected
	})
	profileSelect.SetSelected(cfg.DefaultGCodeProfile)

	cutContour := widget.NewCheck("", func(b bool) { cfg.DefaultCutContour = b })
	cutContour.SetChecked(cfg.DefaultCutContour)

	themeSelect := widget.NewSelect(themeNames, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	wide := widget.NewCheck("", func(b bool) { cfg.WideLayout = b })
	wide.SetChecked(cfg.WideLayout)

	outputDir := widget.NewEntry()
	outputDir.SetPlaceHolder("next to the image folder")
	outputDir.SetText(cfg.OutputDir)
	outputDir.OnChanged = func(text string) { cfg.OutputDir = text }

	formItems := []*widget.FormItem{
		widget.NewFormItem("Default Page Width (mm)", floatEntry(&cfg.DefaultPageWidth)),
		widget.NewFormItem("Default Page Height (mm)", floatEntry(&cfg.DefaultPageHeight)),
		widget.NewFormItem("Default Frame Width (mm)", floatEntry(&cfg.DefaultFrameWidth)),
		widget.NewFormItem("Default Frame Height (mm)", floatEntry(&cfg.DefaultFrameHeight)),
		widget.NewFormItem("Default Horizontal Gap (mm)", floatEntry(&cfg.DefaultGapH)),
		widget.NewFormItem("Default Vertical Gap (mm)", floatEntry(&cfg.DefaultGapV)),
		widget.NewFormItem("CutContour Outlines", cutContour),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Output Folder", outputDir),
		widget.NewFormItem("Default Cutter Profile", profileSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Wide Layout", wide),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.config = cfg
			a.applyTheme()
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "The new defaults apply to the next job.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 600))
	d.Show()
}

// showImportExportDialog backs up or restores preferences and custom
// cutter profiles.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportAllData(path, a.config, a.profiles); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings and %d profile(s) exported to:\n%s", len(a.profiles), path), a.window)
			}
		}, a.window)
		d.SetFileName("sheetgang-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing replaces your preferences and custom cutter profiles.\n\nContinue?",
			func(ok bool) {
				if !ok {
					return
				}
				dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					a.profiles = backup.Profiles
					a.recentSelect.SetOptions(a.config.RecentFolders)
					a.applyTheme()
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					if err := a.saveProfiles(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported profiles: %w", err), a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences and custom cutter profiles to a backup file,\nor import a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		importBtn,
	)

	d := dialog.NewCustom("Export / Import Settings", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 220))
	d.Show()
}

// applyTheme pushes the theme preferences to the running app.
func (a *App) applyTheme() {
	a.theme.ApplyConfig(a.config)
	if app := fyne.CurrentApp(); app != nil {
		app.Settings().SetTheme(a.theme)
	}
}

func (a *App) configPath() string {
	if a.opts.ConfigPath != "" {
		return a.opts.ConfigPath
	}
	return project.DefaultConfigPath()
}

func (a *App) profilesPath() string {
	if a.opts.ProfilesPath != "" {
		return a.opts.ProfilesPath
	}
	return project.DefaultProfilesPath()
}

func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath(), a.config)
}

func (a *App) saveProfiles() error {
	return project.SaveCustomProfiles(a.profilesPath(), a.profiles)
}
