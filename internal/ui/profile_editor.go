package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SheetGang/internal/engine"
	"github.com/piwi3910/SheetGang/internal/gcode"
	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
)

type profileEntry struct {
	profile model.GCodeProfile
	builtIn bool
}

// allProfiles lists the built-in profiles followed by the custom ones.
func allProfiles(custom []model.GCodeProfile) []profileEntry {
	var out []profileEntry
	for _, p := range model.GCodeProfiles {
		out = append(out, profileEntry{profile: p, builtIn: true})
	}
	for _, p := range custom {
		out = append(out, profileEntry{profile: p})
	}
	return out
}

// upsertProfile replaces the custom profile with the same name, or appends.
func upsertProfile(custom []model.GCodeProfile, p model.GCodeProfile) []model.GCodeProfile {
	out := make([]model.GCodeProfile, 0, len(custom)+1)
	replaced := false
	for _, c := range custom {
		if c.Name == p.Name {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, c)
	}
	if !replaced {
		out = append(out, p)
	}
	return out
}

func removeProfile(custom []model.GCodeProfile, name string) []model.GCodeProfile {
	out := make([]model.GCodeProfile, 0, len(custom))
	for _, c := range custom {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}

func isBuiltInProfile(name string) bool {
	for _, p := range model.GCodeProfiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// profileNames returns every profile name a job can select.
func (a *App) profileNames() []string {
	var names []string
	for _, e := range allProfiles(a.profiles) {
		names = append(names, e.profile.Name)
	}
	return names
}

// showProfileManager opens a window to view, duplicate, edit, delete,
// import and export cutter profiles.
func (a *App) showProfileManager() {
	w := fyne.CurrentApp().NewWindow("Cutter Profiles")
	w.Resize(fyne.NewSize(700, 500))

	profiles := allProfiles(a.profiles)
	selectedIdx := -1
	detail := container.NewVBox(widget.NewLabel("Select a profile to view details."))

	list := widget.NewList(
		func() int { return len(profiles) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Profile Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			box.Objects[1].(*widget.Label).SetText(profiles[id].profile.Name)
			tag := "(custom)"
			if profiles[id].builtIn {
				tag = "(built-in)"
			}
			box.Objects[3].(*widget.Label).SetText(tag)
		},
	)

	var refresh func()
	list.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showProfileDetail(detail, profiles[id], w, refresh)
	}
	refresh = func() {
		profiles = allProfiles(a.profiles)
		selectedIdx = -1
		list.UnselectAll()
		list.Refresh()
		detail.RemoveAll()
		detail.Add(widget.NewLabel("Select a profile to view details."))
		detail.Refresh()
	}

	selected := func(action string) (profileEntry, bool) {
		if selectedIdx < 0 || selectedIdx >= len(profiles) {
			dialog.ShowInformation("No Selection", "Select a profile to "+action+".", w)
			return profileEntry{}, false
		}
		return profiles[selectedIdx], true
	}

	duplicateBtn := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		if e, ok := selected("duplicate"); ok {
			a.duplicateProfile(e.profile, w, refresh)
		}
	})
	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), func() {
		a.importProfileDialog(w, refresh)
	})
	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		if e, ok := selected("export"); ok {
			a.exportProfileDialog(e.profile, w)
		}
	})
	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		e, ok := selected("delete")
		if !ok {
			return
		}
		if e.builtIn {
			dialog.ShowInformation("Cannot Delete", "Built-in profiles cannot be deleted.", w)
			return
		}
		dialog.ShowConfirm("Delete Profile", fmt.Sprintf("Delete custom profile %q?", e.profile.Name),
			func(ok bool) {
				if !ok {
					return
				}
				a.profiles = removeProfile(a.profiles, e.profile.Name)
				a.persistCustomProfiles(w)
				refresh()
			}, w)
	})

	listPanel := container.NewBorder(
		widget.NewLabelWithStyle("Profiles", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(duplicateBtn, importBtn, exportBtn, deleteBtn),
		nil, nil,
		list,
	)
	detailPanel := container.NewBorder(
		widget.NewLabelWithStyle("Profile Details", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(detail),
	)

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.35)
	w.SetContent(split)
	w.Show()
}

func (a *App) showProfileDetail(c *fyne.Container, e profileEntry, w fyne.Window, onChanged func()) {
	c.RemoveAll()
	p := e.profile
	bold := func(s string) *widget.Label {
		return widget.NewLabelWithStyle(s, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}

	if e.builtIn {
		c.Add(widget.NewLabel("Built-in profiles are read-only. Duplicate to customize."))
	} else {
		c.Add(widget.NewButtonWithIcon("Edit Profile", theme.DocumentCreateIcon(), func() {
			a.showEditProfileDialog(p, w, onChanged)
		}))
	}

	c.Add(container.NewVBox(
		bold(p.Name),
		widget.NewLabel(p.Description),
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			bold("Units:"), widget.NewLabel(p.Units),
			bold("Decimal Places:"), widget.NewLabel(strconv.Itoa(p.DecimalPlaces)),
			widget.NewLabel("Rapid Move:"), widget.NewLabel(p.RapidMove),
			widget.NewLabel("Feed Move:"), widget.NewLabel(p.FeedMove),
			widget.NewLabel("Absolute Mode:"), widget.NewLabel(p.AbsoluteMode),
			widget.NewLabel("Comment Prefix:"), widget.NewLabel(fmt.Sprintf("%q", p.CommentPrefix)),
			widget.NewLabel("Comment Suffix:"), widget.NewLabel(fmt.Sprintf("%q", p.CommentSuffix)),
		),
		widget.NewSeparator(),
		bold("Start Code"),
		widget.NewLabel(strings.Join(p.StartCode, "\n")),
		bold("End Code"),
		widget.NewLabel(strings.Join(p.EndCode, "\n")),
	))
	c.Refresh()
}

func (a *App) duplicateProfile(source model.GCodeProfile, w fyne.Window, onCreated func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(source.Name + " (Copy)")

	form := dialog.NewForm("Duplicate Profile", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("New Profile Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" || isBuiltInProfile(name) {
				dialog.ShowError(fmt.Errorf("choose a name that is not empty and not a built-in profile"), w)
				return
			}
			dup := source
			dup.Name = name
			dup.Description = "Copy of " + source.Name
			dup.StartCode = append([]string(nil), source.StartCode...)
			dup.EndCode = append([]string(nil), source.EndCode...)

			a.profiles = upsertProfile(a.profiles, dup)
			a.persistCustomProfiles(w)
			onCreated()
		},
		w,
	)
	form.Resize(fyne.NewSize(400, 150))
	form.Show()
}

// sampleProgram renders the cutter program for a single frame with p.
func sampleProgram(p model.GCodeProfile, cutter model.CutterSettings) string {
	result, err := engine.Gang([]string{"sample.png"},
		model.PageSpec{Width: 100, Height: 60},
		model.FrameSpec{Width: 50, Height: 30},
		model.GapSpec{})
	if err != nil || len(result.Pages) == 0 {
		return ""
	}
	return gcode.NewWithProfile(cutter, p).GeneratePage(result, result.Pages[0])
}

func (a *App) showEditProfileDialog(p model.GCodeProfile, w fyne.Window, onSaved func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(p.Name)
	descEntry := widget.NewEntry()
	descEntry.SetText(p.Description)
	unitsSelect := widget.NewSelect([]string{"mm", "inches"}, nil)
	unitsSelect.SetSelected(p.Units)
	decimalEntry := widget.NewEntry()
	decimalEntry.SetText(strconv.Itoa(p.DecimalPlaces))

	rapidEntry := widget.NewEntry()
	rapidEntry.SetText(p.RapidMove)
	feedEntry := widget.NewEntry()
	feedEntry.SetText(p.FeedMove)
	absoluteEntry := widget.NewEntry()
	absoluteEntry.SetText(p.AbsoluteMode)
	commentPrefixEntry := widget.NewEntry()
	commentPrefixEntry.SetText(p.CommentPrefix)
	commentSuffixEntry := widget.NewEntry()
	commentSuffixEntry.SetText(p.CommentSuffix)

	startCodeEntry := widget.NewMultiLineEntry()
	startCodeEntry.SetText(strings.Join(p.StartCode, "\n"))
	startCodeEntry.SetMinRowsVisible(4)
	endCodeEntry := widget.NewMultiLineEntry()
	endCodeEntry.SetText(strings.Join(p.EndCode, "\n"))
	endCodeEntry.SetMinRowsVisible(4)

	collect := func() (model.GCodeProfile, error) {
		name := strings.TrimSpace(nameEntry.Text)
		if name == "" || isBuiltInProfile(name) {
			return model.GCodeProfile{}, fmt.Errorf("choose a name that is not empty and not a built-in profile")
		}
		decimals, err := strconv.Atoi(decimalEntry.Text)
		if err != nil || decimals < 0 || decimals > 10 {
			return model.GCodeProfile{}, fmt.Errorf("decimal places must be a number between 0 and 10")
		}
		return model.GCodeProfile{
			Name:          name,
			Description:   descEntry.Text,
			Units:         unitsSelect.Selected,
			StartCode:     splitLines(startCodeEntry.Text),
			AbsoluteMode:  absoluteEntry.Text,
			RapidMove:     rapidEntry.Text,
			FeedMove:      feedEntry.Text,
			EndCode:       splitLines(endCodeEntry.Text),
			CommentPrefix: commentPrefixEntry.Text,
			CommentSuffix: commentSuffixEntry.Text,
			DecimalPlaces: decimals,
		}, nil
	}

	preview := widget.NewMultiLineEntry()
	preview.Disable()
	preview.SetMinRowsVisible(10)
	updatePreview := func() {
		updated, err := collect()
		if err != nil {
			preview.SetText(err.Error())
			return
		}
		preview.SetText(sampleProgram(updated, a.job.Cutter))
	}
	updatePreview()

	tabs := container.NewAppTabs(
		container.NewTabItem("General", container.NewGridWithColumns(2,
			widget.NewLabel("Name"), nameEntry,
			widget.NewLabel("Description"), descEntry,
			widget.NewLabel("Units"), unitsSelect,
			widget.NewLabel("Decimal Places"), decimalEntry,
		)),
		container.NewTabItem("Motion", container.NewGridWithColumns(2,
			widget.NewLabel("Rapid Move Command"), rapidEntry,
			widget.NewLabel("Feed Move Command"), feedEntry,
			widget.NewLabel("Absolute Mode"), absoluteEntry,
			widget.NewLabel("Comment Prefix"), commentPrefixEntry,
			widget.NewLabel("Comment Suffix"), commentSuffixEntry,
		)),
		container.NewTabItem("Start/End Code", container.NewVBox(
			widget.NewLabelWithStyle("Start Code (one command per line)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			startCodeEntry,
			widget.NewSeparator(),
			widget.NewLabelWithStyle("End Code (one command per line)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			endCodeEntry,
		)),
		container.NewTabItem("Preview", container.NewBorder(
			widget.NewButtonWithIcon("Refresh Preview", theme.ViewRefreshIcon(), updatePreview),
			nil, nil, nil, preview,
		)),
	)

	editWindow := fyne.CurrentApp().NewWindow("Edit Profile: " + p.Name)
	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		updated, err := collect()
		if err != nil {
			dialog.ShowError(err, editWindow)
			return
		}
		if updated.Name != p.Name {
			a.profiles = removeProfile(a.profiles, p.Name)
		}
		a.profiles = upsertProfile(a.profiles, updated)
		a.persistCustomProfiles(w)
		onSaved()
		editWindow.Close()
	})
	saveBtn.Importance = widget.HighImportance

	editWindow.SetContent(container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), saveBtn), nil, nil, tabs))
	editWindow.Resize(fyne.NewSize(600, 500))
	editWindow.Show()
}

func (a *App) importProfileDialog(w fyne.Window, onImported func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		profile, err := project.ImportProfile(path)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import profile: %w", err), w)
			return
		}
		if isBuiltInProfile(profile.Name) {
			dialog.ShowError(fmt.Errorf("profile %q has the name of a built-in profile", profile.Name), w)
			return
		}
		a.profiles = upsertProfile(a.profiles, profile)
		a.persistCustomProfiles(w)
		onImported()
		dialog.ShowInformation("Import Complete", fmt.Sprintf("Profile %q imported.", profile.Name), w)
	}, w)
}

func (a *App) exportProfileDialog(p model.GCodeProfile, w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.ExportProfile(path, p); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export profile: %w", err), w)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Profile %q exported.", p.Name), w)
	}, w)
	d.SetFileName(strings.ReplaceAll(strings.ToLower(p.Name), " ", "_") + "_profile.json")
	d.Show()
}

// persistCustomProfiles saves the custom profiles to disk.
func (a *App) persistCustomProfiles(w fyne.Window) {
	if err := a.saveProfiles(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), w)
	}
}

// splitLines splits a multiline string into non-empty lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
