package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/SheetGang/internal/engine"
	"github.com/piwi3910/SheetGang/internal/export"
	"github.com/piwi3910/SheetGang/internal/gang"
	"github.com/piwi3910/SheetGang/internal/gcode"
	"github.com/piwi3910/SheetGang/internal/importer"
	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
	"github.com/piwi3910/SheetGang/internal/ui/widgets"
)

const maxRecentFolders = 10

// Options configures the desktop front end.
type Options struct {
	Config       model.AppConfig
	ConfigPath   string
	Profiles     []model.GCodeProfile
	ProfilesPath string
	Logger       *log.Logger
	Version      string
	Folder       string // pre-filled image folder
}

// Run opens the main window and blocks until it is closed.
func Run(opts Options) {
	application := app.NewWithID("com.piwi3910.sheetgang")

	window := application.NewWindow("SheetGang")
	appUI := NewApp(window, opts)
	application.Settings().SetTheme(appUI.theme)
	appUI.SetupMenus()
	window.SetContent(withToolTips(appUI.Build(), window))
	window.Resize(fyne.NewSize(1100, 760))
	window.CenterOnScreen()
	window.ShowAndRun()
}

// App holds all application state and UI references.
type App struct {
	window   fyne.Window
	opts     Options
	config   model.AppConfig
	profiles []model.GCodeProfile
	logger   *log.Logger
	history  *History
	theme    *SheetGangTheme

	// cutter settings and anything else the form does not edit
	job     model.JobSettings
	outputs project.Outputs

	folderEntry  *widget.Entry
	recentSelect *widget.Select
	pageW        *widget.Entry
	pageH        *widget.Entry
	frameW       *widget.Entry
	frameH       *widget.Entry
	gapH         *widget.Entry
	gapV         *widget.Entry
	cutContour   *widget.Check
	outputEntry  *widget.Entry

	planLabel   *widget.Label
	statusLabel *widget.Label
	progress    *widget.ProgressBar
	runBtn      *widget.Button
	cancelBtn   *widget.Button

	tabs            *container.AppTabs
	resultContainer *fyne.Container
	cutContainer    *fyne.Container

	imageCount int
	cancel     context.CancelFunc
	result     *model.GangResult
	programs   []string
}

func NewApp(window fyne.Window, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		window:   window,
		opts:     opts,
		config:   opts.Config,
		profiles: opts.Profiles,
		logger:   logger,
		history:  NewHistory(),
		theme:    NewSheetGangTheme(),
	}
	a.theme.ApplyConfig(a.config)
	a.config.ApplyToJob(&a.job)
	a.job.Folder = opts.Folder
	a.outputs = project.Outputs{Proof: true}
	a.buildForm()
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Choose Image Folder...", a.browseFolder),
		fyne.NewMenuItem("Open Job File...", a.openJobFile),
		fyne.NewMenuItem("Save Job File...", a.saveJobFile),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export / Import Settings...", a.showImportExportDialog),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Swap Page Orientation", a.swapPage),
		fyne.NewMenuItem("Swap Frame Orientation", a.swapFrame),
		fyne.NewMenuItem("Reset to Defaults", a.resetDefaults),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Gang Images", a.runGang),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cutter Settings...", a.showCutterSettingsDialog),
		fyne.NewMenuItem("Cutter Profiles...", a.showProfileManager),
		fyne.NewMenuItem("Preferences...", a.showSettingsDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
	a.window.Canvas().AddShortcut(&fyne.ShortcutUndo{}, func(fyne.Shortcut) { a.undo() })
	a.window.Canvas().AddShortcut(&fyne.ShortcutRedo{}, func(fyne.Shortcut) { a.redo() })
}

func (a *App) showAboutDialog() {
	version := a.opts.Version
	if version == "" {
		version = "dev"
	}
	dialog.ShowInformation(
		"About SheetGang",
		"SheetGang: image ganging for print and cut\n\n"+
			"Places every image of a folder into a uniform grid of frames,\n"+
			"pairs each frame with a cut outline and writes a print-ready PDF.\n\n"+
			"Version "+version,
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.resultContainer = container.NewStack(widgets.RenderPages(nil))
	a.cutContainer = container.NewStack(widget.NewLabel("Enable cutter output to preview the knife path."))

	a.tabs = container.NewAppTabs(
		container.NewTabItem("Pages", a.resultContainer),
		container.NewTabItem("Cut Path", a.cutContainer),
	)

	split := container.NewHSplit(a.buildFormPanel(), a.tabs)
	split.Offset = 0.38
	return split
}

// ─── Form ──────────────────────────────────────────────────

func (a *App) buildForm() {
	newEntry := func(placeholder string) *widget.Entry {
		e := widget.NewEntry()
		e.SetPlaceHolder(placeholder)
		e.OnChanged = func(string) { a.updatePlan() }
		return e
	}

	a.folderEntry = widget.NewEntry()
	a.folderEntry.SetPlaceHolder("Folder with images")
	a.folderEntry.OnSubmitted = func(string) { a.folderChanged() }

	a.recentSelect = widget.NewSelect(a.config.RecentFolders, func(dir string) {
		if dir == "" || dir == a.folderEntry.Text {
			return
		}
		a.pushHistory("Choose folder")
		a.folderEntry.SetText(dir)
		a.folderChanged()
	})
	a.recentSelect.PlaceHolder = "Recent folders"

	a.pageW = newEntry("e.g. 297.0")
	a.pageH = newEntry("e.g. 420.0")
	a.frameW = newEntry("e.g. 90.0")
	a.frameH = newEntry("e.g. 50.0")
	a.gapH = newEntry("0")
	a.gapV = newEntry("0")
	a.cutContour = widget.NewCheck("Stroke outlines in CutContour spot colour", nil)

	a.outputEntry = widget.NewEntry()
	a.outputEntry.SetPlaceHolder("<folder>-gang.pdf next to the folder")

	a.planLabel = widget.NewLabel("")
	a.planLabel.Wrapping = fyne.TextWrapWord
	a.statusLabel = widget.NewLabel("")
	a.progress = widget.NewProgressBar()
	a.progress.Hide()

	a.runBtn = widget.NewButtonWithIcon("Gang Images", theme.MediaPlayIcon(), a.runGang)
	a.runBtn.Importance = widget.HighImportance
	a.cancelBtn = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), func() {
		if a.cancel != nil {
			a.cancel()
		}
	})
	a.cancelBtn.Disable()

	a.setInputs(gang.InputsFromJob(a.job), a.job.Outline.Stroke)
	if a.job.Folder != "" {
		a.folderChanged()
	}
}

func (a *App) buildFormPanel() fyne.CanvasObject {
	browse := newIconButtonWithTooltip(theme.FolderOpenIcon(), "Choose image folder", a.browseFolder)
	folderRow := container.NewBorder(nil, nil, nil, browse, a.folderEntry)

	swapPage := newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Swap page width and height", a.swapPage)
	swapFrame := newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Swap frame width and height", a.swapFrame)

	form := widget.NewForm(
		widget.NewFormItem("Image Folder", folderRow),
		widget.NewFormItem("", a.recentSelect),
		widget.NewFormItem("Page Width (mm)", a.pageW),
		widget.NewFormItem("Page Height (mm)", container.NewBorder(nil, nil, nil, swapPage, a.pageH)),
		widget.NewFormItem("Frame Width (mm)", a.frameW),
		widget.NewFormItem("Frame Height (mm)", container.NewBorder(nil, nil, nil, swapFrame, a.frameH)),
		widget.NewFormItem("Horizontal Gap (mm)", a.gapH),
		widget.NewFormItem("Vertical Gap (mm)", a.gapV),
	)

	proof := widget.NewCheck("Proof sheet", func(b bool) { a.outputs.Proof = b })
	proof.SetChecked(a.outputs.Proof)
	dxf := widget.NewCheck("DXF cut files", func(b bool) { a.outputs.DXF = b })
	report := widget.NewCheck("Excel report", func(b bool) { a.outputs.Report = b })
	tickets := widget.NewCheck("Job tickets", func(b bool) { a.outputs.Tickets = b })
	nc := widget.NewCheck("Cutter programs", func(b bool) { a.outputs.GCode = b })

	outputs := widget.NewCard("Output", "", container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("PDF"), nil, a.outputEntry),
		a.cutContour,
		container.NewGridWithColumns(2, proof, dxf, report, tickets, nc),
	))

	planCard := widget.NewCard("Layout", "", a.planLabel)

	actions := container.NewVBox(
		container.NewGridWithColumns(2, a.runBtn, a.cancelBtn),
		a.progress,
		a.statusLabel,
	)

	return container.NewBorder(nil, actions, nil, nil,
		container.NewVScroll(container.NewVBox(form, planCard, outputs)))
}

// readInputs returns the raw text of the form fields.
func (a *App) readInputs() gang.Inputs {
	return gang.Inputs{
		Folder:      a.folderEntry.Text,
		PageWidth:   a.pageW.Text,
		PageHeight:  a.pageH.Text,
		FrameWidth:  a.frameW.Text,
		FrameHeight: a.frameH.Text,
		GapH:        a.gapH.Text,
		GapV:        a.gapV.Text,
	}
}

func (a *App) setInputs(in gang.Inputs, cutContour bool) {
	a.folderEntry.SetText(in.Folder)
	a.pageW.SetText(in.PageWidth)
	a.pageH.SetText(in.PageHeight)
	a.frameW.SetText(in.FrameWidth)
	a.frameH.SetText(in.FrameHeight)
	a.gapH.SetText(in.GapH)
	a.gapV.SetText(in.GapV)
	a.cutContour.SetChecked(cutContour)
	a.updatePlan()
}

func (a *App) snapshot(label string) Snapshot {
	return MakeSnapshot(a.readInputs(), a.cutContour.Checked, label)
}

func (a *App) pushHistory(label string) {
	a.history.Push(a.snapshot(label))
}

func (a *App) restore(s Snapshot) {
	folder := a.folderEntry.Text
	a.setInputs(s.Inputs, s.CutContour)
	if s.Inputs.Folder != folder {
		a.folderChanged()
	}
}

func (a *App) undo() {
	if s, ok := a.history.Undo(a.snapshot("current")); ok {
		a.restore(s)
	}
}

func (a *App) redo() {
	if s, ok := a.history.Redo(a.snapshot("current")); ok {
		a.restore(s)
	}
}

func (a *App) swapPage() {
	a.pushHistory("Swap page")
	w, h := a.pageW.Text, a.pageH.Text
	a.pageW.SetText(h)
	a.pageH.SetText(w)
}

func (a *App) swapFrame() {
	a.pushHistory("Swap frame")
	w, h := a.frameW.Text, a.frameH.Text
	a.frameW.SetText(h)
	a.frameH.SetText(w)
}

func (a *App) resetDefaults() {
	a.pushHistory("Reset to defaults")
	var j model.JobSettings
	a.config.ApplyToJob(&j)
	j.Folder = a.folderEntry.Text
	a.setInputs(gang.InputsFromJob(j), j.Outline.Stroke)
}

func (a *App) browseFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		a.pushHistory("Choose folder")
		a.folderEntry.SetText(uri.Path())
		a.folderChanged()
	}, a.window)
}

// folderChanged rescans the folder so the plan shows the page count.
func (a *App) folderChanged() {
	a.imageCount = 0
	if dir := strings.TrimSpace(a.folderEntry.Text); dir != "" {
		images, err := importer.ScanFolder(dir)
		if err != nil {
			a.statusLabel.SetText(err.Error())
		} else {
			a.imageCount = len(images)
			a.statusLabel.SetText(fmt.Sprintf("%d image(s) in %s", len(images), filepath.Base(dir)))
		}
	}
	a.updatePlan()
}

// updatePlan shows how many frames fit with the current numbers.
func (a *App) updatePlan() {
	if a.planLabel == nil {
		return
	}
	in := a.readInputs()
	in.Folder = "-" // only the numbers matter here
	job, err := gang.ParseInputs(in, a.job)
	if err != nil {
		a.planLabel.SetText(err.Error())
		return
	}
	cmp := engine.CompareOrientations(job.Page, job.Frame, job.Gap)
	if cmp.Chosen.Empty() {
		a.planLabel.SetText("The frame does not fit on the page in either orientation.")
		return
	}

	text := cmp.Upright.String() + "\n" + cmp.Rotated.String() + "\n\n" +
		fmt.Sprintf("%d frame(s) per page, %s", cmp.Chosen.PerPage(), orientationName(cmp.Chosen.Rotated))
	if a.imageCount > 0 {
		text += fmt.Sprintf("\n%d image(s) need %d page(s)", a.imageCount, engine.PagesNeeded(a.imageCount, cmp.Chosen))
	}
	a.planLabel.SetText(text)
}

func orientationName(rotated bool) string {
	if rotated {
		return "rotated 90°"
	}
	return "upright"
}

// ─── Run ───────────────────────────────────────────────────

// runGang validates the form and runs the job in the background.
func (a *App) runGang() {
	if a.cancel != nil {
		return
	}
	base := a.job
	if a.cutContour.Checked {
		base.Outline = model.CutContourStyle()
	} else {
		base.Outline = model.OutlineStyle{}
	}
	job, err := gang.ParseInputs(a.readInputs(), base)
	if err != nil {
		a.showError(err)
		return
	}

	out := a.outputs
	out.PDF = strings.TrimSpace(a.outputEntry.Text)
	if out.PDF == "" {
		out.PDF = project.DefaultOutputPath(job.Folder, a.config.OutputDir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.setRunning(true)

	go func() {
		summary, bundle, err := a.impose(ctx, job, out)
		fyne.Do(func() {
			cancel()
			a.cancel = nil
			a.setRunning(false)
			if err != nil {
				a.showError(err)
				return
			}
			a.finish(job, out, summary, bundle)
		})
	}()
}

// impose runs the job against a PDF host and writes the selected outputs.
// It runs off the UI goroutine; every widget update goes through fyne.Do.
func (a *App) impose(ctx context.Context, job model.JobSettings, out project.Outputs) (gang.Summary, export.Bundle, error) {
	runner := gang.New(job)
	runner.Logger = a.logger
	runner.Progress = func(done, total int) {
		fyne.Do(func() {
			a.progress.SetValue(float64(done) / float64(total))
		})
	}

	host := export.NewPDFHost()
	host.Title = filepath.Base(filepath.Clean(job.Folder))
	host.OnRedraw = func() {
		fyne.Do(func() { a.statusLabel.SetText("Writing " + filepath.Base(out.PDF)) })
	}

	summary, err := runner.Run(ctx, host)
	if err != nil {
		return summary, export.Bundle{}, err
	}
	if err := host.Save(out.PDF); err != nil {
		return summary, export.Bundle{}, fmt.Errorf("save %s: %w", out.PDF, err)
	}

	gen := gcode.NewWithProfile(job.Cutter, project.ResolveProfile(job.Cutter.Profile, a.profiles))
	bundle, err := export.WriteBundle(summary.Result, out, gen)
	return summary, bundle, err
}

func (a *App) setRunning(running bool) {
	if running {
		a.runBtn.Disable()
		a.cancelBtn.Enable()
		a.progress.SetValue(0)
		a.progress.Show()
		a.statusLabel.SetText("Ganging...")
		return
	}
	a.runBtn.Enable()
	a.cancelBtn.Disable()
	a.progress.Hide()
	a.statusLabel.SetText("")
}

// finish shows the result and remembers the folder.
func (a *App) finish(job model.JobSettings, out project.Outputs, summary gang.Summary, bundle export.Bundle) {
	result := summary.Result
	a.result = &result
	a.programs = bundle.Programs
	a.refreshResults()

	if abs, err := filepath.Abs(job.Folder); err == nil {
		a.config.AddRecentFolder(abs, maxRecentFolders)
		a.recentSelect.SetOptions(a.config.RecentFolders)
		if err := a.saveConfig(); err != nil {
			a.logger.Warn("could not save preferences", "err", err)
		}
	}

	files := append([]string{out.PDF}, bundle.Files...)
	a.logger.Info("ganged", "pages", summary.Pages, "images", summary.Images, "files", len(files))
	a.statusLabel.SetText(summary.String())
	dialog.ShowInformation("Ganging Complete", summaryMessage(summary, files), a.window)
}

func summaryMessage(s gang.Summary, files []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Created %d page(s) with %d image(s).\n", s.Pages, s.Images)
	fmt.Fprintf(&b, "Grid: %d columns x %d rows, %s.\n\n", s.Columns, s.Rows, orientationName(s.Rotated))
	for _, f := range files {
		b.WriteString(filepath.Base(f) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) refreshResults() {
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderPages(a.result))
	a.resultContainer.Refresh()

	a.cutContainer.RemoveAll()
	if a.result == nil || len(a.programs) == 0 {
		a.cutContainer.Add(widget.NewLabel("Enable cutter output to preview the knife path."))
	} else {
		a.cutContainer.Add(a.buildCutTab())
	}
	a.cutContainer.Refresh()
}

func (a *App) buildCutTab() fyne.CanvasObject {
	preview := container.NewStack()
	stats := widget.NewLabel("")

	names := make([]string, len(a.programs))
	for i := range a.programs {
		names[i] = fmt.Sprintf("Page %d", i+1)
	}
	pageSelect := widget.NewSelect(names, func(name string) {
		for i, n := range names {
			if n != name {
				continue
			}
			preview.RemoveAll()
			preview.Add(widgets.RenderCutPreview(*a.result, i, a.programs[i]))
			preview.Refresh()
			s := gcode.Summarize(gcode.ParseGCode(a.programs[i]))
			stats.SetText(fmt.Sprintf("Cut %.0f mm, travel %.0f mm, %d plunge(s), about %.1f min",
				s.CutLength, s.TravelLength, s.Plunges, s.EstimatedMinutes(a.job.Cutter.FeedRate, gcode.DefaultRapidRate)))
		}
	})
	pageSelect.SetSelectedIndex(0)

	return container.NewBorder(container.NewVBox(pageSelect, stats), nil, nil, nil, container.NewScroll(preview))
}

// ─── Errors ────────────────────────────────────────────────

// describe maps a run error to a dialog title and message. Silent errors
// are not shown at all.
func describe(err error) (title, msg string, silent bool) {
	switch {
	case errors.Is(err, gang.ErrCancelled), errors.Is(err, context.Canceled):
		return "", "", true
	case errors.Is(err, gang.ErrInvalidNumber):
		return "Invalid Input", err.Error(), false
	case errors.Is(err, gang.ErrInvalidDimension):
		return "Invalid Dimension", err.Error(), false
	case errors.Is(err, gang.ErrNothingFits):
		return "Frame Too Large", "The frame does not fit on the page in either orientation.\n" +
			"Reduce the frame size or the gaps, or use a larger page.", false
	case errors.Is(err, importer.ErrNoImages):
		return "No Images", err.Error(), false
	case errors.Is(err, gang.ErrDocumentOpen):
		return "Document Open", err.Error(), false
	default:
		return "Ganging Failed", err.Error(), false
	}
}

func (a *App) showError(err error) {
	title, msg, silent := describe(err)
	if silent {
		a.logger.Debug("run stopped", "err", err)
		return
	}
	a.logger.Error(title, "err", err)
	dialog.ShowError(errors.New(msg), a.window)
	a.statusLabel.SetText(title)
}

// ─── Job files ─────────────────────────────────────────────

func (a *App) openJobFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		jf, err := project.LoadJobFile(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.pushHistory("Open job file")
		job := a.job
		out := a.outputs
		project.ApplyJobFile(&job, &out, jf, nil)
		a.job = job
		a.outputs = out
		a.outputEntry.SetText(out.PDF)
		a.setInputs(gang.InputsFromJob(job), job.Outline.Stroke)
		a.folderChanged()
	}, a.window)
}

func (a *App) saveJobFile() {
	job, err := gang.ParseInputs(a.readInputs(), a.job)
	if err != nil {
		a.showError(err)
		return
	}
	if a.cutContour.Checked {
		job.Outline = model.CutContourStyle()
	} else {
		job.Outline = model.OutlineStyle{}
	}
	out := a.outputs
	out.PDF = strings.TrimSpace(a.outputEntry.Text)

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.SaveJobFile(path, job, out); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFileName(filepath.Base(filepath.Clean(job.Folder)) + ".toml")
	d.Show()
}
