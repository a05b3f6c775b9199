package gang

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/SheetGang/internal/engine"
	"github.com/piwi3910/SheetGang/internal/importer"
	"github.com/piwi3910/SheetGang/internal/model"
)

var (
	// ErrDocumentOpen means the host already has a document open.
	ErrDocumentOpen = errors.New("a document is already open; save and close it before ganging")
	// ErrNothingFits means the frame does not fit on the page at all.
	ErrNothingFits = engine.ErrNothingFits
)

// rotation applied to frames and outlines when the rotated layout wins.
const rotationDegrees = 90.0

// Summary reports what a run produced.
type Summary struct {
	Pages   int
	Images  int
	Columns int
	Rows    int
	Rotated bool
	Result  model.GangResult
}

func (s Summary) String() string {
	return fmt.Sprintf("%d page(s), %d image(s), grid %d columns x %d rows", s.Pages, s.Images, s.Columns, s.Rows)
}

// Runner places the images of one job onto a host document.
type Runner struct {
	Job    model.JobSettings
	Logger *log.Logger
	// Progress, when set, is called after each image is placed.
	Progress func(done, total int)
}

func New(job model.JobSettings) *Runner {
	return &Runner{Job: job, Logger: log.Default()}
}

// Run executes the job. Every precondition is checked before the document is
// created, so a failed check leaves the host untouched. Redraw is suspended
// for the whole run and restored on every exit path.
func (r *Runner) Run(ctx context.Context, host Host) (Summary, error) {
	defer suspendRedraw(host)()

	if host.HasDocument() {
		return Summary{}, ErrDocumentOpen
	}
	if err := Validate(r.Job); err != nil {
		return Summary{}, err
	}

	images, err := importer.ScanFolder(r.Job.Folder)
	if err != nil {
		return Summary{}, err
	}
	r.logger().Debug("discovered images", "folder", r.Job.Folder, "count", len(images))

	result, err := engine.Gang(images, r.Job.Page, r.Job.Frame, r.Job.Gap)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: frame %.1f x %.1f mm on page %.1f x %.1f mm, check the measurements",
			err, r.Job.Frame.Width, r.Job.Frame.Height, r.Job.Page.Width, r.Job.Page.Height)
	}
	r.logger().Debug("layout",
		"columns", result.Layout.Columns, "rows", result.Layout.Rows,
		"rotated", result.Layout.Rotated, "pages", result.PageCount())

	if err := r.setupDocument(host); err != nil {
		return Summary{}, err
	}
	if err := r.place(ctx, host, result); err != nil {
		return Summary{}, err
	}

	return Summary{
		Pages:   result.PageCount(),
		Images:  result.ImageCount(),
		Columns: result.Layout.Columns,
		Rows:    result.Layout.Rows,
		Rotated: result.Layout.Rotated,
		Result:  result,
	}, nil
}

func (r *Runner) setupDocument(host Host) error {
	if err := host.NewDocument(r.Job.Page); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	if host.LayerExists(model.DefaultLayerName) {
		if err := host.DeleteLayer(model.DefaultLayerName); err != nil {
			return fmt.Errorf("failed to remove layer %s: %w", model.DefaultLayerName, err)
		}
	}
	for _, layer := range []struct {
		name      string
		printable bool
	}{
		{model.ImageLayerName, true},
		{model.CutLayerName, false},
	} {
		if !host.LayerExists(layer.name) {
			if err := host.CreateLayer(layer.name); err != nil {
				return fmt.Errorf("failed to create layer %s: %w", layer.name, err)
			}
		}
		if err := host.SetLayerPrintable(layer.name, layer.printable); err != nil {
			return fmt.Errorf("failed to configure layer %s: %w", layer.name, err)
		}
	}
	return nil
}

func (r *Runner) place(ctx context.Context, host Host, result model.GangResult) error {
	total := result.ImageCount()
	done := 0
	for i, page := range result.Pages {
		if i > 0 {
			if err := host.NewPage(); err != nil {
				return fmt.Errorf("failed to add page %d: %w", page.Number, err)
			}
		}
		for _, p := range page.Placements {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.placeOne(host, p); err != nil {
				return fmt.Errorf("page %d cell %d (%s): %w", p.Page, p.Cell+1, p.ImagePath, err)
			}
			done++
			if r.Progress != nil {
				r.Progress(done, total)
			}
		}
	}
	return nil
}

// placeOne creates the image frame and its paired cut outline. Both share
// the same rectangle and rotation.
func (r *Runner) placeOne(host Host, p model.Placement) error {
	rect := engine.FrameRect(p.Bounds, p.Rotated)

	if err := host.SetActiveLayer(model.ImageLayerName); err != nil {
		return err
	}
	frame, err := host.CreateImageFrame(rect)
	if err != nil {
		return err
	}
	if err := host.LoadImage(frame, p.ImagePath); err != nil {
		return err
	}
	if err := host.ScaleImageToFrame(frame, true); err != nil {
		return err
	}
	if p.Rotated {
		if err := host.Rotate(frame, rotationDegrees); err != nil {
			return err
		}
	}

	if err := host.SetActiveLayer(model.CutLayerName); err != nil {
		return err
	}
	outline, err := host.CreateRect(rect)
	if err != nil {
		return err
	}
	if err := host.SetShapeStyle(outline, r.Job.Outline); err != nil {
		return err
	}
	if p.Rotated {
		if err := host.Rotate(outline, rotationDegrees); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
