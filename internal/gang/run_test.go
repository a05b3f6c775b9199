package gang

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SheetGang/internal/engine"
	"github.com/piwi3910/SheetGang/internal/importer"
	"github.com/piwi3910/SheetGang/internal/model"
)

// imageFolder creates n placeholder image files. The Recorder never decodes
// them, so their content does not matter.
func imageFolder(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("card_%02d.jpg", i+1))
		require.NoError(t, os.WriteFile(name, []byte("jpg"), 0644))
	}
	return dir
}

// a4Job uses a 4x3 upright grid (12 per page).
func a4Job(folder string) model.JobSettings {
	return model.JobSettings{
		Folder: folder,
		Page:   model.PageSpec{Width: 210, Height: 297},
		Frame:  model.FrameSpec{Width: 50, Height: 75},
	}
}

func countOps(rec *Recorder, op string) int {
	n := 0
	for _, c := range rec.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func TestRun_SinglePage(t *testing.T) {
	rec := NewRecorder()
	summary, err := New(a4Job(imageFolder(t, 7))).Run(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Pages)
	assert.Equal(t, 7, summary.Images)
	assert.Equal(t, 4, summary.Columns)
	assert.Equal(t, 3, summary.Rows)
	assert.False(t, summary.Rotated)

	assert.Equal(t, 1, rec.PageCount())
	assert.Equal(t, 0, countOps(rec, "NewPage"))
	assert.Len(t, rec.ObjectsOn(1, "image"), 7, "no frames for the 5 empty cells")
	assert.Len(t, rec.ObjectsOn(1, "rect"), 7)
	assert.Equal(t, model.PageSpec{Width: 210, Height: 297}, rec.PageSize())
}

func TestRun_MultiPage(t *testing.T) {
	rec := NewRecorder()
	summary, err := New(a4Job(imageFolder(t, 15))).Run(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, 2, rec.PageCount())
	assert.Len(t, rec.ObjectsOn(1, "image"), 12)

	second := rec.ObjectsOn(2, "image")
	require.Len(t, second, 3)
	l := summary.Result.Layout
	for i, obj := range second {
		assert.Equal(t, engine.CellRect(l, i), obj.Rect, "page 2 uses its first cells")
	}
	assert.Equal(t, "card_13.jpg", filepath.Base(second[0].Image))
}

func TestRun_FramesAndOutlinesArePaired(t *testing.T) {
	rec := NewRecorder()
	job := a4Job(imageFolder(t, 5))
	job.Outline = model.CutContourStyle()

	_, err := New(job).Run(context.Background(), rec)
	require.NoError(t, err)

	images := rec.ObjectsOn(1, "image")
	rects := rec.ObjectsOn(1, "rect")
	require.Len(t, rects, len(images))
	for i := range images {
		assert.Equal(t, model.ImageLayerName, images[i].Layer)
		assert.Equal(t, model.CutLayerName, rects[i].Layer)
		assert.Equal(t, images[i].Rect, rects[i].Rect)
		assert.Equal(t, images[i].Rotation, rects[i].Rotation)
		assert.True(t, images[i].Scaled)
		assert.NotEmpty(t, images[i].Image)
		assert.Equal(t, model.CutContourStyle(), rects[i].Style)
	}
}

func TestRun_DefaultOutlineIsBorderless(t *testing.T) {
	rec := NewRecorder()
	_, err := New(a4Job(imageFolder(t, 1))).Run(context.Background(), rec)
	require.NoError(t, err)

	rects := rec.ObjectsOn(1, "rect")
	require.Len(t, rects, 1)
	assert.False(t, rects[0].Style.Fill)
	assert.False(t, rects[0].Style.Stroke)
}

func TestRun_RotatedLayout(t *testing.T) {
	rec := NewRecorder()
	job := a4Job(imageFolder(t, 3))
	job.Gap = model.GapSpec{Horizontal: 5, Vertical: 5} // rotated 2x5 beats upright 3x3

	summary, err := New(job).Run(context.Background(), rec)
	require.NoError(t, err)
	require.True(t, summary.Rotated)

	for i, obj := range rec.Objects {
		assert.Equal(t, 90.0, obj.Rotation, "object %d", i)
		assert.Equal(t, 50.0, obj.Rect.Width, "pre-rotation frame keeps the original width")
		assert.Equal(t, 75.0, obj.Rect.Height)
	}
	assert.Equal(t, 6, countOps(rec, "Rotate"))
}

func TestRun_LayersCreatedOnce(t *testing.T) {
	rec := NewRecorder()
	require.NoError(t, rec.CreateLayer(model.ImageLayerName))

	_, err := New(a4Job(imageFolder(t, 2))).Run(context.Background(), rec)
	require.NoError(t, err)

	created := map[string]int{}
	for _, c := range rec.Calls {
		if c.Op == "CreateLayer" {
			created[c.Layer]++
		}
	}
	assert.Equal(t, 1, created[model.ImageLayerName], "existing layer must not be recreated")
	assert.Equal(t, 1, created[model.CutLayerName])

	printable, ok := rec.LayerPrintable(model.CutLayerName)
	require.True(t, ok)
	assert.False(t, printable, "cut layer must not print")
	printable, _ = rec.LayerPrintable(model.ImageLayerName)
	assert.True(t, printable)
}

func TestRun_RefusesWhenDocumentOpen(t *testing.T) {
	rec := NewRecorder()
	rec.OpenDocument = true

	_, err := New(a4Job(imageFolder(t, 3))).Run(context.Background(), rec)
	assert.ErrorIs(t, err, ErrDocumentOpen)
	assert.Zero(t, countOps(rec, "NewDocument"))
	assert.True(t, rec.Redraw())
}

func TestRun_AbortsBeforeDocument(t *testing.T) {
	tests := []struct {
		name    string
		job     func(t *testing.T) model.JobSettings
		wantErr error
	}{
		{
			name: "nothing fits",
			job: func(t *testing.T) model.JobSettings {
				j := a4Job(imageFolder(t, 2))
				j.Page = model.PageSpec{Width: 100, Height: 100}
				j.Frame = model.FrameSpec{Width: 200, Height: 200}
				return j
			},
			wantErr: ErrNothingFits,
		},
		{
			name:    "no images",
			job:     func(t *testing.T) model.JobSettings { return a4Job(t.TempDir()) },
			wantErr: importer.ErrNoImages,
		},
		{
			name:    "missing folder",
			job:     func(t *testing.T) model.JobSettings { return a4Job(filepath.Join(t.TempDir(), "gone")) },
			wantErr: os.ErrNotExist,
		},
		{
			name: "invalid dimension",
			job: func(t *testing.T) model.JobSettings {
				j := a4Job(imageFolder(t, 1))
				j.Frame.Width = -1
				return j
			},
			wantErr: ErrInvalidDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecorder()
			_, err := New(tt.job(t)).Run(context.Background(), rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, countOps(rec, "NewDocument"), "no document may be created")
			assert.Equal(t, []bool{false, true}, rec.RedrawLog())
		})
	}
}

func TestRun_RedrawRestoredOnHostFailure(t *testing.T) {
	rec := NewRecorder()
	rec.FailOn = "LoadImage"

	_, err := New(a4Job(imageFolder(t, 4))).Run(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_01.jpg")
	assert.Equal(t, []bool{false, true}, rec.RedrawLog())
	assert.True(t, rec.Redraw())
}

func TestRun_RedrawRestoredOnPanic(t *testing.T) {
	rec := NewRecorder()
	rec.PanicOn = "CreateRect"

	assert.Panics(t, func() {
		_, _ = New(a4Job(imageFolder(t, 2))).Run(context.Background(), rec)
	})
	assert.True(t, rec.Redraw())
	assert.Equal(t, []bool{false, true}, rec.RedrawLog())
}

func TestRun_RemovesDefaultLayer(t *testing.T) {
	rec := NewRecorder()
	_, err := New(a4Job(imageFolder(t, 3))).Run(context.Background(), rec)
	require.NoError(t, err)

	assert.False(t, rec.LayerExists(model.DefaultLayerName))
	assert.Equal(t, 1, countOps(rec, "DeleteLayer"))
	for _, obj := range rec.Objects {
		assert.NotEqual(t, model.DefaultLayerName, obj.Layer)
	}

	var order []string
	for _, c := range rec.Calls {
		if c.Op == "DeleteLayer" || c.Op == "CreateLayer" {
			order = append(order, c.Op+" "+c.Layer)
		}
	}
	assert.Equal(t, []string{
		"DeleteLayer " + model.DefaultLayerName,
		"CreateLayer " + model.ImageLayerName,
		"CreateLayer " + model.CutLayerName,
	}, order)
}

func TestRun_DefaultLayerRemovalFails(t *testing.T) {
	rec := NewRecorder()
	rec.FailOn = "DeleteLayer"

	_, err := New(a4Job(imageFolder(t, 1))).Run(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.DefaultLayerName)
	assert.Empty(t, rec.Objects)
	assert.True(t, rec.Redraw())
}

func TestRun_RedrawSuspendedWhilePlacing(t *testing.T) {
	rec := NewRecorder()
	_, err := New(a4Job(imageFolder(t, 2))).Run(context.Background(), rec)
	require.NoError(t, err)

	require.NotEmpty(t, rec.Calls)
	assert.Equal(t, "SetRedraw", rec.Calls[0].Op)
	assert.Equal(t, "false", rec.Calls[0].Arg)
	last := rec.Calls[len(rec.Calls)-1]
	assert.Equal(t, "SetRedraw", last.Op)
	assert.Equal(t, "true", last.Arg)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := NewRecorder()
	_, err := New(a4Job(imageFolder(t, 3))).Run(ctx, rec)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, rec.Redraw())
}

func TestRun_Progress(t *testing.T) {
	var seen []int
	r := New(a4Job(imageFolder(t, 13)))
	r.Progress = func(done, total int) {
		assert.Equal(t, 13, total)
		seen = append(seen, done)
	}

	_, err := r.Run(context.Background(), NewRecorder())
	require.NoError(t, err)
	require.Len(t, seen, 13)
	assert.Equal(t, 13, seen[12])
}

func TestSummaryString(t *testing.T) {
	s := Summary{Pages: 2, Images: 15, Columns: 4, Rows: 3}
	assert.Equal(t, "2 page(s), 15 image(s), grid 4 columns x 3 rows", s.String())
}
