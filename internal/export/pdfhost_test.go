package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SheetGang/internal/gang"
	"github.com/piwi3910/SheetGang/internal/model"
)

// writePNGs creates n small PNG files in a fresh directory.
func writePNGs(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 40, 20))
		for x := 0; x < 40; x++ {
			img.Set(x, x%20, color.RGBA{R: uint8(i * 40), A: 255})
		}
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("img_%02d.png", i+1)))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	return dir
}

func testJob(folder string) model.JobSettings {
	return model.JobSettings{
		Folder: folder,
		Page:   model.PageSpec{Width: 210, Height: 297},
		Frame:  model.FrameSpec{Width: 50, Height: 75},
	}
}

func runPDF(t *testing.T, job model.JobSettings) (*PDFHost, gang.Summary) {
	t.Helper()
	host := NewPDFHost()
	host.Compress = false
	summary, err := gang.New(job).Run(context.Background(), host)
	require.NoError(t, err)
	return host, summary
}

func TestPDFHost_RendersGangedDocument(t *testing.T) {
	host, summary := runPDF(t, testJob(writePNGs(t, 14)))
	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, 2, host.PageCount())

	var buf bytes.Buffer
	require.NoError(t, host.Output(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Equal(t, 2, strings.Count(out, "<</Type /Page\n"), "one PDF page per layout page")
	assert.Contains(t, out, "/OCProperties")
	assert.Regexp(t, regexp.MustCompile(`/OFF \[\d+ 0 R \]`), out, "cut layer is off by default")
	assert.False(t, host.LayerExists(model.DefaultLayerName))
	assert.NotContains(t, out, model.DefaultLayerName, "default layer is removed")
}

func TestPDFHost_BorderlessOutline(t *testing.T) {
	host, _ := runPDF(t, testJob(writePNGs(t, 2)))

	var buf bytes.Buffer
	require.NoError(t, host.Output(&buf))
	assert.Equal(t, 2, strings.Count(buf.String(), " re n\n"), "outline paths are neither filled nor stroked")
	assert.NotContains(t, buf.String(), "/Separation")
}

func TestPDFHost_CutContourOutline(t *testing.T) {
	job := testJob(writePNGs(t, 2))
	job.Outline = model.CutContourStyle()
	host, _ := runPDF(t, job)

	var buf bytes.Buffer
	require.NoError(t, host.Output(&buf))
	out := buf.String()
	assert.Contains(t, out, "/Separation /CutContour")
	assert.Equal(t, 2, strings.Count(out, " re S\n"))
}

func TestPDFHost_RotatedObjectsAreTransformed(t *testing.T) {
	job := testJob(writePNGs(t, 1))
	job.Gap = model.GapSpec{Horizontal: 5, Vertical: 5}
	host, summary := runPDF(t, job)
	require.True(t, summary.Rotated)

	var buf bytes.Buffer
	require.NoError(t, host.Output(&buf))
	// One transform per rotated object: the frame and its outline.
	assert.Equal(t, 2, strings.Count(buf.String(), " cm\n"))
}

func TestPDFHost_SaveWritesFile(t *testing.T) {
	host, _ := runPDF(t, testJob(writePNGs(t, 3)))
	path := filepath.Join(t.TempDir(), "sheet.pdf")

	require.NoError(t, host.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))
}

func TestPDFHost_EmbedsTIFF(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	require.NoError(t, imaging.Save(img, filepath.Join(dir, "scan.tif")))

	host, _ := runPDF(t, testJob(dir))
	var buf bytes.Buffer
	require.NoError(t, host.Output(&buf))
	assert.Contains(t, buf.String(), "/Subtype /Image")
}

func TestPDFHost_Errors(t *testing.T) {
	host := NewPDFHost()

	var buf bytes.Buffer
	assert.Error(t, host.Output(&buf), "nothing to render without a document")
	assert.Error(t, host.NewPage())

	require.NoError(t, host.NewDocument(model.PageSpec{Width: 100, Height: 100}))
	assert.Error(t, host.NewDocument(model.PageSpec{Width: 100, Height: 100}))

	assert.True(t, host.LayerExists(model.DefaultLayerName))
	require.NoError(t, host.DeleteLayer(model.DefaultLayerName))
	assert.Error(t, host.DeleteLayer(model.DefaultLayerName))

	_, err := host.CreateRect(model.Rect{Width: 10, Height: 10})
	assert.Error(t, err, "no active layer")

	require.NoError(t, host.CreateLayer("art"))
	assert.Error(t, host.CreateLayer("art"))
	require.NoError(t, host.SetActiveLayer("art"))

	rect, err := host.CreateRect(model.Rect{Width: 10, Height: 10})
	require.NoError(t, err)
	assert.Error(t, host.DeleteLayer("art"), "layer holds an object")
	assert.Error(t, host.LoadImage(rect, "x.png"), "rectangles hold no image")
	assert.Error(t, host.Rotate("missing", 90))

	frame, err := host.CreateImageFrame(model.Rect{Width: 10, Height: 10})
	require.NoError(t, err)
	require.NoError(t, host.LoadImage(frame, filepath.Join(t.TempDir(), "gone.png")))
	assert.Error(t, host.Output(&buf), "missing image fails the render")

	host.Close()
	assert.False(t, host.HasDocument())
}

func TestPDFHost_RedrawCallback(t *testing.T) {
	host := NewPDFHost()
	calls := 0
	host.OnRedraw = func() { calls++ }

	host.SetRedraw(false)
	assert.False(t, host.Redrawing())
	host.SetRedraw(true)
	assert.True(t, host.Redrawing())
	assert.Equal(t, 1, calls)
}

func TestFitContain(t *testing.T) {
	w, h := fitContain(40, 20, 50, 75)
	assert.InDelta(t, 50.0, w, 1e-9)
	assert.InDelta(t, 25.0, h, 1e-9)

	w, h = fitContain(10, 30, 50, 75)
	assert.InDelta(t, 25.0, w, 1e-9)
	assert.InDelta(t, 75.0, h, 1e-9)
}
