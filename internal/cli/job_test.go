package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SheetGang/internal/model"
)

// parsedJobCmd returns a command with the job flags registered and argv parsed.
func parsedJobCmd(t *testing.T, argv ...string) (*cobra.Command, *jobFlags) {
	t.Helper()
	var f jobFlags
	cmd := &cobra.Command{Use: "test"}
	f.registerLayout(cmd.Flags())
	f.registerOutputs(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(argv))
	return cmd, &f
}

func TestResolve_ConfigDefaults(t *testing.T) {
	cmd, f := parsedJobCmd(t)
	cfg := model.DefaultAppConfig()
	cfg.DefaultFrameWidth = 63
	cfg.DefaultCutContour = true

	job, out, err := f.resolve(cmd, []string{"/srv/cards"}, cfg)
	require.NoError(t, err)

	assert.Equal(t, "/srv/cards", job.Folder)
	assert.Equal(t, model.PageSpec{Width: 297, Height: 420}, job.Page)
	assert.Equal(t, 63.0, job.Frame.Width)
	assert.Equal(t, model.CutContourStyle(), job.Outline)
	assert.Equal(t, "/srv/cards-gang.pdf", out.PDF)
}

func TestResolve_Precedence(t *testing.T) {
	jobPath := filepath.Join(t.TempDir(), "job.toml")
	require.NoError(t, os.WriteFile(jobPath, []byte(`
folder = "/from/file"

[page]
width = 320
height = 450

[frame]
width = 85
height = 55

[outputs]
dxf = true
report = true
`), 0644))

	cmd, f := parsedJobCmd(t, "--job", jobPath, "--frame-width", "90", "--report=false", "--gap-h", "0")
	cfg := model.DefaultAppConfig()
	cfg.DefaultGapH = 4

	job, out, err := f.resolve(cmd, nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, "/from/file", job.Folder)
	assert.Equal(t, model.PageSpec{Width: 320, Height: 450}, job.Page, "file beats config")
	assert.Equal(t, model.FrameSpec{Width: 90, Height: 55}, job.Frame, "flag beats file")
	assert.Equal(t, 0.0, job.Gap.Horizontal, "explicit zero flag beats config")
	assert.True(t, out.DXF)
	assert.False(t, out.Report)
}

func TestResolve_ArgumentBeatsFile(t *testing.T) {
	jobPath := filepath.Join(t.TempDir(), "job.toml")
	require.NoError(t, os.WriteFile(jobPath, []byte(`folder = "/from/file"`), 0644))

	cmd, f := parsedJobCmd(t, "--job", jobPath)
	job, _, err := f.resolve(cmd, []string{"/from/arg"}, model.DefaultAppConfig())
	require.NoError(t, err)
	assert.Equal(t, "/from/arg", job.Folder)
}

func TestResolve_Errors(t *testing.T) {
	cmd, f := parsedJobCmd(t)
	_, _, err := f.resolve(cmd, nil, model.DefaultAppConfig())
	assert.ErrorIs(t, err, errNoFolder)

	cmd, f = parsedJobCmd(t, "--job", filepath.Join(t.TempDir(), "missing.toml"))
	_, _, err = f.resolve(cmd, []string{"/x"}, model.DefaultAppConfig())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve_CutContourFlagOff(t *testing.T) {
	cmd, f := parsedJobCmd(t, "--cut-contour=false")
	cfg := model.DefaultAppConfig()
	cfg.DefaultCutContour = true

	job, _, err := f.resolve(cmd, []string{"/x"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, model.OutlineStyle{}, job.Outline)
}
