package gang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SheetGang/internal/model"
)

func validInputs() Inputs {
	return Inputs{
		Folder:      "/tmp/cards",
		PageWidth:   "297",
		PageHeight:  "420.0",
		FrameWidth:  "90",
		FrameHeight: "50",
	}
}

func TestParseInputs_Valid(t *testing.T) {
	job, err := ParseInputs(validInputs(), model.DefaultJobSettings())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cards", job.Folder)
	assert.Equal(t, model.PageSpec{Width: 297, Height: 420}, job.Page)
	assert.Equal(t, model.FrameSpec{Width: 90, Height: 50}, job.Frame)
	assert.Equal(t, model.GapSpec{}, job.Gap, "blank gaps default to zero")
}

func TestParseInputs_LenientFormats(t *testing.T) {
	in := validInputs()
	in.GapH = " 2,5 "
	in.GapV = "3 mm"

	job, err := ParseInputs(in, model.JobSettings{})
	require.NoError(t, err)
	assert.Equal(t, 2.5, job.Gap.Horizontal)
	assert.Equal(t, 3.0, job.Gap.Vertical)
}

func TestParseInputs_KeepsBaseSettings(t *testing.T) {
	base := model.DefaultJobSettings()
	base.Outline = model.CutContourStyle()

	job, err := ParseInputs(validInputs(), base)
	require.NoError(t, err)
	assert.Equal(t, model.CutContourStyle(), job.Outline)
	assert.Equal(t, base.Cutter, job.Cutter)
}

func TestParseInputs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Inputs)
		wantErr error
	}{
		{"blank folder", func(in *Inputs) { in.Folder = "  " }, ErrCancelled},
		{"text width", func(in *Inputs) { in.PageWidth = "wide" }, ErrInvalidNumber},
		{"missing height", func(in *Inputs) { in.FrameHeight = "" }, ErrInvalidNumber},
		{"text gap", func(in *Inputs) { in.GapV = "x" }, ErrInvalidNumber},
		{"nan", func(in *Inputs) { in.PageHeight = "NaN" }, ErrInvalidNumber},
		{"zero frame", func(in *Inputs) { in.FrameWidth = "0" }, ErrInvalidDimension},
		{"negative page", func(in *Inputs) { in.PageWidth = "-297" }, ErrInvalidDimension},
		{"negative gap", func(in *Inputs) { in.GapH = "-1" }, ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInputs()
			tt.mutate(&in)
			_, err := ParseInputs(in, model.JobSettings{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInputsFromJobRoundTrip(t *testing.T) {
	job := model.DefaultJobSettings()
	job.Folder = "/srv/in"
	job.Gap = model.GapSpec{Horizontal: 2.5, Vertical: 0}

	in := InputsFromJob(job)
	assert.Equal(t, "297", in.PageWidth)
	assert.Equal(t, "2.5", in.GapH)

	back, err := ParseInputs(in, job)
	require.NoError(t, err)
	assert.Equal(t, job, back)
}
