package gang

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/SheetGang/internal/model"
)

var (
	// ErrCancelled means the user dismissed an input; the run stops silently.
	ErrCancelled = errors.New("cancelled by the user")
	// ErrInvalidNumber means a dimension or gap field is not a number.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrInvalidDimension means a number is out of range (non-positive size, negative gap).
	ErrInvalidDimension = errors.New("invalid dimension")
)

// Inputs holds the raw text a user entered, all dimensions in mm.
type Inputs struct {
	Folder      string
	PageWidth   string
	PageHeight  string
	FrameWidth  string
	FrameHeight string
	GapH        string // optional, defaults to 0
	GapV        string // optional, defaults to 0
}

// InputsFromJob renders job settings back into text fields, e.g. to
// pre-fill a form.
func InputsFromJob(j model.JobSettings) Inputs {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return Inputs{
		Folder:      j.Folder,
		PageWidth:   f(j.Page.Width),
		PageHeight:  f(j.Page.Height),
		FrameWidth:  f(j.Frame.Width),
		FrameHeight: f(j.Frame.Height),
		GapH:        f(j.Gap.Horizontal),
		GapV:        f(j.Gap.Vertical),
	}
}

// ParseInputs validates the raw inputs and applies them on top of base.
// Every numeric field must parse or the whole run is refused.
func ParseInputs(in Inputs, base model.JobSettings) (model.JobSettings, error) {
	job := base
	job.Folder = strings.TrimSpace(in.Folder)
	if job.Folder == "" {
		return job, ErrCancelled
	}

	var err error
	if job.Page.Width, err = parseField("page width", in.PageWidth, false); err != nil {
		return job, err
	}
	if job.Page.Height, err = parseField("page height", in.PageHeight, false); err != nil {
		return job, err
	}
	if job.Frame.Width, err = parseField("frame width", in.FrameWidth, false); err != nil {
		return job, err
	}
	if job.Frame.Height, err = parseField("frame height", in.FrameHeight, false); err != nil {
		return job, err
	}
	if job.Gap.Horizontal, err = parseField("horizontal gap", in.GapH, true); err != nil {
		return job, err
	}
	if job.Gap.Vertical, err = parseField("vertical gap", in.GapV, true); err != nil {
		return job, err
	}

	if err := Validate(job); err != nil {
		return job, err
	}
	return job, nil
}

// parseField parses one numeric field. A comma is accepted as the decimal
// separator. Optional fields default to 0 when blank.
func parseField(name, raw string, optional bool) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		if optional {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidNumber, name)
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "mm"))
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q (use numerical values, e.g. 297.0)", ErrInvalidNumber, name, raw)
	}
	return v, nil
}

// Validate checks the ranges of a job's dimensions.
func Validate(job model.JobSettings) error {
	checks := []struct {
		name      string
		value     float64
		allowZero bool
	}{
		{"page width", job.Page.Width, false},
		{"page height", job.Page.Height, false},
		{"frame width", job.Frame.Width, false},
		{"frame height", job.Frame.Height, false},
		{"horizontal gap", job.Gap.Horizontal, true},
		{"vertical gap", job.Gap.Vertical, true},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidNumber, c.name)
		}
		if c.allowZero && c.value < 0 {
			return fmt.Errorf("%w: %s must not be negative (got %g)", ErrInvalidDimension, c.name, c.value)
		}
		if !c.allowZero && c.value <= 0 {
			return fmt.Errorf("%w: %s must be greater than zero (got %g)", ErrInvalidDimension, c.name, c.value)
		}
	}
	return nil
}
