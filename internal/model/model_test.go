package model

import (
	"testing"
)

func TestLayoutResultPerPage(t *testing.T) {
	l := LayoutResult{Columns: 4, Rows: 3}
	if l.PerPage() != 12 {
		t.Errorf("expected 12 per page, got %d", l.PerPage())
	}
	if l.Empty() {
		t.Error("4x3 layout should not be empty")
	}

	if !(LayoutResult{}).Empty() {
		t.Error("zero layout should be empty")
	}
	if !(LayoutResult{Columns: 5, Rows: 0}).Empty() {
		t.Error("layout with zero rows should be empty")
	}
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 50, Height: 30}
	cx, cy := r.Center()
	if cx != 35 || cy != 35 {
		t.Errorf("expected center (35, 35), got (%f, %f)", cx, cy)
	}
}

func TestNewPlacementAssignsShortID(t *testing.T) {
	a := NewPlacement("a.jpg", 1, 0, 0, 0, Rect{Width: 10, Height: 10}, false)
	b := NewPlacement("b.jpg", 1, 1, 1, 0, Rect{X: 10, Width: 10, Height: 10}, false)

	if len(a.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", a.ID)
	}
	if a.ID == b.ID {
		t.Error("placements should get distinct IDs")
	}
}

func TestGangResultCounts(t *testing.T) {
	cell := Rect{Width: 50, Height: 75}
	result := GangResult{
		Page: PageSpec{Width: 210, Height: 297},
		Pages: []PageResult{
			{Number: 1, Placements: []Placement{{Bounds: cell}, {Bounds: cell}}},
			{Number: 2, Placements: []Placement{{Bounds: cell}}},
		},
	}

	if result.PageCount() != 2 {
		t.Errorf("expected 2 pages, got %d", result.PageCount())
	}
	if result.ImageCount() != 3 {
		t.Errorf("expected 3 images, got %d", result.ImageCount())
	}
	if result.UsedArea() != 3*50*75 {
		t.Errorf("unexpected used area %f", result.UsedArea())
	}

	want := (3 * 50 * 75) / (2 * 210 * 297.0) * 100
	if diff := result.Efficiency() - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected efficiency %f, got %f", want, result.Efficiency())
	}
}

func TestGangResultEfficiencyNoPages(t *testing.T) {
	result := GangResult{Page: PageSpec{Width: 100, Height: 100}}
	if result.Efficiency() != 0 {
		t.Errorf("expected 0 efficiency without pages, got %f", result.Efficiency())
	}
}

func TestOutlineStyleZeroValueIsBorderless(t *testing.T) {
	var s OutlineStyle
	if s.Fill || s.Stroke {
		t.Error("zero OutlineStyle must be unfilled and unstroked")
	}

	cc := CutContourStyle()
	if !cc.Stroke || cc.SpotColor != CutContourSpot {
		t.Errorf("unexpected CutContour style: %+v", cc)
	}
}

func TestGetProfileFallsBackToGeneric(t *testing.T) {
	p := GetProfile("NonExistent")
	if p.Name != "Generic" {
		t.Errorf("expected Generic fallback, got %s", p.Name)
	}
	if GetProfile("Grbl").Name != "Grbl" {
		t.Error("expected Grbl profile to be found")
	}
	if len(GetProfileNames()) != len(GCodeProfiles) {
		t.Error("profile names should list every built-in profile")
	}
}
