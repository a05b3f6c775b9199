package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SheetGang/internal/model"
)

func testProfiles() []model.GCodeProfile {
	return []model.GCodeProfile{
		{
			Name:          "Plotter",
			Description:   "Pen plotter",
			Units:         "mm",
			StartCode:     []string{"G90", "G21"},
			AbsoluteMode:  "G90",
			RapidMove:     "G0",
			FeedMove:      "G1",
			EndCode:       []string{"G0 Z[SafeZ]", "M2"},
			CommentPrefix: ";",
			DecimalPlaces: 2,
		},
		{
			Name:          "Grbl",
			Description:   "Tuned Grbl override",
			Units:         "mm",
			RapidMove:     "G00",
			FeedMove:      "G01",
			CommentPrefix: "(",
			CommentSuffix: ")",
			DecimalPlaces: 4,
		},
	}
}

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	if err := SaveCustomProfiles(path, testProfiles()); err != nil {
		t.Fatalf("SaveCustomProfiles failed: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(loaded))
	}
	if loaded[0].Name != "Plotter" || loaded[0].DecimalPlaces != 2 {
		t.Errorf("first profile mismatch: %+v", loaded[0])
	}
	if loaded[1].CommentSuffix != ")" {
		t.Errorf("expected comment suffix ')', got %q", loaded[1].CommentSuffix)
	}
}

func TestLoadCustomProfilesMissingFile(t *testing.T) {
	profiles, err := LoadCustomProfiles(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", profiles)
	}
}

func TestLoadCustomProfilesRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := os.WriteFile(path, []byte(`[{"name":"Broken"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCustomProfiles(path); err == nil {
		t.Fatal("expected error for profile without moves")
	}
}

func TestExportImportProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotter.json")
	p := testProfiles()[0]

	if err := ExportProfile(path, p); err != nil {
		t.Fatalf("ExportProfile failed: %v", err)
	}
	imported, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if imported.Name != p.Name || imported.FeedMove != p.FeedMove {
		t.Errorf("imported profile mismatch: %+v", imported)
	}
}

func TestImportProfileNoName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noname.json")
	if err := os.WriteFile(path, []byte(`{"rapid_move":"G0","feed_move":"G1"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportProfile(path); err == nil {
		t.Fatal("expected error for profile without name")
	}
}

func TestResolveProfile(t *testing.T) {
	custom := testProfiles()

	if got := ResolveProfile("Plotter", custom); got.Description != "Pen plotter" {
		t.Errorf("expected custom Plotter profile, got %q", got.Description)
	}
	if got := ResolveProfile("Grbl", custom); got.RapidMove != "G00" {
		t.Errorf("custom profile should override built-in Grbl, got rapid move %q", got.RapidMove)
	}
	if got := ResolveProfile("LinuxCNC", custom); got.CommentPrefix != "(" {
		t.Errorf("expected built-in LinuxCNC profile, got %+v", got)
	}
	if got := ResolveProfile("unknown", nil); got.Name != "Generic" {
		t.Errorf("expected Generic fallback, got %s", got.Name)
	}
}
