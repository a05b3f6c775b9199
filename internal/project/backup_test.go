package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SheetGang/internal/model"
)

func TestExportImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "sheetgang.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultGapV = 4
	cfg.RecentFolders = []string{"/srv/cards"}

	if err := ExportAllData(path, cfg, testProfiles()); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected CreatedAt to be set")
	}
	if backup.Config.DefaultGapV != 4 {
		t.Errorf("expected DefaultGapV=4, got %f", backup.Config.DefaultGapV)
	}
	if len(backup.Profiles) != 2 {
		t.Errorf("expected 2 profiles, got %d", len(backup.Profiles))
	}
}

func TestExportAllDataNilProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := ExportAllData(path, model.DefaultAppConfig(), nil); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Profiles == nil {
		t.Error("expected empty profiles slice, got nil")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte("{{{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
