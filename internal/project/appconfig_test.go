package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/SheetGang/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultFrameWidth = 85.0
	cfg.DefaultGapH = 3.0
	cfg.DefaultCutContour = true
	cfg.RecentFolders = []string{"/srv/cards", "/srv/flyers"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultFrameWidth != 85.0 {
		t.Errorf("expected DefaultFrameWidth=85.0, got %f", loaded.DefaultFrameWidth)
	}
	if loaded.DefaultGapH != 3.0 {
		t.Errorf("expected DefaultGapH=3.0, got %f", loaded.DefaultGapH)
	}
	if !loaded.DefaultCutContour {
		t.Error("expected DefaultCutContour=true")
	}
	if len(loaded.RecentFolders) != 2 {
		t.Errorf("expected 2 recent folders, got %d", len(loaded.RecentFolders))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultPageWidth != defaults.DefaultPageWidth {
		t.Errorf("expected default page width %f, got %f", defaults.DefaultPageWidth, cfg.DefaultPageWidth)
	}
	if cfg.DefaultGCodeProfile != "Generic" {
		t.Errorf("expected profile=Generic, got %s", cfg.DefaultGCodeProfile)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_frame_width": 55}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultFrameWidth != 55 {
		t.Errorf("expected DefaultFrameWidth=55, got %f", cfg.DefaultFrameWidth)
	}
	if cfg.DefaultPageHeight != 420 {
		t.Errorf("expected default page height to survive, got %f", cfg.DefaultPageHeight)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentFolders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"default_page_width":297,"recent_folders":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentFolders == nil {
		t.Error("RecentFolders should not be nil after loading")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	p := DefaultConfigPath()
	if !strings.HasSuffix(p, filepath.Join(".sheetgang", "config.json")) {
		t.Errorf("unexpected default config path %s", p)
	}
}

func TestDefaultConfigDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	if got := DefaultConfigPath(); got != filepath.Join(dir, "config.json") {
		t.Errorf("expected config under %s, got %s", dir, got)
	}
	if got := DefaultProfilesPath(); got != filepath.Join(dir, "profiles.json") {
		t.Errorf("expected profiles under %s, got %s", dir, got)
	}
}

func TestSaveAppConfigLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	for i := 0; i < 2; i++ {
		if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
			t.Fatalf("SaveAppConfig failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only config.json, got %v", names)
	}
}

func TestLoadAppConfigNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"theme":"","recent_folders":["/a","","/b","/a"]}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if strings.Join(cfg.RecentFolders, ",") != "/a,/b" {
		t.Errorf("expected de-duplicated folders [/a /b], got %v", cfg.RecentFolders)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected blank theme to become system, got %q", cfg.Theme)
	}
}

func TestLoadAppConfigErrorNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil || !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("expected error naming broken.json, got %v", err)
	}
}
