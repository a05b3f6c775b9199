package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SheetGang/internal/model"
)

// ConfigDirEnv overrides the configuration directory when set.
const ConfigDirEnv = "SHEETGANG_CONFIG_DIR"

// DefaultConfigDir returns $SHEETGANG_CONFIG_DIR, or ~/.sheetgang when unset.
func DefaultConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".sheetgang")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig writes config to path, creating parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSONFile(path, config)
}

// LoadAppConfig reads the preferences at path on top of DefaultAppConfig,
// so a missing file or missing fields yield defaults. Recent folders are
// de-duplicated and blank entries dropped.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if _, err := readJSONFile(path, &config); err != nil {
		return model.AppConfig{}, err
	}

	seen := map[string]bool{}
	folders := []string{}
	for _, f := range config.RecentFolders {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		folders = append(folders, f)
	}
	config.RecentFolders = folders
	if config.Theme == "" {
		config.Theme = "system"
	}
	return config, nil
}

// writeJSONFile encodes v as indented JSON and replaces path atomically, so
// an interrupted save never leaves a truncated file behind.
func writeJSONFile(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readJSONFile decodes path into v. A missing file leaves v untouched and
// reports found=false without an error.
func readJSONFile(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}
