// Package importer discovers the images to gang and prepares them for
// embedding in the output document.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when a folder holds no file with a supported extension.
var ErrNoImages = errors.New("no supported images found")

// supportedExtensions lists the image extensions picked up from a folder (lowercase).
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
}

// SupportedExtensions returns the recognised extensions in a stable order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether name has a recognised image extension.
// The match is case-insensitive.
func IsSupported(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// ScanFolder returns the full paths of the supported images directly inside
// dir, sorted by file name. Subdirectories are not descended into.
func ScanFolder(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access image folder %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("image folder %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read image folder %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || (!e.Type().IsRegular() && e.Type()&os.ModeSymlink == 0) {
			continue
		}
		if IsSupported(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %q (looked for %s)", ErrNoImages, dir, strings.Join(SupportedExtensions(), ", "))
	}

	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}
