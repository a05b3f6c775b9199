package importer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff"
)

// ImageInfo describes an image file without decoding its pixels.
type ImageInfo struct {
	Path   string
	Format string // "jpeg", "png" or "tiff"
	Width  int    // pixels
	Height int    // pixels
}

// Aspect returns width divided by height, or 0 for an empty image.
func (i ImageInfo) Aspect() float64 {
	if i.Height == 0 {
		return 0
	}
	return float64(i.Width) / float64(i.Height)
}

// Probe reads the header of the image at path.
func Probe(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to read image header of %s: %w", filepath.Base(path), err)
	}
	return ImageInfo{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// LoadForEmbedding returns a reader with image data the PDF writer can
// embed, plus its type ("JPG" or "PNG"). JPEG and PNG files are passed
// through unchanged. TIFF files are decoded, orientation-corrected and
// re-encoded as PNG.
func LoadForEmbedding(path string) (io.Reader, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "JPG", nil
	case ".png":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "PNG", nil
	case ".tif", ".tiff":
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("failed to convert %s to PNG: %w", filepath.Base(path), err)
		}
		return &buf, "PNG", nil
	default:
		return nil, "", fmt.Errorf("unsupported image type: %s", filepath.Base(path))
	}
}
