package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SaveResult describes a written image file.
type SaveResult struct {
	Path          string `json:"path"`
	Format        string `json:"format"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// SaveImage encodes img to path, choosing the format from the extension.
//
// Supported extensions are .jpg/.jpeg, .png, .gif, .bmp and .tif/.tiff.
// quality applies to JPEG output only and is clamped to 1-100. The parent
// directory must already exist.
func SaveImage(img image.Image, path string, quality int) (*SaveResult, error) {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return nil, fmt.Errorf("unsupported output format %q: %w", filepath.Ext(path), err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			return nil, fmt.Errorf("output directory %s does not exist", dir)
		}
	}

	quality = min(max(quality, 1), 100)
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := img.Bounds()
	return &SaveResult{
		Path:          path,
		Format:        FormatFromExt(path),
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		FileSizeBytes: stat.Size(),
	}, nil
}
