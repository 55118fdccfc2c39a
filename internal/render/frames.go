package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/math/fixed"
)

// FramePath returns the on-disk name for a frame index. The encoder consumes
// frames through the same pattern, so the two must never diverge.
func FramePath(dir string, frame int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%04d.png", frame))
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
