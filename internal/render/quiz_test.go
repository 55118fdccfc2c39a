package render

import (
	"path/filepath"
	"testing"
)

func TestBaseFrameDimensions(t *testing.T) {
	lib := NewLibrary(t.TempDir(), t.TempDir(), t.TempDir(), filepath.Join(t.TempDir(), "logo.png"))
	r := NewQuizRenderer(lib, nil, 30, 13)

	frame := r.baseFrame("football")
	bounds := frame.Bounds()
	if bounds.Dx() != Width || bounds.Dy() != Height {
		t.Errorf("base frame = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), Width, Height)
	}
}

func TestBaseFrameOverlayDarkens(t *testing.T) {
	lib := NewLibrary(t.TempDir(), t.TempDir(), t.TempDir(), filepath.Join(t.TempDir(), "logo.png"))
	r := NewQuizRenderer(lib, nil, 30, 13)

	bg := lib.Background("football")
	frame := r.baseFrame("football")

	br, bgr, bb, _ := bg.At(Width/2, Height/2).RGBA()
	fr, fg, fb, _ := frame.At(Width/2, Height/2).RGBA()

	if fr >= br || fg >= bgr || fb >= bb {
		t.Errorf("overlay did not darken backdrop: frame (%d,%d,%d) vs background (%d,%d,%d)",
			fr, fg, fb, br, bgr, bb)
	}
}
