package render

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestDriftBounded(t *testing.T) {
	for frame := 0; frame < 600; frame++ {
		if d := Drift(frame); math.Abs(d) > driftAmp {
			t.Fatalf("drift at frame %d = %v, exceeds amplitude %v", frame, d, driftAmp)
		}
	}
}

func TestBreatheScaleBounded(t *testing.T) {
	for frame := 0; frame < 600; frame++ {
		s := BreatheScale(frame)
		if s < 0.94-1e-9 || s > 1.0+1e-9 {
			t.Fatalf("scale at frame %d = %v, outside breathing range", frame, s)
		}
	}
}

func TestWatermarkDeterministicPerFrame(t *testing.T) {
	if Drift(42) != Drift(42) || BreatheScale(42) != BreatheScale(42) {
		t.Error("watermark motion not deterministic for the same frame")
	}
	if Drift(0) == Drift(9) {
		t.Error("drift constant across frames, expected motion")
	}
}

func TestApplyWatermarkNilLogo(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			base.SetRGBA(x, y, color.RGBA{R: 20, G: 30, B: 40, A: 255})
		}
	}

	out := ApplyWatermark(base, nil, 7, BottomRight, 0.8)
	if out == base {
		t.Fatal("expected a copy, got the input image")
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if out.RGBAAt(x, y) != base.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) changed with nil logo", x, y)
			}
		}
	}
}

func TestApplyWatermarkDrawsLogo(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 400, 400))
	logo := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			logo.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	out := ApplyWatermark(base, logo, 0, TopLeft, 1.0)
	changed := false
	for y := 0; y < 400 && !changed; y++ {
		for x := 0; x < 400; x++ {
			if out.RGBAAt(x, y) != base.RGBAAt(x, y) {
				changed = true
				break
			}
		}
	}
	if !changed {
		t.Error("logo left no mark on the frame")
	}
}
