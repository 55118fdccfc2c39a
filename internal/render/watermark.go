package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

type Corner string

const (
	TopLeft     Corner = "top-left"
	TopRight    Corner = "top-right"
	BottomLeft  Corner = "bottom-left"
	BottomRight Corner = "bottom-right"
)

const (
	logoBaseSize  = 120
	watermarkPad  = 36
	driftAmp      = 6.0
	driftPeriod   = 18.0
	breathePeriod = 24.0
)

// Drift is the horizontal watermark displacement at a frame, bounded by
// ±driftAmp pixels. Deterministic so golden-frame tests stay stable.
func Drift(frame int) float64 {
	return driftAmp * math.Sin(float64(frame)/driftPeriod)
}

// BreatheScale is the watermark scale factor at a frame, in [0.94, 1.0].
func BreatheScale(frame int) float64 {
	return 0.97 + 0.03*math.Sin(float64(frame)/breathePeriod)
}

// ApplyWatermark composites a slowly drifting, breathing logo over base and
// returns a new image; the inputs are never mutated. Drift moves the logo on
// the x axis only, whichever corner it sits in.
func ApplyWatermark(base image.Image, logo image.Image, frame int, corner Corner, opacity float64) *image.RGBA {
	bounds := base.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, base, bounds.Min, draw.Src)

	if logo == nil {
		return out
	}

	size := int(logoBaseSize * BreatheScale(frame))
	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), logo, logo.Bounds(), xdraw.Over, nil)

	drift := int(Drift(frame))
	w := bounds.Dx()
	h := bounds.Dy()

	var x, y int
	switch corner {
	case TopLeft:
		x, y = watermarkPad+drift, watermarkPad
	case BottomLeft:
		x, y = watermarkPad+drift, h-size-watermarkPad
	case BottomRight:
		x, y = w-size-watermarkPad+drift, h-size-watermarkPad
	default: // top-right
		x, y = w-size-watermarkPad+drift, watermarkPad
	}

	mask := image.NewUniform(color.Alpha{A: uint8(Clamp01(opacity) * 255)})
	target := image.Rect(x, y, x+size, y+size).Add(bounds.Min)
	draw.DrawMask(out, target, scaled, image.Point{}, mask, image.Point{}, draw.Over)

	return out
}
