package render

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"

	"github.com/fogleman/gg"

	"quizreel/internal/platform"
)

const (
	ctaCardX      = 90.0
	ctaCardY      = 620.0
	ctaCardW      = 900.0
	ctaCardH      = 520.0
	ctaCardRadius = 36.0

	ctaTextY        = 720.0
	ctaLineStep     = 80.0
	ctaFontSize     = 48
	ctaSlideDist    = 80
	ctaRampFrames   = 20
	ctaIconSize     = 96
	ctaIconGap      = 40
	ctaIconY        = 1150.0
	ctaIconBaseWait = 10
	ctaIconStagger  = 6

	ctaWatermarkOpacity = 0.75
)

// CTARenderer appends the platform outro segment after the quiz frames: a
// themed gradient, a glass card with the call-to-action lines and the
// platform's icon row.
type CTARenderer struct {
	assets *Library
	fps    int
}

func NewCTARenderer(assets *Library, fps int) *CTARenderer {
	return &CTARenderer{assets: assets, fps: fps}
}

// Render writes the outro frames for profile into framesDir, numbering them
// from startIndex so they continue the quiz sequence. It returns the number
// of frames written.
func (r *CTARenderer) Render(profile platform.Profile, framesDir string, startIndex int) (int, error) {
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return 0, fmt.Errorf("create frames dir: %w", err)
	}

	theme := profile.Themes[rand.Intn(len(profile.Themes))]
	base := gradientFrame(theme)

	face, err := r.assets.Face(FontBold, ctaFontSize)
	if err != nil {
		return 0, err
	}

	icons := r.loadIcons(profile.Icons)
	logo, hasLogo := r.assets.Logo()

	total := profile.CTADuration * r.fps
	for frame := 0; frame < total; frame++ {
		dc := gg.NewContextForImage(base)

		dc.SetRGBA255(255, 255, 255, 36)
		dc.DrawRoundedRectangle(ctaCardX, ctaCardY, ctaCardW, ctaCardH, ctaCardRadius)
		dc.Fill()

		dc.SetFontFace(face)
		for i, line := range profile.CTAText {
			start := i * ctaRampFrames / 2
			alpha := FadeAlpha(frame, start, ctaRampFrames)
			if alpha == 0 {
				continue
			}
			y := ctaTextY + float64(i)*ctaLineStep + SlideOffset(frame, start, ctaRampFrames, ctaSlideDist)
			dc.SetRGBA255(0, 0, 0, alpha)
			dc.DrawStringAnchored(line, float64(Width)/2+2, y+2, 0.5, 0.5)
			dc.SetRGBA255(255, 255, 255, alpha)
			dc.DrawStringAnchored(line, float64(Width)/2, y, 0.5, 0.5)
		}

		r.drawIcons(dc, icons, frame)

		out := dc.Image()
		if hasLogo {
			out = ApplyWatermark(out, logo, frame, TopLeft, ctaWatermarkOpacity)
		}

		if err := savePNG(FramePath(framesDir, startIndex+frame), out); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func (r *CTARenderer) loadIcons(names []string) []image.Image {
	icons := make([]image.Image, 0, len(names))
	for _, name := range names {
		if img, ok := r.assets.Icon(name, ctaIconSize); ok {
			icons = append(icons, img)
		}
	}
	return icons
}

// drawIcons reveals the icon row one item at a time, left to right, each
// sliding up into its rest position.
func (r *CTARenderer) drawIcons(dc *gg.Context, icons []image.Image, frame int) {
	if len(icons) == 0 {
		return
	}
	rowW := len(icons)*ctaIconSize + (len(icons)-1)*ctaIconGap
	x := (Width - rowW) / 2
	for i, icon := range icons {
		if visible, offset := IconEntrance(frame, i); visible {
			dc.DrawImage(icon, x, int(ctaIconY+offset))
		}
		x += ctaIconSize + ctaIconGap
	}
}

// IconEntrance reports whether icon index is on screen at frame and how far
// below its rest position it still sits while sliding in.
func IconEntrance(frame, index int) (bool, float64) {
	appearAt := ctaIconBaseWait + index*ctaIconStagger
	if frame < appearAt {
		return false, 0
	}
	return true, SlideOffset(frame, appearAt, ctaRampFrames, ctaSlideDist)
}

// gradientFrame fills the full frame with a vertical blend between the theme
// colors.
func gradientFrame(theme platform.Theme) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		t := float64(y) / float64(Height-1)
		row := color.RGBA{
			R: uint8(Lerp(float64(theme.Top.R), float64(theme.Bottom.R), t)),
			G: uint8(Lerp(float64(theme.Top.G), float64(theme.Bottom.G), t)),
			B: uint8(Lerp(float64(theme.Top.B), float64(theme.Bottom.B), t)),
			A: 255,
		}
		for x := 0; x < Width; x++ {
			out.SetRGBA(x, y, row)
		}
	}
	return out
}
