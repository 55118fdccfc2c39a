package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

const (
	FontRegular = "Inter-Regular.ttf"
	FontBold    = "Inter-Bold.ttf"
)

// categoryBackgrounds maps a question category to its backdrop file. Unknown
// categories fall back to the generic backdrop.
var categoryBackgrounds = map[string]string{
	"football":   "football.png",
	"basketball": "basketball.png",
	"tennis":     "tennis.png",
	"general":    "general.png",
}

const genericBackground = "general.png"

// Library loads and caches the static visual assets a render run needs.
// Missing assets degrade: backgrounds fall back to a flat dark fill, logos
// and icons are simply absent. Fonts are the one hard requirement.
type Library struct {
	backgroundDir string
	fontsDir      string
	iconsDir      string
	logoPath      string

	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	name string
	size float64
}

func NewLibrary(backgroundDir, fontsDir, iconsDir, logoPath string) *Library {
	return &Library{
		backgroundDir: backgroundDir,
		fontsDir:      fontsDir,
		iconsDir:      iconsDir,
		logoPath:      logoPath,
		fonts:         make(map[string]*opentype.Font),
		faces:         make(map[faceKey]font.Face),
	}
}

// Face returns a cached font face for the named font file at a size.
func (l *Library) Face(name string, size float64) (font.Face, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := faceKey{name: name, size: size}
	if face, ok := l.faces[key]; ok {
		return face, nil
	}

	parsed, ok := l.fonts[name]
	if !ok {
		data, err := os.ReadFile(filepath.Join(l.fontsDir, name))
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", name, err)
		}
		parsed, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}
		l.fonts[name] = parsed
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s@%.0f: %w", name, size, err)
	}

	l.faces[key] = face
	return face, nil
}

// Background returns the category backdrop scaled to frame size. A missing
// file degrades to a flat dark fill so a render never fails on assets.
func (l *Library) Background(category string) image.Image {
	key := strings.ToLower(category)
	if key == "" {
		key = "general"
	}
	name, ok := categoryBackgrounds[key]
	if !ok {
		name = genericBackground
	}

	img, err := loadImage(filepath.Join(l.backgroundDir, name))
	if err != nil && name != genericBackground {
		img, err = loadImage(filepath.Join(l.backgroundDir, genericBackground))
	}
	if err != nil {
		slog.Warn("Background missing, using flat fill", "category", category, "error", err)
		fill := image.NewRGBA(image.Rect(0, 0, Width, Height))
		draw.Draw(fill, fill.Bounds(), image.NewUniform(color.RGBA{R: 12, G: 12, B: 24, A: 255}), image.Point{}, draw.Src)
		return fill
	}

	return scaleTo(img, Width, Height)
}

// Logo loads the watermark logo; a missing logo just disables watermarking.
func (l *Library) Logo() (image.Image, bool) {
	img, err := loadImage(l.logoPath)
	if err != nil {
		slog.Warn("Logo missing, watermark disabled", "path", l.logoPath)
		return nil, false
	}
	return img, true
}

// Icon loads a CTA icon scaled to size; missing icons are skipped.
func (l *Library) Icon(name string, size int) (image.Image, bool) {
	img, err := loadImage(filepath.Join(l.iconsDir, name))
	if err != nil {
		slog.Warn("Missing icon skipped", "icon", name)
		return nil, false
	}
	return scaleTo(img, size, size), true
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func scaleTo(img image.Image, w, h int) image.Image {
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return out
}
