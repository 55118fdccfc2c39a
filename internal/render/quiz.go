package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"quizreel/internal/platform"
	"quizreel/internal/question"
)

const (
	darkOverlayOpacity = 0.45
	questionWrapWidth  = 40
	questionPanelW     = int(Width * 0.9)
	questionPadding    = 44
	questionRadius     = 26
	questionFontSize   = 56
	headerFontSize     = 38
	hookFontSize       = 64
	promptFontSize     = 46
	hookY              = 140
	promptY            = 1500
	watermarkOpacity   = 0.7
)

// ThumbSource resolves a small illustration for an option label. Lookups are
// best effort: a miss just renders the row without a thumbnail.
type ThumbSource interface {
	Thumbnail(optionText string) (image.Image, bool)
}

type QuizResult struct {
	LastFrame int
	Hook      string
	Title     string
}

// QuizRenderer produces the animated reveal sequence for one question:
// hook, header, question panel, staggered options, comment prompt, watermark.
type QuizRenderer struct {
	assets   *Library
	thumbs   ThumbSource
	fps      int
	duration int
}

func NewQuizRenderer(assets *Library, thumbs ThumbSource, fps, durationSec int) *QuizRenderer {
	return &QuizRenderer{
		assets:   assets,
		thumbs:   thumbs,
		fps:      fps,
		duration: durationSec,
	}
}

// Render writes one PNG per frame into framesDir and reports the last frame
// index written plus the texts chosen for this render. Frames are produced
// in strictly increasing order; the encoder depends on that.
func (r *QuizRenderer) Render(q question.Question, framesDir string) (*QuizResult, error) {
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}

	hook := PickHook()
	prompt := PickPrompt()
	stages := NewStages(r.fps)

	base := r.baseFrame(q.Category)

	headerFace, err := r.assets.Face(FontRegular, headerFontSize)
	if err != nil {
		return nil, err
	}
	questionFace, err := r.assets.Face(FontBold, questionFontSize)
	if err != nil {
		return nil, err
	}
	hookFace, err := r.assets.Face(FontBold, hookFontSize)
	if err != nil {
		return nil, err
	}
	promptFace, err := r.assets.Face(FontBold, promptFontSize)
	if err != nil {
		return nil, err
	}

	header := fmt.Sprintf("%s • %s", platform.TitleCase(q.Category), platform.TitleCase(q.Difficulty))
	questionLines := Wrap(q.Text, questionWrapWidth)
	options := r.prepareOptions(q)
	logo, hasLogo := r.assets.Logo()

	totalFrames := r.fps * r.duration
	for frame := 0; frame < totalFrames; frame++ {
		dc := gg.NewContextForImage(base)

		r.drawHook(dc, hookFace, hook, stages, frame)

		if frame >= stages.Header() {
			r.drawCenteredShadowed(dc, headerFace, header, float64(Width)/2, stages.HeaderY(frame), color.White)
		}

		if frame >= stages.Question() {
			r.drawQuestionPanel(dc, questionFace, questionLines, stages.QuestionY(frame))
		}

		for _, opt := range options {
			r.drawOption(dc, opt, stages, frame)
		}

		if alpha := stages.PromptAlpha(frame); alpha > 0 {
			dc.SetFontFace(promptFace)
			dc.SetRGBA255(255, 255, 255, alpha)
			dc.DrawStringAnchored(prompt, float64(Width)/2, promptY, 0.5, 0.5)
		}

		out := dc.Image()
		if hasLogo {
			out = ApplyWatermark(out, logo, frame, TopRight, watermarkOpacity)
		}

		if err := savePNG(FramePath(framesDir, frame), out); err != nil {
			return nil, err
		}
	}

	return &QuizResult{
		LastFrame: totalFrames - 1,
		Hook:      hook,
		Title:     fallbackTitle(q),
	}, nil
}

func fallbackTitle(q question.Question) string {
	return fmt.Sprintf("%s Quiz • %s", platform.TitleCase(q.Category), platform.TitleCase(q.Difficulty))
}

// baseFrame builds the static backdrop every frame starts from: category
// background plus the legibility overlay.
func (r *QuizRenderer) baseFrame(category string) image.Image {
	bg := r.assets.Background(category)
	out := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(out, out.Bounds(), bg, bg.Bounds().Min, draw.Src)

	alpha := 255 * darkOverlayOpacity
	overlay := image.NewUniform(color.RGBA{A: uint8(alpha)})
	draw.Draw(out, out.Bounds(), overlay, image.Point{}, draw.Over)
	return out
}

type optionRow struct {
	index      int
	label      string
	thumb      image.Image
	fittedFont float64
}

// prepareOptions resolves thumbnails and fit-to-width font sizes once,
// before any frame is drawn, so the per-frame loop never blocks on lookups.
func (r *QuizRenderer) prepareOptions(q question.Question) []optionRow {
	measure := func(text string, size float64) float64 {
		face, err := r.assets.Face(FontRegular, size)
		if err != nil {
			return 0
		}
		return fixedToFloat(font.MeasureString(face, text))
	}

	rows := make([]optionRow, 0, len(q.Options))
	for i, opt := range q.Options {
		label := fmt.Sprintf("%c. %s", 'A'+i, opt)

		var thumb image.Image
		if r.thumbs != nil {
			if img, ok := r.thumbs.Thumbnail(opt); ok {
				thumb = scaleTo(img, optionImgSize, optionImgSize)
			} else {
				slog.Warn("No thumbnail for option", "option", opt)
			}
		}

		rows = append(rows, optionRow{
			index:      i,
			label:      label,
			thumb:      thumb,
			fittedFont: FitFontSize(measure, label, optionMaxFont, optionMinFont, optionFontStep, optionMaxWidth),
		})
	}
	return rows
}

func (r *QuizRenderer) drawHook(dc *gg.Context, face font.Face, hook string, stages Stages, frame int) {
	pose := stages.HookPose(frame)
	if pose.Alpha == 0 {
		return
	}

	col := HookColor(hook)
	x := float64(Width) / 2
	y := float64(hookY)

	dc.Push()
	dc.ScaleAbout(pose.Scale, pose.Scale, x, y)
	dc.SetFontFace(face)
	dc.SetRGBA255(0, 0, 0, pose.Alpha)
	dc.DrawStringAnchored(hook, x+2, y+2, 0.5, 0.5)
	dc.SetRGBA255(int(col.R), int(col.G), int(col.B), pose.Alpha)
	dc.DrawStringAnchored(hook, x, y, 0.5, 0.5)
	dc.Pop()
}

func (r *QuizRenderer) drawQuestionPanel(dc *gg.Context, face font.Face, lines []string, centerY float64) {
	lineH := float64(questionFontSize + 10)
	boxH := float64(len(lines))*lineH + 2*questionPadding
	x0 := float64(Width-questionPanelW) / 2
	y0 := centerY - boxH/2

	dc.SetRGBA255(0, 0, 0, 150)
	dc.DrawRoundedRectangle(x0, y0, float64(questionPanelW), boxH, questionRadius)
	dc.Fill()

	dc.SetFontFace(face)
	y := y0 + questionPadding + lineH/2
	for _, line := range lines {
		r.drawCenteredShadowed(dc, face, line, float64(Width)/2, y, color.White)
		y += lineH
	}
}

func (r *QuizRenderer) drawOption(dc *gg.Context, opt optionRow, stages Stages, frame int) {
	pose := stages.OptionPose(frame, opt.index, opt.fittedFont)
	if !pose.Visible {
		return
	}

	// Row strip behind image and label.
	dc.SetRGBA255(0, 0, 0, 130)
	dc.DrawRectangle(0, pose.Y-8, float64(Width), optionStripH)
	dc.Fill()

	if opt.thumb != nil {
		dc.DrawImage(opt.thumb, int(pose.ImageX), int(pose.Y))
	}

	face, err := r.assets.Face(FontRegular, roundFontSize(pose.FontSize))
	if err != nil {
		return
	}
	textY := pose.Y + optionImgSize/2
	dc.SetFontFace(face)
	dc.SetRGBA255(0, 0, 0, 255)
	dc.DrawStringAnchored(opt.label, pose.LabelX+2, textY+2, 0, 0.5)
	dc.SetRGBA255(255, 255, 255, 255)
	dc.DrawStringAnchored(opt.label, pose.LabelX, textY, 0, 0.5)
}

func (r *QuizRenderer) drawCenteredShadowed(dc *gg.Context, face font.Face, text string, x, y float64, col color.Color) {
	dc.SetFontFace(face)
	dc.SetRGBA255(0, 0, 0, 255)
	dc.DrawStringAnchored(text, x+2, y+2, 0.5, 0.5)
	dc.SetColor(col)
	dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

// roundFontSize snaps animated font sizes to the fitting step so the face
// cache stays small during the settle phase.
func roundFontSize(size float64) float64 {
	return float64(int(size/optionFontStep)) * optionFontStep
}
