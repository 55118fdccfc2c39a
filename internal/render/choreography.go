package render

// Frame geometry shared by every renderer in this package.
const (
	Width  = 1080
	Height = 1920
	FPS    = 30
)

// Quiz reveal choreography. Stage starts are expressed in seconds and
// converted through the fps so the reveal keeps its shape if the frame rate
// ever changes.
const (
	hookDurationSec  = 2.0
	headerStartSec   = 0.8
	questionStartSec = 1.8
	optionBaseSec    = 4.0
	optionStaggerSec = 0.9
	ctaPromptSec     = 10.5

	slideDist      = 60
	slideRampSec   = 1.0
	ctaFadeFrames  = 20
	headerY        = 260
	questionY      = 520
	optionBaseY    = 980
	optionRowStep  = 110
	optionStripH   = 90
	optionImgSize  = 72
	optionImgX     = Width/2 - 320
	optionTextGap  = 22
	optionMaxWidth = 520

	impactFrames   = 10
	settleFrames   = 14
	impactFontSize = 54
	optionMaxFont  = 44
	optionMinFont  = 30
	optionFontStep = 2

	// Edge offsets the option pair slides in from, and how far short of the
	// final rest the impact phase meets.
	meetInset = 40
)

// Stages gives the first frame each reveal stage becomes visible. Once a
// stage has started it stays on screen for the rest of the quiz segment.
type Stages struct {
	fps int
}

func NewStages(fps int) Stages {
	return Stages{fps: fps}
}

func (s Stages) Hook() int     { return 0 }
func (s Stages) HookEnd() int  { return int(hookDurationSec * float64(s.fps)) }
func (s Stages) Header() int   { return int(headerStartSec * float64(s.fps)) }
func (s Stages) Question() int { return int(questionStartSec * float64(s.fps)) }
func (s Stages) Prompt() int   { return int(ctaPromptSec * float64(s.fps)) }

func (s Stages) Option(i int) int {
	return int((optionBaseSec + float64(i)*optionStaggerSec) * float64(s.fps))
}

func (s Stages) slideRamp() int { return int(slideRampSec * float64(s.fps)) }

// HookPose describes the hook phrase at a frame: scale decays from 1.18 to
// 1.0 while alpha ramps up, both over the first quarter of the hook window.
type HookPose struct {
	Scale float64
	Alpha int
}

func (s Stages) HookPose(frame int) HookPose {
	ramp := s.HookEnd() / 4
	t := Progress(frame, s.Hook(), ramp)
	return HookPose{
		Scale: Lerp(1.18, 1.0, EaseOutCubic(t)),
		Alpha: FadeAlpha(frame, s.Hook(), ramp),
	}
}

// HeaderY returns the vertical position of the header line at a frame.
func (s Stages) HeaderY(frame int) float64 {
	return headerY + SlideOffset(frame, s.Header(), s.slideRamp(), slideDist)
}

// QuestionY returns the panel center at a frame; the panel slides down from
// above, so the offset is negative.
func (s Stages) QuestionY(frame int) float64 {
	return questionY - SlideOffset(frame, s.Question(), s.slideRamp(), slideDist)
}

// OptionPose is the full layout state of one option row at one frame.
//
// Entrance runs in two phases. Impact slams the thumbnail in from the left
// edge and the label from the right edge toward a meeting point just short of
// their final rest, with a small overshoot bounce, label drawn at the
// oversized impact font. Settle then glides both to the rest position while
// the font shrinks to the fitted size. After settle the pose is static.
type OptionPose struct {
	Visible  bool
	ImageX   float64
	LabelX   float64
	Y        float64
	FontSize float64
	// Settled reports that the entrance is finished and the label should use
	// fit-to-width sizing.
	Settled bool
}

// OptionPose computes the pose for option i. fittedFont is the fit-to-width
// size the label lands on once settled.
func (s Stages) OptionPose(frame, i int, fittedFont float64) OptionPose {
	start := s.Option(i)
	if frame < start {
		return OptionPose{}
	}

	y := float64(optionBaseY + i*optionRowStep)
	restImageX := float64(optionImgX)
	restLabelX := float64(optionImgX + optionImgSize + optionTextGap)
	meetImageX := restImageX + meetInset
	meetLabelX := restLabelX - meetInset
	edgeImageX := float64(-optionImgSize)
	edgeLabelX := float64(Width)

	elapsed := frame - start
	switch {
	case elapsed < impactFrames:
		t := EaseOutBack(float64(elapsed) / float64(impactFrames))
		return OptionPose{
			Visible:  true,
			ImageX:   Lerp(edgeImageX, meetImageX, t),
			LabelX:   Lerp(edgeLabelX, meetLabelX, t),
			Y:        y,
			FontSize: impactFontSize,
		}
	case elapsed < impactFrames+settleFrames:
		t := EaseInOutCubic(float64(elapsed-impactFrames) / float64(settleFrames))
		return OptionPose{
			Visible:  true,
			ImageX:   Lerp(meetImageX, restImageX, t),
			LabelX:   Lerp(meetLabelX, restLabelX, t),
			Y:        y,
			FontSize: Lerp(impactFontSize, fittedFont, t),
		}
	default:
		return OptionPose{
			Visible:  true,
			ImageX:   restImageX,
			LabelX:   restLabelX,
			Y:        y,
			FontSize: fittedFont,
			Settled:  true,
		}
	}
}

// PromptAlpha is the comment-prompt fade at a frame.
func (s Stages) PromptAlpha(frame int) int {
	return FadeAlpha(frame, s.Prompt(), ctaFadeFrames)
}
