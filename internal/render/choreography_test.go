package render

import (
	"math"
	"strings"
	"testing"
)

func TestStagesOrdering(t *testing.T) {
	s := NewStages(FPS)

	if s.Header() <= s.Hook() {
		t.Errorf("header starts at %d, want after hook start %d", s.Header(), s.Hook())
	}
	if s.Question() <= s.Header() {
		t.Errorf("question starts at %d, want after header %d", s.Question(), s.Header())
	}
	if s.Option(0) <= s.Question() {
		t.Errorf("first option starts at %d, want after question %d", s.Option(0), s.Question())
	}
	for i := 1; i < 4; i++ {
		if s.Option(i) <= s.Option(i-1) {
			t.Errorf("option %d starts at %d, want after option %d at %d", i, s.Option(i), i-1, s.Option(i-1))
		}
	}
	if s.Prompt() <= s.Option(3) {
		t.Errorf("prompt starts at %d, want after last option %d", s.Prompt(), s.Option(3))
	}
}

func TestOptionPoseInvisibleBeforeStart(t *testing.T) {
	s := NewStages(FPS)
	pose := s.OptionPose(s.Option(2)-1, 2, 40)
	if pose.Visible {
		t.Error("option visible before its start frame")
	}
}

func TestOptionPoseVisibilityMonotonic(t *testing.T) {
	s := NewStages(FPS)
	start := s.Option(1)
	for frame := start; frame < start+5*FPS; frame++ {
		if !s.OptionPose(frame, 1, 40).Visible {
			t.Fatalf("option hidden at frame %d after appearing at %d", frame, start)
		}
	}
}

func TestOptionPosePhases(t *testing.T) {
	s := NewStages(FPS)
	start := s.Option(0)
	const fitted = 38.0

	impact := s.OptionPose(start+impactFrames/2, 0, fitted)
	if impact.FontSize != impactFontSize {
		t.Errorf("impact font = %v, want %v", impact.FontSize, impactFontSize)
	}
	if impact.Settled {
		t.Error("impact phase reports settled")
	}

	rest := s.OptionPose(start+impactFrames+settleFrames, 0, fitted)
	if !rest.Settled {
		t.Error("pose not settled after entrance frames")
	}
	if rest.FontSize != fitted {
		t.Errorf("settled font = %v, want fitted %v", rest.FontSize, fitted)
	}
	if rest.ImageX != float64(optionImgX) {
		t.Errorf("settled image x = %v, want %v", rest.ImageX, optionImgX)
	}

	// Impact meets short of rest; image approaches from the left.
	if impact.ImageX >= rest.ImageX+float64(meetInset)+10 {
		t.Errorf("impact image x = %v, expected near meeting point left of %v", impact.ImageX, rest.ImageX+meetInset)
	}
}

func TestOptionPoseStablePastSettle(t *testing.T) {
	s := NewStages(FPS)
	start := s.Option(3)
	a := s.OptionPose(start+impactFrames+settleFrames, 3, 34)
	b := s.OptionPose(start+impactFrames+settleFrames+90, 3, 34)
	if a != b {
		t.Errorf("settled pose drifted: %+v vs %+v", a, b)
	}
}

func TestHookPoseRamp(t *testing.T) {
	s := NewStages(FPS)

	first := s.HookPose(0)
	if first.Alpha != 0 {
		t.Errorf("hook alpha at frame 0 = %d, want 0", first.Alpha)
	}
	if first.Scale <= 1.0 {
		t.Errorf("hook scale at frame 0 = %v, want above 1.0", first.Scale)
	}

	done := s.HookPose(s.HookEnd())
	if done.Alpha != 255 {
		t.Errorf("hook alpha after ramp = %d, want 255", done.Alpha)
	}
	if math.Abs(done.Scale-1.0) > 1e-9 {
		t.Errorf("hook scale after ramp = %v, want 1.0", done.Scale)
	}
}

func TestSlidePositionsSettle(t *testing.T) {
	s := NewStages(FPS)
	ramp := s.slideRamp()

	if got := s.HeaderY(s.Header() + ramp); got != headerY {
		t.Errorf("header y after ramp = %v, want %v", got, headerY)
	}
	if got := s.HeaderY(s.Header()); got <= headerY {
		t.Errorf("header y at start = %v, want below final %v", got, headerY)
	}
	if got := s.QuestionY(s.Question()); got >= questionY {
		t.Errorf("question y at start = %v, want above final %v", got, questionY)
	}
}

func TestEasingBounds(t *testing.T) {
	fns := map[string]func(float64) float64{
		"easeOutCubic":   EaseOutCubic,
		"easeInOutCubic": EaseInOutCubic,
	}
	for name, fn := range fns {
		if got := fn(0); got != 0 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := fn(1); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
		if got := fn(-3); got != 0 {
			t.Errorf("%s(-3) = %v, want clamped to 0", name, got)
		}
		if got := fn(4); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s(4) = %v, want clamped to 1", name, got)
		}
	}
}

func TestEaseOutBackOvershoots(t *testing.T) {
	peak := 0.0
	for i := 0; i <= 100; i++ {
		if v := EaseOutBack(float64(i) / 100); v > peak {
			peak = v
		}
	}
	if peak <= 1.0 {
		t.Errorf("peak = %v, want overshoot above 1.0", peak)
	}
	if got := EaseOutBack(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("easeOutBack(1) = %v, want 1", got)
	}
}

func TestFitFontSize(t *testing.T) {
	// Width proportional to size and text length, so the fit is exact math.
	measure := func(text string, size float64) float64 {
		return size * float64(len(text)) * 0.6
	}

	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "shortTextKeepsMaxSize", text: "A. Pele", want: optionMaxFont},
		{name: "longTextShrinks", text: "A. Borussia Dortmund XIs", want: 36},
		{name: "veryLongTextFloorsAtMin", text: strings.Repeat("wordy ", 20), want: optionMinFont},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitFontSize(measure, tt.text, optionMaxFont, optionMinFont, optionFontStep, optionMaxWidth)
			if got != tt.want {
				t.Errorf("FitFontSize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if got > optionMaxFont || got < optionMinFont {
				t.Errorf("FitFontSize(%q) = %v, outside [%v, %v]", tt.text, got, optionMinFont, optionMaxFont)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "fitsOnOneLine", text: "Who won?", width: 40, want: []string{"Who won?"}},
		{name: "breaksAtWordBoundary", text: "Which club has won the most titles", width: 20, want: []string{"Which club has won", "the most titles"}},
		{name: "singleLongWord", text: "antidisestablishmentarianism", width: 10, want: []string{"antidisestablishmentarianism"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("Wrap() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
