package render

import (
	"image/color"
	"math/rand"
	"strings"
)

// Hook phrases shown full-screen during the first seconds to stop the
// scroll. One is chosen uniformly per render.
var hookPhrases = []string{
	"Only 1% get this right 🧠",
	"Bet you can't answer this ⚽",
	"This one breaks streaks 🔥",
	"You have 10 seconds ⏱",
	"Real fans know this one ⚽",
	"Don't scroll. Answer. 🔥",
}

// Prompts rotate under the options once the reveal is complete.
var commentPrompts = []string{
	"Comment your answer 👇",
	"Drop your guess below 👇",
	"Answer in the comments 👇",
}

// hookColors maps marker glyphs inside a hook phrase to its text color.
// Phrases without a known marker render white.
var hookColors = []struct {
	marker string
	color  color.RGBA
}{
	{marker: "⚽", color: color.RGBA{R: 120, G: 220, B: 120, A: 255}},
	{marker: "🔥", color: color.RGBA{R: 255, G: 150, B: 60, A: 255}},
	{marker: "🧠", color: color.RGBA{R: 190, G: 140, B: 255, A: 255}},
	{marker: "⏱", color: color.RGBA{R: 110, G: 210, B: 240, A: 255}},
}

func PickHook() string {
	return hookPhrases[rand.Intn(len(hookPhrases))]
}

func PickPrompt() string {
	return commentPrompts[rand.Intn(len(commentPrompts))]
}

// HookColor selects the hook text color by the first known marker glyph
// found in the phrase, defaulting to white.
func HookColor(text string) color.RGBA {
	for _, hc := range hookColors {
		if strings.Contains(text, hc.marker) {
			return hc.color
		}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}
