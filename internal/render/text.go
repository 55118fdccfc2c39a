package render

import "strings"

// Wrap breaks text into lines of at most width characters, splitting on
// spaces. Words longer than the width get a line of their own.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// MeasureFunc reports the rendered pixel width of text at a font size.
type MeasureFunc func(text string, size float64) float64

// FitFontSize walks down from maxSize in steps until the rendered text fits
// within maxWidth, falling back to minSize when nothing fits. The result is
// always within [minSize, maxSize].
func FitFontSize(measure MeasureFunc, text string, maxSize, minSize, step float64, maxWidth float64) float64 {
	for size := maxSize; size >= minSize; size -= step {
		if measure(text, size) <= maxWidth {
			return size
		}
	}
	return minSize
}
