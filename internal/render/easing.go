package render

import "math"

// Easing curves map normalized progress in [0,1] to eased progress. Inputs
// outside the range are clamped so frame arithmetic never produces a pose
// outside the keyframe envelope.

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// EaseOutCubic starts fast and decelerates into rest.
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	inv := 1 - t
	return 1 - inv*inv*inv
}

// EaseInOutCubic accelerates through the midpoint and settles smoothly.
func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

// EaseOutBack overshoots its target slightly before pulling back, giving the
// option rows their impact bounce.
func EaseOutBack(t float64) float64 {
	t = Clamp01(t)
	const s = 1.2
	f := t - 1
	return 1 + f*f*((s+1)*f+s)
}

// Lerp interpolates between a and b at progress t (unclamped by design:
// overshooting easings rely on t exceeding 1).
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Progress converts a frame offset into normalized progress over a ramp of
// rampFrames.
func Progress(frame, start, rampFrames int) float64 {
	if rampFrames <= 0 {
		return 1
	}
	return Clamp01(float64(frame-start) / float64(rampFrames))
}

// SlideOffset is the classic entrance law: displaced by dist before the stage
// starts, easing to zero displacement over rampFrames.
func SlideOffset(frame, start, rampFrames int, dist float64) float64 {
	if frame < start {
		return dist
	}
	return (1 - EaseOutCubic(Progress(frame, start, rampFrames))) * dist
}

// FadeAlpha ramps linearly from 0 to 255 over rampFrames.
func FadeAlpha(frame, start, rampFrames int) int {
	if frame < start {
		return 0
	}
	a := int(math.Round(float64(frame-start) / float64(rampFrames) * 255))
	if a > 255 {
		return 255
	}
	return a
}
