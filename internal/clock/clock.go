// Package clock advances animation time once per rendered frame and derives
// the normalized phase consumed by viewport transforms.
package clock

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/astramesh/internal/scene"
)

// Epsilon guards the phase division against a zero duration.
const Epsilon = 1e-4

// Bob is the amplitude of the vertical oscillation driven by the phase.
const Bob = 0.2

// Advance moves a playing animation forward by delta seconds, wrapping at the
// duration. Paused animations and non-positive deltas leave time unchanged.
func Advance(a scene.Animation, delta float64) scene.Animation {
	if !a.Playing || !(delta > 0) || math.IsInf(delta, 0) {
		return a
	}
	a.Time = scene.WrapTime(a.Time+delta, a.Duration)
	return a
}

// TNorm returns time/duration, with duration floored at Epsilon.
func TNorm(time, duration float64) float64 {
	return time / math.Max(Epsilon, duration)
}

// Frame is the per-frame transform derived from the animation phase.
type Frame struct {
	Time       float64
	TNorm      float64
	RotationY  float32 // radians, tnorm * 2pi
	OffsetY    float32 // sin(tnorm * 2pi) * Bob
	AutoRotate bool
}

// Transform derives the frame transform for a.
func Transform(a scene.Animation) Frame {
	tn := TNorm(a.Time, a.Duration)
	angle := float32(tn) * 2 * math32.Pi
	return Frame{
		Time:      a.Time,
		TNorm:     tn,
		RotationY: angle,
		OffsetY:   math32.Sin(angle) * Bob,
	}
}
