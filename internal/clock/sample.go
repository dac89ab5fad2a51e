package clock

import (
	"math"

	"github.com/Faultbox/astramesh/internal/scene"
)

// Ease shapes a segment parameter u in [0,1].
func Ease(e scene.Easing, u float64) float64 {
	u = math.Max(0, math.Min(1, u))
	switch e {
	case scene.EaseIn:
		return u * u
	case scene.EaseOut:
		return 1 - (1-u)*(1-u)
	case scene.EaseInOut:
		if u < 0.5 {
			return 2 * u * u
		}
		v := -2*u + 2
		return 1 - v*v/2
	}
	return u
}

// Sample evaluates an ordered keyframe track at time t. An empty track is 0
// and times outside the track clamp to the first or last value.
func Sample(keys []scene.Keyframe, t float64, interp scene.Interpolation, easing scene.Easing) float64 {
	n := len(keys)
	switch {
	case n == 0:
		return 0
	case t <= keys[0].Time:
		return keys[0].Value
	case t >= keys[n-1].Time:
		return keys[n-1].Value
	}

	i := 0
	for i < n-2 && keys[i+1].Time <= t {
		i++
	}
	a, b := keys[i], keys[i+1]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	u := Ease(easing, (t-a.Time)/span)

	switch interp {
	case scene.InterpBezier:
		// endpoints as control points: smoothstep weights
		w := u * u * (3 - 2*u)
		return a.Value + (b.Value-a.Value)*w
	case scene.InterpCatmull:
		p0 := a.Value
		if i > 0 {
			p0 = keys[i-1].Value
		}
		p3 := b.Value
		if i+2 < n {
			p3 = keys[i+2].Value
		}
		return catmullRom(p0, a.Value, b.Value, p3, u)
	}
	return a.Value + (b.Value-a.Value)*u
}

func catmullRom(p0, p1, p2, p3, u float64) float64 {
	u2 := u * u
	u3 := u2 * u
	return 0.5 * (2*p1 +
		(-p0+p2)*u +
		(2*p0-5*p1+4*p2-p3)*u2 +
		(-p0+3*p1-3*p2+p3)*u3)
}
