// Package camera provides the orbit camera of the studio viewport.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/astramesh/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// AutoRotateSpeed is the yaw rate in radians per second while auto rotating.
	AutoRotateSpeed float32
}

// NewOrbitCamera creates a new orbit camera framing a unit mesh.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        4.0,
		RotationX:       0.35,
		MinDistance:     1.5,
		MaxDistance:     120.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		AutoRotateSpeed: 0.5,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sx, cx := math32.Sincos(c.RotationX)
	sy, cy := math32.Sincos(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cx * sy,
		Y: c.Distance * sx,
		Z: c.Distance * cx * cy,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = clamp(c.RotationX, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// Update advances auto rotation by dt seconds.
func (c *OrbitCamera) Update(dt float32, autoRotate bool) {
	if !autoRotate || dt <= 0 {
		return
	}
	c.RotationY = math32.Mod(c.RotationY+c.AutoRotateSpeed*dt, 2*math32.Pi)
}

// Reset restores the default framing.
func (c *OrbitCamera) Reset() {
	*c = *NewOrbitCamera()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
