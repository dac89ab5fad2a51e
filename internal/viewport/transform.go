package viewport

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/astramesh/internal/clock"
	"github.com/Faultbox/astramesh/pkg/math"
)

// Projection settings.
const (
	FieldOfView = 45 * math32.Pi / 180
	Near        = 0.05
	Far         = 500
)

// ModelMatrix places the mesh for a clock frame: spun around Y by the
// normalized time and bobbed vertically.
func ModelMatrix(f clock.Frame) math.Mat4 {
	return math.Translate(0, f.OffsetY, 0).Mul(math.RotateY(f.RotationY))
}

// Projection returns the perspective matrix for a viewport aspect ratio.
func Projection(width, height int) math.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return math.Perspective(FieldOfView, aspect, Near, Far)
}
