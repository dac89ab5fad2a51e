package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-5
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	if !near(n.Length(), 1) {
		t.Errorf("Normalize().Length() = %v, want 1", n.Length())
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Midpoint(t *testing.T) {
	got := Vec3{0, 2, 4}.Midpoint(Vec3{2, 0, 0})
	if got != (Vec3{1, 1, 2}) {
		t.Errorf("Midpoint() = %v, want (1,1,2)", got)
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2))
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{12, 24, 36}
	if got != want {
		t.Errorf("TransformPoint() = %v, want %v", got, want)
	}
}

func TestRotateYQuarterTurn(t *testing.T) {
	got := RotateY(math32.Pi / 2).TransformPoint(Vec3{1, 0, 0})
	if !near(got.X, 0) || !near(got.Y, 0) || !near(got.Z, -1) {
		t.Errorf("RotateY(pi/2) * X = %v, want (0,0,-1)", got)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{3, 2, 3}
	view := LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	got := view.TransformPoint(eye)
	if !near(got.X, 0) || !near(got.Y, 0) || !near(got.Z, 0) {
		t.Errorf("eye in view space = %v, want origin", got)
	}
}
