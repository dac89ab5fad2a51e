package viewport

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/astramesh/internal/clock"
	"github.com/Faultbox/astramesh/pkg/math"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want [3]float32
		ok   bool
	}{
		{"#ff0000", [3]float32{1, 0, 0}, true},
		{"#26a69a", [3]float32{0x26 / 255.0, 0xa6 / 255.0, 0x9a / 255.0}, true},
		{"#fff", [3]float32{1, 1, 1}, true},
		{"00FF00", [3]float32{0, 1, 0}, true},
		{"#12345", fallbackColor, false},
		{"#gggggg", fallbackColor, false},
		{"", fallbackColor, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		for i := range got {
			if !near(got[i], tt.want[i]) {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestModelMatrix(t *testing.T) {
	f := clock.Frame{RotationY: math32.Pi / 2, OffsetY: 0.2}
	p := ModelMatrix(f).TransformPoint(math.Vec3{X: 1})

	// rotation first, then the vertical bob
	if !near(p.X, 0) || !near(p.Y, 0.2) || !near(p.Z, -1) {
		t.Errorf("ModelMatrix moved (1,0,0) to %+v", p)
	}
}

func TestProjectionDegenerateSize(t *testing.T) {
	got := Projection(0, 0)
	want := math.Perspective(FieldOfView, 1, Near, Far)
	if got != want {
		t.Errorf("Projection(0,0) should fall back to a square aspect")
	}
}

func TestSavePixelsFlipsRows(t *testing.T) {
	// 1x2 image: bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	path, err := SavePixels(t.TempDir(), at, pixels, 1, 2)
	if err != nil {
		t.Fatalf("SavePixels() error = %v", err)
	}
	if filepath.Base(path) != "screenshot-20260301-123000.000.png" {
		t.Errorf("path = %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); b == 0 || r != 0 {
		t.Errorf("top pixel should be blue, got r=%d b=%d", r, b)
	}
	if r, _, b, _ := img.At(0, 1).RGBA(); r == 0 || b != 0 {
		t.Errorf("bottom pixel should be red, got r=%d b=%d", r, b)
	}
}

func TestSavePixelsSizeMismatch(t *testing.T) {
	if _, err := SavePixels(t.TempDir(), time.Now(), make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}
