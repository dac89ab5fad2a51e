// Package lod derives the renderable level-of-detail description of the
// procedural mesh: three icosphere levels chosen by viewer distance and an
// optional wireframe overlay marking a simplified mesh.
//
// Derivation is pure. Identical Params always yield an identical Description,
// so results are memoized by Cache.
package lod

import (
	"math"

	"github.com/Faultbox/astramesh/internal/scene"
)

// Thresholds are the minimum viewer distances of the three levels, in scene units.
var Thresholds = [3]float64{0, 30, 60}

// Overlay appearance.
const (
	OverlayRadius  = 1.01
	OverlayColor   = "#26a69a"
	OverlayOpacity = 0.4

	// SimplifyEpsilon is the simplification ratio above which the overlay is shown.
	SimplifyEpsilon = 0.01
)

// Params are the inputs of a derivation. The struct is comparable and used
// as the memo key.
type Params struct {
	Resolution int
	Simplify   float64
	Color      string
	Roughness  float64
	Metalness  float64
}

// ParamsOf extracts the derivation inputs from a mesh.
func ParamsOf(m scene.Mesh) Params {
	return Params{
		Resolution: m.Resolution,
		Simplify:   m.Simplify,
		Color:      m.Material.Color,
		Roughness:  m.Material.Roughness,
		Metalness:  m.Material.Metalness,
	}
}

// Surface is the shading input shared by all levels.
type Surface struct {
	Color     string
	Roughness float64
	Metalness float64
}

// Level is one LOD geometry.
type Level struct {
	Resolution int
	Distance   float64 // minimum viewer distance
	Mesh       *Mesh
}

// Overlay is the translucent wireframe shown over a simplified mesh.
type Overlay struct {
	Resolution int
	Radius     float32
	Color      string
	Opacity    float64
	Wireframe  bool
	Mesh       *Mesh
}

// Description is everything the viewport needs to draw the mesh. Meshes may
// be shared between descriptions and must be treated as read-only.
type Description struct {
	Params  Params
	Levels  [3]Level
	Surface Surface
	Overlay *Overlay
}

// LevelFor returns the last level whose distance threshold is not greater
// than distance.
func (d *Description) LevelFor(distance float64) *Level {
	idx := 0
	for i := range d.Levels {
		if d.Levels[i].Distance <= distance {
			idx = i
		}
	}
	return &d.Levels[idx]
}

// Faces returns the triangle count of each level.
func (d *Description) Faces() [3]int {
	var out [3]int
	for i, l := range d.Levels {
		if l.Mesh != nil {
			out[i] = l.Mesh.Faces()
		}
	}
	return out
}

// LevelResolutions returns the subdivision levels for base resolution r:
// max(1,r), max(1,r-1), max(1,r-2).
func LevelResolutions(r int) [3]int {
	return [3]int{max(1, r), max(1, r-1), max(1, r-2)}
}

// OverlayResolution returns the overlay subdivision and whether an overlay
// is shown at all.
func OverlayResolution(r int, simplify float64) (int, bool) {
	if !(simplify > SimplifyEpsilon) {
		return 0, false
	}
	return max(0, r-int(math.Floor(3*simplify))), true
}

// Synthesize derives the description for p, tessellating fresh geometry.
func Synthesize(p Params) Description {
	return synthesize(p, func(detail int, radius float32) *Mesh {
		return Icosphere(detail, radius)
	})
}

func synthesize(p Params, build func(detail int, radius float32) *Mesh) Description {
	d := Description{
		Params: p,
		Surface: Surface{
			Color:     p.Color,
			Roughness: p.Roughness,
			Metalness: p.Metalness,
		},
	}
	for i, r := range LevelResolutions(p.Resolution) {
		d.Levels[i] = Level{
			Resolution: r,
			Distance:   Thresholds[i],
			Mesh:       build(r, 1),
		}
	}
	if r, ok := OverlayResolution(p.Resolution, p.Simplify); ok {
		d.Overlay = &Overlay{
			Resolution: r,
			Radius:     OverlayRadius,
			Color:      OverlayColor,
			Opacity:    OverlayOpacity,
			Wireframe:  true,
			Mesh:       build(r, OverlayRadius),
		}
	}
	return d
}
