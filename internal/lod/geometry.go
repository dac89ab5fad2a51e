package lod

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/astramesh/pkg/math"
)

// MaxDetail caps the subdivision actually tessellated. Levels above it reuse
// the MaxDetail mesh.
const MaxDetail = 6

// Vertex is a mesh vertex with position and normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh holds triangle geometry ready for GPU upload.
type Mesh struct {
	Detail   int
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Faces returns the triangle count.
func (m *Mesh) Faces() int {
	return len(m.Indices) / 3
}

// FaceCount returns the triangle count of an icosphere subdivided n times.
func FaceCount(n int) int {
	n = clampDetail(n)
	return 20 << (2 * n)
}

func clampDetail(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxDetail {
		return MaxDetail
	}
	return n
}

// Icosphere builds a unit sphere by subdividing an icosahedron detail times.
// Each subdivision splits every triangle into four.
func Icosphere(detail int, radius float32) *Mesh {
	detail = clampDetail(detail)
	positions, faces := icosahedron()

	for i := 0; i < detail; i++ {
		mid := make(map[[2]uint32]uint32, len(faces)*3/2)
		next := make([][3]uint32, 0, len(faces)*4)

		midpoint := func(a, b uint32) uint32 {
			key := [2]uint32{a, b}
			if a > b {
				key = [2]uint32{b, a}
			}
			if idx, ok := mid[key]; ok {
				return idx
			}
			p := positions[a].Midpoint(positions[b]).Normalize()
			positions = append(positions, p)
			idx := uint32(len(positions) - 1)
			mid[key] = idx
			return idx
		}

		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				[3]uint32{f[0], ab, ca},
				[3]uint32{f[1], bc, ab},
				[3]uint32{f[2], ca, bc},
				[3]uint32{ab, bc, ca},
			)
		}
		faces = next
	}

	mesh := &Mesh{
		Detail:   detail,
		Vertices: make([]Vertex, len(positions)),
		Indices:  make([]uint32, 0, len(faces)*3),
		Bounds: Bounds{
			Min: [3]float32{-radius, -radius, -radius},
			Max: [3]float32{radius, radius, radius},
		},
	}
	for i, p := range positions {
		mesh.Vertices[i] = Vertex{
			Position: p.Scale(radius).Array(),
			Normal:   p.Array(),
		}
	}
	for _, f := range faces {
		mesh.Indices = append(mesh.Indices, f[0], f[1], f[2])
	}
	return mesh
}

// icosahedron returns the 12 unit vertices and 20 faces of a regular
// icosahedron, counter-clockwise when viewed from outside.
func icosahedron() ([]math.Vec3, [][3]uint32) {
	t := (1 + math32.Sqrt(5)) / 2

	raw := []math.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	positions := make([]math.Vec3, len(raw))
	for i, v := range raw {
		positions[i] = v.Normalize()
	}

	faces := [][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return positions, faces
}
