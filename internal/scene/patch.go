package scene

import (
	"math"
	"sort"
	"strings"
)

// Domain limits enforced by the patches.
const (
	MinDuration      = 0.1
	MaxNormalScale   = 2.0
	MinPolyCount     = 10
	MaxPolyCount     = 1000
	MinTexResolution = 256
	MaxTexResolution = 8192
	SimplifyStep     = 0.1
)

// Ptr returns a pointer to v, for filling optional patch fields.
func Ptr[T any](v T) *T {
	return &v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// unit applies a [0,1] field update. NaN leaves the field unchanged.
func unit(dst *float64, v *float64) {
	if v == nil || math.IsNaN(*v) {
		return
	}
	*dst = clamp(*v, 0, 1)
}

// ClampResolution clamps a subdivision level to its domain.
func ClampResolution(r int) int {
	if r < 0 {
		return 0
	}
	return r
}

// ClampSimplify clamps a simplification ratio into [0,1].
func ClampSimplify(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return clamp(s, 0, 1)
}

// WrapTime folds t into [0,duration). Negative, NaN and infinite times
// become 0, as does any time against a non-finite duration.
func WrapTime(t, duration float64) float64 {
	if !finite(t) || !finite(duration) || t < 0 || duration <= 0 {
		return 0
	}
	t = math.Mod(t, duration)
	if math.IsNaN(t) || t >= duration {
		return 0
	}
	return t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizeColor returns c as lower-case #rrggbb, or false if c is not a hex color.
func NormalizeColor(c string) (string, bool) {
	c = strings.TrimSpace(strings.ToLower(c))
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	if len(c) == 4 {
		c = string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
	}
	if len(c) != 7 {
		return "", false
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", false
		}
	}
	return c, true
}

// MaterialPatch updates material parameters. Nil fields are left untouched.
type MaterialPatch struct {
	Color       *string
	Roughness   *float64
	Metalness   *float64
	NormalScale *float64
}

// Apply merges p into m.
func (p MaterialPatch) Apply(m Material) Material {
	if p.Color != nil {
		if c, ok := NormalizeColor(*p.Color); ok {
			m.Color = c
		}
	}
	unit(&m.Roughness, p.Roughness)
	unit(&m.Metalness, p.Metalness)
	if p.NormalScale != nil && !math.IsNaN(*p.NormalScale) {
		m.NormalScale = clamp(*p.NormalScale, 0, MaxNormalScale)
	}
	return m
}

// SetMap stores file in slot. A nil file clears the slot.
func (t TextureMaps) SetMap(slot MapSlot, file *FileRef) TextureMaps {
	file = cloneRef(file)
	switch slot {
	case MapDiffuse:
		t.Diffuse = file
	case MapSpecular:
		t.Specular = file
	case MapNormal:
		t.Normal = file
	case MapRoughness:
		t.Roughness = file
	}
	return t
}

// ToggleLayer flips the visibility of layer id. Unknown ids are ignored.
func (m Mesh) ToggleLayer(id string) (Mesh, bool) {
	for i := range m.Layers {
		if m.Layers[i].ID == id {
			m = m.Clone()
			m.Layers[i].Visible = !m.Layers[i].Visible
			return m, true
		}
	}
	return m, false
}

// AnimationPatch updates playback settings. Nil fields are left untouched.
type AnimationPatch struct {
	Playing       *bool
	Time          *float64
	Duration      *float64
	Interpolation *Interpolation
	Easing        *Easing
}

// Apply merges p into a. Time is applied after Duration and wrapped into the
// new range; unknown enum values are ignored.
func (p AnimationPatch) Apply(a Animation) Animation {
	if p.Playing != nil {
		a.Playing = *p.Playing
	}
	if p.Duration != nil && finite(*p.Duration) {
		a.Duration = math.Max(*p.Duration, MinDuration)
		a.Time = WrapTime(a.Time, a.Duration)
	}
	if p.Time != nil {
		a.Time = WrapTime(*p.Time, a.Duration)
	}
	if p.Interpolation != nil && p.Interpolation.Valid() {
		a.Interpolation = *p.Interpolation
	}
	if p.Easing != nil && p.Easing.Valid() {
		a.Easing = *p.Easing
	}
	return a
}

// AddKeyframe inserts k keeping the track ordered by time. Keyframes at an
// equal time keep insertion order. The time is clamped into [0,duration].
func (a Animation) AddKeyframe(k Keyframe) Animation {
	if math.IsNaN(k.Time) || math.IsNaN(k.Value) {
		return a
	}
	k.Time = clamp(k.Time, 0, a.Duration)
	a = a.Clone()
	i := sort.Search(len(a.Keyframes), func(i int) bool {
		return a.Keyframes[i].Time > k.Time
	})
	a.Keyframes = append(a.Keyframes, Keyframe{})
	copy(a.Keyframes[i+1:], a.Keyframes[i:])
	a.Keyframes[i] = k
	return a
}

// RigPatch updates the rig. Nil fields are left untouched.
type RigPatch struct {
	Bones *int
	IK    *bool
}

// Apply merges p into r.
func (p RigPatch) Apply(r Rig) Rig {
	if p.Bones != nil {
		r.Bones = max(*p.Bones, 0)
	}
	if p.IK != nil {
		r.IK = *p.IK
	}
	return r
}

// AIPatch updates text generation parameters. Nil fields are left untouched.
type AIPatch struct {
	TextPrompt *string
	TextStyle  *TextStyle
	Complexity *float64
	Detail     *float64
}

// Apply merges p into a.
func (p AIPatch) Apply(a AI) AI {
	if p.TextPrompt != nil {
		a.TextPrompt = *p.TextPrompt
	}
	if p.TextStyle != nil && p.TextStyle.Valid() {
		a.TextStyle = *p.TextStyle
	}
	unit(&a.Complexity, p.Complexity)
	unit(&a.Detail, p.Detail)
	return a
}

// ReconPatch updates image reconstruction parameters.
type ReconPatch struct {
	Depth     *float64
	Density   *float64
	TexDetail *float64
}

// Apply merges p into r.
func (p ReconPatch) Apply(r Recon) Recon {
	unit(&r.Depth, p.Depth)
	unit(&r.Density, p.Density)
	unit(&r.TexDetail, p.TexDetail)
	return r
}

// ExportPatch updates export settings. Nil fields are left untouched.
type ExportPatch struct {
	Format        *Format
	PolyCount     *int
	TexResolution *int
}

// Apply merges p into e.
func (p ExportPatch) Apply(e Export) Export {
	if p.Format != nil && p.Format.Valid() {
		e.Format = *p.Format
	}
	if p.PolyCount != nil {
		e.PolyCount = clampInt(*p.PolyCount, MinPolyCount, MaxPolyCount)
	}
	if p.TexResolution != nil {
		e.TexResolution = clampInt(*p.TexResolution, MinTexResolution, MaxTexResolution)
	}
	return e
}
