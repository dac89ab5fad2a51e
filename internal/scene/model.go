// Package scene defines the edited scene model: selection, mesh, material,
// animation, rig, generation parameters and export settings.
//
// Values in this package are plain data. Mutation happens only through the
// typed patches in patch.go, which clamp every field into its domain.
package scene

// Tool is the active editing mode.
type Tool string

// Editing modes.
const (
	ToolTextTo3D  Tool = "textTo3D"
	ToolImageTo3D Tool = "imageTo3D"
	ToolSculpt    Tool = "sculpt"
	ToolPaint     Tool = "paint"
	ToolRig       Tool = "rig"
	ToolAnimate   Tool = "animate"
)

// Tools lists the editing modes in panel order.
var Tools = []Tool{ToolTextTo3D, ToolImageTo3D, ToolSculpt, ToolPaint, ToolRig, ToolAnimate}

// Valid reports whether t is a known editing mode.
func (t Tool) Valid() bool {
	for _, known := range Tools {
		if t == known {
			return true
		}
	}
	return false
}

// Next returns the mode after t, wrapping around.
func (t Tool) Next() Tool {
	for i, known := range Tools {
		if t == known {
			return Tools[(i+1)%len(Tools)]
		}
	}
	return Tools[0]
}

// Interpolation selects how keyframe values are blended.
type Interpolation string

// Interpolation modes.
const (
	InterpLinear  Interpolation = "linear"
	InterpBezier  Interpolation = "bezier"
	InterpCatmull Interpolation = "catmull"
)

// Valid reports whether i is a known interpolation mode.
func (i Interpolation) Valid() bool {
	switch i {
	case InterpLinear, InterpBezier, InterpCatmull:
		return true
	}
	return false
}

// Easing shapes the parameter between two keyframes.
type Easing string

// Easing curves.
const (
	EaseLinear Easing = "linear"
	EaseIn     Easing = "easeIn"
	EaseOut    Easing = "easeOut"
	EaseInOut  Easing = "easeInOut"
)

// Valid reports whether e is a known easing curve.
func (e Easing) Valid() bool {
	switch e {
	case EaseLinear, EaseIn, EaseOut, EaseInOut:
		return true
	}
	return false
}

// Format is an export file format.
type Format string

// Export formats.
const (
	FormatGLTF Format = "gltf"
	FormatFBX  Format = "fbx"
	FormatOBJ  Format = "obj"
	FormatSTL  Format = "stl"
)

// Valid reports whether f is a supported export format.
func (f Format) Valid() bool {
	switch f {
	case FormatGLTF, FormatFBX, FormatOBJ, FormatSTL:
		return true
	}
	return false
}

// TextStyle is the look requested from text-to-3D generation.
type TextStyle string

// Text styles.
const (
	StylePhotorealistic TextStyle = "photorealistic"
	StyleStylized       TextStyle = "stylized"
	StyleAbstract       TextStyle = "abstract"
)

// Valid reports whether s is a known text style.
func (s TextStyle) Valid() bool {
	switch s {
	case StylePhotorealistic, StyleStylized, StyleAbstract:
		return true
	}
	return false
}

// MapSlot names a material texture slot.
type MapSlot string

// Material texture slots.
const (
	MapDiffuse   MapSlot = "diffuse"
	MapSpecular  MapSlot = "specular"
	MapNormal    MapSlot = "normal"
	MapRoughness MapSlot = "roughness"
)

// MapSlots lists the texture slots in panel order.
var MapSlots = []MapSlot{MapDiffuse, MapSpecular, MapNormal, MapRoughness}

// JobKind is the input a generation job reconstructs from.
type JobKind string

// Generation job kinds.
const (
	JobText  JobKind = "text"
	JobImage JobKind = "image"
)

// FileRef is a handle to a file chosen by the user. Contents are never read
// by the scene engine; Width and Height are filled for images when known.
type FileRef struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	MediaType string `yaml:"media_type,omitempty"`
	Size      int64  `yaml:"size"`
	Width     int    `yaml:"width,omitempty"`
	Height    int    `yaml:"height,omitempty"`
}

// Selection identifies the selected scene object.
type Selection struct {
	Type string
	ID   string
}

// Camera holds viewport camera preferences.
type Camera struct {
	AutoRotate bool
}

// Layer is a toggleable edit layer of the mesh.
type Layer struct {
	ID      string
	Name    string
	Visible bool
}

// TextureMaps holds the optional texture for each material slot.
type TextureMaps struct {
	Diffuse   *FileRef
	Specular  *FileRef
	Normal    *FileRef
	Roughness *FileRef
}

// Get returns the texture in slot, or nil.
func (t TextureMaps) Get(slot MapSlot) *FileRef {
	switch slot {
	case MapDiffuse:
		return t.Diffuse
	case MapSpecular:
		return t.Specular
	case MapNormal:
		return t.Normal
	case MapRoughness:
		return t.Roughness
	}
	return nil
}

// Material is a PBR parameter set.
type Material struct {
	Color       string // #rrggbb
	Roughness   float64
	Metalness   float64
	NormalScale float64
	Maps        TextureMaps
}

// Mesh holds the procedural mesh parameters.
type Mesh struct {
	Resolution     int
	Simplify       float64
	Material       Material
	NonDestructive bool
	Layers         []Layer
}

// Keyframe is one sample of the animation track.
type Keyframe struct {
	Time  float64
	Value float64
}

// Animation holds the playback state and keyframe track.
type Animation struct {
	Playing       bool
	Time          float64 // seconds, in [0, Duration)
	Duration      float64 // seconds, > 0
	Interpolation Interpolation
	Easing        Easing
	Keyframes     []Keyframe // ordered by Time
	Mocap         *FileRef   // imported motion capture file, not parsed
}

// Rig holds skeleton parameters.
type Rig struct {
	Bones int
	IK    bool
}

// Recon holds image reconstruction parameters, each in [0,1].
type Recon struct {
	Depth     float64
	Density   float64
	TexDetail float64
}

// CancelToken is the cooperative cancellation flag of a generation job.
type CancelToken struct {
	Job       uint64
	Cancelled bool
}

// AI holds generation job state and parameters.
type AI struct {
	Busy        bool
	Progress    int // percent, multiple of the step increment
	CancelToken *CancelToken
	TextPrompt  string
	TextStyle   TextStyle
	Complexity  float64
	Detail      float64
	Image       *FileRef
	Recon       Recon
}

// Export holds export settings.
type Export struct {
	Format        Format
	PolyCount     int // thousands of polygons
	TexResolution int // pixels
}

// Collaboration is the shared-session presence state. Nothing connects a
// session yet, so it stays at its defaults.
type Collaboration struct {
	Connected bool
	Users     []string
}

// Model is the aggregate root of the edited scene.
type Model struct {
	Theme         string
	Selection     Selection
	Camera        Camera
	Tool          Tool
	AI            AI
	Mesh          Mesh
	Animation     Animation
	Rig           Rig
	Export        Export
	Collaboration Collaboration
}

// Editable is the subset of Model captured by undo history.
type Editable struct {
	Selection Selection
	Mesh      Mesh
	Animation Animation
	Rig       Rig
	AI        AI
}

// Editable returns a deep copy of the history-tracked fields.
func (m Model) Editable() Editable {
	return Editable{
		Selection: m.Selection,
		Mesh:      m.Mesh.Clone(),
		Animation: m.Animation.Clone(),
		Rig:       m.Rig,
		AI:        m.AI.Clone(),
	}
}

// Restore replaces the history-tracked fields wholesale with a copy of e.
func (m *Model) Restore(e Editable) {
	e = e.Clone()
	m.Selection = e.Selection
	m.Mesh = e.Mesh
	m.Animation = e.Animation
	m.Rig = e.Rig
	m.AI = e.AI
}
