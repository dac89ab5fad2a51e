package scene

// Default values of a fresh session.
const (
	DefaultColor      = "#9bd4ce"
	DefaultResolution = 2
	DefaultDuration   = 4.0
	DefaultPolyCount  = 100
	DefaultTexture    = 2048
	PrimaryMeshID     = "primary-mesh"
	SelectionTypeMesh = "mesh"
	DefaultTheme      = "dark"
)

// DefaultMaterial returns the material a new mesh starts with.
func DefaultMaterial() Material {
	return Material{
		Color:       DefaultColor,
		Roughness:   0.5,
		Metalness:   0.1,
		NormalScale: 0.5,
	}
}

// Default returns the initial scene of a new session.
func Default() Model {
	return Model{
		Theme:     DefaultTheme,
		Selection: Selection{Type: SelectionTypeMesh, ID: PrimaryMeshID},
		Tool:      ToolTextTo3D,
		AI: AI{
			TextStyle:  StylePhotorealistic,
			Complexity: 0.6,
			Detail:     0.7,
			Recon: Recon{
				Depth:     0.6,
				Density:   0.5,
				TexDetail: 0.7,
			},
		},
		Mesh: Mesh{
			Resolution:     DefaultResolution,
			Material:       DefaultMaterial(),
			NonDestructive: true,
			Layers: []Layer{
				{ID: "base", Name: "Base Mesh", Visible: true},
				{ID: "sculpt", Name: "Sculpt Layer", Visible: true},
				{ID: "paint", Name: "Paint Layer", Visible: true},
			},
		},
		Animation: Animation{
			Duration:      DefaultDuration,
			Interpolation: InterpLinear,
			Easing:        EaseInOut,
			Keyframes:     []Keyframe{},
		},
		Rig: Rig{IK: true},
		Export: Export{
			Format:        FormatGLTF,
			PolyCount:     DefaultPolyCount,
			TexResolution: DefaultTexture,
		},
		Collaboration: Collaboration{Users: []string{}},
	}
}
