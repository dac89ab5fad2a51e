package scene

func cloneRef(f *FileRef) *FileRef {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// Clone returns a deep copy of t.
func (t TextureMaps) Clone() TextureMaps {
	return TextureMaps{
		Diffuse:   cloneRef(t.Diffuse),
		Specular:  cloneRef(t.Specular),
		Normal:    cloneRef(t.Normal),
		Roughness: cloneRef(t.Roughness),
	}
}

// Clone returns a deep copy of m.
func (m Material) Clone() Material {
	m.Maps = m.Maps.Clone()
	return m
}

// Clone returns a deep copy of m.
func (m Mesh) Clone() Mesh {
	m.Material = m.Material.Clone()
	if m.Layers != nil {
		layers := make([]Layer, len(m.Layers))
		copy(layers, m.Layers)
		m.Layers = layers
	}
	return m
}

// Clone returns a deep copy of a.
func (a Animation) Clone() Animation {
	if a.Keyframes != nil {
		keys := make([]Keyframe, len(a.Keyframes))
		copy(keys, a.Keyframes)
		a.Keyframes = keys
	}
	a.Mocap = cloneRef(a.Mocap)
	return a
}

// Clone returns a deep copy of a.
func (a AI) Clone() AI {
	if a.CancelToken != nil {
		tok := *a.CancelToken
		a.CancelToken = &tok
	}
	a.Image = cloneRef(a.Image)
	return a
}

// Clone returns a deep copy of e.
func (e Editable) Clone() Editable {
	e.Mesh = e.Mesh.Clone()
	e.Animation = e.Animation.Clone()
	e.AI = e.AI.Clone()
	return e
}

// WithoutJob returns a copy of e with the live job fields zeroed, so that
// two editables can be compared while a job is running.
func (e Editable) WithoutJob() Editable {
	e = e.Clone()
	e.AI.Busy = false
	e.AI.Progress = 0
	e.AI.CancelToken = nil
	return e
}

// Clone returns a deep copy of m. The copy shares no memory with m.
func (m Model) Clone() Model {
	m.AI = m.AI.Clone()
	m.Mesh = m.Mesh.Clone()
	m.Animation = m.Animation.Clone()
	if m.Collaboration.Users != nil {
		m.Collaboration.Users = append([]string{}, m.Collaboration.Users...)
	}
	return m
}
