package store

import (
	"math"
	"strings"

	"github.com/Faultbox/astramesh/internal/scene"
)

// SetTool switches the editing mode. Unknown modes are ignored.
func (s *Store) SetTool(t scene.Tool) bool {
	if !t.Valid() {
		return false
	}
	return s.update("setTool", func(m *scene.Model) bool {
		m.Tool = t
		return true
	})
}

// CycleTool switches to the next editing mode.
func (s *Store) CycleTool() bool {
	return s.update("setTool", func(m *scene.Model) bool {
		m.Tool = m.Tool.Next()
		return true
	})
}

// SetSelection selects a scene object.
func (s *Store) SetSelection(sel scene.Selection) bool {
	return s.update("setSelection", func(m *scene.Model) bool {
		m.Selection = sel
		return true
	})
}

// SetTheme sets the UI theme name. Blank names are ignored.
func (s *Store) SetTheme(theme string) bool {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return false
	}
	return s.update("setTheme", func(m *scene.Model) bool {
		m.Theme = theme
		return true
	})
}

// SetAutoRotate toggles viewport auto rotation.
func (s *Store) SetAutoRotate(on bool) bool {
	return s.update("setAutoRotate", func(m *scene.Model) bool {
		m.Camera.AutoRotate = on
		return true
	})
}

// SetPrompt sets the text-to-3D prompt.
func (s *Store) SetPrompt(prompt string) bool {
	return s.SetAIParams(scene.AIPatch{TextPrompt: &prompt})
}

// SetAIParams merges text generation parameters.
func (s *Store) SetAIParams(p scene.AIPatch) bool {
	return s.update("setAIParams", func(m *scene.Model) bool {
		m.AI = p.Apply(m.AI)
		return true
	})
}

// SetReconParams merges image reconstruction parameters.
func (s *Store) SetReconParams(p scene.ReconPatch) bool {
	return s.update("setReconParams", func(m *scene.Model) bool {
		m.AI.Recon = p.Apply(m.AI.Recon)
		return true
	})
}

// SetMaterial merges material parameters.
func (s *Store) SetMaterial(p scene.MaterialPatch) bool {
	return s.update("setMaterial", func(m *scene.Model) bool {
		m.Mesh.Material = p.Apply(m.Mesh.Material)
		return true
	})
}

// SetMaterialMap assigns file to a texture slot; nil clears it. Unknown
// slots are ignored.
func (s *Store) SetMaterialMap(slot scene.MapSlot, file *scene.FileRef) bool {
	known := false
	for _, sl := range scene.MapSlots {
		known = known || sl == slot
	}
	if !known {
		return false
	}
	return s.update("setMaterialMap", func(m *scene.Model) bool {
		m.Mesh.Material.Maps = m.Mesh.Material.Maps.SetMap(slot, file)
		return true
	})
}

// SetMeshResolution sets the base subdivision level, clamped to >= 0.
func (s *Store) SetMeshResolution(r int) bool {
	return s.update("setMeshResolution", func(m *scene.Model) bool {
		m.Mesh.Resolution = scene.ClampResolution(r)
		return true
	})
}

// StepResolution changes the base subdivision level by delta.
func (s *Store) StepResolution(delta int) bool {
	return s.update("setMeshResolution", func(m *scene.Model) bool {
		m.Mesh.Resolution = scene.ClampResolution(m.Mesh.Resolution + delta)
		return true
	})
}

// SetSimplify sets the simplification ratio, clamped into [0,1]. NaN is
// ignored.
func (s *Store) SetSimplify(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	return s.update("setSimplify", func(m *scene.Model) bool {
		m.Mesh.Simplify = scene.ClampSimplify(v)
		return true
	})
}

// StepSimplify raises the simplification ratio by one step.
func (s *Store) StepSimplify() bool {
	return s.update("setSimplify", func(m *scene.Model) bool {
		m.Mesh.Simplify = scene.ClampSimplify(m.Mesh.Simplify + scene.SimplifyStep)
		return true
	})
}

// ToggleLayer flips a layer's visibility. Unknown ids are ignored.
func (s *Store) ToggleLayer(id string) bool {
	return s.update("toggleLayer", func(m *scene.Model) bool {
		mesh, ok := m.Mesh.ToggleLayer(id)
		m.Mesh = mesh
		return ok
	})
}

// SetNonDestructive toggles non-destructive editing.
func (s *Store) SetNonDestructive(on bool) bool {
	return s.update("setNonDestructive", func(m *scene.Model) bool {
		m.Mesh.NonDestructive = on
		return true
	})
}

// SetAnimation merges playback settings.
func (s *Store) SetAnimation(p scene.AnimationPatch) bool {
	return s.update("setAnimation", func(m *scene.Model) bool {
		m.Animation = p.Apply(m.Animation)
		return true
	})
}

// TogglePlayback starts or pauses playback.
func (s *Store) TogglePlayback() bool {
	return s.update("togglePlayback", func(m *scene.Model) bool {
		m.Animation.Playing = !m.Animation.Playing
		return true
	})
}

// AddKeyframe inserts a keyframe keeping the track ordered by time. A
// keyframe with a NaN field is ignored.
func (s *Store) AddKeyframe(k scene.Keyframe) bool {
	if math.IsNaN(k.Time) || math.IsNaN(k.Value) {
		return false
	}
	return s.update("addKeyframe", func(m *scene.Model) bool {
		m.Animation = m.Animation.AddKeyframe(k)
		return true
	})
}

// SetRig merges rig parameters.
func (s *Store) SetRig(p scene.RigPatch) bool {
	return s.update("setRig", func(m *scene.Model) bool {
		m.Rig = p.Apply(m.Rig)
		return true
	})
}

// SetExport merges export settings.
func (s *Store) SetExport(p scene.ExportPatch) bool {
	return s.update("setExport", func(m *scene.Model) bool {
		m.Export = p.Apply(m.Export)
		return true
	})
}

// ImportMotionCapture records a motion capture file handle. The file is not
// parsed. A nil handle is ignored.
func (s *Store) ImportMotionCapture(file *scene.FileRef) bool {
	if file == nil {
		s.log.Debug("motion capture import without file")
		return false
	}
	ref := *file
	return s.update("importMocap", func(m *scene.Model) bool {
		m.Animation.Mocap = &ref
		return true
	})
}
