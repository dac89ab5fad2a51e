package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/astramesh/internal/scene"
)

// Manifest describes what a real serializer would write for a request.
type Manifest struct {
	Format        scene.Format    `yaml:"format"`
	PolyCount     int             `yaml:"poly_count_k"`
	TexResolution int             `yaml:"texture_resolution"`
	RequestedAt   time.Time       `yaml:"requested_at"`
	Levels        []ManifestLevel `yaml:"levels"`
	Overlay       *ManifestLevel  `yaml:"overlay,omitempty"`
	Material      MaterialInfo    `yaml:"material"`
	Layers        []string        `yaml:"layers"`
	Bones         int             `yaml:"bones"`
	IK            bool            `yaml:"ik"`
	Phase         float64         `yaml:"phase"`
}

// ManifestLevel is one geometry level of the manifest.
type ManifestLevel struct {
	Resolution int     `yaml:"resolution"`
	Distance   float64 `yaml:"distance"`
	Faces      int     `yaml:"faces"`
	Vertices   int     `yaml:"vertices"`
}

// MaterialInfo is the material section of the manifest.
type MaterialInfo struct {
	Color       string                    `yaml:"color"`
	Roughness   float64                   `yaml:"roughness"`
	Metalness   float64                   `yaml:"metalness"`
	NormalScale float64                   `yaml:"normal_scale"`
	Maps        map[string]*scene.FileRef `yaml:"maps,omitempty"`
}

// NewManifest builds the manifest for req.
func NewManifest(req Request) Manifest {
	m := Manifest{
		Format:        req.Settings.Format,
		PolyCount:     req.Settings.PolyCount,
		TexResolution: req.Settings.TexResolution,
		RequestedAt:   req.RequestedAt.UTC(),
		Material: MaterialInfo{
			Color:       req.Material.Color,
			Roughness:   req.Material.Roughness,
			Metalness:   req.Material.Metalness,
			NormalScale: req.Material.NormalScale,
		},
		Layers: make([]string, 0, len(req.Layers)),
		Bones:  req.Rig.Bones,
		IK:     req.Rig.IK,
		Phase:  req.Frame.TNorm,
	}

	for _, slot := range scene.MapSlots {
		if f := req.Material.Maps.Get(slot); f != nil {
			if m.Material.Maps == nil {
				m.Material.Maps = make(map[string]*scene.FileRef)
			}
			ref := *f
			m.Material.Maps[string(slot)] = &ref
		}
	}
	for _, l := range req.Layers {
		m.Layers = append(m.Layers, l.ID)
	}

	if req.Scene != nil {
		for _, l := range req.Scene.Levels {
			ml := ManifestLevel{Resolution: l.Resolution, Distance: l.Distance}
			if l.Mesh != nil {
				ml.Faces = l.Mesh.Faces()
				ml.Vertices = len(l.Mesh.Vertices)
			}
			m.Levels = append(m.Levels, ml)
		}
		if o := req.Scene.Overlay; o != nil {
			ml := ManifestLevel{Resolution: o.Resolution}
			if o.Mesh != nil {
				ml.Faces = o.Mesh.Faces()
				ml.Vertices = len(o.Mesh.Vertices)
			}
			m.Overlay = &ml
		}
	}
	return m
}

// ManifestWriter is a Collaborator that writes a YAML manifest per export
// into a directory.
type ManifestWriter struct {
	Dir string

	last string
}

// NewManifestWriter creates a writer targeting dir.
func NewManifestWriter(dir string) *ManifestWriter {
	return &ManifestWriter{Dir: dir}
}

// Export writes export-<unix-ms>.<format>.yaml.
func (w *ManifestWriter) Export(ctx context.Context, req Request) error {
	_, err := w.Write(ctx, req)
	return err
}

// Write writes the manifest and returns its path.
func (w *ManifestWriter) Write(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(NewManifest(req))
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}

	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("export-%d.%s.yaml", req.RequestedAt.UnixMilli(), req.Settings.Format)
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	w.last = path
	return path, nil
}

// Last returns the path of the most recently written manifest.
func (w *ManifestWriter) Last() string {
	return w.last
}
