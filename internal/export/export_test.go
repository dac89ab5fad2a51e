package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/astramesh/internal/lod"
	"github.com/Faultbox/astramesh/internal/scene"
)

func sampleRequest() Request {
	m := scene.Default()
	m.Mesh.Resolution = 3
	m.Mesh.Simplify = 0.5
	m.Mesh.Layers[2].Visible = false
	m.Mesh.Material.Maps.Normal = &scene.FileRef{Name: "n.png", Path: "/tmp/n.png", Size: 10}

	desc := lod.Synthesize(lod.ParamsOf(m.Mesh))
	return Request{
		Settings:    scene.Export{Format: scene.FormatOBJ, PolyCount: 250, TexResolution: 1024},
		Scene:       &desc,
		Material:    m.Mesh.Material,
		Layers:      VisibleLayers(m.Mesh.Layers),
		Rig:         m.Rig,
		RequestedAt: time.UnixMilli(1700000000123),
	}
}

func TestNewManifest(t *testing.T) {
	m := NewManifest(sampleRequest())

	assert.Equal(t, scene.FormatOBJ, m.Format)
	assert.Equal(t, 250, m.PolyCount)
	assert.Equal(t, []string{"base", "sculpt"}, m.Layers)
	require.Len(t, m.Levels, 3)
	assert.Equal(t, 3, m.Levels[0].Resolution)
	assert.Equal(t, lod.FaceCount(3), m.Levels[0].Faces)
	require.NotNil(t, m.Overlay)
	assert.Equal(t, 2, m.Overlay.Resolution)
	require.Contains(t, m.Material.Maps, "normal")
	assert.NotContains(t, m.Material.Maps, "diffuse")
}

func TestManifestWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewManifestWriter(dir)

	path, err := w.Write(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export-1700000000123.obj.yaml"), path)
	assert.Equal(t, path, w.Last())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, scene.FormatOBJ, got.Format)
	assert.Equal(t, 1024, got.TexResolution)
	assert.Len(t, got.Levels, 3)
}

func TestManifestWriterCancelled(t *testing.T) {
	w := NewManifestWriter(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Export(ctx, sampleRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.Last())
}

func TestFunc(t *testing.T) {
	var got Request
	var c Collaborator = Func(func(_ context.Context, req Request) error {
		got = req
		return nil
	})
	require.NoError(t, c.Export(context.Background(), sampleRequest()))
	assert.Equal(t, scene.FormatOBJ, got.Settings.Format)
}

func TestVisibleLayers(t *testing.T) {
	layers := []scene.Layer{{ID: "a", Visible: true}, {ID: "b"}, {ID: "c", Visible: true}}
	got := VisibleLayers(layers)
	assert.Equal(t, []scene.Layer{{ID: "a", Visible: true}, {ID: "c", Visible: true}}, got)
	assert.Empty(t, VisibleLayers(nil))
}
