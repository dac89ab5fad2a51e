package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/astramesh/internal/config"
	"github.com/Faultbox/astramesh/internal/export"
	"github.com/Faultbox/astramesh/internal/scene"
)

// run executes studioctl with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLodCommand(t *testing.T) {
	out, err := run(t, "lod", "-r", "4", "-s", "0.5")
	require.NoError(t, err)

	assert.Contains(t, out, "level 0  distance=0    resolution=4 faces=5120")
	assert.Contains(t, out, "level 1  distance=30   resolution=3")
	assert.Contains(t, out, "level 2  distance=60   resolution=2")
	assert.Contains(t, out, "overlay  resolution=3 radius=1.01 color=#26a69a opacity=0.4 wireframe=true")
}

func TestLodCommandWithoutOverlay(t *testing.T) {
	out, err := run(t, "lod", "-r", "0", "-s", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "level 2  distance=60   resolution=1")
	assert.Contains(t, out, "overlay  none")
}

func TestGenerateVirtual(t *testing.T) {
	t.Cleanup(func() { genCancelAt, genVirtual = 0, false })

	out, err := run(t, "generate", "--virtual", "--cancel-at", "0")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "started     0%", lines[0])
	assert.Equal(t, "completed 100%", lines[len(lines)-2])
	assert.Equal(t, "job 1 completed", lines[len(lines)-1])

	out, err = run(t, "generate", "--virtual", "--cancel-at", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "progress   25%")
	assert.NotContains(t, out, "progress   30%")
	assert.Contains(t, out, "cancelled")
}

func TestGenerateImageInterrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	genKind, genImage, genVirtual = string(scene.JobImage), path, true
	t.Cleanup(func() { genKind, genImage, genVirtual = string(scene.JobText), "", false })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	generateCmd.SetOut(&out)
	t.Cleanup(func() { generateCmd.SetOut(nil) })
	require.NoError(t, runGenerate(ctx, generateCmd, newStore(config.Default())))

	assert.Contains(t, out.String(), "cancelled")
	assert.Contains(t, out.String(), "job 1 cancelled")
	assert.NotContains(t, out.String(), "completed")
}

func TestGenerateUnknownKind(t *testing.T) {
	t.Cleanup(func() { genKind, genVirtual = string(scene.JobText), false })
	_, err := run(t, "generate", "--virtual", "--kind", "audio")
	assert.ErrorContains(t, err, "unknown job kind")
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { exportFormat, exportOut = string(scene.FormatGLTF), "" })

	out, err := run(t, "export", "--format", "stl", "--out", dir, "-r", "3")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".stl.yaml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m export.Manifest
	require.NoError(t, yaml.Unmarshal(data, &m))
	assert.Equal(t, scene.FormatSTL, m.Format)
	assert.Equal(t, 3, m.Levels[0].Resolution)
}

func TestExportRejectsFormat(t *testing.T) {
	t.Cleanup(func() { exportFormat, exportOut = string(scene.FormatGLTF), "" })
	_, err := run(t, "export", "--format", "blend", "--out", t.TempDir())
	assert.ErrorContains(t, err, "unknown format")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
