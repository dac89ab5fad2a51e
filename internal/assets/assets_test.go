package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, w, h int, encode func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestProbeImage(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		encode func(*os.File, image.Image) error
	}{
		{"ref.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) }},
		{"ref.bmp", func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			writeImage(t, path, 64, 48, tt.encode)

			ref, err := ProbeImage(path)
			if err != nil {
				t.Fatalf("ProbeImage() error = %v", err)
			}
			if ref.Width != 64 || ref.Height != 48 {
				t.Errorf("size = %dx%d, want 64x48", ref.Width, ref.Height)
			}
			if ref.Name != tt.name || ref.Path != path || ref.Size <= 0 {
				t.Errorf("unexpected handle %+v", ref)
			}
			if ref.MediaType == "" {
				t.Error("MediaType not set")
			}
		})
	}
}

func TestProbeImageRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ProbeImage(path); !errors.Is(err, ErrNotImage) {
		t.Errorf("ProbeImage() error = %v, want ErrNotImage", err)
	}
}

func TestNoFile(t *testing.T) {
	for _, fn := range []func(string) error{
		func(p string) error { _, err := Stat(p); return err },
		func(p string) error { _, err := ProbeImage(p); return err },
		func(p string) error { _, err := ProbeMotion(p); return err },
	} {
		if err := fn("  "); !errors.Is(err, ErrNoFile) {
			t.Errorf("error = %v, want ErrNoFile", err)
		}
	}
}

func TestProbeMotion(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "walk.BVH")
	bad := filepath.Join(dir, "walk.txt")
	for _, p := range []string{good, bad} {
		if err := os.WriteFile(p, []byte("HIERARCHY"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ref, err := ProbeMotion(good)
	if err != nil {
		t.Fatalf("ProbeMotion(bvh) error = %v", err)
	}
	if ref.Size != 9 {
		t.Errorf("Size = %d, want 9", ref.Size)
	}
	if _, err := ProbeMotion(bad); err == nil {
		t.Error("ProbeMotion(txt) succeeded")
	}
}

func TestStatDirectory(t *testing.T) {
	if _, err := Stat(t.TempDir()); err == nil {
		t.Error("Stat(dir) succeeded")
	}
}
