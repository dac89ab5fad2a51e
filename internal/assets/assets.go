// Package assets turns user-selected files into scene file handles. Image
// headers are probed for dimensions; file contents are otherwise never read.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/astramesh/internal/scene"
)

// ErrNoFile is returned when no file was selected.
var ErrNoFile = errors.New("assets: no file selected")

// ErrNotImage is returned when an image input cannot be decoded.
var ErrNotImage = errors.New("assets: not a supported image")

// ImageExtensions are the accepted image upload extensions.
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp"}

// MotionExtensions are the accepted motion capture file extensions.
var MotionExtensions = []string{"bvh", "fbx", "c3d"}

// Stat returns a handle to the file at path without reading it.
func Stat(path string) (*scene.FileRef, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoFile
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &scene.FileRef{
		Name:      filepath.Base(path),
		Path:      path,
		MediaType: mediaType(path),
		Size:      info.Size(),
	}, nil
}

// ProbeImage returns a handle to the image at path with its dimensions
// filled from the image header.
func ProbeImage(path string) (*scene.FileRef, error) {
	ref, err := Stat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotImage, ref.Name, err)
	}
	ref.Width = cfg.Width
	ref.Height = cfg.Height
	if ref.MediaType == "" {
		ref.MediaType = "image/" + format
	}
	return ref, nil
}

// ProbeMotion returns a handle to a motion capture file. Only the extension
// is checked.
func ProbeMotion(path string) (*scene.FileRef, error) {
	ref, err := Stat(path)
	if err != nil {
		return nil, err
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, known := range MotionExtensions {
		if ext == known {
			return ref, nil
		}
	}
	return nil, fmt.Errorf("unsupported motion capture format %q", ext)
}

func mediaType(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}
