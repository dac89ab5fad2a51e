package viewport

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Screenshot reads the back buffer after Draw and writes it as a PNG into
// dir. It returns the written path.
func (r *Renderer) Screenshot(dir string, at time.Time) (string, error) {
	if r.width <= 0 || r.height <= 0 {
		return "", fmt.Errorf("invalid viewport %dx%d", r.width, r.height)
	}
	pixels := make([]byte, r.width*r.height*4)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return SavePixels(dir, at, pixels, r.width, r.height)
}

// SavePixels encodes bottom-up RGBA rows, as GL returns them, into
// screenshot-<timestamp>.png.
func SavePixels(dir string, at time.Time, pixels []byte, width, height int) (string, error) {
	img, err := flipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("screenshot-%s.png", at.Format("20060102-150405.000")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, nil
}

func flipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}
