// Package export hands the renderable scene to an external serialization
// collaborator. The engine never writes GLTF, FBX, OBJ or STL itself.
package export

import (
	"context"
	"errors"
	"time"

	"github.com/Faultbox/astramesh/internal/clock"
	"github.com/Faultbox/astramesh/internal/lod"
	"github.com/Faultbox/astramesh/internal/scene"
)

// ErrNoCollaborator is returned when an export is requested but nothing is
// configured to receive it.
var ErrNoCollaborator = errors.New("export: no collaborator configured")

// Request is the payload of one export.
type Request struct {
	Settings    scene.Export
	Scene       *lod.Description
	Material    scene.Material
	Layers      []scene.Layer // visible layers only
	Rig         scene.Rig
	Frame       clock.Frame
	RequestedAt time.Time
}

// Collaborator serializes a scene.
type Collaborator interface {
	Export(ctx context.Context, req Request) error
}

// Func adapts a function to Collaborator.
type Func func(ctx context.Context, req Request) error

// Export calls f.
func (f Func) Export(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// VisibleLayers returns the visible subset of layers.
func VisibleLayers(layers []scene.Layer) []scene.Layer {
	out := make([]scene.Layer, 0, len(layers))
	for _, l := range layers {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}
