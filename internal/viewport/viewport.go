// Package viewport draws a LOD description with OpenGL. The level is chosen
// from the camera distance each frame and the wireframe overlay is blended
// on top when present.
//
// All methods must be called on the thread owning the GL context.
package viewport

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/astramesh/internal/clock"
	"github.com/Faultbox/astramesh/internal/engine/camera"
	"github.com/Faultbox/astramesh/internal/lod"
)

// gpuMesh is an uploaded lod.Mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	used          bool
}

// Renderer owns the shader program and the uploaded meshes.
type Renderer struct {
	program uint32
	u       uniforms
	meshes  map[*lod.Mesh]*gpuMesh
	width   int
	height  int
	log     *zap.Logger

	// Level is the index of the level drawn last.
	Level int
}

// New initializes OpenGL and compiles the mesh shader. It must be called
// after the GL context is created.
func New(width, height int, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r := &Renderer{
		program: program,
		u:       locate(program),
		meshes:  make(map[*lod.Mesh]*gpuMesh),
		log:     log,
	}
	r.Resize(width, height)
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	for m := range r.meshes {
		r.release(m)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize sets the drawable size in pixels.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Draw renders one frame of desc seen from cam.
func (r *Renderer) Draw(desc *lod.Description, f clock.Frame, cam *camera.OrbitCamera) {
	gl.ClearColor(0.09, 0.1, 0.12, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if desc == nil {
		return
	}

	for _, g := range r.meshes {
		g.used = false
	}

	model := ModelMatrix(f)
	view := cam.ViewMatrix()
	proj := Projection(r.width, r.height)
	eye := cam.Position()

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.u.model, 1, false, model.Ptr())
	gl.UniformMatrix4fv(r.u.view, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.u.projection, 1, false, proj.Ptr())
	gl.Uniform3f(r.u.eye, eye.X, eye.Y, eye.Z)

	dist := float64(eye.Sub(cam.Center).Length())
	level := desc.LevelFor(dist)
	for i := range desc.Levels {
		if &desc.Levels[i] == level {
			r.Level = i
		}
	}

	color, ok := ParseColor(desc.Surface.Color)
	if !ok {
		r.log.Debug("unparsable surface color", zap.String("color", desc.Surface.Color))
	}
	gl.Uniform3f(r.u.color, color[0], color[1], color[2])
	gl.Uniform1f(r.u.roughness, float32(desc.Surface.Roughness))
	gl.Uniform1f(r.u.metalness, float32(desc.Surface.Metalness))
	gl.Uniform1f(r.u.opacity, 1)
	gl.Uniform1i(r.u.flat, 0)
	r.drawMesh(level.Mesh)

	if o := desc.Overlay; o != nil {
		oc, _ := ParseColor(o.Color)
		gl.Uniform3f(r.u.color, oc[0], oc[1], oc[2])
		gl.Uniform1f(r.u.opacity, float32(o.Opacity))
		gl.Uniform1i(r.u.flat, 1)

		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		if o.Wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		}
		r.drawMesh(o.Mesh)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}

	gl.UseProgram(0)
	r.prune()
}

func (r *Renderer) drawMesh(m *lod.Mesh) {
	if m == nil || len(m.Indices) == 0 {
		return
	}
	g := r.upload(m)
	g.used = true
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// upload returns the GPU copy of m, creating it on first use. Meshes are
// immutable so the pointer identifies the geometry.
func (r *Renderer) upload(m *lod.Mesh) *gpuMesh {
	if g, ok := r.meshes[m]; ok {
		return g
	}
	g := &gpuMesh{count: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	stride := int32(unsafe.Sizeof(lod.Vertex{}))
	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(stride), gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	r.meshes[m] = g
	r.log.Debug("mesh uploaded",
		zap.Int("detail", m.Detail),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("faces", m.Faces()))
	return g
}

// prune drops meshes not drawn in the last frame.
func (r *Renderer) prune() {
	for m, g := range r.meshes {
		if !g.used {
			r.release(m)
		}
	}
}

func (r *Renderer) release(m *lod.Mesh) {
	g := r.meshes[m]
	if g == nil {
		return
	}
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteVertexArrays(1, &g.vao)
	delete(r.meshes, m)
}
