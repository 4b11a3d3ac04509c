// Package renderer draws simulated meshes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/softbody/internal/engine/shader"
	"github.com/Faultbox/softbody/internal/logger"
	"github.com/Faultbox/softbody/pkg/mesh"
)

// floatsPerVertex is position followed by normal.
const floatsPerVertex = 6

// Config holds renderer configuration.
//
// Program must be a linked program built from the shaders package sources,
// compiled by the caller after the GL context exists.
type Config struct {
	Width      int
	Height     int
	Program    uint32
	Background mgl32.Vec3
	Wireframe  bool
	LightDir   mgl32.Vec3
}

// Renderer draws meshes as lines or lit triangles.
type Renderer struct {
	config Config

	locView       int32
	locProjection int32
	locColor      int32
	locLightDir   int32
	locLit        int32

	vao uint32
	vbo uint32

	// Reused vertex staging buffer.
	verts []float32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER window.New has created the OpenGL context!
func New(cfg Config) (*Renderer, error) {
	if cfg.Program == 0 {
		return nil, fmt.Errorf("renderer config has no shader program")
	}
	if cfg.LightDir == (mgl32.Vec3{}) {
		cfg.LightDir = mgl32.Vec3{-0.3, -1, -0.5}
	}
	cfg.LightDir = cfg.LightDir.Normalize()

	r := &Renderer{config: cfg}

	locs, err := shader.Uniforms(cfg.Program, "uView", "uProjection", "uColor", "uLightDir", "uLit")
	if err != nil {
		return nil, err
	}
	r.locView = locs["uView"]
	r.locProjection = locs["uProjection"]
	r.locColor = locs["uColor"]
	r.locLightDir = locs["uLightDir"]
	r.locLit = locs["uLit"]

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("renderer created",
		zap.Uint32("program", cfg.Program),
		zap.Uint32("vao", r.vao),
		zap.Uint32("vbo", r.vbo),
	)
	return r, nil
}

// Close cleans up renderer resources. The shader program belongs to the caller.
func (r *Renderer) Close() {
	logger.Debug("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Wireframe reports whether meshes are drawn as lines.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// SetWireframe switches between line and lit triangle drawing.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Begin clears the frame and loads the camera matrices.
func (r *Renderer) Begin(view, projection mgl32.Mat4) {
	bg := r.config.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.config.Program)
	gl.UniformMatrix4fv(r.locView, 1, false, &view[0])
	gl.UniformMatrix4fv(r.locProjection, 1, false, &projection[0])
	gl.Uniform3fv(r.locLightDir, 1, &r.config.LightDir[0])
}

// DrawMesh draws the triangles of a mesh at the given positions.
func (r *Renderer) DrawMesh(positions []mgl32.Vec3, triangles []mesh.Triangle, edges []mesh.Edge, color mgl32.Vec3) {
	mode := uint32(gl.TRIANGLES)
	lit := int32(1)
	if r.config.Wireframe {
		mode = gl.LINES
		lit = 0
		r.verts = AppendLines(r.verts[:0], positions, edges)
	} else {
		r.verts = AppendTriangles(r.verts[:0], positions, triangles)
	}
	r.draw(mode, lit, color)
}

// draw uploads r.verts and draws them with mode.
func (r *Renderer) draw(mode uint32, lit int32, color mgl32.Vec3) {
	if len(r.verts) == 0 {
		return
	}

	gl.Uniform3fv(r.locColor, 1, &color[0])
	gl.Uniform1i(r.locLit, lit)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.verts)*4, unsafe.Pointer(&r.verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(r.verts)/floatsPerVertex))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// DrawLines draws unlit segments given as pairs of endpoints.
func (r *Renderer) DrawLines(points []mgl32.Vec3, color mgl32.Vec3) {
	r.verts = r.verts[:0]
	for _, p := range points {
		r.verts = append(r.verts, p[0], p[1], p[2], 0, 0, 0)
	}
	r.draw(gl.LINES, 0, color)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, width, height
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// AppendLines appends two vertices per edge, with zero normals.
func AppendLines(dst []float32, positions []mgl32.Vec3, edges []mesh.Edge) []float32 {
	for _, e := range edges {
		a, b := positions[e.V1], positions[e.V2]
		dst = append(dst,
			a[0], a[1], a[2], 0, 0, 0,
			b[0], b[1], b[2], 0, 0, 0,
		)
	}
	return dst
}

// AppendTriangles appends three vertices per triangle carrying the face normal.
func AppendTriangles(dst []float32, positions []mgl32.Vec3, triangles []mesh.Triangle) []float32 {
	for _, t := range triangles {
		n := mesh.FaceNormal(positions, t)
		for _, v := range [3]int{t.V1, t.V2, t.V3} {
			p := positions[v]
			dst = append(dst, p[0], p[1], p[2], n[0], n[1], n[2])
		}
	}
	return dst
}
