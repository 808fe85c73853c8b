// Package gpu defines the narrow graphics device the renderer draws through.
// The OpenGL implementation lives in the opengl subpackage; tests use a
// recording fake so pass order and resource lifetimes can be checked
// without a context.
package gpu

import (
	"errors"

	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Object handles. Zero is never a valid resource.
type (
	Texture     uint32
	Framebuffer uint32
	Program     uint32
)

// DefaultFramebuffer is the window's back buffer.
const DefaultFramebuffer Framebuffer = 0

// TextureFormat is the internal storage format of a render target texture.
type TextureFormat int

const (
	FormatR32F TextureFormat = iota
	FormatRG32F
	FormatDepth32F
	// FormatRGBA8 is a displayable color target.
	FormatRGBA8
)

func (f TextureFormat) String() string {
	switch f {
	case FormatR32F:
		return "R32F"
	case FormatRG32F:
		return "RG32F"
	case FormatDepth32F:
		return "DEPTH_COMPONENT32F"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return "unknown"
	}
}

// TextureDesc describes a render target texture. Filtering is always
// nearest. With Border set, lookups outside [0,1] return white; otherwise
// they clamp to the edge.
type TextureDesc struct {
	Label  string
	Size   int32
	// Height is used for non-square textures; zero means Size.
	Height int32
	Format TextureFormat
	Border bool
}

// Dimensions returns the width and height of the texture.
func (d TextureDesc) Dimensions() (width, height int32) {
	if d.Height == 0 {
		return d.Size, d.Size
	}
	return d.Size, d.Height
}

// Stage is a shader pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// ShaderSource is one shader object: a complete GLSL translation unit.
type ShaderSource struct {
	Name  string
	Stage Stage
	Code  string
}

// VertexData is interleaving-free mesh geometry: three floats per position
// and normal, two per UV, and triangle list indices.
type VertexData struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in d.
func (d VertexData) VertexCount() int {
	return len(d.Positions) / 3
}

// Mesh is an uploaded vertex array.
type Mesh struct {
	VAO        uint32
	Buffers    []uint32
	IndexCount int32
}

// Errors reported by devices.
var (
	ErrCompile               = errors.New("shader compilation failed")
	ErrLink                  = errors.New("program link failed")
	ErrFramebufferIncomplete = errors.New("framebuffer incomplete")
)

// Resources creates and releases GPU objects.
type Resources interface {
	CreateTexture(desc TextureDesc) (Texture, error)
	DeleteTexture(tex Texture)

	CreateFramebuffer(label string) (Framebuffer, error)
	AttachColor(fb Framebuffer, tex Texture)
	AttachDepth(fb Framebuffer, tex Texture)
	// CheckFramebuffer returns an error wrapping ErrFramebufferIncomplete
	// with the status name when fb cannot be rendered to.
	CheckFramebuffer(fb Framebuffer) error
	DeleteFramebuffer(fb Framebuffer)

	CompileProgram(label string, sources []ShaderSource) (Program, error)
	DeleteProgram(p Program)

	CreateMesh(label string, data VertexData) (Mesh, error)
	DeleteMesh(m Mesh)
}

// Commands records draw state and draw calls.
type Commands interface {
	BindFramebuffer(fb Framebuffer)
	Viewport(width, height int32)
	Clear(color math.Vec4)
	SetDepthTest(enabled bool)
	SetCulling(enabled bool)

	UseProgram(p Program)
	// UniformLocation returns -1 when the program has no active uniform
	// with that name.
	UniformLocation(p Program, name string) int32
	UniformMat4(loc int32, m math.Mat4)
	UniformVec3(loc int32, v math.Vec3)
	UniformVec2Array(loc int32, v []math.Vec2)
	UniformFloat(loc int32, v float32)
	UniformInt(loc int32, v int32)
	BindTexture(unit uint32, tex Texture)

	Draw(m Mesh)
}

// Device is a complete graphics device.
type Device interface {
	Resources
	Commands
}

// Bool converts a flag to the float the shaders expect for boolean uniforms.
func Bool(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
