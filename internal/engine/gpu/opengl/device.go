// Package opengl implements gpu.Device on an OpenGL 4.6 core context.
// Every call must happen on the thread that owns the context.
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Device issues GL calls for the renderer.
type Device struct {
	log *zap.Logger
}

// New loads the GL function pointers for the current context and sets the
// global state the passes assume: depth testing and back-face culling.
func New(log *zap.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)

	return &Device{log: log}, nil
}

func label(kind uint32, id uint32, name string) {
	if name == "" {
		return
	}
	gl.ObjectLabel(kind, id, -1, gl.Str(name+"\x00"))
}

func textureFormats(f gpu.TextureFormat) (internal int32, format, xtype uint32) {
	switch f {
	case gpu.FormatRG32F:
		return gl.RG32F, gl.RG, gl.FLOAT
	case gpu.FormatDepth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	case gpu.FormatRGBA8:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	default:
		return gl.R32F, gl.RED, gl.FLOAT
	}
}

func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	width, height := desc.Dimensions()
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("texture %s: invalid size %dx%d", desc.Label, width, height)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	internal, format, xtype := textureFormats(desc.Format)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, width, height, 0, format, xtype, nil)

	if desc.Border {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
		borderColor := []float32{1.0, 1.0, 1.0, 1.0}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	label(gl.TEXTURE, tex, desc.Label)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return gpu.Texture(tex), nil
}

func (d *Device) DeleteTexture(tex gpu.Texture) {
	if tex == 0 {
		return
	}
	id := uint32(tex)
	gl.DeleteTextures(1, &id)
}

func (d *Device) CreateFramebuffer(name string) (gpu.Framebuffer, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	// A framebuffer name only becomes an object on first bind.
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	label(gl.FRAMEBUFFER, fbo, name)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return gpu.Framebuffer(fbo), nil
}

func (d *Device) attach(fb gpu.Framebuffer, attachment uint32, tex gpu.Texture) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, uint32(tex), 0)
}

func (d *Device) AttachColor(fb gpu.Framebuffer, tex gpu.Texture) {
	d.attach(fb, gl.COLOR_ATTACHMENT0, tex)
}

func (d *Device) AttachDepth(fb gpu.Framebuffer, tex gpu.Texture) {
	d.attach(fb, gl.DEPTH_ATTACHMENT, tex)
}

func (d *Device) CheckFramebuffer(fb gpu.Framebuffer) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: %s", gpu.ErrFramebufferIncomplete, FramebufferStatusName(status))
	}
	return nil
}

// FramebufferStatusName names a glCheckFramebufferStatus result.
func FramebufferStatusName(status uint32) string {
	switch status {
	case gl.FRAMEBUFFER_COMPLETE:
		return "FRAMEBUFFER_COMPLETE"
	case gl.FRAMEBUFFER_UNDEFINED:
		return "FRAMEBUFFER_UNDEFINED"
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return "FRAMEBUFFER_INCOMPLETE_ATTACHMENT"
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return "FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT"
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		return "FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER"
	case gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		return "FRAMEBUFFER_INCOMPLETE_READ_BUFFER"
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return "FRAMEBUFFER_UNSUPPORTED"
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return "FRAMEBUFFER_INCOMPLETE_MULTISAMPLE"
	case gl.FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS:
		return "FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS"
	default:
		return "UNKNOWN"
	}
}

func (d *Device) DeleteFramebuffer(fb gpu.Framebuffer) {
	if fb == 0 {
		return
	}
	id := uint32(fb)
	gl.DeleteFramebuffers(1, &id)
}

func shaderType(s gpu.Stage) uint32 {
	if s == gpu.StageVertex {
		return gl.VERTEX_SHADER
	}
	return gl.FRAGMENT_SHADER
}

// CompileProgram compiles every source as its own shader object and links
// them. Shader objects are released once linked.
func (d *Device) CompileProgram(name string, sources []gpu.ShaderSource) (gpu.Program, error) {
	shaders := make([]uint32, 0, len(sources))
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, src := range sources {
		s, err := compileShader(src)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		shaders = append(shaders, s)
	}

	program := gl.CreateProgram()
	label(gl.PROGRAM, program, name)
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%s: %w: %s", name, gpu.ErrLink, strings.TrimRight(log, "\x00"))
	}

	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	d.log.Debug("program linked", zap.String("program", name), zap.Int("shaders", len(shaders)))
	return gpu.Program(program), nil
}

func compileShader(src gpu.ShaderSource) (uint32, error) {
	shader := gl.CreateShader(shaderType(src.Stage))
	label(gl.SHADER, shader, src.Name)
	csource, free := gl.Strs(src.Code + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s %s shader: %w: %s", src.Name, src.Stage, gpu.ErrCompile, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

func (d *Device) DeleteProgram(p gpu.Program) {
	if p == 0 {
		return
	}
	gl.DeleteProgram(uint32(p))
}

// CreateMesh uploads positions to attribute 0, normals to 1 and UVs to 2.
// Missing attributes are left disabled.
func (d *Device) CreateMesh(name string, data gpu.VertexData) (gpu.Mesh, error) {
	if len(data.Positions) == 0 || len(data.Indices) == 0 {
		return gpu.Mesh{}, fmt.Errorf("mesh %s: no geometry", name)
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	label(gl.VERTEX_ARRAY, vao, name)

	mesh := gpu.Mesh{VAO: vao, IndexCount: int32(len(data.Indices))}

	attribs := []struct {
		index uint32
		size  int32
		data  []float32
		what  string
	}{
		{0, 3, data.Positions, "vertex positions"},
		{1, 3, data.Normals, "vertex normals"},
		{2, 2, data.UVs, "vertex uvs"},
	}
	for _, a := range attribs {
		if len(a.data) == 0 {
			continue
		}
		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(a.data)*4, gl.Ptr(a.data), gl.STATIC_DRAW)
		label(gl.BUFFER, vbo, labelFor(name, a.what))
		gl.EnableVertexAttribArray(a.index)
		gl.VertexAttribPointerWithOffset(a.index, a.size, gl.FLOAT, false, 0, 0)
		mesh.Buffers = append(mesh.Buffers, vbo)
	}

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)
	label(gl.BUFFER, ebo, labelFor(name, "indices"))
	mesh.Buffers = append(mesh.Buffers, ebo)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return mesh, nil
}

// labelFor turns "<quad>" and "indices" into "<quad indices>".
func labelFor(name, what string) string {
	if strings.HasSuffix(name, ">") {
		return strings.TrimSuffix(name, ">") + " " + what + ">"
	}
	return name + " " + what
}

func (d *Device) DeleteMesh(m gpu.Mesh) {
	if len(m.Buffers) > 0 {
		gl.DeleteBuffers(int32(len(m.Buffers)), &m.Buffers[0])
	}
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
	}
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *Device) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (d *Device) Clear(color math.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func toggle(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (d *Device) SetDepthTest(enabled bool) {
	toggle(gl.DEPTH_TEST, enabled)
}

func (d *Device) SetCulling(enabled bool) {
	toggle(gl.CULL_FACE, enabled)
}

func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) UniformMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

func (d *Device) UniformVec3(loc int32, v math.Vec3) {
	gl.Uniform3f(loc, v.X, v.Y, v.Z)
}

func (d *Device) UniformVec2Array(loc int32, v []math.Vec2) {
	if len(v) == 0 {
		return
	}
	gl.Uniform2fv(loc, int32(len(v)), &v[0].X)
}

func (d *Device) UniformFloat(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *Device) UniformInt(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *Device) BindTexture(unit uint32, tex gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (d *Device) Draw(m gpu.Mesh) {
	gl.BindVertexArray(m.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, 0)
}

var _ gpu.Device = (*Device)(nil)
