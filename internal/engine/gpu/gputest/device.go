// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"
	"strings"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// FramebufferState is the fake view of one framebuffer.
type FramebufferState struct {
	Label string
	Color gpu.Texture
	Depth gpu.Texture
}

// DrawCall is one recorded draw.
type DrawCall struct {
	Program     string
	Framebuffer gpu.Framebuffer
	Color       gpu.Texture
	VAO         uint32
	DepthTest   bool
	Culling     bool
}

// Device records every call and tracks live objects. The zero value is not
// usable; call New.
type Device struct {
	next uint32

	Textures     map[gpu.Texture]gpu.TextureDesc
	Framebuffers map[gpu.Framebuffer]*FramebufferState
	Programs     map[gpu.Program]string
	Sources      map[gpu.Program][]gpu.ShaderSource
	Meshes       map[uint32]gpu.Mesh

	// Releases counts delete calls per object, keyed like "texture 3".
	Releases map[string]int
	// Created lists labels of every object created, in order.
	Created []string

	// Calls is the command stream, one line per call.
	Calls []string
	Draws []DrawCall
	// Uniforms holds the last value set per program label and uniform name.
	Uniforms map[string]map[string]any
	// Units maps texture units to the texture bound there.
	Units map[uint32]gpu.Texture

	// Missing lists uniform names reported as inactive.
	Missing map[string]bool
	// CompileErr makes CompileProgram fail for programs whose label
	// contains FailLabel (every program when FailLabel is empty).
	CompileErr error
	FailLabel  string
	// Incomplete makes CheckFramebuffer fail.
	Incomplete bool

	program   gpu.Program
	fb        gpu.Framebuffer
	locations []string
	depthTest bool
	culling   bool
}

// New returns an empty device with depth testing and culling enabled.
func New() *Device {
	return &Device{
		Textures:     make(map[gpu.Texture]gpu.TextureDesc),
		Framebuffers: make(map[gpu.Framebuffer]*FramebufferState),
		Programs:     make(map[gpu.Program]string),
		Sources:      make(map[gpu.Program][]gpu.ShaderSource),
		Meshes:       make(map[uint32]gpu.Mesh),
		Releases:     make(map[string]int),
		Uniforms:     make(map[string]map[string]any),
		Units:        make(map[uint32]gpu.Texture),
		Missing:      make(map[string]bool),
		depthTest:    true,
		culling:      true,
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) release(kind string, id uint32) {
	d.Releases[fmt.Sprintf("%s %d", kind, id)]++
}

// DoubleReleases returns every object deleted more than once.
func (d *Device) DoubleReleases() []string {
	var out []string
	for k, n := range d.Releases {
		if n > 1 {
			out = append(out, k)
		}
	}
	return out
}

// Live returns the number of objects that were created and not released.
func (d *Device) Live() int {
	return len(d.Textures) + len(d.Framebuffers) + len(d.Programs) + len(d.Meshes)
}

// TexturesWithFormat returns the live textures stored in format f.
func (d *Device) TexturesWithFormat(f gpu.TextureFormat) []gpu.Texture {
	var out []gpu.Texture
	for tex, desc := range d.Textures {
		if desc.Format == f {
			out = append(out, tex)
		}
	}
	return out
}

// CallsWithPrefix filters the command stream.
func (d *Device) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls drops the recorded command stream but keeps object state.
func (d *Device) ResetCalls() {
	d.Calls = nil
	d.Draws = nil
}

func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	tex := gpu.Texture(d.id())
	d.Textures[tex] = desc
	d.Created = append(d.Created, desc.Label)
	return tex, nil
}

func (d *Device) DeleteTexture(tex gpu.Texture) {
	if tex == 0 {
		return
	}
	d.release("texture", uint32(tex))
	delete(d.Textures, tex)
}

func (d *Device) CreateFramebuffer(label string) (gpu.Framebuffer, error) {
	fb := gpu.Framebuffer(d.id())
	d.Framebuffers[fb] = &FramebufferState{Label: label}
	d.Created = append(d.Created, label)
	return fb, nil
}

func (d *Device) AttachColor(fb gpu.Framebuffer, tex gpu.Texture) {
	d.record("attach color %d %s", fb, d.Textures[tex].Label)
	if s, ok := d.Framebuffers[fb]; ok {
		s.Color = tex
	}
}

func (d *Device) AttachDepth(fb gpu.Framebuffer, tex gpu.Texture) {
	d.record("attach depth %d %s", fb, d.Textures[tex].Label)
	if s, ok := d.Framebuffers[fb]; ok {
		s.Depth = tex
	}
}

func (d *Device) CheckFramebuffer(fb gpu.Framebuffer) error {
	if d.Incomplete {
		return fmt.Errorf("%w: FRAMEBUFFER_INCOMPLETE_ATTACHMENT", gpu.ErrFramebufferIncomplete)
	}
	return nil
}

func (d *Device) DeleteFramebuffer(fb gpu.Framebuffer) {
	if fb == 0 {
		return
	}
	d.release("framebuffer", uint32(fb))
	delete(d.Framebuffers, fb)
}

func (d *Device) CompileProgram(label string, sources []gpu.ShaderSource) (gpu.Program, error) {
	if d.CompileErr != nil && strings.Contains(label, d.FailLabel) {
		return 0, fmt.Errorf("%s: %w", label, d.CompileErr)
	}
	p := gpu.Program(d.id())
	d.Programs[p] = label
	d.Sources[p] = sources
	d.Created = append(d.Created, label)
	return p, nil
}

func (d *Device) DeleteProgram(p gpu.Program) {
	if p == 0 {
		return
	}
	d.release("program", uint32(p))
	delete(d.Programs, p)
}

func (d *Device) CreateMesh(label string, data gpu.VertexData) (gpu.Mesh, error) {
	m := gpu.Mesh{VAO: d.id(), IndexCount: int32(len(data.Indices))}
	d.Meshes[m.VAO] = m
	d.Created = append(d.Created, label)
	return m, nil
}

func (d *Device) DeleteMesh(m gpu.Mesh) {
	if m.VAO == 0 {
		return
	}
	d.release("mesh", m.VAO)
	delete(d.Meshes, m.VAO)
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	d.fb = fb
	d.record("bind framebuffer %d", fb)
}

func (d *Device) Viewport(width, height int32) {
	d.record("viewport %dx%d", width, height)
}

func (d *Device) Clear(color math.Vec4) {
	d.record("clear %g %g %g %g", color[0], color[1], color[2], color[3])
}

func (d *Device) SetDepthTest(enabled bool) {
	d.depthTest = enabled
	d.record("depth test %t", enabled)
}

func (d *Device) SetCulling(enabled bool) {
	d.culling = enabled
	d.record("culling %t", enabled)
}

func (d *Device) UseProgram(p gpu.Program) {
	d.program = p
	d.record("use %s", d.Programs[p])
}

// ProgramLabel returns the label of the bound program.
func (d *Device) ProgramLabel() string {
	return d.Programs[d.program]
}

func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	if d.Missing[name] {
		return -1
	}
	d.locations = append(d.locations, d.Programs[p]+"\x00"+name)
	return int32(len(d.locations) - 1)
}

func (d *Device) setUniform(loc int32, v any) {
	if loc < 0 || int(loc) >= len(d.locations) {
		return
	}
	program, name, _ := strings.Cut(d.locations[loc], "\x00")
	if d.Uniforms[program] == nil {
		d.Uniforms[program] = make(map[string]any)
	}
	d.Uniforms[program][name] = v
}

// Uniform returns the last value set for name on the program labelled
// program.
func (d *Device) Uniform(program, name string) (any, bool) {
	v, ok := d.Uniforms[program][name]
	return v, ok
}

func (d *Device) UniformMat4(loc int32, m math.Mat4) { d.setUniform(loc, m) }
func (d *Device) UniformVec3(loc int32, v math.Vec3) { d.setUniform(loc, v) }
func (d *Device) UniformFloat(loc int32, v float32) { d.setUniform(loc, v) }
func (d *Device) UniformInt(loc int32, v int32) { d.setUniform(loc, v) }
func (d *Device) UniformVec2Array(loc int32, v []math.Vec2) {
	d.setUniform(loc, append([]math.Vec2(nil), v...))
}

func (d *Device) BindTexture(unit uint32, tex gpu.Texture) {
	d.Units[unit] = tex
	d.record("bind texture %d %s", unit, d.Textures[tex].Label)
}

func (d *Device) Draw(m gpu.Mesh) {
	var color gpu.Texture
	if s, ok := d.Framebuffers[d.fb]; ok {
		color = s.Color
	}
	d.Draws = append(d.Draws, DrawCall{
		Program:     d.Programs[d.program],
		Framebuffer: d.fb,
		Color:       color,
		VAO:         m.VAO,
		DepthTest:   d.depthTest,
		Culling:     d.culling,
	})
	d.record("draw %s %d", d.Programs[d.program], m.VAO)
}

var _ gpu.Device = (*Device)(nil)
