// Package renderer draws the shadow-mapped scene: a light depth pass, a
// separable blur for variance shadow maps and the camera shading pass.
package renderer

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/mesh"
	"github.com/Faultbox/shadowmaps/internal/engine/scene"
	"github.com/Faultbox/shadowmaps/internal/engine/shader"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Clear colors.
var (
	ShadowClearColor = math.Vec4{1, 1, 1, 1}
	SkyColor         = math.Vec4{0.5, 0.8, 1.0, 1.0}
)

// ShadowMapUnit is the texture unit of every sampler the passes bind.
const ShadowMapUnit = 0

// Meshes resolves renderable handles to uploaded meshes.
type Meshes interface {
	Mesh(h mesh.Handle) gpu.Mesh
}

// Frame is everything one frame draws from. It is rebuilt by the caller
// every frame; the renderer keeps no per-frame state of its own.
type Frame struct {
	Settings shadow.Settings
	Light    shadow.Light

	View       math.Mat4
	Projection math.Mat4

	// Target receives the shaded image; Width and Height are its size.
	Target        gpu.Framebuffer
	Width, Height int32

	Scene  *scene.Store
	Meshes Meshes
}

// Renderer owns the shader programs and shadow targets. Both are rebuilt
// only from Sync and Reload, on the render thread.
type Renderer struct {
	dev    gpu.Device
	loader *shader.Loader
	log    *zap.Logger
	quad   gpu.Mesh

	programs *ProgramSet
	targets  *Targets
	poisson  map[int32][]math.Vec2
}

// New returns a renderer with no GPU resources yet; the first Sync
// creates them. quad is the full-screen quad used by the blur.
func New(dev gpu.Device, loader *shader.Loader, quad gpu.Mesh, log *zap.Logger) *Renderer {
	return &Renderer{
		dev:     dev,
		loader:  loader,
		log:     log,
		quad:    quad,
		poisson: make(map[int32][]math.Vec2),
	}
}

// Sync rebuilds whatever sel reports as pending. New resources replace the
// old ones only after they were created successfully; the old ones are then
// released. An error leaves the selector's pending state untouched.
func (r *Renderer) Sync(sel *shadow.Selector) error {
	pending := sel.Pending()

	if pending.Has(shadow.ChangePrograms) {
		v := sel.Variant()
		set, err := NewProgramSet(r.dev, r.loader, v, r.log)
		if err != nil {
			return fmt.Errorf("building shader programs: %w", err)
		}
		r.programs.Release(r.dev)
		r.programs = set
		sel.Acknowledge(shadow.ChangePrograms)
		r.log.Info("shader programs built",
			zap.String("lambertian", fmt.Sprint(v.Lambertian.Fragment)),
			zap.Int("defines", len(v.Lambertian.Defines)),
		)
	}

	if pending.Has(shadow.ChangeTargets) {
		format := sel.TargetFormat()
		targets, err := NewTargets(r.dev, format, r.log)
		if err != nil {
			return fmt.Errorf("creating render targets: %w", err)
		}
		r.targets.Release(r.dev)
		r.targets = targets
		sel.Acknowledge(shadow.ChangeTargets)
		r.log.Info("render targets created",
			zap.Int32("resolution", format.Resolution),
			zap.Int("channels", format.Channels()),
		)
	}

	return nil
}

// Reload rebuilds the current programs if any of the changed files is one
// of their sources. On failure the previous programs stay in use and the
// error is returned for logging.
func (r *Renderer) Reload(changed []string) (bool, error) {
	if r.programs == nil {
		return false, nil
	}
	v := r.programs.Variant
	if !slices.ContainsFunc(changed, v.Uses) {
		return false, nil
	}

	set, err := NewProgramSet(r.dev, r.loader, v, r.log)
	if err != nil {
		return false, fmt.Errorf("reloading shader programs: %w", err)
	}
	r.programs.Release(r.dev)
	r.programs = set
	return true, nil
}

// Programs returns the live program set, or nil before the first Sync.
func (r *Renderer) Programs() *ProgramSet {
	return r.programs
}

// Targets returns the live render targets, or nil before the first Sync.
func (r *Renderer) Targets() *Targets {
	return r.targets
}

// Render draws one frame into f.Target. It does nothing
// until Sync has created programs and targets.
func (r *Renderer) Render(f Frame) {
	if r.programs == nil || r.targets == nil {
		return
	}
	r.shadowPass(f)
	if r.targets.Format.Moments {
		r.blurPass(f)
	}
	r.shadingPass(f)
}

func (r *Renderer) drawScene(f Frame, p *shader.Program, color bool) {
	for _, obj := range f.Scene.Renderables() {
		p.SetMat4("u_model", obj.Model())
		if color {
			p.SetVec3("u_diffuse_color", obj.DiffuseColor)
		}
		r.dev.Draw(f.Meshes.Mesh(obj.Mesh))
	}
}

// shadowPass renders light-space depth into the shadow targets.
func (r *Renderer) shadowPass(f Frame) {
	t := r.targets
	p := r.programs.ShadowMap

	r.dev.BindFramebuffer(t.Framebuffer)
	r.dev.Viewport(t.Format.Resolution, t.Format.Resolution)
	r.dev.Clear(ShadowClearColor)

	p.Use()
	p.SetMat4("u_view", f.Light.View)
	p.SetMat4("u_projection", f.Light.Projection)
	r.drawScene(f, p, false)
}

// blurPass blurs the moments horizontally into Color2, then vertically back
// into Color.
func (r *Renderer) blurPass(f Frame) {
	t := r.targets
	p := r.programs.GaussianBlur

	p.Use()
	r.dev.SetDepthTest(false)
	r.dev.SetCulling(false)

	steps := []struct {
		horizontal bool
		src, dst   gpu.Texture
	}{
		{true, t.Color, t.Color2},
		{false, t.Color2, t.Color},
	}
	for _, s := range steps {
		r.dev.AttachColor(t.Framebuffer, s.dst)
		p.SetTexture("u_image", ShadowMapUnit, s.src)
		p.SetBool("u_horizontal", s.horizontal)
		p.SetFloat("u_light_size", f.Light.Size)
		p.SetBool("u_rotate_samples", f.Settings.RotateSamples)
		p.SetFloat("u_scale", f.Settings.Scale)
		r.dev.Draw(r.quad)
	}

	r.dev.SetDepthTest(true)
	r.dev.SetCulling(true)
}

// shadingPass draws the scene from the camera with the selected shadow
// filter.
func (r *Renderer) shadingPass(f Frame) {
	s := f.Settings
	p := r.programs.Lambertian

	r.dev.BindFramebuffer(f.Target)
	r.dev.Viewport(f.Width, f.Height)
	r.dev.Clear(SkyColor)

	p.Use()
	p.SetMat4("u_view", f.View)
	p.SetMat4("u_projection", f.Projection)
	p.SetTexture("u_shadow_map", ShadowMapUnit, r.targets.ShadowMap())
	p.SetMat4("u_light_view", f.Light.View)
	p.SetMat4("u_light_projection", f.Light.Projection)
	p.SetVec3("u_light_direction", f.Light.Direction)
	p.SetVec3("u_light_color", f.Light.Color)
	p.SetFloat("u_intensity", s.Intensity)

	if s.Mode.Sampled() {
		p.SetFloat("u_light_size", f.Light.Size)
		p.SetBool("u_rotate_samples", s.RotateSamples)
		p.SetFloat("u_scale", s.Scale)
		switch s.SamplingMode {
		case shadow.SamplingGrid:
			p.SetInt("u_kernel_size", s.GridKernelSize)
		case shadow.SamplingPoisson:
			p.SetVec2Array("u_poisson_disk", r.poissonDisk(s.PoissonSampleCount))
		case shadow.SamplingVogel:
			p.SetInt("u_vogel_sample_count", s.VogelSampleCount)
		}
	}
	if s.Mode == shadow.ModeVSM {
		p.SetBool("u_smoothstep_fix", s.VSMSmoothstepFix)
		p.SetFloat("u_smoothstep_fix_lower_bound", s.VSMSmoothstepFixLowerBound)
	} else {
		p.SetFloat("u_bias", s.Bias)
	}
	if s.Mode == shadow.ModePCSS {
		p.SetFloat("u_near_plane", s.NearPlane)
		p.SetFloat("u_far_plane", s.FarPlane)
		p.SetFloat("u_frustum_width", s.FrustumWidth)
	}

	r.drawScene(f, p, true)
}

func (r *Renderer) poissonDisk(n int32) []math.Vec2 {
	disk, ok := r.poisson[n]
	if !ok {
		disk = PoissonDisk(int(n))
		r.poisson[n] = disk
	}
	return disk
}

// Release deletes the programs and targets. Calling it twice is a no-op.
func (r *Renderer) Release() {
	r.programs.Release(r.dev)
	r.targets.Release(r.dev)
	r.programs = nil
	r.targets = nil
}
