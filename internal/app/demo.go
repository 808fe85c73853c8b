// Package app runs the shadow mapping demo: it owns the scene, camera,
// light and renderer and drives them from one of two frontends.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/camera"
	"github.com/Faultbox/shadowmaps/internal/engine/clock"
	"github.com/Faultbox/shadowmaps/internal/engine/debug"
	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/input"
	"github.com/Faultbox/shadowmaps/internal/engine/mesh"
	"github.com/Faultbox/shadowmaps/internal/engine/renderer"
	"github.com/Faultbox/shadowmaps/internal/engine/scene"
	"github.com/Faultbox/shadowmaps/internal/engine/shader"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
)

// ShaderFiles reads shader sources and forgets cached copies of files that
// changed on disk. assets.Manager satisfies it.
type ShaderFiles interface {
	shader.FileReader
	Invalidate(name string)
}

// Options is what a Demo is built from.
type Options struct {
	Settings shadow.Settings
	Light    shadow.Light
	Camera   camera.Config
	Objects  []scene.Object

	Shaders ShaderFiles
	Meshes  mesh.FileReader

	// Screenshots and Pixels enable screenshot capture; either may be nil.
	Screenshots *debug.ScreenshotCapture
	Pixels      debug.PixelReader

	// Now reads the wall clock; time.Now when nil. The first frame is
	// timed from the moment NewDemo finishes loading.
	Now func() time.Time
}

// Demo is the frontend-independent part of the app. All methods must be
// called on the render thread.
type Demo struct {
	log *zap.Logger

	shaders ShaderFiles
	arena   *mesh.Arena
	scene   *scene.Store

	sel    *shadow.Selector
	light  shadow.Light
	fixed  shadow.FixedFrustum
	camera *camera.FirstPerson
	clock  *clock.Clock

	renderer *renderer.Renderer

	shots  *debug.ScreenshotCapture
	pixels debug.PixelReader
}

// NewDemo loads the scene and creates the initial programs and targets.
func NewDemo(dev gpu.Device, opts Options, log *zap.Logger) (*Demo, error) {
	sel, err := shadow.NewSelector(opts.Settings)
	if err != nil {
		return nil, fmt.Errorf("shadow settings: %w", err)
	}

	arena := mesh.NewArena(dev, opts.Meshes, log.Named("mesh"))
	quad, err := arena.Load(mesh.QuadName)
	if err != nil {
		arena.Release()
		return nil, err
	}
	store, err := scene.Build(arena, opts.Objects)
	if err != nil {
		arena.Release()
		return nil, fmt.Errorf("building scene: %w", err)
	}

	d := &Demo{
		log:     log,
		shaders: opts.Shaders,
		arena:   arena,
		scene:   store,
		sel:     sel,
		light:   opts.Light,
		fixed:   shadow.DefaultFixedFrustum(),
		camera:  camera.NewFirstPerson(opts.Camera),
		shots:   opts.Screenshots,
		pixels:  opts.Pixels,
	}
	d.renderer = renderer.New(dev, shader.NewLoader(opts.Shaders, ""), arena.Mesh(quad), log.Named("renderer"))

	if err := d.renderer.Sync(sel); err != nil {
		d.Close()
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	d.clock = clock.New(now())

	log.Info("scene loaded",
		zap.Int("renderables", store.Len()),
		zap.Int("meshes", arena.Len()),
		zap.Stringer("mode", sel.Settings().Mode),
	)
	return d, nil
}

// Update advances the clock, moves the camera and refits the light.
// Settings edited since the last frame are applied to the GPU first; an
// error there leaves the previous resources in use.
func (d *Demo) Update(now time.Time, in input.State) error {
	d.clock.Tick(now)

	d.camera.Look(in.Cursor, in.Look)
	d.camera.Move(in.Keys, d.clock.Delta)
	if in.Height > 0 {
		d.camera.UpdateMatrices(float32(in.Width) / float32(in.Height))
	} else {
		d.camera.UpdateMatrices(1)
	}

	if err := d.renderer.Sync(d.sel); err != nil {
		return err
	}

	var fit shadow.Fit
	if d.sel.Settings().MatchFrustums {
		fit = shadow.FitToCamera(d.light.Direction, d.light.Distance, d.camera.Position, d.camera.View, d.camera.Projection)
	} else {
		fit = shadow.FitFixed(d.light.Direction, d.fixed)
	}
	d.sel.SetFrustum(fit)
	d.light.Apply(fit)
	return nil
}

// Frame returns the renderer input for the current state.
func (d *Demo) Frame(target gpu.Framebuffer, width, height int32) renderer.Frame {
	return renderer.Frame{
		Settings:   d.sel.Settings(),
		Light:      d.light,
		View:       d.camera.View,
		Projection: d.camera.Projection,
		Target:     target,
		Width:      width,
		Height:     height,
		Scene:      d.scene,
		Meshes:     d.arena,
	}
}

// Render draws the scene into target.
func (d *Demo) Render(target gpu.Framebuffer, width, height int32) {
	d.renderer.Render(d.Frame(target, width, height))
}

// Step runs one frame: update, render and, when requested, a screenshot of
// target.
func (d *Demo) Step(now time.Time, in input.State, target gpu.Framebuffer) error {
	if err := d.Update(now, in); err != nil {
		return err
	}
	d.Render(target, in.Width, in.Height)
	if in.Screenshot {
		d.Screenshot(target, in.Width, in.Height)
	}
	return nil
}

// Screenshot saves target to disk. Failures are logged.
func (d *Demo) Screenshot(target gpu.Framebuffer, width, height int32) {
	if d.shots == nil || d.pixels == nil {
		d.log.Warn("screenshots are not available")
		return
	}
	path, err := d.shots.Capture(d.pixels, target, width, height)
	if err != nil {
		d.log.Error("screenshot failed", zap.Error(err))
		return
	}
	d.log.Info("screenshot saved", zap.String("path", path))
}

// Reload drops the cached copies of changed shader files and rebuilds the
// live programs when they read any of them. A broken shader is logged and
// the previous programs keep running.
func (d *Demo) Reload(changed []string) {
	if len(changed) == 0 {
		return
	}
	for _, name := range changed {
		d.shaders.Invalidate(name)
	}
	reloaded, err := d.renderer.Reload(changed)
	switch {
	case err != nil:
		d.log.Error("shader reload failed, keeping previous programs",
			zap.Strings("files", changed), zap.Error(err))
	case reloaded:
		d.log.Info("shaders reloaded", zap.Strings("files", changed))
	default:
		d.log.Debug("changed shaders are not in use", zap.Strings("files", changed))
	}
}

// Selector returns the live shadow settings.
func (d *Demo) Selector() *shadow.Selector {
	return d.sel
}

// Light returns the light; edits take effect on the next Update.
func (d *Demo) Light() *shadow.Light {
	return &d.light
}

// Camera returns the camera.
func (d *Demo) Camera() *camera.FirstPerson {
	return d.camera
}

// Clock returns the frame clock.
func (d *Demo) Clock() *clock.Clock {
	return d.clock
}

// Preview returns the shadow textures to show in the debug view.
func (d *Demo) Preview() []gpu.Texture {
	if t := d.renderer.Targets(); t != nil {
		return t.Preview()
	}
	return nil
}

// Close releases every GPU resource. Calling it twice is a no-op.
func (d *Demo) Close() {
	d.renderer.Release()
	d.arena.Release()
}
