package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/assets"
	"github.com/Faultbox/shadowmaps/internal/config"
	"github.com/Faultbox/shadowmaps/internal/engine/debug"
	"github.com/Faultbox/shadowmaps/internal/engine/framebuffer"
	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/gpu/opengl"
	"github.com/Faultbox/shadowmaps/internal/engine/input"
	"github.com/Faultbox/shadowmaps/internal/engine/shader"
	"github.com/Faultbox/shadowmaps/internal/engine/ui"
	"github.com/Faultbox/shadowmaps/internal/engine/window"
)

// ScreenshotPrefix starts every screenshot file name.
const ScreenshotPrefix = "shadows"

// App wires the demo to a window, GL device and input.
type App struct {
	cfg  *config.Config
	log  *zap.Logger
	opts Options

	shaders *assets.Manager
	meshes  *assets.Manager
	watcher *shader.Watcher

	dev  *opengl.Device
	demo *Demo
}

// New converts cfg and opens the asset directories. No window exists yet;
// Run creates one.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	settings, err := cfg.ShadowSettings()
	if err != nil {
		return nil, err
	}
	light, err := cfg.LightSource()
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		shaders: assets.NewManager(),
		meshes:  assets.NewManager(),
	}
	if err := a.shaders.AddDir(cfg.Assets.ShaderDir); err != nil {
		return nil, err
	}
	if err := a.meshes.AddDir(cfg.Assets.Root); err != nil {
		return nil, err
	}

	a.opts = Options{
		Settings:    settings,
		Light:       light,
		Camera:      cfg.CameraSettings(),
		Objects:     cfg.Scene,
		Shaders:     a.shaders,
		Meshes:      a.meshes,
		Screenshots: debug.NewScreenshotCapture(cfg.Assets.ScreenshotDir, ScreenshotPrefix),
	}
	return a, nil
}

// Run opens the frontend selected by the config and blocks until the
// window is closed or Escape is pressed.
func (a *App) Run() error {
	if a.cfg.UI.Enabled {
		return a.runUI()
	}
	return a.runWindow()
}

// start creates the GL device and the demo. The context must be current.
func (a *App) start() error {
	dev, err := opengl.New(a.log.Named("gl"))
	if err != nil {
		return err
	}
	if a.cfg.Window.Debug && !opengl.EnableDebugOutput(a.log.Named("gl")) {
		a.log.Warn("GL debug output is not available")
	}
	a.dev = dev

	opts := a.opts
	opts.Pixels = dev
	a.demo, err = NewDemo(dev, opts, a.log)
	if err != nil {
		return err
	}

	if a.cfg.Assets.HotReload {
		w, err := shader.Watch(a.cfg.Assets.ShaderDir, a.log.Named("shader"))
		if err != nil {
			a.log.Warn("shader hot reload disabled", zap.Error(err))
		} else {
			a.watcher = w
		}
	}
	return nil
}

// frame runs one demo step after applying pending shader edits.
func (a *App) frame(in input.State, target *framebuffer.Framebuffer) error {
	if a.watcher != nil {
		a.demo.Reload(a.watcher.Drain())
	}
	var fbo gpu.Framebuffer
	if target != nil {
		fbo = target.FBO()
	}
	return a.demo.Step(time.Now(), in, fbo)
}

// runUI drives the demo from the ImGui backend. The backend owns the
// window and clears it after every callback, so the scene is shaded into
// an offscreen target shown behind the panels.
func (a *App) runUI() error {
	b, err := ui.NewBackend(ui.BackendConfig{
		Title:    a.cfg.Window.Title,
		Width:    a.cfg.Window.Width,
		Height:   a.cfg.Window.Height,
		FontPath: a.cfg.UI.FontPath,
		FontSize: a.cfg.UI.FontSize,
	}, a.log.Named("ui"))
	if err != nil {
		return err
	}

	var (
		runErr error
		target *framebuffer.Framebuffer
		panels *ui.Panels
		poller = input.NewImGui()
	)

	fail := func(err error) {
		runErr = err
		b.Close()
	}

	b.Run(func() {
		if runErr != nil {
			return
		}
		w, h := b.DisplaySize()

		if a.demo == nil {
			if err := a.start(); err != nil {
				fail(err)
				return
			}
			if target, err = framebuffer.New(a.dev, w, h); err != nil {
				fail(err)
				return
			}
			panels = ui.NewPanels(a.demo.Selector(), a.demo.Light(), a.log.Named("ui"))
		}

		if tw, th := target.Size(); tw != w || th != h {
			if err := target.Resize(w, h); err != nil {
				a.log.Error("resizing scene target", zap.Int32("width", w), zap.Int32("height", h), zap.Error(err))
			}
		}
		in := poller.Poll(w, h)
		in.Width, in.Height = target.Size()
		if in.Quit {
			b.Close()
		}

		if err := a.frame(in, target); err != nil {
			fail(err)
			return
		}

		c := a.demo.Clock()
		panels.Draw(ui.View{
			FPS:       c.FPS,
			FrameTime: c.AverageFrameTime,
			Scene:     target.ColorTexture(),
			Width:     float32(w),
			Height:    float32(h),
			Preview:   a.demo.Preview(),
		})
	})

	// The backend destroyed the context together with the window, and every
	// GL object with it.
	a.demo = nil
	a.dev = nil
	return runErr
}

// runWindow drives the demo from a bare SDL window rendering straight to
// the default framebuffer.
func (a *App) runWindow() error {
	win, err := window.New(a.cfg.Window, a.log.Named("window"))
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	err = a.start()
	// GL objects must go before the context does.
	defer a.releaseDemo()
	if err != nil {
		return err
	}

	poller := input.NewSDL()
	w, h := win.Size()
	shown := time.Now()

	for {
		in := poller.Poll(w, h)
		if in.Quit {
			return nil
		}
		if in.Resized {
			w, h = win.Size()
			in.Width, in.Height = w, h
		}

		if err := a.frame(in, nil); err != nil {
			return err
		}
		win.SwapBuffers()

		if c := a.demo.Clock(); time.Since(shown) >= time.Second {
			win.SetTitle(fmt.Sprintf("%s (%.0f FPS, %s)", a.cfg.Window.Title, c.FPS, c.AverageFrameTime))
			shown = time.Now()
		}
	}
}

// Close releases the demo and stops watching shader files.
func (a *App) Close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing shader watcher", zap.Error(err))
		}
		a.watcher = nil
	}
	a.releaseDemo()
	a.shaders.Close()
	a.meshes.Close()
}

func (a *App) releaseDemo() {
	if a.demo != nil {
		a.demo.Close()
		a.demo = nil
	}
}
