package ui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// PreviewSize is the edge length of each shadow map preview image.
const PreviewSize = 256

// View is the per-frame data the panels display.
type View struct {
	FPS       float64
	FrameTime time.Duration

	// Scene is drawn behind every window; zero skips it.
	Scene         gpu.Texture
	Width, Height float32

	Preview []gpu.Texture
}

// Panels draws the overlay and settings windows. Every settings edit goes
// through the selector; the light is edited in place.
type Panels struct {
	sel   *shadow.Selector
	light *shadow.Light
	log   *zap.Logger
}

// NewPanels returns panels editing sel and light.
func NewPanels(sel *shadow.Selector, light *shadow.Light, log *zap.Logger) *Panels {
	return &Panels{sel: sel, light: light, log: log}
}

// Draw renders every window for one frame.
func (p *Panels) Draw(v View) {
	if v.Scene != 0 {
		p.sceneBackground(v)
	}
	p.stats(v)
	p.shadowSettings()
	p.lightSettings()
	p.shadowMap(v.Preview)
}

func (p *Panels) sceneBackground(v View) {
	imgui.SetNextWindowPos(imgui.NewVec2(0, 0))
	imgui.SetNextWindowSize(imgui.NewVec2(v.Width, v.Height))

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoBringToFrontOnFocus |
		imgui.WindowFlagsNoInputs | imgui.WindowFlagsNoSavedSettings

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("##SceneBackground", nil, flags) {
		image(v.Scene, v.Width, v.Height)
	}
	imgui.End()
	imgui.PopStyleVar()
}

func (p *Panels) stats(v View) {
	imgui.SetNextWindowPos(imgui.NewVec2(10, 10))
	imgui.SetNextWindowBgAlpha(0.35)
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoSavedSettings
	if imgui.BeginV("Stats", nil, flags) {
		imgui.Text(fmt.Sprintf("FPS: %.2f", v.FPS))
		imgui.Text(fmt.Sprintf("Frame time: %.2f ms", float64(v.FrameTime)/float64(time.Millisecond)))
	}
	imgui.End()
}

// check logs a rejected setter call. Widgets only offer valid values, so
// this indicates a bug.
func (p *Panels) check(what string, err error) {
	if err != nil {
		p.log.Warn("setting rejected", zap.String("setting", what), zap.Error(err))
	}
}

// combo draws a combo over options and returns the picked option.
func combo[T comparable](label string, current T, options []T, name func(T) string) (T, bool) {
	picked, changed := current, false
	if imgui.BeginCombo(label, name(current)) {
		for _, o := range options {
			if imgui.SelectableBoolV(name(o), o == current, 0, imgui.NewVec2(0, 0)) && o != current {
				picked, changed = o, true
			}
		}
		imgui.EndCombo()
	}
	return picked, changed
}

func (p *Panels) shadowSettings() {
	if !imgui.BeginV("Shadow map settings", nil, 0) {
		imgui.End()
		return
	}
	s := p.sel.Settings()
	c := ControlsFor(s)

	if m, ok := combo("Type", s.Mode, shadow.Modes, shadow.Mode.String); ok {
		p.check("mode", p.sel.SetMode(m))
	}
	if r, ok := combo("Resolution", s.Resolution, shadow.Resolutions, CountLabel); ok {
		p.check("resolution", p.sel.SetResolution(r))
	}
	if imgui.SliderFloatV("Intensity", &s.Intensity, 0, 1, "%.3f", imgui.SliderFlagsNone) {
		p.sel.SetIntensity(s.Intensity)
	}
	if c.Bias && imgui.SliderFloatV("Bias", &s.Bias, 0, 1, "%.3f", imgui.SliderFlagsNone) {
		p.sel.SetBias(s.Bias)
	}
	if imgui.Checkbox("Match frustums", &s.MatchFrustums) {
		p.sel.SetMatchFrustums(s.MatchFrustums)
	}

	if c.Sampling {
		imgui.Text("Sampling")
	}
	if c.SamplingMode {
		for i, m := range shadow.SamplingModes {
			if i > 0 {
				imgui.SameLine()
			}
			if imgui.RadioButtonBool(m.String(), s.SamplingMode == m) && s.SamplingMode != m {
				p.check("sampling mode", p.sel.SetSamplingMode(m))
			}
		}
	}
	if c.GridKernel {
		if n, ok := combo("Kernel size", s.GridKernelSize, shadow.GridKernelSizes, KernelLabel); ok {
			p.check("grid kernel size", p.sel.SetGridKernelSize(n))
		}
	}
	if c.PoissonCount {
		if n, ok := combo("Sample count", s.PoissonSampleCount, shadow.PoissonSampleCounts, CountLabel); ok {
			p.check("poisson sample count", p.sel.SetPoissonSampleCount(n))
		}
	}
	if c.VogelCount {
		n := s.VogelSampleCount
		if imgui.SliderIntV("Sample count", &n, shadow.MinVogelSampleCount, shadow.MaxVogelSampleCount, "%d", imgui.SliderFlagsNone) {
			p.check("vogel sample count", p.sel.SetVogelSampleCount(n))
		}
	}
	if c.GaussKernel {
		if n, ok := combo("Kernel size", s.GaussianKernelSize, shadow.GaussianKernelSizes, KernelLabel); ok {
			p.check("gaussian kernel size", p.sel.SetGaussianKernelSize(n))
		}
	}
	if c.Rotate && imgui.Checkbox("Rotate samples", &s.RotateSamples) {
		p.sel.SetRotateSamples(s.RotateSamples)
	}
	if c.Smoothstep && imgui.Checkbox("Smoothstep fix", &s.VSMSmoothstepFix) {
		p.sel.SetVSMSmoothstepFix(s.VSMSmoothstepFix)
	}
	if c.LowerBound && imgui.SliderFloatV("Smoothstep fix lower bound", &s.VSMSmoothstepFixLowerBound, 0, 1, "%.3f", imgui.SliderFlagsNone) {
		p.sel.SetVSMSmoothstepFixLowerBound(s.VSMSmoothstepFixLowerBound)
	}
	imgui.End()
}

func (p *Panels) lightSettings() {
	if imgui.BeginV("Light source settings", nil, 0) {
		color := p.light.Color.Array()
		if imgui.ColorEdit3V("Color", &color, imgui.ColorEditFlagsFloat) {
			p.light.Color = math.Vec3{X: color[0], Y: color[1], Z: color[2]}
		}
		if ControlsFor(p.sel.Settings()).LightSize {
			imgui.SliderFloatV("Light size", &p.light.Size, 0, 10, "%.3f", imgui.SliderFlagsNone)
		}
	}
	imgui.End()
}

func (p *Panels) shadowMap(textures []gpu.Texture) {
	if imgui.BeginV("Shadow map", nil, 0) {
		for _, tex := range textures {
			image(tex, PreviewSize, PreviewSize)
		}
	}
	imgui.End()
}

// image draws a GL texture flipped to top-left origin.
func image(tex gpu.Texture, w, h float32) {
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(tex))
	imgui.ImageV(*texRef,
		imgui.NewVec2(w, h),
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0))
}
