package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/shadowmaps/internal/assets"
	"github.com/Faultbox/shadowmaps/internal/engine/camera"
	"github.com/Faultbox/shadowmaps/internal/engine/debug"
	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/gpu/gputest"
	"github.com/Faultbox/shadowmaps/internal/engine/input"
	"github.com/Faultbox/shadowmaps/internal/engine/mesh"
	"github.com/Faultbox/shadowmaps/internal/engine/scene"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

var shaderNames = []string{
	shadow.FileLambertianVert, shadow.FileLambertianFrag,
	shadow.FileNormalShadowMap, shadow.FilePCFShadowMap,
	shadow.FilePCSSShadowMap, shadow.FileVSMShadowMap,
	shadow.FileSampling,
	shadow.FileShadowMapVert, shadow.FileShadowMapFrag, shadow.FileShadowMapVSMFrag,
	shadow.FileGaussianBlurVert, shadow.FileGaussianBlurFrag,
}

type pixels struct {
	reads []gpu.Framebuffer
}

func (p *pixels) ReadPixels(fb gpu.Framebuffer, width, height int32) []byte {
	p.reads = append(p.reads, fb)
	return make([]byte, width*height*4)
}

type harness struct {
	dev    *gputest.Device
	files  fstest.MapFS
	demo   *Demo
	logs   *observer.ObservedLogs
	pixels *pixels
	start  time.Time
}

func newHarness(t *testing.T, settings shadow.Settings, shots *debug.ScreenshotCapture) *harness {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)

	files := fstest.MapFS{}
	for _, name := range shaderNames {
		files[name] = &fstest.MapFile{Data: []byte("// " + name + "\n")}
	}
	shaders := assets.NewManager()
	shaders.AddSource(files)

	h := &harness{
		dev:    gputest.New(),
		files:  files,
		logs:   logs,
		pixels: &pixels{},
		start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	ground := []scene.Object{
		{Name: "ground", Mesh: mesh.QuadName, Scale: 100, Rotations: []scene.AxisAngle{{Axis: [3]float32{1, 0, 0}, Degrees: -90}}},
		{Name: "panel", Mesh: mesh.QuadName, Position: [3]float32{0, 5, -20}},
	}

	demo, err := NewDemo(h.dev, Options{
		Settings:    settings,
		Light:       shadow.DefaultLight(),
		Camera:      camera.DefaultConfig(),
		Objects:     ground,
		Shaders:     shaders,
		Meshes:      fstest.MapFS{},
		Screenshots: shots,
		Pixels:      h.pixels,
		Now:         func() time.Time { return h.start },
	}, zap.New(core))
	if err != nil {
		t.Fatalf("NewDemo: %v", err)
	}
	h.demo = demo
	t.Cleanup(demo.Close)
	return h
}

func (h *harness) state() input.State {
	return input.State{Width: 1280, Height: 720}
}

func (h *harness) liveSource(t *testing.T, label, file string) string {
	t.Helper()
	for p, l := range h.dev.Programs {
		if l != label {
			continue
		}
		for _, src := range h.dev.Sources[p] {
			if src.Name == file {
				return src.Code
			}
		}
	}
	t.Fatalf("no live %s program reading %s", label, file)
	return ""
}

func nearVec(a, b math.Vec3) bool {
	return math.NearlyEqual(a.X, b.X, 1e-3) && math.NearlyEqual(a.Y, b.Y, 1e-3) && math.NearlyEqual(a.Z, b.Z, 1e-3)
}

func TestNewDemoCreatesResources(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)

	if n := len(h.dev.Programs); n != 3 {
		t.Errorf("programs = %d, want 3", n)
	}
	if p := h.demo.Selector().Pending(); p != shadow.ChangeNone {
		t.Errorf("pending = %v", p)
	}
	if got := h.demo.Preview(); len(got) != 1 {
		t.Errorf("preview = %v, want the depth texture", got)
	}
}

func TestNewDemoRejectsInvalidSettings(t *testing.T) {
	s := shadow.DefaultSettings()
	s.Resolution = 1000

	shaders := assets.NewManager()
	_, err := NewDemo(gputest.New(), Options{Settings: s, Shaders: shaders, Meshes: fstest.MapFS{}}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNewDemoShaderFailureReleases(t *testing.T) {
	dev := gputest.New()
	dev.CompileErr = os.ErrInvalid
	dev.FailLabel = "blur"

	files := fstest.MapFS{}
	for _, name := range shaderNames {
		files[name] = &fstest.MapFile{Data: []byte("//\n")}
	}
	shaders := assets.NewManager()
	shaders.AddSource(files)

	_, err := NewDemo(dev, Options{
		Settings: shadow.DefaultSettings(),
		Light:    shadow.DefaultLight(),
		Camera:   camera.DefaultConfig(),
		Shaders:  shaders,
		Meshes:   fstest.MapFS{},
	}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
	if dev.Live() != 0 {
		t.Errorf("%d objects leaked", dev.Live())
	}
}

func TestUpdateMovesCamera(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)

	in := h.state()
	in.Keys = camera.Keys{Forward: true}
	if err := h.demo.Update(h.start.Add(time.Second), in); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := math.Vec3{X: 0, Y: 30, Z: -50}
	if got := h.demo.Camera().Position; !nearVec(got, want) {
		t.Errorf("position = %v, want %v", got, want)
	}
	if h.demo.Clock().Delta != 1 {
		t.Errorf("delta = %v", h.demo.Clock().Delta)
	}
}

// slowFiles advances a fake wall clock on every read, like a slow disk.
type slowFiles struct {
	*assets.Manager
	now *time.Time
}

func (f slowFiles) ReadFile(name string) ([]byte, error) {
	*f.now = f.now.Add(time.Second)
	return f.Manager.ReadFile(name)
}

func TestClockStartsAfterLoading(t *testing.T) {
	files := fstest.MapFS{}
	for _, name := range shaderNames {
		files[name] = &fstest.MapFile{Data: []byte("//\n")}
	}
	shaders := assets.NewManager()
	shaders.AddSource(files)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	started := now
	d, err := NewDemo(gputest.New(), Options{
		Settings: shadow.DefaultSettings(),
		Light:    shadow.DefaultLight(),
		Camera:   camera.DefaultConfig(),
		Shaders:  slowFiles{Manager: shaders, now: &now},
		Meshes:   fstest.MapFS{},
		Now:      func() time.Time { return now },
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDemo: %v", err)
	}
	defer d.Close()
	if !now.After(started) {
		t.Fatal("loading did not advance the fake clock")
	}

	in := input.State{Width: 1280, Height: 720, Keys: camera.Keys{Forward: true}}
	if err := d.Update(now.Add(time.Second), in); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if d.Clock().Delta != 1 {
		t.Errorf("first delta = %v, want 1 (load time excluded)", d.Clock().Delta)
	}
	want := math.Vec3{X: 0, Y: 30, Z: -50}
	if got := d.Camera().Position; !nearVec(got, want) {
		t.Errorf("position = %v, want %v", got, want)
	}
}

func TestUpdateFitsLight(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)
	light := h.demo.Light()

	if err := h.demo.Update(h.start.Add(time.Millisecond), h.state()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	fixed := shadow.FitFixed(light.Direction, shadow.DefaultFixedFrustum())
	if light.View != fixed.View || light.Projection != fixed.Projection {
		t.Error("light does not use the fixed frustum")
	}
	if s := h.demo.Selector().Settings(); s.FarPlane != fixed.Far || s.FrustumWidth != fixed.Width {
		t.Errorf("settings planes = %v, %v", s.FarPlane, s.FrustumWidth)
	}

	h.demo.Selector().SetMatchFrustums(true)
	if err := h.demo.Update(h.start.Add(2*time.Millisecond), h.state()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	c := h.demo.Camera()
	fitted := shadow.FitToCamera(light.Direction, light.Distance, c.Position, c.View, c.Projection)
	if light.View != fitted.View || light.Projection != fitted.Projection {
		t.Error("light does not follow the camera")
	}
	if s := h.demo.Selector().Settings(); s.NearPlane != fitted.Near {
		t.Errorf("near plane = %v, want %v", s.NearPlane, fitted.Near)
	}
}

func TestUpdateAppliesPendingSettings(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)

	if err := h.demo.Selector().SetMode(shadow.ModeVSM); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if err := h.demo.Update(h.start.Add(time.Millisecond), h.state()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p := h.demo.Selector().Pending(); p != shadow.ChangeNone {
		t.Errorf("pending = %v", p)
	}
	if got := h.demo.Preview(); len(got) != 2 {
		t.Errorf("preview = %v, want both moment textures", got)
	}
	if n := len(h.dev.TexturesWithFormat(gpu.FormatRG32F)); n != 2 {
		t.Errorf("RG32F textures = %d, want 2", n)
	}
}

func TestStepRendersIntoTarget(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)
	target, err := h.dev.CreateFramebuffer("<scene fbo>")
	if err != nil {
		t.Fatal(err)
	}
	h.dev.ResetCalls()

	if err := h.demo.Step(h.start.Add(time.Millisecond), h.state(), target); err != nil {
		t.Fatalf("Step: %v", err)
	}

	var shaded int
	for _, d := range h.dev.Draws {
		if d.Program == shadow.ProgramLambertian {
			shaded++
			if d.Framebuffer != target {
				t.Errorf("shading pass drew into %d, want %d", d.Framebuffer, target)
			}
		}
	}
	if shaded != 2 {
		t.Errorf("shaded draws = %d, want 2", shaded)
	}

	view, ok := h.dev.Uniform(shadow.ProgramLambertian, "u_view")
	if !ok || view.(math.Mat4) != h.demo.Camera().View {
		t.Errorf("u_view = %v, want the camera view", view)
	}
	if len(h.pixels.reads) != 0 {
		t.Error("read pixels without a screenshot request")
	}
}

func TestStepScreenshot(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t, shadow.DefaultSettings(), debug.NewScreenshotCapture(dir, ScreenshotPrefix))

	in := input.State{Width: 4, Height: 2, Screenshot: true}
	if err := h.demo.Step(h.start.Add(time.Millisecond), in, 7); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if len(h.pixels.reads) != 1 || h.pixels.reads[0] != 7 {
		t.Errorf("reads = %v, want the target", h.pixels.reads)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, ScreenshotPrefix+"_*.png"))
	if len(matches) != 1 {
		t.Errorf("screenshots = %v", matches)
	}
	if h.logs.FilterMessage("screenshot saved").Len() != 1 {
		t.Error("screenshot path not logged")
	}
}

func TestScreenshotUnavailable(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)
	h.demo.Screenshot(0, 4, 4)
	if h.logs.FilterMessage("screenshots are not available").Len() != 1 {
		t.Error("missing warning")
	}
}

func TestReload(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)

	// Prime the cache, then change the file behind it.
	before := h.liveSource(t, shadow.ProgramLambertian, shadow.FileLambertianFrag)
	h.files[shadow.FileLambertianFrag] = &fstest.MapFile{Data: []byte("// edited\n")}

	h.demo.Reload([]string{shadow.FileLambertianFrag})

	after := h.liveSource(t, shadow.ProgramLambertian, shadow.FileLambertianFrag)
	if after == before || !strings.Contains(after, "// edited") {
		t.Errorf("program was not rebuilt from the edited file:\n%s", after)
	}
	if h.logs.FilterMessage("shaders reloaded").Len() != 1 {
		t.Error("reload not logged")
	}
	if d := h.dev.DoubleReleases(); len(d) != 0 {
		t.Errorf("double releases: %v", d)
	}
}

func TestReloadFailureKeepsPrograms(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)
	live := len(h.dev.Programs)

	h.dev.CompileErr = os.ErrInvalid
	h.dev.FailLabel = "lambertian"
	h.demo.Reload([]string{shadow.FileNormalShadowMap})

	if len(h.dev.Programs) != live {
		t.Errorf("programs = %d, want %d", len(h.dev.Programs), live)
	}
	if h.logs.FilterMessage("shader reload failed, keeping previous programs").Len() != 1 {
		t.Error("failure not logged")
	}

	// The old programs still render.
	h.dev.ResetCalls()
	if err := h.demo.Step(h.start.Add(time.Millisecond), h.state(), 0); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(h.dev.Draws) == 0 {
		t.Error("nothing drawn after a failed reload")
	}
}

func TestReloadIgnoresUnusedFiles(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)
	created := len(h.dev.Created)

	h.demo.Reload([]string{shadow.FileVSMShadowMap})
	h.demo.Reload(nil)

	if len(h.dev.Created) != created {
		t.Errorf("created %v", h.dev.Created[created:])
	}
	if h.logs.FilterMessage("changed shaders are not in use").Len() != 1 {
		t.Error("unused change not logged")
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	h := newHarness(t, shadow.DefaultSettings(), nil)
	h.demo.Close()
	h.demo.Close()

	if n := h.dev.Live(); n != 0 {
		t.Errorf("%d objects still live", n)
	}
	if d := h.dev.DoubleReleases(); len(d) != 0 {
		t.Errorf("double releases: %v", d)
	}
}
