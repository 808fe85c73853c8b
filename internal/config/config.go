// Package config handles demo configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/shadowmaps/internal/engine/camera"
	"github.com/Faultbox/shadowmaps/internal/engine/scene"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
	"github.com/Faultbox/shadowmaps/internal/engine/window"
	"github.com/Faultbox/shadowmaps/internal/logger"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Config holds all demo settings.
type Config struct {
	Window  window.Config  `yaml:"window" toml:"window"`
	UI      UIConfig       `yaml:"ui" toml:"ui"`
	Shadow  ShadowConfig   `yaml:"shadow" toml:"shadow"`
	Light   LightConfig    `yaml:"light" toml:"light"`
	Camera  CameraConfig   `yaml:"camera" toml:"camera"`
	Scene   []scene.Object `yaml:"scene" toml:"scene"`
	Assets  AssetsConfig   `yaml:"assets" toml:"assets"`
	Logging LoggingConfig  `yaml:"logging" toml:"logging"`
}

// UIConfig selects the frontend.
type UIConfig struct {
	// Enabled runs the ImGui frontend; otherwise a bare SDL window is used.
	Enabled  bool    `yaml:"enabled" toml:"enabled"`
	FontPath string  `yaml:"font_path,omitempty" toml:"font_path,omitempty"`
	FontSize float32 `yaml:"font_size,omitempty" toml:"font_size,omitempty"`
}

// ShadowConfig is the startup shadow configuration. Enumerations are
// written by name.
type ShadowConfig struct {
	Mode               string  `yaml:"mode" toml:"mode"`
	Resolution         int32   `yaml:"resolution" toml:"resolution"`
	Bias               float32 `yaml:"bias" toml:"bias"`
	Intensity          float32 `yaml:"intensity" toml:"intensity"`
	MatchFrustums      bool    `yaml:"match_frustums" toml:"match_frustums"`
	Sampling           string  `yaml:"sampling" toml:"sampling"`
	GridKernelSize     int32   `yaml:"grid_kernel_size" toml:"grid_kernel_size"`
	PoissonSampleCount int32   `yaml:"poisson_sample_count" toml:"poisson_sample_count"`
	VogelSampleCount   int32   `yaml:"vogel_sample_count" toml:"vogel_sample_count"`
	GaussianKernelSize int32   `yaml:"gaussian_kernel_size" toml:"gaussian_kernel_size"`
	RotateSamples      bool    `yaml:"rotate_samples" toml:"rotate_samples"`
	SmoothstepFix      bool    `yaml:"smoothstep_fix" toml:"smoothstep_fix"`
	SmoothstepFixLower float32 `yaml:"smoothstep_fix_lower_bound" toml:"smoothstep_fix_lower_bound"`
}

// LightConfig describes the directional light. When both angles are set
// they replace Direction.
type LightConfig struct {
	Direction *[3]float32 `yaml:"direction,omitempty" toml:"direction,omitempty"`
	Longitude *float32    `yaml:"longitude,omitempty" toml:"longitude,omitempty"`
	Latitude  *float32    `yaml:"latitude,omitempty" toml:"latitude,omitempty"`
	Color     [3]float32  `yaml:"color" toml:"color"`
	Size      float32     `yaml:"size" toml:"size"`
	Distance  float32     `yaml:"distance" toml:"distance"`
}

// CameraConfig is the camera's starting pose and tuning.
type CameraConfig struct {
	Position      [3]float32 `yaml:"position" toml:"position"`
	MoveSpeed     float32    `yaml:"move_speed" toml:"move_speed"`
	RotationSpeed float32    `yaml:"rotation_speed" toml:"rotation_speed"`
	FOV           float32    `yaml:"fov" toml:"fov"`
	Near          float32    `yaml:"near" toml:"near"`
	Far           float32    `yaml:"far" toml:"far"`
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	// Root holds meshes, referenced relative to it.
	Root string `yaml:"root" toml:"root"`
	// ShaderDir holds the GLSL sources.
	ShaderDir     string `yaml:"shader_dir" toml:"shader_dir"`
	HotReload     bool   `yaml:"hot_reload" toml:"hot_reload"`
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string            `yaml:"level" toml:"level"`
	LogFile string            `yaml:"log_file" toml:"log_file"`
	File    logger.FileConfig `yaml:"file,omitempty" toml:"file,omitempty"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	s := shadow.DefaultSettings()
	l := shadow.DefaultLight()
	c := camera.DefaultConfig()
	dir := l.Direction.Array()

	return &Config{
		Window: window.DefaultConfig(),
		UI: UIConfig{
			Enabled: true,
		},
		Shadow: ShadowConfig{
			Mode:               s.Mode.String(),
			Resolution:         s.Resolution,
			Bias:               s.Bias,
			Intensity:          s.Intensity,
			MatchFrustums:      s.MatchFrustums,
			Sampling:           s.SamplingMode.String(),
			GridKernelSize:     s.GridKernelSize,
			PoissonSampleCount: s.PoissonSampleCount,
			VogelSampleCount:   s.VogelSampleCount,
			GaussianKernelSize: s.GaussianKernelSize,
			RotateSamples:      s.RotateSamples,
			SmoothstepFix:      s.VSMSmoothstepFix,
			SmoothstepFixLower: s.VSMSmoothstepFixLowerBound,
		},
		Light: LightConfig{
			Direction: &dir,
			Color:     l.Color.Array(),
			Size:      l.Size,
			Distance:  l.Distance,
		},
		Camera: CameraConfig{
			Position:      c.Position.Array(),
			MoveSpeed:     c.MoveSpeed,
			RotationSpeed: c.RotationSpeed,
			FOV:           c.FOV,
			Near:          c.Near,
			Far:           c.Far,
		},
		Scene: scene.DefaultObjects(),
		Assets: AssetsConfig{
			Root:          "assets",
			ShaderDir:     "assets/shaders",
			HotReload:     true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ShadowSettings converts the shadow section and validates it.
func (c *Config) ShadowSettings() (shadow.Settings, error) {
	mode, err := shadow.ParseMode(c.Shadow.Mode)
	if err != nil {
		return shadow.Settings{}, err
	}
	sampling, err := shadow.ParseSamplingMode(c.Shadow.Sampling)
	if err != nil {
		return shadow.Settings{}, err
	}

	s := shadow.DefaultSettings()
	s.Mode = mode
	s.Resolution = c.Shadow.Resolution
	s.Bias = c.Shadow.Bias
	s.Intensity = c.Shadow.Intensity
	s.MatchFrustums = c.Shadow.MatchFrustums
	s.SamplingMode = sampling
	s.GridKernelSize = c.Shadow.GridKernelSize
	s.PoissonSampleCount = c.Shadow.PoissonSampleCount
	s.VogelSampleCount = c.Shadow.VogelSampleCount
	s.GaussianKernelSize = c.Shadow.GaussianKernelSize
	s.RotateSamples = c.Shadow.RotateSamples
	s.VSMSmoothstepFix = c.Shadow.SmoothstepFix
	s.VSMSmoothstepFixLowerBound = c.Shadow.SmoothstepFixLower

	if err := s.Validate(); err != nil {
		return shadow.Settings{}, fmt.Errorf("shadow config: %w", err)
	}
	return s, nil
}

// ErrNoLightDirection is returned when the light has neither a direction
// nor both angles, or the direction is zero.
var ErrNoLightDirection = errors.New("light needs a direction or longitude and latitude")

// LightSource converts the light section.
func (c *Config) LightSource() (shadow.Light, error) {
	l := shadow.DefaultLight()
	lc := c.Light

	switch {
	case lc.Longitude != nil && lc.Latitude != nil:
		l.Direction = shadow.DirectionFromAngles(*lc.Longitude, *lc.Latitude)
	case lc.Direction != nil:
		d := math.Vec3{X: lc.Direction[0], Y: lc.Direction[1], Z: lc.Direction[2]}
		if d.Length() == 0 {
			return shadow.Light{}, ErrNoLightDirection
		}
		l.Direction = d.Normalize()
	default:
		return shadow.Light{}, ErrNoLightDirection
	}

	l.Color = math.Vec3{X: lc.Color[0], Y: lc.Color[1], Z: lc.Color[2]}
	l.Size = lc.Size
	l.Distance = lc.Distance
	return l, nil
}

// CameraSettings converts the camera section.
func (c *Config) CameraSettings() camera.Config {
	cc := c.Camera
	return camera.Config{
		Position:      math.Vec3{X: cc.Position[0], Y: cc.Position[1], Z: cc.Position[2]},
		MoveSpeed:     cc.MoveSpeed,
		RotationSpeed: cc.RotationSpeed,
		FOV:           cc.FOV,
		Near:          cc.Near,
		Far:           cc.Far,
	}
}

// LoggerOptions converts the logging section. LogFile is shorthand for a
// rotating file with default limits.
func (c *Config) LoggerOptions() logger.Options {
	opts := logger.Options{Level: c.Logging.Level, Console: true, File: c.Logging.File}
	if opts.File.Path == "" && c.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(c.Logging.LogFile)
	}
	return opts
}
