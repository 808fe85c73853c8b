package config

import (
	"flag"
	"strings"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and a GL debug context")
	flagNoUI       = flag.Bool("no-ui", false, "Run without the ImGui frontend")
	flagMode       = flag.String("mode", "", "Shadow mode: normal, pcf, pcss or vsm")
	flagResolution = flag.Int("resolution", 0, "Shadow map resolution")
	flagMatch      = flag.Bool("match", false, "Fit the light frustum to the camera")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. Values are checked
// later, when the shadow section is converted.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Window.Debug = true
	}
	if *flagNoUI {
		cfg.UI.Enabled = false
	}
	if *flagMode != "" {
		cfg.Shadow.Mode = strings.ToLower(*flagMode)
	}
	if *flagResolution > 0 {
		cfg.Shadow.Resolution = int32(*flagResolution)
	}
	if *flagMatch {
		cfg.Shadow.MatchFrustums = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
