// Package shadow holds the shadow-mapping model: algorithm settings, the
// shader variant each setting combination needs, change tracking for GPU
// rebuilds and the directional light frustum fitting.
package shadow

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Mode selects the shadow filtering algorithm.
type Mode int

const (
	ModeNormal Mode = iota // single hard depth comparison
	ModePCF                // percentage-closer filtering
	ModePCSS               // percentage-closer soft shadows
	ModeVSM                // variance shadow maps
)

// Modes lists every mode in UI order.
var Modes = []Mode{ModeNormal, ModePCF, ModePCSS, ModeVSM}

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePCF:
		return "PCF"
	case ModePCSS:
		return "PCSS"
	case ModeVSM:
		return "VSM"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Sampled reports whether the mode uses a sampling kernel (PCF, PCSS).
func (m Mode) Sampled() bool {
	return m == ModePCF || m == ModePCSS
}

// SamplingMode selects the sample pattern for PCF and PCSS.
type SamplingMode int

const (
	SamplingGrid SamplingMode = iota
	SamplingPoisson
	SamplingVogel
)

// SamplingModes lists every sampling mode in UI order.
var SamplingModes = []SamplingMode{SamplingGrid, SamplingPoisson, SamplingVogel}

func (s SamplingMode) String() string {
	switch s {
	case SamplingGrid:
		return "Grid"
	case SamplingPoisson:
		return "Poisson"
	case SamplingVogel:
		return "Vogel"
	default:
		return fmt.Sprintf("SamplingMode(%d)", int(s))
	}
}

// ParseSamplingMode parses a sampling mode name case-insensitively.
func ParseSamplingMode(s string) (SamplingMode, error) {
	for _, m := range SamplingModes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSamplingMode, s)
}

// Allowed option values.
var (
	Resolutions         = []int32{128, 256, 512, 1024, 2048, 4096}
	GridKernelSizes     = []int32{1, 3, 5, 7, 9, 11, 13}
	PoissonSampleCounts = []int32{25, 32, 64, 128}
	GaussianKernelSizes = []int32{3, 5, 7, 9, 11, 13}
)

// Vogel sample count bounds.
const (
	MinVogelSampleCount = 1
	MaxVogelSampleCount = 128
)

// Validation errors.
var (
	ErrInvalidMode               = errors.New("invalid shadow mode")
	ErrInvalidSamplingMode       = errors.New("invalid sampling mode")
	ErrInvalidResolution         = errors.New("invalid shadow map resolution")
	ErrInvalidGridKernelSize     = errors.New("invalid grid kernel size")
	ErrInvalidPoissonSampleCount = errors.New("invalid poisson sample count")
	ErrInvalidVogelSampleCount   = errors.New("invalid vogel sample count")
	ErrInvalidGaussianKernelSize = errors.New("invalid gaussian kernel size")
)

// Settings is the full shadow configuration. Scale is derived from Mode and
// MatchFrustums; NearPlane, FarPlane and FrustumWidth are rewritten by the
// frustum fitter every frame.
type Settings struct {
	Mode          Mode
	Resolution    int32
	Bias          float32
	Intensity     float32
	MatchFrustums bool
	Scale         float32

	SamplingMode       SamplingMode
	GridKernelSize     int32
	PoissonSampleCount int32
	VogelSampleCount   int32
	GaussianKernelSize int32
	RotateSamples      bool

	NearPlane    float32
	FarPlane     float32
	FrustumWidth float32

	VSMSmoothstepFix           bool
	VSMSmoothstepFixLowerBound float32
}

// DefaultSettings returns the startup configuration.
func DefaultSettings() Settings {
	return Settings{
		Mode:                       ModeNormal,
		Resolution:                 1024,
		Bias:                       0.003,
		Intensity:                  0.5,
		Scale:                      1,
		SamplingMode:               SamplingGrid,
		GridKernelSize:             5,
		PoissonSampleCount:         25,
		VogelSampleCount:           25,
		GaussianKernelSize:         5,
		NearPlane:                  1,
		FarPlane:                   100,
		FrustumWidth:               100,
		VSMSmoothstepFixLowerBound: 0.1,
	}
}

// ScaleFor returns the sample spread for mode. The second result is false
// for modes that do not use it, in which case the current scale is kept.
func ScaleFor(mode Mode, matchFrustums bool) (float32, bool) {
	pick := func(matched, fixed float32) float32 {
		if matchFrustums {
			return matched
		}
		return fixed
	}
	switch mode {
	case ModePCF:
		return pick(1.0/1024, 1.0/256), true
	case ModePCSS:
		return pick(4, 0.5), true
	case ModeVSM:
		return pick(1.0/768, 1.0/256), true
	default:
		return 0, false
	}
}

// applyScale refreshes Scale from Mode and MatchFrustums.
func (s *Settings) applyScale() {
	if scale, ok := ScaleFor(s.Mode, s.MatchFrustums); ok {
		s.Scale = scale
	}
}

// Validate checks every enumerated field against its allowed values.
func (s Settings) Validate() error {
	if !slices.Contains(Modes, s.Mode) {
		return fmt.Errorf("%w: %d", ErrInvalidMode, s.Mode)
	}
	if !slices.Contains(SamplingModes, s.SamplingMode) {
		return fmt.Errorf("%w: %d", ErrInvalidSamplingMode, s.SamplingMode)
	}
	if !math.IsPowerOfTwo(s.Resolution) || !slices.Contains(Resolutions, s.Resolution) {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, s.Resolution)
	}
	if !slices.Contains(GridKernelSizes, s.GridKernelSize) {
		return fmt.Errorf("%w: %d", ErrInvalidGridKernelSize, s.GridKernelSize)
	}
	if !slices.Contains(PoissonSampleCounts, s.PoissonSampleCount) {
		return fmt.Errorf("%w: %d", ErrInvalidPoissonSampleCount, s.PoissonSampleCount)
	}
	if s.VogelSampleCount < MinVogelSampleCount || s.VogelSampleCount > MaxVogelSampleCount {
		return fmt.Errorf("%w: %d", ErrInvalidVogelSampleCount, s.VogelSampleCount)
	}
	if !slices.Contains(GaussianKernelSizes, s.GaussianKernelSize) {
		return fmt.Errorf("%w: %d", ErrInvalidGaussianKernelSize, s.GaussianKernelSize)
	}
	return nil
}
