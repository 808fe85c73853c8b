package shadow

import (
	"fmt"
	"slices"

	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Change is a bit set of GPU resources that must be rebuilt.
type Change uint8

const (
	ChangePrograms Change = 1 << iota
	ChangeTargets

	ChangeNone Change = 0
	ChangeAll         = ChangePrograms | ChangeTargets
)

// Has reports whether c includes all bits of other.
func (c Change) Has(other Change) bool {
	return c&other == other
}

func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangePrograms:
		return "programs"
	case ChangeTargets:
		return "targets"
	case ChangeAll:
		return "programs+targets"
	default:
		return fmt.Sprintf("Change(%d)", uint8(c))
	}
}

// Selector owns the live Settings. Every edit goes through a setter, which
// validates the value, keeps Scale consistent and lets Pending report which
// GPU resources no longer match. Nothing is rebuilt here; the render
// pipeline polls Pending once per frame and calls Acknowledge after it has
// rebuilt.
type Selector struct {
	settings Settings

	built        Variant
	builtTargets TargetFormat
}

// NewSelector validates s and returns a selector with everything pending.
func NewSelector(s Settings) (*Selector, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.applyScale()
	return &Selector{settings: s}, nil
}

// Settings returns a copy of the live settings.
func (sel *Selector) Settings() Settings {
	return sel.settings
}

// Variant returns the programs the current settings need.
func (sel *Selector) Variant() Variant {
	return BuildVariant(sel.settings)
}

// TargetFormat returns the render targets the current settings need.
func (sel *Selector) TargetFormat() TargetFormat {
	return TargetFormatFor(sel.settings)
}

// Pending reports which resources differ from what was last acknowledged.
func (sel *Selector) Pending() Change {
	var c Change
	if !sel.Variant().Equal(sel.built) {
		c |= ChangePrograms
	}
	if sel.TargetFormat() != sel.builtTargets {
		c |= ChangeTargets
	}
	return c
}

// Acknowledge records that the resources in c now match the settings.
func (sel *Selector) Acknowledge(c Change) {
	if c.Has(ChangePrograms) {
		sel.built = sel.Variant()
	}
	if c.Has(ChangeTargets) {
		sel.builtTargets = sel.TargetFormat()
	}
}

// SetMode switches the filtering algorithm and refreshes Scale.
func (sel *Selector) SetMode(m Mode) error {
	if !slices.Contains(Modes, m) {
		return fmt.Errorf("%w: %d", ErrInvalidMode, m)
	}
	sel.settings.Mode = m
	sel.settings.applyScale()
	return nil
}

// SetResolution changes the shadow map size.
func (sel *Selector) SetResolution(r int32) error {
	if !slices.Contains(Resolutions, r) {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, r)
	}
	sel.settings.Resolution = r
	return nil
}

// SetSamplingMode changes the PCF/PCSS sample pattern.
func (sel *Selector) SetSamplingMode(m SamplingMode) error {
	if !slices.Contains(SamplingModes, m) {
		return fmt.Errorf("%w: %d", ErrInvalidSamplingMode, m)
	}
	sel.settings.SamplingMode = m
	return nil
}

// SetGridKernelSize sets the grid kernel edge length (odd, 1 to 13).
func (sel *Selector) SetGridKernelSize(n int32) error {
	if !slices.Contains(GridKernelSizes, n) {
		return fmt.Errorf("%w: %d", ErrInvalidGridKernelSize, n)
	}
	sel.settings.GridKernelSize = n
	return nil
}

// SetPoissonSampleCount selects one of the precomputed Poisson disks.
func (sel *Selector) SetPoissonSampleCount(n int32) error {
	if !slices.Contains(PoissonSampleCounts, n) {
		return fmt.Errorf("%w: %d", ErrInvalidPoissonSampleCount, n)
	}
	sel.settings.PoissonSampleCount = n
	return nil
}

// SetVogelSampleCount sets the number of Vogel disk samples.
func (sel *Selector) SetVogelSampleCount(n int32) error {
	if n < MinVogelSampleCount || n > MaxVogelSampleCount {
		return fmt.Errorf("%w: %d", ErrInvalidVogelSampleCount, n)
	}
	sel.settings.VogelSampleCount = n
	return nil
}

// SetGaussianKernelSize sets the VSM blur kernel edge length.
func (sel *Selector) SetGaussianKernelSize(n int32) error {
	if !slices.Contains(GaussianKernelSizes, n) {
		return fmt.Errorf("%w: %d", ErrInvalidGaussianKernelSize, n)
	}
	sel.settings.GaussianKernelSize = n
	return nil
}

// SetMatchFrustums toggles fitting the light frustum to the camera.
func (sel *Selector) SetMatchFrustums(match bool) {
	sel.settings.MatchFrustums = match
	sel.settings.applyScale()
}

// SetBias sets the depth comparison bias, clamped to [0, 1].
func (sel *Selector) SetBias(b float32) {
	sel.settings.Bias = math.Clamp(b, 0, 1)
}

// SetIntensity sets how dark shadowed areas become, clamped to [0, 1].
func (sel *Selector) SetIntensity(i float32) {
	sel.settings.Intensity = math.Clamp(i, 0, 1)
}

// SetRotateSamples toggles per-fragment random rotation of the kernel.
func (sel *Selector) SetRotateSamples(rotate bool) {
	sel.settings.RotateSamples = rotate
}

// SetVSMSmoothstepFix toggles the light bleeding reduction for VSM.
func (sel *Selector) SetVSMSmoothstepFix(fix bool) {
	sel.settings.VSMSmoothstepFix = fix
}

// SetVSMSmoothstepFixLowerBound sets the bleeding cutoff, clamped to [0, 1].
func (sel *Selector) SetVSMSmoothstepFixLowerBound(b float32) {
	sel.settings.VSMSmoothstepFixLowerBound = math.Clamp(b, 0, 1)
}

// SetFrustum stores the light frustum extents computed by the fitter.
func (sel *Selector) SetFrustum(f Fit) {
	sel.settings.NearPlane = f.Near
	sel.settings.FarPlane = f.Far
	sel.settings.FrustumWidth = f.Width
}
