package ui

import (
	"fmt"

	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
)

// Controls says which settings widgets apply to the current mode.
type Controls struct {
	Bias         bool
	Sampling     bool // the "Sampling" section
	SamplingMode bool // Grid/Poisson/Vogel radio buttons
	GridKernel   bool
	PoissonCount bool
	VogelCount   bool
	GaussKernel  bool
	Rotate       bool
	Smoothstep   bool
	LowerBound   bool
	LightSize    bool
}

// ControlsFor derives widget visibility from s.
func ControlsFor(s shadow.Settings) Controls {
	c := Controls{
		Bias:      s.Mode != shadow.ModeVSM,
		Sampling:  s.Mode != shadow.ModeNormal,
		LightSize: s.Mode != shadow.ModeNormal,
	}
	c.Rotate = c.Sampling

	switch {
	case s.Mode.Sampled():
		c.SamplingMode = true
		c.GridKernel = s.SamplingMode == shadow.SamplingGrid
		c.PoissonCount = s.SamplingMode == shadow.SamplingPoisson
		c.VogelCount = s.SamplingMode == shadow.SamplingVogel
	case s.Mode == shadow.ModeVSM:
		c.GaussKernel = true
		c.Smoothstep = true
		c.LowerBound = s.VSMSmoothstepFix
	}
	return c
}

// KernelLabel formats a square kernel size, e.g. "5x5".
func KernelLabel(n int32) string {
	return fmt.Sprintf("%dx%d", n, n)
}

// CountLabel formats a sample count or resolution.
func CountLabel(n int32) string {
	return fmt.Sprint(n)
}
