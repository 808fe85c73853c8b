package ui

import (
	"testing"

	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
)

func TestControlsFor(t *testing.T) {
	settings := func(mode shadow.Mode, sampling shadow.SamplingMode, fix bool) shadow.Settings {
		s := shadow.DefaultSettings()
		s.Mode = mode
		s.SamplingMode = sampling
		s.VSMSmoothstepFix = fix
		return s
	}

	tests := []struct {
		name string
		s    shadow.Settings
		want Controls
	}{
		{"normal", settings(shadow.ModeNormal, shadow.SamplingPoisson, true), Controls{Bias: true}},
		{"pcf grid", settings(shadow.ModePCF, shadow.SamplingGrid, false), Controls{
			Bias: true, Sampling: true, SamplingMode: true, GridKernel: true, Rotate: true, LightSize: true,
		}},
		{"pcss poisson", settings(shadow.ModePCSS, shadow.SamplingPoisson, false), Controls{
			Bias: true, Sampling: true, SamplingMode: true, PoissonCount: true, Rotate: true, LightSize: true,
		}},
		{"pcf vogel", settings(shadow.ModePCF, shadow.SamplingVogel, false), Controls{
			Bias: true, Sampling: true, SamplingMode: true, VogelCount: true, Rotate: true, LightSize: true,
		}},
		{"vsm", settings(shadow.ModeVSM, shadow.SamplingGrid, false), Controls{
			Sampling: true, GaussKernel: true, Rotate: true, Smoothstep: true, LightSize: true,
		}},
		{"vsm with fix", settings(shadow.ModeVSM, shadow.SamplingGrid, true), Controls{
			Sampling: true, GaussKernel: true, Rotate: true, Smoothstep: true, LowerBound: true, LightSize: true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ControlsFor(tt.s); got != tt.want {
				t.Errorf("ControlsFor =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	if got := KernelLabel(13); got != "13x13" {
		t.Errorf("KernelLabel = %q", got)
	}
	if got := CountLabel(4096); got != "4096" {
		t.Errorf("CountLabel = %q", got)
	}
}
