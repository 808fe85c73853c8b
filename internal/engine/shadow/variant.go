package shadow

import (
	"slices"
	"strconv"
)

// Shader file names, relative to the shader directory.
const (
	FileLambertianVert   = "lambertian.vert"
	FileLambertianFrag   = "lambertian.frag"
	FileNormalShadowMap  = "normal_shadow_map.frag"
	FilePCFShadowMap     = "pcf_shadow_map.frag"
	FilePCSSShadowMap    = "pcss_shadow_map.frag"
	FileVSMShadowMap     = "vsm_shadow_map.frag"
	FileSampling         = "sampling.frag"
	FileShadowMapVert    = "shadow_map.vert"
	FileShadowMapFrag    = "shadow_map.frag"
	FileShadowMapVSMFrag = "shadow_map_vsm.frag"
	FileGaussianBlurVert = "gaussian_blur.vert"
	FileGaussianBlurFrag = "gaussian_blur.frag"
)

// Program labels.
const (
	ProgramLambertian   = "<lambertian>"
	ProgramShadowMap    = "<shadow map>"
	ProgramGaussianBlur = "<gaussian blur>"
)

// Define is a preprocessor definition prepended to every stage of a program.
type Define struct {
	Name  string
	Value string
}

// String renders the define as it follows "#define ".
func (d Define) String() string {
	if d.Value == "" {
		return d.Name
	}
	return d.Name + " " + d.Value
}

func flag(name string) Define {
	return Define{Name: name, Value: "1"}
}

// ProgramSpec describes how to build one shader program: the files of each
// stage, in link order, and the defines applied to all of them.
type ProgramSpec struct {
	Name     string
	Vertex   []string
	Fragment []string
	Defines  []Define
}

// Equal reports whether two specs build the same program.
func (p ProgramSpec) Equal(o ProgramSpec) bool {
	return p.Name == o.Name &&
		slices.Equal(p.Vertex, o.Vertex) &&
		slices.Equal(p.Fragment, o.Fragment) &&
		slices.Equal(p.Defines, o.Defines)
}

// Uses reports whether file is one of the program's sources.
func (p ProgramSpec) Uses(file string) bool {
	return slices.Contains(p.Vertex, file) || slices.Contains(p.Fragment, file)
}

// Variant is the set of programs required by one settings combination.
type Variant struct {
	Lambertian   ProgramSpec
	ShadowMap    ProgramSpec
	GaussianBlur ProgramSpec
}

// Equal reports whether two variants build identical programs.
func (v Variant) Equal(o Variant) bool {
	return v.Lambertian.Equal(o.Lambertian) &&
		v.ShadowMap.Equal(o.ShadowMap) &&
		v.GaussianBlur.Equal(o.GaussianBlur)
}

// Programs returns the specs in build order.
func (v Variant) Programs() []ProgramSpec {
	return []ProgramSpec{v.Lambertian, v.ShadowMap, v.GaussianBlur}
}

// Uses reports whether any program of the variant reads file.
func (v Variant) Uses(file string) bool {
	for _, p := range v.Programs() {
		if p.Uses(file) {
			return true
		}
	}
	return false
}

// BuildVariant maps settings to the shader programs they need. Only the
// fields that change shader source are read; everything else is a uniform.
func BuildVariant(s Settings) Variant {
	var modeFiles []string
	var defines []Define

	switch s.Mode {
	case ModePCF, ModePCSS:
		modeFile := FilePCFShadowMap
		if s.Mode == ModePCSS {
			modeFile = FilePCSSShadowMap
		}
		modeFiles = []string{FileSampling, modeFile}

		switch s.SamplingMode {
		case SamplingGrid:
			defines = append(defines, flag("SAMPLING_MODE_GRID"))
		case SamplingPoisson:
			defines = append(defines,
				flag("SAMPLING_MODE_POISSON"),
				flag("POISSON_"+strconv.Itoa(int(s.PoissonSampleCount))),
			)
		case SamplingVogel:
			defines = append(defines, flag("SAMPLING_MODE_VOGEL"))
		}
	case ModeVSM:
		modeFiles = []string{FileSampling, FileVSMShadowMap}
	default:
		modeFiles = []string{FileNormalShadowMap}
	}

	shadowFrag := FileShadowMapFrag
	if s.Mode == ModeVSM {
		shadowFrag = FileShadowMapVSMFrag
	}

	return Variant{
		Lambertian: ProgramSpec{
			Name:     ProgramLambertian,
			Vertex:   []string{FileLambertianVert},
			Fragment: append([]string{FileLambertianFrag}, modeFiles...),
			Defines:  defines,
		},
		ShadowMap: ProgramSpec{
			Name:     ProgramShadowMap,
			Vertex:   []string{FileShadowMapVert},
			Fragment: []string{shadowFrag},
		},
		GaussianBlur: ProgramSpec{
			Name:     ProgramGaussianBlur,
			Vertex:   []string{FileGaussianBlurVert},
			Fragment: []string{FileGaussianBlurFrag, FileSampling},
			Defines:  []Define{flag("GAUSSIAN_" + strconv.Itoa(int(s.GaussianKernelSize)))},
		},
	}
}

// TargetFormat describes the shadow render targets a mode needs.
type TargetFormat struct {
	Resolution int32
	// Moments is true for VSM: an RG32F color target storing depth and
	// depth squared, plus a second texture for the separable blur.
	Moments bool
}

// Channels returns the color channel count of the shadow color texture.
func (f TargetFormat) Channels() int {
	if f.Moments {
		return 2
	}
	return 1
}

// TargetFormatFor returns the render target layout required by s.
func TargetFormatFor(s Settings) TargetFormat {
	return TargetFormat{Resolution: s.Resolution, Moments: s.Mode == ModeVSM}
}
