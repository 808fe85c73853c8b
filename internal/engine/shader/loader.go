// Package shader assembles GLSL sources for shader programs, caches
// uniform locations and watches shader files for hot reload.
package shader

import (
	"fmt"
	"strings"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
)

// DefaultVersion is the version directive prepended to every source.
const DefaultVersion = "#version 460 core"

// FileReader reads shader files by name. assets.Manager and any
// fs.ReadFileFS satisfy it.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// Loader turns program specs into complete shader sources.
type Loader struct {
	files   FileReader
	version string
}

// NewLoader returns a loader reading from files. An empty version uses
// DefaultVersion.
func NewLoader(files FileReader, version string) *Loader {
	if version == "" {
		version = DefaultVersion
	}
	return &Loader{files: files, version: version}
}

// Prelude returns the text placed before every file: the version line
// followed by one #define line per define.
func (l *Loader) Prelude(defines []shadow.Define) string {
	var b strings.Builder
	b.WriteString(l.version)
	b.WriteByte('\n')
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Source reads one file and prefixes it with the prelude.
func (l *Loader) Source(name string, stage gpu.Stage, defines []shadow.Define) (gpu.ShaderSource, error) {
	data, err := l.files.ReadFile(name)
	if err != nil {
		return gpu.ShaderSource{}, fmt.Errorf("loading shader %s: %w", name, err)
	}
	return gpu.ShaderSource{
		Name:  name,
		Stage: stage,
		Code:  l.Prelude(defines) + string(data),
	}, nil
}

// Sources loads every file of spec, vertex stage first.
func (l *Loader) Sources(spec shadow.ProgramSpec) ([]gpu.ShaderSource, error) {
	sources := make([]gpu.ShaderSource, 0, len(spec.Vertex)+len(spec.Fragment))
	stages := []struct {
		stage gpu.Stage
		files []string
	}{
		{gpu.StageVertex, spec.Vertex},
		{gpu.StageFragment, spec.Fragment},
	}
	for _, s := range stages {
		for _, name := range s.files {
			src, err := l.Source(name, s.stage, spec.Defines)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", spec.Name, err)
			}
			sources = append(sources, src)
		}
	}
	return sources, nil
}
