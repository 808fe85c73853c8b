package shader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// Program is a linked program with a uniform location cache. A uniform the
// driver does not report is warned about once and then skipped.
type Program struct {
	ID   gpu.Program
	Spec shadow.ProgramSpec

	dev       gpu.Commands
	log       *zap.Logger
	locations map[string]int32
}

// Build loads, compiles and links spec.
func Build(dev gpu.Device, loader *Loader, spec shadow.ProgramSpec, log *zap.Logger) (*Program, error) {
	sources, err := loader.Sources(spec)
	if err != nil {
		return nil, err
	}
	id, err := dev.CompileProgram(spec.Name, sources)
	if err != nil {
		return nil, fmt.Errorf("building program: %w", err)
	}
	return &Program{
		ID:        id,
		Spec:      spec,
		dev:       dev,
		log:       log,
		locations: make(map[string]int32),
	}, nil
}

// Use binds the program.
func (p *Program) Use() {
	p.dev.UseProgram(p.ID)
}

// Location returns the cached location of name, or -1.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.ID, name)
	if loc < 0 {
		p.log.Warn("uniform not found",
			zap.String("program", p.Spec.Name),
			zap.String("uniform", name),
		)
	}
	p.locations[name] = loc
	return loc
}

func (p *Program) SetMat4(name string, m math.Mat4) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformMat4(loc, m)
	}
}

func (p *Program) SetVec3(name string, v math.Vec3) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformVec3(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformFloat(loc, v)
	}
}

func (p *Program) SetBool(name string, v bool) {
	p.SetFloat(name, gpu.Bool(v))
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformInt(loc, v)
	}
}

func (p *Program) SetVec2Array(name string, v []math.Vec2) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformVec2Array(loc, v)
	}
}

// SetTexture binds tex to unit and points the sampler name at it.
func (p *Program) SetTexture(name string, unit uint32, tex gpu.Texture) {
	p.dev.BindTexture(unit, tex)
	p.SetInt(name, int32(unit))
}

// Release deletes the GPU program. Calling it twice is a no-op.
func (p *Program) Release(dev gpu.Resources) {
	if p == nil || p.ID == 0 {
		return
	}
	dev.DeleteProgram(p.ID)
	p.ID = 0
}
