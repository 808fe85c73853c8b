package renderer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
	"github.com/Faultbox/shadowmaps/internal/engine/shader"
	"github.com/Faultbox/shadowmaps/internal/engine/shadow"
)

// ProgramSet is the three programs of one shader variant.
type ProgramSet struct {
	Variant      shadow.Variant
	Lambertian   *shader.Program
	ShadowMap    *shader.Program
	GaussianBlur *shader.Program
}

// NewProgramSet builds every program of v. If any fails, the ones already
// built are released and the error is returned.
func NewProgramSet(dev gpu.Device, loader *shader.Loader, v shadow.Variant, log *zap.Logger) (*ProgramSet, error) {
	set := &ProgramSet{Variant: v}
	slots := []**shader.Program{&set.Lambertian, &set.ShadowMap, &set.GaussianBlur}
	for i, spec := range v.Programs() {
		p, err := shader.Build(dev, loader, spec, log)
		if err != nil {
			set.Release(dev)
			return nil, err
		}
		*slots[i] = p
	}
	return set, nil
}

// Release deletes every program. Calling it twice is a no-op.
func (s *ProgramSet) Release(dev gpu.Resources) {
	if s == nil {
		return
	}
	s.Lambertian.Release(dev)
	s.ShadowMap.Release(dev)
	s.GaussianBlur.Release(dev)
}
