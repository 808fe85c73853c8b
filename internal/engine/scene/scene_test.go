package scene

import (
	"errors"
	"testing"

	"github.com/Faultbox/shadowmaps/internal/engine/mesh"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

type fakeMeshes struct {
	handles map[string]mesh.Handle
	loads   []string
	fail    string
}

func (f *fakeMeshes) Load(name string) (mesh.Handle, error) {
	f.loads = append(f.loads, name)
	if name == f.fail {
		return 0, errors.New("boom")
	}
	if h, ok := f.handles[name]; ok {
		return h, nil
	}
	h := mesh.Handle(len(f.handles))
	f.handles[name] = h
	return h, nil
}

func nearVec(a, b math.Vec3) bool {
	return math.NearlyEqual(a.X, b.X, 1e-4) && math.NearlyEqual(a.Y, b.Y, 1e-4) && math.NearlyEqual(a.Z, b.Z, 1e-4)
}

func TestBuildDefaultLayout(t *testing.T) {
	meshes := &fakeMeshes{handles: map[string]mesh.Handle{}}
	s, err := Build(meshes, DefaultObjects())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("got %d renderables, want 6", s.Len())
	}

	r := s.Renderables()
	if r[2].Mesh != r[3].Mesh || r[3].Mesh != r[4].Mesh {
		t.Error("camera copies do not share a mesh")
	}
	if r[0].Mesh == r[2].Mesh {
		t.Error("box shares the camera mesh")
	}
	if len(meshes.handles) != 4 {
		t.Errorf("distinct meshes = %d, want 4", len(meshes.handles))
	}

	if r[0].DiffuseColor != DefaultDiffuseColor {
		t.Errorf("box color = %v", r[0].DiffuseColor)
	}
	ground := r[5]
	if ground.DiffuseColor != (math.Vec3{X: 1, Y: 0.7, Z: 0.4}) {
		t.Errorf("ground color = %v", ground.DiffuseColor)
	}
	if ground.Scale != math.Splat(500) {
		t.Errorf("ground scale = %v", ground.Scale)
	}
	if r[1].Scale != math.Splat(10) || r[0].Scale != math.Splat(1) {
		t.Errorf("scales = %v, %v", r[1].Scale, r[0].Scale)
	}
}

func TestGroundQuadFacesUp(t *testing.T) {
	meshes := &fakeMeshes{handles: map[string]mesh.Handle{}}
	s, err := Build(meshes, DefaultObjects())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ground := s.Renderables()[5]

	m := ground.Model()
	// The quad normal is +Z in mesh space.
	n := m.MulVec4(math.UnitZ.Vec4(0)).XYZ().Normalize()
	if !nearVec(n, math.UnitY) {
		t.Errorf("ground normal = %v, want +Y", n)
	}
	corner := m.TransformPoint(math.Vec3{X: 1, Y: 1})
	if !nearVec(corner, math.Vec3{X: 500, Y: 0, Z: -500}) {
		t.Errorf("corner = %v", corner)
	}
}

func TestModelOrder(t *testing.T) {
	r := Renderable{
		Position: math.Vec3{X: 0, Y: 10, Z: -50},
		Rotation: math.QuatFromAxisAngle(math.UnitY, math.Radians(90)),
		Scale:    math.Splat(2),
	}
	// Scale, then rotate +X onto -Z, then translate.
	got := r.Model().TransformPoint(math.UnitX)
	want := math.Vec3{X: 0, Y: 10, Z: -52}
	if !nearVec(got, want) {
		t.Errorf("Model × X = %v, want %v", got, want)
	}
}

func TestHelmetRotationOrder(t *testing.T) {
	helmet := DefaultObjects()[1]
	q := helmet.Rotation()
	// angleAxis(-90, Y) × angleAxis(90, X): +Y goes to +Z first, then to -X.
	got := q.Rotate(math.UnitY)
	if !nearVec(got, math.Vec3{X: -1}) {
		t.Errorf("rotated +Y = %v, want -X", got)
	}
	if !math.NearlyEqual(q.Length(), 1, 1e-5) {
		t.Errorf("rotation not normalized: %v", q.Length())
	}
}

func TestBuildError(t *testing.T) {
	meshes := &fakeMeshes{handles: map[string]mesh.Handle{}, fail: "mesh/DamagedHelmet.glb"}
	if _, err := Build(meshes, DefaultObjects()); err == nil {
		t.Error("expected error")
	}
}
