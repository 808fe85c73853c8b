// Package scene holds the static renderables drawn by every pass.
package scene

import (
	"fmt"

	"github.com/Faultbox/shadowmaps/internal/engine/mesh"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// DefaultDiffuseColor is used when an object names no color.
var DefaultDiffuseColor = math.Splat(0.5)

// Renderable is one placed instance of a mesh.
type Renderable struct {
	Name         string
	Mesh         mesh.Handle
	Position     math.Vec3
	Rotation     math.Quat
	Scale        math.Vec3
	DiffuseColor math.Vec3
}

// Model returns translate(Position) × rotate(Rotation) × scale(Scale).
func (r Renderable) Model() math.Mat4 {
	return math.Translate(r.Position).Mul(r.Rotation.ToMat4()).Mul(math.Scale(r.Scale))
}

// AxisAngle is one rotation step in degrees.
type AxisAngle struct {
	Axis    [3]float32 `yaml:"axis" toml:"axis"`
	Degrees float32    `yaml:"degrees" toml:"degrees"`
}

// Object describes a renderable in configuration files. Rotations compose
// left to right, so the last step is applied to the mesh first.
type Object struct {
	Name      string      `yaml:"name" toml:"name"`
	Mesh      string      `yaml:"mesh" toml:"mesh"`
	Position  [3]float32  `yaml:"position" toml:"position"`
	Rotations []AxisAngle `yaml:"rotations,omitempty" toml:"rotations,omitempty"`
	// Scale is uniform; zero means 1.
	Scale float32 `yaml:"scale,omitempty" toml:"scale,omitempty"`
	// Color is the diffuse color; nil means DefaultDiffuseColor.
	Color *[3]float32 `yaml:"color,omitempty" toml:"color,omitempty"`
}

// Rotation returns the composed orientation of o.
func (o Object) Rotation() math.Quat {
	q := math.QuatIdentity()
	for _, step := range o.Rotations {
		axis := math.Vec3{X: step.Axis[0], Y: step.Axis[1], Z: step.Axis[2]}
		q = q.Mul(math.QuatFromAxisAngle(axis.Normalize(), math.Radians(step.Degrees)))
	}
	return q.Normalize()
}

// DefaultObjects is the demo layout: a box, a helmet, three copies of one
// camera mesh and a large ground quad.
func DefaultObjects() []Object {
	return []Object{
		{Name: "box", Mesh: "mesh/box.glb", Position: [3]float32{0, 0, -30}},
		{
			Name:     "helmet",
			Mesh:     "mesh/DamagedHelmet.glb",
			Position: [3]float32{0, 10, -50},
			Rotations: []AxisAngle{
				{Axis: [3]float32{0, 1, 0}, Degrees: -90},
				{Axis: [3]float32{1, 0, 0}, Degrees: 90},
			},
			Scale: 10,
		},
		{Name: "camera", Mesh: "mesh/AntiqueCamera.glb", Position: [3]float32{0, 10, -65}},
		{Name: "camera 2", Mesh: "mesh/AntiqueCamera.glb", Position: [3]float32{-10, 0, -70}},
		{Name: "camera 3", Mesh: "mesh/AntiqueCamera.glb", Position: [3]float32{-19, -9, -75}},
		{
			Name:      "ground",
			Mesh:      mesh.QuadName,
			Rotations: []AxisAngle{{Axis: [3]float32{1, 0, 0}, Degrees: -90}},
			Scale:     500,
			Color:     &[3]float32{1, 0.7, 0.4},
		},
	}
}

// MeshLoader resolves mesh names to arena handles.
type MeshLoader interface {
	Load(name string) (mesh.Handle, error)
}

// Store is the ordered list of renderables.
type Store struct {
	renderables []Renderable
}

// Build loads every object's mesh and places it. Objects naming the same
// mesh share one handle.
func Build(meshes MeshLoader, objects []Object) (*Store, error) {
	s := &Store{renderables: make([]Renderable, 0, len(objects))}
	for i, o := range objects {
		h, err := meshes.Load(o.Mesh)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, o.Name, err)
		}
		s.Add(placed(o, h))
	}
	return s, nil
}

func placed(o Object, h mesh.Handle) Renderable {
	scale := o.Scale
	if scale == 0 {
		scale = 1
	}
	color := DefaultDiffuseColor
	if o.Color != nil {
		color = math.Vec3{X: o.Color[0], Y: o.Color[1], Z: o.Color[2]}
	}
	return Renderable{
		Name:         o.Name,
		Mesh:         h,
		Position:     math.Vec3{X: o.Position[0], Y: o.Position[1], Z: o.Position[2]},
		Rotation:     o.Rotation(),
		Scale:        math.Splat(scale),
		DiffuseColor: color,
	}
}

// Add appends r.
func (s *Store) Add(r Renderable) {
	s.renderables = append(s.renderables, r)
}

// Renderables returns the renderables in draw order. The slice must not be
// modified.
func (s *Store) Renderables() []Renderable {
	return s.renderables
}

// Len returns the number of renderables.
func (s *Store) Len() int {
	return len(s.renderables)
}
