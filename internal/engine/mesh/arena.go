package mesh

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
)

// Built-in meshes, usable wherever a mesh file is named.
const (
	QuadName = "quad"
	CubeName = "cube"
)

// Builtin reports whether name is one of the built-in meshes.
func Builtin(name string) bool {
	return name == QuadName || name == CubeName
}

// Quad returns a unit quad in the XY plane facing +Z, spanning [-1,1].
// It serves both as the ground plane and as the full-screen blur target.
func Quad() gpu.VertexData {
	return gpu.VertexData{
		Positions: []float32{
			-1, 1, 0,
			1, 1, 0,
			-1, -1, 0,
			1, -1, 0,
		},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		UVs: []float32{
			0, 1,
			1, 1,
			0, 0,
			1, 0,
		},
		Indices: []uint32{0, 2, 3, 1, 0, 3},
	}
}

// cubeFaces lists the outward normal and the in-face axes of each cube face,
// ordered so that u x v = n.
var cubeFaces = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Cube returns a cube spanning [-1,1] on every axis with flat face normals.
func Cube() gpu.VertexData {
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	var d gpu.VertexData
	for f, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		for _, c := range corners {
			for i := range 3 {
				d.Positions = append(d.Positions, n[i]+c[0]*u[i]+c[1]*v[i])
			}
			d.Normals = append(d.Normals, n[0], n[1], n[2])
			d.UVs = append(d.UVs, (c[0]+1)/2, (c[1]+1)/2)
		}
		base := uint32(f * 4)
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return d
}

// FileReader reads mesh files by name.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// Handle identifies a mesh in an Arena. Renderables that share a handle
// share the GPU buffers.
type Handle int

// Arena owns every uploaded mesh. Loading the same name twice returns the
// same handle; Release frees each mesh exactly once.
type Arena struct {
	dev    gpu.Resources
	files  FileReader
	log    *zap.Logger
	meshes []gpu.Mesh
	names  []string
	byName map[string]Handle
}

// NewArena returns an empty arena uploading through dev.
func NewArena(dev gpu.Resources, files FileReader, log *zap.Logger) *Arena {
	return &Arena{
		dev:    dev,
		files:  files,
		log:    log,
		byName: make(map[string]Handle),
	}
}

// Load returns the handle for name, importing and uploading it on first
// use. name is either a built-in mesh or a .glb path readable from the arena's
// files.
func (a *Arena) Load(name string) (Handle, error) {
	if h, ok := a.byName[name]; ok {
		return h, nil
	}

	var data gpu.VertexData
	switch name {
	case QuadName:
		data = Quad()
	case CubeName:
		data = Cube()
	default:
		raw, err := a.files.ReadFile(name)
		if err != nil {
			return 0, fmt.Errorf("loading mesh %s: %w", name, err)
		}
		data, err = DecodeGLB(raw)
		if err != nil {
			return 0, fmt.Errorf("importing mesh %s: %w", name, err)
		}
	}

	h, err := a.Add(name, data)
	if err != nil {
		return 0, err
	}
	a.log.Info("mesh loaded",
		zap.String("mesh", name),
		zap.Int("vertices", data.VertexCount()),
		zap.Int("triangles", len(data.Indices)/3),
	)
	return h, nil
}

// Add uploads data under name. A second Add with the same name replaces
// nothing and returns the existing handle.
func (a *Arena) Add(name string, data gpu.VertexData) (Handle, error) {
	if h, ok := a.byName[name]; ok {
		return h, nil
	}
	m, err := a.dev.CreateMesh("<"+path.Base(name)+">", data)
	if err != nil {
		return 0, fmt.Errorf("uploading mesh %s: %w", name, err)
	}
	h := Handle(len(a.meshes))
	a.meshes = append(a.meshes, m)
	a.names = append(a.names, name)
	a.byName[name] = h
	return h, nil
}

// Mesh returns the GPU mesh for h.
func (a *Arena) Mesh(h Handle) gpu.Mesh {
	return a.meshes[h]
}

// Name returns the name h was loaded under.
func (a *Arena) Name(h Handle) string {
	return a.names[h]
}

// Len returns the number of distinct meshes.
func (a *Arena) Len() int {
	return len(a.meshes)
}

// Release deletes every mesh. The arena is empty afterwards and may be
// released again safely.
func (a *Arena) Release() {
	for _, m := range a.meshes {
		a.dev.DeleteMesh(m)
	}
	a.meshes = nil
	a.names = nil
	a.byName = make(map[string]Handle)
}
