// Package mesh imports static meshes and owns their GPU buffers.
package mesh

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu"
)

// Import errors.
var (
	ErrNoMesh               = errors.New("file contains no mesh")
	ErrNoPosition           = errors.New("primitive has no POSITION attribute")
	ErrUnsupportedPrimitive = errors.New("primitive is not made of triangles")
	ErrBadAccessor          = errors.New("accessor index out of range")
)

const (
	attrPosition = "POSITION"
	attrNormal   = "NORMAL"
	attrTexCoord = "TEXCOORD_0"
)

// DecodeGLB reads the first primitive of the first mesh of a binary glTF
// file. Strips and fans become triangle lists, unindexed geometry gets
// sequential indices and texture V is flipped to GL's bottom-left origin.
func DecodeGLB(data []byte) (gpu.VertexData, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return gpu.VertexData{}, fmt.Errorf("decoding glTF: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc *gltf.Document) (gpu.VertexData, error) {
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return gpu.VertexData{}, ErrNoMesh
	}
	prim := doc.Meshes[0].Primitives[0]

	posIdx, ok := prim.Attributes[attrPosition]
	if !ok {
		return gpu.VertexData{}, ErrNoPosition
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return gpu.VertexData{}, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return gpu.VertexData{}, fmt.Errorf("positions: %w", err)
	}

	var out gpu.VertexData
	out.Positions = flatten3(positions)

	if idx, ok := prim.Attributes[attrNormal]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return gpu.VertexData{}, fmt.Errorf("normals: %w", err)
		}
		normals, err := modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return gpu.VertexData{}, fmt.Errorf("normals: %w", err)
		}
		out.Normals = flatten3(normals)
	}

	if idx, ok := prim.Attributes[attrTexCoord]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return gpu.VertexData{}, fmt.Errorf("texture coordinates: %w", err)
		}
		uvs, err := modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return gpu.VertexData{}, fmt.Errorf("texture coordinates: %w", err)
		}
		out.UVs = make([]float32, 0, len(uvs)*2)
		for _, uv := range uvs {
			out.UVs = append(out.UVs, uv[0], 1-uv[1])
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return gpu.VertexData{}, fmt.Errorf("indices: %w", err)
		}
		indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return gpu.VertexData{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	switch prim.Mode {
	case gltf.PrimitiveTriangles:
		out.Indices = indices[:len(indices)/3*3]
	case gltf.PrimitiveTriangleStrip:
		out.Indices = StripToList(indices)
	case gltf.PrimitiveTriangleFan:
		out.Indices = FanToList(indices)
	default:
		return gpu.VertexData{}, fmt.Errorf("%w: mode %d", ErrUnsupportedPrimitive, prim.Mode)
	}

	return out, nil
}

func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBadAccessor, i, len(doc.Accessors))
	}
	return doc.Accessors[i], nil
}

func flatten3(v [][3]float32) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2])
	}
	return out
}

// StripToList converts triangle strip indices to a triangle list, keeping
// counter-clockwise winding on every triangle.
func StripToList(strip []uint32) []uint32 {
	if len(strip) < 3 {
		return nil
	}
	out := make([]uint32, 0, (len(strip)-2)*3)
	for i := 0; i+2 < len(strip); i++ {
		if i%2 == 0 {
			out = append(out, strip[i], strip[i+1], strip[i+2])
		} else {
			out = append(out, strip[i+1], strip[i], strip[i+2])
		}
	}
	return out
}

// FanToList converts triangle fan indices to a triangle list.
func FanToList(fan []uint32) []uint32 {
	if len(fan) < 3 {
		return nil
	}
	out := make([]uint32, 0, (len(fan)-2)*3)
	for i := 1; i+1 < len(fan); i++ {
		out = append(out, fan[0], fan[i], fan[i+1])
	}
	return out
}
