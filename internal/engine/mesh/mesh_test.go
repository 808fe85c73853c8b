package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowmaps/internal/engine/gpu/gputest"
	"github.com/Faultbox/shadowmaps/pkg/math"
)

// encodeGLB writes doc as a binary glTF file and returns its bytes.
func encodeGLB(t *testing.T, doc *gltf.Document) []byte {
	t.Helper()
	file := filepath.Join(t.TempDir(), "mesh.glb")
	if err := gltf.SaveBinary(doc, file); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func triangleDoc(mode gltf.PrimitiveMode, indexed bool, positions [][3]float32) *gltf.Document {
	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Mode: mode,
		Attributes: map[string]int{
			attrPosition: modeler.WritePosition(doc, positions),
			attrNormal:   modeler.WriteNormal(doc, make([][3]float32, len(positions))),
			attrTexCoord: modeler.WriteTextureCoord(doc, make([][2]float32, len(positions))),
		},
	}
	if indexed {
		idx := make([]uint32, len(positions))
		for i := range idx {
			idx[i] = uint32(i)
		}
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, idx))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "test", Primitives: []*gltf.Primitive{prim}}}
	return doc
}

func TestDecodeGLBTriangles(t *testing.T) {
	doc := gltf.NewDocument()
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	uvs := [][2]float32{{0, 0}, {1, 0.25}, {0, 1}}
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Indices: gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2})),
		Attributes: map[string]int{
			attrPosition: modeler.WritePosition(doc, positions),
			attrTexCoord: modeler.WriteTextureCoord(doc, uvs),
		},
	}}}}

	data, err := DecodeGLB(encodeGLB(t, doc))
	if err != nil {
		t.Fatalf("DecodeGLB: %v", err)
	}

	if !slices.Equal(data.Positions, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}) {
		t.Errorf("positions = %v", data.Positions)
	}
	if !slices.Equal(data.UVs, []float32{0, 1, 1, 0.75, 0, 0}) {
		t.Errorf("uvs = %v, want V flipped", data.UVs)
	}
	if !slices.Equal(data.Indices, []uint32{0, 1, 2}) {
		t.Errorf("indices = %v", data.Indices)
	}
	if len(data.Normals) != 0 {
		t.Errorf("normals = %v, want none", data.Normals)
	}
}

func TestDecodeGLBModes(t *testing.T) {
	square := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}

	tests := []struct {
		name    string
		mode    gltf.PrimitiveMode
		indexed bool
		want    []uint32
	}{
		{"indexed list", gltf.PrimitiveTriangles, true, []uint32{0, 1, 2}},
		{"unindexed list", gltf.PrimitiveTriangles, false, []uint32{0, 1, 2}},
		{"strip", gltf.PrimitiveTriangleStrip, true, []uint32{0, 1, 2, 2, 1, 3}},
		{"unindexed fan", gltf.PrimitiveTriangleFan, false, []uint32{0, 1, 2, 0, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := DecodeGLB(encodeGLB(t, triangleDoc(tt.mode, tt.indexed, square)))
			if err != nil {
				t.Fatalf("DecodeGLB: %v", err)
			}
			if !slices.Equal(data.Indices, tt.want) {
				t.Errorf("indices = %v, want %v", data.Indices, tt.want)
			}
			if data.VertexCount() != 4 {
				t.Errorf("vertex count = %d", data.VertexCount())
			}
			if len(data.Normals) != 12 || len(data.UVs) != 8 {
				t.Errorf("got %d normals and %d uvs", len(data.Normals), len(data.UVs))
			}
		})
	}
}

func TestDecodeGLBErrors(t *testing.T) {
	noPosition := gltf.NewDocument()
	noPosition.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: map[string]int{attrNormal: modeler.WriteNormal(noPosition, [][3]float32{{0, 0, 1}})},
	}}}}

	lines := triangleDoc(gltf.PrimitiveLines, false, [][3]float32{{0, 0, 0}, {1, 0, 0}})

	noMesh := gltf.NewDocument()
	modeler.WritePosition(noMesh, [][3]float32{{0, 0, 0}})

	badPosition := gltf.NewDocument()
	badPosition.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: map[string]int{attrPosition: 7},
	}}}}

	badNormal := triangleDoc(gltf.PrimitiveTriangles, false, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	badNormal.Meshes[0].Primitives[0].Attributes[attrNormal] = 42

	badIndices := triangleDoc(gltf.PrimitiveTriangles, false, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	badIndices.Meshes[0].Primitives[0].Indices = gltf.Index(len(badIndices.Accessors))

	tests := []struct {
		name string
		doc  *gltf.Document
		want error
	}{
		{"no mesh", noMesh, ErrNoMesh},
		{"no position", noPosition, ErrNoPosition},
		{"lines", lines, ErrUnsupportedPrimitive},
		{"position accessor out of range", badPosition, ErrBadAccessor},
		{"normal accessor out of range", badNormal, ErrBadAccessor},
		{"index accessor out of range", badIndices, ErrBadAccessor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeGLB(encodeGLB(t, tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := DecodeGLB([]byte("not a glb")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestStripWinding(t *testing.T) {
	got := StripToList([]uint32{0, 1, 2, 3, 4})
	want := []uint32{0, 1, 2, 2, 1, 3, 2, 3, 4}
	if !slices.Equal(got, want) {
		t.Errorf("StripToList = %v, want %v", got, want)
	}
	if StripToList([]uint32{0, 1}) != nil || FanToList(nil) != nil {
		t.Error("degenerate input should give no triangles")
	}
}

func TestQuadLayout(t *testing.T) {
	q := Quad()
	if q.VertexCount() != 4 {
		t.Fatalf("vertex count = %d", q.VertexCount())
	}
	if !slices.Equal(q.Indices, []uint32{0, 2, 3, 1, 0, 3}) {
		t.Errorf("indices = %v", q.Indices)
	}
	for i := 0; i < 4; i++ {
		if q.Normals[i*3+2] != 1 {
			t.Errorf("normal %d does not face +Z", i)
		}
	}
}

func TestCubeFacesPointOutward(t *testing.T) {
	c := Cube()
	if c.VertexCount() != 24 || len(c.Indices) != 36 {
		t.Fatalf("vertices = %d, indices = %d", c.VertexCount(), len(c.Indices))
	}

	vertex := func(i uint32) math.Vec3 {
		return math.Vec3{X: c.Positions[i*3], Y: c.Positions[i*3+1], Z: c.Positions[i*3+2]}
	}
	for tri := 0; tri < len(c.Indices); tri += 3 {
		a, b, d := c.Indices[tri], c.Indices[tri+1], c.Indices[tri+2]
		p0, p1, p2 := vertex(a), vertex(b), vertex(d)
		n := math.Vec3{X: c.Normals[a*3], Y: c.Normals[a*3+1], Z: c.Normals[a*3+2]}

		face := p1.Sub(p0).Cross(p2.Sub(p0))
		if face.Dot(n) <= 0 {
			t.Errorf("triangle %d winds against its normal %v", tri/3, n)
		}
		if p0.Dot(n) != 1 || p1.Dot(n) != 1 || p2.Dot(n) != 1 {
			t.Errorf("triangle %d does not lie on its face", tri/3)
		}
	}
}

func TestArenaBuiltinsReadNoFiles(t *testing.T) {
	dev := gputest.New()
	a := NewArena(dev, fstest.MapFS{}, zap.NewNop())

	for _, name := range []string{QuadName, CubeName} {
		if !Builtin(name) {
			t.Errorf("%s is not reported as built in", name)
		}
		if _, err := a.Load(name); err != nil {
			t.Errorf("Load(%s): %v", name, err)
		}
	}
	if Builtin("mesh/box.glb") {
		t.Error("a file path is reported as built in")
	}
	if _, err := a.Load("mesh/box.glb"); err == nil {
		t.Error("expected an error for a missing file")
	}
	a.Release()
	if dev.Live() != 0 {
		t.Errorf("%d meshes leaked", dev.Live())
	}
}

func TestArenaSharesAndReleasesOnce(t *testing.T) {
	dev := gputest.New()
	files := fstest.MapFS{
		"mesh/AntiqueCamera.glb": {Data: encodeGLB(t, triangleDoc(gltf.PrimitiveTriangles, true,
			[][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}))},
	}
	a := NewArena(dev, files, zap.NewNop())

	first, err := a.Load("mesh/AntiqueCamera.glb")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := a.Load("mesh/AntiqueCamera.glb")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first != second {
		t.Errorf("handles differ: %d, %d", first, second)
	}
	quad, err := a.Load(QuadName)
	if err != nil {
		t.Fatalf("Load quad: %v", err)
	}
	if quad == first {
		t.Error("quad shares the camera handle")
	}
	if a.Len() != 2 || len(dev.Meshes) != 2 {
		t.Errorf("arena holds %d meshes, device %d", a.Len(), len(dev.Meshes))
	}
	if a.Mesh(quad).IndexCount != 6 {
		t.Errorf("quad index count = %d", a.Mesh(quad).IndexCount)
	}
	if a.Name(first) != "mesh/AntiqueCamera.glb" {
		t.Errorf("name = %q", a.Name(first))
	}
	if !slices.Equal(dev.Created, []string{"<AntiqueCamera.glb>", "<quad>"}) {
		t.Errorf("labels = %v", dev.Created)
	}

	a.Release()
	a.Release()
	if dev.Live() != 0 {
		t.Errorf("%d meshes still live", dev.Live())
	}
	if d := dev.DoubleReleases(); len(d) != 0 {
		t.Errorf("double releases: %v", d)
	}
}

func TestArenaMissingFile(t *testing.T) {
	a := NewArena(gputest.New(), fstest.MapFS{}, zap.NewNop())
	if _, err := a.Load("mesh/box.glb"); err == nil {
		t.Error("expected error")
	}
}
