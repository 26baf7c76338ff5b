package geometry

import (
	"encoding/binary"
	"fmt"
	gomath "math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

func testVertex(i int) TriMeshVertexData {
	f := float32(i)
	return TriMeshVertexData{
		Position:  math.Vec3{X: f, Y: f + 0.5, Z: -f},
		Color:     math.Vec3{X: 0.25, Y: 0.5, Z: 1},
		Normal:    math.Vec3{Y: 1},
		TexCoord:  math.Vec2{X: f / 10, Y: 1 - f/10},
		Tangent:   math.Vec4{X: 1, W: 1},
		Bitangent: math.Vec3{Z: 1},
	}
}

func mustGeometry(t *testing.T, ci *GeometryCreateInfo) *Geometry {
	t.Helper()
	g, err := NewGeometry(ci)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	return g
}

func expectPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic containing %q", contains)
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, contains) {
			t.Fatalf("panic %v does not contain %q", r, contains)
		}
	}()
	fn()
}

func readVec3(data []byte) math.Vec3 {
	return math.Vec3{
		X: gomath.Float32frombits(binary.LittleEndian.Uint32(data[0:])),
		Y: gomath.Float32frombits(binary.LittleEndian.Uint32(data[4:])),
		Z: gomath.Float32frombits(binary.LittleEndian.Uint32(data[8:])),
	}
}

func TestPlanarRoundTrip(t *testing.T) {
	const k = 17
	g := mustGeometry(t, Planar().AddPosition().AddColor().AddNormal())
	for i := 0; i < k; i++ {
		if n := g.AppendVertexData(testVertex(i)); n != uint32(i+1) {
			t.Fatalf("AppendVertexData returned %d, want %d", n, i+1)
		}
	}
	if g.VertexCount() != k {
		t.Errorf("VertexCount() = %d, want %d", g.VertexCount(), k)
	}
	if g.VertexBufferCount() != 3 {
		t.Fatalf("VertexBufferCount() = %d, want 3", g.VertexBufferCount())
	}
	for i := 0; i < 3; i++ {
		b, _ := g.VertexBuffer(i)
		if b.ElementCount() != k {
			t.Errorf("buffer %d holds %d elements, want %d", i, b.ElementCount(), k)
		}
		if b.ElementSize() != 12 {
			t.Errorf("buffer %d element size = %d", i, b.ElementSize())
		}
	}
	positions, _ := g.VertexBuffer(0)
	if got := readVec3(positions.Data()[12*5:]); got != testVertex(5).Position {
		t.Errorf("position 5 = %+v", got)
	}
	colors, _ := g.VertexBuffer(1)
	if got := readVec3(colors.Data()); got != testVertex(0).Color {
		t.Errorf("color 0 = %+v", got)
	}
}

func TestInterleavedRoundTrip(t *testing.T) {
	const k = 9
	ci := Interleaved().AddPosition().AddColor().AddNormal().AddTexCoord().AddTangent().AddBitangent()
	g := mustGeometry(t, ci)
	for i := 0; i < k; i++ {
		g.AppendVertexData(testVertex(i))
	}
	if g.VertexBufferCount() != 1 {
		t.Fatalf("VertexBufferCount() = %d, want 1", g.VertexBufferCount())
	}
	b, _ := g.VertexBuffer(0)
	var want uint32
	for _, attr := range g.VertexBinding(0).Attributes() {
		want += attr.Format.Size()
	}
	if want != 12+12+12+8+16+12 {
		t.Fatalf("attribute sizes sum to %d", want)
	}
	if b.ElementSize() != want {
		t.Errorf("element size = %d, want %d", b.ElementSize(), want)
	}
	if b.ElementCount() != k || g.VertexCount() != k {
		t.Errorf("element count = %d, vertex count = %d, want %d", b.ElementCount(), g.VertexCount(), k)
	}
	// attributes follow declaration order inside a record
	record := b.Data()[want*3:]
	if readVec3(record) != testVertex(3).Position {
		t.Errorf("record 3 position = %+v", readVec3(record))
	}
	if readVec3(record[12:]) != testVertex(3).Color {
		t.Errorf("record 3 color = %+v", readVec3(record[12:]))
	}
}

func TestPositionPlanar(t *testing.T) {
	g := mustGeometry(t, PositionPlanar().AddColor().AddPosition().AddNormal())
	for i := 0; i < 4; i++ {
		g.AppendVertexData(testVertex(i))
	}
	if g.VertexBufferCount() != 2 {
		t.Fatalf("VertexBufferCount() = %d", g.VertexBufferCount())
	}
	positions, _ := g.VertexBuffer(0)
	rest, _ := g.VertexBuffer(1)
	if positions.ElementSize() != 12 || rest.ElementSize() != 24 {
		t.Errorf("element sizes = %d, %d", positions.ElementSize(), rest.ElementSize())
	}
	if positions.ElementCount() != 4 || rest.ElementCount() != 4 || g.VertexCount() != 4 {
		t.Errorf("counts = %d, %d, %d", positions.ElementCount(), rest.ElementCount(), g.VertexCount())
	}
	if readVec3(positions.Data()[12:]) != testVertex(1).Position {
		t.Error("position buffer holds something else than positions")
	}
}

func TestGeometryCreateErrors(t *testing.T) {
	positionInBindingOne := PositionPlanar()
	positionInBindingOne.Binding(1).AppendAttribute(metadata.VertexAttribute{
		Format: metadata.FormatR32G32B32Float, Semantic: metadata.VertexSemanticPosition,
	})
	positionInBindingOne.Binding(0).AppendAttribute(metadata.VertexAttribute{
		Format: metadata.FormatR32G32B32Float, Semantic: metadata.VertexSemanticPosition,
	})

	twoInterleavedBindings := Interleaved().AddPosition()
	twoInterleavedBindings.AppendBinding(metadata.NewVertexBinding(1, metadata.VertexInputRateVertex))

	planarTwoAttributes := Planar().AddPosition()
	planarTwoAttributes.Binding(0).AppendAttribute(metadata.VertexAttribute{
		Format: metadata.FormatR32G32B32Float, Semantic: metadata.VertexSemanticNormal,
	})

	strip := Interleaved().AddPosition()
	strip.PrimitiveTopology = metadata.PrimitiveTopologyTriangleStrip

	tests := []struct {
		name string
		ci   *GeometryCreateInfo
		want error
	}{
		{"no binding", Planar(), core.ErrInvalidCreateArgument},
		{"triangle strip", strip, core.ErrInvalidCreateArgument},
		{"unsupported semantic", Planar().AddPosition().AddAttribute(metadata.VertexSemanticTexcoord3, metadata.FormatR32G32Float), core.ErrGeometryInvalidVertexSemantic},
		{"no position", Interleaved().AddColor(), core.ErrGeometryInvalidVertexSemantic},
		{"position in binding 1", positionInBindingOne, core.ErrGeometryInvalidVertexSemantic},
		{"interleaved with 2 bindings", twoInterleavedBindings, core.ErrGeometryInvalidLayout},
		{"planar binding with 2 attributes", planarTwoAttributes, core.ErrGeometryInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGeometry(tt.ci); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAppendTriangleAutoIndexing(t *testing.T) {
	g := mustGeometry(t, Interleaved().AddPosition().AddColor().WithIndexType(metadata.IndexTypeUint32))
	for tri := 0; tri < 3; tri++ {
		g.AppendTriangle(testVertex(3*tri), testVertex(3*tri+1), testVertex(3*tri+2))
	}
	if g.IndexCount() != 9 {
		t.Fatalf("IndexCount() = %d, want 9", g.IndexCount())
	}
	data := g.IndexBuffer().Data()
	for i := uint32(0); i < 9; i++ {
		if got := binary.LittleEndian.Uint32(data[4*i:]); got != i {
			t.Errorf("index %d = %d", i, got)
		}
	}
	if g.VertexCount() != 9 {
		t.Errorf("VertexCount() = %d", g.VertexCount())
	}
}

func TestAppendEdgeAndIndexNarrowing(t *testing.T) {
	g := mustGeometry(t, Interleaved().AddPosition().AddColor().WithIndexType(metadata.IndexTypeUint16))
	w := WireMeshVertexData{Position: math.Vec3{X: 1}, Color: math.Vec3{Y: 1}}
	g.AppendEdge(w, w)
	g.AppendIndex(0x12345)
	if g.IndexBuffer().ElementSize() != 2 || g.IndexCount() != 3 {
		t.Fatalf("index buffer size %d count %d", g.IndexBuffer().ElementSize(), g.IndexCount())
	}
	data := g.IndexBuffer().Data()
	if binary.LittleEndian.Uint16(data[2:]) != 1 {
		t.Errorf("edge end index = %d", binary.LittleEndian.Uint16(data[2:]))
	}
	if binary.LittleEndian.Uint16(data[4:]) != 0x2345 {
		t.Errorf("narrowed index = %x", binary.LittleEndian.Uint16(data[4:]))
	}
}

func TestNonIndexedGeometryIgnoresIndices(t *testing.T) {
	g := mustGeometry(t, Interleaved().AddPosition())
	g.AppendIndex(3)
	g.AppendTriangle(testVertex(0), testVertex(1), testVertex(2))
	if g.IndexBuffer() != nil || g.IndexCount() != 0 {
		t.Error("geometry without index type grew an index buffer")
	}
	if g.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d", g.VertexCount())
	}
}

func TestAppendIndicesU32(t *testing.T) {
	g := mustGeometry(t, Interleaved().AddPosition().WithIndexType(metadata.IndexTypeUint32))
	g.AppendIndicesU32([]uint32{4, 5, 6, 7})
	if g.IndexCount() != 4 {
		t.Errorf("IndexCount() = %d", g.IndexCount())
	}

	g16 := mustGeometry(t, Interleaved().AddPosition().WithIndexType(metadata.IndexTypeUint16))
	expectPanic(t, "AppendIndicesU32", func() { g16.AppendIndicesU32([]uint32{1}) })
}

func TestSetBuffers(t *testing.T) {
	g := mustGeometry(t, Planar().AddPosition().AddNormal().WithIndexType(metadata.IndexTypeUint16))
	if err := g.SetIndexBuffer(NewBuffer(4)); !errors.Is(err, core.ErrIndexTypeMismatch) {
		t.Errorf("SetIndexBuffer(4) err = %v", err)
	}
	idx := NewBuffer(2)
	AppendValues(&idx, uint16(0), uint16(1), uint16(2))
	if err := g.SetIndexBuffer(idx); err != nil {
		t.Fatal(err)
	}
	if g.IndexCount() != 3 {
		t.Errorf("IndexCount() = %d", g.IndexCount())
	}

	if err := g.SetVertexBuffer(5, NewBuffer(12)); !errors.Is(err, core.ErrOutOfRange) {
		t.Errorf("SetVertexBuffer(5) err = %v", err)
	}
	if err := g.SetVertexBuffer(1, NewBuffer(8)); !errors.Is(err, core.ErrGeometryInvalidLayout) {
		t.Errorf("SetVertexBuffer(1, 8) err = %v", err)
	}
	normals := NewBuffer(12)
	normals.Append(make([]byte, 36))
	if err := g.SetVertexBuffer(1, normals); err != nil {
		t.Fatal(err)
	}
	if g.LargestBufferSize() != 36 {
		t.Errorf("LargestBufferSize() = %d", g.LargestBufferSize())
	}

	unindexed := mustGeometry(t, Interleaved().AddPosition())
	if err := unindexed.SetIndexBuffer(NewBuffer(2)); !errors.Is(err, core.ErrIndexTypeMismatch) {
		t.Errorf("SetIndexBuffer on unindexed geometry err = %v", err)
	}
}

func TestInterleavedStrideMismatchPanics(t *testing.T) {
	// a color declared as RGBA float does not match the 3 float record field
	g := mustGeometry(t, Interleaved().AddPosition().AddAttribute(metadata.VertexSemanticColor, metadata.FormatR32G32B32A32Float))
	expectPanic(t, "declared as", func() { g.AppendVertexData(testVertex(0)) })

	// a wire vertex lacks the normal of this layout
	wg := mustGeometry(t, Interleaved().AddPosition().AddNormal())
	expectPanic(t, "stride", func() { wg.AppendVertexData(WireMeshVertexData{}) })
}

func TestGeometryOwnsItsLayout(t *testing.T) {
	ci := Interleaved().AddPosition().AddColor()
	g := mustGeometry(t, ci)

	// extending a shared create info leaves existing geometries alone
	ci.AddNormal()
	if stride := g.VertexBinding(0).Stride(); stride != 24 {
		t.Fatalf("geometry stride = %d, want 24", stride)
	}
	if stride := ci.Binding(0).Stride(); stride != 36 {
		t.Errorf("create info stride = %d, want 36", stride)
	}
	g.AppendVertexData(WireMeshVertexData{Position: math.Vec3{X: 1}, Color: math.Vec3{Y: 1}})
	if g.VertexCount() != 1 {
		t.Errorf("vertex count %d", g.VertexCount())
	}
}

func TestPlanarSkipsMissingAttributes(t *testing.T) {
	g := mustGeometry(t, Planar().AddPosition().AddColor().AddNormal())
	g.AppendVertexData(WireMeshVertexData{Position: math.Vec3{X: 1}, Color: math.Vec3{X: 1}})
	normals, _ := g.VertexBuffer(2)
	if g.VertexCount() != 1 || normals.ElementCount() != 0 {
		t.Errorf("vertex count %d, normal count %d", g.VertexCount(), normals.ElementCount())
	}
}

func TestCompressedGeometry(t *testing.T) {
	ci := Interleaved().WithCompressed().AddPosition().AddColor().AddNormal().AddTexCoord().AddTangent().AddBitangent()
	ci.IndexType = metadata.IndexTypeUint32
	mesh := CreateCube(math.Vec3{X: 1, Y: 1, Z: 1}, DefaultTriMeshOptions().AllAttributes())
	g, err := NewGeometryFromTriMesh(ci, mesh)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := g.VertexBuffer(0)
	if b.ElementSize() != 12+4+4+4+4+4 {
		t.Errorf("compressed stride = %d", b.ElementSize())
	}
	if g.VertexCount() != 24 || g.IndexCount() != 36 {
		t.Errorf("vertices %d indices %d", g.VertexCount(), g.IndexCount())
	}
}

func TestCompressQuantization(t *testing.T) {
	c := TriMeshVertexData{
		Color:    math.Vec3{X: 1, Y: 0, Z: 2},
		Normal:   math.Vec3{X: -1, Y: 1},
		TexCoord: math.Vec2{X: 0.5, Y: 1},
	}.Compress()
	if c.Color != [4]uint8{255, 0, 255, 255} {
		t.Errorf("color = %v", c.Color)
	}
	if c.Normal != [4]int8{-127, 127, 0, 0} {
		t.Errorf("normal = %v", c.Normal)
	}
	if c.TexCoord[0].Float32() != 0.5 || c.TexCoord[1].Float32() != 1 {
		t.Errorf("texcoord = %v %v", c.TexCoord[0].Float32(), c.TexCoord[1].Float32())
	}
}

// drawnVertices expands a geometry into the bytes its vertex buffers hold
// for each drawn vertex, in draw order.
func drawnVertices(t *testing.T, g *Geometry) [][]byte {
	t.Helper()
	var order []uint32
	if g.HasIndexBuffer() {
		data := g.IndexBuffer().Data()
		for i := uint32(0); i < g.IndexCount(); i++ {
			switch g.IndexType() {
			case metadata.IndexTypeUint8:
				order = append(order, uint32(data[i]))
			case metadata.IndexTypeUint16:
				order = append(order, uint32(binary.LittleEndian.Uint16(data[2*i:])))
			default:
				order = append(order, binary.LittleEndian.Uint32(data[4*i:]))
			}
		}
	} else {
		for i := uint32(0); i < g.VertexCount(); i++ {
			order = append(order, i)
		}
	}

	out := make([][]byte, len(order))
	for b := 0; b < g.VertexBufferCount(); b++ {
		buffer, err := g.VertexBuffer(b)
		if err != nil {
			t.Fatal(err)
		}
		stride := buffer.ElementSize()
		for k, i := range order {
			if (i+1)*stride > buffer.Size() {
				t.Fatalf("index %d past the end of vertex buffer %d", i, b)
			}
			out[k] = append(out[k], buffer.Data()[i*stride:(i+1)*stride]...)
		}
	}
	return out
}

func compareDrawn(t *testing.T, name string, got, want [][]byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: %d vertices drawn, want %d", name, len(got), len(want))
	}
	for i := range got {
		if string(got[i]) != string(want[i]) {
			t.Fatalf("%s: vertex %d differs", name, i)
		}
	}
}

func TestGeometryFromTriMeshPathsAgree(t *testing.T) {
	opts := DefaultTriMeshOptions()
	opts.Normals = true
	opts.VertexColors = true
	indexedMesh := CreateSphere(1, 6, 4, opts)
	opts.Indices = false
	flatMesh := CreateSphere(1, 6, 4, opts)

	layouts := map[string]func() *GeometryCreateInfo{
		"interleaved":     Interleaved,
		"planar":          Planar,
		"position planar": PositionPlanar,
	}
	for name, layout := range layouts {
		t.Run(name, func(t *testing.T) {
			var reference [][]byte
			for _, target := range []metadata.IndexType{metadata.IndexTypeUint32, metadata.IndexTypeUint16, metadata.IndexTypeUndefined} {
				for _, mesh := range []*TriMesh{indexedMesh, flatMesh} {
					ci := layout().AddPosition().AddColor().AddNormal().WithIndexType(target)
					g, err := NewGeometryFromTriMesh(ci, mesh)
					if err != nil {
						t.Fatal(err)
					}
					got := drawnVertices(t, g)
					if reference == nil {
						reference = got
						continue
					}
					sourceIndexed := mesh.IndexType() != metadata.IndexTypeUndefined
					compareDrawn(t, fmt.Sprintf("target %s source indexed %v", target, sourceIndexed), got, reference)
				}
			}
			if len(reference) != 6*4*2*3 {
				t.Errorf("sphere draws %d vertices", len(reference))
			}
		})
	}
}

func TestGeometryFromTriMeshIndexRange(t *testing.T) {
	mesh := CreatePlane(PlaneXY, math.Vec2{X: 1, Y: 1}, 20, 20, DefaultTriMeshOptions())
	ci := Interleaved().AddPosition().WithIndexType(metadata.IndexTypeUint8)
	if _, err := NewGeometryFromTriMesh(ci, mesh); !errors.Is(err, core.ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}

func TestGeometryFromWireMesh(t *testing.T) {
	opts := DefaultWireMeshOptions()
	opts.VertexColors = true
	indexedMesh := CreateWireCube(math.Vec3{X: 2, Y: 2, Z: 2}, opts)
	opts.Indices = false
	flatMesh := CreateWireCube(math.Vec3{X: 2, Y: 2, Z: 2}, opts)
	if flatMesh.IndexType() != metadata.IndexTypeUndefined || flatMesh.CountPositions() != 24 {
		t.Fatalf("unindexed wire cube: %d positions", flatMesh.CountPositions())
	}

	layouts := map[string]func() *GeometryCreateInfo{
		"interleaved":     Interleaved,
		"planar":          Planar,
		"position planar": PositionPlanar,
	}
	for name, layout := range layouts {
		t.Run(name, func(t *testing.T) {
			var reference [][]byte
			for _, target := range []metadata.IndexType{metadata.IndexTypeUint16, metadata.IndexTypeUndefined} {
				for _, mesh := range []*WireMesh{indexedMesh, flatMesh} {
					ci := layout().AddPosition().AddColor().WithIndexType(target)
					g, err := NewGeometryFromWireMesh(ci, mesh)
					if err != nil {
						t.Fatal(err)
					}
					sourceIndexed := mesh.IndexType() != metadata.IndexTypeUndefined
					switch {
					case target != metadata.IndexTypeUndefined && sourceIndexed:
						if g.VertexCount() != 8 || g.IndexCount() != 24 {
							t.Errorf("indexed wire cube: %d vertices %d indices", g.VertexCount(), g.IndexCount())
						}
					case target == metadata.IndexTypeUndefined:
						if g.VertexCount() != 24 {
							t.Errorf("unindexed wire cube has %d vertices", g.VertexCount())
						}
					}
					got := drawnVertices(t, g)
					if reference == nil {
						reference = got
						continue
					}
					compareDrawn(t, fmt.Sprintf("target %s source indexed %v", target, sourceIndexed), got, reference)
				}
			}
			if len(reference) != 24 {
				t.Errorf("wire cube draws %d vertices", len(reference))
			}
		})
	}
}
