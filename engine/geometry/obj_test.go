package geometry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
)

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func TestLoadTriMeshOBJSingleTriangle(t *testing.T) {
	mesh, err := LoadTriMeshOBJ(strings.NewReader(triangleOBJ), DefaultTriMeshOptions())
	if err != nil {
		t.Fatal(err)
	}
	if mesh.CountTriangles() != 1 || mesh.CountIndices() != 3 {
		t.Errorf("triangles %d indices %d", mesh.CountTriangles(), mesh.CountIndices())
	}
	if mesh.HasNormals() {
		t.Error("normals were not requested")
	}
	if mesh.Positions()[1] != (math.Vec3{X: 1}) {
		t.Errorf("position 1 = %+v", mesh.Positions()[1])
	}
}

func TestLoadTriMeshOBJGeneratesFaceNormals(t *testing.T) {
	opts := DefaultTriMeshOptions()
	opts.Normals = true
	mesh, err := LoadTriMeshOBJ(strings.NewReader(triangleOBJ), opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range mesh.Normals() {
		if !n.Compare(math.Vec3{Z: 1}, 1e-6) {
			t.Fatalf("generated normal %+v", n)
		}
	}
}

func TestLoadTriMeshOBJFansQuads(t *testing.T) {
	src := `o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`
	opts := DefaultTriMeshOptions().AllAttributes()
	opts.Indices = false
	mesh, err := LoadTriMeshOBJ(strings.NewReader(src), opts)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.CountTriangles() != 2 || mesh.CountPositions() != 6 {
		t.Fatalf("triangles %d positions %d", mesh.CountTriangles(), mesh.CountPositions())
	}
	// second triangle is corners 0, 2, 3
	if mesh.Positions()[3] != (math.Vec3{}) || mesh.Positions()[5] != (math.Vec3{Y: 1}) {
		t.Errorf("fan positions = %+v", mesh.Positions()[3:])
	}
	if mesh.TexCoords()[4] != (math.Vec2{X: 1, Y: 1}) {
		t.Errorf("texcoord 4 = %+v", mesh.TexCoords()[4])
	}
	if mesh.Normals()[0] != (math.Vec3{Z: 1}) {
		t.Errorf("normal 0 = %+v", mesh.Normals()[0])
	}
	if !mesh.HasTangents() || !mesh.HasBitangents() {
		t.Error("tangents were requested")
	}
}

func TestLoadTriMeshOBJInvertWinding(t *testing.T) {
	opts := DefaultTriMeshOptions()
	opts.InvertWinding = true
	mesh, err := LoadTriMeshOBJ(strings.NewReader(triangleOBJ), opts)
	if err != nil {
		t.Fatal(err)
	}
	v0, v1, v2, _ := mesh.GetTriangle(0)
	if v0 != 0 || v1 != 2 || v2 != 1 {
		t.Errorf("triangle = %d %d %d", v0, v1, v2)
	}
}

func TestCreateTriMeshFromOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	mesh, err := CreateTriMeshFromOBJ(path, DefaultTriMeshOptions().WithObjectColor(math.Vec3{Y: 1}))
	if err != nil {
		t.Fatal(err)
	}
	if mesh.CountColors() != 3 || mesh.Colors()[2] != (math.Vec3{Y: 1}) {
		t.Errorf("colors = %+v", mesh.Colors())
	}

	_, err = CreateTriMeshFromOBJ(filepath.Join(t.TempDir(), "missing.obj"), DefaultTriMeshOptions())
	if !errors.Is(err, core.ErrLoadFailed) {
		t.Errorf("missing file err = %v, want ErrLoadFailed", err)
	}
}
