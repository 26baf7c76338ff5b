package geometry

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/g3n/engine/loader/obj"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// CreateTriMeshFromOBJ loads the Wavefront OBJ file at path. Materials are ignored.
func CreateTriMeshFromOBJ(path string, opts TriMeshOptions) (*TriMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "opening %s", path), core.ErrLoadFailed)
	}
	defer f.Close()

	mesh, err := LoadTriMeshOBJ(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	core.LogDebug("loaded %s: %d triangles, %d vertices", path, mesh.CountTriangles(), mesh.CountPositions())
	return mesh, nil
}

// LoadTriMeshOBJ decodes an OBJ stream. Polygons are fanned into triangles.
// Every triangle gets its own three vertices.
func LoadTriMeshOBJ(r io.Reader, opts TriMeshOptions) (*TriMesh, error) {
	opts = opts.sanitized()

	// faces before any "o" or "g" statement land in a default object
	src := io.MultiReader(strings.NewReader("o default\n"), r)
	decoder, err := obj.DecodeReader(src, strings.NewReader(""))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding obj"), core.ErrLoadFailed)
	}

	triangleCount := 0
	for _, o := range decoder.Objects {
		for _, face := range o.Faces {
			if len(face.Vertices) >= 3 {
				triangleCount += len(face.Vertices) - 2
			}
		}
	}

	indexType := metadata.IndexTypeUndefined
	if opts.Indices {
		indexType = metadata.IndexTypeUint32
	}
	mesh := NewTriMesh(indexType)
	mesh.reserve(3*triangleCount, triangleCount, opts)

	for _, o := range decoder.Objects {
		for _, face := range o.Faces {
			for k := 2; k < len(face.Vertices); k++ {
				corners := [3]int{0, k - 1, k}
				if err := appendOBJTriangle(mesh, decoder, face, corners, opts); err != nil {
					return nil, err
				}
			}
		}
	}
	return mesh, nil
}

func appendOBJTriangle(mesh *TriMesh, decoder *obj.Decoder, face obj.Face, corners [3]int, opts TriMeshOptions) error {
	var vtx [3]TriMeshVertexData
	hasNormals, hasTexCoords := true, true

	for k, c := range corners {
		p, ok := objVec3(decoder.Vertices, face.Vertices[c])
		if !ok {
			return errors.Wrapf(core.ErrLoadFailed, "obj: position index %d out of range", face.Vertices[c])
		}
		vtx[k].Position = p

		if n, ok := objVec3(decoder.Normals, objIndex(face.Normals, c)); ok {
			vtx[k].Normal = n
		} else {
			hasNormals = false
		}
		if uv, ok := objVec2(decoder.Uvs, objIndex(face.Uvs, c)); ok {
			vtx[k].TexCoord = uv
		} else {
			hasTexCoords = false
		}
	}

	if !hasNormals {
		n := math.TriangleNormal(vtx[0].Position, vtx[1].Position, vtx[2].Position)
		for k := range vtx {
			vtx[k].Normal = n
		}
	}
	if !hasTexCoords {
		for k := range vtx {
			vtx[k].TexCoord = math.Vec2{}
		}
	}
	if opts.Tangents && hasTexCoords {
		tangent, bitangent := math.TriangleTangents(
			vtx[0].Position, vtx[1].Position, vtx[2].Position,
			vtx[0].TexCoord, vtx[1].TexCoord, vtx[2].TexCoord)
		for k := range vtx {
			vtx[k].Tangent = tangent.Negate().ToVec4(1)
			vtx[k].Bitangent = bitangent.Negate()
		}
	}
	for k := range vtx {
		vtx[k].Color = math.Vec3{X: 1, Y: 1, Z: 1}
	}

	first := mesh.CountPositions()
	if opts.Indices {
		for k := range vtx {
			mesh.appendVertex(vtx[k], opts)
		}
		if opts.InvertWinding {
			mesh.AppendTriangle(first, first+2, first+1)
		} else {
			mesh.AppendTriangle(first, first+1, first+2)
		}
		return nil
	}
	if opts.InvertWinding {
		vtx[1], vtx[2] = vtx[2], vtx[1]
	}
	for k := range vtx {
		mesh.appendVertex(vtx[k], opts)
	}
	return nil
}

// objIndex returns the attribute index of corner c, -1 when the face has none.
func objIndex(indices []int, c int) int {
	if c >= len(indices) {
		return -1
	}
	return indices[c]
}

func objVec3(data []float32, index int) (math.Vec3, bool) {
	if index < 0 || index*3+2 >= len(data) {
		return math.Vec3{}, false
	}
	return math.Vec3{X: data[index*3], Y: data[index*3+1], Z: data[index*3+2]}, true
}

func objVec2(data []float32, index int) (math.Vec2, bool) {
	if index < 0 || index*2+1 >= len(data) {
		return math.Vec2{}, false
	}
	return math.Vec2{X: data[index*2], Y: data[index*2+1]}, true
}
