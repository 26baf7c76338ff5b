package geometry

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// Generated vertices are laid out as position, color, normal, texcoord,
// tangent and bitangent floats, in that order.
const vertexFloatCount = 3 + 3 + 3 + 2 + 4 + 3

type PlaneType uint32

const (
	PlaneXY PlaneType = iota
	PlaneXZ
	PlaneYZ
)

// appendFloatVertex writes v in the generated vertex layout.
func appendFloatVertex(data []float32, v TriMeshVertexData) []float32 {
	return append(data,
		v.Position.X, v.Position.Y, v.Position.Z,
		v.Color.X, v.Color.Y, v.Color.Z,
		v.Normal.X, v.Normal.Y, v.Normal.Z,
		v.TexCoord.X, v.TexCoord.Y,
		v.Tangent.X, v.Tangent.Y, v.Tangent.Z, v.Tangent.W,
		v.Bitangent.X, v.Bitangent.Y, v.Bitangent.Z)
}

// floatVertex reads back one vertex written by appendFloatVertex.
func floatVertex(data []float32) TriMeshVertexData {
	_ = data[vertexFloatCount-1]
	return TriMeshVertexData{
		Position:  math.Vec3{X: data[0], Y: data[1], Z: data[2]},
		Color:     math.Vec3{X: data[3], Y: data[4], Z: data[5]},
		Normal:    math.Vec3{X: data[6], Y: data[7], Z: data[8]},
		TexCoord:  math.Vec2{X: data[9], Y: data[10]},
		Tangent:   math.Vec4{X: data[11], Y: data[12], Z: data[13], W: data[14]},
		Bitangent: math.Vec3{X: data[15], Y: data[16], Z: data[17]},
	}
}

// appendIndexAndVertexData replays generated data into a new mesh, keeping
// only the attributes enabled in opts.
func appendIndexAndVertexData(indices []uint32, vertexData []float32, opts TriMeshOptions) *TriMesh {
	opts = opts.sanitized()
	vertexCount := len(vertexData) / vertexFloatCount
	triangleCount := len(indices) / 3

	indexType := metadata.IndexTypeUndefined
	if opts.Indices {
		indexType = metadata.IndexTypeUint32
	}
	mesh := NewTriMesh(indexType)

	if opts.Indices {
		mesh.reserve(vertexCount, triangleCount, opts)
		for i := 0; i < vertexCount; i++ {
			mesh.appendVertex(floatVertex(vertexData[i*vertexFloatCount:]), opts)
		}
		for t := 0; t < triangleCount; t++ {
			v0, v1, v2 := indices[3*t], indices[3*t+1], indices[3*t+2]
			if opts.InvertWinding {
				v1, v2 = v2, v1
			}
			mesh.AppendTriangle(v0, v1, v2)
		}
		return mesh
	}

	mesh.reserve(3*triangleCount, 0, opts)
	for t := 0; t < triangleCount; t++ {
		tri := [3]uint32{indices[3*t], indices[3*t+1], indices[3*t+2]}
		if opts.InvertWinding {
			tri[1], tri[2] = tri[2], tri[1]
		}
		for _, i := range tri {
			mesh.appendVertex(floatVertex(vertexData[int(i)*vertexFloatCount:]), opts)
		}
	}
	return mesh
}

// gridFace emits a usegs x vsegs grid centered on center, spanning u along
// uAxis and v along vAxis. uAxis x vAxis must point along normal so that
// the triangles wind counter clockwise seen from the front.
func gridFace(vertexData []float32, indices []uint32, center, uAxis, vAxis, normal math.Vec3, u, v float32, usegs, vsegs uint32, color math.Vec3) ([]float32, []uint32) {
	base := uint32(len(vertexData) / vertexFloatCount)
	for j := uint32(0); j <= vsegs; j++ {
		fv := float32(j) / float32(vsegs)
		for i := uint32(0); i <= usegs; i++ {
			fu := float32(i) / float32(usegs)
			p := center.
				Add(uAxis.MulScalar((fu - 0.5) * u)).
				Add(vAxis.MulScalar((fv - 0.5) * v))
			vertexData = appendFloatVertex(vertexData, TriMeshVertexData{
				Position:  p,
				Color:     color,
				Normal:    normal,
				TexCoord:  math.Vec2{X: fu, Y: 1 - fv},
				Tangent:   uAxis.ToVec4(1),
				Bitangent: vAxis.Negate(),
			})
		}
	}
	stride := usegs + 1
	for j := uint32(0); j < vsegs; j++ {
		for i := uint32(0); i < usegs; i++ {
			v0 := base + j*stride + i
			v1 := v0 + 1
			v2 := v0 + stride
			v3 := v2 + 1
			indices = append(indices, v0, v1, v2, v1, v3, v2)
		}
	}
	return vertexData, indices
}

func planeAxes(plane PlaneType) (uAxis, vAxis, normal math.Vec3) {
	switch plane {
	case PlaneXZ:
		return math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}
	case PlaneYZ:
		return math.Vec3{Z: -1}, math.Vec3{Y: 1}, math.Vec3{X: 1}
	}
	return math.Vec3{X: 1}, math.Vec3{Y: 1}, math.Vec3{Z: 1}
}

// CreatePlane generates a plane of size centered on the origin, facing the
// positive axis missing from plane.
func CreatePlane(plane PlaneType, size math.Vec2, usegs, vsegs uint32, opts TriMeshOptions) *TriMesh {
	if usegs == 0 {
		core.LogWarn("CreatePlane: usegs must be at least 1. Defaulting to one.")
		usegs = 1
	}
	if vsegs == 0 {
		core.LogWarn("CreatePlane: vsegs must be at least 1. Defaulting to one.")
		vsegs = 1
	}
	uAxis, vAxis, normal := planeAxes(plane)
	vertexData, indices := gridFace(nil, nil, math.Vec3{}, uAxis, vAxis, normal, size.X, size.Y, usegs, vsegs, math.Vec3{X: 0.7, Y: 0.7, Z: 0.7})
	return appendIndexAndVertexData(indices, vertexData, opts)
}

type cubeFace struct {
	uAxis, vAxis, normal math.Vec3
	color                math.Vec3
}

var cubeFaces = [6]cubeFace{
	{math.Vec3{Z: -1}, math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{X: 1}},
	{math.Vec3{Z: 1}, math.Vec3{Y: 1}, math.Vec3{X: -1}, math.Vec3{X: 0.5}},
	{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}, math.Vec3{Y: 1}},
	{math.Vec3{X: 1}, math.Vec3{Z: 1}, math.Vec3{Y: -1}, math.Vec3{Y: 0.5}},
	{math.Vec3{X: 1}, math.Vec3{Y: 1}, math.Vec3{Z: 1}, math.Vec3{Z: 1}},
	{math.Vec3{X: -1}, math.Vec3{Y: 1}, math.Vec3{Z: -1}, math.Vec3{Z: 0.5}},
}

// CreateCube generates an axis aligned box of size centered on the origin,
// 4 vertices and 2 triangles per face.
func CreateCube(size math.Vec3, opts TriMeshOptions) *TriMesh {
	var vertexData []float32
	var indices []uint32
	for _, f := range cubeFaces {
		center := f.normal.Mul(size).MulScalar(0.5)
		vertexData, indices = gridFace(vertexData, indices, center, f.uAxis, f.vAxis, f.normal,
			math.Abs(f.uAxis.Dot(size)), math.Abs(f.vAxis.Dot(size)), 1, 1, f.color)
	}
	return appendIndexAndVertexData(indices, vertexData, opts)
}

// CreateSphere generates a UV sphere with usegs segments around the Y axis
// and vsegs from pole to pole.
func CreateSphere(radius float32, usegs, vsegs uint32, opts TriMeshOptions) *TriMesh {
	if usegs < 3 {
		core.LogWarn("CreateSphere: usegs must be at least 3. Defaulting to three.")
		usegs = 3
	}
	if vsegs < 2 {
		core.LogWarn("CreateSphere: vsegs must be at least 2. Defaulting to two.")
		vsegs = 2
	}

	var vertexData []float32
	for j := uint32(0); j <= vsegs; j++ {
		fv := float32(j) / float32(vsegs)
		phi := fv * math.K_PI
		for i := uint32(0); i <= usegs; i++ {
			fu := float32(i) / float32(usegs)
			theta := fu * math.K_PI_2
			normal := math.Vec3{
				X: math.Cos(theta) * math.Sin(phi),
				Y: math.Cos(phi),
				Z: math.Sin(theta) * math.Sin(phi),
			}
			tangent := math.Vec3{X: -math.Sin(theta), Z: math.Cos(theta)}
			vertexData = appendFloatVertex(vertexData, TriMeshVertexData{
				Position:  normal.MulScalar(radius),
				Color:     math.Vec3{X: fu, Y: fv, Z: 0},
				Normal:    normal,
				TexCoord:  math.Vec2{X: fu, Y: fv},
				Tangent:   tangent.ToVec4(1),
				Bitangent: normal.Cross(tangent),
			})
		}
	}

	stride := usegs + 1
	indices := make([]uint32, 0, 6*usegs*vsegs)
	for j := uint32(0); j < vsegs; j++ {
		for i := uint32(0); i < usegs; i++ {
			v0 := j*stride + i
			v1 := v0 + 1
			v2 := v0 + stride
			v3 := v2 + 1
			indices = append(indices, v0, v1, v2, v1, v3, v2)
		}
	}
	return appendIndexAndVertexData(indices, vertexData, opts)
}
