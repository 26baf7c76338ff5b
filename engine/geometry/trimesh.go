package geometry

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

/**
 * @brief CPU side triangle mesh: parallel attribute arrays plus packed
 * indices. Attribute arrays are either empty or as long as positions.
 */
type TriMesh struct {
	indexType  metadata.IndexType
	indices    []byte
	positions  []math.Vec3
	colors     []math.Vec3
	normals    []math.Vec3
	texCoords  []math.Vec2
	tangents   []math.Vec4
	bitangents []math.Vec3
	bounds     math.Extents3D
}

// NewTriMesh creates an empty mesh. IndexTypeUndefined makes a non indexed
// mesh where every three positions form a triangle.
func NewTriMesh(indexType metadata.IndexType) *TriMesh {
	return &TriMesh{indexType: indexType}
}

func (m *TriMesh) IndexType() metadata.IndexType {
	return m.indexType
}

func (m *TriMesh) CountTriangles() uint32 {
	if m.indexType != metadata.IndexTypeUndefined {
		return m.CountIndices() / 3
	}
	return m.CountPositions() / 3
}

func (m *TriMesh) CountIndices() uint32 {
	if m.indexType == metadata.IndexTypeUndefined {
		return 0
	}
	return uint32(len(m.indices)) / m.indexType.Size()
}

func (m *TriMesh) CountPositions() uint32  { return uint32(len(m.positions)) }
func (m *TriMesh) CountColors() uint32     { return uint32(len(m.colors)) }
func (m *TriMesh) CountNormals() uint32    { return uint32(len(m.normals)) }
func (m *TriMesh) CountTexCoords() uint32  { return uint32(len(m.texCoords)) }
func (m *TriMesh) CountTangents() uint32   { return uint32(len(m.tangents)) }
func (m *TriMesh) CountBitangents() uint32 { return uint32(len(m.bitangents)) }

func (m *TriMesh) HasColors() bool     { return len(m.colors) > 0 }
func (m *TriMesh) HasNormals() bool    { return len(m.normals) > 0 }
func (m *TriMesh) HasTexCoords() bool  { return len(m.texCoords) > 0 }
func (m *TriMesh) HasTangents() bool   { return len(m.tangents) > 0 }
func (m *TriMesh) HasBitangents() bool { return len(m.bitangents) > 0 }

// DataSizeIndices returns the byte size of the packed index array.
func (m *TriMesh) DataSizeIndices() uint32 { return uint32(len(m.indices)) }

// DataSizePositions returns the byte size of the positions as float3.
func (m *TriMesh) DataSizePositions() uint32 { return m.CountPositions() * 12 }

func (m *TriMesh) Indices() []byte             { return m.indices }
func (m *TriMesh) Positions() []math.Vec3      { return m.positions }
func (m *TriMesh) Colors() []math.Vec3         { return m.colors }
func (m *TriMesh) Normals() []math.Vec3        { return m.normals }
func (m *TriMesh) TexCoords() []math.Vec2      { return m.texCoords }
func (m *TriMesh) Tangents() []math.Vec4       { return m.tangents }
func (m *TriMesh) Bitangents() []math.Vec3     { return m.bitangents }
func (m *TriMesh) BoundingBox() math.Extents3D { return m.bounds }

// reserve grows every enabled array to hold n more vertices.
func (m *TriMesh) reserve(vertices, triangles int, opts TriMeshOptions) {
	grow := func(n int) int { return n + vertices }
	m.positions = append(make([]math.Vec3, 0, grow(len(m.positions))), m.positions...)
	if opts.VertexColors {
		m.colors = append(make([]math.Vec3, 0, grow(len(m.colors))), m.colors...)
	}
	if opts.Normals {
		m.normals = append(make([]math.Vec3, 0, grow(len(m.normals))), m.normals...)
	}
	if opts.TexCoords {
		m.texCoords = append(make([]math.Vec2, 0, grow(len(m.texCoords))), m.texCoords...)
	}
	if opts.Tangents {
		m.tangents = append(make([]math.Vec4, 0, grow(len(m.tangents))), m.tangents...)
		m.bitangents = append(make([]math.Vec3, 0, grow(len(m.bitangents))), m.bitangents...)
	}
	if m.indexType != metadata.IndexTypeUndefined {
		size := len(m.indices) + 3*triangles*int(m.indexType.Size())
		m.indices = append(make([]byte, 0, size), m.indices...)
	}
}

// AppendIndex appends one index narrowed to the mesh index type.
func (m *TriMesh) AppendIndex(index uint32) {
	switch m.indexType {
	case metadata.IndexTypeUint8:
		m.indices = append(m.indices, uint8(index))
	case metadata.IndexTypeUint16:
		m.indices = binary.LittleEndian.AppendUint16(m.indices, uint16(index))
	case metadata.IndexTypeUint32:
		m.indices = binary.LittleEndian.AppendUint32(m.indices, index)
	default:
		panic("geometry: AppendIndex on a mesh without index type")
	}
}

// AppendTriangle appends the indices of one triangle and returns the triangle count.
func (m *TriMesh) AppendTriangle(v0, v1, v2 uint32) uint32 {
	m.AppendIndex(v0)
	m.AppendIndex(v1)
	m.AppendIndex(v2)
	return m.CountTriangles()
}

// AppendPosition appends a position, grows the bounding box and returns the position count.
func (m *TriMesh) AppendPosition(p math.Vec3) uint32 {
	if len(m.positions) == 0 {
		m.bounds = math.Extents3D{Min: p, Max: p}
	} else {
		m.bounds = m.bounds.Include(p)
	}
	m.positions = append(m.positions, p)
	return m.CountPositions()
}

func (m *TriMesh) AppendColor(c math.Vec3) uint32 {
	m.colors = append(m.colors, c)
	return m.CountColors()
}

func (m *TriMesh) AppendNormal(n math.Vec3) uint32 {
	m.normals = append(m.normals, n)
	return m.CountNormals()
}

func (m *TriMesh) AppendTexCoord(uv math.Vec2) uint32 {
	m.texCoords = append(m.texCoords, uv)
	return m.CountTexCoords()
}

func (m *TriMesh) AppendTangent(t math.Vec4) uint32 {
	m.tangents = append(m.tangents, t)
	return m.CountTangents()
}

func (m *TriMesh) AppendBitangent(b math.Vec3) uint32 {
	m.bitangents = append(m.bitangents, b)
	return m.CountBitangents()
}

// GetTriangle returns the vertex indices of triangle index.
func (m *TriMesh) GetTriangle(index uint32) (v0, v1, v2 uint32, err error) {
	if index >= m.CountTriangles() {
		return 0, 0, 0, errors.Wrapf(core.ErrOutOfRange, "triangle %d of %d", index, m.CountTriangles())
	}
	if m.indexType == metadata.IndexTypeUndefined {
		return 3 * index, 3*index + 1, 3*index + 2, nil
	}
	return m.index(3 * index), m.index(3*index + 1), m.index(3*index + 2), nil
}

func (m *TriMesh) index(i uint32) uint32 {
	switch m.indexType {
	case metadata.IndexTypeUint8:
		return uint32(m.indices[i])
	case metadata.IndexTypeUint16:
		return uint32(binary.LittleEndian.Uint16(m.indices[2*i:]))
	}
	return binary.LittleEndian.Uint32(m.indices[4*i:])
}

// GetVertexData gathers every attribute of vertex index. Attributes the mesh
// does not carry are left zero.
func (m *TriMesh) GetVertexData(index uint32) (TriMeshVertexData, error) {
	if index >= m.CountPositions() {
		return TriMeshVertexData{}, errors.Wrapf(core.ErrOutOfRange, "vertex %d of %d", index, m.CountPositions())
	}
	v := TriMeshVertexData{Position: m.positions[index]}
	if index < m.CountColors() {
		v.Color = m.colors[index]
	}
	if index < m.CountNormals() {
		v.Normal = m.normals[index]
	}
	if index < m.CountTexCoords() {
		v.TexCoord = m.texCoords[index]
	}
	if index < m.CountTangents() {
		v.Tangent = m.tangents[index]
	}
	if index < m.CountBitangents() {
		v.Bitangent = m.bitangents[index]
	}
	return v, nil
}

// appendVertex appends the attributes of v enabled in opts, transformed by opts.
func (m *TriMesh) appendVertex(v TriMeshVertexData, opts TriMeshOptions) {
	m.AppendPosition(opts.transformPosition(v.Position))
	if opts.VertexColors {
		if c, ok := opts.ObjectColor.Get(); ok {
			m.AppendColor(c)
		} else {
			m.AppendColor(v.Color)
		}
	}
	if opts.Normals {
		m.AppendNormal(v.Normal)
	}
	if opts.TexCoords {
		m.AppendTexCoord(opts.transformTexCoord(v.TexCoord))
	}
	if opts.Tangents {
		m.AppendTangent(v.Tangent)
		m.AppendBitangent(v.Bitangent)
	}
}
