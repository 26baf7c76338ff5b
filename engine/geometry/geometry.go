package geometry

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

/**
 * @brief CPU side vertex and index buffers laid out for the GPU. A Geometry
 * owns its buffers. Not safe for concurrent use.
 */
type Geometry struct {
	createInfo GeometryCreateInfo
	processor  vertexDataProcessor

	indexBuffer   Buffer
	vertexBuffers []Buffer

	positionBufferIndex  metadata.Optional[int]
	normalBufferIndex    metadata.Optional[int]
	colorBufferIndex     metadata.Optional[int]
	texCoordBufferIndex  metadata.Optional[int]
	tangentBufferIndex   metadata.Optional[int]
	bitangentBufferIndex metadata.Optional[int]
}

// NewGeometry validates createInfo and creates empty buffers for it.
func NewGeometry(createInfo *GeometryCreateInfo) (*Geometry, error) {
	if createInfo.PrimitiveTopology != metadata.PrimitiveTopologyTriangleList {
		return nil, errors.Wrapf(core.ErrInvalidCreateArgument, "primitive topology %d, only triangle lists are supported", createInfo.PrimitiveTopology)
	}
	if createInfo.BindingCount() == 0 {
		return nil, errors.Wrap(core.ErrInvalidCreateArgument, "geometry has no vertex binding")
	}
	if createInfo.IndexType > metadata.IndexTypeUint32 {
		return nil, errors.Wrapf(core.ErrInvalidCreateArgument, "index type %d", createInfo.IndexType)
	}

	processor, err := newVertexDataProcessor(createInfo.VertexLayout)
	if err != nil {
		return nil, err
	}

	g := &Geometry{
		createInfo: *createInfo.Clone(),
		processor:  processor,
	}
	if err := processor.validate(g); err != nil {
		return nil, err
	}
	if err := processor.updateBuffers(g); err != nil {
		return nil, err
	}
	if !g.positionBufferIndex.Valid {
		return nil, errors.Wrap(core.ErrGeometryInvalidVertexSemantic, "geometry has no position attribute")
	}
	if createInfo.IndexType != metadata.IndexTypeUndefined {
		g.indexBuffer = NewBuffer(createInfo.IndexType.Size())
	}
	return g, nil
}

func (g *Geometry) semanticSlot(semantic metadata.VertexSemantic) *metadata.Optional[int] {
	switch semantic {
	case metadata.VertexSemanticPosition:
		return &g.positionBufferIndex
	case metadata.VertexSemanticNormal:
		return &g.normalBufferIndex
	case metadata.VertexSemanticColor:
		return &g.colorBufferIndex
	case metadata.VertexSemanticTexcoord0:
		return &g.texCoordBufferIndex
	case metadata.VertexSemanticTangent:
		return &g.tangentBufferIndex
	case metadata.VertexSemanticBitangent:
		return &g.bitangentBufferIndex
	}
	return nil
}

func (g *Geometry) CreateInfo() *GeometryCreateInfo {
	return &g.createInfo
}

func (g *Geometry) IndexType() metadata.IndexType {
	return g.createInfo.IndexType
}

func (g *Geometry) VertexLayout() metadata.VertexLayout {
	return g.createInfo.VertexLayout
}

func (g *Geometry) HasIndexBuffer() bool {
	return g.createInfo.IndexType != metadata.IndexTypeUndefined
}

// IndexBuffer returns nil when the geometry is not indexed.
func (g *Geometry) IndexBuffer() *Buffer {
	if !g.HasIndexBuffer() {
		return nil
	}
	return &g.indexBuffer
}

// SetIndexBuffer replaces the index data. The element size must match the index type.
func (g *Geometry) SetIndexBuffer(buffer Buffer) error {
	if !g.HasIndexBuffer() {
		return errors.Wrap(core.ErrIndexTypeMismatch, "geometry has no index buffer")
	}
	if buffer.ElementSize() != g.indexBuffer.ElementSize() {
		return errors.Wrapf(core.ErrIndexTypeMismatch, "element size %d, index buffer uses %d", buffer.ElementSize(), g.indexBuffer.ElementSize())
	}
	g.indexBuffer = buffer
	return nil
}

func (g *Geometry) VertexBufferCount() int {
	return len(g.vertexBuffers)
}

func (g *Geometry) VertexBuffer(index int) (*Buffer, error) {
	if index < 0 || index >= len(g.vertexBuffers) {
		return nil, errors.Wrapf(core.ErrOutOfRange, "vertex buffer %d of %d", index, len(g.vertexBuffers))
	}
	return &g.vertexBuffers[index], nil
}

// SetVertexBuffer replaces the data of vertex buffer index. The element size
// must match the binding stride.
func (g *Geometry) SetVertexBuffer(index int, buffer Buffer) error {
	current, err := g.VertexBuffer(index)
	if err != nil {
		return err
	}
	if buffer.ElementSize() != current.ElementSize() {
		return errors.Wrapf(core.ErrGeometryInvalidLayout, "vertex buffer %d: element size %d, binding uses %d", index, buffer.ElementSize(), current.ElementSize())
	}
	g.vertexBuffers[index] = buffer
	return nil
}

// VertexBinding returns the binding fed by vertex buffer index.
func (g *Geometry) VertexBinding(index int) *metadata.VertexBinding {
	return g.createInfo.Binding(index)
}

func (g *Geometry) VertexCount() uint32 {
	return g.processor.vertexCount(g)
}

func (g *Geometry) IndexCount() uint32 {
	if !g.HasIndexBuffer() {
		return 0
	}
	return g.indexBuffer.ElementCount()
}

// LargestBufferSize returns the byte size of the biggest buffer, index buffer included.
func (g *Geometry) LargestBufferSize() uint32 {
	size := g.indexBuffer.Size()
	for i := range g.vertexBuffers {
		size = max(size, g.vertexBuffers[i].Size())
	}
	return size
}

// AppendIndex stores index narrowed to the index type. Does nothing on a
// geometry without index buffer.
func (g *Geometry) AppendIndex(index uint32) {
	switch g.createInfo.IndexType {
	case metadata.IndexTypeUint8:
		g.indexBuffer.Append([]byte{uint8(index)})
	case metadata.IndexTypeUint16:
		g.indexBuffer.Append(binary.LittleEndian.AppendUint16(nil, uint16(index)))
	case metadata.IndexTypeUint32:
		g.indexBuffer.Append(binary.LittleEndian.AppendUint32(nil, index))
	}
}

func (g *Geometry) AppendIndicesTriangle(i0, i1, i2 uint32) {
	g.AppendIndex(i0)
	g.AppendIndex(i1)
	g.AppendIndex(i2)
}

func (g *Geometry) AppendIndicesEdge(i0, i1 uint32) {
	g.AppendIndex(i0)
	g.AppendIndex(i1)
}

// AppendIndicesU32 bulk appends 32 bit indices. The geometry must use IndexTypeUint32.
func (g *Geometry) AppendIndicesU32(indices []uint32) {
	if g.createInfo.IndexType != metadata.IndexTypeUint32 {
		panic(fmt.Sprintf("geometry: AppendIndicesU32 on a geometry with index type %s", g.createInfo.IndexType))
	}
	AppendValues(&g.indexBuffer, indices...)
}

// AppendVertexData routes v into the vertex buffers and returns the new vertex count.
func (g *Geometry) AppendVertexData(v VertexData) uint32 {
	return g.processor.appendVertex(g, v)
}

// AppendTriangle appends three vertices and, on an indexed geometry, the
// indices referencing them.
func (g *Geometry) AppendTriangle(v0, v1, v2 VertexData) uint32 {
	n0 := g.AppendVertexData(v0) - 1
	n1 := g.AppendVertexData(v1) - 1
	n2 := g.AppendVertexData(v2) - 1
	if g.HasIndexBuffer() {
		g.AppendIndicesTriangle(n0, n1, n2)
	}
	return n2 + 1
}

// AppendEdge appends two vertices and, on an indexed geometry, the indices
// referencing them.
func (g *Geometry) AppendEdge(v0, v1 VertexData) uint32 {
	n0 := g.AppendVertexData(v0) - 1
	n1 := g.AppendVertexData(v1) - 1
	if g.HasIndexBuffer() {
		g.AppendIndicesEdge(n0, n1)
	}
	return n1 + 1
}

func (g *Geometry) checkIndexRange(vertexCount uint32) error {
	var limit uint64
	switch g.createInfo.IndexType {
	case metadata.IndexTypeUint8:
		limit = 1 << 8
	case metadata.IndexTypeUint16:
		limit = 1 << 16
	default:
		return nil
	}
	if uint64(vertexCount) > limit {
		return errors.Wrapf(core.ErrOutOfRange, "%d vertices do not fit index type %s", vertexCount, g.createInfo.IndexType)
	}
	return nil
}

func (g *Geometry) triMeshVertex(mesh *TriMesh, index uint32) (VertexData, error) {
	v, err := mesh.GetVertexData(index)
	if err != nil {
		return nil, err
	}
	if g.createInfo.Compressed {
		return v.Compress(), nil
	}
	return v, nil
}

// NewGeometryFromTriMesh builds a geometry and fills it with the content of
// mesh. Vertices are de-indexed when the geometry has no index buffer and
// indexed on the fly when the mesh has none.
func NewGeometryFromTriMesh(createInfo *GeometryCreateInfo, mesh *TriMesh) (*Geometry, error) {
	g, err := NewGeometry(createInfo)
	if err != nil {
		return nil, err
	}

	targetIndexed := g.HasIndexBuffer()
	sourceIndexed := mesh.IndexType() != metadata.IndexTypeUndefined

	switch {
	case targetIndexed && sourceIndexed:
		if err := g.checkIndexRange(mesh.CountPositions()); err != nil {
			return nil, err
		}
		for i := uint32(0); i < mesh.CountPositions(); i++ {
			v, err := g.triMeshVertex(mesh, i)
			if err != nil {
				return nil, err
			}
			g.AppendVertexData(v)
		}
		for t := uint32(0); t < mesh.CountTriangles(); t++ {
			i0, i1, i2, err := mesh.GetTriangle(t)
			if err != nil {
				return nil, err
			}
			g.AppendIndicesTriangle(i0, i1, i2)
		}
	case targetIndexed:
		if err := g.checkIndexRange(mesh.CountTriangles() * 3); err != nil {
			return nil, err
		}
		for t := uint32(0); t < mesh.CountTriangles(); t++ {
			var vtx [3]VertexData
			for k := range vtx {
				if vtx[k], err = g.triMeshVertex(mesh, 3*t+uint32(k)); err != nil {
					return nil, err
				}
			}
			g.AppendTriangle(vtx[0], vtx[1], vtx[2])
		}
	case sourceIndexed:
		for t := uint32(0); t < mesh.CountTriangles(); t++ {
			i0, i1, i2, err := mesh.GetTriangle(t)
			if err != nil {
				return nil, err
			}
			for _, i := range [3]uint32{i0, i1, i2} {
				v, err := g.triMeshVertex(mesh, i)
				if err != nil {
					return nil, err
				}
				g.AppendVertexData(v)
			}
		}
	default:
		for i := uint32(0); i < mesh.CountPositions(); i++ {
			v, err := g.triMeshVertex(mesh, i)
			if err != nil {
				return nil, err
			}
			g.AppendVertexData(v)
		}
	}
	return g, nil
}

// NewGeometryFromWireMesh is the wireframe counterpart of NewGeometryFromTriMesh,
// walking edges instead of triangles.
func NewGeometryFromWireMesh(createInfo *GeometryCreateInfo, mesh *WireMesh) (*Geometry, error) {
	g, err := NewGeometry(createInfo)
	if err != nil {
		return nil, err
	}

	targetIndexed := g.HasIndexBuffer()
	sourceIndexed := mesh.IndexType() != metadata.IndexTypeUndefined

	switch {
	case targetIndexed && sourceIndexed:
		if err := g.checkIndexRange(mesh.CountPositions()); err != nil {
			return nil, err
		}
		for i := uint32(0); i < mesh.CountPositions(); i++ {
			v, err := mesh.GetVertexData(i)
			if err != nil {
				return nil, err
			}
			g.AppendVertexData(v)
		}
		for e := uint32(0); e < mesh.CountEdges(); e++ {
			i0, i1, err := mesh.GetEdge(e)
			if err != nil {
				return nil, err
			}
			g.AppendIndicesEdge(i0, i1)
		}
	case targetIndexed:
		if err := g.checkIndexRange(mesh.CountEdges() * 2); err != nil {
			return nil, err
		}
		for e := uint32(0); e < mesh.CountEdges(); e++ {
			v0, err := mesh.GetVertexData(2 * e)
			if err != nil {
				return nil, err
			}
			v1, err := mesh.GetVertexData(2*e + 1)
			if err != nil {
				return nil, err
			}
			g.AppendEdge(v0, v1)
		}
	case sourceIndexed:
		for e := uint32(0); e < mesh.CountEdges(); e++ {
			i0, i1, err := mesh.GetEdge(e)
			if err != nil {
				return nil, err
			}
			for _, i := range [2]uint32{i0, i1} {
				v, err := mesh.GetVertexData(i)
				if err != nil {
					return nil, err
				}
				g.AppendVertexData(v)
			}
		}
	default:
		for i := uint32(0); i < mesh.CountPositions(); i++ {
			v, err := mesh.GetVertexData(i)
			if err != nil {
				return nil, err
			}
			g.AppendVertexData(v)
		}
	}
	return g, nil
}
