package geometry

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

/**
 * @brief CPU side line list mesh: positions, optional colors and packed
 * edge indices.
 */
type WireMesh struct {
	indexType metadata.IndexType
	indices   []byte
	positions []math.Vec3
	colors    []math.Vec3
	bounds    math.Extents3D
}

func NewWireMesh(indexType metadata.IndexType) *WireMesh {
	return &WireMesh{indexType: indexType}
}

func (m *WireMesh) IndexType() metadata.IndexType {
	return m.indexType
}

func (m *WireMesh) CountEdges() uint32 {
	if m.indexType != metadata.IndexTypeUndefined {
		return m.CountIndices() / 2
	}
	return m.CountPositions() / 2
}

func (m *WireMesh) CountIndices() uint32 {
	if m.indexType == metadata.IndexTypeUndefined {
		return 0
	}
	return uint32(len(m.indices)) / m.indexType.Size()
}

func (m *WireMesh) CountPositions() uint32      { return uint32(len(m.positions)) }
func (m *WireMesh) CountColors() uint32         { return uint32(len(m.colors)) }
func (m *WireMesh) HasColors() bool             { return len(m.colors) > 0 }
func (m *WireMesh) Indices() []byte             { return m.indices }
func (m *WireMesh) Positions() []math.Vec3      { return m.positions }
func (m *WireMesh) Colors() []math.Vec3         { return m.colors }
func (m *WireMesh) BoundingBox() math.Extents3D { return m.bounds }

func (m *WireMesh) AppendIndex(index uint32) {
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

// AppendEdge appends the indices of one edge and returns the edge count.
func (m *WireMesh) AppendEdge(v0, v1 uint32) uint32 {
	m.AppendIndex(v0)
	m.AppendIndex(v1)
	return m.CountEdges()
}

// AppendPosition appends a position, grows the bounding box and returns the
// position count. The box max takes the component-wise maximum, like TriMesh.
func (m *WireMesh) AppendPosition(p math.Vec3) uint32 {
	if len(m.positions) == 0 {
		m.bounds = math.Extents3D{Min: p, Max: p}
	} else {
		m.bounds = m.bounds.Include(p)
	}
	m.positions = append(m.positions, p)
	return m.CountPositions()
}

func (m *WireMesh) AppendColor(c math.Vec3) uint32 {
	m.colors = append(m.colors, c)
	return m.CountColors()
}

func (m *WireMesh) GetEdge(index uint32) (v0, v1 uint32, err error) {
	if index >= m.CountEdges() {
		return 0, 0, errors.Wrapf(core.ErrOutOfRange, "edge %d of %d", index, m.CountEdges())
	}
	if m.indexType == metadata.IndexTypeUndefined {
		return 2 * index, 2*index + 1, nil
	}
	return m.index(2 * index), m.index(2*index + 1), nil
}

func (m *WireMesh) index(i uint32) uint32 {
	switch m.indexType {
	case metadata.IndexTypeUint8:
		return uint32(m.indices[i])
	case metadata.IndexTypeUint16:
		return uint32(binary.LittleEndian.Uint16(m.indices[2*i:]))
	}
	return binary.LittleEndian.Uint32(m.indices[4*i:])
}

func (m *WireMesh) GetVertexData(index uint32) (WireMeshVertexData, error) {
	if index >= m.CountPositions() {
		return WireMeshVertexData{}, errors.Wrapf(core.ErrOutOfRange, "vertex %d of %d", index, m.CountPositions())
	}
	v := WireMeshVertexData{Position: m.positions[index]}
	if index < m.CountColors() {
		v.Color = m.colors[index]
	}
	return v, nil
}

// appendWireData replays generated positions, colors and edge indices into
// a new mesh.
func appendWireData(indices []uint32, positions, colors []math.Vec3, opts WireMeshOptions) *WireMesh {
	opts = opts.sanitized()

	indexType := metadata.IndexTypeUndefined
	if opts.Indices {
		indexType = metadata.IndexTypeUint32
	}
	mesh := NewWireMesh(indexType)

	appendVertex := func(i uint32) {
		mesh.AppendPosition(positions[i].Mul(opts.Scale).Add(opts.Translate))
		if opts.VertexColors {
			if c, ok := opts.ObjectColor.Get(); ok {
				mesh.AppendColor(c)
			} else {
				mesh.AppendColor(colors[i])
			}
		}
	}

	if opts.Indices {
		for i := range positions {
			appendVertex(uint32(i))
		}
		for e := 0; e+1 < len(indices); e += 2 {
			mesh.AppendEdge(indices[e], indices[e+1])
		}
		return mesh
	}
	for _, i := range indices {
		appendVertex(i)
	}
	return mesh
}

// CreateWirePlane generates the grid lines of a plane of size centered on the origin.
func CreateWirePlane(plane PlaneType, size math.Vec2, usegs, vsegs uint32, opts WireMeshOptions) *WireMesh {
	if usegs == 0 {
		core.LogWarn("CreateWirePlane: usegs must be at least 1. Defaulting to one.")
		usegs = 1
	}
	if vsegs == 0 {
		core.LogWarn("CreateWirePlane: vsegs must be at least 1. Defaulting to one.")
		vsegs = 1
	}
	uAxis, vAxis, _ := planeAxes(plane)
	color := math.Vec3{X: 0.7, Y: 0.7, Z: 0.7}

	var positions, colors []math.Vec3
	var indices []uint32
	line := func(a, b math.Vec3) {
		n := uint32(len(positions))
		positions = append(positions, a, b)
		colors = append(colors, color, color)
		indices = append(indices, n, n+1)
	}
	halfU := uAxis.MulScalar(0.5 * size.X)
	halfV := vAxis.MulScalar(0.5 * size.Y)
	for i := uint32(0); i <= usegs; i++ {
		u := uAxis.MulScalar((float32(i)/float32(usegs) - 0.5) * size.X)
		line(u.Sub(halfV), u.Add(halfV))
	}
	for j := uint32(0); j <= vsegs; j++ {
		v := vAxis.MulScalar((float32(j)/float32(vsegs) - 0.5) * size.Y)
		line(v.Sub(halfU), v.Add(halfU))
	}
	return appendWireData(indices, positions, colors, opts)
}

var cubeEdges = [12][2]uint32{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// CreateWireCube generates the 12 edges of an axis aligned box of size.
func CreateWireCube(size math.Vec3, opts WireMeshOptions) *WireMesh {
	positions := make([]math.Vec3, 0, 8)
	colors := make([]math.Vec3, 0, 8)
	for corner := 0; corner < 8; corner++ {
		c := math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}
		if corner&1 != 0 {
			c.X = 0.5
		}
		if corner&2 != 0 {
			c.Y = 0.5
		}
		if corner&4 != 0 {
			c.Z = 0.5
		}
		positions = append(positions, c.Mul(size))
		colors = append(colors, c.Add(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}))
	}
	indices := make([]uint32, 0, 24)
	for _, e := range cubeEdges {
		indices = append(indices, e[0], e[1])
	}
	return appendWireData(indices, positions, colors, opts)
}

// CreateWireSphere generates usegs meridians and vsegs-1 parallels of a sphere.
func CreateWireSphere(radius float32, usegs, vsegs uint32, opts WireMeshOptions) *WireMesh {
	if usegs < 3 {
		core.LogWarn("CreateWireSphere: usegs must be at least 3. Defaulting to three.")
		usegs = 3
	}
	if vsegs < 2 {
		core.LogWarn("CreateWireSphere: vsegs must be at least 2. Defaulting to two.")
		vsegs = 2
	}

	stride := usegs + 1
	var positions, colors []math.Vec3
	for j := uint32(0); j <= vsegs; j++ {
		fv := float32(j) / float32(vsegs)
		phi := fv * math.K_PI
		for i := uint32(0); i <= usegs; i++ {
			fu := float32(i) / float32(usegs)
			theta := fu * math.K_PI_2
			p := math.Vec3{
				X: math.Cos(theta) * math.Sin(phi),
				Y: math.Cos(phi),
				Z: math.Sin(theta) * math.Sin(phi),
			}
			positions = append(positions, p.MulScalar(radius))
			colors = append(colors, math.Vec3{X: fu, Y: fv})
		}
	}

	var indices []uint32
	// meridians
	for i := uint32(0); i < usegs; i++ {
		for j := uint32(0); j < vsegs; j++ {
			indices = append(indices, j*stride+i, (j+1)*stride+i)
		}
	}
	// parallels, poles excluded
	for j := uint32(1); j < vsegs; j++ {
		for i := uint32(0); i < usegs; i++ {
			indices = append(indices, j*stride+i, j*stride+i+1)
		}
	}
	return appendWireData(indices, positions, colors, opts)
}
