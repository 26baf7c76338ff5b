package metadata

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
)

type IndexType uint32

const (
	IndexTypeUndefined IndexType = iota
	IndexTypeUint8
	IndexTypeUint16
	IndexTypeUint32
)

// Size returns the byte width of one index, 0 for IndexTypeUndefined.
func (t IndexType) Size() uint32 {
	switch t {
	case IndexTypeUint8:
		return 1
	case IndexTypeUint16:
		return 2
	case IndexTypeUint32:
		return 4
	}
	return 0
}

func (t IndexType) String() string {
	switch t {
	case IndexTypeUint8:
		return "uint8"
	case IndexTypeUint16:
		return "uint16"
	case IndexTypeUint32:
		return "uint32"
	}
	return "none"
}

func ParseIndexType(s string) (IndexType, error) {
	switch s {
	case "", "none":
		return IndexTypeUndefined, nil
	case "uint8":
		return IndexTypeUint8, nil
	case "uint16":
		return IndexTypeUint16, nil
	case "uint32":
		return IndexTypeUint32, nil
	}
	return IndexTypeUndefined, errors.Wrapf(core.ErrInvalidCreateArgument, "index type %q", s)
}

type PrimitiveTopology uint32

const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyTriangleStrip
	PrimitiveTopologyTriangleFan
	PrimitiveTopologyPointList
	PrimitiveTopologyLineList
	PrimitiveTopologyLineStrip
)

/**
 * @brief How the attributes of a geometry are spread over vertex buffers.
 */
type VertexLayout uint32

const (
	/** @brief A single binding holding every attribute. */
	VertexLayoutInterleaved VertexLayout = iota
	/** @brief One binding per attribute. */
	VertexLayoutPlanar
	/** @brief Binding 0 holds positions, binding 1 every other attribute interleaved. */
	VertexLayoutPositionPlanar
)

func (l VertexLayout) String() string {
	switch l {
	case VertexLayoutInterleaved:
		return "interleaved"
	case VertexLayoutPlanar:
		return "planar"
	case VertexLayoutPositionPlanar:
		return "position_planar"
	}
	return fmt.Sprintf("VertexLayout(%d)", uint32(l))
}

func ParseVertexLayout(s string) (VertexLayout, error) {
	switch s {
	case "interleaved":
		return VertexLayoutInterleaved, nil
	case "planar":
		return VertexLayoutPlanar, nil
	case "position_planar":
		return VertexLayoutPositionPlanar, nil
	}
	return VertexLayoutInterleaved, errors.Wrapf(core.ErrInvalidCreateArgument, "vertex layout %q", s)
}

// CommandType is the kind of queue a command buffer is recorded for.
type CommandType uint32

const (
	CommandTypeUndefined CommandType = iota
	CommandTypeGraphics
	CommandTypeCompute
	CommandTypeTransfer
	CommandTypePresent
)

/**
 * @brief Describes how a resource is used at a given point of a command
 * buffer. Transitions are expressed as a pair of states.
 */
type ResourceState uint32

const (
	ResourceStateUndefined ResourceState = iota
	ResourceStateGeneral
	ResourceStateConstantBuffer
	ResourceStateVertexBuffer
	ResourceStateIndexBuffer
	ResourceStateRenderTarget
	ResourceStateUnorderedAccess
	ResourceStateDepthStencilRead
	ResourceStateDepthStencilWrite
	ResourceStateDepthWriteStencilRead
	ResourceStateDepthReadStencilWrite
	ResourceStateNonPixelShaderResource
	ResourceStatePixelShaderResource
	ResourceStateShaderResource
	ResourceStateStreamOut
	ResourceStateIndirectArgument
	ResourceStateCopySrc
	ResourceStateCopyDst
	ResourceStateResolveSrc
	ResourceStateResolveDst
	ResourceStatePresent
	ResourceStatePredication
	ResourceStateRaytracingAccelerationStructure
	ResourceStateFragmentDensityMapAttachment
	ResourceStateFragmentShadingRateAttachment
)

var resourceStateNames = [...]string{
	"Undefined",
	"General",
	"ConstantBuffer",
	"VertexBuffer",
	"IndexBuffer",
	"RenderTarget",
	"UnorderedAccess",
	"DepthStencilRead",
	"DepthStencilWrite",
	"DepthWriteStencilRead",
	"DepthReadStencilWrite",
	"NonPixelShaderResource",
	"PixelShaderResource",
	"ShaderResource",
	"StreamOut",
	"IndirectArgument",
	"CopySrc",
	"CopyDst",
	"ResolveSrc",
	"ResolveDst",
	"Present",
	"Predication",
	"RaytracingAccelerationStructure",
	"FragmentDensityMapAttachment",
	"FragmentShadingRateAttachment",
}

func (s ResourceState) String() string {
	if int(s) < len(resourceStateNames) {
		return resourceStateNames[s]
	}
	return fmt.Sprintf("ResourceState(%d)", uint32(s))
}
