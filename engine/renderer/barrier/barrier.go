package barrier

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// DeviceFeatures are the optional shader stages reported by the physical device.
type DeviceFeatures struct {
	GeometryShader     bool
	TessellationShader bool
}

/**
 * @brief One half of a pipeline barrier: the stages and accesses a resource
 * state waits on or makes available, plus its image layout.
 */
type Barrier struct {
	StageMask  PipelineStageFlags
	AccessMask AccessFlags
	Layout     ImageLayout
}

// HasLayout reports whether the state carries an image layout. Buffer states
// do not and must not trigger a layout transition.
func (b Barrier) HasLayout() bool {
	return b.Layout != ImageLayoutInvalid
}

func (b Barrier) String() string {
	return fmt.Sprintf("stage=0x%x access=0x%x layout=%d", uint32(b.StageMask), uint32(b.AccessMask), int32(b.Layout))
}

// shaderStages returns every shader stage and the non fragment shader stages
// usable on a queue of type commandType.
func shaderStages(commandType metadata.CommandType, features DeviceFeatures) (all, nonPixel PipelineStageFlags) {
	switch commandType {
	case metadata.CommandTypeCompute:
		return StageComputeShader, StageComputeShader
	case metadata.CommandTypeGraphics:
		nonPixel = StageVertexShader | StageComputeShader
		if features.GeometryShader {
			nonPixel |= StageGeometryShader
		}
		if features.TessellationShader {
			nonPixel |= StageTessellationControlShader | StageTessellationEvaluationShader
		}
		return nonPixel | StageFragmentShader, nonPixel
	}
	// transfer and present queues have no shader stage
	return StageTransfer, StageTransfer
}

// Map returns the barrier half for state used on a queue of type commandType.
// isSource selects the "before" half of a transition, which only matters for
// ResourceStatePresent. Acceleration structures are not supported and fail
// with core.ErrUnsupportedResourceState.
func Map(state metadata.ResourceState, commandType metadata.CommandType, features DeviceFeatures, isSource bool) (Barrier, error) {
	allShaders, nonPixelShaders := shaderStages(commandType, features)

	var b Barrier
	switch state {
	case metadata.ResourceStateUndefined:
		b = Barrier{StageTopOfPipe, AccessNone, ImageLayoutUndefined}
	case metadata.ResourceStateGeneral:
		b = Barrier{StageAllCommands, AccessMemoryRead | AccessMemoryWrite, ImageLayoutGeneral}
	case metadata.ResourceStateConstantBuffer, metadata.ResourceStateVertexBuffer:
		b = Barrier{StageVertexInput | allShaders, AccessUniformRead | AccessVertexAttributeRead, ImageLayoutInvalid}
	case metadata.ResourceStateIndexBuffer:
		b = Barrier{StageVertexInput, AccessIndexRead, ImageLayoutInvalid}
	case metadata.ResourceStateRenderTarget:
		b = Barrier{StageColorAttachmentOutput, AccessColorAttachmentRead | AccessColorAttachmentWrite, ImageLayoutColorAttachmentOptimal}
	case metadata.ResourceStateUnorderedAccess:
		b = Barrier{allShaders, AccessShaderRead | AccessShaderWrite, ImageLayoutGeneral}
	case metadata.ResourceStateDepthStencilRead:
		b = Barrier{StageEarlyFragmentTests | StageLateFragmentTests, AccessDepthStencilAttachmentRead, ImageLayoutDepthStencilReadOnlyOptimal}
	case metadata.ResourceStateDepthStencilWrite:
		b = Barrier{StageEarlyFragmentTests | StageLateFragmentTests, AccessDepthStencilAttachmentRead | AccessDepthStencilAttachmentWrite, ImageLayoutDepthStencilAttachmentOptimal}
	case metadata.ResourceStateDepthWriteStencilRead:
		b = Barrier{StageEarlyFragmentTests | StageLateFragmentTests, AccessDepthStencilAttachmentRead | AccessDepthStencilAttachmentWrite, ImageLayoutDepthAttachmentStencilReadOnlyOptimal}
	case metadata.ResourceStateDepthReadStencilWrite:
		b = Barrier{StageEarlyFragmentTests | StageLateFragmentTests, AccessDepthStencilAttachmentRead | AccessDepthStencilAttachmentWrite, ImageLayoutDepthReadOnlyStencilAttachmentOptimal}
	case metadata.ResourceStateNonPixelShaderResource:
		b = Barrier{nonPixelShaders, AccessShaderRead, ImageLayoutShaderReadOnlyOptimal}
	case metadata.ResourceStatePixelShaderResource:
		b = Barrier{StageFragmentShader, AccessShaderRead, ImageLayoutShaderReadOnlyOptimal}
	case metadata.ResourceStateShaderResource:
		b = Barrier{allShaders, AccessShaderRead, ImageLayoutShaderReadOnlyOptimal}
	case metadata.ResourceStateStreamOut:
		b = Barrier{StageTransformFeedback, AccessTransformFeedbackWrite, ImageLayoutInvalid}
	case metadata.ResourceStateIndirectArgument:
		b = Barrier{StageDrawIndirect, AccessIndirectCommandRead, ImageLayoutInvalid}
	case metadata.ResourceStateCopySrc, metadata.ResourceStateResolveSrc:
		b = Barrier{StageTransfer, AccessTransferRead, ImageLayoutTransferSrcOptimal}
	case metadata.ResourceStateCopyDst, metadata.ResourceStateResolveDst:
		b = Barrier{StageTransfer, AccessTransferWrite, ImageLayoutTransferDstOptimal}
	case metadata.ResourceStatePresent:
		// the presentation engine reads after every stage, new writes can start at the top
		stage := StageBottomOfPipe
		if isSource {
			stage = StageTopOfPipe
		}
		b = Barrier{stage, AccessNone, ImageLayoutPresentSrc}
	case metadata.ResourceStatePredication:
		b = Barrier{StageConditionalRendering, AccessConditionalRenderingRead, ImageLayoutInvalid}
	case metadata.ResourceStateRaytracingAccelerationStructure:
		return Barrier{}, errors.Wrapf(core.ErrUnsupportedResourceState, "%s", state)
	case metadata.ResourceStateFragmentDensityMapAttachment:
		b = Barrier{StageFragmentDensityProcess, AccessFragmentDensityMapRead, ImageLayoutFragmentDensityMapOptimal}
	case metadata.ResourceStateFragmentShadingRateAttachment:
		b = Barrier{StageFragmentShadingRate, AccessFragmentShadingRateRead, ImageLayoutFragmentShadingRateAttachmentOptimal}
	default:
		return Barrier{}, errors.Wrapf(core.ErrUnknown, "unmapped resource state %s", state)
	}

	if b.StageMask == 0 {
		panic(fmt.Sprintf("barrier: resource state %s mapped to an empty stage mask", state))
	}
	return b, nil
}

// Transition maps both halves of a before -> after transition.
func Transition(before, after metadata.ResourceState, commandType metadata.CommandType, features DeviceFeatures) (src, dst Barrier, err error) {
	if src, err = Map(before, commandType, features, true); err != nil {
		return Barrier{}, Barrier{}, errors.Wrap(err, "source state")
	}
	if dst, err = Map(after, commandType, features, false); err != nil {
		return Barrier{}, Barrier{}, errors.Wrap(err, "destination state")
	}
	return src, dst, nil
}
