package barrier

// The values below are the Vulkan bit values, so the backend converts them
// with a plain cast.

type PipelineStageFlags uint32

const (
	StageTopOfPipe                    PipelineStageFlags = 0x00000001
	StageDrawIndirect                 PipelineStageFlags = 0x00000002
	StageVertexInput                  PipelineStageFlags = 0x00000004
	StageVertexShader                 PipelineStageFlags = 0x00000008
	StageTessellationControlShader    PipelineStageFlags = 0x00000010
	StageTessellationEvaluationShader PipelineStageFlags = 0x00000020
	StageGeometryShader               PipelineStageFlags = 0x00000040
	StageFragmentShader               PipelineStageFlags = 0x00000080
	StageEarlyFragmentTests           PipelineStageFlags = 0x00000100
	StageLateFragmentTests            PipelineStageFlags = 0x00000200
	StageColorAttachmentOutput        PipelineStageFlags = 0x00000400
	StageComputeShader                PipelineStageFlags = 0x00000800
	StageTransfer                     PipelineStageFlags = 0x00001000
	StageBottomOfPipe                 PipelineStageFlags = 0x00002000
	StageHost                         PipelineStageFlags = 0x00004000
	StageAllGraphics                  PipelineStageFlags = 0x00008000
	StageAllCommands                  PipelineStageFlags = 0x00010000
	StageConditionalRendering         PipelineStageFlags = 0x00040000
	StageRayTracingShader             PipelineStageFlags = 0x00200000
	StageFragmentShadingRate          PipelineStageFlags = 0x00400000
	StageFragmentDensityProcess       PipelineStageFlags = 0x00800000
	StageTransformFeedback            PipelineStageFlags = 0x01000000
	StageAccelerationStructureBuild   PipelineStageFlags = 0x02000000
)

type AccessFlags uint32

const (
	AccessNone                        AccessFlags = 0
	AccessIndirectCommandRead         AccessFlags = 0x00000001
	AccessIndexRead                   AccessFlags = 0x00000002
	AccessVertexAttributeRead         AccessFlags = 0x00000004
	AccessUniformRead                 AccessFlags = 0x00000008
	AccessInputAttachmentRead         AccessFlags = 0x00000010
	AccessShaderRead                  AccessFlags = 0x00000020
	AccessShaderWrite                 AccessFlags = 0x00000040
	AccessColorAttachmentRead         AccessFlags = 0x00000080
	AccessColorAttachmentWrite        AccessFlags = 0x00000100
	AccessDepthStencilAttachmentRead  AccessFlags = 0x00000200
	AccessDepthStencilAttachmentWrite AccessFlags = 0x00000400
	AccessTransferRead                AccessFlags = 0x00000800
	AccessTransferWrite               AccessFlags = 0x00001000
	AccessHostRead                    AccessFlags = 0x00002000
	AccessHostWrite                   AccessFlags = 0x00004000
	AccessMemoryRead                  AccessFlags = 0x00008000
	AccessMemoryWrite                 AccessFlags = 0x00010000
	AccessConditionalRenderingRead    AccessFlags = 0x00100000
	AccessAccelerationStructureRead   AccessFlags = 0x00200000
	AccessAccelerationStructureWrite  AccessFlags = 0x00400000
	AccessFragmentShadingRateRead     AccessFlags = 0x00800000
	AccessFragmentDensityMapRead      AccessFlags = 0x01000000
	AccessTransformFeedbackWrite      AccessFlags = 0x02000000
)

type ImageLayout int32

const (
	ImageLayoutUndefined                             ImageLayout = 0
	ImageLayoutGeneral                               ImageLayout = 1
	ImageLayoutColorAttachmentOptimal                ImageLayout = 2
	ImageLayoutDepthStencilAttachmentOptimal         ImageLayout = 3
	ImageLayoutDepthStencilReadOnlyOptimal           ImageLayout = 4
	ImageLayoutShaderReadOnlyOptimal                 ImageLayout = 5
	ImageLayoutTransferSrcOptimal                    ImageLayout = 6
	ImageLayoutTransferDstOptimal                    ImageLayout = 7
	ImageLayoutPreinitialized                        ImageLayout = 8
	ImageLayoutDepthReadOnlyStencilAttachmentOptimal ImageLayout = 1000117000
	ImageLayoutDepthAttachmentStencilReadOnlyOptimal ImageLayout = 1000117001
	ImageLayoutPresentSrc                            ImageLayout = 1000001002
	ImageLayoutFragmentShadingRateAttachmentOptimal  ImageLayout = 1000164003
	ImageLayoutFragmentDensityMapOptimal             ImageLayout = 1000218000

	// ImageLayoutInvalid marks buffer states, which have no image layout.
	ImageLayoutInvalid ImageLayout = 0x7FFFFFFF
)
