package vulkan

import (
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/barrier"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

type VulkanCommandBufferState int

const (
	COMMAND_BUFFER_STATE_READY VulkanCommandBufferState = iota
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_IN_RENDER_PASS
	COMMAND_BUFFER_STATE_RECORDING_ENDED
	COMMAND_BUFFER_STATE_SUBMITTED
	COMMAND_BUFFER_STATE_NOT_ALLOCATED
)

// vk.IndexTypeUint8 from VK_EXT_index_type_uint8, missing in the bindings.
const indexTypeUint8 vk.IndexType = 1000265000

type VulkanCommandBuffer struct {
	Handle vk.CommandBuffer
	// Command buffer state.
	State VulkanCommandBufferState
	// Queue type the buffer records for, used to map resource states.
	CommandType metadata.CommandType

	features barrier.DeviceFeatures
}

func NewVulkanCommandBuffer(context *VulkanContext, pool vk.CommandPool, isPrimary bool) (*VulkanCommandBuffer, error) {
	vCommandBuffer := &VulkanCommandBuffer{
		State:       COMMAND_BUFFER_STATE_NOT_ALLOCATED,
		CommandType: metadata.CommandTypeGraphics,
		features:    context.Device.DeviceFeatures(),
	}

	level := vk.CommandBufferLevelSecondary
	if isPrimary {
		level = vk.CommandBufferLevelPrimary
	}

	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		CommandBufferCount: 1,
		Level:              level,
	}

	handles := make([]vk.CommandBuffer, 1)
	err := context.locks.SafeCall(CommandBufferManagement, func() error {
		return resultError(vk.AllocateCommandBuffers(context.Device.LogicalDevice, &allocateInfo, handles), "vkAllocateCommandBuffers")
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	vCommandBuffer.Handle = handles[0]
	vCommandBuffer.State = COMMAND_BUFFER_STATE_READY
	return vCommandBuffer, nil
}

func (v *VulkanCommandBuffer) Free(context *VulkanContext, pool vk.CommandPool) {
	if v.Handle == nil {
		return
	}
	context.locks.SafeCall(CommandBufferManagement, func() error {
		vk.FreeCommandBuffers(context.Device.LogicalDevice, pool, 1, []vk.CommandBuffer{v.Handle})
		return nil
	})
	v.Handle = nil
	v.State = COMMAND_BUFFER_STATE_NOT_ALLOCATED
}

func (v *VulkanCommandBuffer) Begin(isSingleUse, isRenderpassContinue, isSimultaneousUse bool) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if isSingleUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	if isRenderpassContinue {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageRenderPassContinueBit)
	}
	if isSimultaneousUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageSimultaneousUseBit)
	}

	if err := resultError(vk.BeginCommandBuffer(v.Handle, &beginInfo), "vkBeginCommandBuffer"); err != nil {
		core.LogError(err.Error())
		return err
	}
	v.State = COMMAND_BUFFER_STATE_RECORDING
	return nil
}

func (v *VulkanCommandBuffer) End() error {
	if err := resultError(vk.EndCommandBuffer(v.Handle), "vkEndCommandBuffer"); err != nil {
		core.LogError(err.Error())
		return err
	}
	v.State = COMMAND_BUFFER_STATE_RECORDING_ENDED
	return nil
}

func (v *VulkanCommandBuffer) UpdateSubmitted() {
	v.State = COMMAND_BUFFER_STATE_SUBMITTED
}

// Reset returns the buffer to the ready state. The pool is created with the
// reset bit so vkBeginCommandBuffer resets it implicitly.
func (v *VulkanCommandBuffer) Reset() {
	v.State = COMMAND_BUFFER_STATE_READY
}

/**
 * Allocates a primary command buffer and begins recording to it.
 */
func AllocateAndBeginSingleUse(context *VulkanContext, pool vk.CommandPool) (*VulkanCommandBuffer, error) {
	cb, err := NewVulkanCommandBuffer(context, pool, true)
	if err != nil {
		return nil, err
	}
	if err := cb.Begin(true, false, false); err != nil {
		cb.Free(context, pool)
		return nil, err
	}
	return cb, nil
}

/**
 * Ends recording, submits to and waits for queue operation and frees the
 * command buffer.
 */
func (v *VulkanCommandBuffer) EndSingleUse(context *VulkanContext, pool vk.CommandPool, queue vk.Queue, queueFamilyIndex uint32) error {
	defer v.Free(context, pool)

	if err := v.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{v.Handle},
	}
	err := context.locks.SafeQueueCall(queueFamilyIndex, func() error {
		if err := resultError(vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submitInfo}, nil), "vkQueueSubmit"); err != nil {
			return err
		}
		// single use work is rare enough to wait for idle
		return resultError(vk.QueueWaitIdle(queue), "vkQueueWaitIdle")
	})
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	v.UpdateSubmitted()
	return nil
}

// imageBarrier builds the barrier moving a subresource range from before to
// after. Both states must carry an image layout.
func imageBarrier(
	commandType metadata.CommandType,
	features barrier.DeviceFeatures,
	image vk.Image,
	subresource vk.ImageSubresourceRange,
	before, after metadata.ResourceState,
	srcQueue, dstQueue uint32,
) (vk.ImageMemoryBarrier, vk.PipelineStageFlags, vk.PipelineStageFlags, error) {
	src, dst, err := barrier.Transition(before, after, commandType, features)
	if err != nil {
		return vk.ImageMemoryBarrier{}, 0, 0, err
	}
	if !src.HasLayout() || !dst.HasLayout() {
		return vk.ImageMemoryBarrier{}, 0, 0, errors.Wrapf(core.ErrUnsupportedResourceState,
			"image transition %s -> %s", before, after)
	}
	b := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       vk.AccessFlags(src.AccessMask),
		DstAccessMask:       vk.AccessFlags(dst.AccessMask),
		OldLayout:           vk.ImageLayout(src.Layout),
		NewLayout:           vk.ImageLayout(dst.Layout),
		SrcQueueFamilyIndex: srcQueue,
		DstQueueFamilyIndex: dstQueue,
		Image:               image,
		SubresourceRange:    subresource,
	}
	return b, vk.PipelineStageFlags(src.StageMask), vk.PipelineStageFlags(dst.StageMask), nil
}

// bufferBarrier builds the barrier for a buffer range going from before to
// after. Layouts of the states are ignored.
func bufferBarrier(
	commandType metadata.CommandType,
	features barrier.DeviceFeatures,
	buffer vk.Buffer,
	offset, size uint64,
	before, after metadata.ResourceState,
	srcQueue, dstQueue uint32,
) (vk.BufferMemoryBarrier, vk.PipelineStageFlags, vk.PipelineStageFlags, error) {
	src, dst, err := barrier.Transition(before, after, commandType, features)
	if err != nil {
		return vk.BufferMemoryBarrier{}, 0, 0, err
	}
	b := vk.BufferMemoryBarrier{
		SType:               vk.StructureTypeBufferMemoryBarrier,
		SrcAccessMask:       vk.AccessFlags(src.AccessMask),
		DstAccessMask:       vk.AccessFlags(dst.AccessMask),
		SrcQueueFamilyIndex: srcQueue,
		DstQueueFamilyIndex: dstQueue,
		Buffer:              buffer,
		Offset:              vk.DeviceSize(offset),
		Size:                vk.DeviceSize(size),
	}
	return b, vk.PipelineStageFlags(src.StageMask), vk.PipelineStageFlags(dst.StageMask), nil
}

// TransitionImageLayout records a pipeline barrier moving the subresource
// range from state before to state after.
func (v *VulkanCommandBuffer) TransitionImageLayout(
	image vk.Image,
	aspect vk.ImageAspectFlags,
	baseMip, mipCount, baseLayer, layerCount uint32,
	before, after metadata.ResourceState,
	srcQueue, dstQueue uint32,
) error {
	subresource := vk.ImageSubresourceRange{
		AspectMask:     aspect,
		BaseMipLevel:   baseMip,
		LevelCount:     mipCount,
		BaseArrayLayer: baseLayer,
		LayerCount:     layerCount,
	}
	b, srcStage, dstStage, err := imageBarrier(v.CommandType, v.features, image, subresource, before, after, srcQueue, dstQueue)
	if err != nil {
		core.LogError("failed to transition image: %s", err.Error())
		return err
	}
	vk.CmdPipelineBarrier(v.Handle, srcStage, dstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{b})
	return nil
}

// BufferResourceBarrier records a pipeline barrier for a buffer range.
func (v *VulkanCommandBuffer) BufferResourceBarrier(
	buffer vk.Buffer,
	offset, size uint64,
	before, after metadata.ResourceState,
	srcQueue, dstQueue uint32,
) error {
	b, srcStage, dstStage, err := bufferBarrier(v.CommandType, v.features, buffer, offset, size, before, after, srcQueue, dstQueue)
	if err != nil {
		core.LogError("failed to record buffer barrier: %s", err.Error())
		return err
	}
	vk.CmdPipelineBarrier(v.Handle, srcStage, dstStage, 0, 0, nil, 1, []vk.BufferMemoryBarrier{b}, 0, nil)
	return nil
}

func (v *VulkanCommandBuffer) CopyBufferToBuffer(src vk.Buffer, srcOffset uint64, dst vk.Buffer, dstOffset, size uint64) {
	region := vk.BufferCopy{
		SrcOffset: vk.DeviceSize(srcOffset),
		DstOffset: vk.DeviceSize(dstOffset),
		Size:      vk.DeviceSize(size),
	}
	vk.CmdCopyBuffer(v.Handle, src, dst, 1, []vk.BufferCopy{region})
}

// CopyBufferToImage copies tightly packed texels at srcOffset into one mip
// level. The image must be in the copy destination state.
func (v *VulkanCommandBuffer) CopyBufferToImage(src vk.Buffer, srcOffset uint64, image vk.Image, aspect vk.ImageAspectFlags, mipLevel, width, height uint32) {
	region := vk.BufferImageCopy{
		BufferOffset: vk.DeviceSize(srcOffset),
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     aspect,
			MipLevel:       mipLevel,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageExtent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
	}
	vk.CmdCopyBufferToImage(v.Handle, src, image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
}

func (v *VulkanCommandBuffer) BindVertexBuffers(firstBinding uint32, buffers []vk.Buffer, offsets []uint64) {
	deviceOffsets := make([]vk.DeviceSize, len(buffers))
	for i := range deviceOffsets {
		if i < len(offsets) {
			deviceOffsets[i] = vk.DeviceSize(offsets[i])
		}
	}
	vk.CmdBindVertexBuffers(v.Handle, firstBinding, uint32(len(buffers)), buffers, deviceOffsets)
}

func (v *VulkanCommandBuffer) BindIndexBuffer(buffer vk.Buffer, offset uint64, indexType metadata.IndexType) error {
	vkIndexType, err := VulkanIndexType(indexType)
	if err != nil {
		return err
	}
	vk.CmdBindIndexBuffer(v.Handle, buffer, vk.DeviceSize(offset), vkIndexType)
	return nil
}

func (v *VulkanCommandBuffer) Draw(vertexCount, instanceCount uint32) {
	vk.CmdDraw(v.Handle, vertexCount, instanceCount, 0, 0)
}

func (v *VulkanCommandBuffer) DrawIndexed(indexCount, instanceCount uint32) {
	vk.CmdDrawIndexed(v.Handle, indexCount, instanceCount, 0, 0, 0)
}
