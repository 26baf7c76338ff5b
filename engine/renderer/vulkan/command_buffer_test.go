package vulkan

import (
	"testing"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/barrier"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// The mapper emits raw Vulkan bits, the casts in this package rely on it.
func TestBarrierFlagsMatchVulkan(t *testing.T) {
	stages := []struct {
		got  barrier.PipelineStageFlags
		want vk.PipelineStageFlagBits
	}{
		{barrier.StageTopOfPipe, vk.PipelineStageTopOfPipeBit},
		{barrier.StageVertexInput, vk.PipelineStageVertexInputBit},
		{barrier.StageVertexShader, vk.PipelineStageVertexShaderBit},
		{barrier.StageFragmentShader, vk.PipelineStageFragmentShaderBit},
		{barrier.StageColorAttachmentOutput, vk.PipelineStageColorAttachmentOutputBit},
		{barrier.StageTransfer, vk.PipelineStageTransferBit},
		{barrier.StageBottomOfPipe, vk.PipelineStageBottomOfPipeBit},
		{barrier.StageAllCommands, vk.PipelineStageAllCommandsBit},
	}
	for _, s := range stages {
		if uint32(s.got) != uint32(s.want) {
			t.Errorf("stage 0x%x, vulkan uses 0x%x", uint32(s.got), uint32(s.want))
		}
	}

	accesses := []struct {
		got  barrier.AccessFlags
		want vk.AccessFlagBits
	}{
		{barrier.AccessIndexRead, vk.AccessIndexReadBit},
		{barrier.AccessVertexAttributeRead, vk.AccessVertexAttributeReadBit},
		{barrier.AccessShaderRead, vk.AccessShaderReadBit},
		{barrier.AccessColorAttachmentWrite, vk.AccessColorAttachmentWriteBit},
		{barrier.AccessDepthStencilAttachmentWrite, vk.AccessDepthStencilAttachmentWriteBit},
		{barrier.AccessTransferWrite, vk.AccessTransferWriteBit},
		{barrier.AccessMemoryRead, vk.AccessMemoryReadBit},
	}
	for _, a := range accesses {
		if uint32(a.got) != uint32(a.want) {
			t.Errorf("access 0x%x, vulkan uses 0x%x", uint32(a.got), uint32(a.want))
		}
	}

	layouts := []struct {
		got  barrier.ImageLayout
		want vk.ImageLayout
	}{
		{barrier.ImageLayoutUndefined, vk.ImageLayoutUndefined},
		{barrier.ImageLayoutColorAttachmentOptimal, vk.ImageLayoutColorAttachmentOptimal},
		{barrier.ImageLayoutDepthStencilAttachmentOptimal, vk.ImageLayoutDepthStencilAttachmentOptimal},
		{barrier.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutShaderReadOnlyOptimal},
		{barrier.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferDstOptimal},
		{barrier.ImageLayoutPresentSrc, vk.ImageLayoutPresentSrc},
	}
	for _, l := range layouts {
		if int32(l.got) != int32(l.want) {
			t.Errorf("layout %d, vulkan uses %d", int32(l.got), int32(l.want))
		}
	}
}

func TestImageBarrierUploadTransition(t *testing.T) {
	subresource := vk.ImageSubresourceRange{
		AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
		LevelCount: 4,
		LayerCount: 1,
	}
	b, src, dst, err := imageBarrier(metadata.CommandTypeGraphics, barrier.DeviceFeatures{}, nil, subresource,
		metadata.ResourceStateUndefined, metadata.ResourceStateCopyDst, QueueFamilyIgnored, QueueFamilyIgnored)
	if err != nil {
		t.Fatal(err)
	}
	if src != vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit) || dst != vk.PipelineStageFlags(vk.PipelineStageTransferBit) {
		t.Errorf("stages 0x%x -> 0x%x", src, dst)
	}
	if b.OldLayout != vk.ImageLayoutUndefined || b.NewLayout != vk.ImageLayoutTransferDstOptimal {
		t.Errorf("layouts %d -> %d", b.OldLayout, b.NewLayout)
	}
	if b.SrcAccessMask != 0 || b.DstAccessMask != vk.AccessFlags(vk.AccessTransferWriteBit) {
		t.Errorf("access 0x%x -> 0x%x", b.SrcAccessMask, b.DstAccessMask)
	}
	if b.SubresourceRange.LevelCount != 4 || b.SrcQueueFamilyIndex != QueueFamilyIgnored {
		t.Errorf("subresource or queue families not carried over: %+v", b)
	}
}

func TestImageBarrierPresent(t *testing.T) {
	_, src, dst, err := imageBarrier(metadata.CommandTypeGraphics, barrier.DeviceFeatures{}, nil, vk.ImageSubresourceRange{},
		metadata.ResourceStateRenderTarget, metadata.ResourceStatePresent, QueueFamilyIgnored, QueueFamilyIgnored)
	if err != nil {
		t.Fatal(err)
	}
	if src != vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit) || dst != vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit) {
		t.Errorf("stages 0x%x -> 0x%x", src, dst)
	}
}

func TestImageBarrierRejectsBufferStates(t *testing.T) {
	_, _, _, err := imageBarrier(metadata.CommandTypeGraphics, barrier.DeviceFeatures{}, nil, vk.ImageSubresourceRange{},
		metadata.ResourceStateCopyDst, metadata.ResourceStateVertexBuffer, QueueFamilyIgnored, QueueFamilyIgnored)
	if !errors.Is(err, core.ErrUnsupportedResourceState) {
		t.Errorf("error = %v, want ErrUnsupportedResourceState", err)
	}
}

func TestBufferBarrierUploadTransition(t *testing.T) {
	b, src, dst, err := bufferBarrier(metadata.CommandTypeGraphics, barrier.DeviceFeatures{}, nil, 16, 256,
		metadata.ResourceStateCopyDst, metadata.ResourceStateIndexBuffer, QueueFamilyIgnored, QueueFamilyIgnored)
	if err != nil {
		t.Fatal(err)
	}
	if src != vk.PipelineStageFlags(vk.PipelineStageTransferBit) || dst != vk.PipelineStageFlags(vk.PipelineStageVertexInputBit) {
		t.Errorf("stages 0x%x -> 0x%x", src, dst)
	}
	if b.SrcAccessMask != vk.AccessFlags(vk.AccessTransferWriteBit) || b.DstAccessMask != vk.AccessFlags(vk.AccessIndexReadBit) {
		t.Errorf("access 0x%x -> 0x%x", b.SrcAccessMask, b.DstAccessMask)
	}
	if b.Offset != 16 || b.Size != 256 {
		t.Errorf("range %d+%d", b.Offset, b.Size)
	}
}

func TestBufferBarrierUnsupportedState(t *testing.T) {
	_, _, _, err := bufferBarrier(metadata.CommandTypeGraphics, barrier.DeviceFeatures{}, nil, 0, 1,
		metadata.ResourceStateRaytracingAccelerationStructure, metadata.ResourceStateGeneral, QueueFamilyIgnored, QueueFamilyIgnored)
	if !errors.Is(err, core.ErrUnsupportedResourceState) {
		t.Errorf("error = %v, want ErrUnsupportedResourceState", err)
	}
}
