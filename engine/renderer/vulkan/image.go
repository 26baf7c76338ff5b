package vulkan

import (
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/mipmap"
)

type VulkanImage struct {
	Handle    vk.Image
	Memory    vk.DeviceMemory
	View      vk.ImageView
	Width     uint32
	Height    uint32
	MipLevels uint32
	Format    vk.Format
}

type VulkanImageCreateInfo struct {
	Width, Height uint32
	// zero means one level
	MipLevels   uint32
	Format      vk.Format
	Usage       vk.ImageUsageFlags
	MemoryFlags vk.MemoryPropertyFlags

	CreateView     bool
	ViewAspectMask vk.ImageAspectFlags
}

// ImageCreate creates a 2D optimally tiled image with its own memory and,
// when asked, a view over every level.
func ImageCreate(context *VulkanContext, info *VulkanImageCreateInfo) (*VulkanImage, error) {
	mipLevels := max(info.MipLevels, 1)
	image := &VulkanImage{
		Width:     info.Width,
		Height:    info.Height,
		MipLevels: mipLevels,
		Format:    info.Format,
	}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  info.Width,
			Height: info.Height,
			Depth:  1,
		},
		MipLevels:     mipLevels,
		ArrayLayers:   1,
		Format:        info.Format,
		Tiling:        vk.ImageTilingOptimal,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         info.Usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}

	var handle vk.Image
	if err := resultError(vk.CreateImage(context.Device.LogicalDevice, &imageCreateInfo, context.Allocator, &handle), "vkCreateImage"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	image.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(context.Device.LogicalDevice, handle, &requirements)
	requirements.Deref()

	memoryType, err := context.FindMemoryIndex(requirements.MemoryTypeBits, info.MemoryFlags)
	if err != nil {
		image.Destroy(context)
		return nil, errors.Wrap(err, "image memory")
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryType,
	}
	var memory vk.DeviceMemory
	if err := resultError(vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory), "vkAllocateMemory"); err != nil {
		core.LogError(err.Error())
		image.Destroy(context)
		return nil, err
	}
	image.Memory = memory

	// TODO: configurable memory offset.
	if err := resultError(vk.BindImageMemory(context.Device.LogicalDevice, handle, memory, 0), "vkBindImageMemory"); err != nil {
		core.LogError(err.Error())
		image.Destroy(context)
		return nil, err
	}

	if info.CreateView {
		view, err := createImageView(context, handle, info.Format, info.ViewAspectMask, mipLevels)
		if err != nil {
			image.Destroy(context)
			return nil, err
		}
		image.View = view
	}
	return image, nil
}

func createImageView(context *VulkanContext, image vk.Image, format vk.Format, aspectMask vk.ImageAspectFlags, mipLevels uint32) (vk.ImageView, error) {
	viewCreateInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspectMask,
			BaseMipLevel:   0,
			LevelCount:     mipLevels,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	var view vk.ImageView
	if err := resultError(vk.CreateImageView(context.Device.LogicalDevice, &viewCreateInfo, context.Allocator, &view), "vkCreateImageView"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return view, nil
}

func (vi *VulkanImage) Destroy(context *VulkanContext) {
	if vi.View != nil {
		vk.DestroyImageView(context.Device.LogicalDevice, vi.View, context.Allocator)
		vi.View = nil
	}
	if vi.Memory != nil {
		vk.FreeMemory(context.Device.LogicalDevice, vi.Memory, context.Allocator)
		vi.Memory = nil
	}
	if vi.Handle != nil {
		vk.DestroyImage(context.Device.LogicalDevice, vi.Handle, context.Allocator)
		vi.Handle = nil
	}
}

// UploadMipmap creates a sampled image holding every level of m. The levels
// go through one staging buffer and the image ends in the shader resource
// state.
func UploadMipmap(context *VulkanContext, m *mipmap.Mipmap) (*VulkanImage, error) {
	format, err := VulkanFormat(mipmap.Format)
	if err != nil {
		return nil, err
	}

	var scope ScopeDestroyer
	defer scope.Destroy()

	image, err := ImageCreate(context, &VulkanImageCreateInfo{
		Width:          m.Width(0),
		Height:         m.Height(0),
		MipLevels:      uint32(m.LevelCount()),
		Format:         format,
		Usage:          vk.ImageUsageFlags(vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit),
		MemoryFlags:    vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		CreateView:     true,
		ViewAspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
	})
	if err != nil {
		return nil, err
	}
	scope.Add(func() { image.Destroy(context) })

	staging, err := NewStagingBuffer(context, uint64(m.ByteSize()))
	if err != nil {
		return nil, err
	}
	scope.Add(func() { staging.Destroy(context) })

	cb, err := AllocateAndBeginSingleUse(context, context.Device.GraphicsCommandPool)
	if err != nil {
		return nil, err
	}
	aspect := vk.ImageAspectFlags(vk.ImageAspectColorBit)
	if err := cb.TransitionImageLayout(image.Handle, aspect, 0, image.MipLevels, 0, 1,
		metadata.ResourceStateUndefined, metadata.ResourceStateCopyDst, QueueFamilyIgnored, QueueFamilyIgnored); err != nil {
		cb.Free(context, context.Device.GraphicsCommandPool)
		return nil, err
	}

	var offset uint64
	for level := 0; level < m.LevelCount(); level++ {
		pixels := m.Pixels(level)
		if err := staging.LoadData(context, offset, pixels); err != nil {
			cb.Free(context, context.Device.GraphicsCommandPool)
			return nil, err
		}
		cb.CopyBufferToImage(staging.Handle, offset, image.Handle, aspect, uint32(level), m.Width(level), m.Height(level))
		offset += uint64(len(pixels))
	}

	if err := cb.TransitionImageLayout(image.Handle, aspect, 0, image.MipLevels, 0, 1,
		metadata.ResourceStateCopyDst, metadata.ResourceStatePixelShaderResource, QueueFamilyIgnored, QueueFamilyIgnored); err != nil {
		cb.Free(context, context.Device.GraphicsCommandPool)
		return nil, err
	}
	if err := cb.EndSingleUse(context, context.Device.GraphicsCommandPool, context.Device.GraphicsQueue, uint32(context.Device.GraphicsQueueIndex)); err != nil {
		return nil, err
	}

	// The image now belongs to the caller.
	scope.Release(1)
	return image, nil
}
