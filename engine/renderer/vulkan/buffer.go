package vulkan

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
)

type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   uint64
	Usage  vk.BufferUsageFlags

	memoryFlags vk.MemoryPropertyFlags
}

func NewBuffer(context *VulkanContext, size uint64, usage vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	if size == 0 {
		return nil, errors.Wrap(core.ErrInvalidCreateArgument, "buffer size must be positive")
	}
	buffer := &VulkanBuffer{
		Size:        size,
		Usage:       usage,
		memoryFlags: memoryFlags,
	}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	err := context.locks.SafeCall(BufferManagement, func() error {
		var handle vk.Buffer
		if err := resultError(vk.CreateBuffer(context.Device.LogicalDevice, &bufferInfo, context.Allocator, &handle), "vkCreateBuffer"); err != nil {
			return err
		}
		buffer.Handle = handle

		var requirements vk.MemoryRequirements
		vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, handle, &requirements)
		requirements.Deref()

		memoryType, err := context.FindMemoryIndex(requirements.MemoryTypeBits, memoryFlags)
		if err != nil {
			return err
		}
		allocateInfo := vk.MemoryAllocateInfo{
			SType:           vk.StructureTypeMemoryAllocateInfo,
			AllocationSize:  requirements.Size,
			MemoryTypeIndex: memoryType,
		}
		var memory vk.DeviceMemory
		if err := resultError(vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory), "vkAllocateMemory"); err != nil {
			return err
		}
		buffer.Memory = memory
		return resultError(vk.BindBufferMemory(context.Device.LogicalDevice, handle, memory, 0), "vkBindBufferMemory")
	})
	if err != nil {
		core.LogError("failed to create buffer of %d bytes: %s", size, err.Error())
		buffer.Destroy(context)
		return nil, err
	}
	return buffer, nil
}

// NewStagingBuffer creates a host visible transfer source.
func NewStagingBuffer(context *VulkanContext, size uint64) (*VulkanBuffer, error) {
	return NewBuffer(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
}

// LoadData copies data into the buffer at offset. The buffer memory must be
// host visible.
func (b *VulkanBuffer) LoadData(context *VulkanContext, offset uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if offset+uint64(len(data)) > b.Size {
		return errors.Wrapf(core.ErrOutOfRange, "%d bytes at offset %d exceed buffer size %d", len(data), offset, b.Size)
	}
	if b.memoryFlags&vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit) == 0 {
		return errors.Newf("buffer memory is not host visible")
	}

	var mapped unsafe.Pointer
	if err := resultError(vk.MapMemory(context.Device.LogicalDevice, b.Memory, vk.DeviceSize(offset), vk.DeviceSize(len(data)), 0, &mapped), "vkMapMemory"); err != nil {
		core.LogError(err.Error())
		return err
	}
	vk.Memcopy(mapped, data)
	vk.UnmapMemory(context.Device.LogicalDevice, b.Memory)
	return nil
}

func (b *VulkanBuffer) Destroy(context *VulkanContext) {
	if b.Memory != nil {
		vk.FreeMemory(context.Device.LogicalDevice, b.Memory, context.Allocator)
		b.Memory = nil
	}
	if b.Handle != nil {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.Handle, context.Allocator)
		b.Handle = nil
	}
}
