package vulkan

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
)

type VulkanFence struct {
	Handle     vk.Fence
	IsSignaled bool

	context *VulkanContext
}

func NewFence(context *VulkanContext, createSignaled bool) (*VulkanFence, error) {
	fence := &VulkanFence{
		// Make sure to signal the fence if required.
		IsSignaled: createSignaled,
		context:    context,
	}
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if createSignaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var handle vk.Fence
	if err := resultError(vk.CreateFence(context.Device.LogicalDevice, &fenceCreateInfo, context.Allocator, &handle), "vkCreateFence"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	fence.Handle = handle
	return fence, nil
}

func (f *VulkanFence) Destroy() {
	if f.Handle != nil {
		vk.DestroyFence(f.context.Device.LogicalDevice, f.Handle, f.context.Allocator)
		f.Handle = nil
	}
	f.IsSignaled = false
}

// Wait blocks until the fence is signaled or timeout elapses. A zero timeout
// waits forever.
func (f *VulkanFence) Wait(timeout time.Duration) error {
	if f.IsSignaled {
		return nil
	}
	timeoutNs := uint64(math.MaxUint64)
	if timeout > 0 {
		timeoutNs = uint64(timeout.Nanoseconds())
	}
	result := vk.WaitForFences(f.context.Device.LogicalDevice, 1, []vk.Fence{f.Handle}, vk.True, timeoutNs)
	switch result {
	case vk.Success:
		f.IsSignaled = true
		return nil
	case vk.Timeout:
		return errors.Wrapf(core.ErrFenceTimeout, "after %s", timeout)
	}
	err := resultError(result, "vkWaitForFences")
	core.LogError(err.Error())
	return errors.Mark(err, core.ErrDeviceFailure)
}

func (f *VulkanFence) Reset() error {
	if !f.IsSignaled {
		return nil
	}
	if err := resultError(vk.ResetFences(f.context.Device.LogicalDevice, 1, []vk.Fence{f.Handle}), "vkResetFences"); err != nil {
		core.LogError(err.Error())
		return err
	}
	f.IsSignaled = false
	return nil
}

// VulkanSemaphore orders queue operations. The host never waits on it.
type VulkanSemaphore struct {
	Handle vk.Semaphore

	context *VulkanContext
}

func NewSemaphore(context *VulkanContext) (*VulkanSemaphore, error) {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var handle vk.Semaphore
	if err := resultError(vk.CreateSemaphore(context.Device.LogicalDevice, &semaphoreCreateInfo, context.Allocator, &handle), "vkCreateSemaphore"); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return &VulkanSemaphore{Handle: handle, context: context}, nil
}

func (s *VulkanSemaphore) Destroy() {
	if s.Handle != nil {
		vk.DestroySemaphore(s.context.Device.LogicalDevice, s.Handle, s.context.Allocator)
		s.Handle = nil
	}
}
