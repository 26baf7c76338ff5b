package vulkan

import (
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/platform"
	"github.com/spaghettifunk/prism/engine/renderer/frame"
	"github.com/spaghettifunk/prism/engine/renderer/mipmap"
)

const (
	meshVertexShader   = "mesh.vert.spv"
	meshFragmentShader = "mesh.frag.spv"
)

type VulkanRenderer struct {
	platform *platform.Platform
	context  *VulkanContext
	frames   *frame.FrameLoop

	// latest size reported by the window, applied on the next recreation
	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	pipeline *VulkanPipeline
	shaders  []*VulkanShaderStage

	debug bool
	vsync bool
}

func New(p *platform.Platform) *VulkanRenderer {
	return &VulkanRenderer{
		platform: p,
		context:  NewVulkanContext(),
	}
}

// Initialize brings up the instance, the device and the swapchain, then the
// frame loop. The mesh pipeline is built from the SPIR-V shaders found in
// the shaders directory of the assets. Without them frames are only cleared.
func (vr *VulkanRenderer) Initialize(cfg *core.Config, createInfo *geometry.GeometryCreateInfo) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		core.LogFatal("GetInstanceProcAddress is nil")
		return errors.Wrap(core.ErrDeviceFailure, "GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogFatal("failed to initialize vk: %s", err)
		return errors.Mark(errors.Wrap(err, "vk init"), core.ErrDeviceFailure)
	}

	vr.debug = cfg.Renderer.Validation
	vr.vsync = cfg.Renderer.VSync

	// TODO: custom allocator.
	vr.context.Allocator = nil

	width, height := vr.platform.FramebufferSize()
	if width == 0 || height == 0 {
		width, height = cfg.Application.Width, cfg.Application.Height
	}
	vr.context.FramebufferWidth = width
	vr.context.FramebufferHeight = height
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height

	if err := vr.createInstance(cfg.Application.Name); err != nil {
		return err
	}

	// Debugger
	if vr.debug {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if err := resultError(vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg), "vkCreateDebugReportCallbackEXT"); err != nil {
			core.LogError(err.Error())
			return err
		}
		vr.context.debugMessenger = dbg
		core.LogDebug("Vulkan debugger created.")
	}

	// Surface
	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.platform.Window.CreateWindowSurface(vr.context.Instance, nil)
	if err != nil {
		core.LogFatal("Vulkan surface creation failed.")
		return errors.Mark(errors.Wrap(err, "create window surface"), core.ErrDeviceFailure)
	}
	vr.context.Surface = vk.SurfaceFromPointer(surface)
	core.LogDebug("Vulkan surface created.")

	// Device creation
	if err := DeviceCreate(vr.context); err != nil {
		core.LogError("Failed to create device!")
		return err
	}

	// Swapchain
	sc, err := SwapchainCreate(vr.context, vr.context.FramebufferWidth, vr.context.FramebufferHeight, vr.vsync)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc
	vr.syncFramebufferSize()

	rp, err := RenderpassCreate(
		vr.context,
		0, 0, float32(vr.context.FramebufferWidth), float32(vr.context.FramebufferHeight),
		0.0, 0.0, 0.2, 1.0,
		1.0,
		0)
	if err != nil {
		return err
	}
	vr.context.MainRenderpass = rp

	// Swapchain framebuffers.
	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}

	if err := vr.createCommandBuffers(); err != nil {
		return err
	}

	if err := vr.createMeshPipeline(filepath.Join(cfg.Assets.Dir, "shaders"), createInfo); err != nil {
		return err
	}

	fenceTimeout, err := cfg.FenceTimeout()
	if err != nil {
		return err
	}
	vr.frames = frame.NewFrameLoop(vr, frame.Options{
		FramesInFlight: cfg.Renderer.FramesInFlight,
		FenceTimeout:   fenceTimeout,
	})
	if err := vr.frames.Setup(); err != nil {
		return err
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance(appName string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Prism Engine"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// Obtain a list of required extensions
	requiredExtensions := []string{"VK_KHR_surface"} // Generic surface extension
	requiredExtensions = append(requiredExtensions, vr.platform.GetRequiredExtensionNames()...)

	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	var requiredLayers []string
	if vr.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		requiredLayers = []string{"VK_LAYER_KHRONOS_validation"}
		if err := checkValidationLayers(requiredLayers); err != nil {
			return err
		}
	}
	for _, ext := range requiredExtensions {
		core.LogDebug("Required extension: %s", ext)
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(requiredLayers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(requiredLayers)

	var instance vk.Instance
	if err := resultError(vk.CreateInstance(&createInfo, vr.context.Allocator, &instance), "vkCreateInstance"); err != nil {
		core.LogError(err.Error())
		return errors.Mark(err, core.ErrDeviceFailure)
	}
	vr.context.Instance = instance
	if err := vk.InitInstance(instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")
	return nil
}

// checkValidationLayers makes sure every layer in required is installed.
func checkValidationLayers(required []string) error {
	core.LogInfo("Validation layers enabled. Enumerating...")
	var count uint32
	if err := resultError(vk.EnumerateInstanceLayerProperties(&count, nil), "vkEnumerateInstanceLayerProperties"); err != nil {
		return err
	}
	available := make([]vk.LayerProperties, count)
	if err := resultError(vk.EnumerateInstanceLayerProperties(&count, available), "vkEnumerateInstanceLayerProperties"); err != nil {
		return err
	}
	names := make(map[string]struct{}, len(available))
	for i := range available {
		available[i].Deref()
		names[cString(available[i].LayerName[:])] = struct{}{}
	}
	for _, layer := range required {
		if _, ok := names[layer]; !ok {
			core.LogFatal("Required validation layer is missing: %s", layer)
			return errors.Wrapf(core.ErrDeviceFailure, "validation layer %s is missing", layer)
		}
	}
	core.LogInfo("All required validation layers are present.")
	return nil
}

func (vr *VulkanRenderer) createMeshPipeline(shaderDir string, createInfo *geometry.GeometryCreateInfo) error {
	vertPath := filepath.Join(shaderDir, meshVertexShader)
	fragPath := filepath.Join(shaderDir, meshFragmentShader)
	for _, p := range []string{vertPath, fragPath} {
		if _, err := os.Stat(p); err != nil {
			core.LogWarn("Shader %s not available, meshes will not be drawn.", p)
			return nil
		}
	}

	vert, err := LoadShaderStage(vr.context, vertPath, vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	vr.shaders = append(vr.shaders, vert)
	frag, err := LoadShaderStage(vr.context, fragPath, vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}
	vr.shaders = append(vr.shaders, frag)

	extent := vr.context.Swapchain.Extent
	pipeline, err := NewGraphicsPipeline(vr.context, &VulkanPipelineConfig{
		Renderpass: vr.context.MainRenderpass,
		Geometry:   createInfo,
		Stages:     []vk.PipelineShaderStageCreateInfo{vert.CreateInfo(), frag.CreateInfo()},
		Viewport: vk.Viewport{
			Width:    float32(extent.Width),
			Height:   float32(extent.Height),
			MinDepth: 0.0,
			MaxDepth: 1.0,
		},
		Scissor:    vk.Rect2D{Extent: extent},
		CullMode:   vk.CullModeBackBit,
		DepthTest:  true,
		DepthWrite: true,
	})
	if err != nil {
		return err
	}
	vr.pipeline = pipeline
	return nil
}

func (vr *VulkanRenderer) Shutdown() error {
	if vr.frames != nil {
		vr.frames.Shutdown()
	}
	if vr.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	}

	// Destroy in the opposite order of creation.
	if vr.pipeline != nil {
		vr.pipeline.Destroy(vr.context)
		vr.pipeline = nil
	}
	for _, s := range vr.shaders {
		s.Destroy(vr.context)
	}
	vr.shaders = nil

	vr.freeCommandBuffers()
	if vr.context.Swapchain != nil {
		vr.destroyFramebuffers()
	}
	if vr.context.MainRenderpass != nil {
		vr.context.MainRenderpass.RenderpassDestroy(vr.context)
		vr.context.MainRenderpass = nil
	}
	if vr.context.Swapchain != nil {
		vr.context.Swapchain.SwapchainDestroy(vr.context)
		vr.context.Swapchain = nil
	}

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(vr.context)

	core.LogDebug("Destroying Vulkan surface...")
	if vr.context.Surface != nil {
		vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
		vr.context.Surface = nil
	}

	if vr.context.debugMessenger != nil {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugMessenger, vr.context.Allocator)
		vr.context.debugMessenger = nil
	}

	if vr.context.Instance != nil {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
		vr.context.Instance = nil
	}
	return nil
}

// Resized records a new framebuffer size. The swapchain is rebuilt before
// the next frame.
func (vr *VulkanRenderer) Resized(width, height uint32) {
	// Update the "framebuffer size generation", a counter which indicates when the
	// framebuffer size has been updated.
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height
	vr.context.FramebufferSizeGeneration++

	core.LogInfo("Vulkan renderer backend->resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
}

// DrawFrame renders meshes into the next swapchain image. It reports whether
// the image was presented.
func (vr *VulkanRenderer) DrawFrame(meshes []*VulkanMesh) (bool, error) {
	// Check if the framebuffer has been resized. If so, a new swapchain must be created.
	if vr.context.FramebufferSizeGeneration != vr.context.FramebufferSizeLastGeneration {
		if err := vr.frames.Recreate(); err != nil {
			return false, err
		}
		if vr.context.FramebufferSizeGeneration != vr.context.FramebufferSizeLastGeneration {
			// recreation deferred, the window is minimized
			return false, nil
		}
	}
	return vr.frames.Frame(func(slot, image uint32) error {
		return vr.record(image, meshes)
	})
}

func (vr *VulkanRenderer) record(image uint32, meshes []*VulkanMesh) error {
	commandBuffer := vr.context.GraphicsCommandBuffers[image]
	commandBuffer.Reset()
	if err := commandBuffer.Begin(false, false, false); err != nil {
		return err
	}

	width, height := vr.context.FramebufferWidth, vr.context.FramebufferHeight
	viewport := vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(width),
		Height:   float32(height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{Width: width, Height: height},
	}
	vk.CmdSetViewport(commandBuffer.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})

	vr.context.MainRenderpass.W = float32(width)
	vr.context.MainRenderpass.H = float32(height)
	vr.context.MainRenderpass.RenderpassBegin(commandBuffer, vr.context.Swapchain.Framebuffers[image].Handle)

	if vr.pipeline != nil && len(meshes) > 0 {
		vk.CmdSetLineWidth(commandBuffer.Handle, 1.0)
		vr.pipeline.Bind(commandBuffer, vk.PipelineBindPointGraphics)
		for _, mesh := range meshes {
			if err := mesh.Draw(commandBuffer); err != nil {
				vr.context.MainRenderpass.RenderpassEnd(commandBuffer)
				commandBuffer.End()
				return err
			}
		}
	}

	vr.context.MainRenderpass.RenderpassEnd(commandBuffer)
	return commandBuffer.End()
}

// Frames exposes the frame loop, for its counters and metrics.
func (vr *VulkanRenderer) Frames() *frame.FrameLoop {
	return vr.frames
}

func (vr *VulkanRenderer) UploadGeometry(g *geometry.Geometry) (*VulkanMesh, error) {
	return UploadGeometry(vr.context, g)
}

// DestroyMesh waits for the device before releasing mesh, frames in flight
// may still read its buffers.
func (vr *VulkanRenderer) DestroyMesh(mesh *VulkanMesh) {
	vr.WaitIdle()
	mesh.Destroy(vr.context)
}

func (vr *VulkanRenderer) UploadTexture(m *mipmap.Mipmap) (*VulkanImage, error) {
	return UploadMipmap(vr.context, m)
}

func (vr *VulkanRenderer) DestroyTexture(image *VulkanImage) {
	vr.WaitIdle()
	image.Destroy(vr.context)
}

// frame.Backend

func (vr *VulkanRenderer) CreateFence(signaled bool) (frame.Fence, error) {
	f, err := NewFence(vr.context, signaled)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (vr *VulkanRenderer) CreateSemaphore() (frame.Semaphore, error) {
	s, err := NewSemaphore(vr.context)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (vr *VulkanRenderer) ImageCount() uint32 {
	return vr.context.Swapchain.ImageCount
}

func (vr *VulkanRenderer) AcquireNextImage(available frame.Semaphore) (uint32, error) {
	return vr.context.Swapchain.AcquireNextImageIndex(vr.context, ^uint64(0), available.(*VulkanSemaphore).Handle)
}

func (vr *VulkanRenderer) Submit(image uint32, wait, signal frame.Semaphore, fence frame.Fence) error {
	return vr.submit(vr.context.GraphicsCommandBuffers[image], wait, signal, fence)
}

// Skip submits the prerecorded clear of image. The graphics command buffer
// of image may still be pending, so it is left alone.
func (vr *VulkanRenderer) Skip(image uint32, wait, signal frame.Semaphore, fence frame.Fence) error {
	return vr.submit(vr.context.ClearCommandBuffers[image], wait, signal, fence)
}

func (vr *VulkanRenderer) submit(commandBuffer *VulkanCommandBuffer, wait, signal frame.Semaphore, fence frame.Fence) error {
	vulkanFence := fence.(*VulkanFence)

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{commandBuffer.Handle},
		// The semaphore(s) to be signaled when the queue is complete.
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{signal.(*VulkanSemaphore).Handle},
		// Wait semaphore ensures that the operation cannot begin until the image is available.
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait.(*VulkanSemaphore).Handle},
		// Color attachment writes wait for the image, earlier stages do not.
		PWaitDstStageMask: []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
	}

	err := vr.context.locks.SafeQueueCall(uint32(vr.context.Device.GraphicsQueueIndex), func() error {
		return resultError(vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, vulkanFence.Handle), "vkQueueSubmit")
	})
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	commandBuffer.UpdateSubmitted()
	return nil
}

func (vr *VulkanRenderer) Present(image uint32, wait frame.Semaphore) error {
	return vr.context.Swapchain.Present(vr.context, wait.(*VulkanSemaphore).Handle, image)
}

// Recreate rebuilds the swapchain with the last size reported by the window.
func (vr *VulkanRenderer) Recreate() error {
	// If already being recreated, do not try again.
	if vr.context.RecreatingSwapchain {
		return errors.Wrap(core.ErrSwapchainBooting, "recreation already in progress")
	}
	// Detect if the window is too small to be drawn to
	if vr.cachedFramebufferWidth == 0 || vr.cachedFramebufferHeight == 0 {
		return errors.Wrapf(core.ErrSwapchainBooting, "window size %dx%d", vr.cachedFramebufferWidth, vr.cachedFramebufferHeight)
	}

	vr.context.RecreatingSwapchain = true
	defer func() { vr.context.RecreatingSwapchain = false }()

	// Wait for any operations to complete.
	if err := vr.WaitIdle(); err != nil {
		return err
	}

	if !DeviceDetectDepthFormat(vr.context.Device) {
		return errors.Wrap(core.ErrDeviceFailure, "no depth format")
	}

	// framebuffers reference the old views
	vr.destroyFramebuffers()
	sc, err := vr.context.Swapchain.SwapchainRecreate(vr.context, vr.cachedFramebufferWidth, vr.cachedFramebufferHeight, vr.vsync)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc
	vr.syncFramebufferSize()

	// Update framebuffer size generation.
	vr.context.FramebufferSizeLastGeneration = vr.context.FramebufferSizeGeneration

	vr.context.MainRenderpass.X = 0
	vr.context.MainRenderpass.Y = 0
	vr.context.MainRenderpass.W = float32(vr.context.FramebufferWidth)
	vr.context.MainRenderpass.H = float32(vr.context.FramebufferHeight)

	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}
	return vr.createCommandBuffers()
}

func (vr *VulkanRenderer) WaitIdle() error {
	if vr.context.Device.LogicalDevice == nil {
		return nil
	}
	return resultError(vk.DeviceWaitIdle(vr.context.Device.LogicalDevice), "vkDeviceWaitIdle")
}

// syncFramebufferSize takes the size the surface actually got.
func (vr *VulkanRenderer) syncFramebufferSize() {
	vr.context.FramebufferWidth = vr.context.Swapchain.Extent.Width
	vr.context.FramebufferHeight = vr.context.Swapchain.Extent.Height
}

func (vr *VulkanRenderer) createCommandBuffers() error {
	vr.freeCommandBuffers()
	count := vr.context.Swapchain.ImageCount
	vr.context.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, count)
	vr.context.ClearCommandBuffers = make([]*VulkanCommandBuffer, count)
	for i := uint32(0); i < count; i++ {
		cb, err := NewVulkanCommandBuffer(vr.context, vr.context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		vr.context.GraphicsCommandBuffers[i] = cb

		clearBuffer, err := NewVulkanCommandBuffer(vr.context, vr.context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		vr.context.ClearCommandBuffers[i] = clearBuffer
		if err := vr.recordClear(clearBuffer, i); err != nil {
			return err
		}
	}
	core.LogDebug("Vulkan command buffers created.")
	return nil
}

// recordClear records a render pass without draws into commandBuffer. Its
// load and store ops clear image and move it to the present layout.
func (vr *VulkanRenderer) recordClear(commandBuffer *VulkanCommandBuffer, image uint32) error {
	// submitted again while an earlier submission may still be pending
	if err := commandBuffer.Begin(false, false, true); err != nil {
		return err
	}
	vr.context.MainRenderpass.W = float32(vr.context.FramebufferWidth)
	vr.context.MainRenderpass.H = float32(vr.context.FramebufferHeight)
	vr.context.MainRenderpass.RenderpassBegin(commandBuffer, vr.context.Swapchain.Framebuffers[image].Handle)
	vr.context.MainRenderpass.RenderpassEnd(commandBuffer)
	return commandBuffer.End()
}

func (vr *VulkanRenderer) freeCommandBuffers() {
	for _, buffers := range [][]*VulkanCommandBuffer{vr.context.GraphicsCommandBuffers, vr.context.ClearCommandBuffers} {
		for _, cb := range buffers {
			if cb != nil {
				cb.Free(vr.context, vr.context.Device.GraphicsCommandPool)
			}
		}
	}
	vr.context.GraphicsCommandBuffers = nil
	vr.context.ClearCommandBuffers = nil
}

func (vr *VulkanRenderer) regenerateFramebuffers() error {
	swapchain := vr.context.Swapchain
	swapchain.Framebuffers = make([]*VulkanFramebuffer, swapchain.ImageCount)
	for i := range swapchain.Framebuffers {
		// TODO: make this dynamic based on the currently configured attachments
		attachments := []vk.ImageView{
			swapchain.Views[i],
			swapchain.DepthAttachment.View,
		}
		fb, err := FramebufferCreate(vr.context, vr.context.MainRenderpass, vr.context.FramebufferWidth, vr.context.FramebufferHeight, attachments)
		if err != nil {
			core.LogError("failed to execute framebuffer create function")
			return err
		}
		swapchain.Framebuffers[i] = fb
	}
	return nil
}

func (vr *VulkanRenderer) destroyFramebuffers() {
	for _, fb := range vr.context.Swapchain.Framebuffers {
		if fb != nil {
			fb.Destroy(vr.context)
		}
	}
	vr.context.Swapchain.Framebuffers = nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		core.LogDebug("DEBUG: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
