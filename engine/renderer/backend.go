package renderer

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/renderer/mipmap"
	"github.com/spaghettifunk/prism/engine/renderer/vulkan"
)

// RendererBackend is implemented by vulkan.VulkanRenderer.
type RendererBackend interface {
	Initialize(cfg *core.Config, createInfo *geometry.GeometryCreateInfo) error
	Shutdown() error
	Resized(width, height uint32)
	DrawFrame(meshes []*vulkan.VulkanMesh) (bool, error)
	UploadGeometry(g *geometry.Geometry) (*vulkan.VulkanMesh, error)
	DestroyMesh(mesh *vulkan.VulkanMesh)
	UploadTexture(m *mipmap.Mipmap) (*vulkan.VulkanImage, error)
	DestroyTexture(image *vulkan.VulkanImage)
}

type RendererType uint8

const (
	Vulkan RendererType = iota
)
