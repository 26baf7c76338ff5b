package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/renderer/mipmap"
	"github.com/spaghettifunk/prism/engine/renderer/vulkan"
)

/**
 * @brief Front end over a backend. Owns the GPU copies of meshes and
 * textures, keyed by asset id, and draws every mesh each frame in the order
 * they were first added.
 */
type Renderer struct {
	backend RendererBackend

	meshes   map[uuid.UUID]*vulkan.VulkanMesh
	order    []uuid.UUID
	drawList []*vulkan.VulkanMesh
	textures map[uuid.UUID]*vulkan.VulkanImage
}

func New(backend RendererBackend) *Renderer {
	return &Renderer{
		backend:  backend,
		meshes:   make(map[uuid.UUID]*vulkan.VulkanMesh),
		textures: make(map[uuid.UUID]*vulkan.VulkanImage),
	}
}

func (r *Renderer) Initialize(cfg *core.Config, createInfo *geometry.GeometryCreateInfo) error {
	return r.backend.Initialize(cfg, createInfo)
}

// Shutdown releases every mesh and texture, then the backend.
func (r *Renderer) Shutdown() error {
	for _, id := range r.order {
		r.backend.DestroyMesh(r.meshes[id])
	}
	r.meshes = make(map[uuid.UUID]*vulkan.VulkanMesh)
	r.order = nil
	r.drawList = nil
	for id, t := range r.textures {
		r.backend.DestroyTexture(t)
		delete(r.textures, id)
	}
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) {
	r.backend.Resized(width, height)
}

// SetMesh uploads g under id. The previous upload for id, if any, is
// released only once the new one succeeded.
func (r *Renderer) SetMesh(id uuid.UUID, g *geometry.Geometry) error {
	mesh, err := r.backend.UploadGeometry(g)
	if err != nil {
		return errors.Wrapf(err, "uploading mesh %s", id)
	}
	if old, ok := r.meshes[id]; ok {
		r.backend.DestroyMesh(old)
	} else {
		r.order = append(r.order, id)
	}
	r.meshes[id] = mesh
	r.rebuildDrawList()
	return nil
}

func (r *Renderer) RemoveMesh(id uuid.UUID) bool {
	mesh, ok := r.meshes[id]
	if !ok {
		return false
	}
	r.backend.DestroyMesh(mesh)
	delete(r.meshes, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.rebuildDrawList()
	return true
}

func (r *Renderer) SetTexture(id uuid.UUID, m *mipmap.Mipmap) error {
	image, err := r.backend.UploadTexture(m)
	if err != nil {
		return errors.Wrapf(err, "uploading texture %s", id)
	}
	if old, ok := r.textures[id]; ok {
		r.backend.DestroyTexture(old)
	}
	r.textures[id] = image
	return nil
}

func (r *Renderer) RemoveTexture(id uuid.UUID) bool {
	image, ok := r.textures[id]
	if !ok {
		return false
	}
	r.backend.DestroyTexture(image)
	delete(r.textures, id)
	return true
}

func (r *Renderer) MeshCount() int    { return len(r.meshes) }
func (r *Renderer) TextureCount() int { return len(r.textures) }

// DrawFrame draws all meshes. It reports whether a frame was presented.
func (r *Renderer) DrawFrame() (bool, error) {
	return r.backend.DrawFrame(r.drawList)
}

func (r *Renderer) rebuildDrawList() {
	r.drawList = r.drawList[:0]
	for _, id := range r.order {
		r.drawList = append(r.drawList, r.meshes[id])
	}
}
