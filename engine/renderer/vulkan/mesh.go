package vulkan

import (
	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

/**
 * @brief Device local copy of a Geometry, one buffer per vertex binding plus
 * the optional index buffer.
 */
type VulkanMesh struct {
	VertexBuffers []*VulkanBuffer
	// binding numbers, parallel to VertexBuffers
	Bindings    []uint32
	IndexBuffer *VulkanBuffer
	IndexType   metadata.IndexType
	VertexCount uint32
	IndexCount  uint32
	Topology    metadata.PrimitiveTopology
}

// UploadGeometry copies every buffer of g to device local memory. All copies
// share one staging buffer sized after the largest geometry buffer.
func UploadGeometry(context *VulkanContext, g *geometry.Geometry) (*VulkanMesh, error) {
	if err := checkVertexBuffers(g); err != nil {
		return nil, err
	}

	mesh := &VulkanMesh{
		IndexType:   g.IndexType(),
		VertexCount: g.VertexCount(),
		IndexCount:  g.IndexCount(),
		Topology:    g.CreateInfo().PrimitiveTopology,
	}

	var scope ScopeDestroyer
	defer scope.Destroy()
	scope.Add(func() { mesh.Destroy(context) })

	staging, err := NewStagingBuffer(context, uint64(g.LargestBufferSize()))
	if err != nil {
		return nil, err
	}
	scope.Add(func() { staging.Destroy(context) })

	usage := vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)
	deviceLocal := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)

	for i := 0; i < g.VertexBufferCount(); i++ {
		source, err := g.VertexBuffer(i)
		if err != nil {
			return nil, err
		}
		if g.VertexBinding(i).AttributeCount() == 0 {
			continue
		}
		buffer, err := NewBuffer(context, uint64(source.Size()), usage|vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit), deviceLocal)
		if err != nil {
			return nil, errors.Wrapf(err, "vertex buffer %d", i)
		}
		mesh.VertexBuffers = append(mesh.VertexBuffers, buffer)
		mesh.Bindings = append(mesh.Bindings, g.VertexBinding(i).Binding())

		if err := uploadBuffer(context, staging, buffer, source.Data(), metadata.ResourceStateVertexBuffer); err != nil {
			return nil, errors.Wrapf(err, "vertex buffer %d", i)
		}
	}

	if source := g.IndexBuffer(); source != nil && source.Size() > 0 {
		buffer, err := NewBuffer(context, uint64(source.Size()), usage|vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit), deviceLocal)
		if err != nil {
			return nil, errors.Wrap(err, "index buffer")
		}
		mesh.IndexBuffer = buffer
		if err := uploadBuffer(context, staging, buffer, source.Data(), metadata.ResourceStateIndexBuffer); err != nil {
			return nil, errors.Wrap(err, "index buffer")
		}
	}

	// only the staging buffer goes away
	scope.Release(1)
	core.LogDebug("Uploaded geometry: %d vertices, %d indices, %d vertex buffers.", mesh.VertexCount, mesh.IndexCount, len(mesh.VertexBuffers))
	return mesh, nil
}

// checkVertexBuffers fails unless every binding with attributes holds one
// element per vertex, since the pipeline reads each of them.
func checkVertexBuffers(g *geometry.Geometry) error {
	if g.VertexCount() == 0 {
		return errors.Wrap(core.ErrInvalidCreateArgument, "geometry has no vertices")
	}
	for i := 0; i < g.VertexBufferCount(); i++ {
		binding := g.VertexBinding(i)
		if binding.AttributeCount() == 0 {
			continue
		}
		source, err := g.VertexBuffer(i)
		if err != nil {
			return err
		}
		if n := source.ElementCount(); n != g.VertexCount() {
			return errors.Wrapf(core.ErrInvalidCreateArgument,
				"vertex buffer %d (binding %d) holds %d of %d vertices", i, binding.Binding(), n, g.VertexCount())
		}
	}
	return nil
}

// uploadBuffer copies data through staging into dst and leaves dst in state.
func uploadBuffer(context *VulkanContext, staging, dst *VulkanBuffer, data []byte, state metadata.ResourceState) error {
	if err := staging.LoadData(context, 0, data); err != nil {
		return err
	}

	pool := context.Device.GraphicsCommandPool
	cb, err := AllocateAndBeginSingleUse(context, pool)
	if err != nil {
		return err
	}
	cb.CopyBufferToBuffer(staging.Handle, 0, dst.Handle, 0, uint64(len(data)))
	if err := cb.BufferResourceBarrier(dst.Handle, 0, dst.Size, metadata.ResourceStateCopyDst, state, QueueFamilyIgnored, QueueFamilyIgnored); err != nil {
		cb.Free(context, pool)
		return err
	}
	return cb.EndSingleUse(context, pool, context.Device.GraphicsQueue, uint32(context.Device.GraphicsQueueIndex))
}

// Draw binds the buffers of the mesh and records one draw.
func (m *VulkanMesh) Draw(cb *VulkanCommandBuffer) error {
	for i, b := range m.VertexBuffers {
		cb.BindVertexBuffers(m.Bindings[i], []vk.Buffer{b.Handle}, nil)
	}

	if m.IndexBuffer == nil {
		cb.Draw(m.VertexCount, 1)
		return nil
	}
	if err := cb.BindIndexBuffer(m.IndexBuffer.Handle, 0, m.IndexType); err != nil {
		return err
	}
	cb.DrawIndexed(m.IndexCount, 1)
	return nil
}

func (m *VulkanMesh) Destroy(context *VulkanContext) {
	for _, b := range m.VertexBuffers {
		b.Destroy(context)
	}
	m.VertexBuffers = nil
	m.Bindings = nil
	if m.IndexBuffer != nil {
		m.IndexBuffer.Destroy(context)
		m.IndexBuffer = nil
	}
}
