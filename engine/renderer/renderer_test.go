package renderer

import (
	"image"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/mipmap"
	"github.com/spaghettifunk/prism/engine/renderer/vulkan"
)

type fakeBackend struct {
	uploaded  int
	destroyed []*vulkan.VulkanMesh
	textures  int
	released  int
	drawn     []*vulkan.VulkanMesh
	resized   [2]uint32
	failNext  bool
	shutdown  bool
}

func (b *fakeBackend) Initialize(cfg *core.Config, createInfo *geometry.GeometryCreateInfo) error {
	return nil
}

func (b *fakeBackend) Shutdown() error {
	b.shutdown = true
	return nil
}

func (b *fakeBackend) Resized(width, height uint32) {
	b.resized = [2]uint32{width, height}
}

func (b *fakeBackend) DrawFrame(meshes []*vulkan.VulkanMesh) (bool, error) {
	b.drawn = append([]*vulkan.VulkanMesh(nil), meshes...)
	return true, nil
}

func (b *fakeBackend) UploadGeometry(g *geometry.Geometry) (*vulkan.VulkanMesh, error) {
	if b.failNext {
		b.failNext = false
		return nil, core.ErrDeviceFailure
	}
	b.uploaded++
	return &vulkan.VulkanMesh{VertexCount: g.VertexCount()}, nil
}

func (b *fakeBackend) DestroyMesh(mesh *vulkan.VulkanMesh) {
	b.destroyed = append(b.destroyed, mesh)
}

func (b *fakeBackend) UploadTexture(m *mipmap.Mipmap) (*vulkan.VulkanImage, error) {
	b.textures++
	return &vulkan.VulkanImage{Width: m.Width(0), Height: m.Height(0)}, nil
}

func (b *fakeBackend) DestroyTexture(image *vulkan.VulkanImage) {
	b.released++
}

func cube(t *testing.T) *geometry.Geometry {
	t.Helper()
	ci := geometry.Interleaved().AddPosition()
	g, err := geometry.NewGeometryFromTriMesh(ci, geometry.CreateCube(math.Vec3{X: 1, Y: 1, Z: 1}, geometry.DefaultTriMeshOptions()))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSetMeshKeepsDrawOrder(t *testing.T) {
	backend := &fakeBackend{}
	r := New(backend)
	a, b := uuid.New(), uuid.New()
	g := cube(t)

	for _, id := range []uuid.UUID{a, b} {
		if err := r.SetMesh(id, g); err != nil {
			t.Fatal(err)
		}
	}
	first := r.meshes[a]

	// replacing a keeps its slot
	if err := r.SetMesh(a, g); err != nil {
		t.Fatal(err)
	}
	if len(backend.destroyed) != 1 || backend.destroyed[0] != first {
		t.Errorf("destroyed %v", backend.destroyed)
	}

	if _, err := r.DrawFrame(); err != nil {
		t.Fatal(err)
	}
	if len(backend.drawn) != 2 || backend.drawn[0] != r.meshes[a] || backend.drawn[1] != r.meshes[b] {
		t.Errorf("draw list %v", backend.drawn)
	}
}

func TestSetMeshFailureKeepsPrevious(t *testing.T) {
	backend := &fakeBackend{}
	r := New(backend)
	id := uuid.New()
	if err := r.SetMesh(id, cube(t)); err != nil {
		t.Fatal(err)
	}
	previous := r.meshes[id]

	backend.failNext = true
	if err := r.SetMesh(id, cube(t)); !errors.Is(err, core.ErrDeviceFailure) {
		t.Fatalf("error = %v", err)
	}
	if r.meshes[id] != previous || len(backend.destroyed) != 0 {
		t.Error("failed upload replaced the mesh")
	}
}

func TestRemoveMesh(t *testing.T) {
	backend := &fakeBackend{}
	r := New(backend)
	a, b := uuid.New(), uuid.New()
	r.SetMesh(a, cube(t))
	r.SetMesh(b, cube(t))

	if !r.RemoveMesh(a) {
		t.Fatal("mesh not removed")
	}
	if r.RemoveMesh(a) {
		t.Error("mesh removed twice")
	}
	r.DrawFrame()
	if len(backend.drawn) != 1 || backend.drawn[0] != r.meshes[b] {
		t.Errorf("draw list %v", backend.drawn)
	}
}

func TestTexturesAndShutdown(t *testing.T) {
	backend := &fakeBackend{}
	r := New(backend)
	m, err := mipmap.Generate(image.NewRGBA(image.Rect(0, 0, 4, 4)), 0)
	if err != nil {
		t.Fatal(err)
	}
	id := uuid.New()
	if err := r.SetTexture(id, m); err != nil {
		t.Fatal(err)
	}
	if err := r.SetTexture(id, m); err != nil {
		t.Fatal(err)
	}
	if backend.textures != 2 || backend.released != 1 || r.TextureCount() != 1 {
		t.Errorf("uploaded %d released %d count %d", backend.textures, backend.released, r.TextureCount())
	}
	r.SetMesh(uuid.New(), cube(t))

	r.OnResize(640, 480)
	if backend.resized != [2]uint32{640, 480} {
		t.Errorf("resized %v", backend.resized)
	}

	if err := r.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if !backend.shutdown || backend.released != 2 || len(backend.destroyed) != 1 {
		t.Errorf("shutdown %v released %d destroyed %d", backend.shutdown, backend.released, len(backend.destroyed))
	}
	if r.MeshCount() != 0 || r.TextureCount() != 0 {
		t.Error("resources left after shutdown")
	}
}
