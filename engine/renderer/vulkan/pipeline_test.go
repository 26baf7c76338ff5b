package vulkan

import (
	"encoding/binary"
	"testing"

	"github.com/cockroachdb/errors"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

func TestVertexInputDescriptionsInterleaved(t *testing.T) {
	ci := geometry.Interleaved().AddPosition().AddNormal().AddTexCoord()
	bindings, attributes, err := VertexInputDescriptions(ci)
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 1 || bindings[0].Stride != 32 || bindings[0].InputRate != vk.VertexInputRateVertex {
		t.Fatalf("bindings = %+v", bindings)
	}
	want := []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 12},
		{Location: 2, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: 24},
	}
	if len(attributes) != len(want) {
		t.Fatalf("%d attributes, want %d", len(attributes), len(want))
	}
	for i := range want {
		if attributes[i] != want[i] {
			t.Errorf("attribute %d = %+v, want %+v", i, attributes[i], want[i])
		}
	}
}

func TestVertexInputDescriptionsPlanar(t *testing.T) {
	ci := geometry.Planar().WithCompressed().AddPosition().AddColor()
	bindings, attributes, err := VertexInputDescriptions(ci)
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 2 || len(attributes) != 2 {
		t.Fatalf("%d bindings, %d attributes", len(bindings), len(attributes))
	}
	if bindings[1].Binding != 1 || bindings[1].Stride != 4 {
		t.Errorf("color binding = %+v", bindings[1])
	}
	if attributes[1].Binding != 1 || attributes[1].Offset != 0 || attributes[1].Format != vk.FormatR8g8b8a8Unorm {
		t.Errorf("color attribute = %+v", attributes[1])
	}
}

func TestVertexInputDescriptionsSkipsEmptyBinding(t *testing.T) {
	ci := geometry.PositionPlanar().AddPosition()
	bindings, _, err := VertexInputDescriptions(ci)
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 1 || bindings[0].Binding != 0 {
		t.Errorf("bindings = %+v", bindings)
	}
}

func TestVertexInputDescriptionsInstanceRate(t *testing.T) {
	ci := geometry.Interleaved().AddPosition()
	instance := metadata.NewVertexBindingFromAttribute(metadata.VertexAttribute{
		SemanticName: "INSTANCE_OFFSET",
		Location:     1,
		Format:       metadata.FormatR32G32B32Float,
		Binding:      1,
		InputRate:    metadata.VertexInputRateInstance,
	})
	if err := ci.AppendBinding(instance); err != nil {
		t.Fatal(err)
	}
	bindings, _, err := VertexInputDescriptions(ci)
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 2 || bindings[1].InputRate != vk.VertexInputRateInstance {
		t.Errorf("bindings = %+v", bindings)
	}
}

func spirv(words ...uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func TestSpirvWords(t *testing.T) {
	words, err := spirvWords(spirv(spirvMagic, 0x00010000, 7))
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 3 || words[1] != 0x00010000 || words[2] != 7 {
		t.Errorf("words = %x", words)
	}

	for name, code := range map[string][]byte{
		"empty":     nil,
		"unaligned": append(spirv(spirvMagic), 0),
		"magic":     spirv(0xdeadbeef, 0),
	} {
		if _, err := spirvWords(code); !errors.Is(err, core.ErrLoadFailed) {
			t.Errorf("%s: error = %v", name, err)
		}
	}
}
