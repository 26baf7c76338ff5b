package metadata

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
)

func TestVertexBindingAutoOffsets(t *testing.T) {
	formats := []Format{
		FormatR32G32B32Float,
		FormatR8G8B8A8Unorm,
		FormatR32G32Float,
		FormatR16G16B16A16Float,
		FormatR32Float,
	}
	b := NewVertexBinding(3, VertexInputRateVertex)
	for i, f := range formats {
		b.AppendAttribute(VertexAttribute{Location: uint32(i), Format: f, Semantic: VertexSemanticTexcoord0 + VertexSemantic(i)})
	}

	var sum uint32
	for i, attr := range b.Attributes() {
		if !attr.Offset.Valid || attr.Offset.Value != sum {
			t.Errorf("attribute %d offset = %+v, want %d", i, attr.Offset, sum)
		}
		if attr.Binding != 3 {
			t.Errorf("attribute %d binding = %d, want 3", i, attr.Binding)
		}
		sum += attr.Format.Size()
	}
	if b.Stride() != sum {
		t.Errorf("stride = %d, want %d", b.Stride(), sum)
	}
}

func TestVertexBindingExplicitOffsetAndStride(t *testing.T) {
	b := NewVertexBinding(0, VertexInputRateVertex)
	b.AppendAttribute(VertexAttribute{Format: FormatR32G32B32Float, Semantic: VertexSemanticPosition})
	b.AppendAttribute(VertexAttribute{Format: FormatR32G32B32Float, Semantic: VertexSemanticNormal, Offset: Some(uint32(16))})
	b.AppendAttribute(VertexAttribute{Format: FormatR32G32Float, Semantic: VertexSemanticTexcoord0})

	attrs := b.Attributes()
	if attrs[1].Offset.Value != 16 {
		t.Errorf("explicit offset overwritten: %d", attrs[1].Offset.Value)
	}
	if attrs[2].Offset.Value != 28 {
		t.Errorf("offset after explicit = %d, want 28", attrs[2].Offset.Value)
	}
	// stride is the sum of sizes, not the end of the last attribute
	if b.Stride() != 32 {
		t.Errorf("stride = %d, want 32", b.Stride())
	}
	b.SetStride(48)
	if b.Stride() != 48 {
		t.Errorf("SetStride ignored: %d", b.Stride())
	}
}

func TestVertexBindingInputRateSeededByFirstAttribute(t *testing.T) {
	b := NewVertexBinding(1, VertexInputRateVertex)
	b.AppendAttribute(VertexAttribute{Format: FormatR32G32B32A32Float, InputRate: VertexInputRateInstance})
	if b.InputRate() != VertexInputRateInstance {
		t.Errorf("input rate = %d", b.InputRate())
	}
}

func TestVertexBindingAttributeLookup(t *testing.T) {
	b := NewVertexBinding(0, VertexInputRateVertex)
	b.AppendAttribute(VertexAttribute{Format: FormatR32G32B32Float, Semantic: VertexSemanticPosition})
	b.AppendAttribute(VertexAttribute{Format: FormatR32G32B32Float, Semantic: VertexSemanticColor})

	if i, ok := b.GetAttributeIndex(VertexSemanticColor); !ok || i != 1 {
		t.Errorf("GetAttributeIndex(Color) = %d, %v", i, ok)
	}
	if _, ok := b.GetAttributeIndex(VertexSemanticNormal); ok {
		t.Error("GetAttributeIndex(Normal) found a missing attribute")
	}
	if _, err := b.Attribute(2); !errors.Is(err, core.ErrOutOfRange) {
		t.Errorf("Attribute(2) err = %v", err)
	}

	b.SetBinding(5)
	for _, a := range b.Attributes() {
		if a.Binding != 5 {
			t.Errorf("attribute binding = %d after SetBinding(5)", a.Binding)
		}
	}
}

func TestVertexDescriptionAppendBinding(t *testing.T) {
	var d VertexDescription
	if err := d.AppendBinding(NewVertexBinding(0, VertexInputRateVertex)); err != nil {
		t.Fatal(err)
	}
	if err := d.AppendBinding(NewVertexBinding(0, VertexInputRateVertex)); !errors.Is(err, core.ErrDuplicateBinding) {
		t.Errorf("duplicate binding err = %v", err)
	}
	for i := 1; i < MaxVertexBindings; i++ {
		if err := d.AppendBinding(NewVertexBinding(uint32(i), VertexInputRateVertex)); err != nil {
			t.Fatalf("binding %d: %v", i, err)
		}
	}
	if err := d.AppendBinding(NewVertexBinding(99, VertexInputRateVertex)); !errors.Is(err, core.ErrOutOfRange) {
		t.Errorf("overflow err = %v", err)
	}
	if d.BindingCount() != MaxVertexBindings {
		t.Errorf("binding count = %d", d.BindingCount())
	}
}

func TestVertexDescriptionClone(t *testing.T) {
	var d VertexDescription
	d.AppendBinding(NewVertexBinding(0, VertexInputRateVertex).
		AppendAttribute(VertexAttribute{Format: FormatR32G32B32Float, Semantic: VertexSemanticPosition}))

	c := d.Clone()
	original, _ := d.Binding(0)
	original.AppendAttribute(VertexAttribute{Format: FormatR32G32Float, Semantic: VertexSemanticTexcoord0})

	clone, _ := c.Binding(0)
	if clone == original {
		t.Fatal("clone shares the binding")
	}
	if clone.AttributeCount() != 1 || clone.Stride() != 12 {
		t.Errorf("clone has %d attributes, stride %d", clone.AttributeCount(), clone.Stride())
	}
	if original.Stride() != 20 {
		t.Errorf("original stride %d", original.Stride())
	}
}

func TestParseEnums(t *testing.T) {
	if l, err := ParseVertexLayout("position_planar"); err != nil || l != VertexLayoutPositionPlanar {
		t.Errorf("ParseVertexLayout = %v, %v", l, err)
	}
	if _, err := ParseVertexLayout("zigzag"); !errors.Is(err, core.ErrInvalidCreateArgument) {
		t.Errorf("ParseVertexLayout(zigzag) err = %v", err)
	}
	if it, err := ParseIndexType("uint16"); err != nil || it.Size() != 2 {
		t.Errorf("ParseIndexType = %v, %v", it, err)
	}
	if it, _ := ParseIndexType("none"); it != IndexTypeUndefined || it.Size() != 0 {
		t.Errorf("ParseIndexType(none) = %v", it)
	}
}
