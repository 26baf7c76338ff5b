package metadata

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
)

/** @brief Maximum number of vertex bindings a description can hold. */
const MaxVertexBindings = 16

type VertexSemantic uint32

const (
	VertexSemanticUndefined VertexSemantic = iota
	VertexSemanticPosition
	VertexSemanticNormal
	VertexSemanticColor
	VertexSemanticTangent
	VertexSemanticBitangent
	VertexSemanticTexcoord0
	VertexSemanticTexcoord1
	VertexSemanticTexcoord2
	VertexSemanticTexcoord3
	VertexSemanticTexcoord4
	VertexSemanticTexcoord5
	VertexSemanticTexcoord6
	VertexSemanticTexcoord7
	VertexSemanticTexcoord8
	VertexSemanticTexcoord9
)

// Default shader semantic names, matching the HLSL input signature of the
// built-in shaders.
const (
	SemanticNamePosition  = "POSITION"
	SemanticNameNormal    = "NORMAL"
	SemanticNameColor     = "COLOR"
	SemanticNameTexcoord  = "TEXCOORD"
	SemanticNameTangent   = "TANGENT"
	SemanticNameBitangent = "BITANGENT"
)

func (s VertexSemantic) String() string {
	switch s {
	case VertexSemanticPosition:
		return "Position"
	case VertexSemanticNormal:
		return "Normal"
	case VertexSemanticColor:
		return "Color"
	case VertexSemanticTangent:
		return "Tangent"
	case VertexSemanticBitangent:
		return "Bitangent"
	}
	if s >= VertexSemanticTexcoord0 && s <= VertexSemanticTexcoord9 {
		return fmt.Sprintf("Texcoord%d", s-VertexSemanticTexcoord0)
	}
	return "Undefined"
}

type VertexInputRate uint32

const (
	VertexInputRateVertex VertexInputRate = iota
	VertexInputRateInstance
)

/**
 * @brief Describes where a single vertex attribute lives inside a binding.
 */
type VertexAttribute struct {
	SemanticName string
	Location     uint32
	Format       Format
	Binding      uint32
	/** @brief Byte offset inside the binding. When absent it is computed on append. */
	Offset    Optional[uint32]
	InputRate VertexInputRate
	Semantic  VertexSemantic
}

/**
 * @brief A group of attributes sharing one stride and input rate.
 */
type VertexBinding struct {
	binding    uint32
	stride     uint32
	inputRate  VertexInputRate
	attributes []VertexAttribute
}

func NewVertexBinding(binding uint32, inputRate VertexInputRate) *VertexBinding {
	return &VertexBinding{
		binding:   binding,
		inputRate: inputRate,
	}
}

// NewVertexBindingFromAttribute creates a binding numbered after attr.Binding
// holding attr as its only attribute.
func NewVertexBindingFromAttribute(attr VertexAttribute) *VertexBinding {
	b := NewVertexBinding(attr.Binding, attr.InputRate)
	b.AppendAttribute(attr)
	return b
}

// Clone returns a deep copy of the binding.
func (b *VertexBinding) Clone() *VertexBinding {
	c := *b
	c.attributes = append([]VertexAttribute(nil), b.attributes...)
	return &c
}

func (b *VertexBinding) Binding() uint32 {
	return b.binding
}

// SetBinding renumbers the binding and every attribute it holds.
func (b *VertexBinding) SetBinding(binding uint32) {
	b.binding = binding
	for i := range b.attributes {
		b.attributes[i].Binding = binding
	}
}

func (b *VertexBinding) Stride() uint32 {
	return b.stride
}

// SetStride overrides the computed stride, for padded layouts.
func (b *VertexBinding) SetStride(stride uint32) {
	b.stride = stride
}

func (b *VertexBinding) InputRate() VertexInputRate {
	return b.inputRate
}

func (b *VertexBinding) AttributeCount() int {
	return len(b.attributes)
}

// Attributes returns the attributes in declaration order. The slice must not be modified.
func (b *VertexBinding) Attributes() []VertexAttribute {
	return b.attributes
}

func (b *VertexBinding) Attribute(index int) (VertexAttribute, error) {
	if index < 0 || index >= len(b.attributes) {
		return VertexAttribute{}, errors.Wrapf(core.ErrOutOfRange, "attribute %d of %d", index, len(b.attributes))
	}
	return b.attributes[index], nil
}

// GetAttributeIndex returns the position of the first attribute carrying semantic.
func (b *VertexBinding) GetAttributeIndex(semantic VertexSemantic) (int, bool) {
	for i, attr := range b.attributes {
		if attr.Semantic == semantic {
			return i, true
		}
	}
	return 0, false
}

// AppendAttribute adds attr at the end of the binding. An attribute without
// an offset is placed right after the previous one. The stride is recomputed
// from every attribute in the binding.
func (b *VertexBinding) AppendAttribute(attr VertexAttribute) *VertexBinding {
	if len(b.attributes) == 0 {
		b.inputRate = attr.InputRate
	}
	attr.Binding = b.binding
	if !attr.Offset.Valid {
		offset := uint32(0)
		if n := len(b.attributes); n > 0 {
			prev := b.attributes[n-1]
			offset = prev.Offset.Value + prev.Format.Size()
		}
		attr.Offset = Some(offset)
	}
	b.attributes = append(b.attributes, attr)

	b.stride = 0
	for _, a := range b.attributes {
		b.stride += a.Format.Size()
	}
	return b
}

/**
 * @brief An ordered set of vertex bindings, as consumed by a graphics pipeline.
 */
type VertexDescription struct {
	bindings []*VertexBinding
}

// Clone returns a copy holding clones of every binding.
func (d *VertexDescription) Clone() VertexDescription {
	c := VertexDescription{bindings: make([]*VertexBinding, len(d.bindings))}
	for i, b := range d.bindings {
		c.bindings[i] = b.Clone()
	}
	return c
}

func (d *VertexDescription) BindingCount() int {
	return len(d.bindings)
}

func (d *VertexDescription) Binding(index int) (*VertexBinding, error) {
	if index < 0 || index >= len(d.bindings) {
		return nil, errors.Wrapf(core.ErrOutOfRange, "binding %d of %d", index, len(d.bindings))
	}
	return d.bindings[index], nil
}

func (d *VertexDescription) Bindings() []*VertexBinding {
	return d.bindings
}

// AppendBinding adds binding, rejecting a binding number already in use and
// more than MaxVertexBindings bindings.
func (d *VertexDescription) AppendBinding(binding *VertexBinding) error {
	if len(d.bindings) >= MaxVertexBindings {
		return errors.Wrapf(core.ErrOutOfRange, "vertex description already holds %d bindings", MaxVertexBindings)
	}
	for _, b := range d.bindings {
		if b.binding == binding.binding {
			return errors.Wrapf(core.ErrDuplicateBinding, "binding %d", binding.binding)
		}
	}
	d.bindings = append(d.bindings, binding)
	return nil
}

// AttributeCount returns the total number of attributes over all bindings.
func (d *VertexDescription) AttributeCount() int {
	n := 0
	for _, b := range d.bindings {
		n += b.AttributeCount()
	}
	return n
}
