package geometry

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

/**
 * @brief Describes the buffers of a geometry: the index type, the topology
 * and the attribute layout over vertex bindings. Build it with Interleaved,
 * Planar or PositionPlanar and the Add* methods. It must not be modified
 * once a Geometry was created from it.
 */
type GeometryCreateInfo struct {
	IndexType         metadata.IndexType
	PrimitiveTopology metadata.PrimitiveTopology
	VertexLayout      metadata.VertexLayout
	// Compressed routes mesh vertices through TriMeshVertexDataCompressed
	// and picks the matching default formats. Set it before adding attributes.
	Compressed bool

	description metadata.VertexDescription
}

func Interleaved() *GeometryCreateInfo {
	ci := &GeometryCreateInfo{VertexLayout: metadata.VertexLayoutInterleaved}
	ci.description.AppendBinding(metadata.NewVertexBinding(0, metadata.VertexInputRateVertex))
	return ci
}

func Planar() *GeometryCreateInfo {
	return &GeometryCreateInfo{VertexLayout: metadata.VertexLayoutPlanar}
}

func PositionPlanar() *GeometryCreateInfo {
	ci := &GeometryCreateInfo{VertexLayout: metadata.VertexLayoutPositionPlanar}
	ci.description.AppendBinding(metadata.NewVertexBinding(0, metadata.VertexInputRateVertex))
	ci.description.AppendBinding(metadata.NewVertexBinding(1, metadata.VertexInputRateVertex))
	return ci
}

// NewGeometryCreateInfo returns an empty create info for layout.
func NewGeometryCreateInfo(layout metadata.VertexLayout) *GeometryCreateInfo {
	switch layout {
	case metadata.VertexLayoutPlanar:
		return Planar()
	case metadata.VertexLayoutPositionPlanar:
		return PositionPlanar()
	}
	return Interleaved()
}

// Clone returns a copy sharing no binding with ci.
func (ci *GeometryCreateInfo) Clone() *GeometryCreateInfo {
	c := *ci
	c.description = ci.description.Clone()
	return &c
}

func (ci *GeometryCreateInfo) WithIndexType(indexType metadata.IndexType) *GeometryCreateInfo {
	ci.IndexType = indexType
	return ci
}

func (ci *GeometryCreateInfo) WithCompressed() *GeometryCreateInfo {
	ci.Compressed = true
	return ci
}

func (ci *GeometryCreateInfo) AddPosition() *GeometryCreateInfo {
	return ci.AddAttribute(metadata.VertexSemanticPosition, metadata.FormatR32G32B32Float)
}

func (ci *GeometryCreateInfo) AddNormal() *GeometryCreateInfo {
	return ci.AddAttribute(metadata.VertexSemanticNormal, ci.directionFormat(metadata.FormatR32G32B32Float))
}

func (ci *GeometryCreateInfo) AddColor() *GeometryCreateInfo {
	format := metadata.FormatR32G32B32Float
	if ci.Compressed {
		format = metadata.FormatR8G8B8A8Unorm
	}
	return ci.AddAttribute(metadata.VertexSemanticColor, format)
}

func (ci *GeometryCreateInfo) AddTexCoord() *GeometryCreateInfo {
	format := metadata.FormatR32G32Float
	if ci.Compressed {
		format = metadata.FormatR16G16Float
	}
	return ci.AddAttribute(metadata.VertexSemanticTexcoord0, format)
}

func (ci *GeometryCreateInfo) AddTangent() *GeometryCreateInfo {
	return ci.AddAttribute(metadata.VertexSemanticTangent, ci.directionFormat(metadata.FormatR32G32B32A32Float))
}

func (ci *GeometryCreateInfo) AddBitangent() *GeometryCreateInfo {
	return ci.AddAttribute(metadata.VertexSemanticBitangent, ci.directionFormat(metadata.FormatR32G32B32Float))
}

func (ci *GeometryCreateInfo) directionFormat(uncompressed metadata.Format) metadata.Format {
	if ci.Compressed {
		return metadata.FormatR8G8B8A8Snorm
	}
	return uncompressed
}

// AddAttribute places semantic according to the vertex layout. Adding a
// semantic twice is ignored.
func (ci *GeometryCreateInfo) AddAttribute(semantic metadata.VertexSemantic, format metadata.Format) *GeometryCreateInfo {
	if ci.HasAttribute(semantic) {
		core.LogWarn("vertex attribute %s already present, ignoring", semantic)
		return ci
	}
	attr := metadata.VertexAttribute{
		SemanticName: semanticName(semantic),
		Location:     uint32(ci.description.AttributeCount()),
		Format:       format,
		InputRate:    metadata.VertexInputRateVertex,
		Semantic:     semantic,
	}

	switch ci.VertexLayout {
	case metadata.VertexLayoutInterleaved:
		ci.bindingAt(0).AppendAttribute(attr)
	case metadata.VertexLayoutPositionPlanar:
		if semantic == metadata.VertexSemanticPosition {
			ci.bindingAt(0).AppendAttribute(attr)
		} else {
			ci.bindingAt(1).AppendAttribute(attr)
		}
	case metadata.VertexLayoutPlanar:
		attr.Binding = uint32(ci.description.BindingCount())
		if err := ci.description.AppendBinding(metadata.NewVertexBindingFromAttribute(attr)); err != nil {
			core.LogError("cannot add vertex attribute %s: %s", semantic, err.Error())
		}
	}
	return ci
}

// AppendBinding adds a hand made binding, for layouts the Add* methods do
// not produce.
func (ci *GeometryCreateInfo) AppendBinding(binding *metadata.VertexBinding) error {
	return ci.description.AppendBinding(binding)
}

func (ci *GeometryCreateInfo) HasAttribute(semantic metadata.VertexSemantic) bool {
	for _, b := range ci.description.Bindings() {
		if _, ok := b.GetAttributeIndex(semantic); ok {
			return true
		}
	}
	return false
}

func (ci *GeometryCreateInfo) VertexDescription() *metadata.VertexDescription {
	return &ci.description
}

func (ci *GeometryCreateInfo) BindingCount() int {
	return ci.description.BindingCount()
}

func (ci *GeometryCreateInfo) Binding(index int) *metadata.VertexBinding {
	b, err := ci.description.Binding(index)
	if err != nil {
		return nil
	}
	return b
}

func (ci *GeometryCreateInfo) bindingAt(index int) *metadata.VertexBinding {
	b := ci.Binding(index)
	if b == nil {
		panic("geometry: create info was not built with Interleaved or PositionPlanar")
	}
	return b
}

func semanticName(semantic metadata.VertexSemantic) string {
	switch semantic {
	case metadata.VertexSemanticPosition:
		return metadata.SemanticNamePosition
	case metadata.VertexSemanticNormal:
		return metadata.SemanticNameNormal
	case metadata.VertexSemanticColor:
		return metadata.SemanticNameColor
	case metadata.VertexSemanticTangent:
		return metadata.SemanticNameTangent
	case metadata.VertexSemanticBitangent:
		return metadata.SemanticNameBitangent
	}
	return metadata.SemanticNameTexcoord
}
