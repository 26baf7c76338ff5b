package geometry

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// vertexDataProcessor routes vertex records into the buffers of a Geometry
// according to its vertex layout. Implementations hold no state.
type vertexDataProcessor interface {
	validate(g *Geometry) error
	updateBuffers(g *Geometry) error
	appendVertex(g *Geometry, v VertexData) uint32
	vertexCount(g *Geometry) uint32
}

func newVertexDataProcessor(layout metadata.VertexLayout) (vertexDataProcessor, error) {
	switch layout {
	case metadata.VertexLayoutInterleaved:
		return interleavedProcessor{}, nil
	case metadata.VertexLayoutPlanar:
		return planarProcessor{}, nil
	case metadata.VertexLayoutPositionPlanar:
		return positionPlanarProcessor{}, nil
	}
	return nil, errors.Wrapf(core.ErrInvalidCreateArgument, "vertex layout %s", layout)
}

// trackSemantic records which buffer receives semantic.
func trackSemantic(g *Geometry, semantic metadata.VertexSemantic, bufferIndex int) error {
	slot := g.semanticSlot(semantic)
	if slot == nil {
		return errors.Wrapf(core.ErrGeometryInvalidVertexSemantic, "semantic %s", semantic)
	}
	*slot = metadata.Some(bufferIndex)
	return nil
}

// appendInterleaved writes every attribute of binding, in declaration order,
// into buf. It panics when the record does not fill exactly one stride.
func appendInterleaved(buf *Buffer, binding *metadata.VertexBinding, v VertexData) {
	record := make([]byte, 0, binding.Stride())
	for _, attr := range binding.Attributes() {
		var ok bool
		before := len(record)
		record, ok = v.appendAttribute(record, attr.Semantic)
		if ok {
			checkAttributeSize(attr, len(record)-before)
		}
	}
	if uint32(len(record)) != binding.Stride() {
		panic(fmt.Sprintf("geometry: %T wrote %d bytes into binding %d of stride %d", v, len(record), binding.Binding(), binding.Stride()))
	}
	buf.Append(record)
}

func checkAttributeSize(attr metadata.VertexAttribute, written int) {
	if uint32(written) != attr.Format.Size() {
		panic(fmt.Sprintf("geometry: %s is declared as %s (%d bytes) but the vertex record holds %d bytes",
			attr.Semantic, attr.Format, attr.Format.Size(), written))
	}
}

/**
 * @brief One binding and one buffer per attribute.
 */
type planarProcessor struct{}

func (planarProcessor) validate(g *Geometry) error {
	for i := 0; i < g.createInfo.BindingCount(); i++ {
		if n := g.createInfo.Binding(i).AttributeCount(); n != 1 {
			return errors.Wrapf(core.ErrGeometryInvalidLayout, "planar binding %d holds %d attributes", i, n)
		}
	}
	return nil
}

func (planarProcessor) updateBuffers(g *Geometry) error {
	for i := 0; i < g.createInfo.BindingCount(); i++ {
		binding := g.createInfo.Binding(i)
		attr := binding.Attributes()[0]
		if err := trackSemantic(g, attr.Semantic, i); err != nil {
			return err
		}
		g.vertexBuffers = append(g.vertexBuffers, NewBuffer(binding.Stride()))
	}
	return nil
}

func (planarProcessor) appendVertex(g *Geometry, v VertexData) uint32 {
	var scratch [16]byte
	for i := range g.vertexBuffers {
		attr := g.createInfo.Binding(i).Attributes()[0]
		p, ok := v.appendAttribute(scratch[:0], attr.Semantic)
		if !ok {
			// missing in this record, skipped
			continue
		}
		checkAttributeSize(attr, len(p))
		g.vertexBuffers[i].Append(p)
	}
	return planarProcessor{}.vertexCount(g)
}

func (planarProcessor) vertexCount(g *Geometry) uint32 {
	return g.vertexBuffers[g.positionBufferIndex.Value].ElementCount()
}

/**
 * @brief A single binding, every attribute packed in one buffer.
 */
type interleavedProcessor struct{}

func (interleavedProcessor) validate(g *Geometry) error {
	if n := g.createInfo.BindingCount(); n != 1 {
		return errors.Wrapf(core.ErrGeometryInvalidLayout, "interleaved layout needs 1 binding, got %d", n)
	}
	return nil
}

func (interleavedProcessor) updateBuffers(g *Geometry) error {
	binding := g.createInfo.Binding(0)
	for _, attr := range binding.Attributes() {
		if err := trackSemantic(g, attr.Semantic, 0); err != nil {
			return err
		}
	}
	g.vertexBuffers = append(g.vertexBuffers, NewBuffer(binding.Stride()))
	return nil
}

func (interleavedProcessor) appendVertex(g *Geometry, v VertexData) uint32 {
	appendInterleaved(&g.vertexBuffers[0], g.createInfo.Binding(0), v)
	return g.vertexBuffers[0].ElementCount()
}

func (interleavedProcessor) vertexCount(g *Geometry) uint32 {
	return g.vertexBuffers[0].ElementCount()
}

/**
 * @brief Positions alone in binding 0, every other attribute interleaved in binding 1.
 */
type positionPlanarProcessor struct{}

func (positionPlanarProcessor) validate(g *Geometry) error {
	if n := g.createInfo.BindingCount(); n != 2 {
		return errors.Wrapf(core.ErrGeometryInvalidLayout, "position planar layout needs 2 bindings, got %d", n)
	}
	return nil
}

func (positionPlanarProcessor) updateBuffers(g *Geometry) error {
	positions := g.createInfo.Binding(0)
	if positions.AttributeCount() != 1 || positions.Attributes()[0].Semantic != metadata.VertexSemanticPosition {
		return errors.Wrap(core.ErrGeometryInvalidVertexSemantic, "binding 0 of a position planar layout holds only the position")
	}
	g.positionBufferIndex = metadata.Some(0)
	g.vertexBuffers = append(g.vertexBuffers, NewBuffer(positions.Stride()))

	rest := g.createInfo.Binding(1)
	for _, attr := range rest.Attributes() {
		if attr.Semantic == metadata.VertexSemanticPosition {
			return errors.Wrap(core.ErrGeometryInvalidVertexSemantic, "position assigned to binding 1 of a position planar layout")
		}
		if err := trackSemantic(g, attr.Semantic, 1); err != nil {
			return err
		}
	}
	g.vertexBuffers = append(g.vertexBuffers, NewBuffer(rest.Stride()))
	return nil
}

func (positionPlanarProcessor) appendVertex(g *Geometry, v VertexData) uint32 {
	var scratch [12]byte
	attr := g.createInfo.Binding(0).Attributes()[0]
	p, ok := v.appendAttribute(scratch[:0], metadata.VertexSemanticPosition)
	if !ok {
		panic(fmt.Sprintf("geometry: %T has no position", v))
	}
	checkAttributeSize(attr, len(p))
	g.vertexBuffers[0].Append(p)

	appendInterleaved(&g.vertexBuffers[1], g.createInfo.Binding(1), v)
	return g.vertexBuffers[0].ElementCount()
}

func (positionPlanarProcessor) vertexCount(g *Geometry) uint32 {
	return g.vertexBuffers[0].ElementCount()
}
