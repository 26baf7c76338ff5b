package geometry

import (
	"encoding/binary"
	gomath "math"

	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/x448/float16"
)

// VertexData is a vertex record that can be routed into geometry buffers.
// appendAttribute appends the little endian encoding of one semantic to dst
// and reports false when the record does not carry it.
type VertexData interface {
	appendAttribute(dst []byte, semantic metadata.VertexSemantic) ([]byte, bool)
}

/**
 * @brief A full precision triangle mesh vertex.
 */
type TriMeshVertexData struct {
	Position  math.Vec3
	Color     math.Vec3
	Normal    math.Vec3
	TexCoord  math.Vec2
	Tangent   math.Vec4
	Bitangent math.Vec3
}

func (v TriMeshVertexData) appendAttribute(dst []byte, semantic metadata.VertexSemantic) ([]byte, bool) {
	switch semantic {
	case metadata.VertexSemanticPosition:
		return appendFloats(dst, v.Position.X, v.Position.Y, v.Position.Z), true
	case metadata.VertexSemanticColor:
		return appendFloats(dst, v.Color.X, v.Color.Y, v.Color.Z), true
	case metadata.VertexSemanticNormal:
		return appendFloats(dst, v.Normal.X, v.Normal.Y, v.Normal.Z), true
	case metadata.VertexSemanticTexcoord0:
		return appendFloats(dst, v.TexCoord.X, v.TexCoord.Y), true
	case metadata.VertexSemanticTangent:
		return appendFloats(dst, v.Tangent.X, v.Tangent.Y, v.Tangent.Z, v.Tangent.W), true
	case metadata.VertexSemanticBitangent:
		return appendFloats(dst, v.Bitangent.X, v.Bitangent.Y, v.Bitangent.Z), true
	}
	return dst, false
}

// Compress quantizes the vertex into its compact representation.
func (v TriMeshVertexData) Compress() TriMeshVertexDataCompressed {
	return TriMeshVertexDataCompressed{
		Position:  v.Position,
		Color:     [4]uint8{unorm8(v.Color.X), unorm8(v.Color.Y), unorm8(v.Color.Z), 255},
		Normal:    [4]int8{snorm8(v.Normal.X), snorm8(v.Normal.Y), snorm8(v.Normal.Z), 0},
		TexCoord:  [2]float16.Float16{float16.Fromfloat32(v.TexCoord.X), float16.Fromfloat32(v.TexCoord.Y)},
		Tangent:   [4]int8{snorm8(v.Tangent.X), snorm8(v.Tangent.Y), snorm8(v.Tangent.Z), snorm8(v.Tangent.W)},
		Bitangent: [4]int8{snorm8(v.Bitangent.X), snorm8(v.Bitangent.Y), snorm8(v.Bitangent.Z), 0},
	}
}

/**
 * @brief A quantized triangle mesh vertex. Colors are RGBA8 unorm, directions
 * RGBA8 snorm and texture coordinates RG16 float.
 */
type TriMeshVertexDataCompressed struct {
	Position  math.Vec3
	Color     [4]uint8
	Normal    [4]int8
	TexCoord  [2]float16.Float16
	Tangent   [4]int8
	Bitangent [4]int8
}

func (v TriMeshVertexDataCompressed) appendAttribute(dst []byte, semantic metadata.VertexSemantic) ([]byte, bool) {
	switch semantic {
	case metadata.VertexSemanticPosition:
		return appendFloats(dst, v.Position.X, v.Position.Y, v.Position.Z), true
	case metadata.VertexSemanticColor:
		return append(dst, v.Color[:]...), true
	case metadata.VertexSemanticNormal:
		return appendSnorm(dst, v.Normal), true
	case metadata.VertexSemanticTexcoord0:
		dst = binary.LittleEndian.AppendUint16(dst, v.TexCoord[0].Bits())
		return binary.LittleEndian.AppendUint16(dst, v.TexCoord[1].Bits()), true
	case metadata.VertexSemanticTangent:
		return appendSnorm(dst, v.Tangent), true
	case metadata.VertexSemanticBitangent:
		return appendSnorm(dst, v.Bitangent), true
	}
	return dst, false
}

/**
 * @brief A wireframe vertex, only position and color.
 */
type WireMeshVertexData struct {
	Position math.Vec3
	Color    math.Vec3
}

func (v WireMeshVertexData) appendAttribute(dst []byte, semantic metadata.VertexSemantic) ([]byte, bool) {
	switch semantic {
	case metadata.VertexSemanticPosition:
		return appendFloats(dst, v.Position.X, v.Position.Y, v.Position.Z), true
	case metadata.VertexSemanticColor:
		return appendFloats(dst, v.Color.X, v.Color.Y, v.Color.Z), true
	}
	return dst, false
}

func appendFloats(dst []byte, values ...float32) []byte {
	for _, f := range values {
		dst = binary.LittleEndian.AppendUint32(dst, gomath.Float32bits(f))
	}
	return dst
}

func appendSnorm(dst []byte, values [4]int8) []byte {
	for _, v := range values {
		dst = append(dst, byte(v))
	}
	return dst
}

func unorm8(f float32) uint8 {
	return uint8(gomath.Round(float64(math.Clamp(f, 0, 1)) * 255))
}

func snorm8(f float32) int8 {
	return int8(gomath.Round(float64(math.Clamp(f, -1, 1)) * 127))
}
