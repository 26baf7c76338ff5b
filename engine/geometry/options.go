package geometry

import (
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/math"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

/**
 * @brief Selects which attributes a generated or loaded TriMesh carries and
 * how its vertices are transformed. Start from DefaultTriMeshOptions.
 */
type TriMeshOptions struct {
	Indices      bool
	VertexColors bool
	Normals      bool
	TexCoords    bool
	// Tangents enables both tangents and bitangents.
	Tangents bool
	/** @brief Replaces every vertex color when set. */
	ObjectColor      metadata.Optional[math.Vec3]
	Scale            math.Vec3
	Translate        math.Vec3
	TexCoordScale    math.Vec2
	InvertTexCoordsV bool
	InvertWinding    bool
}

func DefaultTriMeshOptions() TriMeshOptions {
	return TriMeshOptions{
		Indices:       true,
		Scale:         math.Vec3{X: 1, Y: 1, Z: 1},
		TexCoordScale: math.Vec2{X: 1, Y: 1},
	}
}

// AllAttributes enables every optional attribute.
func (o TriMeshOptions) AllAttributes() TriMeshOptions {
	o.VertexColors = true
	o.Normals = true
	o.TexCoords = true
	o.Tangents = true
	return o
}

func (o TriMeshOptions) WithObjectColor(color math.Vec3) TriMeshOptions {
	o.VertexColors = true
	o.ObjectColor = metadata.Some(color)
	return o
}

// sanitized replaces zero scales, usually left over from a zero value struct.
func (o TriMeshOptions) sanitized() TriMeshOptions {
	if o.Scale == (math.Vec3{}) {
		core.LogWarn("TriMeshOptions scale is zero. Defaulting to one.")
		o.Scale = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	if o.TexCoordScale == (math.Vec2{}) {
		o.TexCoordScale = math.Vec2{X: 1, Y: 1}
	}
	return o
}

func (o TriMeshOptions) transformPosition(p math.Vec3) math.Vec3 {
	return p.Mul(o.Scale).Add(o.Translate)
}

func (o TriMeshOptions) transformTexCoord(uv math.Vec2) math.Vec2 {
	uv = uv.Mul(o.TexCoordScale)
	if o.InvertTexCoordsV {
		uv.Y = 1 - uv.Y
	}
	return uv
}

/**
 * @brief Options of generated WireMeshes.
 */
type WireMeshOptions struct {
	Indices      bool
	VertexColors bool
	ObjectColor  metadata.Optional[math.Vec3]
	Scale        math.Vec3
	Translate    math.Vec3
}

func DefaultWireMeshOptions() WireMeshOptions {
	return WireMeshOptions{
		Indices: true,
		Scale:   math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

func (o WireMeshOptions) WithObjectColor(color math.Vec3) WireMeshOptions {
	o.VertexColors = true
	o.ObjectColor = metadata.Some(color)
	return o
}

func (o WireMeshOptions) sanitized() WireMeshOptions {
	if o.Scale == (math.Vec3{}) {
		core.LogWarn("WireMeshOptions scale is zero. Defaulting to one.")
		o.Scale = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return o
}
