package math

// TriangleTangents computes the tangent and bitangent of a triangle from the
// gradient of its texture coordinates. Degenerate UVs yield zero vectors.
func TriangleTangents(p0, p1, p2 Vec3, uv0, uv1, uv2 Vec2) (tangent, bitangent Vec3) {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)

	duv1 := uv1.Sub(uv0)
	duv2 := uv2.Sub(uv0)

	dividend := duv1.X*duv2.Y - duv2.X*duv1.Y
	if dividend == 0 {
		return Vec3{}, Vec3{}
	}
	fc := 1.0 / dividend

	tangent = Vec3{
		fc * (duv2.Y*edge1.X - duv1.Y*edge2.X),
		fc * (duv2.Y*edge1.Y - duv1.Y*edge2.Y),
		fc * (duv2.Y*edge1.Z - duv1.Y*edge2.Z)}

	bitangent = Vec3{
		fc * (-duv2.X*edge1.X + duv1.X*edge2.X),
		fc * (-duv2.X*edge1.Y + duv1.X*edge2.Y),
		fc * (-duv2.X*edge1.Z + duv1.X*edge2.Z)}

	return tangent.Normalized(), bitangent.Normalized()
}

// TriangleNormal returns the unit face normal of a counter clockwise triangle.
func TriangleNormal(p0, p1, p2 Vec3) Vec3 {
	// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalized()
}
