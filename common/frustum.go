package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frustum represents the six planes of a view frustum for culling.
// Each plane is stored as (a, b, c, d) for ax + by + cz + d = 0, oriented so that the positive
// half-space is inside the frustum.
type Frustum struct {
	Planes [6]mgl32.Vec4 // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a combined projection * view matrix using the
// Gribb/Hartmann method.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined view-projection matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	var f Frustum
	f.Planes[FrustumLeft] = r3.Add(r0)
	f.Planes[FrustumRight] = r3.Sub(r0)
	f.Planes[FrustumBottom] = r3.Add(r1)
	f.Planes[FrustumTop] = r3.Sub(r1)
	f.Planes[FrustumNear] = r3.Add(r2)
	f.Planes[FrustumFar] = r3.Sub(r2)

	for i, p := range f.Planes {
		if n := p.Vec3().Len(); n > 0 {
			f.Planes[i] = p.Mul(1 / n)
		}
	}
	return f
}

// ContainsSphere reports whether a bounding sphere intersects or lies inside the frustum.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: false only if the sphere is entirely outside at least one plane
func (f Frustum) ContainsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.Vec3().Dot(center)+p[3] < -radius {
			return false
		}
	}
	return true
}
