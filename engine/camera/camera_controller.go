package camera

import "github.com/go-gl/mathgl/mgl32"

// FreeController owns the free camera state: a lookat point and spherical coordinates
// (distance, azimuth, elevation) around it, with Y as the world up axis.
type FreeController interface {
	// Lookat returns the pivot point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space lookat point
	Lookat() mgl32.Vec3

	// SetLookat moves the pivot point.
	//
	// Parameters:
	//   - p: world-space lookat point
	SetLookat(p mgl32.Vec3)

	// Distance returns the distance from the eye to the lookat point.
	Distance() float32

	// SetDistance sets the distance, clamped to the minimum distance.
	//
	// Parameters:
	//   - d: new distance
	SetDistance(d float32)

	// Azimuth returns the horizontal angle around the Y axis in radians.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle in radians.
	//
	// Parameters:
	//   - azimuth: new angle
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical angle from the horizontal plane in radians.
	Elevation() float32

	// SetElevation sets the vertical angle, clamped to the elevation bounds.
	//
	// Parameters:
	//   - elevation: new angle in radians
	SetElevation(elevation float32)

	// Extent returns the model scale used to size pan and zoom steps.
	Extent() float32

	// SetExtent sets the model scale. Non-positive values are ignored.
	//
	// Parameters:
	//   - extent: model size
	SetExtent(extent float32)

	// Position returns the eye position derived from the spherical coordinates.
	//
	// Returns:
	//   - mgl32.Vec3: world-space eye position
	Position() mgl32.Vec3

	// Rotate applies a normalized drag delta to azimuth and elevation.
	//
	// Parameters:
	//   - dx, dy: drag delta as a fraction of the viewport height
	Rotate(dx, dy float32)

	// Pan translates the lookat point by a normalized drag delta. When horizontal is true the
	// vertical delta moves along the ground plane instead of the view plane.
	//
	// Parameters:
	//   - dx, dy: drag delta as a fraction of the viewport height
	//   - fovy: vertical field of view in radians
	//   - horizontal: pan across the ground plane
	Pan(dx, dy float32, fovy float32, horizontal bool)

	// Zoom changes the distance by a normalized drag delta, scaled logarithmically
	// by the model extent. Positive dy moves closer.
	//
	// Parameters:
	//   - dy: drag delta as a fraction of the viewport height
	Zoom(dy float32)
}
