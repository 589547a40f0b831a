package camera

import "github.com/go-gl/mathgl/mgl32"

// FreeControllerOption is a functional option for configuring a FreeController.
type FreeControllerOption func(*freeControllerImpl)

// WithLookat sets the initial pivot point.
//
// Parameters:
//   - p: world-space lookat point
//
// Returns:
//   - FreeControllerOption: functional option to set the lookat point
func WithLookat(p mgl32.Vec3) FreeControllerOption {
	return func(fc *freeControllerImpl) {
		fc.lookat = p
	}
}

// WithDistance sets the initial distance from the lookat point.
//
// Parameters:
//   - d: distance from the pivot
//
// Returns:
//   - FreeControllerOption: functional option to set the distance
func WithDistance(d float32) FreeControllerOption {
	return func(fc *freeControllerImpl) {
		fc.distance = d
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - FreeControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) FreeControllerOption {
	return func(fc *freeControllerImpl) {
		fc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle from the horizontal plane.
//
// Parameters:
//   - elevation: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - FreeControllerOption: functional option to set the elevation
func WithElevation(elevation float32) FreeControllerOption {
	return func(fc *freeControllerImpl) {
		fc.elevation = elevation
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles.
//
// Parameters:
//   - min: minimum vertical angle in radians
//   - max: maximum vertical angle in radians
//
// Returns:
//   - FreeControllerOption: functional option to set elevation bounds
func WithElevationBounds(min, max float32) FreeControllerOption {
	return func(fc *freeControllerImpl) {
		fc.minElevation = min
		fc.maxElevation = max
	}
}

// WithExtent sets the model scale used by pan and zoom.
//
// Parameters:
//   - extent: model size
//
// Returns:
//   - FreeControllerOption: functional option to set the extent
func WithExtent(extent float32) FreeControllerOption {
	return func(fc *freeControllerImpl) {
		if extent > 0 {
			fc.extent = extent
		}
	}
}
