package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/go-gl/mathgl/mgl32"
)

// freeControllerImpl is the single implementation of FreeController.
type freeControllerImpl struct {
	mu *sync.Mutex

	lookat mgl32.Vec3

	// Spherical coordinates (offset from lookat)
	distance  float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// Constraints
	minDistance  float32
	minElevation float32
	maxElevation float32

	extent float32
}

// Compile-time interface compliance check
var _ FreeController = &freeControllerImpl{}

// NewFreeController creates a free camera controller with sensible defaults.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - FreeController: the newly created controller
func NewFreeController(options ...FreeControllerOption) FreeController {
	fc := &freeControllerImpl{
		mu:           &sync.Mutex{},
		distance:     2.0,
		azimuth:      float32(math.Pi / 4),
		elevation:    float32(math.Pi / 8),
		minDistance:  1e-4,
		minElevation: float32(-math.Pi/2 + 0.01),
		maxElevation: float32(math.Pi/2 - 0.01),
		extent:       1.0,
	}
	for _, option := range options {
		option(fc)
	}
	fc.distance = max(fc.distance, fc.minDistance)
	fc.elevation = common.Clamp(fc.elevation, fc.minElevation, fc.maxElevation)
	return fc
}

// --- internal helpers ---

// position computes the eye from spherical coordinates. Caller must hold the mutex.
func (fc *freeControllerImpl) position() mgl32.Vec3 {
	cosElev := float32(math.Cos(float64(fc.elevation)))
	sinElev := float32(math.Sin(float64(fc.elevation)))
	cosAzim := float32(math.Cos(float64(fc.azimuth)))
	sinAzim := float32(math.Sin(float64(fc.azimuth)))

	return fc.lookat.Add(mgl32.Vec3{
		fc.distance * cosElev * sinAzim,
		fc.distance * sinElev,
		fc.distance * cosElev * cosAzim,
	})
}

// localAxes returns right, up and forward consistent with the LookAt matrix.
// Caller must hold the mutex.
func (fc *freeControllerImpl) localAxes() (right, up, forward mgl32.Vec3) {
	back := fc.position().Sub(fc.lookat)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()

	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}, back.Mul(-1)
	}
	right = right.Normalize()
	up = back.Cross(right)
	forward = back.Mul(-1)
	return
}

func (fc *freeControllerImpl) Lookat() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.lookat
}

func (fc *freeControllerImpl) SetLookat(p mgl32.Vec3) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.lookat = p
}

func (fc *freeControllerImpl) Distance() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.distance
}

func (fc *freeControllerImpl) SetDistance(d float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.distance = max(d, fc.minDistance)
}

func (fc *freeControllerImpl) Azimuth() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.azimuth
}

func (fc *freeControllerImpl) SetAzimuth(azimuth float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.azimuth = azimuth
}

func (fc *freeControllerImpl) Elevation() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.elevation
}

func (fc *freeControllerImpl) SetElevation(elevation float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.elevation = common.Clamp(elevation, fc.minElevation, fc.maxElevation)
}

func (fc *freeControllerImpl) Extent() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.extent
}

func (fc *freeControllerImpl) SetExtent(extent float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if extent > 0 {
		fc.extent = extent
	}
}

func (fc *freeControllerImpl) Position() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.position()
}

func (fc *freeControllerImpl) Rotate(dx, dy float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.azimuth -= dx * math.Pi
	fc.elevation = common.Clamp(fc.elevation+dy*math.Pi, fc.minElevation, fc.maxElevation)
}

func (fc *freeControllerImpl) Pan(dx, dy float32, fovy float32, horizontal bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	right, up, forward := fc.localAxes()
	scale := 2 * fc.distance * float32(math.Tan(float64(fovy)/2))

	offset := right.Mul(-dx * scale)
	if horizontal {
		ground := mgl32.Vec3{forward[0], 0, forward[2]}
		if ground.Len() > 1e-8 {
			offset = offset.Add(ground.Normalize().Mul(dy * scale))
		}
	} else {
		offset = offset.Add(up.Mul(dy * scale))
	}
	fc.lookat = fc.lookat.Add(offset)
}

func (fc *freeControllerImpl) Zoom(dy float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	step := float32(math.Log1p(float64(fc.distance/fc.extent/3))) * dy * 9 * fc.extent
	fc.distance = max(fc.distance-step, fc.minDistance)
}
