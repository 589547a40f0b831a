package camera

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Type discriminates the active camera state.
type Type int

const (
	// TypeFree is the orbit camera driven by the FreeController.
	TypeFree Type = iota
	// TypeFixed is a camera defined by the simulation model, selected by index.
	TypeFixed
)

func (t Type) String() string {
	if t == TypeFixed {
		return "fixed"
	}
	return "free"
}

const (
	// FreeID selects the free camera.
	FreeID = -1
	// NoOverride leaves the current camera state untouched.
	NoOverride = -2
)

// Pose is the world placement of a fixed camera. Mat columns are the camera frame axes:
// right, up, and backward (the camera looks along -Mat.Col(2)).
type Pose struct {
	Pos  mgl32.Vec3
	Mat  mgl32.Mat3
	Fovy float32
}

// PoseSource resolves a fixed camera index to its current pose.
type PoseSource func(id int) (Pose, bool)

type cameraImpl struct {
	mu *sync.Mutex

	typ     Type
	fixedID int

	fovy   float32 // radians
	aspect float32
	near   float32 // fraction of the extent
	far    float32 // multiple of the extent

	eye        mgl32.Vec3
	view       mgl32.Mat4
	projection mgl32.Mat4

	controller FreeController
	poses      PoseSource
}

// Camera holds the active viewpoint, either free or fixed, and computes the view and
// projection matrices used for scene composition.
type Camera interface {
	// Type returns the active state.
	//
	// Returns:
	//   - Type: TypeFree or TypeFixed
	Type() Type

	// FixedID returns the selected fixed camera index, or FreeID in the free state.
	//
	// Returns:
	//   - int: the fixed camera index
	FixedID() int

	// Controller returns the free camera controller.
	//
	// Returns:
	//   - FreeController: the controller
	Controller() FreeController

	// SetPoseSource replaces the resolver for fixed camera indices.
	//
	// Parameters:
	//   - src: the resolver, nil disables fixed cameras
	SetPoseSource(src PoseSource)

	// Select switches to fixed camera id, or to the free camera for FreeID, and recomputes
	// the matrices.
	//
	// Parameters:
	//   - id: fixed camera index or FreeID
	//
	// Returns:
	//   - error: *common.ValidationError if id does not resolve to a fixed camera
	Select(id int) error

	// SetFree switches to the free camera and recomputes the matrices.
	SetFree()

	// Use runs fn with camera id selected and unconditionally restores the free camera
	// afterwards, including when fn returns an error or panics. NoOverride runs fn unchanged.
	//
	// Parameters:
	//   - id: fixed camera index, FreeID or NoOverride
	//   - fn: the scoped operation
	//
	// Returns:
	//   - error: the selection error or the error returned by fn
	Use(id int, fn func() error) error

	// Frame centers the free camera on lookat at the given distance and scales clipping
	// and navigation to extent.
	//
	// Parameters:
	//   - lookat: world-space pivot
	//   - distance: eye distance
	//   - extent: model size
	Frame(lookat mgl32.Vec3, distance, extent float32)

	// Move applies a drag action to the free camera. It is a no-op in the fixed state.
	//
	// Parameters:
	//   - action: the manipulation to apply
	//   - dx, dy: drag delta as a fraction of the viewport height
	Move(action Action, dx, dy float32)

	// Fovy returns the active vertical field of view in radians.
	Fovy() float32

	// SetAspect sets the aspect ratio (width / height) and recomputes the matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Update recomputes the matrices from the active state.
	Update()

	// Eye returns the world-space eye position.
	Eye() mgl32.Vec3

	// ViewMatrix returns the current view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera in the free state.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		typ:        TypeFree,
		fixedID:    FreeID,
		fovy:       45.0 * (math.Pi / 180.0),
		aspect:     1.0,
		near:       0.01,
		far:        50.0,
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewFreeController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Type() Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typ
}

func (c *cameraImpl) FixedID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fixedID
}

func (c *cameraImpl) Controller() FreeController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetPoseSource(src PoseSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poses = src
}

func (c *cameraImpl) Select(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == FreeID {
		c.setFree()
		return nil
	}
	if _, ok := c.resolve(id); !ok {
		return &common.ValidationError{Field: "camera", Reason: fmt.Sprintf("no fixed camera with id %d", id)}
	}
	c.typ = TypeFixed
	c.fixedID = id
	c.updateMatrices()
	return nil
}

func (c *cameraImpl) SetFree() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setFree()
}

func (c *cameraImpl) Use(id int, fn func() error) error {
	if id == NoOverride {
		return fn()
	}
	defer c.SetFree()
	if err := c.Select(id); err != nil {
		return err
	}
	return fn()
}

func (c *cameraImpl) Frame(lookat mgl32.Vec3, distance, extent float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller.SetLookat(lookat)
	c.controller.SetExtent(extent)
	c.controller.SetDistance(distance)
	c.updateMatrices()
}

func (c *cameraImpl) Move(action Action, dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.typ != TypeFree {
		return
	}
	switch action {
	case ActionRotateV, ActionRotateH:
		c.controller.Rotate(dx, dy)
	case ActionMoveV:
		c.controller.Pan(dx, dy, c.fovy, false)
	case ActionMoveH:
		c.controller.Pan(dx, dy, c.fovy, true)
	case ActionZoom:
		c.controller.Zoom(dy)
	default:
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) Fovy() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pose, ok := c.activePose(); ok && pose.Fovy > 0 {
		return pose.Fovy
	}
	return c.fovy
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Mul4(c.view)
}

// setFree switches to the free state. Caller must hold the mutex.
func (c *cameraImpl) setFree() {
	c.typ = TypeFree
	c.fixedID = FreeID
	c.updateMatrices()
}

// resolve looks up a fixed camera pose. Caller must hold the mutex.
func (c *cameraImpl) resolve(id int) (Pose, bool) {
	if c.poses == nil || id < 0 {
		return Pose{}, false
	}
	return c.poses(id)
}

// activePose returns the fixed pose when the fixed state is active. Caller must hold the mutex.
func (c *cameraImpl) activePose() (Pose, bool) {
	if c.typ != TypeFixed {
		return Pose{}, false
	}
	return c.resolve(c.fixedID)
}

// updateMatrices recalculates the eye, view and projection matrices from the active state.
// A fixed camera whose pose disappeared falls back to the free view. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	extent := c.controller.Extent()
	fovy := c.fovy

	if pose, ok := c.activePose(); ok {
		forward := pose.Mat.Col(2).Mul(-1)
		c.eye = pose.Pos
		c.view = mgl32.LookAtV(pose.Pos, pose.Pos.Add(forward), pose.Mat.Col(1))
		if pose.Fovy > 0 {
			fovy = pose.Fovy
		}
	} else {
		c.eye = c.controller.Position()
		c.view = mgl32.LookAtV(c.eye, c.controller.Lookat(), mgl32.Vec3{0, 1, 0})
	}
	c.projection = mgl32.Perspective(fovy, c.aspect, c.near*extent, c.far*extent)
}
