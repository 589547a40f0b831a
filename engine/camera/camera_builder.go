package camera

type CameraBuilderOption func(*cameraImpl)

// WithFovy sets the free camera's vertical field of view in radians.
//
// Parameters:
//   - fovy: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFovy(fovy float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fovy = fovy
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClip sets the clipping planes relative to the model extent.
//
// Parameters:
//   - near: near plane as a fraction of the extent
//   - far: far plane as a multiple of the extent
//
// Returns:
//   - CameraBuilderOption: a function that sets the clipping planes
func WithClip(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithController attaches the free camera controller.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl FreeController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

// WithPoseSource sets the resolver for fixed camera indices.
//
// Parameters:
//   - src: the resolver
//
// Returns:
//   - CameraBuilderOption: functional option to set the pose source
func WithPoseSource(src PoseSource) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.poses = src
	}
}
