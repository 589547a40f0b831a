package scene

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(*sceneImpl)

// WithCapacity sets the fixed number of geometry slots. Non-positive values fall back to
// DefaultCapacity.
//
// Parameters:
//   - capacity: number of slots to allocate
//
// Returns:
//   - SceneBuilderOption: functional option to set the capacity
func WithCapacity(capacity int) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.capacity = capacity
	}
}

// WithFlags sets the initial rendering flags.
//
// Parameters:
//   - flags: the flags to start with
//
// Returns:
//   - SceneBuilderOption: functional option to set the flags
func WithFlags(flags Flags) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.flags = flags
	}
}
