package sim

import "github.com/Carmen-Shannon/oxy-render/common"

// SnapshotBuilderOption is a functional option for configuring a Snapshot.
type SnapshotBuilderOption func(*snapshotImpl)

// WithGeoms sets the initial geometry state.
//
// Parameters:
//   - geoms: the geometry states
//
// Returns:
//   - SnapshotBuilderOption: option function to apply
func WithGeoms(geoms ...GeomState) SnapshotBuilderOption {
	return func(s *snapshotImpl) {
		s.geoms = append(s.geoms, geoms...)
	}
}

// WithCameras sets the model cameras.
//
// Parameters:
//   - cameras: the camera definitions, indexed by camera id
//
// Returns:
//   - SnapshotBuilderOption: option function to apply
func WithCameras(cameras ...CameraDef) SnapshotBuilderOption {
	return func(s *snapshotImpl) {
		s.cameras = append(s.cameras, cameras...)
	}
}

// WithTextures sets the model textures.
//
// Parameters:
//   - textures: the textures
//
// Returns:
//   - SnapshotBuilderOption: option function to apply
func WithTextures(textures ...common.Texture) SnapshotBuilderOption {
	return func(s *snapshotImpl) {
		s.textures = append(s.textures, textures...)
	}
}

// WithStats pins the model statistics so forward passes no longer recompute them.
//
// Parameters:
//   - stats: the statistics
//
// Returns:
//   - SnapshotBuilderOption: option function to apply
func WithStats(stats Statistic) SnapshotBuilderOption {
	return func(s *snapshotImpl) {
		s.stats = stats
		s.fixedStats = true
	}
}

// WithOffscreenSize sets the initial offscreen buffer size hint.
//
// Parameters:
//   - width, height: the hint in pixels
//
// Returns:
//   - SnapshotBuilderOption: option function to apply
func WithOffscreenSize(width, height int) SnapshotBuilderOption {
	return func(s *snapshotImpl) {
		s.offscreenWidth, s.offscreenHeight = width, height
	}
}

// WithForward installs a hook run at the start of every forward pass. An error from the
// hook aborts the pass.
//
// Parameters:
//   - fn: the hook
//
// Returns:
//   - SnapshotBuilderOption: option function to apply
func WithForward(fn func() error) SnapshotBuilderOption {
	return func(s *snapshotImpl) {
		s.forward = fn
	}
}

// WithRenderCallback installs the callback run before each render.
//
// Parameters:
//   - cb: the callback
//
// Returns:
//   - SnapshotBuilderOption: option function to apply
func WithRenderCallback(cb RenderCallback) SnapshotBuilderOption {
	return func(s *snapshotImpl) {
		s.callback = cb
	}
}
