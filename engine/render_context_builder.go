package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-render/engine/surface"
)

// RenderContextOption is a functional option for configuring a RenderContext.
// Options are applied in order, so WithConfig should come before the options it is refined by.
type RenderContextOption func(*RenderContext)

// WithConfig replaces the whole construction configuration. The mode argument of
// NewRenderContext still wins over cfg.Mode.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - RenderContextOption: option function to apply
func WithConfig(cfg Config) RenderContextOption {
	return func(rc *RenderContext) {
		rc.cfg = cfg
	}
}

// WithDeviceID selects the GPU for offscreen rendering, overriding the environment.
//
// Parameters:
//   - id: the device index
//
// Returns:
//   - RenderContextOption: option function to apply
func WithDeviceID(id int) RenderContextOption {
	return func(rc *RenderContext) {
		rc.cfg.DeviceID = &id
	}
}

// WithProvider forces a named surface provider instead of automatic selection.
//
// Parameters:
//   - name: the registered provider name
//
// Returns:
//   - RenderContextOption: option function to apply
func WithProvider(name string) RenderContextOption {
	return func(rc *RenderContext) {
		rc.cfg.Provider = name
	}
}

// WithCapacity sets the number of scene geometry slots.
//
// Parameters:
//   - n: the capacity
//
// Returns:
//   - RenderContextOption: option function to apply
func WithCapacity(n int) RenderContextOption {
	return func(rc *RenderContext) {
		rc.cfg.Capacity = n
	}
}

// WithSize sets the initial drawing buffer size.
//
// Parameters:
//   - width, height: size in pixels
//
// Returns:
//   - RenderContextOption: option function to apply
func WithSize(width, height int) RenderContextOption {
	return func(rc *RenderContext) {
		rc.cfg.Width, rc.cfg.Height = width, height
	}
}

// WithLogger overrides the package logger for this context and everything it owns.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - RenderContextOption: option function to apply
func WithLogger(l *slog.Logger) RenderContextOption {
	return func(rc *RenderContext) {
		if l != nil {
			rc.logger = l
		}
	}
}

// WithProfiling enables or disables the periodic render statistics log.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - RenderContextOption: option function to apply
func WithProfiling(enabled bool) RenderContextOption {
	return func(rc *RenderContext) {
		rc.cfg.Profiling = enabled
	}
}

// WithEnvironment replaces the environment lookup used for device selection.
//
// Parameters:
//   - lookup: returns the value of a variable and whether it is set
//
// Returns:
//   - RenderContextOption: option function to apply
func WithEnvironment(lookup func(string) (string, bool)) RenderContextOption {
	return func(rc *RenderContext) {
		rc.env = lookup
	}
}

// WithRegistry selects surface providers from r instead of the default registry.
//
// Parameters:
//   - r: the provider registry
//
// Returns:
//   - RenderContextOption: option function to apply
func WithRegistry(r *surface.Registry) RenderContextOption {
	return func(rc *RenderContext) {
		if r != nil {
			rc.registry = r
		}
	}
}

// WithReadbackWorkers sets the number of workers converting rows during pixel readback.
//
// Parameters:
//   - n: worker count, 1 disables parallel readback
//
// Returns:
//   - RenderContextOption: option function to apply
func WithReadbackWorkers(n int) RenderContextOption {
	return func(rc *RenderContext) {
		rc.readbackWorkers = n
	}
}
