package surface

import "log/slog"

// Context is the platform drawing surface a Binding owns for its whole lifetime: a window or an
// offscreen device. Framebuffers allocated from it are the native drawing resources that get
// freed and remade on resize.
type Context interface {
	// Name returns the provider name the context was created by.
	Name() string

	// Target returns the buffer target currently active on the context.
	Target() Mode

	// MakeCurrent binds the context to the calling thread. Required before upload and draw.
	MakeCurrent() error

	// BufferSize returns the drawable size: the window framebuffer for onscreen targets,
	// the configured buffer size for offscreen targets.
	BufferSize() (width, height int)

	// SetBufferSize configures the offscreen buffer size.
	SetBufferSize(width, height int) error

	// Allocate creates a drawing buffer of the given size.
	Allocate(width, height int) (*Framebuffer, error)

	// Free releases any native resources bound to fb.
	Free(fb *Framebuffer)

	// Swap presents fb. Offscreen contexts treat it as a no-op.
	Swap(fb *Framebuffer) error

	// ShouldClose reports whether the user asked to close the window.
	ShouldClose() bool

	// Release destroys the context.
	Release() error
}

// Options are passed to a provider Factory when opening a Context.
type Options struct {
	// Mode is the requested buffer target.
	Mode Mode

	// Width and Height are the initial drawable size in pixels.
	Width, Height int

	// DeviceID selects the GPU for offscreen targets.
	DeviceID int

	// Title is the window title for onscreen targets.
	Title string

	// Logger receives provider diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Log returns the configured logger, or one that discards everything.
func (o Options) Log() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
