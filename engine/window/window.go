package window

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window an onscreen surface presents into.
// Offscreen surfaces open the same window hidden so the GPU device stays tied to a display.
//
// Pointer input is translated into camera motions and queued rather than dispatched, so a
// render context can apply them on its own call stack.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// DrainMotions returns the camera motions queued by pointer input since the last call
	// and empties the queue.
	//
	// Returns:
	//   - []camera.Motion: the queued motions, oldest first
	DrainMotions() []camera.Motion

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// FramebufferSize returns the current framebuffer size in pixels.
	FramebufferSize() (width, height int)

	// SetSize resizes the window client area.
	SetSize(width, height int)

	// Hidden reports whether the window was opened invisible.
	Hidden() bool

	// ShouldClose reports whether the user or the application asked the window to close.
	ShouldClose() bool

	// RequestClose flags the window for closing without destroying it.
	RequestClose()

	// PollEvents processes pending window events without blocking.
	PollEvents()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window is not initialized
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and the queued input.
type engineWindow struct {
	mu     *sync.Mutex
	logger *slog.Logger

	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// hidden opens the window invisible.
	hidden bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow *glfwWindow

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int)

	motions []camera.Motion
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if GLFW or the window could not be initialized
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		mu:     &sync.Mutex{},
		logger: slog.New(slog.DiscardHandler),
		title:  "oxy-render",
		width:  640,
		height: 480,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	w.logger.Debug("window opened", "title", w.title, "width", w.width, "height", w.height, "hidden", w.hidden)
	return w, nil
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) DrainMotions() []camera.Motion {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := w.motions
	w.motions = nil
	return m
}

// queueMotion records a camera motion unless it is a no-op.
func (w *engineWindow) queueMotion(action camera.Action, dx, dy float32) {
	if action == camera.ActionNone || (dx == 0 && dy == 0) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.motions = append(w.motions, camera.Motion{Action: action, DX: dx, DY: dy})
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) SetSize(width, height int) {
	platformSetSize(w, width, height)
}

func (w *engineWindow) Hidden() bool {
	return w.hidden
}

func (w *engineWindow) ShouldClose() bool {
	return !platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) PollEvents() {
	platformProcessMessages(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}
