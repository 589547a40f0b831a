package window

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/Carmen-Shannon/oxy-render/engine/surface"
)

// Provider is the registry name of the GLFW surface provider.
const Provider = "glfw"

func init() {
	surface.Register(Provider, 100, NewContext, func(surface.Mode) bool { return true })
}

// glfwContext is a surface.Context drawing into a CPU framebuffer and presenting it through
// a WebGPU swapchain on a GLFW window. Offscreen contexts keep the window hidden and never
// present.
type glfwContext struct {
	mu     *sync.Mutex
	logger *slog.Logger

	target    surface.Mode
	win       Window
	presenter *presenter

	width    int
	height   int
	released bool
}

var _ surface.Context = &glfwContext{}

// NewContext opens a GLFW window, visible for onscreen targets and hidden otherwise, and
// for onscreen targets attaches a WebGPU presenter to it.
//
// Parameters:
//   - opts: context options
//
// Returns:
//   - surface.Context: the context
//   - error: error if the window or GPU device could not be created
func NewContext(opts surface.Options) (surface.Context, error) {
	logger := opts.Log()
	win, err := NewWindow(
		WithTitle(opts.Title),
		WithSize(opts.Width, opts.Height),
		WithHidden(opts.Mode == surface.ModeOffscreen),
		WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	c := &glfwContext{
		mu:     &sync.Mutex{},
		logger: logger,
		target: opts.Mode,
		win:    win,
		width:  opts.Width,
		height: opts.Height,
	}
	if opts.Mode == surface.ModeOnscreen {
		fw, fh := win.FramebufferSize()
		p, err := newPresenter(win.SurfaceDescriptor(), fw, fh, logger)
		if err != nil {
			_ = win.Close()
			return nil, err
		}
		c.presenter = p
		win.SetResizeCallback(p.Configure)
	}
	logger.Info("glfw surface opened", "target", c.target, "width", c.width, "height", c.height)
	return c, nil
}

func (c *glfwContext) Name() string {
	return Provider
}

func (c *glfwContext) Target() surface.Mode {
	return c.target
}

func (c *glfwContext) MakeCurrent() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return fmt.Errorf("make glfw surface current: %w", common.ErrReleased)
	}
	return nil
}

func (c *glfwContext) BufferSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *glfwContext) SetBufferSize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return fmt.Errorf("set glfw buffer size: %w", common.ErrReleased)
	}
	c.width, c.height = width, height
	if c.target == surface.ModeOnscreen {
		c.win.SetSize(width, height)
	}
	return nil
}

func (c *glfwContext) Allocate(width, height int) (*surface.Framebuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, fmt.Errorf("allocate glfw buffer: %w", common.ErrReleased)
	}
	c.logger.Debug("glfw buffer allocated", "width", width, "height", height)
	return surface.NewFramebuffer(width, height), nil
}

func (c *glfwContext) Free(*surface.Framebuffer) {}

func (c *glfwContext) Swap(fb *surface.Framebuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return fmt.Errorf("swap glfw surface: %w", common.ErrReleased)
	}
	c.win.PollEvents()
	if c.presenter == nil {
		return nil
	}
	return c.presenter.Present(fb)
}

func (c *glfwContext) ShouldClose() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released || c.win.ShouldClose()
}

// DrainMotions returns the camera motions queued by pointer input on the window.
func (c *glfwContext) DrainMotions() []camera.Motion {
	return c.win.DrainMotions()
}

func (c *glfwContext) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil
	}
	c.released = true
	if c.presenter != nil {
		c.presenter.Release()
		c.presenter = nil
	}
	c.logger.Info("glfw surface released")
	return c.win.Close()
}
