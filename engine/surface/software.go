package surface

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
)

// SoftwareProvider is the name of the CPU offscreen provider, always registered.
const SoftwareProvider = "software"

func init() {
	Register(SoftwareProvider, 10, NewSoftwareContext, func(m Mode) bool { return m == ModeOffscreen })
}

// softwareContext is an offscreen Context backed entirely by CPU memory.
type softwareContext struct {
	mu     *sync.Mutex
	logger *slog.Logger

	device   int
	width    int
	height   int
	released bool
}

var _ Context = &softwareContext{}

// NewSoftwareContext opens a CPU offscreen context. Its target is always ModeOffscreen,
// whatever mode was requested.
//
// Parameters:
//   - opts: context options
//
// Returns:
//   - Context: the context
//   - error: error if the device id is negative
func NewSoftwareContext(opts Options) (Context, error) {
	if opts.DeviceID < 0 {
		return nil, fmt.Errorf("invalid device id %d", opts.DeviceID)
	}
	c := &softwareContext{
		mu:     &sync.Mutex{},
		logger: opts.Log(),
		device: opts.DeviceID,
		width:  opts.Width,
		height: opts.Height,
	}
	c.logger.Debug("software surface opened", "device", c.device, "width", c.width, "height", c.height)
	return c, nil
}

func (c *softwareContext) Name() string {
	return SoftwareProvider
}

func (c *softwareContext) Target() Mode {
	return ModeOffscreen
}

func (c *softwareContext) MakeCurrent() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return fmt.Errorf("make software surface current: %w", common.ErrReleased)
	}
	return nil
}

func (c *softwareContext) BufferSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *softwareContext) SetBufferSize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return fmt.Errorf("set software buffer size: %w", common.ErrReleased)
	}
	c.width, c.height = width, height
	return nil
}

func (c *softwareContext) Allocate(width, height int) (*Framebuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, fmt.Errorf("allocate software buffer: %w", common.ErrReleased)
	}
	return NewFramebuffer(width, height), nil
}

func (c *softwareContext) Free(*Framebuffer) {}

func (c *softwareContext) Swap(*Framebuffer) error {
	return nil
}

func (c *softwareContext) ShouldClose() bool {
	return false
}

func (c *softwareContext) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	return nil
}
