package window

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

// presenter copies CPU framebuffers into the swapchain of a WebGPU surface.
type presenter struct {
	mu     *sync.Mutex
	logger *slog.Logger

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	config *wgpu.SurfaceConfiguration
	bgra   bool

	// staging is the packed RGBA/BGRA copy of the last presented frame.
	staging []byte
}

// newPresenter creates the WebGPU instance, surface, adapter and device for a window and
// configures the swapchain at the given size.
//
// Parameters:
//   - desc: the window's surface descriptor
//   - width, height: the swapchain size in pixels
//   - logger: diagnostics sink
//
// Returns:
//   - *presenter: the presenter
//   - error: ErrConfiguration if no adapter, device or 8-bit surface format is available
func newPresenter(desc *wgpu.SurfaceDescriptor, width, height int, logger *slog.Logger) (*presenter, error) {
	if desc == nil {
		return nil, fmt.Errorf("no surface descriptor: %w", common.ErrConfiguration)
	}
	p := &presenter{
		mu:       &sync.Mutex{},
		logger:   logger,
		instance: wgpu.CreateInstance(nil),
	}
	p.surface = p.instance.CreateSurface(desc)

	a, err := p.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: p.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("request adapter: %w: %w", common.ErrConfiguration, err)
	}
	p.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Presenter Device",
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("request device: %w: %w", common.ErrConfiguration, err)
	}
	p.device = d
	p.queue = d.GetQueue()

	capabilities := p.surface.GetCapabilities(p.adapter)
	format, bgra, ok := pickFormat(capabilities.Formats)
	if !ok {
		p.Release()
		return nil, fmt.Errorf("surface offers no 8-bit RGBA format: %w", common.ErrConfiguration)
	}
	p.bgra = bgra
	p.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopyDst,
		Format:      format,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   capabilities.AlphaModes[0],
	}
	p.Configure(width, height)
	return p, nil
}

// pickFormat returns the first 8-bit four channel format and whether it is BGRA ordered.
func pickFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, bool, bool) {
	for _, f := range formats {
		switch f {
		case wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb:
			return f, true, true
		case wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb:
			return f, false, true
		}
	}
	return 0, false, false
}

// Configure resizes the swapchain. Non-positive sizes are ignored since a minimized window
// reports a zero framebuffer.
func (p *presenter) Configure(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.Width = uint32(width)
	p.config.Height = uint32(height)
	p.surface.Configure(p.adapter, p.device, p.config)
	p.logger.Debug("swapchain configured", "width", width, "height", height, "bgra", p.bgra)
}

// Present writes fb into the next swapchain texture and presents it.
//
// Parameters:
//   - fb: the framebuffer to show, its bottom-left corner anchored to the window's
//
// Returns:
//   - error: error if the swapchain texture could not be acquired
func (p *presenter) Present(fb *surface.Framebuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	width, height := int(p.config.Width), int(p.config.Height)
	if width == 0 || height == 0 {
		return nil
	}
	tex, err := p.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire swapchain texture: %w", err)
	}
	defer tex.Release()

	if len(p.staging) != width*height*4 {
		p.staging = make([]byte, width*height*4)
	}
	packFrame(p.staging, fb, width, height, p.bgra)

	p.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		p.staging,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(width * 4),
			RowsPerImage: uint32(height),
		},
		&wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
	)
	p.surface.Present()
	return nil
}

// packFrame converts the bottom-up RGB framebuffer into a top-down four channel image of the
// given size. Pixels the framebuffer does not cover are opaque black.
func packFrame(dst []byte, fb *surface.Framebuffer, width, height int, bgra bool) {
	clear(dst)
	for y := range height {
		fy := height - 1 - y
		row := dst[y*width*4 : (y+1)*width*4]
		for x := range width {
			row[x*4+3] = 255
			if fb == nil || !fb.Contains(x, fy) {
				continue
			}
			r, g, b := fb.Pixel(x, fy)
			if bgra {
				r, b = b, r
			}
			row[x*4], row[x*4+1], row[x*4+2] = r, g, b
		}
	}
}

// Release frees every GPU object the presenter created. Safe on a partially built presenter.
func (p *presenter) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queue != nil {
		p.queue.Release()
		p.queue = nil
	}
	if p.device != nil {
		p.device.Release()
		p.device = nil
	}
	if p.adapter != nil {
		p.adapter.Release()
		p.adapter = nil
	}
	if p.surface != nil {
		p.surface.Release()
		p.surface = nil
	}
	if p.instance != nil {
		p.instance.Release()
		p.instance = nil
	}
}
