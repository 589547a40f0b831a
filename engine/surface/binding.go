package surface

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-render/common"
)

// minParallelRows is the readback height below which rows are copied on the calling goroutine.
const minParallelRows = 64

type bindingImpl struct {
	mu     *sync.Mutex
	logger *slog.Logger

	mode     Mode
	provider string
	registry *Registry
	options  Options
	sizeHint func(width, height int)

	ctx Context
	fb  *Framebuffer

	requestedWidth  int
	requestedHeight int

	// readbackPool converts framebuffer rows into caller buffers in parallel. Workers are
	// reused across reads; a WaitGroup joins each read before it returns.
	readbackWorkers int
	readbackPool    worker.DynamicWorkerPool

	released bool
}

// Binding owns the platform Context of a render context and the drawing buffer allocated from
// it. The buffer only ever grows, and its active target always matches the binding's mode.
type Binding interface {
	// Mode returns the buffer target the binding was created for.
	Mode() Mode

	// Context returns the underlying platform context.
	Context() Context

	// Framebuffer returns the current drawing buffer.
	Framebuffer() *Framebuffer

	// Requested returns the last requested dimensions.
	Requested() (width, height int)

	// Allocated returns the dimensions of the current drawing buffer.
	Allocated() (width, height int)

	// BufferSize queries the drawable size from the context.
	BufferSize() (width, height int)

	// Resize grows the drawing buffer. It is a no-op unless width or height is strictly
	// greater than the allocation. Otherwise it updates the size hint, frees the buffer,
	// reallocates, and validates that the active target still equals the mode.
	//
	// Parameters:
	//   - width, height: requested dimensions
	//
	// Returns:
	//   - error: common.ErrConfiguration on target mismatch or allocation failure
	Resize(width, height int) error

	// Reallocate frees and remakes the drawing buffer at least as large as the given size
	// and the last request.
	//
	// Parameters:
	//   - width, height: the new size hint
	//
	// Returns:
	//   - error: common.ErrConfiguration on target mismatch or allocation failure
	Reallocate(width, height int) error

	// MakeCurrent binds the context to the calling thread.
	MakeCurrent() error

	// Swap presents the drawing buffer.
	Swap() error

	// ShouldClose reports whether the window asked to close.
	ShouldClose() bool

	// ReadPixels copies the width x height region at the origin, bottom row first.
	//
	// Parameters:
	//   - width, height: region size
	//   - includeDepth: also read depth
	//
	// Returns:
	//   - []byte: width*height*3 RGB bytes
	//   - []float32: width*height depth values, nil unless includeDepth
	//   - error: common.ErrPrecondition if the region exceeds the allocation
	ReadPixels(width, height int, includeDepth bool) ([]byte, []float32, error)

	// ReadDepthInto copies depth of the width x height region at the origin into buf.
	//
	// Parameters:
	//   - buf: destination of at least width*height values
	//   - width, height: region size
	//
	// Returns:
	//   - error: common.ErrPrecondition if buf is short or the region exceeds the allocation
	ReadDepthInto(buf []float32, width, height int) error

	// DrawPixels writes an RGB image with its bottom-left corner at (left, bottom). Pixels
	// outside the buffer are clipped.
	//
	// Parameters:
	//   - img: width*height*3 bytes, bottom row first
	//   - width, height: image size
	//   - left, bottom: destination offset
	//
	// Returns:
	//   - error: common.ErrValidation if img does not match its dimensions
	DrawPixels(img []byte, width, height, left, bottom int) error

	// Release frees the drawing buffer and destroys the context. Later calls return nil.
	Release() error
}

var _ Binding = &bindingImpl{}

// NewBinding opens a context for mode and allocates the initial drawing buffer.
//
// Parameters:
//   - mode: the buffer target
//   - options: functional options to configure the binding
//
// Returns:
//   - Binding: the binding
//   - error: common.ErrConfiguration if no provider serves mode or the target does not match
func NewBinding(mode Mode, options ...BindingBuilderOption) (Binding, error) {
	b := &bindingImpl{
		mu:              &sync.Mutex{},
		logger:          slog.New(slog.DiscardHandler),
		mode:            mode,
		registry:        DefaultRegistry(),
		readbackWorkers: runtime.NumCPU(),
		options: Options{
			Width:  640,
			Height: 480,
			Title:  "oxy-render",
		},
	}
	for _, option := range options {
		option(b)
	}
	b.options.Mode = mode
	b.options.Logger = b.logger

	ctx, err := b.registry.Open(b.provider, b.options)
	if err != nil {
		return nil, err
	}
	b.ctx = ctx
	b.logger.Info("surface provider selected", "provider", ctx.Name(), "mode", mode.String())

	if err := b.reallocate(b.options.Width, b.options.Height); err != nil {
		_ = b.release()
		return nil, err
	}
	b.readbackPool = worker.NewDynamicWorkerPool(max(b.readbackWorkers, 1), 256, 1*time.Second)
	return b, nil
}

func (b *bindingImpl) Mode() Mode {
	return b.mode
}

func (b *bindingImpl) Context() Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

func (b *bindingImpl) Framebuffer() *Framebuffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fb
}

func (b *bindingImpl) Requested() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requestedWidth, b.requestedHeight
}

func (b *bindingImpl) Allocated() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allocated()
}

func (b *bindingImpl) BufferSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return 0, 0
	}
	return b.ctx.BufferSize()
}

func (b *bindingImpl) Resize(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return fmt.Errorf("resize surface: %w", common.ErrReleased)
	}
	b.requestedWidth, b.requestedHeight = width, height

	allocWidth, allocHeight := b.allocated()
	if width <= allocWidth && height <= allocHeight {
		return nil
	}
	return b.reallocate(max(width, allocWidth), max(height, allocHeight))
}

func (b *bindingImpl) Reallocate(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return fmt.Errorf("reallocate surface: %w", common.ErrReleased)
	}
	return b.reallocate(max(width, b.requestedWidth), max(height, b.requestedHeight))
}

func (b *bindingImpl) MakeCurrent() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return fmt.Errorf("make surface current: %w", common.ErrReleased)
	}
	return b.ctx.MakeCurrent()
}

func (b *bindingImpl) Swap() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return fmt.Errorf("swap surface: %w", common.ErrReleased)
	}
	return b.ctx.Swap(b.fb)
}

func (b *bindingImpl) ShouldClose() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return true
	}
	return b.ctx.ShouldClose()
}

func (b *bindingImpl) ReadPixels(width, height int, includeDepth bool) ([]byte, []float32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkRegion("read pixels", width, height); err != nil {
		return nil, nil, err
	}

	color := make([]byte, width*height*3)
	var depth []float32
	if includeDepth {
		depth = make([]float32, width*height)
	}
	fb := b.fb
	b.parallelRows(height, func(y0, y1 int) {
		fb.copyRows(color, depth, width, y0, y1)
	})
	return color, depth, nil
}

func (b *bindingImpl) ReadDepthInto(buf []float32, width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkRegion("read depth", width, height); err != nil {
		return err
	}
	if len(buf) < width*height {
		return fmt.Errorf("read depth: buffer holds %d values, need %d: %w", len(buf), width*height, common.ErrPrecondition)
	}

	fb := b.fb
	b.parallelRows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			copy(buf[y*width:(y+1)*width], fb.Depth[y*fb.Width:y*fb.Width+width])
		}
	})
	return nil
}

func (b *bindingImpl) DrawPixels(img []byte, width, height, left, bottom int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return fmt.Errorf("draw pixels: %w", common.ErrReleased)
	}
	if width < 0 || height < 0 || len(img) != width*height*3 {
		return &common.ValidationError{
			Field:  "image",
			Reason: fmt.Sprintf("%d bytes do not form a %dx%d RGB image", len(img), width, height),
		}
	}
	if b.fb == nil {
		return fmt.Errorf("draw pixels: no drawing buffer allocated: %w", common.ErrPrecondition)
	}

	fb := b.fb
	x0, x1 := max(left, 0), min(left+width, fb.Width)
	if x0 >= x1 {
		return nil
	}
	for row := range height {
		y := bottom + row
		if y < 0 || y >= fb.Height {
			continue
		}
		src := (row*width + (x0 - left)) * 3
		dst := (y*fb.Width + x0) * 3
		copy(fb.Color[dst:dst+(x1-x0)*3], img[src:src+(x1-x0)*3])
	}
	return nil
}

func (b *bindingImpl) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.release()
}

// --- internal helpers ---

// allocated returns the current buffer size. Caller must hold the mutex.
func (b *bindingImpl) allocated() (int, int) {
	if b.fb == nil {
		return 0, 0
	}
	return b.fb.Width, b.fb.Height
}

// reallocate runs the size hint, free, allocate, validate sequence. Caller must hold the mutex.
func (b *bindingImpl) reallocate(width, height int) error {
	if b.sizeHint != nil {
		b.sizeHint(width, height)
	}
	if b.fb != nil {
		b.ctx.Free(b.fb)
		b.fb = nil
	}

	fb, err := b.ctx.Allocate(width, height)
	if err != nil {
		return fmt.Errorf("allocate %dx%d %s buffer: %w: %w", width, height, b.mode, common.ErrConfiguration, err)
	}
	b.fb = fb
	if err := b.ctx.SetBufferSize(width, height); err != nil {
		return fmt.Errorf("set %dx%d buffer size: %w: %w", width, height, common.ErrConfiguration, err)
	}
	if target := b.ctx.Target(); target != b.mode {
		return fmt.Errorf("%s rendering not supported by %q provider (active target is %s): %w",
			b.mode, b.ctx.Name(), target, common.ErrConfiguration)
	}
	b.logger.Debug("drawing buffer allocated", "width", width, "height", height, "mode", b.mode.String())
	return nil
}

// checkRegion validates a readback region against the allocation. Caller must hold the mutex.
func (b *bindingImpl) checkRegion(op string, width, height int) error {
	if b.released {
		return fmt.Errorf("%s: %w", op, common.ErrReleased)
	}
	allocWidth, allocHeight := b.allocated()
	if width < 0 || height < 0 || width > allocWidth || height > allocHeight {
		return fmt.Errorf("%s: region %dx%d exceeds allocated %dx%d buffer: %w",
			op, width, height, allocWidth, allocHeight, common.ErrPrecondition)
	}
	return nil
}

// parallelRows splits [0, rows) into chunks and runs fn over them on the readback pool,
// returning once every chunk is done.
func (b *bindingImpl) parallelRows(rows int, fn func(y0, y1 int)) {
	if rows < minParallelRows || b.readbackWorkers <= 1 || b.readbackPool == nil {
		fn(0, rows)
		return
	}

	chunk := (rows + b.readbackWorkers - 1) / b.readbackWorkers
	var wg sync.WaitGroup
	taskID := 0
	for y0 := 0; y0 < rows; y0 += chunk {
		y1 := min(y0+chunk, rows)
		wg.Add(1)
		start, end := y0, y1
		b.readbackPool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				fn(start, end)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
}

// release frees the buffer and context once. Caller must hold the mutex.
func (b *bindingImpl) release() error {
	if b.released {
		return nil
	}
	b.released = true
	if b.ctx == nil {
		return nil
	}
	if b.fb != nil {
		b.ctx.Free(b.fb)
		b.fb = nil
	}
	err := b.ctx.Release()
	b.logger.Debug("surface released", "provider", b.ctx.Name())
	return err
}
