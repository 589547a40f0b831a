package surface

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContext wraps the software context but reports a configurable target, letting tests
// simulate a backend that loses its buffer target after reallocation.
type fakeContext struct {
	Context
	allocations int
	frees       int
	swaps       int
	closing     bool
	released    int
	target      func(allocations int) Mode
}

func (f *fakeContext) Name() string { return "fake" }

func (f *fakeContext) Target() Mode { return f.target(f.allocations) }

func (f *fakeContext) Allocate(width, height int) (*Framebuffer, error) {
	f.allocations++
	return f.Context.Allocate(width, height)
}

func (f *fakeContext) Free(fb *Framebuffer) { f.frees++ }

func (f *fakeContext) Swap(*Framebuffer) error {
	f.swaps++
	return nil
}

func (f *fakeContext) ShouldClose() bool { return f.closing }

func (f *fakeContext) Release() error {
	f.released++
	return f.Context.Release()
}

func fakeRegistry(t *testing.T, target func(int) Mode) (*Registry, *fakeContext) {
	t.Helper()
	inner, err := NewSoftwareContext(Options{})
	require.NoError(t, err)
	fake := &fakeContext{Context: inner, target: target}

	r := NewRegistry()
	r.Register("fake", 50, func(Options) (Context, error) { return fake, nil }, nil)
	return r, fake
}

func newSoftwareBinding(t *testing.T, width, height int, options ...BindingBuilderOption) Binding {
	t.Helper()
	options = append([]BindingBuilderOption{WithSize(width, height)}, options...)
	b, err := NewBinding(ModeOffscreen, options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Release() })
	return b
}

func TestRegistry_Select(t *testing.T) {
	r := NewRegistry()
	r.Register("slow", 10, NewSoftwareContext, func(m Mode) bool { return m == ModeOffscreen })
	r.Register("fast", 100, NewSoftwareContext, func(m Mode) bool { return m == ModeOffscreen })
	r.Register("window", 200, NewSoftwareContext, func(m Mode) bool { return m == ModeOnscreen })

	assert.Equal(t, []string{"window", "fast", "slow"}, r.Names())

	e, err := r.Select("", ModeOffscreen)
	require.NoError(t, err)
	assert.Equal(t, "fast", e.Name)

	e, err = r.Select("slow", ModeOnscreen)
	require.NoError(t, err, "explicit names bypass the support check")
	assert.Equal(t, "slow", e.Name)

	_, err = r.Select("missing", ModeOffscreen)
	assert.True(t, errors.Is(err, common.ErrConfiguration))

	r.Unregister("window")
	_, err = r.Select("", ModeOnscreen)
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestRegistry_OpenFactoryFailure(t *testing.T) {
	r := NewRegistry()
	r.Register("broken", 1, func(Options) (Context, error) { return nil, errors.New("no display") }, nil)

	_, err := r.Open("", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfiguration))
	assert.Contains(t, err.Error(), "no display")
}

func TestDefaultRegistry_hasSoftware(t *testing.T) {
	assert.Contains(t, Providers(), SoftwareProvider)
	e, ok := DefaultRegistry().Get(SoftwareProvider)
	require.True(t, ok)
	assert.True(t, e.Supports(ModeOffscreen))
	assert.False(t, e.Supports(ModeOnscreen))
}

func TestNewBinding_onscreenWithSoftwareFails(t *testing.T) {
	_, err := NewBinding(ModeOnscreen, WithProvider(SoftwareProvider))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfiguration))
	assert.Contains(t, err.Error(), "onscreen rendering not supported")
}

func TestNewBinding_invalidDevice(t *testing.T) {
	_, err := NewBinding(ModeOffscreen, WithDeviceID(-1))
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestBinding_ResizeGrowOnly(t *testing.T) {
	var hints [][2]int
	b := newSoftwareBinding(t, 64, 48, WithSizeHint(func(w, h int) { hints = append(hints, [2]int{w, h}) }))
	hints = nil

	steps := []struct {
		w, h         int
		wantW, wantH int
		realloc      bool
	}{
		{w: 32, h: 32, wantW: 64, wantH: 48},
		{w: 64, h: 48, wantW: 64, wantH: 48},
		{w: 100, h: 20, wantW: 100, wantH: 48, realloc: true},
		{w: 90, h: 200, wantW: 100, wantH: 200, realloc: true},
		{w: 100, h: 200, wantW: 100, wantH: 200},
	}
	for _, s := range steps {
		before := len(hints)
		require.NoError(t, b.Resize(s.w, s.h))

		w, h := b.Allocated()
		assert.Equal(t, s.wantW, w)
		assert.Equal(t, s.wantH, h)
		assert.GreaterOrEqual(t, w, s.w)
		assert.GreaterOrEqual(t, h, s.h)
		assert.Equal(t, s.realloc, len(hints) > before)

		rw, rh := b.Requested()
		assert.Equal(t, [2]int{s.w, s.h}, [2]int{rw, rh})
	}
	assert.Equal(t, [][2]int{{100, 48}, {100, 200}}, hints)

	bw, bh := b.BufferSize()
	assert.Equal(t, [2]int{100, 200}, [2]int{bw, bh})
}

func TestBinding_ResizeTargetMismatch(t *testing.T) {
	r, fake := fakeRegistry(t, func(allocations int) Mode {
		if allocations > 1 {
			return ModeOnscreen
		}
		return ModeOffscreen
	})
	b, err := NewBinding(ModeOffscreen, WithRegistry(r), WithSize(8, 8))
	require.NoError(t, err)

	err = b.Resize(16, 16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfiguration))
	assert.Equal(t, 2, fake.allocations, "not retried")
	assert.Equal(t, 1, fake.frees)

	require.NoError(t, b.Release())
	require.NoError(t, b.Release())
	assert.Equal(t, 1, fake.released)
}

func TestBinding_Reallocate(t *testing.T) {
	b := newSoftwareBinding(t, 64, 48)
	require.NoError(t, b.Resize(80, 60))

	require.NoError(t, b.Reallocate(32, 32))
	w, h := b.Allocated()
	assert.Equal(t, [2]int{80, 60}, [2]int{w, h}, "never below the last request")

	require.NoError(t, b.Reallocate(120, 90))
	w, h = b.Allocated()
	assert.Equal(t, [2]int{120, 90}, [2]int{w, h})
}

func TestBinding_ReadPixelsSizes(t *testing.T) {
	b := newSoftwareBinding(t, 64, 48)

	color, depth, err := b.ReadPixels(64, 48, true)
	require.NoError(t, err)
	assert.Len(t, color, 64*48*3)
	assert.Len(t, depth, 64*48)
	assert.Equal(t, float32(1), depth[0], "cleared to the far plane")

	color, depth, err = b.ReadPixels(10, 5, false)
	require.NoError(t, err)
	assert.Len(t, color, 150)
	assert.Nil(t, depth)

	_, _, err = b.ReadPixels(65, 48, false)
	assert.True(t, errors.Is(err, common.ErrPrecondition))
	_, _, err = b.ReadPixels(-1, 48, false)
	assert.True(t, errors.Is(err, common.ErrPrecondition))
}

func TestBinding_DrawReadRoundTrip(t *testing.T) {
	for _, workers := range []int{1, 4} {
		b := newSoftwareBinding(t, 128, 96, WithReadbackWorkers(workers))

		img := make([]byte, 128*96*3)
		for i := range img {
			img[i] = byte(i * 7)
		}
		require.NoError(t, b.DrawPixels(img, 128, 96, 0, 0))

		color, _, err := b.ReadPixels(128, 96, false)
		require.NoError(t, err)
		assert.Equal(t, img, color, "workers=%d", workers)
	}
}

func TestBinding_DrawPixelsOffsetAndClip(t *testing.T) {
	b := newSoftwareBinding(t, 4, 4)

	img := []byte{
		1, 1, 1, 2, 2, 2, // bottom row
		3, 3, 3, 4, 4, 4,
	}
	require.NoError(t, b.DrawPixels(img, 2, 2, 3, -1))

	fb := b.Framebuffer()
	r, _, _ := fb.Pixel(3, 0)
	assert.Equal(t, byte(3), r, "image row 1 lands on buffer row 0 at x=3")
	r, _, _ = fb.Pixel(2, 0)
	assert.Equal(t, byte(0), r)

	err := b.DrawPixels(img[:5], 2, 2, 0, 0)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestBinding_ReadDepthInto(t *testing.T) {
	b := newSoftwareBinding(t, 8, 8)
	fb := b.Framebuffer()
	require.True(t, fb.DepthTest(1, 1, 0.25))

	buf := make([]float32, 16)
	require.NoError(t, b.ReadDepthInto(buf, 4, 4))
	assert.Equal(t, float32(0.25), buf[1*4+1])
	assert.Equal(t, float32(1), buf[0])

	assert.True(t, errors.Is(b.ReadDepthInto(buf[:3], 4, 4), common.ErrPrecondition))
	assert.True(t, errors.Is(b.ReadDepthInto(buf, 9, 1), common.ErrPrecondition))
}

func TestBinding_ReleasedCalls(t *testing.T) {
	b, err := NewBinding(ModeOffscreen, WithSize(4, 4))
	require.NoError(t, err)
	require.NoError(t, b.Release())
	require.NoError(t, b.Release())

	assert.True(t, errors.Is(b.Resize(8, 8), common.ErrReleased))
	assert.True(t, errors.Is(b.MakeCurrent(), common.ErrReleased))
	_, _, err = b.ReadPixels(1, 1, false)
	assert.True(t, errors.Is(err, common.ErrReleased))
	assert.True(t, b.ShouldClose())
}

func TestBinding_SwapAndClose(t *testing.T) {
	r, fake := fakeRegistry(t, func(int) Mode { return ModeOnscreen })
	b, err := NewBinding(ModeOnscreen, WithRegistry(r), WithSize(4, 4))
	require.NoError(t, err)
	defer b.Release()

	require.NoError(t, b.Swap())
	assert.Equal(t, 1, fake.swaps)
	assert.False(t, b.ShouldClose())
	fake.closing = true
	assert.True(t, b.ShouldClose())
}

func TestMode_Text(t *testing.T) {
	m, err := ParseMode("OnScreen")
	require.NoError(t, err)
	assert.Equal(t, ModeOnscreen, m)

	text, err := ModeOffscreen.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "offscreen", string(text))

	require.Error(t, m.UnmarshalText([]byte("hologram")))
	_, err = Mode(7).MarshalText()
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestFramebuffer_BlendAndDepth(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Clear(0, 0, 0)
	fb.BlendPixel(0, 0, 200, 100, 50, 0.5)
	r, g, b := fb.Pixel(0, 0)
	assert.Equal(t, [3]byte{100, 50, 25}, [3]byte{r, g, b})

	assert.True(t, fb.DepthTest(1, 1, 0.5))
	assert.False(t, fb.DepthTest(1, 1, 0.6))
	assert.False(t, fb.DepthTest(5, 5, 0.1))
	fb.SetPixel(-1, 0, 1, 1, 1)
}
