package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestProfiler_TickReportsPerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	var buf bytes.Buffer
	p := NewProfiler(
		WithClock(clock.now),
		WithInterval(2*time.Second),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	for range 9 {
		clock.t = clock.t.Add(200 * time.Millisecond)
		_, ok := p.Tick()
		require.False(t, ok)
	}
	clock.t = clock.t.Add(200 * time.Millisecond)
	s, ok := p.Tick()
	require.True(t, ok)
	assert.Equal(t, 10, s.Frames)
	assert.InDelta(t, 5.0, s.FPS, 1e-9)
	assert.Positive(t, s.HeapMB)
	assert.Contains(t, buf.String(), "render stats")
	assert.Contains(t, buf.String(), "fps=5")

	clock.t = clock.t.Add(time.Second)
	_, ok = p.Tick()
	assert.False(t, ok, "window restarts after a report")
}

func TestProfiler_defaults(t *testing.T) {
	p := NewProfiler(WithInterval(-1), WithLogger(nil), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.now)
}
