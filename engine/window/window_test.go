package window

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/Carmen-Shannon/oxy-render/engine/surface"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestDragAction(t *testing.T) {
	tests := []struct {
		button glfw.MouseButton
		shift  bool
		want   camera.Action
	}{
		{glfw.MouseButtonLeft, false, camera.ActionRotateV},
		{glfw.MouseButtonLeft, true, camera.ActionRotateH},
		{glfw.MouseButtonRight, false, camera.ActionMoveV},
		{glfw.MouseButtonRight, true, camera.ActionMoveH},
		{glfw.MouseButtonMiddle, false, camera.ActionZoom},
		{glfw.MouseButton4, false, camera.ActionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dragAction(tt.button, tt.shift), "button %d shift %v", tt.button, tt.shift)
	}
}

func TestPackFrame(t *testing.T) {
	fb := surface.NewFramebuffer(2, 2)
	fb.SetPixel(0, 0, 10, 20, 30) // bottom-left
	fb.SetPixel(1, 1, 40, 50, 60) // top-right

	dst := make([]byte, 3*2*4)
	packFrame(dst, fb, 3, 2, false)
	assert.Equal(t, []byte{
		0, 0, 0, 255, 40, 50, 60, 255, 0, 0, 0, 255,
		10, 20, 30, 255, 0, 0, 0, 255, 0, 0, 0, 255,
	}, dst)

	packFrame(dst, fb, 3, 2, true)
	assert.Equal(t, []byte{30, 20, 10, 255}, dst[12:16], "swizzled to BGRA")

	packFrame(dst, nil, 3, 2, false)
	assert.Equal(t, byte(255), dst[3])
	assert.Equal(t, byte(0), dst[0])
}

func TestQueueMotion(t *testing.T) {
	w := &engineWindow{mu: &sync.Mutex{}}
	w.queueMotion(camera.ActionRotateV, 0.1, 0)
	w.queueMotion(camera.ActionZoom, 0, 0)
	w.queueMotion(camera.ActionNone, 1, 1)
	w.queueMotion(camera.ActionMoveH, 0, -0.2)

	got := w.DrainMotions()
	assert.Equal(t, []camera.Motion{
		{Action: camera.ActionRotateV, DX: 0.1},
		{Action: camera.ActionMoveH, DY: -0.2},
	}, got)
	assert.Empty(t, w.DrainMotions())
	assert.True(t, w.ShouldClose(), "no platform window")
}
