package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// scrollZoom is the zoom delta applied per scroll wheel notch.
const scrollZoom = 0.05

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool

	// button is the mouse button currently held, or -1.
	button glfw.MouseButton
	shift  bool
	lastX  float64
	lastY  float64
}

// dragAction maps a held mouse button to the camera action it drives: left rotates, right
// pans and middle zooms. Shift selects the horizontal variant.
func dragAction(button glfw.MouseButton, shift bool) camera.Action {
	switch button {
	case glfw.MouseButtonLeft:
		if shift {
			return camera.ActionRotateH
		}
		return camera.ActionRotateV
	case glfw.MouseButtonRight:
		if shift {
			return camera.ActionMoveH
		}
		return camera.ActionMoveV
	case glfw.MouseButtonMiddle:
		return camera.ActionZoom
	}
	return camera.ActionNone
}

// newPlatformWindow opens the GLFW window and routes its input into the motion queue.
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// No client API: frames reach the window through a WebGPU swapchain.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if w.hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.True)
	}

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}

	gw := &glfwWindow{
		window:  win,
		running: true,
		button:  -1,
	}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.queueMotion(camera.ActionZoom, 0, float32(-scrollZoom*yoff))
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			gw.button = button
			gw.shift = mods&glfw.ModShift != 0
			gw.lastX, gw.lastY = win.GetCursorPos()
		case glfw.Release:
			if gw.button == button {
				gw.button = -1
			}
		}
	})

	// Drag deltas are measured in window heights.
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		dx, dy := xpos-gw.lastX, ypos-gw.lastY
		gw.lastX, gw.lastY = xpos, ypos
		if gw.button < 0 {
			return
		}
		_, height := win.GetSize()
		if height <= 0 {
			return
		}
		w.queueMotion(dragAction(gw.button, gw.shift), float32(dx/float64(height)), float32(dy/float64(height)))
	})

	// Framebuffer size, not window size, so high-DPI displays report real pixels.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	w.width, w.height = win.GetFramebufferSize()

	return nil
}

// platformGetSurfaceDescriptor returns the WebGPU surface descriptor of the GLFW window.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.internalWindow.window)
}

func platformSetSize(w *engineWindow, width, height int) {
	if w.internalWindow == nil || width <= 0 || height <= 0 {
		return
	}
	w.internalWindow.window.SetSize(width, height)
	w.width, w.height = w.internalWindow.window.GetFramebufferSize()
}

// platformIsRunningCheck returns whether the GLFW window is still active.
func platformIsRunningCheck(w *engineWindow) bool {
	gw := w.internalWindow
	if gw == nil {
		return false
	}
	return gw.running && !gw.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	if gw := w.internalWindow; gw != nil {
		gw.window.SetShouldClose(true)
	}
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	gw := w.internalWindow
	if gw == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	w.internalWindow = nil
	glfw.Terminate()
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
func platformProcessMessages(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	glfw.PollEvents()
}
