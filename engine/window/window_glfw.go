package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the native side of an engineWindow. handle is nil once closed.
type glfwWindow struct {
	owner   *engineWindow
	handle  *glfw.Window
	running bool
}

// openGLFWWindow initializes GLFW, creates a window without a client API (WebGPU owns
// the surface) and routes its input events to w's callbacks.
// Must run on the main goroutine; the OS thread stays locked for the window's lifetime.
//
// Parameters:
//   - w: the window whose title, size and callbacks are used
//
// Returns:
//   - *glfwWindow: the native window
//   - error: error if GLFW could not be initialized or the window could not be created
func openGLFWWindow(w *engineWindow) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	gw := &glfwWindow{owner: w, handle: handle, running: true}
	handle.SetKeyCallback(gw.onKey)
	handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})
	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(x, y)
		}
	})
	// Framebuffer pixels, not screen coordinates, so high-DPI surfaces are sized correctly.
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized(width, height)
	})

	w.width, w.height = handle.GetFramebufferSize()
	gw.setCursorCaptured(w.captureCursor)
	return gw, nil
}

// onKey maps GLFW key actions onto the key-down and key-up callbacks. Repeats count as
// key-down; Escape closes the window when closeOnEscape is set.
func (gw *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	w := gw.owner
	if key == glfw.KeyEscape && action == glfw.Press && w.closeOnEscape {
		gw.running = false
		gw.handle.SetShouldClose(true)
		return
	}

	var callback func(uint32)
	switch action {
	case glfw.Press, glfw.Repeat:
		callback = w.onKeyDown
	case glfw.Release:
		callback = w.onKeyUp
	}
	if callback != nil {
		callback(uint32(key))
	}
}

// setCursorCaptured hides and unbinds the cursor for mouse look, with raw motion where the
// platform offers it, or restores the normal cursor.
func (gw *glfwWindow) setCursorCaptured(captured bool) {
	if gw == nil || gw.handle == nil {
		return
	}
	if !captured {
		gw.handle.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		return
	}
	gw.handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		gw.handle.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
}

func (gw *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	if gw == nil || gw.handle == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.handle)
}

func (gw *glfwWindow) alive() bool {
	return gw != nil && gw.running && gw.handle != nil && !gw.handle.ShouldClose()
}

// poll drains pending GLFW events without blocking.
//
// Returns:
//   - bool: whether the window is still open after the events were handled
func (gw *glfwWindow) poll() bool {
	if !gw.alive() {
		return false
	}
	glfw.PollEvents()
	return gw.alive()
}

// close destroys the window and terminates GLFW. Closing twice is a no-op.
//
// Returns:
//   - error: error if the window was never opened
func (gw *glfwWindow) close() error {
	if gw == nil {
		return errors.New("window is not initialized")
	}
	if gw.handle == nil {
		return nil
	}
	gw.running = false
	gw.handle.Destroy()
	gw.handle = nil
	glfw.Terminate()
	return nil
}
