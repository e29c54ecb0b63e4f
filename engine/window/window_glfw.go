package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool

	// windowed geometry saved when entering fullscreen
	savedX, savedY int
	savedW, savedH int
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	maxW, maxH := glfw.DontCare, glfw.DontCare
	if w.maxWidth > 0 {
		maxW = w.maxWidth
	}
	if w.maxHeight > 0 {
		maxH = w.maxHeight
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, maxW, maxH)

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if w.closeOnEscape && key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		var b MouseButton
		switch button {
		case glfw.MouseButtonLeft:
			b = MouseLeft
		case glfw.MouseButtonRight:
			b = MouseRight
		case glfw.MouseButtonMiddle:
			b = MouseMiddle
		default:
			return
		}
		xpos, ypos := win.GetCursorPos()
		switch action {
		case glfw.Press:
			w.mouseDown(b, int32(xpos), int32(ypos))
		case glfw.Release:
			if w.onMouseUp != nil {
				w.onMouseUp(b, int32(xpos), int32(ypos))
			}
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(int32(xpos), int32(ypos))
		}
	})

	// Framebuffer size is in pixels, which differs from the window size on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if width == 0 || height == 0 {
			// minimized
			return
		}
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	if w.startFullscreen {
		platformToggleFullscreen(w)
	}
	return nil
}

// platformToggleFullscreen moves the window onto the primary monitor at its current video mode,
// or back to the saved windowed position and size.
func platformToggleFullscreen(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)

	if gw.window.GetMonitor() != nil {
		gw.window.SetMonitor(nil, gw.savedX, gw.savedY, gw.savedW, gw.savedH, 0)
		return
	}

	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return
	}
	gw.savedX, gw.savedY = gw.window.GetPos()
	gw.savedW, gw.savedH = gw.window.GetSize()
	mode := monitor.GetVideoMode()
	gw.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

func platformIsFullscreen(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	return w.internalWindow.(*glfwWindow).window.GetMonitor() != nil
}

func platformPixelRatio(w *engineWindow) float64 {
	if w.internalWindow == nil {
		return 1
	}
	x, _ := w.internalWindow.(*glfwWindow).window.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns false if the internal window is nil, the running flag is cleared,
// or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
