package window

import (
	"fmt"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// MouseButton identifies a mouse button in press and release callbacks.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Window provides platform windowing and input event handling.
// Every callback runs on the goroutine that calls ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and the cursor x, y position
	SetMouseDownCallback(callback func(button MouseButton, x, y int32))

	// SetMouseUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the button and the cursor x, y position
	SetMouseUpCallback(callback func(button MouseButton, x, y int32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving mouse x, y position
	SetMouseMoveCallback(callback func(x, y int32))

	// SetDoubleClickCallback sets the callback for two left clicks within the double click interval.
	SetDoubleClickCallback(callback func())

	// ToggleFullscreen switches between windowed mode and fullscreen on the primary monitor.
	// It must be called from the goroutine running ProcessMessages, which is where input callbacks run.
	ToggleFullscreen()

	// Fullscreen reports whether the window is currently fullscreen.
	Fullscreen() bool

	// PixelRatio returns the content scale of the monitor the window is on, 1 on standard displays.
	PixelRatio() float64

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	width  int
	height int

	startFullscreen bool
	closeOnEscape   bool

	clicks *clickTracker

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onMouseDown   func(button MouseButton, x, y int32)
	onMouseUp     func(button MouseButton, x, y int32)
	onMouseMove   func(x, y int32)
	onDoubleClick func()
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:         "oxy-galaxy",
		minWidth:      320,
		minHeight:     200,
		width:         1280,
		height:        720,
		closeOnEscape: true,
		clicks:        newClickTracker(300*time.Millisecond, time.Now),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseDownCallback(callback func(button MouseButton, x, y int32)) {
	w.onMouseDown = callback
}

func (w *engineWindow) SetMouseUpCallback(callback func(button MouseButton, x, y int32)) {
	w.onMouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetDoubleClickCallback(callback func()) {
	w.onDoubleClick = callback
}

func (w *engineWindow) ToggleFullscreen() {
	platformToggleFullscreen(w)
}

func (w *engineWindow) Fullscreen() bool {
	return platformIsFullscreen(w)
}

func (w *engineWindow) PixelRatio() float64 {
	return platformPixelRatio(w)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// mouseDown routes a press to the callbacks and feeds left clicks to the double click tracker.
func (w *engineWindow) mouseDown(button MouseButton, x, y int32) {
	if w.onMouseDown != nil {
		w.onMouseDown(button, x, y)
	}
	if button == MouseLeft && w.clicks.click() && w.onDoubleClick != nil {
		w.onDoubleClick()
	}
}
