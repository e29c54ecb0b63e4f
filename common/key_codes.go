package common

// Key codes delivered by the window. They match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyF     = 70  // F key (ASCII)
	KeyH     = 72  // H key (ASCII)
	KeyR     = 82  // R key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)
	KeyEnter = 257 // Enter key (GLFW)
	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)
)
