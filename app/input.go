package app

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/camera"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/window"
)

// pointer turns window mouse events into camera drags. Left drags orbit, right drags pan.
type pointer struct {
	mu       *sync.Mutex
	cam      camera.Camera
	dragging bool
	mode     camera.DragMode
	lastX    int32
	lastY    int32
}

func newPointer(cam camera.Camera) *pointer {
	return &pointer{mu: &sync.Mutex{}, cam: cam}
}

func (p *pointer) down(button window.MouseButton, x, y int32) {
	var mode camera.DragMode
	switch button {
	case window.MouseLeft:
		mode = camera.DragRotate
	case window.MouseRight:
		mode = camera.DragPan
	default:
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dragging = true
	p.mode = mode
	p.lastX, p.lastY = x, y
}

func (p *pointer) up(button window.MouseButton, _, _ int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.dragging {
		return
	}
	if (button == window.MouseLeft && p.mode == camera.DragRotate) || (button == window.MouseRight && p.mode == camera.DragPan) {
		p.dragging = false
	}
}

func (p *pointer) move(x, y int32) {
	p.mu.Lock()
	if !p.dragging {
		p.mu.Unlock()
		return
	}
	dx, dy := float32(x-p.lastX), float32(y-p.lastY)
	p.lastX, p.lastY = x, y
	mode := p.mode
	p.mu.Unlock()

	if dx != 0 || dy != 0 {
		p.cam.Drag(mode, dx, dy)
	}
}

func (p *pointer) scroll(delta float32) {
	p.cam.Scroll(delta)
}
