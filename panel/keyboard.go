package panel

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-galaxy/common"
)

// Keyboard drives a Registry from key events.
//
// Up and Down select a control, Left and Right nudge it, and the edit is committed when the arrow key is
// released so that key repeat does not trigger a commit per step. Enter runs the selected action and
// H shows or hides the panel. While hidden, only H is handled.
type Keyboard struct {
	registry *Registry
	logger   *slog.Logger

	mu       *sync.Mutex
	visible  bool
	selected int
	pending  string
}

// NewKeyboard creates a visible keyboard driver for r.
//
// Parameters:
//   - r: the registry to drive
//   - logger: where the panel is printed, or nil for slog.Default()
//
// Returns:
//   - *Keyboard: the driver
func NewKeyboard(r *Registry, logger *slog.Logger) *Keyboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Keyboard{
		registry: r,
		logger:   logger,
		mu:       &sync.Mutex{},
		visible:  true,
	}
}

// Visible reports whether the panel is shown.
func (k *Keyboard) Visible() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.visible
}

// Toggle shows or hides the panel and returns the new visibility.
func (k *Keyboard) Toggle() bool {
	k.mu.Lock()
	k.visible = !k.visible
	visible := k.visible
	k.pending = ""
	k.mu.Unlock()

	if visible {
		k.Print()
	} else {
		k.logger.Info("panel hidden")
	}
	return visible
}

// Print logs every control with the current selection marked.
func (k *Keyboard) Print() {
	controls := k.registry.Controls()
	k.mu.Lock()
	selected := k.selected
	k.mu.Unlock()

	var b strings.Builder
	for i, c := range controls {
		if i == selected {
			b.WriteString("> ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(c.Describe())
		b.WriteByte('\n')
	}
	k.logger.Info("panel\n" + b.String())
}

// Selected returns the currently selected control.
func (k *Keyboard) Selected() (Control, bool) {
	controls := k.registry.Controls()
	if len(controls) == 0 {
		return nil, false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.selected >= len(controls) {
		k.selected = len(controls) - 1
	}
	return controls[k.selected], true
}

// KeyDown handles a key press or repeat and reports whether the key was consumed.
func (k *Keyboard) KeyDown(keyCode uint32) bool {
	if keyCode == common.KeyH {
		k.Toggle()
		return true
	}
	if !k.Visible() {
		return false
	}

	switch keyCode {
	case common.KeyUp, common.KeyDown:
		k.move(keyCode)
		return true
	case common.KeyLeft, common.KeyRight:
		c, ok := k.Selected()
		if !ok || c.Kind() == KindAction || c.Kind() == KindColor {
			return true
		}
		steps := 1
		if keyCode == common.KeyLeft {
			steps = -1
		}
		if err := k.registry.Nudge(c.Name(), steps); err != nil {
			k.logger.Warn("panel: nudge failed", "control", c.Name(), "error", err)
			return true
		}
		k.mu.Lock()
		k.pending = c.Name()
		k.mu.Unlock()
		return true
	case common.KeyEnter:
		c, ok := k.Selected()
		if ok && c.Kind() == KindAction {
			_ = k.registry.Commit(c.Name())
		}
		return true
	}
	return false
}

// KeyUp handles a key release and commits a pending nudge.
func (k *Keyboard) KeyUp(keyCode uint32) bool {
	if keyCode != common.KeyLeft && keyCode != common.KeyRight {
		return false
	}
	k.mu.Lock()
	name := k.pending
	k.pending = ""
	k.mu.Unlock()

	if name == "" {
		return false
	}
	if err := k.registry.Commit(name); err != nil {
		k.logger.Warn("panel: commit failed", "control", name, "error", err)
	}
	if c, ok := k.registry.Lookup(name); ok {
		k.logger.Info("panel: " + c.Describe())
	}
	return true
}

func (k *Keyboard) move(keyCode uint32) {
	n := k.registry.Len()
	if n == 0 {
		return
	}
	k.mu.Lock()
	if keyCode == common.KeyDown {
		k.selected = (k.selected + 1) % n
	} else {
		k.selected = (k.selected - 1 + n) % n
	}
	k.pending = ""
	k.mu.Unlock()

	if c, ok := k.Selected(); ok {
		k.logger.Info("panel: selected " + c.Describe())
	}
}
