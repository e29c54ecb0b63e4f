package panel

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Handle releases controls added to a Registry.
type Handle interface {
	Release()
}

// commitGroup is the onCommit callback shared by every control of a folder.
// Batched edits run each distinct group once.
type commitGroup struct {
	name string
	fn   func() error
}

type entry struct {
	control Control
	group   *commitGroup
}

// Registry holds the live set of controls and routes edits to them.
//
// Every setter and every onCommit callback runs through the dispatcher, so a host can serialise panel
// edits with its own frame loop. The default dispatcher runs work on the calling goroutine.
type Registry struct {
	mu       *sync.Mutex
	entries  []*entry
	byName   map[string]*entry
	dispatch func(func())
	onError  func(name string, err error)
	logger   *slog.Logger
}

// NewRegistry creates an empty Registry.
//
// Parameters:
//   - options: functional options for dispatcher, error handling and logging
//
// Returns:
//   - *Registry: the new registry
func NewRegistry(options ...RegistryBuilderOption) *Registry {
	r := &Registry{
		mu:       &sync.Mutex{},
		byName:   make(map[string]*entry),
		dispatch: func(fn func()) { fn() },
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Register adds a standalone control whose onCommit fires after each completed edit.
// Action controls ignore onCommit and run their own callback on commit.
//
// Parameters:
//   - c: the control to add, its name must be unique in the registry
//   - onCommit: called with no payload once the edit is finished, may be nil
//
// Returns:
//   - Handle: releases the control
//   - error: error if a control with the same name is already registered
func (r *Registry) Register(c Control, onCommit func() error) (Handle, error) {
	if err := r.add(c, &commitGroup{name: c.Name(), fn: onCommit}); err != nil {
		return nil, err
	}
	return &registration{r: r, names: []string{c.Name()}}, nil
}

// Folder creates a named group of controls sharing one onCommit callback.
func (r *Registry) Folder(name string, onCommit func() error) *Folder {
	return &Folder{
		registration: registration{r: r},
		group:        &commitGroup{name: name, fn: onCommit},
	}
}

func (r *Registry) add(c Control, group *commitGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[c.Name()]; exists {
		return fmt.Errorf("panel: control %q already registered", c.Name())
	}
	if a, ok := c.(*actionControl); ok {
		do := a.do
		group = &commitGroup{name: c.Name(), fn: func() error { do(); return nil }}
	}
	e := &entry{control: c, group: group}
	r.entries = append(r.entries, e)
	r.byName[c.Name()] = e
	return nil
}

func (r *Registry) remove(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		e, ok := r.byName[name]
		if !ok {
			continue
		}
		delete(r.byName, name)
		for i, other := range r.entries {
			if other == e {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				break
			}
		}
	}
}

// Controls returns the registered controls in registration order.
func (r *Registry) Controls() []Control {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Control, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.control
	}
	return out
}

// Lookup returns the control registered under name.
func (r *Registry) Lookup(name string) (Control, bool) {
	e, ok := r.lookup(name)
	if !ok {
		return nil, false
	}
	return e.control, true
}

// Len returns the number of registered controls.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) lookup(name string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byName[name]
	return e, ok
}

// Edit writes v into the named control without committing, as during a drag.
func (r *Registry) Edit(name string, v any) error {
	e, ok := r.lookup(name)
	if !ok {
		return fmt.Errorf("panel: unknown control %q", name)
	}
	r.dispatch(func() {
		if err := e.control.Set(v); err != nil {
			r.report(name, err)
		}
	})
	return nil
}

// Nudge moves the named control by steps increments without committing.
func (r *Registry) Nudge(name string, steps int) error {
	e, ok := r.lookup(name)
	if !ok {
		return fmt.Errorf("panel: unknown control %q", name)
	}
	r.dispatch(func() {
		if err := e.control.Nudge(steps); err != nil {
			r.report(name, err)
		}
	})
	return nil
}

// Commit finishes an edit of the named control and fires its onCommit callback.
func (r *Registry) Commit(name string) error {
	e, ok := r.lookup(name)
	if !ok {
		return fmt.Errorf("panel: unknown control %q", name)
	}
	r.dispatch(func() {
		r.runCommit(e.group)
	})
	return nil
}

// Apply writes v into the named control and commits it.
func (r *Registry) Apply(name string, v any) error {
	e, ok := r.lookup(name)
	if !ok {
		return fmt.Errorf("panel: unknown control %q", name)
	}
	r.dispatch(func() {
		if err := e.control.Set(v); err != nil {
			r.report(name, err)
			return
		}
		r.runCommit(e.group)
	})
	return nil
}

// ApplyBatch writes every value that differs from its control's live value and then runs each affected
// onCommit once. Unknown names and action controls are skipped.
//
// Parameters:
//   - values: control values keyed by control name
//   - commit: if false, values are written without firing any onCommit
//
// Returns:
//   - []string: the sorted names of the controls that changed
func (r *Registry) ApplyBatch(values map[string]any, commit bool) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var changed []*entry
	var changedNames []string
	for _, name := range names {
		e, ok := r.lookup(name)
		if !ok {
			r.logger.Warn("panel: ignoring unknown control", "control", name)
			continue
		}
		if e.control.Kind() == KindAction || sameValue(e.control, values[name]) {
			continue
		}
		changed = append(changed, e)
		changedNames = append(changedNames, name)
	}
	if len(changed) == 0 {
		return nil
	}

	r.dispatch(func() {
		var groups []*commitGroup
		seen := make(map[*commitGroup]bool)
		for _, e := range changed {
			if err := e.control.Set(values[e.control.Name()]); err != nil {
				r.report(e.control.Name(), err)
				continue
			}
			if !seen[e.group] {
				seen[e.group] = true
				groups = append(groups, e.group)
			}
		}
		if !commit {
			return
		}
		for _, g := range groups {
			r.runCommit(g)
		}
	})
	return changedNames
}

func (r *Registry) runCommit(g *commitGroup) {
	if g.fn == nil {
		return
	}
	if err := g.fn(); err != nil {
		r.report(g.name, err)
	}
}

func (r *Registry) report(name string, err error) {
	r.logger.Error("panel: edit failed", "control", name, "error", err)
	if r.onError != nil {
		r.onError(name, err)
	}
}

// registration releases a fixed set of control names exactly once.
type registration struct {
	r     *Registry
	mu    sync.Mutex
	names []string
	done  bool
}

func (h *registration) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return
	}
	h.done = true
	h.r.remove(h.names)
}

// Folder is a group of controls committed through one shared callback.
type Folder struct {
	registration
	group *commitGroup
}

var _ Handle = &Folder{}

// Name returns the folder name.
func (f *Folder) Name() string {
	return f.group.name
}

// Add registers c as part of the folder.
func (f *Folder) Add(c Control) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return fmt.Errorf("panel: folder %q already released", f.group.name)
	}
	if err := f.r.add(c, f.group); err != nil {
		return err
	}
	f.names = append(f.names, c.Name())
	return nil
}
