package engine

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/profiler"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/scene"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/window"
	"golang.org/x/time/rate"
)

// surfaceRetryDelay is how long the render loop waits before retrying a frame on a surface with no area.
const surfaceRetryDelay = 16 * time.Millisecond

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	logger *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenesMu *sync.RWMutex
	scenes   map[int]scene.Scene

	// dispatchMu guards dispatchQueue.
	dispatchMu    *sync.Mutex
	dispatchQueue []func()

	renderErrors *rate.Sometimes

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It orchestrates the engine loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after the dispatch queue
	// has been drained and the scenes updated.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each render frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Dispatch queues fn to run on the tick goroutine at the start of the next tick.
	// Queued functions run in the order they were dispatched, before that tick's callback.
	// Safe to call from any goroutine, including window callbacks.
	//
	// Parameters:
	//   - fn: the function to run
	Dispatch(fn func())

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the engine and render goroutines and processes window messages on the calling goroutine.
	// It blocks until the window closes or Quit is called, then waits for both goroutines to exit.
	Run()

	// Quit signals all engine goroutines to stop and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenesMu:        &sync.RWMutex{},
		scenes:          make(map[int]scene.Scene),
		dispatchMu:      &sync.Mutex{},
		logger:          slog.Default(),
		engineTickRate:  time.Second / 60,
		renderErrors:    &rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
	e.running.Store(false)
}

func (e *engine) Quit() {
	e.signalQuit()
	if e.window != nil {
		e.window.RequestClose()
	}
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle launches the engine and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// resize forwards a framebuffer resize to every scene's renderer and camera.
func (e *engine) resize(width, height int) {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	for _, s := range e.scenes {
		if r := s.Renderer(); r != nil {
			r.Resize(width, height)
		}
		if c := s.Camera(); c != nil {
			c.SetViewport(width, height)
		}
	}
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel and exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// tick drains the dispatch queue, advances every scene and then calls the tick callback.
func (e *engine) tick(dt float32) {
	e.drainDispatch()

	for _, s := range e.sortedScenes() {
		s.Update()
	}

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// drainDispatch runs every queued function in order. Functions dispatched while draining run next tick.
func (e *engine) drainDispatch() {
	e.dispatchMu.Lock()
	queue := e.dispatchQueue
	e.dispatchQueue = nil
	e.dispatchMu.Unlock()

	for _, fn := range queue {
		fn()
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render goroutine recovered from panic", "panic", r)
			e.Quit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if !e.renderFrame() {
			time.Sleep(surfaceRetryDelay)
			continue
		}

		if e.renderCallback != nil {
			e.renderCallback(dt)
		}

		if e.profilingEnabled.Load() {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(lastRender); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// renderFrame renders every scene in ascending z-index order.
//
// Returns:
//   - bool: false if no frame could be started because the surface is unavailable
func (e *engine) renderFrame() bool {
	for _, s := range e.sortedScenes() {
		err := s.Render()
		if errors.Is(err, renderer.ErrSurfaceUnavailable) {
			return false
		}
		if err != nil {
			e.renderErrors.Do(func() {
				e.logger.Error("render failed", "scene", s.Name(), "error", err)
			})
		}
	}
	return true
}

// sortedScenes returns the registered scenes ordered by z-index.
func (e *engine) sortedScenes() []scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]scene.Scene, len(keys))
	for i, k := range keys {
		out[i] = e.scenes[k]
	}
	return out
}

func (e *engine) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()
	e.dispatchQueue = append(e.dispatchQueue, fn)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}

	// Replace any pending update so the loop only sees the latest rate.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameInterval(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

// tickInterval converts a tick rate to a ticker period, treating fps <= 0 as 60.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

// frameInterval converts a frame cap to a minimum frame duration. fps <= 0 means uncapped.
func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
