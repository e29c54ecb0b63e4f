package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-galaxy/common"
	"github.com/Carmen-Shannon/oxy-galaxy/config"
	"github.com/Carmen-Shannon/oxy-galaxy/engine"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/camera"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/scene"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/timer"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/window"
	"github.com/Carmen-Shannon/oxy-galaxy/galaxy"
	"github.com/Carmen-Shannon/oxy-galaxy/galaxy/point_cloud"
	"github.com/Carmen-Shannon/oxy-galaxy/panel"
)

// App is the galaxy viewer: one window, one scene holding one galaxy, and the panel that edits it.
// It is built once by New and owns every component until Close.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera
	scene    scene.Scene
	engine   engine.Engine
	timer    *timer.Timer
	pointer  *pointer

	factory    *point_cloud.Factory
	generator  *galaxy.ParallelGenerator
	controller galaxy.Controller

	registry   *panel.Registry
	keyboard   *panel.Keyboard
	fileSource *panel.FileSource

	// running routes panel work through the engine once the tick loop exists.
	running atomic.Bool
}

// New opens the window, creates the GPU device and builds the first galaxy.
// Window and device failures panic, as in the engine constructors.
//
// Parameters:
//   - cfg: the loaded configuration
//   - logger: the process logger
//
// Returns:
//   - *App: the application, ready to Run
//   - error: an error if the pipeline, scene, params file or first galaxy cannot be built
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	params, err := variantParams(cfg.Galaxy.Variant)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger, timer: timer.New()}

	a.window = window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithFullscreen(cfg.Window.Fullscreen),
	)

	a.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, a.window,
		renderer.WithPresentMode(presentMode(cfg.Render.PresentMode)),
		renderer.WithMSAA(msaaSamples(cfg.Render.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Render.ForceFallback),
		renderer.WithClearColor(cfg.Render.ClearColor),
		renderer.WithLogger(logger),
	)

	if err := a.build(params); err != nil {
		a.Close()
		return nil, err
	}

	a.bindInput()
	logger.Info("galaxy ready",
		"variant", cfg.Galaxy.Variant,
		"stars", a.controller.StarCount(),
		"workers", a.generator.Workers(),
		"panel", cfg.Galaxy.PanelFile,
	)
	return a, nil
}

// build creates everything between the renderer and the panel and generates the first galaxy.
func (a *App) build(params galaxy.ParameterSet) error {
	cfg := a.cfg

	a.camera = camera.NewCamera(
		camera.WithFovDegrees(float32(cfg.Camera.FovDegrees)),
		camera.WithClipPlanes(float32(cfg.Camera.Near), float32(cfg.Camera.Far)),
		camera.WithViewport(a.window.Width(), a.window.Height()),
		camera.WithController(camera.NewOrbitController(
			camera.WithDamping(float32(cfg.Camera.Damping)),
			camera.WithMaxTargetRadius(float32(cfg.Camera.MaxTargetRadius)),
		)),
	)
	a.pointer = newPointer(a.camera)

	stars, err := point_cloud.NewPipeline()
	if err != nil {
		return err
	}
	if err := a.renderer.RegisterPipelines(stars); err != nil {
		return err
	}

	a.scene, err = scene.NewScene("galaxy", a.camera, a.renderer, stars, scene.WithLogger(a.logger))
	if err != nil {
		return err
	}

	a.factory, err = point_cloud.NewFactory(a.renderer, stars, point_cloud.WithLogger(a.logger))
	if err != nil {
		return err
	}

	a.engine = engine.NewEngine(
		engine.WithWindow(a.window),
		engine.WithScene(0, a.scene),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithLogger(a.logger),
	)
	a.engine.SetTickCallback(a.tick)

	a.generator = galaxy.NewParallelGenerator(cfg.Galaxy.Workers, cfg.Galaxy.Seed)
	a.controller = galaxy.NewController(point_cloud.NewSceneHost(a.scene), a.factory,
		galaxy.WithParams(params),
		galaxy.WithGenerator(a.generator),
		galaxy.WithPixelRatio(a.window.PixelRatio),
		galaxy.WithClock(a.timer),
		galaxy.WithLogger(a.logger),
	)

	a.registry = panel.NewRegistry(
		panel.WithDispatcher(a.dispatch),
		panel.WithLogger(a.logger),
	)
	if err := a.controller.Bind(a.registry); err != nil {
		return fmt.Errorf("bind galaxy panel: %w", err)
	}
	a.keyboard = panel.NewKeyboard(a.registry, a.logger)

	if path := cfg.Galaxy.PanelFile; path != "" {
		a.fileSource, err = panel.NewFileSource(path, a.registry, panel.WithFileLogger(a.logger))
		if err != nil {
			return err
		}
		// Seed from the file without committing; the first Regenerate below picks the values up.
		if _, err := a.fileSource.Sync(false); err != nil {
			a.logger.Warn("params file not applied, using defaults", "path", path, "error", err)
		}
	}

	if err := a.controller.Regenerate(); err != nil {
		return fmt.Errorf("first galaxy: %w", err)
	}
	return nil
}

// dispatch runs panel work inline until the engine starts, then on the tick goroutine.
func (a *App) dispatch(fn func()) {
	if a.running.Load() {
		a.engine.Dispatch(fn)
		return
	}
	fn()
}

// tick advances the clock and animates the galaxy. Runs on the tick goroutine after queued panel edits.
func (a *App) tick(float32) {
	a.timer.Tick()
	a.controller.Update(a.timer.Elapsed())
}

// bindInput wires keyboard and mouse. Every callback runs on the window goroutine.
func (a *App) bindInput() {
	w := a.window
	w.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == common.KeyF {
			w.ToggleFullscreen()
			return
		}
		a.keyboard.KeyDown(keyCode)
	})
	w.SetKeyUpCallback(func(keyCode uint32) {
		a.keyboard.KeyUp(keyCode)
	})
	w.SetDoubleClickCallback(w.ToggleFullscreen)
	w.SetMouseDownCallback(a.pointer.down)
	w.SetMouseUpCallback(a.pointer.up)
	w.SetMouseMoveCallback(a.pointer.move)
	w.SetScrollCallback(a.pointer.scroll)
}

// Controller returns the galaxy controller.
func (a *App) Controller() galaxy.Controller {
	return a.controller
}

// Registry returns the panel registry the galaxy controls are bound to.
func (a *App) Registry() *panel.Registry {
	return a.registry
}

// Engine returns the engine driving the tick and render loops.
func (a *App) Engine() engine.Engine {
	return a.engine
}

// Run starts watching the params file, prints the panel and blocks until the window closes.
func (a *App) Run() error {
	if a.fileSource != nil {
		if err := a.fileSource.Start(); err != nil {
			return err
		}
	}
	a.running.Store(true)
	a.keyboard.Print()
	a.engine.Run()
	a.running.Store(false)
	return nil
}

// Close releases the galaxy, the panel and the GPU, in that order. Safe after a failed New.
func (a *App) Close() error {
	var errs []error
	if a.fileSource != nil {
		errs = append(errs, a.fileSource.Close())
	}
	if a.controller != nil {
		a.controller.Dispose()
	}
	if a.generator != nil {
		a.generator.Release()
	}
	if a.factory != nil {
		a.factory.Release()
	}
	if a.camera != nil {
		a.camera.BindGroupProvider().Release()
	}
	if a.renderer != nil {
		a.renderer.Release()
	}
	if a.window != nil {
		errs = append(errs, a.window.Close())
	}
	return errors.Join(errs...)
}
