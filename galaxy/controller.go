package galaxy

import (
	"log/slog"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-galaxy/panel"
)

// Clock is the resettable time source driving the spin animation.
type Clock interface {
	Reset()
}

// Controller orchestrates galaxy regeneration and per-frame animation.
type Controller interface {
	// Params returns a copy of the current parameters.
	//
	// Returns:
	//   - ParameterSet: the parameters the next Regenerate will use
	Params() ParameterSet

	// SetParams replaces the current parameters. Nothing is rebuilt until Regenerate is called.
	//
	// Parameters:
	//   - params: the new parameters, validated on the next Regenerate
	SetParams(params ParameterSet)

	// Regenerate validates the parameters, generates new attribute buffers and swaps the attached point cloud
	// for a new one. It always rebuilds, even when the parameters did not change.
	//
	// Returns:
	//   - error: a configuration or resource error, in which case the previous point cloud stays attached
	Regenerate() error

	// Update pushes the elapsed time into the attached material. It is a no-op when nothing is attached.
	//
	// Parameters:
	//   - elapsedSeconds: time since the clock was last reset
	Update(elapsedSeconds float64)

	// ReplaySpin resets the clock so the spin animation starts over.
	ReplaySpin()

	// Bind registers the galaxy controls with a panel. Committing any of them regenerates the galaxy.
	//
	// Parameters:
	//   - r: the registry to add the controls to
	//
	// Returns:
	//   - error: error if a control could not be registered
	Bind(r *panel.Registry) error

	// Attached reports whether a point cloud is currently in the scene.
	Attached() bool

	// StarCount returns the number of stars in the attached point cloud, or 0.
	StarCount() int

	// Dispose removes and releases the point cloud and releases the panel bindings. Safe to call more than once.
	Dispose()
}

type controller struct {
	mu *sync.Mutex

	params    ParameterSet
	resource  Resource
	host      SceneHost
	factory   ResourceFactory
	generator Generator

	pixelRatio func() float64
	clock      Clock
	bindings   []panel.Handle
	logger     *slog.Logger
}

var _ Controller = &controller{}

// NewController creates a Controller that attaches its point cloud to host.
// Nothing is built until the first Regenerate.
//
// Parameters:
//   - host: the scene receiving the point cloud
//   - factory: creates the GPU side of each galaxy
//   - options: functional options for parameters, generator, pixel ratio, clock and logger
//
// Returns:
//   - Controller: the new controller
func NewController(host SceneHost, factory ResourceFactory, options ...ControllerBuilderOption) Controller {
	c := &controller{
		mu:         &sync.Mutex{},
		params:     DefaultParameters(),
		host:       host,
		factory:    factory,
		pixelRatio: func() float64 { return 1 },
		logger:     slog.Default(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.generator == nil {
		c.generator = NewSequentialGenerator(NewRandomSource(0))
	}
	return c
}

func (c *controller) Params() ParameterSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

func (c *controller) SetParams(params ParameterSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = params
}

func (c *controller) Regenerate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	params := c.params
	if err := params.Validate(); err != nil {
		c.logger.Warn("galaxy: parameters rejected", "error", err)
		return err
	}

	buffers, err := c.generator.Generate(params, params.StarCount)
	if err != nil {
		return err
	}

	uniforms := MaterialUniforms{
		StarSize: float32(params.StarSize * cappedPixelRatio(c.pixelRatio())),
		Pattern:  params.Pattern,
	}
	if params.SpinMode == SpinUniformDriven {
		uniforms.SpinSpeed = float32(params.SpinSpeed)
	}

	handles, err := buildHandles(c.factory, buffers, uniforms)
	if err != nil {
		c.logger.Error("galaxy: rebuild failed, keeping previous galaxy", "error", err)
		return err
	}

	c.host.Exclusive(func() {
		c.resource.Dispose()
		c.resource = attachResource(c.host, handles)
	})

	c.logger.Debug("galaxy: regenerated",
		"stars", params.StarCount,
		"branches", params.Branches,
		"radius", params.Radius,
		"spinMode", params.SpinMode.String(),
	)
	return nil
}

func (c *controller) Update(elapsedSeconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resource.Animate(float32(elapsedSeconds), float32(elapsedSeconds*c.params.RotationSpeed))
}

func (c *controller) ReplaySpin() {
	if c.clock != nil {
		c.clock.Reset()
	}
}

func (c *controller) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resource.Attached()
}

func (c *controller) StarCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resource.Count()
}

func (c *controller) Dispose() {
	c.mu.Lock()
	bindings := c.bindings
	c.bindings = nil
	c.host.Exclusive(func() {
		c.resource.Dispose()
	})
	c.mu.Unlock()

	for _, b := range bindings {
		b.Release()
	}
}

// cappedPixelRatio limits the device pixel ratio to 2.
func cappedPixelRatio(ratio float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) {
		return 1
	}
	return math.Min(2, ratio)
}
