package galaxy

import "log/slog"

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controller)

// WithParams sets the initial parameters. Defaults to DefaultParameters().
//
// Parameters:
//   - params: the initial parameter set
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithParams(params ParameterSet) ControllerBuilderOption {
	return func(c *controller) {
		c.params = params
	}
}

// WithGenerator sets the attribute generator. Defaults to a SequentialGenerator with a time-seeded source.
//
// Parameters:
//   - g: the generator used by every Regenerate
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithGenerator(g Generator) ControllerBuilderOption {
	return func(c *controller) {
		c.generator = g
	}
}

// WithPixelRatio sets the device pixel ratio source. The ratio is capped at 2 before scaling the star size.
//
// Parameters:
//   - ratio: returns the current device pixel ratio
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithPixelRatio(ratio func() float64) ControllerBuilderOption {
	return func(c *controller) {
		if ratio != nil {
			c.pixelRatio = ratio
		}
	}
}

// WithClock sets the clock that ReplaySpin resets.
func WithClock(clock Clock) ControllerBuilderOption {
	return func(c *controller) {
		c.clock = clock
	}
}

// WithLogger sets the controller logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
