package point_cloud

import "log/slog"

// FactoryBuilderOption is a functional option for configuring a Factory.
type FactoryBuilderOption func(*Factory)

// WithLogger sets the factory logger.
func WithLogger(logger *slog.Logger) FactoryBuilderOption {
	return func(f *Factory) {
		f.logger = logger
	}
}
