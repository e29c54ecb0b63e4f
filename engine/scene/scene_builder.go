package scene

import "log/slog"

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(*scene)

// WithLogger sets the scene logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - SceneBuilderOption: a function that sets the logger
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.logger = logger
	}
}

// WithDrawables adds drawables at construction.
func WithDrawables(drawables ...Drawable) SceneBuilderOption {
	return func(s *scene) {
		s.drawables = append(s.drawables, drawables...)
	}
}
