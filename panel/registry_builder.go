package panel

import "log/slog"

// RegistryBuilderOption is a functional option for configuring a Registry.
type RegistryBuilderOption func(*Registry)

// WithDispatcher routes every setter and onCommit call through dispatch.
// Use it to run panel edits on the goroutine that owns the edited state.
//
// Parameters:
//   - dispatch: receives each unit of work, must run it exactly once and in submission order
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithDispatcher(dispatch func(func())) RegistryBuilderOption {
	return func(r *Registry) {
		if dispatch != nil {
			r.dispatch = dispatch
		}
	}
}

// WithErrorHandler registers a callback for failed edits and commits, in addition to logging them.
//
// Parameters:
//   - fn: receives the control or folder name and the error
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithErrorHandler(fn func(name string, err error)) RegistryBuilderOption {
	return func(r *Registry) {
		r.onError = fn
	}
}

// WithLogger sets the logger used for edit failures.
func WithLogger(logger *slog.Logger) RegistryBuilderOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}
