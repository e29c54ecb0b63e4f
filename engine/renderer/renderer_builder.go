package renderer

import (
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. The default is MSAA4x; MSAAOff disables it.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.config.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU fallback adapter instead of the hardware GPU.
// Requires a software Vulkan ICD such as lavapipe.
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.config.forceFallbackAdapter = force
	}
}

// WithClearColor sets the background color the main pass clears to.
//
// Parameters:
//   - c: the background color in sRGB
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color to a renderer
func WithClearColor(c colorful.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.config.clearColor = c
	}
}

func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = logger
	}
}

// withBackend replaces the GPU backend, skipping device creation.
func withBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}
