package engine

import (
	"github.com/Carmen-Shannon/mood/engine/profiler"
	"github.com/Carmen-Shannon/mood/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
// The profiler ticks after every successfully rendered frame.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the profiler used when profiling is enabled.
//
// Parameters:
//   - p: the profiler to tick
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		if p != nil {
			e.profiler = p
		}
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create one on the first resume.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithWindowFactory sets how the window is created on the first resume.
// Ignored when WithWindow supplies one.
//
// Parameters:
//   - factory: creates the platform window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowFactory(factory WindowFactory) EngineBuilderOption {
	return func(e *engine) {
		if factory != nil {
			e.newWindow = factory
		}
	}
}

// WithRendererFactory sets how the renderer is built on every resume.
//
// Parameters:
//   - factory: builds a Renderer for the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererFactory(factory RendererFactory) EngineBuilderOption {
	return func(e *engine) {
		if factory != nil {
			e.newRenderer = factory
		}
	}
}
