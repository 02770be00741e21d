package renderer

import (
	"time"

	"github.com/Carmen-Shannon/mood/engine/camera"
	"github.com/Carmen-Shannon/mood/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
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
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithShadowResolution sets the edge length in texels of every shadow cube face.
// Zero is rejected by the atlas when the renderer is created.
//
// Parameters:
//   - resolution: face resolution in texels (default light.ShadowMapResolution)
//
// Returns:
//   - RendererBuilderOption: a function that applies the shadow resolution option to a renderer
func WithShadowResolution(resolution uint32) RendererBuilderOption {
	return func(r *renderer) {
		r.shadowResolution = resolution
	}
}

// WithSkyboxFaces sets the six skybox image files, ordered +X, -X, +Y, -Y, +Z, -Z.
// Without this option a generated gradient sky is used.
//
// Parameters:
//   - paths: the six face image paths
//
// Returns:
//   - RendererBuilderOption: a function that applies the skybox option to a renderer
func WithSkyboxFaces(paths []string) RendererBuilderOption {
	return func(r *renderer) {
		r.skyboxPaths = append([]string(nil), paths...)
	}
}

// WithLights sets the initial scene lights. Enabled shadow casters each get a cube in the shadow atlas.
//
// Parameters:
//   - lights: the scene lights
//
// Returns:
//   - RendererBuilderOption: a function that applies the lights option to a renderer
func WithLights(lights ...light.Light) RendererBuilderOption {
	return func(r *renderer) {
		r.lights = append(r.lights, lights...)
	}
}

// WithClearColor sets the color the main pass clears to before the skybox is drawn.
//
// Parameters:
//   - red, green, blue, alpha: color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = wgpu.Color{R: red, G: green, B: blue, A: alpha}
	}
}

// WithFlyInputOptions passes options through to the camera input handler the renderer creates.
//
// Parameters:
//   - options: fly input options such as camera.WithResponsiveness
//
// Returns:
//   - RendererBuilderOption: a function that applies the input options to a renderer
func WithFlyInputOptions(options ...camera.FlyInputOption) RendererBuilderOption {
	return func(r *renderer) {
		r.flyInputOptions = append(r.flyInputOptions, options...)
	}
}

// withBackend substitutes the GPU backend, skipping adapter and device creation.
func withBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}

// withClock replaces the wall clock used to time camera updates.
func withClock(now func() time.Time) RendererBuilderOption {
	return func(r *renderer) {
		r.now = now
	}
}
