package renderer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
	"github.com/Carmen-Shannon/mood/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// String returns the config-file name of the present mode.
func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return fmt.Sprintf("PresentMode(%d)", int(m))
	}
}

// ParsePresentMode maps a config-file name to a PresentMode. Matching is case-insensitive.
//
// Parameters:
//   - name: "vsync" or "uncapped"
//
// Returns:
//   - PresentMode: the parsed mode
//   - error: error if the name is not recognised
func ParsePresentMode(name string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vsync", "fifo":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	default:
		return PresentModeVSync, fmt.Errorf("unknown present mode %q", name)
	}
}

var (
	// ErrSurfaceLost is returned by Render when the swapchain was lost. Reconfiguring the
	// surface at the current window size recovers.
	ErrSurfaceLost = errors.New("surface lost")
	// ErrSurfaceOutdated is returned by Render when the surface no longer matches the window.
	// Reconfiguring the surface at the current window size recovers.
	ErrSurfaceOutdated = errors.New("surface outdated")
)

// surfaceTextureMissing reports whether an acquired surface texture has no native handle.
// wgpu.Surface.GetCurrentTexture drops the acquisition status and only returns an error for
// validation failures, so an outdated or lost surface shows up as a texture without a handle.
func surfaceTextureMissing(t *wgpu.Texture) bool {
	if t == nil {
		return true
	}
	ref := reflect.ValueOf(t).Elem().FieldByName("ref")
	if !ref.IsValid() {
		return false
	}
	switch ref.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return ref.IsNil()
	default:
		return false
	}
}

// classifySurfaceError maps a surface acquisition failure onto ErrSurfaceLost or ErrSurfaceOutdated
// when the status names one of them. Other errors are returned unchanged.
func classifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "outdated"):
		return fmt.Errorf("%w: %v", ErrSurfaceOutdated, err)
	case strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	default:
		return err
	}
}

// RendererBackend is the GPU API the Renderer records frames through.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and depth target for the given size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	//
	// Returns:
	//   - error: error if the depth target could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the main pass clears to.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color wgpu.Color)

	// Device returns the device cube textures and bind groups are created on.
	//
	// Returns:
	//   - cube_texture.Device: the device
	Device() cube_texture.Device

	// Queue returns the queue texture uploads go through.
	//
	// Returns:
	//   - cube_texture.Queue: the queue
	Queue() cube_texture.Queue

	// CreateBuffer allocates a GPU buffer.
	//
	// Parameters:
	//   - label: debug label
	//   - usage: buffer usage flags
	//   - size: size in bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: error if allocation fails
	CreateBuffer(label string, usage wgpu.BufferUsage, size uint64) (*wgpu.Buffer, error)

	// WriteBuffer queues a write into a buffer.
	//
	// Parameters:
	//   - buffer: the destination buffer
	//   - offset: byte offset into the buffer
	//   - data: the bytes to write
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte)

	// RegisterRenderPipeline compiles the pipeline's shader modules, creates a render pipeline
	// targeting the surface and attaches it to p.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: error if shader compilation or pipeline creation fails
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// BeginShadowFrame creates a command encoder for batching shadow depth passes.
	// Must be paired with EndShadowFrame.
	//
	// Returns:
	//   - error: an error if the command encoder could not be created
	BeginShadowFrame() error

	// BeginShadowPass starts a depth-only render pass that clears the given view to the far plane.
	//
	// Parameters:
	//   - depthView: the shadow map face view to render into
	BeginShadowPass(depthView *wgpu.TextureView)

	// EndShadowPass ends the current shadow depth render pass.
	EndShadowPass()

	// EndShadowFrame finishes the shadow command encoder and submits it to the GPU queue.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndShadowFrame() error

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: ErrSurfaceLost or ErrSurfaceOutdated when the surface must be reconfigured, or another acquisition error
	BeginFrame() error

	// Draw records a non-indexed draw in the main pass.
	//
	// Parameters:
	//   - pipeline: the pipeline to bind
	//   - bindGroups: bind groups set at indices 0..n-1
	//   - vertexCount: number of vertices to draw
	Draw(pipeline *wgpu.RenderPipeline, bindGroups []*wgpu.BindGroup, vertexCount uint32)

	// EndFrame ends the main pass and submits the command buffer.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Release frees the surface, device and every object the backend owns.
	Release()
}
