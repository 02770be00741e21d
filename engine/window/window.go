package window

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides a platform window and its event stream.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// RequestRedraw schedules a RedrawRequestedEvent. Requests made before the next
	// PollEvents delivers one are coalesced into a single event.
	RequestRedraw()

	// PollEvents processes pending platform events and delivers them to handle in arrival order.
	// When no redraw is pending and nothing is queued it waits briefly for input instead of spinning.
	// A pending redraw is delivered last, at most once per call.
	//
	// Parameters:
	//   - handle: receives each event
	PollEvents(handle func(Event))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, the queued events, and the platform window.
type engineWindow struct {
	mu sync.Mutex

	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	captureCursor bool

	queue         []Event
	redrawPending bool

	// lastCursor is the previous cursor position; deltas start after the first sample.
	lastCursorX, lastCursorY float64
	haveCursor               bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a platform window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

// newEngineWindow builds the window state without touching the platform layer.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:         "mood",
		maxWidth:      0,
		maxHeight:     0,
		minWidth:      320,
		minHeight:     240,
		width:         1280,
		height:        720,
		captureCursor: true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *engineWindow) RequestRedraw() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.redrawPending = true
}

func (w *engineWindow) PollEvents(handle func(Event)) {
	w.mu.Lock()
	idle := !w.redrawPending && len(w.queue) == 0
	w.mu.Unlock()

	platformPollEvents(w, idle)

	w.mu.Lock()
	events := w.queue
	w.queue = nil
	w.mu.Unlock()

	for _, ev := range events {
		handle(ev)
	}

	// Handlers above may request a redraw; it is still delivered in this call.
	w.mu.Lock()
	redraw := w.redrawPending
	w.redrawPending = false
	w.mu.Unlock()

	if redraw {
		handle(RedrawRequestedEvent{})
	}
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

// push queues an event for the next PollEvents delivery.
func (w *engineWindow) push(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = append(w.queue, ev)
}

// resized records the new framebuffer size and queues a ResizedEvent.
func (w *engineWindow) resized(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width = width
	w.height = height
	w.queue = append(w.queue, ResizedEvent{Width: width, Height: height})
}

// cursorMoved converts an absolute cursor position into a relative MouseMotionEvent.
// The first sample after a reset only establishes the reference point. Positions only keep
// growing past the window edges while the cursor is captured.
func (w *engineWindow) cursorMoved(x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.haveCursor {
		w.lastCursorX, w.lastCursorY = x, y
		w.haveCursor = true
		return
	}
	dx, dy := x-w.lastCursorX, y-w.lastCursorY
	w.lastCursorX, w.lastCursorY = x, y
	if dx == 0 && dy == 0 {
		return
	}
	w.queue = append(w.queue, MouseMotionEvent{DeltaX: dx, DeltaY: dy})
}

// resetCursor drops the cursor reference point so a warp (focus change, capture toggle)
// does not produce a large spurious delta.
func (w *engineWindow) resetCursor() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.haveCursor = false
}
