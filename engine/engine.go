package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/Carmen-Shannon/mood/engine/camera"
	"github.com/Carmen-Shannon/mood/engine/profiler"
	"github.com/Carmen-Shannon/mood/engine/renderer"
	"github.com/Carmen-Shannon/mood/engine/window"
)

// Phase is the lifecycle state of the engine.
type Phase int32

const (
	// PhaseUninitialized is the state before the first resume. No window or renderer exists yet.
	PhaseUninitialized Phase = iota
	// PhaseActive means a renderer is live and events drive frames.
	PhaseActive
	// PhaseSuspended means the renderer was released. Only resume and close are handled.
	PhaseSuspended
	// PhaseExited is terminal. Every later event is ignored.
	PhaseExited
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseActive:
		return "active"
	case PhaseSuspended:
		return "suspended"
	case PhaseExited:
		return "exited"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// Renderer is what the engine drives once the window is up.
type Renderer interface {
	// Update advances per-frame state such as the camera before Render.
	Update()

	// Render draws and presents one frame.
	//
	// Returns:
	//   - error: renderer.ErrSurfaceLost or renderer.ErrSurfaceOutdated when the surface needs a resize, or another frame error
	Render() error

	// Resize reconfigures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Resize(width, height int)

	// Window returns the window the renderer presents to.
	//
	// Returns:
	//   - window.Window: the window
	Window() window.Window

	// Camera returns the input handler keyboard and mouse events are routed to.
	//
	// Returns:
	//   - camera.InputHandler: the camera input handler
	Camera() camera.InputHandler

	// Release frees every GPU object the renderer owns.
	Release()
}

// RendererFactory builds a Renderer for a window. It runs synchronously inside the resume handler.
type RendererFactory func(ctx context.Context, win window.Window) (Renderer, error)

// WindowFactory creates the platform window on the first resume.
type WindowFactory func() (window.Window, error)

// engine implements the Engine interface.
// All fields except phase and exitRequested are owned by the goroutine calling Run or Dispatch.
type engine struct {
	newWindow   WindowFactory
	newRenderer RendererFactory

	window   window.Window
	renderer Renderer

	phase         atomic.Int32
	exitRequested atomic.Bool
	err           error

	profiler         *profiler.Profiler
	profilingEnabled bool
}

// Engine is the main entry point for the engine.
// It owns the lifecycle state machine and routes window events to the renderer and camera.
type Engine interface {
	camera.ExitHandle

	// Run dispatches the initial resume and then pumps window events until the engine exits
	// or ctx is done. It must be called from the main OS thread.
	//
	// Parameters:
	//   - ctx: cancelling ctx stops the loop after the current poll
	//
	// Returns:
	//   - error: the fatal setup error if the engine exited because of one, otherwise nil
	Run(ctx context.Context) error

	// Dispatch feeds one event through the state machine.
	//
	// Parameters:
	//   - ctx: passed to the renderer factory on resume
	//   - ev: the event to handle
	Dispatch(ctx context.Context, ev window.Event)

	// Phase returns the current lifecycle phase. Safe to call from any goroutine.
	//
	// Returns:
	//   - Phase: the current phase
	Phase() Phase

	// Err returns the fatal error that ended the engine, if any.
	//
	// Returns:
	//   - error: the recorded error, or nil
	Err() error

	// Window returns the engine's window, or nil before the first resume.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window
}

// NewEngine creates a new Engine in PhaseUninitialized.
// The window and renderer are created when the first ResumedEvent is dispatched.
//
// Parameters:
//   - options: functional options for engine configuration (factories, profiling)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		newWindow: func() (window.Window, error) {
			return window.NewWindow()
		},
		newRenderer: func(ctx context.Context, win window.Window) (Renderer, error) {
			r, err := renderer.NewRenderer(ctx, win, nil)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
		profiler: profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Phase() Phase {
	return Phase(e.phase.Load())
}

func (e *engine) Err() error {
	return e.err
}

// Exit requests shutdown. The transition to PhaseExited happens on the event goroutine at the
// end of the current dispatch, so Exit is safe to call from inside an input handler.
func (e *engine) Exit() {
	e.exitRequested.Store(true)
}

func (e *engine) Run(ctx context.Context) error {
	defer e.shutdown()

	e.Dispatch(ctx, window.ResumedEvent{})
	for e.Phase() != PhaseExited {
		if ctx.Err() != nil {
			common.Logger().Info("engine stopping", "reason", context.Cause(ctx))
			e.exit()
			break
		}
		e.window.PollEvents(func(ev window.Event) {
			e.Dispatch(ctx, ev)
		})
		e.applyExitRequest()
	}
	return e.err
}

func (e *engine) Dispatch(ctx context.Context, ev window.Event) {
	defer e.applyExitRequest()
	if e.applyExitRequest() {
		return
	}

	switch e.Phase() {
	case PhaseExited:
		return
	case PhaseActive:
		e.handleActive(ctx, ev)
	default:
		// Uninitialized and Suspended only react to lifecycle events.
		switch ev.(type) {
		case window.ResumedEvent:
			e.resume(ctx)
		case window.CloseRequestedEvent:
			e.exit()
		}
	}
}

// handleActive routes one event while a renderer is live.
func (e *engine) handleActive(ctx context.Context, ev window.Event) {
	switch ev := ev.(type) {
	case window.ResumedEvent:
		e.resume(ctx)
	case window.SuspendedEvent:
		e.releaseRenderer()
		e.setPhase(PhaseSuspended)
	case window.CloseRequestedEvent:
		e.exit()
	case window.RedrawRequestedEvent:
		e.redraw()
	case window.ResizedEvent:
		e.renderer.Resize(ev.Width, ev.Height)
		e.window.RequestRedraw()
	case window.KeyboardInputEvent:
		if e.renderer.Camera().HandleKeyHeld(ev.Key, ev.State, e) {
			e.window.RequestRedraw()
		}
	case window.MouseMotionEvent:
		e.renderer.Camera().HandleMouse(ev.DeltaX, ev.DeltaY)
	}
}

// resume creates the window on first use and (re)builds the renderer. A failure is fatal.
func (e *engine) resume(ctx context.Context) {
	if e.window == nil {
		win, err := e.newWindow()
		if err != nil {
			e.fail(fmt.Errorf("failed to create window: %w", err))
			return
		}
		e.window = win
	}

	e.releaseRenderer()
	r, err := e.newRenderer(ctx, e.window)
	if err != nil {
		e.fail(fmt.Errorf("failed to create renderer: %w", err))
		return
	}
	e.renderer = r
	e.setPhase(PhaseActive)
	common.Logger().Info("renderer ready", "width", e.window.Width(), "height", e.window.Height())
	e.window.RequestRedraw()
}

// redraw runs one frame. Surface loss is recovered by reconfiguring at the current window size.
func (e *engine) redraw() {
	e.renderer.Update()
	err := e.renderer.Render()
	switch {
	case err == nil:
		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick()
		}
	case errors.Is(err, renderer.ErrSurfaceLost), errors.Is(err, renderer.ErrSurfaceOutdated):
		common.Logger().Debug("reconfiguring surface", "err", err)
		win := e.renderer.Window()
		e.renderer.Resize(win.Width(), win.Height())
		win.RequestRedraw()
	default:
		common.Logger().Error("frame dropped", "err", err)
	}
}

func (e *engine) fail(err error) {
	common.Logger().Error("engine failed", "err", err)
	e.err = err
	e.exit()
}

// exit enters the terminal phase and frees the renderer. The window is closed by Run.
func (e *engine) exit() {
	e.releaseRenderer()
	e.setPhase(PhaseExited)
}

// applyExitRequest performs a pending Exit and reports whether the engine has exited.
func (e *engine) applyExitRequest() bool {
	if e.exitRequested.Load() && e.Phase() != PhaseExited {
		e.exit()
	}
	return e.Phase() == PhaseExited
}

func (e *engine) releaseRenderer() {
	if e.renderer != nil {
		e.renderer.Release()
		e.renderer = nil
	}
}

func (e *engine) setPhase(p Phase) {
	old := Phase(e.phase.Swap(int32(p)))
	if old != p {
		common.Logger().Debug("engine phase", "from", old, "to", p)
	}
}

// shutdown releases everything Run acquired.
func (e *engine) shutdown() {
	e.exit()
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			common.Logger().Warn("failed to close window", "err", err)
		}
	}
}
