package window

import (
	"github.com/Carmen-Shannon/mood/common"
)

// Event is a platform event delivered by Window.PollEvents.
// The set of event types is closed; consumers switch on the concrete type.
type Event interface {
	isEvent()
}

// ResumedEvent reports that the application may create or recreate its rendering surface.
// Desktop platforms resume once on start and again after the window is restored from minimized.
type ResumedEvent struct{}

// SuspendedEvent reports that the rendering surface should be released, e.g. the window was minimized.
type SuspendedEvent struct{}

// CloseRequestedEvent reports that the user asked to close the window.
type CloseRequestedEvent struct{}

// RedrawRequestedEvent asks the application to draw one frame.
type RedrawRequestedEvent struct{}

// ResizedEvent reports the new framebuffer size in pixels.
type ResizedEvent struct {
	Width  int
	Height int
}

// KeyboardInputEvent reports a physical key transition. OS key repeat is reported as KeyPressed.
type KeyboardInputEvent struct {
	Key   common.Key
	State common.KeyState
}

// MouseMotionEvent reports relative mouse motion since the previous motion event.
// Positive DeltaX is to the right, positive DeltaY is downward.
type MouseMotionEvent struct {
	DeltaX float64
	DeltaY float64
}

func (ResumedEvent) isEvent()         {}
func (SuspendedEvent) isEvent()       {}
func (CloseRequestedEvent) isEvent()  {}
func (RedrawRequestedEvent) isEvent() {}
func (ResizedEvent) isEvent()         {}
func (KeyboardInputEvent) isEvent()   {}
func (MouseMotionEvent) isEvent()     {}
