package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/charmbracelet/harmonica"
)

// settleSpeed is the velocity below which an axis with no held key is considered at rest.
const settleSpeed = 1e-3

// ExitHandle lets input handling ask the application to shut down.
type ExitHandle interface {
	// Exit requests a clean shutdown of the event loop.
	Exit()
}

// InputHandler consumes raw keyboard and mouse input for a camera.
type InputHandler interface {
	// HandleKeyHeld records a key transition.
	//
	// Parameters:
	//   - key: the physical key
	//   - state: whether the key went down or up
	//   - exit: the handle used when the key requests shutdown
	//
	// Returns:
	//   - bool: true if the camera state changed and a redraw should be requested
	HandleKeyHeld(key common.Key, state common.KeyState, exit ExitHandle) bool

	// HandleMouse accumulates a relative mouse motion delta. The rotation is applied on the next Update.
	//
	// Parameters:
	//   - dx: horizontal motion, positive to the right
	//   - dy: vertical motion, positive downward
	HandleMouse(dx, dy float64)
}

// FlyInput drives a CameraController from held movement keys and mouse look.
//
// W/S move forward and back, A/D strafe, Space and Left Shift rise and sink, Escape exits.
// Movement speed eases toward its target with a critically damped spring, so the camera keeps
// moving briefly after a key is released.
type FlyInput interface {
	InputHandler

	// Update applies pending mouse motion and advances movement by dt.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous Update
	Update(dt float64)

	// Animating reports whether the camera will keep moving without further input,
	// meaning another frame should be drawn.
	//
	// Returns:
	//   - bool: true while keys are held, velocity has not settled, or mouse motion is pending
	Animating() bool

	// Held reports whether a movement key is currently held.
	//
	// Parameters:
	//   - key: the key to query
	//
	// Returns:
	//   - bool: true if the key is held
	Held(key common.Key) bool
}

// axis indexes a movement axis in camera space.
type axis int

const (
	axisRight axis = iota
	axisUp
	axisForward
	axisCount
)

// movementKeys maps each movement key to its axis and sign.
var movementKeys = map[common.Key]struct {
	axis axis
	sign float64
}{
	common.KeyW:         {axisForward, 1},
	common.KeyS:         {axisForward, -1},
	common.KeyD:         {axisRight, 1},
	common.KeyA:         {axisRight, -1},
	common.KeySpace:     {axisUp, 1},
	common.KeyLeftShift: {axisUp, -1},
}

type flyInputImpl struct {
	mu *sync.Mutex

	controller CameraController

	held         map[common.Key]bool
	velocity     [axisCount]float64
	acceleration [axisCount]float64

	pendingDX, pendingDY float64

	angularFrequency float64
}

var _ FlyInput = &flyInputImpl{}

// NewFlyInput creates an input handler that moves the given controller.
//
// Parameters:
//   - controller: the controller to drive
//   - options: functional options to configure the handler
//
// Returns:
//   - FlyInput: the newly created input handler
func NewFlyInput(controller CameraController, options ...FlyInputOption) FlyInput {
	f := &flyInputImpl{
		mu:               &sync.Mutex{},
		controller:       controller,
		held:             make(map[common.Key]bool),
		angularFrequency: 8.0,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

func (f *flyInputImpl) HandleKeyHeld(key common.Key, state common.KeyState, exit ExitHandle) bool {
	if key == common.KeyEscape {
		if state == common.KeyPressed && exit != nil {
			exit.Exit()
		}
		return false
	}

	if _, ok := movementKeys[key]; !ok {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	pressed := state == common.KeyPressed
	if f.held[key] == pressed {
		return false
	}
	if pressed {
		f.held[key] = true
	} else {
		delete(f.held, key)
	}
	return true
}

func (f *flyInputImpl) HandleMouse(dx, dy float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingDX += dx
	f.pendingDY += dy
}

func (f *flyInputImpl) Update(dt float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pendingDX != 0 || f.pendingDY != 0 {
		sens := float64(f.controller.MouseSensitivity())
		f.controller.Look(float32(f.pendingDX*sens), float32(-f.pendingDY*sens))
		f.pendingDX, f.pendingDY = 0, 0
	}

	if dt <= 0 {
		return
	}

	target := f.targetVelocity()
	spring := harmonica.NewSpring(dt, f.angularFrequency, 1.0)
	for i := range f.velocity {
		f.velocity[i], f.acceleration[i] = spring.Update(f.velocity[i], f.acceleration[i], target[i])
		if target[i] == 0 && math.Abs(f.velocity[i]) < settleSpeed {
			f.velocity[i], f.acceleration[i] = 0, 0
		}
	}

	f.controller.Move(
		float32(f.velocity[axisRight]*dt),
		float32(f.velocity[axisUp]*dt),
		float32(f.velocity[axisForward]*dt),
	)
}

func (f *flyInputImpl) Animating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.held) > 0 || f.pendingDX != 0 || f.pendingDY != 0 {
		return true
	}
	for _, v := range f.velocity {
		if v != 0 {
			return true
		}
	}
	return false
}

func (f *flyInputImpl) Held(key common.Key) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held[key]
}

// targetVelocity sums the held keys into a per-axis velocity. Caller must hold the mutex.
func (f *flyInputImpl) targetVelocity() [axisCount]float64 {
	var target [axisCount]float64
	speed := float64(f.controller.MoveSpeed())
	for key := range f.held {
		m := movementKeys[key]
		target[m.axis] += m.sign * speed
	}
	return target
}

// FlyInputOption is a functional option applied to a fly input handler during construction via NewFlyInput.
type FlyInputOption func(*flyInputImpl)

// WithResponsiveness sets the angular frequency of the velocity spring. Higher values reach the
// target speed faster.
//
// Parameters:
//   - angularFrequency: spring angular frequency, ignored when not positive
//
// Returns:
//   - FlyInputOption: a function that sets the spring frequency
func WithResponsiveness(angularFrequency float64) FlyInputOption {
	return func(f *flyInputImpl) {
		if angularFrequency > 0 {
			f.angularFrequency = angularFrequency
		}
	}
}
