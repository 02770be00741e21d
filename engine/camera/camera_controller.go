package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/mood/common"
)

// maxPitch keeps the look direction just short of straight up or down so the view basis never degenerates.
const maxPitch = 89.0 * math.Pi / 180.0

// worldUp is the up direction the controller's yaw rotates around.
var worldUp = common.Vec3{0, 1, 0}

type cameraControllerImpl struct {
	mu *sync.Mutex

	position common.Vec3
	yaw      float32 // radians, 0 looks down -Z, positive turns toward +X
	pitch    float32 // radians, positive looks up

	moveSpeed        float32
	mouseSensitivity float32
}

// CameraController owns the free-flying camera's positional state: a world position and a
// yaw/pitch orientation. Camera reads from the controller to build its matrices.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Position() common.Vec3

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position common.Vec3)

	// Yaw returns the rotation around the world up axis in radians. Zero looks down -Z.
	//
	// Returns:
	//   - float32: yaw in radians
	Yaw() float32

	// Pitch returns the elevation of the look direction in radians.
	//
	// Returns:
	//   - float32: pitch in radians, within +-89 degrees
	Pitch() float32

	// Forward returns the unit look direction derived from yaw and pitch.
	//
	// Returns:
	//   - common.Vec3: the forward vector
	Forward() common.Vec3

	// Right returns the unit direction to the camera's right, always horizontal.
	//
	// Returns:
	//   - common.Vec3: the right vector
	Right() common.Vec3

	// Target returns the point one unit ahead of the camera along Forward.
	//
	// Returns:
	//   - common.Vec3: the look-at point
	Target() common.Vec3

	// Look rotates the camera. Pitch is clamped so the camera never flips over.
	//
	// Parameters:
	//   - deltaYaw: yaw change in radians
	//   - deltaPitch: pitch change in radians
	Look(deltaYaw, deltaPitch float32)

	// Move translates the camera along its own axes.
	//
	// Parameters:
	//   - right: distance along Right
	//   - up: distance along the world up axis
	//   - forward: distance along Forward
	Move(right, up, forward float32)

	// MoveSpeed returns the top movement speed in world units per second.
	//
	// Returns:
	//   - float32: the move speed
	MoveSpeed() float32

	// MouseSensitivity returns the radians of rotation applied per unit of mouse motion.
	//
	// Returns:
	//   - float32: the mouse sensitivity
	MouseSensitivity() float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller at the origin looking down -Z.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		moveSpeed:        4.0,
		mouseSensitivity: 0.0025,
	}
	for _, option := range options {
		option(cc)
	}
	cc.pitch = clampPitch(cc.pitch)
	return cc
}

func clampPitch(p float32) float32 {
	return float32(math.Max(-maxPitch, math.Min(maxPitch, float64(p))))
}

func (cc *cameraControllerImpl) Position() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(position common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = position
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) Forward() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.forward()
}

func (cc *cameraControllerImpl) Right() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.right()
}

func (cc *cameraControllerImpl) Target() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position.Add(cc.forward())
}

func (cc *cameraControllerImpl) Look(deltaYaw, deltaPitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = float32(math.Remainder(float64(cc.yaw+deltaYaw), 2*math.Pi))
	cc.pitch = clampPitch(cc.pitch + deltaPitch)
}

func (cc *cameraControllerImpl) Move(right, up, forward float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = cc.position.
		Add(cc.right().Scale(right)).
		Add(worldUp.Scale(up)).
		Add(cc.forward().Scale(forward))
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

// forward computes the look direction. Caller must hold the mutex.
func (cc *cameraControllerImpl) forward() common.Vec3 {
	sy, cy := math.Sincos(float64(cc.yaw))
	sp, cp := math.Sincos(float64(cc.pitch))
	return common.Vec3{float32(sy * cp), float32(sp), float32(-cy * cp)}
}

// right computes the horizontal right direction. Caller must hold the mutex.
func (cc *cameraControllerImpl) right() common.Vec3 {
	sy, cy := math.Sincos(float64(cc.yaw))
	return common.Vec3{float32(cy), 0, float32(sy)}
}

// CameraControllerOption is a functional option applied to a controller during construction via NewCameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the controller's initial world-space position.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraControllerOption: a function that sets the position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = common.Vec3{x, y, z}
	}
}

// WithOrientation sets the initial yaw and pitch in radians. Pitch is clamped to +-89 degrees.
//
// Parameters:
//   - yaw: rotation around world up, 0 looks down -Z
//   - pitch: elevation of the look direction
//
// Returns:
//   - CameraControllerOption: a function that sets the orientation
func WithOrientation(yaw, pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yaw = yaw
		cc.pitch = pitch
	}
}

// WithMoveSpeed sets the top movement speed in world units per second.
//
// Parameters:
//   - speed: the move speed, ignored when not positive
//
// Returns:
//   - CameraControllerOption: a function that sets the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if speed > 0 {
			cc.moveSpeed = speed
		}
	}
}

// WithMouseSensitivity sets the radians of rotation per unit of mouse motion.
//
// Parameters:
//   - sensitivity: the sensitivity, ignored when not positive
//
// Returns:
//   - CameraControllerOption: a function that sets the mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if sensitivity > 0 {
			cc.mouseSensitivity = sensitivity
		}
	}
}
