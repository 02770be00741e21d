package light

import "github.com/Carmen-Shannon/mood/common"

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	id           uint32
	position     common.Vec3
	color        common.Vec3
	intensity    float32
	lightRange   float32
	enabled      bool
	castsShadows bool
}

// Light is a point light: it emits in every direction from a position and attenuates to zero at
// its range. A shadow-casting point light owns one cube of faces in the renderer's shadow atlas.
type Light interface {
	// ID returns the caller-assigned identifier of the light.
	//
	// Returns:
	//   - uint32: the light id
	ID() uint32

	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - common.Vec3: position as (x, y, z)
	Position() common.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - common.Vec3: color as (r, g, b)
	Color() common.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the distance at which the light's contribution reaches zero.
	// It is also the far plane of the light's shadow cube.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// Enabled returns whether this light is active for rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light is rendered into the shadow atlas.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetPosition moves the light.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position common.Vec3)

	// SetEnabled toggles whether the light is rendered.
	//
	// Parameters:
	//   - enabled: true to enable the light
	SetEnabled(enabled bool)

	// SetCastsShadows toggles whether the light owns a cube in the shadow atlas.
	//
	// Parameters:
	//   - castsShadows: true to render shadows for this light
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates an enabled, white, shadow-casting point light at the origin with intensity 1
// and range DefaultLightRange. Options override any of these.
//
// Parameters:
//   - id: identifier for the light
//   - options: optional LightBuilderOption values
//
// Returns:
//   - Light: the created light
func NewLight(id uint32, options ...LightBuilderOption) Light {
	l := &lightImpl{
		id:           id,
		color:        common.Vec3{1, 1, 1},
		intensity:    1,
		lightRange:   DefaultLightRange,
		enabled:      true,
		castsShadows: true,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *lightImpl) ID() uint32 {
	return l.id
}

func (l *lightImpl) Position() common.Vec3 {
	return l.position
}

func (l *lightImpl) Color() common.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetPosition(position common.Vec3) {
	l.position = position
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}
