package light

import (
	"math"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
)

// ShadowMapResolution is the default width and height in texels of every face in the shadow atlas.
const ShadowMapResolution = 1024

// DefaultLightRange is the range given to lights created without WithRange.
const DefaultLightRange float32 = 25.0

// DefaultShadowNear is the near plane of every shadow cube face projection.
const DefaultShadowNear float32 = 0.05

// DefaultShadowBias is the constant depth bias applied to shadow comparisons to reduce acne.
const DefaultShadowBias float32 = 0.005

// faceBasis holds the look direction and up vector of each cube face, in layer order.
// The up vectors follow the cubemap convention where -Y is up for the four side faces.
var faceBasis = [cube_texture.FacesPerCube]struct {
	forward common.Vec3
	up      common.Vec3
}{
	cube_texture.FacePositiveX: {common.Vec3{1, 0, 0}, common.Vec3{0, -1, 0}},
	cube_texture.FaceNegativeX: {common.Vec3{-1, 0, 0}, common.Vec3{0, -1, 0}},
	cube_texture.FacePositiveY: {common.Vec3{0, 1, 0}, common.Vec3{0, 0, 1}},
	cube_texture.FaceNegativeY: {common.Vec3{0, -1, 0}, common.Vec3{0, 0, -1}},
	cube_texture.FacePositiveZ: {common.Vec3{0, 0, 1}, common.Vec3{0, -1, 0}},
	cube_texture.FaceNegativeZ: {common.Vec3{0, 0, -1}, common.Vec3{0, -1, 0}},
}

// FaceDirection returns the unit direction a cube face looks along.
//
// Parameters:
//   - face: the cube face
//
// Returns:
//   - common.Vec3: the face's forward direction
func FaceDirection(face cube_texture.CubeFace) common.Vec3 {
	return faceBasis[face].forward
}

// FaceViewProjection builds the view-projection matrix used to render one face of a point light's
// shadow cube: a 90 degree square frustum from the light position along the face direction.
//
// Parameters:
//   - position: the light position in world space
//   - face: the cube face being rendered
//   - near: near plane distance
//   - far: far plane distance, normally the light range
//
// Returns:
//   - common.Mat4: projection * view for the face
func FaceViewProjection(position common.Vec3, face cube_texture.CubeFace, near, far float32) common.Mat4 {
	basis := faceBasis[face]
	view := common.LookAt(position, position.Add(basis.forward), basis.up)
	proj := common.Perspective(math.Pi/2, 1, near, far)
	return proj.Mul(view)
}

// ShadowCasters returns the enabled, shadow-casting lights in their original order.
// The index of a light in the result is its light index in the shadow atlas.
//
// Parameters:
//   - lights: every light in the scene
//
// Returns:
//   - []Light: the lights that own a shadow cube
func ShadowCasters(lights []Light) []Light {
	casters := make([]Light, 0, len(lights))
	for _, l := range lights {
		if l.Enabled() && l.CastsShadows() {
			casters = append(casters, l)
		}
	}
	return casters
}
