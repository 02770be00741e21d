package cube_texture

import "fmt"

// FaceLayer maps a (light, face) pair to its array layer in a cube-array atlas.
// Layers are grouped per light in face order, so the result is exactly 6*lightIndex + faceIndex.
//
// Parameters:
//   - lightIndex: index of the light, must be below numLights
//   - faceIndex: index of the cube face, must be below 6
//   - numLights: number of lights the atlas was created for
//
// Returns:
//   - uint32: the array layer
//   - error: ErrFaceOutOfRange or ErrLightOutOfRange when an index is invalid
func FaceLayer(lightIndex, faceIndex, numLights uint32) (uint32, error) {
	if faceIndex >= FacesPerCube {
		return 0, fmt.Errorf("%w: face %d", ErrFaceOutOfRange, faceIndex)
	}
	if lightIndex >= numLights {
		return 0, fmt.Errorf("%w: light %d of %d", ErrLightOutOfRange, lightIndex, numLights)
	}
	return FacesPerCube*lightIndex + faceIndex, nil
}
