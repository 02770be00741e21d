package light

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
)

// GPUShadowCubeSource is the canonical WGSL definition of the ShadowCube struct.
// Matches GPUShadowCube layout exactly (416 bytes).
//
//go:embed assets/shadow_cube.wgsl
var GPUShadowCubeSource string

// GPUShadowCube is the GPU-aligned shadow data for one shadow-casting point light.
// Size: 416 bytes (WGSL aligned).
type GPUShadowCube struct {
	FaceViewProj [cube_texture.FacesPerCube]common.Mat4 // offset   0: one view-projection per face, in layer order
	Position     common.Vec3                            // offset 384: light position in world space
	Far          float32                                // offset 396: far plane used for the cube
	Color        common.Vec3                            // offset 400: RGB color
	Intensity    float32                                // offset 412: scalar multiplier
}

// Size returns the size of the GPUShadowCube struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (416)
func (g *GPUShadowCube) Size() int {
	return int(unsafe.Sizeof(*g))
}

// NewGPUShadowCube computes the per-face matrices for a light using DefaultShadowNear and the
// light's range as the far plane.
//
// Parameters:
//   - l: the shadow-casting light
//
// Returns:
//   - GPUShadowCube: the GPU representation of the light's shadow cube
func NewGPUShadowCube(l Light) GPUShadowCube {
	cube := GPUShadowCube{
		Position:  l.Position(),
		Far:       l.Range(),
		Color:     l.Color(),
		Intensity: l.Intensity(),
	}
	for _, face := range cube_texture.CubeFaces {
		cube.FaceViewProj[face] = FaceViewProjection(l.Position(), face, DefaultShadowNear, l.Range())
	}
	return cube
}

// MarshalShadowCubes builds the contiguous buffer contents for a list of shadow casters.
//
// Parameters:
//   - casters: the shadow-casting lights, in atlas order
//
// Returns:
//   - []byte: len(casters) * 416 bytes, or nil when there are no casters
func MarshalShadowCubes(casters []Light) []byte {
	if len(casters) == 0 {
		return nil
	}
	cubes := make([]GPUShadowCube, len(casters))
	for i, l := range casters {
		cubes[i] = NewGPUShadowCube(l)
	}
	return common.SliceToBytes(cubes)
}
