package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/mood/common"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (144 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 144 bytes (WGSL aligned).
type GPUCameraUniform struct {
	ViewProj        common.Mat4 // offset   0: combined view-projection matrix (mat4x4<f32>)
	InverseViewProj common.Mat4 // offset  64: inverse view-projection matrix (mat4x4<f32>)
	CameraPosition  common.Vec3 // offset 128: world-space camera position (vec3<f32>)
	_pad            float32     // offset 140: padding to 144 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal returns the uniform's bytes for GPU upload.
//
// Returns:
//   - []byte: a 144-byte copy of the uniform
func (g *GPUCameraUniform) Marshal() []byte {
	return append([]byte(nil), common.StructToBytes(g)...)
}
