// Package cube_texture creates and binds the cube-mapped textures used by the renderer: the layered
// depth atlas that holds every omnidirectional shadow map, and static environment cubemaps
// assembled from six still images.
package cube_texture

import (
	"errors"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// FacesPerCube is the number of array layers occupied by one cube.
const FacesPerCube = 6

// MaxAtlasLights is the largest light count whose layer count, FacesPerCube * lights, fits in a uint32.
const MaxAtlasLights = math.MaxUint32 / FacesPerCube

// CubeFace identifies one face of a cube in the canonical layer order +X, -X, +Y, -Y, +Z, -Z.
type CubeFace uint32

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// CubeFaces lists every face in layer order.
var CubeFaces = [FacesPerCube]CubeFace{
	FacePositiveX, FaceNegativeX,
	FacePositiveY, FaceNegativeY,
	FacePositiveZ, FaceNegativeZ,
}

func (f CubeFace) String() string {
	switch f {
	case FacePositiveX:
		return "+X"
	case FaceNegativeX:
		return "-X"
	case FacePositiveY:
		return "+Y"
	case FaceNegativeY:
		return "-Y"
	case FacePositiveZ:
		return "+Z"
	case FaceNegativeZ:
		return "-Z"
	default:
		return fmt.Sprintf("CubeFace(%d)", uint32(f))
	}
}

var (
	// ErrFaceCount is returned when an environment cubemap is not given exactly six images.
	ErrFaceCount = errors.New("cube maps must contain exactly 6 textures")
	// ErrFaceDimensions is returned when the six decoded images differ in size.
	ErrFaceDimensions = errors.New("all cubemap faces must be same dimensions")
	// ErrZeroResolution is returned when a shadow atlas is requested with a zero face resolution.
	ErrZeroResolution = errors.New("shadow atlas resolution must be greater than zero")
	// ErrEmptyAtlas is returned when binding a shadow atlas that holds no lights.
	ErrEmptyAtlas = errors.New("shadow atlas has no layers to bind")
	// ErrFaceOutOfRange is returned when a face index is not in [0, 6).
	ErrFaceOutOfRange = errors.New("cube face index out of range")
	// ErrLightOutOfRange is returned when a light index is not below the atlas light count.
	ErrLightOutOfRange = errors.New("light index out of range")
	// ErrTooManyLights is returned when a shadow atlas would need more than MaxAtlasLights cubes.
	ErrTooManyLights = errors.New("shadow atlas light count overflows the layer count")
)

// Device is the subset of a GPU device that cube textures are created through.
// NewWGPUDevice adapts a *wgpu.Device.
type Device interface {
	// CreateTexture allocates a texture.
	//
	// Parameters:
	//   - descriptor: the texture size, format, dimension and usage
	//
	// Returns:
	//   - Texture: the created texture
	//   - error: error if the device rejects the descriptor
	CreateTexture(descriptor *wgpu.TextureDescriptor) (Texture, error)

	// CreateSampler creates a sampler.
	//
	// Parameters:
	//   - descriptor: the sampler filtering, addressing and comparison settings
	//
	// Returns:
	//   - *wgpu.Sampler: the created sampler
	//   - error: error if the device rejects the descriptor
	CreateSampler(descriptor *wgpu.SamplerDescriptor) (*wgpu.Sampler, error)

	// CreateBindGroupLayout creates a bind group layout.
	//
	// Parameters:
	//   - descriptor: the layout entries
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the created layout
	//   - error: error if the device rejects the descriptor
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error)

	// CreateBindGroup creates a bind group against a layout.
	//
	// Parameters:
	//   - descriptor: the layout and the resources bound to each entry
	//
	// Returns:
	//   - *wgpu.BindGroup: the created bind group
	//   - error: error if the resources do not match the layout
	CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error)
}

// Texture is a GPU texture that views can be created from.
type Texture interface {
	// CreateView creates a view over a subset of the texture's layers and mips.
	//
	// Parameters:
	//   - descriptor: the view format, dimension and subresource range
	//
	// Returns:
	//   - *wgpu.TextureView: the created view
	//   - error: error if the range or dimension is invalid for the texture
	CreateView(descriptor *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error)

	// Release frees the texture. Views created from it must be released first.
	Release()
}

// Queue uploads pixel data into textures.
type Queue interface {
	// WriteTexture copies tightly packed pixels into one array layer of a texture at mip 0.
	//
	// Parameters:
	//   - destination: the texture to write into
	//   - layer: the array layer (origin Z) written
	//   - data: the pixel bytes
	//   - layout: the row pitch and rows per image of data
	//   - size: the copy extent
	//
	// Returns:
	//   - error: error if the copy could not be queued
	WriteTexture(destination Texture, layer uint32, data []byte, layout wgpu.TextureDataLayout, size wgpu.Extent3D) error
}

// releaseView releases a texture view if one was created.
func releaseView(v *wgpu.TextureView) {
	if v != nil {
		v.Release()
	}
}

// releaseSampler releases a sampler if one was created.
func releaseSampler(s *wgpu.Sampler) {
	if s != nil {
		s.Release()
	}
}
