package cube_texture

import (
	"fmt"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// cubeTexture is the implementation of the CubeTexture interface.
type cubeTexture struct {
	label   string
	decoder Decoder

	width  uint32
	height uint32

	texture Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

// CubeTexture is an immutable RGBA8 environment cubemap: six equally sized layers viewed as a
// texture_cube, with a clamp-to-edge sampler that filters linearly on magnification and picks the
// nearest texel on minification.
type CubeTexture interface {
	// Width returns the face width in texels.
	//
	// Returns:
	//   - uint32: the face width
	Width() uint32

	// Height returns the face height in texels.
	//
	// Returns:
	//   - uint32: the face height
	Height() uint32

	// View returns the cube view over all six layers.
	//
	// Returns:
	//   - *wgpu.TextureView: the cube view
	View() *wgpu.TextureView

	// Sampler returns the filtering sampler paired with the view.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	Sampler() *wgpu.Sampler

	// BindGroup creates a bind group exposing the cube view at binding 0 and the sampler at binding 1.
	// The layout must come from NewBindGroupLayout(device, LayoutKindEnvironment).
	//
	// Parameters:
	//   - device: the device to create the bind group on
	//   - layout: the environment bind group layout
	//
	// Returns:
	//   - *wgpu.BindGroup: the created bind group
	//   - error: the device error if creation fails
	BindGroup(device Device, layout *wgpu.BindGroupLayout) (*wgpu.BindGroup, error)

	// Release frees the view, the sampler and the texture.
	Release()
}

var _ CubeTexture = &cubeTexture{}

// LoadEnvironmentCubemap decodes six image files concurrently and uploads them as a cubemap.
// paths[i] becomes array layer i, so callers order them +X, -X, +Y, -Y, +Z, -Z.
//
// No GPU object is created until all six images have decoded and agree on their dimensions.
//
// Parameters:
//   - paths: exactly six image file paths
//   - device: the device to create the texture on
//   - queue: the queue used to upload the pixels
//   - options: optional CubeTextureBuilderOption values
//
// Returns:
//   - CubeTexture: the created cubemap
//   - error: ErrFaceCount, a decode error naming the failing path, ErrFaceDimensions, or a device error
func LoadEnvironmentCubemap(paths []string, device Device, queue Queue, options ...CubeTextureBuilderOption) (CubeTexture, error) {
	if len(paths) != FacesPerCube {
		return nil, fmt.Errorf("%w: got %d", ErrFaceCount, len(paths))
	}

	c := newCubeTexture(options)
	faces, err := decodeFaces(paths, c.decoder)
	if err != nil {
		return nil, err
	}

	if err := c.upload(faces, device, queue); err != nil {
		return nil, err
	}
	return c, nil
}

// NewEnvironmentCubemap uploads six already decoded faces as a cubemap. faces[i] becomes layer i.
//
// Parameters:
//   - faces: the six faces, each with 4*Width*Height pixel bytes
//   - device: the device to create the texture on
//   - queue: the queue used to upload the pixels
//   - options: optional CubeTextureBuilderOption values
//
// Returns:
//   - CubeTexture: the created cubemap
//   - error: ErrFaceDimensions, a pixel size error, or a device error
func NewEnvironmentCubemap(faces [FacesPerCube]common.TextureStagingData, device Device, queue Queue, options ...CubeTextureBuilderOption) (CubeTexture, error) {
	c := newCubeTexture(options)
	if err := c.upload(faces, device, queue); err != nil {
		return nil, err
	}
	return c, nil
}

func newCubeTexture(options []CubeTextureBuilderOption) *cubeTexture {
	c := &cubeTexture{}
	for _, option := range options {
		option(c)
	}
	c.label = common.Coalesce(c.label, "cube_texture")
	if c.decoder == nil {
		c.decoder = FileDecoder()
	}
	return c
}

// validateFaces checks that every face has the dimensions of face 0 and carries a full RGBA8 image.
func validateFaces(faces [FacesPerCube]common.TextureStagingData) (uint32, uint32, error) {
	width, height := faces[0].Width, faces[0].Height
	for i, face := range faces {
		if face.Width != width || face.Height != height {
			return 0, 0, fmt.Errorf("%w: face %d is %dx%d, face 0 is %dx%d", ErrFaceDimensions, i, face.Width, face.Height, width, height)
		}
		if face.Width == 0 || face.Height == 0 {
			return 0, 0, fmt.Errorf("cubemap face %d is empty", i)
		}
		if want := int(face.Width) * int(face.Height) * 4; len(face.Pixels) != want {
			return 0, 0, fmt.Errorf("cubemap face %d has %d pixel bytes, want %d", i, len(face.Pixels), want)
		}
	}
	return width, height, nil
}

// upload validates the faces, then creates the texture, writes each face into its layer and
// builds the cube view and sampler. Anything created before a failure is released.
func (c *cubeTexture) upload(faces [FacesPerCube]common.TextureStagingData, device Device, queue Queue) error {
	width, height, err := validateFaces(faces)
	if err != nil {
		return err
	}
	c.width, c.height = width, height

	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: c.label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: FacesPerCube,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create cubemap texture: %w", err)
	}
	c.texture = tex

	for i, face := range faces {
		err := queue.WriteTexture(
			tex,
			uint32(i),
			face.Pixels,
			wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  4 * width,
				RowsPerImage: height,
			},
			wgpu.Extent3D{
				Width:              width,
				Height:             height,
				DepthOrArrayLayers: 1,
			},
		)
		if err != nil {
			c.Release()
			return fmt.Errorf("failed to upload cubemap face %d: %w", i, err)
		}
	}

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           c.label + "_view",
		Format:          wgpu.TextureFormatRGBA8Unorm,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: FacesPerCube,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		c.Release()
		return fmt.Errorf("failed to create cubemap view: %w", err)
	}
	c.view = view

	sampler, err := newSampler(device, c.label+"_sampler", environmentSampler)
	if err != nil {
		c.Release()
		return fmt.Errorf("failed to create cubemap sampler: %w", err)
	}
	c.sampler = sampler

	return nil
}

func (c *cubeTexture) Width() uint32 {
	return c.width
}

func (c *cubeTexture) Height() uint32 {
	return c.height
}

func (c *cubeTexture) View() *wgpu.TextureView {
	return c.view
}

func (c *cubeTexture) Sampler() *wgpu.Sampler {
	return c.sampler
}

func (c *cubeTexture) BindGroup(device Device, layout *wgpu.BindGroupLayout) (*wgpu.BindGroup, error) {
	return createCubeBindGroup(device, layout, "cube_bind_group", c.view, c.sampler)
}

func (c *cubeTexture) Release() {
	releaseView(c.view)
	c.view = nil
	releaseSampler(c.sampler)
	c.sampler = nil
	if c.texture != nil {
		c.texture.Release()
		c.texture = nil
	}
}
