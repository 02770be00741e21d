package cube_texture

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// shadowAtlas is the implementation of the ShadowAtlas interface.
type shadowAtlas struct {
	mu *sync.Mutex

	label      string
	resolution uint32
	numLights  uint32

	texture Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler

	// faceViews caches the single-layer render target views, keyed by array layer.
	faceViews map[uint32]*wgpu.TextureView
}

// ShadowAtlas is a single Depth32Float texture holding one cube of depth faces per shadow-casting
// point light. Layers are grouped per light in the order +X, -X, +Y, -Y, +Z, -Z, so light l face f
// lives at layer 6*l+f. Shaders sample the whole atlas through a cube-array view with a comparison
// sampler, and each face is rendered into through its own 2D view.
//
// The shape is fixed at creation. A different light count requires a new atlas.
type ShadowAtlas interface {
	// Resolution returns the width and height of every face in texels.
	//
	// Returns:
	//   - uint32: the face resolution
	Resolution() uint32

	// NumLights returns the number of light cubes the atlas holds.
	//
	// Returns:
	//   - uint32: the light count
	NumLights() uint32

	// Layers returns the total number of array layers, always 6 * NumLights.
	//
	// Returns:
	//   - uint32: the layer count
	Layers() uint32

	// Empty reports whether the atlas was created for zero lights. An empty atlas owns no GPU texture.
	//
	// Returns:
	//   - bool: true if there is nothing to render into or sample
	Empty() bool

	// View returns the cube-array view over every layer, or nil for an empty atlas.
	//
	// Returns:
	//   - *wgpu.TextureView: the sampled view
	View() *wgpu.TextureView

	// Sampler returns the LessEqual comparison sampler used for shadow lookups.
	//
	// Returns:
	//   - *wgpu.Sampler: the comparison sampler
	Sampler() *wgpu.Sampler

	// FaceView returns a 2D render target view of exactly one face of one light's cube.
	// Views are created on first request and cached until Release.
	// Passing a face index >= 6 or a light index >= NumLights is a programming error and panics.
	//
	// Parameters:
	//   - lightIndex: the light whose cube is addressed
	//   - faceIndex: the face within the cube, see CubeFace
	//
	// Returns:
	//   - *wgpu.TextureView: a single-layer, single-mip depth view
	FaceView(lightIndex, faceIndex uint32) *wgpu.TextureView

	// BindGroup creates a bind group exposing the cube-array view at binding 0 and the comparison
	// sampler at binding 1. The layout must come from NewBindGroupLayout(device, LayoutKindShadowAtlas).
	//
	// Parameters:
	//   - device: the device to create the bind group on
	//   - layout: the shadow atlas bind group layout
	//
	// Returns:
	//   - *wgpu.BindGroup: the created bind group
	//   - error: ErrEmptyAtlas for an atlas without lights, or the device error
	BindGroup(device Device, layout *wgpu.BindGroupLayout) (*wgpu.BindGroup, error)

	// Release frees the face views, the sampled view, the sampler and the texture.
	Release()
}

var _ ShadowAtlas = &shadowAtlas{}

// NewShadowAtlas allocates a cube-array depth atlas for numLights point lights.
//
// A zero light count is valid and produces an empty atlas with a sampler but no texture,
// since a texture cannot have zero array layers.
//
// Parameters:
//   - device: the device to allocate on
//   - resolution: width and height of every face in texels, must be non-zero
//   - numLights: the number of light cubes
//   - options: optional ShadowAtlasBuilderOption values
//
// Returns:
//   - ShadowAtlas: the created atlas
//   - error: ErrZeroResolution, ErrTooManyLights, or the device error if any GPU object could not be created
func NewShadowAtlas(device Device, resolution, numLights uint32, options ...ShadowAtlasBuilderOption) (ShadowAtlas, error) {
	if resolution == 0 {
		return nil, ErrZeroResolution
	}
	if numLights > MaxAtlasLights {
		return nil, fmt.Errorf("%w: %d lights, at most %d", ErrTooManyLights, numLights, MaxAtlasLights)
	}

	a := &shadowAtlas{
		mu:         &sync.Mutex{},
		resolution: resolution,
		numLights:  numLights,
		faceViews:  make(map[uint32]*wgpu.TextureView),
	}
	for _, option := range options {
		option(a)
	}
	a.label = common.Coalesce(a.label, "Shadow Atlas")

	sampler, err := newSampler(device, a.label+" Comparison Sampler", shadowSampler)
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow atlas sampler: %w", err)
	}
	a.sampler = sampler

	if numLights == 0 {
		return a, nil
	}

	layers := FacesPerCube * numLights
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: a.label + " Texture",
		Size: wgpu.Extent3D{
			Width:              resolution,
			Height:             resolution,
			DepthOrArrayLayers: layers,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		a.Release()
		return nil, fmt.Errorf("failed to create shadow atlas texture: %w", err)
	}
	a.texture = tex

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           a.label + " Cube Array View",
		Format:          wgpu.TextureFormatDepth32Float,
		Dimension:       wgpu.TextureViewDimensionCubeArray,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: layers,
		Aspect:          wgpu.TextureAspectDepthOnly,
	})
	if err != nil {
		a.Release()
		return nil, fmt.Errorf("failed to create shadow atlas view: %w", err)
	}
	a.view = view

	return a, nil
}

func (a *shadowAtlas) Resolution() uint32 {
	return a.resolution
}

func (a *shadowAtlas) NumLights() uint32 {
	return a.numLights
}

func (a *shadowAtlas) Layers() uint32 {
	return FacesPerCube * a.numLights
}

func (a *shadowAtlas) Empty() bool {
	return a.numLights == 0
}

func (a *shadowAtlas) View() *wgpu.TextureView {
	return a.view
}

func (a *shadowAtlas) Sampler() *wgpu.Sampler {
	return a.sampler
}

func (a *shadowAtlas) FaceView(lightIndex, faceIndex uint32) *wgpu.TextureView {
	layer, err := FaceLayer(lightIndex, faceIndex, a.numLights)
	if err != nil {
		panic(fmt.Sprintf("shadow atlas %q: %v", a.label, err))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if view, ok := a.faceViews[layer]; ok {
		return view
	}

	view, err := a.texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           fmt.Sprintf("%s Light %d Face %s", a.label, lightIndex, CubeFace(faceIndex)),
		Format:          wgpu.TextureFormatDepth32Float,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  layer,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectDepthOnly,
	})
	if err != nil {
		panic(fmt.Errorf("shadow atlas %q: failed to create face view for layer %d: %w", a.label, layer, err))
	}
	a.faceViews[layer] = view

	return view
}

func (a *shadowAtlas) BindGroup(device Device, layout *wgpu.BindGroupLayout) (*wgpu.BindGroup, error) {
	if a.Empty() {
		return nil, ErrEmptyAtlas
	}
	return createCubeBindGroup(device, layout, a.label+" Bind Group", a.view, a.sampler)
}

func (a *shadowAtlas) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for layer, view := range a.faceViews {
		releaseView(view)
		delete(a.faceViews, layer)
	}
	releaseView(a.view)
	a.view = nil
	releaseSampler(a.sampler)
	a.sampler = nil
	if a.texture != nil {
		a.texture.Release()
		a.texture = nil
	}
}
