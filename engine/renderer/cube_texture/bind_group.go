package cube_texture

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// LayoutKind selects which of the two cube bind group layouts to build.
type LayoutKind int

const (
	// LayoutKindEnvironment binds a filterable float cube view with a filtering sampler.
	LayoutKindEnvironment LayoutKind = iota
	// LayoutKindShadowAtlas binds a depth cube-array view with a comparison sampler.
	LayoutKindShadowAtlas
)

func (k LayoutKind) String() string {
	switch k {
	case LayoutKindEnvironment:
		return "environment"
	case LayoutKindShadowAtlas:
		return "shadow atlas"
	default:
		return fmt.Sprintf("LayoutKind(%d)", int(k))
	}
}

const (
	// TextureBinding is the binding index of the cube texture view in both layouts.
	TextureBinding uint32 = 0
	// SamplerBinding is the binding index of the sampler in both layouts.
	SamplerBinding uint32 = 1
)

// EnvironmentLayoutDescriptor describes the environment cubemap bind group layout: a filterable
// float texture_cube at binding 0 and a filtering sampler at binding 1, both visible to the vertex
// and fragment stages.
func EnvironmentLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "cube_texture_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    TextureBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimensionCube,
					Multisampled:  false,
				},
			},
			{
				Binding:    SamplerBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// ShadowAtlasLayoutDescriptor describes the shadow atlas bind group layout: a depth
// texture_depth_cube_array at binding 0 and a comparison sampler at binding 1, both visible to
// the vertex and fragment stages.
func ShadowAtlasLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "shadow_atlas_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    TextureBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimensionCubeArray,
					Multisampled:  false,
				},
			},
			{
				Binding:    SamplerBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeComparison,
				},
			},
		},
	}
}

// NewBindGroupLayout creates one of the two cube bind group layouts. Layouts are created once per
// device and shared by every bind group of the same kind.
//
// Parameters:
//   - device: the device to create the layout on
//   - kind: which layout to create
//
// Returns:
//   - *wgpu.BindGroupLayout: the created layout
//   - error: error if the kind is unknown or the device rejects the layout
func NewBindGroupLayout(device Device, kind LayoutKind) (*wgpu.BindGroupLayout, error) {
	var desc wgpu.BindGroupLayoutDescriptor
	switch kind {
	case LayoutKindEnvironment:
		desc = EnvironmentLayoutDescriptor()
	case LayoutKindShadowAtlas:
		desc = ShadowAtlasLayoutDescriptor()
	default:
		return nil, fmt.Errorf("unknown cube bind group layout kind %v", kind)
	}

	layout, err := device.CreateBindGroupLayout(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s bind group layout: %w", kind, err)
	}
	return layout, nil
}

// createCubeBindGroup binds a view at TextureBinding and a sampler at SamplerBinding.
func createCubeBindGroup(device Device, layout *wgpu.BindGroupLayout, label string, view *wgpu.TextureView, sampler *wgpu.Sampler) (*wgpu.BindGroup, error) {
	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     TextureBinding,
				TextureView: view,
			},
			{
				Binding: SamplerBinding,
				Sampler: sampler,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", label, err)
	}
	return bindGroup, nil
}
