package cube_texture

import (
	"github.com/Carmen-Shannon/mood/common"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// environmentSampler filters linearly on magnification and picks the nearest texel on minification.
	environmentSampler = common.SamplerStagingData{
		MagFilter: wgpu.FilterModeLinear,
		MinFilter: wgpu.FilterModeNearest,
	}

	// shadowSampler is the LessEqual comparison sampler for depth lookups.
	shadowSampler = common.SamplerStagingData{
		MagFilter: wgpu.FilterModeLinear,
		MinFilter: wgpu.FilterModeLinear,
		Compare:   wgpu.CompareFunctionLessEqual,
	}
)

// newSampler creates a sampler from staging data. Zero address modes become clamp-to-edge, a zero
// magnification filter becomes linear, a zero LodMaxClamp becomes 32 and a zero MaxAnisotropy
// becomes 1. The remaining zero values already mean nearest filtering and no comparison.
//
// Parameters:
//   - device: the device to create the sampler on
//   - label: the sampler label
//   - data: the sampler configuration
//
// Returns:
//   - *wgpu.Sampler: the created sampler
//   - error: the device error if creation fails
func newSampler(device Device, label string, data common.SamplerStagingData) (*wgpu.Sampler, error) {
	return device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(data.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(data.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(data.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(data.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     data.MinFilter,
		MipmapFilter:  data.MipmapFilter,
		LodMinClamp:   data.LodMinClamp,
		LodMaxClamp:   common.Coalesce(data.LodMaxClamp, 32),
		Compare:       data.Compare,
		MaxAnisotropy: common.Coalesce(data.MaxAnisotropy, 1),
	})
}
