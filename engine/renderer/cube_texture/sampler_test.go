package cube_texture

import (
	"testing"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewSamplerDefaults(t *testing.T) {
	device := &fakeDevice{}
	if _, err := newSampler(device, "defaults", common.SamplerStagingData{}); err != nil {
		t.Fatalf("newSampler() error = %v", err)
	}

	want := wgpu.SamplerDescriptor{
		Label:         "defaults",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	}
	if got := device.samplers[0]; got != want {
		t.Errorf("sampler = %+v, want %+v", got, want)
	}
}

func TestNewSamplerKeepsSetFields(t *testing.T) {
	device := &fakeDevice{}
	data := common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeMirrorRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   1,
		LodMaxClamp:   4,
		Compare:       wgpu.CompareFunctionGreater,
		MaxAnisotropy: 8,
	}
	if _, err := newSampler(device, "custom", data); err != nil {
		t.Fatalf("newSampler() error = %v", err)
	}

	s := device.samplers[0]
	if s.AddressModeU != wgpu.AddressModeMirrorRepeat || s.AddressModeV != wgpu.AddressModeClampToEdge {
		t.Errorf("address modes U/V = %v/%v, want MirrorRepeat/ClampToEdge", s.AddressModeU, s.AddressModeV)
	}
	if s.MinFilter != wgpu.FilterModeLinear || s.MipmapFilter != wgpu.MipmapFilterModeLinear {
		t.Errorf("min/mipmap filter = %v/%v, want Linear/Linear", s.MinFilter, s.MipmapFilter)
	}
	if s.LodMinClamp != 1 || s.LodMaxClamp != 4 || s.MaxAnisotropy != 8 || s.Compare != wgpu.CompareFunctionGreater {
		t.Errorf("lod/anisotropy/compare = %v-%v/%d/%v", s.LodMinClamp, s.LodMaxClamp, s.MaxAnisotropy, s.Compare)
	}
}
