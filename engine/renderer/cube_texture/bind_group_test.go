package cube_texture

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestLayoutDescriptors(t *testing.T) {
	tests := []struct {
		name        string
		desc        wgpu.BindGroupLayoutDescriptor
		sampleType  wgpu.TextureSampleType
		dimension   wgpu.TextureViewDimension
		samplerType wgpu.SamplerBindingType
	}{
		{"environment", EnvironmentLayoutDescriptor(), wgpu.TextureSampleTypeFloat, wgpu.TextureViewDimensionCube, wgpu.SamplerBindingTypeFiltering},
		{"shadow atlas", ShadowAtlasLayoutDescriptor(), wgpu.TextureSampleTypeDepth, wgpu.TextureViewDimensionCubeArray, wgpu.SamplerBindingTypeComparison},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.desc.Entries) != 2 {
				t.Fatalf("entries = %d, want 2", len(tt.desc.Entries))
			}
			tex, samp := tt.desc.Entries[0], tt.desc.Entries[1]
			stages := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

			if tex.Binding != 0 || tex.Visibility != stages {
				t.Errorf("texture entry binding/visibility = %d/%v, want 0/%v", tex.Binding, tex.Visibility, stages)
			}
			if tex.Texture.SampleType != tt.sampleType || tex.Texture.ViewDimension != tt.dimension || tex.Texture.Multisampled {
				t.Errorf("texture layout = %+v, want %v %v single-sampled", tex.Texture, tt.sampleType, tt.dimension)
			}
			if samp.Binding != 1 || samp.Visibility != stages {
				t.Errorf("sampler entry binding/visibility = %d/%v, want 1/%v", samp.Binding, samp.Visibility, stages)
			}
			if samp.Sampler.Type != tt.samplerType {
				t.Errorf("sampler type = %v, want %v", samp.Sampler.Type, tt.samplerType)
			}
		})
	}
}

func TestNewBindGroupLayout(t *testing.T) {
	device := &fakeDevice{}
	if _, err := NewBindGroupLayout(device, LayoutKindEnvironment); err != nil {
		t.Fatalf("NewBindGroupLayout(environment) error = %v", err)
	}
	if _, err := NewBindGroupLayout(device, LayoutKindShadowAtlas); err != nil {
		t.Fatalf("NewBindGroupLayout(shadow atlas) error = %v", err)
	}
	if len(device.layouts) != 2 {
		t.Fatalf("created %d layouts, want 2", len(device.layouts))
	}
	if device.layouts[0].Label != "cube_texture_bind_group_layout" {
		t.Errorf("environment layout label = %q", device.layouts[0].Label)
	}
	if device.layouts[1].Entries[0].Texture.ViewDimension != wgpu.TextureViewDimensionCubeArray {
		t.Errorf("shadow layout view dimension = %v, want CubeArray", device.layouts[1].Entries[0].Texture.ViewDimension)
	}

	if _, err := NewBindGroupLayout(device, LayoutKind(42)); err == nil {
		t.Error("NewBindGroupLayout(unknown) returned nil error")
	}
}

func TestBindGroupError(t *testing.T) {
	boom := errors.New("layout mismatch")
	device := &fakeDevice{}
	atlas, err := NewShadowAtlas(device, 32, 1)
	if err != nil {
		t.Fatalf("NewShadowAtlas() error = %v", err)
	}
	device.bindGroupErr = boom
	if _, err := atlas.BindGroup(device, nil); !errors.Is(err, boom) {
		t.Errorf("BindGroup() error = %v, want wrapped %v", err, boom)
	}
}
