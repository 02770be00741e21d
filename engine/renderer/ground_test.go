package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/mood/engine/light"
	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
	"github.com/Carmen-Shannon/mood/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

func newTestGroundShader(t *testing.T) shader.Shader {
	t.Helper()
	sh, err := newGroundShader()
	if err != nil {
		skipUnimplemented(t, err)
		t.Fatalf("newGroundShader failed: %v", err)
	}
	return sh
}

func TestGroundShaderValidates(t *testing.T) {
	sh := newTestGroundShader(t)

	ast, err := naga.Parse(sh.Source())
	if err != nil {
		t.Fatalf("naga.Parse failed: %v", err)
	}
	module, err := naga.LowerWithSource(ast, sh.Source())
	if err != nil {
		skipUnimplemented(t, err)
		t.Fatalf("naga.LowerWithSource failed: %v", err)
	}
	validationErrors, err := naga.Validate(module)
	if err != nil {
		t.Fatalf("naga.Validate failed: %v", err)
	}
	for _, ve := range validationErrors {
		t.Errorf("validation error: %v", ve)
	}
}

func TestGroundShaderBindsShadowAtlasAndCasters(t *testing.T) {
	sh := newTestGroundShader(t)

	if err := sh.CheckLayout(shadowGroup, cube_texture.ShadowAtlasLayoutDescriptor()); err != nil {
		t.Errorf("shadow atlas layout rejected: %v", err)
	}
	if err := sh.CheckLayout(shadowGroup, cube_texture.EnvironmentLayoutDescriptor()); err == nil {
		t.Error("environment layout accepted for the shadow group")
	}
	if got := sh.BindGroupVarName(shadowGroup, int(cube_texture.TextureBinding)); got != "shadow_atlas" {
		t.Errorf("group 1 texture var = %q, want shadow_atlas", got)
	}

	desc := lightLayoutDescriptor(sh)
	if desc.Label != "light_bind_group_layout" || len(desc.Entries) != 1 {
		t.Fatalf("light layout = %q with %d entries", desc.Label, len(desc.Entries))
	}
	var cube light.GPUShadowCube
	entry := desc.Entries[0]
	if entry.Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage || entry.Buffer.MinBindingSize != uint64(cube.Size()) {
		t.Errorf("light entry = %+v, want a read-only storage array of %d byte elements", entry.Buffer, cube.Size())
	}
	if entry.Visibility&wgpu.ShaderStageFragment == 0 {
		t.Error("casters are not visible to the fragment stage")
	}
	if binding, ok := sh.BindGroupFromVarName(lightGroup, "casters"); !ok || binding != 0 {
		t.Errorf("casters binding = %d, %v", binding, ok)
	}
}

func TestCameraLayoutMergesStages(t *testing.T) {
	sky, err := newSkyboxShader()
	if err != nil {
		skipUnimplemented(t, err)
		t.Fatalf("newSkyboxShader failed: %v", err)
	}
	ground := newTestGroundShader(t)

	desc := cameraLayoutDescriptor(sky, ground)
	if len(desc.Entries) != 1 {
		t.Fatalf("camera layout has %d entries, want 1", len(desc.Entries))
	}
	want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	if got := desc.Entries[0].Visibility; got != want {
		t.Errorf("camera visibility = %v, want vertex|fragment", got)
	}
	for _, sh := range []shader.Shader{sky, ground} {
		if err := sh.CheckLayout(cameraGroup, desc); err != nil {
			t.Errorf("%s rejects the merged camera layout: %v", sh.Key(), err)
		}
	}
	if got := sky.BindGroupLayoutDescriptor(cameraGroup).Entries[0].Visibility; got&wgpu.ShaderStageVertex != 0 {
		t.Error("merging changed the skybox shader's reflected visibility")
	}
}
