package renderer

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/mood/engine/camera"
	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
	"github.com/Carmen-Shannon/mood/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

func TestSkyboxShaderValidates(t *testing.T) {
	sh, err := newSkyboxShader()
	if err != nil {
		skipUnimplemented(t, err)
		t.Fatalf("newSkyboxShader failed: %v", err)
	}

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

// skipUnimplemented skips the test when naga reports a WGSL feature it does not support yet.
func skipUnimplemented(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
		t.Skipf("Skipping: naga feature not yet implemented: %v", err)
	}
}

func TestSkyboxShaderReflection(t *testing.T) {
	sh, err := newSkyboxShader()
	if err != nil {
		skipUnimplemented(t, err)
		t.Fatalf("newSkyboxShader failed: %v", err)
	}

	if got := sh.EntryPoint(shader.ShaderTypeVertex); got != "vs_main" {
		t.Errorf("vertex entry = %q, want vs_main", got)
	}
	if got := sh.EntryPoint(shader.ShaderTypeFragment); got != "fs_main" {
		t.Errorf("fragment entry = %q, want fs_main", got)
	}

	desc := cameraLayoutDescriptor(sh)
	if desc.Label != "camera_bind_group_layout" {
		t.Errorf("camera layout label = %q", desc.Label)
	}
	if len(desc.Entries) != 1 {
		t.Fatalf("camera layout has %d entries, want 1", len(desc.Entries))
	}
	var u camera.GPUCameraUniform
	entry := desc.Entries[0]
	if entry.Buffer.Type != wgpu.BufferBindingTypeUniform || entry.Buffer.MinBindingSize != uint64(u.Size()) {
		t.Errorf("camera entry = %+v, want a %d byte uniform", entry.Buffer, u.Size())
	}
	if entry.Visibility&wgpu.ShaderStageFragment == 0 {
		t.Error("camera uniform is not visible to the fragment stage")
	}

	if sh.BindGroupVarName(environmentGroup, int(cube_texture.TextureBinding)) != "sky_texture" {
		t.Errorf("group 1 texture var = %q", sh.BindGroupVarName(environmentGroup, int(cube_texture.TextureBinding)))
	}
	if err := sh.CheckLayout(environmentGroup, cube_texture.ShadowAtlasLayoutDescriptor()); err == nil {
		t.Error("shadow atlas layout accepted for the environment group")
	}
}

func TestDefaultSkyFaces(t *testing.T) {
	const size = 8
	faces := defaultSkyFaces(size)

	for i, f := range faces {
		if f.Width != size || f.Height != size || len(f.Pixels) != size*size*4 {
			t.Fatalf("face %d is %dx%d with %d bytes", i, f.Width, f.Height, len(f.Pixels))
		}
		for p := 3; p < len(f.Pixels); p += 4 {
			if f.Pixels[p] != 255 {
				t.Fatalf("face %d pixel %d is not opaque", i, p/4)
			}
		}
	}

	top := faces[cube_texture.FacePositiveY].Pixels
	bottom := faces[cube_texture.FaceNegativeY].Pixels
	if top[2] <= bottom[2] {
		t.Errorf("zenith blue %d is not brighter than ground blue %d", top[2], bottom[2])
	}

	side := faces[cube_texture.FacePositiveX].Pixels
	firstRow, lastRow := side[0:4], side[(size-1)*size*4:(size-1)*size*4+4]
	if firstRow[2] != top[2] || lastRow[2] != bottom[2] {
		t.Errorf("side face does not run from zenith (%d) to ground (%d): got %d to %d", top[2], bottom[2], firstRow[2], lastRow[2])
	}
}
