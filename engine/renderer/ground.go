package renderer

import (
	_ "embed"

	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
	"github.com/Carmen-Shannon/mood/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/mood/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/ground.wgsl
var groundShaderSource string

const (
	groundShaderKey = "ground"

	// Bind group indices used by the ground shader. Group 0 is the shared camera group.
	shadowGroup = 1
	lightGroup  = 2

	// groundVertexCount is the two triangles of the ground quad.
	groundVertexCount = 6
)

// newGroundShader reflects the embedded ground shader and checks that the shadow atlas layout
// can serve its group 1.
func newGroundShader() (shader.Shader, error) {
	sh, err := shader.NewShader(groundShaderKey, groundShaderSource)
	if err != nil {
		return nil, err
	}
	if err := sh.CheckLayout(shadowGroup, cube_texture.ShadowAtlasLayoutDescriptor()); err != nil {
		return nil, err
	}
	return sh, nil
}

// lightLayoutDescriptor is group 2 of the ground shader: the shadow caster storage array.
func lightLayoutDescriptor(sh shader.Shader) wgpu.BindGroupLayoutDescriptor {
	reflected := sh.BindGroupLayoutDescriptor(lightGroup)
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "light_bind_group_layout",
		Entries: append([]wgpu.BindGroupLayoutEntry(nil), reflected.Entries...),
	}
}

// newGroundPipeline describes the ground pipeline. It draws before the skybox with the default
// Less depth test and depth writes, so the sky only fills pixels the ground left at the far plane.
func newGroundPipeline(sh shader.Shader, cameraLayout, shadowLayout, lightLayout *wgpu.BindGroupLayout) pipeline.Pipeline {
	return pipeline.NewPipeline(sh.Key(),
		pipeline.WithShader(sh),
		pipeline.WithBindGroupLayouts(cameraLayout, shadowLayout, lightLayout),
	)
}
