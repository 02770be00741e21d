package renderer

import (
	_ "embed"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
	"github.com/Carmen-Shannon/mood/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/mood/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/skybox.wgsl
var skyboxShaderSource string

const (
	skyboxShaderKey = "skybox"

	// Bind group indices used by the skybox shader.
	cameraGroup      = 0
	environmentGroup = 1

	// skyboxVertexCount is the single screen-covering triangle.
	skyboxVertexCount = 3

	// defaultSkySize is the edge length of the generated fallback sky faces.
	defaultSkySize = 64
)

var (
	skyZenith  = [3]float64{0.25, 0.45, 0.85}
	skyHorizon = [3]float64{0.75, 0.85, 0.95}
	skyGround  = [3]float64{0.22, 0.20, 0.18}
)

// newSkyboxShader reflects the embedded skybox shader and checks that the cube texture
// environment layout can serve its group 1.
func newSkyboxShader() (shader.Shader, error) {
	sh, err := shader.NewShader(skyboxShaderKey, skyboxShaderSource)
	if err != nil {
		return nil, err
	}
	if err := sh.CheckLayout(environmentGroup, cube_texture.EnvironmentLayoutDescriptor()); err != nil {
		return nil, err
	}
	return sh, nil
}

// cameraLayoutDescriptor is group 0 of the given shaders: the camera uniform, visible to every
// stage that reads it in any of them.
func cameraLayoutDescriptor(shaders ...shader.Shader) wgpu.BindGroupLayoutDescriptor {
	desc := wgpu.BindGroupLayoutDescriptor{Label: "camera_bind_group_layout"}
	for _, sh := range shaders {
	entries:
		for _, e := range sh.BindGroupLayoutDescriptor(cameraGroup).Entries {
			for i := range desc.Entries {
				if desc.Entries[i].Binding == e.Binding {
					desc.Entries[i].Visibility |= e.Visibility
					continue entries
				}
			}
			desc.Entries = append(desc.Entries, e)
		}
	}
	return desc
}

// newSkyboxPipeline describes the skybox pipeline. The triangle sits exactly on the far plane,
// so it passes a LessEqual test against the cleared depth and never writes depth.
func newSkyboxPipeline(sh shader.Shader, cameraLayout, environmentLayout *wgpu.BindGroupLayout) pipeline.Pipeline {
	return pipeline.NewPipeline(sh.Key(),
		pipeline.WithShader(sh),
		pipeline.WithBindGroupLayouts(cameraLayout, environmentLayout),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthWriteEnabled(false),
	)
}

// defaultSkyFaces generates a simple gradient sky used when no skybox images are configured.
// Side faces blend from ground at the bottom row through the horizon to the zenith at the top.
func defaultSkyFaces(size int) [cube_texture.FacesPerCube]common.TextureStagingData {
	var faces [cube_texture.FacesPerCube]common.TextureStagingData
	for _, face := range cube_texture.CubeFaces {
		pixels := make([]byte, size*size*4)
		for y := 0; y < size; y++ {
			var c [3]float64
			switch face {
			case cube_texture.FacePositiveY:
				c = skyZenith
			case cube_texture.FaceNegativeY:
				c = skyGround
			default:
				// Row 0 is the top of a side face.
				t := float64(y) / float64(size-1)
				if t < 0.5 {
					c = lerp3(skyZenith, skyHorizon, t*2)
				} else {
					c = lerp3(skyHorizon, skyGround, (t-0.5)*2)
				}
			}
			for x := 0; x < size; x++ {
				i := (y*size + x) * 4
				pixels[i+0] = byte(c[0] * 255)
				pixels[i+1] = byte(c[1] * 255)
				pixels[i+2] = byte(c[2] * 255)
				pixels[i+3] = 255
			}
		}
		faces[face] = common.TextureStagingData{
			Pixels: pixels,
			Width:  uint32(size),
			Height: uint32(size),
		}
	}
	return faces
}

func lerp3(a, b [3]float64, t float64) [3]float64 {
	return [3]float64{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
