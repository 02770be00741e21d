// Package renderer draws the scene: it owns the GPU surface, the environment skybox and the
// omnidirectional shadow atlas, and advances the fly camera once per frame.
package renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/mood/common"
	"github.com/Carmen-Shannon/mood/engine/camera"
	"github.com/Carmen-Shannon/mood/engine/light"
	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
	"github.com/Carmen-Shannon/mood/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/mood/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// maxFrameDelta caps the time step fed to the camera so the first frame after an idle
// period does not jump.
const maxFrameDelta = 0.1

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend
	window  window.Window
	camera  camera.Camera
	input   camera.FlyInput

	// Pre-creation config collected from builder options.
	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           wgpu.Color
	shadowResolution     uint32
	skyboxPaths          []string
	lights               []light.Light
	flyInputOptions      []camera.FlyInputOption

	now        func() time.Time
	lastUpdate time.Time

	cameraLayout      *wgpu.BindGroupLayout
	environmentLayout *wgpu.BindGroupLayout
	shadowLayout      *wgpu.BindGroupLayout
	lightLayout       *wgpu.BindGroupLayout

	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup

	skybox          cube_texture.CubeTexture
	skyboxBindGroup *wgpu.BindGroup
	skyboxPipeline  pipeline.Pipeline

	casters        []light.Light
	atlas          cube_texture.ShadowAtlas
	atlasBindGroup *wgpu.BindGroup
	lightBuffer    *wgpu.Buffer
	lightBindGroup *wgpu.BindGroup
	groundPipeline pipeline.Pipeline
}

// Renderer draws frames for one window.
//
// Each frame clears every shadow atlas face, then clears the color target, draws the ground lit
// by the shadow casters when there are any, and draws the environment skybox around the camera.
type Renderer interface {
	// Update advances the camera by the wall-clock time since the previous Update and uploads the
	// camera and light data for the next Render. Requests another redraw while the camera is still
	// moving.
	Update()

	// Render records and presents one frame.
	//
	// Returns:
	//   - error: ErrSurfaceLost or ErrSurfaceOutdated (wrapped) when the surface must be resized, or another render error
	Render() error

	// Resize reconfigures the surface and depth target and updates the camera aspect ratio.
	// Zero dimensions are ignored, which happens while the window is minimized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Window returns the window this renderer presents to.
	//
	// Returns:
	//   - window.Window: the window
	Window() window.Window

	// Camera returns the input handler that moves the camera.
	//
	// Returns:
	//   - camera.InputHandler: the camera input handler
	Camera() camera.InputHandler

	// SceneCamera returns the camera whose view is rendered.
	//
	// Returns:
	//   - camera.Camera: the camera
	SceneCamera() camera.Camera

	// SetLights replaces the light list. The shadow atlas, its bind group and the light buffer are
	// recreated when the number of shadow casters changes.
	//
	// Parameters:
	//   - lights: the scene lights
	//
	// Returns:
	//   - error: error if the new atlas or buffer could not be created
	SetLights(lights []light.Light) error

	// Lights returns the current light list.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// ShadowAtlas returns the atlas holding one depth cube per shadow caster.
	//
	// Returns:
	//   - cube_texture.ShadowAtlas: the shadow atlas
	ShadowAtlas() cube_texture.ShadowAtlas

	// ShadowBindGroup returns the bind group exposing the shadow atlas, or nil when there are no casters.
	//
	// Returns:
	//   - *wgpu.BindGroup: the shadow atlas bind group
	ShadowBindGroup() *wgpu.BindGroup

	// Skybox returns the environment cubemap drawn behind the scene.
	//
	// Returns:
	//   - cube_texture.CubeTexture: the skybox
	Skybox() cube_texture.CubeTexture

	// Release frees every GPU object the renderer created, then the device and surface.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer presenting to the window's surface.
//
// It acquires a GPU adapter and device, configures the surface, loads the skybox (a generated
// gradient sky when no faces are configured), builds the skybox pipeline and the shadow atlas for
// the configured lights. Any failure releases what was created and is returned.
//
// Parameters:
//   - ctx: checked between setup steps
//   - win: the window to present to
//   - cam: the camera to render from
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the created renderer
//   - error: error if any setup step fails
func NewRenderer(ctx context.Context, win window.Window, cam camera.Camera, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:               &sync.Mutex{},
		window:           win,
		camera:           cam,
		presentMode:      PresentModeVSync,
		clearColor:       wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		shadowResolution: light.ShadowMapResolution,
		now:              time.Now,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if err := r.init(ctx); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) init(ctx context.Context) error {
	if r.camera == nil {
		r.camera = camera.NewCamera()
	}
	r.input = camera.NewFlyInput(r.camera.Controller(), r.flyInputOptions...)

	skyShader, err := newSkyboxShader()
	if err != nil {
		return fmt.Errorf("failed to build skybox shader: %w", err)
	}
	groundShader, err := newGroundShader()
	if err != nil {
		return fmt.Errorf("failed to build ground shader: %w", err)
	}

	if r.backend == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		backend, err := newWGPURendererBackend(r.window.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return err
		}
		r.backend = backend
	}
	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)

	if w, h := r.window.Width(), r.window.Height(); w > 0 && h > 0 {
		if err := r.backend.ConfigureSurface(w, h); err != nil {
			return err
		}
		r.camera.SetAspect(float32(w) / float32(h))
	}

	device := r.backend.Device()

	if r.environmentLayout, err = cube_texture.NewBindGroupLayout(device, cube_texture.LayoutKindEnvironment); err != nil {
		return err
	}
	if r.shadowLayout, err = cube_texture.NewBindGroupLayout(device, cube_texture.LayoutKindShadowAtlas); err != nil {
		return err
	}
	cameraDesc := cameraLayoutDescriptor(skyShader, groundShader)
	if r.cameraLayout, err = device.CreateBindGroupLayout(&cameraDesc); err != nil {
		return fmt.Errorf("failed to create camera bind group layout: %w", err)
	}
	lightDesc := lightLayoutDescriptor(groundShader)
	if r.lightLayout, err = device.CreateBindGroupLayout(&lightDesc); err != nil {
		return fmt.Errorf("failed to create light bind group layout: %w", err)
	}

	if err := r.initCamera(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.initSkybox(); err != nil {
		return err
	}

	skyPipeline := newSkyboxPipeline(skyShader, r.cameraLayout, r.environmentLayout)
	if err := r.backend.RegisterRenderPipeline(skyPipeline); err != nil {
		return err
	}
	r.skyboxPipeline = skyPipeline

	groundPipeline := newGroundPipeline(groundShader, r.cameraLayout, r.shadowLayout, r.lightLayout)
	if err := r.backend.RegisterRenderPipeline(groundPipeline); err != nil {
		return err
	}
	r.groundPipeline = groundPipeline

	if err := r.rebuildShadows(light.ShadowCasters(r.lights)); err != nil {
		return err
	}

	r.lastUpdate = r.now()
	common.Logger().Debug("renderer ready",
		"width", r.window.Width(),
		"height", r.window.Height(),
		"present_mode", r.presentMode.String(),
		"shadow_casters", len(r.casters),
	)
	return nil
}

func (r *renderer) initCamera() error {
	var u camera.GPUCameraUniform
	size := uint64(u.Size())

	buf, err := r.backend.CreateBuffer("camera_uniform", wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, size)
	if err != nil {
		return err
	}
	r.cameraBuffer = buf

	bindGroup, err := r.backend.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "camera_bind_group",
		Layout: r.cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buf,
				Offset:  0,
				Size:    size,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}
	r.cameraBindGroup = bindGroup
	return nil
}

func (r *renderer) initSkybox() error {
	device, queue := r.backend.Device(), r.backend.Queue()

	var (
		sky cube_texture.CubeTexture
		err error
	)
	if len(r.skyboxPaths) > 0 {
		sky, err = cube_texture.LoadEnvironmentCubemap(r.skyboxPaths, device, queue, cube_texture.WithLabel("skybox"))
	} else {
		sky, err = cube_texture.NewEnvironmentCubemap(defaultSkyFaces(defaultSkySize), device, queue, cube_texture.WithLabel("skybox"))
	}
	if err != nil {
		return fmt.Errorf("failed to load skybox: %w", err)
	}
	r.skybox = sky

	bindGroup, err := sky.BindGroup(device, r.environmentLayout)
	if err != nil {
		return err
	}
	r.skyboxBindGroup = bindGroup
	return nil
}

// rebuildShadows replaces the atlas and the light buffer, with their bind groups, for a new caster
// list. The previous objects are released only after the new ones exist. Caller must hold the
// mutex or be constructing the renderer.
func (r *renderer) rebuildShadows(casters []light.Light) error {
	if len(casters) > cube_texture.MaxAtlasLights {
		return fmt.Errorf("%w: %d shadow casters", cube_texture.ErrTooManyLights, len(casters))
	}
	device := r.backend.Device()

	atlas, err := cube_texture.NewShadowAtlas(device, r.shadowResolution, uint32(len(casters)), cube_texture.WithAtlasLabel("shadow_atlas"))
	if err != nil {
		return err
	}

	var (
		bindGroup      *wgpu.BindGroup
		buf            *wgpu.Buffer
		lightBindGroup *wgpu.BindGroup
	)
	if !atlas.Empty() {
		if bindGroup, err = atlas.BindGroup(device, r.shadowLayout); err != nil {
			atlas.Release()
			return err
		}
		var cube light.GPUShadowCube
		size := uint64(cube.Size() * len(casters))
		if buf, err = r.backend.CreateBuffer("light_shadow_cubes", wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, size); err != nil {
			releaseBindGroup(bindGroup)
			atlas.Release()
			return err
		}
		lightBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "light_bind_group",
			Layout: r.lightLayout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  buf,
					Offset:  0,
					Size:    size,
				},
			},
		})
		if err != nil {
			releaseBuffer(buf)
			releaseBindGroup(bindGroup)
			atlas.Release()
			return fmt.Errorf("failed to create light bind group: %w", err)
		}
	}

	r.releaseShadows()
	r.atlas = atlas
	r.atlasBindGroup = bindGroup
	r.lightBuffer = buf
	r.lightBindGroup = lightBindGroup
	r.casters = casters
	return nil
}

// releaseShadows frees the current atlas resources. Caller must hold the mutex.
func (r *renderer) releaseShadows() {
	releaseBindGroup(r.lightBindGroup)
	r.lightBindGroup = nil
	releaseBindGroup(r.atlasBindGroup)
	r.atlasBindGroup = nil
	releaseBuffer(r.lightBuffer)
	r.lightBuffer = nil
	if r.atlas != nil {
		r.atlas.Release()
		r.atlas = nil
	}
	r.casters = nil
}

func (r *renderer) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	dt := now.Sub(r.lastUpdate).Seconds()
	r.lastUpdate = now
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}

	r.input.Update(dt)
	r.camera.Update()

	u := r.camera.Uniform()
	r.backend.WriteBuffer(r.cameraBuffer, 0, u.Marshal())
	if len(r.casters) > 0 {
		r.backend.WriteBuffer(r.lightBuffer, 0, light.MarshalShadowCubes(r.casters))
	}

	if r.input.Animating() {
		r.window.RequestRedraw()
	}
}

func (r *renderer) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.renderShadows(); err != nil {
		return err
	}

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	if r.atlas != nil && !r.atlas.Empty() {
		r.backend.Draw(r.groundPipeline.RenderPipeline(), []*wgpu.BindGroup{r.cameraBindGroup, r.atlasBindGroup, r.lightBindGroup}, groundVertexCount)
	}
	r.backend.Draw(r.skyboxPipeline.RenderPipeline(), []*wgpu.BindGroup{r.cameraBindGroup, r.skyboxBindGroup}, skyboxVertexCount)
	if err := r.backend.EndFrame(); err != nil {
		return err
	}
	r.backend.Present()
	return nil
}

// renderShadows clears every face of every shadow cube to the far plane. Caller must hold the mutex.
func (r *renderer) renderShadows() error {
	if r.atlas == nil || r.atlas.Empty() {
		return nil
	}
	if err := r.backend.BeginShadowFrame(); err != nil {
		return fmt.Errorf("failed to begin shadow frame: %w", err)
	}
	for l := uint32(0); l < r.atlas.NumLights(); l++ {
		for _, face := range cube_texture.CubeFaces {
			r.backend.BeginShadowPass(r.atlas.FaceView(l, uint32(face)))
			r.backend.EndShadowPass()
		}
	}
	return r.backend.EndShadowFrame()
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.ConfigureSurface(width, height); err != nil {
		common.Logger().Error("failed to resize surface", "width", width, "height", height, "error", err)
		return
	}
	r.camera.SetAspect(float32(width) / float32(height))
}

func (r *renderer) Window() window.Window {
	return r.window
}

func (r *renderer) Camera() camera.InputHandler {
	return r.input
}

func (r *renderer) SceneCamera() camera.Camera {
	return r.camera
}

func (r *renderer) SetLights(lights []light.Light) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lights = append([]light.Light(nil), lights...)
	casters := light.ShadowCasters(r.lights)
	if r.atlas != nil && len(casters) == len(r.casters) {
		r.casters = casters
		return nil
	}
	return r.rebuildShadows(casters)
}

func (r *renderer) Lights() []light.Light {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]light.Light(nil), r.lights...)
}

func (r *renderer) ShadowAtlas() cube_texture.ShadowAtlas {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.atlas
}

func (r *renderer) ShadowBindGroup() *wgpu.BindGroup {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.atlasBindGroup
}

func (r *renderer) Skybox() cube_texture.CubeTexture {
	return r.skybox
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseShadows()

	if r.groundPipeline != nil {
		r.groundPipeline.Release()
		r.groundPipeline = nil
	}
	if r.skyboxPipeline != nil {
		r.skyboxPipeline.Release()
		r.skyboxPipeline = nil
	}
	releaseBindGroup(r.skyboxBindGroup)
	r.skyboxBindGroup = nil
	if r.skybox != nil {
		r.skybox.Release()
		r.skybox = nil
	}

	releaseBindGroup(r.cameraBindGroup)
	r.cameraBindGroup = nil
	releaseBuffer(r.cameraBuffer)
	r.cameraBuffer = nil

	for _, layout := range []**wgpu.BindGroupLayout{&r.cameraLayout, &r.environmentLayout, &r.shadowLayout, &r.lightLayout} {
		if *layout != nil {
			(*layout).Release()
			*layout = nil
		}
	}

	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}

func releaseBindGroup(bg *wgpu.BindGroup) {
	if bg != nil {
		bg.Release()
	}
}

func releaseBuffer(buf *wgpu.Buffer) {
	if buf != nil {
		buf.Release()
	}
}
