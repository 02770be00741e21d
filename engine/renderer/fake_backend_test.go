package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/mood/engine/renderer/cube_texture"
	"github.com/Carmen-Shannon/mood/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/mood/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeTexture hands out nil views; releasing nil views is a no-op.
type fakeTexture struct {
	released bool
}

func (t *fakeTexture) CreateView(*wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	return nil, nil
}

func (t *fakeTexture) Release() {
	t.released = true
}

// fakeCubeDevice implements cube_texture.Device and cube_texture.Queue without a GPU.
type fakeCubeDevice struct {
	textures     []*fakeTexture
	bindGroups   []string
	layouts      []string
	writes       int
	bindGroupErr error
}

func (d *fakeCubeDevice) CreateTexture(*wgpu.TextureDescriptor) (cube_texture.Texture, error) {
	t := &fakeTexture{}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *fakeCubeDevice) CreateSampler(*wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	return nil, nil
}

func (d *fakeCubeDevice) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	d.layouts = append(d.layouts, desc.Label)
	return nil, nil
}

func (d *fakeCubeDevice) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	if d.bindGroupErr != nil {
		return nil, d.bindGroupErr
	}
	d.bindGroups = append(d.bindGroups, desc.Label)
	return nil, nil
}

func (d *fakeCubeDevice) WriteTexture(cube_texture.Texture, uint32, []byte, wgpu.TextureDataLayout, wgpu.Extent3D) error {
	d.writes++
	return nil
}

type bufferRecord struct {
	label string
	usage wgpu.BufferUsage
	size  uint64
}

// fakeBackend records the calls a renderer makes. Every GPU handle it returns is nil.
type fakeBackend struct {
	device *fakeCubeDevice

	calls      []string
	configured [][2]int
	buffers    []bufferRecord
	writes     [][]byte
	pipelines  []pipeline.Pipeline

	presentMode PresentMode
	clearColor  wgpu.Color

	configureErr error
	pipelineErr  error
	beginErr     error
	released     bool
}

var _ RendererBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{device: &fakeCubeDevice{}}
}

func (b *fakeBackend) ConfigureSurface(width, height int) error {
	if b.configureErr != nil {
		return b.configureErr
	}
	b.configured = append(b.configured, [2]int{width, height})
	return nil
}

func (b *fakeBackend) SetPresentMode(mode PresentMode) { b.presentMode = mode }

func (b *fakeBackend) SetClearColor(color wgpu.Color) { b.clearColor = color }

func (b *fakeBackend) Device() cube_texture.Device { return b.device }

func (b *fakeBackend) Queue() cube_texture.Queue { return b.device }

func (b *fakeBackend) CreateBuffer(label string, usage wgpu.BufferUsage, size uint64) (*wgpu.Buffer, error) {
	b.buffers = append(b.buffers, bufferRecord{label: label, usage: usage, size: size})
	return nil, nil
}

func (b *fakeBackend) WriteBuffer(_ *wgpu.Buffer, _ uint64, data []byte) {
	b.writes = append(b.writes, data)
}

func (b *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if b.pipelineErr != nil {
		return b.pipelineErr
	}
	b.pipelines = append(b.pipelines, p)
	return nil
}

func (b *fakeBackend) BeginShadowFrame() error {
	b.calls = append(b.calls, "BeginShadowFrame")
	return nil
}

func (b *fakeBackend) BeginShadowPass(*wgpu.TextureView) {
	b.calls = append(b.calls, "BeginShadowPass")
}

func (b *fakeBackend) EndShadowPass() {
	b.calls = append(b.calls, "EndShadowPass")
}

func (b *fakeBackend) EndShadowFrame() error {
	b.calls = append(b.calls, "EndShadowFrame")
	return nil
}

func (b *fakeBackend) BeginFrame() error {
	b.calls = append(b.calls, "BeginFrame")
	return b.beginErr
}

func (b *fakeBackend) Draw(_ *wgpu.RenderPipeline, bindGroups []*wgpu.BindGroup, vertexCount uint32) {
	b.calls = append(b.calls, fmt.Sprintf("Draw(%d groups, %d vertices)", len(bindGroups), vertexCount))
}

func (b *fakeBackend) EndFrame() error {
	b.calls = append(b.calls, "EndFrame")
	return nil
}

func (b *fakeBackend) Present() {
	b.calls = append(b.calls, "Present")
}

func (b *fakeBackend) Release() {
	b.released = true
}

// fakeWindow is a fixed-size window that counts redraw requests.
type fakeWindow struct {
	width, height int
	redraws       int
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }
func (w *fakeWindow) RequestRedraw() { w.redraws++ }
func (w *fakeWindow) PollEvents(func(window.Event)) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) Close() error { return nil }
