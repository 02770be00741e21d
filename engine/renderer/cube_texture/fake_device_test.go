package cube_texture

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// fakeDevice records every descriptor it is handed. GPU handles are returned as nil pointers.
type fakeDevice struct {
	mu sync.Mutex

	textures   []*fakeTexture
	samplers   []wgpu.SamplerDescriptor
	layouts    []wgpu.BindGroupLayoutDescriptor
	bindGroups []wgpu.BindGroupDescriptor
	writes     []textureWrite

	textureErr   error
	samplerErr   error
	bindGroupErr error
	writeErr     error
	viewErr      error
}

type fakeTexture struct {
	descriptor wgpu.TextureDescriptor
	views      []wgpu.TextureViewDescriptor
	viewErr    error
	released   bool
}

type textureWrite struct {
	texture *fakeTexture
	layer   uint32
	data    []byte
	layout  wgpu.TextureDataLayout
	size    wgpu.Extent3D
}

var (
	_ Device  = &fakeDevice{}
	_ Queue   = &fakeDevice{}
	_ Texture = &fakeTexture{}
)

func (d *fakeDevice) CreateTexture(descriptor *wgpu.TextureDescriptor) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.textureErr != nil {
		return nil, d.textureErr
	}
	tex := &fakeTexture{descriptor: *descriptor, viewErr: d.viewErr}
	d.textures = append(d.textures, tex)
	return tex, nil
}

func (d *fakeDevice) CreateSampler(descriptor *wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.samplerErr != nil {
		return nil, d.samplerErr
	}
	d.samplers = append(d.samplers, *descriptor)
	return nil, nil
}

func (d *fakeDevice) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layouts = append(d.layouts, *descriptor)
	return nil, nil
}

func (d *fakeDevice) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bindGroupErr != nil {
		return nil, d.bindGroupErr
	}
	d.bindGroups = append(d.bindGroups, *descriptor)
	return nil, nil
}

func (d *fakeDevice) WriteTexture(destination Texture, layer uint32, data []byte, layout wgpu.TextureDataLayout, size wgpu.Extent3D) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return d.writeErr
	}
	d.writes = append(d.writes, textureWrite{
		texture: destination.(*fakeTexture),
		layer:   layer,
		data:    data,
		layout:  layout,
		size:    size,
	})
	return nil
}

func (t *fakeTexture) CreateView(descriptor *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	if t.viewErr != nil {
		return nil, t.viewErr
	}
	t.views = append(t.views, *descriptor)
	return nil, nil
}

func (t *fakeTexture) Release() {
	t.released = true
}
