package cube_texture

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// WGPUDevice adapts a wgpu device and queue to the Device and Queue interfaces.
type WGPUDevice struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

// wgpuTexture adapts a *wgpu.Texture to the Texture interface.
type wgpuTexture struct {
	texture *wgpu.Texture
}

var (
	_ Device  = &WGPUDevice{}
	_ Queue   = &WGPUDevice{}
	_ Texture = &wgpuTexture{}
)

// NewWGPUDevice wraps a wgpu device and its queue. The returned value implements both Device and Queue.
//
// Parameters:
//   - device: the wgpu device
//   - queue: the device's queue
//
// Returns:
//   - *WGPUDevice: the adapter, usable wherever a Device or Queue is required
func NewWGPUDevice(device *wgpu.Device, queue *wgpu.Queue) *WGPUDevice {
	return &WGPUDevice{device: device, queue: queue}
}

func (d *WGPUDevice) CreateTexture(descriptor *wgpu.TextureDescriptor) (Texture, error) {
	tex, err := d.device.CreateTexture(descriptor)
	if err != nil {
		return nil, err
	}
	return &wgpuTexture{texture: tex}, nil
}

func (d *WGPUDevice) CreateSampler(descriptor *wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	return d.device.CreateSampler(descriptor)
}

func (d *WGPUDevice) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return d.device.CreateBindGroupLayout(descriptor)
}

func (d *WGPUDevice) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return d.device.CreateBindGroup(descriptor)
}

func (d *WGPUDevice) WriteTexture(destination Texture, layer uint32, data []byte, layout wgpu.TextureDataLayout, size wgpu.Extent3D) error {
	tex, ok := destination.(*wgpuTexture)
	if !ok {
		return fmt.Errorf("cannot write to texture of type %T", destination)
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: layer},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&layout,
		&size,
	)
	return nil
}

func (t *wgpuTexture) CreateView(descriptor *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error) {
	return t.texture.CreateView(descriptor)
}

func (t *wgpuTexture) Release() {
	t.texture.Release()
}
