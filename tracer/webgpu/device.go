package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// A GPU resource that must be explicitly released.
type Resource interface {
	Release()
}

// A device-side buffer.
type Buffer interface {
	Resource

	// Allocated size in bytes.
	Size() uint64
}

// Device is the subset of a WebGPU device used for uploading packed scenes
// and loading the traversal shader.
type Device interface {
	Name() string

	// Maximum size of a storage buffer binding; 0 means unlimited.
	MaxStorageBufferSize() uint64

	CreateStorageBuffer(label string, size uint64) (Buffer, error)
	WriteBuffer(buf Buffer, data []byte) error
	CreateShaderModule(label, wgsl string) (Resource, error)
}

type gpuBuffer struct {
	buf  *wgpu.Buffer
	size uint64
}

func (b *gpuBuffer) Size() uint64 { return b.size }
func (b *gpuBuffer) Release()     { b.buf.Release() }

type shaderModule struct {
	module *wgpu.ShaderModule
}

func (s *shaderModule) Release() { s.module.Release() }

// GPUDevice wraps a WebGPU adapter/device/queue triplet.
type GPUDevice struct {
	name     string
	limits   wgpu.Limits
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// Open the default WebGPU device. If forceFallback is set, a software
// adapter is requested.
func OpenDevice(name string, forceFallback bool) (*GPUDevice, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallback,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: %v", ErrAdapterRequest, err)
	}

	limits := wgpu.DefaultLimits()
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: name,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %v", ErrDeviceRequest, err)
	}

	return &GPUDevice{
		name:     name,
		limits:   limits,
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

func (d *GPUDevice) Name() string {
	return d.name
}

func (d *GPUDevice) MaxStorageBufferSize() uint64 {
	return d.limits.MaxStorageBufferBindingSize
}

func (d *GPUDevice) CreateStorageBuffer(label string, size uint64) (Buffer, error) {
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return &gpuBuffer{buf: buf, size: size}, nil
}

func (d *GPUDevice) WriteBuffer(buf Buffer, data []byte) error {
	gb, ok := buf.(*gpuBuffer)
	if !ok {
		return fmt.Errorf("webgpu: buffer %T was not allocated by this device", buf)
	}
	return d.queue.WriteBuffer(gb.buf, 0, data)
}

func (d *GPUDevice) CreateShaderModule(label, wgsl string) (Resource, error) {
	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: wgsl,
		},
	})
	if err != nil {
		return nil, err
	}
	return &shaderModule{module: module}, nil
}

// Release the device and its adapter.
func (d *GPUDevice) Close() {
	d.queue.Release()
	d.device.Release()
	d.adapter.Release()
	d.instance.Release()
}
