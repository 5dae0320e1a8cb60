//go:build !nogpu

package native

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/glxvnd"
)

// fenceTimeout bounds how long a present waits for the GPU.
const fenceTimeout = 5 * time.Second

// gpuDevice owns the vendor's HAL handles: instance, device, queue. When
// the device was adopted from an external provider the vendor must not
// destroy it.
type gpuDevice struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool

	adapterName string
}

// openDevice creates a standalone Vulkan device for the vendor. Discrete
// and integrated GPUs are preferred over software rasterizers in the
// adapter list.
func openDevice() (*gpuDevice, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not registered", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoGPU, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", ErrNoGPU, err)
	}

	glxvnd.Logger().Info("native: GPU device opened", "adapter", selected.Info.Name)
	return &gpuDevice{
		instance:    instance,
		device:      openDev.Device,
		queue:       openDev.Queue,
		adapterName: selected.Info.Name,
	}, nil
}

// adoptDevice wraps an externally owned device and queue, e.g. the hosting
// server's own HAL device shared across vendors.
func adoptDevice(device hal.Device, queue hal.Queue) *gpuDevice {
	return &gpuDevice{device: device, queue: queue, external: true}
}

// close releases the device and instance unless they are external.
func (d *gpuDevice) close() {
	if d.external {
		return
	}
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}

// waitIdle blocks until submitted work completed, bounded by fenceTimeout.
func (d *gpuDevice) waitIdle() error {
	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit(nil, fence, 1); err != nil {
		return fmt.Errorf("native: submit fence: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("native: wait: %w", err)
	}
	if !ok {
		return fmt.Errorf("native: GPU timeout")
	}
	return nil
}
