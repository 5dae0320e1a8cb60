//go:build !nogpu

package native

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glxvnd/refcnt"
)

// Default drawable dimensions, matching the software vendor.
const (
	defaultDrawableWidth  = 640
	defaultDrawableHeight = 480
)

// drawableBuffers backs one GLX drawable on the GPU: front and back pixel
// buffers of packed RGBA8 words plus the present shader's config uniform.
//
// Buffers are shared between the vendor's drawable table and any bound
// contexts, so they carry a reference count with the same chaining rule as
// the software vendor's surfaces.
type drawableBuffers struct {
	ref refcnt.Count

	width  uint32
	height uint32

	front  hal.Buffer
	back   hal.Buffer
	config hal.Buffer

	device hal.Device
}

// newDrawableBuffers allocates the GPU storage with one reference, owned
// by the caller.
func newDrawableBuffers(dev *gpuDevice, width, height uint32, label string) (*drawableBuffers, error) {
	d := &drawableBuffers{width: width, height: height, device: dev.device}
	size := d.byteSize()

	var err error
	d.front, err = dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_front",
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create front buffer: %w", err)
	}
	d.back, err = dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_back",
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		d.destroy()
		return nil, fmt.Errorf("native: create back buffer: %w", err)
	}
	d.config, err = dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_config",
		Size:  16,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		d.destroy()
		return nil, fmt.Errorf("native: create config buffer: %w", err)
	}

	d.ref.Init(1)
	return d, nil
}

// pixelCount returns the number of RGBA8 pixel words per buffer.
func (d *drawableBuffers) pixelCount() uint32 {
	return d.width * d.height
}

// byteSize returns the byte size of one pixel buffer.
func (d *drawableBuffers) byteSize() uint64 {
	return uint64(d.pixelCount()) * 4
}

// configBytes encodes the present shader's Config uniform. The struct is
// padded to 16 bytes, the minimum uniform stride.
func (d *drawableBuffers) configBytes() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf, d.pixelCount())
	return buf
}

// destroy releases the GPU buffers. Called by whoever drops the last
// reference; see [retainDrawable].
func (d *drawableBuffers) destroy() {
	if d.front != nil {
		d.device.DestroyBuffer(d.front)
		d.front = nil
	}
	if d.back != nil {
		d.device.DestroyBuffer(d.back)
		d.back = nil
	}
	if d.config != nil {
		d.device.DestroyBuffer(d.config)
		d.config = nil
	}
}

// retainDrawable moves a reference from old to d, destroying old's GPU
// buffers when the moved reference was its last. Either may be nil.
func retainDrawable(old, d *drawableBuffers) {
	var dst, src *refcnt.Count
	if old != nil {
		dst = &old.ref
	}
	if d != nil {
		src = &d.ref
	}
	if refcnt.Update(dst, src) {
		old.destroy()
	}
}
