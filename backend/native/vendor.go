//go:build !nogpu

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glxvnd"
	"github.com/gogpu/glxvnd/backend"
	"github.com/gogpu/glxvnd/glxproto"
)

// Vendor is the Pure Go GPU vendor. It owns a HAL device (or borrows an
// external one), a table of GPU-backed drawables, and the present
// pipeline.
type Vendor struct {
	mu          sync.Mutex
	initialized bool

	dev     *gpuDevice
	present *presentPipeline

	contexts  map[glxproto.XID]*gpuContext
	drawables map[glxproto.XID]*drawableBuffers
	handlers  map[glxproto.Opcode]glxvnd.Handler
}

// gpuContext is the vendor-private data stashed in a tag slot while the
// context is current.
type gpuContext struct {
	id      glxproto.XID
	current *drawableBuffers // referenced
}

var (
	_ glxvnd.Vendor       = (*Vendor)(nil)
	_ glxvnd.TagDataOwner = (*Vendor)(nil)
)

// init registers the native vendor on package import.
func init() {
	backend.Register(backend.VendorNative, func() glxvnd.Vendor {
		return NewVendor()
	})
}

// NewVendor creates a new native vendor. The vendor must be initialized
// with Init() before use.
func NewVendor() *Vendor {
	return &Vendor{}
}

// Name returns the vendor identifier.
func (v *Vendor) Name() string {
	return backend.VendorNative
}

// UseDevice adopts an externally owned HAL device and queue instead of
// opening a standalone one, so the vendor can share the hosting server's
// GPU. Must be called before Init.
func (v *Vendor) UseDevice(device hal.Device, queue hal.Queue) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		v.dev = adoptDevice(device, queue)
	}
}

// Init opens the GPU device and builds the present pipeline. A missing
// Vulkan adapter fails Init; a failed pipeline build only degrades
// SwapBuffers to a plain buffer copy.
func (v *Vendor) Init() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		return nil
	}

	if v.dev == nil {
		dev, err := openDevice()
		if err != nil {
			return err
		}
		v.dev = dev
	}

	present, err := buildPresentPipeline(v.dev.device)
	if err != nil {
		glxvnd.Logger().Warn("native: present pipeline unavailable, using buffer copy",
			"error", err)
	} else {
		v.present = present
	}

	v.contexts = make(map[glxproto.XID]*gpuContext)
	v.drawables = make(map[glxproto.XID]*drawableBuffers)
	v.handlers = v.buildHandlers()
	v.initialized = true
	return nil
}

// Close releases all contexts, drawables, the pipeline, and the device.
func (v *Vendor) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return
	}

	for _, ctx := range v.contexts {
		retainDrawable(ctx.current, nil)
		ctx.current = nil
	}
	for _, d := range v.drawables {
		retainDrawable(d, nil)
	}
	v.contexts = nil
	v.drawables = nil
	v.handlers = nil

	if v.present != nil {
		v.present.destroy()
		v.present = nil
	}
	if v.dev != nil {
		v.dev.close()
		v.dev = nil
	}
	v.initialized = false
}

// Handler returns the handler for a GLX minor opcode.
func (v *Vendor) Handler(op glxproto.Opcode) (glxvnd.Handler, bool) {
	v.mu.Lock()
	h, ok := v.handlers[op]
	v.mu.Unlock()
	return h, ok
}

// ReleaseTagData drops the binding's drawable reference when a client
// disconnects with the context still current.
func (v *Vendor) ReleaseTagData(slot *glxvnd.TagSlot) {
	ctx, ok := slot.Private().(*gpuContext)
	if !ok {
		return
	}
	v.mu.Lock()
	retainDrawable(ctx.current, nil)
	ctx.current = nil
	v.mu.Unlock()
	slot.SetPrivate(nil)
}

// AdapterName returns the name of the GPU the vendor runs on.
func (v *Vendor) AdapterName() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.dev == nil {
		return ""
	}
	return v.dev.adapterName
}

func (v *Vendor) buildHandlers() map[glxproto.Opcode]glxvnd.Handler {
	h := map[glxproto.Opcode]glxvnd.Handler{
		glxproto.OpDestroyContext: v.destroyContext,

		glxproto.OpMakeCurrent:        v.makeCurrent,
		glxproto.OpMakeContextCurrent: v.makeCurrent,

		glxproto.OpSwapBuffers: v.swapBuffers,

		glxproto.OpRender:      v.render,
		glxproto.OpRenderLarge: v.render,

		glxproto.OpVendorPrivate:          v.vendorPrivate,
		glxproto.OpVendorPrivateWithReply: v.vendorPrivate,
	}

	for _, op := range []glxproto.Opcode{
		glxproto.OpCreateContext,
		glxproto.OpCreateNewContext,
		glxproto.OpCreateContextAttribsARB,
	} {
		h[op] = v.createContext
	}
	for _, op := range []glxproto.Opcode{
		glxproto.OpCreateGLXPixmap,
		glxproto.OpCreatePixmap,
		glxproto.OpCreateWindow,
		glxproto.OpCreatePbuffer,
	} {
		h[op] = v.createDrawable
	}
	for _, op := range []glxproto.Opcode{
		glxproto.OpDestroyGLXPixmap,
		glxproto.OpDestroyPixmap,
		glxproto.OpDestroyWindow,
		glxproto.OpDestroyPbuffer,
	} {
		h[op] = v.destroyDrawable
	}
	for _, op := range []glxproto.Opcode{
		glxproto.OpIsDirect,
		glxproto.OpQueryContext,
		glxproto.OpCopyContext,
		glxproto.OpUseXFont,
		glxproto.OpWaitGL,
		glxproto.OpWaitX,
		glxproto.OpGetDrawableAttributes,
		glxproto.OpChangeDrawableAttributes,
		glxproto.OpQueryExtensionsString,
		glxproto.OpQueryServerString,
		glxproto.OpGetVisualConfigs,
		glxproto.OpGetFBConfigs,
	} {
		h[op] = v.ok
	}

	return h
}

func (v *Vendor) ok(*glxvnd.Call) error { return nil }

func (v *Vendor) createContext(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.contexts[call.Request.Context] = &gpuContext{id: call.Request.Context}
	return nil
}

func (v *Vendor) destroyContext(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx, ok := v.contexts[call.Request.Context]
	if !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadContext,
			Value: uint32(call.Request.Context),
			Err:   ErrUnknownContext,
		}
	}
	retainDrawable(ctx.current, nil)
	ctx.current = nil
	delete(v.contexts, call.Request.Context)
	return nil
}

func (v *Vendor) makeCurrent(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	req := call.Request
	if req.Context == glxproto.None {
		if ctx, ok := call.Slot.Private().(*gpuContext); ok {
			retainDrawable(ctx.current, nil)
			ctx.current = nil
		}
		call.Slot.SetPrivate(nil)
		return nil
	}

	ctx, ok := v.contexts[req.Context]
	if !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadContext,
			Value: uint32(req.Context),
			Err:   ErrUnknownContext,
		}
	}
	if d, ok := v.drawables[req.Drawable]; ok {
		retainDrawable(ctx.current, d)
		ctx.current = d
	}
	call.Slot.SetPrivate(ctx)
	return nil
}

func (v *Vendor) createDrawable(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	label := fmt.Sprintf("glx_drawable_%x", uint32(call.Request.Drawable))
	d, err := newDrawableBuffers(v.dev, defaultDrawableWidth, defaultDrawableHeight, label)
	if err != nil {
		return &glxvnd.ProtocolError{
			Code:  glxproto.BadAlloc,
			Value: uint32(call.Request.Drawable),
			Err:   err,
		}
	}
	v.drawables[call.Request.Drawable] = d
	return nil
}

func (v *Vendor) destroyDrawable(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	d, ok := v.drawables[call.Request.Drawable]
	if !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadDrawable,
			Value: uint32(call.Request.Drawable),
			Err:   ErrUnknownDrawable,
		}
	}
	delete(v.drawables, call.Request.Drawable)
	retainDrawable(d, nil)
	return nil
}

func (v *Vendor) swapBuffers(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	d, ok := v.drawables[call.Request.Drawable]
	if !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadDrawable,
			Value: uint32(call.Request.Drawable),
			Err:   ErrUnknownDrawable,
		}
	}
	if v.present != nil {
		return v.present.present(v.dev, d)
	}
	return copyPresent(v.dev, d)
}

// render accepts a command batch. The stream is uploaded to the current
// drawable's back buffer head so GPU-side consumers can pick it up; full
// GL command decoding belongs to a real driver, not the mux's vendor.
func (v *Vendor) render(call *glxvnd.Call) error {
	ctx, ok := call.Slot.Private().(*gpuContext)
	if !ok || ctx.current == nil || len(call.Request.Data) == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	data := call.Request.Data
	if max := ctx.current.byteSize(); uint64(len(data)) > max {
		data = data[:max]
	}
	v.dev.queue.WriteBuffer(ctx.current.back, 0, data)
	return nil
}

func (v *Vendor) vendorPrivate(call *glxvnd.Call) error {
	if call.Request.VendorOp == glxproto.VendorOpMakeCurrentReadSGI {
		return v.makeCurrent(call)
	}
	return nil
}
