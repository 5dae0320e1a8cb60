package gogpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gogpu/gpu"
	"github.com/gogpu/gogpu/gpu/types"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/glxvnd"
	"github.com/gogpu/glxvnd/glxproto"
)

// Vendor is a GLX vendor backed by the gogpu framework.
//
// Vendor is safe for concurrent use from multiple goroutines.
type Vendor struct {
	mu          sync.Mutex
	initialized bool

	// GPU resources via gogpu, owned when provider is nil.
	gpuBackend gpu.Backend
	instance   types.Instance
	adapter    types.Adapter
	device     types.Device
	queue      types.Queue

	// provider is a host-shared device. When set before Init the vendor
	// skips its own GPU bring-up and renders on the host's device.
	provider gpucontext.DeviceProvider

	contexts  map[glxproto.XID]*gpuContext
	drawables map[glxproto.XID]*gpuDrawable
	handlers  map[glxproto.Opcode]glxvnd.Handler
}

// gpuContext is the vendor-private data stashed in a tag slot while the
// context is current.
type gpuContext struct {
	id       glxproto.XID
	drawable *gpuDrawable

	renderedBytes int
}

// gpuDrawable shadows a host drawable on the vendor side.
type gpuDrawable struct {
	id     glxproto.XID
	width  int
	height int
	swaps  int
}

var (
	_ glxvnd.Vendor       = (*Vendor)(nil)
	_ glxvnd.TagDataOwner = (*Vendor)(nil)
)

// NewVendor creates a new gogpu vendor. The vendor must be initialized
// with Init before use.
func NewVendor() *Vendor {
	return &Vendor{}
}

// Name returns the vendor identifier.
func (v *Vendor) Name() string {
	return backendName
}

// SetDeviceProvider shares the host's GPU device with the vendor. It must
// be called before Init; once initialized the vendor keeps whichever
// device it started with.
func (v *Vendor) SetDeviceProvider(p gpucontext.DeviceProvider) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		return
	}
	v.provider = p
}

// Init initializes the vendor. Without a shared device it runs the full
// gogpu bring-up:
//   - get the active gogpu backend (Rust or Pure Go)
//   - create a WebGPU instance
//   - request a GPU adapter
//   - create a logical device
//   - get the command queue
//
// Returns an error if GPU initialization fails.
func (v *Vendor) Init() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		return nil
	}

	if v.provider == nil {
		if err := v.openDevice(); err != nil {
			return err
		}
	} else {
		glxvnd.Logger().Info("gogpu: using host-shared GPU device")
	}

	v.contexts = make(map[glxproto.XID]*gpuContext)
	v.drawables = make(map[glxproto.XID]*gpuDrawable)
	v.handlers = v.buildHandlers()
	v.initialized = true
	return nil
}

// openDevice creates the vendor-owned GPU resources. Caller holds v.mu.
func (v *Vendor) openDevice() error {
	gpuBackend := gpu.GetBackend()
	if gpuBackend == nil {
		if err := gpu.InitDefaultBackend(); err != nil {
			return fmt.Errorf("%w: %w", ErrNoGPUBackend, err)
		}
		gpuBackend = gpu.GetBackend()
	}
	if gpuBackend == nil {
		return ErrNoGPUBackend
	}

	glxvnd.Logger().Info("gogpu: using GPU backend", "name", gpuBackend.Name())

	instance, err := gpuBackend.CreateInstance()
	if err != nil {
		return fmt.Errorf("instance creation failed: %w", err)
	}

	adapter, err := gpuBackend.RequestAdapter(instance, &types.AdapterOptions{
		PowerPreference: types.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPUBackend, err)
	}

	device, err := gpuBackend.RequestDevice(adapter, &types.DeviceOptions{
		Label: "glxvnd-gogpu-device",
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceCreationFailed, err)
	}

	v.gpuBackend = gpuBackend
	v.instance = instance
	v.adapter = adapter
	v.device = device
	v.queue = gpuBackend.GetQueue(device)
	return nil
}

// Close releases all vendor resources. A host-shared device is left
// untouched.
func (v *Vendor) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return
	}

	// Vendor-owned handles are managed by the gogpu backend and released
	// with it; a shared device stays with the host.
	v.device = 0
	v.adapter = 0
	v.instance = 0
	v.queue = 0
	v.gpuBackend = nil

	v.contexts = nil
	v.drawables = nil
	v.handlers = nil
	v.initialized = false

	glxvnd.Logger().Info("gogpu: vendor closed")
}

// Handler returns the handler for a GLX minor opcode.
func (v *Vendor) Handler(op glxproto.Opcode) (glxvnd.Handler, bool) {
	v.mu.Lock()
	h, ok := v.handlers[op]
	v.mu.Unlock()
	return h, ok
}

// ReleaseTagData drops the per-binding data when a client disconnects
// with the context still current. The context object survives in the
// context table until DestroyContext.
func (v *Vendor) ReleaseTagData(slot *glxvnd.TagSlot) {
	ctx, ok := slot.Private().(*gpuContext)
	if !ok {
		return
	}
	v.mu.Lock()
	ctx.drawable = nil
	v.mu.Unlock()
	slot.SetPrivate(nil)
}

// IsInitialized returns true if the vendor has been initialized.
func (v *Vendor) IsInitialized() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.initialized
}

// Device returns the vendor-owned GPU device handle, or 0 when the
// vendor is uninitialized or running on a shared device.
func (v *Vendor) Device() types.Device {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.device
}

// Queue returns the vendor-owned GPU queue handle, or 0 when the vendor
// is uninitialized or running on a shared device.
func (v *Vendor) Queue() types.Queue {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queue
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
		glxproto.OpWaitGL,
		glxproto.OpWaitX,
		glxproto.OpUseXFont,
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

	if _, ok := v.contexts[call.Request.Context]; !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadContext,
			Value: uint32(call.Request.Context),
			Err:   glxvnd.ErrNoVendor,
		}
	}
	delete(v.contexts, call.Request.Context)
	return nil
}

func (v *Vendor) makeCurrent(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	req := call.Request
	if req.Context == glxproto.None {
		if ctx, ok := call.Slot.Private().(*gpuContext); ok {
			ctx.drawable = nil
		}
		call.Slot.SetPrivate(nil)
		return nil
	}

	ctx, ok := v.contexts[req.Context]
	if !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadContext,
			Value: uint32(req.Context),
			Err:   glxvnd.ErrNoVendor,
		}
	}

	ctx.drawable = v.drawables[req.Drawable]
	call.Slot.SetPrivate(ctx)
	return nil
}

func (v *Vendor) createDrawable(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.drawables[call.Request.Drawable] = &gpuDrawable{
		id:     call.Request.Drawable,
		width:  defaultDrawableWidth,
		height: defaultDrawableHeight,
	}
	return nil
}

func (v *Vendor) destroyDrawable(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.drawables[call.Request.Drawable]; !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadDrawable,
			Value: uint32(call.Request.Drawable),
			Err:   glxvnd.ErrNoVendor,
		}
	}
	delete(v.drawables, call.Request.Drawable)
	return nil
}

func (v *Vendor) swapBuffers(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if d, ok := v.drawables[call.Request.Drawable]; ok {
		d.swaps++
	}
	return nil
}

func (v *Vendor) render(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if ctx, ok := call.Slot.Private().(*gpuContext); ok {
		ctx.renderedBytes += len(call.Request.Data)
	}
	return nil
}

func (v *Vendor) vendorPrivate(call *glxvnd.Call) error {
	if call.Request.VendorOp == glxproto.VendorOpMakeCurrentReadSGI {
		return v.makeCurrent(call)
	}
	return nil
}
