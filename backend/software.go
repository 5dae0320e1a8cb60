package backend

import (
	"sync"

	"github.com/gogpu/glxvnd"
	"github.com/gogpu/glxvnd/glxproto"
)

// SoftwareVendor is a CPU-only GLX vendor. It backs every drawable with a
// double-buffered RGBA [Surface] and treats rendering commands as opaque
// byte streams it accepts and counts. It exists to guarantee that vendor
// negotiation always has a working fallback, and it doubles as the
// reference implementation of the vendor handler contract.
type SoftwareVendor struct {
	mu          sync.Mutex
	initialized bool

	contexts  map[glxproto.XID]*softwareContext
	drawables map[glxproto.XID]*Surface
	handlers  map[glxproto.Opcode]glxvnd.Handler
}

// softwareContext is the vendor-private data stashed in a tag slot while
// the context is current.
type softwareContext struct {
	id      glxproto.XID
	surface *Surface // current draw surface, referenced

	// renderedBytes counts Render payload accepted on this context.
	renderedBytes int
}

var (
	_ glxvnd.Vendor       = (*SoftwareVendor)(nil)
	_ glxvnd.TagDataOwner = (*SoftwareVendor)(nil)
)

// init registers the software vendor on package import.
func init() {
	Register(VendorSoftware, func() glxvnd.Vendor {
		return NewSoftwareVendor()
	})
}

// NewSoftwareVendor creates a new software vendor.
func NewSoftwareVendor() *SoftwareVendor {
	return &SoftwareVendor{}
}

// Name returns the vendor identifier.
func (v *SoftwareVendor) Name() string {
	return VendorSoftware
}

// Init prepares the vendor for dispatch. It never fails: the software
// vendor has no device to probe.
func (v *SoftwareVendor) Init() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		return nil
	}
	v.contexts = make(map[glxproto.XID]*softwareContext)
	v.drawables = make(map[glxproto.XID]*Surface)
	v.handlers = v.buildHandlers()
	v.initialized = true
	return nil
}

// Close releases every context and surface the vendor still holds.
func (v *SoftwareVendor) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, ctx := range v.contexts {
		retain(ctx.surface, nil)
		ctx.surface = nil
	}
	for _, s := range v.drawables {
		retain(s, nil)
	}
	v.contexts = nil
	v.drawables = nil
	v.handlers = nil
	v.initialized = false
}

// Handler returns the handler for a GLX minor opcode.
func (v *SoftwareVendor) Handler(op glxproto.Opcode) (glxvnd.Handler, bool) {
	v.mu.Lock()
	h, ok := v.handlers[op]
	v.mu.Unlock()
	return h, ok
}

// ReleaseTagData drops the per-binding data when a client disconnects with
// the context still current: the context's surface reference is released
// and the slot's pointer cleared. The context object itself lives in the
// context table until DestroyContext.
func (v *SoftwareVendor) ReleaseTagData(slot *glxvnd.TagSlot) {
	ctx, ok := slot.Private().(*softwareContext)
	if !ok {
		return
	}
	v.mu.Lock()
	retain(ctx.surface, nil)
	ctx.surface = nil
	v.mu.Unlock()
	slot.SetPrivate(nil)
}

// Surface returns the CPU surface backing a drawable, for hosts that
// present it (e.g. blit the front buffer into an X window).
func (v *SoftwareVendor) Surface(drawable glxproto.XID) (*Surface, bool) {
	v.mu.Lock()
	s, ok := v.drawables[drawable]
	v.mu.Unlock()
	return s, ok
}

// ResizeDrawable resizes a drawable's front buffer, typically when the
// host's window changed size. The next SwapBuffers scales across the
// mismatch.
func (v *SoftwareVendor) ResizeDrawable(drawable glxproto.XID, width, height int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	s, ok := v.drawables[drawable]
	if !ok || width <= 0 || height <= 0 {
		return false
	}
	s.resize(width, height)
	return true
}

func (v *SoftwareVendor) buildHandlers() map[glxproto.Opcode]glxvnd.Handler {
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

	// Queries and synchronization the software vendor answers trivially.
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

func (v *SoftwareVendor) ok(*glxvnd.Call) error { return nil }

func (v *SoftwareVendor) createContext(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.contexts[call.Request.Context] = &softwareContext{id: call.Request.Context}
	return nil
}

func (v *SoftwareVendor) destroyContext(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx, ok := v.contexts[call.Request.Context]
	if !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadContext,
			Value: uint32(call.Request.Context),
			Err:   glxvnd.ErrNoVendor,
		}
	}
	retain(ctx.surface, nil)
	ctx.surface = nil
	delete(v.contexts, call.Request.Context)
	return nil
}

// makeCurrent binds or unbinds a context. On a bind the dispatcher hands
// the freshly allocated slot in call.Slot; the context becomes the slot's
// private data and takes a reference on the draw surface. On an unbind
// (Context is None) the slot being retired arrives instead, and the
// binding's surface reference is dropped.
func (v *SoftwareVendor) makeCurrent(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	req := call.Request
	if req.Context == glxproto.None {
		if ctx, ok := call.Slot.Private().(*softwareContext); ok {
			retain(ctx.surface, nil)
			ctx.surface = nil
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

	if s, ok := v.drawables[req.Drawable]; ok {
		retain(ctx.surface, s)
		ctx.surface = s
	}
	call.Slot.SetPrivate(ctx)
	return nil
}

func (v *SoftwareVendor) createDrawable(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.drawables[call.Request.Drawable] = newSurface(defaultSurfaceWidth, defaultSurfaceHeight)
	return nil
}

func (v *SoftwareVendor) destroyDrawable(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	s, ok := v.drawables[call.Request.Drawable]
	if !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadDrawable,
			Value: uint32(call.Request.Drawable),
			Err:   glxvnd.ErrNoVendor,
		}
	}
	delete(v.drawables, call.Request.Drawable)
	// Contexts still bound to the surface keep it alive; the buffers go
	// away with the last reference.
	retain(s, nil)
	return nil
}

func (v *SoftwareVendor) swapBuffers(call *glxvnd.Call) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	s, ok := v.drawables[call.Request.Drawable]
	if !ok {
		return &glxvnd.ProtocolError{
			Code:  glxproto.GLXBadDrawable,
			Value: uint32(call.Request.Drawable),
			Err:   glxvnd.ErrNoVendor,
		}
	}
	s.swap()
	return nil
}

// render accepts a batch of rendering commands. The software vendor does
// not interpret the GL command stream; it accounts for it on the current
// context so hosts can observe activity.
func (v *SoftwareVendor) render(call *glxvnd.Call) error {
	if ctx, ok := call.Slot.Private().(*softwareContext); ok {
		v.mu.Lock()
		ctx.renderedBytes += len(call.Request.Data)
		v.mu.Unlock()
	}
	return nil
}

func (v *SoftwareVendor) vendorPrivate(call *glxvnd.Call) error {
	if call.Request.VendorOp == glxproto.VendorOpMakeCurrentReadSGI {
		return v.makeCurrent(call)
	}
	// Opaque sub-opcodes are accepted; the software vendor has no vendor
	// extensions of its own.
	return nil
}
