package glxvnd

import (
	"github.com/gogpu/glxvnd/glxproto"
)

// dispatchFunc resolves the vendor for one request and forwards it.
type dispatchFunc func(s *Server, c *Client, req *Request) error

// buildDispatchTable builds the opcode routing table once per Server.
//
// QueryVersion, ClientInfo, SetClientInfoARB, and SetClientInfo2ARB are
// absent deliberately: the hosting server answers or absorbs them itself,
// they never reach a vendor. Pushed through Dispatch anyway they fall out
// as BadRequest like any other unroutable opcode.
func buildDispatchTable() map[glxproto.Opcode]dispatchFunc {
	t := make(map[glxproto.Opcode]dispatchFunc)

	// Context creators: screen-routed, bind the context XID on success.
	for _, op := range []glxproto.Opcode{
		glxproto.OpCreateContext,
		glxproto.OpCreateNewContext,
		glxproto.OpCreateContextAttribsARB,
	} {
		t[op] = dispatchCreateContext
	}

	t[glxproto.OpDestroyContext] = dispatchDestroyContext

	t[glxproto.OpMakeCurrent] = dispatchMakeCurrent
	t[glxproto.OpMakeContextCurrent] = dispatchMakeCurrent

	// Drawable creators: screen-routed, bind the drawable XID on success.
	for _, op := range []glxproto.Opcode{
		glxproto.OpCreateGLXPixmap,
		glxproto.OpCreatePixmap,
		glxproto.OpCreateWindow,
		glxproto.OpCreatePbuffer,
	} {
		t[op] = dispatchCreateDrawable
	}

	for _, op := range []glxproto.Opcode{
		glxproto.OpDestroyGLXPixmap,
		glxproto.OpDestroyPixmap,
		glxproto.OpDestroyWindow,
		glxproto.OpDestroyPbuffer,
	} {
		t[op] = dispatchDestroyDrawable
	}

	// Drawable operations: XID-routed with a tag fallback.
	for _, op := range []glxproto.Opcode{
		glxproto.OpSwapBuffers,
		glxproto.OpGetDrawableAttributes,
		glxproto.OpChangeDrawableAttributes,
	} {
		t[op] = dispatchDrawable
	}

	// Tag-routed operations on the current context.
	for _, op := range []glxproto.Opcode{
		glxproto.OpRender,
		glxproto.OpRenderLarge,
		glxproto.OpIsDirect,
		glxproto.OpQueryContext,
		glxproto.OpCopyContext,
		glxproto.OpWaitGL,
		glxproto.OpWaitX,
		glxproto.OpUseXFont,
	} {
		t[op] = dispatchTagged
	}

	t[glxproto.OpVendorPrivate] = dispatchVendorPrivate
	t[glxproto.OpVendorPrivateWithReply] = dispatchVendorPrivate

	// Screen-routed queries.
	for _, op := range []glxproto.Opcode{
		glxproto.OpQueryExtensionsString,
		glxproto.OpQueryServerString,
		glxproto.OpGetVisualConfigs,
		glxproto.OpGetFBConfigs,
	} {
		t[op] = dispatchScreen
	}

	return t
}

// Dispatch routes one decoded request to the vendor that owns it and
// invokes that vendor's handler for the request's opcode. Each request is
// resolved and handled in full before Dispatch returns; nothing is spawned
// or retained.
//
// Resolution order: the request's context tag when it carries one, else
// the context or drawable XID, else the screen. A request no vendor can be
// resolved for is a protocol error, never a crash, and never routes to an
// arbitrary vendor; the next request dispatches normally.
//
// The handler's outcome is returned verbatim. Dispatch adds protocol
// errors only for its own failures: unresolved vendor, unknown opcode,
// missing handler, bad tag.
func (s *Server) Dispatch(c *Client, req *Request) error {
	fn, ok := s.table[req.Op]
	if !ok {
		// Vendor extensions can route by tag without the mux knowing
		// the opcode.
		if req.Tag != glxproto.TagNone {
			return dispatchTagged(s, c, req)
		}
		return protocolError(glxproto.BadRequest, uint32(req.Op), ErrUnknownOpcode)
	}
	return fn(s, c, req)
}

// forward invokes v's handler for the request, turning a missing handler
// into a protocol error.
func (s *Server) forward(v Vendor, c *Client, req *Request, slot *TagSlot) error {
	h, ok := v.Handler(req.Op)
	if !ok {
		Logger().Warn("glxvnd: vendor has no handler",
			"vendor", v.Name(), "opcode", req.Op)
		return protocolError(glxproto.BadRequest, uint32(req.Op), ErrNoHandler)
	}
	Logger().Debug("glxvnd: dispatching",
		"client", c.ID, "opcode", req.Op, "vendor", v.Name())
	return h(&Call{Client: c, Request: req, Slot: slot})
}

func dispatchCreateContext(s *Server, c *Client, req *Request) error {
	v, ok := s.VendorForScreen(c, req.Screen)
	if !ok {
		return noVendorFor(glxproto.BadValue, uint32(req.Screen))
	}
	if _, exists := s.ResourceVendor(req.Context); exists {
		return protocolError(glxproto.BadIDChoice, uint32(req.Context), ErrIDInUse)
	}
	if err := s.forward(v, c, req, nil); err != nil {
		return err
	}
	s.resources.set(req.Context, v)
	return nil
}

func dispatchDestroyContext(s *Server, c *Client, req *Request) error {
	v, ok := s.ResourceVendor(req.Context)
	if !ok {
		return noVendorFor(glxproto.GLXBadContext, uint32(req.Context))
	}
	if err := s.forward(v, c, req, nil); err != nil {
		return err
	}
	// Destroying a context does not release tags bound to it: a context
	// can stay current after destruction until unbound, so tags live
	// until MakeCurrent releases them or the client disconnects.
	s.resources.delete(req.Context)
	return nil
}

// dispatchMakeCurrent handles the MakeCurrent family, the one place where
// tags are created and retired. The old binding is named by req.Tag, the
// new one by req.Context; either may be absent.
func dispatchMakeCurrent(s *Server, c *Client, req *Request) error {
	var oldSlot *TagSlot
	if req.Tag != glxproto.TagNone {
		var ok bool
		oldSlot, ok = s.LookupContextTag(c, req.Tag)
		if !ok {
			return badContextTag(req.Tag)
		}
	}

	var newVendor Vendor
	if req.Context != glxproto.None {
		var ok bool
		newVendor, ok = s.ResourceVendor(req.Context)
		if !ok {
			return noVendorFor(glxproto.GLXBadContext, uint32(req.Context))
		}
	}

	switch {
	case oldSlot == nil && newVendor == nil:
		// Nothing was current and nothing becomes current.
		return nil

	case newVendor == nil:
		// Unbind: the old binding's vendor sees the request, then the
		// slot is retired.
		if err := s.forward(oldSlot.vendor, c, req, oldSlot); err != nil {
			return err
		}
		s.FreeContextTag(oldSlot)
		return nil

	default:
		if oldSlot != nil && oldSlot.vendor != newVendor {
			return protocolError(glxproto.BadMatch, uint32(req.Context), ErrVendorMismatch)
		}

		newSlot, err := s.AllocContextTag(c, newVendor)
		if err != nil {
			return err
		}
		if err := s.forward(newVendor, c, req, newSlot); err != nil {
			s.FreeContextTag(newSlot)
			return err
		}
		newSlot.context = req.Context
		newSlot.draw = req.Drawable
		newSlot.read = req.ReadDrawable
		if newSlot.read == glxproto.None {
			newSlot.read = req.Drawable
		}
		if oldSlot != nil {
			s.FreeContextTag(oldSlot)
		}
		return nil
	}
}

func dispatchCreateDrawable(s *Server, c *Client, req *Request) error {
	v, ok := s.VendorForScreen(c, req.Screen)
	if !ok {
		return noVendorFor(glxproto.BadValue, uint32(req.Screen))
	}
	if _, exists := s.ResourceVendor(req.Drawable); exists {
		return protocolError(glxproto.BadIDChoice, uint32(req.Drawable), ErrIDInUse)
	}
	if err := s.forward(v, c, req, nil); err != nil {
		return err
	}
	s.resources.set(req.Drawable, v)
	return nil
}

func dispatchDestroyDrawable(s *Server, c *Client, req *Request) error {
	v, ok := s.ResourceVendor(req.Drawable)
	if !ok {
		return noVendorFor(glxproto.GLXBadDrawable, uint32(req.Drawable))
	}
	if err := s.forward(v, c, req, nil); err != nil {
		return err
	}
	s.resources.delete(req.Drawable)
	return nil
}

// dispatchDrawable routes operations on an existing drawable. The drawable
// XID decides; a request whose drawable is unknown but that carries a tag
// falls back to the tag's binding.
func dispatchDrawable(s *Server, c *Client, req *Request) error {
	if v, ok := s.ResourceVendor(req.Drawable); ok {
		return s.forward(v, c, req, nil)
	}
	if req.Tag != glxproto.TagNone {
		if slot, ok := s.LookupContextTag(c, req.Tag); ok {
			return s.forward(slot.vendor, c, req, slot)
		}
	}
	return noVendorFor(glxproto.GLXBadDrawable, uint32(req.Drawable))
}

// dispatchTagged routes operations on the current context through its tag.
func dispatchTagged(s *Server, c *Client, req *Request) error {
	slot, ok := s.LookupContextTag(c, req.Tag)
	if !ok {
		return badContextTag(req.Tag)
	}
	return s.forward(slot.vendor, c, req, slot)
}

// dispatchVendorPrivate routes VendorPrivate and VendorPrivateWithReply.
// Most sub-opcodes are opaque and follow the tag; MakeCurrentReadSGI is
// the MakeCurrent family in vendor-private clothing and routes through the
// full tag lifecycle.
func dispatchVendorPrivate(s *Server, c *Client, req *Request) error {
	if req.VendorOp == glxproto.VendorOpMakeCurrentReadSGI {
		return dispatchMakeCurrent(s, c, req)
	}
	if req.Tag != glxproto.TagNone {
		return dispatchTagged(s, c, req)
	}
	return protocolError(glxproto.GLXUnsupportedPrivateRequest,
		uint32(req.VendorOp), ErrNoVendor)
}

func dispatchScreen(s *Server, c *Client, req *Request) error {
	v, ok := s.VendorForScreen(c, req.Screen)
	if !ok {
		return noVendorFor(glxproto.BadValue, uint32(req.Screen))
	}
	return s.forward(v, c, req, nil)
}
