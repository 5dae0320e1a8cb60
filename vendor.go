package glxvnd

import (
	"github.com/gogpu/glxvnd/glxproto"
)

// Request is one decoded GLX request as delivered by the hosting display
// server's protocol decoder. All multi-byte fields are in host byte order;
// the decoder has already applied [glxproto.Swap32] for swapped clients.
//
// Only the fields the opcode routes on are meaningful; the rest are zero.
// Data carries the undecoded remainder of the request body and is passed to
// the vendor untouched.
type Request struct {
	// Op is the GLX minor opcode.
	Op glxproto.Opcode

	// VendorOp is the sub-opcode of a VendorPrivate or
	// VendorPrivateWithReply request, zero otherwise.
	VendorOp glxproto.VendorOp

	// Tag is the context tag the request carries, or TagNone.
	Tag glxproto.ContextTag

	// Context is the context XID, or None.
	Context glxproto.XID

	// Drawable is the drawable XID, or None.
	Drawable glxproto.XID

	// ReadDrawable is the read drawable XID for MakeContextCurrent and
	// MakeCurrentReadSGI, or None.
	ReadDrawable glxproto.XID

	// Screen is the screen number for screen-scoped requests.
	Screen int

	// Data is the raw request body after the routed fields.
	Data []byte
}

// Call is what a vendor handler receives for one dispatched request.
//
// A Call is valid only for the duration of the handler invocation. Vendors
// must not retain the Call or its Request past the call; the dispatcher may
// reuse both.
type Call struct {
	// Client is the connection the request arrived on.
	Client *Client

	// Request is the decoded request being dispatched.
	Request *Request

	// Slot is the context tag slot the request resolved through, or nil for
	// requests routed by XID or screen. For a MakeCurrent family request
	// that binds a context, Slot is the freshly allocated slot for the new
	// binding; the vendor may stash per-context data in it with
	// [TagSlot.SetPrivate].
	Slot *TagSlot
}

// Handler processes one dispatched request for a vendor.
//
// A nil return reports success. A returned error is propagated to the
// dispatch caller verbatim; vendors return a [*ProtocolError] for
// request-level protocol failures and any other error for conditions the
// hosting server must treat as fatal to the connection.
type Handler func(*Call) error

// Vendor is one GPU driver back end. The dispatch layer borrows vendor
// references; it never owns them and never calls Init or Close itself.
//
// Vendors are registered per screen with [Server.SetScreenVendor] and become
// reachable by XID or context tag as the dispatcher binds resources to them.
type Vendor interface {
	// Name returns the vendor identifier (e.g. "software", "native").
	Name() string

	// Init prepares the vendor for dispatch. It is called by the host
	// during vendor negotiation, before the vendor is bound to a screen.
	Init() error

	// Close releases all vendor resources. The vendor is not dispatched
	// to after Close.
	Close()

	// Handler returns the handler for a GLX minor opcode, or false when the
	// vendor does not implement it. The dispatcher turns a missing handler
	// into a protocol error, never a crash.
	Handler(op glxproto.Opcode) (Handler, bool)
}

// TagDataOwner is an optional interface a vendor implements when it stores
// per-binding data in tag slots. During client disconnect teardown the
// server calls ReleaseTagData for every live slot owned by the vendor,
// before the slot is destroyed. Vendors that do not implement it are
// responsible for freeing slot data through their own DestroyContext and
// MakeCurrent handling.
type TagDataOwner interface {
	ReleaseTagData(slot *TagSlot)
}
