package glxproto

import "fmt"

// ErrCode is a protocol error code. Values below glxErrorOffset are X core
// error numbers and go on the wire unchanged; values at or above it are GLX
// extension errors, defined relative to the error base the hosting server
// assigned to the extension. See [ErrCode.Wire].
type ErrCode uint8

// X core error codes used by the dispatch layer.
const (
	// Success reports no error.
	Success ErrCode = 0

	// BadRequest reports an unknown or malformed request.
	BadRequest ErrCode = 1

	// BadValue reports a numeric argument out of range.
	BadValue ErrCode = 2

	// BadMatch reports an argument combination the protocol forbids, such as
	// binding a context and drawable served by different vendors.
	BadMatch ErrCode = 8

	// BadDrawable reports a drawable XID that names no X drawable.
	BadDrawable ErrCode = 9

	// BadAccess reports an operation the client may not perform.
	BadAccess ErrCode = 10

	// BadAlloc reports a failed server-side allocation.
	BadAlloc ErrCode = 11

	// BadIDChoice reports an XID that is already in use.
	BadIDChoice ErrCode = 14
)

// glxErrorOffset places GLX extension errors above the X core range.
// X core errors stop at 17; 0x80 leaves the gap unambiguous.
const glxErrorOffset ErrCode = 0x80

// GLX extension error codes, offset by glxErrorOffset from their
// base-relative protocol values.
const (
	// GLXBadContext reports a context XID that names no GLX context.
	GLXBadContext ErrCode = glxErrorOffset + 0

	// GLXBadContextState reports a context in the wrong state for the request.
	GLXBadContextState ErrCode = glxErrorOffset + 1

	// GLXBadDrawable reports a drawable XID that names no GLX drawable.
	GLXBadDrawable ErrCode = glxErrorOffset + 2

	// GLXBadPixmap reports a pixmap XID that names no GLX pixmap.
	GLXBadPixmap ErrCode = glxErrorOffset + 3

	// GLXBadContextTag reports a context tag that names no current binding.
	GLXBadContextTag ErrCode = glxErrorOffset + 4

	// GLXBadCurrentWindow reports that the current window was destroyed.
	GLXBadCurrentWindow ErrCode = glxErrorOffset + 5

	// GLXBadRenderRequest reports a malformed Render request.
	GLXBadRenderRequest ErrCode = glxErrorOffset + 6

	// GLXBadLargeRequest reports a malformed RenderLarge sequence.
	GLXBadLargeRequest ErrCode = glxErrorOffset + 7

	// GLXUnsupportedPrivateRequest reports an unsupported vendor sub-opcode.
	GLXUnsupportedPrivateRequest ErrCode = glxErrorOffset + 8

	// GLXBadFBConfig reports an FB config XID that names no configuration.
	GLXBadFBConfig ErrCode = glxErrorOffset + 9

	// GLXBadPbuffer reports a pbuffer XID that names no pbuffer.
	GLXBadPbuffer ErrCode = glxErrorOffset + 10

	// GLXBadCurrentDrawable reports that the current drawable was destroyed.
	GLXBadCurrentDrawable ErrCode = glxErrorOffset + 11

	// GLXBadWindow reports a window XID that names no GLX window.
	GLXBadWindow ErrCode = glxErrorOffset + 12

	// GLXBadProfileARB reports an invalid context profile.
	GLXBadProfileARB ErrCode = glxErrorOffset + 13
)

// errCodeNames maps error codes to their protocol names.
var errCodeNames = map[ErrCode]string{
	Success:                      "Success",
	BadRequest:                   "BadRequest",
	BadValue:                     "BadValue",
	BadMatch:                     "BadMatch",
	BadDrawable:                  "BadDrawable",
	BadAccess:                    "BadAccess",
	BadAlloc:                     "BadAlloc",
	BadIDChoice:                  "BadIDChoice",
	GLXBadContext:                "GLXBadContext",
	GLXBadContextState:           "GLXBadContextState",
	GLXBadDrawable:               "GLXBadDrawable",
	GLXBadPixmap:                 "GLXBadPixmap",
	GLXBadContextTag:             "GLXBadContextTag",
	GLXBadCurrentWindow:          "GLXBadCurrentWindow",
	GLXBadRenderRequest:          "GLXBadRenderRequest",
	GLXBadLargeRequest:           "GLXBadLargeRequest",
	GLXUnsupportedPrivateRequest: "GLXUnsupportedPrivateRequest",
	GLXBadFBConfig:               "GLXBadFBConfig",
	GLXBadPbuffer:                "GLXBadPbuffer",
	GLXBadCurrentDrawable:        "GLXBadCurrentDrawable",
	GLXBadWindow:                 "GLXBadWindow",
	GLXBadProfileARB:             "GLXBadProfileARB",
}

// IsGLX reports whether the code is a GLX extension error, numbered relative
// to the extension's error base.
func (e ErrCode) IsGLX() bool {
	return e >= glxErrorOffset
}

// Wire returns the protocol error number for a server whose GLX extension
// was assigned errorBase. X core codes pass through unchanged.
func (e ErrCode) Wire(errorBase uint8) uint8 {
	if e.IsGLX() {
		return errorBase + uint8(e-glxErrorOffset)
	}
	return uint8(e)
}

// String returns the protocol name of the code, or "ErrCode(n)" for values
// outside the known set.
func (e ErrCode) String() string {
	if name, ok := errCodeNames[e]; ok {
		return name
	}
	return fmt.Sprintf("ErrCode(%d)", uint8(e))
}
