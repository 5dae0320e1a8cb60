package glxproto

import "fmt"

// Opcode is a GLX minor request opcode. The X request header carries the
// extension's major opcode; the first data byte selects one of these.
type Opcode uint8

// GLX minor opcodes.
const (
	// OpRender carries a batch of rendering commands for the current context.
	OpRender Opcode = 1

	// OpRenderLarge carries one rendering command split across requests.
	OpRenderLarge Opcode = 2

	// OpCreateContext creates a context for a visual.
	OpCreateContext Opcode = 3

	// OpDestroyContext destroys a context.
	OpDestroyContext Opcode = 4

	// OpMakeCurrent binds a context and drawable to the connection.
	OpMakeCurrent Opcode = 5

	// OpIsDirect asks whether a context is direct-rendering.
	OpIsDirect Opcode = 6

	// OpQueryVersion negotiates the GLX protocol version.
	OpQueryVersion Opcode = 7

	// OpWaitGL blocks X rendering until GL rendering completes.
	OpWaitGL Opcode = 8

	// OpWaitX blocks GL rendering until X rendering completes.
	OpWaitX Opcode = 9

	// OpCopyContext copies state between two contexts.
	OpCopyContext Opcode = 10

	// OpSwapBuffers exchanges the front and back buffers of a drawable.
	OpSwapBuffers Opcode = 11

	// OpUseXFont builds display lists from an X font.
	OpUseXFont Opcode = 12

	// OpCreateGLXPixmap binds GLX rendering state to an X pixmap (GLX 1.2).
	OpCreateGLXPixmap Opcode = 13

	// OpGetVisualConfigs lists the GLX-capable visuals of a screen.
	OpGetVisualConfigs Opcode = 14

	// OpDestroyGLXPixmap destroys a GLX 1.2 pixmap.
	OpDestroyGLXPixmap Opcode = 15

	// OpVendorPrivate carries a vendor extension request with no reply.
	OpVendorPrivate Opcode = 16

	// OpVendorPrivateWithReply carries a vendor extension request that replies.
	OpVendorPrivateWithReply Opcode = 17

	// OpQueryExtensionsString returns the server's GLX extension string.
	OpQueryExtensionsString Opcode = 18

	// OpQueryServerString returns a server string (vendor, version, ...).
	OpQueryServerString Opcode = 19

	// OpClientInfo declares the client's GL version and extensions.
	OpClientInfo Opcode = 20

	// OpGetFBConfigs lists the framebuffer configurations of a screen.
	OpGetFBConfigs Opcode = 21

	// OpCreatePixmap binds GLX rendering state to an X pixmap (GLX 1.3).
	OpCreatePixmap Opcode = 22

	// OpDestroyPixmap destroys a GLX 1.3 pixmap.
	OpDestroyPixmap Opcode = 23

	// OpCreateNewContext creates a context for an FB config.
	OpCreateNewContext Opcode = 24

	// OpQueryContext returns the attributes of a context.
	OpQueryContext Opcode = 25

	// OpMakeContextCurrent binds a context with separate draw and read
	// drawables (GLX 1.3).
	OpMakeContextCurrent Opcode = 26

	// OpCreatePbuffer creates an off-screen pbuffer drawable.
	OpCreatePbuffer Opcode = 27

	// OpDestroyPbuffer destroys a pbuffer.
	OpDestroyPbuffer Opcode = 28

	// OpGetDrawableAttributes returns the attributes of a drawable.
	OpGetDrawableAttributes Opcode = 29

	// OpChangeDrawableAttributes changes the attributes of a drawable.
	OpChangeDrawableAttributes Opcode = 30

	// OpCreateWindow binds GLX rendering state to an X window.
	OpCreateWindow Opcode = 31

	// OpDestroyWindow destroys a GLX window.
	OpDestroyWindow Opcode = 32

	// OpSetClientInfoARB declares client GL versions with profile support.
	OpSetClientInfoARB Opcode = 33

	// OpCreateContextAttribsARB creates a context from an attribute list.
	OpCreateContextAttribsARB Opcode = 34

	// OpSetClientInfo2ARB declares client GL versions with profile and
	// robustness support.
	OpSetClientInfo2ARB Opcode = 35
)

// opcodeNames maps known minor opcodes to their protocol names.
var opcodeNames = map[Opcode]string{
	OpRender:                   "Render",
	OpRenderLarge:              "RenderLarge",
	OpCreateContext:            "CreateContext",
	OpDestroyContext:           "DestroyContext",
	OpMakeCurrent:              "MakeCurrent",
	OpIsDirect:                 "IsDirect",
	OpQueryVersion:             "QueryVersion",
	OpWaitGL:                   "WaitGL",
	OpWaitX:                    "WaitX",
	OpCopyContext:              "CopyContext",
	OpSwapBuffers:              "SwapBuffers",
	OpUseXFont:                 "UseXFont",
	OpCreateGLXPixmap:          "CreateGLXPixmap",
	OpGetVisualConfigs:         "GetVisualConfigs",
	OpDestroyGLXPixmap:         "DestroyGLXPixmap",
	OpVendorPrivate:            "VendorPrivate",
	OpVendorPrivateWithReply:   "VendorPrivateWithReply",
	OpQueryExtensionsString:    "QueryExtensionsString",
	OpQueryServerString:        "QueryServerString",
	OpClientInfo:               "ClientInfo",
	OpGetFBConfigs:             "GetFBConfigs",
	OpCreatePixmap:             "CreatePixmap",
	OpDestroyPixmap:            "DestroyPixmap",
	OpCreateNewContext:         "CreateNewContext",
	OpQueryContext:             "QueryContext",
	OpMakeContextCurrent:       "MakeContextCurrent",
	OpCreatePbuffer:            "CreatePbuffer",
	OpDestroyPbuffer:           "DestroyPbuffer",
	OpGetDrawableAttributes:    "GetDrawableAttributes",
	OpChangeDrawableAttributes: "ChangeDrawableAttributes",
	OpCreateWindow:             "CreateWindow",
	OpDestroyWindow:            "DestroyWindow",
	OpSetClientInfoARB:         "SetClientInfoARB",
	OpCreateContextAttribsARB:  "CreateContextAttribsARB",
	OpSetClientInfo2ARB:        "SetClientInfo2ARB",
}

// String returns the protocol name of the opcode, or "Opcode(n)" for values
// outside the known set.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

// VendorOp is the 32-bit sub-opcode of a VendorPrivate or
// VendorPrivateWithReply request. Most vendor operations are opaque to the
// dispatch layer; the ones below change how the request is routed.
type VendorOp uint32

// Vendor sub-opcodes with routing significance.
const (
	// VendorOpQueryContextInfoEXT queries a context by XID (EXT_import_context).
	VendorOpQueryContextInfoEXT VendorOp = 1024

	// VendorOpSwapIntervalSGI sets the swap interval of the current context.
	VendorOpSwapIntervalSGI VendorOp = 65536

	// VendorOpMakeCurrentReadSGI binds a context with separate draw and read
	// drawables (SGI_make_current_read).
	VendorOpMakeCurrentReadSGI VendorOp = 65537

	// VendorOpGetFBConfigsSGIX lists FB configs of a screen (SGIX_fbconfig).
	VendorOpGetFBConfigsSGIX VendorOp = 65540

	// VendorOpCreateContextWithConfigSGIX creates a context for an FB config.
	VendorOpCreateContextWithConfigSGIX VendorOp = 65541

	// VendorOpCreateGLXPixmapWithConfigSGIX binds rendering state to a pixmap
	// for an FB config.
	VendorOpCreateGLXPixmapWithConfigSGIX VendorOp = 65542

	// VendorOpCreateGLXPbufferSGIX creates a pbuffer (SGIX_pbuffer).
	VendorOpCreateGLXPbufferSGIX VendorOp = 65543

	// VendorOpDestroyGLXPbufferSGIX destroys an SGIX pbuffer.
	VendorOpDestroyGLXPbufferSGIX VendorOp = 65544

	// VendorOpChangeDrawableAttributesSGIX changes SGIX drawable attributes.
	VendorOpChangeDrawableAttributesSGIX VendorOp = 65545

	// VendorOpGetDrawableAttributesSGIX returns SGIX drawable attributes.
	VendorOpGetDrawableAttributesSGIX VendorOp = 65546
)
