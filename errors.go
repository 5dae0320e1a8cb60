package glxvnd

import (
	"errors"
	"fmt"

	"github.com/gogpu/glxvnd/glxproto"
)

// Dispatch layer errors. All of them are request-level: the dispatcher
// reports them to the caller and keeps serving subsequent requests.
var (
	// ErrNoVendor is returned when no vendor could be resolved for a
	// request's tag, XID, or screen.
	ErrNoVendor = errors.New("glxvnd: no vendor resolved")

	// ErrUnknownOpcode is returned for an opcode outside the routing table
	// when the request carries no context tag to fall back on.
	ErrUnknownOpcode = errors.New("glxvnd: unknown opcode")

	// ErrNoHandler is returned when the resolved vendor has no handler for
	// the request's opcode.
	ErrNoHandler = errors.New("glxvnd: vendor has no handler for opcode")

	// ErrBadContextTag is returned when a tag names no live slot on the
	// requesting client's connection.
	ErrBadContextTag = errors.New("glxvnd: bad context tag")

	// ErrIDInUse is returned when a create request names an XID that is
	// already bound to a vendor.
	ErrIDInUse = errors.New("glxvnd: resource ID already in use")

	// ErrVendorMismatch is returned when a request combines resources
	// served by different vendors.
	ErrVendorMismatch = errors.New("glxvnd: resources belong to different vendors")

	// ErrTableFull is returned when a backing table or slot allocation
	// could not be satisfied.
	ErrTableFull = errors.New("glxvnd: table allocation failed")

	// ErrNilVendor is returned when a nil vendor is passed to a binding
	// operation.
	ErrNilVendor = errors.New("glxvnd: nil vendor")
)

// ProtocolError is a request-level failure carrying the protocol error code
// the hosting server should report to the client. It wraps one of the
// package sentinel errors, so errors.Is works through it:
//
//	if errors.Is(err, glxvnd.ErrNoVendor) { ... }
//
// Value is the offending XID or tag, when the error concerns one.
type ProtocolError struct {
	// Code is the X or GLX error code to put on the wire.
	Code glxproto.ErrCode

	// Value is the resource ID or tag the error refers to, or zero.
	Value uint32

	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Value != 0 {
		return fmt.Sprintf("%v (%s, value 0x%x)", e.Err, e.Code, e.Value)
	}
	return fmt.Sprintf("%v (%s)", e.Err, e.Code)
}

// Unwrap returns the sentinel error the ProtocolError wraps.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// protocolError builds a ProtocolError around a sentinel.
func protocolError(code glxproto.ErrCode, value uint32, err error) *ProtocolError {
	return &ProtocolError{Code: code, Value: value, Err: err}
}

func badContextTag(tag glxproto.ContextTag) *ProtocolError {
	return protocolError(glxproto.GLXBadContextTag, uint32(tag), ErrBadContextTag)
}

func noVendorFor(code glxproto.ErrCode, value uint32) *ProtocolError {
	return protocolError(code, value, ErrNoVendor)
}
