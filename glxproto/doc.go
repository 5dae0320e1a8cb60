// Package glxproto defines the wire-level identifiers of the GLX protocol
// that the dispatch layer routes on: resource IDs, context tags, request
// opcodes, and error codes.
//
// The package is deliberately free of behavior. Requests are decoded and
// replies are encoded by the hosting display server; glxproto only names
// the values both sides must agree on, plus the byte-order primitive
// ([Swap32]) used when a client speaks the opposite endianness.
//
// # Error numbering
//
// X core errors (BadMatch, BadAlloc, ...) have fixed protocol numbers.
// GLX extension errors (GLXBadContext, GLXBadContextTag, ...) are defined
// relative to an error base the server assigns when the extension is
// initialized. [ErrCode] carries both kinds in one space by offsetting the
// GLX codes; [ErrCode.Wire] folds a code back onto the numbering of a
// concrete server given its error base.
package glxproto
