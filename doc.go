// Package glxvnd multiplexes GLX requests across independent GPU vendor
// drivers inside one display server process.
//
// # Overview
//
// glxvnd sits between a display server's GLX protocol decoder and one or
// more vendor back ends. Each decoded request is routed to the vendor that
// owns it: by the context tag the request carries, by the context or
// drawable XID it names, or by the screen it targets. The package owns the
// mappings only; vendors own their contexts, drawables, and devices.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glxvnd"
//	    "github.com/gogpu/glxvnd/backend"
//	)
//
//	srv := glxvnd.NewServer()
//
//	// Negotiate a vendor for screen 0 (here: the best available one).
//	v, err := backend.InitDefault()
//	if err != nil { ... }
//	srv.SetScreenVendor(0, v)
//
//	// Per connection:
//	client := &glxvnd.Client{ID: 7}
//	err = srv.Dispatch(client, &glxvnd.Request{
//	    Op:     glxproto.OpCreateContext,
//	    Screen: 0,
//	    Context: 0x400001,
//	})
//	...
//	srv.OnClientDisconnect(client) // exactly once at teardown
//
// # Architecture
//
// The module is organized into:
//   - Root package: Server, Client, Vendor, dispatch and tag lifecycle
//   - glxproto: protocol identifiers, opcodes, error codes, byte swap
//   - backend: vendor registry plus the CPU software vendor
//   - backend/native, backend/gogpu: GPU vendors on the gogpu stack
//   - refcnt: the reference-count contract vendor resources follow
//
// # Errors
//
// Every failure the dispatch layer originates is request-level: a
// [*ProtocolError] naming the X or GLX error code to report, wrapping a
// package sentinel for errors.Is. Vendor handler errors pass through
// Dispatch unchanged.
package glxvnd
