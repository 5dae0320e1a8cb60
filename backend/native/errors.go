//go:build !nogpu

package native

import "errors"

// Package errors for the native vendor.
var (
	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("native: vendor not initialized")

	// ErrNoGPU is returned when no usable Vulkan adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrUnknownContext is returned for a context XID the vendor never saw.
	ErrUnknownContext = errors.New("native: unknown context")

	// ErrUnknownDrawable is returned for a drawable XID the vendor never saw.
	ErrUnknownDrawable = errors.New("native: unknown drawable")
)
