package gogpu

import "errors"

var (
	// ErrNoGPUBackend is returned when no gogpu GPU backend is available.
	ErrNoGPUBackend = errors.New("gogpu: no GPU backend available")

	// ErrDeviceCreationFailed is returned when the logical device cannot
	// be created on the selected adapter.
	ErrDeviceCreationFailed = errors.New("gogpu: device creation failed")

	// ErrNotInitialized is returned when the vendor is used before Init.
	ErrNotInitialized = errors.New("gogpu: vendor not initialized")
)
