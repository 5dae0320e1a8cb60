package backend

import (
	"errors"
)

// Common vendor errors.
var (
	// ErrVendorNotAvailable is returned when a requested vendor is not available.
	ErrVendorNotAvailable = errors.New("backend: vendor not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: vendor not initialized")
)

// Vendor name constants.
const (
	// VendorSoftware is the name of the CPU-based software vendor.
	VendorSoftware = "software"
	// VendorNative is the name of the Pure Go GPU vendor (gogpu/wgpu).
	VendorNative = "native"
	// VendorGoGPU is the name of the vendor built on the gogpu framework.
	VendorGoGPU = "gogpu"
)
