// Package backend provides a pluggable GLX vendor registry.
//
// The backend package lets a hosting display server support multiple GPU
// vendor implementations and pick one per screen at negotiation time. The
// software vendor lives in this package and is always available; GPU
// vendors register themselves from their own packages.
//
// # Vendor Registration
//
// Vendors are registered via init() functions and selected at runtime.
// The software vendor is automatically registered on import:
//
//	import _ "github.com/gogpu/glxvnd/backend"
//
// GPU vendors are opt-in:
//
//	import _ "github.com/gogpu/glxvnd/backend/native" // gogpu/wgpu HAL
//	import _ "github.com/gogpu/glxvnd/backend/gogpu"  // gogpu framework
//
// # Vendor Selection
//
// Use Default() to get the best available vendor, or Get() to request a
// specific vendor by name:
//
//	v, err := backend.InitDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//	srv.SetScreenVendor(0, v)
//
// # Available Vendors
//
//   - "software": CPU surfaces, always available
//   - "native": Pure Go GPU vendor on gogpu/wgpu (needs a Vulkan adapter)
//   - "gogpu": vendor on the gogpu framework, can share a host GPU device
package backend
