// Package native implements a Pure Go GPU vendor on gogpu/wgpu's HAL.
//
// The vendor opens its own Vulkan device, backs each GLX drawable with a
// pair of GPU storage buffers (front and back), and presents SwapBuffers
// through a small compute shader compiled from WGSL to SPIR-V with
// gogpu/naga. When the present pipeline cannot be built the vendor falls
// back to a plain GPU buffer copy.
//
// Importing the package registers the vendor as "native":
//
//	import _ "github.com/gogpu/glxvnd/backend/native"
//
// Init fails cleanly on machines without a Vulkan adapter; hosts using
// backend.InitDefault fall through to the software vendor.
package native
