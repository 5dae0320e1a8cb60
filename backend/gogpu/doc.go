// Package gogpu implements a GLX vendor on top of the gogpu framework's
// gpu.Backend abstraction, which selects between the Rust (wgpu-native)
// and Pure Go WebGPU implementations at runtime.
//
// The vendor owns its GPU device by default, created through the standard
// gogpu chain (instance, adapter, device, queue). A host that already
// holds a device can instead share it with [Vendor.SetDeviceProvider]
// before Init, in which case the vendor never opens hardware of its own.
package gogpu
