package gogpu

import (
	"github.com/gogpu/glxvnd"
	"github.com/gogpu/glxvnd/backend"
)

// backendName matches the registry identifier for this vendor.
const backendName = backend.VendorGoGPU

// Drawables created before the host reports a size get a conventional
// default, matching the software vendor.
const (
	defaultDrawableWidth  = 640
	defaultDrawableHeight = 480
)

// init registers the gogpu vendor on package import.
func init() {
	backend.Register(backendName, func() glxvnd.Vendor {
		return NewVendor()
	})
}
