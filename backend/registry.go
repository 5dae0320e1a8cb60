package backend

import (
	"sync"

	"github.com/gogpu/glxvnd"
)

// Factory creates a new vendor instance.
type Factory func() glxvnd.Vendor

// registry holds registered vendors.
var (
	registryMu sync.RWMutex
	vendors    = make(map[string]Factory)
	// Priority order for vendor selection (first available wins).
	// Native > GoGPU > Software (software is the universal fallback).
	vendorPriority = []string{VendorNative, VendorGoGPU, VendorSoftware}
)

// Register registers a vendor factory with the given name.
// This is typically called from init() functions in vendor packages.
// If a vendor with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	vendors[name] = factory
}

// Unregister removes a vendor from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(vendors, name)
}

// Available returns a list of registered vendor names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(vendors))
	for name := range vendors {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a vendor with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := vendors[name]
	return ok
}

// Get returns a vendor instance by name.
// Returns nil if the vendor is not registered.
func Get(name string) glxvnd.Vendor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := vendors[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available vendor based on priority.
// Returns nil if no vendors are registered.
func Default() glxvnd.Vendor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range vendorPriority {
		if factory, ok := vendors[name]; ok {
			v := factory()
			if v != nil {
				return v
			}
		}
	}

	// Fallback: return first available
	for _, factory := range vendors {
		if v := factory(); v != nil {
			return v
		}
	}

	return nil
}

// MustDefault returns the default vendor or panics.
func MustDefault() glxvnd.Vendor {
	v := Default()
	if v == nil {
		panic("backend: no vendor available")
	}
	return v
}

// InitDefault initializes the best vendor that actually comes up. Vendors
// are tried in priority order; one whose Init fails (e.g. a GPU vendor on
// a machine without an adapter) is skipped, so the software vendor serves
// as the last resort.
func InitDefault() (glxvnd.Vendor, error) {
	registryMu.RLock()
	factories := make([]Factory, 0, len(vendorPriority))
	for _, name := range vendorPriority {
		if factory, ok := vendors[name]; ok {
			factories = append(factories, factory)
		}
	}
	registryMu.RUnlock()

	var firstErr error
	for _, factory := range factories {
		v := factory()
		if v == nil {
			continue
		}
		if err := v.Init(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			glxvnd.Logger().Warn("backend: vendor unavailable",
				"vendor", v.Name(), "error", err)
			continue
		}
		return v, nil
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrVendorNotAvailable
}
