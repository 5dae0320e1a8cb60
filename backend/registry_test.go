package backend

import (
	"testing"

	"github.com/gogpu/glxvnd"
)

func TestRegistrySoftwareAlwaysAvailable(t *testing.T) {
	if !IsRegistered(VendorSoftware) {
		t.Fatal("software vendor not registered on import")
	}

	v := Get(VendorSoftware)
	if v == nil {
		t.Fatal("Get(software) = nil")
	}
	if v.Name() != VendorSoftware {
		t.Errorf("Name() = %q; want %q", v.Name(), VendorSoftware)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	if v := Get("no-such-vendor"); v != nil {
		t.Errorf("Get(unknown) = %v; want nil", v)
	}
	if IsRegistered("no-such-vendor") {
		t.Error("IsRegistered(unknown) = true")
	}
}

func TestRegistryRegisterUnregister(t *testing.T) {
	name := "test-vendor"
	Register(name, func() glxvnd.Vendor {
		return NewSoftwareVendor()
	})
	defer Unregister(name)

	if !IsRegistered(name) {
		t.Fatal("registered vendor not found")
	}

	found := false
	for _, n := range Available() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v; missing %q", Available(), name)
	}

	Unregister(name)
	if IsRegistered(name) {
		t.Error("vendor still registered after Unregister")
	}
}

func TestRegistryDefault(t *testing.T) {
	v := Default()
	if v == nil {
		t.Fatal("Default() = nil with software registered")
	}
}

func TestInitDefault(t *testing.T) {
	// GPU vendors may be unavailable on the test machine; InitDefault must
	// fall through to software rather than fail.
	v, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault: %v", err)
	}
	defer v.Close()

	if v.Name() == "" {
		t.Error("initialized vendor has no name")
	}
}
