package glxvnd

import (
	"testing"

	"github.com/gogpu/glxvnd/glxproto"
)

func TestSetScreenVendor(t *testing.T) {
	s := NewServer()
	vendorA := newStubVendor("a")
	vendorB := newStubVendor("b")

	if err := s.SetScreenVendor(0, vendorA); err != nil {
		t.Fatalf("SetScreenVendor: %v", err)
	}

	v, ok := s.ScreenVendor(0)
	if !ok || v != vendorA {
		t.Fatalf("ScreenVendor(0) = %v, %v; want vendorA, true", v, ok)
	}
	if _, ok := s.ScreenVendor(1); ok {
		t.Error("ScreenVendor(1): want not-found")
	}

	// Last write wins.
	if err := s.SetScreenVendor(0, vendorB); err != nil {
		t.Fatalf("SetScreenVendor rebind: %v", err)
	}
	if v, _ := s.ScreenVendor(0); v != vendorB {
		t.Errorf("after rebind, ScreenVendor(0) = %v; want vendorB", v)
	}
}

func TestSetScreenVendorInvalid(t *testing.T) {
	s := NewServer()
	vendorA := newStubVendor("a")

	if err := s.SetScreenVendor(0, nil); err != ErrNilVendor {
		t.Errorf("SetScreenVendor(nil) = %v; want ErrNilVendor", err)
	}
	if err := s.SetScreenVendor(-1, vendorA); err == nil {
		t.Error("SetScreenVendor(-1): want error")
	}
}

func TestVendorForScreen(t *testing.T) {
	s := NewServer()
	clientX := &Client{ID: 1}
	vendorA := newStubVendor("a")

	if err := s.SetScreenVendor(0, vendorA); err != nil {
		t.Fatalf("SetScreenVendor: %v", err)
	}

	v, ok := s.VendorForScreen(clientX, 0)
	if !ok || v != vendorA {
		t.Fatalf("VendorForScreen(clientX, 0) = %v, %v; want vendorA, true", v, ok)
	}

	// A client the server has never seen resolves the same way: lazy state
	// creation never blocks the default path.
	if _, ok := s.VendorForScreen(&Client{ID: 99}, 0); !ok {
		t.Error("VendorForScreen for unseen client failed")
	}
}

func TestOnClientDisconnect(t *testing.T) {
	s := NewServer()
	client := &Client{ID: 1}
	vendorA := newStubVendor("a")

	var tags []glxproto.ContextTag
	for i := 0; i < 3; i++ {
		slot, err := s.AllocContextTag(client, vendorA)
		if err != nil {
			t.Fatalf("alloc #%d: %v", i, err)
		}
		tags = append(tags, slot.Tag())
	}

	s.OnClientDisconnect(client)

	for _, tag := range tags {
		if _, ok := s.LookupContextTag(client, tag); ok {
			t.Errorf("tag %d still resolves after disconnect", tag)
		}
	}
	if len(vendorA.released) != 3 {
		t.Errorf("TagDataOwner saw %d slots; want 3", len(vendorA.released))
	}

	// A later allocation starts from a fresh, empty collection.
	slot, err := s.AllocContextTag(client, vendorA)
	if err != nil {
		t.Fatalf("alloc after disconnect: %v", err)
	}
	if slot.Tag() != 1 {
		t.Errorf("first tag after recreate = %d; want 1", slot.Tag())
	}
}

func TestOnClientDisconnectIdempotent(t *testing.T) {
	s := NewServer()
	client := &Client{ID: 1}
	vendorA := newStubVendor("a")

	if _, err := s.AllocContextTag(client, vendorA); err != nil {
		t.Fatalf("alloc: %v", err)
	}

	s.OnClientDisconnect(client)
	released := len(vendorA.released)

	// Duplicate disconnect notifications are tolerated.
	s.OnClientDisconnect(client)
	if len(vendorA.released) != released {
		t.Error("second disconnect released slots again")
	}

	// A client with no state at all tears down to nothing.
	s.OnClientDisconnect(&Client{ID: 2})
}

func TestReset(t *testing.T) {
	s := NewServer()
	client := &Client{ID: 1}
	vendorA := newStubVendor("a")

	if err := s.SetScreenVendor(0, vendorA); err != nil {
		t.Fatalf("SetScreenVendor: %v", err)
	}
	if err := s.BindResource(0x100, vendorA); err != nil {
		t.Fatalf("BindResource: %v", err)
	}
	slot, err := s.AllocContextTag(client, vendorA)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	s.Reset()

	if _, ok := s.ScreenVendor(0); ok {
		t.Error("screen vendor survived Reset")
	}
	if _, ok := s.ResourceVendor(0x100); ok {
		t.Error("resource binding survived Reset")
	}
	if _, ok := s.LookupContextTag(client, slot.Tag()); ok {
		t.Error("tag slot survived Reset")
	}
	if len(vendorA.released) != 1 {
		t.Errorf("TagDataOwner saw %d slots during Reset; want 1", len(vendorA.released))
	}

	// The Server is reusable afterwards.
	if err := s.SetScreenVendor(0, vendorA); err != nil {
		t.Fatalf("SetScreenVendor after Reset: %v", err)
	}
	if _, err := s.AllocContextTag(client, vendorA); err != nil {
		t.Fatalf("alloc after Reset: %v", err)
	}
}

func TestCheckSwap(t *testing.T) {
	swapped := &Client{ID: 1, Swapped: true}
	plain := &Client{ID: 2}

	if got := CheckSwap(plain, 0x12345678); got != 0x12345678 {
		t.Errorf("CheckSwap(plain) = %#x; want identity", got)
	}
	if got := CheckSwap(swapped, 0x12345678); got != 0x78563412 {
		t.Errorf("CheckSwap(swapped) = %#x; want 0x78563412", got)
	}
	if got := CheckSwap(nil, 0x12345678); got != 0x12345678 {
		t.Errorf("CheckSwap(nil client) = %#x; want identity", got)
	}

	// Swap32 is an involution; CheckSwap on a swapped client inherits it.
	v := uint32(0xdeadbeef)
	if got := CheckSwap(swapped, CheckSwap(swapped, v)); got != v {
		t.Errorf("double swap = %#x; want %#x", got, v)
	}
}
