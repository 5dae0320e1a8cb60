package glxvnd

import (
	"sync"
	"testing"

	"github.com/gogpu/glxvnd/glxproto"
)

func TestBindResourceLookup(t *testing.T) {
	s := NewServer()
	vendorA := newStubVendor("a")
	vendorB := newStubVendor("b")

	if err := s.BindResource(0x100, vendorA); err != nil {
		t.Fatalf("BindResource: %v", err)
	}

	v, ok := s.ResourceVendor(0x100)
	if !ok || v != vendorA {
		t.Fatalf("ResourceVendor(0x100) = %v, %v; want vendorA, true", v, ok)
	}

	// Re-insertion replaces, not merges.
	if err := s.BindResource(0x100, vendorB); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if v, _ := s.ResourceVendor(0x100); v != vendorB {
		t.Errorf("after rebind, ResourceVendor(0x100) = %v; want vendorB", v)
	}
}

func TestBindResourceNilVendor(t *testing.T) {
	s := NewServer()
	if err := s.BindResource(0x100, nil); err != ErrNilVendor {
		t.Fatalf("BindResource(nil) = %v; want ErrNilVendor", err)
	}
}

func TestUnbindResource(t *testing.T) {
	s := NewServer()
	vendorA := newStubVendor("a")

	if err := s.BindResource(0x200, vendorA); err != nil {
		t.Fatalf("BindResource: %v", err)
	}
	s.UnbindResource(0x200)

	if _, ok := s.ResourceVendor(0x200); ok {
		t.Error("ResourceVendor after unbind: want not-found")
	}

	// Unbinding an absent XID is a no-op, not an error.
	s.UnbindResource(0x200)
	s.UnbindResource(0xdead)
}

func TestResourceStats(t *testing.T) {
	s := NewServer()
	vendorA := newStubVendor("a")

	for xid := glxproto.XID(1); xid <= 40; xid++ {
		if err := s.BindResource(xid, vendorA); err != nil {
			t.Fatalf("BindResource(%d): %v", xid, err)
		}
	}

	stats := s.Stats()
	if stats.Resources != 40 {
		t.Errorf("Stats.Resources = %d; want 40", stats.Resources)
	}

	s.ResourceVendor(7)     // hit
	s.ResourceVendor(99999) // miss

	stats = s.Stats()
	if stats.ResourceHits == 0 {
		t.Error("Stats.ResourceHits = 0; want > 0")
	}
	if stats.ResourceMisses == 0 {
		t.Error("Stats.ResourceMisses = 0; want > 0")
	}
}

func TestResourceMapConcurrent(t *testing.T) {
	s := NewServer()
	vendorA := newStubVendor("a")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(base glxproto.XID) {
			defer wg.Done()
			for i := glxproto.XID(0); i < 200; i++ {
				xid := base*1000 + i
				_ = s.BindResource(xid, vendorA)
				if v, ok := s.ResourceVendor(xid); !ok || v != vendorA {
					t.Errorf("ResourceVendor(%d) lost binding", xid)
					return
				}
				s.UnbindResource(xid)
			}
		}(glxproto.XID(g))
	}
	wg.Wait()

	if got := s.Stats().Resources; got != 0 {
		t.Errorf("Stats.Resources = %d after teardown; want 0", got)
	}
}
