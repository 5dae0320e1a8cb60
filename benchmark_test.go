package glxvnd

import (
	"testing"

	"github.com/gogpu/glxvnd/glxproto"
)

func BenchmarkResourceLookup(b *testing.B) {
	s := NewServer()
	v := newStubVendor("a")
	for xid := glxproto.XID(1); xid <= 1024; xid++ {
		if err := s.BindResource(xid, v); err != nil {
			b.Fatalf("BindResource: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ResourceVendor(glxproto.XID(i%1024) + 1)
	}
}

func BenchmarkResourceLookupParallel(b *testing.B) {
	s := NewServer()
	v := newStubVendor("a")
	for xid := glxproto.XID(1); xid <= 1024; xid++ {
		if err := s.BindResource(xid, v); err != nil {
			b.Fatalf("BindResource: %v", err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		xid := glxproto.XID(1)
		for pb.Next() {
			s.ResourceVendor(xid%1024 + 1)
			xid++
		}
	})
}

func BenchmarkDispatchTagged(b *testing.B) {
	s := NewServer()
	v := newStubVendor("a")
	if err := s.SetScreenVendor(0, v); err != nil {
		b.Fatalf("SetScreenVendor: %v", err)
	}
	client := &Client{ID: 1}
	if err := s.Dispatch(client, &Request{
		Op: glxproto.OpCreateContext, Context: 0x400001, Screen: 0,
	}); err != nil {
		b.Fatalf("create: %v", err)
	}
	if err := s.Dispatch(client, &Request{
		Op: glxproto.OpMakeCurrent, Context: 0x400001,
	}); err != nil {
		b.Fatalf("bind: %v", err)
	}

	req := &Request{Op: glxproto.OpRender, Tag: 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.calls = v.calls[:0]
		if err := s.Dispatch(client, req); err != nil {
			b.Fatalf("Dispatch: %v", err)
		}
	}
}

func BenchmarkContextTagAllocFree(b *testing.B) {
	s := NewServer()
	v := newStubVendor("a")
	client := &Client{ID: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		slot, err := s.AllocContextTag(client, v)
		if err != nil {
			b.Fatalf("alloc: %v", err)
		}
		s.FreeContextTag(slot)
	}
}
