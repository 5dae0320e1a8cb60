package backend

import (
	"image/color"
	"testing"

	"github.com/gogpu/glxvnd"
	"github.com/gogpu/glxvnd/glxproto"
)

// newSoftwareServer wires an initialized software vendor to screen 0.
func newSoftwareServer(t *testing.T) (*glxvnd.Server, *SoftwareVendor) {
	t.Helper()
	v := NewSoftwareVendor()
	if err := v.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(v.Close)

	s := glxvnd.NewServer()
	if err := s.SetScreenVendor(0, v); err != nil {
		t.Fatalf("SetScreenVendor: %v", err)
	}
	return s, v
}

func TestSoftwareContextLifecycle(t *testing.T) {
	s, _ := newSoftwareServer(t)
	client := &glxvnd.Client{ID: 1}

	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpCreateContext, Context: 0x400001, Screen: 0,
	}); err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpCreateWindow, Drawable: 0x500001, Screen: 0,
	}); err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpMakeCurrent, Context: 0x400001, Drawable: 0x500001,
	}); err != nil {
		t.Fatalf("MakeCurrent: %v", err)
	}

	// The slot carries the vendor's context as private data.
	data, ok := s.TagPrivate(client, 1)
	if !ok {
		t.Fatal("no private data on the new tag")
	}
	ctx, ok := data.(*softwareContext)
	if !ok || ctx.id != 0x400001 {
		t.Fatalf("slot private = %#v; want softwareContext 0x400001", data)
	}
	if ctx.surface == nil {
		t.Fatal("bound context has no surface")
	}

	// Render payload is accounted on the current context.
	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpRender, Tag: 1, Data: make([]byte, 96),
	}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if ctx.renderedBytes != 96 {
		t.Errorf("renderedBytes = %d; want 96", ctx.renderedBytes)
	}

	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpMakeCurrent, Tag: 1, Context: glxproto.None,
	}); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if ctx.surface != nil {
		t.Error("unbind left the surface referenced")
	}
	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpDestroyContext, Context: 0x400001,
	}); err != nil {
		t.Fatalf("DestroyContext: %v", err)
	}
}

func TestSoftwareSwapBuffers(t *testing.T) {
	s, v := newSoftwareServer(t)
	client := &glxvnd.Client{ID: 1}

	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpCreatePbuffer, Drawable: 0x500001, Screen: 0,
	}); err != nil {
		t.Fatalf("CreatePbuffer: %v", err)
	}

	surf, ok := v.Surface(0x500001)
	if !ok {
		t.Fatal("no surface for the new drawable")
	}
	if surf.Width() != defaultSurfaceWidth || surf.Height() != defaultSurfaceHeight {
		t.Fatalf("surface %dx%d; want default size", surf.Width(), surf.Height())
	}

	// Paint the back buffer and swap it to the front.
	want := color.RGBA{R: 200, G: 40, B: 10, A: 255}
	surf.Back().SetRGBA(3, 5, want)
	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpSwapBuffers, Drawable: 0x500001,
	}); err != nil {
		t.Fatalf("SwapBuffers: %v", err)
	}
	if got := surf.Front().RGBAAt(3, 5); got != want {
		t.Errorf("front pixel after swap = %v; want %v", got, want)
	}
}

func TestSoftwareSwapBuffersAfterResize(t *testing.T) {
	s, v := newSoftwareServer(t)
	client := &glxvnd.Client{ID: 1}

	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpCreateWindow, Drawable: 0x500001, Screen: 0,
	}); err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if !v.ResizeDrawable(0x500001, 320, 200) {
		t.Fatal("ResizeDrawable failed")
	}

	surf, _ := v.Surface(0x500001)
	// Fill the (still default-sized) back buffer so the scale is visible.
	want := color.RGBA{R: 0, G: 255, B: 0, A: 255}
	for y := 0; y < defaultSurfaceHeight; y++ {
		for x := 0; x < defaultSurfaceWidth; x++ {
			surf.Back().SetRGBA(x, y, want)
		}
	}

	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpSwapBuffers, Drawable: 0x500001,
	}); err != nil {
		t.Fatalf("SwapBuffers: %v", err)
	}

	if got := surf.Front().RGBAAt(160, 100); got != want {
		t.Errorf("scaled front pixel = %v; want %v", got, want)
	}
	// The back buffer catches up to the new size after the swap.
	if b := surf.Back().Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("back buffer %dx%d after swap; want 320x200", b.Dx(), b.Dy())
	}
}

func TestSoftwareSurfaceRefcount(t *testing.T) {
	s, v := newSoftwareServer(t)
	client := &glxvnd.Client{ID: 1}

	for _, req := range []*glxvnd.Request{
		{Op: glxproto.OpCreateContext, Context: 0x400001, Screen: 0},
		{Op: glxproto.OpCreateWindow, Drawable: 0x500001, Screen: 0},
		{Op: glxproto.OpMakeCurrent, Context: 0x400001, Drawable: 0x500001},
	} {
		if err := s.Dispatch(client, req); err != nil {
			t.Fatalf("%v: %v", req.Op, err)
		}
	}

	surf, _ := v.Surface(0x500001)

	// Destroying the drawable while a context is bound keeps the pixel
	// storage alive through the context's reference.
	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpDestroyWindow, Drawable: 0x500001,
	}); err != nil {
		t.Fatalf("DestroyWindow: %v", err)
	}
	if surf.Front() == nil {
		t.Fatal("surface destroyed while a context still references it")
	}

	// Unbinding drops the last reference and chains into the buffers.
	if err := s.Dispatch(client, &glxvnd.Request{
		Op: glxproto.OpMakeCurrent, Tag: 1, Context: glxproto.None,
	}); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if surf.Front() != nil {
		t.Error("surface buffers survive the last reference")
	}
}

func TestSoftwareDisconnectReleasesTagData(t *testing.T) {
	s, v := newSoftwareServer(t)
	client := &glxvnd.Client{ID: 1}

	for _, req := range []*glxvnd.Request{
		{Op: glxproto.OpCreateContext, Context: 0x400001, Screen: 0},
		{Op: glxproto.OpCreateWindow, Drawable: 0x500001, Screen: 0},
		{Op: glxproto.OpMakeCurrent, Context: 0x400001, Drawable: 0x500001},
		{Op: glxproto.OpDestroyWindow, Drawable: 0x500001},
	} {
		if err := s.Dispatch(client, req); err != nil {
			t.Fatalf("%v: %v", req.Op, err)
		}
	}
	surf, _ := v.Surface(0x500001)
	if surf != nil {
		t.Fatal("drawable still in the table after destroy")
	}

	// Disconnect with the context current: the TagDataOwner sweep drops
	// the binding's surface reference, so nothing leaks.
	s.OnClientDisconnect(client)

	v.mu.Lock()
	ctx := v.contexts[0x400001]
	v.mu.Unlock()
	if ctx == nil {
		t.Fatal("context disappeared at disconnect; contexts outlive tags")
	}
	if ctx.surface != nil {
		t.Error("disconnect sweep leaked the surface reference")
	}
}
