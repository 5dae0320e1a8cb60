// Command vndinfo probes the registered GLX vendors and reports which one
// the dispatch layer would negotiate on this machine.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/glxvnd"
	"github.com/gogpu/glxvnd/backend"
	_ "github.com/gogpu/glxvnd/backend/gogpu"
	_ "github.com/gogpu/glxvnd/backend/native"
	"github.com/gogpu/glxvnd/glxproto"
)

func main() {
	var (
		vendorName = flag.String("vendor", "", "probe a specific vendor instead of negotiating")
		smoke      = flag.Bool("smoke", false, "run a context lifecycle through the dispatcher")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		glxvnd.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	fmt.Printf("registered vendors: %v\n", backend.Available())

	var (
		v   glxvnd.Vendor
		err error
	)
	if *vendorName != "" {
		v = backend.Get(*vendorName)
		if v == nil {
			log.Fatalf("vendor %q is not registered", *vendorName)
		}
		err = v.Init()
	} else {
		v, err = backend.InitDefault()
	}
	if err != nil {
		log.Fatalf("vendor init failed: %v", err)
	}
	defer v.Close()

	fmt.Printf("active vendor: %s\n", v.Name())
	if nv, ok := v.(interface{ AdapterName() string }); ok {
		fmt.Printf("adapter: %s\n", nv.AdapterName())
	}

	if *smoke {
		if err := runSmoke(v); err != nil {
			log.Fatalf("smoke test failed: %v", err)
		}
		fmt.Println("smoke test passed")
	}
}

// runSmoke drives one context through create, bind, render, swap and
// destroy on the given vendor.
func runSmoke(v glxvnd.Vendor) error {
	srv := glxvnd.NewServer()
	if err := srv.SetScreenVendor(0, v); err != nil {
		return err
	}
	c := &glxvnd.Client{ID: 1}

	reqs := []*glxvnd.Request{
		{Op: glxproto.OpCreateContext, Context: 0x10, Screen: 0},
		{Op: glxproto.OpCreateWindow, Drawable: 0x20, Screen: 0},
		{Op: glxproto.OpMakeCurrent, Context: 0x10, Drawable: 0x20},
	}
	for _, req := range reqs {
		if err := srv.Dispatch(c, req); err != nil {
			return fmt.Errorf("op %d: %w", req.Op, err)
		}
	}

	slot, ok := srv.LookupContextTag(c, 1)
	if !ok {
		return fmt.Errorf("no context tag after MakeCurrent")
	}

	reqs = []*glxvnd.Request{
		{Op: glxproto.OpRender, Tag: slot.Tag(), Data: make([]byte, 256)},
		{Op: glxproto.OpSwapBuffers, Drawable: 0x20},
		{Op: glxproto.OpMakeCurrent, Tag: slot.Tag(), Context: glxproto.None},
		{Op: glxproto.OpDestroyContext, Context: 0x10},
		{Op: glxproto.OpDestroyWindow, Drawable: 0x20},
	}
	for _, req := range reqs {
		if err := srv.Dispatch(c, req); err != nil {
			return fmt.Errorf("op %d: %w", req.Op, err)
		}
	}

	stats := srv.Stats()
	fmt.Printf("lookups: %d hits, %d misses\n", stats.ResourceHits, stats.ResourceMisses)
	return nil
}
