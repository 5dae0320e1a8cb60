package glxvnd

import (
	"github.com/gogpu/glxvnd/glxproto"
)

// stubVendor is a recording vendor for dispatch tests. Every opcode has a
// handler unless listed in missing; handlers record the opcode and the
// slot they were invoked with, and fail when an error is configured.
type stubVendor struct {
	name    string
	missing map[glxproto.Opcode]bool
	fail    map[glxproto.Opcode]error

	calls    []glxproto.Opcode
	lastSlot *TagSlot
	released []*TagSlot

	initCalled  bool
	closeCalled bool
}

var (
	_ Vendor       = (*stubVendor)(nil)
	_ TagDataOwner = (*stubVendor)(nil)
)

func newStubVendor(name string) *stubVendor {
	return &stubVendor{
		name:    name,
		missing: make(map[glxproto.Opcode]bool),
		fail:    make(map[glxproto.Opcode]error),
	}
}

func (v *stubVendor) Name() string { return v.name }

func (v *stubVendor) Init() error {
	v.initCalled = true
	return nil
}

func (v *stubVendor) Close() { v.closeCalled = true }

func (v *stubVendor) Handler(op glxproto.Opcode) (Handler, bool) {
	if v.missing[op] {
		return nil, false
	}
	return func(call *Call) error {
		v.calls = append(v.calls, op)
		v.lastSlot = call.Slot
		return v.fail[op]
	}, true
}

func (v *stubVendor) ReleaseTagData(slot *TagSlot) {
	v.released = append(v.released, slot)
}

// callCount returns how many times op was dispatched to the vendor.
func (v *stubVendor) callCount(op glxproto.Opcode) int {
	n := 0
	for _, c := range v.calls {
		if c == op {
			n++
		}
	}
	return n
}
