// Package refcnt implements the reference-count contract shared resources
// follow: a resource carries an atomic counter, a new reference is taken
// before an old one is dropped, and whoever drops the count to zero owns
// the destruction.
//
// The package supplies only the counter and the update rule. Destruction
// stays with the resource owner: [Update] reports that the displaced
// resource must be destroyed, it never destroys anything itself. Resources
// that hold references to other resources release them from their own
// destroy path, so teardown chains through owners one level at a time.
package refcnt

import "sync/atomic"

// Count is an atomic reference counter, embedded by value in the resource
// it guards. The zero value is unreferenced; call [Count.Init] when the
// resource is created. A Count must not be copied after first use.
type Count struct {
	n atomic.Int32
}

// Init sets the counter to n, normally 1 for a freshly created resource.
// Init is not atomic with respect to concurrent updates; it is for
// initialization only.
func (c *Count) Init(n int32) {
	c.n.Store(n)
}

// Referenced reports whether any references remain.
func (c *Count) Referenced() bool {
	return c.n.Load() != 0
}

// Update moves a reference from dst to src: src gains a reference, then dst
// loses one. It reports whether dst's count reached zero, in which case the
// caller must destroy the resource that carries dst.
//
// Either counter may be nil. Update(nil, src) takes a reference, Update(dst,
// nil) drops one, and Update(c, c) is a no-op. The increment happens before
// the decrement, so moving a reference between counters that guard the same
// resource can never drop it to zero in between.
func Update(dst, src *Count) bool {
	if dst == src {
		return false
	}
	if src != nil {
		src.n.Add(1)
	}
	if dst != nil && dst.n.Add(-1) == 0 {
		return true
	}
	return false
}
