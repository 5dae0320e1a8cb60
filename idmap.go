package glxvnd

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/glxvnd/glxproto"
)

const (
	// xidShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	xidShardCount = 16

	// xidShardMask is used for fast shard selection.
	xidShardMask = xidShardCount - 1
)

// xidMap is the process-wide XID to vendor table. Every dispatch reads it;
// it is mutated only when resources are created or destroyed, so it is
// sharded with per-shard RWMutexes to keep concurrent lookups cheap.
//
// Unlike a cache, entries never expire: a binding lives until the resource
// is destroyed or the server is reset.
type xidMap struct {
	shards [xidShardCount]xidShard

	// Statistics (atomic for zero-allocation reads).
	hits   atomic.Uint64
	misses atomic.Uint64
}

// xidShard is a single shard of the table.
type xidShard struct {
	mu      sync.RWMutex
	entries map[glxproto.XID]Vendor
}

// newXIDMap creates an empty XID table.
func newXIDMap() *xidMap {
	m := &xidMap{}
	for i := range m.shards {
		m.shards[i].entries = make(map[glxproto.XID]Vendor)
	}
	return m
}

// shard returns the shard for an XID. XIDs are dense per-client ranges, so
// the low bits alone spread them well; no extra hashing is needed.
func (m *xidMap) shard(xid glxproto.XID) *xidShard {
	return &m.shards[uint32(xid)&xidShardMask]
}

// get returns the vendor bound to xid.
func (m *xidMap) get(xid glxproto.XID) (Vendor, bool) {
	shard := m.shard(xid)

	shard.mu.RLock()
	v, ok := shard.entries[xid]
	shard.mu.RUnlock()

	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return v, ok
}

// set binds xid to v, replacing any prior binding.
func (m *xidMap) set(xid glxproto.XID, v Vendor) {
	shard := m.shard(xid)

	shard.mu.Lock()
	shard.entries[xid] = v
	shard.mu.Unlock()
}

// delete removes the binding for xid. Returns false if none existed.
func (m *xidMap) delete(xid glxproto.XID) bool {
	shard := m.shard(xid)

	shard.mu.Lock()
	_, ok := shard.entries[xid]
	if ok {
		delete(shard.entries, xid)
	}
	shard.mu.Unlock()
	return ok
}

// clear removes all bindings.
func (m *xidMap) clear() {
	for i := range m.shards {
		shard := &m.shards[i]
		shard.mu.Lock()
		shard.entries = make(map[glxproto.XID]Vendor)
		shard.mu.Unlock()
	}
}

// len returns the total number of bindings across all shards.
func (m *xidMap) len() int {
	total := 0
	for i := range m.shards {
		shard := &m.shards[i]
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}
