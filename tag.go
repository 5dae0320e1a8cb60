package glxvnd

import (
	"sync"

	"github.com/gogpu/glxvnd/glxproto"
)

const (
	// initialTagCapacity is the starting size of a client's slot array.
	// Most clients never bind more than a couple of contexts at once.
	initialTagCapacity = 16

	// maxTagsPerClient bounds the slot array so a misbehaving client
	// cannot grow it without limit. Hitting the bound is an allocation
	// failure, reported as BadAlloc, not a crash.
	maxTagsPerClient = 1 << 16
)

// TagSlot is one live context tag binding: the (client, vendor, context,
// draw, read) tuple a tag stands for, plus whatever per-binding data the
// owning vendor stashed in it.
//
// Slots are owned by their client's state and are valid only until the tag
// is freed or the client disconnects. Tag values are unique among a
// client's live slots, not globally; a slot always carries its owner so a
// numerically equal tag from another client can never resolve to it.
type TagSlot struct {
	tag     glxproto.ContextTag
	client  *Client
	vendor  Vendor
	private any

	context glxproto.XID
	draw    glxproto.XID
	read    glxproto.XID
}

// Tag returns the slot's tag value.
func (s *TagSlot) Tag() glxproto.ContextTag { return s.tag }

// Client returns the connection that owns the slot.
func (s *TagSlot) Client() *Client { return s.client }

// Vendor returns the vendor the slot's binding belongs to.
func (s *TagSlot) Vendor() Vendor { return s.vendor }

// Context returns the XID of the bound context.
func (s *TagSlot) Context() glxproto.XID { return s.context }

// Drawable returns the XID of the bound draw drawable.
func (s *TagSlot) Drawable() glxproto.XID { return s.draw }

// ReadDrawable returns the XID of the bound read drawable.
func (s *TagSlot) ReadDrawable() glxproto.XID { return s.read }

// Private returns the vendor-private data stored in the slot, or nil.
// The dispatch layer never inspects it.
func (s *TagSlot) Private() any { return s.private }

// SetPrivate stores vendor-private data in the slot. The data is owned by
// the vendor: freeing it before the slot is released is the vendor's
// responsibility, and the dispatch layer never touches it.
func (s *TagSlot) SetPrivate(data any) { s.private = data }

// clientData is the per-client dispatch state, created lazily on first use
// and destroyed in full at disconnect.
//
// slots is an arena indexed by tag-1: slot i holds tag i+1, so tag 0 stays
// the protocol's "no tag" value. Freed entries are nil and are found again
// by linear scan, keeping tag values dense and small the way the request
// field expects. Growth doubles the array.
type clientData struct {
	mu    sync.Mutex
	slots []*TagSlot
}

// allocTag creates a new slot bound to v and returns it. The tag value is
// the lowest one not currently live on this client.
func (d *clientData) allocTag(c *Client, v Vendor) (*TagSlot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, s := range d.slots {
		if s == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		if len(d.slots) >= maxTagsPerClient {
			return nil, protocolError(glxproto.BadAlloc, 0, ErrTableFull)
		}
		if cap(d.slots) == len(d.slots) {
			newCap := cap(d.slots) * 2
			if newCap == 0 {
				newCap = initialTagCapacity
			}
			grown := make([]*TagSlot, len(d.slots), newCap)
			copy(grown, d.slots)
			d.slots = grown
		}
		idx = len(d.slots)
		d.slots = d.slots[:idx+1]
	}

	slot := &TagSlot{
		tag:    glxproto.ContextTag(idx + 1),
		client: c,
		vendor: v,
	}
	d.slots[idx] = slot
	return slot, nil
}

// lookupTag returns the live slot for tag, if any.
func (d *clientData) lookupTag(tag glxproto.ContextTag) (*TagSlot, bool) {
	if tag == glxproto.TagNone {
		return nil, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	idx := int(tag) - 1
	if idx < 0 || idx >= len(d.slots) || d.slots[idx] == nil {
		return nil, false
	}
	return d.slots[idx], true
}

// freeTag releases the slot so its tag value can be reused. The slot's
// private data is left untouched.
func (d *clientData) freeTag(slot *TagSlot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := int(slot.tag) - 1
	if idx >= 0 && idx < len(d.slots) && d.slots[idx] == slot {
		d.slots[idx] = nil
	}
}

// liveSlots returns the client's live slots, for disconnect teardown.
func (d *clientData) liveSlots() []*TagSlot {
	d.mu.Lock()
	defer d.mu.Unlock()

	var live []*TagSlot
	for _, s := range d.slots {
		if s != nil {
			live = append(live, s)
		}
	}
	return live
}

// AllocContextTag creates a context tag slot for client c bound to vendor
// v. The returned slot's tag is unique among c's currently live tags; tag
// values are dense and reused after release. Client state is created
// lazily if c has none yet.
func (s *Server) AllocContextTag(c *Client, v Vendor) (*TagSlot, error) {
	if v == nil {
		return nil, protocolError(glxproto.BadMatch, 0, ErrNilVendor)
	}
	slot, err := s.clientData(c).allocTag(c, v)
	if err != nil {
		return nil, err
	}
	Logger().Debug("glxvnd: context tag allocated",
		"client", c.ID, "tag", slot.tag, "vendor", v.Name())
	return slot, nil
}

// LookupContextTag resolves a tag to c's live slot for it. Tags are
// client-scoped: a tag minted for another client never resolves here, even
// when numerically equal.
func (s *Server) LookupContextTag(c *Client, tag glxproto.ContextTag) (*TagSlot, bool) {
	d, ok := s.peekClientData(c)
	if !ok {
		return nil, false
	}
	return d.lookupTag(tag)
}

// FreeContextTag releases a slot, making its tag value available for reuse
// on the owning client. Vendor-private data stored in the slot is the
// vendor's to free first; FreeContextTag never inspects it. Freeing an
// already-freed slot is a no-op.
func (s *Server) FreeContextTag(slot *TagSlot) {
	if slot == nil {
		return
	}
	d, ok := s.peekClientData(slot.client)
	if !ok {
		return
	}
	d.freeTag(slot)
	Logger().Debug("glxvnd: context tag freed",
		"client", slot.client.ID, "tag", slot.tag)
}

// SetTagPrivate stores vendor-private data in c's slot for tag. It is the
// path vendors without direct slot access use; vendors holding a *TagSlot
// can call [TagSlot.SetPrivate] directly.
func (s *Server) SetTagPrivate(c *Client, tag glxproto.ContextTag, data any) error {
	slot, ok := s.LookupContextTag(c, tag)
	if !ok {
		return badContextTag(tag)
	}
	slot.SetPrivate(data)
	return nil
}

// TagPrivate returns the vendor-private data stored in c's slot for tag.
func (s *Server) TagPrivate(c *Client, tag glxproto.ContextTag) (any, bool) {
	slot, ok := s.LookupContextTag(c, tag)
	if !ok {
		return nil, false
	}
	return slot.Private(), true
}
