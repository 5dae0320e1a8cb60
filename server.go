package glxvnd

import (
	"sync"

	"github.com/gogpu/glxvnd/glxproto"
)

// Server is one instance of the vendor-neutral dispatch layer. It owns the
// mapping structures only: the XID to vendor table, the screen to vendor
// table, and per-client tag slot state. Vendor objects and GPU resources
// stay owned by their vendors; the Server merely routes to them.
//
// The zero value is not usable; call [NewServer]. A hosting display server
// normally creates exactly one Server, but independent instances are fully
// isolated, so tests can run many side by side.
//
// All Server methods are safe for concurrent use. The internal locking is
// a superset of what a globally serialized host needs; a host that already
// serializes request processing pays only uncontended lock costs.
type Server struct {
	resources *xidMap

	mu      sync.RWMutex
	screens map[int]Vendor
	clients map[*Client]*clientData

	table map[glxproto.Opcode]dispatchFunc
}

// NewServer creates an empty dispatch layer with its routing table built.
func NewServer() *Server {
	s := &Server{
		resources: newXIDMap(),
		screens:   make(map[int]Vendor),
		clients:   make(map[*Client]*clientData),
	}
	s.table = buildDispatchTable()
	return s
}

// BindResource registers that xid is served by v. Any prior binding for
// xid is replaced, not merged. The dispatcher binds context and drawable
// XIDs itself as create requests succeed; hosts call BindResource directly
// for resources created outside the GLX request stream.
func (s *Server) BindResource(xid glxproto.XID, v Vendor) error {
	if v == nil {
		return ErrNilVendor
	}
	s.resources.set(xid, v)
	return nil
}

// ResourceVendor returns the vendor bound to xid.
func (s *Server) ResourceVendor(xid glxproto.XID) (Vendor, bool) {
	return s.resources.get(xid)
}

// UnbindResource removes the binding for xid. Unbinding an unknown XID is
// a no-op, not an error: destroy paths race benignly with teardown.
func (s *Server) UnbindResource(xid glxproto.XID) {
	s.resources.delete(xid)
}

// SetScreenVendor records v as the single vendor responsible for screen.
// Last write wins; vendor negotiation itself happens in the host, which
// calls this once per successful negotiation.
func (s *Server) SetScreenVendor(screen int, v Vendor) error {
	if v == nil {
		return ErrNilVendor
	}
	if screen < 0 {
		return protocolError(glxproto.BadValue, uint32(screen), ErrNoVendor)
	}

	s.mu.Lock()
	s.screens[screen] = v
	s.mu.Unlock()

	Logger().Info("glxvnd: vendor bound to screen", "screen", screen, "vendor", v.Name())
	return nil
}

// ScreenVendor returns the vendor registered for screen.
func (s *Server) ScreenVendor(screen int) (Vendor, bool) {
	s.mu.RLock()
	v, ok := s.screens[screen]
	s.mu.RUnlock()
	return v, ok
}

// VendorForScreen resolves the vendor for a client's screen-scoped request.
// It is the default resolution path when no more specific binding exists.
// The client parameter allows per-client overrides; the current policy has
// none and falls through to the screen's registered vendor.
func (s *Server) VendorForScreen(_ *Client, screen int) (Vendor, bool) {
	return s.ScreenVendor(screen)
}

// clientData returns c's per-client state, creating it on first use.
func (s *Server) clientData(c *Client) *clientData {
	s.mu.RLock()
	d, ok := s.clients[c]
	s.mu.RUnlock()
	if ok {
		return d
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.clients[c]; ok {
		return d
	}
	d = &clientData{}
	s.clients[c] = d
	return d
}

// peekClientData returns c's state without creating it.
func (s *Server) peekClientData(c *Client) (*clientData, bool) {
	s.mu.RLock()
	d, ok := s.clients[c]
	s.mu.RUnlock()
	return d, ok
}

// OnClientDisconnect tears down all dispatch state for c: every live tag
// slot and the client record itself. The host calls it once per client
// teardown; a duplicate call is a no-op, and a client that never had state
// tears down to nothing.
//
// For each live slot whose vendor implements [TagDataOwner], the vendor is
// given the slot before it is destroyed, so per-binding data does not leak
// when a client disconnects without unbinding.
func (s *Server) OnClientDisconnect(c *Client) {
	s.mu.Lock()
	d, ok := s.clients[c]
	if ok {
		delete(s.clients, c)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	live := d.liveSlots()
	for _, slot := range live {
		if owner, ok := slot.vendor.(TagDataOwner); ok {
			owner.ReleaseTagData(slot)
		}
		d.freeTag(slot)
	}

	Logger().Info("glxvnd: client state destroyed", "client", c.ID, "tags", len(live))
}

// Reset drops every binding, screen entry, and client record, returning
// the Server to its freshly created state. Hosts call it on server
// regeneration, when all clients are already gone.
func (s *Server) Reset() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*Client]*clientData)
	s.screens = make(map[int]Vendor)
	s.mu.Unlock()

	for c := range clients {
		d := clients[c]
		for _, slot := range d.liveSlots() {
			if owner, ok := slot.vendor.(TagDataOwner); ok {
				owner.ReleaseTagData(slot)
			}
			d.freeTag(slot)
		}
	}

	s.resources.clear()
	Logger().Info("glxvnd: dispatch state reset")
}

// Stats is a snapshot of the Server's table sizes and lookup counters.
type Stats struct {
	// Resources is the number of live XID bindings.
	Resources int

	// Screens is the number of screens with a registered vendor.
	Screens int

	// Clients is the number of clients with live dispatch state.
	Clients int

	// ResourceHits and ResourceMisses count XID lookups since creation.
	ResourceHits   uint64
	ResourceMisses uint64
}

// Stats returns current table sizes and lookup counters. The counters are
// read atomically; the sizes are consistent per table, not across tables.
func (s *Server) Stats() Stats {
	s.mu.RLock()
	screens := len(s.screens)
	clients := len(s.clients)
	s.mu.RUnlock()

	return Stats{
		Resources:      s.resources.len(),
		Screens:        screens,
		Clients:        clients,
		ResourceHits:   s.resources.hits.Load(),
		ResourceMisses: s.resources.misses.Load(),
	}
}
