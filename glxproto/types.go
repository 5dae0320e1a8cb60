package glxproto

// Protocol identifiers
//
// These opaque values identify protocol resources. The dispatch layer never
// interprets them beyond equality; allocation and meaning belong to the
// hosting server and the vendor drivers.

// XID is an X protocol resource identifier. GLX contexts, GLX drawables
// (windows, pixmaps, pbuffers), and FB configs are all named by XIDs from
// the same ID space.
type XID uint32

// None is the XID wildcard: no resource. MakeCurrent requests use it to
// release the current context or drawable.
const None XID = 0

// ContextTag identifies a current context binding on one client connection.
// Tags are small dense integers minted by the dispatch layer when a
// MakeCurrent request succeeds; they are meaningful only on the connection
// that created them.
type ContextTag uint32

// TagNone is the zero ContextTag: no binding. Requests that operate on the
// current context carry TagNone when nothing is current.
const TagNone ContextTag = 0
