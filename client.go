package glxvnd

import (
	"github.com/gogpu/glxvnd/glxproto"
)

// ClientID identifies a client connection in the hosting server's numbering.
// The dispatch layer uses it only for logging; client identity is the
// *Client pointer, so numerically equal IDs on different connections can
// never alias.
type ClientID uint32

// Client is one client connection. The hosting server constructs exactly
// one Client per connection and passes the same pointer to every dispatch
// for that connection, then to [Server.OnClientDisconnect] at teardown.
//
// The dispatch layer attaches its per-client state (the context tag slots)
// to the Client lazily inside the Server; the Client itself stays a plain
// host-owned value.
type Client struct {
	// ID is the hosting server's number for this connection.
	ID ClientID

	// Swapped reports that the client's byte order differs from the
	// server's. See [CheckSwap].
	Swapped bool
}

// CheckSwap returns v byte-swapped when the client's byte order differs
// from the server's, and unchanged otherwise. It is the boundary helper
// for encoding reply fields; request fields arrive already swapped by the
// protocol decoder.
func CheckSwap(c *Client, v uint32) uint32 {
	if c != nil && c.Swapped {
		return glxproto.Swap32(v)
	}
	return v
}
