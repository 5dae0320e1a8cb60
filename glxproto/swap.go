package glxproto

import "math/bits"

// Swap32 returns v with its byte order reversed. Requests from a client
// whose endianness differs from the server's carry their 32-bit fields
// byte-swapped; Swap32 converts in either direction.
func Swap32(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}
