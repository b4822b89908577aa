// Package wire implements the binary framing buffer used for every message
// that crosses the transport: a growable byte slice with an independent
// write-end and read-cursor, plus primitive append/consume for the
// fixed-width integer and floating-point types the wire protocol carries.
//
// The buffer assumes a homogeneous cluster: values are encoded in the
// host's native byte order and width, exactly as the reference
// implementation's BinaryBuffer does with raw memcpy. There is no attempt
// at cross-architecture portability; that tradeoff buys a primitive
// append/consume path with no per-value encoding overhead.
//
// Reading past the write-end is a programmer error, not a recoverable
// condition: every Get* method panics rather than returning an error,
// mirroring the reference implementation's CHECK(!read_finished()).
package wire
