// Package hashfrag implements the stable key→node-id mapping that lets an
// arbitrary worker decide which server owns a key without coordination.
//
// The hash is documented and fixed (FNV-1a over the key's 8-byte
// little-endian layout) rather than left to a language's default map/hash ABI, so that
// the same key always routes to the same node regardless of which process
// or platform computes it. This mirrors the consistent-hashing approach
// already used for shard ownership in this codebase's table package.
package hashfrag

import (
	"encoding/binary"
	"hash/fnv"
)

// NodeID identifies a node in the fixed cluster node list.
type NodeID int32

// Router maps keys to node ids over a fixed-size node set established at
// cluster bootstrap. The node count never changes during a run (no dynamic
// membership), so Router carries no lock.
type Router struct {
	nodes []NodeID
}

// NewRouter builds a Router over the given ordered node ids. The order is
// significant only in that it is stable for the life of the Router; callers
// that need deterministic bucket iteration order should pass an
// already-sorted slice.
func NewRouter(nodes []NodeID) *Router {
	cp := make([]NodeID, len(nodes))
	copy(cp, nodes)
	return &Router{nodes: cp}
}

// NumNodes returns the number of nodes this router was constructed with.
func (r *Router) NumNodes() int {
	return len(r.nodes)
}

// ToNodeID returns the node responsible for key, using FNV-1a over the
// key's little-endian byte representation modulo the node count.
func (r *Router) ToNodeID(key uint64) NodeID {
	return r.nodes[HashKey(key)%uint64(len(r.nodes))]
}

// HashKey computes the documented, platform-independent hash of a key.
// Exposed separately from ToNodeID so callers (e.g. the sharded table) can
// reuse the same algorithm for shard selection.
func HashKey(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}
