package hashfrag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Deterministic(t *testing.T) {
	r := NewRouter([]NodeID{10, 20, 30})
	for _, key := range []uint64{1, 2, 3, 4, 100, 9999} {
		first := r.ToNodeID(key)
		second := r.ToNodeID(key)
		assert.Equal(t, first, second, "same key must always route to the same node")
	}
}

func TestRouter_SpansAllNodes(t *testing.T) {
	r := NewRouter([]NodeID{0, 1})
	seen := map[NodeID]bool{}
	for key := uint64(0); key < 200; key++ {
		seen[r.ToNodeID(key)] = true
	}
	require.Len(t, seen, 2, "keys should distribute across both configured nodes")
}

func TestHashKey_Stable(t *testing.T) {
	assert.Equal(t, HashKey(42), HashKey(42))
	assert.NotEqual(t, HashKey(42), HashKey(43))
}
