package table

import (
	"sync"

	"github.com/dreamware/paramserver/internal/hashfrag"
)

// Key is the integer identifier under which a parameter is stored. A real
// deployment will typically derive it from a hashed feature name, but the
// table itself is opaque to that derivation.
type Key = uint64

// Shard is one partition of a Table. Each shard owns its map and lock
// independently, so two goroutines touching keys in different shards never
// contend.
//
// pad exists only to push adjacent shards further apart in memory than a
// bare sync.RWMutex + map header would land them, the Go analogue of the
// cache-line alignment a systems-language port of this table would apply
// explicitly to each shard.
type Shard[V any] struct {
	mu   sync.RWMutex
	data map[Key]V
	pad  [64]byte
}

func newShard[V any]() *Shard[V] {
	return &Shard[V]{data: make(map[Key]V)}
}

// find looks up key within this shard under a read lock.
func (s *Shard[V]) find(key Key) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// assign stores val under key within this shard under a write lock.
func (s *Shard[V]) assign(key Key, val V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = val
}

// mutate runs fn against the current value for key (the zero value if
// absent) under a write lock and stores the result back. fn's second
// argument reports whether the key already existed.
func (s *Shard[V]) mutate(key Key, fn func(V, bool) V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.data[key]
	s.data[key] = fn(cur, ok)
}

// Table is a fixed-size sharded key→parameter store. The shard count is set
// at construction and never changes for the life of the Table: a key's
// shard assignment, and therefore which lock guards it, is stable for the
// process's lifetime.
type Table[V any] struct {
	shards []*Shard[V]
}

// New builds a Table with the given number of shards. A numShards below 1
// is raised to 1.
func New[V any](numShards int) *Table[V] {
	if numShards < 1 {
		numShards = 1
	}
	shards := make([]*Shard[V], numShards)
	for i := range shards {
		shards[i] = newShard[V]()
	}
	return &Table[V]{shards: shards}
}

// NumShards returns the shard count this Table was constructed with.
func (t *Table[V]) NumShards() int {
	return len(t.shards)
}

// ShardOf returns the index of the shard that owns key, using the same
// documented hash as the cluster-wide node router so that shard ownership
// never depends on a language or platform's default hash ABI.
func (t *Table[V]) ShardOf(key Key) int {
	return int(hashfrag.HashKey(key) % uint64(len(t.shards)))
}

// Find looks up the parameter stored under key. The ok result is false if
// the key has never been assigned.
func (t *Table[V]) Find(key Key) (V, bool) {
	return t.shards[t.ShardOf(key)].find(key)
}

// Assign stores val under key, overwriting any existing value.
func (t *Table[V]) Assign(key Key, val V) {
	t.shards[t.ShardOf(key)].assign(key, val)
}

// Mutate applies fn to the current value stored under key (the zero value
// and ok=false if key is unassigned) and stores fn's result back, all while
// holding the owning shard's write lock. It is the building block for
// in-place updates (e.g. applying a gradient) that must not race with a
// concurrent Find or Assign on the same key.
func (t *Table[V]) Mutate(key Key, fn func(current V, ok bool) V) {
	t.shards[t.ShardOf(key)].mutate(key, fn)
}
