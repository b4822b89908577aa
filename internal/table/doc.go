// Package table implements the server-side sharded sparse table: a
// key→parameter store partitioned into a fixed number of shards, each
// guarded by its own reader/writer lock, so that concurrent pull and push
// traffic touching different shards never contends on the same mutex.
//
// # Overview
//
// A Table is the authoritative store of every parameter a server node
// holds. It is sparse: a key exists in the table only once some pull has
// lazily initialized it, and it is never removed once created. The table
// itself carries no learning-rule knowledge — initialization and update
// policy are injected from internal/access — so the same Table type
// serves any parameter shape a deployment needs, generic over the stored
// value type V.
//
// # Architecture
//
//	┌────────────────────────────────────────────┐
//	│                   TABLE                      │
//	├────────────────────────────────────────────┤
//	│                                              │
//	│  ShardOf(key) = hash(key) mod NumShards       │
//	│                                              │
//	│  ┌────────┐ ┌────────┐ ┌────────┐ ┌────────┐ │
//	│  │Shard 0 │ │Shard 1 │ │Shard 2 │ │Shard 3 │ │
//	│  │RWMutex │ │RWMutex │ │RWMutex │ │RWMutex │ │
//	│  │map[K]V │ │map[K]V │ │map[K]V │ │map[K]V │ │
//	│  │+padding│ │+padding│ │+padding│ │+padding│ │
//	│  └────────┘ └────────┘ └────────┘ └────────┘ │
//	│                                              │
//	│  Find(k)   → RLock shard, lookup             │
//	│  Assign(k) → Lock shard, overwrite            │
//	│  Mutate(k) → Lock shard, read-modify-write    │
//	└────────────────────────────────────────────┘
//
// # Key Space Partitioning
//
// A key's shard is fixed for the life of the process:
//
//	shard index = hash.FNV-1a(key's 8-byte little-endian layout) mod NumShards
//
// Unlike a range-partitioned store, there is no notion of a shard "owning"
// a contiguous key range; FNV-1a scatters keys uniformly across shards
// regardless of how clustered the key domain is (a sparse LR model's
// feature ids are rarely uniform on their own, which is exactly why a
// hash rather than a range is used). The mapping is computed by
// internal/hashfrag so that the table and the worker-side routing layer
// (internal/route) always agree on which node — and, within a server
// node's own table, which shard — a key belongs to.
//
// # Concurrency Model
//
// Read operations (Find):
//   - Take the owning shard's RLock only; any number of goroutines may
//     read different keys, or even the same key, in the same shard
//     concurrently.
//
// Write operations (Assign, Mutate):
//   - Take the owning shard's exclusive Lock for the duration of the
//     read-modify-write; Mutate's callback runs while the lock is held, so
//     it must not itself call back into the table or block for long.
//
// Cross-shard behavior:
//   - A request batch touching k keys uniformly distributed across
//     shards holds at most one lock per shard at a time, so up to
//     NumShards concurrent operations can proceed without contending.
//   - There is no cross-shard transaction: a batch that touches several
//     shards acquires and releases each shard's lock independently, one
//     key at a time, never holding two shard locks simultaneously.
//
// False sharing:
//   - Each Shard carries a trailing padding field so that two adjacent
//     shards' RWMutex and map header do not share a cache line; this is
//     the Go analogue of the explicit cache-line alignment a systems
//     language would apply to each shard struct, and matters once
//     NumShards is large enough that shards are densely packed in the
//     backing slice.
//
// # Limitations and Future Work
//
//   - Fixed shard count: NumShards is set at construction and never
//     changes, since cluster membership itself is fixed for a run;
//     resharding would require rebuilding the table and is out of scope.
//   - No eviction: a key assigned during a run is never removed — a
//     parameter's lifetime is the run's lifetime.
//   - No persistence: the table is purely in-memory; there is no
//     durability or replication story here.
//
// # See Also
//
// Related packages:
//   - internal/hashfrag: the shared hash used for both shard selection
//     here and node routing in internal/route.
//   - internal/access: the pull/push policy layer that is the table's
//     only caller, injecting InitParam/Project/Apply.
package table
