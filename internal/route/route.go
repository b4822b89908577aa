package route

import (
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/dreamware/paramserver/internal/cluster"
	"github.com/dreamware/paramserver/internal/hashfrag"
)

// Entry is one server node's address plus the lock that serializes writes
// to its connection. The lock lives here rather than on the connection
// itself so that a caller can take it before a connection even exists
// (e.g. while dialing for the first time).
type Entry struct {
	ID   hashfrag.NodeID
	Addr string

	sendMu sync.Mutex
}

// Lock acquires the entry's send lock. Callers must pair this with Unlock
// around the two-part atomic frame write described by the transport
// package; holding it across an entire request/response round trip would
// serialize unrelated in-flight requests, so it must be released as soon
// as the frame is written.
func (e *Entry) Lock() { e.sendMu.Lock() }

// Unlock releases the entry's send lock.
func (e *Entry) Unlock() { e.sendMu.Unlock() }

// Table is the resolved node-id→address mapping for one run, built once
// at bootstrap from the set of nodes that answered the rendezvous
// registry.
type Table struct {
	router  *hashfrag.Router
	entries []*Entry
}

// Build sorts nodes by their string id (for a stable, registration-order
// independent node-id assignment) and constructs a Table over them.
func Build(nodes []cluster.NodeInfo) *Table {
	sorted := make([]cluster.NodeInfo, len(nodes))
	copy(sorted, nodes)
	slices.SortFunc(sorted, func(a, b cluster.NodeInfo) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	entries := make([]*Entry, len(sorted))
	ids := make([]hashfrag.NodeID, len(sorted))
	for i, n := range sorted {
		ids[i] = hashfrag.NodeID(i)
		entries[i] = &Entry{ID: hashfrag.NodeID(i), Addr: n.Addr}
	}

	return &Table{router: hashfrag.NewRouter(ids), entries: entries}
}

// NumNodes returns the number of server nodes this Table was built over.
func (t *Table) NumNodes() int {
	return len(t.entries)
}

// EntryForKey returns the Entry owning key.
func (t *Table) EntryForKey(key uint64) *Entry {
	return t.entries[t.router.ToNodeID(key)]
}

// Entry returns the Entry for a specific node id, or an error if id is out
// of range for this Table.
func (t *Table) Entry(id hashfrag.NodeID) (*Entry, error) {
	if int(id) < 0 || int(id) >= len(t.entries) {
		return nil, fmt.Errorf("route: node id %d out of range [0,%d)", id, len(t.entries))
	}
	return t.entries[id], nil
}

// All returns every entry in stable node-id order.
func (t *Table) All() []*Entry {
	return t.entries
}
