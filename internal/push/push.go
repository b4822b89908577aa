package push

import (
	"context"
	"fmt"
	"sync"

	"github.com/dreamware/paramserver/internal/cache"
	"github.com/dreamware/paramserver/internal/hashfrag"
	"github.com/dreamware/paramserver/internal/route"
	"github.com/dreamware/paramserver/internal/table"
	"github.com/dreamware/paramserver/internal/transport"
	"github.com/dreamware/paramserver/internal/wire"
)

func encodeGrads(grads map[table.Key]cache.Grad) []byte {
	b := &wire.Buffer{}
	b.PutUint32(uint32(len(grads)))
	for k, g := range grads {
		b.PutUint64(k)
		b.PutFloat64(g)
	}
	return b.Bytes()
}

func decodeGrads(raw []byte) map[table.Key]cache.Grad {
	b := wire.NewBuffer(raw)
	n := b.GetUint32()
	out := make(map[table.Key]cache.Grad, n)
	for i := uint32(0); i < n; i++ {
		k := b.GetUint64()
		out[k] = b.GetFloat64()
	}
	return out
}

// NewHandler builds the server-side transport.Handler for a push message
// class: it decodes the incoming (key, averaged gradient) pairs and folds
// each into the table through apply (an access.PushAccessAgent's Apply
// method, typically). Once every gradient is applied it returns a short
// acknowledgement (the number of gradients applied) so that the sender's
// Send, and with it the push barrier, completes.
func NewHandler(apply func(key table.Key, grad cache.Grad)) transport.Handler {
	return func(ctx context.Context, payload []byte) []byte {
		grads := decodeGrads(payload)
		for k, g := range grads {
			apply(k, g)
		}
		ack := &wire.Buffer{}
		ack.PutUint32(uint32(len(grads)))
		return ack.Bytes()
	}
}

// WithBarrier partitions grads by the node each key's hash assigns it to,
// sends one push request per non-empty partition concurrently, and
// returns once every request has either been acknowledged or failed; the
// first failure observed is the one returned. An
// empty grads map (every key in this round had nothing accumulated) sends
// nothing.
func WithBarrier(ctx context.Context, trans *transport.Transport, rt *route.Table, class int32, grads map[table.Key]cache.Grad) error {
	buckets := make(map[hashfrag.NodeID]map[table.Key]cache.Grad)
	for k, g := range grads {
		id := rt.EntryForKey(k).ID
		bucket, ok := buckets[id]
		if !ok {
			bucket = make(map[table.Key]cache.Grad)
			buckets[id] = bucket
		}
		bucket[k] = g
	}

	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	for id, bucket := range buckets {
		wg.Add(1)
		go func(id hashfrag.NodeID, bucket map[table.Key]cache.Grad) {
			defer wg.Done()
			if _, err := trans.Send(ctx, id, class, encodeGrads(bucket)); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("push: node %d: %w", id, err)
				}
				mu.Unlock()
			}
		}(id, bucket)
	}
	wg.Wait()
	return firstErr
}

// FromCache drains every accumulated gradient out of c and pushes the
// result with WithBarrier, the common case of a worker flushing what it
// has learned at the end of a minibatch. Gradient accumulation is
// independent of the cached parameter's own type P, so this works
// regardless of what a worker's params look like.
func FromCache[P any](ctx context.Context, trans *transport.Transport, rt *route.Table, class int32, c *cache.Cache[P]) error {
	return WithBarrier(ctx, trans, rt, class, c.DrainGrads())
}
