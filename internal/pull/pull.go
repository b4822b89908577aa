package pull

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

// Codec tells the pull package how to read and write a projected
// parameter of type P on the wire. A logistic-regression deployment's
// codec is a single float64; a richer model plugs in a wider one without
// this package changing.
type Codec[P any] struct {
	Put func(b *wire.Buffer, v P)
	Get func(b *wire.Buffer) P
}

func encodeKeys(keys []table.Key) []byte {
	b := &wire.Buffer{}
	b.PutUint32(uint32(len(keys)))
	for _, k := range keys {
		b.PutUint64(k)
	}
	return b.Bytes()
}

func decodeKeys(raw []byte) []table.Key {
	b := wire.NewBuffer(raw)
	n := b.GetUint32()
	keys := make([]table.Key, n)
	for i := range keys {
		keys[i] = b.GetUint64()
	}
	return keys
}

func encodeResponse[P any](params map[table.Key]P, codec Codec[P]) []byte {
	b := &wire.Buffer{}
	b.PutUint32(uint32(len(params)))
	for k, v := range params {
		b.PutUint64(k)
		codec.Put(b, v)
	}
	return b.Bytes()
}

func decodeResponse[P any](raw []byte, codec Codec[P]) map[table.Key]P {
	b := wire.NewBuffer(raw)
	n := b.GetUint32()
	out := make(map[table.Key]P, n)
	for i := uint32(0); i < n; i++ {
		k := b.GetUint64()
		out[k] = codec.Get(b)
	}
	return out
}

// NewHandler builds the server-side transport.Handler for a pull message
// class: it decodes the requested keys, resolves each through get (an
// access.PullAccessAgent's Get method, typically), and encodes the
// result set with codec.
func NewHandler[P any](get func(table.Key) P, codec Codec[P]) transport.Handler {
	return func(ctx context.Context, payload []byte) []byte {
		keys := decodeKeys(payload)
		out := make(map[table.Key]P, len(keys))
		for _, k := range keys {
			out[k] = get(k)
		}
		return encodeResponse(out, codec)
	}
}

// WithBarrier partitions keys by the node each one's hash assigns it to,
// sends one pull request per non-empty partition concurrently, and
// returns only once every request has either completed or failed. On the
// first failure observed, the overall call fails; keys from nodes that
// did respond are still discarded, since a partial result would let a
// caller silently train against stale values for the keys that failed.
func WithBarrier[P any](ctx context.Context, trans *transport.Transport, rt *route.Table, class int32, keys []table.Key, codec Codec[P]) (map[table.Key]P, error) {
	buckets := make(map[hashfrag.NodeID][]table.Key)
	for _, k := range keys {
		id := rt.EntryForKey(k).ID
		buckets[id] = append(buckets[id], k)
	}

	results := make(map[table.Key]P, len(keys))
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	for id, bucketKeys := range buckets {
		wg.Add(1)
		go func(id hashfrag.NodeID, bucketKeys []table.Key) {
			defer wg.Done()
			resp, err := trans.Send(ctx, id, class, encodeKeys(bucketKeys))
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("pull: node %d: %w", id, err)
				}
				mu.Unlock()
				return
			}
			decoded := decodeResponse(resp, codec)
			mu.Lock()
			for k, v := range decoded {
				results[k] = v
			}
			mu.Unlock()
		}(id, bucketKeys)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// IntoCache runs WithBarrier for keys and stores every returned parameter
// into c, the common case of a worker refreshing its local copy before a
// minibatch.
func IntoCache[P any](ctx context.Context, trans *transport.Transport, rt *route.Table, class int32, keys []table.Key, codec Codec[P], c *cache.Cache[P]) error {
	results, err := WithBarrier(ctx, trans, rt, class, keys, codec)
	if err != nil {
		return err
	}
	for k, v := range results {
		c.SetParam(k, v)
	}
	return nil
}
