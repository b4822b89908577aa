package cache

import (
	"sync"

	"github.com/dreamware/paramserver/internal/table"
)

// Key identifies a parameter, shared with the server-side table package.
type Key = table.Key

// Grad is the scalar gradient contribution for a single key. Accumulation
// is a running sum plus a count, so the pushed value can be the average
// rather than the sum of however many examples touched the key this round.
type Grad = float64

type gradAccum struct {
	sum   Grad
	count int
}

// Cache holds a worker's locally pulled parameters and not-yet-pushed
// gradient accumulators, both under a single lock. Params and grads are
// logically separate maps but share one mutex because every real access
// pattern (a training step reads a param and then accumulates a gradient
// for the same key) touches both together.
type Cache[P any] struct {
	mu     sync.RWMutex
	params map[Key]P
	grads  map[Key]*gradAccum
}

// New builds an empty Cache.
func New[P any]() *Cache[P] {
	return &Cache[P]{
		params: make(map[Key]P),
		grads:  make(map[Key]*gradAccum),
	}
}

// InitKeys pre-registers zeroed gradient accumulators for keys, so that a
// minibatch's worth of training touches no map outside the hot path once
// training starts. It does not affect params.
func (c *Cache[P]) InitKeys(keys []Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if _, ok := c.grads[k]; !ok {
			c.grads[k] = &gradAccum{}
		}
	}
}

// SetParam records the pulled value for key, overwriting any prior value.
func (c *Cache[P]) SetParam(key Key, val P) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params[key] = val
}

// Param returns the cached value for key and whether it has been pulled.
func (c *Cache[P]) Param(key Key) (P, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.params[key]
	return v, ok
}

// AddGrad accumulates g into key's running sum and count. This takes the
// full write lock rather than a read lock: two training goroutines can
// accumulate into the same key's *gradAccum concurrently, and RLock alone
// would let both mutate sum/count without synchronization between
// themselves.
func (c *Cache[P]) AddGrad(key Key, g Grad) {
	c.mu.Lock()
	defer c.mu.Unlock()
	acc, ok := c.grads[key]
	if !ok {
		acc = &gradAccum{}
		c.grads[key] = acc
	}
	acc.sum += g
	acc.count++
}

// DrainGrads returns the average gradient for every key with a nonzero
// accumulation count, then resets every accumulator to zero so the next
// minibatch starts clean. A key with count zero contributed nothing this
// round and is omitted rather than sent as a zero push, since a zero
// gradient for an untouched key is not the same fact as an observed zero
// gradient.
func (c *Cache[P]) DrainGrads() map[Key]Grad {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Key]Grad, len(c.grads))
	for k, acc := range c.grads {
		if acc.count == 0 {
			continue
		}
		out[k] = acc.sum / Grad(acc.count)
		acc.sum = 0
		acc.count = 0
	}
	return out
}
