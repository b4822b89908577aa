// Package integration exercises the full pull/push/barrier round trip
// across two in-process server nodes and a worker, the way a real run
// wires table, access, cache, route, transport, pull, push, and lr
// together.
package integration

import (
	"context"
	"math"
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/paramserver/internal/cluster"
	"github.com/dreamware/paramserver/internal/hashfrag"
	"github.com/dreamware/paramserver/internal/lr"
	"github.com/dreamware/paramserver/internal/pull"
	"github.com/dreamware/paramserver/internal/push"
	"github.com/dreamware/paramserver/internal/route"
	"github.com/dreamware/paramserver/internal/transport"
)

const (
	pullClass int32 = 1
	pushClass int32 = 2
)

func reserveAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

// TestCluster_PullLearnPushConvergesTowardLabel spins up two server
// shard-holders and one worker, runs a handful of rounds over eight
// single-feature, positively labeled examples (one per key, spread
// across both nodes), and checks every key's weight moves toward
// predicting the label.
func TestCluster_PullLearnPushConvergesTowardLabel(t *testing.T) {
	addrA := reserveAddr(t)
	addrB := reserveAddr(t)
	rt := route.Build([]cluster.NodeInfo{
		{ID: "server-0", Addr: addrA},
		{ID: "server-1", Addr: addrB},
	})

	rng := rand.New(rand.NewSource(1))
	tbA := lr.NewServerTable(4)
	tbB := lr.NewServerTable(4)
	pullA, pushA := lr.NewServerAgents(tbA, 0.5, rng)
	pullB, pushB := lr.NewServerAgents(tbB, 0.5, rng)

	serverA := transport.New(0, addrA, rt, 4, nil)
	serverB := transport.New(1, addrB, rt, 4, nil)
	require.NoError(t, serverA.RegisterHandler(pullClass, pull.NewHandler(pullA.Get, lr.Codec)))
	require.NoError(t, serverA.RegisterHandler(pushClass, push.NewHandler(pushA.Apply)))
	require.NoError(t, serverB.RegisterHandler(pullClass, pull.NewHandler(pullB.Get, lr.Codec)))
	require.NoError(t, serverB.RegisterHandler(pushClass, push.NewHandler(pushB.Apply)))

	ctx := context.Background()
	require.NoError(t, serverA.Start(ctx, 4))
	require.NoError(t, serverB.Start(ctx, 4))
	t.Cleanup(serverA.Stop)
	t.Cleanup(serverB.Stop)

	worker := transport.New(hashfrag.NodeID(-1), reserveAddr(t), rt, 4, nil)
	require.NoError(t, worker.Start(ctx, 4))
	t.Cleanup(worker.Stop)

	// A handful of keys spread across both server nodes, all positively
	// labeled so weights should only move upward.
	keys := []uint64{1, 2, 3, 4, 5, 6, 7, 8}

	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	before, err := pull.WithBarrier(sendCtx, worker, rt, pullClass, keys, lr.Codec)
	require.NoError(t, err)
	require.Len(t, before, len(keys))

	for round := 0; round < 10; round++ {
		grads := make(map[uint64]float64, len(keys))
		for _, k := range keys {
			current, err := pull.WithBarrier(sendCtx, worker, rt, pullClass, []uint64{k}, lr.Codec)
			require.NoError(t, err)
			// Hand-computed gradient for a single-feature example with
			// target 1: error = 1 - sigmoid(weight).
			w := current[k]
			predict := 1.0 / (1.0 + math.Exp(-w))
			grads[k] = 1.0 - predict
		}
		require.NoError(t, push.WithBarrier(sendCtx, worker, rt, pushClass, grads))
	}

	after, err := pull.WithBarrier(sendCtx, worker, rt, pullClass, keys, lr.Codec)
	require.NoError(t, err)

	for _, k := range keys {
		assert.Greater(t, after[k], before[k], "weight for a consistently positive example must increase")
	}
}
