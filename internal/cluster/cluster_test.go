package cluster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndList(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NodeInfo{ID: "server-0", Addr: "127.0.0.1:9000"})
	reg.Register(NodeInfo{ID: "server-1", Addr: "127.0.0.1:9001"})

	assert.Equal(t, 2, reg.Count())
	nodes := reg.List()
	assert.Len(t, nodes, 2)
}

func TestRegistry_RegisterOverwritesSameID(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NodeInfo{ID: "server-0", Addr: "127.0.0.1:9000"})
	reg.Register(NodeInfo{ID: "server-0", Addr: "127.0.0.1:9999"})

	require.Equal(t, 1, reg.Count())
	assert.Equal(t, "127.0.0.1:9999", reg.List()[0].Addr)
}

func TestRegisterWithRetry_SucceedsAgainstRunningRegistry(t *testing.T) {
	reg := NewRegistry()
	mux := http.NewServeMux()
	mux.HandleFunc("/register", reg.HandleRegister)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := RegisterWithRetry(ctx, srv.URL, NodeInfo{ID: "worker-0", Addr: "127.0.0.1:9500"}, RetryConfig{Attempts: 3, Delay: 10 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Count())
}

func TestRegisterWithRetry_FailsAfterExhaustingAttempts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := RegisterWithRetry(ctx, "http://127.0.0.1:0", NodeInfo{ID: "worker-0", Addr: "x"}, RetryConfig{Attempts: 2, Delay: time.Millisecond})
	assert.Error(t, err)
}

func TestHandleList_ReturnsJSONArray(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NodeInfo{ID: "server-0", Addr: "127.0.0.1:9000"})

	srv := httptest.NewServer(http.HandlerFunc(reg.HandleList))
	defer srv.Close()

	var nodes []NodeInfo
	err := GetJSON(context.Background(), srv.URL, &nodes)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "server-0", nodes[0].ID)
}
