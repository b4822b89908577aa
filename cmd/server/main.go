// Command server runs one parameter-server node: it holds a shard of the
// sharded table, answers pull and push requests over the transport
// layer, registers itself with the cluster rendezvous registry, and
// exposes a small HTTP admin surface for health checks and introspection.
//
// Configuration:
//   - SERVER_ID: this node's unique identifier (required)
//   - SERVER_LISTEN: transport listen address (default: ":9000")
//   - SERVER_ADDR: address other nodes should dial to reach this one
//     (default: "127.0.0.1" + SERVER_LISTEN)
//   - SERVER_ADMIN_LISTEN: HTTP admin listen address (default: ":9001")
//   - REGISTRY_ADDR: rendezvous registry base URL (default: the config's
//     cluster.registry_addr)
//   - CONFIG_NAME / CONFIG_PATH: optional YAML config overrides, see
//     internal/config
package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dreamware/paramserver/internal/cluster"
	"github.com/dreamware/paramserver/internal/config"
	"github.com/dreamware/paramserver/internal/hashfrag"
	"github.com/dreamware/paramserver/internal/lr"
	"github.com/dreamware/paramserver/internal/pull"
	"github.com/dreamware/paramserver/internal/push"
	"github.com/dreamware/paramserver/internal/route"
	"github.com/dreamware/paramserver/internal/transport"
)

const (
	pullMessageClass int32 = 1
	pushMessageClass int32 = 2
)

var logFatal = log.Fatalf

func main() {
	cfg, err := config.Load(getenv("CONFIG_NAME", "server"), getenv("CONFIG_PATH", "."))
	if err != nil {
		logFatal("config: %v", err)
	}

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(lvl)
	}

	id := mustGetenv("SERVER_ID")
	listen := getenv("SERVER_LISTEN", cfg.Server.ListenAddr)
	public := getenv("SERVER_ADDR", "127.0.0.1"+listen)
	adminListen := getenv("SERVER_ADMIN_LISTEN", cfg.Server.AdminAddr)
	registryAddr := getenv("REGISTRY_ADDR", cfg.Cluster.RegistryAddr)

	ctx := context.Background()
	if err := cluster.RegisterWithRetry(ctx, registryAddr, cluster.NodeInfo{ID: id, Addr: public}, cluster.DefaultRetry); err != nil {
		logFatal("register: %v", err)
	}

	var nodes []cluster.NodeInfo
	if err := cluster.GetJSON(ctx, registryAddr+"/nodes", &nodes); err != nil {
		logFatal("fetch cluster nodes: %v", err)
	}
	rt := route.Build(nodes)

	var selfID hashfrag.NodeID
	for _, e := range rt.All() {
		if e.Addr == public {
			selfID = e.ID
		}
	}

	tb := lr.NewServerTable(cfg.Server.ShardNum)
	pullAgent, pushAgent := lr.NewServerAgents(tb, cfg.Server.InitialLearningRate, rand.New(rand.NewSource(time.Now().UnixNano())))

	trans := transport.New(selfID, listen, rt, cfg.Transport.NThreads, logger)
	if err := trans.RegisterHandler(pullMessageClass, pull.NewHandler(pullAgent.Get, lr.Codec)); err != nil {
		logFatal("register pull handler: %v", err)
	}
	if err := trans.RegisterHandler(pushMessageClass, push.NewHandler(pushAgent.Apply)); err != nil {
		logFatal("register push handler: %v", err)
	}
	if err := trans.Start(ctx, cfg.Transport.NThreads); err != nil {
		logFatal("transport start: %v", err)
	}
	defer trans.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         id,
			"node_id":    selfID,
			"addr":       public,
			"num_shards": tb.NumShards(),
			"num_nodes":  rt.NumNodes(),
		})
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"shard_num": tb.NumShards(),
		})
	})

	admin := &http.Server{Addr: adminListen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{"id": id, "listen": listen, "admin": adminListen}).Info("server: listening")
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logFatal("admin listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := admin.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server: admin shutdown error")
	}
	logger.Info("server: stopped")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustGetenv(k string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	logFatal("missing env %s", k)
	return ""
}
